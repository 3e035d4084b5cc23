package rest

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/holdem-client/internal/entity"
	"github.com/rocketscienceinc/holdem-client/internal/sandbox"
)

type noSocket struct{}

func (noSocket) Handle(c echo.Context) error {
	return c.NoContent(http.StatusTeapot)
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	lobby := sandbox.NewLobby("test-secret", 1000)

	return NewServer(logger, lobby, noSocket{}, "/api/auth", "/ws").Handler()
}

func do(handler http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec
}

func TestServer(t *testing.T) {
	t.Run("Answers ping", func(t *testing.T) {
		rec := do(newTestServer(t), http.MethodGet, "/ping", "", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "pong", rec.Body.String())
	})

	t.Run("Routes the socket path", func(t *testing.T) {
		rec := do(newTestServer(t), http.MethodGet, "/ws", "", "")

		assert.Equal(t, http.StatusTeapot, rec.Code)
	})

	t.Run("Register, login and ticket", func(t *testing.T) {
		// Given: a fresh server
		handler := newTestServer(t)

		// When: registering and logging in
		rec := do(handler, http.MethodPost, "/api/auth/register", "", `{"username":"bob","email":"bob@example.com","password":"secret"}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = do(handler, http.MethodPost, "/api/auth/login", "", `{"username":"bob","password":"secret"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var session entity.Session
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
		assert.Equal(t, "bob", session.Username)
		require.NotEmpty(t, session.Token)

		// Then: the token buys a ticket
		rec = do(handler, http.MethodPost, "/api/auth/ticket", session.Token, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var ticket map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ticket))
		assert.NotEmpty(t, ticket["ticket"])
	})

	t.Run("Rejects a duplicate registration", func(t *testing.T) {
		handler := newTestServer(t)
		body := `{"username":"bob","email":"bob@example.com","password":"secret"}`

		require.Equal(t, http.StatusCreated, do(handler, http.MethodPost, "/api/auth/register", "", body).Code)

		rec := do(handler, http.MethodPost, "/api/auth/register", "", body)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "username already taken")
	})

	t.Run("Rejects bad credentials and tokens", func(t *testing.T) {
		handler := newTestServer(t)

		rec := do(handler, http.MethodPost, "/api/auth/login", "", `{"username":"bob","password":"guess"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = do(handler, http.MethodPost, "/api/auth/ticket", "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = do(handler, http.MethodPost, "/api/auth/ticket", "not-a-jwt", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
