package rest

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rocketscienceinc/holdem-client/internal/entity"
	"github.com/rocketscienceinc/holdem-client/internal/sandbox"
)

type lobby interface {
	Register(username, email, password string) error
	Login(username, password string) (*entity.Session, error)
	IssueTicket(token string) (string, error)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type authHandler struct {
	logger *slog.Logger
	lobby  lobby
}

func newAuthHandler(logger *slog.Logger, lobby lobby) *authHandler {
	return &authHandler{
		logger: logger.With("component", "rest-auth"),
		lobby:  lobby,
	}
}

func (that *authHandler) Login(c echo.Context) error {
	log := that.logger.With("method", "Login")

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "invalid request body"})
	}

	session, err := that.lobby.Login(req.Username, req.Password)
	if err != nil {
		log.Info("login rejected", "username", req.Username, "error", err)
		return c.JSON(http.StatusUnauthorized, messageResponse{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, session)
}

func (that *authHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "invalid request body"})
	}

	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "username and password are required"})
	}

	if err := that.lobby.Register(req.Username, req.Email, req.Password); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, sandbox.ErrUserExists) {
			status = http.StatusConflict
		}
		return c.JSON(status, messageResponse{Message: err.Error()})
	}

	return c.NoContent(http.StatusCreated)
}

func (that *authHandler) Ticket(c echo.Context) error {
	token, ok := strings.CutPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
	if !ok || token == "" {
		return c.JSON(http.StatusUnauthorized, messageResponse{Message: "missing bearer token"})
	}

	ticket, err := that.lobby.IssueTicket(token)
	if err != nil {
		that.logger.Info("ticket refused", "error", err)
		return c.JSON(http.StatusUnauthorized, messageResponse{Message: "invalid token"})
	}

	return c.JSON(http.StatusOK, map[string]string{"ticket": ticket})
}
