package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/rocketscienceinc/holdem-client/internal/apperror"
	"github.com/rocketscienceinc/holdem-client/internal/entity"
)

const (
	loginFailed        = "Login failed"
	registrationFailed = "Registration failed"
	ticketFailed       = "Failed to get ticket"
)

// APIError is a non-2xx answer from the auth API.
type APIError struct {
	Status  int
	Message string
}

func (that *APIError) Error() string {
	return that.Message
}

func (that *APIError) Unwrap() error {
	return apperror.ErrRequestFailed
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

type ticketResponse struct {
	Ticket string `json:"ticket"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// AuthAPI talks to the HTTP auth endpoints that sit next to the game socket.
type AuthAPI struct {
	logger   *slog.Logger
	client   *http.Client
	endpoint string
}

func NewAuthAPI(logger *slog.Logger, baseURL *url.URL, authPath string, timeout time.Duration) *AuthAPI {
	return &AuthAPI{
		logger:   logger.With("component", "auth-api"),
		client:   &http.Client{Timeout: timeout},
		endpoint: baseURL.JoinPath(authPath).String(),
	}
}

func (that *AuthAPI) Login(ctx context.Context, username, password string) (*entity.Session, error) {
	var session entity.Session

	err := that.post(ctx, "/login", "", loginRequest{Username: username, Password: password}, &session, loginFailed, true)
	if err != nil {
		return nil, err
	}

	return &session, nil
}

func (that *AuthAPI) Register(ctx context.Context, username, email, password string) error {
	return that.post(ctx, "/register", "", registerRequest{Username: username, Email: email, Password: password}, nil, registrationFailed, true)
}

// Ticket - exchanges the session token for a single-use socket ticket.
func (that *AuthAPI) Ticket(ctx context.Context, token string) (string, error) {
	var response ticketResponse

	if err := that.post(ctx, "/ticket", token, nil, &response, ticketFailed, false); err != nil {
		return "", err
	}

	if response.Ticket == "" {
		return "", fmt.Errorf("%w: empty ticket", apperror.ErrTicketUnavailable)
	}

	return response.Ticket, nil
}

// post - sends body as JSON and decodes a 2xx answer into out. serverMessage
// decides whether a failure carries the server's message or always fallback.
func (that *AuthAPI) post(ctx context.Context, path, token string, body, out any, fallback string, serverMessage bool) error {
	log := that.logger.With("method", "post", "path", path)

	var payload io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, that.endpoint+path, payload)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := that.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := &APIError{Status: resp.StatusCode, Message: fallback}

		var errBody errorResponse
		if serverMessage && json.NewDecoder(resp.Body).Decode(&errBody) == nil && errBody.Message != "" {
			apiErr.Message = errBody.Message
		}

		log.Warn("auth request rejected", "status", resp.StatusCode, "message", apiErr.Message)

		return apiErr
	}

	if out == nil {
		return nil
	}

	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}

	return nil
}
