package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rocketscienceinc/holdem-client/internal/apperror"
	"github.com/rocketscienceinc/holdem-client/internal/entity"
)

type authAPI interface {
	Login(ctx context.Context, username, password string) (*entity.Session, error)
	Register(ctx context.Context, username, email, password string) error
	Ticket(ctx context.Context, token string) (string, error)
}

type sessionRepo interface {
	Save(ctx context.Context, profile string, session *entity.Session, ttl time.Duration) error
	Get(ctx context.Context, profile string) (*entity.Session, error)
	Delete(ctx context.Context, profile string) error
}

// Session holds the logged-in identity and hands out socket tickets for it.
type Session struct {
	logger  *slog.Logger
	api     authAPI
	repo    sessionRepo
	profile string
	now     func() time.Time

	mu      sync.RWMutex
	session *entity.Session
}

func NewSession(logger *slog.Logger, api authAPI, repo sessionRepo, profile string) *Session {
	return &Session{
		logger:  logger.With("component", "session"),
		api:     api,
		repo:    repo,
		profile: profile,
		now:     time.Now,
	}
}

// Login - authenticates and persists the session. A failed write to the
// repository is logged; the in-memory session still stands.
func (that *Session) Login(ctx context.Context, username, password string) error {
	log := that.logger.With("method", "Login", "username", username)

	session, err := that.api.Login(ctx, username, password)
	if err != nil {
		return fmt.Errorf("could not log in: %w", err)
	}

	that.mu.Lock()
	that.session = session
	that.mu.Unlock()

	var ttl time.Duration
	if expiresAt, ok := tokenExpiry(session.Token); ok {
		ttl = expiresAt.Sub(that.now())
	}

	if err = that.repo.Save(ctx, that.profile, session, max(ttl, 0)); err != nil {
		log.Warn("failed to persist session", "error", err)
	}

	log.Info("logged in", "player_id", session.PlayerID)

	return nil
}

func (that *Session) Register(ctx context.Context, username, email, password string) error {
	if err := that.api.Register(ctx, username, email, password); err != nil {
		return fmt.Errorf("could not register: %w", err)
	}

	return nil
}

func (that *Session) Logout(ctx context.Context) error {
	that.mu.Lock()
	that.session = nil
	that.mu.Unlock()

	if err := that.repo.Delete(ctx, that.profile); err != nil {
		return fmt.Errorf("could not forget session: %w", err)
	}

	return nil
}

// Restore - loads a persisted session. An expired token is discarded.
func (that *Session) Restore(ctx context.Context) error {
	session, err := that.repo.Get(ctx, that.profile)
	if err != nil {
		return fmt.Errorf("could not restore session: %w", err)
	}

	if expiresAt, ok := tokenExpiry(session.Token); ok && !that.now().Before(expiresAt) {
		if err = that.repo.Delete(ctx, that.profile); err != nil {
			that.logger.Warn("failed to drop expired session", "error", err)
		}

		return fmt.Errorf("could not restore session: token expired: %w", apperror.ErrSessionNotFound)
	}

	that.mu.Lock()
	that.session = session
	that.mu.Unlock()

	return nil
}

func (that *Session) IsLoggedIn() bool {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return that.session.IsValid()
}

// Username is empty when logged out.
func (that *Session) Username() string {
	that.mu.RLock()
	defer that.mu.RUnlock()

	if that.session == nil {
		return ""
	}

	return that.session.Username
}

func (that *Session) Identity() (entity.Session, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	if that.session == nil {
		return entity.Session{}, false
	}

	return *that.session, true
}

// ExpiresAt reads the exp claim of the token without verifying it.
func (that *Session) ExpiresAt() (time.Time, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	if !that.session.IsValid() {
		return time.Time{}, false
	}

	return tokenExpiry(that.session.Token)
}

// Ticket - asks the auth API for a fresh socket ticket.
func (that *Session) Ticket(ctx context.Context) (string, error) {
	that.mu.RLock()
	token := ""
	if that.session.IsValid() {
		token = that.session.Token
	}
	that.mu.RUnlock()

	if token == "" {
		return "", apperror.ErrNotLoggedIn
	}

	ticket, err := that.api.Ticket(ctx, token)
	if err != nil {
		return "", fmt.Errorf("%w: %w", apperror.ErrTicketUnavailable, err)
	}

	return ticket, nil
}

func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}

	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}

	return exp.Time, true
}

// IsNotLoggedIn reports whether err means there is no session to act for.
func IsNotLoggedIn(err error) bool {
	return errors.Is(err, apperror.ErrNotLoggedIn) || errors.Is(err, apperror.ErrSessionNotFound)
}
