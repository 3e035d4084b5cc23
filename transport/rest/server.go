package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const shutdownTimeout = 5 * time.Second

type socketHandler interface {
	Handle(c echo.Context) error
}

// Server serves the sandbox auth API and the table socket on one port.
type Server struct {
	logger *slog.Logger
	echo   *echo.Echo
}

func NewServer(logger *slog.Logger, lobby lobby, socket socketHandler, authPath, wsPath string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	auth := newAuthHandler(logger, lobby)

	e.GET("/ping", pingHandler)
	e.GET(wsPath, socket.Handle)

	group := e.Group(authPath)
	group.POST("/login", auth.Login)
	group.POST("/register", auth.Register)
	group.POST("/ticket", auth.Ticket)

	return &Server{
		logger: logger.With("component", "rest"),
		echo:   e,
	}
}

// Handler exposes the routes, mostly for httptest.
func (that *Server) Handler() http.Handler {
	return that.echo
}

// Start - serves on port until ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	that.echo.Server.ReadTimeout = 10 * time.Second
	that.echo.Server.IdleTimeout = 30 * time.Second

	errCh := make(chan error, 1)
	go func() {
		errCh <- that.echo.Start(":" + port)
	}()

	that.logger.Info("sandbox listening", "port", port)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := that.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	return nil
}
