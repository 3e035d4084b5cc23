package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/holdem-client/internal/config"
	"github.com/rocketscienceinc/holdem-client/internal/console"
	"github.com/rocketscienceinc/holdem-client/internal/sandbox"
	"github.com/rocketscienceinc/holdem-client/transport/rest"
	"github.com/rocketscienceinc/holdem-client/transport/websocket"
)

// RunApp - signs in, connects and runs the console until quit or a signal.
func RunApp(logger *slog.Logger, conf *config.Config, in io.Reader, out io.Writer) error {
	ctx, cancel := withSignals(logger)
	defer cancel()

	return Play(ctx, logger, conf, in, out)
}

// Play - the console session behind RunApp, bound to ctx.
func Play(ctx context.Context, logger *slog.Logger, conf *config.Config, in io.Reader, out io.Writer) error {
	log := logger.With("component", "app")

	client, err := NewClient(ctx, logger, conf)
	if err != nil {
		return err
	}
	defer client.Close()

	if err = client.SignIn(ctx); err != nil {
		return err
	}

	observer := console.NewObserver(logger, out, client.Manager.Statuses(), client.Store, client.Wallet)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return observer.Run(groupCtx)
	})

	group.Go(func() error {
		if err := client.Connect(groupCtx); err != nil {
			return err
		}

		if err := client.Commands.GetBalance(); err != nil {
			return err
		}

		if err := client.TakeSeat(); err != nil {
			return err
		}

		if err := observer.Prompt(groupCtx, in, client.Commands); err != nil {
			return err
		}

		return console.ErrQuit
	})

	err = group.Wait()
	if errors.Is(err, console.ErrQuit) {
		log.Info("quit requested")
		return nil
	}

	return err
}

// Login - logs in and saves the session for later runs.
func Login(ctx context.Context, logger *slog.Logger, conf *config.Config, username, password string) error {
	client, err := NewClient(ctx, logger, conf)
	if err != nil {
		return err
	}
	defer client.Close()

	return client.Session.Login(ctx, username, password)
}

func Register(ctx context.Context, logger *slog.Logger, conf *config.Config, username, email, password string) error {
	client, err := NewClient(ctx, logger, conf)
	if err != nil {
		return err
	}
	defer client.Close()

	return client.Session.Register(ctx, username, email, password)
}

// Logout - forgets the saved session.
func Logout(ctx context.Context, logger *slog.Logger, conf *config.Config) error {
	client, err := NewClient(ctx, logger, conf)
	if err != nil {
		return err
	}
	defer client.Close()

	return client.Session.Logout(ctx)
}

// RunSandbox - serves the local stand-in server until a signal arrives.
func RunSandbox(logger *slog.Logger, conf *config.Config) error {
	ctx, cancel := withSignals(logger)
	defer cancel()

	server := NewSandboxServer(logger, conf)

	if err := server.Start(ctx, conf.Sandbox.Port); err != nil {
		return fmt.Errorf("sandbox server error: %w", err)
	}

	return nil
}

// NewSandboxServer - wires a fresh lobby behind the auth API and the table socket.
func NewSandboxServer(logger *slog.Logger, conf *config.Config) *rest.Server {
	lobby := sandbox.NewLobby(conf.Sandbox.JWTSecret, conf.Sandbox.StartChips)
	socket := websocket.New(logger, lobby)

	return rest.NewServer(logger, lobby, socket, conf.Server.AuthPath, conf.Server.WSPath)
}

func withSignals(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigs)

		select {
		case sig := <-sigs:
			logger.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
