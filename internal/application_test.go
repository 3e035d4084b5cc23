package application

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/holdem-client/internal/apperror"
	"github.com/rocketscienceinc/holdem-client/internal/config"
)

const (
	waitFor = 5 * time.Second
	tick    = 20 * time.Millisecond
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (that *syncBuffer) Write(p []byte) (int, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.buf.Write(p)
}

func (that *syncBuffer) String() string {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.buf.String()
}

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		LogLevel: "debug",
		Server: config.Server{
			BaseURL:          baseURL,
			WSPath:           "/ws",
			AuthPath:         "/api/auth",
			RequestTimeout:   2 * time.Second,
			HandshakeTimeout: 2 * time.Second,
		},
		Reconnect: config.Reconnect{
			BaseDelay:   10 * time.Millisecond,
			MaxDelay:    50 * time.Millisecond,
			MaxAttempts: 2,
		},
		Session: config.Session{Store: config.SessionStoreMemory, Profile: "test"},
		Player:  config.Player{SeatNo: -1},
		Sandbox: config.Sandbox{JWTSecret: "test-secret", StartChips: 10000},
	}
}

func startSandbox(t *testing.T, logger *slog.Logger) *config.Config {
	t.Helper()

	conf := testConfig("http://127.0.0.1")
	server := httptest.NewServer(NewSandboxServer(logger, conf).Handler())
	t.Cleanup(server.Close)

	conf.Server.BaseURL = server.URL

	return conf
}

func TestPlay(t *testing.T) {
	pterm.DisableStyling()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("Signs in, takes a seat and quits", func(t *testing.T) {
		// Given: a registered player configured to sit at seat 2 with 500 chips
		conf := startSandbox(t, logger)
		ctx := context.Background()

		require.NoError(t, Register(ctx, logger, conf, "carol", "carol@example.com", "secret"))

		conf.Player = config.Player{
			Username: "carol",
			Password: "secret",
			TableID:  "table-1",
			SeatNo:   2,
			BuyIn:    500,
		}

		in, input := io.Pipe()
		out := &syncBuffer{}
		done := make(chan error, 1)

		// When: playing
		go func() {
			done <- Play(ctx, logger, conf, in, out)
		}()

		// Then: the console shows the connection, the seat and the wallet after buy-in
		assert.Eventually(t, func() bool {
			text := out.String()
			return strings.Contains(text, "connected") &&
				strings.Contains(text, `table "table-1" seat 2`) &&
				strings.Contains(text, "wallet 9500.00")
		}, waitFor, tick, out.String())

		// When: quitting
		_, err := input.Write([]byte("quit\n"))
		require.NoError(t, err)

		select {
		case err = <-done:
			require.NoError(t, err)
		case <-time.After(waitFor):
			t.Fatal("play did not return after quit")
		}
	})

	t.Run("Fails without a session or credentials", func(t *testing.T) {
		conf := startSandbox(t, logger)

		err := Play(context.Background(), logger, conf, bytes.NewReader(nil), io.Discard)

		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})

	t.Run("Fails on wrong credentials", func(t *testing.T) {
		conf := startSandbox(t, logger)
		conf.Player.Username = "nobody"
		conf.Player.Password = "guess"

		err := Play(context.Background(), logger, conf, bytes.NewReader(nil), io.Discard)

		require.ErrorIs(t, err, apperror.ErrRequestFailed)
	})
}

func TestNewClient(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("Rejects an unknown session store", func(t *testing.T) {
		conf := testConfig("http://localhost:8080")
		conf.Session.Store = "disk"

		_, err := NewClient(context.Background(), logger, conf)

		require.Error(t, err)
	})

	t.Run("Rejects a base url without host", func(t *testing.T) {
		conf := testConfig("localhost")

		_, err := NewClient(context.Background(), logger, conf)

		require.Error(t, err)
	})

	t.Run("Takes no seat without a table", func(t *testing.T) {
		client, err := NewClient(context.Background(), logger, testConfig("http://localhost:8080"))
		require.NoError(t, err)
		defer client.Close()

		require.NoError(t, client.TakeSeat())
	})
}
