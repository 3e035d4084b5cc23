package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/holdem-client/internal/config"
	"github.com/rocketscienceinc/holdem-client/internal/game"
	"github.com/rocketscienceinc/holdem-client/internal/repository"
	"github.com/rocketscienceinc/holdem-client/internal/repository/storage"
	"github.com/rocketscienceinc/holdem-client/internal/service"
	"github.com/rocketscienceinc/holdem-client/internal/transport/websocket"
	"github.com/rocketscienceinc/holdem-client/internal/usecase"
	"github.com/rocketscienceinc/holdem-client/internal/wallet"
)

const statusPollInterval = 50 * time.Millisecond

// Client is one player's wired set of components.
type Client struct {
	logger  *slog.Logger
	conf    *config.Config
	storage *storage.RedisStorage

	Session  *usecase.Session
	Wallet   *wallet.Ledger
	Store    *game.Store
	Manager  *websocket.Manager
	Commands *game.Commands
}

// NewClient - builds the client from configuration. Close releases the
// session store.
func NewClient(ctx context.Context, logger *slog.Logger, conf *config.Config) (*Client, error) {
	baseURL, err := conf.Server.GetBaseURL()
	if err != nil {
		return nil, err
	}

	client := &Client{
		logger: logger.With("component", "client"),
		conf:   conf,
	}

	var sessions repository.SessionRepository

	switch conf.Session.Store {
	case config.SessionStoreRedis:
		client.storage, err = storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr())
		if err != nil {
			return nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}
		sessions = repository.NewSessionRepository(client.storage.Connection)
	case config.SessionStoreMemory, "":
		sessions = repository.NewMemorySessionRepository()
	default:
		return nil, fmt.Errorf("unknown session store %q", conf.Session.Store)
	}

	authAPI := service.NewAuthAPI(logger, baseURL, conf.Server.AuthPath, conf.Server.RequestTimeout)

	client.Session = usecase.NewSession(logger, authAPI, sessions, conf.Session.Profile)
	client.Wallet = wallet.NewLedger(logger)
	client.Store = game.NewStore(logger, client.Wallet, client.Session)
	client.Manager = websocket.NewManager(logger, baseURL, client.Session, client.Store, websocket.Options{
		Path:             conf.Server.WSPath,
		HandshakeTimeout: conf.Server.HandshakeTimeout,
		BaseDelay:        conf.Reconnect.BaseDelay,
		MaxDelay:         conf.Reconnect.MaxDelay,
		MaxAttempts:      conf.Reconnect.MaxAttempts,
	})
	client.Commands = game.NewCommands(client.Manager, client.Wallet)

	return client, nil
}

// SignIn - restores the saved session, falling back to the configured
// credentials.
func (that *Client) SignIn(ctx context.Context) error {
	log := that.logger.With("method", "SignIn")

	err := that.Session.Restore(ctx)
	if err == nil {
		log.Info("session restored", "username", that.Session.Username())
		return nil
	}

	if that.conf.Player.Username == "" {
		return fmt.Errorf("no saved session and no credentials configured: %w", err)
	}

	return that.Session.Login(ctx, that.conf.Player.Username, that.conf.Player.Password)
}

// Connect - fetches a ticket and waits until the socket is open.
func (that *Client) Connect(ctx context.Context) error {
	ticket, err := that.Session.Ticket(ctx)
	if err != nil {
		return fmt.Errorf("could not connect: %w", err)
	}

	that.Manager.Connect(ticket)

	waitCtx, cancel := context.WithTimeout(ctx, that.conf.Server.HandshakeTimeout)
	defer cancel()

	ticker := time.NewTicker(statusPollInterval)
	defer ticker.Stop()

	for {
		if that.Manager.Status() == websocket.StatusConnected {
			return nil
		}

		select {
		case <-waitCtx.Done():
			that.Manager.Disconnect()
			return fmt.Errorf("could not connect: %w", waitCtx.Err())
		case <-ticker.C:
		}
	}
}

// TakeSeat - joins, sits and buys in as configured. Steps without a
// configured value are skipped.
func (that *Client) TakeSeat() error {
	player := that.conf.Player
	if player.TableID == "" {
		return nil
	}

	if err := that.Commands.JoinTable(player.TableID); err != nil {
		return err
	}

	if player.SeatNo < 0 {
		return nil
	}

	if err := that.Commands.SitDown(player.TableID, player.SeatNo); err != nil {
		return err
	}

	if player.BuyIn <= 0 {
		return nil
	}

	return that.Commands.BuyIn(player.TableID, player.BuyIn)
}

func (that *Client) Close() {
	that.Manager.Disconnect()

	if that.storage == nil {
		return
	}

	if err := that.storage.Close(); err != nil {
		that.logger.Error("could not close redis storage", "error", err)
	}
}
