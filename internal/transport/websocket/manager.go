package websocket

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/holdem-client/internal/protocol"
)

const closeWriteTimeout = time.Second

type dialer interface {
	DialContext(ctx context.Context, urlStr string, requestHeader http.Header) (*websocket.Conn, *http.Response, error)
}

type ticketProvider interface {
	Ticket(ctx context.Context) (string, error)
}

type eventHandler interface {
	HandleEvent(event protocol.Event)
}

// Manager owns the single realtime connection to the game server. Every
// connection attempt gets a new generation; callbacks from an older
// generation are ignored.
type Manager struct {
	logger  *slog.Logger
	dialer  dialer
	tickets ticketProvider
	handler eventHandler
	baseURL *url.URL
	options Options

	mu               sync.Mutex
	conn             *websocket.Conn
	status           Status
	attempts         int
	timer            *time.Timer
	intentionalClose bool
	generation       uint64
	cancel           context.CancelFunc
	ctx              context.Context

	writeMu  sync.Mutex
	statuses chan Status
}

func NewManager(logger *slog.Logger, baseURL *url.URL, tickets ticketProvider, handler eventHandler, options Options) *Manager {
	return &Manager{
		logger: logger.With("component", "websocket"),
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: options.HandshakeTimeout,
		},
		tickets:  tickets,
		handler:  handler,
		baseURL:  baseURL,
		options:  options,
		status:   StatusDisconnected,
		statuses: make(chan Status, 32),
	}
}

// Statuses reports every status transition. Transitions are dropped when the
// reader falls behind.
func (that *Manager) Statuses() <-chan Status {
	return that.statuses
}

func (that *Manager) Status() Status {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.status
}

// Attempts is the number of reconnect attempts since the last successful open.
func (that *Manager) Attempts() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.attempts
}

// Connect - opens the connection with ticket unless one is open or being opened.
// It does not wait for the handshake.
func (that *Manager) Connect(ticket string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	switch that.status {
	case StatusConnected:
		that.setStatusLocked(StatusConnected)
		return
	case StatusConnecting:
		return
	}

	that.intentionalClose = false
	if that.cancel == nil {
		that.ctx, that.cancel = context.WithCancel(context.Background())
	}

	that.dialLocked(ticket)
}

// Disconnect - closes the connection and stops any pending reconnect. Nothing
// reconnects until the next Connect.
func (that *Manager) Disconnect() {
	that.mu.Lock()

	that.intentionalClose = true
	that.generation++
	that.stopTimerLocked()

	if that.cancel != nil {
		that.cancel()
		that.cancel = nil
	}

	conn := that.conn
	that.conn = nil
	that.setStatusLocked(StatusDisconnected)

	that.mu.Unlock()

	if conn != nil {
		that.closeConn(conn)
	}

	that.logger.Info("disconnected")
}

// Send - encodes and writes a command. Without an open connection the command
// is dropped with a warning and no error.
func (that *Manager) Send(action protocol.Action, payload map[string]any) error {
	log := that.logger.With("method", "Send", "action", action)

	that.mu.Lock()
	conn := that.conn
	connected := that.status == StatusConnected
	that.mu.Unlock()

	if conn == nil || !connected {
		log.Warn("not connected, cannot send")
		return nil
	}

	data, err := protocol.Encode(action, payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", action, err)
	}

	that.writeMu.Lock()
	defer that.writeMu.Unlock()

	if err = conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", action, err)
	}

	return nil
}

func (that *Manager) dialLocked(ticket string) {
	that.generation++
	that.setStatusLocked(StatusConnecting)

	go that.dial(that.generation, BuildURL(that.baseURL, that.options.Path, ticket))
}

func (that *Manager) dial(generation uint64, target string) {
	log := that.logger.With("method", "dial", "generation", generation)

	ctx, cancel := context.WithTimeout(context.Background(), that.options.HandshakeTimeout)
	conn, resp, err := that.dialer.DialContext(ctx, target, nil)
	cancel()

	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	that.mu.Lock()

	if generation != that.generation {
		that.mu.Unlock()
		if conn != nil {
			conn.Close()
		}
		return
	}

	if err != nil {
		log.Warn("failed to open connection", "error", err)
		that.handleCloseLocked()
		that.mu.Unlock()
		return
	}

	that.conn = conn
	that.attempts = 0
	that.stopTimerLocked()
	that.setStatusLocked(StatusConnected)

	that.mu.Unlock()

	log.Info("connection established")

	go that.readLoop(generation, conn)
}

// readLoop - decodes frames in arrival order and hands them to the handler.
// Frames that fail to decode are logged and dropped.
func (that *Manager) readLoop(generation uint64, conn *websocket.Conn) {
	log := that.logger.With("method", "readLoop", "generation", generation)

	defer conn.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			that.mu.Lock()
			if generation == that.generation {
				log.Info("connection closed", "error", err)
				that.handleCloseLocked()
			}
			that.mu.Unlock()
			return
		}

		event, err := protocol.Decode(data)
		if err != nil {
			log.Warn("failed to decode frame", "error", err, "frame", string(data))
			continue
		}

		if !that.isCurrent(generation) {
			return
		}

		that.handler.HandleEvent(event)
	}
}

func (that *Manager) isCurrent(generation uint64) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return generation == that.generation
}

func (that *Manager) handleCloseLocked() {
	that.conn = nil
	that.setStatusLocked(StatusDisconnected)

	if !that.intentionalClose {
		that.scheduleReconnectLocked()
	}
}

// scheduleReconnectLocked - arms the backoff timer, or gives up once the
// attempt counter is past the ceiling.
func (that *Manager) scheduleReconnectLocked() {
	log := that.logger.With("method", "scheduleReconnect")

	if that.attempts > that.options.MaxAttempts {
		log.Warn("giving up reconnecting", "attempts", that.attempts)
		return
	}

	delay := Backoff(that.attempts, that.options.BaseDelay, that.options.MaxDelay)
	generation := that.generation

	that.stopTimerLocked()
	that.timer = time.AfterFunc(delay, func() {
		that.reconnect(generation)
	})

	log.Info("reconnect scheduled", "delay", delay, "attempt", that.attempts+1)
}

// reconnect - renews the ticket and connects again. A renewal that fails goes
// back through the scheduler; one that completes after Disconnect is dropped.
func (that *Manager) reconnect(generation uint64) {
	log := that.logger.With("method", "reconnect")

	that.mu.Lock()
	if that.intentionalClose || generation != that.generation {
		that.mu.Unlock()
		return
	}

	that.timer = nil
	that.attempts++
	ctx := that.ctx
	that.mu.Unlock()

	ticket, err := that.tickets.Ticket(ctx)

	that.mu.Lock()
	defer that.mu.Unlock()

	if that.intentionalClose || generation != that.generation {
		log.Info("dropping renewed ticket, connection was closed")
		return
	}

	if err != nil {
		log.Error("failed to renew ticket", "error", err, "attempt", that.attempts)
		that.scheduleReconnectLocked()
		return
	}

	if that.status != StatusDisconnected {
		return
	}

	that.dialLocked(ticket)
}

func (that *Manager) stopTimerLocked() {
	if that.timer != nil {
		that.timer.Stop()
		that.timer = nil
	}
}

func (that *Manager) setStatusLocked(status Status) {
	that.status = status

	select {
	case that.statuses <- status:
	default:
	}
}

func (that *Manager) closeConn(conn *websocket.Conn) {
	that.writeMu.Lock()
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeWriteTimeout))
	that.writeMu.Unlock()

	conn.Close()
}
