package websocket

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/rocketscienceinc/holdem-client/internal/entity"
	"github.com/rocketscienceinc/holdem-client/internal/protocol"
)

type lobby interface {
	RedeemTicket(ticket string) (string, error)
	Balance(username string) decimal.Decimal
	Join(username, tableID string) entity.TableState
	Leave(username, tableID string) (entity.TableState, error)
	SitDown(username, tableID string, seatNo int) (entity.TableState, error)
	StandUp(username, tableID string) (entity.TableState, error)
	BuyIn(username, tableID string, amount int64) (entity.TableState, decimal.Decimal, error)
	CashOut(username, tableID string) (entity.TableState, decimal.Decimal, error)
	Members(tableID string) []string
}

type client struct {
	username string
	conn     *websocket.Conn
	writeMu  sync.Mutex
}

type handlerFunc func(client *client, req protocol.Request) error

// Server is the sandbox table socket. It answers seating and wallet commands
// and pushes table snapshots to everyone at the table.
type Server struct {
	logger   *slog.Logger
	lobby    lobby
	upgrader websocket.Upgrader
	handlers map[protocol.Action]handlerFunc

	connectionsMutex sync.RWMutex
	connections      map[string]*client
}

func New(logger *slog.Logger, lobby lobby) *Server {
	server := &Server{
		logger: logger.With("component", "sandbox-socket"),
		lobby:  lobby,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		connections: make(map[string]*client),
	}

	server.handlers = map[protocol.Action]handlerFunc{
		protocol.ActionJoinTable:  server.handleJoinTable,
		protocol.ActionLeaveTable: server.handleLeaveTable,
		protocol.ActionSitDown:    server.handleSitDown,
		protocol.ActionStandUp:    server.handleStandUp,
		protocol.ActionBuyIn:      server.handleBuyIn,
		protocol.ActionCashOut:    server.handleCashOut,
		protocol.ActionGetBalance: server.handleGetBalance,
		protocol.ActionGameAction: server.handleGameAction,
	}

	return server
}

// Handle - redeems the ticket and upgrades the request to a socket.
func (that *Server) Handle(c echo.Context) error {
	log := that.logger.With("method", "Handle")

	username, err := that.lobby.RedeemTicket(c.QueryParam("ticket"))
	if err != nil {
		log.Info("ticket rejected", "error", err)
		return c.String(http.StatusUnauthorized, "invalid ticket")
	}

	conn, err := that.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Warn("failed to upgrade connection", "error", err)
		return nil
	}

	cl := &client{username: username, conn: conn}
	that.register(cl)
	defer that.unregister(cl)

	log.Info("player connected", "username", username)

	that.handleMessages(cl)

	return nil
}

// handleMessages - processes requests until the client goes away.
func (that *Server) handleMessages(cl *client) {
	log := that.logger.With("method", "handleMessages", "username", cl.username)

	for {
		_, data, err := cl.conn.ReadMessage()
		if err != nil {
			log.Info("player disconnected", "error", err)
			return
		}

		req, err := protocol.DecodeRequest(data)
		if err != nil {
			log.Warn("failed to decode request", "error", err)
			that.sendError(cl, "BAD_REQUEST", "Malformed request")
			continue
		}

		handler, ok := that.handlers[req.Action]
		if !ok {
			that.sendError(cl, "UNKNOWN_ACTION", fmt.Sprintf("Unknown action %s", req.Action))
			continue
		}

		if err = handler(cl, req); err != nil {
			log.Info("request refused", "action", req.Action, "error", err)
			that.sendError(cl, "REQUEST_FAILED", err.Error())
		}
	}
}

func (that *Server) register(cl *client) {
	that.connectionsMutex.Lock()
	previous := that.connections[cl.username]
	that.connections[cl.username] = cl
	that.connectionsMutex.Unlock()

	if previous != nil {
		previous.conn.Close()
	}
}

func (that *Server) unregister(cl *client) {
	that.connectionsMutex.Lock()
	if that.connections[cl.username] == cl {
		delete(that.connections, cl.username)
	}
	that.connectionsMutex.Unlock()

	cl.conn.Close()
}

func (that *Server) send(cl *client, eventType protocol.EventType, payload any) error {
	data, err := protocol.EncodeResponse(eventType, payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", eventType, err)
	}

	cl.writeMu.Lock()
	defer cl.writeMu.Unlock()

	if err = cl.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", eventType, err)
	}

	return nil
}

func (that *Server) sendError(cl *client, code, message string) {
	if err := that.send(cl, protocol.EventError, map[string]string{"code": code, "message": message}); err != nil {
		that.logger.Warn("failed to send error", "username", cl.username, "error", err)
	}
}

// broadcastTable - pushes the snapshot to every member of the table.
func (that *Server) broadcastTable(table entity.TableState) {
	for _, username := range that.lobby.Members(table.TableID) {
		that.connectionsMutex.RLock()
		cl, ok := that.connections[username]
		that.connectionsMutex.RUnlock()

		if !ok {
			continue
		}

		if err := that.send(cl, protocol.EventTableState, table); err != nil {
			that.logger.Warn("failed to send table state", "username", username, "error", err)
		}
	}
}
