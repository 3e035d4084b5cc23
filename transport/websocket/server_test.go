package websocket

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/holdem-client/internal/entity"
	"github.com/rocketscienceinc/holdem-client/internal/protocol"
	"github.com/rocketscienceinc/holdem-client/internal/sandbox"
)

type testSandbox struct {
	lobby  *sandbox.Lobby
	server *httptest.Server
}

func newTestSandbox(t *testing.T) *testSandbox {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	lobby := sandbox.NewLobby("test-secret", 1000)

	e := echo.New()
	e.GET("/ws", New(logger, lobby).Handle)

	server := httptest.NewServer(e)
	t.Cleanup(server.Close)

	return &testSandbox{lobby: lobby, server: server}
}

func (that *testSandbox) ticketFor(t *testing.T, username string) string {
	t.Helper()

	require.NoError(t, that.lobby.Register(username, username+"@example.com", "secret"))

	session, err := that.lobby.Login(username, "secret")
	require.NoError(t, err)

	ticket, err := that.lobby.IssueTicket(session.Token)
	require.NoError(t, err)

	return ticket
}

func (that *testSandbox) dial(t *testing.T, ticket string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(that.server.URL, "http") + "/ws?ticket=" + ticket

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func sendAction(t *testing.T, conn *websocket.Conn, action protocol.Action, payload map[string]any) {
	t.Helper()

	data, err := protocol.Encode(action, payload)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, data))
}

func readEvent(t *testing.T, conn *websocket.Conn) protocol.Event {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	event, err := protocol.Decode(data)
	require.NoError(t, err)

	return event
}

func TestServer_Handle(t *testing.T) {
	t.Run("Rejects a connection without a valid ticket", func(t *testing.T) {
		sb := newTestSandbox(t)

		url := "ws" + strings.TrimPrefix(sb.server.URL, "http") + "/ws?ticket=forged"
		_, resp, err := websocket.DefaultDialer.Dial(url, nil)

		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Join, sit down and buy in", func(t *testing.T) {
		// Given: bob connected with a fresh ticket
		sb := newTestSandbox(t)
		conn := sb.dial(t, sb.ticketFor(t, "bob"))

		// When: joining the table
		sendAction(t, conn, protocol.ActionJoinTable, map[string]any{"table_id": "table-1"})

		// Then: the join is confirmed and a snapshot follows
		joined := readEvent(t, conn)
		require.IsType(t, &protocol.MembershipEvent{}, joined)
		assert.Equal(t, "table-1", joined.(*protocol.MembershipEvent).TableID)

		snapshot := readEvent(t, conn)
		require.IsType(t, &protocol.TableStateEvent{}, snapshot)

		// When: sitting at seat 3
		sendAction(t, conn, protocol.ActionSitDown, map[string]any{"table_id": "table-1", "seat_no": 3})

		seated := readEvent(t, conn)
		require.IsType(t, &protocol.MembershipEvent{}, seated)
		require.NotNil(t, seated.(*protocol.MembershipEvent).SeatNo)
		assert.Equal(t, 3, *seated.(*protocol.MembershipEvent).SeatNo)

		table := readEvent(t, conn).(*protocol.TableStateEvent)
		assert.Equal(t, 3, table.Table.SeatOf("bob"))

		// When: buying in for 250
		sendAction(t, conn, protocol.ActionBuyIn, map[string]any{"table_id": "table-1", "amount": 250})

		// Then: the wallet drops and the stack shows up in the next snapshot
		bought := readEvent(t, conn)
		require.IsType(t, &protocol.BalanceEvent{}, bought)
		require.NotNil(t, bought.(*protocol.BalanceEvent).WalletBalance)
		assert.True(t, decimal.NewFromInt(750).Equal(*bought.(*protocol.BalanceEvent).WalletBalance))

		table = readEvent(t, conn).(*protocol.TableStateEvent)
		player, ok := table.Table.PlayerAt(3)
		require.True(t, ok)
		assert.Equal(t, int64(250), player.Chips)
		assert.Equal(t, entity.StatusPlaying, player.Status)
	})

	t.Run("Snapshots reach everyone at the table", func(t *testing.T) {
		sb := newTestSandbox(t)
		bob := sb.dial(t, sb.ticketFor(t, "bob"))
		alice := sb.dial(t, sb.ticketFor(t, "alice"))

		sendAction(t, bob, protocol.ActionJoinTable, map[string]any{"table_id": "table-1"})
		readEvent(t, bob)
		readEvent(t, bob)

		sendAction(t, alice, protocol.ActionJoinTable, map[string]any{"table_id": "table-1"})
		readEvent(t, alice)
		readEvent(t, alice)
		readEvent(t, bob)

		// When: alice sits down
		sendAction(t, alice, protocol.ActionSitDown, map[string]any{"table_id": "table-1", "seat_no": 5})

		// Then: bob sees her in his next snapshot
		event := readEvent(t, bob)
		require.IsType(t, &protocol.TableStateEvent{}, event)
		assert.Equal(t, 5, event.(*protocol.TableStateEvent).Table.SeatOf("alice"))
	})

	t.Run("Reports balance", func(t *testing.T) {
		sb := newTestSandbox(t)
		conn := sb.dial(t, sb.ticketFor(t, "bob"))

		sendAction(t, conn, protocol.ActionGetBalance, nil)

		event := readEvent(t, conn)
		require.IsType(t, &protocol.BalanceEvent{}, event)
		assert.Equal(t, protocol.EventBalanceInfo, event.Type())
		assert.True(t, decimal.NewFromInt(1000).Equal(*event.(*protocol.BalanceEvent).WalletBalance))
	})

	t.Run("Refused requests come back as errors", func(t *testing.T) {
		sb := newTestSandbox(t)
		conn := sb.dial(t, sb.ticketFor(t, "bob"))

		sendAction(t, conn, protocol.ActionSitDown, map[string]any{"table_id": "table-1", "seat_no": 1})
		notJoined := readEvent(t, conn)
		require.IsType(t, &protocol.ErrorEvent{}, notJoined)
		assert.Contains(t, notJoined.(*protocol.ErrorEvent).Message, "not at this table")

		sendAction(t, conn, protocol.ActionGameAction, map[string]any{"game_action": "CHECK"})
		noHand := readEvent(t, conn)
		require.IsType(t, &protocol.ErrorEvent{}, noHand)
		assert.Equal(t, "No hand in progress", noHand.(*protocol.ErrorEvent).Message)

		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"action":"SHUFFLE"}`)))
		unknown := readEvent(t, conn)
		require.IsType(t, &protocol.ErrorEvent{}, unknown)
		assert.Equal(t, "UNKNOWN_ACTION", unknown.(*protocol.ErrorEvent).Code)
	})
}
