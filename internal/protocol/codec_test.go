package protocol

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/holdem-client/internal/apperror"
	"github.com/rocketscienceinc/holdem-client/internal/entity"
)

func TestEncode(t *testing.T) {
	t.Run("Round trips a raise command", func(t *testing.T) {
		// Given: a game action payload
		payload := map[string]any{
			"table_id":    "table-1",
			"game_action": entity.ActionRaise,
			"amount":      200,
		}

		// When: encoding and decoding the request
		data, err := Encode(ActionGameAction, payload)
		require.NoError(t, err)

		req, err := DecodeRequest(data)

		// Then: the action and amount are reproduced exactly
		require.NoError(t, err)
		assert.Equal(t, ActionGameAction, req.Action)
		assert.Equal(t, entity.ActionRaise, req.GameAction)
		assert.Equal(t, int64(200), req.Amount)
		assert.Equal(t, "table-1", req.TableID)
	})

	t.Run("Stamps trace id and timestamp", func(t *testing.T) {
		// When: encoding a command without trace fields
		data, err := Encode(ActionGetBalance, nil)
		require.NoError(t, err)

		// Then: both are filled in
		var fields map[string]any
		require.NoError(t, json.Unmarshal(data, &fields))
		assert.Equal(t, "GET_BALANCE", fields["action"])
		assert.NotEmpty(t, fields["timestamp"])

		_, err = uuid.Parse(fields["trace_id"].(string))
		assert.NoError(t, err)
	})

	t.Run("Keeps a caller supplied trace id", func(t *testing.T) {
		data, err := Encode(ActionJoinTable, map[string]any{"trace_id": "trace-7"})
		require.NoError(t, err)

		req, err := DecodeRequest(data)
		require.NoError(t, err)
		assert.Equal(t, "trace-7", req.TraceID)
	})

	t.Run("Sends seat zero", func(t *testing.T) {
		// Given: a sit down at seat 0
		data, err := Encode(ActionSitDown, map[string]any{"seat_no": 0})
		require.NoError(t, err)

		// Then: seat_no is present on the wire
		var fields map[string]any
		require.NoError(t, json.Unmarshal(data, &fields))
		assert.Contains(t, fields, "seat_no")
		assert.InDelta(t, 0, fields["seat_no"], 0)
	})

	t.Run("Spreads unknown payload fields", func(t *testing.T) {
		// Given: a payload with a field the envelope does not declare
		data, err := Encode(ActionBuyIn, map[string]any{"amount": 500, "currency": "USD"})
		require.NoError(t, err)

		// Then: the field travels next to the known ones
		var fields map[string]any
		require.NoError(t, json.Unmarshal(data, &fields))
		assert.Equal(t, "USD", fields["currency"])
		assert.InDelta(t, 500, fields["amount"], 0)
		assert.Equal(t, "BUY_IN", fields["action"])
	})

	t.Run("Action argument wins over payload", func(t *testing.T) {
		data, err := Encode(ActionCashOut, map[string]any{"action": "BUY_IN"})
		require.NoError(t, err)

		req, err := DecodeRequest(data)
		require.NoError(t, err)
		assert.Equal(t, ActionCashOut, req.Action)
	})
}

func TestDecode(t *testing.T) {
	t.Run("Decodes a turn prompt", func(t *testing.T) {
		// Given: a YOUR_TURN frame
		frame := []byte(`{"type":"YOUR_TURN","payload":{"valid_actions":["CALL","RAISE","FOLD"],"amount_to_call":50,"min_raise":100,"time_remaining":20},"timestamp":"2024-01-01T00:00:00Z","trace_id":"t-1"}`)

		// When: decoding
		event, err := Decode(frame)

		// Then: a typed event carries every field
		require.NoError(t, err)
		turn, ok := event.(*YourTurnEvent)
		require.True(t, ok)
		assert.Equal(t, EventYourTurn, turn.Type())
		assert.Equal(t, "t-1", turn.Header().TraceID)
		assert.Equal(t, []entity.GameActionType{entity.ActionCall, entity.ActionRaise, entity.ActionFold}, turn.ValidActions)
		assert.Equal(t, int64(50), turn.AmountToCall)
		assert.Equal(t, int64(100), turn.MinRaise)
		assert.Equal(t, 20, turn.TimeRemaining)
	})

	t.Run("Decodes a table snapshot", func(t *testing.T) {
		// Given: a snapshot encoded from a table
		table := entity.TableState{TableID: "t1", Street: entity.StreetRiver, ActingSeat: 2}
		require.NoError(t, table.Sit(&entity.Player{Name: "alice", SeatIdx: 2, Status: entity.StatusPlaying}))

		frame, err := EncodeResponse(EventTableState, table)
		require.NoError(t, err)

		// When: decoding
		event, err := Decode(frame)

		// Then: the table comes back intact
		require.NoError(t, err)
		snapshot, ok := event.(*TableStateEvent)
		require.True(t, ok)
		assert.Equal(t, "t1", snapshot.Table.TableID)
		assert.Equal(t, 2, snapshot.Table.SeatOf("alice"))
	})

	t.Run("Decodes balance events", func(t *testing.T) {
		for _, eventType := range []EventType{EventBuyInSuccess, EventCashOutSuccess, EventBalanceInfo} {
			frame, err := EncodeResponse(eventType, map[string]any{"wallet_balance": 1250.5})
			require.NoError(t, err)

			event, err := Decode(frame)
			require.NoError(t, err)

			balance, ok := event.(*BalanceEvent)
			require.True(t, ok, eventType)
			require.NotNil(t, balance.WalletBalance)
			assert.True(t, decimal.RequireFromString("1250.5").Equal(*balance.WalletBalance))
		}
	})

	t.Run("Leaves wallet balance nil when absent", func(t *testing.T) {
		event, err := Decode([]byte(`{"type":"BALANCE_INFO","payload":{}}`))
		require.NoError(t, err)
		assert.Nil(t, event.(*BalanceEvent).WalletBalance)
	})

	t.Run("Returns UnknownEvent for unlisted types", func(t *testing.T) {
		event, err := Decode([]byte(`{"type":"CHAT_MESSAGE","payload":{"text":"hi"}}`))

		require.NoError(t, err)
		assert.IsType(t, &UnknownEvent{}, event)
		assert.Equal(t, EventType("CHAT_MESSAGE"), event.Type())
	})

	t.Run("Rejects malformed frames", func(t *testing.T) {
		frames := map[string]string{
			"invalid json":       `{"type":`,
			"missing type":       `{"payload":{}}`,
			"payload mismatch":   `{"type":"PLAYER_ACTION","payload":{"seat_idx":"three"}}`,
			"empty table state":  `{"type":"TABLE_STATE","payload":null}`,
			"bad table snapshot": `{"type":"TABLE_STATE","payload":{"players":[{"seat_idx":12}]}}`,
			"not an object":      `[1,2,3]`,
		}

		for name, frame := range frames {
			event, err := Decode([]byte(frame))

			require.ErrorIs(t, err, apperror.ErrMalformedFrame, name)
			assert.Nil(t, event, name)
		}
	})
}
