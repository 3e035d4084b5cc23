package protocol

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rocketscienceinc/holdem-client/internal/entity"
)

// Action is an outbound command name.
type Action string

const (
	ActionJoinTable  Action = "JOIN_TABLE"
	ActionLeaveTable Action = "LEAVE_TABLE"
	ActionSitDown    Action = "SIT_DOWN"
	ActionStandUp    Action = "STAND_UP"
	ActionBuyIn      Action = "BUY_IN"
	ActionCashOut    Action = "CASH_OUT"
	ActionGameAction Action = "GAME_ACTION"
	ActionGetBalance Action = "GET_BALANCE"
)

// EventType is an inbound event name.
type EventType string

const (
	EventHandStart         EventType = "HAND_START"
	EventHoleCards         EventType = "HOLE_CARDS"
	EventBlindsPosted      EventType = "BLINDS_POSTED"
	EventYourTurn          EventType = "YOUR_TURN"
	EventPlayerAction      EventType = "PLAYER_ACTION"
	EventCommunityCards    EventType = "COMMUNITY_CARDS"
	EventShowdownResult    EventType = "SHOWDOWN_RESULT"
	EventWinByFold         EventType = "WIN_BY_FOLD"
	EventHandEnd           EventType = "HAND_END"
	EventActionTimeout     EventType = "ACTION_TIMEOUT"
	EventTableState        EventType = "TABLE_STATE"
	EventError             EventType = "ERROR"
	EventBuyInSuccess      EventType = "BUY_IN_SUCCESS"
	EventCashOutSuccess    EventType = "CASH_OUT_SUCCESS"
	EventJoinTableSuccess  EventType = "JOIN_TABLE_SUCCESS"
	EventLeaveTableSuccess EventType = "LEAVE_TABLE_SUCCESS"
	EventSitDownSuccess    EventType = "SIT_DOWN_SUCCESS"
	EventStandUpSuccess    EventType = "STAND_UP_SUCCESS"
	EventBalanceInfo       EventType = "BALANCE_INFO"
)

// Request is the client to server envelope. Payload fields unknown to the
// envelope are kept in Extra and written next to the known ones.
type Request struct {
	Action     Action                `json:"action" mapstructure:"action"`
	TableID    string                `json:"table_id,omitempty" mapstructure:"table_id"`
	Amount     int64                 `json:"amount,omitempty" mapstructure:"amount"`
	SeatNo     *int                  `json:"seat_no,omitempty" mapstructure:"seat_no"`
	GameAction entity.GameActionType `json:"game_action,omitempty" mapstructure:"game_action"`
	Timestamp  string                `json:"timestamp,omitempty" mapstructure:"timestamp"`
	TraceID    string                `json:"trace_id,omitempty" mapstructure:"trace_id"`

	Extra map[string]any `json:"-" mapstructure:",remain"`
}

type requestAlias Request

func (that Request) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(requestAlias(that))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	if len(that.Extra) == 0 {
		return known, nil
	}

	merged := make(map[string]any, len(that.Extra)+8)
	for key, value := range that.Extra {
		merged[key] = value
	}

	var fields map[string]json.RawMessage
	if err = json.Unmarshal(known, &fields); err != nil {
		return nil, fmt.Errorf("failed to merge request fields: %w", err)
	}

	for key, value := range fields {
		merged[key] = value
	}

	data, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	return data, nil
}

// Response is the server to client envelope.
type Response struct {
	Type      EventType       `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
	TraceID   string          `json:"trace_id,omitempty"`
}
