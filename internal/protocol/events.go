package protocol

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rocketscienceinc/holdem-client/internal/entity"
)

// Event is a decoded inbound message. The concrete types below form a closed
// set; consumers switch on them and ignore what they do not handle.
type Event interface {
	Type() EventType
	Header() Meta
}

// Meta carries the envelope fields shared by every event.
type Meta struct {
	EventType EventType `json:"-"`
	Timestamp time.Time `json:"-"`
	TraceID   string    `json:"-"`
}

func (that Meta) Type() EventType { return that.EventType }
func (that Meta) Header() Meta    { return that }

type TableStateEvent struct {
	Meta
	Table entity.TableState
}

type HandStartEvent struct {
	Meta
	HandID        string `json:"hand_id"`
	SmallBlindPos int    `json:"small_blind_pos"`
	BigBlindPos   int    `json:"big_blind_pos"`
}

type HoleCardsEvent struct {
	Meta
	Cards []entity.Card `json:"cards"`
}

type BlindsPostedEvent struct {
	Meta
	SmallBlindSeat int   `json:"small_blind_seat"`
	SmallBlind     int64 `json:"small_blind"`
	BigBlindSeat   int   `json:"big_blind_seat"`
	BigBlind       int64 `json:"big_blind"`
}

type YourTurnEvent struct {
	Meta
	ValidActions  []entity.GameActionType `json:"valid_actions"`
	AmountToCall  int64                   `json:"amount_to_call"`
	MinRaise      int64                   `json:"min_raise"`
	TimeRemaining int                     `json:"time_remaining"`
}

type PlayerActionEvent struct {
	Meta
	SeatIdx int                   `json:"seat_idx"`
	Action  entity.GameActionType `json:"action"`
	Amount  int64                 `json:"amount"`
}

type CommunityCardsEvent struct {
	Meta
	Street string        `json:"street"`
	Cards  []entity.Card `json:"cards"`
}

type Winner struct {
	SeatIdx  int    `json:"seat_idx"`
	Amount   int64  `json:"amount"`
	HandRank string `json:"hand_rank"`
}

type RevealedHand struct {
	SeatIdx  int           `json:"seat_idx"`
	Cards    []entity.Card `json:"cards"`
	HandRank string        `json:"hand_rank"`
}

type ShowdownResultEvent struct {
	Meta
	Winners []Winner       `json:"winners"`
	Hands   []RevealedHand `json:"hands"`
}

type WinByFoldEvent struct {
	Meta
	WinnerSeatIdx int   `json:"winner_seat_idx"`
	Amount        int64 `json:"amount"`
}

type HandEndEvent struct {
	Meta
	HandID string `json:"hand_id"`
}

type ActionTimeoutEvent struct {
	Meta
	SeatIdx int `json:"seat_idx"`
}

type ErrorEvent struct {
	Meta
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BalanceEvent covers BUY_IN_SUCCESS, CASH_OUT_SUCCESS and BALANCE_INFO.
// WalletBalance is nil when the payload carries no balance.
type BalanceEvent struct {
	Meta
	WalletBalance *decimal.Decimal `json:"wallet_balance"`
	TableID       string           `json:"table_id,omitempty"`
	Chips         int64            `json:"chips,omitempty"`
}

// MembershipEvent covers the JOIN/LEAVE/SIT_DOWN/STAND_UP success echoes.
type MembershipEvent struct {
	Meta
	TableID string `json:"table_id"`
	SeatNo  *int   `json:"seat_no"`
	Chips   int64  `json:"chips,omitempty"`
}

// UnknownEvent is a well formed envelope with a type outside the closed set.
type UnknownEvent struct {
	Meta
}
