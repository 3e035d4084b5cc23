package game

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rocketscienceinc/holdem-client/internal/apperror"
	"github.com/rocketscienceinc/holdem-client/internal/entity"
	"github.com/rocketscienceinc/holdem-client/internal/protocol"
)

type sender interface {
	Send(action protocol.Action, payload map[string]any) error
}

type deductor interface {
	Deduct(amount decimal.Decimal) bool
}

// Commands builds the outbound table commands. Each one is fire and forget;
// the outcome arrives later as an event.
type Commands struct {
	sender sender
	wallet deductor
}

func NewCommands(sender sender, wallet deductor) *Commands {
	return &Commands{
		sender: sender,
		wallet: wallet,
	}
}

func (that *Commands) JoinTable(tableID string) error {
	return that.send(protocol.ActionJoinTable, map[string]any{"table_id": tableID})
}

func (that *Commands) LeaveTable(tableID string) error {
	return that.send(protocol.ActionLeaveTable, map[string]any{"table_id": tableID})
}

func (that *Commands) SitDown(tableID string, seatNo int) error {
	if seatNo < 0 || seatNo >= entity.SeatCount {
		return fmt.Errorf("failed to sit down: %w: %d", apperror.ErrInvalidSeat, seatNo)
	}

	return that.send(protocol.ActionSitDown, map[string]any{"table_id": tableID, "seat_no": seatNo})
}

func (that *Commands) StandUp(tableID string) error {
	return that.send(protocol.ActionStandUp, map[string]any{"table_id": tableID})
}

// BuyIn deducts the amount from the local wallet before the server confirms.
// A wallet that cannot cover it is left untouched and the request still goes out.
func (that *Commands) BuyIn(tableID string, amount int64) error {
	that.wallet.Deduct(decimal.NewFromInt(amount))

	return that.send(protocol.ActionBuyIn, map[string]any{"table_id": tableID, "amount": amount})
}

func (that *Commands) CashOut(tableID string) error {
	return that.send(protocol.ActionCashOut, map[string]any{"table_id": tableID})
}

// Act sends a betting decision. Amount is only sent for BET and RAISE.
func (that *Commands) Act(tableID string, action entity.GameActionType, amount int64) error {
	payload := map[string]any{"table_id": tableID, "game_action": action}
	if action == entity.ActionBet || action == entity.ActionRaise {
		payload["amount"] = amount
	}

	return that.send(protocol.ActionGameAction, payload)
}

func (that *Commands) GetBalance() error {
	return that.send(protocol.ActionGetBalance, nil)
}

func (that *Commands) send(action protocol.Action, payload map[string]any) error {
	if err := that.sender.Send(action, payload); err != nil {
		return fmt.Errorf("failed to send %s: %w", action, err)
	}

	return nil
}
