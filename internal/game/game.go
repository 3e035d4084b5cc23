package game

import (
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/rocketscienceinc/holdem-client/internal/entity"
	"github.com/rocketscienceinc/holdem-client/internal/protocol"
)

const unknownErrorMessage = "Unknown error"

type balanceSink interface {
	SetBalance(amount decimal.Decimal)
}

type identity interface {
	Username() string
}

// Store is the single writer of the local table model. Events are applied one
// at a time, in the order HandleEvent is called.
type Store struct {
	logger   *slog.Logger
	wallet   balanceSink
	identity identity

	mu         sync.RWMutex
	table      *entity.TableState
	myCards    []entity.Card
	turn       entity.TurnContext
	lastError  string
	lastResult *HandResult
	membership Membership

	updates chan protocol.EventType
}

func NewStore(logger *slog.Logger, wallet balanceSink, identity identity) *Store {
	return &Store{
		logger:     logger.With("component", "game"),
		wallet:     wallet,
		identity:   identity,
		myCards:    []entity.Card{},
		membership: Membership{SeatNo: entity.NoSeat},
		updates:    make(chan protocol.EventType, 64),
	}
}

// Updates reports the type of every applied event. Notifications are dropped
// when the reader falls behind.
func (that *Store) Updates() <-chan protocol.EventType {
	return that.updates
}

// HandleEvent applies one decoded event. It never fails; events it has no
// transition for are ignored.
func (that *Store) HandleEvent(event protocol.Event) {
	log := that.logger.With("method", "HandleEvent", "type", event.Type())

	that.mu.Lock()

	switch ev := event.(type) {
	case *protocol.TableStateEvent:
		that.replaceTable(ev.Table)
	case *protocol.HandStartEvent:
		that.resetHand()
	case *protocol.HoleCardsEvent:
		that.myCards = entity.CloneCards(ev.Cards)
	case *protocol.YourTurnEvent:
		that.turn = entity.TurnContext{
			IsMyTurn:      true,
			ValidActions:  ev.ValidActions,
			AmountToCall:  ev.AmountToCall,
			MinRaise:      ev.MinRaise,
			TimeRemaining: ev.TimeRemaining,
		}
	case *protocol.PlayerActionEvent:
		that.applyPlayerAction(ev)
	case *protocol.CommunityCardsEvent:
		if that.table != nil {
			that.table.CommunityCards = entity.CloneCards(ev.Cards)
		}
	case *protocol.ShowdownResultEvent:
		that.lastResult = &HandResult{Winners: ev.Winners, Hands: ev.Hands}
	case *protocol.WinByFoldEvent:
		that.lastResult = &HandResult{
			Winners: []protocol.Winner{{SeatIdx: ev.WinnerSeatIdx, Amount: ev.Amount}},
			ByFold:  true,
		}
	case *protocol.HandEndEvent:
		that.clearTurn()
	case *protocol.ActionTimeoutEvent:
		if that.isMySeat(ev.SeatIdx) {
			that.clearTurn()
		}
	case *protocol.ErrorEvent:
		that.lastError = ev.Message
		if that.lastError == "" {
			that.lastError = unknownErrorMessage
		}
		log.Warn("server reported an error", "code", ev.Code, "message", that.lastError)
	case *protocol.BalanceEvent:
		if ev.WalletBalance != nil {
			that.wallet.SetBalance(*ev.WalletBalance)
		}
	case *protocol.MembershipEvent:
		that.applyMembership(ev)
	default:
		log.Debug("event ignored")
	}

	that.mu.Unlock()

	select {
	case that.updates <- event.Type():
	default:
	}
}

func (that *Store) replaceTable(table entity.TableState) {
	that.table = &table

	mySeat := that.mySeat()
	if that.turn.IsMyTurn && table.ActingSeat != entity.NoSeat && table.ActingSeat != mySeat {
		that.clearTurn()
	}
}

func (that *Store) resetHand() {
	that.myCards = []entity.Card{}
	that.turn = entity.TurnContext{ValidActions: []entity.GameActionType{}}
	that.lastResult = nil

	if that.table != nil {
		that.table.ResetHand()
	}
}

// applyPlayerAction moves a positive amount from the actor's stack into both
// the street bet and the pot.
func (that *Store) applyPlayerAction(ev *protocol.PlayerActionEvent) {
	if that.table != nil {
		if player, ok := that.table.PlayerAt(ev.SeatIdx); ok {
			if ev.Action == entity.ActionFold {
				player.Status = entity.StatusFolded
			}

			if ev.Amount > 0 {
				player.Commit(ev.Amount)
				that.table.PotTotal += ev.Amount
			}

			player.HasActed = true
		}
	}

	if that.isMySeat(ev.SeatIdx) {
		that.turn.IsMyTurn = false
		that.turn.ValidActions = []entity.GameActionType{}
	}
}

func (that *Store) applyMembership(ev *protocol.MembershipEvent) {
	switch ev.Type() {
	case protocol.EventJoinTableSuccess:
		that.membership.TableID = ev.TableID
		if ev.SeatNo != nil {
			that.membership.SeatNo = *ev.SeatNo
		}
	case protocol.EventSitDownSuccess:
		if ev.SeatNo != nil {
			that.membership.SeatNo = *ev.SeatNo
		}
	case protocol.EventStandUpSuccess:
		that.membership.SeatNo = entity.NoSeat
	case protocol.EventLeaveTableSuccess:
		that.membership = Membership{SeatNo: entity.NoSeat}
		that.table = nil
		that.myCards = []entity.Card{}
		that.clearTurn()
	}
}

func (that *Store) clearTurn() {
	that.turn = entity.TurnContext{ValidActions: []entity.GameActionType{}}
}

func (that *Store) isMySeat(seat int) bool {
	return seat != entity.NoSeat && seat == that.mySeat()
}

func (that *Store) mySeat() int {
	if that.table == nil || that.identity == nil {
		return entity.NoSeat
	}

	return that.table.SeatOf(that.identity.Username())
}

// MySeat is the seat of the locally authenticated user, or entity.NoSeat.
func (that *Store) MySeat() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return that.mySeat()
}

// Table returns a copy of the mirrored table, nil before the first snapshot.
func (that *Store) Table() *entity.TableState {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return that.table.Clone()
}

func (that *Store) MyCards() []entity.Card {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return entity.CloneCards(that.myCards)
}

func (that *Store) Turn() entity.TurnContext {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return that.turn.Clone()
}

func (that *Store) LastError() string {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return that.lastError
}

// ClearError dismisses the last error once it has been shown.
func (that *Store) ClearError() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.lastError = ""
}

func (that *Store) LastResult() *HandResult {
	that.mu.RLock()
	defer that.mu.RUnlock()

	if that.lastResult == nil {
		return nil
	}

	result := *that.lastResult

	return &result
}

func (that *Store) Membership() Membership {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return that.membership
}
