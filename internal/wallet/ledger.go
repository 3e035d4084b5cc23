package wallet

import (
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"
)

// Ledger mirrors the player's wallet balance. SetBalance carries the server
// value; Deduct and Add are optimistic local adjustments that the next server
// balance overwrites.
type Ledger struct {
	logger *slog.Logger

	mu      sync.RWMutex
	balance decimal.Decimal
}

func NewLedger(logger *slog.Logger) *Ledger {
	return &Ledger{
		logger:  logger.With("component", "wallet"),
		balance: decimal.Zero,
	}
}

func (that *Ledger) Balance() decimal.Decimal {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return that.balance
}

// SetBalance overwrites the balance unconditionally.
func (that *Ledger) SetBalance(amount decimal.Decimal) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if !that.balance.Equal(amount) {
		that.logger.Debug("wallet balance reconciled", "local", that.balance.String(), "server", amount.String())
	}

	that.balance = amount
}

// Deduct subtracts amount only when the balance covers it and reports whether it did.
func (that *Ledger) Deduct(amount decimal.Decimal) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.balance.LessThan(amount) {
		return false
	}

	that.balance = that.balance.Sub(amount)

	return true
}

func (that *Ledger) Add(amount decimal.Decimal) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.balance = that.balance.Add(amount)
}
