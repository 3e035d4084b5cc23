package wallet

import (
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func newTestLedger() *Ledger {
	return NewLedger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestLedger_SetBalance(t *testing.T) {
	// Given: a fresh ledger
	ledger := newTestLedger()
	assert.True(t, ledger.Balance().IsZero())

	// When: the server reports a balance
	ledger.SetBalance(decimal.NewFromInt(1000))

	// Then: the balance is overwritten
	assert.True(t, decimal.NewFromInt(1000).Equal(ledger.Balance()))
}

func TestLedger_Deduct(t *testing.T) {
	t.Run("Deducts when the balance covers the amount", func(t *testing.T) {
		ledger := newTestLedger()
		ledger.SetBalance(decimal.NewFromInt(100))

		ok := ledger.Deduct(decimal.NewFromInt(100))

		assert.True(t, ok)
		assert.True(t, ledger.Balance().IsZero())
	})

	t.Run("Leaves the balance untouched when it would go negative", func(t *testing.T) {
		// Given: a balance of 50
		ledger := newTestLedger()
		ledger.SetBalance(decimal.NewFromInt(50))

		// When: deducting 80
		ok := ledger.Deduct(decimal.NewFromInt(80))

		// Then: nothing happens
		assert.False(t, ok)
		assert.True(t, decimal.NewFromInt(50).Equal(ledger.Balance()))
	})
}

func TestLedger_Add(t *testing.T) {
	ledger := newTestLedger()

	ledger.Add(decimal.RequireFromString("10.25"))
	ledger.Add(decimal.RequireFromString("0.75"))

	assert.True(t, decimal.NewFromInt(11).Equal(ledger.Balance()))
}

func TestLedger_ServerBalanceWins(t *testing.T) {
	// Given: optimistic local adjustments that diverge from the server
	ledger := newTestLedger()
	ledger.SetBalance(decimal.NewFromInt(1000))
	ledger.Deduct(decimal.NewFromInt(300))
	ledger.Add(decimal.NewFromInt(25))

	// When: the server echo arrives
	ledger.SetBalance(decimal.NewFromInt(700))

	// Then: no local divergence survives
	assert.True(t, decimal.NewFromInt(700).Equal(ledger.Balance()))
}
