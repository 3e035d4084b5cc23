package game

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/holdem-client/internal/apperror"
	"github.com/rocketscienceinc/holdem-client/internal/entity"
	"github.com/rocketscienceinc/holdem-client/internal/protocol"
	"github.com/rocketscienceinc/holdem-client/internal/wallet"
)

type mockSender struct {
	mock.Mock
}

func (that *mockSender) Send(action protocol.Action, payload map[string]any) error {
	args := that.Called(action, payload)
	return args.Error(0)
}

func newTestCommands(t *testing.T, balance int64) (*Commands, *mockSender, *wallet.Ledger) {
	t.Helper()

	ledger := wallet.NewLedger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ledger.SetBalance(decimal.NewFromInt(balance))

	sender := &mockSender{}

	return NewCommands(sender, ledger), sender, ledger
}

func TestCommands_Act(t *testing.T) {
	t.Run("Raise carries the amount", func(t *testing.T) {
		commands, sender, _ := newTestCommands(t, 0)
		sender.On("Send", protocol.ActionGameAction, map[string]any{
			"table_id":    "table-1",
			"game_action": entity.ActionRaise,
			"amount":      int64(200),
		}).Return(nil).Once()

		require.NoError(t, commands.Act("table-1", entity.ActionRaise, 200))
		sender.AssertExpectations(t)
	})

	t.Run("Check omits the amount", func(t *testing.T) {
		commands, sender, _ := newTestCommands(t, 0)
		sender.On("Send", protocol.ActionGameAction, map[string]any{
			"table_id":    "table-1",
			"game_action": entity.ActionCheck,
		}).Return(nil).Once()

		require.NoError(t, commands.Act("table-1", entity.ActionCheck, 50))
		sender.AssertExpectations(t)
	})
}

func TestCommands_BuyIn(t *testing.T) {
	t.Run("Deducts the wallet optimistically", func(t *testing.T) {
		// Given: a wallet of 1000
		commands, sender, ledger := newTestCommands(t, 1000)
		sender.On("Send", protocol.ActionBuyIn, mock.Anything).Return(nil).Once()

		// When: buying in for 400
		require.NoError(t, commands.BuyIn("table-1", 400))

		// Then: the local balance drops before any server reply
		assert.True(t, decimal.NewFromInt(600).Equal(ledger.Balance()))
		sender.AssertExpectations(t)
	})

	t.Run("Leaves an insufficient wallet untouched", func(t *testing.T) {
		commands, sender, ledger := newTestCommands(t, 100)
		sender.On("Send", protocol.ActionBuyIn, mock.Anything).Return(nil).Once()

		require.NoError(t, commands.BuyIn("table-1", 400))

		assert.True(t, decimal.NewFromInt(100).Equal(ledger.Balance()))
	})
}

func TestCommands_SitDown(t *testing.T) {
	t.Run("Rejects a seat outside the table", func(t *testing.T) {
		commands, sender, _ := newTestCommands(t, 0)

		err := commands.SitDown("table-1", 9)

		require.ErrorIs(t, err, apperror.ErrInvalidSeat)
		sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("Sends seat zero", func(t *testing.T) {
		commands, sender, _ := newTestCommands(t, 0)
		sender.On("Send", protocol.ActionSitDown, map[string]any{"table_id": "table-1", "seat_no": 0}).Return(nil).Once()

		require.NoError(t, commands.SitDown("table-1", 0))
		sender.AssertExpectations(t)
	})
}

func TestCommands_SendError(t *testing.T) {
	commands, sender, _ := newTestCommands(t, 0)
	failure := errors.New("write failed")
	sender.On("Send", protocol.ActionGetBalance, map[string]any(nil)).Return(failure).Once()

	err := commands.GetBalance()

	require.ErrorIs(t, err, failure)
}
