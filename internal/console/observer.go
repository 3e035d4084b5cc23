package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/pterm/pterm"
	"github.com/shopspring/decimal"

	"github.com/rocketscienceinc/holdem-client/internal/entity"
	"github.com/rocketscienceinc/holdem-client/internal/game"
	"github.com/rocketscienceinc/holdem-client/internal/protocol"
	"github.com/rocketscienceinc/holdem-client/internal/transport/websocket"
)

type storeView interface {
	Updates() <-chan protocol.EventType
	Table() *entity.TableState
	MyCards() []entity.Card
	MySeat() int
	Turn() entity.TurnContext
	LastError() string
	ClearError()
	LastResult() *game.HandResult
	Membership() game.Membership
}

type balanceView interface {
	Balance() decimal.Decimal
}

// Observer prints connectivity changes and table updates as they happen.
type Observer struct {
	logger   *slog.Logger
	statuses <-chan websocket.Status
	store    storeView
	wallet   balanceView

	info    *pterm.PrefixPrinter
	success *pterm.PrefixPrinter
	warning *pterm.PrefixPrinter
	out     io.Writer

	seenConnected bool
	lastStatus    websocket.Status
}

func NewObserver(logger *slog.Logger, out io.Writer, statuses <-chan websocket.Status, store storeView, wallet balanceView) *Observer {
	return &Observer{
		logger:   logger.With("component", "console"),
		statuses: statuses,
		store:    store,
		wallet:   wallet,
		info:     pterm.Info.WithWriter(out),
		success:  pterm.Success.WithWriter(out),
		warning:  pterm.Warning.WithWriter(out),
		out:      out,
	}
}

// Run - prints until ctx is done.
func (that *Observer) Run(ctx context.Context) error {
	updates := that.store.Updates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case status := <-that.statuses:
			that.showStatus(status)
		case eventType := <-updates:
			that.showEvent(eventType)
		}
	}
}

func (that *Observer) showStatus(status websocket.Status) {
	if status == that.lastStatus {
		return
	}

	label := indicator(status, that.seenConnected)
	that.lastStatus = status

	if status == websocket.StatusConnected {
		that.seenConnected = true
		that.success.Println(label)
		return
	}

	that.info.Println(label)
}

func (that *Observer) showEvent(eventType protocol.EventType) {
	switch eventType {
	case protocol.EventTableState, protocol.EventHandStart, protocol.EventHoleCards,
		protocol.EventPlayerAction, protocol.EventCommunityCards:
		that.print(renderTable(that.store.Table(), that.store.MyCards(), that.store.MySeat()))
	case protocol.EventYourTurn:
		if turn := that.store.Turn(); turn.IsMyTurn {
			that.info.Println(renderTurn(turn))
		}
	case protocol.EventShowdownResult, protocol.EventWinByFold:
		if result := that.store.LastResult(); result != nil {
			that.print(renderResult(result))
		}
	case protocol.EventError:
		if message := that.store.LastError(); message != "" {
			that.warning.Println(message)
			that.store.ClearError()
		}
	case protocol.EventBuyInSuccess, protocol.EventCashOutSuccess, protocol.EventBalanceInfo:
		that.info.Println(renderBalance(that.wallet.Balance()))
	case protocol.EventJoinTableSuccess, protocol.EventSitDownSuccess,
		protocol.EventStandUpSuccess, protocol.EventLeaveTableSuccess:
		membership := that.store.Membership()
		that.info.Printfln("table %q seat %d", membership.TableID, membership.SeatNo)
	default:
		that.logger.Debug("nothing to show", "type", eventType)
	}
}

func (that *Observer) print(block string) {
	if _, err := fmt.Fprintln(that.out, block); err != nil {
		that.logger.Warn("failed to write to console", "error", err)
	}
}

// Prompt - reads commands from in and sends them for the joined table.
// It returns ErrQuit on "quit" and nil at end of input.
func (that *Observer) Prompt(ctx context.Context, in io.Reader, commands commander) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)

	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-scanErr:
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			return nil
		case line := <-lines:
			cmd, err := ParseCommand(line)
			if err != nil {
				that.warning.Println(err.Error())
				continue
			}

			err = cmd.Execute(commands, that.store.Membership().TableID)
			if errors.Is(err, ErrQuit) {
				return ErrQuit
			}
			if err != nil {
				that.warning.Println(err.Error())
			}
		}
	}
}
