package console

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/holdem-client/internal/entity"
)

var (
	ErrQuit           = errors.New("quit requested")
	ErrUnknownCommand = errors.New("unknown command")
	ErrMissingArg     = errors.New("missing argument")
	ErrNoTable        = errors.New("not at a table")
)

type commander interface {
	JoinTable(tableID string) error
	LeaveTable(tableID string) error
	SitDown(tableID string, seatNo int) error
	StandUp(tableID string) error
	BuyIn(tableID string, amount int64) error
	CashOut(tableID string) error
	Act(tableID string, action entity.GameActionType, amount int64) error
	GetBalance() error
}

// Command is one parsed input line.
type Command struct {
	Name   string
	Arg    string
	Amount int64
}

// ParseCommand - parses lines such as "raise 200", "sit 3" or "join table-1".
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("%w: empty line", ErrUnknownCommand)
	}

	cmd := Command{Name: fields[0]}

	switch cmd.Name {
	case "fold", "check", "call", "allin", "stand", "leave", "cashout", "balance", "quit":
		return cmd, nil
	case "join":
		if len(fields) < 2 {
			return Command{}, fmt.Errorf("%w: join needs a table id", ErrMissingArg)
		}
		cmd.Arg = strings.Fields(line)[1]
		return cmd, nil
	case "bet", "raise", "buyin", "sit":
		if len(fields) < 2 {
			return Command{}, fmt.Errorf("%w: %s needs a number", ErrMissingArg, cmd.Name)
		}
		amount, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil || amount < 0 {
			return Command{}, fmt.Errorf("%w: %q is not a number", ErrMissingArg, fields[1])
		}
		cmd.Amount = amount
		return cmd, nil
	default:
		return Command{}, fmt.Errorf("%w: %s", ErrUnknownCommand, cmd.Name)
	}
}

// Execute - sends the command for tableID. join ignores tableID.
func (that Command) Execute(commands commander, tableID string) error {
	if that.Name == "quit" {
		return ErrQuit
	}

	if that.Name == "join" {
		return commands.JoinTable(that.Arg)
	}

	if that.Name == "balance" {
		return commands.GetBalance()
	}

	if tableID == "" {
		return ErrNoTable
	}

	switch that.Name {
	case "fold":
		return commands.Act(tableID, entity.ActionFold, 0)
	case "check":
		return commands.Act(tableID, entity.ActionCheck, 0)
	case "call":
		return commands.Act(tableID, entity.ActionCall, 0)
	case "allin":
		return commands.Act(tableID, entity.ActionAllIn, 0)
	case "bet":
		return commands.Act(tableID, entity.ActionBet, that.Amount)
	case "raise":
		return commands.Act(tableID, entity.ActionRaise, that.Amount)
	case "sit":
		return commands.SitDown(tableID, int(that.Amount))
	case "stand":
		return commands.StandUp(tableID)
	case "buyin":
		return commands.BuyIn(tableID, that.Amount)
	case "cashout":
		return commands.CashOut(tableID)
	case "leave":
		return commands.LeaveTable(tableID)
	}

	return fmt.Errorf("%w: %s", ErrUnknownCommand, that.Name)
}
