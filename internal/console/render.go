package console

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/shopspring/decimal"

	"github.com/rocketscienceinc/holdem-client/internal/entity"
	"github.com/rocketscienceinc/holdem-client/internal/game"
	"github.com/rocketscienceinc/holdem-client/internal/transport/websocket"
)

// indicator - the connectivity label. A Connected that follows an earlier
// connection reads as reconnected.
func indicator(status websocket.Status, seenConnected bool) string {
	switch status {
	case websocket.StatusConnecting:
		return pterm.LightYellow("connecting")
	case websocket.StatusConnected:
		if seenConnected {
			return pterm.LightGreen("reconnected")
		}
		return pterm.LightGreen("connected")
	default:
		return pterm.LightRed("disconnected")
	}
}

func renderTable(table *entity.TableState, myCards []entity.Card, mySeat int) string {
	if table == nil {
		return pterm.Gray("no table")
	}

	var builder strings.Builder

	builder.WriteString(pterm.Sprintfln("%s  %s  pot %d  blinds %d/%d",
		pterm.LightCyan(table.TableID), table.Street, table.PotTotal, table.SmallBlind, table.BigBlind))
	builder.WriteString(pterm.Sprintfln("board %s", renderCards(table.CommunityCards)))

	for idx := 0; idx < entity.SeatCount; idx++ {
		player, ok := table.PlayerAt(idx)
		if !ok {
			continue
		}

		builder.WriteString(renderSeat(table, player, idx, idx == mySeat))
	}

	if len(myCards) > 0 {
		builder.WriteString(pterm.Sprintfln("hand  %s", pterm.BgGreen.Sprint(renderCards(myCards))))
	}

	return pterm.DefaultBox.WithTitle("|TABLE|").WithTitleTopCenter().Sprint(strings.TrimRight(builder.String(), "\n"))
}

func renderSeat(table *entity.TableState, player *entity.Player, seat int, mine bool) string {
	marker := "  "
	if seat == table.ActingSeat {
		marker = "> "
	}

	name := player.Name
	if mine {
		name = pterm.LightCyan(name)
	}

	tags := ""
	if seat == table.DealerSeat {
		tags = " (D)"
	}

	return pterm.Sprintfln("%s[%d] %s%s  chips %d  bet %d  %s",
		marker, seat, name, tags, player.Chips, player.CurrentBet, renderStatus(player.Status))
}

func renderStatus(status entity.PlayerStatus) string {
	switch status {
	case entity.StatusFolded:
		return pterm.LightRed(string(status))
	case entity.StatusAllIn:
		return pterm.LightMagenta(string(status))
	case entity.StatusPlaying:
		return pterm.LightGreen(string(status))
	default:
		return pterm.Gray(string(status))
	}
}

func renderCards(cards []entity.Card) string {
	if len(cards) == 0 {
		return "-"
	}

	parts := make([]string, 0, len(cards))
	for _, card := range cards {
		parts = append(parts, string(card))
	}

	return strings.Join(parts, " ")
}

func renderTurn(turn entity.TurnContext) string {
	actions := make([]string, 0, len(turn.ValidActions))
	for _, action := range turn.ValidActions {
		actions = append(actions, strings.ToLower(string(action)))
	}

	return fmt.Sprintf("your turn: %s  to call %d  min raise %d  %ds left",
		strings.Join(actions, "/"), turn.AmountToCall, turn.MinRaise, turn.TimeRemaining)
}

func renderResult(result *game.HandResult) string {
	var builder strings.Builder

	for _, winner := range result.Winners {
		if result.ByFold {
			builder.WriteString(pterm.Sprintfln("seat %d won %d taking down the pot", winner.SeatIdx, winner.Amount))
			continue
		}

		builder.WriteString(pterm.Sprintfln("seat %d won %d with %s", winner.SeatIdx, winner.Amount, winner.HandRank))
	}

	return pterm.DefaultBox.WithTitle(pterm.LightGreen("|SHOWDOWN|")).WithTitleTopCenter().
		Sprint(strings.TrimRight(builder.String(), "\n"))
}

func renderBalance(balance decimal.Decimal) string {
	return "wallet " + balance.StringFixed(2)
}
