package entity

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/holdem-client/internal/apperror"
)

// SeatCount is the fixed number of seats at a table.
const SeatCount = 9

// NoSeat marks an unknown or absent seat index.
const NoSeat = -1

type GameStreet string

const (
	StreetWaiting  GameStreet = "Waiting"
	StreetPreFlop  GameStreet = "PreFlop"
	StreetFlop     GameStreet = "Flop"
	StreetTurn     GameStreet = "Turn"
	StreetRiver    GameStreet = "River"
	StreetShowdown GameStreet = "Showdown"
	StreetFinished GameStreet = "Finished"
)

var (
	ErrUnknownPlayerStatus = errors.New("unknown player status")
	ErrUnknownGameStreet   = errors.New("unknown game street")
	ErrSeatTaken           = errors.New("seat is already taken")

	// gameStreetOrdinals follows the server's numeric encoding, where 0 is idle.
	gameStreetOrdinals = []GameStreet{
		StreetWaiting,
		StreetPreFlop,
		StreetFlop,
		StreetTurn,
		StreetRiver,
		StreetShowdown,
		StreetFinished,
	}
)

// UnmarshalJSON accepts either the street name or the server ordinal.
func (that *GameStreet) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		for _, street := range gameStreetOrdinals {
			if string(street) == name {
				*that = street
				return nil
			}
		}
		return fmt.Errorf("%w: %q", ErrUnknownGameStreet, name)
	}

	var ordinal int
	if err := json.Unmarshal(data, &ordinal); err != nil {
		return fmt.Errorf("failed to unmarshal game street: %w", err)
	}

	if ordinal < 0 || ordinal >= len(gameStreetOrdinals) {
		return fmt.Errorf("%w: %d", ErrUnknownGameStreet, ordinal)
	}

	*that = gameStreetOrdinals[ordinal]

	return nil
}

// Seat is either empty or holds exactly one player.
type Seat struct {
	player *Player
}

func EmptySeat() Seat {
	return Seat{}
}

func OccupiedSeat(player *Player) Seat {
	return Seat{player: player}
}

func (that Seat) IsEmpty() bool {
	return that.player == nil
}

// Player returns the occupant and whether the seat is occupied.
func (that Seat) Player() (*Player, bool) {
	return that.player, that.player != nil
}

// TableState is the mirrored authoritative table.
type TableState struct {
	TableID        string
	Street         GameStreet
	Seats          [SeatCount]Seat
	CommunityCards []Card
	DealerSeat     int
	ActingSeat     int
	MinBet         int64
	PotTotal       int64
	SmallBlind     int64
	BigBlind       int64
}

type tableStateJSON struct {
	TableID        string     `json:"table_id"`
	State          GameStreet `json:"state"`
	Players        []*Player  `json:"players"`
	CommunityCards []Card     `json:"community_cards"`
	DealerPos      int        `json:"dealer_pos"`
	CurrentPos     int        `json:"current_pos"`
	MinBet         int64      `json:"min_bet"`
	PotTotal       int64      `json:"pot_total"`
	SmallBlind     int64      `json:"small_blind"`
	BigBlind       int64      `json:"big_blind"`
}

// UnmarshalJSON places players by their seat index. The players list may be a
// nine-slot array with nulls or a compact list of occupied seats.
func (that *TableState) UnmarshalJSON(data []byte) error {
	raw := tableStateJSON{
		State:      StreetWaiting,
		DealerPos:  NoSeat,
		CurrentPos: NoSeat,
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to unmarshal table state: %w", err)
	}

	table := TableState{
		TableID:        raw.TableID,
		Street:         raw.State,
		CommunityCards: raw.CommunityCards,
		DealerSeat:     raw.DealerPos,
		ActingSeat:     raw.CurrentPos,
		MinBet:         raw.MinBet,
		PotTotal:       raw.PotTotal,
		SmallBlind:     raw.SmallBlind,
		BigBlind:       raw.BigBlind,
	}

	if table.CommunityCards == nil {
		table.CommunityCards = []Card{}
	}

	for _, player := range raw.Players {
		if player == nil {
			continue
		}

		if err := table.Sit(player); err != nil {
			return err
		}
	}

	*that = table

	return nil
}

func (that TableState) MarshalJSON() ([]byte, error) {
	players := make([]*Player, SeatCount)
	for idx, seat := range that.Seats {
		players[idx] = seat.player
	}

	cards := that.CommunityCards
	if cards == nil {
		cards = []Card{}
	}

	data, err := json.Marshal(tableStateJSON{
		TableID:        that.TableID,
		State:          that.Street,
		Players:        players,
		CommunityCards: cards,
		DealerPos:      that.DealerSeat,
		CurrentPos:     that.ActingSeat,
		MinBet:         that.MinBet,
		PotTotal:       that.PotTotal,
		SmallBlind:     that.SmallBlind,
		BigBlind:       that.BigBlind,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal table state: %w", err)
	}

	return data, nil
}

// Sit places the player at player.SeatIdx.
func (that *TableState) Sit(player *Player) error {
	if player.SeatIdx < 0 || player.SeatIdx >= SeatCount {
		return fmt.Errorf("%w: %d", apperror.ErrInvalidSeat, player.SeatIdx)
	}

	if !that.Seats[player.SeatIdx].IsEmpty() {
		return fmt.Errorf("%w: %d", ErrSeatTaken, player.SeatIdx)
	}

	that.Seats[player.SeatIdx] = OccupiedSeat(player)

	return nil
}

// PlayerAt returns the player at seat, false for an empty or out of range seat.
func (that *TableState) PlayerAt(seat int) (*Player, bool) {
	if seat < 0 || seat >= SeatCount {
		return nil, false
	}

	return that.Seats[seat].Player()
}

// SeatOf returns the seat of the player with the given name, or NoSeat.
func (that *TableState) SeatOf(name string) int {
	if name == "" {
		return NoSeat
	}

	for idx, seat := range that.Seats {
		if player, ok := seat.Player(); ok && player.Name == name {
			return idx
		}
	}

	return NoSeat
}

func (that *TableState) Players() []*Player {
	players := make([]*Player, 0, SeatCount)
	for _, seat := range that.Seats {
		if player, ok := seat.Player(); ok {
			players = append(players, player)
		}
	}

	return players
}

// ResetHand zeroes per-hand table fields and resets every seated player.
func (that *TableState) ResetHand() {
	that.CommunityCards = []Card{}
	that.PotTotal = 0

	for _, player := range that.Players() {
		player.ResetForHand()
	}
}

// Clone returns a deep copy safe to hand to readers.
func (that *TableState) Clone() *TableState {
	if that == nil {
		return nil
	}

	out := *that
	out.CommunityCards = CloneCards(that.CommunityCards)

	for idx, seat := range that.Seats {
		if player, ok := seat.Player(); ok {
			copied := *player
			out.Seats[idx] = OccupiedSeat(&copied)
		}
	}

	return &out
}
