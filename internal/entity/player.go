package entity

import (
	"encoding/json"
	"fmt"
)

type PlayerStatus string

const (
	StatusSittingOut PlayerStatus = "SittingOut"
	StatusPlaying    PlayerStatus = "Playing"
	StatusFolded     PlayerStatus = "Folded"
	StatusAllIn      PlayerStatus = "AllIn"
	StatusLeft       PlayerStatus = "Left"
)

// playerStatusOrdinals follows the server's numeric encoding.
var playerStatusOrdinals = []PlayerStatus{
	StatusSittingOut,
	StatusPlaying,
	StatusFolded,
	StatusAllIn,
	StatusLeft,
}

// UnmarshalJSON accepts either the status name or the server ordinal.
func (that *PlayerStatus) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		for _, status := range playerStatusOrdinals {
			if string(status) == name {
				*that = status
				return nil
			}
		}
		return fmt.Errorf("%w: %q", ErrUnknownPlayerStatus, name)
	}

	var ordinal int
	if err := json.Unmarshal(data, &ordinal); err != nil {
		return fmt.Errorf("failed to unmarshal player status: %w", err)
	}

	if ordinal < 0 || ordinal >= len(playerStatusOrdinals) {
		return fmt.Errorf("%w: %d", ErrUnknownPlayerStatus, ordinal)
	}

	*that = playerStatusOrdinals[ordinal]

	return nil
}

// Player is a seated player as mirrored from the server.
type Player struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	SeatIdx    int          `json:"seat_idx"`
	Chips      int64        `json:"chips"`
	CurrentBet int64        `json:"current_bet"`
	Status     PlayerStatus `json:"status"`
	HasActed   bool         `json:"has_acted"`
	Avatar     string       `json:"avatar,omitempty"`
}

func (that *Player) IsSittingOut() bool {
	return that.Status == StatusSittingOut
}

// Commit moves amount from the chip stack into the current street bet.
// The caller adds the same amount to the pot.
func (that *Player) Commit(amount int64) {
	that.Chips -= amount
	that.CurrentBet += amount
}

// ResetForHand clears per-hand fields and returns an active player to Playing.
func (that *Player) ResetForHand() {
	that.CurrentBet = 0
	that.HasActed = false

	if !that.IsSittingOut() {
		that.Status = StatusPlaying
	}
}
