package game

import "github.com/rocketscienceinc/holdem-client/internal/protocol"

// HandResult is the outcome of the last finished hand, kept for display.
type HandResult struct {
	Winners []protocol.Winner
	Hands   []protocol.RevealedHand
	ByFold  bool
}

// Membership is the table and seat the server last confirmed for us.
type Membership struct {
	TableID string
	SeatNo  int
}
