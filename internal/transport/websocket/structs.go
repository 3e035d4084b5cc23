package websocket

import "time"

// Status is the connectivity state reported to consumers.
type Status string

const (
	StatusDisconnected Status = "disconnected"
	StatusConnecting   Status = "connecting"
	StatusConnected    Status = "connected"
)

// Options tunes the dial and reconnect behavior of a Manager.
type Options struct {
	Path             string
	HandshakeTimeout time.Duration

	BaseDelay time.Duration
	MaxDelay  time.Duration
	// MaxAttempts is the last attempt number still scheduled; one more failure gives up.
	MaxAttempts int
}

func DefaultOptions() Options {
	return Options{
		Path:             "/ws",
		HandshakeTimeout: 10 * time.Second,
		BaseDelay:        time.Second,
		MaxDelay:         30 * time.Second,
		MaxAttempts:      5,
	}
}
