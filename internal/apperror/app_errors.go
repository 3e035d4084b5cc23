package apperror

import "errors"

var (
	ErrNotLoggedIn       = errors.New("not logged in")
	ErrSessionNotFound   = errors.New("session not found")
	ErrTicketUnavailable = errors.New("ticket unavailable")
	ErrRequestFailed     = errors.New("request failed")
	ErrMalformedFrame    = errors.New("malformed frame")
	ErrInvalidSeat       = errors.New("invalid seat index")
)
