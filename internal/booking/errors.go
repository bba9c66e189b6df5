// Package booking implements the per-attempt selection state machine
// and the checkout path that turns a selection into a durable sale.
// Sentinel errors defined here let the HTTP layer distinguish failure
// modes without string matching.
package booking

import "errors"

// ErrSeatUnavailable is returned when a toggle targets a seat that is
// already sold.  The session is left unchanged.
var ErrSeatUnavailable = errors.New("seat unavailable")

// ErrSelectionLimit is returned when a toggle would push the session
// past its seat cap.  The session is left unchanged.
var ErrSelectionLimit = errors.New("selection limit exceeded")

// ErrEmptySelection is returned by checkout when the session holds no
// seats.  The occupancy store is never contacted in this case.
var ErrEmptySelection = errors.New("empty selection")

// ErrUnknownSeat is returned when a toggle names a seat id that does
// not exist in the venue layout.
var ErrUnknownSeat = errors.New("unknown seat")

// ErrSessionNotFound is returned by the registry when a session id is
// unknown, expired or already completed.
var ErrSessionNotFound = errors.New("session not found")
