// Package booking contains the booking transaction coordinator: the
// single entry point that turns a seat-selection request into a
// durable, non-overbookable reservation and drives its lifecycle.
//
// The sentinel errors below are the stable outward signals of the
// coordinator.  Handlers distinguish them with errors.Is and map each
// to its own HTTP status; storage-engine detail never crosses this
// boundary.
package booking

import (
	"errors"

	"github.com/railbook/train-ticket-booking/internal/model"
)

// ErrNotFound is returned when a referenced schedule or booking does
// not exist.
var ErrNotFound = errors.New("not found")

// ErrCapacityExceeded is returned when the schedule does not have
// enough seats left for the requested passenger count.
var ErrCapacityExceeded = errors.New("not enough available seats")

// ErrSeatUnavailable is returned when one or more requested seats are
// already held by a non-cancelled booking.
var ErrSeatUnavailable = errors.New("one or more requested seats are not available")

// ErrMalformedRequest is returned for structurally invalid input that
// reached the coordinator: zero passengers, mismatched passenger/seat
// list lengths, duplicate seat ids or an unknown seat class.  Input is
// validated upstream, but the coordinator does not assume so.
var ErrMalformedRequest = errors.New("malformed booking request")

// ErrInvalidState is returned for an illegal lifecycle transition,
// such as confirming a cancelled booking or cancelling one twice.
var ErrInvalidState = model.ErrInvalidTransition

// ErrForbidden is returned when the caller neither owns the booking
// nor has elevated privilege.
var ErrForbidden = errors.New("forbidden")

// ErrReferenceExhausted is returned when the reference generator ran
// out of retries without finding an unused reference.  With 36^8
// possible references this should not occur in practice.
var ErrReferenceExhausted = errors.New("booking reference generation exhausted")
