// Package repository implements persistence for the booking domain on
// top of database/sql.  Sentinel values defined here let higher layers
// distinguish failure scenarios without inspecting driver-specific
// error detail.  Methods with a Tx suffix run inside a caller-owned
// transaction; the caller commits or rolls back.
package repository

import (
	"errors"
	"strings"
)

// ErrScheduleNotFound is returned when a schedule lookup matches no row.
var ErrScheduleNotFound = errors.New("schedule not found")

// ErrBookingNotFound is returned when a booking lookup matches no row.
var ErrBookingNotFound = errors.New("booking not found")

// ErrTrainNotFound is returned when a train lookup matches no row.
var ErrTrainNotFound = errors.New("train not found")

// ErrUserNotFound is returned when a user lookup matches no row.
var ErrUserNotFound = errors.New("user not found")

// ErrDuplicateKey is returned when an insert violates a uniqueness
// constraint, such as the UNIQUE(booking_id, seat_id) backstop on seat
// assignments or the unique booking reference.
var ErrDuplicateKey = errors.New("duplicate key")

// ErrCapacityGuard is returned when an available-seats adjustment
// would push the counter below zero or above the train's total.
var ErrCapacityGuard = errors.New("available seats guard violated")

// ErrEmailExists is returned when registering an already-used e-mail.
var ErrEmailExists = errors.New("email already exists")

// isDuplicateKey detects a MySQL duplicate-entry error (code 1062).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
