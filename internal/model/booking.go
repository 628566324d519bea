package model

import (
	"errors"
	"time"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

// Booking lifecycle states.  CANCELLED and COMPLETED are terminal.
const (
	StatusPending   BookingStatus = "PENDING"
	StatusConfirmed BookingStatus = "CONFIRMED"
	StatusCancelled BookingStatus = "CANCELLED"
	StatusCompleted BookingStatus = "COMPLETED"
)

// ErrInvalidTransition is returned by Confirm and Cancel when the
// booking is not in a state the requested transition is legal from.
var ErrInvalidTransition = errors.New("invalid booking state transition")

// CanTransitionTo reports whether the lifecycle permits moving from s
// to next.  The legal transitions are PENDING→CONFIRMED,
// PENDING→CANCELLED, CONFIRMED→CANCELLED and CONFIRMED→COMPLETED.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCancelled || next == StatusCompleted
	}
	return false
}

// BookingEventKind names a domain event raised by a booking transition.
// The values double as message-queue routing keys.
type BookingEventKind string

const (
	EventBookingConfirmed BookingEventKind = "booking.confirmed"
	EventBookingCancelled BookingEventKind = "booking.cancelled"
)

// BookingEvent is a pending domain event returned by a state
// transition.  Transitions never dispatch events themselves; the
// caller publishes them only after the surrounding transaction has
// committed, so a rolled-back booking can never notify anyone.
type BookingEvent struct {
	Kind       BookingEventKind
	BookingID  uint64
	UserID     uint64
	Reference  string
	OccurredAt time.Time
}

// Booking is the aggregate root of the reservation core.  It owns its
// passengers and seat assignments by composition: they are created in
// the same transaction as the booking and are never written without
// it.  A booking is never deleted, only moved to a terminal status.
//
// Invariant: NumberOfPassengers equals both the number of passenger
// rows and the number of seat-assignment rows of the booking.
//
// Fields:
//
//	ID                 – primary key identifier.
//	Reference          – unique human-facing booking reference.
//	UserID             – user who owns the booking.
//	ScheduleID         – schedule being travelled.
//	NumberOfPassengers – travellers on this booking.
//	TotalAmountCents   – total fare in cents for all passengers.
//	Status             – lifecycle state.
//	CreatedAt          – when the reservation attempt committed.
type Booking struct {
	ID                 uint64        // bookings.id
	Reference          string        // bookings.reference
	UserID             uint64        // bookings.user_id
	ScheduleID         uint64        // bookings.schedule_id
	NumberOfPassengers uint32        // bookings.passenger_count
	TotalAmountCents   int64         // bookings.total_amount_cents
	Status             BookingStatus // bookings.status
	CreatedAt          time.Time     // bookings.created_at
}

// Confirm moves the booking from PENDING to CONFIRMED and returns the
// pending booking-confirmed event.  Seat allocation is untouched.  Any
// other source state fails with ErrInvalidTransition.
func (b *Booking) Confirm(now time.Time) (BookingEvent, error) {
	if !b.Status.CanTransitionTo(StatusConfirmed) {
		return BookingEvent{}, ErrInvalidTransition
	}
	b.Status = StatusConfirmed
	return b.event(EventBookingConfirmed, now), nil
}

// Cancel moves the booking to CANCELLED from PENDING or CONFIRMED and
// returns the pending booking-cancelled event.  Cancelling an already
// cancelled or completed booking fails with ErrInvalidTransition, so
// seat capacity can never be released twice.
func (b *Booking) Cancel(now time.Time) (BookingEvent, error) {
	if !b.Status.CanTransitionTo(StatusCancelled) {
		return BookingEvent{}, ErrInvalidTransition
	}
	b.Status = StatusCancelled
	return b.event(EventBookingCancelled, now), nil
}

// Complete moves a CONFIRMED booking of a past journey to COMPLETED.
// No event is raised; trigger logic lives with the external scheduler.
func (b *Booking) Complete() error {
	if !b.Status.CanTransitionTo(StatusCompleted) {
		return ErrInvalidTransition
	}
	b.Status = StatusCompleted
	return nil
}

func (b *Booking) event(kind BookingEventKind, now time.Time) BookingEvent {
	return BookingEvent{
		Kind:       kind,
		BookingID:  b.ID,
		UserID:     b.UserID,
		Reference:  b.Reference,
		OccurredAt: now.UTC(),
	}
}
