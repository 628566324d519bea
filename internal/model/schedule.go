package model

import "time"

// Schedule is one run of a train along a route at a specific
// departure/arrival time.  It carries per-class base fares in cents
// and the mutable available-seat counter.
//
// AvailableSeats is the single piece of shared mutable state contended
// by concurrent bookings; it is only ever changed inside the same
// storage transaction as the seat assignments it accounts for, and the
// invariant 0 <= AvailableSeats <= train.TotalSeats holds at all times.
//
// Fields:
//
//	ID              – primary key identifier.
//	TrainID         – train operating this run.
//	RouteID         – route being run.
//	DepartsAt       – departure time (UTC).
//	ArrivesAt       – arrival time (UTC).
//	EconomyCents    – base fare for economy seats, in cents.
//	BusinessCents   – base fare for business seats, in cents.
//	FirstClassCents – base fare for first-class seats, in cents.
//	AvailableSeats  – remaining bookable seats on this run.
//	CreatedAt       – creation timestamp.
type Schedule struct {
	ID              uint64    // schedules.id
	TrainID         uint64    // schedules.train_id
	RouteID         uint64    // schedules.route_id
	DepartsAt       time.Time // schedules.departs_at
	ArrivesAt       time.Time // schedules.arrives_at
	EconomyCents    int64     // schedules.economy_cents
	BusinessCents   int64     // schedules.business_cents
	FirstClassCents int64     // schedules.first_class_cents
	AvailableSeats  uint32    // schedules.available_seats
	CreatedAt       time.Time // schedules.created_at
}

// PriceForClass returns the base fare in cents for the given seat
// class.  Unknown classes fall back to the economy fare.
func (s *Schedule) PriceForClass(class SeatClass) int64 {
	switch class {
	case ClassBusiness:
		return s.BusinessCents
	case ClassFirstClass:
		return s.FirstClassCents
	default:
		return s.EconomyCents
	}
}
