package model

import "time"

// Train statuses.  Only ACTIVE trains are assigned to new schedules.
const (
	TrainActive      = "ACTIVE"
	TrainInactive    = "INACTIVE"
	TrainMaintenance = "MAINTENANCE"
)

// Train is the rolling stock a schedule runs with.  TotalSeats is the
// upper bound for a schedule's available-seat counter; the per-class
// counts describe the physical seat layout.
//
// Fields:
//
//	ID              – primary key identifier.
//	Name            – train name (e.g. "Coastal Express").
//	Number          – operator-facing train number.
//	TotalSeats      – total number of physical seats.
//	EconomySeats    – seats in economy class.
//	BusinessSeats   – seats in business class.
//	FirstClassSeats – seats in first class.
//	Status          – ACTIVE, INACTIVE or MAINTENANCE.
//	CreatedAt       – creation timestamp.
type Train struct {
	ID              uint64    // trains.id
	Name            string    // trains.name
	Number          string    // trains.number
	TotalSeats      uint32    // trains.total_seats
	EconomySeats    uint32    // trains.economy_seats
	BusinessSeats   uint32    // trains.business_seats
	FirstClassSeats uint32    // trains.first_class_seats
	Status          string    // trains.status
	CreatedAt       time.Time // trains.created_at
}
