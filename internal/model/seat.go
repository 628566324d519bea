package model

import "time"

// SeatClass identifies the service class of a seat and the fare column
// used to price it.
type SeatClass string

// Seat classes.  The values are stored verbatim in the seats.class column.
const (
	ClassEconomy    SeatClass = "ECONOMY"
	ClassBusiness   SeatClass = "BUSINESS"
	ClassFirstClass SeatClass = "FIRST_CLASS"
)

// Valid reports whether c is one of the known seat classes.
func (c SeatClass) Valid() bool {
	switch c {
	case ClassEconomy, ClassBusiness, ClassFirstClass:
		return true
	}
	return false
}

// Seat is a physical seat slot on a train.  IsAvailable is an
// administrative flag (a broken or blocked seat); whether a seat is
// free for a given schedule is never stored here; it is derived from
// the active seat assignments of that schedule, because the same
// physical seat is free again on a different day's run of the train.
//
// Fields:
//
//	ID          – primary key identifier.
//	TrainID     – train the seat belongs to.
//	SeatNumber  – label printed on the seat (e.g. "12A").
//	Class       – service class of the seat.
//	IsAvailable – administrative availability flag.
//	CreatedAt   – creation timestamp.
type Seat struct {
	ID          uint64    // seats.id
	TrainID     uint64    // seats.train_id
	SeatNumber  string    // seats.seat_number
	Class       SeatClass // seats.class
	IsAvailable bool      // seats.is_available
	CreatedAt   time.Time // seats.created_at
}
