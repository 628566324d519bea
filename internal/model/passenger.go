package model

import "time"

// Passenger is one traveller on a booking.  Passengers are created
// only as part of booking creation and are immutable afterwards; each
// passenger is tied to exactly one seat assignment.
//
// Fields:
//
//	ID             – primary key identifier.
//	BookingID      – booking the passenger travels on.
//	FirstName      – given name.
//	LastName       – family name.
//	DateOfBirth    – date of birth (time-of-day ignored).
//	IdentityNumber – passport or national id number.
//	Phone          – contact phone number.
//	Email          – contact e-mail (optional).
//	CreatedAt      – creation timestamp.
type Passenger struct {
	ID             uint64    // passengers.id
	BookingID      uint64    // passengers.booking_id
	FirstName      string    // passengers.first_name
	LastName       string    // passengers.last_name
	DateOfBirth    time.Time // passengers.date_of_birth
	IdentityNumber string    // passengers.identity_number
	Phone          string    // passengers.phone
	Email          string    // passengers.email
	CreatedAt      time.Time // passengers.created_at
}

// SeatAssignment binds one physical seat, within one schedule's
// booking, to one passenger.  Rows of cancelled bookings are kept as
// historical record; the availability resolver filters on booking
// status instead of deleting them.  The storage layer enforces
// UNIQUE(booking_id, seat_id) as the anti-overbooking backstop.
//
// Fields:
//
//	ID          – primary key identifier.
//	BookingID   – owning booking.
//	ScheduleID  – schedule the seat is held for.
//	SeatID      – physical seat being held.
//	PassengerID – passenger the seat is assigned to.
//	CreatedAt   – creation timestamp.
type SeatAssignment struct {
	ID          uint64    // booking_seats.id
	BookingID   uint64    // booking_seats.booking_id
	ScheduleID  uint64    // booking_seats.schedule_id
	SeatID      uint64    // booking_seats.seat_id
	PassengerID uint64    // booking_seats.passenger_id
	CreatedAt   time.Time // booking_seats.created_at
}
