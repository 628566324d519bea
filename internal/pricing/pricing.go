// Package pricing computes per-seat fares.  The computation is a pure
// function of its inputs: no state, no I/O, no clock access.  All
// amounts are handled in cents.
package pricing

import (
	"math"
	"time"

	"github.com/railbook/train-ticket-booking/internal/model"
)

// PerSeat returns the fare in cents for one seat.  Three multipliers
// compound on the base fare for the class:
//
//  1. class multiplier: economy ×1.0, business ×1.5, first class ×2.0
//  2. advance-purchase discount by whole calendar days between booking
//     and departure: ≥30 ×0.80, ≥14 ×0.90, ≥7 ×0.95, else ×1.00
//  3. peak surcharge: Saturday/Sunday departure ×1.10; otherwise a
//     departure hour in [7,9] or [17,19] ×1.15; otherwise ×1.00.
//     The weekend rule takes precedence, the two are never combined.
//
// The result is rounded half-up to whole cents.
func PerSeat(baseCents int64, class model.SeatClass, bookingTime, departureTime time.Time) int64 {
	price := float64(baseCents)
	price *= classMultiplier(class)
	price *= advanceMultiplier(daysBetween(bookingTime, departureTime))
	price *= peakMultiplier(departureTime)
	return roundHalfUp(price)
}

// Total returns the booking total: the per-seat fare times the number
// of passengers.
func Total(baseCents int64, class model.SeatClass, bookingTime, departureTime time.Time, passengers int) int64 {
	return PerSeat(baseCents, class, bookingTime, departureTime) * int64(passengers)
}

func classMultiplier(class model.SeatClass) float64 {
	switch class {
	case model.ClassBusiness:
		return 1.5
	case model.ClassFirstClass:
		return 2.0
	default:
		return 1.0
	}
}

func advanceMultiplier(days int) float64 {
	switch {
	case days >= 30:
		return 0.80
	case days >= 14:
		return 0.90
	case days >= 7:
		return 0.95
	default:
		return 1.00
	}
}

func peakMultiplier(departure time.Time) float64 {
	switch departure.Weekday() {
	case time.Saturday, time.Sunday:
		return 1.10
	}
	h := departure.Hour()
	if (h >= 7 && h <= 9) || (h >= 17 && h <= 19) {
		return 1.15
	}
	return 1.00
}

// daysBetween counts whole calendar days from the booking date to the
// departure date, ignoring time of day.
func daysBetween(booking, departure time.Time) int {
	b := booking.UTC()
	d := departure.UTC()
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	dd := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return int(dd.Sub(bd) / (24 * time.Hour))
}

// roundHalfUp rounds to the nearest cent with ties away from zero,
// matching standard half-up currency rounding.
func roundHalfUp(cents float64) int64 {
	return int64(math.Floor(cents + 0.5))
}
