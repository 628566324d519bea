package pricing

import (
	"testing"
	"time"

	"github.com/railbook/train-ticket-booking/internal/model"
)

func date(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func TestPerSeatEconomyThirtyDaysAdvance(t *testing.T) {
	// 2024-01-31 is a Wednesday; 12:00 is off-peak.
	booking := date(2024, time.January, 1, 10)
	departure := date(2024, time.January, 31, 12)
	got := PerSeat(10000, model.ClassEconomy, booking, departure)
	if got != 8000 {
		t.Fatalf("PerSeat = %d, want 8000 (100 x 1.0 x 0.80 x 1.0)", got)
	}
}

func TestPerSeatBusinessNoDiscount(t *testing.T) {
	// Two days in advance, off-peak weekday: only the class multiplier.
	booking := date(2024, time.January, 29, 9)
	departure := date(2024, time.January, 31, 12)
	got := PerSeat(10000, model.ClassBusiness, booking, departure)
	if got != 15000 {
		t.Fatalf("PerSeat = %d, want 15000 (100 x 1.5)", got)
	}
}

func TestPerSeatFirstClassDoubles(t *testing.T) {
	booking := date(2024, time.January, 29, 9)
	departure := date(2024, time.January, 31, 12)
	got := PerSeat(10000, model.ClassFirstClass, booking, departure)
	if got != 20000 {
		t.Fatalf("PerSeat = %d, want 20000 (100 x 2.0)", got)
	}
}

func TestAdvanceDiscountBoundaries(t *testing.T) {
	// 2024-07-03 is a Wednesday at noon: no weekend or peak surcharge,
	// so only the discount tier varies.
	departure := date(2024, time.July, 3, 12)
	cases := []struct {
		booking time.Time
		want    int64
	}{
		{date(2024, time.June, 3, 23), 8000},   // exactly 30 days
		{date(2024, time.June, 4, 0), 9000},    // 29 days
		{date(2024, time.June, 19, 12), 9000},  // exactly 14 days
		{date(2024, time.June, 20, 12), 9500},  // 13 days
		{date(2024, time.June, 26, 12), 9500},  // exactly 7 days
		{date(2024, time.June, 27, 12), 10000}, // 6 days
	}
	for _, tc := range cases {
		got := PerSeat(10000, model.ClassEconomy, tc.booking, departure)
		if got != tc.want {
			t.Errorf("booking %s: got %d want %d", tc.booking.Format("2006-01-02"), got, tc.want)
		}
	}
}

func TestWeekendTakesPrecedenceOverPeakHour(t *testing.T) {
	booking := date(2024, time.March, 1, 10)
	// Saturday at 08:00: a peak hour, but the weekend rule wins (x1.10,
	// not x1.15 and never both).
	departure := date(2024, time.March, 2, 8)
	got := PerSeat(10000, model.ClassEconomy, booking, departure)
	if got != 11000 {
		t.Fatalf("PerSeat = %d, want 11000 (weekend x1.10 only)", got)
	}
}

func TestWeekdayPeakHours(t *testing.T) {
	booking := date(2024, time.March, 1, 10)
	cases := []struct {
		hour int
		want int64
	}{
		{6, 10000},
		{7, 11500},
		{9, 11500},
		{10, 10000},
		{17, 11500},
		{19, 11500},
		{20, 10000},
	}
	for _, tc := range cases {
		departure := date(2024, time.March, 4, tc.hour) // a Monday
		got := PerSeat(10000, model.ClassEconomy, booking, departure)
		if got != tc.want {
			t.Errorf("hour %d: got %d want %d", tc.hour, got, tc.want)
		}
	}
}

func TestMultipliersCompoundAndRoundHalfUp(t *testing.T) {
	booking := date(2024, time.March, 1, 10)
	departure := date(2024, time.April, 6, 12) // Saturday, 36 days out
	// 33.33 x 1.5 x 0.80 x 1.10 = 43.9956 -> 44.00
	got := PerSeat(3333, model.ClassBusiness, booking, departure)
	if got != 4400 {
		t.Fatalf("PerSeat = %d, want 4400", got)
	}
}

func TestTotalScalesWithPassengers(t *testing.T) {
	booking := date(2024, time.January, 1, 10)
	departure := date(2024, time.January, 31, 12)
	got := Total(10000, model.ClassEconomy, booking, departure, 4)
	if got != 32000 {
		t.Fatalf("Total = %d, want 32000", got)
	}
}

func TestDeterministic(t *testing.T) {
	booking := date(2024, time.February, 2, 3)
	departure := date(2024, time.February, 20, 18)
	first := PerSeat(12345, model.ClassFirstClass, booking, departure)
	for i := 0; i < 100; i++ {
		if got := PerSeat(12345, model.ClassFirstClass, booking, departure); got != first {
			t.Fatalf("iteration %d: got %d want %d", i, got, first)
		}
	}
}
