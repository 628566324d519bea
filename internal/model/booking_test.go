package model

import (
	"errors"
	"testing"
	"time"
)

func TestStatusTransitionMatrix(t *testing.T) {
	cases := []struct {
		from, to BookingStatus
		ok       bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusConfirmed, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCancelled, StatusCancelled, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusConfirmed, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.ok {
			t.Errorf("%s -> %s: got %v want %v", tc.from, tc.to, got, tc.ok)
		}
	}
}

func TestConfirmOnlyFromPending(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	b := Booking{ID: 7, UserID: 3, Reference: "AB12CD34", Status: StatusPending}

	ev, err := b.Confirm(now)
	if err != nil {
		t.Fatalf("confirm from pending: %v", err)
	}
	if b.Status != StatusConfirmed {
		t.Fatalf("status = %s, want CONFIRMED", b.Status)
	}
	if ev.Kind != EventBookingConfirmed || ev.BookingID != 7 || ev.Reference != "AB12CD34" {
		t.Fatalf("unexpected event: %+v", ev)
	}

	if _, err := b.Confirm(now); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("second confirm: got %v, want ErrInvalidTransition", err)
	}
}

func TestCancelReleasesOnlyOnce(t *testing.T) {
	now := time.Now().UTC()
	b := Booking{ID: 9, Status: StatusConfirmed}

	ev, err := b.Cancel(now)
	if err != nil {
		t.Fatalf("cancel from confirmed: %v", err)
	}
	if ev.Kind != EventBookingCancelled {
		t.Fatalf("event kind = %s", ev.Kind)
	}
	if _, err := b.Cancel(now); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("cancel of cancelled booking: got %v, want ErrInvalidTransition", err)
	}
}

func TestCompletedIsTerminal(t *testing.T) {
	b := Booking{Status: StatusConfirmed}
	if err := b.Complete(); err != nil {
		t.Fatalf("complete confirmed booking: %v", err)
	}
	if _, err := b.Cancel(time.Now()); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("cancel of completed booking: got %v, want ErrInvalidTransition", err)
	}
}
