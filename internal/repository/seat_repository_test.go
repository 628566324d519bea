package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/railbook/train-ticket-booking/internal/model"
)

func TestAvailableFiltersHeldSeats(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "train_id", "seat_number", "class", "is_available", "created_at"}).
		AddRow(1, 10, "A1", "ECONOMY", true, now).
		AddRow(3, 10, "A3", "BUSINESS", true, now)
	mock.ExpectQuery(`NOT IN`).WithArgs(5, 5).WillReturnRows(rows)

	seats, err := NewSeatRepo(db).Available(context.Background(), 5)
	if err != nil {
		t.Fatalf("Available: %v", err)
	}
	if len(seats) != 2 {
		t.Fatalf("got %d seats, want 2", len(seats))
	}
	if seats[0].SeatNumber != "A1" || seats[1].SeatNumber != "A3" {
		t.Errorf("seats = %v, %v", seats[0].SeatNumber, seats[1].SeatNumber)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestAdjustAvailableSeatsGuardRejectsOverdraw(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	// Guard clause matches no row: the delta would break the bounds.
	mock.ExpectExec(`UPDATE schedules s`).WithArgs(-3, 1, -3, -3).
		WillReturnResult(sqlmock.NewResult(0, 0))

	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("BeginTx: %v", err)
	}
	defer func() { _ = tx.Rollback() }()

	err = NewScheduleRepo(db).AdjustAvailableSeatsTx(context.Background(), tx, 1, -3)
	if !errors.Is(err, ErrCapacityGuard) {
		t.Fatalf("err = %v, want ErrCapacityGuard", err)
	}
}

func TestCreateAssignmentsMapsDuplicateKey(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO booking_seats`).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry '7-5' for key 'uq_booking_seat'"))

	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("BeginTx: %v", err)
	}
	defer func() { _ = tx.Rollback() }()

	assignments := []model.SeatAssignment{
		{BookingID: 7, ScheduleID: 1, SeatID: 5, PassengerID: 11},
	}
	err = NewBookingRepo(db).CreateAssignmentsTx(context.Background(), tx, assignments)
	if !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("err = %v, want ErrDuplicateKey", err)
	}
}
