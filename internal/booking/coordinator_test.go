package booking

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/railbook/train-ticket-booking/internal/model"
	"github.com/railbook/train-ticket-booking/internal/repository"
)

// Fixed clock: a Monday morning, 44 days before the test schedule
// departs, which puts bookings in the >=30-day discount tier.
var testNow = time.Date(2024, time.May, 20, 10, 0, 0, 0, time.UTC)

// The test schedule departs on a Wednesday at noon: not a weekend, not
// a peak hour, so only the class and advance multipliers apply.
var testDeparture = time.Date(2024, time.July, 3, 12, 0, 0, 0, time.UTC)
var testArrival = testDeparture.Add(3 * time.Hour)

type sinkRecorder struct {
	events []model.BookingEvent
	err    error
}

func (s *sinkRecorder) Publish(_ context.Context, ev model.BookingEvent) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, ev)
	return nil
}

func newTestCoordinator(t *testing.T) (*Coordinator, sqlmock.Sqlmock, *sinkRecorder, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	sink := &sinkRecorder{}
	co := NewCoordinator(db,
		repository.NewScheduleRepo(db),
		repository.NewSeatRepo(db),
		repository.NewBookingRepo(db),
		repository.NewPaymentRepo(db),
		sink)
	co.now = func() time.Time { return testNow }
	return co, mock, sink, db
}

func scheduleRow(available uint32) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "train_id", "route_id", "departs_at", "arrives_at",
		"economy_cents", "business_cents", "first_class_cents", "available_seats", "created_at"}).
		AddRow(1, 10, 20, testDeparture, testArrival, 10000, 15000, 20000, available, testNow)
}

func seatRows(ids ...uint64) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "train_id", "seat_number", "class", "is_available", "created_at"})
	for _, id := range ids {
		rows.AddRow(id, 10, "A1", "ECONOMY", true, testNow)
	}
	return rows
}

func bookingRow(id uint64, userID uint64, status model.BookingStatus, passengers uint32) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "reference", "user_id", "schedule_id", "passenger_count",
		"total_amount_cents", "status", "created_at"}).
		AddRow(id, "ABCD1234", userID, 1, passengers, 16000, string(status), testNow)
}

func twoPassengers() []model.Passenger {
	dob := time.Date(1990, time.March, 1, 0, 0, 0, 0, time.UTC)
	return []model.Passenger{
		{FirstName: "Ada", LastName: "Lovelace", DateOfBirth: dob, IdentityNumber: "P100", Phone: "+3110001"},
		{FirstName: "Alan", LastName: "Turing", DateOfBirth: dob, IdentityNumber: "P101", Phone: "+3110002"},
	}
}

func TestCreateBookingSuccess(t *testing.T) {
	co, mock, sink, db := newTestCoordinator(t)
	defer db.Close()

	mock.ExpectQuery(`FROM schedules WHERE id = \?`).WithArgs(1).WillReturnRows(scheduleRow(10))
	mock.ExpectQuery(`FROM seats se`).WillReturnRows(seatRows(5, 6, 7))

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM schedules WHERE id = \? FOR UPDATE`).WithArgs(1).WillReturnRows(scheduleRow(10))
	mock.ExpectQuery(`FROM seats se`).WillReturnRows(seatRows(5, 6, 7))
	mock.ExpectQuery(`SELECT 1 FROM bookings WHERE reference = \?`).WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(`INSERT INTO bookings`).WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectQuery(`SELECT created_at FROM bookings WHERE id = \?`).WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(testNow))
	mock.ExpectExec(`INSERT INTO passengers`).WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec(`INSERT INTO passengers`).WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectExec(`INSERT INTO booking_seats`).
		WithArgs(7, 1, 5, 11, 7, 1, 6, 12).
		WillReturnResult(sqlmock.NewResult(1, 2))
	mock.ExpectExec(`UPDATE schedules s`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	b, err := co.CreateBooking(context.Background(), CreateRequest{
		ScheduleID: 1,
		SeatClass:  model.ClassEconomy,
		Passengers: twoPassengers(),
		SeatIDs:    []uint64{5, 6},
		UserID:     42,
	})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if b.Status != model.StatusPending {
		t.Errorf("status = %s, want PENDING", b.Status)
	}
	if len(b.Reference) != 8 {
		t.Errorf("reference %q, want 8 characters", b.Reference)
	}
	// 10000 economy base, 44 days ahead (x0.80), weekday off-peak: 8000
	// per seat, two passengers.
	if b.TotalAmountCents != 16000 {
		t.Errorf("total = %d, want 16000", b.TotalAmountCents)
	}
	if b.NumberOfPassengers != 2 {
		t.Errorf("passengers = %d, want 2", b.NumberOfPassengers)
	}
	if len(sink.events) != 0 {
		t.Errorf("create published %d events, want none", len(sink.events))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreateBookingZeroPassengers(t *testing.T) {
	co, mock, _, db := newTestCoordinator(t)
	defer db.Close()

	_, err := co.CreateBooking(context.Background(), CreateRequest{
		ScheduleID: 1,
		SeatClass:  model.ClassEconomy,
		SeatIDs:    []uint64{5},
		UserID:     42,
	})
	if !errors.Is(err, ErrMalformedRequest) {
		t.Fatalf("err = %v, want ErrMalformedRequest", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("no database access expected: %v", err)
	}
}

func TestCreateBookingScheduleNotFound(t *testing.T) {
	co, mock, _, db := newTestCoordinator(t)
	defer db.Close()

	mock.ExpectQuery(`FROM schedules WHERE id = \?`).WithArgs(99).WillReturnError(sql.ErrNoRows)

	_, err := co.CreateBooking(context.Background(), CreateRequest{
		ScheduleID: 99,
		SeatClass:  model.ClassEconomy,
		Passengers: twoPassengers(),
		SeatIDs:    []uint64{5, 6},
		UserID:     42,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("no transaction expected: %v", err)
	}
}

func TestCreateBookingCapacityExceeded(t *testing.T) {
	co, mock, _, db := newTestCoordinator(t)
	defer db.Close()

	mock.ExpectQuery(`FROM schedules WHERE id = \?`).WithArgs(1).WillReturnRows(scheduleRow(1))

	_, err := co.CreateBooking(context.Background(), CreateRequest{
		ScheduleID: 1,
		SeatClass:  model.ClassEconomy,
		Passengers: twoPassengers(),
		SeatIDs:    []uint64{5, 6},
		UserID:     42,
	})
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("err = %v, want ErrCapacityExceeded", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("no transaction expected: %v", err)
	}
}

func TestCreateBookingSeatUnavailable(t *testing.T) {
	co, mock, _, db := newTestCoordinator(t)
	defer db.Close()

	mock.ExpectQuery(`FROM schedules WHERE id = \?`).WithArgs(1).WillReturnRows(scheduleRow(10))
	// Seat 6 is held by another booking.
	mock.ExpectQuery(`FROM seats se`).WillReturnRows(seatRows(5, 7))

	_, err := co.CreateBooking(context.Background(), CreateRequest{
		ScheduleID: 1,
		SeatClass:  model.ClassEconomy,
		Passengers: twoPassengers(),
		SeatIDs:    []uint64{5, 6},
		UserID:     42,
	})
	if !errors.Is(err, ErrSeatUnavailable) {
		t.Fatalf("err = %v, want ErrSeatUnavailable", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("no transaction expected: %v", err)
	}
}

func TestCreateBookingCountMismatch(t *testing.T) {
	co, mock, _, db := newTestCoordinator(t)
	defer db.Close()

	mock.ExpectQuery(`FROM schedules WHERE id = \?`).WithArgs(1).WillReturnRows(scheduleRow(10))
	mock.ExpectQuery(`FROM seats se`).WillReturnRows(seatRows(5))

	_, err := co.CreateBooking(context.Background(), CreateRequest{
		ScheduleID: 1,
		SeatClass:  model.ClassEconomy,
		Passengers: twoPassengers(),
		SeatIDs:    []uint64{5},
		UserID:     42,
	})
	if !errors.Is(err, ErrMalformedRequest) {
		t.Fatalf("err = %v, want ErrMalformedRequest", err)
	}
}

func TestCreateBookingDuplicateSeatIDs(t *testing.T) {
	co, _, _, db := newTestCoordinator(t)
	defer db.Close()

	_, err := co.CreateBooking(context.Background(), CreateRequest{
		ScheduleID: 1,
		SeatClass:  model.ClassEconomy,
		Passengers: twoPassengers(),
		SeatIDs:    []uint64{5, 5},
		UserID:     42,
	})
	if !errors.Is(err, ErrMalformedRequest) {
		t.Fatalf("err = %v, want ErrMalformedRequest", err)
	}
}

// The schedule had room at precheck time but a concurrent booking took
// it before our transaction acquired the row lock: the in-transaction
// re-check must fail and nothing must be written.
func TestCreateBookingCapacityLostToConcurrentBooking(t *testing.T) {
	co, mock, _, db := newTestCoordinator(t)
	defer db.Close()

	mock.ExpectQuery(`FROM schedules WHERE id = \?`).WithArgs(1).WillReturnRows(scheduleRow(2))
	mock.ExpectQuery(`FROM seats se`).WillReturnRows(seatRows(5, 6))

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM schedules WHERE id = \? FOR UPDATE`).WithArgs(1).WillReturnRows(scheduleRow(1))
	mock.ExpectRollback()

	_, err := co.CreateBooking(context.Background(), CreateRequest{
		ScheduleID: 1,
		SeatClass:  model.ClassEconomy,
		Passengers: twoPassengers(),
		SeatIDs:    []uint64{5, 6},
		UserID:     42,
	})
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("err = %v, want ErrCapacityExceeded", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// A uniqueness violation on the seat-assignment backstop rolls the
// whole attempt back and surfaces as a seat conflict.
func TestCreateBookingRollsBackOnAssignmentConflict(t *testing.T) {
	co, mock, _, db := newTestCoordinator(t)
	defer db.Close()

	mock.ExpectQuery(`FROM schedules WHERE id = \?`).WithArgs(1).WillReturnRows(scheduleRow(10))
	mock.ExpectQuery(`FROM seats se`).WillReturnRows(seatRows(5, 6))

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM schedules WHERE id = \? FOR UPDATE`).WithArgs(1).WillReturnRows(scheduleRow(10))
	mock.ExpectQuery(`FROM seats se`).WillReturnRows(seatRows(5, 6))
	mock.ExpectQuery(`SELECT 1 FROM bookings WHERE reference = \?`).WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(`INSERT INTO bookings`).WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectQuery(`SELECT created_at FROM bookings WHERE id = \?`).WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(testNow))
	mock.ExpectExec(`INSERT INTO passengers`).WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec(`INSERT INTO passengers`).WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectExec(`INSERT INTO booking_seats`).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry '7-5' for key 'uq_booking_seat'"))
	mock.ExpectRollback()

	_, err := co.CreateBooking(context.Background(), CreateRequest{
		ScheduleID: 1,
		SeatClass:  model.ClassEconomy,
		Passengers: twoPassengers(),
		SeatIDs:    []uint64{5, 6},
		UserID:     42,
	})
	if !errors.Is(err, ErrSeatUnavailable) {
		t.Fatalf("err = %v, want ErrSeatUnavailable", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestConfirmBookingPublishesAfterCommit(t *testing.T) {
	co, mock, sink, db := newTestCoordinator(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM bookings WHERE id = \? FOR UPDATE`).WithArgs(7).
		WillReturnRows(bookingRow(7, 42, model.StatusPending, 2))
	mock.ExpectExec(`UPDATE bookings SET status = \?`).WithArgs("CONFIRMED", 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	b, err := co.ConfirmBooking(context.Background(), 7, Identity{UserID: 42})
	if err != nil {
		t.Fatalf("ConfirmBooking: %v", err)
	}
	if b.Status != model.StatusConfirmed {
		t.Errorf("status = %s, want CONFIRMED", b.Status)
	}
	if len(sink.events) != 1 || sink.events[0].Kind != model.EventBookingConfirmed {
		t.Fatalf("events = %+v, want one booking.confirmed", sink.events)
	}
	if sink.events[0].Reference != "ABCD1234" {
		t.Errorf("event reference = %q", sink.events[0].Reference)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestConfirmBookingForbiddenForOtherUser(t *testing.T) {
	co, mock, sink, db := newTestCoordinator(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM bookings WHERE id = \? FOR UPDATE`).WithArgs(7).
		WillReturnRows(bookingRow(7, 42, model.StatusPending, 2))
	mock.ExpectRollback()

	_, err := co.ConfirmBooking(context.Background(), 7, Identity{UserID: 99})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
	if len(sink.events) != 0 {
		t.Errorf("published %d events on failure", len(sink.events))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestConfirmBookingAdminMayActOnAnyBooking(t *testing.T) {
	co, mock, _, db := newTestCoordinator(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM bookings WHERE id = \? FOR UPDATE`).WithArgs(7).
		WillReturnRows(bookingRow(7, 42, model.StatusPending, 2))
	mock.ExpectExec(`UPDATE bookings SET status = \?`).WithArgs("CONFIRMED", 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if _, err := co.ConfirmBooking(context.Background(), 7, Identity{UserID: 99, Admin: true}); err != nil {
		t.Fatalf("ConfirmBooking as admin: %v", err)
	}
}

func TestConfirmCancelledBookingIsInvalid(t *testing.T) {
	co, mock, sink, db := newTestCoordinator(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM bookings WHERE id = \? FOR UPDATE`).WithArgs(7).
		WillReturnRows(bookingRow(7, 42, model.StatusCancelled, 2))
	mock.ExpectRollback()

	_, err := co.ConfirmBooking(context.Background(), 7, Identity{UserID: 42})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("err = %v, want ErrInvalidState", err)
	}
	if len(sink.events) != 0 {
		t.Errorf("published %d events on failure", len(sink.events))
	}
}

func TestCancelBookingRestoresCapacity(t *testing.T) {
	co, mock, sink, db := newTestCoordinator(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM bookings WHERE id = \? FOR UPDATE`).WithArgs(7).
		WillReturnRows(bookingRow(7, 42, model.StatusConfirmed, 2))
	mock.ExpectExec(`UPDATE bookings SET status = \?`).WithArgs("CANCELLED", 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE schedules s`).WithArgs(2, 1, 2, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	b, err := co.CancelBooking(context.Background(), 7, Identity{UserID: 42})
	if err != nil {
		t.Fatalf("CancelBooking: %v", err)
	}
	if b.Status != model.StatusCancelled {
		t.Errorf("status = %s, want CANCELLED", b.Status)
	}
	if len(sink.events) != 1 || sink.events[0].Kind != model.EventBookingCancelled {
		t.Fatalf("events = %+v, want one booking.cancelled", sink.events)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// Cancelling an already cancelled booking is rejected by the state
// machine, so capacity can never be handed back twice.
func TestCancelBookingTwiceIsInvalid(t *testing.T) {
	co, mock, _, db := newTestCoordinator(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM bookings WHERE id = \? FOR UPDATE`).WithArgs(7).
		WillReturnRows(bookingRow(7, 42, model.StatusCancelled, 2))
	mock.ExpectRollback()

	_, err := co.CancelBooking(context.Background(), 7, Identity{UserID: 42})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("err = %v, want ErrInvalidState", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// A failing event sink must not fail the operation: the cancellation
// is already committed when publishing happens.
func TestCancelBookingPublishFailureIsSuppressed(t *testing.T) {
	co, mock, sink, db := newTestCoordinator(t)
	defer db.Close()
	sink.err = errors.New("broker unreachable")

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM bookings WHERE id = \? FOR UPDATE`).WithArgs(7).
		WillReturnRows(bookingRow(7, 42, model.StatusPending, 2))
	mock.ExpectExec(`UPDATE bookings SET status = \?`).WithArgs("CANCELLED", 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE schedules s`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	b, err := co.CancelBooking(context.Background(), 7, Identity{UserID: 42})
	if err != nil {
		t.Fatalf("CancelBooking: %v", err)
	}
	if b.Status != model.StatusCancelled {
		t.Errorf("status = %s, want CANCELLED", b.Status)
	}
}

func TestRecordPaymentConfirmsBooking(t *testing.T) {
	co, mock, sink, db := newTestCoordinator(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM bookings WHERE id = \? FOR UPDATE`).WithArgs(7).
		WillReturnRows(bookingRow(7, 42, model.StatusPending, 2))
	mock.ExpectExec(`UPDATE bookings SET status = \?`).WithArgs("CONFIRMED", 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO payments`).WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectCommit()

	p, err := co.RecordPayment(context.Background(), 7, model.MethodCreditCard, Identity{UserID: 42})
	if err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}
	if p.AmountCents != 16000 {
		t.Errorf("amount = %d, want booking total 16000", p.AmountCents)
	}
	if p.Status != model.PaymentCompleted {
		t.Errorf("status = %s, want COMPLETED", p.Status)
	}
	if p.TransactionID == "" {
		t.Error("transaction id not generated")
	}
	if len(sink.events) != 1 || sink.events[0].Kind != model.EventBookingConfirmed {
		t.Fatalf("events = %+v, want one booking.confirmed", sink.events)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetBookingVisibility(t *testing.T) {
	co, mock, _, db := newTestCoordinator(t)
	defer db.Close()

	mock.ExpectQuery(`FROM bookings WHERE id = \?`).WithArgs(7).
		WillReturnRows(bookingRow(7, 42, model.StatusPending, 2))
	if _, err := co.GetBooking(context.Background(), 7, Identity{UserID: 42}); err != nil {
		t.Fatalf("owner lookup: %v", err)
	}

	mock.ExpectQuery(`FROM bookings WHERE id = \?`).WithArgs(7).
		WillReturnRows(bookingRow(7, 42, model.StatusPending, 2))
	if _, err := co.GetBooking(context.Background(), 7, Identity{UserID: 99}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("stranger lookup err = %v, want ErrForbidden", err)
	}

	mock.ExpectQuery(`FROM bookings WHERE id = \?`).WithArgs(8).WillReturnError(sql.ErrNoRows)
	if _, err := co.GetBooking(context.Background(), 8, Identity{UserID: 42}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing lookup err = %v, want ErrNotFound", err)
	}
}
