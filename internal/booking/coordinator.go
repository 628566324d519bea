package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/railbook/train-ticket-booking/internal/model"
	"github.com/railbook/train-ticket-booking/internal/pricing"
	"github.com/railbook/train-ticket-booking/internal/repository"
)

// EventSink receives domain events after their transaction committed.
// The queue publisher implements it; tests substitute a recorder.
type EventSink interface {
	Publish(ctx context.Context, event model.BookingEvent) error
}

// Identity is the already-authenticated caller.  The coordinator
// accepts it as given and never re-derives it: authentication and role
// extraction happen in middleware.
type Identity struct {
	UserID uint64
	Admin  bool
}

// CreateRequest carries the inputs of a booking attempt.  Passengers
// and SeatIDs are matched positionally: passenger i gets seat i.
type CreateRequest struct {
	ScheduleID uint64
	SeatClass  model.SeatClass
	Passengers []model.Passenger
	SeatIDs    []uint64
	UserID     uint64
}

// Coordinator is the single entry point that turns a seat-selection
// request into a durable reservation and drives its lifecycle.  All
// writes of one operation happen in one database transaction; the
// schedule row is locked first, which serializes capacity and
// seat-assignment writes per schedule while leaving other schedules
// free to proceed.  The coordinator never retries a failed seat
// reservation; picking different seats is the caller's decision.
type Coordinator struct {
	db        *sql.DB
	schedules *repository.ScheduleRepo
	seats     *repository.SeatRepo
	bookings  *repository.BookingRepo
	payments  *repository.PaymentRepo
	events    EventSink

	// now is swapped out by tests for deterministic pricing.
	now func() time.Time
}

// NewCoordinator constructs a Coordinator.  All repositories must be
// non-nil; events may be nil, in which case committed events are
// dropped.
func NewCoordinator(db *sql.DB, schedules *repository.ScheduleRepo, seats *repository.SeatRepo,
	bookings *repository.BookingRepo, payments *repository.PaymentRepo, events EventSink) *Coordinator {
	if db == nil || schedules == nil || seats == nil || bookings == nil || payments == nil {
		panic("nil dependency passed to NewCoordinator")
	}
	return &Coordinator{
		db:        db,
		schedules: schedules,
		seats:     seats,
		bookings:  bookings,
		payments:  payments,
		events:    events,
		now:       time.Now,
	}
}

// CreateBooking reserves seats on a schedule as one atomic unit.
//
// Preconditions are checked in order, each with its own error:
// schedule exists (ErrNotFound), enough capacity (ErrCapacityExceeded),
// every requested seat currently free (ErrSeatUnavailable), passenger
// and seat counts match (ErrMalformedRequest).  All of them fail
// before any write occurs.  Inside the transaction the capacity and
// seat checks are repeated under the schedule row lock, because
// availability is a moving target between the precheck and the lock.
//
// On success the booking is PENDING, its reference is unique, its
// passengers and seat assignments exist, and the schedule's
// available-seat counter is lower by the passenger count.  On any
// failure nothing is persisted.
func (co *Coordinator) CreateBooking(ctx context.Context, req CreateRequest) (*model.Booking, error) {
	if len(req.Passengers) == 0 {
		return nil, fmt.Errorf("%w: no passengers", ErrMalformedRequest)
	}
	if !req.SeatClass.Valid() {
		return nil, fmt.Errorf("%w: unknown seat class %q", ErrMalformedRequest, req.SeatClass)
	}
	if hasDuplicates(req.SeatIDs) {
		return nil, fmt.Errorf("%w: duplicate seat ids", ErrMalformedRequest)
	}

	schedule, err := co.schedules.GetByID(ctx, req.ScheduleID)
	if err != nil {
		if errors.Is(err, repository.ErrScheduleNotFound) {
			return nil, fmt.Errorf("%w: schedule %d", ErrNotFound, req.ScheduleID)
		}
		return nil, err
	}
	if uint32(len(req.Passengers)) > schedule.AvailableSeats {
		return nil, ErrCapacityExceeded
	}
	free, err := co.seats.Available(ctx, req.ScheduleID)
	if err != nil {
		return nil, err
	}
	if missing := missingSeats(req.SeatIDs, free); len(missing) > 0 {
		return nil, fmt.Errorf("%w: seats %v", ErrSeatUnavailable, missing)
	}
	if len(req.Passengers) != len(req.SeatIDs) {
		return nil, fmt.Errorf("%w: %d passengers for %d seats", ErrMalformedRequest,
			len(req.Passengers), len(req.SeatIDs))
	}

	tx, err := co.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Lock the schedule row.  From here until commit no other booking
	// transaction on this schedule can pass this point.
	schedule, err = co.schedules.GetByIDForUpdateTx(ctx, tx, req.ScheduleID)
	if err != nil {
		if errors.Is(err, repository.ErrScheduleNotFound) {
			return nil, fmt.Errorf("%w: schedule %d", ErrNotFound, req.ScheduleID)
		}
		return nil, err
	}
	if uint32(len(req.Passengers)) > schedule.AvailableSeats {
		return nil, ErrCapacityExceeded
	}
	free, err = co.seats.AvailableTx(ctx, tx, req.ScheduleID)
	if err != nil {
		return nil, err
	}
	if missing := missingSeats(req.SeatIDs, free); len(missing) > 0 {
		return nil, fmt.Errorf("%w: seats %v", ErrSeatUnavailable, missing)
	}

	reference, err := NewReference(ctx, func(ctx context.Context, ref string) (bool, error) {
		return co.bookings.ReferenceExistsTx(ctx, tx, ref)
	})
	if err != nil {
		return nil, err
	}

	now := co.now()
	total := pricing.Total(schedule.PriceForClass(req.SeatClass), req.SeatClass,
		now, schedule.DepartsAt, len(req.Passengers))

	b := &model.Booking{
		Reference:          reference,
		UserID:             req.UserID,
		ScheduleID:         req.ScheduleID,
		NumberOfPassengers: uint32(len(req.Passengers)),
		TotalAmountCents:   total,
		Status:             model.StatusPending,
	}
	if err := co.bookings.CreateTx(ctx, tx, b); err != nil {
		return nil, err
	}
	passengerIDs, err := co.bookings.CreatePassengersTx(ctx, tx, b.ID, req.Passengers)
	if err != nil {
		return nil, err
	}
	assignments := make([]model.SeatAssignment, len(req.SeatIDs))
	for i, seatID := range req.SeatIDs {
		assignments[i] = model.SeatAssignment{
			BookingID:   b.ID,
			ScheduleID:  req.ScheduleID,
			SeatID:      seatID,
			PassengerID: passengerIDs[i],
		}
	}
	if err := co.bookings.CreateAssignmentsTx(ctx, tx, assignments); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrSeatUnavailable
		}
		return nil, err
	}
	if err := co.schedules.AdjustAvailableSeatsTx(ctx, tx, req.ScheduleID, -len(req.Passengers)); err != nil {
		if errors.Is(err, repository.ErrCapacityGuard) {
			return nil, ErrCapacityExceeded
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return b, nil
}

// ConfirmBooking moves a booking the caller may act on from PENDING to
// CONFIRMED.  Seat allocation is untouched.  The booking-confirmed
// event is published only after the transaction committed.
func (co *Coordinator) ConfirmBooking(ctx context.Context, bookingID uint64, who Identity) (*model.Booking, error) {
	var pending model.BookingEvent
	b, err := co.transition(ctx, bookingID, who, func(b *model.Booking) error {
		ev, err := b.Confirm(co.now())
		if err != nil {
			return err
		}
		pending = ev
		return nil
	}, nil)
	if err != nil {
		return nil, err
	}
	co.dispatch(ctx, pending)
	return b, nil
}

// CancelBooking moves a booking to CANCELLED and, in the same
// transaction as the status change, returns its seats to the
// schedule's available counter.  Seat-assignment rows are kept as
// historical record; the availability resolver filters them out by
// booking status.  A booking can be cancelled at most once, so
// capacity is never released twice.
func (co *Coordinator) CancelBooking(ctx context.Context, bookingID uint64, who Identity) (*model.Booking, error) {
	var pending model.BookingEvent
	b, err := co.transition(ctx, bookingID, who, func(b *model.Booking) error {
		ev, err := b.Cancel(co.now())
		if err != nil {
			return err
		}
		pending = ev
		return nil
	}, func(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
		return co.schedules.AdjustAvailableSeatsTx(ctx, tx, b.ScheduleID, int(b.NumberOfPassengers))
	})
	if err != nil {
		return nil, err
	}
	co.dispatch(ctx, pending)
	return b, nil
}

// RecordPayment settles a PENDING booking: it records a completed
// payment over the booking's total amount and confirms the booking, in
// one transaction.  The transaction identifier is generated here, not
// taken from the caller.
func (co *Coordinator) RecordPayment(ctx context.Context, bookingID uint64, method string, who Identity) (*model.Payment, error) {
	var pending model.BookingEvent
	var payment *model.Payment
	_, err := co.transition(ctx, bookingID, who, func(b *model.Booking) error {
		ev, err := b.Confirm(co.now())
		if err != nil {
			return err
		}
		pending = ev
		payment = &model.Payment{
			BookingID:     b.ID,
			UserID:        b.UserID,
			AmountCents:   b.TotalAmountCents,
			Method:        method,
			Status:        model.PaymentCompleted,
			TransactionID: uuid.NewString(),
		}
		return nil
	}, func(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
		return co.payments.CreateTx(ctx, tx, payment)
	})
	if err != nil {
		return nil, err
	}
	co.dispatch(ctx, pending)
	return payment, nil
}

// transition runs one lifecycle change: lock the booking row, check
// ownership, apply the state-machine step, persist the new status, run
// the optional extra write, commit.  The step must leave the booking
// in its new status or return ErrInvalidState.
func (co *Coordinator) transition(ctx context.Context, bookingID uint64, who Identity,
	step func(*model.Booking) error,
	extra func(context.Context, *sql.Tx, *model.Booking) error) (*model.Booking, error) {
	tx, err := co.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	b, err := co.bookings.GetByIDForUpdateTx(ctx, tx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, fmt.Errorf("%w: booking %d", ErrNotFound, bookingID)
		}
		return nil, err
	}
	if err := authorize(b, who); err != nil {
		return nil, err
	}
	if err := step(b); err != nil {
		return nil, err
	}
	if err := co.bookings.UpdateStatusTx(ctx, tx, b.ID, b.Status); err != nil {
		return nil, err
	}
	if extra != nil {
		if err := extra(ctx, tx, b); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return b, nil
}

// GetBooking returns a booking the caller may see.
func (co *Coordinator) GetBooking(ctx context.Context, bookingID uint64, who Identity) (*model.Booking, error) {
	b, err := co.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, fmt.Errorf("%w: booking %d", ErrNotFound, bookingID)
		}
		return nil, err
	}
	if err := authorize(b, who); err != nil {
		return nil, err
	}
	return b, nil
}

// GetBookingByReference looks a booking up by its human-facing
// reference, subject to the same visibility rule as GetBooking.
func (co *Coordinator) GetBookingByReference(ctx context.Context, reference string, who Identity) (*model.Booking, error) {
	b, err := co.bookings.GetByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, fmt.Errorf("%w: booking %s", ErrNotFound, reference)
		}
		return nil, err
	}
	if err := authorize(b, who); err != nil {
		return nil, err
	}
	return b, nil
}

// ListBookings returns the caller's own bookings, newest first.
func (co *Coordinator) ListBookings(ctx context.Context, who Identity) ([]model.Booking, error) {
	return co.bookings.ListByUser(ctx, who.UserID)
}

// CompleteDueBookings flips confirmed bookings of already-arrived
// schedules to COMPLETED and returns how many changed.  Intended for a
// periodic job or an admin endpoint, never for the booking flow.
func (co *Coordinator) CompleteDueBookings(ctx context.Context) (int64, error) {
	return co.bookings.MarkCompletedDue(ctx, co.now())
}

// authorize permits the booking's owner and admins, nobody else.
func authorize(b *model.Booking, who Identity) error {
	if who.Admin || b.UserID == who.UserID {
		return nil
	}
	return ErrForbidden
}

// dispatch publishes a committed event.  Delivery failures are logged
// and suppressed: the booking is already durable and must not be
// rolled back or failed because a notification could not be sent.
func (co *Coordinator) dispatch(ctx context.Context, ev model.BookingEvent) {
	if co.events == nil || ev.Kind == "" {
		return
	}
	if err := co.events.Publish(ctx, ev); err != nil {
		log.Printf("event publish failed: kind=%s booking=%d: %v", ev.Kind, ev.BookingID, err)
	}
}

// hasDuplicates reports whether ids contains a repeated value.
func hasDuplicates(ids []uint64) bool {
	seen := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}

// missingSeats returns the requested ids that are not in the free set.
func missingSeats(requested []uint64, free []model.Seat) []uint64 {
	available := make(map[uint64]struct{}, len(free))
	for _, s := range free {
		available[s.ID] = struct{}{}
	}
	var missing []uint64
	for _, id := range requested {
		if _, ok := available[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
