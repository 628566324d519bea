package repository

import (
	"context"
	"database/sql"

	"github.com/railbook/train-ticket-booking/internal/model"
)

// SeatRepo answers seat queries, most importantly the availability
// resolver: the set of seats on a schedule's train not currently held
// by a non-cancelled booking.  Availability is never stored per seat;
// it is recomputed from active seat assignments at read time, because
// occupancy is schedule-specific: the same physical seat is free on a
// different day's run of the train.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo returns a SeatRepo bound to the given database.
func NewSeatRepo(db *sql.DB) *SeatRepo { return &SeatRepo{db: db} }

// querier is satisfied by both *sql.DB and *sql.Tx so the availability
// query can run standalone or inside a booking transaction.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

const availableSeatsQuery = `
    SELECT se.id, se.train_id, se.seat_number, se.class, se.is_available, se.created_at
    FROM seats se
    JOIN schedules sc ON sc.train_id = se.train_id
    WHERE sc.id = ?
      AND se.is_available = 1
      AND se.id NOT IN (
          SELECT bs.seat_id
          FROM booking_seats bs
          JOIN bookings b ON b.id = bs.booking_id
          WHERE bs.schedule_id = ? AND b.status <> 'CANCELLED')
    ORDER BY se.seat_number`

// Available returns the free seats for a schedule.  The result is a
// moving target under concurrency: callers that go on to book must
// have it re-checked inside the booking transaction.
func (r *SeatRepo) Available(ctx context.Context, scheduleID uint64) ([]model.Seat, error) {
	return availableSeats(ctx, r.db, scheduleID)
}

// AvailableTx is Available evaluated inside a transaction.  With the
// schedule row locked by the caller, the answer cannot change until
// the transaction ends.
func (r *SeatRepo) AvailableTx(ctx context.Context, tx *sql.Tx, scheduleID uint64) ([]model.Seat, error) {
	return availableSeats(ctx, tx, scheduleID)
}

func availableSeats(ctx context.Context, q querier, scheduleID uint64) ([]model.Seat, error) {
	rows, err := q.QueryContext(ctx, availableSeatsQuery, scheduleID, scheduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	seats := make([]model.Seat, 0)
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.ID, &s.TrainID, &s.SeatNumber, &s.Class, &s.IsAvailable, &s.CreatedAt); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	return seats, rows.Err()
}

// ListByTrain returns every physical seat of a train, including
// administratively blocked ones, ordered by seat number.
func (r *SeatRepo) ListByTrain(ctx context.Context, trainID uint64) ([]model.Seat, error) {
	const q = `SELECT id, train_id, seat_number, class, is_available, created_at
               FROM seats WHERE train_id = ? ORDER BY seat_number`
	rows, err := r.db.QueryContext(ctx, q, trainID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	seats := make([]model.Seat, 0)
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.ID, &s.TrainID, &s.SeatNumber, &s.Class, &s.IsAvailable, &s.CreatedAt); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	return seats, rows.Err()
}
