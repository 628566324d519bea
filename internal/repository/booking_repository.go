package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/railbook/train-ticket-booking/internal/model"
)

// BookingRepo persists bookings together with their passengers and
// seat assignments.  The three are a composition: passenger and
// assignment rows are only ever written in the same transaction as
// their booking.  Booking rows are never deleted, only moved to a
// terminal status, so assignment history survives cancellation.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, reference, user_id, schedule_id, passenger_count,
        total_amount_cents, status, created_at`

func scanBooking(row *sql.Row) (*model.Booking, error) {
	var b model.Booking
	err := row.Scan(&b.ID, &b.Reference, &b.UserID, &b.ScheduleID, &b.NumberOfPassengers,
		&b.TotalAmountCents, &b.Status, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateTx inserts a booking row and populates the generated ID and
// creation timestamp on b.  A duplicate reference surfaces as
// ErrDuplicateKey (the reference generator makes this practically
// impossible, the unique index makes it certain).
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings (reference, user_id, schedule_id, passenger_count, total_amount_cents, status)
               VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, b.Reference, b.UserID, b.ScheduleID,
		b.NumberOfPassengers, b.TotalAmountCents, b.Status)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateKey
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	const sel = `SELECT created_at FROM bookings WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, b.ID).Scan(&b.CreatedAt)
}

// CreatePassengersTx inserts one row per passenger and returns the
// generated IDs in input order, so the caller can pair passengers with
// seats positionally.
func (r *BookingRepo) CreatePassengersTx(ctx context.Context, tx *sql.Tx, bookingID uint64, passengers []model.Passenger) ([]uint64, error) {
	const q = `INSERT INTO passengers (booking_id, first_name, last_name, date_of_birth, identity_number, phone, email)
               VALUES (?, ?, ?, ?, ?, ?, ?)`
	ids := make([]uint64, 0, len(passengers))
	for _, p := range passengers {
		res, err := tx.ExecContext(ctx, q, bookingID, p.FirstName, p.LastName,
			p.DateOfBirth, p.IdentityNumber, p.Phone, p.Email)
		if err != nil {
			return nil, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		ids = append(ids, uint64(id))
	}
	return ids, nil
}

// CreateAssignmentsTx bulk-inserts seat assignments in one statement.
// A violation of the UNIQUE(booking_id, seat_id) backstop returns
// ErrDuplicateKey.  Passing an empty slice has no effect.
func (r *BookingRepo) CreateAssignmentsTx(ctx context.Context, tx *sql.Tx, assignments []model.SeatAssignment) error {
	if len(assignments) == 0 {
		return nil
	}
	query := `INSERT INTO booking_seats (booking_id, schedule_id, seat_id, passenger_id) VALUES `
	args := make([]interface{}, 0, len(assignments)*4)
	for i, a := range assignments {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
		args = append(args, a.BookingID, a.ScheduleID, a.SeatID, a.PassengerID)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateKey
		}
		return err
	}
	return nil
}

// ReferenceExistsTx reports whether any booking already uses the given
// reference, seen from inside the transaction.
func (r *BookingRepo) ReferenceExistsTx(ctx context.Context, tx *sql.Tx, reference string) (bool, error) {
	const q = `SELECT 1 FROM bookings WHERE reference = ? LIMIT 1`
	var one int
	err := tx.QueryRowContext(ctx, q, reference).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetByID returns one booking or ErrBookingNotFound.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	return scanBooking(r.db.QueryRowContext(ctx, q, id))
}

// GetByIDForUpdateTx loads a booking with a row lock, so concurrent
// lifecycle transitions on the same booking serialize.
func (r *BookingRepo) GetByIDForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ? FOR UPDATE`
	return scanBooking(tx.QueryRowContext(ctx, q, id))
}

// GetByReference returns one booking by its human-facing reference.
func (r *BookingRepo) GetByReference(ctx context.Context, reference string) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE reference = ?`
	return scanBooking(r.db.QueryRowContext(ctx, q, strings.ToUpper(strings.TrimSpace(reference))))
}

// UpdateStatusTx persists a status transition decided by the booking
// state machine.  It never validates the transition itself; that is
// the state machine's job.
func (r *BookingRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status model.BookingStatus) error {
	const q = `UPDATE bookings SET status = ? WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, status, id)
	return err
}

// ListByUser returns the user's bookings, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = ? ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.ID, &b.Reference, &b.UserID, &b.ScheduleID, &b.NumberOfPassengers,
			&b.TotalAmountCents, &b.Status, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// SeatDetail is one assigned seat with its passenger, as shown on a
// booking detail view and printed on the e-ticket.
type SeatDetail struct {
	SeatID        uint64          `json:"seat_id"`
	SeatNumber    string          `json:"seat_number"`
	Class         model.SeatClass `json:"class"`
	PassengerName string          `json:"passenger_name"`
}

// SeatDetails returns the booking's seat assignments joined with seat
// labels and passenger names, ordered by seat number.
func (r *BookingRepo) SeatDetails(ctx context.Context, bookingID uint64) ([]SeatDetail, error) {
	const q = `SELECT bs.seat_id, se.seat_number, se.class,
                      CONCAT(p.first_name, ' ', p.last_name)
               FROM booking_seats bs
               JOIN seats se ON se.id = bs.seat_id
               JOIN passengers p ON p.id = bs.passenger_id
               WHERE bs.booking_id = ?
               ORDER BY se.seat_number`
	rows, err := r.db.QueryContext(ctx, q, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]SeatDetail, 0)
	for rows.Next() {
		var d SeatDetail
		if err := rows.Scan(&d.SeatID, &d.SeatNumber, &d.Class, &d.PassengerName); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// MarkCompletedDue flips CONFIRMED bookings whose schedule has already
// arrived to COMPLETED and returns how many rows changed.  Called by
// an external scheduler (exposed as an admin operation), never by the
// booking flow itself.
func (r *BookingRepo) MarkCompletedDue(ctx context.Context, now time.Time) (int64, error) {
	const q = `UPDATE bookings b
               JOIN schedules s ON s.id = b.schedule_id
               SET b.status = 'COMPLETED'
               WHERE b.status = 'CONFIRMED' AND s.arrives_at < ?`
	res, err := r.db.ExecContext(ctx, q, now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
