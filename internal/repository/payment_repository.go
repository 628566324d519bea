package repository

import (
	"context"
	"database/sql"

	"github.com/railbook/train-ticket-booking/internal/model"
)

// PaymentRepo records settled payments.  At most one non-failed
// payment exists per booking; the unique index on booking_id enforces
// it for completed ones.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// CreateTx inserts a payment row and populates the generated ID.
// A second completed payment for the same booking returns
// ErrDuplicateKey.
func (r *PaymentRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *model.Payment) error {
	const q = `INSERT INTO payments (booking_id, user_id, amount_cents, method, status, transaction_id)
               VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, p.BookingID, p.UserID, p.AmountCents,
		p.Method, p.Status, p.TransactionID)
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
	p.ID = uint64(id)
	return nil
}

// GetByBooking returns the payment settling a booking, or nil if none
// has been recorded.
func (r *PaymentRepo) GetByBooking(ctx context.Context, bookingID uint64) (*model.Payment, error) {
	const q = `SELECT id, booking_id, user_id, amount_cents, method, status, transaction_id, created_at
               FROM payments WHERE booking_id = ? ORDER BY id DESC LIMIT 1`
	var p model.Payment
	err := r.db.QueryRowContext(ctx, q, bookingID).Scan(&p.ID, &p.BookingID, &p.UserID,
		&p.AmountCents, &p.Method, &p.Status, &p.TransactionID, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
