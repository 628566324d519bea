package repository

import (
	"context"
	"database/sql"

	"github.com/railbook/train-ticket-booking/internal/model"
)

// TrainRepo reads train reference data.
type TrainRepo struct {
	db *sql.DB
}

// NewTrainRepo returns a TrainRepo bound to the given database.
func NewTrainRepo(db *sql.DB) *TrainRepo { return &TrainRepo{db: db} }

const trainColumns = `id, name, number, total_seats, economy_seats, business_seats, first_class_seats, status, created_at`

// GetByID returns one train, or ErrTrainNotFound.
func (r *TrainRepo) GetByID(ctx context.Context, id uint64) (*model.Train, error) {
	const q = `SELECT ` + trainColumns + ` FROM trains WHERE id = ?`
	var t model.Train
	err := r.db.QueryRowContext(ctx, q, id).Scan(&t.ID, &t.Name, &t.Number,
		&t.TotalSeats, &t.EconomySeats, &t.BusinessSeats, &t.FirstClassSeats,
		&t.Status, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrTrainNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}
