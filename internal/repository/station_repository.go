package repository

import (
	"context"
	"database/sql"

	"github.com/railbook/train-ticket-booking/internal/model"
)

// StationRepo reads station reference data.
type StationRepo struct {
	db *sql.DB
}

// NewStationRepo returns a StationRepo bound to the given database.
func NewStationRepo(db *sql.DB) *StationRepo { return &StationRepo{db: db} }

// ListActive returns all stations currently served, ordered by name.
func (r *StationRepo) ListActive(ctx context.Context) ([]model.Station, error) {
	const q = `SELECT id, name, code, city, is_active, created_at
               FROM stations WHERE is_active = 1 ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Station, 0)
	for rows.Next() {
		var s model.Station
		if err := rows.Scan(&s.ID, &s.Name, &s.Code, &s.City, &s.IsActive, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
