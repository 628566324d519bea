package repository

import (
	"context"
	"database/sql"

	"github.com/railbook/train-ticket-booking/internal/model"
)

// RouteRepo reads route reference data.
type RouteRepo struct {
	db *sql.DB
}

// NewRouteRepo returns a RouteRepo bound to the given database.
func NewRouteRepo(db *sql.DB) *RouteRepo { return &RouteRepo{db: db} }

// ListActive returns the routes currently operated.
func (r *RouteRepo) ListActive(ctx context.Context) ([]model.Route, error) {
	const q = `SELECT id, departure_station_id, arrival_station_id, distance_km, duration_min, is_active, created_at
               FROM routes WHERE is_active = 1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Route, 0)
	for rows.Next() {
		var ro model.Route
		if err := rows.Scan(&ro.ID, &ro.DepartureStationID, &ro.ArrivalStationID,
			&ro.DistanceKm, &ro.DurationMin, &ro.IsActive, &ro.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, ro)
	}
	return out, rows.Err()
}
