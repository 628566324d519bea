package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/railbook/train-ticket-booking/internal/model"
)

// ScheduleRepo provides read access to schedules and the guarded
// mutation of their available-seat counters.  The counter is only ever
// adjusted through AdjustAvailableSeatsTx, inside the same transaction
// as the seat assignments it accounts for.
type ScheduleRepo struct {
	db *sql.DB
}

// NewScheduleRepo returns a ScheduleRepo bound to the given database.
func NewScheduleRepo(db *sql.DB) *ScheduleRepo { return &ScheduleRepo{db: db} }

// DB exposes the underlying handle so callers can begin transactions.
func (r *ScheduleRepo) DB() *sql.DB { return r.db }

const scheduleColumns = `id, train_id, route_id, departs_at, arrives_at,
        economy_cents, business_cents, first_class_cents, available_seats, created_at`

func scanSchedule(row *sql.Row) (*model.Schedule, error) {
	var s model.Schedule
	err := row.Scan(&s.ID, &s.TrainID, &s.RouteID, &s.DepartsAt, &s.ArrivesAt,
		&s.EconomyCents, &s.BusinessCents, &s.FirstClassCents, &s.AvailableSeats, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetByID returns one schedule or ErrScheduleNotFound.
func (r *ScheduleRepo) GetByID(ctx context.Context, id uint64) (*model.Schedule, error) {
	const q = `SELECT ` + scheduleColumns + ` FROM schedules WHERE id = ?`
	return scanSchedule(r.db.QueryRowContext(ctx, q, id))
}

// GetByIDForUpdateTx loads a schedule with a row lock inside tx.
// Every booking creation and cancellation takes this lock first, which
// serializes all capacity and seat-assignment writes for one schedule
// while leaving other schedules untouched.
func (r *ScheduleRepo) GetByIDForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Schedule, error) {
	const q = `SELECT ` + scheduleColumns + ` FROM schedules WHERE id = ? FOR UPDATE`
	return scanSchedule(tx.QueryRowContext(ctx, q, id))
}

// AdjustAvailableSeatsTx adds delta (which may be negative) to the
// schedule's available-seat counter.  The UPDATE carries both bounds
// of the invariant 0 <= available_seats <= train.total_seats as a
// WHERE guard; when the guard rejects the change no row is updated and
// ErrCapacityGuard is returned.
func (r *ScheduleRepo) AdjustAvailableSeatsTx(ctx context.Context, tx *sql.Tx, scheduleID uint64, delta int) error {
	const q = `UPDATE schedules s
               JOIN trains t ON t.id = s.train_id
               SET s.available_seats = s.available_seats + ?
               WHERE s.id = ?
                 AND s.available_seats + ? >= 0
                 AND s.available_seats + ? <= t.total_seats`
	res, err := tx.ExecContext(ctx, q, delta, scheduleID, delta, delta)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCapacityGuard
	}
	return nil
}

// ScheduleSummary is one row of a schedule search result, with route
// and train details joined in for display.
type ScheduleSummary struct {
	ID               uint64    `json:"id"`
	TrainName        string    `json:"train_name"`
	TrainNumber      string    `json:"train_number"`
	DepartureStation string    `json:"departure_station"`
	ArrivalStation   string    `json:"arrival_station"`
	DepartsAt        time.Time `json:"departs_at"`
	ArrivesAt        time.Time `json:"arrives_at"`
	EconomyCents     int64     `json:"economy_cents"`
	BusinessCents    int64     `json:"business_cents"`
	FirstClassCents  int64     `json:"first_class_cents"`
	AvailableSeats   uint32    `json:"available_seats"`
}

// GetSummary returns one schedule with route and train details joined
// in, or ErrScheduleNotFound.
func (r *ScheduleRepo) GetSummary(ctx context.Context, id uint64) (*ScheduleSummary, error) {
	const q = `SELECT s.id, t.name, t.number, ds.name, ars.name,
                      s.departs_at, s.arrives_at,
                      s.economy_cents, s.business_cents, s.first_class_cents,
                      s.available_seats
               FROM schedules s
               JOIN trains t ON t.id = s.train_id
               JOIN routes ro ON ro.id = s.route_id
               JOIN stations ds ON ds.id = ro.departure_station_id
               JOIN stations ars ON ars.id = ro.arrival_station_id
               WHERE s.id = ?`
	var s ScheduleSummary
	err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.TrainName, &s.TrainNumber,
		&s.DepartureStation, &s.ArrivalStation, &s.DepartsAt, &s.ArrivesAt,
		&s.EconomyCents, &s.BusinessCents, &s.FirstClassCents, &s.AvailableSeats)
	if err == sql.ErrNoRows {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Search returns schedules running the given station pair on the given
// calendar day that still have free capacity, ordered by departure
// time.  Results are reference data and safe to cache.
func (r *ScheduleRepo) Search(ctx context.Context, fromStationID, toStationID uint64, day time.Time) ([]ScheduleSummary, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)
	const q = `SELECT s.id, t.name, t.number, ds.name, ars.name,
                      s.departs_at, s.arrives_at,
                      s.economy_cents, s.business_cents, s.first_class_cents,
                      s.available_seats
               FROM schedules s
               JOIN trains t ON t.id = s.train_id
               JOIN routes ro ON ro.id = s.route_id
               JOIN stations ds ON ds.id = ro.departure_station_id
               JOIN stations ars ON ars.id = ro.arrival_station_id
               WHERE ro.departure_station_id = ? AND ro.arrival_station_id = ?
                 AND s.departs_at >= ? AND s.departs_at < ?
                 AND s.available_seats > 0
               ORDER BY s.departs_at`
	rows, err := r.db.QueryContext(ctx, q, fromStationID, toStationID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ScheduleSummary, 0)
	for rows.Next() {
		var s ScheduleSummary
		if err := rows.Scan(&s.ID, &s.TrainName, &s.TrainNumber, &s.DepartureStation, &s.ArrivalStation,
			&s.DepartsAt, &s.ArrivesAt, &s.EconomyCents, &s.BusinessCents, &s.FirstClassCents,
			&s.AvailableSeats); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
