package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"github.com/railbook/train-ticket-booking/internal/repository"
)

func TestScheduleSeatsReturnsFreeSeats(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`FROM schedules WHERE id = \?`).WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "train_id", "route_id", "departs_at", "arrives_at",
			"economy_cents", "business_cents", "first_class_cents", "available_seats", "created_at"}).
			AddRow(5, 10, 2, now.Add(48*time.Hour), now.Add(52*time.Hour), 10000, 15000, 20000, 40, now))
	mock.ExpectQuery(`NOT IN`).WithArgs(uint64(5), uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "train_id", "seat_number", "class", "is_available", "created_at"}).
			AddRow(1, 10, "A1", "ECONOMY", true, now).
			AddRow(2, 10, "B1", "BUSINESS", true, now))

	h := NewScheduleHandler(repository.NewScheduleRepo(db), repository.NewSeatRepo(db))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/schedules/5/seats", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/schedules/:id/seats")
	c.SetParamNames("id")
	c.SetParamValues("5")

	if err := h.Seats(c); err != nil {
		t.Fatalf("Seats: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var out []seatResp
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d seats, want 2", len(out))
	}
	if out[0].SeatNumber != "A1" || out[0].Class != "ECONOMY" {
		t.Errorf("first seat = %+v", out[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestScheduleSeatsUnknownScheduleIs404(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`FROM schedules WHERE id = \?`).WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	h := NewScheduleHandler(repository.NewScheduleRepo(db), repository.NewSeatRepo(db))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/schedules/99/seats", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/schedules/:id/seats")
	c.SetParamNames("id")
	c.SetParamValues("99")

	if err := h.Seats(c); err != nil {
		t.Fatalf("Seats: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
