package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/railbook/train-ticket-booking/internal/repository"
)

// ScheduleHandler serves the public schedule and seat endpoints.  All
// of them are read-only reference data and sit behind the Redis
// response cache.
type ScheduleHandler struct {
	Schedules *repository.ScheduleRepo
	SeatRepo  *repository.SeatRepo
}

func NewScheduleHandler(s *repository.ScheduleRepo, seats *repository.SeatRepo) *ScheduleHandler {
	return &ScheduleHandler{Schedules: s, SeatRepo: seats}
}

// Search handles GET /v1/schedules/search?from=&to=&date=YYYY-MM-DD.
// Only runs with free capacity are returned.
func (h *ScheduleHandler) Search(c echo.Context) error {
	from, err1 := strconv.ParseUint(c.QueryParam("from"), 10, 64)
	to, err2 := strconv.ParseUint(c.QueryParam("to"), 10, 64)
	if err1 != nil || err2 != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "from and to station ids required"})
	}
	day, err := time.Parse("2006-01-02", c.QueryParam("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, want YYYY-MM-DD"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	out, err := h.Schedules.Search(ctx, from, to, day)
	if err != nil {
		c.Logger().Errorf("schedule search failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /v1/schedules/:id.
func (h *ScheduleHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Schedules.GetSummary(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrScheduleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
		}
		c.Logger().Errorf("schedule lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, s)
}

type seatResp struct {
	ID         uint64 `json:"id"`
	SeatNumber string `json:"seat_number"`
	Class      string `json:"class"`
}

// Seats handles GET /v1/schedules/:id/seats: the currently free seats
// for the run.  The answer is advisory; booking re-checks it under
// lock.
func (h *ScheduleHandler) Seats(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Schedules.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrScheduleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
		}
		c.Logger().Errorf("schedule lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	seats, err := h.SeatRepo.Available(ctx, id)
	if err != nil {
		c.Logger().Errorf("seat availability failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	out := make([]seatResp, len(seats))
	for i, s := range seats {
		out[i] = seatResp{ID: s.ID, SeatNumber: s.SeatNumber, Class: string(s.Class)}
	}
	return c.JSON(http.StatusOK, out)
}
