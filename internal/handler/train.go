package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/railbook/train-ticket-booking/internal/repository"
)

// TrainHandler serves the physical seat layout of a train, so clients
// can render a seat map before picking a schedule.  Occupancy is
// schedule-specific and served by the schedule seats endpoint instead.
type TrainHandler struct {
	Trains *repository.TrainRepo
	Seats  *repository.SeatRepo
}

func NewTrainHandler(t *repository.TrainRepo, s *repository.SeatRepo) *TrainHandler {
	return &TrainHandler{Trains: t, Seats: s}
}

type trainSeatResp struct {
	ID          uint64 `json:"id"`
	SeatNumber  string `json:"seat_number"`
	Class       string `json:"class"`
	IsAvailable bool   `json:"is_available"`
}

type trainLayoutResp struct {
	ID         uint64          `json:"id"`
	Name       string          `json:"name"`
	Number     string          `json:"number"`
	TotalSeats uint32          `json:"total_seats"`
	Status     string          `json:"status"`
	Seats      []trainSeatResp `json:"seats"`
}

// Layout handles GET /v1/trains/:id/seats.
func (h *TrainHandler) Layout(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid train id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Trains.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTrainNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "train not found"})
		}
		c.Logger().Errorf("train lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	seats, err := h.Seats.ListByTrain(ctx, id)
	if err != nil {
		c.Logger().Errorf("train seats failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	out := trainLayoutResp{
		ID:         t.ID,
		Name:       t.Name,
		Number:     t.Number,
		TotalSeats: t.TotalSeats,
		Status:     t.Status,
		Seats:      make([]trainSeatResp, len(seats)),
	}
	for i, s := range seats {
		out.Seats[i] = trainSeatResp{ID: s.ID, SeatNumber: s.SeatNumber, Class: string(s.Class), IsAvailable: s.IsAvailable}
	}
	return c.JSON(http.StatusOK, out)
}
