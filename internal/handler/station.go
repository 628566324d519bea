package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/railbook/train-ticket-booking/internal/repository"
)

// StationHandler serves the public station and route lists.
type StationHandler struct {
	Stations *repository.StationRepo
	Routes   *repository.RouteRepo
}

func NewStationHandler(s *repository.StationRepo, r *repository.RouteRepo) *StationHandler {
	return &StationHandler{Stations: s, Routes: r}
}

type stationResp struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
	City string `json:"city"`
}

// List handles GET /v1/stations.
func (h *StationHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	stations, err := h.Stations.ListActive(ctx)
	if err != nil {
		c.Logger().Errorf("station list failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	out := make([]stationResp, len(stations))
	for i, s := range stations {
		out[i] = stationResp{ID: s.ID, Name: s.Name, Code: s.Code, City: s.City}
	}
	return c.JSON(http.StatusOK, out)
}

type routeResp struct {
	ID                 uint64 `json:"id"`
	DepartureStationID uint64 `json:"departure_station_id"`
	ArrivalStationID   uint64 `json:"arrival_station_id"`
	DistanceKm         uint32 `json:"distance_km"`
	DurationMin        uint32 `json:"duration_min"`
}

// ListRoutes handles GET /v1/routes.
func (h *StationHandler) ListRoutes(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	routes, err := h.Routes.ListActive(ctx)
	if err != nil {
		c.Logger().Errorf("route list failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	out := make([]routeResp, len(routes))
	for i, r := range routes {
		out[i] = routeResp{
			ID:                 r.ID,
			DepartureStationID: r.DepartureStationID,
			ArrivalStationID:   r.ArrivalStationID,
			DistanceKm:         r.DistanceKm,
			DurationMin:        r.DurationMin,
		}
	}
	return c.JSON(http.StatusOK, out)
}
