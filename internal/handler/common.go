// Package handler contains the HTTP handlers of the booking API.  All
// handlers translate between JSON requests and the booking coordinator
// or repositories; no business rules live here.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/railbook/train-ticket-booking/internal/booking"
	"github.com/railbook/train-ticket-booking/internal/middleware"
	"github.com/railbook/train-ticket-booking/internal/model"
)

// identityFrom reads the authenticated identity the JWT middleware
// stored in the context.
func identityFrom(c echo.Context) (booking.Identity, error) {
	uid, ok := c.Get(middleware.ContextUserID).(uint64)
	if !ok || uid == 0 {
		return booking.Identity{}, errors.New("no authenticated user in context")
	}
	role, _ := c.Get(middleware.ContextRole).(string)
	return booking.Identity{UserID: uid, Admin: role == model.RoleAdmin}, nil
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// bookingError maps coordinator sentinels onto HTTP responses.  Every
// error kind keeps a distinct, stable status so clients can branch on
// it; anything unrecognized becomes an opaque 500.
func bookingError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, booking.ErrMalformedRequest):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, booking.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrCapacityExceeded),
		errors.Is(err, booking.ErrSeatUnavailable),
		errors.Is(err, booking.ErrInvalidState):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	default:
		c.Logger().Errorf("booking operation failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
