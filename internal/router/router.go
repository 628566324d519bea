// Package router wires HTTP routes to handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/railbook/train-ticket-booking/internal/config"
	"github.com/railbook/train-ticket-booking/internal/handler"
	"github.com/railbook/train-ticket-booking/internal/middleware"
	"github.com/railbook/train-ticket-booking/internal/model"
)

// Handlers collects everything the router needs.
type Handlers struct {
	Auth     *handler.AuthHandler
	Booking  *handler.BookingHandler
	Schedule *handler.ScheduleHandler
	Station  *handler.StationHandler
	Train    *handler.TrainHandler
}

// Register sets up the full route table.
//
// Public routes (health, stations, schedule search and seats) carry no
// authentication; the read-only search endpoints additionally sit
// behind the Redis response cache.  Everything touching bookings
// requires a valid access token; the completion sweep is admin only.
func Register(e *echo.Echo, h Handlers, jwtSecret string, cacheCfg config.CacheConfig, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	// Unauthenticated reference data, cached.
	cached := e.Group("/v1", middleware.NewRedisCache(cacheCfg, rdb))
	cached.GET("/stations", h.Station.List)
	cached.GET("/routes", h.Station.ListRoutes)
	cached.GET("/trains/:id/seats", h.Train.Layout)
	cached.GET("/schedules/search", h.Schedule.Search)
	cached.GET("/schedules/:id", h.Schedule.Get)
	cached.GET("/schedules/:id/seats", h.Schedule.Seats)

	// Account creation and login.
	auth := e.Group("/v1/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)

	// Everything below requires a valid access token.
	v1 := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	v1.GET("/me", h.Auth.Me)

	v1.POST("/bookings", h.Booking.Create)
	v1.GET("/bookings", h.Booking.List)
	v1.GET("/bookings/:id", h.Booking.Get)
	v1.GET("/bookings/ref/:reference", h.Booking.GetByReference)
	v1.POST("/bookings/:id/confirm", h.Booking.Confirm)
	v1.POST("/bookings/:id/cancel", h.Booking.Cancel)
	v1.POST("/bookings/:id/payment", h.Booking.Pay)

	admin := e.Group("/v1/admin", middleware.JWTAuth(jwtSecret), middleware.RequireRole(model.RoleAdmin))
	admin.POST("/bookings/complete-due", h.Booking.CompleteDue)
}
