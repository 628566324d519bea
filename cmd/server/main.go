package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/railbook/train-ticket-booking/internal/booking"
	"github.com/railbook/train-ticket-booking/internal/config"
	"github.com/railbook/train-ticket-booking/internal/database"
	"github.com/railbook/train-ticket-booking/internal/handler"
	"github.com/railbook/train-ticket-booking/internal/queue"
	"github.com/railbook/train-ticket-booking/internal/repository"
	"github.com/railbook/train-ticket-booking/internal/router"
	queue_publisher "github.com/railbook/train-ticket-booking/internal/service"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(ctx, db); err != nil {
		cancel()
		log.Fatalf("database migrate failed: %v", err)
	}
	cancel()

	schedules := repository.NewScheduleRepo(db)
	seats := repository.NewSeatRepo(db)
	bookings := repository.NewBookingRepo(db)
	payments := repository.NewPaymentRepo(db)
	users := repository.NewUserRepo(db)
	stations := repository.NewStationRepo(db)
	routes := repository.NewRouteRepo(db)
	trains := repository.NewTrainRepo(db)

	publisher := queue_publisher.NewPublisher(cfg.RabbitURL, bookings, schedules)
	coordinator := booking.NewCoordinator(db, schedules, seats, bookings, payments, publisher)

	// Notification/e-ticket consumer; reconnects forever on its own.
	go func() {
		if err := queue.StartBookingConsumer(cfg.RabbitURL, cfg.TicketDir); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, response cache disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	router.Register(e, router.Handlers{
		Auth:     handler.NewAuthHandler(cfg, users),
		Booking:  handler.NewBookingHandler(coordinator, bookings, payments),
		Schedule: handler.NewScheduleHandler(schedules, seats),
		Station:  handler.NewStationHandler(stations, routes),
		Train:    handler.NewTrainHandler(trains, seats),
	}, cfg.JWTSecret, config.LoadCacheConfig(), rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
