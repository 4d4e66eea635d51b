package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/eventbook/slot-reservation/internal/config"
	"github.com/eventbook/slot-reservation/internal/database"
	"github.com/eventbook/slot-reservation/internal/handler"
	"github.com/eventbook/slot-reservation/internal/middleware"
	"github.com/eventbook/slot-reservation/internal/queue"
	"github.com/eventbook/slot-reservation/internal/repository"
	"github.com/eventbook/slot-reservation/internal/router"
)

func main() {
	// Load .env when present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBMaxOpenConns)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional; a nil client disables rate limiting and caching.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and response caching disabled")
	}

	eventRepo := repository.NewEventRepo(db)
	slotRepo := repository.NewSlotRepo(db)
	holdRepo := repository.NewHoldRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	attemptRepo := repository.NewAttemptRepo(db)

	publicHandler := &handler.PublicHandler{EventRepo: eventRepo}
	availability := handler.NewAvailabilityHandler(eventRepo, slotRepo, holdRepo)
	holds := handler.NewHoldHandler(eventRepo, slotRepo, holdRepo, cfg.HoldDurationMin)
	bookings := handler.NewBookingHandler(eventRepo, slotRepo, holdRepo, bookingRepo, attemptRepo)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterPublic(e, publicHandler, config.LoadCacheConfig(), rdb)
	router.RegisterAvailability(e, availability)
	router.RegisterReservation(e, holds, bookings, cfg.JWTSecret)

	// Background sweep of expired holds.  Correctness never depends on
	// it (queries always filter on expires_at), it just keeps the holds
	// table tidy and availability numbers honest between requests.
	go runExpirySweeper(holdRepo, cfg.SweepInterval)

	// Consume booking.confirmed events; reconnects internally.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// runExpirySweeper deactivates expired holds on a loose cadence.
func runExpirySweeper(holds *repository.HoldRepo, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		n, err := holds.ReleaseExpired(ctx)
		cancel()
		if err != nil {
			log.Printf("expiry sweep: %v", err)
			continue
		}
		if n > 0 {
			log.Printf("expiry sweep: released %d expired holds", n)
		}
	}
}
