package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/rjsarena/arena-booking/internal/booking"
	"github.com/rjsarena/arena-booking/internal/config"
	"github.com/rjsarena/arena-booking/internal/database"
	"github.com/rjsarena/arena-booking/internal/handler"
	"github.com/rjsarena/arena-booking/internal/middleware"
	"github.com/rjsarena/arena-booking/internal/model"
	"github.com/rjsarena/arena-booking/internal/queue"
	"github.com/rjsarena/arena-booking/internal/router"
	queue_publisher "github.com/rjsarena/arena-booking/internal/service"
	"github.com/rjsarena/arena-booking/internal/store"
	"github.com/rjsarena/arena-booking/internal/venue"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	layout := venue.Default()
	if cfg.LayoutPath != "" {
		var err error
		layout, err = venue.LoadFile(cfg.LayoutPath)
		if err != nil {
			log.Fatalf("venue layout: %v", err)
		}
	}

	occ := openStore(cfg)

	registry := booking.NewRegistry(cfg.MaxSeats, cfg.ServiceFeeCents, cfg.SessionIdleTTL)
	processor := &booking.Processor{
		Store:   occ,
		Timeout: cfg.CommitTimeout,
		Events: func(ctx context.Context, t model.Ticket, sessionID string) {
			ev := queue.TicketIssuedEvent{
				TicketID:      t.TicketID,
				SessionID:     sessionID,
				VenueName:     layout.VenueName,
				SeatIDs:       t.SeatIDs,
				SubtotalCents: t.SubtotalCents,
				FeeCents:      t.FeeCents,
				TotalCents:    t.TotalCents,
				IssuedAt:      t.IssuedAt.Format(time.RFC3339),
			}
			// Best effort: a broker outage must not fail the sale.
			_ = queue_publisher.PublishTicketIssued(ctx, ev)
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go registry.StartJanitor(ctx, time.Minute)
	go func() {
		if err := queue.StartTicketConsumer(); err != nil {
			log.Printf("ticket-consumer stopped: %v", err)
		}
	}()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and response cache disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	venueHandler := handler.NewVenueHandler(layout, occ, registry)
	bookingHandler := handler.NewBookingHandler(layout, occ, registry, processor)

	router.RegisterRoutes(e)
	router.RegisterVenue(e, venueHandler, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	router.RegisterBooking(e, bookingHandler)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s store=%s venue=%q seats=%d)",
		addr, cfg.Env, cfg.StoreBackend, layout.VenueName, layout.SeatCount())

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// openStore selects and initialises the occupancy backend.
func openStore(cfg config.Config) store.Occupancy {
	switch cfg.StoreBackend {
	case "memory":
		if len(cfg.OccupancySeed) > 0 {
			log.Printf("seeding occupancy with %d sold seats", len(cfg.OccupancySeed))
		}
		return store.NewMemory(cfg.OccupancySeed...)
	case "redis":
		client := config.NewRedisClient()
		if client == nil {
			log.Fatal("STORE_BACKEND=redis but redis is unreachable")
		}
		return store.NewRedis(client, cfg.OccupancyKey)
	case "mysql":
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			log.Fatalf("mysql: %v", err)
		}
		return store.NewMySQL(db)
	default:
		log.Fatalf("unknown STORE_BACKEND %q", cfg.StoreBackend)
		return nil
	}
}
