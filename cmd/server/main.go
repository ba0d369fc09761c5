package main // Entry point package

import (
	"log"  // Logging library
	"time" // Durations for the seat hold TTL

	"github.com/joho/godotenv"    // Loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/bus-seat-reservation/internal/config"     // Internal config loader
	"github.com/iliyamo/bus-seat-reservation/internal/database"   // MySQL connection helper
	"github.com/iliyamo/bus-seat-reservation/internal/handler"    // HTTP handlers
	"github.com/iliyamo/bus-seat-reservation/internal/middleware" // Rate limiting and response cache
	"github.com/iliyamo/bus-seat-reservation/internal/queue"      // Booking event consumer
	"github.com/iliyamo/bus-seat-reservation/internal/repository" // Data access layer
	"github.com/iliyamo/bus-seat-reservation/internal/router"     // Route registration
)

func main() {
	// Load a local .env file when present; real deployments set the
	// environment directly and the missing-file error is ignored.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Repositories share the single sql.DB pool.
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	routeRepo := repository.NewRouteRepo(db)
	busRepo := repository.NewBusRepo(db)
	seatRepo := repository.NewSeatRepo(db)
	scheduleRepo := repository.NewScheduleRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	seatHoldRepo := repository.NewSeatHoldRepo(db)
	reservationRepo := repository.NewReservationRepo(db)

	authH := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	operatorH := handler.NewOperatorHandler(routeRepo, busRepo, seatRepo, scheduleRepo)
	operatorResH := handler.NewOperatorReservationHandler(reservationRepo, scheduleRepo, bookingRepo)
	allocH := handler.NewAllocationHandler(routeRepo, scheduleRepo, seatRepo, bookingRepo, seatHoldRepo, reservationRepo)
	customerH := handler.NewCustomerHandler(routeRepo, scheduleRepo, busRepo, seatRepo, bookingRepo, seatHoldRepo, reservationRepo, time.Duration(cfg.HoldTTLMin)*time.Minute)
	publicH := &handler.PublicHandler{RouteRepo: routeRepo, ScheduleRepo: scheduleRepo, BusRepo: busRepo}

	e := echo.New() // Create Echo instance

	// Redis backs both the token-bucket rate limiter and the read cache.
	rdb := config.NewRedisClient()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH, allocH)
	router.RegisterCustomer(e, customerH, cfg.JWTSecret)
	router.RegisterOperator(e, operatorH, allocH, cfg.JWTSecret)
	router.RegisterOperatorReservations(e, operatorResH, cfg.JWTSecret)

	// Consume booking events in the background; the consumer reconnects on
	// its own and only returns on unrecoverable setup errors.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
