package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"table-reservation-service/internal/availability"
	"table-reservation-service/internal/booking"
	"table-reservation-service/internal/config"
	"table-reservation-service/internal/database"
	"table-reservation-service/internal/handler"
	"table-reservation-service/internal/middleware"
	"table-reservation-service/internal/queue"
	"table-reservation-service/internal/repository"
	"table-reservation-service/internal/router"
	"table-reservation-service/internal/ws"
)

func main() {
	// Load .env when present; real deployments set the environment
	// directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable: snapshot cache and rate limiting disabled")
	}

	cacheCfg := config.LoadSnapshotCacheConfig()
	var snapshots *availability.SnapshotCache
	if cacheCfg.Enabled {
		snapshots = availability.NewSnapshotCache(rdb, cacheCfg.TTL, cacheCfg.Prefix)
	}

	areaRepo := repository.NewAreaRepo(db)
	userRepo := repository.NewUserRepo(db)
	reservationRepo := repository.NewReservationRepo(db)

	ctx := context.Background()
	areas, err := areaRepo.ListAll(ctx)
	if err != nil {
		log.Fatalf("load areas: %v", err)
	}
	if len(areas) == 0 {
		log.Fatal("no seating areas configured; run the schema migration")
	}

	hub := ws.NewHub()
	go hub.Run()

	notifier := ws.NewCommitNotifier(snapshots, hub)
	pipeline := booking.NewPipeline(db, userRepo, reservationRepo, areas, notifier)

	// Relay commits from other nodes to this node's clients.
	go queue.StartInvalidationConsumer(notifier.HandleRemote)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterReservation(e,
		handler.NewAvailabilityHandler(areaRepo, reservationRepo, snapshots),
		handler.NewDuplicateHandler(areaRepo, reservationRepo),
		handler.NewWSHandler(hub, pipeline),
	)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	go func() {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	// Block until interrupted, then drain in-flight requests.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
