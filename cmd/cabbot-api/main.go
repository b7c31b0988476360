// README: Entry point; loads config, wires services, starts the HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cabbot/internal/agent"
	"cabbot/internal/backend"
	"cabbot/internal/config"
	"cabbot/internal/geo"
	httptransport "cabbot/internal/http"
	"cabbot/internal/infra"
	"cabbot/internal/modules/drivers"
	"cabbot/internal/modules/pricing"
	"cabbot/internal/modules/trip"
	"cabbot/internal/oracle"
	"cabbot/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient := infra.NewRedis(cfg.Redis.Addr)

	// The audit log is optional; without a DSN the service runs without it.
	var tripStore *trip.Store
	if cfg.DB.DSN != "" {
		dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			log.Fatalf("db init: %v", err)
		}
		defer dbPool.Close()
		tripStore = trip.NewStore(dbPool)
	}

	resolver, err := geo.NewResolver(cfg.Maps.APIKey)
	if err != nil {
		log.Fatalf("maps init: %v", err)
	}

	planner, err := oracle.NewGeminiPlanner(ctx, cfg.AI.GeminiKey)
	if err != nil {
		log.Fatalf("gemini init: %v", err)
	}
	defer planner.Close()

	api := backend.NewClient(backend.Config{
		CreateTripURL:   cfg.Backend.CreateTripURL,
		CancelTripURL:   cfg.Backend.CancelTripURL,
		DriversURL:      cfg.Backend.DriversURL,
		AvailabilityURL: cfg.Backend.AvailabilityURL,
		Timeout:         cfg.Backend.Timeout,
	})

	sessions := session.NewFallbackStore(
		session.NewRedisStore(redisClient, cfg.Session.TTL),
		session.NewMemoryStore(cfg.Session.TTL),
	)

	tripSvc := trip.NewService(api, pricing.NewService(resolver), resolver, tripStore)
	paginator := drivers.NewPaginator(api, cfg.Drivers.PageSize, cfg.Drivers.MaxPerTrip)

	bot := agent.New(planner, sessions, tripSvc, paginator, api,
		cfg.Agent.MaxIterations, cfg.Agent.Deadline)

	handler := httptransport.NewServer(httptransport.ServerDeps{
		Agent:    bot,
		Sessions: sessions,
		Redis:    redisClient,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler.Routes()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Printf("listening on %s", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
