package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/openforge-dev/openforge-backend/config"
	"github.com/openforge-dev/openforge-backend/internal/bootstrap"
	"github.com/openforge-dev/openforge-backend/internal/cache"
	"github.com/openforge-dev/openforge-backend/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	redisClient, err := bootstrap.OpenRedis(ctx, &cfg.Redis)
	if err != nil {
		// The cache degrades to Postgres; Redis being down is not fatal.
		log.Printf("redis unavailable, falling back to postgres cache: %v", err)
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	router, err := bootstrap.BuildRouter(bootstrap.RouterDeps{
		Config: cfg,
		DB:     db,
		Redis:  redisClient,
	})
	if err != nil {
		log.Fatalf("router: %v", err)
	}

	sweeper := cache.NewSweeper(db)
	sweeper.Start()
	defer sweeper.Stop()

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("openforge-backend %s listening on :%s", cfg.App.Version, cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
