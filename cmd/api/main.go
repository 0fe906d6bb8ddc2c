package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/studioform/portfolio-admin-backend/config"
	"github.com/studioform/portfolio-admin-backend/internal/bootstrap"
	"github.com/studioform/portfolio-admin-backend/internal/maintenance"
	"github.com/studioform/portfolio-admin-backend/internal/recordstore"
)

const serviceName = "portfolio-admin-backend"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	bootstrap.SetGinMode(cfg.App.Environment)

	pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{
		DSN:      cfg.Database.DSN,
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	rdb, err := bootstrap.OpenRedis(ctx, bootstrap.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	objects, err := bootstrap.OpenObjectStore(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("object store: %v", err)
	}

	router, dash := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: serviceName,
		Version:     cfg.App.Version,
		Config:      cfg,
		DB:          pool,
		Redis:       rdb,
		Objects:     objects,
	})

	// Warm the dashboard so the first admin hit is not a cold fetch.
	go func() {
		wctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := dash.EnsureLoaded(wctx); err != nil {
			log.Printf("initial fetch: %v", err)
		}
	}()

	sweeper := maintenance.NewSweeper(recordstore.NewPostgres(pool), objects, cfg.Storage.UploadPrefix, 24*time.Hour)
	cronRunner, err := sweeper.Start()
	if err != nil {
		log.Fatalf("sweeper: %v", err)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("%s listening on :%s", serviceName, cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	cronRunner.Stop()

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
