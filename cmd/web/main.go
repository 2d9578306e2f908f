package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"zerostour/internal/catalog"
	"zerostour/internal/config"
	"zerostour/internal/crud"
	httpx "zerostour/internal/http"
	"zerostour/internal/nav"
	"zerostour/internal/resource"
	"zerostour/internal/services/audit"
	"zerostour/internal/session"
	"zerostour/internal/store/postgres"
	"zerostour/internal/store/redis"
	"zerostour/internal/store/repositories"
	"zerostour/internal/trips"

	"github.com/rs/zerolog/log"
)

const connectWait = 30 * time.Second

func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Audit log: Postgres when configured, zerolog otherwise
	var auditRepo repositories.AuditRepository
	if cfg.DB.DSN != "" {
		pool := postgres.MustOpen(ctx, cfg.DB.DSN, connectWait)
		defer pool.Close()
		auditRepo = postgres.NewAuditRepository(pool)
	}
	auditWorker := audit.NewWorker(auditRepo, 2*time.Second, 50)
	workerDone := make(chan struct{})
	go func() {
		auditWorker.Run(ctx)
		close(workerDone)
	}()

	// Sessions: Redis when configured, in process otherwise
	var sessions session.Store
	if cfg.Redis.Addr != "" {
		rdb := redis.MustConnect(ctx, cfg.Redis, connectWait)
		defer rdb.Close()
		sessions = redis.NewSessionStore(rdb, cfg.Redis.SessionTTL)
	} else {
		mem := session.NewMemoryStore(cfg.Redis.SessionTTL)
		go session.NewSweeper(mem, time.Minute).Run(ctx)
		sessions = mem
	}

	client := resource.NewClient(cfg.API)
	registry := catalog.NewDashboard(cfg, client,
		crud.Notify,
		crud.CountMutations,
		crud.Audit(auditWorker),
	)

	// Router
	r := httpx.NewRouter(httpx.RouterDependencies{
		Config:       cfg,
		Registry:     registry,
		Sessions:     sessions,
		AuditService: audit.NewService(auditRepo),
		Trips:        trips.NewGenerator(uint64(cfg.Trips.Seed), cfg.Trips.StartHours, time.Now),
		Menu:         nav.Menu(cfg.Roles.Menu),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().
			Str("api", cfg.API.BaseURL).
			Bool("redis", cfg.Redis.Addr != "").
			Bool("postgres", auditRepo != nil).
			Msgf("Zeros Tour dashboard listening on :%s", cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	ctx2, cancel2 := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	cancel()
	<-workerDone
	log.Info().Msg("server stopped")
}
