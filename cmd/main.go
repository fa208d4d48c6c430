// jobmate-availability-service
//
// Availability-driven job filtering for trainees.
// Exposes a REST API and a gRPC service used by the Gateway to implement:
//   - fetchJobs()                 : current job postings, unfiltered
//   - toggleDay(weekday)          : flip one day of the weekly availability
//   - applyFilter()               : keep only jobs compatible with availability
//   - submitJob(jobId)            : record a trainee's interest
//
// Every response carries the derived screen status (none / jobLocked / noContent).
// Job snapshots are cached in Redis and re-warmed by a cron job.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"jobmate/availability-service/internal/cache"
	"jobmate/availability-service/internal/config"
	"jobmate/availability-service/internal/db"
	"jobmate/availability-service/internal/grpcserver"
	"jobmate/availability-service/internal/httpapi"
	"jobmate/availability-service/internal/logging"
	"jobmate/availability-service/internal/scheduler"
	"jobmate/availability-service/internal/session"
	"jobmate/availability-service/internal/store"
)

const version = "1.0.0"

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "[availability-service] Config error: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── PostgreSQL ───────────────────────────────────────────────────────────
	log.Info().Msg("[availability-service] Connecting to PostgreSQL…")
	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL, 0)
	if err != nil {
		log.Fatal().Err(err).Msg("[availability-service] PostgreSQL")
	}
	defer pool.Close()
	if err := store.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("[availability-service] PostgreSQL migrate")
	}
	log.Info().Msg("[availability-service] PostgreSQL connected ✓")

	// ── Redis ────────────────────────────────────────────────────────────────
	log.Info().Msg("[availability-service] Connecting to Redis…")
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("[availability-service] Redis")
	}
	defer rdb.Close()
	log.Info().Msg("[availability-service] Redis connected ✓")

	// ── Collaborators ────────────────────────────────────────────────────────
	jobStore := store.NewPostgresJobs(pool)
	cached := cache.NewSource(jobStore, rdb, cfg.JobCacheTTL, log)
	sessions := session.NewRegistry(session.Deps{
		Source:      cached,
		Eligibility: store.NewPostgresTrainees(pool),
		Recorder:    cache.NewRecorder(jobStore, cached, log),
		Logger:      log,
	})

	// ── Cache warm-up ────────────────────────────────────────────────────────
	sched := scheduler.New(cached, cfg.CacheRefreshMinutes, log)
	if err := sched.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("[availability-service] Scheduler")
	}
	defer sched.Stop()

	// ── HTTP server ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	httpapi.NewHandler(sessions, log).RegisterRoutes(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("version", version).Str("port", cfg.Port).Msg("[availability-service] HTTP listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("[availability-service] HTTP server error")
		}
	}()

	// ── gRPC server ──────────────────────────────────────────────────────────
	lis, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.GRPCPort))
	if err != nil {
		log.Fatal().Err(err).Msg("[availability-service] gRPC listen")
	}
	gs := grpc.NewServer(grpc.UnaryInterceptor(grpcserver.LoggingInterceptor(log)))
	health := grpcserver.Register(gs, grpcserver.NewServer(sessions))

	go func() {
		log.Info().Str("port", cfg.GRPCPort).Msg("[availability-service] gRPC listening")
		if err := gs.Serve(lis); err != nil {
			log.Fatal().Err(err).Msg("[availability-service] gRPC server error")
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("[availability-service] Shutting down…")
	health.Shutdown()
	gs.GracefulStop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("[availability-service] Shutdown error")
	}
	log.Info().Msg("[availability-service] Stopped.")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "availability-service",
		"version": version,
	})
}
