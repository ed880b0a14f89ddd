package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"veritas/internal/platform/config"
	"veritas/internal/platform/httpserver"
	"veritas/internal/platform/logger"
	"veritas/internal/platform/metrics"
	platformredis "veritas/internal/platform/redis"
	"veritas/internal/verification/handler"
	"veritas/internal/verification/judge"
	"veritas/internal/verification/service"
	"veritas/internal/verification/store/postgres"
	auditpublisher "veritas/pkg/platform/audit/publisher"
	auditsink "veritas/pkg/platform/audit/sink"
	auditpg "veritas/pkg/platform/audit/store/postgres"
	auditworker "veritas/pkg/platform/audit/worker"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal verification packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	db, err := sql.Open("postgres", cfg.PostgresDSN)
	if err != nil {
		log.Error("failed to open postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Error("failed to ping postgres", "error", err)
		os.Exit(1)
	}

	store := postgres.New(db)
	auditStore := auditpg.New(db)
	publisher := auditpublisher.NewPublisher(auditStore, auditpublisher.WithAsyncBuffer(256))
	defer publisher.Close()

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	m := metrics.New()

	judgeClient, err := judge.NewHTTPClient(cfg.Judge, judge.WithLogger(log))
	if err != nil {
		log.Error("failed to build judge client", "error", err)
		os.Exit(1)
	}
	var j judge.Judge = judgeClient
	if redisClient != nil {
		j = judge.NewCachedJudge(judgeClient, redisClient.Client, cfg.Redis.VerdictTTL, log)
	}

	svc, err := service.New(store, store, store, j,
		service.WithLogger(log),
		service.WithMetrics(m),
		service.WithAuditPublisher(publisher),
		service.WithWorkers(cfg.Run.Workers),
		service.WithPersistTimeout(cfg.Run.PersistTimeout),
	)
	if err != nil {
		log.Error("failed to build verification service", "error", err)
		os.Exit(1)
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Drain the audit outbox to Kafka when brokers are configured.
	if len(cfg.Kafka.Brokers) > 0 {
		sink, err := auditsink.NewKafka(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Error("failed to connect to kafka", "error", err)
			os.Exit(1)
		}
		defer sink.Close()

		worker := auditworker.NewWorker(auditStore, sink, log)
		go func() {
			if err := worker.Run(rootCtx); err != nil && err != context.Canceled {
				log.Error("audit worker stopped", "error", err)
			}
		}()
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", promhttp.Handler())
	handler.New(svc, log).Register(router)

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("starting veritas", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-rootCtx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}
