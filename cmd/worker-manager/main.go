// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"niche-finder/internal/catalog"
	"niche-finder/internal/common/camunda"
	"niche-finder/internal/common/config"
	"niche-finder/internal/common/database"
	"niche-finder/internal/common/logger"
	"niche-finder/internal/common/metrics"
	"niche-finder/internal/common/observability"
	"niche-finder/internal/scoring"
	"niche-finder/internal/session"

	sa "niche-finder/internal/workers/assessment/submit-assessment"
	am "niche-finder/internal/workers/catalog/analyze-market"
	bap "niche-finder/internal/workers/recommendation/build-action-plan"
	ccs "niche-finder/internal/workers/recommendation/calculate-compatibility-score"
	ctn "niche-finder/internal/workers/recommendation/compare-top-niches"
	rn "niche-finder/internal/workers/recommendation/rank-niches"
)

// registrable is the part of every worker handler the manager drives.
type registrable interface {
	Register() error
	Close()
	GetTaskType() string
	IsEnabled() bool
}

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name, observability.Options{
		Registerer: prometheus.DefaultRegisterer,
		Logger:     log,
		SetGlobal:  true,
	})
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init PostgreSQL with retry (catalog source only) ---
	var pg *database.PostgresClient
	if cfg.Catalog.Source == catalog.SourcePostgres {
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		zapLog.Info("PostgreSQL connected successfully")
	}

	// --- Niche catalog ---
	loadCtx, cancelLoad := context.WithTimeout(ctx, 30*time.Second)
	var cat *catalog.Catalog
	if pg != nil {
		cat, err = catalog.Load(loadCtx, cfg.Catalog, pg.GetDB())
	} else {
		cat, err = catalog.Load(loadCtx, cfg.Catalog, nil)
	}
	cancelLoad()
	if err != nil {
		zapLog.Fatal("catalog load failed", zap.Error(err))
	}
	metrics.CatalogNiches.WithLabelValues(cat.Source()).Set(float64(cat.Len()))
	zapLog.Info("Catalog loaded",
		zap.String("source", cat.Source()),
		zap.String("version", cat.Version()),
		zap.Int("niches", cat.Len()),
	)

	w := cfg.Scoring.Weights
	scorer, err := scoring.NewScorer(scoring.Weights{
		Skill:          w.Skill,
		Time:           w.Time,
		Investment:     w.Investment,
		Interest:       w.Interest,
		InterestPerHit: w.InterestPerHit,
	})
	if err != nil {
		zapLog.Fatal("invalid scoring weights", zap.Error(err))
	}

	sessions := session.NewStore(redis.GetClient(), cfg.Session, log)

	// --- Init Zeebe Client with retry ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClient(cfg.Camunda)
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Workers ---
	handlers, err := buildHandlers(cfg, zeebe, log, cat, scorer, sessions, obs)
	if err != nil {
		zapLog.Fatal("worker setup failed", zap.Error(err))
	}

	for _, h := range handlers {
		if err := h.Register(); err != nil {
			zapLog.Fatal("worker registration failed", zap.String("taskType", h.GetTaskType()), zap.Error(err))
		}
		if h.IsEnabled() {
			zapLog.Info("worker started", zap.String("taskType", h.GetTaskType()))
		}
	}

	// --- Health & Metrics Server ---
	server := &http.Server{
		Addr:              cfg.Metrics.ListenAddress,
		Handler:           newMux(zeebe, redis),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, h := range handlers {
		h.Close()
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping Health/Metrics server", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func buildHandlers(
	cfg *config.Config,
	zeebe *camunda.Client,
	log logger.Logger,
	cat *catalog.Catalog,
	scorer *scoring.Scorer,
	sessions *session.Store,
	obs *observability.Observability,
) ([]registrable, error) {
	var out []registrable

	submit, err := sa.NewHandler(sa.HandlerOptions{
		AppConfig:     cfg,
		Camunda:       zeebe,
		Logger:        log,
		Sessions:      sessions,
		Observability: obs,
	})
	if err != nil {
		return nil, err
	}
	out = append(out, submit)

	score, err := ccs.NewHandler(ccs.HandlerOptions{
		AppConfig:     cfg,
		Camunda:       zeebe,
		Logger:        log,
		Catalog:       cat,
		Scorer:        scorer,
		Sessions:      sessions,
		Observability: obs,
	})
	if err != nil {
		return nil, err
	}
	out = append(out, score)

	rank, err := rn.NewHandler(rn.HandlerOptions{
		AppConfig:     cfg,
		Camunda:       zeebe,
		Logger:        log,
		Catalog:       cat,
		Scorer:        scorer,
		Sessions:      sessions,
		Observability: obs,
	})
	if err != nil {
		return nil, err
	}
	out = append(out, rank)

	compare, err := ctn.NewHandler(ctn.HandlerOptions{
		AppConfig:     cfg,
		Camunda:       zeebe,
		Logger:        log,
		Catalog:       cat,
		Scorer:        scorer,
		Sessions:      sessions,
		Observability: obs,
	})
	if err != nil {
		return nil, err
	}
	out = append(out, compare)

	plan, err := bap.NewHandler(bap.HandlerOptions{
		AppConfig:     cfg,
		Camunda:       zeebe,
		Logger:        log,
		Catalog:       cat,
		Scorer:        scorer,
		Sessions:      sessions,
		Observability: obs,
	})
	if err != nil {
		return nil, err
	}
	out = append(out, plan)

	market, err := am.NewHandler(am.HandlerOptions{
		AppConfig:     cfg,
		Camunda:       zeebe,
		Logger:        log,
		Catalog:       cat,
		Observability: obs,
	})
	if err != nil {
		return nil, err
	}
	out = append(out, market)

	return out, nil
}

func newMux(zeebe *camunda.Client, redis *database.RedisClient) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy")
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		if err := redis.Ping(ctx); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "redis unavailable")
			return
		}
		if err := zeebe.HealthCheck(ctx); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "zeebe unavailable")
			return
		}
		writeStatus(w, http.StatusOK, "ready")
	})
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	})
}
