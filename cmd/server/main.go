package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/p-n-ai/swipe-quiz/internal/api"
	"github.com/p-n-ai/swipe-quiz/internal/cards"
	"github.com/p-n-ai/swipe-quiz/internal/deck"
	"github.com/p-n-ai/swipe-quiz/internal/platform/cache"
	"github.com/p-n-ai/swipe-quiz/internal/platform/config"
	"github.com/p-n-ai/swipe-quiz/internal/platform/database"
	"github.com/p-n-ai/swipe-quiz/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(newLogger(os.Stdout, cfg.Log))

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	// Graceful shutdown on SIGTERM/SIGINT.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open session store", "backend", cfg.Session.Backend, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	sessions := session.NewService(session.ServiceConfig{
		Store:     store,
		Selector:  deck.NewSelector(nil),
		RoundSize: cfg.Content.RoundSize,
		Secret:    []byte(cfg.Session.Secret),
	})

	handler := api.New(api.Config{
		Catalog:      cards.NewDirBuilder(cfg.Content.Dir, cards.WithWorkers(cfg.Content.Workers)),
		Sessions:     sessions,
		SecureCookie: cfg.Session.SecureCookie,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      newMux(handler, sessions.HealthCheck),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting",
			"addr", srv.Addr,
			"content_dir", cfg.Content.Dir,
			"session_backend", cfg.Session.Backend,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

// newLogger builds the process logger from the log settings. Unknown levels
// fall back to info.
func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// openStore connects the configured session backend. The returned func
// releases its connections.
func openStore(ctx context.Context, cfg *config.Config) (session.Store, func(), error) {
	ttl := cfg.SessionTTL()

	switch cfg.Session.Backend {
	case config.BackendRedis:
		c, err := cache.New(ctx, cfg.Cache.URL, cache.Options{PoolSize: cfg.Cache.PoolSize})
		if err != nil {
			return nil, nil, err
		}
		return session.NewRedisStore(c, ttl), func() { c.Close() }, nil

	case config.BackendPostgres:
		db, err := database.New(ctx, cfg.Database.URL, database.Options{
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
		})
		if err != nil {
			return nil, nil, err
		}
		store, err := session.NewPostgresStore(ctx, db, ttl)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		if n, err := store.PurgeExpired(ctx); err != nil {
			slog.Warn("purging expired sessions failed", "error", err)
		} else if n > 0 {
			slog.Info("purged expired sessions", "rows", n)
		}
		return store, db.Close, nil

	case config.BackendMemory:
		return session.NewMemoryStore(ttl), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
	}
}

// newMux creates the HTTP router with the API and health check endpoints.
func newMux(h *api.Handler, ready func(context.Context) error) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealthz)
	mux.HandleFunc("GET /readyz", handleReadyz(ready))
	h.Register(mux)
	return mux
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func handleReadyz(ready func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := ready(ctx); err != nil {
			slog.Warn("readiness check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ready"}`))
	}
}
