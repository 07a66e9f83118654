package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/omega-realm/arena/internal/auth"
	"github.com/omega-realm/arena/internal/config"
	"github.com/omega-realm/arena/internal/database"
	"github.com/omega-realm/arena/internal/game"
	"github.com/omega-realm/arena/internal/handlers"
	"github.com/omega-realm/arena/internal/middleware"
	"github.com/omega-realm/arena/internal/redis"
	"github.com/omega-realm/arena/internal/storage"
	"github.com/omega-realm/arena/internal/storage/memory"
	"github.com/omega-realm/arena/internal/storage/sqlite"
	"github.com/omega-realm/arena/internal/telemetry"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Printf("[API] Skipping .env: %v", err)
	}

	// Load configuration from environment
	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatalf("[API] Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	otelCfg, err := telemetry.LoadConfigFromEnv()
	if err != nil {
		log.Fatalf("[API] Failed to load telemetry configuration: %v", err)
	}
	shutdownTracing, err := telemetry.Setup(ctx, otelCfg)
	if err != nil {
		log.Fatalf("[API] Failed to set up tracing: %v", err)
	}

	log.Printf("[API] Initializing %s store...", cfg.StoreBackend)
	store, closer, err := openStore(cfg)
	if err != nil {
		log.Fatalf("[API] Failed to open store: %v", err)
	}
	defer closer.Close()

	opts := game.Options{}
	var rankings handlers.Rankings
	if cfg.RedisEnabled {
		redisCfg, err := redis.LoadConfigFromEnv()
		if err != nil {
			log.Fatalf("[API] Failed to load redis configuration: %v", err)
		}
		rdb, err := redis.NewClient(redisCfg)
		if err != nil {
			log.Fatalf("[API] Failed to connect to redis: %v", err)
		}
		defer rdb.Close()

		opts.Leaderboard = rdb
		opts.Encounters = redis.NewEncounterStore(rdb, cfg.EncounterTTL)
		rankings = rdb
	} else {
		log.Println("[API] Redis disabled; leaderboards off, encounters kept in memory")
		opts.Encounters = game.NewMemoryEncounters(cfg.EncounterTTL)
	}

	authCfg, err := auth.LoadConfigFromEnv()
	if err != nil {
		log.Fatalf("[API] Failed to load auth configuration: %v", err)
	}
	authManager, err := auth.NewManager(authCfg)
	if err != nil {
		log.Fatalf("[API] Failed to initialize auth: %v", err)
	}

	hub := handlers.NewDuelHub()
	opts.Notifier = hub
	svc, err := game.NewService(store, opts)
	if err != nil {
		log.Fatalf("[API] Failed to initialize game service: %v", err)
	}

	// Setup HTTP routes
	mux := http.NewServeMux()
	handlers.Register(mux, handlers.Deps{
		Auth:     authManager,
		Service:  svc,
		Hub:      hub,
		Rankings: rankings,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      middleware.CORS(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("[API] Starting server on port %s...", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[API] Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("[API] Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[API] Server shutdown failed: %v", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Printf("[API] Tracer shutdown failed: %v", err)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openStore builds the configured persistence backend.
func openStore(cfg config.Server) (storage.Store, io.Closer, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		return memory.New(), nopCloser{}, nil
	case config.BackendSQLite:
		s, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case config.BackendPostgres:
		dbCfg, err := database.LoadConfigFromEnv()
		if err != nil {
			return nil, nil, err
		}
		db, err := database.NewConnection(dbCfg)
		if err != nil {
			return nil, nil, err
		}
		if err := db.InitSchema(); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Println("[API] Database connected successfully")
		return db, db, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}
