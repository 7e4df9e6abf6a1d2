package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/nshaw/adminapi/internal/config"
	"github.com/nshaw/adminapi/internal/db"
	"github.com/nshaw/adminapi/internal/engine"
	"github.com/nshaw/adminapi/internal/middleware"
	"github.com/nshaw/adminapi/internal/server"
	"github.com/nshaw/adminapi/internal/storage"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if len(cfg.Resources) == 0 {
		log.Fatal("No resources configured")
	}

	var store storage.Store
	switch cfg.Storage.Driver {
	case "postgres":
		if err := db.RunMigrations(cfg.Database); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		conn, err := db.NewConnection(ctx, cfg.Database)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer conn.Close()
		store = storage.NewPostgresStore(conn.Pool)
	default:
		store = storage.NewMemoryStore()
	}

	engines := make(map[string]*engine.Engine, len(cfg.Resources))
	for resource, resourceCfg := range cfg.Resources {
		engines[resource] = engine.New(resource, resourceCfg, store)
	}

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})

	apiHandler := middleware.LoggingMiddleware(server.NewHTTPHandler(engines))

	mux := http.NewServeMux()
	mux.Handle("/api/", corsHandler.Handler(apiHandler))

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting admin API on %s (%d resources, %s storage)",
			cfg.Server.Addr, len(cfg.Resources), cfg.Storage.Driver)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
