package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codespark/internal/catalog"
	"codespark/internal/config"
	"codespark/internal/database"
	"codespark/internal/events"
	"codespark/internal/handlers"
	"codespark/internal/repository"
	"codespark/internal/security"
	"codespark/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load the lesson and challenge catalog
	cat, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}
	log.Printf("Catalog loaded: %d path nodes, %d challenges", len(cat.Path()), len(cat.Challenges()))

	// Progress store
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open progress store: %v", err)
	}
	defer closeStore()

	// Event publishing
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.RabbitMQURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.RabbitMQURL, cfg.EventsQueue)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		publisher = amqpPublisher
		log.Printf("Publishing progress events to queue %s", cfg.EventsQueue)
	}
	defer publisher.Close()

	// Security
	keys, err := security.DeriveKeys(cfg.SessionSecret)
	if err != nil {
		log.Fatalf("Failed to derive keys: %v", err)
	}
	sessions := security.NewSessionManager(keys.Session, cfg.SessionDuration)
	csrf := security.NewCSRFGenerator(keys.CSRF, cfg.SessionDuration)
	limiter := security.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
	limiter.StartCleanup(ctx, time.Hour)

	// Services and handlers
	progressService := service.NewProgressService(cat, store, publisher)
	middleware := handlers.NewMiddleware(sessions, csrf, cfg.CSRFEnabled, limiter, progressService)
	router := handlers.NewRouter(
		handlers.NewAcademyHandler(progressService),
		handlers.NewArenaHandler(progressService, cfg.MaxCodeBytes),
		handlers.NewSessionHandler(progressService, middleware),
		middleware,
		cfg.CORSOrigins,
	)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()
	log.Println("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}

// loadCatalog reads the catalog file when one is configured, else the built-in catalog
func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(path)
}

// openStore returns the configured progress store and a function releasing it
func openStore(ctx context.Context, cfg *config.Config) (service.ProgressStore, func(), error) {
	if cfg.UsesMemoryStore() {
		store := repository.NewMemoryProgressRepository()
		// A session nobody has touched for a full cookie lifetime can no longer be reached
		store.StartEviction(ctx, time.Hour, cfg.SessionDuration)
		log.Println("Progress is kept in memory and lost on restart")
		return store, func() {}, nil
	}

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	if err := db.RunMigrations(ctx, migrationsFS(cfg.MigrationsPath)); err != nil {
		db.Close()
		return nil, nil, err
	}
	log.Println("Migrations completed successfully")

	return repository.NewProgressRepository(db), func() { db.Close() }, nil
}

func migrationsFS(path string) fs.FS {
	if path == "" {
		return database.EmbeddedMigrations()
	}
	return os.DirFS(path)
}
