package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/careslot/backend/internal/adapters/events"
	"github.com/careslot/backend/internal/adapters/storage"
	"github.com/careslot/backend/internal/api/handlers"
	"github.com/careslot/backend/internal/api/routes"
	"github.com/careslot/backend/internal/application/services"
	"github.com/careslot/backend/internal/domain/providers"
	"github.com/careslot/backend/internal/infrastructure/clients/postgres"
	"github.com/careslot/backend/internal/infrastructure/clients/redis"
	"github.com/careslot/backend/internal/infrastructure/observability"
	"github.com/careslot/backend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, os.Getenv("ENV"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Printf("Warning: Failed to set up OpenTelemetry: %v", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Printf("Error shutting down OpenTelemetry: %v", err)
				}
			}()
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	// Redis backs the cross-process event bus, and the snapshot store when
	// selected as driver. Without it the bus degrades to in-process delivery.
	var redisClient *redis.Client
	if cfg.Storage.Driver == config.StorageDriverRedis {
		redisClient, err = redis.NewClient(&cfg.Redis)
		if err != nil {
			log.Fatalf("Failed to initialize Redis client: %v", err)
		}
		defer redisClient.Close()
	} else {
		redisClient, err = redis.NewClient(&cfg.Redis)
		if err != nil {
			log.Printf("Warning: Redis unavailable, store events stay in-process: %v", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	var snapshots providers.SnapshotStore
	switch cfg.Storage.Driver {
	case config.StorageDriverRedis:
		snapshots = storage.NewRedisAdapter(redisClient)
	case config.StorageDriverPostgres:
		pgClient, err := postgres.NewClient(&cfg.Database)
		if err != nil {
			log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
		}
		defer pgClient.Close()
		snapshots = storage.NewPostgresAdapter(pgClient)
	default:
		snapshots = storage.NewMemoryAdapter()
	}

	var eventBus providers.EventBus
	if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
	} else {
		eventBus = events.NewMemoryEventBus()
	}

	schedulingService := services.NewSchedulingService(snapshots, eventBus, cfg.Booking.Strict)
	schedulingService.SetMetrics(metrics)
	sessionService := services.NewSessionService(snapshots)

	if err := schedulingService.StartSync(ctx); err != nil {
		log.Printf("Warning: store sync unavailable: %v", err)
	}

	doctorHandler := handlers.NewDoctorHandler(schedulingService)
	appointmentHandler := handlers.NewAppointmentHandler(schedulingService, cfg.Booking.WindowDays, metrics)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	sseHandler := handlers.NewSSEHandler(eventBus)

	router := routes.NewRouter(
		doctorHandler,
		appointmentHandler,
		sessionHandler,
		sseHandler,
		sessionService,
		metrics,
	)
	handler := router.SetupRoutes()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:        serverAddr,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s (storage driver: %s)", serverAddr, cfg.Storage.Driver)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	if err := eventBus.Close(); err != nil {
		log.Printf("Error closing event bus: %v", err)
	}

	log.Println("Server stopped")
}
