package main

import (
	"context"
	"log"

	"github.com/careslot/backend/internal/adapters/events"
	"github.com/careslot/backend/internal/adapters/storage"
	"github.com/careslot/backend/internal/application/services"
	"github.com/careslot/backend/internal/domain/entities"
	"github.com/careslot/backend/internal/domain/providers"
	"github.com/careslot/backend/internal/infrastructure/clients/postgres"
	"github.com/careslot/backend/internal/infrastructure/clients/redis"
	"github.com/careslot/backend/pkg/config"
)

// Seeds a handful of demo doctors through the store, so a fresh deployment
// has something to book against.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var snapshots providers.SnapshotStore
	switch cfg.Storage.Driver {
	case config.StorageDriverRedis:
		redisClient, err := redis.NewClient(&cfg.Redis)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		snapshots = storage.NewRedisAdapter(redisClient)
	case config.StorageDriverPostgres:
		pgClient, err := postgres.NewClient(&cfg.Database)
		if err != nil {
			log.Fatalf("Failed to connect to DB: %v", err)
		}
		defer pgClient.Close()
		snapshots = storage.NewPostgresAdapter(pgClient)
	default:
		log.Fatalf("Seeding the %s driver is pointless; use redis or postgres", cfg.Storage.Driver)
	}

	store := services.NewSchedulingService(snapshots, events.NewMemoryEventBus(), cfg.Booking.Strict)

	ctx := context.Background()
	if len(store.Doctors()) > 0 {
		log.Println("Doctors already present, nothing to seed")
		return
	}

	doctors := []entities.Doctor{
		{
			Name:           "Dr. Asha Menon",
			Email:          "asha.menon@careslot.example",
			Phone:          "+1-555-0101",
			Specialization: "Cardiologist",
			Qualification:  "MBBS, MD",
			Experience:     12,
			AvailableSlots: []string{"09:00 AM", "10:00 AM", "11:00 AM", "02:00 PM"},
		},
		{
			Name:           "Dr. Viktor Ejiofor",
			Email:          "viktor.ejiofor@careslot.example",
			Phone:          "+1-555-0102",
			Specialization: "ENT",
			Qualification:  "MBBS, MS",
			Experience:     8,
			AvailableSlots: []string{"10:00 AM", "11:00 AM", "03:00 PM", "04:00 PM"},
		},
		{
			Name:           "Dr. Lena Park",
			Email:          "lena.park@careslot.example",
			Phone:          "+1-555-0103",
			Specialization: "Pediatrician",
			Qualification:  "MBBS, DCH",
			Experience:     15,
			AvailableSlots: []string{"09:00 AM", "12:00 PM", "01:00 PM", "05:00 PM"},
		},
	}

	for _, d := range doctors {
		created := store.AddDoctor(ctx, d)
		log.Printf("Seeded doctor %s (%s)", created.Name, created.ID)
	}

	log.Printf("Seeded %d doctors", len(doctors))
}
