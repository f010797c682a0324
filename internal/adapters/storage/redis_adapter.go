package storage

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/careslot/backend/internal/domain/providers"
	redisclient "github.com/careslot/backend/internal/infrastructure/clients/redis"
)

// snapshotKeyPrefix namespaces careslot snapshots inside a shared Redis instance.
const snapshotKeyPrefix = "careslot:snapshot:"

// RedisAdapter implements the SnapshotStore interface using Redis. Snapshots
// are stored without expiration; they are the system of record, not a cache.
type RedisAdapter struct {
	client *redisclient.Client
}

// NewRedisAdapter creates a new Redis snapshot store
func NewRedisAdapter(client *redisclient.Client) providers.SnapshotStore {
	return &RedisAdapter{
		client: client,
	}
}

// Load retrieves the snapshot stored under key
func (a *RedisAdapter) Load(ctx context.Context, key string) ([]byte, error) {
	result, err := a.client.Client().Get(ctx, snapshotKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, providers.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot %s: %w", key, err)
	}
	return result, nil
}

// Save overwrites the snapshot stored under key
func (a *RedisAdapter) Save(ctx context.Context, key string, value []byte) error {
	if err := a.client.Client().Set(ctx, snapshotKeyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to save snapshot %s: %w", key, err)
	}
	return nil
}

// Delete removes the snapshot stored under key
func (a *RedisAdapter) Delete(ctx context.Context, key string) error {
	if err := a.client.Client().Del(ctx, snapshotKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete snapshot %s: %w", key, err)
	}
	return nil
}
