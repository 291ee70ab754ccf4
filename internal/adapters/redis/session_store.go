package redis

// Package redis provides Redis-based adapters for blogfront.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/abctechblog/blogfront/internal/domain/auth"
	"github.com/abctechblog/blogfront/internal/ports"
)

// DefaultSnapshotPrefix namespaces snapshot keys.
const DefaultSnapshotPrefix = "blogfront:session:"

// SnapshotStore is a Redis-based store for client session snapshots.
// Expiry is left to Redis via the key TTL.
type SnapshotStore struct {
	client redis.UniversalClient
	prefix string
}

var _ ports.SnapshotStore = (*SnapshotStore)(nil)

// NewSnapshotStore creates a new Redis-based snapshot store.
func NewSnapshotStore(client redis.UniversalClient) *SnapshotStore {
	return &SnapshotStore{
		client: client,
		prefix: DefaultSnapshotPrefix,
	}
}

// NewSnapshotStoreWithPrefix creates a snapshot store with a custom key prefix.
func NewSnapshotStoreWithPrefix(client redis.UniversalClient, prefix string) *SnapshotStore {
	return &SnapshotStore{
		client: client,
		prefix: prefix,
	}
}

// Save stores snap under id for ttl. An unauthenticated snapshot deletes the key instead.
func (s *SnapshotStore) Save(ctx context.Context, id string, snap domainauth.Snapshot, ttl time.Duration) error {
	if id == "" {
		return errors.New("snapshot ID cannot be empty")
	}
	if ttl <= 0 {
		return errors.New("snapshot ttl must be positive")
	}
	if !snap.Authenticated || snap.User == nil {
		return s.Delete(ctx, id)
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	return s.client.Set(ctx, s.prefix+id, data, ttl).Err()
}

// Get loads the snapshot stored under id. Missing keys return ports.ErrSnapshotNotFound.
func (s *SnapshotStore) Get(ctx context.Context, id string) (domainauth.Snapshot, error) {
	if id == "" {
		return domainauth.Snapshot{}, ports.ErrSnapshotNotFound
	}

	data, err := s.client.Get(ctx, s.prefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Snapshot{}, ports.ErrSnapshotNotFound
		}
		return domainauth.Snapshot{}, fmt.Errorf("redis get: %w", err)
	}

	var snap domainauth.Snapshot
	if unmarshalErr := json.Unmarshal(data, &snap); unmarshalErr != nil {
		return domainauth.Snapshot{}, fmt.Errorf("unmarshal snapshot: %w", unmarshalErr)
	}
	return snap, nil
}

// Delete removes the snapshot stored under id.
func (s *SnapshotStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.client.Del(ctx, s.prefix+id).Err()
}
