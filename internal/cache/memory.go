package cache

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/bilgisen/haxsite/internal/config"
	"github.com/bilgisen/haxsite/internal/models"
)

// SnapshotStore holds the single current snapshot. Replace swaps it whole;
// there is no merging and no history.
type SnapshotStore interface {
	// Current returns the stored snapshot, or nil when nothing was stored yet.
	Current(ctx context.Context) (*models.Snapshot, error)
	Replace(ctx context.Context, snap *models.Snapshot) error
	Close() error
}

// MemoryStore keeps the snapshot in process.
type MemoryStore struct {
	current atomic.Pointer[models.Snapshot]
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Current(ctx context.Context) (*models.Snapshot, error) {
	return m.current.Load(), nil
}

func (m *MemoryStore) Replace(ctx context.Context, snap *models.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("replace with nil snapshot")
	}
	m.current.Store(snap)
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}

// NewStore picks Redis when it is configured and the in-memory store otherwise.
func NewStore(cfg *config.Config) (SnapshotStore, error) {
	if cfg.UseRedis() {
		return NewRedisStore(cfg.RedisURL, cfg.RedisKey)
	}
	return NewMemoryStore(), nil
}
