package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/farellandr/certportal/internal/cache"
)

// SnapshotKey is the single cache key holding the serialized state.
const SnapshotKey = "certportal:app-state"

// ErrNoSnapshot is returned by Load when nothing has been saved yet.
var ErrNoSnapshot = errors.New("no state snapshot")

// Repository persists whole-state snapshots.
type Repository interface {
	Load(ctx context.Context) (AppState, error)
	Save(ctx context.Context, s AppState) error
}

// CacheRepository keeps the snapshot in a cache backend under SnapshotKey.
type CacheRepository struct {
	cache cache.Cache
}

func NewCacheRepository(c cache.Cache) *CacheRepository {
	return &CacheRepository{cache: c}
}

func (r *CacheRepository) Load(ctx context.Context) (AppState, error) {
	data, err := r.cache.Get(ctx, SnapshotKey)
	if errors.Is(err, cache.ErrCacheMiss) {
		return AppState{}, ErrNoSnapshot
	}
	if err != nil {
		return AppState{}, fmt.Errorf("reading snapshot: %w", err)
	}
	return decode(data)
}

func (r *CacheRepository) Save(ctx context.Context, s AppState) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return r.cache.Set(ctx, SnapshotKey, data, cache.NoExpiration)
}

// FileRepository keeps the snapshot in a JSON file, replaced atomically on
// every save.
type FileRepository struct {
	path string
	mu   sync.Mutex
}

func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

func (r *FileRepository) Load(_ context.Context) (AppState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return AppState{}, ErrNoSnapshot
	}
	if err != nil {
		return AppState{}, fmt.Errorf("reading snapshot: %w", err)
	}
	return decode(data)
}

func (r *FileRepository) Save(_ context.Context, s AppState) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return os.Rename(tmp, r.path)
}

func decode(data []byte) (AppState, error) {
	s := Initial()
	if err := json.Unmarshal(data, &s); err != nil {
		return AppState{}, fmt.Errorf("decoding snapshot: %w", err)
	}
	// Snapshots written before a collection existed decode it as null.
	return Reduce(s, Hydrated{
		Events:        s.Events,
		Categories:    s.Categories,
		Templates:     s.Templates,
		Participants:  s.Participants,
		ImportHistory: s.ImportHistory,
	}), nil
}
