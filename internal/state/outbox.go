package state

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Op is one pending remote write.
type Op struct {
	ID         uuid.UUID       `json:"id"`
	Kind       string          `json:"kind"`
	Key        string          `json:"key"`
	Payload    json.RawMessage `json:"payload"`
	Attempts   int             `json:"attempts"`
	EnqueuedAt time.Time       `json:"enqueuedAt"`
	LastError  string          `json:"lastError,omitempty"`
}

const OpKindSetting = "setting"

// Syncer applies an op to the remote store.
type Syncer interface {
	Sync(ctx context.Context, op Op) error
}

// SyncerFunc adapts a function to Syncer.
type SyncerFunc func(ctx context.Context, op Op) error

func (f SyncerFunc) Sync(ctx context.Context, op Op) error {
	return f(ctx, op)
}

const DefaultMaxAttempts = 5

// Outbox is a FIFO queue of remote writes. Flush applies ops in order and stops
// at the first failure so later ops never overtake an earlier one. An op that
// fails MaxAttempts times is dropped and logged.
type Outbox struct {
	syncer      Syncer
	logger      *slog.Logger
	maxAttempts int

	mu      sync.Mutex
	pending []Op
	flushMu sync.Mutex
	notify  chan struct{}
}

func NewOutbox(syncer Syncer, logger *slog.Logger, maxAttempts int) *Outbox {
	if logger == nil {
		logger = slog.Default()
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Outbox{
		syncer:      syncer,
		logger:      logger,
		maxAttempts: maxAttempts,
		notify:      make(chan struct{}, 1),
	}
}

func (o *Outbox) Enqueue(kind, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	o.mu.Lock()
	o.pending = append(o.pending, Op{
		ID:         uuid.New(),
		Kind:       kind,
		Key:        key,
		Payload:    data,
		EnqueuedAt: time.Now().UTC(),
	})
	o.mu.Unlock()

	select {
	case o.notify <- struct{}{}:
	default:
	}
	return nil
}

// Pending returns a copy of the queued ops, oldest first.
func (o *Outbox) Pending() []Op {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]Op{}, o.pending...)
}

// Flush syncs queued ops in order and returns how many were applied.
func (o *Outbox) Flush(ctx context.Context) int {
	o.flushMu.Lock()
	defer o.flushMu.Unlock()

	synced := 0
	for {
		o.mu.Lock()
		if len(o.pending) == 0 {
			o.mu.Unlock()
			return synced
		}
		op := o.pending[0]
		o.mu.Unlock()

		err := o.syncer.Sync(ctx, op)

		o.mu.Lock()
		if err == nil {
			o.pending = o.pending[1:]
			o.mu.Unlock()
			synced++
			continue
		}

		op.Attempts++
		op.LastError = err.Error()
		if op.Attempts >= o.maxAttempts {
			o.pending = o.pending[1:]
			o.mu.Unlock()
			o.logger.Error("dropping outbox op after repeated failures",
				"op_id", op.ID, "kind", op.Kind, "key", op.Key,
				"attempts", op.Attempts, "error", err)
			continue
		}
		o.pending[0] = op
		o.mu.Unlock()
		o.logger.Warn("outbox sync failed, will retry",
			"op_id", op.ID, "kind", op.Kind, "key", op.Key,
			"attempts", op.Attempts, "error", err)
		return synced
	}
}

// Run flushes whenever an op is enqueued, until ctx is done.
func (o *Outbox) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-o.notify:
			o.Flush(ctx)
		}
	}
}
