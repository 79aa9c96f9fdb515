package state

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/farellandr/certportal/internal/domain"
	"github.com/farellandr/certportal/internal/models"
)

// Store is the controller that owns AppState. Dispatch is the only way to
// change it.
type Store struct {
	mu     sync.Mutex
	state  AppState
	repo   Repository
	outbox *Outbox
	logger *slog.Logger
}

func NewStore(repo Repository, outbox *Outbox, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{state: Initial(), repo: repo, outbox: outbox, logger: logger}
}

// Load replaces the state with the saved snapshot, if one exists. The session
// is never restored; a restart requires a fresh login.
func (s *Store) Load(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	snapshot, err := s.repo.Load(ctx)
	if errors.Is(err, ErrNoSnapshot) {
		return nil
	}
	if err != nil {
		return err
	}
	snapshot.Session = Initial().Session

	s.mu.Lock()
	s.state = snapshot
	s.mu.Unlock()
	return nil
}

// State returns a copy of the current state.
func (s *Store) State() AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Session returns the current session without copying the collections.
func (s *Store) Session() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Session
}

// Dispatch reduces a into the state, rewrites the snapshot and, while an
// administrator is signed in, queues the remote writes the action implies.
// Snapshot and queue failures are logged, never returned.
func (s *Store) Dispatch(ctx context.Context, a Action) AppState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = Reduce(s.state, a)
	snapshot := s.state.Clone()

	if s.repo != nil {
		if err := s.repo.Save(ctx, snapshot); err != nil {
			s.logger.Warn("saving state snapshot failed", "action", Name(a), "error", err)
		}
	}

	if s.outbox != nil && snapshot.Session.Authenticated {
		s.enqueueSync(a, snapshot)
	}

	return snapshot
}

// enqueueSync queues remote writes for actions whose effect only exists in
// local state. Entity actions are dispatched after their remote write
// succeeded and need no sync.
func (s *Store) enqueueSync(a Action, snapshot AppState) {
	var err error
	switch a := a.(type) {
	case ThemeChanged:
		err = s.outbox.Enqueue(OpKindSetting, models.SettingTheme, a.Theme)
	case LogoChanged:
		err = s.outbox.Enqueue(OpKindSetting, models.SettingLogo, a.Logo)
	case ProfileUpdated:
		err = s.outbox.Enqueue(OpKindSetting, models.SettingAdminProfile, snapshot.Session.User)
	default:
		return
	}
	if err != nil {
		s.logger.Warn("queueing remote sync failed", "action", Name(a), "error", err)
	}
}
