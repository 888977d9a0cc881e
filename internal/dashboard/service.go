package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// SnapshotStore persists at most one Entry. Load returns ErrMiss when
// nothing is stored.
type SnapshotStore interface {
	Load(ctx context.Context) (*Entry, error)
	Save(ctx context.Context, entry Entry) error
}

// Runner produces a fresh snapshot.
type Runner interface {
	RunRound(ctx context.Context, category string) Snapshot
}

// CacheRecorder observes cache lookups.
type CacheRecorder interface {
	RecordCache(hit bool)
}

// Service serves snapshots from the store while they are fresh and runs a
// new round otherwise.
type Service struct {
	runner   Runner
	store    SnapshotStore
	recorder CacheRecorder
	now      func() time.Time

	mu sync.Mutex
}

// ServiceConfig holds service configuration.
type ServiceConfig struct {
	Runner   Runner
	Store    SnapshotStore
	Recorder CacheRecorder
	Clock    func() time.Time
}

// NewService creates a new snapshot service.
func NewService(cfg ServiceConfig) *Service {
	now := cfg.Clock
	if now == nil {
		now = time.Now
	}

	return &Service{
		runner:   cfg.Runner,
		store:    cfg.Store,
		recorder: cfg.Recorder,
		now:      now,
	}
}

// GetOrRefresh returns the stored snapshot when useCache is set and the entry
// is fresh. Otherwise it runs a round, replaces the stored entry and returns
// the new snapshot. Store failures are logged and never returned.
func (s *Service) GetOrRefresh(ctx context.Context, useCache bool, category string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if useCache {
		if entry := s.load(ctx); entry != nil && entry.Fresh(s.now()) {
			s.recordCache(true)
			slog.Debug("serving cached snapshot", "timestamp", entry.Timestamp)
			return entry.Data
		}
		s.recordCache(false)
	}

	snap := s.runner.RunRound(ctx, category)

	if s.store != nil {
		at := snap.GeneratedAt
		if at.IsZero() {
			at = s.now()
		}
		if err := s.store.Save(context.WithoutCancel(ctx), NewEntry(at, snap)); err != nil {
			slog.Warn("failed to save snapshot", "error", err)
		}
	}

	return snap
}

// Refresh runs a round regardless of the stored entry.
func (s *Service) Refresh(ctx context.Context, category string) Snapshot {
	return s.GetOrRefresh(ctx, false, category)
}

// Peek returns the stored entry and its age without running a round.
func (s *Service) Peek(ctx context.Context) (*Entry, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store == nil {
		return nil, 0, ErrMiss
	}

	entry, err := s.store.Load(ctx)
	if err != nil {
		return nil, 0, err
	}
	if entry == nil {
		return nil, 0, ErrMiss
	}

	age, err := entry.Age(s.now())
	if err != nil {
		return entry, 0, err
	}
	return entry, age, nil
}

func (s *Service) load(ctx context.Context) *Entry {
	if s.store == nil {
		return nil
	}

	entry, err := s.store.Load(ctx)
	switch {
	case errors.Is(err, ErrMiss):
		slog.Debug("snapshot cache empty")
		return nil
	case err != nil:
		slog.Warn("failed to load snapshot cache, treating as miss", "error", err)
		return nil
	}
	return entry
}

func (s *Service) recordCache(hit bool) {
	if s.recorder != nil {
		s.recorder.RecordCache(hit)
	}
}
