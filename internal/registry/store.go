package registry

import (
	"sync/atomic"

	"go.uber.org/zap"

	coreerrors "tagmatrix/internal/errors"
	"tagmatrix/internal/logger"
	"tagmatrix/internal/model"
)

// Store publishes Registry snapshots for lock-free concurrent reads. A new
// Build result is published with a single atomic pointer swap; readers that
// grabbed a snapshot via Current keep observing it for the duration of
// their request even after a newer snapshot is published.
type Store struct {
	current atomic.Pointer[Registry]
	version atomic.Uint64
}

// NewStore returns an unpublished Store. Current returns
// RegistryNotInitializedError until Publish succeeds at least once.
func NewStore() *Store {
	return &Store{}
}

// Publish builds a new Registry from cards and atomically installs it as
// the current snapshot. Safe to call repeatedly (e.g. on loader refresh);
// each call assigns the next monotonically increasing version.
func (s *Store) Publish(cards []model.Card, limits Limits) (*Registry, error) {
	reg, err := Build(cards, limits)
	if err != nil {
		return nil, err
	}

	v := s.version.Add(1)
	reg.version = v
	s.current.Store(reg)

	logger.WithRegistryContext(v).Info("registry published",
		zap.Int("cards", reg.Count()),
		zap.Int("tags", reg.Dictionary().Size()),
	)

	return reg, nil
}

// Current returns the currently published Registry snapshot, or
// RegistryNotInitializedError if Publish has never succeeded.
func (s *Store) Current() (*Registry, error) {
	reg := s.current.Load()
	if reg == nil {
		return nil, &coreerrors.RegistryNotInitializedError{}
	}
	return reg, nil
}
