package dispatch

import (
	"sort"
	"sync"

	coreerrors "tagmatrix/internal/errors"
)

// CardStore is the external card store ADD_REPRESENTATION and
// CHANGE_DIMENSION_MEMBERSHIP mutate. It is deliberately outside the
// Registry: the Registry is immutable between builds, so per-card tag
// edits land here first and only take effect on the next Registry rebuild
// (the loader's responsibility).
type CardStore interface {
	AddTag(cardID, tag string) error
	RemoveTag(cardID, tag string) error
	TagsOf(cardID string) ([]string, error)
}

// InMemoryCardStore is a demo-grade CardStore backing cmd/matrixctl and the
// HTTP demo server. Production deployments would back this interface with
// whatever store the loader already owns.
type InMemoryCardStore struct {
	mu   sync.Mutex
	tags map[string]map[string]struct{}
}

// NewInMemoryCardStore seeds a store from an initial card-id -> tags map.
func NewInMemoryCardStore(initial map[string][]string) *InMemoryCardStore {
	s := &InMemoryCardStore{tags: make(map[string]map[string]struct{})}
	for id, tags := range initial {
		set := make(map[string]struct{}, len(tags))
		for _, t := range tags {
			set[t] = struct{}{}
		}
		s.tags[id] = set
	}
	return s
}

func (s *InMemoryCardStore) AddTag(cardID, tag string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.tags[cardID]
	if !ok {
		return &coreerrors.UnknownEntityError{Kind: "card", Ref: cardID}
	}
	set[tag] = struct{}{}
	return nil
}

func (s *InMemoryCardStore) RemoveTag(cardID, tag string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.tags[cardID]
	if !ok {
		return &coreerrors.UnknownEntityError{Kind: "card", Ref: cardID}
	}
	delete(set, tag)
	return nil
}

func (s *InMemoryCardStore) TagsOf(cardID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.tags[cardID]
	if !ok {
		return nil, &coreerrors.UnknownEntityError{Kind: "card", Ref: cardID}
	}
	tags := make([]string, 0, len(set))
	for t := range set {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags, nil
}
