// Package registry owns the immutable Card Registry: the card set and its
// two derived bitmap indices (tag -> cards, card -> tags). A Registry is
// built once from a loader-supplied card set and never mutated again;
// replacement is an atomic swap of the shared reference (see store.go).
package registry

import (
	"sort"

	roaring "github.com/RoaringBitmap/roaring/v2"

	coreerrors "tagmatrix/internal/errors"
	"tagmatrix/internal/model"
	"tagmatrix/internal/tagdict"
)

// Limits bounds a Registry build.
type Limits struct {
	MaxCards int
	MaxTags  int
}

// DefaultLimits mirrors the documented defaults.
func DefaultLimits() Limits {
	return Limits{MaxCards: 10_000_000, MaxTags: 10_000}
}

// Registry is the immutable triple (cards, tag_to_cards, card_to_tags).
// All fields are read-only after Build returns; concurrent reads require no
// locking.
type Registry struct {
	version    uint64
	dict       *tagdict.Dictionary
	cards      []model.Card
	indexOfID  map[string]int
	tagToCards []*roaring.Bitmap // indexed by tag-id
	cardToTags []*roaring.Bitmap // indexed by card-index
	universe   *roaring.Bitmap
}

// Build constructs a Registry from an unordered sequence of cards.
// Complexity O(N*T̄): one dictionary build, one sort, one bitmap pass per
// card, one inversion pass per tag.
func Build(cards []model.Card, limits Limits) (*Registry, error) {
	if len(cards) > limits.MaxCards {
		return nil, &coreerrors.LimitExceededError{Limit: "MAX_CARDS", Got: len(cards), Max: limits.MaxCards}
	}

	sorted := make([]model.Card, len(cards))
	copy(sorted, cards)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	indexOfID := make(map[string]int, len(sorted))
	allTags := make(map[string]struct{})
	for i, c := range sorted {
		if _, dup := indexOfID[c.ID]; dup {
			return nil, &coreerrors.DuplicateCardIDError{ID: c.ID}
		}
		indexOfID[c.ID] = i
		for _, t := range c.Tags {
			allTags[t] = struct{}{}
		}
	}

	dict, err := tagdict.Build(allTags, limits.MaxTags)
	if err != nil {
		return nil, err
	}

	cardToTags := make([]*roaring.Bitmap, len(sorted))
	for i, c := range sorted {
		bm := roaring.New()
		for _, t := range c.Tags {
			id := dict.IDOf(t)
			if id != tagdict.NotFound {
				bm.Add(uint32(id))
			}
		}
		cardToTags[i] = bm
	}

	tagToCards := make([]*roaring.Bitmap, dict.Size())
	for tagID := range tagToCards {
		tagToCards[tagID] = roaring.New()
	}
	for cardIdx, bm := range cardToTags {
		it := bm.Iterator()
		for it.HasNext() {
			tagToCards[it.Next()].Add(uint32(cardIdx))
		}
	}

	universe := roaring.New()
	if len(sorted) > 0 {
		universe.AddRange(0, uint64(len(sorted)))
	}

	return &Registry{
		dict:       dict,
		cards:      sorted,
		indexOfID:  indexOfID,
		tagToCards: tagToCards,
		cardToTags: cardToTags,
		universe:   universe,
	}, nil
}

// CardsWithTag returns the bitmap of card-indices carrying tag-id t.
// Returns an empty bitmap for an unknown id, never nil.
func (r *Registry) CardsWithTag(t int32) *roaring.Bitmap {
	if t < 0 || int(t) >= len(r.tagToCards) {
		return roaring.New()
	}
	return r.tagToCards[t].Clone()
}

// TagsOfCard returns the bitmap of tag-ids carried by the card at cardIndex.
func (r *Registry) TagsOfCard(cardIndex int) *roaring.Bitmap {
	if cardIndex < 0 || cardIndex >= len(r.cardToTags) {
		return roaring.New()
	}
	return r.cardToTags[cardIndex].Clone()
}

// Card returns the card at the given card-index.
func (r *Registry) Card(cardIndex int) (model.Card, bool) {
	if cardIndex < 0 || cardIndex >= len(r.cards) {
		return model.Card{}, false
	}
	return r.cards[cardIndex], true
}

// IndexOf returns the card-index for a card_id, or -1 if unknown.
func (r *Registry) IndexOf(cardID string) int {
	if idx, ok := r.indexOfID[cardID]; ok {
		return idx
	}
	return -1
}

// Count returns the number of cards in the Registry.
func (r *Registry) Count() int {
	return len(r.cards)
}

// Version returns the Registry's snapshot version, assigned by Store on
// publish. Zero until published.
func (r *Registry) Version() uint64 {
	return r.version
}

// Dictionary returns the Registry's Tag Dictionary.
func (r *Registry) Dictionary() *tagdict.Dictionary {
	return r.dict
}

// Universe returns the bitmap of all card-indices.
func (r *Registry) Universe() *roaring.Bitmap {
	return r.universe.Clone()
}

// CardIDs resolves a bitmap of card-indices into the card_id strings the
// external renderer expects, in ascending card-index order.
func (r *Registry) CardIDs(bm *roaring.Bitmap) []string {
	ids := make([]string, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		idx := int(it.Next())
		if idx < len(r.cards) {
			ids = append(ids, r.cards[idx].ID)
		}
	}
	return ids
}
