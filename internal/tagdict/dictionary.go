// Package tagdict assigns dense, stable integer ids to tag name strings.
// String comparisons are confined to Build; everything downstream of the
// dictionary operates on integer tag-ids.
package tagdict

import (
	"sort"

	coreerrors "tagmatrix/internal/errors"
)

// NotFound is returned by IDOf for a tag name the dictionary has never seen.
// It is a sentinel value, not an error — callers treat unknown tags as
// "matches nothing" rather than failing the whole query.
const NotFound int32 = -1

// Dictionary is an immutable, total mapping between tag names and tag-ids.
// Safe for concurrent reads; never mutated after Build returns.
type Dictionary struct {
	idOf   map[string]int32
	nameOf []string
}

// Build sorts the given tag names lexicographically and assigns ids 0..n-1
// in that order, so that two builds from the same input set always produce
// identical assignments.
func Build(tags map[string]struct{}, maxTags int) (*Dictionary, error) {
	if len(tags) > maxTags {
		return nil, &coreerrors.LimitExceededError{Limit: "MAX_TAGS", Got: len(tags), Max: maxTags}
	}

	names := make([]string, 0, len(tags))
	for t := range tags {
		names = append(names, t)
	}
	sort.Strings(names)

	idOf := make(map[string]int32, len(names))
	for i, name := range names {
		idOf[name] = int32(i)
	}

	return &Dictionary{idOf: idOf, nameOf: names}, nil
}

// IDOf returns the tag-id for a tag name, or NotFound if unknown.
func (d *Dictionary) IDOf(tag string) int32 {
	if id, ok := d.idOf[tag]; ok {
		return id
	}
	return NotFound
}

// NameOf returns the tag name for a tag-id. ok is false for an out-of-range id.
func (d *Dictionary) NameOf(id int32) (string, bool) {
	if id < 0 || int(id) >= len(d.nameOf) {
		return "", false
	}
	return d.nameOf[id], true
}

// Size returns the number of distinct tags in the dictionary.
func (d *Dictionary) Size() int {
	return len(d.nameOf)
}

// ResolveIDs maps tag names to tag-ids, silently dropping any name the
// dictionary does not know, so an unknown name is not an error. Used by
// ResolvePlan for the row and column axes.
func (d *Dictionary) ResolveIDs(tags []string) []int32 {
	ids := make([]int32, 0, len(tags))
	for _, t := range tags {
		if id := d.IDOf(t); id != NotFound {
			ids = append(ids, id)
		}
	}
	return ids
}
