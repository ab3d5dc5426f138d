package session

import (
	"sync"

	coreerrors "tagmatrix/internal/errors"
	"tagmatrix/internal/filter"
)

// Limits bounds a single zone's size.
type Limits struct {
	MaxTagsPerZone int
}

// DefaultLimits mirrors the documented default.
func DefaultLimits() Limits {
	return Limits{MaxTagsPerZone: 100}
}

// TagsInPlay is the mutable drag state owned by one session. A tag-id
// occupies at most one zone at a time; order within a zone is preserved
// because it drives display (axis label order), not set semantics. Every
// method takes TagsInPlay's own mutex.
type TagsInPlay struct {
	zones    map[ZoneKind][]int32
	zoneOf   map[int32]ZoneKind
	controls Controls
	limits   Limits
	mu       sync.Mutex
}

// New returns an empty TagsInPlay with the given controls and limits.
func New(controls Controls, limits Limits) *TagsInPlay {
	return &TagsInPlay{
		zones:    make(map[ZoneKind][]int32),
		zoneOf:   make(map[int32]ZoneKind),
		controls: controls,
		limits:   limits,
	}
}

// ZoneOf reports which zone currently holds tagID, if any.
func (t *TagsInPlay) ZoneOf(tagID int32) (ZoneKind, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	z, ok := t.zoneOf[tagID]
	return z, ok
}

// Zone returns a copy of the ordered tag-ids currently in zone z.
func (t *TagsInPlay) Zone(z ZoneKind) []int32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]int32(nil), t.zones[z]...)
}

// Controls returns the current control flags.
func (t *TagsInPlay) Controls() Controls {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.controls
}

// SetControls replaces the control flags wholesale; callers trigger
// re-evaluation themselves after calling this, mirroring MoveToZone's
// contract.
func (t *TagsInPlay) SetControls(c Controls) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.controls = c
}

// RemoveFromAllZones removes tagID from whichever zone holds it, if any.
// O(|zone|) for the zone it is found in. Reports whether a removal
// occurred; the dispatcher's MOVE_TO_CLOUD ignores the result and
// re-evaluates unconditionally.
func (t *TagsInPlay) RemoveFromAllZones(tagID int32) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.removeLocked(tagID)
}

func (t *TagsInPlay) removeLocked(tagID int32) bool {
	z, ok := t.zoneOf[tagID]
	if !ok {
		return false
	}
	members := t.zones[z]
	for i, id := range members {
		if id == tagID {
			t.zones[z] = append(members[:i], members[i+1:]...)
			break
		}
	}
	delete(t.zoneOf, tagID)
	return true
}

// MoveToZone implements MOVE_TO_ZONE: no-op if tagID is already in target
// (its position is kept), else remove-then-append, atomically. Rejected
// with CapacityExceededError if target is already at MaxTagsPerZone and
// tagID is not already a member of it.
func (t *TagsInPlay) MoveToZone(tagID int32, target ZoneKind) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if cur, ok := t.zoneOf[tagID]; ok && cur == target {
		return nil
	}

	if len(t.zones[target]) >= t.limits.MaxTagsPerZone {
		return &coreerrors.CapacityExceededError{What: "zone " + string(target), Max: t.limits.MaxTagsPerZone}
	}

	t.removeLocked(tagID)
	t.zones[target] = append(t.zones[target], tagID)
	t.zoneOf[tagID] = target
	return nil
}

// PlanOf derives a FilterPlan from the current zone contents. Ops are
// gathered in zone-declaration order and then handed to Canonicalized,
// which reorders them cheapest-shrink-first (INTERSECTION, then
// EXCLUSION/DIFFERENCE, then UNION) — a performance hint only, since
// Evaluate produces the same result regardless of op order.
func (t *TagsInPlay) PlanOf() filter.FilterPlan {
	t.mu.Lock()
	defer t.mu.Unlock()

	var ops []filter.Op
	if tags := t.zones[ZoneUnion]; len(tags) > 0 {
		ops = append(ops, filter.Op{Kind: filter.OpUnion, Tags: append([]int32(nil), tags...)})
	}
	if tags := t.zones[ZoneIntersection]; len(tags) > 0 {
		ops = append(ops, filter.Op{Kind: filter.OpIntersection, Tags: append([]int32(nil), tags...)})
	}
	if tags := t.zones[ZoneExclusion]; len(tags) > 0 {
		ops = append(ops, filter.Op{Kind: filter.OpExclusion, Tags: append([]int32(nil), tags...)})
	}
	if tags := t.zones[ZoneDifference]; len(tags) > 0 {
		ops = append(ops, filter.Op{Kind: filter.OpDifference, Tags: append([]int32(nil), tags...)})
	}

	plan := filter.FilterPlan{
		Ops:               ops,
		RowAxis:           append([]int32(nil), t.zones[ZoneRow]...),
		ColAxis:           append([]int32(nil), t.zones[ZoneColumn]...),
		StartWithAllCards: t.controls.StartWithAllCards,
	}
	return plan.Canonicalized()
}
