// Package session owns tagsInPlay, the per-session mutable drag state the
// Drop Dispatcher mutates and the Filter Pipeline reads a snapshot of. A
// Session is never shared across goroutines except through its
// TagsInPlay's lock;
// the core places no ordering requirement across sessions.
package session

// ZoneKind names a drop target that accumulates tag-ids. UNION,
// INTERSECTION, EXCLUSION, ROW, and COLUMN are recognized directly by
// PlanOf; DIFFERENCE is a registered kind sharing EXCLUSION's zone
// semantics but mapped to the pipeline's distinct subtract-from-result op.
// Callers may register further cosmetic zone kinds (e.g. a staging tray)
// that PlanOf simply ignores.
type ZoneKind string

const (
	ZoneUnion        ZoneKind = "UNION"
	ZoneIntersection ZoneKind = "INTERSECTION"
	ZoneExclusion    ZoneKind = "EXCLUSION"
	ZoneDifference   ZoneKind = "DIFFERENCE"
	ZoneRow          ZoneKind = "ROW"
	ZoneColumn       ZoneKind = "COLUMN"
)

// Controls are the small set of boolean flags tagsInPlay carries alongside
// its zones.
type Controls struct {
	StartWithAllCards bool
	ExpandCards       bool
}

// DefaultControls mirrors the documented START_WITH_ALL_CARDS default.
func DefaultControls() Controls {
	return Controls{StartWithAllCards: true}
}
