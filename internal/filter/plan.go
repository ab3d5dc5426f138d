// Package filter evaluates a FilterPlan — an ordered sequence of set
// operations — against a Card Registry, producing a result card-index
// bitmap. Evaluate is a pure function of (registry snapshot, plan).
package filter

import (
	"sort"
	"strconv"
	"strings"

	"tagmatrix/internal/tagdict"
)

// OpKind names one of the four set operations a FilterPlan stage can apply.
type OpKind int

const (
	// OpIntersection requires every listed tag: R <- R ∩ {c : T ⊆ tags(c)}.
	OpIntersection OpKind = iota
	// OpUnion requires at least one listed tag, refining R (not replacing it).
	OpUnion
	// OpExclusion requires none of the listed tags.
	OpExclusion
	// OpDifference subtracts cards carrying any listed tag from R. Kept
	// distinct from OpExclusion at the type level (see DESIGN.md), though
	// both share one evaluation function for single-stage use.
	OpDifference
)

func (k OpKind) String() string {
	switch k {
	case OpIntersection:
		return "INTERSECTION"
	case OpUnion:
		return "UNION"
	case OpExclusion:
		return "EXCLUSION"
	case OpDifference:
		return "DIFFERENCE"
	default:
		return "UNKNOWN"
	}
}

// Op is one pipeline stage: a kind and the tag-ids it operates over. Tag-ids
// are assumed already resolved against a Dictionary; an unknown name
// resolves to tagdict.NotFound rather than being omitted, so it still
// occupies its slot in T and (via CardsWithTag) matches no card.
type Op struct {
	Kind OpKind
	Tags []int32
}

// FilterPlan is the pure value the Drop Dispatcher derives from tagsInPlay
// and hands to Evaluate.
type FilterPlan struct {
	Ops               []Op
	RowAxis           []int32
	ColAxis           []int32
	StartWithAllCards bool
}

// ResolvePlan builds a FilterPlan from zone tag names. Each op's tag names
// resolve one-for-one to tag-ids, keeping tagdict.NotFound in place for any
// name the dictionary does not know — dropping it from T instead would
// shrink the op (e.g. turn INTERSECTION({a,z}) into INTERSECTION({a})),
// when an unknown required tag must instead force the op to match nothing
// (CardsWithTag(NotFound) is always empty, so the slot still does its job).
func ResolvePlan(dict *tagdict.Dictionary, ops []NamedOp, rowAxis, colAxis []string, startWithAllCards bool) FilterPlan {
	resolved := make([]Op, 0, len(ops))
	for _, o := range ops {
		tags := make([]int32, len(o.Tags))
		for i, name := range o.Tags {
			tags[i] = dict.IDOf(name)
		}
		resolved = append(resolved, Op{Kind: o.Kind, Tags: tags})
	}
	return FilterPlan{
		Ops:               resolved,
		RowAxis:           dict.ResolveIDs(rowAxis),
		ColAxis:           dict.ResolveIDs(colAxis),
		StartWithAllCards: startWithAllCards,
	}
}

// NamedOp is the pre-resolution counterpart of Op, carrying tag names
// instead of tag-ids — the shape a zone naturally has.
type NamedOp struct {
	Kind OpKind
	Tags []string
}

// CanonicalHash computes a stable hash over (ordered op kinds, sorted
// tag-id sets per op). Two plans that differ only in per-op tag order hash
// identically; plans that differ in the sequence of op kinds do not (stage
// order is a performance hint only, but the cache key still distinguishes
// them to avoid conflating semantically-equal-but-differently-built plans).
func (p FilterPlan) CanonicalHash() uint64 {
	var b strings.Builder
	for _, op := range p.Ops {
		b.WriteString(op.Kind.String())
		b.WriteByte(':')
		sorted := append([]int32(nil), op.Tags...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		for _, t := range sorted {
			b.WriteString(strconv.Itoa(int(t)))
			b.WriteByte(',')
		}
		b.WriteByte('|')
	}
	b.WriteString("row:")
	rowSorted := append([]int32(nil), p.RowAxis...)
	sort.Slice(rowSorted, func(i, j int) bool { return rowSorted[i] < rowSorted[j] })
	for _, t := range rowSorted {
		b.WriteString(strconv.Itoa(int(t)))
		b.WriteByte(',')
	}
	b.WriteString("col:")
	colSorted := append([]int32(nil), p.ColAxis...)
	sort.Slice(colSorted, func(i, j int) bool { return colSorted[i] < colSorted[j] })
	for _, t := range colSorted {
		b.WriteString(strconv.Itoa(int(t)))
		b.WriteByte(',')
	}
	if p.StartWithAllCards {
		b.WriteString("|all")
	}
	return fnv1a(b.String())
}

func fnv1a(s string) uint64 {
	const offset64 = 14695981039346656037
	const prime64 = 1099511628211
	h := uint64(offset64)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime64
	}
	return h
}

// Canonicalized returns a copy of the plan with ops reordered
// INTERSECTION, then EXCLUSION/DIFFERENCE, then UNION — the performance
// ordering recommends (cheapest-shrink-first). This is purely
// an optimization: Evaluate produces the same result regardless of order.
func (p FilterPlan) Canonicalized() FilterPlan {
	ops := append([]Op(nil), p.Ops...)
	rank := func(k OpKind) int {
		switch k {
		case OpIntersection:
			return 0
		case OpExclusion, OpDifference:
			return 1
		case OpUnion:
			return 2
		default:
			return 3
		}
	}
	sort.SliceStable(ops, func(i, j int) bool { return rank(ops[i].Kind) < rank(ops[j].Kind) })
	cp := p
	cp.Ops = ops
	return cp
}
