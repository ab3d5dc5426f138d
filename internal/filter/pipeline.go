package filter

import (
	"context"

	roaring "github.com/RoaringBitmap/roaring/v2"

	coreerrors "tagmatrix/internal/errors"
	"tagmatrix/internal/registry"
)

// Limits bounds a single plan evaluation.
type Limits struct {
	MaxOpsPerPlan             int
	CancellationCheckInterval int
}

// DefaultLimits mirrors the documented defaults.
func DefaultLimits() Limits {
	return Limits{MaxOpsPerPlan: 32, CancellationCheckInterval: 1}
}

// Pipeline evaluates FilterPlans against a fixed Registry snapshot,
// optionally caching results. Evaluate is a pure function of
// (registry version, canonical plan) — see Cache in cache.go.
type Pipeline struct {
	reg    *registry.Registry
	limits Limits
	cache  *Cache
}

// NewPipeline binds a Pipeline to one Registry snapshot. Callers obtain a
// fresh Pipeline per request snapshot (cheap: it holds no state of its own
// besides the shared cache).
func NewPipeline(reg *registry.Registry, limits Limits, cache *Cache) *Pipeline {
	return &Pipeline{reg: reg, limits: limits, cache: cache}
}

// Evaluate runs plan against the bound Registry and returns the result
// card-index bitmap. It checks ctx for cancellation between operations
// every CancellationCheckInterval steps, and consults/populates the cache
// when one is configured.
func (p *Pipeline) Evaluate(ctx context.Context, plan FilterPlan) (*roaring.Bitmap, error) {
	if p.reg == nil {
		return nil, &coreerrors.RegistryNotInitializedError{}
	}
	if len(plan.Ops) > p.limits.MaxOpsPerPlan {
		return nil, &coreerrors.PlanBoundsExceededError{Bound: "MAX_OPS_PER_PLAN", Got: len(plan.Ops), Max: p.limits.MaxOpsPerPlan}
	}

	var hash uint64
	if p.cache != nil {
		hash = plan.CanonicalHash()
		if hit, ok := p.cache.Get(p.reg.Version(), hash); ok {
			return hit, nil
		}
	}

	result, err := p.evaluateUncached(ctx, plan)
	if err != nil {
		return nil, err
	}

	if p.cache != nil {
		p.cache.Put(p.reg.Version(), hash, result.Clone())
	}
	return result, nil
}

func (p *Pipeline) evaluateUncached(ctx context.Context, plan FilterPlan) (*roaring.Bitmap, error) {
	var r *roaring.Bitmap
	switch {
	case len(plan.Ops) > 0:
		r = p.reg.Universe()
	case plan.StartWithAllCards:
		r = p.reg.Universe()
	default:
		r = roaring.New()
	}

	interval := p.limits.CancellationCheckInterval
	if interval <= 0 {
		interval = 1
	}

	for i, op := range plan.Ops {
		if i%interval == 0 {
			select {
			case <-ctx.Done():
				return nil, &coreerrors.CancelledError{}
			default:
			}
		}

		r = applyOp(p.reg, r, op)

		if r.IsEmpty() {
			return r, nil
		}
	}

	return r, nil
}

// applyOp applies the op's no-op-on-empty-T rule, then refines R. T is
// assumed already resolved to tag-ids (unknown names as tagdict.NotFound,
// never dropped — see Op).
func applyOp(reg *registry.Registry, r *roaring.Bitmap, op Op) *roaring.Bitmap {
	if len(op.Tags) == 0 {
		// Empty T is a no-op for every kind
		return r
	}

	switch op.Kind {
	case OpIntersection:
		for _, t := range op.Tags {
			r = roaring.And(r, reg.CardsWithTag(t))
			if r.IsEmpty() {
				return r
			}
		}
		return r
	case OpUnion:
		matching := roaring.New()
		for _, t := range op.Tags {
			matching.Or(reg.CardsWithTag(t))
		}
		return roaring.And(r, matching)
	case OpExclusion, OpDifference:
		matching := roaring.New()
		for _, t := range op.Tags {
			matching.Or(reg.CardsWithTag(t))
		}
		return roaring.AndNot(r, matching)
	default:
		return r
	}
}
