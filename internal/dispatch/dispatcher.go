package dispatch

import (
	"context"
	"strings"

	"go.uber.org/zap"

	coreerrors "tagmatrix/internal/errors"
	"tagmatrix/internal/events"
	"tagmatrix/internal/filter"
	"tagmatrix/internal/logger"
	"tagmatrix/internal/partition"
	"tagmatrix/internal/registry"
	"tagmatrix/internal/session"
	"tagmatrix/internal/tagdict"
)

// Result is what Dispatch hands back to the caller: the action taken and,
// for actions that trigger re-evaluation, the freshly computed matrix.
type Result struct {
	Action      ActionKind
	Matrix      *partition.Matrix
	Plan        filter.FilterPlan
	Reevaluated bool
}

// Dispatcher wires the static state table to the session, registry, group,
// and card-store collaborators, and drives the single-synchronous-call
// re-evaluation contract.
type Dispatcher struct {
	sessions   *session.Repository
	registries *registry.Store
	groups     *GroupStore
	cards      CardStore
	cache      *filter.Cache
	bus        events.EventBus
	limits     filter.Limits
}

// New builds a Dispatcher. bus may be nil to disable event publication.
func New(sessions *session.Repository, registries *registry.Store, groups *GroupStore, cards CardStore, cache *filter.Cache, limits filter.Limits, bus events.EventBus) *Dispatcher {
	return &Dispatcher{sessions: sessions, registries: registries, groups: groups, cards: cards, cache: cache, limits: limits, bus: bus}
}

// Registries exposes the Registry Store the Dispatcher reads from, so
// callers can resolve a fresh snapshot after a Dispatch call (e.g. to
// render a matrix from the result).
func (d *Dispatcher) Registries() *registry.Store {
	return d.registries
}

// Dispatch applies one drop event: looks up its action, validates and
// mutates, then — for every action that changes tagsInPlay — re-evaluates
// the Filter Pipeline and Partition Engine exactly once.
func (d *Dispatcher) Dispatch(ctx context.Context, event DropEvent) (*Result, error) {
	action := actionFor(event.DragKind, event.DropKind)
	if action == ActionInvalid {
		d.publishRejected(ctx, event.SessionID, "invalid drop: "+string(event.DragKind)+" onto "+string(event.DropKind))
		return nil, &coreerrors.InvalidDropError{DragKind: string(event.DragKind), DropKind: string(event.DropKind)}
	}

	reg, err := d.registries.Current()
	if err != nil {
		return nil, err
	}
	sess := d.sessions.GetOrCreate(event.SessionID)
	dict := reg.Dictionary()

	mutated, err := d.apply(action, event, sess, reg, dict)
	if err != nil {
		d.publishRejected(ctx, event.SessionID, err.Error())
		return nil, err
	}

	if !mutated {
		return &Result{Action: action, Reevaluated: false}, nil
	}

	plan := sess.Tags.PlanOf()
	pipeline := filter.NewPipeline(reg, d.limits, d.cache)
	r, err := pipeline.Evaluate(ctx, plan)
	if err != nil {
		return nil, err
	}
	matrix := partition.Build(reg, r, plan.RowAxis, plan.ColAxis)

	d.publishApplied(ctx, event.SessionID, string(action))
	logger.WithSessionContext(event.SessionID).Debug("drop dispatched",
		zap.String("action", string(action)),
		zap.Uint64("registry_version", reg.Version()))

	return &Result{Action: action, Matrix: &matrix, Plan: plan, Reevaluated: true}, nil
}

// apply performs the action's validation and mutation, returning whether
// tagsInPlay (or another input to PlanOf) changed in a way that requires
// re-evaluation.
func (d *Dispatcher) apply(action ActionKind, event DropEvent, sess *session.Session, reg *registry.Registry, dict *tagdict.Dictionary) (bool, error) {
	switch action {
	case ActionMoveToCloud:
		tagID := dict.IDOf(event.DragRef)
		if tagID == -1 {
			return false, &coreerrors.UnknownEntityError{Kind: "tag", Ref: event.DragRef}
		}
		sess.Tags.RemoveFromAllZones(tagID)
		return true, nil

	case ActionMoveToZone:
		tagID := dict.IDOf(event.DragRef)
		if tagID == -1 {
			return false, &coreerrors.UnknownEntityError{Kind: "tag", Ref: event.DragRef}
		}
		target := session.ZoneKind(event.DropRef)
		if err := sess.Tags.MoveToZone(tagID, target); err != nil {
			return false, err
		}
		return true, nil

	case ActionAddRepresentation:
		if err := d.cards.AddTag(event.DropRef, event.DragRef); err != nil {
			return false, err
		}
		return false, nil

	case ActionAddToGroup:
		if err := d.groups.AddMember(event.DropRef, event.DragRef); err != nil {
			return false, err
		}
		return false, nil

	case ActionExpandAndMoveAllToCloud:
		tags, err := d.groups.ExpandTags(event.DragRef)
		if err != nil {
			return false, err
		}
		for _, name := range tags {
			if id := dict.IDOf(name); id != -1 {
				sess.Tags.RemoveFromAllZones(id)
			}
		}
		return true, nil

	case ActionExpandAndMoveAllToZone:
		tags, err := d.groups.ExpandTags(event.DragRef)
		if err != nil {
			return false, err
		}
		target := session.ZoneKind(event.DropRef)
		for _, name := range tags {
			id := dict.IDOf(name)
			if id == -1 {
				continue
			}
			if err := sess.Tags.MoveToZone(id, target); err != nil {
				return false, err
			}
		}
		return true, nil

	case ActionExpandAndAddAllToCard:
		tags, err := d.groups.ExpandTags(event.DragRef)
		if err != nil {
			return false, err
		}
		for _, name := range tags {
			if err := d.cards.AddTag(event.DropRef, name); err != nil {
				return false, err
			}
		}
		return false, nil

	case ActionMoveCosmetic:
		return false, nil

	case ActionChangeDimensionMembership:
		return d.changeDimensionMembership(event, sess, reg, dict)

	default:
		return false, &coreerrors.InvalidDropError{DragKind: string(event.DragKind), DropKind: string(event.DropKind)}
	}
}

// changeDimensionMembership implements CHANGE_DIMENSION_MEMBERSHIP. The
// drop ref encodes the destination cell as "rowTag|colTag" (either half may
// be empty). src is the card's current membership within the session's row
// and column axis vocabularies (its ROW/COLUMN zone tags); only the
// symmetric difference between src and dst is applied, so tags the card
// carries outside those axes are left untouched — this is what makes the
// mutation a cell-to-cell move rather than a wholesale tag replacement.
func (d *Dispatcher) changeDimensionMembership(event DropEvent, sess *session.Session, reg *registry.Registry, dict *tagdict.Dictionary) (bool, error) {
	cardIndex := reg.IndexOf(event.DragRef)
	if cardIndex == -1 {
		return false, &coreerrors.UnknownEntityError{Kind: "card", Ref: event.DragRef}
	}
	card, _ := reg.Card(cardIndex)

	dstRow, dstCol, _ := strings.Cut(event.DropRef, "|")
	dst := make(map[string]struct{})
	if dstRow != "" {
		dst[dstRow] = struct{}{}
	}
	if dstCol != "" {
		dst[dstCol] = struct{}{}
	}

	axisTags := make(map[string]struct{})
	for _, id := range sess.Tags.Zone(session.ZoneRow) {
		if name, ok := dict.NameOf(id); ok {
			axisTags[name] = struct{}{}
		}
	}
	for _, id := range sess.Tags.Zone(session.ZoneColumn) {
		if name, ok := dict.NameOf(id); ok {
			axisTags[name] = struct{}{}
		}
	}

	src := make(map[string]struct{})
	for _, t := range card.Tags {
		if _, inAxis := axisTags[t]; inAxis {
			src[t] = struct{}{}
		}
	}

	for t := range src {
		if _, keep := dst[t]; !keep {
			if err := d.cards.RemoveTag(event.DragRef, t); err != nil {
				return false, err
			}
		}
	}
	for t := range dst {
		if _, already := src[t]; !already {
			if err := d.cards.AddTag(event.DragRef, t); err != nil {
				return false, err
			}
		}
	}

	return false, nil
}

func (d *Dispatcher) publishApplied(ctx context.Context, sessionID, action string) {
	if d.bus == nil {
		return
	}
	_ = d.bus.Publish(ctx, events.NewDropAppliedEvent(sessionID, action))
}

func (d *Dispatcher) publishRejected(ctx context.Context, sessionID, reason string) {
	if d.bus == nil {
		return
	}
	_ = d.bus.Publish(ctx, events.NewDropRejectedEvent(sessionID, reason))
}
