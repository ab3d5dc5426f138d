package dispatch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreerrors "tagmatrix/internal/errors"
	"tagmatrix/internal/filter"
	"tagmatrix/internal/model"
	"tagmatrix/internal/registry"
	"tagmatrix/internal/session"
)

func newTestDispatcher(t *testing.T) (*Dispatcher, *registry.Registry) {
	t.Helper()
	cards := []model.Card{
		{ID: "c1", Tags: []string{"a", "b"}},
		{ID: "c2", Tags: []string{"a"}},
		{ID: "c3", Tags: []string{"b", "c"}},
		{ID: "c4", Tags: []string{"a", "b", "c"}},
	}
	store := registry.NewStore()
	reg, err := store.Publish(cards, registry.DefaultLimits())
	require.NoError(t, err)

	sessions := session.NewRepository(session.DefaultControls(), session.DefaultLimits())
	groups := NewGroupStore()
	cardStore := NewInMemoryCardStore(map[string][]string{
		"c1": {"a", "b"}, "c2": {"a"}, "c3": {"b", "c"}, "c4": {"a", "b", "c"},
	})
	d := New(sessions, store, groups, cardStore, filter.NewCache(16), filter.DefaultLimits(), nil)
	return d, reg
}

// Scenario D — Invalid drop.
func TestDispatch_ScenarioD_InvalidDropLeavesStateUnchanged(t *testing.T) {
	d, _ := newTestDispatcher(t)
	sess := d.sessions.GetOrCreate("sess-d")

	tagID := int32(0)
	require.NoError(t, sess.Tags.MoveToZone(tagID, session.ZoneUnion))

	_, err := d.Dispatch(context.Background(), DropEvent{
		DragKind: DraggableZone, DropKind: DroppableTagCloud, SessionID: "sess-d",
	})
	require.Error(t, err)
	var invalid *coreerrors.InvalidDropError
	assert.ErrorAs(t, err, &invalid)

	zone, ok := sess.Tags.ZoneOf(tagID)
	require.True(t, ok)
	assert.Equal(t, session.ZoneUnion, zone)
}

// Scenario E — Move between zones; pipeline re-runs exactly once.
func TestDispatch_ScenarioE_MoveToZoneReevaluatesOnce(t *testing.T) {
	d, reg := newTestDispatcher(t)
	dict := reg.Dictionary()
	sess := d.sessions.GetOrCreate("sess-e")

	x, y := dict.IDOf("a"), dict.IDOf("b")
	require.NoError(t, sess.Tags.MoveToZone(x, session.ZoneUnion))
	require.NoError(t, sess.Tags.MoveToZone(y, session.ZoneUnion))

	result, err := d.Dispatch(context.Background(), DropEvent{
		DragKind: DraggableTag, DragRef: "b",
		DropKind: DroppableZone, DropRef: string(session.ZoneIntersection),
		SessionID: "sess-e",
	})
	require.NoError(t, err)
	assert.True(t, result.Reevaluated)
	require.NotNil(t, result.Matrix)

	assert.Equal(t, []int32{x}, sess.Tags.Zone(session.ZoneUnion))
	assert.Equal(t, []int32{y}, sess.Tags.Zone(session.ZoneIntersection))
}

func TestDispatch_MoveToCloudRemovesFromZone(t *testing.T) {
	d, reg := newTestDispatcher(t)
	dict := reg.Dictionary()
	sess := d.sessions.GetOrCreate("sess-cloud")

	a := dict.IDOf("a")
	require.NoError(t, sess.Tags.MoveToZone(a, session.ZoneUnion))

	result, err := d.Dispatch(context.Background(), DropEvent{
		DragKind: DraggableTag, DragRef: "a",
		DropKind: DroppableTagCloud, SessionID: "sess-cloud",
	})
	require.NoError(t, err)
	assert.True(t, result.Reevaluated)

	_, ok := sess.Tags.ZoneOf(a)
	assert.False(t, ok)
}

func TestDispatch_MoveCosmeticNeverReevaluates(t *testing.T) {
	d, _ := newTestDispatcher(t)
	result, err := d.Dispatch(context.Background(), DropEvent{
		DragKind: DraggableZone, DropKind: DroppableControlArea, SessionID: "sess-cosmetic",
	})
	require.NoError(t, err)
	assert.False(t, result.Reevaluated)
	assert.Nil(t, result.Matrix)
}

func TestDispatch_UnknownTagRefIsUnknownEntity(t *testing.T) {
	d, _ := newTestDispatcher(t)
	_, err := d.Dispatch(context.Background(), DropEvent{
		DragKind: DraggableTag, DragRef: "does-not-exist",
		DropKind: DroppableTagCloud, SessionID: "sess-unknown",
	})
	require.Error(t, err)
	var unknown *coreerrors.UnknownEntityError
	assert.ErrorAs(t, err, &unknown)
}

func TestDispatch_AddRepresentationDoesNotReevaluate(t *testing.T) {
	d, _ := newTestDispatcher(t)
	result, err := d.Dispatch(context.Background(), DropEvent{
		DragKind: DraggableTag, DragRef: "a",
		DropKind: DroppableCardTags, DropRef: "c2",
		SessionID: "sess-rep",
	})
	require.NoError(t, err)
	assert.False(t, result.Reevaluated)

	tags, err := d.cards.TagsOf("c2")
	require.NoError(t, err)
	assert.Contains(t, tags, "a")
}
