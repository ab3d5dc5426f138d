package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreerrors "tagmatrix/internal/errors"
	"tagmatrix/internal/filter"
)

func TestMoveToZone_MovesBetweenZones(t *testing.T) {
	tip := New(DefaultControls(), DefaultLimits())
	require.NoError(t, tip.MoveToZone(1, ZoneUnion))
	require.NoError(t, tip.MoveToZone(2, ZoneUnion))

	zone, ok := tip.ZoneOf(1)
	require.True(t, ok)
	assert.Equal(t, ZoneUnion, zone)

	// Scenario E — Move between zones.
	require.NoError(t, tip.MoveToZone(2, ZoneIntersection))
	assert.Equal(t, []int32{1}, tip.Zone(ZoneUnion))
	assert.Equal(t, []int32{2}, tip.Zone(ZoneIntersection))
}

func TestMoveToZone_SamePositionIsNoOp(t *testing.T) {
	tip := New(DefaultControls(), DefaultLimits())
	require.NoError(t, tip.MoveToZone(1, ZoneUnion))
	require.NoError(t, tip.MoveToZone(1, ZoneUnion))
	assert.Equal(t, []int32{1}, tip.Zone(ZoneUnion))
}

func TestMoveToZone_RejectsOverCapacity(t *testing.T) {
	tip := New(DefaultControls(), Limits{MaxTagsPerZone: 1})
	require.NoError(t, tip.MoveToZone(1, ZoneUnion))

	err := tip.MoveToZone(2, ZoneUnion)
	require.Error(t, err)
	var capErr *coreerrors.CapacityExceededError
	assert.ErrorAs(t, err, &capErr)
}

func TestRemoveFromAllZones_RoundTripRestoresState(t *testing.T) {
	tip := New(DefaultControls(), DefaultLimits())
	require.NoError(t, tip.MoveToZone(1, ZoneUnion))

	// MOVE_TO_ZONE then MOVE_TO_CLOUD restores tagsInPlay to its prior
	// (empty) zone state for the tag.
	removed := tip.RemoveFromAllZones(1)
	assert.True(t, removed)
	_, ok := tip.ZoneOf(1)
	assert.False(t, ok)
}

func TestPlanOf_OrdersIntersectionExclusionUnion(t *testing.T) {
	tip := New(DefaultControls(), DefaultLimits())
	require.NoError(t, tip.MoveToZone(1, ZoneUnion))
	require.NoError(t, tip.MoveToZone(2, ZoneIntersection))
	require.NoError(t, tip.MoveToZone(3, ZoneExclusion))

	plan := tip.PlanOf()
	require.Len(t, plan.Ops, 3)
	assert.Equal(t, filter.OpIntersection, plan.Ops[0].Kind)
	assert.Equal(t, filter.OpExclusion, plan.Ops[1].Kind)
	assert.Equal(t, filter.OpUnion, plan.Ops[2].Kind)
}

func TestPlanOf_RowColumnZonesBecomeAxes(t *testing.T) {
	tip := New(DefaultControls(), DefaultLimits())
	require.NoError(t, tip.MoveToZone(10, ZoneRow))
	require.NoError(t, tip.MoveToZone(20, ZoneColumn))

	plan := tip.PlanOf()
	assert.Equal(t, []int32{10}, plan.RowAxis)
	assert.Equal(t, []int32{20}, plan.ColAxis)
}

func TestRepository_GetOrCreateIsIdempotent(t *testing.T) {
	repo := NewRepository(DefaultControls(), DefaultLimits())
	s1 := repo.GetOrCreate("sess-1")
	s2 := repo.GetOrCreate("sess-1")
	assert.Same(t, s1, s2)
	assert.True(t, repo.Exists("sess-1"))
}

func TestRepository_GetByIDUnknownIsNotFound(t *testing.T) {
	repo := NewRepository(DefaultControls(), DefaultLimits())
	_, err := repo.GetByID("nope")
	require.Error(t, err)
	var notFound *coreerrors.SessionNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestRepository_RemoveDeletesSession(t *testing.T) {
	repo := NewRepository(DefaultControls(), DefaultLimits())
	repo.GetOrCreate("sess-1")
	repo.Remove("sess-1")
	assert.False(t, repo.Exists("sess-1"))
}
