package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActionFor_MatchesStateTable(t *testing.T) {
	cases := []struct {
		drag DraggableKind
		drop DroppableKind
		want ActionKind
	}{
		{DraggableTag, DroppableTagCloud, ActionMoveToCloud},
		{DraggableTag, DroppableZone, ActionMoveToZone},
		{DraggableTag, DroppableCardTags, ActionAddRepresentation},
		{DraggableTag, DroppableControlArea, ActionInvalid},
		{DraggableTag, DroppableTagGroupTarget, ActionAddToGroup},
		{DraggableTag, DroppableMatrixCell, ActionInvalid},

		{DraggableTagGroup, DroppableTagCloud, ActionExpandAndMoveAllToCloud},
		{DraggableTagGroup, DroppableZone, ActionExpandAndMoveAllToZone},
		{DraggableTagGroup, DroppableCardTags, ActionExpandAndAddAllToCard},
		{DraggableTagGroup, DroppableControlArea, ActionInvalid},
		{DraggableTagGroup, DroppableTagGroupTarget, ActionInvalid},
		{DraggableTagGroup, DroppableMatrixCell, ActionInvalid},

		{DraggableZone, DroppableTagCloud, ActionInvalid},
		{DraggableZone, DroppableZone, ActionInvalid},
		{DraggableZone, DroppableCardTags, ActionInvalid},
		{DraggableZone, DroppableControlArea, ActionMoveCosmetic},
		{DraggableZone, DroppableTagGroupTarget, ActionInvalid},
		{DraggableZone, DroppableMatrixCell, ActionInvalid},

		{DraggableCard, DroppableTagCloud, ActionInvalid},
		{DraggableCard, DroppableZone, ActionInvalid},
		{DraggableCard, DroppableCardTags, ActionInvalid},
		{DraggableCard, DroppableControlArea, ActionInvalid},
		{DraggableCard, DroppableTagGroupTarget, ActionInvalid},
		{DraggableCard, DroppableMatrixCell, ActionChangeDimensionMembership},
	}

	for _, tc := range cases {
		got := actionFor(tc.drag, tc.drop)
		assert.Equalf(t, tc.want, got, "drag=%s drop=%s", tc.drag, tc.drop)
	}
}
