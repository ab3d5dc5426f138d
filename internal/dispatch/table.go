package dispatch

// table is the static drag/drop state table: rows are draggable kinds,
// columns are droppable kinds. Dispatch is a pure lookup into this map; no
// switch/cascade decides validity.
var table = map[DraggableKind]map[DroppableKind]ActionKind{
	DraggableTag: {
		DroppableTagCloud:       ActionMoveToCloud,
		DroppableZone:           ActionMoveToZone,
		DroppableCardTags:       ActionAddRepresentation,
		DroppableControlArea:    ActionInvalid,
		DroppableTagGroupTarget: ActionAddToGroup,
		DroppableMatrixCell:     ActionInvalid,
	},
	DraggableTagGroup: {
		DroppableTagCloud:       ActionExpandAndMoveAllToCloud,
		DroppableZone:           ActionExpandAndMoveAllToZone,
		DroppableCardTags:       ActionExpandAndAddAllToCard,
		DroppableControlArea:    ActionInvalid,
		DroppableTagGroupTarget: ActionInvalid,
		DroppableMatrixCell:     ActionInvalid,
	},
	DraggableZone: {
		DroppableTagCloud:       ActionInvalid,
		DroppableZone:           ActionInvalid,
		DroppableCardTags:       ActionInvalid,
		DroppableControlArea:    ActionMoveCosmetic,
		DroppableTagGroupTarget: ActionInvalid,
		DroppableMatrixCell:     ActionInvalid,
	},
	DraggableCard: {
		DroppableTagCloud:       ActionInvalid,
		DroppableZone:           ActionInvalid,
		DroppableCardTags:       ActionInvalid,
		DroppableControlArea:    ActionInvalid,
		DroppableTagGroupTarget: ActionInvalid,
		DroppableMatrixCell:     ActionChangeDimensionMembership,
	},
}

// actionFor looks up the action for a (drag, drop) pair. Unknown pairs
// (kinds the caller invented) resolve to ActionInvalid, same as a table
// cell explicitly marked INVALID.
func actionFor(drag DraggableKind, drop DroppableKind) ActionKind {
	row, ok := table[drag]
	if !ok {
		return ActionInvalid
	}
	action, ok := row[drop]
	if !ok {
		return ActionInvalid
	}
	return action
}
