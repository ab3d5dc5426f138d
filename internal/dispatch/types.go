// Package dispatch translates drag-drop events into tagsInPlay mutations
// via a static (draggable-kind, droppable-kind) state table, then triggers
// a single synchronous Filter Pipeline + Partition Engine re-evaluation.
// There are no conditional cascades on the hot path: every pair is either a
// table lookup to one action handler, or INVALID.
package dispatch

// DraggableKind names what is being dragged.
type DraggableKind string

const (
	DraggableTag      DraggableKind = "TAG"
	DraggableTagGroup DraggableKind = "TAG_GROUP"
	DraggableZone     DraggableKind = "ZONE"
	DraggableCard     DraggableKind = "CARD"
)

// DroppableKind names what is being dropped onto.
type DroppableKind string

const (
	DroppableTagCloud       DroppableKind = "TAG_CLOUD"
	DroppableZone           DroppableKind = "ZONE"
	DroppableCardTags       DroppableKind = "CARD_TAGS"
	DroppableControlArea    DroppableKind = "CONTROL_AREA"
	DroppableTagGroupTarget DroppableKind = "TAG_GROUP_TARGET"
	DroppableMatrixCell     DroppableKind = "MATRIX_CELL"
)

// ActionKind names the mutation a table cell resolves to.
type ActionKind string

const (
	ActionMoveToCloud               ActionKind = "MOVE_TO_CLOUD"
	ActionMoveToZone                ActionKind = "MOVE_TO_ZONE"
	ActionAddRepresentation         ActionKind = "ADD_REPRESENTATION"
	ActionAddToGroup                ActionKind = "ADD_TO_GROUP"
	ActionExpandAndMoveAllToCloud   ActionKind = "EXPAND_AND_MOVE_ALL_TO_CLOUD"
	ActionExpandAndMoveAllToZone    ActionKind = "EXPAND_AND_MOVE_ALL_TO_ZONE"
	ActionExpandAndAddAllToCard     ActionKind = "EXPAND_AND_ADD_ALL_TO_CARD"
	ActionMoveCosmetic              ActionKind = "MOVE_COSMETIC"
	ActionChangeDimensionMembership ActionKind = "CHANGE_DIMENSION_MEMBERSHIP"
	ActionInvalid                   ActionKind = "INVALID"
)

// DropEvent is the external drop-event contract. Each *Ref is an opaque
// identifier the Dispatcher resolves to a Tag / Card / Zone / Group; refs
// that cannot be resolved surface as UnknownEntity.
type DropEvent struct {
	DragKind  DraggableKind
	DragRef   string
	DropKind  DroppableKind
	DropRef   string
	SessionID string
}
