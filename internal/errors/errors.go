// Package errors defines the typed error taxonomy surfaced by the core.
// Each kind is a distinct struct rather than a central error-code enum, so
// callers can errors.As into the specific kind they care about.
package errors

import "fmt"

// NotFoundError represents a resource not found error.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// SessionNotFoundError represents a session-related not found error.
type SessionNotFoundError struct {
	Resource string
	ID       string
}

func (e *SessionNotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// LimitExceededError is returned when a hard configuration bound (MAX_CARDS,
// MAX_TAGS) is exceeded at build time. Fatal to the caller.
type LimitExceededError struct {
	Limit    string
	Got      int
	Max      int
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("%s exceeded: got %d, max %d", e.Limit, e.Got, e.Max)
}

// PlanBoundsExceededError is returned when a FilterPlan has too many
// operations or a single operation carries too many tags.
type PlanBoundsExceededError struct {
	Bound string
	Got   int
	Max   int
}

func (e *PlanBoundsExceededError) Error() string {
	return fmt.Sprintf("plan bound %s exceeded: got %d, max %d", e.Bound, e.Got, e.Max)
}

// InvalidDropError is returned for a (draggable-kind, droppable-kind) pair
// the dispatch table marks INVALID. No state change occurs.
type InvalidDropError struct {
	DragKind string
	DropKind string
}

func (e *InvalidDropError) Error() string {
	return fmt.Sprintf("invalid drop: cannot drop %s onto %s", e.DragKind, e.DropKind)
}

// CapacityExceededError is returned when a zone, group, or per-card tag cap
// would be violated by a mutation.
type CapacityExceededError struct {
	What string
	Max  int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("capacity exceeded for %s: max %d", e.What, e.Max)
}

// CycleDetectedError is returned when adding a group member would close a
// cycle in the tag-group DAG.
type CycleDetectedError struct {
	Group string
	Tag   string
}

func (e *CycleDetectedError) Error() string {
	return fmt.Sprintf("adding %s to group %s would create a cycle", e.Tag, e.Group)
}

// UnknownEntityError is returned when a drop event's ref cannot be resolved
// to a known Tag, Card, Zone, or Group.
type UnknownEntityError struct {
	Kind string
	Ref  string
}

func (e *UnknownEntityError) Error() string {
	return fmt.Sprintf("unknown %s: %s", e.Kind, e.Ref)
}

// RegistryNotInitializedError is a programmer error: the pipeline was
// invoked before a Registry was ever published.
type RegistryNotInitializedError struct{}

func (e *RegistryNotInitializedError) Error() string {
	return "registry not initialized"
}

// CancelledError signals cooperative cancellation of a running pipeline
// evaluation. Callers should not log this as an error.
type CancelledError struct{}

func (e *CancelledError) Error() string {
	return "operation cancelled"
}

// DuplicateCardIDError is returned when two cards in the same loader batch
// share a card_id. Registry.Build rejects the whole batch rather than
// silently dropping one.
type DuplicateCardIDError struct {
	ID string
}

func (e *DuplicateCardIDError) Error() string {
	return fmt.Sprintf("duplicate card_id: %s", e.ID)
}
