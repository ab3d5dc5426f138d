package dispatch

import coreerrors "tagmatrix/internal/errors"

// maxGroupDepth bounds group nesting. AddMember rejects a subgroup whose
// own chain of nested subgroups is already this long; ExpandTags stops
// descending below this many levels, and tags deeper than that are not
// collected.
const maxGroupDepth = 16

// Group is a named bundle of members. A member is either a plain tag name
// or the name of another Group — ADD_TO_GROUP accepts either, since a
// TAG_GROUP_TARGET drop resolves its ref against both namespaces. Nesting
// groups inside groups is what makes the membership graph a DAG rather
// than a flat set, and is what AddMember guards against forming a cycle in.
type Group struct {
	Name      string
	Tags      map[string]struct{}
	SubGroups map[string]struct{}
}

func newGroup(name string) *Group {
	return &Group{Name: name, Tags: make(map[string]struct{}), SubGroups: make(map[string]struct{})}
}

// GroupStore owns the external group definitions ADD_TO_GROUP mutates.
// Not part of the Registry; groups are expanded to tag-id sets at drop
// time by the Dispatcher, never baked into the Registry itself.
type GroupStore struct {
	groups map[string]*Group
}

// NewGroupStore returns an empty GroupStore.
func NewGroupStore() *GroupStore {
	return &GroupStore{groups: make(map[string]*Group)}
}

// EnsureGroup returns the named Group, creating it empty if absent.
func (s *GroupStore) EnsureGroup(name string) *Group {
	g, ok := s.groups[name]
	if !ok {
		g = newGroup(name)
		s.groups[name] = g
	}
	return g
}

// Group returns the named group, or UnknownEntityError.
func (s *GroupStore) Group(name string) (*Group, error) {
	g, ok := s.groups[name]
	if !ok {
		return nil, &coreerrors.UnknownEntityError{Kind: "group", Ref: name}
	}
	return g, nil
}

// AddMember adds ref (a tag name, or another group's name) to group,
// rejecting the mutation if ref names a group whose inclusion would close
// a cycle in the group DAG, or whose own nesting depth is already
// maxGroupDepth or more. The depth of the groups that contain groupName
// is not counted.
func (s *GroupStore) AddMember(groupName, ref string) error {
	group := s.EnsureGroup(groupName)

	if sub, ok := s.groups[ref]; ok {
		if s.reaches(sub.Name, groupName) {
			return &coreerrors.CycleDetectedError{Group: groupName, Tag: ref}
		}
		if s.depth(sub.Name, 0) >= maxGroupDepth {
			return &coreerrors.CapacityExceededError{What: "group nesting depth", Max: maxGroupDepth}
		}
		group.SubGroups[ref] = struct{}{}
		return nil
	}

	group.Tags[ref] = struct{}{}
	return nil
}

// RemoveMember removes ref from group's direct membership, restoring exact
// prior state (the round-trip law requires of ADD_TO_GROUP).
func (s *GroupStore) RemoveMember(groupName, ref string) {
	g, ok := s.groups[groupName]
	if !ok {
		return
	}
	delete(g.Tags, ref)
	delete(g.SubGroups, ref)
}

// reaches reports whether a path exists from `from` to `to` in the group
// DAG (from contains to, directly or via nested subgroups). A tag member
// whose name is now also a group's name counts as an edge to that group.
// AddMember uses it to detect that adding `from` as a member of `to`
// would close a cycle.
func (s *GroupStore) reaches(from, to string) bool {
	if from == to {
		return true
	}
	g, ok := s.groups[from]
	if !ok {
		return false
	}
	for sub := range g.SubGroups {
		if s.reaches(sub, to) {
			return true
		}
	}
	for tag := range g.Tags {
		if _, isGroup := s.groups[tag]; isGroup && s.reaches(tag, to) {
			return true
		}
	}
	return false
}

// depth returns the longest chain of nested subgroups starting at name.
func (s *GroupStore) depth(name string, seen int) int {
	if seen > maxGroupDepth {
		return seen
	}
	g, ok := s.groups[name]
	if !ok {
		return seen
	}
	max := seen
	for sub := range g.SubGroups {
		if d := s.depth(sub, seen+1); d > max {
			max = d
		}
	}
	return max
}

// ExpandTags flattens a group's full transitive tag membership (direct
// tags plus every nested subgroup's tags), deduplicated.
func (s *GroupStore) ExpandTags(groupName string) ([]string, error) {
	g, ok := s.groups[groupName]
	if !ok {
		return nil, &coreerrors.UnknownEntityError{Kind: "group", Ref: groupName}
	}
	seen := make(map[string]struct{})
	s.collect(g, seen, 0)
	tags := make([]string, 0, len(seen))
	for t := range seen {
		tags = append(tags, t)
	}
	return tags, nil
}

func (s *GroupStore) collect(g *Group, seen map[string]struct{}, depth int) {
	if depth > maxGroupDepth {
		return
	}
	for t := range g.Tags {
		seen[t] = struct{}{}
	}
	for sub := range g.SubGroups {
		if subGroup, ok := s.groups[sub]; ok {
			s.collect(subGroup, seen, depth+1)
		}
	}
}
