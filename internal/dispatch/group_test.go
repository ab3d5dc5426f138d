package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreerrors "tagmatrix/internal/errors"
)

func TestAddMember_PlainTagIsDirectMember(t *testing.T) {
	s := NewGroupStore()
	require.NoError(t, s.AddMember("colors", "red"))

	tags, err := s.ExpandTags("colors")
	require.NoError(t, err)
	assert.Equal(t, []string{"red"}, tags)
}

func TestAddMember_NestedGroupExpandsTransitively(t *testing.T) {
	s := NewGroupStore()
	require.NoError(t, s.AddMember("primary", "red"))
	require.NoError(t, s.AddMember("primary", "blue"))
	require.NoError(t, s.AddMember("palette", "primary"))
	require.NoError(t, s.AddMember("palette", "green"))

	tags, err := s.ExpandTags("palette")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"red", "blue", "green"}, tags)
}

func TestAddMember_RejectsDirectCycle(t *testing.T) {
	s := NewGroupStore()
	require.NoError(t, s.AddMember("a", "b"))

	err := s.AddMember("b", "a")
	require.Error(t, err)
	var cycleErr *coreerrors.CycleDetectedError
	assert.ErrorAs(t, err, &cycleErr)
}

func TestAddMember_RejectsIndirectCycle(t *testing.T) {
	s := NewGroupStore()
	require.NoError(t, s.AddMember("a", "b"))
	require.NoError(t, s.AddMember("b", "c"))

	err := s.AddMember("c", "a")
	require.Error(t, err)
	var cycleErr *coreerrors.CycleDetectedError
	assert.ErrorAs(t, err, &cycleErr)
}

func TestRemoveMember_RoundTripRestoresMembership(t *testing.T) {
	s := NewGroupStore()
	require.NoError(t, s.AddMember("colors", "red"))
	s.RemoveMember("colors", "red")

	tags, err := s.ExpandTags("colors")
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestGroup_UnknownNameIsNotFound(t *testing.T) {
	s := NewGroupStore()
	_, err := s.Group("nope")
	require.Error(t, err)
	var notFound *coreerrors.UnknownEntityError
	assert.ErrorAs(t, err, &notFound)
}
