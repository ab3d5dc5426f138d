package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreerrors "tagmatrix/internal/errors"
	"tagmatrix/internal/model"
)

func sampleCards() []model.Card {
	return []model.Card{
		{ID: "c1", Tags: []string{"a", "b"}},
		{ID: "c2", Tags: []string{"a"}},
		{ID: "c3", Tags: []string{"b", "c"}},
		{ID: "c4", Tags: []string{"a", "b", "c"}},
	}
}

func TestBuild_IndexesAreInverse(t *testing.T) {
	reg, err := Build(sampleCards(), DefaultLimits())
	require.NoError(t, err)

	dict := reg.Dictionary()
	a := dict.IDOf("a")

	withA := reg.CardIDs(reg.CardsWithTag(a))
	assert.ElementsMatch(t, []string{"c1", "c2", "c4"}, withA)

	idx := reg.IndexOf("c1")
	require.NotEqual(t, -1, idx)
	tagsOfC1 := reg.TagsOfCard(idx)
	names := make([]string, 0, tagsOfC1.GetCardinality())
	it := tagsOfC1.Iterator()
	for it.HasNext() {
		name, ok := dict.NameOf(int32(it.Next()))
		require.True(t, ok)
		names = append(names, name)
	}
	assert.ElementsMatch(t, []string{"a", "b"}, names)
}

func TestBuild_RejectsDuplicateCardID(t *testing.T) {
	cards := append(sampleCards(), model.Card{ID: "c1", Tags: []string{"x"}})
	_, err := Build(cards, DefaultLimits())
	require.Error(t, err)
	var dup *coreerrors.DuplicateCardIDError
	assert.ErrorAs(t, err, &dup)
}

func TestBuild_RejectsOverMaxCards(t *testing.T) {
	_, err := Build(sampleCards(), Limits{MaxCards: 2, MaxTags: 100})
	require.Error(t, err)
	var limitErr *coreerrors.LimitExceededError
	assert.ErrorAs(t, err, &limitErr)
}

func TestUniverse_CoversAllCards(t *testing.T) {
	reg, err := Build(sampleCards(), DefaultLimits())
	require.NoError(t, err)
	assert.Equal(t, uint64(4), reg.Universe().GetCardinality())
}

func TestCardsWithTag_UnknownIDReturnsEmpty(t *testing.T) {
	reg, err := Build(sampleCards(), DefaultLimits())
	require.NoError(t, err)
	assert.True(t, reg.CardsWithTag(9999).IsEmpty())
}

func TestCardsWithTag_CloneIsIndependent(t *testing.T) {
	reg, err := Build(sampleCards(), DefaultLimits())
	require.NoError(t, err)
	a := reg.Dictionary().IDOf("a")

	bm := reg.CardsWithTag(a)
	bm.Add(12345)

	again := reg.CardsWithTag(a)
	assert.False(t, again.Contains(12345))
}

func TestStore_PublishAssignsMonotonicVersions(t *testing.T) {
	store := NewStore()
	_, err := store.Current()
	require.Error(t, err)
	var notInit *coreerrors.RegistryNotInitializedError
	assert.ErrorAs(t, err, &notInit)

	reg1, err := store.Publish(sampleCards(), DefaultLimits())
	require.NoError(t, err)
	reg2, err := store.Publish(sampleCards(), DefaultLimits())
	require.NoError(t, err)

	assert.Less(t, reg1.Version(), reg2.Version())

	current, err := store.Current()
	require.NoError(t, err)
	assert.Equal(t, reg2.Version(), current.Version())
}
