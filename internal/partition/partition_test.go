package partition

import (
	"testing"

	roaring "github.com/RoaringBitmap/roaring/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tagmatrix/internal/model"
	"tagmatrix/internal/registry"
)

func buildScenarioCRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	cards := []model.Card{
		{ID: "c1", Tags: []string{"row1", "col1"}},
		{ID: "c2", Tags: []string{"row1", "col2"}},
		{ID: "c3", Tags: []string{"row1", "col1", "col2"}},
	}
	reg, err := registry.Build(cards, registry.DefaultLimits())
	require.NoError(t, err)
	return reg
}

// Scenario C — Partition multiplicity: c3 appears in both cells.
func TestBuild_ScenarioC_CardMultiplicity(t *testing.T) {
	reg := buildScenarioCRegistry(t)
	dict := reg.Dictionary()

	rowAxis := []int32{dict.IDOf("row1")}
	colAxis := []int32{dict.IDOf("col1"), dict.IDOf("col2")}

	m := Build(reg, reg.Universe(), rowAxis, colAxis)

	require.Equal(t, 1, m.RowCount())
	require.Equal(t, 2, m.ColCount())

	assert.ElementsMatch(t, []string{"c1", "c3"}, m.CellCardIDs(reg, 0, 0))
	assert.ElementsMatch(t, []string{"c2", "c3"}, m.CellCardIDs(reg, 0, 1))
}

func TestBuild_BothAxesEmpty_SingleCell(t *testing.T) {
	reg := buildScenarioCRegistry(t)
	m := Build(reg, reg.Universe(), nil, nil)

	require.Equal(t, 1, m.RowCount())
	require.Equal(t, 1, m.ColCount())
	assert.ElementsMatch(t, []string{"c1", "c2", "c3"}, m.CellCardIDs(reg, 0, 0))
}

func TestBuild_OneAxisEmpty_1DVector(t *testing.T) {
	reg := buildScenarioCRegistry(t)
	dict := reg.Dictionary()
	colAxis := []int32{dict.IDOf("col1"), dict.IDOf("col2")}

	m := Build(reg, reg.Universe(), nil, colAxis)
	require.Equal(t, 1, m.RowCount())
	require.Equal(t, 2, m.ColCount())
	assert.ElementsMatch(t, []string{"c1", "c3"}, m.CellCardIDs(reg, 0, 0))
	assert.ElementsMatch(t, []string{"c2", "c3"}, m.CellCardIDs(reg, 0, 1))
}

func TestBuild_CellsAreWithinR(t *testing.T) {
	reg := buildScenarioCRegistry(t)
	dict := reg.Dictionary()

	// Restrict R to exclude c3; its multiplicity must not resurface it.
	r := roaring.New()
	r.Add(uint32(reg.IndexOf("c1")))
	r.Add(uint32(reg.IndexOf("c2")))

	rowAxis := []int32{dict.IDOf("row1")}
	colAxis := []int32{dict.IDOf("col1"), dict.IDOf("col2")}
	m := Build(reg, r, rowAxis, colAxis)

	assert.ElementsMatch(t, []string{"c1"}, m.CellCardIDs(reg, 0, 0))
	assert.ElementsMatch(t, []string{"c2"}, m.CellCardIDs(reg, 0, 1))
}

func TestCellCardIDs_OutOfRangeReturnsNil(t *testing.T) {
	reg := buildScenarioCRegistry(t)
	m := Build(reg, reg.Universe(), nil, nil)
	assert.Nil(t, m.CellCardIDs(reg, 5, 5))
}
