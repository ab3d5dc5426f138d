// Package partition arranges a filtered card set into a 2-D matrix keyed by
// row and column tag axes. Cards replicate across every cell whose row-tag
// and column-tag they carry — the matrix is not a disjoint partition.
package partition

import (
	roaring "github.com/RoaringBitmap/roaring/v2"

	"tagmatrix/internal/registry"
)

// Matrix is the Partition Engine's output: a rectangular array of Bitmaps
// (references into the Registry's card-index space, never copies), plus the
// axis tag-ids used to label rows and columns, in display order.
//
// Cells is indexed [row][col]. When RowAxis is empty, there is exactly one
// row (index 0), representing "no row grouping"; likewise for ColAxis and
// columns. When both axes are empty, Cells is a single cell holding R
// unchanged.
type Matrix struct {
	RowAxis []int32
	ColAxis []int32
	Cells   [][]*roaring.Bitmap
}

// Build partitions r (a Filter Pipeline result) by rowAxis and colAxis tag
// sequences, both already resolved to tag-ids and given in display order.
func Build(reg *registry.Registry, r *roaring.Bitmap, rowAxis, colAxis []int32) Matrix {
	rows := axisClasses(reg, r, rowAxis)
	cols := axisClasses(reg, r, colAxis)

	cells := make([][]*roaring.Bitmap, len(rows))
	for i, rowSet := range rows {
		cells[i] = make([]*roaring.Bitmap, len(cols))
		for j, colSet := range cols {
			cells[i][j] = roaring.And(rowSet, colSet)
		}
	}

	return Matrix{RowAxis: rowAxis, ColAxis: colAxis, Cells: cells}
}

// axisClasses returns, for each tag on the axis, the has_t class
// R ∩ tag_to_cards[t], in axis order. An empty axis yields a single class
// equal to R itself, so Build's row×col product degenerates correctly to a
// 1-D vector or a single cell.
func axisClasses(reg *registry.Registry, r *roaring.Bitmap, axis []int32) []*roaring.Bitmap {
	if len(axis) == 0 {
		return []*roaring.Bitmap{r}
	}
	classes := make([]*roaring.Bitmap, len(axis))
	for i, t := range axis {
		classes[i] = roaring.And(r, reg.CardsWithTag(t))
	}
	return classes
}

// CellCardIDs resolves one cell's bitmap into ordered card_id strings
// (ascending card-index).
func (m Matrix) CellCardIDs(reg *registry.Registry, row, col int) []string {
	if row < 0 || row >= len(m.Cells) || col < 0 || col >= len(m.Cells[row]) {
		return nil
	}
	return reg.CardIDs(m.Cells[row][col])
}

// RowCount and ColCount report the matrix's cell-grid dimensions (always
// at least 1×1, even for empty axes).
func (m Matrix) RowCount() int { return len(m.Cells) }
func (m Matrix) ColCount() int {
	if len(m.Cells) == 0 {
		return 0
	}
	return len(m.Cells[0])
}
