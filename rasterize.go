/*
Copyright © 2022 the gridprep authors.
This file is part of gridprep.

gridprep is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

gridprep is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with gridprep.  If not, see <http://www.gnu.org/licenses/>.
*/

package gridprep

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// spacingTolerance is the relative tolerance used when comparing the
// distance between neighboring cell centers to the cell size.
const spacingTolerance = 1e-6

// Grid is a dense raster built from a cell table. Row 0 is the
// northernmost row and column 0 the westernmost column.
type Grid struct {
	Values [][]int // [row][col]

	// IDs holds the id of the cell placed at each position.
	IDs [][]int

	// Xs are the distinct cell center X coordinates in increasing order,
	// one per column.
	Xs []float64

	// Ys are the distinct cell center Y coordinates in decreasing order,
	// one per row.
	Ys []float64

	// rows holds the table row placed at each position.
	rows [][]int
}

// NRows returns the number of grid rows.
func (g *Grid) NRows() int { return len(g.Ys) }

// NCols returns the number of grid columns.
func (g *Grid) NCols() int { return len(g.Xs) }

// Rasterize places the value of column of every cell of t into a grid
// whose columns are the distinct X coordinates of t and whose rows are its
// distinct Y coordinates, north first. The cells of t must cover every
// (X, Y) combination exactly once.
func Rasterize(t *CellTable, column string) (*Grid, error) {
	values, err := t.Column(column)
	if err != nil {
		return nil, err
	}
	return RasterizeValues(t, values)
}

// RasterizeValues is like Rasterize but takes the value of each cell from
// values, which must be in the row order of t.
func RasterizeValues(t *CellTable, values []int) (*Grid, error) {
	if len(values) != t.Len() {
		return nil, fmt.Errorf("gridprep: rasterizing %d values for %d cells", len(values), t.Len())
	}
	if t.Len() == 0 {
		return nil, &SchemaError{Reason: "the cell table is empty"}
	}

	xi := make(map[float64]int)
	yi := make(map[float64]int)
	for _, c := range t.cells {
		xi[c.X] = 0
		yi[c.Y] = 0
	}
	g := &Grid{
		Xs: sortedKeys(xi),
		Ys: sortedKeys(yi),
	}
	// North-up: rows run from the largest Y to the smallest.
	sort.Sort(sort.Reverse(sort.Float64Slice(g.Ys)))
	for i, x := range g.Xs {
		xi[x] = i
	}
	for i, y := range g.Ys {
		yi[y] = i
	}

	nr, nc := len(g.Ys), len(g.Xs)
	g.Values = make([][]int, nr)
	g.IDs = make([][]int, nr)
	g.rows = make([][]int, nr)
	for r := 0; r < nr; r++ {
		g.Values[r] = make([]int, nc)
		g.IDs[r] = make([]int, nc)
		g.rows[r] = make([]int, nc)
		for c := range g.rows[r] {
			g.rows[r][c] = -1
		}
	}

	for i, cell := range t.cells {
		r, c := yi[cell.Y], xi[cell.X]
		if j := g.rows[r][c]; j >= 0 {
			return nil, &IncompleteGridError{
				Reason:  "duplicate coordinates",
				ID:      t.cells[j].ID,
				OtherID: cell.ID,
				X:       cell.X,
				Y:       cell.Y,
			}
		}
		g.rows[r][c] = i
		g.IDs[r][c] = cell.ID
		g.Values[r][c] = values[i]
	}

	if t.Len() != nr*nc {
		for r, row := range g.rows {
			for c, j := range row {
				if j < 0 {
					return nil, &IncompleteGridError{
						Reason: fmt.Sprintf("%d cells do not fill a %d×%d grid, no cell", t.Len(), nr, nc),
						X:      g.Xs[c],
						Y:      g.Ys[r],
					}
				}
			}
		}
	}
	return g, nil
}

func sortedKeys(m map[float64]int) []float64 {
	o := make([]float64, 0, len(m))
	for k := range m {
		o = append(o, k)
	}
	sort.Float64s(o)
	return o
}

// CheckSpacing returns an error if neighboring rows or columns of g are
// not cellSize apart.
func (g *Grid) CheckSpacing(cellSize float64) error {
	if !(cellSize > 0) {
		return fmt.Errorf("gridprep: cell size is %g but must be > 0", cellSize)
	}
	for i := 1; i < len(g.Xs); i++ {
		if d := g.Xs[i] - g.Xs[i-1]; !floats.EqualWithinRel(d, cellSize, spacingTolerance) {
			return fmt.Errorf("gridprep: columns at x=%g and x=%g are %g apart but the cell size is %g",
				g.Xs[i-1], g.Xs[i], d, cellSize)
		}
	}
	for i := 1; i < len(g.Ys); i++ {
		if d := g.Ys[i-1] - g.Ys[i]; !floats.EqualWithinRel(d, cellSize, spacingTolerance) {
			return fmt.Errorf("gridprep: rows at y=%g and y=%g are %g apart but the cell size is %g",
				g.Ys[i-1], g.Ys[i], d, cellSize)
		}
	}
	return nil
}
