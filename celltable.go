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
	"math"
	"strings"

	"github.com/ctessum/geom"
)

// Cell is one row of a cell table: a fishnet cell identified by id and by
// the coordinates of its center, carrying integer attributes.
type Cell struct {
	ID   int
	X, Y float64

	// Attributes holds one value per column of the owning CellTable,
	// in column order.
	Attributes []int

	// Geom is the cell geometry as delivered by the GIS engine.
	// It is nil when the source carries no geometry.
	Geom geom.Geom
}

// CellTable holds the cells produced by the GIS engine. A CellTable is not
// modified after it is created; the transformations below return new tables.
type CellTable struct {
	columns []string
	index   map[string]int // lower-case column name -> position
	cells   []Cell
}

// NewCellTable creates a cell table with the given attribute columns.
// Column names must be unique regardless of case, every cell must have
// one attribute per column, ids must be at least 1 and coordinates must
// be finite.
func NewCellTable(columns []string, cells []Cell) (*CellTable, error) {
	t := &CellTable{
		columns: append([]string(nil), columns...),
		index:   make(map[string]int, len(columns)),
		cells:   append([]Cell(nil), cells...),
	}
	for i, c := range t.columns {
		k := strings.ToLower(c)
		if _, ok := t.index[k]; ok {
			return nil, &SchemaError{Column: c, Reason: "column appears more than once"}
		}
		t.index[k] = i
	}
	for _, c := range t.cells {
		if c.ID < 1 {
			return nil, &SchemaError{ID: c.ID, Reason: fmt.Sprintf("cell id %d is less than 1", c.ID)}
		}
		if len(c.Attributes) != len(t.columns) {
			return nil, &SchemaError{ID: c.ID, Reason: fmt.Sprintf("cell has %d attributes but the table has %d columns",
				len(c.Attributes), len(t.columns))}
		}
		if math.IsNaN(c.X) || math.IsInf(c.X, 0) || math.IsNaN(c.Y) || math.IsInf(c.Y, 0) {
			return nil, &SchemaError{ID: c.ID, Reason: fmt.Sprintf("invalid coordinates x=%g, y=%g", c.X, c.Y)}
		}
	}
	return t, nil
}

// Len returns the number of cells.
func (t *CellTable) Len() int { return len(t.cells) }

// Cell returns the i'th cell in row order. The returned attribute slice
// is shared with the table and must not be modified.
func (t *CellTable) Cell(i int) Cell { return t.cells[i] }

// Columns returns the attribute column names in order.
func (t *CellTable) Columns() []string { return append([]string(nil), t.columns...) }

// HasColumn reports whether the table has the named column.
// Names are compared case-insensitively.
func (t *CellTable) HasColumn(name string) bool {
	_, ok := t.index[strings.ToLower(name)]
	return ok
}

func (t *CellTable) columnIndex(name string) (int, error) {
	i, ok := t.index[strings.ToLower(name)]
	if !ok {
		return -1, &SchemaError{Column: name, Reason: "column is absent from the cell table"}
	}
	return i, nil
}

// Column returns the values of the named column in row order.
func (t *CellTable) Column(name string) ([]int, error) {
	j, err := t.columnIndex(name)
	if err != nil {
		return nil, err
	}
	o := make([]int, len(t.cells))
	for i, c := range t.cells {
		o[i] = c.Attributes[j]
	}
	return o, nil
}

// WithColumn returns a new table holding the cells of t plus the column
// name set to values, which must be in row order. An existing column with
// the same name is replaced.
func (t *CellTable) WithColumn(name string, values []int) (*CellTable, error) {
	if len(values) != len(t.cells) {
		return nil, &SchemaError{Column: name, Reason: fmt.Sprintf("%d values for %d cells", len(values), len(t.cells))}
	}
	columns := t.Columns()
	j, err := t.columnIndex(name)
	if err != nil {
		j = len(columns)
		columns = append(columns, name)
	}
	cells := make([]Cell, len(t.cells))
	for i, c := range t.cells {
		attrs := make([]int, len(columns))
		copy(attrs, c.Attributes)
		attrs[j] = values[i]
		c.Attributes = attrs
		cells[i] = c
	}
	return NewCellTable(columns, cells)
}

// Renumber returns a copy of t whose cell ids are 1..Len() in row order.
// The GIS engine does not always number cells contiguously from 1, so
// anything that joins per-cell results back to the table must use the
// renumbered ids (equivalently, the row position) as its key.
func (t *CellTable) Renumber() *CellTable {
	o := &CellTable{
		columns: t.columns,
		index:   t.index,
		cells:   make([]Cell, len(t.cells)),
	}
	for i, c := range t.cells {
		c.ID = i + 1
		o.cells[i] = c
	}
	return o
}
