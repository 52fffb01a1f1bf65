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
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ctessum/geom"
)

// CellSource is a handle on the cell table produced by the GIS engine.
// A pipeline acquires a CellSource when it starts, reads the table once
// and closes the source when it ends.
type CellSource interface {
	CellTable(ctx context.Context) (*CellTable, error)
	Close() error
}

// TableSchema specifies which columns of an engine table are read.
type TableSchema struct {
	// IDColumn holds the cell id. If the table has no such column,
	// cells are numbered 1..N in row order.
	IDColumn string

	// XColumn and YColumn hold the cell center coordinates. They are
	// required.
	XColumn, YColumn string

	// Columns are attribute columns that must be present.
	Columns []string

	// Prefix, if not empty, additionally selects every column whose name
	// starts with it.
	Prefix string
}

// DefaultSchema returns the schema of the tables written by the GIS engine:
// id, X and Y columns plus the given attribute columns.
func DefaultSchema(columns ...string) TableSchema {
	return TableSchema{IDColumn: "id", XColumn: "X", YColumn: "Y", Columns: columns}
}

// tableBuilder turns the records of a tabular file into a CellTable.
type tableBuilder struct {
	source          string
	idx, xIdx, yIdx int // positions in the record; idx is -1 without an id column
	idName          string
	xName, yName    string
	attrIdx         []int
	attrNames       []string
	cells           []Cell
}

func newTableBuilder(source string, s TableSchema, header []string) (*tableBuilder, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		k := strings.ToLower(strings.TrimSpace(h))
		if _, ok := pos[k]; !ok {
			pos[k] = i
		}
	}
	lookup := func(name string) (int, error) {
		i, ok := pos[strings.ToLower(name)]
		if !ok {
			return -1, &SchemaError{Column: name, Reason: fmt.Sprintf("column is absent from %s", source)}
		}
		return i, nil
	}

	b := &tableBuilder{source: source, idx: -1}
	var err error
	if b.xIdx, err = lookup(s.XColumn); err != nil {
		return nil, err
	}
	if b.yIdx, err = lookup(s.YColumn); err != nil {
		return nil, err
	}
	if s.IDColumn != "" {
		b.idx, _ = lookup(s.IDColumn)
	}
	b.idName, b.xName, b.yName = s.IDColumn, s.XColumn, s.YColumn

	selected := make(map[int]bool)
	for _, c := range s.Columns {
		i, err := lookup(c)
		if err != nil {
			return nil, err
		}
		if !selected[i] {
			selected[i] = true
			b.attrIdx = append(b.attrIdx, i)
		}
	}
	if s.Prefix != "" {
		for i, h := range header {
			h = strings.TrimSpace(h)
			if len(h) >= len(s.Prefix) && strings.EqualFold(h[:len(s.Prefix)], s.Prefix) && !selected[i] {
				selected[i] = true
				b.attrIdx = append(b.attrIdx, i)
			}
		}
	}
	for _, i := range b.attrIdx {
		b.attrNames = append(b.attrNames, strings.TrimSpace(header[i]))
	}
	return b, nil
}

// add appends the cell described by record. g may be nil.
func (b *tableBuilder) add(record []string, g geom.Geom) error {
	c := Cell{ID: len(b.cells) + 1, Geom: g}
	var err error
	if b.idx >= 0 {
		if c.ID, err = parseAttribute(record[b.idx]); err != nil {
			return &SchemaError{Column: b.idName, ID: len(b.cells) + 1,
				Reason: fmt.Sprintf("%s row %d: %v", b.source, len(b.cells)+1, err)}
		}
	}
	if c.X, err = parseCoordinate(record[b.xIdx]); err != nil {
		return &SchemaError{Column: b.xName, ID: c.ID, Reason: fmt.Sprintf("%s: %v", b.source, err)}
	}
	if c.Y, err = parseCoordinate(record[b.yIdx]); err != nil {
		return &SchemaError{Column: b.yName, ID: c.ID, Reason: fmt.Sprintf("%s: %v", b.source, err)}
	}
	c.Attributes = make([]int, len(b.attrIdx))
	for k, i := range b.attrIdx {
		if c.Attributes[k], err = parseAttribute(record[i]); err != nil {
			return &SchemaError{Column: b.attrNames[k], ID: c.ID, Reason: fmt.Sprintf("%s: %v", b.source, err)}
		}
	}
	b.cells = append(b.cells, c)
	return nil
}

func (b *tableBuilder) table() (*CellTable, error) {
	return NewCellTable(b.attrNames, b.cells)
}

// parseAttribute parses an integer attribute. Blank and all-asterisk
// values are the null values written by the GIS engine; they are read
// as 0. Integral values written with a decimal part are accepted.
func parseAttribute(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.Trim(s, "*") == "" {
		return 0, nil
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("value %q is not an integer", s)
	}
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, fmt.Errorf("value %q is not an integer", s)
	}
	return int(f), nil
}

func parseCoordinate(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("missing coordinate")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("coordinate %q is not a number", s)
	}
	return v, nil
}

// TableSource is a CellSource for a table that is already in memory.
type TableSource struct {
	Table *CellTable
}

// CellTable returns s.Table.
func (s TableSource) CellTable(ctx context.Context) (*CellTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Table, nil
}

// Close does nothing.
func (s TableSource) Close() error { return nil }

// OpenCellSource opens the engine output at path, choosing the reader by
// file extension: .shp for a shapefile, .csv or .txt for comma-separated
// values and .xlsx for an Excel workbook, where sheet selects the
// worksheet (the first one if empty).
func OpenCellSource(path, sheet string, s TableSchema) (CellSource, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".shp":
		return NewShapefileSource(path, s)
	case ".csv", ".txt":
		return NewCSVSource(path, s)
	case ".xlsx":
		return NewExcelSource(path, sheet, s)
	default:
		return nil, fmt.Errorf("gridprep: unsupported cell table file type %q (%s); "+
			"use a .shp, .csv or .xlsx file", filepath.Ext(path), path)
	}
}
