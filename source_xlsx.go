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

	"github.com/tealeg/xlsx"
)

// ExcelSource reads cells from a worksheet of an Excel workbook. The first
// row of the sheet holds the column names.
type ExcelSource struct {
	path   string
	schema TableSchema
	sheet  *xlsx.Sheet
}

// NewExcelSource opens the workbook at path and selects the named sheet,
// or the first sheet if sheet is empty.
func NewExcelSource(path, sheet string, s TableSchema) (*ExcelSource, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("gridprep: opening xlsx file: %w", err)
	}
	var sh *xlsx.Sheet
	if sheet == "" {
		if len(f.Sheets) == 0 {
			return nil, fmt.Errorf("gridprep: xlsx file %s has no sheets", path)
		}
		sh = f.Sheets[0]
	} else {
		var ok bool
		if sh, ok = f.Sheet[sheet]; !ok {
			return nil, fmt.Errorf("gridprep: reading cell table from Excel; no sheet %s in %s", sheet, path)
		}
	}
	return &ExcelSource{path: path, schema: s, sheet: sh}, nil
}

// CellTable reads the worksheet. Empty rows are skipped.
func (s *ExcelSource) CellTable(ctx context.Context) (*CellTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.sheet == nil {
		return nil, fmt.Errorf("gridprep: xlsx file %s is closed", s.path)
	}
	var b *tableBuilder
	var ncol int
	for _, row := range s.sheet.Rows {
		if row == nil || emptyRow(row) {
			continue
		}
		if b == nil {
			header := rowValues(row, len(row.Cells))
			ncol = len(header)
			var err error
			if b, err = newTableBuilder(s.path, s.schema, header); err != nil {
				return nil, err
			}
			continue
		}
		if err := b.add(rowValues(row, ncol), nil); err != nil {
			return nil, err
		}
	}
	if b == nil {
		return nil, fmt.Errorf("gridprep: xlsx file %s: sheet %s is empty", s.path, s.sheet.Name)
	}
	return b.table()
}

// rowValues returns the first n cell values of row, padding short rows
// with empty strings.
func rowValues(row *xlsx.Row, n int) []string {
	o := make([]string, n)
	for i := 0; i < n && i < len(row.Cells); i++ {
		if c := row.Cells[i]; c != nil {
			o[i] = c.Value
		}
	}
	return o
}

func emptyRow(row *xlsx.Row) bool {
	for _, c := range row.Cells {
		if c != nil && c.Value != "" {
			return false
		}
	}
	return true
}

// Close releases the workbook.
func (s *ExcelSource) Close() error {
	s.sheet = nil
	return nil
}
