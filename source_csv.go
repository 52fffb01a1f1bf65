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
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// CSVSource reads cells from a comma-separated table with a header row,
// such as the zonal histogram output of the GIS engine.
type CSVSource struct {
	path   string
	schema TableSchema
	f      *os.File
}

// NewCSVSource opens the CSV file at path.
func NewCSVSource(path string, s TableSchema) (*CSVSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gridprep: opening cell table: %w", err)
	}
	return &CSVSource{path: path, schema: s, f: f}, nil
}

// CellTable reads the file.
func (s *CSVSource) CellTable(ctx context.Context) (*CellTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.f == nil {
		return nil, fmt.Errorf("gridprep: cell table %s is closed", s.path)
	}
	return readCSV(s.path, s.f, s.schema)
}

func readCSV(source string, r io.Reader, s TableSchema) (*CellTable, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("gridprep: reading header of %s: %w", source, err)
	}
	if len(header) > 0 {
		// Strip a UTF-8 byte order mark.
		header[0] = trimBOM(header[0])
	}
	b, err := newTableBuilder(source, s, header)
	if err != nil {
		return nil, err
	}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("gridprep: reading %s: %w", source, err)
		}
		if err := b.add(rec, nil); err != nil {
			return nil, err
		}
	}
	return b.table()
}

func trimBOM(s string) string {
	const bom = "\ufeff"
	if len(s) >= len(bom) && s[:len(bom)] == bom {
		return s[len(bom):]
	}
	return s
}

// Close closes the file.
func (s *CSVSource) Close() error {
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}
