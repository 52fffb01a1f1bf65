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
	"strings"

	"github.com/ctessum/geom/encoding/shp"
)

// ShapefileSource reads cells from the attribute table of a fishnet
// shapefile, keeping each cell's polygon.
type ShapefileSource struct {
	path   string
	schema TableSchema
	dec    *shp.Decoder
}

// NewShapefileSource opens the shapefile at path.
func NewShapefileSource(path string, s TableSchema) (*ShapefileSource, error) {
	dec, err := shp.NewDecoder(path)
	if err != nil {
		return nil, fmt.Errorf("gridprep: opening shapefile %s: %w", path, err)
	}
	return &ShapefileSource{path: path, schema: s, dec: dec}, nil
}

// CellTable reads every record of the shapefile.
func (s *ShapefileSource) CellTable(ctx context.Context) (*CellTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.dec == nil {
		return nil, fmt.Errorf("gridprep: shapefile %s is closed", s.path)
	}
	fields := s.dec.Reader.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.String()
	}
	b, err := newTableBuilder(s.path, s.schema, names)
	if err != nil {
		return nil, err
	}
	record := make([]string, len(names))
	for {
		g, values, more := s.dec.DecodeRowFields(names...)
		if !more {
			break
		}
		if err := s.dec.Error(); err != nil {
			break
		}
		for i, n := range names {
			// DBF values are padded with spaces or NULs.
			record[i] = strings.Trim(values[n], "\x00 ")
		}
		if err := b.add(record, g); err != nil {
			return nil, err
		}
	}
	if err := s.dec.Error(); err != nil {
		return nil, fmt.Errorf("gridprep: reading shapefile %s: %w", s.path, err)
	}
	return b.table()
}

// Close closes the shapefile.
func (s *ShapefileSource) Close() error {
	if s.dec != nil {
		s.dec.Close()
		s.dec = nil
	}
	return nil
}
