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
	"os"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	goshp "github.com/jonas-p/go-shp"
)

// WriteGridShapefile writes one polygon per grid cell to the shapefile at
// path, with the cell id, center coordinates and grid value as attributes,
// so that a grid can be inspected in a GIS. The polygon is the one the
// cell was read with if it has one, otherwise the square of side cellSize
// centered on the cell.
func WriteGridShapefile(path string, t *CellTable, g *Grid, cellSize float64) error {
	base := strings.TrimSuffix(path, ".shp")
	for _, ext := range []string{".shp", ".prj", ".dbf", ".shx"} {
		os.Remove(base + ext)
	}
	fields := []goshp.Field{
		goshp.NumberField("id", 10),
		goshp.FloatField("X", 16, 3),
		goshp.FloatField("Y", 16, 3),
		goshp.NumberField("VALUE", 10),
	}
	e, err := shp.NewEncoderFromFields(base+".shp", goshp.POLYGON, fields...)
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}
	for r, row := range g.rows {
		for c, i := range row {
			cell := t.cells[i]
			p, ok := cell.Geom.(geom.Polygon)
			if !ok {
				p = square(g.Xs[c], g.Ys[r], cellSize)
			}
			if err := e.EncodeFields(p, cell.ID, cell.X, cell.Y, g.Values[r][c]); err != nil {
				e.Close()
				return &IOError{Op: "write", Path: path, Err: err}
			}
		}
	}
	e.Close()
	return nil
}

// square returns the axis-aligned square of side size centered on (x, y),
// wound clockwise as shapefile outer rings are.
func square(x, y, size float64) geom.Polygon {
	h := size / 2
	return geom.Polygon{{
		{X: x - h, Y: y - h},
		{X: x - h, Y: y + h},
		{X: x + h, Y: y + h},
		{X: x + h, Y: y - h},
		{X: x - h, Y: y - h},
	}}
}
