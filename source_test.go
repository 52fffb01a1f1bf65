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
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	goshp "github.com/jonas-p/go-shp"
	"github.com/tealeg/xlsx"
)

func tempDir(t *testing.T) string {
	t.Helper()
	dir, err := ioutil.TempDir("", "gridprep")
	if err != nil {
		t.Fatal(err)
	}
	return dir
}

const histogramCSV = "\ufeffid, X, Y, LC_0, LC_1, LC_2\n" +
	"7, 12500, 42500, 3, 20, 1\n" +
	"9, 17500, 42500, , 5, 5\n" +
	"11, 12500, 37500, ****, 0, 2.0\n"

func TestReadCSV(t *testing.T) {
	s := DefaultSchema()
	s.Prefix = "LC_"
	tbl, err := readCSV("histogram.csv", strings.NewReader(histogramCSV), s)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"LC_0", "LC_1", "LC_2"}; !reflect.DeepEqual(tbl.Columns(), want) {
		t.Errorf("columns %v != %v", tbl.Columns(), want)
	}
	want := []Cell{
		{ID: 7, X: 12500, Y: 42500, Attributes: []int{3, 20, 1}},
		{ID: 9, X: 17500, Y: 42500, Attributes: []int{0, 5, 5}},
		{ID: 11, X: 12500, Y: 37500, Attributes: []int{0, 0, 2}},
	}
	for i, w := range want {
		if c := tbl.Cell(i); !reflect.DeepEqual(c, w) {
			t.Errorf("row %d: %+v != %+v", i, c, w)
		}
	}
}

func TestReadCSVNoID(t *testing.T) {
	const in = "x,y,inside\n0,0,1\n5000,0,0\n"
	tbl, err := readCSV("in.csv", strings.NewReader(in), DefaultSchema("INSIDE"))
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Cell(0).ID != 1 || tbl.Cell(1).ID != 2 {
		t.Errorf("ids %d, %d; want 1, 2", tbl.Cell(0).ID, tbl.Cell(1).ID)
	}
	v, err := tbl.Column("inside")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(v, []int{1, 0}) {
		t.Errorf("values %v", v)
	}
}

func TestReadCSVErrors(t *testing.T) {
	renamed := DefaultSchema("a")
	renamed.IDColumn, renamed.XColumn, renamed.YColumn = "FID", "easting", "northing"
	tests := []struct {
		name, in string
		schema   TableSchema
		column   string
	}{
		{name: "missing X", in: "id,Y,a\n1,0,1\n", schema: DefaultSchema("a"), column: "X"},
		{name: "missing attribute", in: "id,X,Y\n1,0,0\n", schema: DefaultSchema("SHETRAN_ID"), column: "SHETRAN_ID"},
		{name: "bad count", in: "id,X,Y,a\n1,0,0,1.5\n", schema: DefaultSchema("a"), column: "a"},
		{name: "bad coordinate", in: "id,X,Y,a\n1,east,0,1\n", schema: DefaultSchema("a"), column: "X"},
		{name: "bad id", in: "id,X,Y,a\none,0,0,1\n", schema: DefaultSchema("a"), column: "id"},
		{name: "bad renamed id", in: "FID,easting,northing,a\none,0,0,1\n", schema: renamed, column: "FID"},
		{name: "bad renamed y", in: "FID,easting,northing,a\n1,0,north,1\n", schema: renamed, column: "northing"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := readCSV("in.csv", strings.NewReader(test.in), test.schema)
			var se *SchemaError
			if !errors.As(err, &se) {
				t.Fatalf("want SchemaError, got %v", err)
			}
			if se.Column != test.column {
				t.Errorf("error names column %q, want %q", se.Column, test.column)
			}
		})
	}
}

func TestParseAttribute(t *testing.T) {
	for s, want := range map[string]int{
		"": 0, "  ": 0, "*": 0, "*****": 0, "12": 12, " -9999 ": -9999, "4.000": 4,
	} {
		got, err := parseAttribute(s)
		if err != nil {
			t.Errorf("%q: %v", s, err)
			continue
		}
		if got != want {
			t.Errorf("%q: %d != %d", s, got, want)
		}
	}
	for _, s := range []string{"4.5", "abc", "1e20"} {
		if _, err := parseAttribute(s); err == nil {
			t.Errorf("%q: want an error", s)
		}
	}
}

func TestCSVSource(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "ZonalHistogram.csv")
	if err := ioutil.WriteFile(path, []byte(histogramCSV), 0644); err != nil {
		t.Fatal(err)
	}
	s := DefaultSchema()
	s.Prefix = "LC_"
	src, err := OpenCellSource(path, "", s)
	if err != nil {
		t.Fatal(err)
	}
	tbl, err := src.CellTable(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Len() != 3 {
		t.Errorf("%d cells, want 3", tbl.Len())
	}
	if err := src.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := src.CellTable(context.Background()); err == nil {
		t.Error("want an error reading a closed source")
	}
}

func TestShapefileSource(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "catchm_mask.shp")

	e, err := shp.NewEncoderFromFields(path, goshp.POLYGON,
		goshp.NumberField("id", 10),
		goshp.FloatField("X", 16, 3),
		goshp.FloatField("Y", 16, 3),
		goshp.NumberField("SHETRAN_ID", 10),
	)
	if err != nil {
		t.Fatal(err)
	}
	type rec struct {
		id     int
		x, y   float64
		inside int
	}
	recs := []rec{
		{id: 1, x: 2500, y: 7500, inside: 1},
		{id: 2, x: 7500, y: 7500, inside: 0},
		{id: 3, x: 2500, y: 2500, inside: 1},
		{id: 4, x: 7500, y: 2500, inside: 1},
	}
	for _, r := range recs {
		if err := e.EncodeFields(square(r.x, r.y, 5000), r.id, r.x, r.y, r.inside); err != nil {
			t.Fatal(err)
		}
	}
	e.Close()

	src, err := OpenCellSource(path, "", DefaultSchema("SHETRAN_ID"))
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()
	tbl, err := src.CellTable(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Len() != len(recs) {
		t.Fatalf("%d cells, want %d", tbl.Len(), len(recs))
	}
	for i, r := range recs {
		c := tbl.Cell(i)
		if c.ID != r.id || c.X != r.x || c.Y != r.y || c.Attributes[0] != r.inside {
			t.Errorf("row %d: %+v != %+v", i, c, r)
		}
		p, ok := c.Geom.(geom.Polygon)
		if !ok {
			t.Errorf("row %d: geometry is %T, want geom.Polygon", i, c.Geom)
			continue
		}
		if b := p.Bounds(); b.Min.X != r.x-2500 || b.Max.Y != r.y+2500 {
			t.Errorf("row %d: polygon bounds %+v", i, b)
		}
	}
}

func TestExcelSource(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "ZonalHistogram.xlsx")

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("histogram")
	if err != nil {
		t.Fatal(err)
	}
	rows := [][]string{
		{"id", "X", "Y", "LC_1", "LC_2"},
		{"1", "12500", "42500", "4", "9"},
		{},
		{"2", "17500", "42500", "6", ""},
	}
	for _, r := range rows {
		row := sheet.AddRow()
		for _, v := range r {
			row.AddCell().SetString(v)
		}
	}
	if err := f.Save(path); err != nil {
		t.Fatal(err)
	}

	s := DefaultSchema("LC_1", "LC_2")
	src, err := OpenCellSource(path, "histogram", s)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()
	tbl, err := src.CellTable(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := []Cell{
		{ID: 1, X: 12500, Y: 42500, Attributes: []int{4, 9}},
		{ID: 2, X: 17500, Y: 42500, Attributes: []int{6, 0}},
	}
	if tbl.Len() != len(want) {
		t.Fatalf("%d cells, want %d", tbl.Len(), len(want))
	}
	for i, w := range want {
		if c := tbl.Cell(i); !reflect.DeepEqual(c, w) {
			t.Errorf("row %d: %+v != %+v", i, c, w)
		}
	}

	if _, err := NewExcelSource(path, "missing", s); err == nil {
		t.Error("want an error for a missing sheet")
	}
}

func TestOpenCellSourceMissing(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)
	_, err := OpenCellSource(filepath.Join(dir, "ZonalHistogram.csv"), "", DefaultSchema())
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("want a wrapped os.ErrNotExist, got %v", err)
	}
}

func TestOpenCellSourceType(t *testing.T) {
	if _, err := OpenCellSource("grid.gpkg", "", DefaultSchema()); err == nil {
		t.Error("want an error for an unsupported file type")
	}
}
