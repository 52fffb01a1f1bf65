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

package preputil

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/kr/pretty"
	"github.com/lnashier/viper"
	"github.com/shetran/gridprep"
)

func TestToIntSliceE(t *testing.T) {
	tests := []struct {
		in   interface{}
		want []int
	}{
		{in: nil, want: nil},
		{in: []int{1, 2}, want: []int{1, 2}},
		{in: []interface{}{int64(3), int64(11)}, want: []int{3, 11}},
		{in: "[0,2,4]", want: []int{0, 2, 4}},
		{in: "[]", want: nil},
		{in: "", want: nil},
		{in: "1, 5", want: []int{1, 5}},
	}
	for _, test := range tests {
		got, err := toIntSliceE(test.in)
		if err != nil {
			t.Errorf("%#v: %v", test.in, err)
			continue
		}
		if !reflect.DeepEqual(got, test.want) {
			t.Errorf("%#v: %v != %v", test.in, got, test.want)
		}
	}
	if _, err := toIntSliceE("1,x"); err == nil {
		t.Error("want an error")
	}
}

func TestCheckLogFile(t *testing.T) {
	if have, want := checkLogFile("", "out/final_mask_SHETRAN.txt"), "out/final_mask_SHETRAN.log"; have != want {
		t.Errorf("%s != %s", have, want)
	}
	if have, want := checkLogFile("run.log", "final_mask_SHETRAN.txt"), "run.log"; have != want {
		t.Errorf("%s != %s", have, want)
	}
}

func TestCheckOutputFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "preputil")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	os.Setenv("GRIDPREP_TEST_DIR", dir)
	defer os.Unsetenv("GRIDPREP_TEST_DIR")

	f, err := checkOutputFile("${GRIDPREP_TEST_DIR}/grid.txt")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "grid.txt"); f != want {
		t.Errorf("%s != %s", f, want)
	}
	if _, err := checkOutputFile(""); err == nil {
		t.Error("want an error for a missing output file")
	}
	if _, err := checkOutputFile(filepath.Join(dir, "missing", "grid.txt")); err == nil {
		t.Error("want an error for a missing directory")
	}
}

// testConfig returns a configuration with the default settings, writing
// to dir.
func testConfig(dir string) *viper.Viper {
	cfg := viper.New()
	cfg.Set("CellSize", gridprep.DefaultCellSize)
	cfg.Set("NoData", gridprep.DefaultNoData)
	cfg.Set("IDColumn", "id")
	cfg.Set("XColumn", "X")
	cfg.Set("YColumn", "Y")
	cfg.Set("Mask.OutputFile", filepath.Join(dir, "final_mask_SHETRAN.txt"))
	cfg.Set("Mask.Column", "SHETRAN_ID")
	cfg.Set("Mask.Encoding", "1/0")
	cfg.Set("LandCover.OutputFile", filepath.Join(dir, "final_land_cover_SHETRAN.txt"))
	cfg.Set("LandCover.ClassPrefix", "LC_")
	cfg.Set("LandCover.ClassCodes", "[]")
	cfg.Set("LandCover.UnclassifiedCode", 0)
	cfg.Set("LandCover.TieBreak", "lowest")
	return cfg
}

func TestPipelineConfig(t *testing.T) {
	dir, err := ioutil.TempDir("", "preputil")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	t.Run("mask", func(t *testing.T) {
		cfg := testConfig(dir)
		cfg.Set("Mask.Encoding", "1/nodata")
		cfg.Set("Mask.ShapefileOutput", filepath.Join(dir, "mask.shp"))
		c, err := PipelineConfig(cfg, gridprep.Mask)
		if err != nil {
			t.Fatal(err)
		}
		want := gridprep.DefaultConfig()
		want.MaskEncoding = gridprep.OneNoData
		want.OutputFile = filepath.Join(dir, "final_mask_SHETRAN.txt")
		want.ShapefileOutput = filepath.Join(dir, "mask.shp")
		if !reflect.DeepEqual(c, want) {
			t.Errorf("config mismatch: %v", pretty.Diff(c, want))
		}
	})
	t.Run("land cover", func(t *testing.T) {
		cfg := testConfig(dir)
		cfg.Set("LandCover.ClassCodes", []interface{}{int64(4), int64(2), int64(1)})
		cfg.Set("LandCover.TieBreak", "first")
		cfg.Set("LandCover.UnclassifiedCode", 9)
		c, err := PipelineConfig(cfg, gridprep.LandCover)
		if err != nil {
			t.Fatal(err)
		}
		want := gridprep.DefaultConfig()
		want.Classes.Codes = []int{4, 2, 1}
		want.Classes.TieBreak = gridprep.FirstColumn
		want.Classes.UnclassifiedCode = 9
		want.OutputFile = filepath.Join(dir, "final_land_cover_SHETRAN.txt")
		if !reflect.DeepEqual(c, want) {
			t.Errorf("config mismatch: %v", pretty.Diff(c, want))
		}

		s := TableSchema(cfg, gridprep.LandCover, c)
		wantSchema := gridprep.TableSchema{
			IDColumn: "id", XColumn: "X", YColumn: "Y",
			Columns: []string{"LC_4", "LC_2", "LC_1"},
		}
		if !reflect.DeepEqual(s, wantSchema) {
			t.Errorf("schema mismatch: %v", pretty.Diff(s, wantSchema))
		}
	})
	t.Run("discovered classes", func(t *testing.T) {
		cfg := testConfig(dir)
		c, err := PipelineConfig(cfg, gridprep.LandCover)
		if err != nil {
			t.Fatal(err)
		}
		s := TableSchema(cfg, gridprep.LandCover, c)
		if s.Prefix != "LC_" || len(s.Columns) != 0 {
			t.Errorf("schema %+v should select columns by prefix", s)
		}
	})

	errTests := []struct {
		name, key string
		val       interface{}
		p         gridprep.Product
	}{
		{name: "cell size", key: "CellSize", val: -5.0, p: gridprep.Mask},
		{name: "encoding", key: "Mask.Encoding", val: "0/1", p: gridprep.Mask},
		{name: "tie break", key: "LandCover.TieBreak", val: "random", p: gridprep.LandCover},
		{name: "class codes", key: "LandCover.ClassCodes", val: "[a]", p: gridprep.LandCover},
		{name: "output file", key: "Mask.OutputFile", val: "", p: gridprep.Mask},
		{name: "mask column", key: "Mask.Column", val: "", p: gridprep.Mask},
	}
	for _, test := range errTests {
		t.Run(test.name, func(t *testing.T) {
			cfg := testConfig(dir)
			cfg.Set(test.key, test.val)
			if _, err := PipelineConfig(cfg, test.p); err == nil {
				t.Errorf("want an error for %s=%v", test.key, test.val)
			}
		})
	}
}

func TestEnvironmentConfig(t *testing.T) {
	os.Setenv("GRIDPREP_LANDCOVER_SHEET", "land cover")
	defer os.Unsetenv("GRIDPREP_LANDCOVER_SHEET")
	if s := Cfg.GetString("LandCover.Sheet"); s != "land cover" {
		t.Errorf("LandCover.Sheet = %q, want the environment value", s)
	}
}

func TestConfigExample(t *testing.T) {
	dir, err := ioutil.TempDir("", "preputil")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	os.Setenv("SHETRAN_DATA", dir)
	defer os.Unsetenv("SHETRAN_DATA")

	cfg := viper.New()
	cfg.SetConfigFile("../cmd/gridprep/configExample.toml")
	if err := cfg.ReadInConfig(); err != nil {
		t.Fatal(err)
	}
	c, err := PipelineConfig(cfg, gridprep.LandCover)
	if err != nil {
		t.Fatal(err)
	}
	if want := []int{0, 1, 2, 3, 4, 5, 6, 7, 9, 10, 11, 12, 14, 20, 21}; !reflect.DeepEqual(c.Classes.Codes, want) {
		t.Errorf("class codes %v != %v", c.Classes.Codes, want)
	}
	if want := filepath.Join(dir, "final_land_cover_SHETRAN.txt"); c.OutputFile != want {
		t.Errorf("output file %s != %s", c.OutputFile, want)
	}
	if c.CellSize != 5000 || c.NoData != -9999 || c.Classes.TieBreak != gridprep.LowestCode {
		t.Errorf("unexpected settings: %+v", c)
	}
	input, err := inputFile(cfg, gridprep.Mask)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "catchm_mask.shp"); input != want {
		t.Errorf("input %s != %s", input, want)
	}
}
