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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lnashier/viper"
	"github.com/shetran/gridprep"
	"github.com/spf13/cast"
)

// checkOutputFile makes sure that the output file is specified and its
// directory exists, and expand any environment variables.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`you need to specify an output file configuration variable (for example: Mask.OutputFile="final_mask_SHETRAN.txt")`)
	}
	f = os.ExpandEnv(f)
	outdir := filepath.Dir(f)
	if _, err := os.Stat(outdir); err != nil {
		return f, fmt.Errorf("gridprep: the output file directory doesn't exist: %w", err)
	}
	return f, nil
}

// checkLogFile fills in a default value for the log file path if one isn't
// specified.
func checkLogFile(logFile, outputFile string) string {
	if logFile == "" {
		logFile = strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + ".log"
	}
	return logFile
}

// toIntSliceE converts a list-valued configuration variable to a []int.
// The variable is a slice when it comes from a configuration file or was
// set directly, and a string such as "[1,2]" or "1,2" when it comes from a
// command-line argument or an environment variable.
func toIntSliceE(s interface{}) ([]int, error) {
	switch v := s.(type) {
	case nil:
		return nil, nil
	case []int:
		return v, nil
	case []interface{}:
		return cast.ToIntSliceE(v)
	case string:
		v = strings.TrimSpace(v)
		if v == "" || v == "[]" {
			return nil, nil
		}
		var o []int
		if err := json.Unmarshal([]byte(v), &o); err == nil {
			return o, nil
		}
		for _, f := range strings.FieldsFunc(strings.Trim(v, "[]"), func(r rune) bool {
			return r == ',' || r == ' '
		}) {
			i, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("invalid integer list %q: %w", v, err)
			}
			o = append(o, i)
		}
		return o, nil
	default:
		return cast.ToIntSliceE(s)
	}
}

// productKey returns the configuration section of product p.
func productKey(p gridprep.Product) string {
	if p == gridprep.LandCover {
		return "LandCover"
	}
	return "Mask"
}

// PipelineConfig unmarshals a viper configuration for building product p.
func PipelineConfig(cfg *viper.Viper, p gridprep.Product) (*gridprep.Config, error) {
	key := productKey(p)
	c := gridprep.DefaultConfig()
	c.CellSize = cfg.GetFloat64("CellSize")
	c.NoData = cfg.GetInt("NoData")
	if !(c.CellSize > 0) {
		return nil, fmt.Errorf("parsing configuration: CellSize=%g but should be >0", c.CellSize)
	}

	var err error
	if c.OutputFile, err = checkOutputFile(cfg.GetString(key + ".OutputFile")); err != nil {
		return nil, err
	}
	if shp := cfg.GetString(key + ".ShapefileOutput"); shp != "" {
		if c.ShapefileOutput, err = checkOutputFile(shp); err != nil {
			return nil, err
		}
	}

	switch p {
	case gridprep.Mask:
		c.MaskColumn = cfg.GetString("Mask.Column")
		if c.MaskEncoding, err = gridprep.ParseMaskEncoding(cfg.GetString("Mask.Encoding")); err != nil {
			return nil, fmt.Errorf("parsing configuration: Mask.Encoding: %w", err)
		}
	case gridprep.LandCover:
		c.Classes.Prefix = cfg.GetString("LandCover.ClassPrefix")
		if c.Classes.Codes, err = toIntSliceE(cfg.Get("LandCover.ClassCodes")); err != nil {
			return nil, fmt.Errorf("parsing configuration: LandCover.ClassCodes: %w", err)
		}
		c.Classes.UnclassifiedCode = cfg.GetInt("LandCover.UnclassifiedCode")
		if c.Classes.TieBreak, err = gridprep.ParseTieBreak(cfg.GetString("LandCover.TieBreak")); err != nil {
			return nil, fmt.Errorf("parsing configuration: LandCover.TieBreak: %w", err)
		}
	}
	if err := c.Validate(p); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}
	return c, nil
}

// TableSchema returns the columns to read from the input table of
// product p, as configured in cfg.
func TableSchema(cfg *viper.Viper, p gridprep.Product, c *gridprep.Config) gridprep.TableSchema {
	s := gridprep.TableSchema{
		IDColumn: cfg.GetString("IDColumn"),
		XColumn:  cfg.GetString("XColumn"),
		YColumn:  cfg.GetString("YColumn"),
	}
	switch p {
	case gridprep.Mask:
		s.Columns = []string{c.MaskColumn}
	case gridprep.LandCover:
		if len(c.Classes.Codes) == 0 {
			s.Prefix = c.Classes.Prefix
		}
		for _, code := range c.Classes.Codes {
			s.Columns = append(s.Columns, c.Classes.Column(code))
		}
	}
	return s
}

// inputFile returns the input table path of product p.
func inputFile(cfg *viper.Viper, p gridprep.Product) (string, error) {
	key := productKey(p) + ".Input"
	f := os.ExpandEnv(cfg.GetString(key))
	if f == "" {
		return "", fmt.Errorf("you need to specify an input file configuration variable (%s)", key)
	}
	return f, nil
}

// fileConfig mirrors the configuration file layout.
type fileConfig struct {
	CellSize float64
	NoData   int
	IDColumn string
	XColumn  string
	YColumn  string
	LogFile  string

	Mask struct {
		Input           string
		Sheet           string
		OutputFile      string
		ShapefileOutput string
		Column          string
		Encoding        string
	}

	LandCover struct {
		Input            string
		Sheet            string
		OutputFile       string
		ShapefileOutput  string
		ClassPrefix      string
		ClassCodes       []int
		UnclassifiedCode int
		TieBreak         string
	}
}

// newFileConfig collects the configuration in cfg. Invalid class
// code lists are left empty.
func newFileConfig(cfg *viper.Viper) *fileConfig {
	c := new(fileConfig)
	c.CellSize = cfg.GetFloat64("CellSize")
	c.NoData = cfg.GetInt("NoData")
	c.IDColumn = cfg.GetString("IDColumn")
	c.XColumn = cfg.GetString("XColumn")
	c.YColumn = cfg.GetString("YColumn")
	c.LogFile = cfg.GetString("LogFile")

	c.Mask.Input = cfg.GetString("Mask.Input")
	c.Mask.Sheet = cfg.GetString("Mask.Sheet")
	c.Mask.OutputFile = cfg.GetString("Mask.OutputFile")
	c.Mask.ShapefileOutput = cfg.GetString("Mask.ShapefileOutput")
	c.Mask.Column = cfg.GetString("Mask.Column")
	c.Mask.Encoding = cfg.GetString("Mask.Encoding")

	c.LandCover.Input = cfg.GetString("LandCover.Input")
	c.LandCover.Sheet = cfg.GetString("LandCover.Sheet")
	c.LandCover.OutputFile = cfg.GetString("LandCover.OutputFile")
	c.LandCover.ShapefileOutput = cfg.GetString("LandCover.ShapefileOutput")
	c.LandCover.ClassPrefix = cfg.GetString("LandCover.ClassPrefix")
	c.LandCover.ClassCodes, _ = toIntSliceE(cfg.Get("LandCover.ClassCodes"))
	if c.LandCover.ClassCodes == nil {
		c.LandCover.ClassCodes = []int{}
	}
	c.LandCover.UnclassifiedCode = cfg.GetInt("LandCover.UnclassifiedCode")
	c.LandCover.TieBreak = cfg.GetString("LandCover.TieBreak")
	return c
}
