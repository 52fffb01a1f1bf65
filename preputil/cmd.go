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

// Package preputil holds the gridprep command-line interface and its
// configuration handling.
package preputil

import (
	"context"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lnashier/viper"
	"github.com/shetran/gridprep"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to gridprep.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			shorthand:  "c",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "CellSize",
			usage: `
              CellSize is the spacing of the fishnet the GIS engine created,
              in the units of its spatial projection (typically meters). It is
              written to the cellsize field of the grid header.`,
			defaultVal: gridprep.DefaultCellSize,
			flagsets:   []*pflag.FlagSet{maskCmd.Flags(), landCoverCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "NoData",
			usage: `
              NoData is the value written for cells without valid data, and
              to the NODATA_value field of the grid header.`,
			defaultVal: gridprep.DefaultNoData,
			flagsets:   []*pflag.FlagSet{maskCmd.Flags(), landCoverCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "IDColumn",
			usage: `
              IDColumn is the cell id column of the input tables. If a table
              has no such column, its cells are numbered in row order.`,
			defaultVal: "id",
			flagsets:   []*pflag.FlagSet{maskCmd.Flags(), landCoverCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "XColumn",
			usage: `
              XColumn is the column of the input tables holding the X
              coordinate of each cell center.`,
			defaultVal: "X",
			flagsets:   []*pflag.FlagSet{maskCmd.Flags(), landCoverCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "YColumn",
			usage: `
              YColumn is the column of the input tables holding the Y
              coordinate of each cell center.`,
			defaultVal: "Y",
			flagsets:   []*pflag.FlagSet{maskCmd.Flags(), landCoverCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "LogFile",
			usage: `
              LogFile specifies the path to the desired logfile location. It can include
              environment variables. If LogFile is left blank, the logfile will be saved in
              the same location as the OutputFile, with a .log extension.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{maskCmd.Flags(), landCoverCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "Mask.Input",
			usage: `
              Mask.Input is the fishnet table with the inside/outside
              classification of each cell, as a shapefile (.shp), CSV file
              (.csv or .txt) or Excel workbook (.xlsx). It can include
              environment variables.`,
			defaultVal: "catchm_mask.shp",
			flagsets:   []*pflag.FlagSet{maskCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "Mask.Sheet",
			usage: `
              Mask.Sheet is the worksheet to read when Mask.Input is an
              Excel workbook. The first sheet is read if it is blank.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{maskCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "Mask.OutputFile",
			usage: `
              Mask.OutputFile is the path of the mask grid to write. It can
              include environment variables.`,
			defaultVal: "final_mask_SHETRAN.txt",
			flagsets:   []*pflag.FlagSet{maskCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "Mask.ShapefileOutput",
			usage: `
              Mask.ShapefileOutput, if set, is the path of a polygon shapefile
              to write the mask grid cells to as well.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{maskCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "Mask.Column",
			usage: `
              Mask.Column is the column holding 1 for cells inside the
              catchment and 0 for cells outside it.`,
			defaultVal: gridprep.DefaultMaskColumn,
			flagsets:   []*pflag.FlagSet{maskCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "Mask.Encoding",
			usage: `
              Mask.Encoding specifies the values written to the mask grid:
              "1/0" writes 1 inside the catchment and 0 outside it, "1/nodata"
              writes 1 inside and the NoData value outside.`,
			defaultVal: gridprep.OneZero.String(),
			flagsets:   []*pflag.FlagSet{maskCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "LandCover.Input",
			usage: `
              LandCover.Input is the zonal histogram table with one pixel-count
              column per land-cover class, as a shapefile (.shp), CSV file
              (.csv or .txt) or Excel workbook (.xlsx). It can include
              environment variables.`,
			defaultVal: "ZonalHistogram.csv",
			flagsets:   []*pflag.FlagSet{landCoverCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "LandCover.Sheet",
			usage: `
              LandCover.Sheet is the worksheet to read when LandCover.Input
              is an Excel workbook. The first sheet is read if it is blank.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{landCoverCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "LandCover.OutputFile",
			usage: `
              LandCover.OutputFile is the path of the land-cover grid to write.
              It can include environment variables.`,
			defaultVal: "final_land_cover_SHETRAN.txt",
			flagsets:   []*pflag.FlagSet{landCoverCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "LandCover.ShapefileOutput",
			usage: `
              LandCover.ShapefileOutput, if set, is the path of a polygon
              shapefile to write the land-cover grid cells to as well.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{landCoverCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "LandCover.ClassPrefix",
			usage: `
              LandCover.ClassPrefix is the prefix of the pixel-count columns;
              the column of class c is named ClassPrefix followed by c.`,
			defaultVal: gridprep.DefaultClassPrefix,
			flagsets:   []*pflag.FlagSet{landCoverCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "LandCover.ClassCodes",
			usage: `
              LandCover.ClassCodes lists the land-cover class codes to
              consider, in column order. If it is empty, every column named
              ClassPrefix followed by an integer is used.`,
			defaultVal: []int{},
			flagsets:   []*pflag.FlagSet{landCoverCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "LandCover.UnclassifiedCode",
			usage: `
              LandCover.UnclassifiedCode is the class code of unclassified
              pixels. Cells where it is dominant are written as NoData.`,
			defaultVal: gridprep.DefaultUnclassifiedCode,
			flagsets:   []*pflag.FlagSet{landCoverCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "LandCover.TieBreak",
			usage: `
              LandCover.TieBreak specifies how a cell is classified when
              several classes have the same largest pixel count: "lowest"
              picks the lowest class code, "first" picks the class listed
              first in ClassCodes and "strict" fails the run.`,
			defaultVal: gridprep.LowestCode.String(),
			flagsets:   []*pflag.FlagSet{landCoverCmd.Flags(), configCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("GRIDPREP")
	Cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case []int:
				if option.shorthand == "" {
					set.IntSlice(option.name, option.defaultVal.([]int), option.usage)
				} else {
					set.IntSliceP(option.name, option.shorthand, option.defaultVal.([]int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(maskCmd)
	Root.AddCommand(landCoverCmd)
	Root.AddCommand(checkCmd)
	Root.AddCommand(configCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("gridprep: problem reading configuration file: %w", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "gridprep",
	Short: "Prepare SHETRAN mask and land-cover grids.",
	Long: `gridprep converts the fishnet tables produced by a GIS engine into the
ASCII grids read by the SHETRAN hydrological model: a catchment mask and a
dominant land-cover map. Use the subcommands specified below to access the
functionality.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'GRIDPREP_var' where 'var' is the
name of the variable to be set, with '.' replaced by '_' (for example
GRIDPREP_MASK_OUTPUTFILE). Paths may contain environment variables.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of gridprep.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("gridprep v%s\n", gridprep.Version)
	},
	DisableAutoGenTag: true,
}

var maskCmd = &cobra.Command{
	Use:   "mask",
	Short: "Create the catchment mask grid.",
	Long: `mask reads a fishnet table whose Mask.Column classifies each cell as
inside (1) or outside (0) the catchment, and writes the SHETRAN mask grid.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProduct(context.Background(), cmd, gridprep.Mask)
	},
	DisableAutoGenTag: true,
}

var landCoverCmd = &cobra.Command{
	Use:     "landcover",
	Aliases: []string{"lc"},
	Short:   "Create the dominant land-cover grid.",
	Long: `landcover reads a zonal histogram table holding the number of pixels of each
land-cover class in each fishnet cell, classifies each cell by its dominant
class, and writes the SHETRAN land-cover grid.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProduct(context.Background(), cmd, gridprep.LandCover)
	},
	DisableAutoGenTag: true,
}

var checkCmd = &cobra.Command{
	Use:   "check grid_file",
	Short: "Validate a SHETRAN ASCII grid.",
	Long: `check parses a SHETRAN ASCII grid, verifies that its header matches its
contents, and prints a summary of its values together with the fingerprint
logged when it was created.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return checkGrid(cmd.OutOrStdout(), args[0])
	},
	DisableAutoGenTag: true,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the configuration.",
	Long: `config prints the configuration resolved from the configuration file,
command-line arguments and environment variables, in the configuration file
format.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return toml.NewEncoder(cmd.OutOrStdout()).Encode(newFileConfig(Cfg))
	},
	DisableAutoGenTag: true,
}
