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

	"github.com/shetran/gridprep/internal/hash"
)

// Product is a SHETRAN input grid this package can build.
type Product int

const (
	// Mask is the catchment mask grid.
	Mask Product = iota

	// LandCover is the dominant land-cover grid.
	LandCover
)

func (p Product) String() string {
	switch p {
	case Mask:
		return "mask"
	case LandCover:
		return "land cover"
	default:
		return fmt.Sprintf("Product(%d)", int(p))
	}
}

// Columns holding each cell's grid value in Result.Table.
const (
	MaskValueColumn     = "MASK_VALUE"
	DominantClassColumn = "DOMINANT"
)

// Config holds the settings shared by the mask and land-cover pipelines.
type Config struct {
	// CellSize is the fishnet spacing, written to the grid header.
	CellSize float64

	// NoData is the value of cells without valid data.
	NoData int

	// MaskColumn holds the inside (1) / outside (0) classification of
	// each mask cell.
	MaskColumn string

	// MaskEncoding specifies the values written to the mask grid.
	MaskEncoding MaskEncoding

	// Classes describes the land-cover class-count columns. If
	// Classes.Codes is empty, the codes are taken from the columns named
	// Classes.Prefix followed by an integer. Classes.NoData is ignored in
	// favor of NoData.
	Classes ClassScheme

	// OutputFile is the path of the SHETRAN ASCII grid to write.
	OutputFile string

	// ShapefileOutput, if not empty, is the path of a polygon shapefile
	// to write the grid to as well.
	ShapefileOutput string
}

// DefaultConfig returns the settings of the original SHETRAN preparation
// scripts, without an output file.
func DefaultConfig() *Config {
	return &Config{
		CellSize:     DefaultCellSize,
		NoData:       DefaultNoData,
		MaskColumn:   DefaultMaskColumn,
		MaskEncoding: OneZero,
		Classes: ClassScheme{
			Prefix:           DefaultClassPrefix,
			UnclassifiedCode: DefaultUnclassifiedCode,
			TieBreak:         LowestCode,
		},
	}
}

// Validate checks that c can be used to build product p.
func (c *Config) Validate(p Product) error {
	if !(c.CellSize > 0) {
		return fmt.Errorf("gridprep: CellSize=%g but should be >0", c.CellSize)
	}
	switch p {
	case Mask:
		if c.MaskColumn == "" {
			return fmt.Errorf("gridprep: the mask column is not specified")
		}
		if c.MaskEncoding != OneZero && c.MaskEncoding != OneNoData {
			return fmt.Errorf("gridprep: invalid mask encoding %v", c.MaskEncoding)
		}
	case LandCover:
		if c.Classes.Prefix == "" && len(c.Classes.Codes) == 0 {
			return fmt.Errorf("gridprep: neither a land-cover class prefix nor class codes are specified")
		}
	default:
		return fmt.Errorf("gridprep: invalid product %v", p)
	}
	return nil
}

// Result describes a grid built by a pipeline.
type Result struct {
	Product Product
	Header  Header
	Grid    *Grid

	// Table is the cell table the grid was built from, with the grid
	// value of each cell added as MaskValueColumn or DominantClassColumn.
	Table *CellTable

	// Ties lists the land-cover ties that were resolved.
	Ties []Tie

	// SpacingErr is non-nil if the cell centers are not CellSize apart.
	// The grid is still valid, but its header may not describe it.
	SpacingErr error

	// Fingerprint identifies the content of the grid file.
	Fingerprint string

	// Settings identifies the configuration the grid was built with,
	// excluding output paths.
	Settings string
}

// BuildMask builds the catchment mask grid from t.
func BuildMask(t *CellTable, c *Config) (*Result, error) {
	if err := c.Validate(Mask); err != nil {
		return nil, err
	}
	values, err := EncodeMask(t, c.MaskColumn, c.MaskEncoding, c.NoData)
	if err != nil {
		return nil, err
	}
	return build(Mask, t, MaskValueColumn, values, nil, c)
}

// BuildLandCover builds the dominant land-cover grid from the zonal
// histogram table t.
func BuildLandCover(t *CellTable, c *Config) (*Result, error) {
	if err := c.Validate(LandCover); err != nil {
		return nil, err
	}
	scheme := c.Classes
	scheme.NoData = c.NoData
	if len(scheme.Codes) == 0 {
		var err error
		if scheme, err = DiscoverClassScheme(t, scheme); err != nil {
			return nil, err
		}
	}
	// Per-cell results are joined back by position, so ids must follow
	// the row order rather than whatever the engine assigned.
	t = t.Renumber()
	values, ties, err := SelectDominant(t, &scheme)
	if err != nil {
		return nil, err
	}
	return build(LandCover, t, DominantClassColumn, values, ties, c)
}

func build(p Product, t *CellTable, column string, values []int, ties []Tie, c *Config) (*Result, error) {
	t, err := t.WithColumn(column, values)
	if err != nil {
		return nil, err
	}
	g, err := Rasterize(t, column)
	if err != nil {
		return nil, err
	}
	r := &Result{
		Product:    p,
		Header:     NewHeader(g, c.CellSize, c.NoData),
		Grid:       g,
		Table:      t,
		Ties:       ties,
		SpacingErr: g.CheckSpacing(c.CellSize),
	}
	w := hash.New()
	if err := EncodeASCIIGrid(w, g.Values, r.Header); err != nil {
		return nil, err
	}
	r.Fingerprint = w.Sum()
	settings := *c
	settings.OutputFile, settings.ShapefileOutput = "", ""
	r.Settings = hash.Object(settings)
	return r, nil
}

// Build builds product p from t.
func Build(p Product, t *CellTable, c *Config) (*Result, error) {
	switch p {
	case Mask:
		return BuildMask(t, c)
	case LandCover:
		return BuildLandCover(t, c)
	default:
		return nil, fmt.Errorf("gridprep: invalid product %v", p)
	}
}

// Run reads the cell table from src, builds product p and writes it to
// c.OutputFile (and c.ShapefileOutput, if set). src is closed before Run
// returns.
func Run(ctx context.Context, p Product, src CellSource, c *Config) (r *Result, err error) {
	defer func() {
		if cerr := src.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("gridprep: closing cell source: %w", cerr)
		}
	}()
	if c.OutputFile == "" {
		return nil, fmt.Errorf("gridprep: no output file specified")
	}
	t, err := src.CellTable(ctx)
	if err != nil {
		return nil, err
	}
	if r, err = Build(p, t, c); err != nil {
		return nil, err
	}
	if err = ctx.Err(); err != nil {
		return nil, err
	}
	if err = WriteASCIIGrid(c.OutputFile, r.Grid.Values, r.Header); err != nil {
		return nil, err
	}
	if c.ShapefileOutput != "" {
		if err = WriteGridShapefile(c.ShapefileOutput, r.Table, r.Grid, c.CellSize); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// MaskPipeline builds the catchment mask grid from src and writes it.
func MaskPipeline(ctx context.Context, src CellSource, c *Config) (*Result, error) {
	return Run(ctx, Mask, src, c)
}

// LandCoverPipeline builds the dominant land-cover grid from src and
// writes it.
func LandCoverPipeline(ctx context.Context, src CellSource, c *Config) (*Result, error) {
	return Run(ctx, LandCover, src, c)
}
