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

// Package gridprep builds the catchment mask and dominant land-cover input
// grids for the SHETRAN hydrological model. It takes the cell tables a GIS
// engine produces (one row per fishnet cell, keyed by the cell center
// coordinates) and turns them into SHETRAN ASCII grid files.
package gridprep

// Version gives the version number.
const Version = "1.0.0"

const (
	// DefaultNoData is the SHETRAN sentinel for cells without valid data.
	DefaultNoData = -9999

	// DefaultCellSize is the fishnet spacing, in projected length units,
	// used for the catchments this tool was first written for.
	DefaultCellSize = 5000.

	// DefaultMaskColumn is the attribute holding the inside (1) / outside (0)
	// classification of each mask cell.
	DefaultMaskColumn = "SHETRAN_ID"

	// DefaultClassPrefix is the column prefix the zonal histogram gives
	// to each land-cover class count.
	DefaultClassPrefix = "LC_"

	// DefaultUnclassifiedCode is the land-cover code of pixels with no class.
	DefaultUnclassifiedCode = 0
)
