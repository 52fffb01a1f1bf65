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
	"fmt"
	"strings"
)

// MaskEncoding specifies the values written for cells inside and outside
// the catchment. Both conventions have been used for SHETRAN inputs, so the
// choice is always made explicitly.
type MaskEncoding int

const (
	// OneZero writes 1 inside the catchment and 0 outside.
	OneZero MaskEncoding = iota

	// OneNoData writes 1 inside the catchment and the NoData value outside.
	OneNoData
)

func (e MaskEncoding) String() string {
	switch e {
	case OneZero:
		return "1/0"
	case OneNoData:
		return "1/nodata"
	default:
		return fmt.Sprintf("MaskEncoding(%d)", int(e))
	}
}

// ParseMaskEncoding parses "1/0" or "1/nodata".
func ParseMaskEncoding(s string) (MaskEncoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1/0", "onezero":
		return OneZero, nil
	case "1/nodata", "onenodata":
		return OneNoData, nil
	default:
		return 0, fmt.Errorf("gridprep: invalid mask encoding %q; valid options are 1/0 and 1/nodata", s)
	}
}

// Mask values read from the GIS engine's classification column.
const (
	maskInside  = 1
	maskOutside = 0
)

// EncodeMask returns, in row order, the mask value of each cell of t given
// the inside/outside classification in column. A classification of 1 means
// inside, 0 (or noData) means outside; any other value is a SchemaError.
func EncodeMask(t *CellTable, column string, e MaskEncoding, noData int) ([]int, error) {
	var outside int
	switch e {
	case OneZero:
		outside = 0
	case OneNoData:
		outside = noData
	default:
		return nil, fmt.Errorf("gridprep: invalid mask encoding %v", e)
	}
	class, err := t.Column(column)
	if err != nil {
		return nil, err
	}
	o := make([]int, len(class))
	for i, v := range class {
		switch v {
		case maskInside:
			o[i] = 1
		case maskOutside, noData:
			o[i] = outside
		default:
			return nil, &SchemaError{Column: column, ID: t.cells[i].ID,
				Reason: fmt.Sprintf("mask value %d is neither %d (inside) nor %d (outside)", v, maskInside, maskOutside)}
		}
	}
	return o, nil
}
