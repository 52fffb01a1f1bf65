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

// SchemaError is returned when an expected attribute column is absent
// from a cell table or holds a value that cannot belong to it.
type SchemaError struct {
	// Column is the offending column. It is empty when the error concerns
	// the table as a whole.
	Column string

	// ID is the cell id of the offending row, or 0 when the error
	// is not tied to a single row.
	ID int

	Reason string
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("gridprep: schema error")
	if e.Column != "" {
		fmt.Fprintf(&b, ": column %q", e.Column)
	}
	if e.ID != 0 {
		fmt.Fprintf(&b, ": cell id %d", e.ID)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	return b.String()
}

// IncompleteGridError is returned when the cells of a table do not form
// a complete rectangular product of their distinct X and Y coordinates.
type IncompleteGridError struct {
	Reason string

	// ID and OtherID are the ids of the cells involved. Both are set for
	// duplicate coordinates, neither is set for a missing cell.
	ID, OtherID int

	X, Y float64
}

func (e *IncompleteGridError) Error() string {
	switch {
	case e.ID != 0 && e.OtherID != 0:
		return fmt.Sprintf("gridprep: incomplete grid: %s: cells %d and %d both at x=%g, y=%g",
			e.Reason, e.ID, e.OtherID, e.X, e.Y)
	case e.ID != 0:
		return fmt.Sprintf("gridprep: incomplete grid: %s: cell %d at x=%g, y=%g",
			e.Reason, e.ID, e.X, e.Y)
	default:
		return fmt.Sprintf("gridprep: incomplete grid: %s: x=%g, y=%g", e.Reason, e.X, e.Y)
	}
}

// AmbiguousClassError is returned under the Strict tie-break policy when
// more than one land-cover class holds the largest pixel count of a cell.
type AmbiguousClassError struct {
	ID    int
	X, Y  float64
	Codes []int
}

func (e *AmbiguousClassError) Error() string {
	return fmt.Sprintf("gridprep: cell %d at x=%g, y=%g: land-cover classes %v tie for the largest pixel count",
		e.ID, e.X, e.Y, e.Codes)
}

// IOError is returned when an output file cannot be written.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("gridprep: %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *IOError) Unwrap() error { return e.Err }
