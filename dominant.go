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
	"sort"
	"strconv"
	"strings"
)

// TieBreak decides which land-cover class a cell gets when more than one
// class holds its largest pixel count.
type TieBreak int

const (
	// LowestCode picks the tied class with the smallest code.
	LowestCode TieBreak = iota

	// FirstColumn picks the tied class whose column comes first in
	// the class scheme.
	FirstColumn

	// Strict returns an AmbiguousClassError for a tie. Cells whose counts
	// are all zero are not considered ambiguous and resolve to the lowest
	// code.
	Strict
)

func (t TieBreak) String() string {
	switch t {
	case LowestCode:
		return "lowest"
	case FirstColumn:
		return "first"
	case Strict:
		return "strict"
	default:
		return fmt.Sprintf("TieBreak(%d)", int(t))
	}
}

// ParseTieBreak parses the names returned by TieBreak.String.
func ParseTieBreak(s string) (TieBreak, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lowest", "":
		return LowestCode, nil
	case "first":
		return FirstColumn, nil
	case "strict":
		return Strict, nil
	default:
		return 0, fmt.Errorf("gridprep: invalid tie-break policy %q; valid options are lowest, first and strict", s)
	}
}

// ClassScheme describes the class-count columns of a zonal histogram table.
type ClassScheme struct {
	// Prefix is prepended to each class code to form its column name.
	Prefix string

	// Codes are the recognized land-cover class codes, in column order.
	Codes []int

	// UnclassifiedCode is the code of pixels with no class. A cell whose
	// dominant class is UnclassifiedCode is given the NoData value.
	UnclassifiedCode int

	NoData int

	TieBreak TieBreak
}

// Column returns the name of the count column for class code.
func (s *ClassScheme) Column(code int) string {
	return s.Prefix + strconv.Itoa(code)
}

// DiscoverClassScheme returns a copy of s whose Codes are, in increasing
// order, the class codes of all columns of t named s.Prefix followed by an
// integer. The prefix is matched case-insensitively.
func DiscoverClassScheme(t *CellTable, s ClassScheme) (ClassScheme, error) {
	var codes []int
	for _, c := range t.columns {
		if len(c) < len(s.Prefix) || !strings.EqualFold(c[:len(s.Prefix)], s.Prefix) {
			continue
		}
		code, err := strconv.Atoi(c[len(s.Prefix):])
		if err != nil {
			continue
		}
		codes = append(codes, code)
	}
	if len(codes) == 0 {
		return s, &SchemaError{Reason: fmt.Sprintf("no land-cover class columns with prefix %q", s.Prefix)}
	}
	sort.Ints(codes)
	s.Codes = codes
	return s, nil
}

// Tie records a cell whose largest, non-zero pixel count is shared by
// several classes.
type Tie struct {
	ID     int
	X, Y   float64
	Codes  []int // tied class codes, in column order
	Chosen int   // the code selected before any NoData substitution
}

// SelectDominant returns, for each cell of t in row order, the code of the
// land-cover class with the largest pixel count, with ties resolved by
// s.TieBreak and the unclassified code replaced by s.NoData. It also
// returns every tie it resolved. Cells without any pixels are not reported
// as ties.
//
// A class column missing from t is a SchemaError: cells that are present
// must never be given NoData because of a configuration mistake.
func SelectDominant(t *CellTable, s *ClassScheme) ([]int, []Tie, error) {
	if len(s.Codes) == 0 {
		return nil, nil, &SchemaError{Reason: "the class scheme lists no land-cover classes"}
	}
	cols := make([]int, len(s.Codes))
	seen := make(map[int]bool, len(s.Codes))
	for i, code := range s.Codes {
		if seen[code] {
			return nil, nil, &SchemaError{Column: s.Column(code), Reason: "class code listed more than once"}
		}
		seen[code] = true
		j, err := t.columnIndex(s.Column(code))
		if err != nil {
			return nil, nil, err
		}
		cols[i] = j
	}

	out := make([]int, len(t.cells))
	var ties []Tie
	candidates := make([]int, 0, len(s.Codes))
	for i, c := range t.cells {
		max := -1
		candidates = candidates[:0]
		for k, j := range cols {
			v := c.Attributes[j]
			if v < 0 {
				return nil, nil, &SchemaError{Column: s.Column(s.Codes[k]), ID: c.ID,
					Reason: fmt.Sprintf("negative pixel count %d", v)}
			}
			switch {
			case v > max:
				max = v
				candidates = append(candidates[:0], s.Codes[k])
			case v == max:
				candidates = append(candidates, s.Codes[k])
			}
		}

		chosen := candidates[0]
		if len(candidates) > 1 {
			switch s.TieBreak {
			case LowestCode:
				chosen = lowest(candidates)
			case FirstColumn:
			case Strict:
				if max > 0 {
					return nil, nil, &AmbiguousClassError{ID: c.ID, X: c.X, Y: c.Y,
						Codes: append([]int(nil), candidates...)}
				}
				chosen = lowest(candidates)
			default:
				return nil, nil, fmt.Errorf("gridprep: invalid tie-break policy %v", s.TieBreak)
			}
			if max > 0 {
				ties = append(ties, Tie{ID: c.ID, X: c.X, Y: c.Y,
					Codes: append([]int(nil), candidates...), Chosen: chosen})
			}
		}

		if chosen == s.UnclassifiedCode {
			out[i] = s.NoData
		} else {
			out[i] = chosen
		}
	}
	return out, ties, nil
}

func lowest(codes []int) int {
	m := codes[0]
	for _, c := range codes[1:] {
		if c < m {
			m = c
		}
	}
	return m
}
