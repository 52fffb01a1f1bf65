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
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/shetran/gridprep"
	"github.com/shetran/gridprep/internal/hash"
)

// checkGrid parses the SHETRAN ASCII grid at path and writes a summary
// of it to w.
func checkGrid(w io.Writer, path string) error {
	f, err := os.Open(os.ExpandEnv(path))
	if err != nil {
		return fmt.Errorf("gridprep: checking grid: %w", err)
	}
	defer f.Close()
	h, values, err := gridprep.ReadASCIIGrid(f)
	if err != nil {
		return fmt.Errorf("gridprep: checking %s: %w", path, err)
	}
	fingerprint, err := hash.File(os.ExpandEnv(path))
	if err != nil {
		return fmt.Errorf("gridprep: checking grid: %w", err)
	}

	fmt.Fprintf(w, "%s: %d×%d grid, lower-left cell at (%d, %d), cellsize %g, NODATA_value %d\n",
		path, h.NRows, h.NCols, h.XLLCorner, h.YLLCorner, h.CellSize, h.NoData)
	summarize(values, h.NoData).write(w)
	fmt.Fprintf(w, "fingerprint: %s\n", fingerprint)
	return nil
}

func sortedValues(m map[int]int) []int {
	o := make([]int, 0, len(m))
	for v := range m {
		o = append(o, v)
	}
	sort.Ints(o)
	return o
}

// summary describes the contents of a grid.
type summary struct {
	Cells, NoData int

	// Values holds the number of cells with each value other than NoData.
	Values map[int]int
}

func summarize(values [][]int, noData int) summary {
	s := summary{Values: make(map[int]int)}
	for _, row := range values {
		for _, v := range row {
			s.Cells++
			if v == noData {
				s.NoData++
				continue
			}
			s.Values[v]++
		}
	}
	return s
}

func (s summary) write(w io.Writer) {
	fmt.Fprintf(w, "cells: %d\nnodata cells: %d\n", s.Cells, s.NoData)
	for _, v := range sortedValues(s.Values) {
		fmt.Fprintf(w, "value %d: %d cells\n", v, s.Values[v])
	}
}
