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
	"bufio"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Header holds the six header fields of a SHETRAN ASCII grid.
type Header struct {
	NCols, NRows int

	// XLLCorner and YLLCorner are the coordinates of the center of the
	// lower-left cell, truncated to integers. SHETRAN inputs have always
	// been written this way, even though the labels suggest the corner.
	XLLCorner, YLLCorner int

	CellSize float64
	NoData   int
}

// Header labels, padded so that values start at a fixed offset.
const (
	labelNCols    = "ncols         "
	labelNRows    = "nrows         "
	labelXLL      = "xllcorner     "
	labelYLL      = "yllcorner     "
	labelCellSize = "cellsize      "
	labelNoData   = "NODATA_value  "
)

// NewHeader returns the header describing g.
func NewHeader(g *Grid, cellSize float64, noData int) Header {
	return Header{
		NCols:     g.NCols(),
		NRows:     g.NRows(),
		XLLCorner: int(g.Xs[0]),
		YLLCorner: int(g.Ys[len(g.Ys)-1]),
		CellSize:  cellSize,
		NoData:    noData,
	}
}

func (h Header) check(values [][]int) error {
	if len(values) != h.NRows {
		return fmt.Errorf("gridprep: header has nrows=%d but the grid has %d rows", h.NRows, len(values))
	}
	for i, row := range values {
		if len(row) != h.NCols {
			return fmt.Errorf("gridprep: header has ncols=%d but grid row %d has %d values", h.NCols, i, len(row))
		}
	}
	if !(h.CellSize > 0) {
		return fmt.Errorf("gridprep: cellsize is %g but must be > 0", h.CellSize)
	}
	return nil
}

// EncodeASCIIGrid writes h followed by values to w. Values are written one
// grid row per line, separated by single spaces.
func EncodeASCIIGrid(w io.Writer, values [][]int, h Header) error {
	if err := h.check(values); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s%d\n", labelNCols, h.NCols)
	fmt.Fprintf(bw, "%s%d\n", labelNRows, h.NRows)
	fmt.Fprintf(bw, "%s%d\n", labelXLL, h.XLLCorner)
	fmt.Fprintf(bw, "%s%d\n", labelYLL, h.YLLCorner)
	fmt.Fprintf(bw, "%s%s\n", labelCellSize, strconv.FormatFloat(h.CellSize, 'f', -1, 64))
	fmt.Fprintf(bw, "%s%d\n", labelNoData, h.NoData)

	var buf []byte
	for _, row := range values {
		buf = buf[:0]
		for j, v := range row {
			if j > 0 {
				buf = append(buf, ' ')
			}
			buf = strconv.AppendInt(buf, int64(v), 10)
		}
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteASCIIGrid writes h and values to the file at path, replacing any
// existing file. The grid is written to a temporary file in the same
// directory, which is renamed to path only once it is complete, so
// readers never see a partial file.
func WriteASCIIGrid(path string, values [][]int, h Header) (err error) {
	if err := h.check(values); err != nil {
		return err
	}
	f, err := ioutil.TempFile(filepath.Dir(path), "."+filepath.Base(path)+".")
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmp)
		}
	}()

	if err = EncodeASCIIGrid(f, values, h); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err = f.Chmod(0644); err != nil {
		return &IOError{Op: "chmod", Path: path, Err: err}
	}
	if err = f.Sync(); err != nil {
		return &IOError{Op: "sync", Path: path, Err: err}
	}
	if err = f.Close(); err != nil {
		return &IOError{Op: "close", Path: path, Err: err}
	}
	if err = os.Rename(tmp, path); err != nil {
		return &IOError{Op: "rename", Path: path, Err: err}
	}
	return nil
}

// ReadASCIIGrid parses a SHETRAN ASCII grid. Header labels are matched
// case-insensitively and may be followed by any amount of whitespace.
func ReadASCIIGrid(r io.Reader) (Header, [][]int, error) {
	var h Header
	const (
		ncols = 1 << iota
		nrows
		xll
		yll
		cellsize
		nodata
		all = ncols | nrows | xll | yll | cellsize | nodata
	)
	keys := map[string]int{
		"ncols": ncols, "nrows": nrows, "xllcorner": xll,
		"yllcorner": yll, "cellsize": cellsize, "nodata_value": nodata,
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 64*1024*1024)
	var seen, line int
	var values [][]int
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if seen != all {
			key, ok := keys[strings.ToLower(fields[0])]
			if !ok || len(fields) != 2 {
				return h, nil, fmt.Errorf("gridprep: line %d: expected a header field, got %q", line, scanner.Text())
			}
			if seen&key != 0 {
				return h, nil, fmt.Errorf("gridprep: line %d: header field %s appears more than once", line, fields[0])
			}
			seen |= key
			var err error
			switch key {
			case cellsize:
				h.CellSize, err = strconv.ParseFloat(fields[1], 64)
			case ncols:
				h.NCols, err = strconv.Atoi(fields[1])
			case nrows:
				h.NRows, err = strconv.Atoi(fields[1])
			case xll:
				h.XLLCorner, err = strconv.Atoi(fields[1])
			case yll:
				h.YLLCorner, err = strconv.Atoi(fields[1])
			case nodata:
				h.NoData, err = strconv.Atoi(fields[1])
			}
			if err != nil {
				return h, nil, fmt.Errorf("gridprep: line %d: %w", line, err)
			}
			if seen == all {
				if h.NRows < 0 || h.NCols < 0 {
					return h, nil, fmt.Errorf("gridprep: negative grid dimensions %d×%d", h.NRows, h.NCols)
				}
				values = make([][]int, 0, h.NRows)
			}
			continue
		}
		if len(values) == h.NRows {
			return h, nil, fmt.Errorf("gridprep: line %d: more than nrows=%d rows of data", line, h.NRows)
		}
		if len(fields) != h.NCols {
			return h, nil, fmt.Errorf("gridprep: line %d: %d values but ncols=%d", line, len(fields), h.NCols)
		}
		row := make([]int, len(fields))
		for i, f := range fields {
			v, err := strconv.Atoi(f)
			if err != nil {
				return h, nil, fmt.Errorf("gridprep: line %d: %w", line, err)
			}
			row[i] = v
		}
		values = append(values, row)
	}
	if err := scanner.Err(); err != nil {
		return h, nil, fmt.Errorf("gridprep: reading grid: %w", err)
	}
	if seen != all {
		return h, nil, fmt.Errorf("gridprep: incomplete header")
	}
	if len(values) != h.NRows {
		return h, nil, fmt.Errorf("gridprep: %d rows of data but nrows=%d", len(values), h.NRows)
	}
	return h, values, nil
}
