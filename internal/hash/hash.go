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

// Package hash computes fingerprints of generated grid files and of the
// settings they were built with, so that repeated runs on unchanged inputs
// can be checked for identical output.
package hash

import (
	"fmt"
	stdhash "hash"
	"hash/fnv"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
)

// Writer is an io.Writer that fingerprints everything written to it.
type Writer struct {
	h stdhash.Hash
}

// New returns an empty Writer.
func New() *Writer {
	return &Writer{h: fnv.New128a()}
}

// Write adds p to the fingerprint. It never returns an error.
func (w *Writer) Write(p []byte) (int, error) {
	return w.h.Write(p)
}

// Sum returns the fingerprint of the bytes written so far as a hex string.
func (w *Writer) Sum() string {
	b := w.h.Sum(nil)
	return fmt.Sprintf("%x", b[0:w.h.Size()])
}

// File returns the fingerprint of the contents of the named file.
func File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	w := New()
	if _, err := io.Copy(w, f); err != nil {
		return "", err
	}
	return w.Sum(), nil
}

// Object returns a fingerprint of the value of object. Map keys are
// sorted and pointers are followed, so equal values give equal
// fingerprints.
func Object(object interface{}) string {
	w := New()
	printer := spew.ConfigState{
		Indent:                  " ",
		SortKeys:                true,
		DisableMethods:          true,
		SpewKeys:                true,
		DisablePointerAddresses: true,
		DisableCapacities:       true,
	}
	printer.Fprintf(w, "%#v", object)
	return w.Sum()
}
