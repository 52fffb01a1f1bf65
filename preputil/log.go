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
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// newLogger returns a logger writing to w.
func newLogger(w io.Writer) *logrus.Logger {
	log := logrus.New()
	log.Out = w
	log.Level = logrus.InfoLevel
	log.Formatter = &logrus.TextFormatter{
		DisableColors:   true, // The log is copied to a file.
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
		DisableSorting:  true,
	}
	return log
}

// openLog creates logFile and returns a logger writing both to it and
// to w. The returned file must be closed when the run ends.
func openLog(w io.Writer, logFile string) (*logrus.Logger, io.Closer, error) {
	f, err := os.Create(os.ExpandEnv(logFile))
	if err != nil {
		return nil, nil, err
	}
	return newLogger(io.MultiWriter(w, f)), f, nil
}
