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
	"context"
	"fmt"
	"time"

	"github.com/shetran/gridprep"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// runProduct builds product p as configured in Cfg.
func runProduct(ctx context.Context, cmd *cobra.Command, p gridprep.Product) error {
	c, err := PipelineConfig(Cfg, p)
	if err != nil {
		return err
	}
	log, logFile, err := openLog(cmd.OutOrStdout(), checkLogFile(Cfg.GetString("LogFile"), c.OutputFile))
	if err != nil {
		return fmt.Errorf("gridprep: creating log file: %w", err)
	}
	defer logFile.Close()

	input, err := inputFile(Cfg, p)
	if err != nil {
		return err
	}
	return Run(ctx, log, p, input, Cfg.GetString(productKey(p)+".Sheet"), TableSchema(Cfg, p, c), c)
}

// Run builds product p from the table in the input file and logs the
// outcome to log.
func Run(ctx context.Context, log logrus.FieldLogger, p gridprep.Product, input, sheet string, s gridprep.TableSchema, c *gridprep.Config) error {
	start := time.Now()
	log.WithFields(logrus.Fields{
		"product": p.String(),
		"input":   input,
		"output":  c.OutputFile,
	}).Info("building grid")

	src, err := gridprep.OpenCellSource(input, sheet, s)
	if err != nil {
		log.WithError(err).Error("opening input")
		return err
	}
	r, err := gridprep.Run(ctx, p, src, c)
	if err != nil {
		log.WithError(err).Error("building grid")
		return err
	}
	logResult(log, r)
	log.WithField("elapsed", time.Since(start).String()).Info("done")
	return nil
}

// logResult logs the resolved ties, spacing problems and summary of r.
func logResult(log logrus.FieldLogger, r *gridprep.Result) {
	for _, t := range r.Ties {
		log.WithFields(logrus.Fields{
			"id":      t.ID,
			"x":       t.X,
			"y":       t.Y,
			"classes": t.Codes,
			"chosen":  t.Chosen,
		}).Warn("land-cover classes tie for the largest pixel count")
	}
	if r.SpacingErr != nil {
		log.WithError(r.SpacingErr).Warn("cell spacing does not match the configured cell size")
	}
	log.WithFields(logrus.Fields{
		"cells":       r.Table.Len(),
		"ncols":       r.Header.NCols,
		"nrows":       r.Header.NRows,
		"xllcorner":   r.Header.XLLCorner,
		"yllcorner":   r.Header.YLLCorner,
		"ties":        len(r.Ties),
		"fingerprint": r.Fingerprint,
		"settings":    r.Settings,
	}).Infof("wrote %s grid", r.Product)
}
