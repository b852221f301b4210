// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/ajroetker/macoracle/oracle"
	"github.com/ajroetker/macoracle/oracle/contrib/conv"
	"github.com/ajroetker/macoracle/oracle/contrib/vectors"
	"github.com/ajroetker/macoracle/oracle/contrib/workerpool"
)

type convFlags struct {
	workers int
	policy  string
	stats   bool
}

type convResultJSON struct {
	Rows      int         `json:"rows"`
	Cols      int         `json:"cols"`
	Y         [][]string  `json:"Y"`
	Overflows []string    `json:"overflows,omitempty"`
	Stats     *conv.Stats `json:"stats,omitempty"`
}

func newConvCmd(g *globalFlags) *cobra.Command {
	var f convFlags
	cmd := &cobra.Command{
		Use:   "conv [file]",
		Short: "Compute the expected output matrix of a convolution vector",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, name, err := openInput(cmd, args)
			if err != nil {
				return err
			}
			defer in.Close()

			v, err := vectors.ReadConv(in)
			if err != nil {
				return errors.Wrap(err, name)
			}
			if v.Checker, err = g.checker(v.Checker); err != nil {
				return err
			}
			switch f.policy {
			case "":
			case "abort":
				v.Policy = conv.AbortOnOverflow
			case "continue":
				v.Policy = conv.ContinueOnOverflow
			default:
				return errors.Errorf("unknown --policy %q", f.policy)
			}

			var stats conv.Stats
			opts := v.Options(conv.WithStats(&stats))
			var y *conv.Matrix[oracle.Wide]
			var convErr error
			if f.workers > 0 {
				pool := workerpool.New(f.workers)
				defer pool.Close()
				y, convErr = conv.ConvolveParallel(pool, v.Task.X, v.Task.W, v.Task.Bias, v.Task.Width, opts...)
			} else {
				y, convErr = v.Task.Convolve(opts...)
			}
			if y == nil {
				return convErr
			}

			var overflows oracle.OverflowErrors
			var single *oracle.OverflowError
			switch {
			case errors.As(convErr, &overflows):
			case errors.As(convErr, &single):
				overflows = oracle.OverflowErrors{single}
			case convErr != nil:
				return convErr
			}

			rows := lo.Map(y.ToRows(), func(row []oracle.Wide, _ int) []string {
				return lo.Map(row, func(x oracle.Wide, _ int) string { return x.String() })
			})
			out := cmd.OutOrStdout()
			if g.jsonOut {
				res := convResultJSON{
					Rows: y.Rows(),
					Cols: y.Cols(),
					Y:    rows,
					Overflows: lo.Map(overflows, func(e *oracle.OverflowError, _ int) string {
						return e.Error()
					}),
				}
				if f.stats {
					res.Stats = &stats
				}
				if err := writeJSON(out, res); err != nil {
					return err
				}
			} else {
				for _, row := range rows {
					fmt.Fprintln(out, strings.Join(row, " "))
				}
				if f.stats {
					fmt.Fprintf(cmd.ErrOrStderr(), "cells=%d macs=%d\n", stats.Cells, stats.MACs)
				}
			}

			for _, e := range overflows {
				fmt.Fprintf(cmd.ErrOrStderr(), "ERROR: %v\n", e)
			}
			if single != nil {
				return errors.Wrap(single, "convolution aborted")
			}
			if len(overflows) > 0 && g.failOnOverflow {
				return errors.Errorf("%d output cells overflowed %s output", len(overflows), v.Task.Width)
			}
			return nil
		},
	}
	fl := cmd.Flags()
	fl.IntVar(&f.workers, "workers", 0, "compute output rows on this many workers (0 = serial)")
	fl.StringVar(&f.policy, "policy", "", `overflow policy: "abort" or "continue" (default from file)`)
	fl.BoolVar(&f.stats, "stats", false, "report cells and MAC steps computed")
	return cmd
}
