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

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/ajroetker/macoracle/oracle/contrib/mac"
	"github.com/ajroetker/macoracle/oracle/contrib/vectors"
)

type macResultJSON struct {
	Cycle    uint64 `json:"cycle"`
	Result   string `json:"result"`
	Bits     string `json:"bits"`
	Overflow string `json:"overflow,omitempty"`
}

func newMACCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "mac [file]",
		Short: "Replay a MAC vector and print the expected output of every cycle",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, name, err := openInput(cmd, args)
			if err != nil {
				return err
			}
			defer in.Close()

			v, err := vectors.ReadMAC(in)
			if err != nil {
				return errors.Wrap(err, name)
			}
			if v.Checker, err = g.checker(v.Checker); err != nil {
				return err
			}

			results, runErr := v.Run()
			if runErr != nil && len(results) < len(v.Cycles) {
				return runErr
			}

			out := cmd.OutOrStdout()
			if g.jsonOut {
				rows := lo.Map(results, func(r mac.Result, _ int) macResultJSON {
					row := macResultJSON{
						Cycle:  r.Cycle,
						Result: r.Value.String(),
						Bits:   fmt.Sprintf("%#x", r.Value.Truncate(v.Width)),
					}
					if r.Overflow != nil {
						row.Overflow = r.Overflow.Error()
					}
					return row
				})
				if err := writeJSON(out, rows); err != nil {
					return err
				}
			} else {
				for _, r := range results {
					fmt.Fprintf(out, "cycle=%d result=%s bits=%#x\n", r.Cycle, r.Value, r.Value.Truncate(v.Width))
				}
			}

			overflows := lo.CountBy(results, func(r mac.Result) bool { return r.Overflow != nil })
			for _, r := range results {
				if r.Overflow != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "ERROR: %v\n", r.Overflow)
				}
			}
			if overflows > 0 && g.failOnOverflow {
				return errors.Errorf("%d of %d cycles overflowed %s output", overflows, len(results), v.Width)
			}
			return nil
		},
	}
}
