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
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ajroetker/macoracle/oracle"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	overflowMode   string
	jsonOut        bool
	failOnOverflow bool
}

func newRootCmd() *cobra.Command {
	var g globalFlags
	root := &cobra.Command{
		Use:           "macoracle",
		Short:         "Golden model for MAC and 2D convolution hardware",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&g.overflowMode, "overflow-mode", "", `overflow detection at 64 bits: "range" or "signflip64" (default from file or MACORACLE_SIGNFLIP64)`)
	pf.BoolVar(&g.jsonOut, "json", false, "write results as JSON")
	pf.BoolVar(&g.failOnOverflow, "fail-on-overflow", false, "exit non-zero if any overflow was detected")

	root.AddCommand(newMACCmd(&g), newConvCmd(&g), newVersionCmd())
	return root
}

// checker returns the overflow checker requested on the command line, or
// fallback when the flag is unset.
func (g *globalFlags) checker(fallback oracle.Checker) (oracle.Checker, error) {
	if g.overflowMode == "" {
		return fallback, nil
	}
	m, ok := oracle.ParseOverflowMode(g.overflowMode)
	if !ok {
		return oracle.Checker{}, errors.Errorf("unknown --overflow-mode %q", g.overflowMode)
	}
	return oracle.Checker{Mode: m}, nil
}

// openInput opens the vector file named by args, or stdin for none or "-".
func openInput(cmd *cobra.Command, args []string) (io.ReadCloser, string, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(cmd.InOrStdin()), "<stdin>", nil
	}
	fd, err := os.Open(args[0])
	if err != nil {
		return nil, "", errors.Wrap(err, "opening vector file")
	}
	return fd, args[0], nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and default overflow mode",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			version := "(devel)"
			if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
				version = info.Main.Version
			}
			fmt.Fprintf(cmd.OutOrStdout(), "macoracle %s, default overflow mode %s\n", version, oracle.DefaultChecker().Mode)
		},
	}
}
