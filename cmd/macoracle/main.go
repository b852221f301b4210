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

// Command macoracle computes expected outputs of MAC and convolution
// hardware from JSON test-vector files.
//
// Usage:
//
//	macoracle mac testdata/mac.json                # one expected value per cycle
//	macoracle conv --workers 8 testdata/conv.json  # expected output matrix
//	macoracle conv --policy continue --json conv.json
//
// Overflow diagnostics are written to stderr. A MAC overflow does not stop
// the run; pass --fail-on-overflow to get a non-zero exit status anyway.
// A convolution overflow under the default "abort" policy always fails.
//
// See package github.com/ajroetker/macoracle/oracle/contrib/vectors for
// the file formats. Setting MACORACLE_SIGNFLIP64=1 selects the 64-bit
// sign-flip overflow heuristic unless a file or --overflow-mode says
// otherwise.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
