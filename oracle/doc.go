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

// Package oracle provides the arithmetic primitives of a golden model for
// multiply-accumulate hardware: signed bit widths, a wide two's-complement
// intermediate that never overflows while the hardware's result might, and
// the overflow checker that decides whether a running sum still fits the
// configured output width.
//
// The higher-level models live in subpackages under contrib:
//
//   - mac: pipelined and unpipelined MAC cores, stepped once per clock cycle
//   - conv: 2D convolution oracle over row-major matrices
//   - vectors: JSON test-vector files consumed by cmd/macoracle
//
// # Widths
//
// A BitWidth is the signed output width of the design under test, 1 to 64
// bits. Its representable range is [-2^(W-1), 2^(W-1)-1]:
//
//	w := oracle.BitWidth(8)
//	w.Min() // -128
//	w.Max() // 127
//
// # Overflow
//
// All sums are computed in Wide (256 bits), so the addition itself cannot
// overflow before the check runs. By default every width, including 64, is
// checked by range comparison. SignFlip64 reproduces the sign-change
// heuristic used by reference models that only have 64-bit integers:
//
//	c := oracle.Checker{Mode: oracle.SignFlip64}
//	sum, overflow := c.Accumulate(old, term, 64)
//
// The MACORACLE_SIGNFLIP64 environment variable selects SignFlip64 as the
// default mode, see DefaultChecker.
package oracle
