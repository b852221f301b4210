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

// Package conv is the golden model of a 2D convolution / MAC array.
//
// For an R×C input X, a K×K kernel W and a scalar bias B, the output Y has
// (R-K+1)×(C-K+1) cells, one per position of the window that fits entirely
// inside X (no padding):
//
//	Y[r][c] = B + Σ_{kr,kc} X[r+kr][c+kc] * W[kr][kc]
//
// Terms are accumulated in row-major kernel order and every partial sum is
// checked against the output width, so an overflow is reported at the exact
// tap where the hardware accumulator would wrap.
//
// # Overflow policy
//
// By default the first overflow aborts the whole convolution: cells computed
// before it keep their values, the rest are left untouched, and the error
// identifies the failing position. WithPolicy(ContinueOnOverflow) instead
// fills every cell and returns all overflows.
//
// # Usage
//
//	x, _ := conv.FromRows([][]int64{{1, 2}, {3, 4}})
//	w, _ := conv.FromRows([][]int64{{1, 0}, {0, 1}})
//	y, err := conv.Convolve(x, w, 1, 8)
//	// y.At(0, 0) == 6
package conv
