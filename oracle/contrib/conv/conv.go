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

package conv

import (
	"fmt"

	"github.com/ajroetker/macoracle/oracle"
)

// Policy selects what a convolution does after an overflow.
type Policy int

const (
	// AbortOnOverflow stops the whole convolution at the first overflow.
	AbortOnOverflow Policy = iota

	// ContinueOnOverflow finishes every cell, storing the exact wide sum of
	// overflowing cells, and reports all overflows together.
	ContinueOnOverflow
)

func (p Policy) String() string {
	switch p {
	case AbortOnOverflow:
		return "abort"
	case ContinueOnOverflow:
		return "continue"
	default:
		return "unknown"
	}
}

// Stats counts the work done by a convolution call.
type Stats struct {
	Cells int64 `json:"cells"` // output cells written
	MACs  int64 `json:"macs"`  // multiply-accumulate steps performed
}

// Option configures a convolution call.
type Option func(*options)

type options struct {
	checker oracle.Checker
	policy  Policy
	stats   *Stats
}

// WithPolicy sets the overflow policy. Defaults to AbortOnOverflow.
func WithPolicy(p Policy) Option {
	return func(o *options) { o.policy = p }
}

// WithChecker sets the overflow checker. Defaults to oracle.DefaultChecker().
func WithChecker(c oracle.Checker) Option {
	return func(o *options) { o.checker = c }
}

// WithStats makes the call add its work counters to s.
func WithStats(s *Stats) Option {
	return func(o *options) { o.stats = s }
}

func buildOptions(opts []Option) options {
	o := options{checker: oracle.DefaultChecker()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Task bundles the inputs of one convolution.
type Task struct {
	X     *Matrix[int64]
	W     *Matrix[int64]
	Bias  int64
	Width oracle.BitWidth
}

// OutputShape returns the dimensions of Y.
func (t Task) OutputShape() (rows, cols int) {
	return t.X.Rows() - t.W.Rows() + 1, t.X.Cols() - t.W.Cols() + 1
}

// Convolve runs the task serially.
func (t Task) Convolve(opts ...Option) (*Matrix[oracle.Wide], error) {
	return Convolve(t.X, t.W, t.Bias, t.Width, opts...)
}

// Convolve computes the valid 2D convolution of x with the square kernel w,
// seeded with bias, checking every partial sum against width.
//
// The returned matrix is always non-nil when the shapes are valid. On an
// overflow under AbortOnOverflow it holds the cells computed before the
// failing one and zeros elsewhere, and the error is an
// *oracle.OverflowError. Under ContinueOnOverflow every cell is filled and
// the error is an oracle.OverflowErrors.
func Convolve(x, w *Matrix[int64], bias int64, width oracle.BitWidth, opts ...Option) (*Matrix[oracle.Wide], error) {
	outR, outC, err := validate(x, w, width)
	if err != nil {
		return nil, err
	}
	y := NewMatrix[oracle.Wide](outR, outC)
	return y, convolveInto(x, w, bias, width, y, buildOptions(opts))
}

// ConvolveFlat is Convolve over row-major slices: x is r*c, w is k*k and y
// receives the (r-k+1)*(c-k+1) outputs in place. On an abort the cells of y
// from the failing one onwards keep whatever they held before the call.
//
// It panics if any slice is shorter than its dimensions require.
func ConvolveFlat(x, w []int64, bias int64, r, c, k int, width oracle.BitWidth, y []oracle.Wide, opts ...Option) error {
	if r < 0 || c < 0 || k < 0 {
		return fmt.Errorf("conv: %w: negative dimension r=%d c=%d k=%d", oracle.ErrInvalidShape, r, c, k)
	}
	if len(x) < r*c {
		panic("conv: x slice too short")
	}
	if len(w) < k*k {
		panic("conv: w slice too short")
	}
	xm := &Matrix[int64]{data: x[:r*c], rows: r, cols: c}
	wm := &Matrix[int64]{data: w[:k*k], rows: k, cols: k}
	outR, outC, err := validate(xm, wm, width)
	if err != nil {
		return err
	}
	if len(y) < outR*outC {
		panic("conv: y slice too short")
	}
	ym := &Matrix[oracle.Wide]{data: y[:outR*outC], rows: outR, cols: outC}
	return convolveInto(xm, wm, bias, width, ym, buildOptions(opts))
}

func validate(x, w *Matrix[int64], width oracle.BitWidth) (outR, outC int, err error) {
	if err := width.Validate(); err != nil {
		return 0, 0, fmt.Errorf("conv: %w", err)
	}
	k := w.Rows()
	switch {
	case k < 1 || w.Cols() != k:
		return 0, 0, fmt.Errorf("conv: %w: kernel must be square and non-empty, got %dx%d", oracle.ErrInvalidShape, w.Rows(), w.Cols())
	case x.Rows() < k || x.Cols() < k:
		return 0, 0, fmt.Errorf("conv: %w: %dx%d kernel does not fit %dx%d input", oracle.ErrInvalidShape, k, k, x.Rows(), x.Cols())
	}
	return x.Rows() - k + 1, x.Cols() - k + 1, nil
}

func convolveInto(x, w *Matrix[int64], bias int64, width oracle.BitWidth, y *Matrix[oracle.Wide], o options) error {
	var overflows oracle.OverflowErrors
	var cells, macs int64
	defer func() {
		if o.stats != nil {
			o.stats.Cells += cells
			o.stats.MACs += macs
		}
	}()

	for r := range y.Rows() {
		for c := range y.Cols() {
			sum, n, ovf := cell(x, w, bias, r, c, width, o)
			macs += int64(n)
			if ovf != nil {
				if o.policy == AbortOnOverflow {
					return ovf
				}
				overflows = append(overflows, ovf)
			}
			y.Set(r, c, sum)
			cells++
		}
	}
	if len(overflows) > 0 {
		return overflows
	}
	return nil
}

// cell accumulates output (r, c). It returns the sum, the number of MAC
// steps performed and the first overflow. Under AbortOnOverflow it returns
// as soon as the overflow happens.
func cell(x, w *Matrix[int64], bias int64, r, c int, width oracle.BitWidth, o options) (oracle.Wide, int, *oracle.OverflowError) {
	k := w.Rows()
	sum := oracle.FromInt64(bias)
	var first *oracle.OverflowError
	n := 0
	for kr := range k {
		xrow := x.Row(r + kr)[c : c+k]
		wrow := w.Row(kr)
		for kc := range k {
			a, b := xrow[kc], wrow[kc]
			term := oracle.MulInt64(a, b)
			old := sum
			var overflow bool
			sum, overflow = o.checker.Accumulate(old, term, width)
			n++
			if !overflow || first != nil {
				continue
			}
			first = &oracle.OverflowError{
				Op:        "conv",
				Width:     width,
				A:         a,
				B:         b,
				OldSum:    old,
				Term:      term,
				NewSum:    sum,
				Row:       r,
				Col:       c,
				KernelRow: kr,
				KernelCol: kc,
			}
			if o.policy == AbortOnOverflow {
				return sum, n, first
			}
		}
	}
	return sum, n, first
}
