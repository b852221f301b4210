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

package oracle

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrOverflow is matched by every *OverflowError via errors.Is.
	ErrOverflow = errors.New("overflow")

	// ErrInvalidWidth is returned for widths outside [1, MaxWidth].
	ErrInvalidWidth = errors.New("invalid bit width")

	// ErrInvalidShape is returned when matrix dimensions are inconsistent.
	ErrInvalidShape = errors.New("invalid shape")
)

// OverflowError describes one multiply-accumulate step whose result does not
// fit the configured output width. It carries enough context to reproduce
// the failing case: the operands, the prior sum and the attempted new sum,
// plus either the MAC cycle or the convolution position.
type OverflowError struct {
	Op    string // "mac" or "conv"
	Width BitWidth

	// A and B are the multiplied operands. For a pipelined MAC these are the
	// operands registered on the previous cycle.
	A, B int64

	OldSum Wide
	Term   Wide
	NewSum Wide

	// Cycle is the 0-based Step index of the MAC core that overflowed.
	Cycle uint64

	// Row, Col locate the convolution output cell, KernelRow, KernelCol the
	// kernel tap being accumulated.
	Row, Col             int
	KernelRow, KernelCol int
}

func (e *OverflowError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: overflow: computed %d * %d + %s = %s, outside [%d, %d] of %s output",
		e.Op, e.A, e.B, e.OldSum, e.NewSum, e.Width.MinInt64(), e.Width.MaxInt64(), e.Width)
	switch e.Op {
	case "conv":
		fmt.Fprintf(&sb, " (row %d, col %d, kernel %d,%d)", e.Row, e.Col, e.KernelRow, e.KernelCol)
	case "mac":
		fmt.Fprintf(&sb, " (cycle %d)", e.Cycle)
	}
	return sb.String()
}

// Is makes errors.Is(err, ErrOverflow) true.
func (e *OverflowError) Is(target error) bool {
	return target == ErrOverflow
}

// OverflowErrors collects the overflows of a computation that kept going
// after the first one.
type OverflowErrors []*OverflowError

func (errs OverflowErrors) Error() string {
	switch len(errs) {
	case 0:
		return "no overflow"
	case 1:
		return errs[0].Error()
	}
	return fmt.Sprintf("%s (and %d more)", errs[0].Error(), len(errs)-1)
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (errs OverflowErrors) Unwrap() []error {
	out := make([]error, len(errs))
	for i, e := range errs {
		out[i] = e
	}
	return out
}
