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

// OverflowMode selects how overflow is detected at the full 64-bit width.
type OverflowMode int

const (
	// RangeCheck compares the exact wide sum against the width's range for
	// every width, 64 included.
	RangeCheck OverflowMode = iota

	// SignFlip64 reproduces a 64-bit-only reference model at width 64: sums
	// wrap at 64 bits and overflow is flagged when two operands of the same
	// sign produce a result of the opposite sign. Widths below 64 still use
	// RangeCheck.
	SignFlip64
)

// String returns a human-readable name for the mode.
func (m OverflowMode) String() string {
	switch m {
	case RangeCheck:
		return "range"
	case SignFlip64:
		return "signflip64"
	default:
		return "unknown"
	}
}

// ParseOverflowMode is the inverse of OverflowMode.String.
func ParseOverflowMode(s string) (OverflowMode, bool) {
	switch s {
	case "range":
		return RangeCheck, true
	case "signflip64":
		return SignFlip64, true
	}
	return RangeCheck, false
}

// Checker decides whether an accumulate step overflowed.
// The zero value uses RangeCheck.
type Checker struct {
	Mode OverflowMode
}

// DefaultChecker returns a Checker honouring MACORACLE_SIGNFLIP64.
func DefaultChecker() Checker {
	if SignFlip64Env() {
		return Checker{Mode: SignFlip64}
	}
	return Checker{}
}

// Overflows reports whether newSum = oldSum + term overflows width w.
// It has no side effects.
func (c Checker) Overflows(oldSum, term, newSum Wide, w BitWidth) bool {
	if c.signFlip(w) {
		o, okOld := oldSum.Int64()
		t, okTerm := term.Int64()
		n, okNew := newSum.Int64()
		return !okOld || !okTerm || !okNew || SignFlipOverflows(o, t, n)
	}
	return !w.Contains(newSum)
}

// Accumulate returns oldSum + term and whether the step overflowed w.
//
// In RangeCheck mode the sum is exact. In SignFlip64 mode at width 64 the
// operands are viewed as int64 and the sum wraps at 64 bits; an operand that
// does not fit int64 (a product wider than 64 bits) is itself an overflow,
// and the sum wraps its low 64 bits.
func (c Checker) Accumulate(oldSum, term Wide, w BitWidth) (Wide, bool) {
	if c.signFlip(w) {
		o, okOld := oldSum.Int64()
		t, okTerm := term.Int64()
		n := o + t
		return FromInt64(n), !okOld || !okTerm || SignFlipOverflows(o, t, n)
	}
	n := oldSum.Add(term)
	return n, !w.Contains(n)
}

func (c Checker) signFlip(w BitWidth) bool {
	return c.Mode == SignFlip64 && w >= MaxWidth
}

// Overflows is Checker.Overflows with RangeCheck.
func Overflows(oldSum, term, newSum Wide, w BitWidth) bool {
	return Checker{}.Overflows(oldSum, term, newSum, w)
}

// SignFlipOverflows reports a two's-complement wrap of sum = old + term:
// two positive addends giving a negative sum, or two negative addends giving
// a positive one.
func SignFlipOverflows(old, term, sum int64) bool {
	return (old > 0 && term > 0 && sum < 0) || (old < 0 && term < 0 && sum > 0)
}
