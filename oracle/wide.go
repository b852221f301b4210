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
	"bytes"
	"fmt"

	"github.com/holiman/uint256"
)

// Wide is a signed 256-bit two's-complement integer.
//
// It is the intermediate type for every product and running sum in the
// oracle. A product of two 64-bit operands needs at most 127 bits, so a
// Wide accumulator can absorb 2^128 such products before the intermediate
// itself would wrap. The zero value is 0.
type Wide struct {
	v uint256.Int
}

// FromInt64 sign-extends x into a Wide.
func FromInt64(x int64) Wide {
	ext := uint64(x >> 63)
	return Wide{v: uint256.Int{uint64(x), ext, ext, ext}}
}

// MulInt64 returns the exact product a*b.
func MulInt64(a, b int64) Wide {
	return FromInt64(a).Mul(FromInt64(b))
}

// Add returns w + y.
func (w Wide) Add(y Wide) Wide {
	var z Wide
	z.v.Add(&w.v, &y.v)
	return z
}

// Sub returns w - y.
func (w Wide) Sub(y Wide) Wide {
	var z Wide
	z.v.Sub(&w.v, &y.v)
	return z
}

// Mul returns w * y. Multiplication modulo 2^256 is the same for signed and
// unsigned operands, so no sign handling is needed.
func (w Wide) Mul(y Wide) Wide {
	var z Wide
	z.v.Mul(&w.v, &y.v)
	return z
}

// Neg returns -w.
func (w Wide) Neg() Wide {
	var z Wide
	z.v.Neg(&w.v)
	return z
}

// Sign returns -1, 0 or +1.
func (w Wide) Sign() int {
	return w.v.Sign()
}

// Less reports whether w < y as signed integers.
func (w Wide) Less(y Wide) bool {
	return w.v.Slt(&y.v)
}

// Cmp compares w and y as signed integers and returns -1, 0 or +1.
func (w Wide) Cmp(y Wide) int {
	switch {
	case w.v.Slt(&y.v):
		return -1
	case w.v.Sgt(&y.v):
		return 1
	default:
		return 0
	}
}

// Equal reports whether w == y.
func (w Wide) Equal(y Wide) bool {
	return w.v.Eq(&y.v)
}

// IsInt64 reports whether w is representable as an int64.
func (w Wide) IsInt64() bool {
	ext := uint64(int64(w.v[0]) >> 63)
	return w.v[1] == ext && w.v[2] == ext && w.v[3] == ext
}

// Int64 returns the low 64 bits of w as an int64 and whether that is the
// exact value of w.
func (w Wide) Int64() (int64, bool) {
	return int64(w.v[0]), w.IsInt64()
}

// Truncate returns the low width bits of w, the bit pattern a width-bit
// hardware register would hold.
func (w Wide) Truncate(width BitWidth) uint64 {
	return w.v[0] & width.Mask()
}

// Wrap reduces w to width bits and sign-extends the result back, which is
// the value a width-bit two's-complement register would read as.
func (w Wide) Wrap(width BitWidth) Wide {
	return FromInt64(SignExtend(w.Truncate(width), width))
}

// MatchesBits reports whether the hardware's raw width-bit output equals the
// low width bits of w.
func (w Wide) MatchesBits(raw uint64, width BitWidth) bool {
	return w.Truncate(width) == raw&width.Mask()
}

// String returns the signed decimal representation of w.
func (w Wide) String() string {
	if w.Sign() < 0 {
		var mag uint256.Int
		mag.Neg(&w.v)
		return "-" + mag.Dec()
	}
	return w.v.Dec()
}

// ParseWide parses a signed decimal string.
func ParseWide(s string) (Wide, error) {
	neg := false
	digits := s
	if len(digits) > 0 && (digits[0] == '-' || digits[0] == '+') {
		neg = digits[0] == '-'
		digits = digits[1:]
	}
	if digits == "" {
		return Wide{}, fmt.Errorf("oracle: invalid integer %q", s)
	}
	var w Wide
	if err := w.v.SetFromDecimal(digits); err != nil {
		return Wide{}, fmt.Errorf("oracle: invalid integer %q: %v", s, err)
	}
	// Magnitudes at or above 2^255 do not fit a signed 256-bit integer;
	// -2^255 is the single exception.
	if w.Sign() < 0 {
		if !neg || w.v != (uint256.Int{0, 0, 0, 1 << 63}) {
			return Wide{}, fmt.Errorf("oracle: integer %q out of 256-bit range", s)
		}
		return w, nil
	}
	if neg {
		w = w.Neg()
	}
	return w, nil
}

// MarshalText implements encoding.TextMarshaler.
func (w Wide) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (w *Wide) UnmarshalText(text []byte) error {
	v, err := ParseWide(string(text))
	if err != nil {
		return err
	}
	*w = v
	return nil
}

// MarshalJSON encodes w as a bare JSON number so that results wider than
// float64 precision survive a round trip through decoders using json.Number.
func (w Wide) MarshalJSON() ([]byte, error) {
	return []byte(w.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string. A JSON
// null leaves w unchanged.
func (w *Wide) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	data = bytes.Trim(data, `"`)
	return w.UnmarshalText(data)
}
