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

import "fmt"

// MaxWidth is the widest supported output width.
const MaxWidth BitWidth = 64

// BitWidth is the signed bit-width of a hardware output or operand.
type BitWidth uint8

// Validate returns ErrInvalidWidth unless w is in [1, MaxWidth].
func (w BitWidth) Validate() error {
	if w < 1 || w > MaxWidth {
		return fmt.Errorf("%w: %d (want 1..%d)", ErrInvalidWidth, w, MaxWidth)
	}
	return nil
}

// Min returns -2^(w-1), the most negative value representable in w bits.
func (w BitWidth) Min() Wide {
	return FromInt64(w.MinInt64())
}

// Max returns 2^(w-1)-1, the most positive value representable in w bits.
func (w BitWidth) Max() Wide {
	return FromInt64(w.MaxInt64())
}

// MinInt64 is Min as an int64. w must be valid.
func (w BitWidth) MinInt64() int64 {
	return -1 << (w - 1)
}

// MaxInt64 is Max as an int64. w must be valid.
func (w BitWidth) MaxInt64() int64 {
	return 1<<(w-1) - 1
}

// Mask returns a mask covering the low w bits.
func (w BitWidth) Mask() uint64 {
	if w >= 64 {
		return ^uint64(0)
	}
	return 1<<w - 1
}

// Contains reports whether v lies in [w.Min(), w.Max()].
func (w BitWidth) Contains(v Wide) bool {
	return !v.Less(w.Min()) && !w.Max().Less(v)
}

// String returns e.g. "16-bit".
func (w BitWidth) String() string {
	return fmt.Sprintf("%d-bit", uint8(w))
}
