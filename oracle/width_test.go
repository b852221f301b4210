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
	"math"
	"testing"
)

func TestBitWidthRange(t *testing.T) {
	tests := []struct {
		w        BitWidth
		min, max int64
	}{
		{1, -1, 0},
		{2, -2, 1},
		{8, -128, 127},
		{16, -32768, 32767},
		{32, math.MinInt32, math.MaxInt32},
		{63, -1 << 62, 1<<62 - 1},
		{64, math.MinInt64, math.MaxInt64},
	}
	for _, tt := range tests {
		if got := tt.w.MinInt64(); got != tt.min {
			t.Errorf("%s MinInt64: got %d, want %d", tt.w, got, tt.min)
		}
		if got := tt.w.MaxInt64(); got != tt.max {
			t.Errorf("%s MaxInt64: got %d, want %d", tt.w, got, tt.max)
		}
		if !tt.w.Min().Equal(FromInt64(tt.min)) {
			t.Errorf("%s Min: got %s, want %d", tt.w, tt.w.Min(), tt.min)
		}
		if !tt.w.Max().Equal(FromInt64(tt.max)) {
			t.Errorf("%s Max: got %s, want %d", tt.w, tt.w.Max(), tt.max)
		}
	}
}

func TestBitWidthValidate(t *testing.T) {
	for _, w := range []BitWidth{1, 8, 33, 64} {
		if err := w.Validate(); err != nil {
			t.Errorf("%s: unexpected error %v", w, err)
		}
	}
	for _, w := range []BitWidth{0, 65, 255} {
		if err := w.Validate(); !errors.Is(err, ErrInvalidWidth) {
			t.Errorf("width %d: got %v, want ErrInvalidWidth", uint8(w), err)
		}
	}
}

func TestBitWidthMask(t *testing.T) {
	if got := BitWidth(8).Mask(); got != 0xFF {
		t.Errorf("Mask(8) = %#x, want 0xff", got)
	}
	if got := BitWidth(1).Mask(); got != 1 {
		t.Errorf("Mask(1) = %#x, want 0x1", got)
	}
	if got := BitWidth(64).Mask(); got != math.MaxUint64 {
		t.Errorf("Mask(64) = %#x, want all ones", got)
	}
}

func TestBitWidthContains(t *testing.T) {
	w := BitWidth(8)
	for v, want := range map[int64]bool{
		-129: false,
		-128: true,
		0:    true,
		127:  true,
		128:  false,
	} {
		if got := w.Contains(FromInt64(v)); got != want {
			t.Errorf("Contains(%d) = %v, want %v", v, got, want)
		}
	}
}
