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

package mac

import (
	"errors"
	"math"
	"testing"

	"github.com/ajroetker/macoracle/oracle"
)

func newCores(t *testing.T, width oracle.BitWidth, opts ...Option) map[string]Core {
	t.Helper()
	cores := make(map[string]Core)
	for _, kind := range []Kind{KindUnpipelined, KindPipelined} {
		c, err := New(kind, width, opts...)
		if err != nil {
			t.Fatalf("New(%s, %s): %v", kind, width, err)
		}
		cores[kind.String()] = c
	}
	return cores
}

func mustStep(t *testing.T, c Core, in Inputs) int64 {
	t.Helper()
	got, err := c.Step(in)
	if err != nil {
		t.Fatalf("cycle %d: unexpected error: %v", c.Cycle()-1, err)
	}
	v, ok := got.Int64()
	if !ok {
		t.Fatalf("cycle %d: result %s does not fit int64", c.Cycle()-1, got)
	}
	return v
}

func TestClearLoadsInitVal(t *testing.T) {
	for name, c := range newCores(t, 32) {
		t.Run(name, func(t *testing.T) {
			// Leave a valid product in flight so clear has something to beat.
			mustStep(t, c, Inputs{In0: 7, In1: 9, Valid: true})
			mustStep(t, c, Inputs{In0: 7, In1: 9, Valid: true})

			for _, init := range []int64{0, 1, -1, 12345, -98765} {
				got := mustStep(t, c, Inputs{In0: 3, In1: 5, InitVal: init, Valid: true, Clear: true})
				if got != init {
					t.Errorf("clear(init=%d): result %d", init, got)
				}
				if acc, _ := c.Accum().Int64(); acc != init {
					t.Errorf("clear(init=%d): accumulator %d", init, acc)
				}
			}
		})
	}
}

func TestUnpipelinedAccumulate(t *testing.T) {
	c, err := NewUnpipelined(16)
	if err != nil {
		t.Fatal(err)
	}

	steps := []struct {
		in   Inputs
		want int64
	}{
		{Inputs{InitVal: 10, Clear: true}, 10},
		{Inputs{In0: 3, In1: 4, Valid: true}, 22},
		{Inputs{In0: -5, In1: 2, Valid: true}, 12},
		{Inputs{In0: 100, In1: 100}, 12}, // hold: not valid
		{Inputs{In0: -1, In1: -1, Valid: true}, 13},
		{Inputs{InitVal: -4, In0: 9, In1: 9, Valid: true, Clear: true}, -4},
	}
	for i, s := range steps {
		if got := mustStep(t, c, s.in); got != s.want {
			t.Errorf("cycle %d: got %d, want %d", i, got, s.want)
		}
	}
}

func TestPipelinedAccumulate(t *testing.T) {
	c, err := NewPipelined(16)
	if err != nil {
		t.Fatal(err)
	}

	steps := []struct {
		in   Inputs
		want int64
	}{
		{Inputs{InitVal: 10, Clear: true}, 10},
		{Inputs{In0: 3, In1: 4, Valid: true}, 10},  // product registered
		{Inputs{In0: -5, In1: 2, Valid: true}, 22}, // 3*4 lands
		{Inputs{In0: 100, In1: 100}, 12},           // -5*2 lands, new pair invalid
		{Inputs{In0: -1, In1: -1, Valid: true}, 12},
		{Inputs{}, 13},
		{Inputs{}, 13},
	}
	for i, s := range steps {
		if got := mustStep(t, c, s.in); got != s.want {
			t.Errorf("cycle %d: got %d, want %d", i, got, s.want)
		}
	}
}

func TestPipelinedLagsUnpipelinedByOneCycle(t *testing.T) {
	stream := []Inputs{
		{InitVal: -3, Clear: true},
		{In0: 11, In1: 2, Valid: true},
		{In0: -7, In1: 6, Valid: true},
		{In0: 40, In1: 40},
		{In0: 5, In1: 5, Valid: true},
		{In0: 0, In1: 9, Valid: true},
		{In0: 1234, In1: -3, Valid: true},
		{},
		{In0: 8, In1: 8, Valid: true},
	}

	unp, _ := NewUnpipelined(32)
	pip, _ := NewPipelined(32)

	var want []int64
	for _, in := range stream {
		want = append(want, mustStep(t, unp, in))
	}
	var got []int64
	for _, in := range append(stream, Inputs{}) {
		got = append(got, mustStep(t, pip, in))
	}

	for i := range want {
		if got[i+1] != want[i] {
			t.Errorf("pipelined[%d] = %d, want unpipelined[%d] = %d", i+1, got[i+1], i, want[i])
		}
	}
}

func TestPipelinedClearDiscardsPendingProduct(t *testing.T) {
	c, _ := NewPipelined(16)

	mustStep(t, c, Inputs{In0: 3, In1: 4, Valid: true})
	if !c.Pipe().Valid {
		t.Fatalf("pipeline register should hold a valid product")
	}
	if got := mustStep(t, c, Inputs{InitVal: 10, Clear: true}); got != 10 {
		t.Errorf("clear: got %d, want 10", got)
	}
	if got := mustStep(t, c, Inputs{}); got != 10 {
		t.Errorf("after clear: got %d, want 10 (pending 3*4 must be dropped)", got)
	}
}

func TestPipelineRegisterWrittenEveryCycle(t *testing.T) {
	c, _ := NewPipelined(16)
	mustStep(t, c, Inputs{In0: 6, In1: 7, Clear: true})
	pipe := c.Pipe()
	if pipe.Valid {
		t.Errorf("pipe.Valid = true, want false")
	}
	if !pipe.Product.Equal(oracle.FromInt64(42)) {
		t.Errorf("pipe.Product = %s, want 42", pipe.Product)
	}
}

func TestHoldDoesNotDrift(t *testing.T) {
	for name, c := range newCores(t, 24) {
		t.Run(name, func(t *testing.T) {
			mustStep(t, c, Inputs{InitVal: 77, Clear: true})
			mustStep(t, c, Inputs{In0: 5, In1: 5, Valid: true})
			mustStep(t, c, Inputs{})
			prev := mustStep(t, c, Inputs{})
			for i := range 10 {
				got := mustStep(t, c, Inputs{In0: int64(i), In1: 1000})
				if got != prev {
					t.Fatalf("hold cycle %d: got %d, want %d", i, got, prev)
				}
			}
			if prev != 102 {
				t.Errorf("held value = %d, want 102", prev)
			}
		})
	}
}

func TestOverflowAtCrossingStep(t *testing.T) {
	tests := []struct {
		kind      Kind
		wantCycle uint64
	}{
		{KindUnpipelined, 6},
		{KindPipelined, 7},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			c, err := New(tt.kind, 8)
			if err != nil {
				t.Fatal(err)
			}
			// 20 per cycle: 120 fits in 8 bits, 140 does not.
			var ovf *oracle.OverflowError
			for range 10 {
				got, err := c.Step(Inputs{In0: 20, In1: 1, Valid: true})
				if err == nil {
					continue
				}
				if !errors.As(err, &ovf) {
					t.Fatalf("unexpected error type %T", err)
				}
				if v, _ := got.Int64(); v != 140 {
					t.Errorf("result at overflow = %d, want 140", v)
				}
				break
			}
			if ovf == nil {
				t.Fatalf("no overflow reported")
			}
			if ovf.Cycle != tt.wantCycle {
				t.Errorf("overflow at cycle %d, want %d", ovf.Cycle, tt.wantCycle)
			}
			if ovf.A != 20 || ovf.B != 1 || ovf.Op != "mac" {
				t.Errorf("operands = %d,%d op=%s", ovf.A, ovf.B, ovf.Op)
			}
			if !ovf.OldSum.Equal(oracle.FromInt64(120)) || !ovf.NewSum.Equal(oracle.FromInt64(140)) {
				t.Errorf("old=%s new=%s, want 120 and 140", ovf.OldSum, ovf.NewSum)
			}
		})
	}
}

func TestOverflowBoundary(t *testing.T) {
	for _, w := range []oracle.BitWidth{4, 16, 33} {
		for name, c := range newCores(t, w) {
			// max-6 + 2*3 is exactly max.
			mustStep(t, c, Inputs{InitVal: w.MaxInt64() - 6, Clear: true})
			if _, err := c.Step(Inputs{In0: 2, In1: 3, Valid: true}); err != nil {
				t.Errorf("%s %s: reaching max: %v", name, w, err)
			}
			_, err1 := c.Step(Inputs{In0: 1, In1: 1, Valid: true})
			_, err2 := c.Step(Inputs{})
			if err1 == nil && err2 == nil {
				t.Errorf("%s %s: max+1 not reported", name, w)
			}

			// min+1 - 1 is exactly min, one more is not.
			mustStep(t, c, Inputs{InitVal: w.MinInt64() + 1, Clear: true})
			_, err1 = c.Step(Inputs{In0: -1, In1: 1, Valid: true})
			_, err2 = c.Step(Inputs{In0: 1, In1: -1, Valid: true})
			if err1 != nil {
				t.Errorf("%s %s: reaching min: %v", name, w, err1)
			}
			_, err3 := c.Step(Inputs{})
			if err2 == nil && err3 == nil {
				t.Errorf("%s %s: min-1 not reported", name, w)
			}
		}
	}
}

func TestOverflowIsNotFatal(t *testing.T) {
	c, _ := NewUnpipelined(8)
	mustStep(t, c, Inputs{InitVal: 127, Clear: true})
	got, err := c.Step(Inputs{In0: 1, In1: 1, Valid: true})
	if !errors.Is(err, oracle.ErrOverflow) {
		t.Fatalf("expected overflow, got %v", err)
	}
	if v, _ := got.Int64(); v != 128 {
		t.Errorf("result = %d, want 128", v)
	}
	// The core keeps accumulating from the out-of-range value.
	if _, err := c.Step(Inputs{In0: -10, In1: 1, Valid: true}); err != nil {
		t.Errorf("back in range: unexpected error %v", err)
	}
	if v, _ := c.Accum().Int64(); v != 118 {
		t.Errorf("accumulator = %d, want 118", v)
	}
}

func TestOverflowHook(t *testing.T) {
	var seen []*oracle.OverflowError
	c, _ := NewPipelined(8, WithOverflowHook(func(e *oracle.OverflowError) {
		seen = append(seen, e)
	}))
	mustStep(t, c, Inputs{InitVal: 100, Clear: true})
	mustStep(t, c, Inputs{In0: 10, In1: 10, Valid: true})
	_, err := c.Step(Inputs{})
	if err == nil {
		t.Fatalf("expected overflow")
	}
	if len(seen) != 1 || seen[0] != err {
		t.Errorf("hook saw %v, want exactly the returned error", seen)
	}
}

func TestWidth64(t *testing.T) {
	tests := []struct {
		mode    oracle.OverflowMode
		wantV   string
		wantOvf bool
	}{
		{oracle.RangeCheck, "9223372036854775808", true},
		{oracle.SignFlip64, "-9223372036854775808", true},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			c, _ := NewUnpipelined(64, WithChecker(oracle.Checker{Mode: tt.mode}))
			mustStep(t, c, Inputs{InitVal: math.MaxInt64, Clear: true})
			got, err := c.Step(Inputs{In0: 1, In1: 1, Valid: true})
			if (err != nil) != tt.wantOvf {
				t.Errorf("overflow = %v, want %v", err != nil, tt.wantOvf)
			}
			if got.String() != tt.wantV {
				t.Errorf("result = %s, want %s", got, tt.wantV)
			}
		})
	}
}

func TestWideProductDoesNotWrap(t *testing.T) {
	c, _ := NewUnpipelined(64, WithChecker(oracle.Checker{Mode: oracle.RangeCheck}))
	got, err := c.Step(Inputs{In0: math.MinInt64, In1: math.MinInt64, Valid: true})
	if !errors.Is(err, oracle.ErrOverflow) {
		t.Errorf("2^126 at 64 bits: expected overflow, got %v", err)
	}
	if got.String() != "85070591730234615865843651857942052864" {
		t.Errorf("result = %s, want 2^126", got)
	}
}

func TestSignFlip64WideProduct(t *testing.T) {
	for name, c := range newCores(t, 64, WithChecker(oracle.Checker{Mode: oracle.SignFlip64})) {
		var errs []error
		for _, in := range []Inputs{
			{In0: 1 << 32, In1: 1 << 32, Valid: true}, // 2^64
			{In0: 3 << 35, In1: 1 << 35, Valid: true}, // 3*2^70
			{},
		} {
			if _, err := c.Step(in); err != nil {
				errs = append(errs, err)
			}
		}
		if len(errs) != 2 {
			t.Errorf("%s: got %d overflows, want 2: %v", name, len(errs), errs)
			continue
		}
		for _, err := range errs {
			if !errors.Is(err, oracle.ErrOverflow) {
				t.Errorf("%s: got %v, want ErrOverflow", name, err)
			}
		}
	}
}

func TestReset(t *testing.T) {
	for name, c := range newCores(t, 16) {
		mustStep(t, c, Inputs{InitVal: 5, Clear: true})
		mustStep(t, c, Inputs{In0: 2, In1: 2, Valid: true})
		c.Reset()
		if c.Cycle() != 0 || c.Accum().Sign() != 0 {
			t.Errorf("%s: Reset left cycle=%d accum=%s", name, c.Cycle(), c.Accum())
		}
		// A pipelined core must not carry the pre-reset product.
		if got := mustStep(t, c, Inputs{}); got != 0 {
			t.Errorf("%s: first cycle after Reset = %d, want 0", name, got)
		}
	}
}

func TestInvalidWidth(t *testing.T) {
	for _, kind := range []Kind{KindUnpipelined, KindPipelined} {
		if _, err := New(kind, 0); !errors.Is(err, oracle.ErrInvalidWidth) {
			t.Errorf("%s width 0: got %v", kind, err)
		}
		if _, err := New(kind, 65); !errors.Is(err, oracle.ErrInvalidWidth) {
			t.Errorf("%s width 65: got %v", kind, err)
		}
	}
	if _, err := New(Kind(9), 8); err == nil {
		t.Errorf("unknown kind: expected error")
	}
}
