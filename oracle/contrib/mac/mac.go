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

// Package mac models a multiply-accumulate unit cycle by cycle.
//
// Two variants are provided. Unpipelined multiplies and accumulates in the
// same cycle. Pipelined registers the product for one cycle first, so a
// valid input pair shows up in the accumulator on the following Step.
//
// Each core owns its accumulator; create one core per simulated design and
// call Step exactly once per clock cycle, in cycle order:
//
//	core, _ := mac.NewPipelined(16)
//	for _, in := range cycles {
//	    got, err := core.Step(in)
//	    // compare got.Truncate(16) with the design's output;
//	    // err is a non-nil *oracle.OverflowError if this cycle overflowed
//	}
//
// An overflow does not stop the core: the result is still returned and the
// accumulator keeps the out-of-range value, as the hardware register would
// keep its wrapped one.
package mac

import (
	"fmt"

	"github.com/ajroetker/macoracle/oracle"
)

// Inputs are the signals sampled by a MAC core on one clock edge.
type Inputs struct {
	In0, In1 int64
	InitVal  int64
	Valid    bool // valid_data: In0 and In1 carry a product to accumulate
	Clear    bool // clear_acc: load InitVal, highest priority
}

// Core is a cycle-stepped MAC model.
type Core interface {
	// Step advances one clock cycle and returns the accumulator value
	// visible at the output after that edge. A non-nil error is an
	// *oracle.OverflowError; the returned value is still valid.
	Step(in Inputs) (oracle.Wide, error)

	// Accum returns the current accumulator without advancing.
	Accum() oracle.Wide

	// Reset returns the core to its power-on state.
	Reset()

	Width() oracle.BitWidth

	// Cycle returns the number of Step calls since creation or Reset.
	Cycle() uint64
}

// Kind selects a core variant.
type Kind int

const (
	KindUnpipelined Kind = iota
	KindPipelined
)

func (k Kind) String() string {
	switch k {
	case KindUnpipelined:
		return "unpipelined"
	case KindPipelined:
		return "pipelined"
	default:
		return "unknown"
	}
}

// New creates a core of the given kind.
func New(kind Kind, width oracle.BitWidth, opts ...Option) (Core, error) {
	switch kind {
	case KindUnpipelined:
		return NewUnpipelined(width, opts...)
	case KindPipelined:
		return NewPipelined(width, opts...)
	}
	return nil, fmt.Errorf("mac: unknown core kind %d", kind)
}

// Option configures a core.
type Option func(*config)

type config struct {
	checker oracle.Checker
	hook    func(*oracle.OverflowError)
}

// WithChecker sets the overflow checker. Defaults to oracle.DefaultChecker().
func WithChecker(c oracle.Checker) Option {
	return func(cfg *config) { cfg.checker = c }
}

// WithOverflowHook registers fn to be called with every overflow, in
// addition to it being returned from Step.
func WithOverflowHook(fn func(*oracle.OverflowError)) Option {
	return func(cfg *config) { cfg.hook = fn }
}

// accumulator is the register shared by both core variants.
type accumulator struct {
	width oracle.BitWidth
	cfg   config
	value oracle.Wide
	cycle uint64
}

func newAccumulator(width oracle.BitWidth, opts []Option) (accumulator, error) {
	if err := width.Validate(); err != nil {
		return accumulator{}, fmt.Errorf("mac: %w", err)
	}
	cfg := config{checker: oracle.DefaultChecker()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return accumulator{width: width, cfg: cfg}, nil
}

func (a *accumulator) load(v int64) {
	a.value = oracle.FromInt64(v)
}

// add accumulates product (= x*y) and reports an overflow of this cycle.
func (a *accumulator) add(x, y int64, product oracle.Wide, cycle uint64) error {
	old := a.value
	sum, overflow := a.cfg.checker.Accumulate(old, product, a.width)
	a.value = sum
	if !overflow {
		return nil
	}
	err := &oracle.OverflowError{
		Op:     "mac",
		Width:  a.width,
		A:      x,
		B:      y,
		OldSum: old,
		Term:   product,
		NewSum: sum,
		Cycle:  cycle,
	}
	if a.cfg.hook != nil {
		a.cfg.hook(err)
	}
	return err
}

// tick returns the index of the current cycle and advances the counter.
func (a *accumulator) tick() uint64 {
	c := a.cycle
	a.cycle++
	return c
}

func (a *accumulator) Accum() oracle.Wide     { return a.value }
func (a *accumulator) Width() oracle.BitWidth { return a.width }
func (a *accumulator) Cycle() uint64          { return a.cycle }
