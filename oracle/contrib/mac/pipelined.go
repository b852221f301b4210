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

import "github.com/ajroetker/macoracle/oracle"

// PipelineRegister holds the product computed on the previous cycle.
type PipelineRegister struct {
	Product oracle.Wide
	Valid   bool

	// operands of Product, kept for overflow diagnostics
	a, b int64
}

// Pipelined is a MAC with one register stage between the multiplier and the
// accumulator.
type Pipelined struct {
	accumulator
	pipe PipelineRegister
}

var _ Core = (*Pipelined)(nil)

// NewPipelined creates a pipelined core with a zero accumulator and an
// empty pipeline register.
func NewPipelined(width oracle.BitWidth, opts ...Option) (*Pipelined, error) {
	acc, err := newAccumulator(width, opts)
	if err != nil {
		return nil, err
	}
	return &Pipelined{accumulator: acc}, nil
}

// Step applies one cycle in two phases.
//
// First the accumulator is updated from the pipeline register as it was
// before this call: Clear loads InitVal and drops any pending product,
// otherwise a valid registered product is added, otherwise it holds.
//
// Then the register is overwritten with In0*In1 and Valid for the next
// call, whichever branch was taken. The order is what gives the one-cycle
// multiply latency.
func (p *Pipelined) Step(in Inputs) (oracle.Wide, error) {
	cycle := p.tick()

	var err error
	switch {
	case in.Clear:
		p.load(in.InitVal)
	case p.pipe.Valid:
		err = p.add(p.pipe.a, p.pipe.b, p.pipe.Product, cycle)
	}

	p.pipe = PipelineRegister{
		Product: oracle.MulInt64(in.In0, in.In1),
		Valid:   in.Valid,
		a:       in.In0,
		b:       in.In1,
	}
	return p.value, err
}

// Pipe returns the pipeline register that the next Step will consume.
func (p *Pipelined) Pipe() PipelineRegister {
	return p.pipe
}

// Reset zeroes the accumulator, empties the pipeline register and resets
// the cycle counter.
func (p *Pipelined) Reset() {
	p.value = oracle.Wide{}
	p.pipe = PipelineRegister{}
	p.cycle = 0
}
