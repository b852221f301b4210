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

// Unpipelined is a MAC whose multiply and accumulate happen in the same
// cycle.
type Unpipelined struct {
	accumulator
}

var _ Core = (*Unpipelined)(nil)

// NewUnpipelined creates an unpipelined core with a zero accumulator.
func NewUnpipelined(width oracle.BitWidth, opts ...Option) (*Unpipelined, error) {
	acc, err := newAccumulator(width, opts)
	if err != nil {
		return nil, err
	}
	return &Unpipelined{accumulator: acc}, nil
}

// Step applies one cycle:
//
//   - Clear: the accumulator loads InitVal; In0/In1 are ignored.
//   - Valid: the accumulator adds In0*In1.
//   - otherwise: the accumulator holds.
func (u *Unpipelined) Step(in Inputs) (oracle.Wide, error) {
	cycle := u.tick()
	switch {
	case in.Clear:
		u.load(in.InitVal)
	case in.Valid:
		if err := u.add(in.In0, in.In1, oracle.MulInt64(in.In0, in.In1), cycle); err != nil {
			return u.value, err
		}
	}
	return u.value, nil
}

// Reset zeroes the accumulator and the cycle counter.
func (u *Unpipelined) Reset() {
	u.value = oracle.Wide{}
	u.cycle = 0
}
