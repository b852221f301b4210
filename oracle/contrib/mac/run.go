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

// Result is the expected output of one cycle.
type Result struct {
	Cycle    uint64
	Value    oracle.Wide
	Overflow *oracle.OverflowError // nil unless this cycle overflowed
}

// Replay steps core once per element of cycles, in order, and calls fn with
// the index of each simulated cycle, its expected output and the error Step
// returned. It stops early when fn returns false.
func Replay(core Core, cycles []Inputs, fn func(cycle uint64, res oracle.Wide, err error) bool) {
	for _, in := range cycles {
		cycle := core.Cycle()
		v, err := core.Step(in)
		if !fn(cycle, v, err) {
			return
		}
	}
}

// Run steps core once per element of cycles and returns the expected
// output of every cycle. Overflows do not stop the run; if any occurred the
// returned error is an oracle.OverflowErrors listing them in cycle order.
func Run(core Core, cycles []Inputs) ([]Result, error) {
	results := make([]Result, 0, len(cycles))
	var overflows oracle.OverflowErrors
	var fatal error
	Replay(core, cycles, func(cycle uint64, v oracle.Wide, err error) bool {
		r := Result{Cycle: cycle, Value: v}
		if err != nil {
			ovf, ok := err.(*oracle.OverflowError)
			if !ok {
				fatal = err
				return false
			}
			r.Overflow = ovf
			overflows = append(overflows, ovf)
		}
		results = append(results, r)
		return true
	})
	if fatal != nil {
		return results, fatal
	}
	if len(overflows) > 0 {
		return results, overflows
	}
	return results, nil
}
