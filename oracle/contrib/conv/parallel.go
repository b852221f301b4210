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

package conv

import (
	"golang.org/x/sys/cpu"

	"github.com/ajroetker/macoracle/oracle"
	"github.com/ajroetker/macoracle/oracle/contrib/workerpool"
)

// workerStats are per-worker counters, padded so that workers updating
// neighbouring slots do not share a cache line.
type workerStats struct {
	_     cpu.CacheLinePad
	cells int64
	macs  int64
}

// ConvolveParallel is Convolve with output rows distributed over pool.
// A nil pool runs serially.
//
// The result is identical to Convolve for the same inputs and options,
// including which overflow is reported and which cells are left zero under
// AbortOnOverflow. Stats count the work actually done, which under
// AbortOnOverflow may include rows computed past the failing one.
func ConvolveParallel(pool *workerpool.Pool, x, w *Matrix[int64], bias int64, width oracle.BitWidth, opts ...Option) (*Matrix[oracle.Wide], error) {
	outR, outC, err := validate(x, w, width)
	if err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	y := NewMatrix[oracle.Wide](outR, outC)

	numWorkers := 1
	if pool != nil {
		numWorkers = pool.NumWorkers()
	}
	stats := make([]workerStats, numWorkers)
	rowErrs := make([]oracle.OverflowErrors, outR)

	pool.ParallelForUntil(outR, func(r, worker int) bool {
		st := &stats[worker]
		for c := range outC {
			sum, n, ovf := cell(x, w, bias, r, c, width, o)
			st.macs += int64(n)
			if ovf != nil {
				rowErrs[r] = append(rowErrs[r], ovf)
				if o.policy == AbortOnOverflow {
					return false
				}
			}
			y.Set(r, c, sum)
			st.cells++
		}
		return true
	})

	if o.stats != nil {
		for _, st := range stats {
			o.stats.Cells += st.cells
			o.stats.MACs += st.macs
		}
	}

	var overflows oracle.OverflowErrors
	for r, errs := range rowErrs {
		if len(errs) == 0 {
			continue
		}
		if o.policy == AbortOnOverflow {
			// Rows are handed out in order, so every row before r finished.
			// Rows after r may have been computed; the serial model never
			// reaches them.
			clear(y.Data()[(r+1)*outC:])
			return y, errs[0]
		}
		overflows = append(overflows, errs...)
	}
	if len(overflows) > 0 {
		return y, overflows
	}
	return y, nil
}

// BatchResult is the outcome of one task of ConvolveBatch.
type BatchResult struct {
	Y   *Matrix[oracle.Wide]
	Err error
}

// ConvolveBatch runs every task serially, spreading the tasks over pool in
// contiguous chunks. results[i] is exactly what tasks[i].Convolve(opts...)
// returns. A nil pool runs the tasks one after another.
func ConvolveBatch(pool *workerpool.Pool, tasks []Task, opts ...Option) []BatchResult {
	o := buildOptions(opts)
	results := make([]BatchResult, len(tasks))
	stats := make([]Stats, len(tasks))
	pool.ParallelFor(len(tasks), func(start, end int) {
		for i := start; i < end; i++ {
			t := tasks[i]
			outR, outC, err := validate(t.X, t.W, t.Width)
			if err != nil {
				results[i].Err = err
				continue
			}
			to := o
			to.stats = &stats[i]
			y := NewMatrix[oracle.Wide](outR, outC)
			results[i] = BatchResult{Y: y, Err: convolveInto(t.X, t.W, t.Bias, t.Width, y, to)}
		}
	})
	if o.stats != nil {
		for _, st := range stats {
			o.stats.Cells += st.Cells
			o.stats.MACs += st.MACs
		}
	}
	return results
}
