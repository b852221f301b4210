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
	"fmt"

	"github.com/ajroetker/macoracle/oracle"
)

// Matrix is a dense row-major 2D array. Element (r, c) lives at index
// r*Cols()+c of Data().
type Matrix[T any] struct {
	data []T
	rows int
	cols int
}

// NewMatrix creates a zeroed rows×cols matrix.
// Non-positive dimensions give an empty matrix.
func NewMatrix[T any](rows, cols int) *Matrix[T] {
	if rows <= 0 || cols <= 0 {
		return &Matrix[T]{}
	}
	return &Matrix[T]{
		data: make([]T, rows*cols),
		rows: rows,
		cols: cols,
	}
}

// FromSlice wraps data as a rows×cols matrix without copying, so writes
// through the matrix are visible in data. len(data) must be rows*cols.
func FromSlice[T any](rows, cols int, data []T) (*Matrix[T], error) {
	if rows < 0 || cols < 0 || len(data) != rows*cols {
		return nil, fmt.Errorf("conv: %w: %d elements for %dx%d matrix", oracle.ErrInvalidShape, len(data), rows, cols)
	}
	return &Matrix[T]{data: data, rows: rows, cols: cols}, nil
}

// FromRows copies a slice of equal-length rows into a new matrix.
func FromRows[T any](rows [][]T) (*Matrix[T], error) {
	if len(rows) == 0 {
		return NewMatrix[T](0, 0), nil
	}
	cols := len(rows[0])
	if cols == 0 {
		return nil, fmt.Errorf("conv: %w: empty rows", oracle.ErrInvalidShape)
	}
	m := NewMatrix[T](len(rows), cols)
	for r, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("conv: %w: row %d has %d columns, want %d", oracle.ErrInvalidShape, r, len(row), cols)
		}
		copy(m.Row(r), row)
	}
	return m, nil
}

// Rows returns the number of rows.
func (m *Matrix[T]) Rows() int {
	return m.rows
}

// Cols returns the number of columns.
func (m *Matrix[T]) Cols() int {
	return m.cols
}

// Data returns the backing row-major slice.
func (m *Matrix[T]) Data() []T {
	return m.data
}

// Index returns the row-major offset of (r, c). It panics if the position is
// outside the matrix.
func (m *Matrix[T]) Index(r, c int) int {
	if r < 0 || r >= m.rows || c < 0 || c >= m.cols {
		panic(fmt.Sprintf("conv: index (%d, %d) out of range for %dx%d matrix", r, c, m.rows, m.cols))
	}
	return r*m.cols + c
}

// At returns the element at (r, c).
func (m *Matrix[T]) At(r, c int) T {
	return m.data[m.Index(r, c)]
}

// Set stores v at (r, c).
func (m *Matrix[T]) Set(r, c int, v T) {
	m.data[m.Index(r, c)] = v
}

// Row returns a mutable slice for row r.
func (m *Matrix[T]) Row(r int) []T {
	start := m.Index(r, 0)
	return m.data[start : start+m.cols]
}

// ToRows copies the matrix into a slice of rows.
func (m *Matrix[T]) ToRows() [][]T {
	out := make([][]T, m.rows)
	for r := range out {
		out[r] = append([]T(nil), m.Row(r)...)
	}
	return out
}

// Clone creates a deep copy of the matrix.
func (m *Matrix[T]) Clone() *Matrix[T] {
	return &Matrix[T]{
		data: append([]T(nil), m.data...),
		rows: m.rows,
		cols: m.cols,
	}
}

// Fill sets every element to v.
func (m *Matrix[T]) Fill(v T) {
	for i := range m.data {
		m.data[i] = v
	}
}

// SameSize returns true if both matrices have the same dimensions.
func SameSize[T, U any](a *Matrix[T], b *Matrix[U]) bool {
	return a.rows == b.rows && a.cols == b.cols
}
