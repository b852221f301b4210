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

package vectors

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/ajroetker/macoracle/oracle"
	"github.com/ajroetker/macoracle/oracle/contrib/conv"
)

// ConvFile is the on-disk form of a convolution test.
type ConvFile struct {
	Width        uint8     `json:"width"`
	InWidth      uint8     `json:"in_width,omitempty"`
	OverflowMode string    `json:"overflow_mode,omitempty"`
	Policy       string    `json:"policy,omitempty"` // "abort" (default) or "continue"
	R            int       `json:"R"`
	C            int       `json:"C"`
	K            int       `json:"K"`
	B            Literal   `json:"B"`
	X            []Literal `json:"X"`
	W            []Literal `json:"W"`
}

// ConvVector is a parsed convolution test ready to run.
type ConvVector struct {
	Task    conv.Task
	Policy  conv.Policy
	Checker oracle.Checker
}

// Options returns the conv options the vector asks for, followed by extra.
func (v *ConvVector) Options(extra ...conv.Option) []conv.Option {
	return append([]conv.Option{conv.WithChecker(v.Checker), conv.WithPolicy(v.Policy)}, extra...)
}

// ReadConv decodes a convolution vector from r.
func ReadConv(r io.Reader) (*ConvVector, error) {
	var f ConvFile
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, errors.Wrap(err, "decoding convolution vector")
	}
	return f.Vector()
}

// LoadConv reads a convolution vector file.
func LoadConv(path string) (*ConvVector, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening convolution vector")
	}
	defer fd.Close()
	v, err := ReadConv(fd)
	return v, errors.Wrap(err, path)
}

// Vector validates f and converts it to a ConvVector.
func (f *ConvFile) Vector() (*ConvVector, error) {
	w, in, err := widths(f.Width, f.InWidth)
	if err != nil {
		return nil, err
	}
	chk, err := checker(f.OverflowMode)
	if err != nil {
		return nil, err
	}
	policy, err := parsePolicy(f.Policy)
	if err != nil {
		return nil, err
	}
	if f.R <= 0 || f.C <= 0 || f.K <= 0 {
		return nil, errors.Wrapf(oracle.ErrInvalidShape, "R=%d C=%d K=%d", f.R, f.C, f.K)
	}
	if len(f.X) != f.R*f.C {
		return nil, errors.Wrapf(oracle.ErrInvalidShape, "X has %d elements, want R*C=%d", len(f.X), f.R*f.C)
	}
	if len(f.W) != f.K*f.K {
		return nil, errors.Wrapf(oracle.ErrInvalidShape, "W has %d elements, want K*K=%d", len(f.W), f.K*f.K)
	}

	xs, err := parseOperands(f.X, in, "X")
	if err != nil {
		return nil, err
	}
	ws, err := parseOperands(f.W, in, "W")
	if err != nil {
		return nil, err
	}
	bias, err := f.B.Operand(in)
	if err != nil {
		return nil, errors.Wrap(err, "B")
	}

	x, err := conv.FromRows(lo.Chunk(xs, f.C))
	if err != nil {
		return nil, errors.Wrap(err, "X")
	}
	wm, err := conv.FromRows(lo.Chunk(ws, f.K))
	if err != nil {
		return nil, errors.Wrap(err, "W")
	}
	return &ConvVector{
		Task:    conv.Task{X: x, W: wm, Bias: bias, Width: w},
		Policy:  policy,
		Checker: chk,
	}, nil
}

func parsePolicy(s string) (conv.Policy, error) {
	switch s {
	case "", "abort":
		return conv.AbortOnOverflow, nil
	case "continue":
		return conv.ContinueOnOverflow, nil
	}
	return 0, errors.Errorf("unknown policy %q", s)
}
