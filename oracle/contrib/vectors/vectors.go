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

// Package vectors reads JSON test-vector files for the MAC and convolution
// models, so that a harness can hand the oracle its stimulus as data rather
// than through a simulator callback.
//
// A MAC file lists one entry per clock cycle:
//
//	{
//	  "width": 16,
//	  "in_width": 8,
//	  "pipelined": true,
//	  "cycles": [
//	    {"clear": true, "init": 5},
//	    {"valid": true, "in0": "0xff", "in1": 3}
//	  ]
//	}
//
// A convolution file carries row-major matrices:
//
//	{"width": 8, "R": 2, "C": 2, "K": 2, "B": 1, "X": [1, 2, 3, 4], "W": [1, 0, 0, 1]}
//
// Integer fields accept JSON numbers or strings in any strconv base-0
// notation ("0x7f", "-12"). When in_width is set, operands are raw
// in_width-bit patterns and are sign-extended on read.
package vectors

import (
	"bytes"
	"strconv"

	"github.com/pkg/errors"

	"github.com/ajroetker/macoracle/oracle"
)

// Literal is an integer as written in a vector file.
type Literal string

// UnmarshalJSON accepts a JSON number or a quoted string.
func (l *Literal) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(data, `"`))
	if s == "" || s == "null" {
		return errors.Errorf("empty integer literal %s", data)
	}
	*l = Literal(s)
	return nil
}

// Int64 parses l as a signed integer.
func (l Literal) Int64() (int64, error) {
	if l == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(string(l), 0, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid integer %q", string(l))
	}
	return v, nil
}

// Operand parses l as an operand of inWidth bits. With inWidth zero l is a
// plain signed integer. Otherwise l is either a raw bit pattern that must
// fit in inWidth bits, which is sign-extended, or a negative number that
// must lie in the signed inWidth-bit range.
func (l Literal) Operand(inWidth oracle.BitWidth) (int64, error) {
	if inWidth == 0 || l == "" {
		return l.Int64()
	}
	if raw, err := strconv.ParseUint(string(l), 0, 64); err == nil {
		if raw&^inWidth.Mask() != 0 {
			return 0, errors.Errorf("operand %q does not fit %s", string(l), inWidth)
		}
		return oracle.SignExtend(raw, inWidth), nil
	}
	v, err := l.Int64()
	if err != nil {
		return 0, err
	}
	if v < inWidth.MinInt64() || v > inWidth.MaxInt64() {
		return 0, errors.Errorf("operand %d outside %s signed range", v, inWidth)
	}
	return v, nil
}

func parseOperands(lits []Literal, inWidth oracle.BitWidth, name string) ([]int64, error) {
	out := make([]int64, len(lits))
	for i, l := range lits {
		v, err := l.Operand(inWidth)
		if err != nil {
			return nil, errors.Wrapf(err, "%s[%d]", name, i)
		}
		out[i] = v
	}
	return out, nil
}

func checker(mode string) (oracle.Checker, error) {
	if mode == "" {
		return oracle.DefaultChecker(), nil
	}
	m, ok := oracle.ParseOverflowMode(mode)
	if !ok {
		return oracle.Checker{}, errors.Errorf("unknown overflow_mode %q", mode)
	}
	return oracle.Checker{Mode: m}, nil
}

func widths(width, inWidth uint8) (oracle.BitWidth, oracle.BitWidth, error) {
	w := oracle.BitWidth(width)
	if err := w.Validate(); err != nil {
		return 0, 0, errors.Wrap(err, "width")
	}
	in := oracle.BitWidth(inWidth)
	if in != 0 {
		if err := in.Validate(); err != nil {
			return 0, 0, errors.Wrap(err, "in_width")
		}
	}
	return w, in, nil
}
