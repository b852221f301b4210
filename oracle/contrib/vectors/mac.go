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

	"github.com/ajroetker/macoracle/oracle"
	"github.com/ajroetker/macoracle/oracle/contrib/mac"
)

// MACFile is the on-disk form of a MAC test.
type MACFile struct {
	Width        uint8      `json:"width"`
	InWidth      uint8      `json:"in_width,omitempty"`
	Pipelined    bool       `json:"pipelined"`
	OverflowMode string     `json:"overflow_mode,omitempty"`
	Cycles       []MACCycle `json:"cycles"`
}

// MACCycle is one clock cycle of MAC stimulus.
type MACCycle struct {
	In0   Literal `json:"in0,omitempty"`
	In1   Literal `json:"in1,omitempty"`
	Init  Literal `json:"init,omitempty"`
	Valid bool    `json:"valid,omitempty"`
	Clear bool    `json:"clear,omitempty"`
}

var cycleFields = [3]string{"in0", "in1", "init"}

// MACVector is a parsed MAC test ready to run.
type MACVector struct {
	Kind    mac.Kind
	Width   oracle.BitWidth
	Checker oracle.Checker
	Cycles  []mac.Inputs
}

// NewCore creates a fresh core for the vector.
func (v *MACVector) NewCore(opts ...mac.Option) (mac.Core, error) {
	opts = append([]mac.Option{mac.WithChecker(v.Checker)}, opts...)
	return mac.New(v.Kind, v.Width, opts...)
}

// Run replays the vector on a fresh core.
func (v *MACVector) Run(opts ...mac.Option) ([]mac.Result, error) {
	core, err := v.NewCore(opts...)
	if err != nil {
		return nil, err
	}
	return mac.Run(core, v.Cycles)
}

// ReadMAC decodes a MAC vector from r.
func ReadMAC(r io.Reader) (*MACVector, error) {
	var f MACFile
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, errors.Wrap(err, "decoding MAC vector")
	}
	return f.Vector()
}

// LoadMAC reads a MAC vector file.
func LoadMAC(path string) (*MACVector, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening MAC vector")
	}
	defer fd.Close()
	v, err := ReadMAC(fd)
	return v, errors.Wrap(err, path)
}

// Vector validates f and converts it to a MACVector.
func (f *MACFile) Vector() (*MACVector, error) {
	w, in, err := widths(f.Width, f.InWidth)
	if err != nil {
		return nil, err
	}
	chk, err := checker(f.OverflowMode)
	if err != nil {
		return nil, err
	}
	v := &MACVector{
		Kind:    mac.KindUnpipelined,
		Width:   w,
		Checker: chk,
		Cycles:  make([]mac.Inputs, len(f.Cycles)),
	}
	if f.Pipelined {
		v.Kind = mac.KindPipelined
	}
	for i, c := range f.Cycles {
		var ops [3]int64
		for j, l := range [3]Literal{c.In0, c.In1, c.Init} {
			if ops[j], err = l.Operand(in); err != nil {
				return nil, errors.Wrapf(err, "cycle %d: %s", i, cycleFields[j])
			}
		}
		v.Cycles[i] = mac.Inputs{
			In0:     ops[0],
			In1:     ops[1],
			InitVal: ops[2],
			Valid:   c.Valid,
			Clear:   c.Clear,
		}
	}
	return v, nil
}
