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

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	os.Unsetenv("MACORACLE_SIGNFLIP64")
	os.Exit(m.Run())
}

func execute(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestMACCommand(t *testing.T) {
	stdout, stderr, err := execute(t, "", "mac", "testdata/mac.json")
	require.NoError(t, err)
	assert.Empty(t, stderr)
	want := strings.Join([]string{
		"cycle=0 result=5 bits=0x5",
		"cycle=1 result=5 bits=0x5",
		"cycle=2 result=2 bits=0x2",
		"cycle=3 result=122 bits=0x7a",
		"cycle=4 result=122 bits=0x7a",
	}, "\n") + "\n"
	assert.Equal(t, want, stdout)
}

func TestMACCommandJSON(t *testing.T) {
	stdout, _, err := execute(t, "", "mac", "--json", "testdata/mac.json")
	require.NoError(t, err)
	var rows []macResultJSON
	require.NoError(t, json.Unmarshal([]byte(stdout), &rows))
	require.Len(t, rows, 5)
	assert.Equal(t, macResultJSON{Cycle: 3, Result: "122", Bits: "0x7a"}, rows[3])
}

func TestMACCommandStdin(t *testing.T) {
	in := `{"width": 16, "cycles": [{"clear": true, "init": -7}]}`
	stdout, _, err := execute(t, in, "mac")
	require.NoError(t, err)
	assert.Equal(t, "cycle=0 result=-7 bits=0xfff9\n", stdout)
}

func TestMACCommandOverflow(t *testing.T) {
	stdout, stderr, err := execute(t, "", "mac", "testdata/mac_overflow.json")
	require.NoError(t, err)
	assert.Contains(t, stdout, "cycle=1 result=130 bits=0x82\n")
	assert.Contains(t, stdout, "cycle=2 result=130 bits=0x82\n")
	assert.Contains(t, stderr, "ERROR: ")
	assert.Contains(t, stderr, "overflow")

	_, _, err = execute(t, "", "mac", "--fail-on-overflow", "testdata/mac_overflow.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 3 cycles")
}

func TestConvCommand(t *testing.T) {
	stdout, stderr, err := execute(t, "", "conv", "--stats", "testdata/conv.json")
	require.NoError(t, err)
	assert.Equal(t, "6\n", stdout)
	assert.Equal(t, "cells=1 macs=4\n", stderr)
}

func TestConvCommandAbort(t *testing.T) {
	for _, args := range [][]string{
		{"conv", "testdata/conv_overflow.json"},
		{"conv", "--workers", "2", "testdata/conv_overflow.json"},
	} {
		stdout, stderr, err := execute(t, "", args...)
		require.Error(t, err, "%v", args)
		assert.Contains(t, err.Error(), "convolution aborted")
		assert.Equal(t, "4 0\n", stdout, "%v", args)
		assert.Contains(t, stderr, "kernel 1,1", "%v", args)
	}
}

func TestConvCommandContinue(t *testing.T) {
	stdout, stderr, err := execute(t, "", "conv", "--policy", "continue", "testdata/conv_overflow.json")
	require.NoError(t, err)
	assert.Equal(t, "4 202\n", stdout)
	assert.Equal(t, 1, strings.Count(stderr, "ERROR: "))

	_, _, err = execute(t, "", "conv", "--policy", "continue", "--fail-on-overflow", "testdata/conv_overflow.json")
	require.Error(t, err)
}

func TestConvCommandJSON(t *testing.T) {
	stdout, _, err := execute(t, "", "conv", "--json", "--policy", "continue", "--workers", "3", "testdata/conv_overflow.json")
	require.NoError(t, err)
	var res convResultJSON
	require.NoError(t, json.Unmarshal([]byte(stdout), &res))
	assert.Equal(t, 1, res.Rows)
	assert.Equal(t, 2, res.Cols)
	assert.Equal(t, [][]string{{"4", "202"}}, res.Y)
	assert.Len(t, res.Overflows, 1)
	assert.Nil(t, res.Stats)
}

func TestBadFlags(t *testing.T) {
	_, _, err := execute(t, "", "mac", "--overflow-mode", "wrap", "testdata/mac.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--overflow-mode")

	_, _, err = execute(t, "", "conv", "--policy", "retry", "testdata/conv.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--policy")

	_, _, err = execute(t, "", "conv", "testdata/missing.json")
	require.Error(t, err)
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "macoracle "), stdout)
	assert.Contains(t, stdout, "overflow mode")
}

func TestConvCommandJSONStats(t *testing.T) {
	stdout, _, err := execute(t, "", "conv", "--json", "--stats", "testdata/conv.json")
	require.NoError(t, err)
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(stdout), &raw))
	assert.JSONEq(t, `{"cells": 1, "macs": 4}`, string(raw["stats"]))
}

func TestMACCommandSignFlip64(t *testing.T) {
	in := `{"width": 64, "cycles": [{"valid": true, "in0": 4294967296, "in1": 4294967296}]}`
	stdout, stderr, err := execute(t, in, "mac", "--overflow-mode", "signflip64")
	require.NoError(t, err)
	assert.Equal(t, "cycle=0 result=0 bits=0x0\n", stdout)
	assert.Contains(t, stderr, "ERROR: ")
}
