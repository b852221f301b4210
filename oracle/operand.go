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

package oracle

// SignExtend interprets the low width bits of raw as a two's-complement
// value and returns it sign-extended to 64 bits. Bits above width are
// ignored, matching how a simulator hands over a width-bit signal.
//
// For example, SignExtend(0xFF, 8) is -1 and SignExtend(0x7F, 8) is 127.
func SignExtend(raw uint64, width BitWidth) int64 {
	if width >= 64 {
		return int64(raw)
	}
	shift := 64 - uint(width)
	return int64(raw<<shift) >> shift
}

// SignExtendAll applies SignExtend to every element of raw.
func SignExtendAll(raw []uint64, width BitWidth) []int64 {
	out := make([]int64, len(raw))
	for i, r := range raw {
		out[i] = SignExtend(r, width)
	}
	return out
}
