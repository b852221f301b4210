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

import (
	"os"
	"strconv"
)

// SignFlip64Env checks the MACORACLE_SIGNFLIP64 environment variable.
// When set, DefaultChecker uses SignFlip64 instead of RangeCheck, which
// reproduces reference models limited to 64-bit arithmetic.
func SignFlip64Env() bool {
	val := os.Getenv("MACORACLE_SIGNFLIP64")
	if val == "" {
		return false
	}
	// Any non-empty value is considered true, but also parse as bool
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return true
}
