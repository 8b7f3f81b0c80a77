// Copyright 2026 Dolthub, Inc.
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

// Package d holds internal consistency checks. A failed check is a programming error, never bad input, and panics.
package d

import (
	"fmt"

	"github.com/stretchr/testify/assert"
)

// Chk panics when any of its assertions fail.
var Chk = assert.New(&panicker{})

// AssertionError is the value Chk panics with.
type AssertionError struct {
	Msg string
}

func (ae AssertionError) Error() string {
	return "internal consistency check failed: " + ae.Msg
}

type panicker struct {
}

func (s panicker) Errorf(format string, args ...interface{}) {
	panic(AssertionError{fmt.Sprintf(format, args...)})
}

// PanicIfFalse panics with |msg| if |b| is false.
func PanicIfFalse(b bool, msg string) {
	if !b {
		panic(AssertionError{msg})
	}
}
