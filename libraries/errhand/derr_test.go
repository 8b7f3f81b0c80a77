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

package errhand

import (
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/rowbridge/rowbridge/libraries/rowcore/table"
)

func init() {
	color.NoColor = true
}

func TestDError(t *testing.T) {
	assert.Nil(t, BuildIf(nil, "never").AddDetails("x").Build())

	cause := errors.New("disk on fire")
	err := BuildDError("failed to write %s", "out.bin").AddDetails("first").AddDetails("second %d", 2).AddCause(cause).Build()
	assert.Equal(t, "failed to write out.bin", err.Error())
	assert.Equal(t, "failed to write out.bin\nfirst\nsecond 2\ncause:\n\t\tdisk on fire", err.Verbose())
	assert.True(t, errors.Is(err, cause))

	outer := BuildIf(err, "import failed").Build()
	assert.Contains(t, outer.Verbose(), "\t\tfailed to write out.bin\n\t\tfirst")
}

func TestFromBadRow(t *testing.T) {
	br := table.NewBadRow(4, 6, table.ErrUnescapedQuote.New(2), "line 3")
	err := FromBadRow("in.txt", 100, br)
	assert.Equal(t, "bad row in in.txt at bytes [104, 110)", err.Error())
	assert.Equal(t, "bad row in in.txt at bytes [104, 110)\nunescaped quote in column 2\nline 3", err.Verbose())

	br = table.NewBadRow(0, 5, table.ErrColumnConversion.New(1, "pct", "`numeric` cannot convert the value `5%d`"), "line 1")
	assert.Equal(t, "bad row in in.txt at bytes [0, 5)\ncolumn 1 (pct): `numeric` cannot convert the value `5%d`\nline 1", FromBadRow("in.txt", 0, br).Verbose())

	br = table.NewBadRow(0, 3, table.ErrFrameLength.New(3))
	assert.Contains(t, FromBadRow("in.bin", 0, br).Verbose(), "can't be read")
}
