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

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapConfig(t *testing.T) {
	src := map[string]string{"delimiter": ";", "Quote": `"`}
	cfg := NewMapConfig(src)
	src["delimiter"] = ","

	v, err := cfg.GetString("delimiter")
	require.NoError(t, err)
	assert.Equal(t, ";", v)

	_, err = cfg.GetString("escape")
	assert.Equal(t, ErrConfigParamNotFound, err)

	v, ok := GetStringIgnoreCase(cfg, "quote")
	assert.True(t, ok)
	assert.Equal(t, `"`, v)

	_, ok = GetStringIgnoreCase(cfg, "newline")
	assert.False(t, ok)

	cfg.SetStrings(map[string]string{"escape": `\`, "delimiter": "|"})
	v, ok = GetStringIgnoreCase(cfg, "DELIMITER")
	assert.True(t, ok)
	assert.Equal(t, "|", v)
	assert.Equal(t, 3, cfg.Size())

	count := 0
	cfg.Iter(func(string, string) bool {
		count++
		return true
	})
	assert.Equal(t, 1, count)
}
