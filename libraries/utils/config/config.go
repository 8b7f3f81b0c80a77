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
	"errors"
	"strings"
)

// ErrConfigParamNotFound is returned when a requested key is not set.
var ErrConfigParamNotFound = errors.New("param not found")

// ReadableConfig is a set of string properties.
type ReadableConfig interface {
	// GetString retrieves a value for a given key. Returns ErrConfigParamNotFound if it is not set.
	GetString(key string) (value string, err error)

	// Iter calls |cb| for each property until it returns true.
	Iter(cb func(string, string) (stop bool))

	// Size returns the number of properties.
	Size() int
}

// GetStringIgnoreCase looks up |key| without regard to case. Exact matches win.
func GetStringIgnoreCase(cfg ReadableConfig, key string) (string, bool) {
	if val, err := cfg.GetString(key); err == nil {
		return val, true
	}

	var found string
	var ok bool
	cfg.Iter(func(k, v string) bool {
		if strings.EqualFold(k, key) {
			found, ok = v, true
			return true
		}
		return false
	})
	return found, ok
}
