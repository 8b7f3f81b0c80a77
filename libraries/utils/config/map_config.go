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

// MapConfig is a set of properties held in memory. Formatter options arrive this way, either from the command line
// or from the options section of a schema file.
type MapConfig struct {
	properties map[string]string
}

var _ ReadableConfig = (*MapConfig)(nil)

// NewMapConfig creates a config from a map. The map is copied.
func NewMapConfig(properties map[string]string) *MapConfig {
	props := make(map[string]string, len(properties))
	for k, v := range properties {
		props[k] = v
	}
	return &MapConfig{props}
}

// NewEmptyMapConfig creates a config without any properties.
func NewEmptyMapConfig() *MapConfig {
	return &MapConfig{make(map[string]string)}
}

// GetString retrieves a value for a given key.
func (mc *MapConfig) GetString(k string) (string, error) {
	if val, ok := mc.properties[k]; ok {
		return val, nil
	}

	return "", ErrConfigParamNotFound
}

// SetStrings sets the values for a map of updates.
func (mc *MapConfig) SetStrings(updates map[string]string) {
	for k, v := range updates {
		mc.properties[k] = v
	}
}

// Iter will perform a callback for each value in a config until all values have been exhausted or until the
// callback returns true indicating that it should stop.
func (mc *MapConfig) Iter(cb func(string, string) (stop bool)) {
	for k, v := range mc.properties {
		stop := cb(k, v)

		if stop {
			break
		}
	}
}

// Size returns the number of properties contained within the config
func (mc *MapConfig) Size() int {
	return len(mc.properties)
}
