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

package typeinfo

import (
	"strings"

	"github.com/rowbridge/rowbridge/store/val"
)

type boolType struct{}

var _ TypeInfo = (*boolType)(nil)

// GetTypeIdentifier implements TypeInfo interface.
func (ti *boolType) GetTypeIdentifier() Identifier {
	return BoolTypeIdentifier
}

// WireTag implements TypeInfo interface.
func (ti *boolType) WireTag() val.TypeTag {
	return val.BoolTag
}

// ParseText implements TypeInfo interface.
func (ti *boolType) ParseText(s string) (val.Value, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "t", "true", "y", "yes", "on", "1":
		return val.Bool(true), nil
	case "f", "false", "n", "no", "off", "0":
		return val.Bool(false), nil
	}
	return nil, InvalidTextValue.New(ti.String(), s)
}

// FormatText implements TypeInfo interface.
func (ti *boolType) FormatText(v val.Value) (string, error) {
	switch v := v.(type) {
	case val.Bool:
		if v {
			return "t", nil
		}
		return "f", nil
	case val.Text:
		return string(v), nil
	}
	return "", UnexpectedValue.New(ti.String(), v.Tag().String())
}

// String implements TypeInfo interface.
func (ti *boolType) String() string {
	return string(BoolTypeIdentifier)
}
