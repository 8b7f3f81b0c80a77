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
	"github.com/rowbridge/rowbridge/store/val"
)

// textType covers text, the character types, and any logical type without a dedicated converter. Values pass
// through unchanged.
type textType struct {
	id Identifier
}

var _ TypeInfo = (*textType)(nil)

// GetTypeIdentifier implements TypeInfo interface.
func (ti *textType) GetTypeIdentifier() Identifier {
	return ti.id
}

// WireTag implements TypeInfo interface.
func (ti *textType) WireTag() val.TypeTag {
	return val.TextTag
}

// ParseText implements TypeInfo interface.
func (ti *textType) ParseText(s string) (val.Value, error) {
	return val.Text(s), nil
}

// FormatText implements TypeInfo interface.
func (ti *textType) FormatText(v val.Value) (string, error) {
	return formatAsText(ti, v)
}

// String implements TypeInfo interface.
func (ti *textType) String() string {
	return string(ti.id)
}
