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
	"time"

	"github.com/rowbridge/rowbridge/store/val"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02 15:04:05.999999"
)

// accepted input layouts, tried in order
var timestampInputLayouts = []string{
	timestampLayout,
	"2006-01-02T15:04:05.999999",
	time.RFC3339Nano,
	dateLayout,
}

type datetimeType struct {
	id     Identifier
	layout string
}

var _ TypeInfo = (*datetimeType)(nil)

// GetTypeIdentifier implements TypeInfo interface.
func (ti *datetimeType) GetTypeIdentifier() Identifier {
	return ti.id
}

// WireTag implements TypeInfo interface.
func (ti *datetimeType) WireTag() val.TypeTag {
	return val.TextTag
}

// ParseText implements TypeInfo interface.
func (ti *datetimeType) ParseText(s string) (val.Value, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampInputLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return val.Text(t.UTC().Format(ti.layout)), nil
		}
	}
	return nil, InvalidTextValue.New(ti.String(), s)
}

// FormatText implements TypeInfo interface.
func (ti *datetimeType) FormatText(v val.Value) (string, error) {
	return formatAsText(ti, v)
}

// String implements TypeInfo interface.
func (ti *datetimeType) String() string {
	return string(ti.id)
}
