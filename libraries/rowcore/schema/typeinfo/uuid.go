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
	"github.com/google/uuid"

	"github.com/rowbridge/rowbridge/store/val"
)

type uuidType struct{}

var _ TypeInfo = (*uuidType)(nil)

// GetTypeIdentifier implements TypeInfo interface.
func (ti *uuidType) GetTypeIdentifier() Identifier {
	return UuidTypeIdentifier
}

// WireTag implements TypeInfo interface.
func (ti *uuidType) WireTag() val.TypeTag {
	return val.TextTag
}

// ParseText implements TypeInfo interface. Any form accepted by uuid.Parse is normalized to the hyphenated lower
// case form.
func (ti *uuidType) ParseText(s string) (val.Value, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return nil, InvalidTextValue.New(ti.String(), s)
	}
	return val.Text(u.String()), nil
}

// FormatText implements TypeInfo interface.
func (ti *uuidType) FormatText(v val.Value) (string, error) {
	if b, ok := v.(val.Bytes); ok {
		u, err := uuid.FromBytes(b)
		if err != nil {
			return "", err
		}
		return u.String(), nil
	}
	return formatAsText(ti, v)
}

// String implements TypeInfo interface.
func (ti *uuidType) String() string {
	return string(UuidTypeIdentifier)
}
