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
	"strconv"
	"strings"

	"github.com/rowbridge/rowbridge/store/val"
)

type floatType struct {
	id      Identifier
	bitSize int
}

var _ TypeInfo = (*floatType)(nil)

// GetTypeIdentifier implements TypeInfo interface.
func (ti *floatType) GetTypeIdentifier() Identifier {
	return ti.id
}

// WireTag implements TypeInfo interface.
func (ti *floatType) WireTag() val.TypeTag {
	if ti.bitSize == 32 {
		return val.Float4Tag
	}
	return val.Float8Tag
}

// ParseText implements TypeInfo interface.
func (ti *floatType) ParseText(s string) (val.Value, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), ti.bitSize)
	if err != nil {
		return nil, InvalidTextValue.New(ti.String(), s)
	}
	if ti.bitSize == 32 {
		return val.Float32(f), nil
	}
	return val.Float64(f), nil
}

// FormatText implements TypeInfo interface.
func (ti *floatType) FormatText(v val.Value) (string, error) {
	switch v := v.(type) {
	case val.Float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32), nil
	case val.Float64:
		return strconv.FormatFloat(float64(v), 'g', -1, 64), nil
	case val.Text:
		return string(v), nil
	}
	return "", UnexpectedValue.New(ti.String(), v.Tag().String())
}

// String implements TypeInfo interface.
func (ti *floatType) String() string {
	return string(ti.id)
}
