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

type intType struct {
	id      Identifier
	bitSize int
}

var _ TypeInfo = (*intType)(nil)

// GetTypeIdentifier implements TypeInfo interface.
func (ti *intType) GetTypeIdentifier() Identifier {
	return ti.id
}

// WireTag implements TypeInfo interface.
func (ti *intType) WireTag() val.TypeTag {
	switch ti.bitSize {
	case 16:
		return val.Int2Tag
	case 32:
		return val.Int4Tag
	default:
		return val.Int8Tag
	}
}

// ParseText implements TypeInfo interface.
func (ti *intType) ParseText(s string) (val.Value, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, ti.bitSize)
	if err != nil {
		return nil, InvalidTextValue.New(ti.String(), s)
	}

	switch ti.bitSize {
	case 16:
		return val.Int16(n), nil
	case 32:
		return val.Int32(n), nil
	default:
		return val.Int64(n), nil
	}
}

// FormatText implements TypeInfo interface.
func (ti *intType) FormatText(v val.Value) (string, error) {
	switch v := v.(type) {
	case val.Int16:
		return strconv.FormatInt(int64(v), 10), nil
	case val.Int32:
		return strconv.FormatInt(int64(v), 10), nil
	case val.Int64:
		return strconv.FormatInt(int64(v), 10), nil
	case val.Text:
		return string(v), nil
	}
	return "", UnexpectedValue.New(ti.String(), v.Tag().String())
}

// String implements TypeInfo interface.
func (ti *intType) String() string {
	return string(ti.id)
}
