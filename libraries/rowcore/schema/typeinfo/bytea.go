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
	"encoding/hex"
	"strings"

	"github.com/rowbridge/rowbridge/store/val"
)

const hexPrefix = `\x`

type byteaType struct{}

var _ TypeInfo = (*byteaType)(nil)

// GetTypeIdentifier implements TypeInfo interface.
func (ti *byteaType) GetTypeIdentifier() Identifier {
	return ByteaTypeIdentifier
}

// WireTag implements TypeInfo interface.
func (ti *byteaType) WireTag() val.TypeTag {
	return val.BytesTag
}

// ParseText implements TypeInfo interface. Input prefixed with \x is hex decoded, anything else is taken as raw bytes.
func (ti *byteaType) ParseText(s string) (val.Value, error) {
	if !strings.HasPrefix(s, hexPrefix) {
		return val.Bytes(s), nil
	}

	b, err := hex.DecodeString(s[len(hexPrefix):])
	if err != nil {
		return nil, InvalidTextValue.New(ti.String(), s)
	}
	return val.Bytes(b), nil
}

// FormatText implements TypeInfo interface.
func (ti *byteaType) FormatText(v val.Value) (string, error) {
	switch v := v.(type) {
	case val.Bytes:
		return hexPrefix + hex.EncodeToString(v), nil
	case val.Text:
		return string(v), nil
	}
	return "", UnexpectedValue.New(ti.String(), v.Tag().String())
}

// String implements TypeInfo interface.
func (ti *byteaType) String() string {
	return string(ByteaTypeIdentifier)
}
