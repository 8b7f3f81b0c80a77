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

package val

import "fmt"

// TypeTag is the one byte type code written ahead of a frame's null bitmap. The numbering is shared with the
// external reader and must never change.
type TypeTag uint8

const (
	Int8Tag   TypeTag = 0
	BoolTag   TypeTag = 1
	Float8Tag TypeTag = 2
	Int4Tag   TypeTag = 3
	Float4Tag TypeTag = 4
	Int2Tag   TypeTag = 5
	BytesTag  TypeTag = 6

	// TextTag covers every logical type without a compact binary form.
	TextTag TypeTag = 7
)

var tagNames = [...]string{
	Int8Tag:   "INT8",
	BoolTag:   "BOOL",
	Float8Tag: "FLOAT8",
	Int4Tag:   "INT4",
	Float4Tag: "FLOAT4",
	Int2Tag:   "INT2",
	BytesTag:  "BYTES",
	TextTag:   "TEXT",
}

// TagFromByte validates a tag read off the wire.
func TagFromByte(b uint8) (TypeTag, bool) {
	if b > uint8(TextTag) {
		return 0, false
	}
	return TypeTag(b), true
}

func (t TypeTag) String() string {
	if t > TextTag {
		return fmt.Sprintf("TypeTag(%d)", uint8(t))
	}
	return tagNames[t]
}

// IsBinary returns true for tags with a dedicated compact representation.
func (t TypeTag) IsBinary() bool {
	return t < TextTag
}

// IsVarLen returns true for tags whose payload carries its own 4 byte length prefix.
func (t TypeTag) IsVarLen() bool {
	return t == BytesTag || t == TextTag
}

// FixedSize returns the payload size of fixed length tags.
func (t TypeTag) FixedSize() (ByteSize, bool) {
	switch t {
	case Int8Tag, Float8Tag:
		return int64Size, true
	case Int4Tag, Float4Tag:
		return int32Size, true
	case Int2Tag:
		return int16Size, true
	case BoolTag:
		return boolSize, true
	default:
		return 0, false
	}
}

// Alignment returns the natural alignment of the tag's payload. Variable length payloads align on their
// 4 byte length prefix.
func (t TypeTag) Alignment() ByteSize {
	switch t {
	case Int8Tag, Float8Tag:
		return 8
	case Int4Tag, Float4Tag:
		return 4
	case Int2Tag:
		return 2
	case BoolTag:
		return 1
	default:
		return 4
	}
}
