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

import (
	"encoding/binary"
	"math"
)

type ByteSize uint32

const (
	boolSize    ByteSize = 1
	int16Size   ByteSize = 2
	int32Size   ByteSize = 4
	int64Size   ByteSize = 8
	uint8Size   ByteSize = 1
	uint16Size  ByteSize = 2
	uint32Size  ByteSize = 4
	float32Size ByteSize = 4
	float64Size ByteSize = 8
)

// All multi-byte values on the wire are big-endian.

func ReadUint8(val []byte) uint8 {
	expectSize(val, uint8Size)
	return val[0]
}

func WriteUint8(buf []byte, val uint8) {
	expectSize(buf, uint8Size)
	buf[0] = val
}

func ReadUint16(val []byte) uint16 {
	expectSize(val, uint16Size)
	return binary.BigEndian.Uint16(val)
}

func WriteUint16(buf []byte, val uint16) {
	expectSize(buf, uint16Size)
	binary.BigEndian.PutUint16(buf, val)
}

func ReadUint32(val []byte) uint32 {
	expectSize(val, uint32Size)
	return binary.BigEndian.Uint32(val)
}

func WriteUint32(buf []byte, val uint32) {
	expectSize(buf, uint32Size)
	binary.BigEndian.PutUint32(buf, val)
}

func readBool(val []byte) bool {
	expectSize(val, boolSize)
	return val[0] != 0
}

func writeBool(buf []byte, val bool) {
	expectSize(buf, boolSize)
	if val {
		buf[0] = byte(1)
	} else {
		buf[0] = byte(0)
	}
}

func readInt16(val []byte) int16 {
	expectSize(val, int16Size)
	return int16(binary.BigEndian.Uint16(val))
}

func writeInt16(buf []byte, val int16) {
	expectSize(buf, int16Size)
	binary.BigEndian.PutUint16(buf, uint16(val))
}

func readInt32(val []byte) int32 {
	expectSize(val, int32Size)
	return int32(binary.BigEndian.Uint32(val))
}

func writeInt32(buf []byte, val int32) {
	expectSize(buf, int32Size)
	binary.BigEndian.PutUint32(buf, uint32(val))
}

func readInt64(val []byte) int64 {
	expectSize(val, int64Size)
	return int64(binary.BigEndian.Uint64(val))
}

func writeInt64(buf []byte, val int64) {
	expectSize(buf, int64Size)
	binary.BigEndian.PutUint64(buf, uint64(val))
}

func readFloat32(val []byte) float32 {
	expectSize(val, float32Size)
	return math.Float32frombits(binary.BigEndian.Uint32(val))
}

func writeFloat32(buf []byte, val float32) {
	expectSize(buf, float32Size)
	binary.BigEndian.PutUint32(buf, math.Float32bits(val))
}

func readFloat64(val []byte) float64 {
	expectSize(val, float64Size)
	return math.Float64frombits(binary.BigEndian.Uint64(val))
}

func writeFloat64(buf []byte, val float64) {
	expectSize(buf, float64Size)
	binary.BigEndian.PutUint64(buf, math.Float64bits(val))
}

// PayloadSize returns the number of payload bytes |v| occupies on the wire, excluding any length prefix.
// Text payloads include their NUL terminator.
func PayloadSize(v Value) ByteSize {
	switch v := v.(type) {
	case Int64:
		return int64Size
	case Bool:
		return boolSize
	case Float64:
		return float64Size
	case Int32:
		return int32Size
	case Float32:
		return float32Size
	case Int16:
		return int16Size
	case Bytes:
		return ByteSize(len(v))
	case Text:
		return ByteSize(len(v)) + 1
	default:
		panic("unknown value type")
	}
}

// WritePayload writes the wire form of |v| into |buf|, which must be exactly PayloadSize(v) bytes.
func WritePayload(buf []byte, v Value) {
	switch v := v.(type) {
	case Int64:
		writeInt64(buf, int64(v))
	case Bool:
		writeBool(buf, bool(v))
	case Float64:
		writeFloat64(buf, float64(v))
	case Int32:
		writeInt32(buf, int32(v))
	case Float32:
		writeFloat32(buf, float32(v))
	case Int16:
		writeInt16(buf, int16(v))
	case Bytes:
		expectSize(buf, ByteSize(len(v)))
		copy(buf, v)
	case Text:
		expectSize(buf, ByteSize(len(v))+1)
		copy(buf, v)
		buf[len(v)] = 0
	default:
		panic("unknown value type")
	}
}

// ReadFixed decodes the payload of a fixed length tag. |buf| must be exactly the tag's fixed size.
func ReadFixed(t TypeTag, buf []byte) Value {
	switch t {
	case Int8Tag:
		return Int64(readInt64(buf))
	case BoolTag:
		return Bool(readBool(buf))
	case Float8Tag:
		return Float64(readFloat64(buf))
	case Int4Tag:
		return Int32(readInt32(buf))
	case Float4Tag:
		return Float32(readFloat32(buf))
	case Int2Tag:
		return Int16(readInt16(buf))
	default:
		panic("not a fixed length tag: " + t.String())
	}
}

// AlignUp rounds |pos| up to the next multiple of |align|, which must be a power of two.
func AlignUp(pos, align ByteSize) ByteSize {
	return (pos + align - 1) &^ (align - 1)
}

func expectSize(buf []byte, sz ByteSize) {
	if ByteSize(len(buf)) != sz {
		panic("byte slice is not of expected size")
	}
}
