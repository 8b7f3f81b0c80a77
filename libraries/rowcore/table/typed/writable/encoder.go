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

package writable

import (
	"fmt"

	"github.com/rowbridge/rowbridge/d"
	"github.com/rowbridge/rowbridge/libraries/rowcore/schema"
	"github.com/rowbridge/rowbridge/libraries/rowcore/table"
	"github.com/rowbridge/rowbridge/store/val"
)

// Encoder serializes rows of a schema into frames. It reuses one buffer, so an Encoder must not be shared between
// goroutines and each frame is only valid until the next call.
type Encoder struct {
	sch     *schema.Schema
	version uint16
	buf     []byte
}

// EncoderOption configures an Encoder.
type EncoderOption func(enc *Encoder)

// WithVersion sets the frame version written. PrevVersion frames carry no error flag.
func WithVersion(v uint16) EncoderOption {
	return func(enc *Encoder) {
		enc.version = v
	}
}

// NewEncoder creates an Encoder writing Version frames unless configured otherwise.
func NewEncoder(sch *schema.Schema, opts ...EncoderOption) *Encoder {
	enc := &Encoder{sch: sch, version: Version}
	for _, opt := range opts {
		opt(enc)
	}
	d.PanicIfFalse(enc.version == Version || enc.version == PrevVersion, "unsupported frame version")
	return enc
}

func (enc *Encoder) header() int {
	if enc.version == PrevVersion {
		return prevHeaderSize
	}
	return headerSize
}

// checkRow verifies that every value of |r| can be written as its column's tag.
func (enc *Encoder) checkRow(r val.Row) error {
	if len(r) != enc.sch.Count() {
		return table.ErrSchemaMismatch.New(fmt.Sprintf("row has %d values, schema has %d columns", len(r), enc.sch.Count()))
	}

	for i, v := range r {
		col := enc.sch.GetByIndex(i)
		if v == nil || col.Dropped {
			continue
		}
		if v.Tag() != col.Tag() {
			return table.ErrSchemaMismatch.New(fmt.Sprintf("column %d (%s): expected %s, got %s", i+1, col.Name, col.Tag(), v.Tag()))
		}
	}

	return nil
}

// frameSize computes the total frame length for |r|.
func (enc *Encoder) frameSize(r val.Row) int {
	n := enc.sch.EffectiveCount()
	pos := enc.header() + n + nullBitmapSize(n)

	for i := 0; i < n; i++ {
		v := r[enc.sch.Effective(i)]
		if v == nil {
			continue
		}

		pos = alignUp(pos, payloadAlign(v.Tag()))
		if v.Tag().IsVarLen() {
			pos += lengthSize
		}
		pos += int(val.PayloadSize(v))
	}

	return alignUp(pos, frameAlign)
}

// Encode serializes |r|, which must hold a value or nil for every column of the schema. Values of dropped columns
// are ignored. The returned slice is only valid until the next call to Encode.
func (enc *Encoder) Encode(r val.Row) ([]byte, error) {
	if err := enc.checkRow(r); err != nil {
		return nil, err
	}

	total := enc.frameSize(r)
	if cap(enc.buf) < total {
		enc.buf = make([]byte, total)
	}
	buf := enc.buf[:total]
	for i := range buf {
		buf[i] = 0
	}

	n := enc.sch.EffectiveCount()
	val.WriteUint32(buf[0:4], uint32(total))
	val.WriteUint16(buf[4:6], enc.version)
	pos := 6
	if enc.version == Version {
		// error flag stays 0
		pos++
	}
	val.WriteUint16(buf[pos:pos+2], uint16(n))
	pos += 2

	for i := 0; i < n; i++ {
		col := enc.sch.GetByIndex(enc.sch.Effective(i))
		buf[pos] = byte(col.Tag())
		pos++
	}

	bitmap := buf[pos : pos+nullBitmapSize(n)]
	pos += len(bitmap)

	for i := 0; i < n; i++ {
		v := r[enc.sch.Effective(i)]
		if v == nil {
			setNull(bitmap, i)
			continue
		}

		pos = alignUp(pos, payloadAlign(v.Tag()))
		sz := int(val.PayloadSize(v))
		if v.Tag().IsVarLen() {
			val.WriteUint32(buf[pos:pos+lengthSize], uint32(sz))
			pos += lengthSize
		}
		val.WritePayload(buf[pos:pos+sz], v)
		pos += sz
	}

	pos = alignUp(pos, frameAlign)
	d.Chk.Equal(total, pos, "encoded frame length does not match declared length")

	return buf, nil
}

// EncodeError creates a Version frame with the error flag set, carrying |msg| as a single text column. A Decoder
// reading it returns ErrEmbeddedUpstream with the message.
func EncodeError(msg string) []byte {
	// header, one tag, one bitmap byte, then the length prefix at the next 4 byte boundary
	lenPos := alignUp(headerSize+1+1, varLenAlign)
	msgPos := lenPos + lengthSize
	d.PanicIfFalse(msgPos == headerSize-colCountSize+errColOffset, "error message offset")

	total := alignUp(msgPos+len(msg)+1, frameAlign)
	buf := make([]byte, total)

	val.WriteUint32(buf[0:4], uint32(total))
	val.WriteUint16(buf[4:6], Version)
	buf[6] = 1
	val.WriteUint16(buf[7:9], 1)
	buf[9] = byte(val.TextTag)
	val.WriteUint32(buf[lenPos:msgPos], uint32(len(msg)+1))
	copy(buf[msgPos:], msg)

	return buf
}
