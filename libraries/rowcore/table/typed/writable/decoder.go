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
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rowbridge/rowbridge/libraries/rowcore/rowstats"
	"github.com/rowbridge/rowbridge/libraries/rowcore/schema"
	"github.com/rowbridge/rowbridge/libraries/rowcore/table"
	"github.com/rowbridge/rowbridge/store/pool"
	"github.com/rowbridge/rowbridge/store/val"
)

// FormatName identifies this codec in logs and metrics.
const FormatName = "writable"

// Decoder reads frames of a schema from a buffer one at a time. It keeps per stream state and must not be shared
// between streams or goroutines.
type Decoder struct {
	sch    *schema.Schema
	logger *logrus.Entry
	stats  *rowstats.Stats
	arena  *pool.Arena

	rowNum int

	// row scratch
	texts []textSpan
}

type textSpan struct {
	ord        int
	start, end int
}

// DecoderOption configures a Decoder.
type DecoderOption func(dec *Decoder)

// WithLogger sets the entry diagnostics are logged to.
func WithLogger(logger *logrus.Entry) DecoderOption {
	return func(dec *Decoder) {
		dec.logger = logger
	}
}

// WithStats sets the counters updated for each frame.
func WithStats(stats *rowstats.Stats) DecoderOption {
	return func(dec *Decoder) {
		dec.stats = stats
	}
}

// NewDecoder creates a Decoder for a new stream.
func NewDecoder(sch *schema.Schema, opts ...DecoderOption) *Decoder {
	dec := &Decoder{
		sch:   sch,
		arena: pool.NewArena(0),
	}
	for _, opt := range opts {
		opt(dec)
	}
	if dec.logger == nil {
		dec.logger = logrus.NewEntry(logrus.StandardLogger())
	}
	dec.logger = dec.logger.WithFields(logrus.Fields{
		"stream": uuid.NewString(),
		"format": FormatName,
	})
	return dec
}

// RowNum returns the number of frames seen so far, including rejected ones.
func (dec *Decoder) RowNum() int {
	return dec.rowNum
}

// Decode reads the frame starting at |cursor|. |buf| holds all buffered bytes and |eos| is set once no more will
// follow. On success it returns the row and the frame length. An incomplete frame returns ErrNeedMoreData, or an
// ErrTruncated bad row at end of stream. io.EOF is returned when no bytes remain at end of stream.
func (dec *Decoder) Decode(buf []byte, cursor int, eos bool) (val.Row, int, error) {
	r, n, err := dec.decode(buf, cursor, eos)
	if err == nil {
		dec.stats.RowRead(n)
	} else if table.IsBadRow(err) {
		dec.stats.BadRow(n)
	}
	return r, n, err
}

func (dec *Decoder) decode(buf []byte, cursor int, eos bool) (val.Row, int, error) {
	remaining := len(buf) - cursor
	if remaining == 0 && eos {
		return nil, 0, io.EOF
	}

	if remaining < lengthSize {
		return dec.needMore(cursor, remaining, eos, "frame length")
	}

	total := int(val.ReadUint32(buf[cursor : cursor+lengthSize]))
	if total < minFrameSize || total%frameAlign != 0 {
		// the start of the next frame is unknown
		return nil, remaining, table.NewBadRow(cursor, remaining, table.ErrFrameLength.New(total))
	}

	if remaining < total {
		return dec.needMore(cursor, remaining, eos, "frame")
	}

	dec.rowNum++
	r, err := dec.decodeFrame(buf[cursor:cursor+total], cursor)
	if err != nil {
		return nil, total, err
	}

	return r, total, nil
}

func (dec *Decoder) needMore(cursor, remaining int, eos bool, what string) (val.Row, int, error) {
	if !eos {
		return nil, 0, table.ErrNeedMoreData.New()
	}
	return nil, remaining, table.NewBadRow(cursor, remaining, table.ErrTruncated.New(fmt.Sprintf("%d bytes left, incomplete %s", remaining, what)))
}

func (dec *Decoder) badFrame(frame []byte, start int, cause error, details ...string) *table.BadRow {
	details = append(details, fmt.Sprintf("row %d", dec.rowNum))
	return table.NewBadRow(start, len(frame), cause, details...)
}

// decodeFrame decodes a complete frame. |start| is the frame's offset in the caller's buffer.
func (dec *Decoder) decodeFrame(frame []byte, start int) (val.Row, error) {
	total := len(frame)
	pos := lengthSize

	version := val.ReadUint16(frame[pos : pos+versionSize])
	pos += versionSize
	if version != Version && version != PrevVersion {
		return nil, dec.badFrame(frame, start, table.ErrProtocolVersionUnsupported.New(version))
	}

	if version == Version {
		errFlag := frame[pos]
		pos += errorFlagSize

		if errFlag != 0 {
			return nil, dec.badFrame(frame, start, table.ErrEmbeddedUpstream.New(errorMessage(frame, pos+errColOffset)))
		}
	}

	if total-pos < colCountSize {
		return nil, dec.badFrame(frame, start, table.ErrTruncated.New("frame header"))
	}

	n := int(val.ReadUint16(frame[pos : pos+colCountSize]))
	pos += colCountSize

	if n != dec.sch.EffectiveCount() {
		return nil, dec.badFrame(frame, start, table.ErrSchemaMismatch.New(fmt.Sprintf("expected %d columns, frame has %d", dec.sch.EffectiveCount(), n)))
	}

	bitmapLen := nullBitmapSize(n)
	if total-pos < n+bitmapLen {
		return nil, dec.badFrame(frame, start, table.ErrTruncated.New("column types and null bitmap"))
	}

	if err := dec.checkTags(frame[pos:pos+n], frame, start); err != nil {
		return nil, err
	}
	pos += n

	bitmap := frame[pos : pos+bitmapLen]
	pos += bitmapLen

	// a row's byte values share one chunk
	dec.arena.Reserve(total)
	dec.texts = dec.texts[:0]
	textBytes := 0

	// dropped columns are left nil
	r := make(val.Row, dec.sch.Count())

	for i := 0; i < n; i++ {
		if isNull(bitmap, i) {
			continue
		}

		ord := dec.sch.Effective(i)
		tag := dec.sch.GetByIndex(ord).Tag()

		var length int
		if tag.IsVarLen() {
			pos = alignUp(pos, varLenAlign)
			if total-pos < lengthSize {
				return nil, dec.corrupt(frame, start, lengthSize, ord, pos)
			}
			length = int(int32(val.ReadUint32(frame[pos : pos+lengthSize])))
			pos += lengthSize
		} else {
			pos = alignUp(pos, int(tag.Alignment()))
			sz, _ := tag.FixedSize()
			length = int(sz)
		}

		if length < 0 || total-pos < length {
			return nil, dec.corrupt(frame, start, length, ord, pos)
		}

		data := frame[pos : pos+length]
		switch tag {
		case val.TextTag:
			actual := bytes.IndexByte(data, 0)
			if actual < 0 {
				actual = length
			}
			if actual != length-1 {
				dec.stats.SoftDiagnostic()
				dec.logger.Debugf("expected column %d of row %d to have length %d, actual length is %d", ord+1, dec.rowNum, length-1, actual)
			}
			dec.texts = append(dec.texts, textSpan{ord, pos, pos + actual})
			textBytes += actual
		case val.BytesTag:
			b := dec.arena.Get(uint64(length))
			copy(b, data)
			r[ord] = val.Bytes(b)
		default:
			r[ord] = val.ReadFixed(tag, data)
		}

		pos += length
	}

	if end := alignUp(pos, frameAlign); end != total {
		return nil, dec.badFrame(frame, start, table.ErrFrameLength.New(total), fmt.Sprintf("payload ends at %d", end))
	}

	dec.materializeText(r, frame, textBytes)

	if err := dec.convertText(r); err != nil {
		return nil, dec.badFrame(frame, start, err)
	}

	return r, nil
}

// convertText runs the column converters over the text payloads of |r|, replacing each with its parsed value.
func (dec *Decoder) convertText(r val.Row) error {
	for _, ts := range dec.texts {
		col := dec.sch.GetByIndex(ts.ord)
		v, err := col.TypeInfo.ParseText(string(r[ts.ord].(val.Text)))
		if err != nil {
			return table.ErrColumnConversion.New(ts.ord+1, col.Name, err.Error())
		}
		r[ts.ord] = v
	}
	return nil
}

// checkTags compares incoming type tags with the schema. If either side is binary the tags must match. Every
// mismatch is reported together.
func (dec *Decoder) checkTags(tags, frame []byte, start int) error {
	var mismatches []string
	for i, b := range tags {
		ord := dec.sch.Effective(i)
		col := dec.sch.GetByIndex(ord)

		tag, ok := val.TagFromByte(b)
		if !ok {
			return dec.badFrame(frame, start, table.ErrUnknownTypeTag.New(b, ord+1))
		}

		if (tag.IsBinary() || col.Tag().IsBinary()) && tag != col.Tag() {
			mismatches = append(mismatches, fmt.Sprintf("column %d (%s) expects %s, got %s", ord+1, col.Name, col.Tag(), tag))
		}
	}

	if len(mismatches) > 0 {
		return dec.badFrame(frame, start, table.ErrSchemaMismatch.New(strings.Join(mismatches, "; ")), mismatches...)
	}

	return nil
}

func (dec *Decoder) corrupt(frame []byte, start, length, ord, pos int) *table.BadRow {
	return dec.badFrame(frame, start, table.ErrCorruptPayloadLength.New(length, ord+1, pos),
		fmt.Sprintf("total length for frame is %d bytes, remaining bytes is %d", len(frame), len(frame)-pos))
}

// materializeText copies all text payloads of a row into one string and slices the column values out of it.
func (dec *Decoder) materializeText(r val.Row, frame []byte, textBytes int) {
	if len(dec.texts) == 0 {
		return
	}

	var sb strings.Builder
	sb.Grow(textBytes)
	for _, ts := range dec.texts {
		sb.Write(frame[ts.start:ts.end])
	}

	s := sb.String()
	off := 0
	for _, ts := range dec.texts {
		l := ts.end - ts.start
		r[ts.ord] = val.Text(s[off : off+l])
		off += l
	}
}

// errorMessage returns the text from |pos| to the first NUL or the end of the frame.
func errorMessage(frame []byte, pos int) string {
	if pos >= len(frame) {
		return ""
	}
	msg := frame[pos:]
	if idx := bytes.IndexByte(msg, 0); idx >= 0 {
		msg = msg[:idx]
	}
	return string(msg)
}
