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

package table

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/rowbridge/rowbridge/libraries/rowcore/schema"
	"github.com/rowbridge/rowbridge/store/val"
)

// ReadBufSize is the initial size of a StreamReader's buffer. It doubles whenever a single row does not fit.
const ReadBufSize = 256 * 1024

// DecodeFunc decodes at most one row from |buf| starting at |cursor|. All of |buf| is buffered input; |eos| is set
// once no more bytes will be appended. On success it returns the row and the number of bytes the row occupied.
// ErrNeedMoreData asks for a retry with more bytes. A *BadRow error returns the length of its span so the caller
// can skip it. io.EOF is returned when |cursor| is at the end of the buffer and |eos| is set.
type DecodeFunc func(buf []byte, cursor int, eos bool) (val.Row, int, error)

// StreamReader is a TableReadCloser that drives a DecodeFunc from an io.Reader, or from a single buffer that
// already holds the whole stream.
type StreamReader struct {
	sch    *schema.Schema
	decode DecodeFunc
	rd     io.Reader
	closer io.Closer

	buf    []byte
	cursor int
	end    int
	eos    bool

	// offset of buf[0] from the start of the stream
	base  int64
	fatal error
}

var _ TableReadCloser = (*StreamReader)(nil)

// NewStreamReader creates a reader pulling bytes from |rd|. If |rd| is an io.Closer it is closed by Close.
func NewStreamReader(sch *schema.Schema, rd io.Reader, decode DecodeFunc) *StreamReader {
	closer, _ := rd.(io.Closer)
	return &StreamReader{
		sch:    sch,
		decode: decode,
		rd:     rd,
		closer: closer,
		buf:    make([]byte, ReadBufSize),
	}
}

// NewBufferReader creates a reader over a complete stream held in |buf|, such as a memory mapped file. |buf| is
// not copied and must not change while the reader is in use.
func NewBufferReader(sch *schema.Schema, buf []byte, decode DecodeFunc) *StreamReader {
	return &StreamReader{
		sch:    sch,
		decode: decode,
		buf:    buf,
		end:    len(buf),
		eos:    true,
	}
}

// SetCloser sets what Close releases, such as the mapping behind a buffer reader.
func (sr *StreamReader) SetCloser(c io.Closer) {
	sr.closer = c
}

// GetSchema gets the schema of the rows that this reader will return
func (sr *StreamReader) GetSchema() *schema.Schema {
	return sr.sch
}

// Offset returns the stream offset of the next unread byte.
func (sr *StreamReader) Offset() int64 {
	return sr.base + int64(sr.cursor)
}

// BufferBase returns the stream offset of the buffer that the spans of the last BadRow are relative to. It is
// valid until the next call to ReadRow.
func (sr *StreamReader) BufferBase() int64 {
	return sr.base
}

// ReadRow reads the next row. Bad rows are skipped over before their error is returned, so the next call continues
// with the following row. After a fatal error every call returns that error.
func (sr *StreamReader) ReadRow(ctx context.Context) (val.Row, error) {
	for {
		if sr.fatal != nil {
			return nil, sr.fatal
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		r, n, err := sr.decode(sr.buf[:sr.end], sr.cursor, sr.eos)

		switch {
		case err == nil:
			sr.cursor += n
			return r, nil

		case err == io.EOF:
			return nil, io.EOF

		case ErrNeedMoreData.Is(err):
			if sr.eos {
				sr.fatal = errors.Wrap(err, "decoder requested more data after end of stream")
				return nil, sr.fatal
			}

			if err := sr.fill(); err != nil {
				sr.fatal = err
				return nil, err
			}

		case IsBadRow(err):
			br := GetBadRow(err)
			skip := br.Start + br.Len - sr.cursor
			if IsFatal(err) || skip <= 0 {
				sr.fatal = err
				return nil, err
			}

			sr.cursor += skip
			return nil, err

		default:
			sr.fatal = err
			return nil, err
		}
	}
}

// fill compacts unread bytes to the front of the buffer, grows it if it is full, then reads more input.
func (sr *StreamReader) fill() error {
	if sr.rd == nil {
		sr.eos = true
		return nil
	}

	if sr.cursor > 0 {
		copy(sr.buf, sr.buf[sr.cursor:sr.end])
		sr.base += int64(sr.cursor)
		sr.end -= sr.cursor
		sr.cursor = 0
	}

	if sr.end == len(sr.buf) {
		newBuf := make([]byte, len(sr.buf)*2)
		copy(newBuf, sr.buf[:sr.end])
		sr.buf = newBuf
	}

	n, err := sr.rd.Read(sr.buf[sr.end:])
	sr.end += n

	if err == io.EOF {
		sr.eos = true
		return nil
	}

	return err
}

// Close should release resources being held
func (sr *StreamReader) Close(ctx context.Context) error {
	if sr.closer != nil {
		return sr.closer.Close()
	}
	return nil
}
