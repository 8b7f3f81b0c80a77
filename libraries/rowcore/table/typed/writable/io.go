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
	"bufio"
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/rowbridge/rowbridge/libraries/rowcore/rowstats"
	"github.com/rowbridge/rowbridge/libraries/rowcore/schema"
	"github.com/rowbridge/rowbridge/libraries/rowcore/table"
	"github.com/rowbridge/rowbridge/store/val"
)

const writeBufferSize = 256 * 1024

// NewReader creates a reader of frames streamed from |rd|.
func NewReader(sch *schema.Schema, rd io.Reader, opts ...DecoderOption) *table.StreamReader {
	dec := NewDecoder(sch, opts...)
	return table.NewStreamReader(sch, rd, dec.Decode)
}

// NewBufferReader creates a reader of the frames held in |buf|.
func NewBufferReader(sch *schema.Schema, buf []byte, opts ...DecoderOption) *table.StreamReader {
	dec := NewDecoder(sch, opts...)
	return table.NewBufferReader(sch, buf, dec.Decode)
}

// Writer is a TableWriteCloser writing frames to an io.Writer.
type Writer struct {
	closer io.Closer
	bWr    *bufio.Writer
	enc    *Encoder
	stats  *rowstats.Stats
}

var _ table.TableWriteCloser = (*Writer)(nil)

// NewWriter creates a Writer. If |wr| is an io.Closer it is closed by Close. |stats| may be nil.
func NewWriter(sch *schema.Schema, wr io.Writer, stats *rowstats.Stats, opts ...EncoderOption) *Writer {
	closer, _ := wr.(io.Closer)
	return &Writer{
		closer: closer,
		bWr:    bufio.NewWriterSize(wr, writeBufferSize),
		enc:    NewEncoder(sch, opts...),
		stats:  stats,
	}
}

// GetSchema gets the schema of the rows that this writer writes
func (w *Writer) GetSchema() *schema.Schema {
	return w.enc.sch
}

// WriteRow will write a row to a stream
func (w *Writer) WriteRow(ctx context.Context, r val.Row) error {
	frame, err := w.enc.Encode(r)
	if err != nil {
		return err
	}

	if _, err = w.bWr.Write(frame); err != nil {
		return errors.Wrap(err, "writing frame")
	}

	w.stats.RowWritten(len(frame))
	return nil
}

// WriteError writes an error frame carrying |msg|.
func (w *Writer) WriteError(msg string) error {
	_, err := w.bWr.Write(EncodeError(msg))
	return err
}

// Close should flush all writes, release resources being held
func (w *Writer) Close(ctx context.Context) error {
	err := w.bWr.Flush()

	if w.closer != nil {
		cerr := w.closer.Close()
		if err == nil {
			err = cerr
		}
	}

	return err
}
