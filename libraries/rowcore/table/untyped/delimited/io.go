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

package delimited

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/rowbridge/rowbridge/libraries/rowcore/rowstats"
	"github.com/rowbridge/rowbridge/libraries/rowcore/schema"
	"github.com/rowbridge/rowbridge/libraries/rowcore/table"
	"github.com/rowbridge/rowbridge/store/val"
)

// WriteBufSize is the size of the buffer used when writing delimited files.
var WriteBufSize = 256 * 1024

// NewReader creates a reader of the lines streamed from |rd|.
func NewReader(sch *schema.Schema, rd io.Reader, cfg *Config, opts ...ParserOption) *table.StreamReader {
	p := NewParser(sch, cfg, opts...)
	return table.NewStreamReader(sch, rd, p.ParseLine)
}

// NewBufferReader creates a reader of the lines held in |buf|.
func NewBufferReader(sch *schema.Schema, buf []byte, cfg *Config, opts ...ParserOption) *table.StreamReader {
	p := NewParser(sch, cfg, opts...)
	return table.NewBufferReader(sch, buf, p.ParseLine)
}

// Writer renders rows in the delimited format described by a Config. In quoted mode every field is quoted. NULL
// is written as an empty field, so empty strings do not survive a round trip.
type Writer struct {
	closer io.Closer
	bWr    *bufio.Writer
	sch    *schema.Schema
	cfg    *Config
	stats  *rowstats.Stats

	line []byte
}

var _ table.TableWriteCloser = (*Writer)(nil)

// NewWriter creates a Writer. If |wr| is an io.Closer it is closed by Close. |stats| may be nil.
func NewWriter(sch *schema.Schema, wr io.Writer, cfg *Config, stats *rowstats.Stats) *Writer {
	cfg.init()
	closer, _ := wr.(io.Closer)
	return &Writer{
		closer: closer,
		bWr:    bufio.NewWriterSize(wr, WriteBufSize),
		sch:    sch,
		cfg:    cfg,
		stats:  stats,
	}
}

// GetSchema gets the schema of the rows that this writer writes
func (w *Writer) GetSchema() *schema.Schema {
	return w.sch
}

// WriteRow will write a row to a table
func (w *Writer) WriteRow(ctx context.Context, r val.Row) error {
	if len(r) != w.sch.Count() {
		return table.ErrSchemaMismatch.New(fmt.Sprintf("expected %d columns, row has %d", w.sch.Count(), len(r)))
	}

	w.line = w.line[:0]
	for i, v := range r {
		if i > 0 {
			w.line = append(w.line, w.cfg.Delim...)
		}

		col := w.sch.GetByIndex(i)
		var s string
		if v != nil && !col.Dropped {
			var err error
			s, err = col.TypeInfo.FormatText(v)
			if err != nil {
				return table.ErrColumnConversion.New(i+1, col.Name, err.Error())
			}
		}

		var err error
		if w.cfg.HasQuote {
			w.line = w.appendQuoted(w.line, s)
		} else if w.line, err = w.appendUnquoted(w.line, s); err != nil {
			return table.ErrColumnConversion.New(i+1, col.Name, err.Error())
		}
	}

	out, err := w.cfg.Charset.FromUTF8(w.line)
	if err != nil {
		return table.ErrEncodingConversion.Wrap(err, "row")
	}

	if _, err = w.bWr.Write(out); err != nil {
		return errors.Wrap(err, "writing line")
	}
	if _, err = w.bWr.Write(w.cfg.EOL); err != nil {
		return errors.Wrap(err, "writing line")
	}

	w.stats.RowWritten(len(out) + len(w.cfg.EOL))
	return nil
}

func (w *Writer) appendQuoted(dst []byte, s string) []byte {
	quote, esc := w.cfg.Quote, w.cfg.Escape
	dst = append(dst, quote)
	for i := 0; i < len(s); i++ {
		if s[i] == quote || s[i] == esc {
			dst = append(dst, esc)
		}
		dst = append(dst, s[i])
	}
	return append(dst, quote)
}

func (w *Writer) appendUnquoted(dst []byte, s string) ([]byte, error) {
	b := []byte(s)
	if !w.cfg.HasEscape {
		if bytes.Contains(b, w.cfg.Delim) || bytes.Contains(b, w.cfg.EOL) {
			return dst, errors.New("value contains the delimiter or line end and no escape is configured")
		}
		return append(dst, b...), nil
	}

	esc := w.cfg.Escape
	for i := 0; i < len(b); {
		rest := b[i:]
		switch {
		case rest[0] == esc:
			dst = append(dst, esc, esc)
			i++
		case bytes.HasPrefix(rest, w.cfg.EOL):
			dst = append(dst, esc)
			dst = append(dst, w.cfg.EOL...)
			i += len(w.cfg.EOL)
		case bytes.HasPrefix(rest, w.cfg.Delim):
			dst = append(dst, esc)
			dst = append(dst, w.cfg.Delim...)
			i += len(w.cfg.Delim)
		default:
			dst = append(dst, rest[0])
			i++
		}
	}
	return dst, nil
}

// Close should flush all writes, release resources being held
func (w *Writer) Close(ctx context.Context) error {
	err := w.bWr.Flush()

	if w.closer != nil {
		cerr := w.closer.Close()
		w.closer = nil
		if err == nil {
			err = cerr
		}
	}

	return err
}
