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
	"bytes"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rowbridge/rowbridge/libraries/rowcore/rowstats"
	"github.com/rowbridge/rowbridge/libraries/rowcore/schema"
	"github.com/rowbridge/rowbridge/libraries/rowcore/table"
	"github.com/rowbridge/rowbridge/store/val"
)

// FormatName identifies this format in logs and metrics.
const FormatName = "delimited"

// ParseState is kept for the life of a stream.
type ParseState struct {
	// LineNum is the number of lines located so far, including rejected ones.
	LineNum int
	// SawDelim is set once any line has been split on a delimiter.
	SawDelim bool
}

// Parser splits delimited lines into rows of a schema. It keeps per stream state and must not be shared between
// streams or goroutines.
type Parser struct {
	sch    *schema.Schema
	cfg    *Config
	logger *logrus.Entry
	stats  *rowstats.Stats
	state  ParseState

	// row scratch, see splitLine
	recordBuffer []byte
	fieldIndexes []int
	nulls        []bool
}

// ParserOption configures a Parser.
type ParserOption func(p *Parser)

// WithLogger sets the entry diagnostics are logged to.
func WithLogger(logger *logrus.Entry) ParserOption {
	return func(p *Parser) {
		p.logger = logger
	}
}

// WithStats sets the counters updated for each line.
func WithStats(stats *rowstats.Stats) ParserOption {
	return func(p *Parser) {
		p.stats = stats
	}
}

// NewParser creates a Parser for a new stream.
func NewParser(sch *schema.Schema, cfg *Config, opts ...ParserOption) *Parser {
	cfg.init()
	p := &Parser{sch: sch, cfg: cfg}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logrus.NewEntry(logrus.StandardLogger())
	}
	p.logger = p.logger.WithFields(logrus.Fields{
		"stream": uuid.NewString(),
		"format": FormatName,
	})
	return p
}

// State returns the stream state.
func (p *Parser) State() ParseState {
	return p.state
}

// ParseLine parses the line starting at |cursor|. |buf| holds all buffered bytes and |eos| is set once no more
// will follow. On success it returns the row and the length of the line including its terminator. A line whose
// end is not buffered returns ErrNeedMoreData, or a bad row at end of stream. io.EOF is returned when no bytes
// remain at end of stream.
func (p *Parser) ParseLine(buf []byte, cursor int, eos bool) (val.Row, int, error) {
	r, n, err := p.parseLine(buf, cursor, eos)
	if err == nil {
		p.stats.RowRead(n)
	} else if table.IsBadRow(err) {
		p.stats.BadRow(n)
		p.logger.Debugf("rejected %s: %v", table.GetBadRow(err).Span(), table.RootCause(err))
	}
	return r, n, err
}

func (p *Parser) parseLine(buf []byte, cursor int, eos bool) (val.Row, int, error) {
	data := buf[cursor:]
	if len(data) == 0 && eos {
		return nil, 0, io.EOF
	}

	end, found := p.locate(data, eos)
	if !found {
		if !eos {
			return nil, 0, table.ErrNeedMoreData.New()
		}
		return nil, len(data), p.unterminated(cursor, len(data))
	}

	p.state.LineNum++
	n := end + len(p.cfg.EOL)
	line := data[:end]

	if !p.cfg.Charset.IsUTF8() {
		conv, err := p.cfg.Charset.ToUTF8(line)
		if err != nil {
			return nil, n, p.badLine(cursor, n, table.ErrEncodingConversion.New(err.Error()))
		}
		line = conv
	}

	if err := p.splitLine(line); err != nil {
		return nil, n, p.badLine(cursor, n, err)
	}

	r, err := p.convert()
	if err != nil {
		return nil, n, p.badLine(cursor, n, err)
	}

	return r, n, nil
}

func (p *Parser) badLine(start, n int, cause error, details ...string) *table.BadRow {
	details = append(details, fmt.Sprintf("line %d", p.state.LineNum))
	return table.NewBadRow(start, n, cause, details...)
}

// unterminated reports the bytes left at end of stream when no line end could be found.
func (p *Parser) unterminated(start, n int) *table.BadRow {
	if p.sch.Count() > 1 && !p.state.SawDelim {
		return table.NewBadRow(start, n, table.ErrMissingDelimiter.New(p.sch.Count()), p.cfg.String())
	}
	return table.NewBadRow(start, n, table.ErrTruncated.New(fmt.Sprintf("%d bytes left without a line end", n)))
}

// convert hands the fields collected by splitLine to the column converters. All text shares one allocation.
func (p *Parser) convert() (val.Row, error) {
	str := string(p.recordBuffer)
	r := make(val.Row, p.sch.Count())

	var preIdx int
	for i, idx := range p.fieldIndexes {
		s := str[preIdx:idx]
		preIdx = idx

		col := p.sch.GetByIndex(i)
		if p.nulls[i] || col.Dropped {
			continue
		}

		v, err := col.TypeInfo.ParseText(s)
		if err != nil {
			return nil, table.ErrColumnConversion.New(i+1, col.Name, err.Error())
		}
		r[i] = v
	}

	return r, nil
}

// locate returns the length of the line at the start of |data|, excluding its terminator.
func (p *Parser) locate(data []byte, eos bool) (int, bool) {
	if !p.cfg.HasQuote {
		return p.findUnescaped(data, 0, p.cfg.EOL)
	}

	qe := p.cfg.quoteEOL
	from := 0
	for {
		idx := bytes.Index(data[from:], qe)
		if idx < 0 {
			return 0, false
		}
		q := from + idx

		// the escape parity of a quote is ambiguous when the escape is the quote itself
		if !p.cfg.quoteEscapes() && p.cfg.escapedAt(data, 0, q) {
			from = q + 1
			continue
		}

		if !p.suspicious(data, q) {
			return q + 1, true
		}

		end, st := p.scanQuoted(data)
		switch st {
		case scanFound:
			return end, true
		case scanNeedMore:
			if !eos {
				return 0, false
			}
		}

		// malformed lines are reported by splitLine
		return q + 1, true
	}
}

// suspicious returns true if the quote+EOL at |q| may be inside a field rather than ending the line, as in
// `"a";"\n b"` or `"\n"`.
func (p *Parser) suspicious(data []byte, q int) bool {
	if q == 0 {
		return true
	}
	if bytes.HasSuffix(data[:q], p.cfg.Delim) {
		return true
	}
	return p.cfg.quoteEscapes() && data[q-1] == p.cfg.Quote
}

type scanStatus int

const (
	scanFound scanStatus = iota
	scanNeedMore
	scanMalformed
)

// scanQuoted walks a quoted line field by field: each field opens with the quote, runs to its closing unescaped
// quote and is followed by the delimiter or, for the last field, the line end. It returns the length of the line
// excluding its terminator.
func (p *Parser) scanQuoted(data []byte) (int, scanStatus) {
	quote, esc := p.cfg.Quote, p.cfg.Escape
	pos := 0
	for {
		if pos >= len(data) {
			return 0, scanNeedMore
		}
		if data[pos] != quote {
			return 0, scanMalformed
		}

		// find the closing quote
		pos++
		for {
			if pos >= len(data) {
				return 0, scanNeedMore
			}

			b := data[pos]
			if p.cfg.HasEscape && b == esc {
				if pos+1 >= len(data) {
					return 0, scanNeedMore
				}
				if esc != quote || data[pos+1] == quote {
					pos += 2
					continue
				}
			}
			if b == quote {
				break
			}
			pos++
		}

		rest := data[pos+1:]
		switch {
		case bytes.HasPrefix(rest, p.cfg.EOL):
			return pos + 1, scanFound
		case bytes.HasPrefix(rest, p.cfg.Delim):
			pos += 1 + len(p.cfg.Delim)
		case bytes.HasPrefix(p.cfg.EOL, rest) || bytes.HasPrefix(p.cfg.Delim, rest):
			return 0, scanNeedMore
		default:
			return 0, scanMalformed
		}
	}
}

// findUnescaped returns the index of the first |sep| in |data| at or after |lo| that is not preceded by an odd
// run of escape bytes.
func (p *Parser) findUnescaped(data []byte, lo int, sep []byte) (int, bool) {
	from := lo
	for {
		idx := bytes.Index(data[from:], sep)
		if idx < 0 {
			return 0, false
		}
		pos := from + idx
		if !p.cfg.escapedAt(data, lo, pos) {
			return pos, true
		}
		from = pos + 1
	}
}
