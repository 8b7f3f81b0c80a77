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

	"github.com/rowbridge/rowbridge/libraries/rowcore/table"
)

// splitLine splits a located line into fields. The unescaped fields are stored one after another in recordBuffer
// and fieldIndexes holds the end of each. For the line `a;b\;c;;d` recordBuffer will contain `ab;cd` and
// fieldIndexes [1, 4, 4, 5], with the third field null.
func (p *Parser) splitLine(line []byte) error {
	p.recordBuffer = p.recordBuffer[:0]
	p.fieldIndexes = p.fieldIndexes[:0]
	p.nulls = p.nulls[:0]

	var err error
	if p.cfg.HasQuote {
		err = p.splitQuoted(line)
	} else {
		err = p.splitUnquoted(line)
	}
	if err != nil {
		return err
	}

	if len(p.fieldIndexes) < p.sch.Count() {
		return table.ErrColumnCountMismatch.New("few", p.sch.Count())
	}
	return nil
}

func (p *Parser) splitUnquoted(line []byte) error {
	delim := p.cfg.Delim
	start := 0
	for {
		end, found := p.findUnescaped(line, start, delim)
		if !found {
			end = len(line)
		}

		if err := p.addField(line[start:end], p.unescapeUnquoted); err != nil {
			return err
		}

		if !found {
			return nil
		}
		p.state.SawDelim = true
		start = end + len(delim)
	}
}

// splitQuoted splits a line of the form `"a";"b";"c"`. Fields are separated by quote+delimiter+quote.
func (p *Parser) splitQuoted(line []byte) error {
	quote := p.cfg.Quote
	if len(line) == 0 || line[0] != quote {
		return table.ErrMissingQuote.New("opening")
	}
	if len(line) < 2 || line[len(line)-1] != quote {
		return table.ErrMissingQuote.New("closing")
	}

	inner := line[1 : len(line)-1]
	qd := p.cfg.quoteDelim
	start := 0
	for {
		end, found := p.findUnescaped(inner, start, qd)
		if !found {
			end = len(inner)
		}

		if err := p.addField(inner[start:end], p.unescapeQuoted); err != nil {
			return err
		}

		if !found {
			return nil
		}
		p.state.SawDelim = true

		next := end + len(qd)
		if next >= len(inner) || inner[next] != quote {
			return table.ErrMissingQuote.New("opening")
		}
		start = next + 1
	}
}

type unescapeFunc func(dst, field []byte, col int) ([]byte, error)

func (p *Parser) addField(field []byte, unescape unescapeFunc) error {
	col := len(p.fieldIndexes)
	if col >= p.sch.Count() {
		return table.ErrColumnCountMismatch.New("many", p.sch.Count())
	}

	if len(field) == 0 {
		p.nulls = append(p.nulls, true)
		p.fieldIndexes = append(p.fieldIndexes, len(p.recordBuffer))
		return nil
	}

	var err error
	if p.cfg.HasEscape || p.cfg.HasQuote {
		p.recordBuffer, err = unescape(p.recordBuffer, field, col)
		if err != nil {
			return err
		}
	} else {
		p.recordBuffer = append(p.recordBuffer, field...)
	}

	p.nulls = append(p.nulls, false)
	p.fieldIndexes = append(p.fieldIndexes, len(p.recordBuffer))
	return nil
}

// unescapeQuoted resolves escape+escape and escape+quote. Other escape pairs are kept as is. A quote that is not
// escaped is an error.
func (p *Parser) unescapeQuoted(dst, field []byte, col int) ([]byte, error) {
	quote, esc, hasEsc := p.cfg.Quote, p.cfg.Escape, p.cfg.HasEscape
	for i := 0; i < len(field); {
		b := field[i]
		if hasEsc && b == esc && i+1 < len(field) && (field[i+1] == esc || field[i+1] == quote) {
			dst = append(dst, field[i+1])
			i += 2
			continue
		}

		if b == quote {
			return dst, table.ErrUnescapedQuote.New(col + 1)
		}

		dst = append(dst, b)
		i++
	}
	return dst, nil
}

// unescapeUnquoted resolves escape+escape, escape+delimiter and escape+EOL. Other escape pairs are kept as is.
func (p *Parser) unescapeUnquoted(dst, field []byte, col int) ([]byte, error) {
	esc := p.cfg.Escape
	for i := 0; i < len(field); {
		b := field[i]
		if b != esc || i+1 >= len(field) {
			dst = append(dst, b)
			i++
			continue
		}

		next := field[i+1:]
		switch {
		case next[0] == esc:
			dst = append(dst, esc)
			i += 2
		case bytes.HasPrefix(next, p.cfg.EOL):
			dst = append(dst, p.cfg.EOL...)
			i += 1 + len(p.cfg.EOL)
		case bytes.HasPrefix(next, p.cfg.Delim):
			dst = append(dst, p.cfg.Delim...)
			i += 1 + len(p.cfg.Delim)
		default:
			dst = append(dst, b)
			i++
		}
	}
	return dst, nil
}
