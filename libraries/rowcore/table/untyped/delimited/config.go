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
	"fmt"
	"strings"

	"gopkg.in/src-d/go-errors.v1"

	"github.com/rowbridge/rowbridge/libraries/utils/charset"
	"github.com/rowbridge/rowbridge/libraries/utils/config"
)

// Option keys recognized by NewConfig. Keys are matched without regard to case.
const (
	DelimiterParam = "delimiter"
	NewlineParam   = "newline"
	EOLParam       = "eol"
	QuoteParam     = "quote"
	EscapeParam    = "escape"
	EncodingParam  = "encoding"
)

var ErrMissingDelimiterOption = errors.NewKind("missing delimiter option")
var ErrInvalidNewline = errors.NewKind("NEWLINE can only be LF, CRLF, or CR, got '%s'")
var ErrInvalidQuote = errors.NewKind("quote option must be a single character, got '%s'")
var ErrInvalidEscape = errors.NewKind("escape option must be a single character, got '%s'")
var ErrEncodingOption = errors.NewKind("encoding option: %s")

var newlines = map[string]string{
	"lf":   "\n",
	"cr":   "\r",
	"crlf": "\r\n",
}

// Config describes a delimited format. It is created once per stream and read only afterward.
type Config struct {
	Delim []byte
	EOL   []byte

	// Quote is the quote byte. When set every field of a line is quoted.
	Quote    byte
	HasQuote bool

	// Escape defaults to Quote when a quote is configured.
	Escape    byte
	HasEscape bool

	Charset *charset.Converter

	quoteDelim []byte
	quoteEOL   []byte
}

// NewConfig reads a Config from the formatter options in |cfg|.
func NewConfig(cfg config.ReadableConfig) (*Config, error) {
	delim, ok := config.GetStringIgnoreCase(cfg, DelimiterParam)
	if !ok || delim == "" {
		return nil, ErrMissingDelimiterOption.New()
	}

	eol := "\n"
	nl, ok := config.GetStringIgnoreCase(cfg, NewlineParam)
	if !ok {
		nl, ok = config.GetStringIgnoreCase(cfg, EOLParam)
	}
	if ok {
		eol, ok = newlines[strings.ToLower(nl)]
		if !ok {
			return nil, ErrInvalidNewline.New(nl)
		}
	}

	c := &Config{
		Delim:   []byte(delim),
		EOL:     []byte(eol),
		Charset: charset.UTF8,
	}

	if q, ok := config.GetStringIgnoreCase(cfg, QuoteParam); ok {
		if len(q) != 1 {
			return nil, ErrInvalidQuote.New(q)
		}
		c.Quote, c.HasQuote = q[0], true
	}

	if e, ok := config.GetStringIgnoreCase(cfg, EscapeParam); ok {
		if len(e) != 1 {
			return nil, ErrInvalidEscape.New(e)
		}
		c.Escape, c.HasEscape = e[0], true
	} else if c.HasQuote {
		c.Escape, c.HasEscape = c.Quote, true
	}

	if enc, ok := config.GetStringIgnoreCase(cfg, EncodingParam); ok {
		conv, err := charset.Lookup(enc)
		if err != nil {
			return nil, ErrEncodingOption.Wrap(err, err.Error())
		}
		c.Charset = conv
	}

	c.init()
	return c, nil
}

func (c *Config) init() {
	if c.Charset == nil {
		c.Charset = charset.UTF8
	}
	if c.HasQuote {
		if !c.HasEscape {
			c.Escape, c.HasEscape = c.Quote, true
		}
		c.quoteDelim = append([]byte{c.Quote}, c.Delim...)
		c.quoteEOL = append([]byte{c.Quote}, c.EOL...)
	}
}

// quoteEscapes is true when the escape byte doubles as the quote, as in `"a""b"`.
func (c *Config) quoteEscapes() bool {
	return c.HasQuote && c.HasEscape && c.Escape == c.Quote
}

// escapedAt returns true if the byte at |pos| is preceded by an odd run of escape bytes, none of them before |lo|.
func (c *Config) escapedAt(data []byte, lo, pos int) bool {
	if !c.HasEscape {
		return false
	}

	cnt := 0
	for i := pos - 1; i >= lo && data[i] == c.Escape; i-- {
		cnt++
	}
	return cnt%2 == 1
}

func (c *Config) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "delimiter=%q newline=%q", c.Delim, c.EOL)
	if c.HasQuote {
		fmt.Fprintf(&sb, " quote=%q", c.Quote)
	}
	if c.HasEscape {
		fmt.Fprintf(&sb, " escape=%q", c.Escape)
	}
	if !c.Charset.IsUTF8() {
		fmt.Fprintf(&sb, " encoding=%s", c.Charset.Name())
	}
	return sb.String()
}
