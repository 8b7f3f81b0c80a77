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

package charset

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrUnknownEncoding is returned by Lookup for names that are not registered IANA character sets.
var ErrUnknownEncoding = errors.New("unknown character encoding")

// ErrInvalidBytes is returned when input is not valid in the source encoding.
var ErrInvalidBytes = errors.New("invalid byte sequence for encoding")

var replacementChar = []byte(string(utf8.RuneError))

// Converter translates between an external character set and UTF-8, the encoding rows are processed in.
type Converter struct {
	name string
	enc  encoding.Encoding
}

// UTF8 does no conversion.
var UTF8 = &Converter{name: "UTF-8"}

// Lookup returns the converter for an IANA character set name or alias. The empty string means UTF-8.
func Lookup(name string) (*Converter, error) {
	n := strings.TrimSpace(name)
	if n == "" || strings.EqualFold(n, "utf8") {
		return UTF8, nil
	}

	enc, err := ianaindex.IANA.Encoding(n)
	if err != nil || enc == nil {
		return nil, errors.Wrapf(ErrUnknownEncoding, "'%s'", name)
	}

	if enc == unicode.UTF8 {
		return UTF8, nil
	}

	canonical, err := ianaindex.MIME.Name(enc)
	if err != nil {
		canonical, err = ianaindex.IANA.Name(enc)
		if err != nil {
			canonical = n
		}
	}

	return &Converter{name: canonical, enc: enc}, nil
}

// Name returns the canonical name of the external encoding.
func (c *Converter) Name() string {
	return c.name
}

// IsUTF8 returns true if no conversion is needed.
func (c *Converter) IsUTF8() bool {
	return c.enc == nil
}

// ToUTF8 converts |src| from the external encoding. Input the decoder can only render as U+FFFD is an error.
func (c *Converter) ToUTF8(src []byte) ([]byte, error) {
	if c.enc == nil {
		return src, nil
	}

	dst, _, err := transform.Bytes(c.enc.NewDecoder(), src)
	if err != nil {
		return nil, errors.Wrapf(err, "converting from %s", c.name)
	}

	if bytes.Contains(dst, replacementChar) {
		return nil, errors.Wrapf(ErrInvalidBytes, "%s", c.name)
	}

	return dst, nil
}

// FromUTF8 converts |src| to the external encoding. Runes the encoding can't represent are an error.
func (c *Converter) FromUTF8(src []byte) ([]byte, error) {
	if c.enc == nil {
		return src, nil
	}

	dst, _, err := transform.Bytes(c.enc.NewEncoder(), src)
	if err != nil {
		return nil, errors.Wrapf(err, "converting to %s", c.name)
	}

	return dst, nil
}

func (c *Converter) String() string {
	return fmt.Sprintf("charset(%s)", c.name)
}
