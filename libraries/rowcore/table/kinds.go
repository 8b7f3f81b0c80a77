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
	"gopkg.in/src-d/go-errors.v1"
)

// ErrNeedMoreData is returned when the buffer holds an incomplete prefix of a row. The caller may retry the same
// call with more bytes appended.
var ErrNeedMoreData = errors.NewKind("need more data")

// ErrTruncated is returned at end of stream when the remaining bytes do not form a complete row.
var ErrTruncated = errors.NewKind("unexpected end of data: %s")

var ErrProtocolVersionUnsupported = errors.NewKind("unsupported frame version %d")
var ErrSchemaMismatch = errors.NewKind("row does not match schema: %s")
var ErrEmbeddedUpstream = errors.NewKind("upstream error: %s")
var ErrCorruptPayloadLength = errors.NewKind("corrupt payload length %d for column %d at offset %d")
var ErrFrameLength = errors.NewKind("invalid frame length %d")
var ErrUnknownTypeTag = errors.NewKind("unknown type tag %d for column %d")

var ErrUnescapedQuote = errors.NewKind("unescaped quote in column %d")
var ErrMissingQuote = errors.NewKind("missing %s quote")
var ErrColumnCountMismatch = errors.NewKind("too %s columns: expected %d")
var ErrMissingDelimiter = errors.NewKind("missing delimiter, expected %d columns; check the delimiter, quote and escape settings")
var ErrEncodingConversion = errors.NewKind("invalid byte sequence: %s")
var ErrColumnConversion = errors.NewKind("column %d (%s): %s")
