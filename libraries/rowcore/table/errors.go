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
	"fmt"
	"strings"
)

// BadRow is returned for a row or line that could not be decoded. Start and Len give the span of the input buffer
// it occupied; the caller skips the span to continue with the next row or aborts.
type BadRow struct {
	Start   int
	Len     int
	Details []string
	Cause   error
}

// NewBadRow creates a BadRow covering |n| bytes from |start|.
func NewBadRow(start, n int, cause error, details ...string) *BadRow {
	return &BadRow{start, n, details, cause}
}

// IsBadRow takes an error and returns whether it is a BadRow
func IsBadRow(err error) bool {
	_, ok := badRowCause(err)

	return ok
}

// GetBadRow will retrieve the BadRow from an error
func GetBadRow(err error) *BadRow {
	br, ok := badRowCause(err)

	if !ok {
		panic("Call IsBadRow prior to trying to get the BadRow")
	}

	return br
}

// IsFatal returns true for errors after which no further rows can be read from the stream, because the position
// of the next row can no longer be trusted.
func IsFatal(err error) bool {
	cause := RootCause(err)
	return ErrCorruptPayloadLength.Is(cause) || ErrFrameLength.Is(cause)
}

// RootCause unwraps context and BadRow wrappers, returning the underlying error. Kind errors without a cause are
// returned as is.
func RootCause(err error) error {
	for err != nil {
		if br, ok := err.(*BadRow); ok {
			if br.Cause == nil {
				return br
			}
			err = br.Cause
			continue
		}

		c, ok := err.(causer)
		if !ok || c.Cause() == nil {
			return err
		}
		err = c.Cause()
	}
	return err
}

type causer interface {
	Cause() error
}

// badRowCause returns the BadRow wrapped by |err|, if any.
func badRowCause(err error) (*BadRow, bool) {
	for err != nil {
		if br, ok := err.(*BadRow); ok {
			return br, true
		}

		c, ok := err.(causer)
		if !ok {
			return nil, false
		}
		err = c.Cause()
	}
	return nil, false
}

// Error returns a string with error details.
func (br *BadRow) Error() string {
	var sb strings.Builder
	if br.Cause != nil {
		sb.WriteString(br.Cause.Error())
	} else {
		sb.WriteString("bad row")
	}

	for _, d := range br.Details {
		sb.WriteString("\n")
		sb.WriteString(d)
	}

	return sb.String()
}

func (br *BadRow) Unwrap() error {
	return br.Cause
}

// Span returns the half open byte range of the bad row.
func (br *BadRow) Span() string {
	return fmt.Sprintf("[%d, %d)", br.Start, br.Start+br.Len)
}
