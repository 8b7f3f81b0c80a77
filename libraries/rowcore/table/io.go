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

// TableReader is an interface for reading rows from a stream
type TableReader interface {
	// GetSchema gets the schema of the rows that this reader will return
	GetSchema() *schema.Schema

	// ReadRow reads a row from a stream. If there is a bad row the returned error will be non nil, and calling
	// IsBadRow(err) will be return true. This is a potentially non-fatal error and callers can decide if they want to
	// continue on a bad row, or fail. io.EOF is returned after the last row.
	ReadRow(ctx context.Context) (val.Row, error)
}

// TableWriter is an interface for writing rows to a stream
type TableWriter interface {
	// GetSchema gets the schema of the rows that this writer writes
	GetSchema() *schema.Schema

	// WriteRow will write a row to a stream
	WriteRow(ctx context.Context, r val.Row) error
}

// TableCloser is an interface for a stream that can be closed to release resources
type TableCloser interface {
	// Close should release resources being held
	Close(ctx context.Context) error
}

// TableReadCloser is an interface for reading rows from a stream, that can be closed.
type TableReadCloser interface {
	TableReader
	TableCloser
}

// TableWriteCloser is an interface for writing rows to a stream, that can be closed
type TableWriteCloser interface {
	TableWriter
	TableCloser
}

// BadRowCallback is called for each bad row PipeRows skips. Returning true stops the pipe with the bad row's error.
type BadRowCallback func(br *BadRow) (quit bool)

// PipeRows will read a row from given TableReader and write it to the provided TableWriter.  It will do this
// for every row until the TableReader's ReadRow method returns io.EOF or encounters an error in either reading
// or writing. Bad rows are skipped when |contOnBadRow| is set, unless they are fatal to the stream.
func PipeRows(ctx context.Context, rd TableReader, wr TableWriter, contOnBadRow bool) (int, int, error) {
	return PipeRowsWithCallback(ctx, rd, wr, func(*BadRow) bool { return !contOnBadRow })
}

// PipeRowsWithCallback is PipeRows with a callback deciding on each bad row.
func PipeRowsWithCallback(ctx context.Context, rd TableReader, wr TableWriter, cb BadRowCallback) (int, int, error) {
	var numBad, numGood int
	for {
		r, err := rd.ReadRow(ctx)

		if err == io.EOF {
			break
		} else if err != nil {
			if IsBadRow(err) && !IsFatal(err) && !cb(GetBadRow(err)) {
				numBad++
				continue
			}

			return numGood, numBad, err
		} else if r == nil {
			return numGood, numBad, errors.New("reader returned nil row with err==nil")
		}

		err = wr.WriteRow(ctx, r)

		if err != nil {
			return numGood, numBad, err
		}

		numGood++
	}

	return numGood, numBad, nil
}

// ReadAllRows reads all rows from a TableReader and returns a slice containing those rows.  Usually this is used
// for testing, or with very small data sets.
func ReadAllRows(ctx context.Context, rd TableReader, contOnBadRow bool) ([]val.Row, int, error) {
	var rows []val.Row
	var err error

	badRowCount := 0
	for {
		var r val.Row
		r, err = rd.ReadRow(ctx)

		if err != nil {
			if IsBadRow(err) {
				badRowCount++

				if contOnBadRow && !IsFatal(err) {
					continue
				}
			}

			break
		}

		rows = append(rows, r)
	}

	if err == io.EOF {
		return rows, badRowCount, nil
	}

	return nil, badRowCount, err
}
