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

package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/attic-labs/kingpin"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/rowbridge/rowbridge/cmd/util"
	"github.com/rowbridge/rowbridge/libraries/errhand"
	"github.com/rowbridge/rowbridge/libraries/rowcore/schema"
	"github.com/rowbridge/rowbridge/libraries/rowcore/table"
	"github.com/rowbridge/rowbridge/libraries/rowcore/table/typed/writable"
	"github.com/rowbridge/rowbridge/libraries/rowcore/table/untyped/delimited"
	"github.com/rowbridge/rowbridge/libraries/utils/iohelp"
	"github.com/rowbridge/rowbridge/store/val"
)

func dumpCommand(e *env) util.KingpinCommand {
	return func(app *kingpin.Application) (*kingpin.CmdClause, util.KingpinHandler) {
		cmd := app.Command("dump", "Prints the rows of a frame or delimited file.")
		ff := addFormatFlags(cmd)
		format := cmd.Flag("format", "format of the input; guessed from its extension when omitted").Enum(writable.FormatName, delimited.FormatName)
		limit := cmd.Flag("limit", "stop after this many rows, 0 for all").Default("0").Int()
		in := cmd.Arg("input", "file to print").Required().String()

		return cmd, func(ctx context.Context, input string) int {
			s, verr := ff.load(e.fs)
			if verr != nil {
				return e.fail(verr)
			}

			f := *format
			if f == "" {
				f = guessFormat(*in)
			}

			rd, err := e.openForDump(s, f, *in)
			if err != nil {
				return e.fail(err)
			}
			defer rd.Close(ctx)

			if err := e.dumpRows(ctx, s, rd, *in, *limit); err != nil {
				return e.fail(err)
			}
			return 0
		}
	}
}

func guessFormat(path string) string {
	p := strings.TrimSuffix(path, iohelp.SnappyExt)
	if strings.HasSuffix(p, frameExt) {
		return writable.FormatName
	}
	return delimited.FormatName
}

func (e *env) openForDump(s *session, format, in string) (*table.StreamReader, error) {
	if format == writable.FormatName {
		return e.openFrames(s, in)
	}

	cfg, verr := s.textConfig()
	if verr != nil {
		return nil, verr
	}

	f, err := e.fs.OpenForRead(in)
	if err != nil {
		return nil, errhand.BuildDError("error: failed to open '%s'", in).AddCause(err).Build()
	}

	return delimited.NewReader(s.sch, f, cfg, delimited.WithLogger(e.logger.WithField("input", in)), delimited.WithStats(e.textStats)), nil
}

func (e *env) dumpRows(ctx context.Context, s *session, rd *table.StreamReader, in string, limit int) error {
	fmt.Fprintln(e.stdout, color.New(color.Bold).Sprint(strings.Join(s.sch.Names(), " | ")))

	var good, bad int
	for limit <= 0 || good < limit {
		r, err := rd.ReadRow(ctx)
		if err == io.EOF {
			break
		} else if err != nil {
			if !table.IsBadRow(err) || table.IsFatal(err) || !s.cont {
				return readError(in, rd, err)
			}

			bad++
			e.logger.Warn(errhand.FromBadRow(in, rd.BufferBase(), table.GetBadRow(err)).Verbose())
			continue
		}

		fmt.Fprintln(e.stdout, formatRow(s.sch, r))
		good++
	}

	fmt.Fprintf(e.stdout, "%s rows, %s bad rows\n", humanize.Comma(int64(good)), humanize.Comma(int64(bad)))
	return nil
}

// formatRow renders the values of |r| in their text form. Dropped columns print as '-'.
func formatRow(sch *schema.Schema, r val.Row) string {
	parts := make([]string, len(r))
	for i, v := range r {
		col := sch.GetByIndex(i)
		switch {
		case col.Dropped:
			parts[i] = "-"
		case v == nil:
			parts[i] = color.New(color.Faint).Sprint("NULL")
		default:
			str, err := col.TypeInfo.FormatText(v)
			if err != nil {
				str = fmt.Sprintf("%v", v)
			}
			parts[i] = str
		}
	}
	return strings.Join(parts, " | ")
}
