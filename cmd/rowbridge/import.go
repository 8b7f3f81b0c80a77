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
	"path/filepath"
	"runtime"

	"github.com/attic-labs/kingpin"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/rowbridge/rowbridge/cmd/util"
	"github.com/rowbridge/rowbridge/libraries/errhand"
	"github.com/rowbridge/rowbridge/libraries/rowcore/table"
	"github.com/rowbridge/rowbridge/libraries/rowcore/table/typed/writable"
	"github.com/rowbridge/rowbridge/libraries/rowcore/table/untyped/delimited"
	"github.com/rowbridge/rowbridge/libraries/utils/iohelp"
	"github.com/rowbridge/rowbridge/store/val"
)

func importCommand(e *env) util.KingpinCommand {
	return func(app *kingpin.Application) (*kingpin.CmdClause, util.KingpinHandler) {
		cmd := app.Command("import", "Converts delimited text files into frame files.")
		ff := addFormatFlags(cmd)
		outDir := cmd.Flag("out-dir", "directory the frame files are written to").Short('o').Default(".").String()
		inputs := cmd.Arg("inputs", "delimited files to convert").Required().Strings()

		return cmd, func(ctx context.Context, input string) int {
			s, verr := ff.load(e.fs)
			if verr != nil {
				return e.fail(verr)
			}

			cfg, verr := s.textConfig()
			if verr != nil {
				return e.fail(verr)
			}

			ext := frameExt
			if s.compress {
				ext += iohelp.SnappyExt
			}

			results, err := runAll(ctx, *inputs, func(ctx context.Context, in string) (result, error) {
				return e.importFile(ctx, s, cfg, in, outputPath(*outDir, in, ext))
			})
			e.printResults(results)

			if err != nil {
				return e.fail(err)
			}
			return 0
		}
	}
}

// runAll calls |fn| for each input, several at a time. The first error cancels the inputs still running.
func runAll(ctx context.Context, inputs []string, fn func(ctx context.Context, in string) (result, error)) ([]result, error) {
	results := make([]result, len(inputs))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, in := range inputs {
		i, in := i, in
		eg.Go(func() error {
			r, err := fn(ctx, in)
			results[i] = r
			return err
		})
	}

	return results, eg.Wait()
}

func (e *env) importFile(ctx context.Context, s *session, cfg *delimited.Config, in, out string) (res result, err error) {
	res = result{input: in, output: out}

	mf, err := e.fs.OpenMapped(in)
	if err != nil {
		return res, errhand.BuildDError("error: failed to open '%s'", in).AddCause(err).Build()
	}
	defer mf.Close()

	if err = e.fs.MkDirs(filepath.Dir(out)); err != nil {
		return res, errhand.BuildDError("error: failed to create directory for '%s'", out).AddCause(err).Build()
	}

	f, err := e.fs.OpenForWrite(out, 0644)
	if err != nil {
		return res, errhand.BuildDError("error: failed to create '%s'", out).AddCause(err).Build()
	}

	logger := e.logger.WithField("input", in)
	rd := delimited.NewBufferReader(s.sch, mf.Bytes(), cfg, delimited.WithLogger(logger), delimited.WithStats(e.textStats))
	wr := writable.NewWriter(s.sch, iohelp.WrapWriter(f, s.isCompressed(out)), e.frameStats)
	tw := &trackingWriter{TableWriter: wr}

	res.good, res.bad, err = table.PipeRowsWithCallback(ctx, rd, tw, e.badRowCallback(logger, in, rd, s.cont))
	res.bytes = rd.Offset()

	if err != nil {
		// consumers of the frame file see why it ends early
		if werr := wr.WriteError(err.Error()); werr != nil {
			logger.WithError(werr).Warn("failed to write error frame")
		}
		err = pipeError(in, out, rd, tw, err)
	}

	if cerr := wr.Close(ctx); cerr != nil && err == nil {
		err = errhand.BuildDError("error: failed to write '%s'", out).AddCause(cerr).Build()
	}

	return res, err
}

// badRowCallback logs skipped rows, or asks to stop at the first one unless |cont| is set.
func (e *env) badRowCallback(logger *logrus.Entry, in string, rd *table.StreamReader, cont bool) table.BadRowCallback {
	return func(br *table.BadRow) bool {
		if !cont {
			return true
		}

		logger.Warn(errhand.FromBadRow(in, rd.BufferBase(), br).Verbose())
		return false
	}
}

// trackingWriter remembers the last error of the TableWriter it wraps, so a failed pipe can be blamed on the
// right side.
type trackingWriter struct {
	table.TableWriter
	err error
}

func (tw *trackingWriter) WriteRow(ctx context.Context, r val.Row) error {
	err := tw.TableWriter.WriteRow(ctx, r)
	if err != nil {
		tw.err = err
	}
	return err
}

// pipeError describes an error returned by PipeRows from |in| to |out|.
func pipeError(in, out string, rd *table.StreamReader, tw *trackingWriter, err error) error {
	if tw.err != nil && err == tw.err {
		return errhand.BuildDError("error: failed to write '%s'", out).AddCause(err).Build()
	}
	return readError(in, rd, err)
}

func readError(in string, rd *table.StreamReader, err error) error {
	if table.IsBadRow(err) {
		return errhand.FromBadRow(in, rd.BufferBase(), table.GetBadRow(err))
	}
	return errhand.BuildDError("error: failed reading '%s'", in).AddCause(err).Build()
}
