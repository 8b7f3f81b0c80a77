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

	"github.com/attic-labs/kingpin"

	"github.com/rowbridge/rowbridge/cmd/util"
	"github.com/rowbridge/rowbridge/libraries/errhand"
	"github.com/rowbridge/rowbridge/libraries/rowcore/table"
	"github.com/rowbridge/rowbridge/libraries/rowcore/table/typed/writable"
	"github.com/rowbridge/rowbridge/libraries/rowcore/table/untyped/delimited"
	"github.com/rowbridge/rowbridge/libraries/utils/iohelp"
)

func exportCommand(e *env) util.KingpinCommand {
	return func(app *kingpin.Application) (*kingpin.CmdClause, util.KingpinHandler) {
		cmd := app.Command("export", "Converts frame files into delimited text files.")
		ff := addFormatFlags(cmd)
		outDir := cmd.Flag("out-dir", "directory the text files are written to").Short('o').Default(".").String()
		ext := cmd.Flag("ext", "extension of the text files").Default(".txt").String()
		inputs := cmd.Arg("inputs", "frame files to convert").Required().Strings()

		return cmd, func(ctx context.Context, input string) int {
			s, verr := ff.load(e.fs)
			if verr != nil {
				return e.fail(verr)
			}

			cfg, verr := s.textConfig()
			if verr != nil {
				return e.fail(verr)
			}

			results, err := runAll(ctx, *inputs, func(ctx context.Context, in string) (result, error) {
				return e.exportFile(ctx, s, cfg, in, outputPath(*outDir, in, *ext))
			})
			e.printResults(results)

			if err != nil {
				return e.fail(err)
			}
			return 0
		}
	}
}

// openFrames opens a frame file. Plain files are memory mapped, snappy files are streamed through the decompressor.
func (e *env) openFrames(s *session, in string) (*table.StreamReader, error) {
	opts := []writable.DecoderOption{
		writable.WithLogger(e.logger.WithField("input", in)),
		writable.WithStats(e.frameStats),
	}

	if !s.isCompressed(in) {
		mf, err := e.fs.OpenMapped(in)
		if err != nil {
			return nil, errhand.BuildDError("error: failed to open '%s'", in).AddCause(err).Build()
		}
		rd := writable.NewBufferReader(s.sch, mf.Bytes(), opts...)
		rd.SetCloser(mf)
		return rd, nil
	}

	f, err := e.fs.OpenForRead(in)
	if err != nil {
		return nil, errhand.BuildDError("error: failed to open '%s'", in).AddCause(err).Build()
	}
	return writable.NewReader(s.sch, iohelp.WrapReader(f, true), opts...), nil
}

func (e *env) exportFile(ctx context.Context, s *session, cfg *delimited.Config, in, out string) (res result, err error) {
	res = result{input: in, output: out}

	rd, err := e.openFrames(s, in)
	if err != nil {
		return res, err
	}
	defer rd.Close(ctx)

	if err = e.fs.MkDirs(filepath.Dir(out)); err != nil {
		return res, errhand.BuildDError("error: failed to create directory for '%s'", out).AddCause(err).Build()
	}

	f, err := e.fs.OpenForWrite(out, 0644)
	if err != nil {
		return res, errhand.BuildDError("error: failed to create '%s'", out).AddCause(err).Build()
	}

	logger := e.logger.WithField("input", in)
	wr := delimited.NewWriter(s.sch, f, cfg, e.textStats)
	tw := &trackingWriter{TableWriter: wr}

	res.good, res.bad, err = table.PipeRowsWithCallback(ctx, rd, tw, e.badRowCallback(logger, in, rd, s.cont))
	res.bytes = rd.Offset()

	if err != nil {
		err = pipeError(in, out, rd, tw, err)
	}

	if cerr := wr.Close(ctx); cerr != nil && err == nil {
		err = errhand.BuildDError("error: failed to write '%s'", out).AddCause(cerr).Build()
	}

	return res, err
}
