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
	"path/filepath"
	"strings"

	"github.com/attic-labs/kingpin"

	"github.com/rowbridge/rowbridge/libraries/errhand"
	"github.com/rowbridge/rowbridge/libraries/rowcore/schema"
	"github.com/rowbridge/rowbridge/libraries/rowcore/schema/encoding"
	"github.com/rowbridge/rowbridge/libraries/rowcore/table/untyped/delimited"
	"github.com/rowbridge/rowbridge/libraries/utils/config"
	"github.com/rowbridge/rowbridge/libraries/utils/filesys"
	"github.com/rowbridge/rowbridge/libraries/utils/iohelp"
)

const frameExt = ".bin"

// formatFlags are the flags shared by every command that reads or writes rows.
type formatFlags struct {
	schemaPath *string
	delimiter  *string
	newline    *string
	quote      *string
	escape     *string
	encoding   *string
	compress   *bool
	cont       *bool
}

func addFormatFlags(cmd *kingpin.CmdClause) *formatFlags {
	return &formatFlags{
		schemaPath: cmd.Flag("schema", "schema file describing the columns, in yaml or toml").Short('s').Required().String(),
		delimiter:  cmd.Flag("delimiter", "field delimiter, one or more bytes").Short('d').String(),
		newline:    cmd.Flag("newline", "line terminator: LF, CR or CRLF").String(),
		quote:      cmd.Flag("quote", "quote character; when set every field is quoted").String(),
		escape:     cmd.Flag("escape", "escape character, defaults to the quote").String(),
		encoding:   cmd.Flag("encoding", "character set of the delimited data").String(),
		compress:   cmd.Flag("compress", "frame files are snappy compressed").Bool(),
		cont:       cmd.Flag("continue", "skip bad rows instead of stopping at the first one").Bool(),
	}
}

// session holds the resolved flags of one command.
type session struct {
	sch      *schema.Schema
	opts     *config.MapConfig
	compress bool
	cont     bool
}

// load reads the schema file and lays the delimited flags over the options it carries.
func (ff *formatFlags) load(fs filesys.ReadableFS) (*session, errhand.VerboseError) {
	sf, err := encoding.LoadFile(fs, *ff.schemaPath)
	if err != nil {
		return nil, errhand.BuildDError("error: failed to load schema file '%s'", *ff.schemaPath).AddCause(err).Build()
	}

	sch, err := sf.Schema()
	if err != nil {
		return nil, errhand.BuildDError("error: invalid schema in '%s'", *ff.schemaPath).AddCause(err).Build()
	}

	opts := sf.OptionsConfig()
	overrides := make(map[string]string)
	for param, flagVal := range map[string]*string{
		delimited.DelimiterParam: ff.delimiter,
		delimited.NewlineParam:   ff.newline,
		delimited.QuoteParam:     ff.quote,
		delimited.EscapeParam:    ff.escape,
		delimited.EncodingParam:  ff.encoding,
	} {
		if *flagVal != "" {
			overrides[param] = *flagVal
		}
	}
	opts.SetStrings(overrides)

	return &session{sch: sch, opts: opts, compress: *ff.compress, cont: *ff.cont}, nil
}

// textConfig builds the delimited format. Only commands touching delimited data need one.
func (s *session) textConfig() (*delimited.Config, errhand.VerboseError) {
	cfg, err := delimited.NewConfig(s.opts)
	if err != nil {
		return nil, errhand.BuildDError("error: invalid delimited format").AddCause(err).Build()
	}
	return cfg, nil
}

// isCompressed reports whether the frame file at |path| holds snappy data.
func (s *session) isCompressed(path string) bool {
	return s.compress || strings.HasSuffix(path, iohelp.SnappyExt)
}

// outputPath names the file in |outDir| that |input| converts to.
func outputPath(outDir, input, ext string) string {
	name := filepath.Base(input)
	name = strings.TrimSuffix(name, iohelp.SnappyExt)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return filepath.Join(outDir, name+ext)
}
