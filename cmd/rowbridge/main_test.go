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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rowbridge/rowbridge/libraries/rowcore/schema/encoding"
	"github.com/rowbridge/rowbridge/libraries/rowcore/table"
	"github.com/rowbridge/rowbridge/libraries/rowcore/table/typed/writable"
	"github.com/rowbridge/rowbridge/libraries/utils/filesys"
	"github.com/rowbridge/rowbridge/store/val"
)

const testSchema = `
columns:
  - name: id
    type: integer
  - name: old
    dropped: true
  - name: name
    type: text
options:
  delimiter: "|"
`

func init() {
	color.NoColor = true
}

type cliOutput struct {
	code   int
	stdout string
	stderr string
}

func runCLI(args ...string) cliOutput {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return cliOutput{code, stdout.String(), stderr.String()}
}

func setup(t *testing.T, input string) (dir, schemaPath, inputPath string) {
	dir = t.TempDir()
	schemaPath = filepath.Join(dir, "schema.yaml")
	inputPath = filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(schemaPath, []byte(testSchema), 0644))
	require.NoError(t, os.WriteFile(inputPath, []byte(input), 0644))
	return dir, schemaPath, inputPath
}

func TestImportExport(t *testing.T) {
	for _, compress := range []bool{false, true} {
		name := "plain"
		if compress {
			name = "snappy"
		}

		t.Run(name, func(t *testing.T) {
			dir, schemaPath, inputPath := setup(t, "1|x|alice\n2||bob\n")
			frames := filepath.Join(dir, "frames")
			texts := filepath.Join(dir, "texts")

			args := []string{"import", "--schema", schemaPath, "--out-dir", frames, inputPath}
			framePath := filepath.Join(frames, "input.bin")
			if compress {
				args = append(args, "--compress")
				framePath += ".sz"
			}

			out := runCLI(args...)
			require.Equal(t, 0, out.code, out.stderr)
			assert.Contains(t, out.stdout, "2 rows, 0 bad rows")

			out = runCLI("export", "-s", schemaPath, "-o", texts, framePath)
			require.Equal(t, 0, out.code, out.stderr)

			data, err := os.ReadFile(filepath.Join(texts, "input.txt"))
			require.NoError(t, err)
			assert.Equal(t, "1||alice\n2||bob\n", string(data))
		})
	}
}

func TestImportBadRow(t *testing.T) {
	input := "1|x|alice\nnope|x|bob\n3|x|carol\n"

	t.Run("stop", func(t *testing.T) {
		dir, schemaPath, inputPath := setup(t, input)
		out := runCLI("import", "--schema", schemaPath, "--out-dir", dir, inputPath)
		assert.Equal(t, 1, out.code)
		assert.Contains(t, out.stderr, "bad row in "+inputPath+" at bytes [10, 21)")

		// the frame file ends with an error frame
		sf, err := encoding.LoadFile(filesys.LocalFS, schemaPath)
		require.NoError(t, err)
		sch, err := sf.Schema()
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(dir, "input.bin"))
		require.NoError(t, err)
		rd := writable.NewBufferReader(sch, data)

		ctx := context.Background()
		r, err := rd.ReadRow(ctx)
		require.NoError(t, err)
		assert.Equal(t, val.Int32(1), r[0])

		_, err = rd.ReadRow(ctx)
		require.True(t, table.IsBadRow(err))
		assert.True(t, table.ErrEmbeddedUpstream.Is(table.RootCause(err)))
	})

	t.Run("continue", func(t *testing.T) {
		dir, schemaPath, inputPath := setup(t, input)
		out := runCLI("import", "--schema", schemaPath, "--out-dir", dir, "--continue", inputPath)
		require.Equal(t, 0, out.code, out.stderr)
		assert.Contains(t, out.stdout, "2 rows, 1 bad rows")
		assert.Contains(t, out.stderr, "line 2")
	})
}

func TestDump(t *testing.T) {
	dir, schemaPath, inputPath := setup(t, "1|x|alice\n2||\n")
	out := runCLI("import", "--schema", schemaPath, "--out-dir", dir, inputPath)
	require.Equal(t, 0, out.code, out.stderr)

	for _, path := range []string{filepath.Join(dir, "input.bin"), inputPath} {
		out = runCLI("dump", "--schema", schemaPath, path)
		require.Equal(t, 0, out.code, out.stderr)
		assert.Equal(t, "id | old | name\n1 | - | alice\n2 | - | NULL\n2 rows, 0 bad rows\n", out.stdout)
	}

	out = runCLI("dump", "--schema", schemaPath, "--limit", "1", "--format", "delimited", inputPath)
	require.Equal(t, 0, out.code, out.stderr)
	assert.Equal(t, "id | old | name\n1 | - | alice\n1 rows, 0 bad rows\n", out.stdout)
}

func TestFlagOverrides(t *testing.T) {
	dir, schemaPath, inputPath := setup(t, "\"1\",\"\",\"a,b\"\n")
	out := runCLI("import", "--schema", schemaPath, "--delimiter", ",", "--quote", "\"", "--out-dir", dir, inputPath)
	require.Equal(t, 0, out.code, out.stderr)

	out = runCLI("dump", "--schema", schemaPath, filepath.Join(dir, "input.bin"))
	require.Equal(t, 0, out.code, out.stderr)
	assert.Contains(t, out.stdout, "1 | - | a,b\n")

	out = runCLI("import", "--schema", schemaPath, "--newline", "LFCR", "--out-dir", dir, inputPath)
	assert.Equal(t, 1, out.code)
	assert.Contains(t, out.stderr, "NEWLINE can only be LF, CRLF, or CR")
}

func TestExportWriteError(t *testing.T) {
	dir, schemaPath, inputPath := setup(t, "\"1\",\"\",\"a|b\"\n")
	out := runCLI("import", "--schema", schemaPath, "--delimiter", ",", "--quote", "\"", "--out-dir", dir, inputPath)
	require.Equal(t, 0, out.code, out.stderr)

	// "a|b" can't be written with the schema's unescaped '|' delimiter
	texts := filepath.Join(dir, "texts")
	out = runCLI("export", "--schema", schemaPath, "--out-dir", texts, filepath.Join(dir, "input.bin"))
	assert.Equal(t, 1, out.code)
	assert.Contains(t, out.stderr, "error: failed to write '"+filepath.Join(texts, "input.txt")+"'")
	assert.Contains(t, out.stderr, "column 3 (name)")
	assert.NotContains(t, out.stderr, "failed reading")
}

func TestMetricsFile(t *testing.T) {
	dir, schemaPath, inputPath := setup(t, "1|x|alice\n2||bob\n")
	metrics := filepath.Join(dir, "metrics.prom")

	out := runCLI("--metrics-file", metrics, "import", "--schema", schemaPath, "--out-dir", dir, inputPath)
	require.Equal(t, 0, out.code, out.stderr)

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), `rowbridge_rows_read{format="delimited"} 2`)
	assert.Contains(t, string(data), `rowbridge_rows_written{format="writable"} 2`)
}

func TestErrors(t *testing.T) {
	dir, _, inputPath := setup(t, "1|x|alice\n")

	out := runCLI("import", "--schema", filepath.Join(dir, "missing.yaml"), inputPath)
	assert.Equal(t, 1, out.code)
	assert.Contains(t, out.stderr, "failed to load schema file")

	out = runCLI("frobnicate")
	assert.Equal(t, 2, out.code)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "a.bin"), outputPath("out", "/data/a.txt", ".bin"))
	assert.Equal(t, filepath.Join("out", "a.txt"), outputPath("out", "a.bin.sz", ".txt"))
	assert.Equal(t, filepath.Join("out", "b.bin.sz"), outputPath("out", "b", ".bin.sz"))
	assert.Equal(t, writable.FormatName, guessFormat("x.bin.sz"))
	assert.Equal(t, "delimited", guessFormat("x.csv"))
}
