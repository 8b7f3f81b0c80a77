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
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/src-d/go-errors.v1"

	"github.com/rowbridge/rowbridge/libraries/rowcore/rowstats"
	"github.com/rowbridge/rowbridge/libraries/rowcore/schema"
	"github.com/rowbridge/rowbridge/libraries/rowcore/table"
	"github.com/rowbridge/rowbridge/libraries/utils/config"
	"github.com/rowbridge/rowbridge/store/val"
)

func newConfig(t *testing.T, kvps ...string) *Config {
	require.True(t, len(kvps)%2 == 0)
	props := make(map[string]string)
	for i := 0; i < len(kvps); i += 2 {
		props[kvps[i]] = kvps[i+1]
	}

	cfg, err := NewConfig(config.NewMapConfig(props))
	require.NoError(t, err)
	return cfg
}

func textSch(names ...string) *schema.Schema {
	cols := make([]schema.Column, len(names))
	for i, n := range names {
		cols[i] = schema.NewColumn(n, "text")
	}
	return schema.MustNewSchema(cols...)
}

// texts builds a row of text values. nil entries are NULL.
func texts(vals ...interface{}) val.Row {
	r := make(val.Row, len(vals))
	for i, v := range vals {
		if s, ok := v.(string); ok {
			r[i] = val.Text(s)
		}
	}
	return r
}

func readAll(t *testing.T, sch *schema.Schema, cfg *Config, data string) []val.Row {
	rd := NewBufferReader(sch, []byte(data), cfg)
	rows, bad, err := table.ReadAllRows(context.Background(), rd, false)
	require.NoError(t, err)
	assert.Zero(t, bad)
	return rows
}

func assertRows(t *testing.T, expected, actual []val.Row) {
	require.Len(t, actual, len(expected))
	for i := range expected {
		assert.True(t, expected[i].Equals(actual[i]), "row %d: expected %v got %v", i, expected[i], actual[i])
	}
}

func assertBadLine(t *testing.T, err error, kind *errors.Kind, start, n int) {
	require.Error(t, err)
	require.True(t, table.IsBadRow(err), "%v", err)
	assert.True(t, kind.Is(table.RootCause(err)), "%v", err)
	br := table.GetBadRow(err)
	assert.Equal(t, start, br.Start)
	assert.Equal(t, n, br.Len)
}

func TestNewConfig(t *testing.T) {
	cfg := newConfig(t, "delimiter", ";")
	assert.Equal(t, []byte(";"), cfg.Delim)
	assert.Equal(t, []byte("\n"), cfg.EOL)
	assert.False(t, cfg.HasQuote)
	assert.False(t, cfg.HasEscape)
	assert.True(t, cfg.Charset.IsUTF8())

	cfg = newConfig(t, "delimiter", "||", "newline", "CRLF", "quote", `"`)
	assert.Equal(t, []byte("\r\n"), cfg.EOL)
	assert.Equal(t, byte('"'), cfg.Quote)
	assert.True(t, cfg.HasEscape)
	assert.Equal(t, byte('"'), cfg.Escape)
	assert.Equal(t, []byte(`"||`), cfg.quoteDelim)
	assert.Equal(t, []byte("\"\r\n"), cfg.quoteEOL)

	cfg = newConfig(t, "Delimiter", ";", "QUOTE", "'", "escape", `\`, "eol", "cr")
	assert.Equal(t, []byte("\r"), cfg.EOL)
	assert.Equal(t, byte('\''), cfg.Quote)
	assert.Equal(t, byte('\\'), cfg.Escape)

	cfg = newConfig(t, "delimiter", ";", "encoding", "latin1")
	assert.False(t, cfg.Charset.IsUTF8())
	assert.Contains(t, cfg.String(), "encoding=")
}

func TestNewConfigErrors(t *testing.T) {
	tests := []struct {
		name  string
		props map[string]string
		kind  *errors.Kind
	}{
		{"no delimiter", map[string]string{}, ErrMissingDelimiterOption},
		{"empty delimiter", map[string]string{"delimiter": ""}, ErrMissingDelimiterOption},
		{"newline", map[string]string{"delimiter": ";", "newline": "lfcr"}, ErrInvalidNewline},
		{"quote", map[string]string{"delimiter": ";", "quote": `""`}, ErrInvalidQuote},
		{"empty quote", map[string]string{"delimiter": ";", "quote": ""}, ErrInvalidQuote},
		{"escape", map[string]string{"delimiter": ";", "quote": `"`, "escape": ""}, ErrInvalidEscape},
		{"encoding", map[string]string{"delimiter": ";", "encoding": "klingon"}, ErrEncodingOption},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewConfig(config.NewMapConfig(test.props))
			assert.True(t, test.kind.Is(err), "%v", err)
		})
	}
}

func TestParseUnquoted(t *testing.T) {
	cfg := newConfig(t, "delimiter", ";")
	rows := readAll(t, textSch("a", "b", "c", "d"), cfg, "a;b;;d\nw;x;y;\n")
	assertRows(t, []val.Row{
		texts("a", "b", nil, "d"),
		texts("w", "x", "y", nil),
	}, rows)
}

func TestParseQuoted(t *testing.T) {
	cfg := newConfig(t, "delimiter", ";", "quote", `"`)
	sch := textSch("a", "b")

	tests := []struct {
		line     string
		expected val.Row
	}{
		{"\"a;b\";\"c\"\n", texts("a;b", "c")},
		{"\"a\"\"b\";\"c\"\n", texts(`a"b`, "c")},
		{"\"a\";\"\"\n", texts("a", nil)},
		{"\"\";\"\"\"\"\n", texts(nil, `"`)},
		{"\"x\"\"\";\";\"\n", texts(`x"`, ";")},
	}

	for _, test := range tests {
		t.Run(test.line, func(t *testing.T) {
			p := NewParser(sch, cfg)
			r, n, err := p.ParseLine([]byte(test.line), 0, true)
			require.NoError(t, err)
			assert.Equal(t, len(test.line), n)
			assert.True(t, test.expected.Equals(r), "expected %v got %v", test.expected, r)
		})
	}
}

func TestQuotedMultiline(t *testing.T) {
	cfg := newConfig(t, "delimiter", ";", "quote", `"`)

	rows := readAll(t, textSch("a", "b", "c"), cfg, "\"x\";\"\n\";\"y\"\n\"1\";\"2\";\"3\"\n")
	assertRows(t, []val.Row{
		texts("x", "\n", "y"),
		texts("1", "2", "3"),
	}, rows)

	// an escaped quote before the line break
	rows = readAll(t, textSch("a", "b"), cfg, "\"a\"\"\nb\";\"c\"\n")
	assertRows(t, []val.Row{texts("a\"\nb", "c")}, rows)

	// a separate escape byte
	cfg = newConfig(t, "delimiter", ";", "quote", `"`, "escape", `\`)
	rows = readAll(t, textSch("a", "b"), cfg, "\"a\\\"\nb\";\"c\\\\\"\n")
	assertRows(t, []val.Row{texts("a\"\nb", `c\`)}, rows)
}

func TestUnquotedEscapes(t *testing.T) {
	cfg := newConfig(t, "delimiter", "|", "escape", `\`)
	rows := readAll(t, textSch("a", "b"), cfg, "x\\\ny|z\na\\|b|c\\\\\n\\q|r\n")
	assertRows(t, []val.Row{
		texts("x\ny", "z"),
		texts("a|b", `c\`),
		texts(`\q`, "r"),
	}, rows)
}

func TestMultiByteDelimiter(t *testing.T) {
	sch := schema.MustNewSchema(
		schema.NewColumn("id", "int4"),
		schema.NewColumn("b", "text"),
		schema.NewColumn("c", "text"),
	)

	cfg := newConfig(t, "delimiter", "<d>", "newline", "crlf")
	rows := readAll(t, sch, cfg, "1<d>two<d>\r\n3<d><d>x\r\n")
	assertRows(t, []val.Row{
		{val.Int32(1), val.Text("two"), nil},
		{val.Int32(3), nil, val.Text("x")},
	}, rows)

	cfg = newConfig(t, "delimiter", "::", "quote", "'")
	rows = readAll(t, sch, cfg, "'7'::'a::b'::'c'\n")
	assertRows(t, []val.Row{{val.Int32(7), val.Text("a::b"), val.Text("c")}}, rows)
}

func TestTypedColumns(t *testing.T) {
	sch := schema.MustNewSchema(
		schema.NewColumn("id", "int4"),
		schema.NewColumn("amount", "numeric(10,2)"),
		schema.NewColumn("ok", "bool"),
		schema.NewColumn("day", "date"),
	)
	cfg := newConfig(t, "delimiter", ";")

	p := NewParser(sch, cfg)
	r, _, err := p.ParseLine([]byte("1;12.50;t;2024-01-02\n"), 0, true)
	require.NoError(t, err)
	assert.True(t, val.Row{val.Int32(1), val.Text("12.5"), val.Bool(true), val.Text("2024-01-02")}.Equals(r), "%v", r)

	line := "x;1;t;2024-01-02\n"
	_, n, err := p.ParseLine([]byte(line), 0, true)
	assertBadLine(t, err, table.ErrColumnConversion, 0, len(line))
	assert.Equal(t, len(line), n)
	assert.Contains(t, err.Error(), "column 1 (id)")
	assert.Contains(t, err.Error(), "line 2")
}

func TestDroppedColumn(t *testing.T) {
	sch := schema.MustNewSchema(
		schema.NewColumn("a", "text"),
		schema.NewDroppedColumn("b"),
		schema.NewColumn("c", "int4"),
	)
	cfg := newConfig(t, "delimiter", ";")

	rows := readAll(t, sch, cfg, "x;whatever;3\n")
	assertRows(t, []val.Row{{val.Text("x"), nil, val.Int32(3)}}, rows)
}

func TestColumnCount(t *testing.T) {
	cfg := newConfig(t, "delimiter", ";")
	sch := textSch("a", "b", "c")

	p := NewParser(sch, cfg)
	_, _, err := p.ParseLine([]byte("a;b\n"), 0, true)
	assertBadLine(t, err, table.ErrColumnCountMismatch, 0, 4)
	assert.Contains(t, err.Error(), "too few")

	_, _, err = p.ParseLine([]byte("a;b;c;d\n"), 0, true)
	assertBadLine(t, err, table.ErrColumnCountMismatch, 0, 8)
	assert.Contains(t, err.Error(), "too many")
}

func TestUnescapedQuote(t *testing.T) {
	cfg := newConfig(t, "delimiter", ";", "quote", `"`)
	sch := textSch("a", "b")
	data := "\"a\"b\";\"c\"\n\"d\";\"e\"\n"

	p := NewParser(sch, cfg)
	_, _, err := p.ParseLine([]byte(data), 0, false)
	assertBadLine(t, err, table.ErrUnescapedQuote, 0, 10)
	assert.Contains(t, err.Error(), "column 1")

	// the stream continues after the bad line
	rd := NewBufferReader(sch, []byte(data), cfg)
	rows, bad, err := table.ReadAllRows(context.Background(), rd, true)
	require.NoError(t, err)
	assert.Equal(t, 1, bad)
	assertRows(t, []val.Row{texts("d", "e")}, rows)
}

func TestMissingQuote(t *testing.T) {
	cfg := newConfig(t, "delimiter", ";", "quote", `"`)
	sch := textSch("a", "b")

	p := NewParser(sch, cfg)
	_, _, err := p.ParseLine([]byte("a;\"b\"\n"), 0, true)
	assertBadLine(t, err, table.ErrMissingQuote, 0, 6)

	_, _, err = p.ParseLine([]byte("\"a\";b\"\n"), 0, true)
	assertBadLine(t, err, table.ErrMissingQuote, 0, 7)
}

func TestNeedMoreData(t *testing.T) {
	cfg := newConfig(t, "delimiter", ";")
	p := NewParser(textSch("a", "b"), cfg)

	_, n, err := p.ParseLine([]byte("a;b"), 0, false)
	assert.True(t, table.ErrNeedMoreData.Is(err))
	assert.Zero(t, n)
	assert.False(t, table.IsBadRow(err))

	r, n, err := p.ParseLine([]byte("a;b\n"), 0, false)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.True(t, texts("a", "b").Equals(r))

	// a quote+EOL that may sit inside a field can't be decided until more bytes arrive
	cfg = newConfig(t, "delimiter", ";", "quote", `"`)
	p = NewParser(textSch("a", "b"), cfg)
	data := []byte("\"a\";\"\n")
	_, n, err = p.ParseLine(data, 0, false)
	assert.True(t, table.ErrNeedMoreData.Is(err))
	assert.Zero(t, n)

	_, _, err = p.ParseLine(data, 0, true)
	assertBadLine(t, err, table.ErrMissingQuote, 0, len(data))
}

func TestEndOfStream(t *testing.T) {
	cfg := newConfig(t, "delimiter", ";")

	t.Run("missing delimiter", func(t *testing.T) {
		p := NewParser(textSch("a", "b", "c"), cfg)
		_, n, err := p.ParseLine([]byte("a,b,c"), 0, true)
		assertBadLine(t, err, table.ErrMissingDelimiter, 0, 5)
		assert.Equal(t, 5, n)
	})
	t.Run("truncated", func(t *testing.T) {
		buf := []byte("a;b;c\nd;e")
		p := NewParser(textSch("a", "b", "c"), cfg)
		_, n, err := p.ParseLine(buf, 0, true)
		require.NoError(t, err)
		assert.True(t, p.State().SawDelim)

		_, _, err = p.ParseLine(buf, n, true)
		assertBadLine(t, err, table.ErrTruncated, n, 3)
	})
	t.Run("single column", func(t *testing.T) {
		p := NewParser(textSch("a"), cfg)
		_, _, err := p.ParseLine([]byte("abc"), 0, true)
		assertBadLine(t, err, table.ErrTruncated, 0, 3)
	})
	t.Run("eof", func(t *testing.T) {
		p := NewParser(textSch("a"), cfg)
		_, n, err := p.ParseLine([]byte("a\n"), 2, true)
		assert.Equal(t, 0, n)
		assert.Equal(t, io.EOF, err)
	})
}

func TestEncoding(t *testing.T) {
	cfg := newConfig(t, "delimiter", ";", "encoding", "latin1")
	rows := readAll(t, textSch("a", "b"), cfg, "caf\xe9;x\n")
	assertRows(t, []val.Row{texts("café", "x")}, rows)

	cfg = newConfig(t, "delimiter", ";", "encoding", "Shift_JIS")
	p := NewParser(textSch("a", "b"), cfg)
	_, _, err := p.ParseLine([]byte("x;\x82\n"), 0, true)
	assertBadLine(t, err, table.ErrEncodingConversion, 0, 4)
}

func TestStreamReader(t *testing.T) {
	cfg := newConfig(t, "delimiter", "<|>", "quote", `"`)
	sch := textSch("a", "b")
	data := "\"1\"<|>\"\n\"\n\"2\"<|>\"x\"\"y\"\n\"3\"<|>\"\"\n"
	expected := []val.Row{
		texts("1", "\n"),
		texts("2", `x"y`),
		texts("3", nil),
	}

	rd := NewReader(sch, iotest.OneByteReader(strings.NewReader(data)), cfg)
	rows, bad, err := table.ReadAllRows(context.Background(), rd, false)
	require.NoError(t, err)
	assert.Zero(t, bad)
	assertRows(t, expected, rows)
	assert.Equal(t, int64(len(data)), rd.Offset())
	require.NoError(t, rd.Close(context.Background()))
}

func TestStatsAndLogging(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	stats := rowstats.New(FormatName)

	cfg := newConfig(t, "delimiter", ";")
	data := "a;b\nc\nd;e\n"
	rd := NewBufferReader(textSch("a", "b"), []byte(data), cfg, WithStats(stats), WithLogger(logrus.NewEntry(logger)))
	rows, bad, err := table.ReadAllRows(context.Background(), rd, true)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, 1, bad)

	snap := stats.Snapshot()
	assert.Equal(t, uint64(2), snap.RowsRead)
	assert.Equal(t, uint64(len(data)), snap.BytesRead)
	assert.Equal(t, uint64(1), snap.BadRows)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.DebugLevel, hook.LastEntry().Level)
	assert.Contains(t, hook.LastEntry().Message, "rejected [4, 6)")
	assert.Equal(t, FormatName, hook.LastEntry().Data["format"])
}

func TestWriter(t *testing.T) {
	sch := schema.MustNewSchema(
		schema.NewColumn("id", "int8"),
		schema.NewColumn("s", "text"),
		schema.NewColumn("t", "text"),
	)
	rows := []val.Row{
		{val.Int64(1), val.Text(`a"b`), val.Text("x;y")},
		{val.Int64(2), nil, val.Text("line\nbreak")},
		{nil, val.Text(`back\slash`), val.Text(`"`)},
	}

	tests := []struct {
		name string
		cfg  *Config
	}{
		{"quoted", newConfig(t, "delimiter", ";", "quote", `"`)},
		{"quoted with escape", newConfig(t, "delimiter", ";", "quote", `"`, "escape", `\`)},
		{"escaped", newConfig(t, "delimiter", ";", "escape", `\`)},
		{"multi byte crlf", newConfig(t, "delimiter", ";;", "escape", `\`, "newline", "crlf")},
		{"latin1", newConfig(t, "delimiter", ";", "quote", `"`, "encoding", "latin1")},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var buf bytes.Buffer
			stats := rowstats.New(FormatName)
			wr := NewWriter(sch, &buf, test.cfg, stats)
			for _, r := range rows {
				require.NoError(t, wr.WriteRow(context.Background(), r))
			}
			require.NoError(t, wr.Close(context.Background()))
			assert.Equal(t, uint64(len(rows)), stats.Snapshot().RowsWritten)
			assert.Equal(t, uint64(buf.Len()), stats.Snapshot().BytesWritten)

			read := readAll(t, sch, test.cfg, buf.String())
			assertRows(t, rows, read)
		})
	}
}

func TestWriterOutput(t *testing.T) {
	sch := textSch("a", "b")
	cfg := newConfig(t, "delimiter", ";", "quote", `"`)

	var buf bytes.Buffer
	wr := NewWriter(sch, &buf, cfg, nil)
	require.NoError(t, wr.WriteRow(context.Background(), texts(`a"b`, nil)))
	require.NoError(t, wr.Close(context.Background()))
	assert.Equal(t, "\"a\"\"b\";\"\"\n", buf.String())

	buf.Reset()
	wr = NewWriter(sch, &buf, newConfig(t, "delimiter", ";"), nil)
	err := wr.WriteRow(context.Background(), texts("a;b", "c"))
	assert.True(t, table.ErrColumnConversion.Is(err))

	err = wr.WriteRow(context.Background(), texts("a"))
	assert.True(t, table.ErrSchemaMismatch.Is(err))
}
