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

package rowstats

import (
	"bytes"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats(t *testing.T) {
	s := New("writable")
	s.RowRead(32)
	s.RowRead(16)
	s.BadRow(8)
	s.RowWritten(24)
	s.SoftDiagnostic()

	assert.Equal(t, Snapshot{
		RowsRead:        2,
		RowsWritten:     1,
		BadRows:         1,
		BytesRead:       56,
		BytesWritten:    24,
		SoftDiagnostics: 1,
	}, s.Snapshot())

	var nilStats *Stats
	assert.NotPanics(t, func() {
		nilStats.RowRead(1)
		nilStats.BadRow(1)
		nilStats.RowWritten(1)
		nilStats.SoftDiagnostic()
	})
	assert.Equal(t, Snapshot{}, nilStats.Snapshot())
}

func TestWriteText(t *testing.T) {
	reg := prometheus.NewRegistry()
	w := New("writable")
	d := New("delimited")
	require.NoError(t, reg.Register(w))
	require.NoError(t, reg.Register(d))

	w.RowRead(8)
	d.BadRow(4)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, reg))
	out := buf.String()
	assert.Contains(t, out, "# TYPE rowbridge_rows_read counter")
	assert.Contains(t, out, `rowbridge_rows_read{format="writable"} 1`)
	assert.Contains(t, out, `rowbridge_bad_rows{format="delimited"} 1`)
	assert.Contains(t, out, `rowbridge_bytes_read{format="delimited"} 4`)
}
