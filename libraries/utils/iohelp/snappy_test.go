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

package iohelp

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closeTracker struct {
	bytes.Buffer
	closed bool
}

func (ct *closeTracker) Close() error {
	ct.closed = true
	return nil
}

func TestSnappyRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("a;b;c\n"), 1000)

	for _, compressed := range []bool{false, true} {
		sink := &closeTracker{}
		wr := WrapWriter(sink, compressed)
		_, err := wr.Write(payload)
		require.NoError(t, err)
		require.NoError(t, wr.Close())
		assert.True(t, sink.closed)

		if compressed {
			assert.Less(t, sink.Len(), len(payload))
		} else {
			assert.Equal(t, len(payload), sink.Len())
		}

		src := &closeTracker{}
		src.Write(sink.Bytes())
		rd := WrapReader(src, compressed)
		data, err := io.ReadAll(rd)
		require.NoError(t, err)
		require.NoError(t, rd.Close())
		assert.True(t, src.closed)
		assert.Equal(t, payload, data)
	}
}
