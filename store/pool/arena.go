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

package pool

// BuffPool hands out byte slices of a requested size.
type BuffPool interface {
	Get(size uint64) []byte
}

const defaultChunkSize = 4 * 1024

// Arena is a bump allocator for row scoped scratch. Slices handed out by Get are carved from a shared chunk, so
// a row's values cost one allocation rather than one per field. Chunks are never reused; an exhausted chunk is
// replaced by a new one and stays alive for as long as any slice carved from it is held.
type Arena struct {
	chunk     []byte
	off       int
	chunkSize int
}

var _ BuffPool = (*Arena)(nil)

// NewArena creates an Arena whose chunks are at least |chunkSize| bytes.
func NewArena(chunkSize int) *Arena {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	return &Arena{chunkSize: chunkSize}
}

// Get returns a zeroed slice of |size| bytes with its capacity clipped to its length.
func (a *Arena) Get(size uint64) []byte {
	n := int(size)
	if n == 0 {
		return []byte{}
	}

	if a.off+n > len(a.chunk) {
		sz := a.chunkSize
		if n > sz {
			sz = n
		}
		a.chunk = make([]byte, sz)
		a.off = 0
	}

	buf := a.chunk[a.off : a.off+n : a.off+n]
	a.off += n
	return buf
}

// Reserve makes sure the next |size| bytes of Get calls are served from a single chunk.
func (a *Arena) Reserve(size int) {
	if a.off+size > len(a.chunk) {
		sz := a.chunkSize
		if size > sz {
			sz = size
		}
		a.chunk = make([]byte, sz)
		a.off = 0
	}
}

// Used returns the number of bytes handed out of the current chunk.
func (a *Arena) Used() int {
	return a.off
}
