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

// Package writable implements the GPDBWritable binary row format.
//
// A frame is
//
//	u32 totalLength                      length of the whole frame, including this field
//	u16 version                          Version or PrevVersion
//	u8  errorFlag                        Version only
//	u16 columnCount                      non-dropped columns
//	u8  typeTag[columnCount]
//	u8  nullBitmap[(columnCount+7)/8]    MSB first, 1 is NULL
//	payloads
//	padding to a multiple of 8 bytes
//
// All integers are big-endian. Each non-NULL fixed length payload starts at its type's alignment measured from the
// first byte of the frame. Variable length payloads are 4 byte aligned and preceded by a u32 length. Text payloads
// are NUL terminated and their length includes the NUL.
package writable

import (
	"github.com/rowbridge/rowbridge/store/val"
)

const (
	Version     uint16 = 2
	PrevVersion uint16 = 1
)

const (
	lengthSize    = 4
	versionSize   = 2
	errorFlagSize = 1
	colCountSize  = 2

	headerSize     = lengthSize + versionSize + errorFlagSize + colCountSize
	prevHeaderSize = lengthSize + versionSize + colCountSize

	// an error message is read this far past the error flag
	errColOffset = 9

	varLenAlign = 4
	frameAlign  = 8

	// the smallest frame that can be valid, a v1 header with no columns
	minFrameSize = 8
)

func nullBitmapSize(n int) int {
	return (n + 7) / 8
}

func isNull(bitmap []byte, i int) bool {
	return bitmap[i/8]&(0x80>>uint(i%8)) != 0
}

func setNull(bitmap []byte, i int) {
	bitmap[i/8] |= 0x80 >> uint(i%8)
}

func payloadAlign(tag val.TypeTag) int {
	if tag.IsVarLen() {
		return varLenAlign
	}
	return int(tag.Alignment())
}

func alignUp(pos, align int) int {
	return int(val.AlignUp(val.ByteSize(pos), val.ByteSize(align)))
}
