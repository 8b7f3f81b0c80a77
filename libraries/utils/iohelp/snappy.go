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
	"io"

	"github.com/golang/snappy"
)

// SnappyExt is appended to the names of files written with snappy framing.
const SnappyExt = ".sz"

type snappyReadCloser struct {
	*snappy.Reader
	closer io.Closer
}

func (rc snappyReadCloser) Close() error {
	return rc.closer.Close()
}

// WrapReader returns |rd| unchanged, or a reader that decodes the snappy framing format from it if |compressed| is
// true. Closing the returned reader closes |rd|.
func WrapReader(rd io.ReadCloser, compressed bool) io.ReadCloser {
	if !compressed {
		return rd
	}
	return snappyReadCloser{snappy.NewReader(rd), rd}
}

type snappyWriteCloser struct {
	*snappy.Writer
	closer io.Closer
}

func (wc snappyWriteCloser) Close() error {
	err := wc.Writer.Close()
	cerr := wc.closer.Close()
	if err == nil {
		err = cerr
	}
	return err
}

// WrapWriter returns |wr| unchanged, or a buffered writer emitting the snappy framing format to it if |compressed|
// is true. Closing the returned writer flushes any buffered data and closes |wr|.
func WrapWriter(wr io.WriteCloser, compressed bool) io.WriteCloser {
	if !compressed {
		return wr
	}
	return snappyWriteCloser{snappy.NewBufferedWriter(wr), wr}
}
