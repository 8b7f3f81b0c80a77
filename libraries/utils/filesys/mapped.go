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

package filesys

import (
	"os"

	"github.com/edsrzf/mmap-go"
)

// MappedFile is a read only memory mapping of a whole file. Its contents can be handed to a codec as a single
// buffer with end of stream already reached.
type MappedFile struct {
	f    *os.File
	data mmap.MMap
}

func openMapped(fp string) (*MappedFile, error) {
	f, err := os.Open(fp)
	if err != nil {
		return nil, err
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	// zero length files can't be mapped
	if fi.Size() == 0 {
		return &MappedFile{f: f}, nil
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &MappedFile{f: f, data: data}, nil
}

// Bytes returns the mapped contents. The slice is invalid after Close.
func (mf *MappedFile) Bytes() []byte {
	return mf.data
}

func (mf *MappedFile) Len() int {
	return len(mf.data)
}

// Close unmaps the file and closes it.
func (mf *MappedFile) Close() error {
	var err error
	if mf.data != nil {
		err = mf.data.Unmap()
		mf.data = nil
	}

	cerr := mf.f.Close()
	if err == nil {
		err = cerr
	}
	return err
}
