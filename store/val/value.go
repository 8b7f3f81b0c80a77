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

package val

import (
	"bytes"
	"fmt"
	"strings"
)

// Value is a single non-NULL column value. The set of implementations is closed; each maps to exactly one TypeTag.
type Value interface {
	Tag() TypeTag
	isValue()
}

type Int64 int64
type Bool bool
type Float64 float64
type Int32 int32
type Float32 float32
type Int16 int16
type Bytes []byte

// Text is the external textual form of any value without a compact binary representation.
type Text string

func (Int64) Tag() TypeTag   { return Int8Tag }
func (Bool) Tag() TypeTag    { return BoolTag }
func (Float64) Tag() TypeTag { return Float8Tag }
func (Int32) Tag() TypeTag   { return Int4Tag }
func (Float32) Tag() TypeTag { return Float4Tag }
func (Int16) Tag() TypeTag   { return Int2Tag }
func (Bytes) Tag() TypeTag   { return BytesTag }
func (Text) Tag() TypeTag    { return TextTag }

func (Int64) isValue()   {}
func (Bool) isValue()    {}
func (Float64) isValue() {}
func (Int32) isValue()   {}
func (Float32) isValue() {}
func (Int16) isValue()   {}
func (Bytes) isValue()   {}
func (Text) isValue()    {}

// Equal compares two values, treating nil as NULL.
func Equal(l, r Value) bool {
	if l == nil || r == nil {
		return l == nil && r == nil
	}
	if lb, ok := l.(Bytes); ok {
		rb, ok := r.(Bytes)
		return ok && bytes.Equal(lb, rb)
	}
	return l == r
}

// Row holds one value per original column ordinal. A nil entry is NULL.
type Row []Value

// IsNull returns true if column |i| is NULL.
func (r Row) IsNull(i int) bool {
	return r[i] == nil
}

// Equals compares rows value for value.
func (r Row) Equals(other Row) bool {
	if len(r) != len(other) {
		return false
	}
	for i := range r {
		if !Equal(r[i], other[i]) {
			return false
		}
	}
	return true
}

func (r Row) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, v := range r {
		if i > 0 {
			sb.WriteString(", ")
		}
		if v == nil {
			sb.WriteString("NULL")
		} else {
			fmt.Fprintf(&sb, "%v", v)
		}
	}
	sb.WriteByte(')')
	return sb.String()
}
