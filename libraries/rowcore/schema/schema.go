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

package schema

import (
	"errors"
	"strings"

	"github.com/rowbridge/rowbridge/libraries/rowcore/schema/typeinfo"
)

// ErrColNameCollision is returned when two live columns share a case-insensitive name.
var ErrColNameCollision = errors.New("two different columns with the same name exist")

// ErrNoColumns is returned when creating a schema without any columns.
var ErrNoColumns = errors.New("schema has no columns")

// Schema is an ordered, immutable set of columns. It is created once per stream and shared read-only by every
// encode, decode and parse call.
type Schema struct {
	cols []Column
	// effective holds the ordinals of non-dropped columns in order.
	effective []int
	// ordToEffective maps an ordinal to its index among effective columns, or -1 if dropped.
	ordToEffective []int
	lowerNameToOrd map[string]int
}

// NewSchema creates a schema from |cols|, assigning each column its ordinal.
func NewSchema(cols ...Column) (*Schema, error) {
	if len(cols) == 0 {
		return nil, ErrNoColumns
	}

	sch := &Schema{
		cols:           make([]Column, len(cols)),
		ordToEffective: make([]int, len(cols)),
		lowerNameToOrd: make(map[string]int, len(cols)),
	}

	for i, col := range cols {
		col.Ordinal = i
		if col.TypeInfo == nil {
			col.TypeInfo = typeinfo.TextType
		}
		sch.cols[i] = col

		if col.Dropped {
			sch.ordToEffective[i] = -1
			continue
		}

		lwr := strings.ToLower(col.Name)
		if _, ok := sch.lowerNameToOrd[lwr]; ok && lwr != "" {
			return nil, ErrColNameCollision
		}
		sch.lowerNameToOrd[lwr] = i
		sch.ordToEffective[i] = len(sch.effective)
		sch.effective = append(sch.effective, i)
	}

	return sch, nil
}

// MustNewSchema is NewSchema for statically known columns. It panics on error.
func MustNewSchema(cols ...Column) *Schema {
	sch, err := NewSchema(cols...)
	if err != nil {
		panic(err)
	}
	return sch
}

// Count returns the number of columns including dropped ones. Rows are always this long.
func (sch *Schema) Count() int {
	return len(sch.cols)
}

// EffectiveCount returns the number of columns that are not dropped.
func (sch *Schema) EffectiveCount() int {
	return len(sch.effective)
}

// GetByIndex returns the column at ordinal |i|.
func (sch *Schema) GetByIndex(i int) Column {
	return sch.cols[i]
}

// GetByName does a case-insensitive lookup of a live column.
func (sch *Schema) GetByName(name string) (Column, bool) {
	ord, ok := sch.lowerNameToOrd[strings.ToLower(name)]
	if !ok {
		return Column{}, false
	}
	return sch.cols[ord], true
}

// Effective returns the ordinal of the |i|th non-dropped column.
func (sch *Schema) Effective(i int) int {
	return sch.effective[i]
}

// EffectiveIndex returns the position of ordinal |ord| among non-dropped columns, or -1 if the column is dropped.
func (sch *Schema) EffectiveIndex(ord int) int {
	return sch.ordToEffective[ord]
}

// Iter calls |cb| for each column in ordinal order until it returns true.
func (sch *Schema) Iter(cb func(col Column) (stop bool)) {
	for _, col := range sch.cols {
		if cb(col) {
			return
		}
	}
}

// Names returns the column names in ordinal order.
func (sch *Schema) Names() []string {
	names := make([]string, len(sch.cols))
	for i, col := range sch.cols {
		names[i] = col.Name
	}
	return names
}

func (sch *Schema) String() string {
	var sb strings.Builder
	for i, col := range sch.cols {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(col.String())
	}
	return sb.String()
}
