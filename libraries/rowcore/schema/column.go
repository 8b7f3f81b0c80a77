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
	"fmt"

	"github.com/rowbridge/rowbridge/libraries/rowcore/schema/typeinfo"
	"github.com/rowbridge/rowbridge/store/val"
)

// Column describes one column of a row. A dropped column keeps its ordinal slot in a Row but has no wire
// representation.
type Column struct {
	// Name is the column's display name.
	Name string
	// Ordinal is the column's position in a Row. Assigned by NewSchema.
	Ordinal int
	// TypeInfo converts values of the column to and from text and fixes its wire tag.
	TypeInfo typeinfo.TypeInfo
	// Dropped columns are always NULL and never encoded.
	Dropped bool
}

// NewColumn creates a column of the named logical type.
func NewColumn(name, typeName string) Column {
	return Column{Name: name, TypeInfo: typeinfo.FromString(typeName)}
}

// NewDroppedColumn creates a placeholder for a column removed from the table.
func NewDroppedColumn(name string) Column {
	return Column{Name: name, TypeInfo: typeinfo.TextType, Dropped: true}
}

// Tag returns the wire type tag of the column.
func (c Column) Tag() val.TypeTag {
	return c.TypeInfo.WireTag()
}

func (c Column) IsVarLen() bool {
	return c.Tag().IsVarLen()
}

// FixedLen returns the payload size of fixed length columns and 0 for variable length ones.
func (c Column) FixedLen() val.ByteSize {
	sz, _ := c.Tag().FixedSize()
	return sz
}

func (c Column) Align() val.ByteSize {
	return c.Tag().Alignment()
}

func (c Column) String() string {
	if c.Dropped {
		return fmt.Sprintf("%d:%s (dropped)", c.Ordinal, c.Name)
	}
	return fmt.Sprintf("%d:%s %s", c.Ordinal, c.Name, c.TypeInfo.String())
}
