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

package typeinfo

import (
	"strings"

	"gopkg.in/src-d/go-errors.v1"

	"github.com/rowbridge/rowbridge/store/val"
)

var InvalidTextValue = errors.NewKind("`%s` cannot convert the value `%s`")
var UnexpectedValue = errors.NewKind("`%s` cannot format a value of type `%s`")

type Identifier string

const (
	UnknownTypeIdentifier   Identifier = "unknown"
	Int8TypeIdentifier      Identifier = "int8"
	BoolTypeIdentifier      Identifier = "bool"
	Float8TypeIdentifier    Identifier = "float8"
	Int4TypeIdentifier      Identifier = "int4"
	Float4TypeIdentifier    Identifier = "float4"
	Int2TypeIdentifier      Identifier = "int2"
	ByteaTypeIdentifier     Identifier = "bytea"
	TextTypeIdentifier      Identifier = "text"
	DecimalTypeIdentifier   Identifier = "numeric"
	UuidTypeIdentifier      Identifier = "uuid"
	DateTypeIdentifier      Identifier = "date"
	TimestampTypeIdentifier Identifier = "timestamp"
)

// TypeInfo is the host side converter for a column. It maps a logical type onto the TypeTag used on the wire and
// converts between the textual form found in delimited data and a val.Value.
type TypeInfo interface {
	// GetTypeIdentifier returns the logical type this converter handles.
	GetTypeIdentifier() Identifier

	// WireTag returns the tag the logical type is carried as.
	WireTag() val.TypeTag

	// ParseText converts a non-NULL textual field into a value.
	ParseText(s string) (val.Value, error)

	// FormatText renders a non-NULL value in its textual form.
	FormatText(v val.Value) (string, error)

	// String returns the type's display name.
	String() string
}

var Int8Type TypeInfo = &intType{Int8TypeIdentifier, 64}
var Int4Type TypeInfo = &intType{Int4TypeIdentifier, 32}
var Int2Type TypeInfo = &intType{Int2TypeIdentifier, 16}
var Float8Type TypeInfo = &floatType{Float8TypeIdentifier, 64}
var Float4Type TypeInfo = &floatType{Float4TypeIdentifier, 32}
var BoolType TypeInfo = &boolType{}
var ByteaType TypeInfo = &byteaType{}
var TextType TypeInfo = &textType{TextTypeIdentifier}
var DecimalType TypeInfo = &decimalType{}
var UuidType TypeInfo = &uuidType{}
var DateType TypeInfo = &datetimeType{DateTypeIdentifier, dateLayout}
var TimestampType TypeInfo = &datetimeType{TimestampTypeIdentifier, timestampLayout}

var typesByName = map[string]TypeInfo{
	"int8":              Int8Type,
	"bigint":            Int8Type,
	"bool":              BoolType,
	"boolean":           BoolType,
	"float8":            Float8Type,
	"double precision":  Float8Type,
	"double":            Float8Type,
	"int4":              Int4Type,
	"integer":           Int4Type,
	"int":               Int4Type,
	"float4":            Float4Type,
	"real":              Float4Type,
	"int2":              Int2Type,
	"smallint":          Int2Type,
	"bytea":             ByteaType,
	"text":              TextType,
	"varchar":           TextType,
	"character varying": TextType,
	"bpchar":            TextType,
	"char":              TextType,
	"character":         TextType,
	"numeric":           DecimalType,
	"decimal":           DecimalType,
	"uuid":              UuidType,
	"date":              DateType,
	"timestamp":         TimestampType,
}

// FromString returns the TypeInfo for a logical type name. Names are case-insensitive and may carry a parenthesized
// modifier, as in "varchar(20)" or "numeric(10,2)", which is ignored. Unrecognized names fall back to text under
// their own name.
func FromString(name string) TypeInfo {
	n := strings.ToLower(strings.TrimSpace(name))
	if idx := strings.IndexByte(n, '('); idx >= 0 {
		n = strings.TrimSpace(n[:idx])
	}

	if ti, ok := typesByName[n]; ok {
		return ti
	}
	return &textType{Identifier(n)}
}

// FromTag returns the canonical TypeInfo for a wire tag.
func FromTag(tag val.TypeTag) TypeInfo {
	switch tag {
	case val.Int8Tag:
		return Int8Type
	case val.BoolTag:
		return BoolType
	case val.Float8Tag:
		return Float8Type
	case val.Int4Tag:
		return Int4Type
	case val.Float4Tag:
		return Float4Type
	case val.Int2Tag:
		return Int2Type
	case val.BytesTag:
		return ByteaType
	default:
		return TextType
	}
}

func formatAsText(ti TypeInfo, v val.Value) (string, error) {
	if t, ok := v.(val.Text); ok {
		return string(t), nil
	}
	return "", UnexpectedValue.New(ti.String(), v.Tag().String())
}
