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

	"github.com/shopspring/decimal"

	"github.com/rowbridge/rowbridge/store/val"
)

// decimalType has no compact wire form. Values travel as text and are validated and canonicalized on the way in.
type decimalType struct{}

var _ TypeInfo = (*decimalType)(nil)

// GetTypeIdentifier implements TypeInfo interface.
func (ti *decimalType) GetTypeIdentifier() Identifier {
	return DecimalTypeIdentifier
}

// WireTag implements TypeInfo interface.
func (ti *decimalType) WireTag() val.TypeTag {
	return val.TextTag
}

// ParseText implements TypeInfo interface.
func (ti *decimalType) ParseText(s string) (val.Value, error) {
	dec, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return nil, InvalidTextValue.New(ti.String(), s)
	}
	return val.Text(dec.String()), nil
}

// FormatText implements TypeInfo interface.
func (ti *decimalType) FormatText(v val.Value) (string, error) {
	switch v := v.(type) {
	case val.Int16:
		return decimal.NewFromInt(int64(v)).String(), nil
	case val.Int32:
		return decimal.NewFromInt(int64(v)).String(), nil
	case val.Int64:
		return decimal.NewFromInt(int64(v)).String(), nil
	case val.Float64:
		return decimal.NewFromFloat(float64(v)).String(), nil
	}
	return formatAsText(ti, v)
}

// String implements TypeInfo interface.
func (ti *decimalType) String() string {
	return string(DecimalTypeIdentifier)
}
