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

package encoding

import (
	"bytes"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	goerrors "gopkg.in/src-d/go-errors.v1"
	"gopkg.in/yaml.v2"

	"github.com/rowbridge/rowbridge/libraries/rowcore/schema"
	"github.com/rowbridge/rowbridge/libraries/utils/config"
	"github.com/rowbridge/rowbridge/libraries/utils/filesys"
)

var ErrUnknownSchemaFormat = goerrors.NewKind("unknown schema file format '%s', expected .yaml, .yml or .toml")
var ErrUndecodedKeys = goerrors.NewKind("unknown keys in schema file: %s")
var ErrColumnName = goerrors.NewKind("column %d has no name")

// Format is a schema file syntax.
type Format string

const (
	YAMLFormat Format = "yaml"
	TOMLFormat Format = "toml"
)

// FormatFromPath picks the Format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAMLFormat, nil
	case ".toml":
		return TOMLFormat, nil
	default:
		return "", ErrUnknownSchemaFormat.New(filepath.Ext(path))
	}
}

// the fields of encodedColumn are part of the file format. New fields must be optional.
type encodedColumn struct {
	Name    string `yaml:"name" toml:"name"`
	Type    string `yaml:"type,omitempty" toml:"type,omitempty"`
	Dropped bool   `yaml:"dropped,omitempty" toml:"dropped,omitempty"`
}

func encodeColumn(col schema.Column) encodedColumn {
	ec := encodedColumn{Name: col.Name, Dropped: col.Dropped}
	if !col.Dropped {
		ec.Type = col.TypeInfo.String()
	}
	return ec
}

func (ec encodedColumn) decodeColumn() schema.Column {
	if ec.Dropped {
		return schema.NewDroppedColumn(ec.Name)
	}
	return schema.NewColumn(ec.Name, ec.Type)
}

// SchemaFile describes a schema on disk along with default formatter options.
type SchemaFile struct {
	Columns []encodedColumn   `yaml:"columns" toml:"columns"`
	Options map[string]string `yaml:"options,omitempty" toml:"options,omitempty"`
}

// FromSchema creates a SchemaFile for |sch|. |opts| may be nil.
func FromSchema(sch *schema.Schema, opts config.ReadableConfig) *SchemaFile {
	sf := &SchemaFile{}
	sch.Iter(func(col schema.Column) bool {
		sf.Columns = append(sf.Columns, encodeColumn(col))
		return false
	})

	if opts != nil && opts.Size() > 0 {
		sf.Options = make(map[string]string, opts.Size())
		opts.Iter(func(k, v string) bool {
			sf.Options[k] = v
			return false
		})
	}

	return sf
}

// Schema builds the described schema.
func (sf *SchemaFile) Schema() (*schema.Schema, error) {
	cols := make([]schema.Column, len(sf.Columns))
	for i, ec := range sf.Columns {
		if strings.TrimSpace(ec.Name) == "" {
			return nil, ErrColumnName.New(i + 1)
		}
		cols[i] = ec.decodeColumn()
	}

	return schema.NewSchema(cols...)
}

// OptionsConfig returns the file's formatter options.
func (sf *SchemaFile) OptionsConfig() *config.MapConfig {
	return config.NewMapConfig(sf.Options)
}

// Unmarshal parses a schema file. Unknown keys are an error.
func Unmarshal(data []byte, format Format) (*SchemaFile, error) {
	var sf SchemaFile
	switch format {
	case YAMLFormat:
		if err := yaml.UnmarshalStrict(data, &sf); err != nil {
			return nil, errors.Wrap(err, "parsing yaml schema")
		}
	case TOMLFormat:
		md, err := toml.Decode(string(data), &sf)
		if err != nil {
			return nil, errors.Wrap(err, "parsing toml schema")
		}

		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			sort.Strings(keys)
			return nil, ErrUndecodedKeys.New(strings.Join(keys, ", "))
		}
	default:
		return nil, ErrUnknownSchemaFormat.New(format)
	}

	return &sf, nil
}

// Marshal renders a schema file.
func Marshal(sf *SchemaFile, format Format) ([]byte, error) {
	switch format {
	case YAMLFormat:
		return yaml.Marshal(sf)
	case TOMLFormat:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(sf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, ErrUnknownSchemaFormat.New(format)
	}
}

// LoadFile reads the schema file at |path|, picking the syntax from its extension.
func LoadFile(fs filesys.ReadableFS, path string) (*SchemaFile, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, err
	}

	sf, err := Unmarshal(data, format)
	if err != nil {
		return nil, errors.Wrapf(err, "reading schema from '%s'", path)
	}

	return sf, nil
}

// SaveFile writes |sf| to |path|, picking the syntax from its extension.
func SaveFile(fs filesys.WritableFS, path string, sf *SchemaFile) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	data, err := Marshal(sf, format)
	if err != nil {
		return err
	}

	if err = fs.MkDirs(filepath.Dir(path)); err != nil {
		return err
	}

	return fs.WriteFile(path, data, 0644)
}
