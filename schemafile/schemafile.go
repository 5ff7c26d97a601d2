// Package schemafile loads schema definitions and naming conventions from
// YAML or JSON files and builds resolved metadata from them.
package schemafile

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/qdm12/reprint"
)

// DefaultPath is where Load looks for a schema definition when no other
// path is given. A missing file at the default path is not an error.
const DefaultPath = "./sqlschema.yaml"

// envPrefix limits which environment variables may override the loaded
// definition. Only convention entries can be overridden:
// SQLSCHEMA_NAMING_UQ replaces naming.uq.
const envPrefix = "SQLSCHEMA_NAMING_"

// Spec is a schema definition as written in a file. JSON files load the
// same way as YAML.
type Spec struct {
	// Naming maps convention keys, short prefixes or category names, to
	// naming templates. An empty template suppresses naming for that key.
	// Unless the file says otherwise, indexes are named after their first
	// column.
	Naming map[string]string `yaml:"naming" json:"naming"`
	Tables []TableSpec       `yaml:"tables" json:"tables"`
}

// TableSpec declares one table.
type TableSpec struct {
	Name        string           `yaml:"name" json:"name"`
	Columns     []ColumnSpec     `yaml:"columns" json:"columns"`
	PrimaryKey  *KeySpec         `yaml:"primary_key" json:"primary_key"`
	Uniques     []KeySpec        `yaml:"uniques" json:"uniques"`
	Checks      []CheckSpec      `yaml:"checks" json:"checks"`
	ForeignKeys []ForeignKeySpec `yaml:"foreign_keys" json:"foreign_keys"`
	Indexes     []IndexSpec      `yaml:"indexes" json:"indexes"`
}

// ColumnSpec declares one column. Type is integer, text, boolean, enum,
// or any literal database type; boolean and enum columns enforce their
// value set with a generated check constraint. Columns are nullable
// unless said otherwise.
type ColumnSpec struct {
	Name     string   `yaml:"name" json:"name"`
	Type     string   `yaml:"type" json:"type"`
	Key      string   `yaml:"key" json:"key"`
	Values   []string `yaml:"values" json:"values"`
	Nullable *bool    `yaml:"nullable" json:"nullable"`
	Index    bool     `yaml:"index" json:"index"`
	Unique   bool     `yaml:"unique" json:"unique"`
	Check    string   `yaml:"check" json:"check"`
}

// KeySpec declares a primary key or unique constraint over named columns.
type KeySpec struct {
	Name    string   `yaml:"name" json:"name"`
	Columns []string `yaml:"columns" json:"columns"`
}

// CheckSpec declares a check constraint. Columns are optional and list
// the columns the expression is about.
type CheckSpec struct {
	Name       string   `yaml:"name" json:"name"`
	Expression string   `yaml:"expression" json:"expression"`
	Columns    []string `yaml:"columns" json:"columns"`
}

// ForeignKeySpec declares a foreign key as ordered column references.
type ForeignKeySpec struct {
	Name       string    `yaml:"name" json:"name"`
	References []RefSpec `yaml:"references" json:"references"`
}

// RefSpec pairs a local column with the dotted target it points at, in
// "table.column" or "schema.table.column" form.
type RefSpec struct {
	Column string `yaml:"column" json:"column"`
	Target string `yaml:"target" json:"target"`
}

// IndexSpec declares an index over named columns.
type IndexSpec struct {
	Name    string   `yaml:"name" json:"name"`
	Columns []string `yaml:"columns" json:"columns"`
	Unique  bool     `yaml:"unique" json:"unique"`
}

// Load reads a schema definition, layering the built-in defaults, the
// file, and SQLSCHEMA_NAMING_* environment overrides, in that order. An
// empty path falls back to DefaultPath, which may be absent.
func Load(path string) (Spec, error) {
	var spec Spec

	k := koanf.New(".")

	err := k.Load(confmap.Provider(map[string]any{
		"naming": map[string]any{"ix": "ix_%(column_0_label)s"},
	}, "."), nil)
	if err != nil {
		return spec, err
	}

	if path == "" {
		path = DefaultPath
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if path != DefaultPath || !errors.Is(err, fs.ErrNotExist) {
			return spec, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return spec, err
	}

	if err := k.UnmarshalWithConf("", &spec, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
		return spec, fmt.Errorf("decoding %s: %w", path, err)
	}

	return spec, nil
}

// envKey converts SQLSCHEMA_NAMING_UQ to naming.uq.
func envKey(name string) string {
	return strings.Replace(
		strings.ToLower(strings.TrimPrefix(name, "SQLSCHEMA_")), "_", ".", 1)
}

// Clone returns a deep copy of the spec.
func (s Spec) Clone() Spec {
	return reprint.This(s).(Spec)
}

// WithNaming returns a copy of the spec with the given convention entries
// merged over its own. The receiver is left untouched.
func (s Spec) WithNaming(overrides map[string]string) Spec {
	out := s.Clone()
	if len(overrides) == 0 {
		return out
	}

	if out.Naming == nil {
		out.Naming = make(map[string]string, len(overrides))
	}
	for key, tmpl := range overrides {
		out.Naming[key] = tmpl
	}

	return out
}
