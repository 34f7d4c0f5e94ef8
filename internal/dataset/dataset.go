// Package dataset defines the editable datasets: which object type is
// pulled, which attributes are exposed, and under which Excel column
// headers they travel.
package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// FieldType is the value type of a dataset field.
type FieldType string

const (
	FieldString  FieldType = "STRING"
	FieldBoolean FieldType = "BOOLEAN"
	FieldDate    FieldType = "DATE"
)

// Valid returns true if the field type is a known value.
func (t FieldType) Valid() bool {
	switch t {
	case FieldString, FieldBoolean, FieldDate:
		return true
	default:
		return false
	}
}

// Reserved column headers present in every exported workbook.
const (
	ColumnObjectType = "objectType"
	ColumnIdentifier = "identifier"
)

// Field is one editable attribute of a dataset.
type Field struct {
	// Key is the short internal name of the field.
	Key string `yaml:"key"`
	// Attribute is the full platform attribute name.
	Attribute string `yaml:"attribute"`
	// Column is the Excel column header for this field.
	Column string `yaml:"column"`
	// Type is the value type. May be left empty and filled from
	// platform metadata.
	Type FieldType `yaml:"type,omitempty"`
	// DateFormat qualifies DATE fields (e.g. "yyyy").
	DateFormat string `yaml:"date_format,omitempty"`
	// Options restricts the field to a fixed set of values.
	Options []string `yaml:"options,omitempty"`
}

// Definition describes one dataset.
type Definition struct {
	// Name is the dataset identifier used on the command line.
	Name string `yaml:"name"`
	// DisplayName is the human-readable dataset name.
	DisplayName string `yaml:"display_name,omitempty"`
	// ObjectType is the platform object type backing this dataset.
	ObjectType string `yaml:"object_type"`
	// Fields lists the editable attributes in column order.
	Fields []Field `yaml:"fields"`
}

// Validate checks the definition for internal consistency.
func (d *Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("dataset name is required")
	}
	if d.ObjectType == "" {
		return fmt.Errorf("dataset %s: object type is required", d.Name)
	}
	if len(d.Fields) == 0 {
		return fmt.Errorf("dataset %s: at least one field is required", d.Name)
	}

	seenColumns := map[string]bool{
		ColumnObjectType: true,
		ColumnIdentifier: true,
	}
	seenKeys := map[string]bool{}
	for _, f := range d.Fields {
		if f.Key == "" || f.Attribute == "" || f.Column == "" {
			return fmt.Errorf("dataset %s: field needs key, attribute and column", d.Name)
		}
		if f.Type != "" && !f.Type.Valid() {
			return fmt.Errorf("dataset %s: field %s has unknown type %q", d.Name, f.Key, f.Type)
		}
		if seenColumns[f.Column] {
			return fmt.Errorf("dataset %s: duplicate column %q", d.Name, f.Column)
		}
		if seenKeys[f.Key] {
			return fmt.Errorf("dataset %s: duplicate field key %q", d.Name, f.Key)
		}
		seenColumns[f.Column] = true
		seenKeys[f.Key] = true
	}
	return nil
}

// Columns returns all workbook column headers in order, the two
// reserved columns first.
func (d *Definition) Columns() []string {
	cols := make([]string, 0, len(d.Fields)+2)
	cols = append(cols, ColumnObjectType, ColumnIdentifier)
	for _, f := range d.Fields {
		cols = append(cols, f.Column)
	}
	return cols
}

// FieldByColumn returns the field behind the given column header, or nil.
func (d *Definition) FieldByColumn(column string) *Field {
	for i := range d.Fields {
		if d.Fields[i].Column == column {
			return &d.Fields[i]
		}
	}
	return nil
}

// AttributeNames returns the platform attribute names of all fields.
func (d *Definition) AttributeNames() []string {
	names := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		names[i] = f.Attribute
	}
	return names
}

// Title returns the display name, falling back to the dataset name.
func (d *Definition) Title() string {
	if d.DisplayName != "" {
		return d.DisplayName
	}
	return d.Name
}

// Load reads a single dataset definition from a YAML file.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset file: %w", err)
	}

	def := &Definition{}
	if err := yaml.Unmarshal(data, def); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	if def.Name == "" {
		def.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}

// LoadDir reads all dataset definitions (*.yaml, *.yml) from a
// directory, sorted by name.
func LoadDir(dir string) ([]*Definition, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dataset directory: %w", err)
	}

	var defs []*Definition
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		def, err := Load(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}

	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs, nil
}

// Find returns the definition with the given name.
func Find(defs []*Definition, name string) (*Definition, error) {
	for _, def := range defs {
		if def.Name == name {
			return def, nil
		}
	}

	known := make([]string, len(defs))
	for i, def := range defs {
		known[i] = def.Name
	}
	return nil, fmt.Errorf("unknown dataset %q (available: %s)", name, strings.Join(known, ", "))
}
