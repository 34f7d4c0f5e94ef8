package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/woonstad/datamakelaar/internal/luxs"
)

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "po_daken.yaml")

	content := `
display_name: PO Daken
object_type: Building
fields:
  - key: dakpartner
    attribute: "Dakpartner - Building - Woonstad Rotterdam"
    column: Dakpartner
    type: STRING
    options:
      - Oranjedak West BV
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write dataset file: %v", err)
	}

	def, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Name falls back to the file name.
	if def.Name != "po_daken" {
		t.Errorf("expected name po_daken, got %q", def.Name)
	}
	if def.ObjectType != "Building" {
		t.Errorf("expected object type Building, got %q", def.ObjectType)
	}
	if len(def.Fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(def.Fields))
	}
	if def.Fields[0].Column != "Dakpartner" {
		t.Errorf("expected column Dakpartner, got %q", def.Fields[0].Column)
	}
}

func TestLoadDir(t *testing.T) {
	tmpDir := t.TempDir()
	write := func(name, objectType string) {
		content := "object_type: " + objectType + "\nfields:\n  - {key: a, attribute: A, column: A}\n"
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	write("zz_units.yaml", "Unit")
	write("aa_buildings.yml", "Building")
	// Non-YAML files are skipped.
	if err := os.WriteFile(filepath.Join(tmpDir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	defs, err := LoadDir(tmpDir)
	if err != nil {
		t.Fatalf("LoadDir failed: %v", err)
	}
	if len(defs) != 2 {
		t.Fatalf("expected 2 definitions, got %d", len(defs))
	}
	if defs[0].Name != "aa_buildings" {
		t.Errorf("expected sorted order, got %q first", defs[0].Name)
	}
}

func TestValidateRejectsDuplicates(t *testing.T) {
	tests := []struct {
		name string
		def  Definition
	}{
		{
			name: "duplicate column",
			def: Definition{
				Name:       "d",
				ObjectType: "Building",
				Fields: []Field{
					{Key: "a", Attribute: "A", Column: "Same"},
					{Key: "b", Attribute: "B", Column: "Same"},
				},
			},
		},
		{
			name: "reserved column",
			def: Definition{
				Name:       "d",
				ObjectType: "Building",
				Fields:     []Field{{Key: "a", Attribute: "A", Column: "identifier"}},
			},
		},
		{
			name: "unknown type",
			def: Definition{
				Name:       "d",
				ObjectType: "Building",
				Fields:     []Field{{Key: "a", Attribute: "A", Column: "A", Type: "DECIMAL"}},
			},
		},
		{
			name: "no fields",
			def:  Definition{Name: "d", ObjectType: "Building"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.def.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestPODakenIsValid(t *testing.T) {
	def := PODaken()
	if err := def.Validate(); err != nil {
		t.Fatalf("built-in dataset invalid: %v", err)
	}
	cols := def.Columns()
	if cols[0] != ColumnObjectType || cols[1] != ColumnIdentifier {
		t.Errorf("expected reserved columns first, got %v", cols[:2])
	}
	if def.FieldByColumn("Dakpartner") == nil {
		t.Error("expected Dakpartner field")
	}
}

func TestMergeMetadata(t *testing.T) {
	def := &Definition{
		Name:       "d",
		ObjectType: "Building",
		Fields: []Field{
			{Key: "dakpartner", Attribute: "Dakpartner", Column: "Dakpartner"},
			{Key: "jaar", Attribute: "Jaar", Column: "Jaar", Type: FieldDate},
		},
	}
	md := &luxs.Metadata{
		ObjectTypes: []luxs.ObjectType{
			{
				Name: "Building",
				Attributes: []luxs.AttributeDef{
					{Name: "Dakpartner", Type: "STRING", AttributeValueOptions: []string{"Oranjedak West BV"}},
					{Name: "Jaar", Type: "DATE", DateFormat: "yyyy"},
				},
			},
		},
	}

	if err := MergeMetadata(def, md); err != nil {
		t.Fatalf("MergeMetadata failed: %v", err)
	}
	if def.Fields[0].Type != FieldString {
		t.Errorf("expected STRING filled from metadata, got %q", def.Fields[0].Type)
	}
	if len(def.Fields[0].Options) != 1 {
		t.Errorf("expected options filled from metadata, got %v", def.Fields[0].Options)
	}
	if def.Fields[1].DateFormat != "yyyy" {
		t.Errorf("expected date format filled from metadata, got %q", def.Fields[1].DateFormat)
	}
}

func TestMergeMetadataUnknownAttribute(t *testing.T) {
	def := &Definition{
		Name:       "d",
		ObjectType: "Building",
		Fields:     []Field{{Key: "x", Attribute: "Missing", Column: "X"}},
	}
	md := &luxs.Metadata{ObjectTypes: []luxs.ObjectType{{Name: "Building"}}}

	if err := MergeMetadata(def, md); err == nil {
		t.Fatal("expected error for unknown attribute")
	}
}
