package excel

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/woonstad/datamakelaar/internal/dataset"
	"github.com/woonstad/datamakelaar/pkg/models"
)

func strPtr(s string) *string { return &s }

func testObjects() []models.Object {
	return []models.Object{
		{
			ObjectType: "Building",
			Identifier: "B-001",
			Attributes: map[string]*string{
				"Dakpartner - Building - Woonstad Rotterdam":                              strPtr("Oranjedak West BV"),
				"Jaar laatste dakonderhoud - Building - Woonstad Rotterdam":               strPtr("2019"),
				"Dakveiligheidsvoorzieningen aangebracht  - Building - Woonstad Rotterdam": strPtr("true"),
			},
		},
		{
			ObjectType: "Building",
			Identifier: "B-002",
			Attributes: map[string]*string{
				"Antenne(opstelplaats) op dak  - Building - Woonstad Rotterdam": strPtr("false"),
			},
		},
	}
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"dakpartner", "dakpartner"},
		{"jaar laatste dakonderhoud", "jaar_laatste_dakonderhoud"},
		{"Antenne(opstelplaats)", "Antenne_opstelplaats_"},
		{"2024_check", "N2024_check"},
		{"_leading", "N_leading"},
		{"", "N"},
	}
	for _, tt := range tests {
		if got := SanitizeName(tt.in); got != tt.want {
			t.Errorf("SanitizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteRejectsEmptyExport(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, nil, dataset.PODaken()); err == nil {
		t.Fatal("expected error for empty export")
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	def := dataset.PODaken()

	var buf bytes.Buffer
	if err := Write(&buf, testObjects(), def); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	sheet, err := Read(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	wantHeaders := def.Columns()
	if len(sheet.Headers) != len(wantHeaders) {
		t.Fatalf("expected %d headers, got %d: %v", len(wantHeaders), len(sheet.Headers), sheet.Headers)
	}
	for i, h := range wantHeaders {
		if sheet.Headers[i] != h {
			t.Errorf("header %d: expected %q, got %q", i, h, sheet.Headers[i])
		}
	}

	if len(sheet.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(sheet.Rows))
	}

	first := sheet.Rows[0]
	if got := first.Get(dataset.ColumnIdentifier); got != "B-001" {
		t.Errorf("expected identifier B-001, got %q", got)
	}
	if got := first.Get(dataset.ColumnObjectType); got != "Building" {
		t.Errorf("expected objectType Building, got %q", got)
	}
	if got := first.Get("Dakveiligheid"); got != BoolYes {
		t.Errorf("expected boolean rendered as %q, got %q", BoolYes, got)
	}

	second := sheet.Rows[1]
	if got := second.Get("Antenne"); got != BoolNo {
		t.Errorf("expected boolean rendered as %q, got %q", BoolNo, got)
	}
	if got := second.Get("Dakpartner"); got != "" {
		t.Errorf("expected empty Dakpartner, got %q", got)
	}
}

func TestWriteLookupSheet(t *testing.T) {
	def := dataset.PODaken()

	var buf bytes.Buffer
	if err := Write(&buf, testObjects(), def); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	if v, _ := f.GetCellValue(SheetLookup, "A1"); v != BoolYes {
		t.Errorf("expected %q in lookup A1, got %q", BoolYes, v)
	}
	if v, _ := f.GetCellValue(SheetLookup, "A2"); v != BoolNo {
		t.Errorf("expected %q in lookup A2, got %q", BoolNo, v)
	}
	// First enum field (dakpartner) lands in column B.
	if v, _ := f.GetCellValue(SheetLookup, "B1"); v != "Cazdak Dakbedekkingen BV" {
		t.Errorf("unexpected first dakpartner option: %q", v)
	}

	names := map[string]bool{}
	for _, dn := range f.GetDefinedName() {
		names[dn.Name] = true
	}
	for _, want := range []string{"BooleanList", "dakpartner", "projectleider"} {
		if !names[want] {
			t.Errorf("expected defined name %q, have %v", want, names)
		}
	}
}

func TestReadBlankRowsDropped(t *testing.T) {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", SheetData)
	f.SetCellValue(SheetData, "A1", "identifier")
	f.SetCellValue(SheetData, "B1", "Dakpartner")
	f.SetCellValue(SheetData, "A2", "B-001")
	// Row 3 left blank, row 4 has data.
	f.SetCellValue(SheetData, "B4", "Oranjedak West BV")

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	sheet, err := Read(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(sheet.Rows) != 2 {
		t.Fatalf("expected 2 non-blank rows, got %d", len(sheet.Rows))
	}
	if sheet.Rows[1].Num != 4 {
		t.Errorf("expected worksheet row 4, got %d", sheet.Rows[1].Num)
	}
}
