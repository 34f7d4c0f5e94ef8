// Package excel renders datasets into editable workbooks and reads the
// edited workbooks back. The generated workbook carries dropdowns,
// year validation and formatting so most mistakes are caught inside
// Excel before the file ever reaches the validator.
package excel

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/woonstad/datamakelaar/internal/dataset"
	"github.com/woonstad/datamakelaar/pkg/models"
)

// Sheet names in generated workbooks.
const (
	SheetData   = "Data"
	SheetLookup = "Lookup_Lists"
)

// Boolean display values used in the workbook.
const (
	BoolYes = "Ja"
	BoolNo  = "Nee"
)

// booleanListName is the defined name of the Ja/Nee lookup range.
const booleanListName = "BooleanList"

// Year bounds for DATE fields with format "yyyy".
const (
	MinYear = 1900
	MaxYear = 2100
)

// WriteFile renders the objects into a workbook at path.
func WriteFile(path string, objects []models.Object, def *dataset.Definition) error {
	f, err := build(objects, def)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

// Write renders the objects into a workbook on w.
func Write(w io.Writer, objects []models.Object, def *dataset.Definition) error {
	f, err := build(objects, def)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

func build(objects []models.Object, def *dataset.Definition) (*excelize.File, error) {
	if len(objects) == 0 {
		return nil, fmt.Errorf("no objects to export")
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetData); err != nil {
		return nil, err
	}

	columns := def.Columns()
	if err := writeHeader(f, columns); err != nil {
		return nil, err
	}
	widths := writeRows(f, objects, def, columns)
	if err := sizeColumns(f, columns, widths); err != nil {
		return nil, err
	}

	lastCol, _ := excelize.ColumnNumberToName(len(columns))
	if err := f.AutoFilter(SheetData, fmt.Sprintf("A1:%s1", lastCol), nil); err != nil {
		return nil, err
	}

	// Keep the header row and the two fixed columns in view.
	if err := f.SetPanes(SheetData, &excelize.Panes{
		Freeze:      true,
		XSplit:      2,
		YSplit:      1,
		TopLeftCell: "C2",
		ActivePane:  "bottomRight",
	}); err != nil {
		return nil, err
	}

	enumRanges, err := writeLookupSheet(f, def)
	if err != nil {
		return nil, err
	}
	if err := addValidations(f, def, len(objects), enumRanges); err != nil {
		return nil, err
	}
	if err := addBooleanFormatting(f, def, len(objects)); err != nil {
		return nil, err
	}

	return f, nil
}

func writeHeader(f *excelize.File, columns []string) error {
	style, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"EDEDED"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return err
	}

	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetData, cell, col); err != nil {
			return err
		}
		if err := f.SetCellStyle(SheetData, cell, cell, style); err != nil {
			return err
		}
	}
	return nil
}

// writeRows fills the data rows and returns the widest content length
// seen per column, headers included.
func writeRows(f *excelize.File, objects []models.Object, def *dataset.Definition, columns []string) []int {
	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = len(col)
	}

	for rowIdx, obj := range objects {
		row := rowIdx + 2
		values := make([]string, len(columns))
		values[0] = def.ObjectType
		values[1] = obj.Identifier
		for i, field := range def.Fields {
			value := obj.Attribute(field.Attribute)
			if field.Type == dataset.FieldBoolean {
				value = booleanDisplay(value)
			}
			values[i+2] = value
		}

		for i, value := range values {
			if value == "" {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			f.SetCellValue(SheetData, cell, value)
			if len(value) > widths[i] {
				widths[i] = len(value)
			}
		}
	}
	return widths
}

func sizeColumns(f *excelize.File, columns []string, widths []int) error {
	for i := range columns {
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(SheetData, name, name, float64(widths[i]+2)); err != nil {
			return err
		}
	}
	return nil
}

// writeLookupSheet creates the Lookup_Lists sheet and defined names.
// It returns the defined-name per field key for enum fields.
func writeLookupSheet(f *excelize.File, def *dataset.Definition) (map[string]string, error) {
	if _, err := f.NewSheet(SheetLookup); err != nil {
		return nil, err
	}

	// Column A always holds the boolean options.
	f.SetCellValue(SheetLookup, "A1", BoolYes)
	f.SetCellValue(SheetLookup, "A2", BoolNo)
	if err := f.SetDefinedName(&excelize.DefinedName{
		Name:     booleanListName,
		RefersTo: fmt.Sprintf("'%s'!$A$1:$A$2", SheetLookup),
	}); err != nil {
		return nil, err
	}

	enumRanges := make(map[string]string)
	col := 2
	for _, field := range def.Fields {
		if len(field.Options) == 0 {
			continue
		}
		listName := SanitizeName(field.Key)
		if _, exists := enumRanges[field.Key]; exists {
			continue
		}

		colName, _ := excelize.ColumnNumberToName(col)
		for i, opt := range field.Options {
			cell, _ := excelize.CoordinatesToCellName(col, i+1)
			f.SetCellValue(SheetLookup, cell, opt)
		}
		if err := f.SetDefinedName(&excelize.DefinedName{
			Name:     listName,
			RefersTo: fmt.Sprintf("'%s'!$%s$1:$%s$%d", SheetLookup, colName, colName, len(field.Options)),
		}); err != nil {
			return nil, err
		}

		enumRanges[field.Key] = listName
		col++
	}
	return enumRanges, nil
}

func addValidations(f *excelize.File, def *dataset.Definition, rowCount int, enumRanges map[string]string) error {
	firstRow := 2
	lastRow := firstRow + rowCount - 1

	// The two fixed columns are not meant to be edited; an input
	// message is the closest a workbook gets to read-only cells
	// without sheet protection.
	for col := 1; col <= 2; col++ {
		dv := excelize.NewDataValidation(true)
		dv.Sqref = columnRange(col, firstRow, lastRow)
		dv.SetInput("Let op!", "Deze kolom mag niet worden aangepast.")
		if err := f.AddDataValidation(SheetData, dv); err != nil {
			return err
		}
	}

	for i, field := range def.Fields {
		col := i + 3
		sqref := columnRange(col, firstRow, lastRow)

		if field.Type == dataset.FieldBoolean {
			dv := excelize.NewDataValidation(true)
			dv.Sqref = sqref
			dv.SetSqrefDropList(booleanListName)
			if err := f.AddDataValidation(SheetData, dv); err != nil {
				return err
			}
		}

		if listName, ok := enumRanges[field.Key]; ok {
			dv := excelize.NewDataValidation(true)
			dv.Sqref = sqref
			dv.SetSqrefDropList(listName)
			if err := f.AddDataValidation(SheetData, dv); err != nil {
				return err
			}
		}

		if field.Type == dataset.FieldDate && field.DateFormat == "yyyy" {
			// Whole-number validation only. A date format here would
			// make Excel read "2000" as a date serial.
			dv := excelize.NewDataValidation(true)
			dv.Sqref = sqref
			if err := dv.SetRange(MinYear, MaxYear, excelize.DataValidationTypeWhole, excelize.DataValidationOperatorBetween); err != nil {
				return err
			}
			dv.SetError(excelize.DataValidationErrorStyleStop, "Ongeldig jaartal",
				fmt.Sprintf("Geef een geldig jaar (%d-%d) op.", MinYear, MaxYear))
			if err := f.AddDataValidation(SheetData, dv); err != nil {
				return err
			}
		}
	}
	return nil
}

// addBooleanFormatting marks non-Ja/Nee values in boolean columns.
func addBooleanFormatting(f *excelize.File, def *dataset.Definition, rowCount int) error {
	styleID, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FFFF00"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	firstRow := 2
	lastRow := firstRow + rowCount - 1
	for i, field := range def.Fields {
		if field.Type != dataset.FieldBoolean {
			continue
		}
		col := i + 3
		colName, _ := excelize.ColumnNumberToName(col)
		formula := fmt.Sprintf(`AND(%s2<>"%s",%s2<>"%s",%s2<>"")`,
			colName, BoolYes, colName, BoolNo, colName)
		err := f.SetConditionalFormat(SheetData, columnRange(col, firstRow, lastRow),
			[]excelize.ConditionalFormatOptions{
				{Type: "formula", Criteria: formula, Format: &styleID},
			})
		if err != nil {
			return err
		}
	}
	return nil
}

func columnRange(col, firstRow, lastRow int) string {
	start, _ := excelize.CoordinatesToCellName(col, firstRow)
	end, _ := excelize.CoordinatesToCellName(col, lastRow)
	return start + ":" + end
}

// booleanDisplay maps platform boolean literals to workbook values.
func booleanDisplay(value string) string {
	switch value {
	case "true":
		return BoolYes
	case "false":
		return BoolNo
	default:
		return value
	}
}
