package excel

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Row is one data row from an uploaded workbook. Cells maps column
// header to cell text; missing and blank cells are "".
type Row struct {
	// Num is the 1-based worksheet row number, header included.
	Num int
	// Cells maps column header to the trimmed cell value.
	Cells map[string]string
}

// Get returns the value of the named column, or "".
func (r Row) Get(column string) string {
	return r.Cells[column]
}

// Sheet holds the parsed contents of an uploaded workbook.
type Sheet struct {
	// Headers are the column headers in worksheet order.
	Headers []string
	// Rows are the data rows, trailing blank rows dropped.
	Rows []Row
}

// HasColumn reports whether the sheet contains the given header.
func (s *Sheet) HasColumn(column string) bool {
	for _, h := range s.Headers {
		if h == column {
			return true
		}
	}
	return false
}

// ReadFile parses the workbook at path.
func ReadFile(path string) (*Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return readSheet(f)
}

// Read parses a workbook from r.
func Read(r io.Reader) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return readSheet(f)
}

func readSheet(f *excelize.File) (*Sheet, error) {
	// Prefer the Data sheet this tool writes; fall back to the first
	// sheet for workbooks assembled by hand.
	name := SheetData
	if idx, err := f.GetSheetIndex(name); err != nil || idx < 0 {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		name = sheets[0]
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", name, err)
	}
	if len(rows) == 0 {
		return &Sheet{}, nil
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	sheet := &Sheet{Headers: headers}
	for i, cells := range rows[1:] {
		row := Row{Num: i + 2, Cells: make(map[string]string, len(headers))}
		empty := true
		for j, header := range headers {
			if header == "" {
				continue
			}
			var value string
			if j < len(cells) {
				value = strings.TrimSpace(cells[j])
			}
			row.Cells[header] = value
			if value != "" {
				empty = false
			}
		}
		if !empty {
			sheet.Rows = append(sheet.Rows, row)
		}
	}
	return sheet, nil
}
