// Package validate checks uploaded workbook rows against a dataset
// definition before anything is sent to the platform.
package validate

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/woonstad/datamakelaar/internal/dataset"
	"github.com/woonstad/datamakelaar/internal/excel"
)

// Severity classifies a finding. Critical findings block a push,
// warnings do not.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
)

// Finding is one validation result.
type Finding struct {
	// Severity is critical or warning.
	Severity Severity
	// Column is the workbook column the finding applies to, if any.
	Column string
	// Rows lists the affected worksheet row numbers, if any.
	Rows []int
	// Message describes the problem.
	Message string
}

func (f Finding) String() string {
	var b strings.Builder
	b.WriteString(string(f.Severity))
	if f.Column != "" {
		fmt.Fprintf(&b, " [%s]", f.Column)
	}
	b.WriteString(": ")
	b.WriteString(f.Message)
	if len(f.Rows) > 0 {
		fmt.Fprintf(&b, " (rows %s)", joinRows(f.Rows))
	}
	return b.String()
}

// Report aggregates the findings for one workbook.
type Report struct {
	Findings []Finding
}

// OK reports whether the workbook is free of critical findings.
func (r *Report) OK() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityCritical {
			return false
		}
	}
	return true
}

// Criticals returns only the critical findings.
func (r *Report) Criticals() []Finding {
	return r.filter(SeverityCritical)
}

// Warnings returns only the warning findings.
func (r *Report) Warnings() []Finding {
	return r.filter(SeverityWarning)
}

func (r *Report) filter(sev Severity) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Severity == sev {
			out = append(out, f)
		}
	}
	return out
}

func (r *Report) critical(column, message string, rows ...int) {
	r.Findings = append(r.Findings, Finding{Severity: SeverityCritical, Column: column, Rows: rows, Message: message})
}

func (r *Report) warning(column, message string, rows ...int) {
	r.Findings = append(r.Findings, Finding{Severity: SeverityWarning, Column: column, Rows: rows, Message: message})
}

// Sheet validates an uploaded sheet against the dataset definition.
func Sheet(sheet *excel.Sheet, def *dataset.Definition) *Report {
	report := &Report{}

	if len(sheet.Rows) == 0 {
		report.critical("", "het bestand bevat geen rijen")
		return report
	}

	var missing []string
	for _, col := range def.Columns() {
		if !sheet.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		report.critical("", "ontbrekende verplichte kolommen: "+strings.Join(missing, ", "))
		return report
	}

	checkIdentifiers(report, sheet)
	checkObjectType(report, sheet, def)
	for _, field := range def.Fields {
		checkField(report, sheet, field)
	}
	return report
}

func checkIdentifiers(report *Report, sheet *excel.Sheet) {
	seen := make(map[string]int)
	var empty, dupes []int
	for _, row := range sheet.Rows {
		id := row.Get(dataset.ColumnIdentifier)
		if id == "" {
			empty = append(empty, row.Num)
			continue
		}
		if _, ok := seen[id]; ok {
			dupes = append(dupes, row.Num)
		}
		seen[id] = row.Num
	}
	if len(empty) > 0 {
		report.critical(dataset.ColumnIdentifier, "rijen zonder identifier", empty...)
	}
	if len(dupes) > 0 {
		report.warning(dataset.ColumnIdentifier, "dubbele identifiers", dupes...)
	}
}

func checkObjectType(report *Report, sheet *excel.Sheet, def *dataset.Definition) {
	var wrong []int
	for _, row := range sheet.Rows {
		if got := row.Get(dataset.ColumnObjectType); got != "" && got != def.ObjectType {
			wrong = append(wrong, row.Num)
		}
	}
	if len(wrong) > 0 {
		report.critical(dataset.ColumnObjectType,
			fmt.Sprintf("objectType wijkt af van %q", def.ObjectType), wrong...)
	}
}

func checkField(report *Report, sheet *excel.Sheet, field dataset.Field) {
	var emptyCount int
	var badEnum, badBool, badYear []int
	badValues := make(map[string]bool)

	for _, row := range sheet.Rows {
		value := row.Get(field.Column)
		if value == "" {
			emptyCount++
			continue
		}

		if len(field.Options) > 0 && !contains(field.Options, value) {
			badEnum = append(badEnum, row.Num)
			badValues[value] = true
		}

		switch {
		case field.Type == dataset.FieldBoolean && !IsBooleanLiteral(value):
			badBool = append(badBool, row.Num)
		case field.Type == dataset.FieldDate && field.DateFormat == "yyyy" && !isYear(value):
			badYear = append(badYear, row.Num)
		}
	}

	if len(badEnum) > 0 {
		found := sortedKeys(badValues)
		report.critical(field.Column,
			fmt.Sprintf("ongeldige waarden [%s], toegestaan: [%s]",
				strings.Join(found, ", "), strings.Join(field.Options, ", ")),
			badEnum...)
	}
	if len(badBool) > 0 {
		report.warning(field.Column,
			fmt.Sprintf("ongeldige boolean waarden, verwacht %s of %s", excel.BoolYes, excel.BoolNo),
			badBool...)
	}
	if len(badYear) > 0 {
		report.warning(field.Column,
			fmt.Sprintf("geen geldig jaartal (%d-%d)", excel.MinYear, excel.MaxYear),
			badYear...)
	}
	if emptyCount > 0 {
		report.warning(field.Column, fmt.Sprintf("%d rijen zonder waarde", emptyCount))
	}
}

// IsBooleanLiteral reports whether the value is accepted for a
// boolean column.
func IsBooleanLiteral(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "false", "1", "0", "ja", "nee", "yes", "no":
		return true
	default:
		return false
	}
}

// isYear accepts four-digit years within bounds, numeric year values
// such as "2019.0", and ISO timestamps from which a year can be taken.
func isYear(value string) bool {
	value = strings.TrimSpace(value)
	if year, err := strconv.Atoi(value); err == nil {
		return year >= excel.MinYear && year <= excel.MaxYear
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		year := int(f)
		return year >= excel.MinYear && year <= excel.MaxYear
	}
	if strings.Contains(value, "T") {
		if ts, err := time.Parse(time.RFC3339, value); err == nil {
			return ts.Year() >= excel.MinYear && ts.Year() <= excel.MaxYear
		}
	}
	if ts, err := time.Parse("2006-01-02", value); err == nil {
		return ts.Year() >= excel.MinYear && ts.Year() <= excel.MaxYear
	}
	return false
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func joinRows(rows []int) string {
	parts := make([]string, len(rows))
	for i, r := range rows {
		parts[i] = strconv.Itoa(r)
	}
	return strings.Join(parts, ", ")
}
