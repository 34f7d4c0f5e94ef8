package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/woonstad/datamakelaar/internal/dataset"
	"github.com/woonstad/datamakelaar/internal/excel"
	"github.com/woonstad/datamakelaar/internal/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate <dataset> <workbook>",
	Short: "Check an edited workbook before pushing",
	Long: `Read a workbook and check it against the dataset definition.

Critical findings (missing columns, unknown dropdown values, empty
identifiers) block a push. Warnings (unparseable booleans or years,
empty cells) are informational: the offending cells are skipped when
pushing.

Example:
  datamakelaar validate po_daken exports/po_daken.xlsx`,
	Args: cobra.ExactArgs(2),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	def, err := findDataset(cfg, args[0])
	if err != nil {
		return err
	}

	report, sheet, err := validateWorkbook(args[1], def)
	if err != nil {
		return err
	}
	printReport(report)

	if !report.OK() {
		return fmt.Errorf("%d critical findings", len(report.Criticals()))
	}
	printStatus("✓", fmt.Sprintf("%d rijen gecontroleerd, klaar om te pushen", len(sheet.Rows)), color.FgGreen)
	return nil
}

// validateWorkbook reads the workbook and runs all checks. The sheet is
// returned alongside the report so push can reuse it.
func validateWorkbook(path string, def *dataset.Definition) (*validate.Report, *excel.Sheet, error) {
	sheet, err := excel.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read workbook: %w", err)
	}
	return validate.Sheet(sheet, def), sheet, nil
}

func printReport(report *validate.Report) {
	for _, f := range report.Criticals() {
		printStatus("✗", f.String(), color.FgRed)
	}
	for _, f := range report.Warnings() {
		printStatus("!", f.String(), color.FgYellow)
	}
}
