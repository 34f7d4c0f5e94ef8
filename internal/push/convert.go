// Package push converts validated workbook rows into platform updates
// and sends them in batches.
package push

import (
	"strconv"
	"strings"
	"time"

	"github.com/woonstad/datamakelaar/internal/dataset"
	"github.com/woonstad/datamakelaar/internal/excel"
	"github.com/woonstad/datamakelaar/pkg/models"
)

// BuildUpdates converts sheet rows into update payloads. Rows without
// an identifier are skipped; validation reports those separately.
func BuildUpdates(sheet *excel.Sheet, def *dataset.Definition) []models.ObjectUpdate {
	updates := make([]models.ObjectUpdate, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		id := row.Get(dataset.ColumnIdentifier)
		if id == "" {
			continue
		}

		attrs := make(map[string]*string, len(def.Fields))
		for _, field := range def.Fields {
			attrs[field.Attribute] = convertValue(row.Get(field.Column), field)
		}

		updates = append(updates, models.ObjectUpdate{
			ObjectType: def.ObjectType,
			Identifier: id,
			Attributes: attrs,
		})
	}
	return updates
}

// convertValue normalizes a cell value into the platform
// representation for the field. Nil clears the attribute.
func convertValue(value string, field dataset.Field) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	switch {
	case field.Type == dataset.FieldBoolean:
		return strPtr(toBooleanLiteral(value))
	case field.Type == dataset.FieldDate && field.DateFormat == "yyyy":
		return toYear(value)
	default:
		return strPtr(value)
	}
}

// toBooleanLiteral maps affirmative spellings to "true" and everything
// else to "false", matching what the platform stores.
func toBooleanLiteral(value string) string {
	switch strings.ToLower(value) {
	case "true", "1", "yes", "ja":
		return "true"
	default:
		return "false"
	}
}

// toYear extracts a four-digit year from plain years ("2019"),
// numeric spellings ("2019.0") and timestamps. Unusable values map to
// nil so the attribute is cleared rather than poisoned.
func toYear(value string) *string {
	if strings.Contains(value, "T") {
		if ts, err := time.Parse(time.RFC3339, value); err == nil {
			return strPtr(strconv.Itoa(ts.Year()))
		}
		return nil
	}
	if ts, err := time.Parse("2006-01-02", value); err == nil {
		return strPtr(strconv.Itoa(ts.Year()))
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return strPtr(strconv.Itoa(int(f)))
	}
	return nil
}

func strPtr(s string) *string { return &s }
