package excel

import "strings"

// maxDefinedNameLen is the workbook limit for defined names.
const maxDefinedNameLen = 255

// SanitizeName turns an attribute key into a valid workbook defined
// name: non-alphanumerics become underscores and a leading digit or
// underscore gets an "N" prefix.
func SanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	cleaned := b.String()
	if cleaned == "" {
		return "N"
	}
	if c := cleaned[0]; (c >= '0' && c <= '9') || c == '_' {
		cleaned = "N" + cleaned
	}
	if len(cleaned) > maxDefinedNameLen {
		cleaned = cleaned[:maxDefinedNameLen]
	}
	return cleaned
}
