package artifact

import (
	"specimenpro/internal/models"
	"strings"
	"unicode"
)

const fallbackName = "specimen"

// SanitizeName keeps letters, digits, spaces, hyphens and underscores.
func SanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return fallbackName
	}
	return out
}

// FileName is "<sanitized name>_<specimen id>.png".
func FileName(s models.Specimen) string {
	return SanitizeName(s.Name) + "_" + s.ID + ".png"
}
