package validators

import (
	"strings"
	"unicode/utf8"
)

// SanitizeString trims input and caps it at maxLen characters, matching the
// VARCHAR limits of the shop schema. A multi-byte rune is never split.
func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen <= 0 || utf8.RuneCountInString(trimmed) <= maxLen {
		return trimmed
	}
	runes := []rune(trimmed)
	return strings.TrimSpace(string(runes[:maxLen]))
}

// SanitizeOptional trims an optional field and maps blank input to nil.
func SanitizeOptional(input *string, maxLen int) *string {
	if input == nil {
		return nil
	}
	v := SanitizeString(*input, maxLen)
	if v == "" {
		return nil
	}
	return &v
}
