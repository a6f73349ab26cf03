package pipeline

import "strings"

// NormalizeFIPS converts a raw county code to its 5-character form.
// Digit-only codes shorter than five characters are left-padded with zeros;
// longer digit-only codes are kept as they are. Anything else, including the
// empty string, is rejected.
func NormalizeFIPS(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return "", false
		}
	}
	if len(s) < 5 {
		s = strings.Repeat("0", 5-len(s)) + s
	}
	return s, true
}
