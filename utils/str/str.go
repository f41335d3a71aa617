package str

import "strings"

// EmptyDefault returns d when s is blank.
func EmptyDefault(s, d string) string {
	if len(strings.TrimSpace(s)) == 0 {
		return d
	}
	return s
}

// In reports whether s matches one of options, ignoring case and
// surrounding spaces.
func In(s string, options []string) bool {
	s = strings.TrimSpace(s)
	for _, o := range options {
		if strings.EqualFold(s, o) {
			return true
		}
	}
	return false
}
