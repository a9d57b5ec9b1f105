package service

import "strings"

const birthDateDigits = 8

// FormatBirthDate keeps at most eight digits of input and renders them as DD.MM.YYYY,
// inserting separators as soon as the digits reach them. Formatting is idempotent.
func FormatBirthDate(input string) string {
	var b strings.Builder
	n := 0
	for _, r := range input {
		if r < '0' || r > '9' {
			continue
		}
		if n == 2 || n == 4 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
		n++
		if n == birthDateDigits {
			break
		}
	}
	return b.String()
}
