package util

import "strings"

// IsValidISBN13 reports whether the input is a 13-digit ISBN with a
// correct check digit. Hyphens and spaces are ignored.
func IsValidISBN13(isbn string) bool {
	digits := strings.NewReplacer("-", "", " ", "").Replace(strings.TrimSpace(isbn))
	if len(digits) != 13 {
		return false
	}

	sum := 0
	for i, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
		d := int(r - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}
	return sum%10 == 0
}
