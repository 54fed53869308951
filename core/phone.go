package core

import (
	"strings"
	"unicode"
)

// NormalizePhone strips all whitespace from a phone number.
// Every phone number crossing a boundary is normalized before comparison or
// storage, so "+886 912 345 678" and "+886912345678" address the same record.
func NormalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, phone)
}
