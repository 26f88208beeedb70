package tidy

import (
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// capitalizer upper-cases the first rune and lower-cases the rest.
// Casers carry state, so each pipeline run builds its own.
type capitalizer struct {
	upper cases.Caser
	lower cases.Caser
}

func newCapitalizer() *capitalizer {
	return &capitalizer{
		upper: cases.Upper(language.Und),
		lower: cases.Lower(language.Und),
	}
}

func (c *capitalizer) String(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeRuneInString(s)
	return c.upper.String(s[:size]) + c.lower.String(s[size:])
}

// Capitalize returns s with its first rune upper-cased and the rest lower-cased.
func Capitalize(s string) string {
	return newCapitalizer().String(s)
}
