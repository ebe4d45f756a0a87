package gen

import (
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// lowerCamel spells a schema variant name the way Swift enum cases are
// written. Casers are stateful and not safe to share, so one is built
// per call.
func lowerCamel(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if size == 0 || r == utf8.RuneError && size == 1 {
		return name
	}
	return cases.Lower(language.Und).String(name[:size]) + name[size:]
}
