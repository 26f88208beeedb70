package tidy

import "strings"

// KeySeparator joins gender and event in a composite column key, e.g. "female_judo".
const KeySeparator = "_"

// genderWords are the tokens recognised as the gender half of a composite key.
var genderWords = map[string]struct{}{
	"men":    {},
	"women":  {},
	"man":    {},
	"woman":  {},
	"male":   {},
	"female": {},
	"mixed":  {},
	"boys":   {},
	"girls":  {},
}

func isGenderWord(s string) bool {
	_, ok := genderWords[strings.ToLower(s)]
	return ok
}

// SplitKey separates a composite column key into gender and event.
//
// The key is cut at the first separator and read as <gender>_<event>. When
// the left part is not a gender word but the part after the last separator
// is, the key is read as <event>_<gender> instead. A key with no separator
// returns ok=false with the whole key as gender and an empty event.
func SplitKey(key string) (gender, event string, ok bool) {
	left, right, found := strings.Cut(key, KeySeparator)
	if !found {
		return key, "", false
	}
	if isGenderWord(left) {
		return left, right, true
	}
	if i := strings.LastIndex(key, KeySeparator); isGenderWord(key[i+len(KeySeparator):]) {
		return key[i+len(KeySeparator):], key[:i], true
	}
	return left, right, true
}
