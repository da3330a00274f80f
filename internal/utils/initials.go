package utils

import "strings"

// Initials computes display initials from a name: the first letter of up
// to the first two words, uppercased.  Empty names yield "?" so presence
// badges always render something.
func Initials(name string) string {
	var b strings.Builder
	for i, word := range strings.Fields(name) {
		if i == 2 {
			break
		}
		r := []rune(word)[0]
		b.WriteString(strings.ToUpper(string(r)))
	}
	if b.Len() == 0 {
		return "?"
	}
	return b.String()
}
