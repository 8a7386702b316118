package piano

import "strings"

// Scale is the nine-key scale stop names are played on.
var Scale = [...]string{
	"C#4/Db4", "D4", "E4", "F4", "G4", "A4", "A#4/Bb4", "C#5/Db5", "D5",
}

// KeysForName maps every space-separated word of name to
// Scale[len(word) % len(Scale)]. Word length is counted in bytes, so
// consecutive spaces yield empty words that map to the first key.
func KeysForName(name string) []string {
	words := strings.Split(name, " ")
	keys := make([]string, len(words))
	for i, w := range words {
		keys[i] = Scale[len(w)%len(Scale)]
	}
	return keys
}

// ScaleIndex is the position of key in Scale, or 0 when absent.
func ScaleIndex(key string) int {
	for i, k := range Scale {
		if k == key {
			return i
		}
	}
	return 0
}
