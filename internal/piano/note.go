// Package piano maps note names to frequencies and stop names to keys.
package piano

import (
	"fmt"
	"strconv"
)

type Note struct {
	Name string  `json:"name"`
	Freq float64 `json:"freq"`
}

// DefaultNote is concert A.
func DefaultNote() Note {
	return Note{Name: "A4", Freq: 440}
}

func (n Note) String() string {
	return fmt.Sprintf("%s (%sHz)", n.Name, strconv.FormatFloat(n.Freq, 'f', -1, 64))
}
