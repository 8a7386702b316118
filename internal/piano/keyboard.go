package piano

import (
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

//go:embed notes.csv
var defaultNotes string

var ErrUnknownKey = errors.New("piano: unknown key")

// Keyboard is a name-indexed note table.
type Keyboard struct {
	keys map[string]Note
}

// DefaultKeyboard returns the equal-tempered table shipped with the binary.
func DefaultKeyboard() *Keyboard {
	kb, err := ParseKeyboard(strings.NewReader(defaultNotes))
	if err != nil {
		panic(fmt.Sprintf("piano: embedded notes.csv: %v", err))
	}
	return kb
}

// LoadKeyboard reads a name,freq table from path. An empty path yields the
// default table.
func LoadKeyboard(path string) (*Keyboard, error) {
	if path == "" {
		return DefaultKeyboard(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	kb, err := ParseKeyboard(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return kb, nil
}

func ParseKeyboard(r io.Reader) (*Keyboard, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	kb := &Keyboard{keys: make(map[string]Note)}
	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if len(rec) < 2 {
			return nil, fmt.Errorf("line %d: want name,freq", line)
		}
		name := strings.TrimSpace(rec[0])
		freq, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if err != nil {
			// header row
			if line == 1 {
				continue
			}
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		kb.keys[name] = Note{Name: name, Freq: freq}
	}
	return kb, nil
}

func (k *Keyboard) Key(name string) (Note, error) {
	n, ok := k.keys[name]
	if !ok {
		return Note{}, fmt.Errorf("%w: %s", ErrUnknownKey, name)
	}
	return n, nil
}

// Notes resolves names in order, skipping unknown keys.
func (k *Keyboard) Notes(names []string) []Note {
	out := make([]Note, 0, len(names))
	for _, name := range names {
		if n, ok := k.keys[name]; ok {
			out = append(out, n)
		}
	}
	return out
}

func (k *Keyboard) Len() int { return len(k.keys) }

// Names lists the keys ordered by pitch.
func (k *Keyboard) Names() []string {
	out := make([]string, 0, len(k.keys))
	for name := range k.keys {
		out = append(out, name)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := k.keys[out[i]], k.keys[out[j]]
		if a.Freq != b.Freq {
			return a.Freq < b.Freq
		}
		return a.Name < b.Name
	})
	return out
}
