package viz

import (
	"go/parser"
	"go/token"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// viz and the audio package it draws from must build without the
// portaudio cgo bindings.
func TestNoSoundCardImports(t *testing.T) {
	banned := []string{
		"github.com/gordonklaus/portaudio",
		"github.com/san-kum/transitviz/internal/audio/device",
	}
	for _, dir := range []string{".", "../audio"} {
		files, err := filepath.Glob(filepath.Join(dir, "*.go"))
		if err != nil {
			t.Fatal(err)
		}
		for _, name := range files {
			if strings.HasSuffix(name, "_test.go") {
				continue
			}
			f, err := parser.ParseFile(token.NewFileSet(), name, nil, parser.ImportsOnly)
			if err != nil {
				t.Fatal(err)
			}
			for _, imp := range f.Imports {
				path, _ := strconv.Unquote(imp.Path.Value)
				for _, b := range banned {
					if path == b {
						t.Errorf("%s imports %s", name, path)
					}
				}
			}
		}
	}
}
