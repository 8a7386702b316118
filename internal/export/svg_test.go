package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/transitviz/internal/viz"
)

func tripFrame() viz.Frame {
	return viz.Frame{
		Width: 500, Height: 500, Clear: true, Background: viz.Black,
		Polylines: []viz.Polyline{{Points: []viz.Vec{{X: -100, Y: 0}, {X: 100, Y: 50}}, Weight: 2, Color: viz.Salmon}},
		Circles:   []viz.Circle{{Vec: viz.Vec{X: -100}, Radius: 8, Weight: 2, Stroke: viz.Salmon, Fill: viz.Black, Filled: true}},
		Labels:    []viz.Label{{Vec: viz.Vec{Y: -200}, Text: "Déli <pu> ► Astoria", Size: 12, Width: 400, Align: viz.AlignLeft, Color: viz.Salmon}},
	}
}

func TestFrameToSVG(t *testing.T) {
	svg := FrameToSVG(tripFrame())

	for _, want := range []string{
		`viewBox="-250.0 -250.0 500 500"`,
		`<polyline fill="none" stroke="#fa8072" stroke-width="2.0"`,
		`points="-100.00,0.00 100.00,50.00"`,
		`<circle cx="-100.00" cy="0.00" r="8.0" fill="#000000" stroke="#fa8072"`,
		`x="-200.0" y="200.0"`,
		`text-anchor="start"`,
		`Déli &lt;pu&gt; ► Astoria`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %q", want)
		}
	}
}

func TestFramesToSVG_Accumulates(t *testing.T) {
	first := viz.Frame{Width: 500, Height: 500, Clear: true, Background: viz.Black,
		Dots: []viz.Dot{{Vec: viz.Vec{X: 1, Y: 1}, Radius: 1, Color: viz.White}}}
	second := viz.Frame{Width: 500, Height: 500,
		Dots: []viz.Dot{{Vec: viz.Vec{X: 2, Y: 2}, Radius: 1, Color: viz.White}}}

	svg := FramesToSVG([]viz.Frame{first, second})
	if n := strings.Count(svg, `fill="#ffffff"/>`); n != 2 {
		t.Errorf("dots = %d, want 2", n)
	}

	wiped := second
	wiped.Clear = true
	svg = FramesToSVG([]viz.Frame{first, wiped})
	if n := strings.Count(svg, `fill="#ffffff"/>`); n != 1 {
		t.Errorf("dots after clear = %d, want 1", n)
	}

	if FramesToSVG(nil) != "" {
		t.Error("no frames should give no svg")
	}
}

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	svg := CanvasToSVG(c, 10, "")
	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("circles = %d", n)
	}
	if !strings.Contains(svg, `<circle cx="35.0" cy="35.0" r="4.0"/>`) {
		t.Error("dot position wrong")
	}
	if CanvasToSVG(nil, 1, "") != "" {
		t.Error("nil canvas")
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := TripPath(dir, "C32177100")
	if want := filepath.Join(dir, "trips", "trip_C32177100.svg"); path != want {
		t.Fatalf("TripPath = %s", path)
	}
	if err := WriteFile(path, FrameToSVG(tripFrame())); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "<?xml") {
		t.Error("not an svg")
	}
	if err := WriteFile(path, ""); err == nil {
		t.Error("empty svg should fail")
	}
}
