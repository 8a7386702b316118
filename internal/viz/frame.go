package viz

import "image/color"

var (
	Black  = color.RGBA{0, 0, 0, 255}
	White  = color.RGBA{255, 255, 255, 255}
	Salmon = color.RGBA{250, 128, 114, 255}
	Gray10 = color.RGBA{26, 26, 26, 255}
)

type Align int

const (
	AlignCenter Align = iota
	AlignLeft
)

type Vec struct {
	X, Y float64
}

// Dot is a filled disc.
type Dot struct {
	Vec
	Radius float64
	Color  color.RGBA
}

type Polyline struct {
	Points []Vec
	Weight float64
	Color  color.RGBA
}

// Circle is an outlined disc. Fill is ignored unless Filled is set.
type Circle struct {
	Vec
	Radius float64
	Weight float64
	Stroke color.RGBA
	Fill   color.RGBA
	Filled bool
}

// Label is text anchored at its centre, or at its left edge for AlignLeft.
// Width bounds the text box.
type Label struct {
	Vec
	Text  string
	Size  float64
	Width float64
	Align Align
	Color color.RGBA
}

// Frame is everything drawn in one tick, in canvas space: the origin is the
// centre of a Width x Height canvas and y grows upwards.
//
// When Clear is false the frame is drawn on top of the previous ones.
type Frame struct {
	Index      int
	Total      int
	Width      float64
	Height     float64
	Clear      bool
	Background color.RGBA

	Dots      []Dot
	Polylines []Polyline
	Circles   []Circle
	Labels    []Label

	// Metric is a per-frame scalar the terminal view charts.
	Metric     float64
	MetricName string
}

// Empty reports whether the frame draws nothing.
func (f Frame) Empty() bool {
	return len(f.Dots) == 0 && len(f.Polylines) == 0 && len(f.Circles) == 0 && len(f.Labels) == 0
}
