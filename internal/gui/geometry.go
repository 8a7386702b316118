package gui

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/transitviz/internal/viz"
)

// toScreen maps canvas space (origin at the centre, y up) to window pixels.
func toScreen(v viz.Vec, w, h float64) rl.Vector2 {
	return rl.NewVector2(float32(w/2+v.X), float32(h/2-v.Y))
}

func toColor(c color.RGBA) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, c.A)
}

// ringBounds centres a stroke of the given weight on radius r.
func ringBounds(r, weight float64) (float32, float32) {
	inner := r - weight/2
	if inner < 0 {
		inner = 0
	}
	return float32(inner), float32(r + weight/2)
}

// labelOrigin is the top-left corner of a label whose rendered width is
// textW. Left-aligned text starts at the left edge of the label box.
func labelOrigin(l viz.Label, textW, w, h float64) rl.Vector2 {
	p := toScreen(l.Vec, w, h)
	x := float64(p.X) - textW/2
	if l.Align == viz.AlignLeft {
		x = float64(p.X) - l.Width/2
	}
	return rl.NewVector2(float32(x), p.Y-float32(l.Size/2))
}
