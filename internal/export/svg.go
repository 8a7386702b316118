// Package export writes visualization frames and braille canvases as SVG.
package export

import (
	"fmt"
	"html"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/san-kum/transitviz/internal/viz"
)

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// FramesToSVG composites frames in order, the way a window would show them
// after the last one: a frame with Clear set wipes everything before it.
// The canvas size is taken from the first frame.
func FramesToSVG(frames []viz.Frame) string {
	if len(frames) == 0 {
		return ""
	}
	start := 0
	for i, f := range frames {
		if f.Clear {
			start = i
		}
	}
	w, h := frames[0].Width, frames[0].Height
	bg := frames[start].Background
	if !frames[start].Clear {
		bg = viz.Black
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="%.1f %.1f %.0f %.0f">
<rect x="%.1f" y="%.1f" width="100%%" height="100%%" fill="%s"/>
<g transform="scale(1,-1)">
`, w, h, -w/2, -h/2, w, h, -w/2, -h/2, hex(bg)))

	for _, f := range frames[start:] {
		writeShapes(&sb, f)
	}
	sb.WriteString("</g>\n")
	for _, f := range frames[start:] {
		writeLabels(&sb, f)
	}
	sb.WriteString("</svg>\n")
	return sb.String()
}

// FrameToSVG renders a single frame on its own.
func FrameToSVG(f viz.Frame) string {
	f.Clear = true
	return FramesToSVG([]viz.Frame{f})
}

// shapes are drawn in a y-up group
func writeShapes(sb *strings.Builder, f viz.Frame) {
	for _, pl := range f.Polylines {
		if len(pl.Points) < 2 {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<polyline fill="none" stroke="%s" stroke-width="%.1f" stroke-linejoin="round" points="`, hex(pl.Color), pl.Weight))
		for i, p := range pl.Points {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(fmt.Sprintf("%.2f,%.2f", p.X, p.Y))
		}
		sb.WriteString("\"/>\n")
	}
	for _, c := range f.Circles {
		fill := "none"
		if c.Filled {
			fill = hex(c.Fill)
		}
		sb.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.1f" fill="%s" stroke="%s" stroke-width="%.1f"/>
`, c.X, c.Y, c.Radius, fill, hex(c.Stroke), c.Weight))
	}
	for _, d := range f.Dots {
		sb.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.1f" fill="%s"/>
`, d.X, d.Y, d.Radius, hex(d.Color)))
	}
}

// labels sit outside the flipped group so the glyphs stay upright
func writeLabels(sb *strings.Builder, f viz.Frame) {
	for _, l := range f.Labels {
		x, anchor := l.X, "middle"
		if l.Align == viz.AlignLeft {
			x, anchor = l.X-l.Width/2, "start"
		}
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-family="monospace" font-size="%.0f" fill="%s" text-anchor="%s" dominant-baseline="middle">%s</text>
`, x, -l.Y, l.Size, hex(l.Color), anchor, html.EscapeString(l.Text)))
	}
}

// CanvasToSVG draws every lit braille dot as a circle, scale units apart.
func CanvasToSVG(canvas *viz.Canvas, scale float64, ink string) string {
	if canvas == nil {
		return ""
	}
	if ink == "" {
		ink = "#ffffff"
	}
	pw, ph := canvas.PixelSize()
	width, height := float64(pw)*scale, float64(ph)*scale

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#000000"/>
<g fill="%s">
`, width, height, width, height, ink))

	r := scale * 0.4
	for y := 0; y < ph; y++ {
		for x := 0; x < pw; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, float64(x)*scale+scale/2, float64(y)*scale+scale/2, r))
		}
	}
	sb.WriteString("</g>\n</svg>\n")
	return sb.String()
}

// WriteFile writes svg to path, creating parent directories.
func WriteFile(path, svg string) error {
	if svg == "" {
		return fmt.Errorf("export: nothing to write to %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(svg), 0644)
}

// TripPath is where a trip's picture is exported.
func TripPath(dir, tripID string) string {
	return filepath.Join(dir, "trips", "trip_"+tripID+".svg")
}
