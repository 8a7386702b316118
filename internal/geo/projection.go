package geo

import "fmt"

const (
	// MarginX and MarginY are subtracted from the scaled extent on each axis.
	MarginX = 150.0
	MarginY = 50.0

	// FallbackScale replaces the computed scale for degenerate boundaries.
	FallbackScale = 1.0

	DefaultCanvasWidth  = 500.0
	DefaultCanvasHeight = 500.0
)

// Projection maps coordinates inside Box onto a draw area of
// DrawWidth x DrawHeight centered on the origin.
type Projection struct {
	Box        Box     `json:"box"`
	DrawWidth  float64 `json:"draw_width"`
	DrawHeight float64 `json:"draw_height"`
}

// CanvasSize derives the draw extent of box on a canvasW x canvasH canvas.
//
// One uniform scale is used for both axes, picked from whichever geographic
// extent is larger. The other axis may overflow the canvas when the aspect
// ratios of the data and the canvas differ a lot.
func CanvasSize(box Box, canvasW, canvasH float64) (float64, float64, error) {
	if canvasW <= 0 || canvasH <= 0 {
		return 0, 0, fmt.Errorf("%w: %gx%g", ErrInvalidCanvas, canvasW, canvasH)
	}

	geoW, geoH := box.Size()
	if geoW <= 0 || geoH <= 0 {
		return 0, 0, fmt.Errorf("%w: %gx%g degrees", ErrDegenerateGeometry, geoW, geoH)
	}

	var scale float64
	if geoH > geoW {
		scale = canvasH / geoH
	} else {
		scale = canvasW / geoW
	}

	w, h := CanvasSizeWithScale(box, scale)
	return w, h, nil
}

// CanvasSizeWithScale applies the margins to box scaled by scale.
func CanvasSizeWithScale(box Box, scale float64) (float64, float64) {
	geoW, geoH := box.Size()
	return geoW*scale - MarginX, geoH*scale - MarginY
}

// NewProjection builds the projection of box on a canvasW x canvasH canvas.
func NewProjection(box Box, canvasW, canvasH float64) (Projection, error) {
	w, h, err := CanvasSize(box, canvasW, canvasH)
	if err != nil {
		return Projection{}, err
	}
	return Projection{Box: box, DrawWidth: w, DrawHeight: h}, nil
}

// ProjectionWithFallback is NewProjection with FallbackScale standing in for
// the scale of a degenerate box. The returned bool reports whether the
// fallback was used. Invalid canvas dimensions and the empty box still fail.
func ProjectionWithFallback(box Box, canvasW, canvasH float64) (Projection, bool, error) {
	p, err := NewProjection(box, canvasW, canvasH)
	if err == nil {
		return p, false, nil
	}
	if canvasW <= 0 || canvasH <= 0 || box.IsEmpty() {
		return Projection{}, false, err
	}
	w, h := CanvasSizeWithScale(box, FallbackScale)
	return Projection{Box: box, DrawWidth: w, DrawHeight: h}, true, nil
}

// Project maps (lng, lat) into canvas space. Coordinates outside the box are
// extrapolated, never clamped.
func (p Projection) Project(lng, lat float64) (float64, float64) {
	x := MapRange(lng, p.Box.MinLng, p.Box.MaxLng, -p.DrawWidth/2, p.DrawWidth/2)
	y := MapRange(lat, p.Box.MinLat, p.Box.MaxLat, -p.DrawHeight/2, p.DrawHeight/2)
	return x, y
}

// ProjectPoint is Project for a Point.
func (p Projection) ProjectPoint(pt Point) (float64, float64) {
	return p.Project(pt.Lng, pt.Lat)
}

// MapRange linearly maps v from [inMin, inMax] onto [outMin, outMax]. A zero
// width input range maps to the middle of the output range.
func MapRange(v, inMin, inMax, outMin, outMax float64) float64 {
	span := inMax - inMin
	if span == 0 {
		return (outMin + outMax) / 2
	}
	return outMin + (v-inMin)/span*(outMax-outMin)
}
