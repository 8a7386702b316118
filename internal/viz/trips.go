package viz

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/san-kum/transitviz/internal/feed"
	"github.com/san-kum/transitviz/internal/geo"
)

const (
	tripStopRadius   = 8
	tripStrokeWeight = 2
	tripCaptionSize  = 12
	tripCaptionInset = 50
)

// TripsViz draws one trip: its shape, a circle per stop and a
// "last ► first" caption. It produces a single frame.
type TripsViz struct {
	deps  Deps
	stops []feed.Stop
	shape []geo.Point
	proj  geo.Projection
	ready bool
	frame Frame
}

func (v *TripsViz) Init() error {
	stops, err := v.deps.Feed.TripStops(v.deps.TripID)
	if err != nil {
		return err
	}
	if len(stops) == 0 {
		return fmt.Errorf("%w: trip %s has no located stops", feed.ErrNoStops, v.deps.TripID)
	}
	shape, err := v.deps.Feed.TripShape(v.deps.TripID)
	if errors.Is(err, feed.ErrShapeNotFound) {
		slog.Warn("trip has no shape, drawing stops only", "trip", v.deps.TripID)
	} else if err != nil {
		return err
	}
	proj, err := project(feed.Points(stops), v.deps.CanvasWidth, v.deps.CanvasHeight, "trip "+v.deps.TripID)
	if err != nil {
		return err
	}
	v.stops, v.shape, v.proj = stops, shape, proj
	v.ready = true
	v.frame = Frame{}
	return nil
}

func (v *TripsViz) Tick() (bool, error) {
	if !v.ready {
		return false, ErrNotInitialized
	}
	w, h := v.deps.CanvasWidth, v.deps.CanvasHeight
	f := Frame{
		Index:      0,
		Total:      1,
		Width:      w,
		Height:     h,
		Clear:      true,
		Background: Black,
	}

	if len(v.shape) > 1 {
		line := Polyline{Points: make([]Vec, len(v.shape)), Weight: tripStrokeWeight, Color: Salmon}
		for i, p := range v.shape {
			x, y := v.proj.ProjectPoint(p)
			line.Points[i] = Vec{x, y}
		}
		f.Polylines = []Polyline{line}
	}

	f.Circles = make([]Circle, len(v.stops))
	for i, s := range v.stops {
		x, y := v.proj.ProjectPoint(s.Point())
		f.Circles[i] = Circle{
			Vec:    Vec{x, y},
			Radius: tripStopRadius,
			Weight: tripStrokeWeight,
			Stroke: Salmon,
			Fill:   Black,
			Filled: true,
		}
	}

	f.Labels = []Label{{
		Vec:   Vec{0, -(h/2 - tripCaptionInset)},
		Text:  v.Caption(),
		Size:  tripCaptionSize,
		Width: w - 2*tripCaptionInset,
		Align: AlignLeft,
		Color: Salmon,
	}}

	v.frame = f
	return true, nil
}

// Caption names the trip's terminus followed by its origin.
func (v *TripsViz) Caption() string {
	if len(v.stops) == 0 {
		return ""
	}
	first, last := v.stops[0], v.stops[len(v.stops)-1]
	return fmt.Sprintf("%s ► %s", last.Name, first.Name)
}

func (v *TripsViz) Frame() Frame { return v.frame }

func (v *TripsViz) Projection() geo.Projection { return v.proj }
