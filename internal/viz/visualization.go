package viz

import (
	"fmt"
	"log/slog"

	"github.com/san-kum/transitviz/internal/audio"
	"github.com/san-kum/transitviz/internal/feed"
	"github.com/san-kum/transitviz/internal/geo"
	"github.com/san-kum/transitviz/internal/piano"
)

// Visualization produces frames from a feed. Init prepares (or restarts)
// the run, each Tick builds the next frame, and Frame returns the frame the
// last Tick built. Tick reports done=true on the final frame.
type Visualization interface {
	Init() error
	Tick() (done bool, err error)
	Frame() Frame
}

const DefaultBatch = 20

// Deps is what the visualizations draw from. Zero values fall back to the
// defaults of the budapest preset.
type Deps struct {
	Feed         *feed.Feed
	CanvasWidth  float64
	CanvasHeight float64

	StartStop string
	Batch     int

	TripID string

	Keyboard *piano.Keyboard
	Player   audio.Player
	// Music queues every stop's chord up front, one after the other.
	Music bool
}

func (d Deps) withDefaults() Deps {
	if d.CanvasWidth <= 0 {
		d.CanvasWidth = geo.DefaultCanvasWidth
	}
	if d.CanvasHeight <= 0 {
		d.CanvasHeight = geo.DefaultCanvasHeight
	}
	if d.Batch <= 0 {
		d.Batch = DefaultBatch
	}
	if d.Keyboard == nil {
		d.Keyboard = piano.DefaultKeyboard()
	}
	if d.Player == nil {
		d.Player = audio.Silent{}
	}
	return d
}

// New builds the visualization of the given kind. The result still needs
// Init.
func New(kind Kind, d Deps) (Visualization, error) {
	if d.Feed == nil {
		return nil, fmt.Errorf("viz: %s: no feed", kind)
	}
	d = d.withDefaults()
	switch kind {
	case KindStops:
		return &StopsViz{deps: d}, nil
	case KindTrips:
		return &TripsViz{deps: d}, nil
	case KindAudio:
		return &AudioViz{deps: d}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
}

// project builds the projection of pts, falling back to the unit scale when
// the points have no area.
func project(pts []geo.Point, w, h float64, subject string) (geo.Projection, error) {
	box := geo.ComputeBoundary(pts)
	p, fallback, err := geo.ProjectionWithFallback(box, w, h)
	if err != nil {
		return geo.Projection{}, err
	}
	if fallback {
		slog.Warn("degenerate boundary, using fallback scale",
			"subject", subject,
			"box", box.String(),
			"scale", geo.FallbackScale,
		)
	}
	return p, nil
}
