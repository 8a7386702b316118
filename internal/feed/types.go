package feed

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/transitviz/internal/geo"
)

var (
	ErrNoStops        = errors.New("feed: no stops with coordinates")
	ErrTripNotFound   = errors.New("feed: trip not found")
	ErrShapeNotFound  = errors.New("feed: shape not found")
	ErrUnknownStop    = errors.New("feed: stop not found")
	ErrUnsupportedSrc = errors.New("feed: unsupported source")
	ErrTooLarge       = errors.New("feed: download too large")
)

// Stop is a row of stops.txt. Stations without coordinates keep
// HasLocation=false and are never handed to the geometry code.
type Stop struct {
	ID          string
	Name        string
	Lng         float64
	Lat         float64
	HasLocation bool
}

func (s Stop) Point() geo.Point {
	return geo.Point{Lng: s.Lng, Lat: s.Lat}
}

type StopTime struct {
	StopID   string
	Sequence int
}

type Trip struct {
	ID        string
	RouteID   string
	ShapeID   string
	Headsign  string
	StopTimes []StopTime
}

// Feed is an in-memory, read-only GTFS dataset.
type Feed struct {
	Source string
	Stops  map[string]Stop
	Trips  map[string]Trip
	Shapes map[string][]geo.Point
}

func newFeed(source string) *Feed {
	return &Feed{
		Source: source,
		Stops:  make(map[string]Stop),
		Trips:  make(map[string]Trip),
		Shapes: make(map[string][]geo.Point),
	}
}

// StopPoints returns the coordinates of every located stop keyed by stop id.
func (f *Feed) StopPoints() map[string]geo.Point {
	pts := make(map[string]geo.Point, len(f.Stops))
	for id, s := range f.Stops {
		if s.HasLocation {
			pts[id] = s.Point()
		}
	}
	return pts
}

// LocatedStops returns the located stops ordered by id.
func (f *Feed) LocatedStops() []Stop {
	out := make([]Stop, 0, len(f.Stops))
	for _, s := range f.Stops {
		if s.HasLocation {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Points flattens stops into their coordinates, in order.
func Points(stops []Stop) []geo.Point {
	pts := make([]geo.Point, len(stops))
	for i, s := range stops {
		pts[i] = s.Point()
	}
	return pts
}

func (f *Feed) Stop(id string) (Stop, error) {
	s, ok := f.Stops[id]
	if !ok {
		return Stop{}, fmt.Errorf("%w: %s", ErrUnknownStop, id)
	}
	return s, nil
}

func (f *Feed) Trip(id string) (Trip, error) {
	t, ok := f.Trips[id]
	if !ok {
		return Trip{}, fmt.Errorf("%w: %s", ErrTripNotFound, id)
	}
	return t, nil
}

// TripStops resolves the located stops a trip calls at, in sequence order.
func (f *Feed) TripStops(tripID string) ([]Stop, error) {
	t, err := f.Trip(tripID)
	if err != nil {
		return nil, err
	}
	out := make([]Stop, 0, len(t.StopTimes))
	for _, st := range t.StopTimes {
		s, ok := f.Stops[st.StopID]
		if !ok || !s.HasLocation {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

// TripShape returns the polyline of a trip's shape.
func (f *Feed) TripShape(tripID string) ([]geo.Point, error) {
	t, err := f.Trip(tripID)
	if err != nil {
		return nil, err
	}
	pts, ok := f.Shapes[t.ShapeID]
	if !ok || t.ShapeID == "" {
		return nil, fmt.Errorf("%w: %q (trip %s)", ErrShapeNotFound, t.ShapeID, tripID)
	}
	return pts, nil
}

// TripIDs returns every trip id in sorted order.
func (f *Feed) TripIDs() []string {
	out := make([]string, 0, len(f.Trips))
	for id := range f.Trips {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
