package viz

import (
	"sort"
	"strings"
	"time"

	"github.com/san-kum/transitviz/internal/audio"
	"github.com/san-kum/transitviz/internal/feed"
	"github.com/san-kum/transitviz/internal/geo"
	"github.com/san-kum/transitviz/internal/piano"
)

const (
	ringMinRadius = 50
	ringMaxRadius = 200
	keysTextSize  = 24
	nameTextSize  = 32
	textOffsetY   = 50
)

// scheduler is implemented by players that can queue notes ahead of time.
type scheduler interface {
	PressAt(notes []piano.Note, delay, dur time.Duration, amp float64)
}

// AudioViz shows one stop per frame, in stop id order, and plays the chord
// its name maps to.
type AudioViz struct {
	deps  Deps
	stops []feed.Stop
	next  int
	frame Frame
}

func (v *AudioViz) Init() error {
	stops := make([]feed.Stop, 0, len(v.deps.Feed.Stops))
	for _, s := range v.deps.Feed.Stops {
		stops = append(stops, s)
	}
	if len(stops) == 0 {
		return feed.ErrNoStops
	}
	sort.Slice(stops, func(i, j int) bool { return stops[i].ID < stops[j].ID })
	v.stops = stops
	v.next = 0
	v.frame = Frame{}

	if v.deps.Music {
		v.music()
	}
	return nil
}

// music queues every stop's chord back to back.
func (v *AudioViz) music() {
	s, ok := v.deps.Player.(scheduler)
	if !ok {
		return
	}
	for i, stop := range v.stops {
		notes := v.deps.Keyboard.Notes(piano.KeysForName(stop.Name))
		s.PressAt(notes, time.Duration(i)*audio.MusicDuration, audio.MusicDuration, audio.MusicAmp)
	}
}

func (v *AudioViz) Tick() (bool, error) {
	if v.stops == nil {
		return false, ErrNotInitialized
	}
	if v.next >= len(v.stops) {
		return true, nil
	}
	stop := v.stops[v.next]
	keys := piano.KeysForName(stop.Name)
	w := v.deps.CanvasWidth

	f := Frame{
		Index:      v.next,
		Total:      len(v.stops),
		Width:      w,
		Height:     v.deps.CanvasHeight,
		Clear:      true,
		Background: Black,
		Metric:     float64(len(keys)),
		MetricName: "keys",
	}
	for _, k := range keys {
		r := geo.MapRange(float64(piano.ScaleIndex(k)), 0, float64(len(piano.Scale)-1), ringMinRadius, ringMaxRadius)
		f.Circles = append(f.Circles, Circle{Radius: r, Weight: 2, Stroke: Gray10})
	}
	f.Labels = []Label{
		{Vec: Vec{0, -textOffsetY}, Text: strings.Join(keys, " "), Size: keysTextSize, Width: w, Color: White},
		{Vec: Vec{0, textOffsetY}, Text: stop.Name, Size: nameTextSize, Width: w, Color: White},
	}

	v.deps.Player.Press(v.deps.Keyboard.Notes(keys), audio.PressDuration, audio.PressAmp)

	v.frame = f
	v.next++
	return v.next >= len(v.stops), nil
}

func (v *AudioViz) Frame() Frame { return v.frame }
