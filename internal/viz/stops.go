package viz

import (
	"errors"

	"github.com/san-kum/transitviz/internal/geo"
	"github.com/san-kum/transitviz/internal/traversal"
)

// StopsViz reveals stops in order of their distance from a fixed start,
// Batch stops per frame.
type StopsViz struct {
	deps   Deps
	engine *traversal.Engine
	proj   geo.Projection
	ticks  int
	frame  Frame
	order  []traversal.Item
}

func (v *StopsViz) Init() error {
	pts := v.deps.Feed.StopPoints()
	if v.engine == nil {
		e, err := traversal.New(pts, v.deps.StartStop)
		if err != nil {
			return err
		}
		all := make([]geo.Point, 0, len(pts))
		for _, p := range pts {
			all = append(all, p)
		}
		proj, err := project(all, v.deps.CanvasWidth, v.deps.CanvasHeight, "stops")
		if err != nil {
			return err
		}
		v.engine, v.proj = e, proj
	} else {
		v.engine.Reset()
	}
	v.ticks = 0
	v.order = v.order[:0]
	v.frame = Frame{}
	return nil
}

func (v *StopsViz) Tick() (bool, error) {
	if v.engine == nil {
		return false, ErrNotInitialized
	}
	f := v.blank()

	batch, err := v.engine.Step(v.deps.Batch)
	if errors.Is(err, traversal.ErrExhausted) {
		v.frame = f
		v.ticks++
		return true, nil
	}
	if err != nil {
		return false, err
	}

	f.Dots = make([]Dot, len(batch))
	for i, it := range batch {
		x, y := v.proj.ProjectPoint(it.Point)
		f.Dots[i] = Dot{Vec: Vec{x, y}, Radius: 1, Color: White}
		f.Metric = it.Distance
	}
	v.order = append(v.order, batch...)
	v.frame = f
	v.ticks++
	return v.engine.Done(), nil
}

func (v *StopsViz) blank() Frame {
	total := 0
	if n := v.engine.Len() - 1; n > 0 {
		total = (n + v.deps.Batch - 1) / v.deps.Batch
	}
	return Frame{
		Index:      v.ticks,
		Total:      total,
		Width:      v.deps.CanvasWidth,
		Height:     v.deps.CanvasHeight,
		Clear:      v.ticks == 0,
		Background: Black,
		MetricName: "distance from start",
	}
}

func (v *StopsViz) Frame() Frame { return v.frame }

// Projection is the dataset-wide projection dots are placed with.
func (v *StopsViz) Projection() geo.Projection { return v.proj }

// Order returns every stop revealed so far, in reveal order.
func (v *StopsViz) Order() []traversal.Item {
	out := make([]traversal.Item, len(v.order))
	copy(out, v.order)
	return out
}

// Engine exposes the traversal for progress reporting.
func (v *StopsViz) Engine() *traversal.Engine { return v.engine }
