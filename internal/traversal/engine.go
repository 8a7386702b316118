package traversal

import (
	"fmt"
	"sort"

	"github.com/san-kum/transitviz/internal/geo"
)

// DistanceSeed is the initial record distance of each search. It only seeds
// the comparison; a candidate farther than the seed is still selected when
// nothing closer exists.
const DistanceSeed = 5.0

// Item is a selected point together with its distance from the start.
type Item struct {
	ID       string
	Point    geo.Point
	Distance float64
}

// Engine holds the visited set and last batch of a traversal.
type Engine struct {
	ids    []string
	points []geo.Point
	start  int

	visited   map[string]struct{}
	unvisited []int
	frontier  []Item
	steps     int
}

// New creates an engine over points anchored at startID. The point map is
// copied; later changes to it are not observed.
func New(points map[string]geo.Point, startID string) (*Engine, error) {
	if _, ok := points[startID]; !ok {
		return nil, &NotFoundError{ID: startID}
	}

	ids := make([]string, 0, len(points))
	for id := range points {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	e := &Engine{
		ids:    ids,
		points: make([]geo.Point, len(ids)),
	}
	for i, id := range ids {
		e.points[i] = points[id]
		if id == startID {
			e.start = i
		}
	}

	e.Reset()
	return e, nil
}

// Reset returns the engine to its initial state: only the start visited and
// an empty frontier.
func (e *Engine) Reset() {
	e.visited = make(map[string]struct{}, len(e.ids))
	e.visited[e.ids[e.start]] = struct{}{}

	e.unvisited = make([]int, 0, len(e.ids)-1)
	for i := range e.ids {
		if i != e.start {
			e.unvisited = append(e.unvisited, i)
		}
	}

	e.frontier = nil
	e.steps = 0
}

// Step selects up to batch more points, closest to the start first, and
// makes them the new frontier. It returns ErrExhausted if nothing was left
// to visit when it was called; a call that takes the last points returns
// them with a nil error.
func (e *Engine) Step(batch int) ([]Item, error) {
	if batch <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBatch, batch)
	}
	if len(e.unvisited) == 0 {
		e.frontier = nil
		return nil, ErrExhausted
	}

	n := min(batch, len(e.unvisited))
	out := make([]Item, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, e.takeClosest())
	}

	e.frontier = out
	e.steps++
	return out, nil
}

// takeClosest removes and returns the unvisited point nearest the start.
// The caller guarantees at least one unvisited point.
func (e *Engine) takeClosest() Item {
	origin := e.points[e.start]

	winner := -1
	record := DistanceSeed
	for pos, idx := range e.unvisited {
		dist := geo.Distance(origin, e.points[idx])
		if winner < 0 || dist < record {
			winner = pos
			record = dist
		}
	}

	idx := e.unvisited[winner]
	e.unvisited = append(e.unvisited[:winner], e.unvisited[winner+1:]...)
	e.visited[e.ids[idx]] = struct{}{}

	return Item{ID: e.ids[idx], Point: e.points[idx], Distance: record}
}

// Done reports whether every point has been visited.
func (e *Engine) Done() bool { return len(e.unvisited) == 0 }

// Frontier returns the batch selected by the most recent Step.
func (e *Engine) Frontier() []Item {
	out := make([]Item, len(e.frontier))
	copy(out, e.frontier)
	return out
}

// IsVisited reports whether id has been selected (or is the start).
func (e *Engine) IsVisited(id string) bool {
	_, ok := e.visited[id]
	return ok
}

// Visited is the number of visited points, start included.
func (e *Engine) Visited() int { return len(e.visited) }

// Remaining is the number of points not yet visited.
func (e *Engine) Remaining() int { return len(e.unvisited) }

// Len is the size of the collection.
func (e *Engine) Len() int { return len(e.ids) }

// Steps counts the Step calls that returned points since the last Reset.
func (e *Engine) Steps() int { return e.steps }

// Start returns the anchor point.
func (e *Engine) Start() Item {
	return Item{ID: e.ids[e.start], Point: e.points[e.start]}
}
