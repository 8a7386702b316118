package feed

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/transitviz/internal/geo"
)

var wanted = []string{"stops.txt", "trips.txt", "stop_times.txt", "shapes.txt"}

// MaxDownload caps the size of a feed fetched over http.
var MaxDownload int64 = 1 << 30

// Load reads a feed from src: an http(s) URL to a zip, a local zip file, or
// a directory holding the GTFS text files.
func Load(ctx context.Context, src string) (*Feed, error) {
	start := time.Now()
	slog.Info("loading gtfs", "source", src)

	var (
		f   *Feed
		err error
	)
	switch {
	case strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://"):
		f, err = loadURL(ctx, src)
	default:
		info, statErr := os.Stat(src)
		if statErr != nil {
			return nil, statErr
		}
		if info.IsDir() {
			f, err = loadDir(src)
		} else {
			f, err = loadZip(src)
		}
	}
	if err != nil {
		return nil, err
	}
	f.Source = src
	if len(f.StopPoints()) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoStops, src)
	}

	slog.Info("gtfs loaded",
		"stops", len(f.Stops),
		"trips", len(f.Trips),
		"shapes", len(f.Shapes),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return f, nil
}

func loadURL(ctx context.Context, url string) (*Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed: GET %s: %s", url, resp.Status)
	}

	tmp, err := os.CreateTemp("", "gtfs-*.zip")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())
	n, err := io.Copy(tmp, io.LimitReader(resp.Body, MaxDownload+1))
	if err != nil {
		tmp.Close()
		return nil, err
	}
	if n > MaxDownload {
		tmp.Close()
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, url, MaxDownload)
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}
	return loadZip(tmp.Name())
}

func loadZip(path string) (*Feed, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnsupportedSrc, path, err)
	}
	defer zr.Close()

	b := newBuilder()
	for _, zf := range zr.File {
		name := strings.ToLower(filepath.Base(zf.Name))
		if !isWanted(name) {
			continue
		}
		r, err := zf.Open()
		if err != nil {
			return nil, err
		}
		err = b.consume(name, r)
		r.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}
	return b.build(), nil
}

func loadDir(dir string) (*Feed, error) {
	b := newBuilder()
	for _, name := range wanted {
		r, err := os.Open(filepath.Join(dir, name))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		err = b.consume(name, r)
		r.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}
	return b.build(), nil
}

func isWanted(name string) bool {
	for _, w := range wanted {
		if name == w {
			return true
		}
	}
	return false
}

type seqStop struct {
	stop string
	seq  int
}

type seqPoint struct {
	pt  geo.Point
	seq int
}

// builder accumulates rows; stop_times and shapes are sorted by sequence once
// every file has been read.
type builder struct {
	feed      *Feed
	stopTimes map[string][]seqStop
	shapes    map[string][]seqPoint
}

func newBuilder() *builder {
	return &builder{
		feed:      newFeed(""),
		stopTimes: make(map[string][]seqStop),
		shapes:    make(map[string][]seqPoint),
	}
}

func (b *builder) consume(name string, r io.Reader) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	head, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return err
	}
	cols := make(map[string]int, len(head))
	for i, h := range head {
		h = strings.TrimPrefix(h, "\ufeff")
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	idx := func(col string) int {
		if i, ok := cols[col]; ok {
			return i
		}
		return -1
	}

	var row func([]string)
	switch name {
	case "stops.txt":
		row = b.stopRow(idx("stop_id"), idx("stop_name"), idx("stop_lat"), idx("stop_lon"))
	case "trips.txt":
		row = b.tripRow(idx("trip_id"), idx("route_id"), idx("shape_id"), idx("trip_headsign"))
	case "stop_times.txt":
		row = b.stopTimeRow(idx("trip_id"), idx("stop_id"), idx("stop_sequence"))
	case "shapes.txt":
		row = b.shapeRow(idx("shape_id"), idx("shape_pt_lat"), idx("shape_pt_lon"), idx("shape_pt_sequence"))
	default:
		return nil
	}
	if row == nil {
		slog.Warn("skipping file with missing columns", "file", name)
		return nil
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		row(rec)
	}
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func (b *builder) stopRow(id, name, lat, lon int) func([]string) {
	if id < 0 {
		return nil
	}
	return func(rec []string) {
		s := Stop{ID: field(rec, id), Name: field(rec, name)}
		la, errLat := strconv.ParseFloat(field(rec, lat), 64)
		lo, errLon := strconv.ParseFloat(field(rec, lon), 64)
		if errLat == nil && errLon == nil {
			s.Lat, s.Lng, s.HasLocation = la, lo, true
		}
		b.feed.Stops[s.ID] = s
	}
}

func (b *builder) tripRow(id, route, shape, headsign int) func([]string) {
	if id < 0 {
		return nil
	}
	return func(rec []string) {
		tid := field(rec, id)
		t := b.feed.Trips[tid]
		t.ID = tid
		t.RouteID = field(rec, route)
		t.ShapeID = field(rec, shape)
		t.Headsign = field(rec, headsign)
		b.feed.Trips[tid] = t
	}
}

func (b *builder) stopTimeRow(trip, stop, seq int) func([]string) {
	if trip < 0 || stop < 0 || seq < 0 {
		return nil
	}
	return func(rec []string) {
		n, err := strconv.Atoi(field(rec, seq))
		if err != nil {
			return
		}
		tid := field(rec, trip)
		b.stopTimes[tid] = append(b.stopTimes[tid], seqStop{stop: field(rec, stop), seq: n})
	}
}

func (b *builder) shapeRow(id, lat, lon, seq int) func([]string) {
	if id < 0 || lat < 0 || lon < 0 || seq < 0 {
		return nil
	}
	return func(rec []string) {
		la, errLat := strconv.ParseFloat(field(rec, lat), 64)
		lo, errLon := strconv.ParseFloat(field(rec, lon), 64)
		n, errSeq := strconv.Atoi(field(rec, seq))
		if errLat != nil || errLon != nil || errSeq != nil {
			return
		}
		sid := field(rec, id)
		b.shapes[sid] = append(b.shapes[sid], seqPoint{pt: geo.Point{Lng: lo, Lat: la}, seq: n})
	}
}

func (b *builder) build() *Feed {
	for tid, arr := range b.stopTimes {
		sort.SliceStable(arr, func(i, j int) bool { return arr[i].seq < arr[j].seq })
		t, ok := b.feed.Trips[tid]
		if !ok {
			t.ID = tid
		}
		t.StopTimes = make([]StopTime, len(arr))
		for i, v := range arr {
			t.StopTimes[i] = StopTime{StopID: v.stop, Sequence: v.seq}
		}
		b.feed.Trips[tid] = t
	}
	for sid, arr := range b.shapes {
		sort.SliceStable(arr, func(i, j int) bool { return arr[i].seq < arr[j].seq })
		pts := make([]geo.Point, len(arr))
		for i, p := range arr {
			pts[i] = p.pt
		}
		b.feed.Shapes[sid] = pts
	}
	return b.feed
}
