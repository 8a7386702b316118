// Package storage persists traversal runs as a directory per run holding
// metadata.json and order.csv.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/transitviz/internal/geo"
	"github.com/san-kum/transitviz/internal/traversal"
)

const (
	metadataFile = "metadata.json"
	orderFile    = "order.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

var orderHeader = []string{"step", "rank", "stop_id", "lng", "lat", "distance"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID         string         `json:"id"`
	Preset     string         `json:"preset,omitempty"`
	FeedSource string         `json:"feed_source"`
	StartStop  string         `json:"start_stop"`
	Batch      int            `json:"batch"`
	StopCount  int            `json:"stop_count"`
	Steps      int            `json:"steps"`
	Timestamp  time.Time      `json:"timestamp"`
	Elapsed    time.Duration  `json:"elapsed_ns"`
	Projection geo.Projection `json:"projection"`
}

// Visit is one row of order.csv: the rank-th stop revealed, during step.
type Visit struct {
	Step     int     `json:"step"`
	Rank     int     `json:"rank"`
	StopID   string  `json:"stop_id"`
	Lng      float64 `json:"lng"`
	Lat      float64 `json:"lat"`
	Distance float64 `json:"distance"`
}

// VisitsFromItems numbers traversal output, batch stops per step.
func VisitsFromItems(items []traversal.Item, batch int) []Visit {
	if batch <= 0 {
		batch = 1
	}
	out := make([]Visit, len(items))
	for i, it := range items {
		out[i] = Visit{
			Step:     i/batch + 1,
			Rank:     i + 1,
			StopID:   it.ID,
			Lng:      it.Point.Lng,
			Lat:      it.Point.Lat,
			Distance: it.Distance,
		}
	}
	return out
}

// Save writes a new run and returns its id. meta.ID and meta.Timestamp are
// filled in when empty.
func (s *Store) Save(meta RunMetadata, visits []Visit) (string, error) {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	if meta.ID == "" {
		name := meta.Preset
		if name == "" {
			name = "run"
		}
		meta.ID = fmt.Sprintf("%s_%d", name, meta.Timestamp.UnixMilli())
	}
	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, orderFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()
	if err := WriteCSV(csvFile, visits); err != nil {
		return "", err
	}

	slog.Info("run saved", "id", meta.ID, "visits", len(visits), "dir", runDir)
	return meta.ID, nil
}

// WriteCSV writes visits in order.csv layout.
func WriteCSV(out io.Writer, visits []Visit) error {
	w := csv.NewWriter(out)
	if err := w.Write(orderHeader); err != nil {
		return err
	}
	for _, v := range visits {
		row := []string{
			strconv.Itoa(v.Step),
			strconv.Itoa(v.Rank),
			v.StopID,
			strconv.FormatFloat(v.Lng, 'f', -1, 64),
			strconv.FormatFloat(v.Lat, 'f', -1, 64),
			strconv.FormatFloat(v.Distance, 'f', 8, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			slog.Debug("skipping run directory", "dir", entry.Name(), "err", err)
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%s: %w", runID, err)
	}
	return &meta, nil
}

// Latest returns the newest run.
func (s *Store) Latest() (*RunMetadata, error) {
	runs, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, ErrRunNotFound
	}
	return &runs[0], nil
}

// LoadOrder reads back the visits of a run. Malformed rows are skipped.
func (s *Store) LoadOrder(runID string) ([]Visit, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, orderFile))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []Visit{}, nil
	}

	visits := make([]Visit, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) < len(orderHeader) {
			continue
		}
		step, err1 := strconv.Atoi(rec[0])
		rank, err2 := strconv.Atoi(rec[1])
		lng, err3 := strconv.ParseFloat(rec[3], 64)
		lat, err4 := strconv.ParseFloat(rec[4], 64)
		dist, err5 := strconv.ParseFloat(rec[5], 64)
		if err := errors.Join(err1, err2, err3, err4, err5); err != nil {
			continue
		}
		visits = append(visits, Visit{Step: step, Rank: rank, StopID: rec[2], Lng: lng, Lat: lat, Distance: dist})
	}
	return visits, nil
}

// Distances is the per-step maximum distance, the curve `plot` draws.
func Distances(visits []Visit) []float64 {
	out := make([]float64, 0)
	for _, v := range visits {
		for len(out) < v.Step {
			out = append(out, 0)
		}
		if v.Step > 0 && v.Distance > out[v.Step-1] {
			out[v.Step-1] = v.Distance
		}
	}
	return out
}
