package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/san-kum/transitviz/internal/geo"
	"github.com/san-kum/transitviz/internal/traversal"
)

func sampleItems() []traversal.Item {
	return []traversal.Item{
		{ID: "C", Point: geo.Point{Lng: 1, Lat: 0}, Distance: 1},
		{ID: "B", Point: geo.Point{Lng: 1, Lat: 1}, Distance: 1.41421356},
		{ID: "D", Point: geo.Point{Lng: 2, Lat: 2}, Distance: 2.82842712},
	}
}

func TestVisitsFromItems(t *testing.T) {
	v := VisitsFromItems(sampleItems(), 2)
	require.Len(t, v, 3)
	require.Equal(t, 1, v[0].Step)
	require.Equal(t, 1, v[1].Step)
	require.Equal(t, 2, v[2].Step)
	require.Equal(t, 3, v[2].Rank)
	require.Equal(t, "D", v[2].StopID)
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	meta := RunMetadata{
		Preset:     "budapest",
		FeedSource: "gtfs.zip",
		StartStop:  "A",
		Batch:      2,
		StopCount:  4,
		Steps:      2,
		Projection: geo.Projection{Box: geo.Box{MinLng: 0, MaxLng: 2, MinLat: 0, MaxLat: 2}, DrawWidth: 350, DrawHeight: 450},
	}
	visits := VisitsFromItems(sampleItems(), 2)

	id, err := st.Save(meta, visits)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := st.Load(id)
	require.NoError(t, err)
	require.Equal(t, "budapest", got.Preset)
	require.Equal(t, meta.Projection, got.Projection)
	require.Equal(t, 4, got.StopCount)

	order, err := st.LoadOrder(id)
	require.NoError(t, err)
	require.Len(t, order, 3)
	require.Equal(t, visits[0].StopID, order[0].StopID)
	require.InDelta(t, visits[1].Distance, order[1].Distance, 1e-8)
	require.Equal(t, visits[2].Lng, order[2].Lng)
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())

	runs, err := st.List()
	require.NoError(t, err)
	require.Empty(t, runs)

	old := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err = st.Save(RunMetadata{ID: "old", Timestamp: old}, nil)
	require.NoError(t, err)
	_, err = st.Save(RunMetadata{ID: "new", Timestamp: old.Add(time.Hour)}, nil)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(st.Dir(), "junk"), 0755))

	runs, err = st.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.Equal(t, "new", runs[0].ID)

	latest, err := st.Latest()
	require.NoError(t, err)
	require.Equal(t, "new", latest.ID)
}

func TestStoreMissingRun(t *testing.T) {
	st := New(t.TempDir())
	_, err := st.Load("nope")
	require.ErrorIs(t, err, ErrRunNotFound)
	_, err = st.LoadOrder("nope")
	require.ErrorIs(t, err, ErrRunNotFound)
	_, err = st.Latest()
	require.ErrorIs(t, err, ErrRunNotFound)
}

func TestDistances(t *testing.T) {
	d := Distances(VisitsFromItems(sampleItems(), 2))
	require.Equal(t, []float64{1.41421356, 2.82842712}, d)
	require.Empty(t, Distances(nil))
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	visits := VisitsFromItems(sampleItems(), 1)
	meta := RunMetadata{ID: "r1", StartStop: "A"}

	jsonPath := filepath.Join(dir, "run.json")
	require.NoError(t, ExportJSON(jsonPath, meta, visits))
	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var back ExportData
	require.NoError(t, json.Unmarshal(data, &back))
	require.Equal(t, "r1", back.Run.ID)
	require.Len(t, back.Visits, 3)

	csvPath := filepath.Join(dir, "run.csv")
	require.NoError(t, ExportCSV(csvPath, visits))
	data, err = os.ReadFile(csvPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "step,rank,stop_id,lng,lat,distance\n1,1,C,1,0,1.00000000\n")
}
