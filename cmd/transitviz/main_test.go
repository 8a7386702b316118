package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/transitviz/internal/feed"

	"github.com/san-kum/transitviz/internal/config"
	"github.com/san-kum/transitviz/internal/traversal"
	"github.com/san-kum/transitviz/internal/viz"
)

func TestApplyFlags_OnlyChanged(t *testing.T) {
	root := newRootCmd()
	if err := root.ParseFlags([]string{"--batch", "7", "--start", "F01234", "--mute"}); err != nil {
		t.Fatal(err)
	}

	cfg := config.GetPreset("budapest-music")
	applyFlags(root, cfg)

	if cfg.Stops.Batch != 7 {
		t.Errorf("batch = %d, want 7", cfg.Stops.Batch)
	}
	if cfg.Stops.Start != "F01234" {
		t.Errorf("start = %s", cfg.Stops.Start)
	}
	if cfg.Audio.Enabled {
		t.Error("--mute should disable audio")
	}
	// untouched flags keep the preset values
	if !cfg.Audio.Music || cfg.View.Kind != "audio" || cfg.View.FPS != 8 {
		t.Errorf("preset values overwritten: %+v", cfg)
	}
}

func TestKindArg(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.View.Kind = "trips"

	kind, err := kindArg(cfg, nil)
	if err != nil || kind != viz.KindTrips {
		t.Errorf("kindArg(nil) = %v, %v", kind, err)
	}
	kind, err = kindArg(cfg, []string{"Audio"})
	if err != nil || kind != viz.KindAudio {
		t.Errorf("kindArg(Audio) = %v, %v", kind, err)
	}
	if _, err := kindArg(cfg, []string{"globe"}); !errors.Is(err, viz.ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}

func TestDescribe(t *testing.T) {
	err := describe(fmt.Errorf("init: %w", &traversal.NotFoundError{ID: "X1"}))
	if err.Error() != `start stop "X1" not found` {
		t.Errorf("message = %q", err)
	}
	if !errors.Is(err, traversal.ErrNotFound) {
		t.Error("wrapped error lost")
	}

	plain := errors.New("boom")
	if describe(plain) != plain {
		t.Error("unrelated errors pass through")
	}
}

func TestRootCommands(t *testing.T) {
	root := newRootCmd()
	want := []string{"live", "gui", "run", "list", "plot", "export-csv", "export-json", "export-svg", "bounds", "notes", "presets"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("command %s missing", name)
		}
	}
}

func TestExportArgsOptional(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"plot", "export-csv", "export-json"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil {
			t.Fatal(err)
		}
		if err := cmd.Args(cmd, nil); err != nil {
			t.Errorf("%s without run id: %v", name, err)
		}
		if err := cmd.Args(cmd, []string{"a", "b"}); err == nil {
			t.Errorf("%s accepted two run ids", name)
		}
	}
}

func stopsFor(t *testing.T, stopsTxt, start string, batch int) *viz.StopsViz {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "stops.txt"), []byte(stopsTxt), 0644); err != nil {
		t.Fatal(err)
	}
	f, err := feed.Load(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	vis, err := viz.New(viz.KindStops, viz.Deps{Feed: f, StartStop: start, Batch: batch})
	if err != nil {
		t.Fatal(err)
	}
	if err := vis.Init(); err != nil {
		t.Fatal(err)
	}
	return vis.(*viz.StopsViz)
}

func TestRunMetadata_Steps(t *testing.T) {
	tests := []struct {
		name  string
		stops string
		batch int
		want  int
	}{
		{"single stop", "stop_id,stop_name,stop_lat,stop_lon\nA,Alpha,47.5,19.0\n", 20, 0},
		{"three stops, batch one", "stop_id,stop_name,stop_lat,stop_lon\nA,Alpha,47.5,19.0\nB,Beta,47.6,19.1\nC,Gamma,47.4,19.2\n", 1, 2},
		{"three stops, batch five", "stop_id,stop_name,stop_lat,stop_lon\nA,Alpha,47.5,19.0\nB,Beta,47.6,19.1\nC,Gamma,47.4,19.2\n", 5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sv := stopsFor(t, tt.stops, "A", tt.batch)
			if err := traverse(context.Background(), sv); err != nil {
				t.Fatal(err)
			}

			cfg := config.DefaultConfig()
			cfg.Stops.Start, cfg.Stops.Batch = "A", tt.batch
			meta := runMetadata(cfg, sv, 0)
			if meta.Steps != tt.want {
				t.Errorf("steps = %d, want %d", meta.Steps, tt.want)
			}
			if meta.StopCount != sv.Engine().Len() {
				t.Errorf("stop count = %d", meta.StopCount)
			}
		})
	}
}

func TestTraverse_Canceled(t *testing.T) {
	sv := stopsFor(t, "stop_id,stop_name,stop_lat,stop_lon\nA,Alpha,47.5,19.0\nB,Beta,47.6,19.1\n", "A", 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := traverse(ctx, sv); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
