package config

import "sort"

var Presets = map[string]*Config{
	"budapest": {
		Preset: "budapest",
		Feed:   FeedConfig{Source: DefaultFeedURL},
		Canvas: CanvasConfig{Width: DefaultCanvas, Height: DefaultCanvas},
		Stops:  StopsConfig{Start: DefaultStartStop, Batch: DefaultBatch},
		Trips:  TripsConfig{TripID: DefaultTripID},
		Audio:  AudioConfig{Enabled: true},
		View:   ViewConfig{Kind: "stops", FPS: DefaultFPS, Theme: "night"},
		Log:    LogConfig{Level: "info", Format: "text"},

		DataDir:   DefaultDataDir,
		ExportDir: DefaultExportDir,
	},
	"budapest-music": {
		Preset: "budapest-music",
		Feed:   FeedConfig{Source: DefaultFeedURL},
		Canvas: CanvasConfig{Width: DefaultCanvas, Height: DefaultCanvas},
		Stops:  StopsConfig{Start: DefaultStartStop, Batch: DefaultBatch},
		Trips:  TripsConfig{TripID: DefaultTripID},
		Audio:  AudioConfig{Enabled: true, Music: true},
		View:   ViewConfig{Kind: "audio", FPS: 8, Theme: "tram"},
		Log:    LogConfig{Level: "info", Format: "text"},

		DataDir:   DefaultDataDir,
		ExportDir: DefaultExportDir,
	},
	"budapest-sweep": {
		Preset: "budapest-sweep",
		Feed:   FeedConfig{Source: DefaultFeedURL},
		Canvas: CanvasConfig{Width: 800, Height: 800},
		Stops:  StopsConfig{Start: DefaultStartStop, Batch: 100},
		Trips:  TripsConfig{TripID: DefaultTripID},
		View:   ViewConfig{Kind: "stops", FPS: 30, Theme: "metro"},
		Log:    LogConfig{Level: "info", Format: "text"},

		DataDir:   DefaultDataDir,
		ExportDir: DefaultExportDir,
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
