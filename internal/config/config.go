package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFeedURL   = "https://bkk.hu/gtfs/budapest_gtfs.zip"
	DefaultStartStop = "088453"
	DefaultTripID    = "C32177100"
	DefaultCanvas    = 500.0
	DefaultBatch     = 20
	DefaultFPS       = 60
	DefaultDataDir   = ".transitviz"
	DefaultExportDir = "export"
)

type Config struct {
	Preset    string       `yaml:"preset,omitempty"`
	Feed      FeedConfig   `yaml:"feed"`
	Canvas    CanvasConfig `yaml:"canvas"`
	Stops     StopsConfig  `yaml:"stops"`
	Trips     TripsConfig  `yaml:"trips"`
	Audio     AudioConfig  `yaml:"audio"`
	View      ViewConfig   `yaml:"view"`
	Log       LogConfig    `yaml:"log"`
	DataDir   string       `yaml:"data_dir" validate:"required"`
	ExportDir string       `yaml:"export_dir" validate:"required"`
}

type FeedConfig struct {
	// Source is a zip path, a directory of GTFS text files or an http(s) URL.
	Source string `yaml:"source" validate:"required"`
}

type CanvasConfig struct {
	Width  float64 `yaml:"width" validate:"gt=0"`
	Height float64 `yaml:"height" validate:"gt=0"`
}

type StopsConfig struct {
	Start string `yaml:"start" validate:"required"`
	Batch int    `yaml:"batch" validate:"gt=0"`
}

type TripsConfig struct {
	TripID string `yaml:"trip_id" validate:"required"`
}

type AudioConfig struct {
	Enabled bool   `yaml:"enabled"`
	Music   bool   `yaml:"music"`
	Notes   string `yaml:"notes,omitempty"`
}

type ViewConfig struct {
	Kind  string `yaml:"kind" validate:"oneof=stops trips audio"`
	FPS   int    `yaml:"fps" validate:"gt=0,lte=240"`
	Theme string `yaml:"theme" validate:"omitempty,oneof=night tram metro retro"`
	Cols  int    `yaml:"cols" validate:"gte=0"`
	Rows  int    `yaml:"rows" validate:"gte=0"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

func DefaultConfig() *Config {
	return &Config{
		Feed:   FeedConfig{Source: DefaultFeedURL},
		Canvas: CanvasConfig{Width: DefaultCanvas, Height: DefaultCanvas},
		Stops:  StopsConfig{Start: DefaultStartStop, Batch: DefaultBatch},
		Trips:  TripsConfig{TripID: DefaultTripID},
		Audio:  AudioConfig{Enabled: true},
		View: ViewConfig{
			Kind:  "stops",
			FPS:   DefaultFPS,
			Theme: "night",
		},
		Log:       LogConfig{Level: "info", Format: "text"},
		DataDir:   DefaultDataDir,
		ExportDir: DefaultExportDir,
	}
}

var validate = validator.New()

// Validate checks the struct tags of every section.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Load reads path on top of the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.Preset != "" {
		base := GetPreset(cfg.Preset)
		if base == nil {
			return nil, fmt.Errorf("%s: unknown preset %q", path, cfg.Preset)
		}
		// settings in the file win over the preset
		if err := yaml.Unmarshal(data, base); err != nil {
			return nil, err
		}
		cfg = base
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
