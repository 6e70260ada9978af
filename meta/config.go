package meta

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Keys binds each sheet command to a key name.
type Keys struct {
	Open     string `yaml:"open"`
	Fire     string `yaml:"fire"`
	Waypoint string `yaml:"waypoint"`
	Conclude string `yaml:"conclude"`
	Move     string `yaml:"move"`
}

// PieceConfig describes one piece of the starting scenario.
type PieceConfig struct {
	ID             string   `yaml:"id"`
	Name           string   `yaml:"name"`
	Side           string   `yaml:"side"`
	HiddenBy       string   `yaml:"hidden_by"`
	X              int      `yaml:"x"`
	Y              int      `yaml:"y"`
	DetectionRange int      `yaml:"detection_range"`
	Waypoints      [][2]int `yaml:"waypoints"`
	Plain          bool     `yaml:"plain"` // no sheet, a bare counter
}

type Config struct {
	LogLevel     string        `yaml:"log_level"`
	Movement     float64       `yaml:"movement"`
	HitThreshold float64       `yaml:"hit_threshold"`
	Seed         uint64        `yaml:"seed"`
	Keys         Keys          `yaml:"keys"`
	Pieces       []PieceConfig `yaml:"pieces"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		LogLevel:     "info",
		Movement:     MOVEMENT_PER_STEP,
		HitThreshold: HIT_THRESHOLD,
		Keys: Keys{
			Open:     "A",
			Fire:     "F",
			Waypoint: "F3",
			Conclude: "Escape",
			Move:     "M",
		},
	}
}

// Load reads a YAML config from path. Keys missing from the file keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.Movement <= 0 {
		return cfg, fmt.Errorf("movement must be positive, got %v", cfg.Movement)
	}
	return cfg, nil
}
