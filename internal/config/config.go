package config

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/olivierh59500/cosmic-orb-go/internal/orb"
)

// Config holds the static renderer options. Zero values are not defaults;
// start from Default and override.
type Config struct {
	Radius              float32  `json:"radius"`
	Segments            int      `json:"segments"`
	RotationSpeed       float32  `json:"rotation_speed"`
	ColorCycleSpeed     float64  `json:"color_cycle_speed"`
	PulseSpeed          float64  `json:"pulse_speed"`
	PulseMagnitude      float64  `json:"pulse_magnitude"`
	DeformIntensity     float64  `json:"deform_intensity"`
	DeformSpeed         float64  `json:"deform_speed"`
	ColorChangeInterval float64  `json:"color_change_interval_seconds"`
	Palette             []string `json:"palette"`
	CameraDistance      float32  `json:"camera_distance"`
	PointSize           float32  `json:"point_size"`
	Opacity             float32  `json:"opacity"`
	MaxPixelRatio       float64  `json:"max_pixel_ratio"`
	ShimmerAmount       float64  `json:"shimmer_amount"`
	ShimmerSpeed        float64  `json:"shimmer_speed"`
	Seed                uint64   `json:"seed"` // 0 picks a random seed per mount
}

// Default returns the green orb.
func Default() Config {
	return Config{
		Radius:              2.0,
		Segments:            64,
		RotationSpeed:       0.005,
		ColorCycleSpeed:     0.05,
		PulseSpeed:          1.5,
		PulseMagnitude:      0.05,
		DeformIntensity:     0.05,
		DeformSpeed:         2.0,
		ColorChangeInterval: 5,
		Palette: []string{
			"#0f370e", // dark forest
			"#30622f", // medium olive
			"#8bad0d", // bright lime
			"#9bbc0e", // neon green
		},
		CameraDistance: 7,
		PointSize:      0.15,
		Opacity:        0.95,
		MaxPixelRatio:  2,
		ShimmerAmount:  0.15,
		ShimmerSpeed:   0.4,
	}
}

// Validate reports the first invalid option, wrapping orb.ErrInvalidConfig.
func (c Config) Validate() error {
	if !(c.Radius > 0) || math.IsInf(float64(c.Radius), 0) {
		return fmt.Errorf("%w: radius must be > 0, got %v", orb.ErrInvalidConfig, c.Radius)
	}
	if c.Segments <= 0 {
		return fmt.Errorf("%w: segments must be > 0, got %d", orb.ErrInvalidConfig, c.Segments)
	}
	if len(c.Palette) < 2 {
		return fmt.Errorf("%w: palette needs at least 2 colors, got %d", orb.ErrInvalidConfig, len(c.Palette))
	}
	if _, err := orb.ParsePalette(c.Palette); err != nil {
		return err
	}
	if c.ColorCycleSpeed < 0 || c.ColorCycleSpeed > 1 {
		return fmt.Errorf("%w: color_cycle_speed must be within [0, 1], got %v", orb.ErrInvalidConfig, c.ColorCycleSpeed)
	}
	if c.ColorChangeInterval < 0 {
		return fmt.Errorf("%w: color_change_interval_seconds must be >= 0, got %v", orb.ErrInvalidConfig, c.ColorChangeInterval)
	}
	if c.PulseMagnitude < 0 || c.DeformIntensity < 0 || c.PulseMagnitude+c.DeformIntensity >= 1 {
		return fmt.Errorf("%w: pulse_magnitude + deform_intensity must be within [0, 1), got %v + %v",
			orb.ErrInvalidConfig, c.PulseMagnitude, c.DeformIntensity)
	}
	if !(c.CameraDistance > 0) {
		return fmt.Errorf("%w: camera_distance must be > 0, got %v", orb.ErrInvalidConfig, c.CameraDistance)
	}
	if c.PointSize < 0 {
		return fmt.Errorf("%w: point_size must be >= 0, got %v", orb.ErrInvalidConfig, c.PointSize)
	}
	if c.Opacity < 0 || c.Opacity > 1 {
		return fmt.Errorf("%w: opacity must be within [0, 1], got %v", orb.ErrInvalidConfig, c.Opacity)
	}
	if !(c.MaxPixelRatio > 0) {
		return fmt.Errorf("%w: max_pixel_ratio must be > 0, got %v", orb.ErrInvalidConfig, c.MaxPixelRatio)
	}
	if c.ShimmerAmount < 0 {
		return fmt.Errorf("%w: shimmer_amount must be >= 0, got %v", orb.ErrInvalidConfig, c.ShimmerAmount)
	}
	return nil
}

// PointCount is the number of points the configured sphere produces.
func (c Config) PointCount() int {
	return (c.Segments + 1) * (c.Segments + 1)
}

// GetPath returns the default settings file location, creating its directory.
func GetPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	configDir = filepath.Join(configDir, "cosmic-orb")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(configDir, "settings.json"), nil
}

// Load reads settings from path on top of Default. A missing file yields the
// defaults; unknown keys are logged and ignored; invalid values are an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	knownKeys := getKnownKeys(Config{})
	for key := range raw {
		if !knownKeys[key] {
			log.Printf("Warning: unrecognised setting key '%s' in %s", key, path)
		}
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Write stores cfg as indented JSON.
func Write(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func getKnownKeys(v interface{}) map[string]bool {
	keys := make(map[string]bool)
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	for i := 0; i < t.NumField(); i++ {
		if jsonTag := t.Field(i).Tag.Get("json"); jsonTag != "" {
			tagName := strings.Split(jsonTag, ",")[0]
			if tagName != "-" {
				keys[tagName] = true
			}
		}
	}
	return keys
}
