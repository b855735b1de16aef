package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

const appDir = "sketchassist"

// Trigger modes for inference.
const (
	TriggerTimer = "timer"
	TriggerKey   = "key"
)

// Config holds runtime configuration for drawing, inference and display.
// Fields may be loaded from a JSON file and overridden by command-line flags.
type Config struct {
	Debug    bool   `json:"debug"`
	LogLevel string `json:"log_level"`

	// Window geometry. Canvas and result panel are derived from it.
	WindowWidth  int     `json:"window_width"`
	WindowHeight int     `json:"window_height"`
	WindowScale  float64 `json:"window_scale"`
	TPS          int     `json:"tps"`

	// Canvas texture size; the brush scales from screen to texture space.
	TextureWidth  int `json:"texture_width"`
	TextureHeight int `json:"texture_height"`

	// Brush: every point within BrushRadius stamps a (BrushScale+1)^2 block.
	BrushRadius int `json:"brush_radius"`
	BrushScale  int `json:"brush_scale"`
	// MinStrokeDistance drops cursor samples closer than this to the previous one.
	MinStrokeDistance float64 `json:"min_stroke_distance"`
	TrailLength       int     `json:"trail_length"`

	// Inference
	AssetsDir     string     `json:"assets_dir"`
	ModelPath     string     `json:"model_path"`
	LabelsPath    string     `json:"labels_path"`
	InputSize     int        `json:"input_size"`
	Mean          [3]float32 `json:"mean"`
	Std           [3]float32 `json:"std"`
	InferInterval Duration   `json:"infer_interval"`
	Trigger       string     `json:"trigger"`
	Async         bool       `json:"async"`

	// Snapshots
	SnapshotDir     string `json:"snapshot_dir"`
	SnapshotOnInfer bool   `json:"snapshot_on_infer"`

	ResultCacheSize int `json:"result_cache_size"`
}

// Duration is a time.Duration that marshals as a Go duration string ("1.5s").
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		var ms int64
		if err2 := json.Unmarshal(b, &ms); err2 != nil {
			return fmt.Errorf("config: duration: %w", err)
		}
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("config: duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:             false,
		LogLevel:          "info",
		WindowWidth:       1350,
		WindowHeight:      700,
		WindowScale:       1,
		TPS:               60,
		TextureWidth:      600,
		TextureHeight:     600,
		BrushRadius:       5,
		BrushScale:        5,
		MinStrokeDistance: 1,
		TrailLength:       32,
		AssetsDir:         "assets",
		ModelPath:         "assets/resnet50.onnx",
		InputSize:         224,
		Mean:              [3]float32{0.485, 0.456, 0.406},
		Std:               [3]float32{0.229, 0.224, 0.225},
		InferInterval:     Duration(time.Second),
		Trigger:           TriggerTimer,
		Async:             true,
		SnapshotDir:       filepath.Join(xdg.DataHome, appDir, "sketches"),
		SnapshotOnInfer:   false,
		ResultCacheSize:   16,
	}
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	d := DefaultConfig()
	if c.WindowWidth <= 0 {
		c.WindowWidth = d.WindowWidth
	}
	if c.WindowHeight <= 0 {
		c.WindowHeight = d.WindowHeight
	}
	if c.WindowScale <= 0 {
		c.WindowScale = 1
	}
	if c.TPS <= 0 {
		c.TPS = d.TPS
	}
	if c.TextureWidth <= 0 {
		c.TextureWidth = d.TextureWidth
	}
	if c.TextureHeight <= 0 {
		c.TextureHeight = d.TextureHeight
	}
	if c.BrushRadius <= 0 {
		c.BrushRadius = d.BrushRadius
	}
	if c.BrushScale < 0 {
		c.BrushScale = d.BrushScale
	}
	if c.MinStrokeDistance < 0 {
		c.MinStrokeDistance = 0
	}
	if c.TrailLength < 2 {
		c.TrailLength = d.TrailLength
	}
	if c.InputSize <= 0 {
		c.InputSize = d.InputSize
	}
	for i := range c.Std {
		if c.Std[i] == 0 {
			c.Std[i] = 1
		}
	}
	if c.InferInterval <= 0 {
		c.InferInterval = d.InferInterval
	}
	c.Trigger = strings.ToLower(strings.TrimSpace(c.Trigger))
	if c.Trigger != TriggerTimer && c.Trigger != TriggerKey {
		c.Trigger = TriggerTimer
	}
	if c.ResultCacheSize <= 0 {
		c.ResultCacheSize = d.ResultCacheSize
	}
	if c.ModelPath == "" {
		return errors.New("config: model_path is empty")
	}
	return nil
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, appDir, "config.json")
}

// Load attempts to read configuration from the given JSON file path. If the file does not
// exist it returns DefaultConfig(). On JSON error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("config: decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: mkdir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
