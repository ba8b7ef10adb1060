// Package config loads headshot presets and tool settings from JSON files.
//
// Presets arrive as loose JSON maps so that missing keys can be reported
// precisely; they are converted to typed processing parameters and validated
// before anything downstream sees them.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/menta2k/headshot/pkg/locator"
	"github.com/menta2k/headshot/pkg/params"
)

// requiredPresetKeys must be present in every preset section.
var requiredPresetKeys = []string{
	"target_width", "target_height",
	"padding_top", "padding_bottom", "padding_side",
	"border_color", "shift_x", "shift_y", "zoom_out_factor",
}

// Config holds the application configuration.
type Config struct {
	Presets   map[string]map[string]any `json:"presets"`
	Detection DetectionConfig           `json:"detection"`
	Output    OutputConfig              `json:"output"`
}

// DetectionConfig holds face detection settings.
type DetectionConfig struct {
	CascadePath      string  `json:"cascade_path"`
	MinFaceSize      int     `json:"min_face_size"`
	MaxFaceSize      int     `json:"max_face_size"`
	ShiftFactor      float64 `json:"shift_factor"`
	ScaleFactor      float64 `json:"scale_factor"`
	QualityThreshold float64 `json:"quality_threshold"`
}

// OutputConfig holds settings for saving results.
type OutputConfig struct {
	Format   string `json:"format"`
	Quality  int    `json:"quality"`
	Lossless bool   `json:"lossless"`
}

// Default returns a configuration with default values and a single "default"
// preset.
func Default() *Config {
	return &Config{
		Presets: map[string]map[string]any{
			"default": {
				"target_width":    400,
				"target_height":   500,
				"padding_top":     0.2,
				"padding_bottom":  0.5,
				"padding_side":    0.1,
				"border_color":    "#000000",
				"shift_x":         0,
				"shift_y":         0,
				"zoom_out_factor": 1.1,
				"grayscale":       false,
			},
		},
		Detection: DetectionConfig{
			CascadePath:      "facefinder",
			MinFaceSize:      30,
			MaxFaceSize:      2000,
			ShiftFactor:      0.1,
			ScaleFactor:      1.1,
			QualityThreshold: 5.0,
		},
		Output: OutputConfig{
			Format:  "jpg",
			Quality: 90,
		},
	}
}

// LoadFromFile loads configuration from a JSON file. Sections absent from
// the file keep their defaults.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Preset lookup is case-insensitive, so keys are stored lowercased.
	presets := make(map[string]map[string]any, len(config.Presets))
	for name, raw := range config.Presets {
		presets[strings.ToLower(name)] = raw
	}
	config.Presets = presets

	for name := range config.Presets {
		if _, err := config.Preset(name); err != nil {
			return nil, fmt.Errorf("invalid preset %q: %w", name, err)
		}
	}
	return config, nil
}

// PresetNames returns the available preset names, sorted.
func (c *Config) PresetNames() []string {
	names := make([]string, 0, len(c.Presets))
	for name := range c.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Preset builds validated processing parameters from a named preset.
func (c *Config) Preset(name string) (params.ProcessingParameters, error) {
	raw, ok := c.Presets[strings.ToLower(name)]
	if !ok {
		return params.ProcessingParameters{}, fmt.Errorf("preset %q not found", name)
	}

	for _, key := range requiredPresetKeys {
		if _, ok := raw[key]; !ok {
			return params.ProcessingParameters{}, fmt.Errorf("%w: %s", params.ErrMissingParameter, key)
		}
	}

	border, err := params.ParseHexColor(stringVal(raw, "border_color"))
	if err != nil {
		return params.ProcessingParameters{}, err
	}

	p := params.ProcessingParameters{
		TargetWidth:        intVal(raw, "target_width"),
		TargetHeight:       intVal(raw, "target_height"),
		PaddingTopRatio:    floatVal(raw, "padding_top"),
		PaddingBottomRatio: floatVal(raw, "padding_bottom"),
		PaddingSideRatio:   floatVal(raw, "padding_side"),
		ZoomOutFactor:      floatVal(raw, "zoom_out_factor"),
		ShiftX:             intVal(raw, "shift_x"),
		ShiftY:             intVal(raw, "shift_y"),
		BorderColor:        border,
		Grayscale:          boolVal(raw, "grayscale"),
	}

	if err := p.Validate(); err != nil {
		return params.ProcessingParameters{}, err
	}
	return p, nil
}

// PigoConfig converts the detection section to pigo cascade parameters.
func (c *Config) PigoConfig() locator.PigoConfig {
	cfg := locator.DefaultPigoConfig()
	if c.Detection.MinFaceSize > 0 {
		cfg.MinSize = c.Detection.MinFaceSize
	}
	if c.Detection.MaxFaceSize > 0 {
		cfg.MaxSize = c.Detection.MaxFaceSize
	}
	if c.Detection.ShiftFactor > 0 {
		cfg.ShiftFactor = c.Detection.ShiftFactor
	}
	if c.Detection.ScaleFactor > 1 {
		cfg.ScaleFactor = c.Detection.ScaleFactor
	}
	if c.Detection.QualityThreshold > 0 {
		cfg.QualityThreshold = float32(c.Detection.QualityThreshold)
	}
	return cfg
}

// JSON numbers decode as float64; presets written programmatically may carry
// native ints, so both are accepted.
func intVal(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

func floatVal(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

func stringVal(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func boolVal(m map[string]any, key string) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}
	return false
}
