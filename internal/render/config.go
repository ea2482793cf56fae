package render

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config controls the look of a rendered chart. Zero fields in a loaded
// file fall back to DefaultConfig.
type Config struct {
	Font struct {
		Family string `yaml:"family"` // Font family for all text
		Size   int    `yaml:"size"`   // Body text size in pixels
		Header int    `yaml:"header"` // Header text size in pixels
		Bar    int    `yaml:"bar"`    // Bar label size in pixels
	} `yaml:"font"`
	Colors struct {
		Background   string `yaml:"background"`
		HeaderFill   string `yaml:"header_fill"`
		HeaderText   string `yaml:"header_text"`
		Text         string `yaml:"text"`
		Grid         string `yaml:"grid"`
		Divider      string `yaml:"divider"`
		BarText      string `yaml:"bar_text"`
		EmptyMessage string `yaml:"empty_message"`
	} `yaml:"colors"`
	Layout struct {
		HeaderHeight   int `yaml:"header_height"`
		RowHeight      int `yaml:"row_height"`
		BarHeight      int `yaml:"bar_height"`
		BarRadius      int `yaml:"bar_radius"`
		TagColumnWidth int `yaml:"tag_column_width"`
		LabelPadding   int `yaml:"label_padding"`
		EmptyWidth     int `yaml:"empty_width"`
		EmptyHeight    int `yaml:"empty_height"`
	} `yaml:"layout"`
	// MinLabelWidth is the narrowest bar, in pixels, that still gets its name drawn.
	MinLabelWidth float64 `yaml:"min_label_width"`
}

// DefaultConfig returns the built-in style.
func DefaultConfig() Config {
	var c Config
	c.Font.Family = "-apple-system, 'Segoe UI', Roboto, sans-serif"
	c.Font.Size = 14
	c.Font.Header = 12
	c.Font.Bar = 12
	c.Colors.Background = "#ffffff"
	c.Colors.HeaderFill = "#f8f9fa"
	c.Colors.HeaderText = "#495057"
	c.Colors.Text = "#495057"
	c.Colors.Grid = "#e9ecef"
	c.Colors.Divider = "#dee2e6"
	c.Colors.BarText = "#ffffff"
	c.Colors.EmptyMessage = "#6c757d"
	c.Layout.HeaderHeight = 40
	c.Layout.RowHeight = 50
	c.Layout.BarHeight = 24
	c.Layout.BarRadius = 12
	c.Layout.TagColumnWidth = 80
	c.Layout.LabelPadding = 8
	c.Layout.EmptyWidth = 600
	c.Layout.EmptyHeight = 200
	c.MinLabelWidth = 100
	return c
}

// LoadConfig reads a YAML style file over the defaults. An empty path
// returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read render config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse render config: %w", err)
	}
	return cfg, nil
}
