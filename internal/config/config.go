package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/rpggio/ganttline/internal/domain/chart"
	"github.com/rpggio/ganttline/internal/timeline"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when a loaded value is out of range.
var ErrInvalidConfig = errors.New("invalid config")

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Transport TransportConfig `yaml:"transport"`
	Auth      AuthConfig      `yaml:"auth"`
	Store     StoreConfig     `yaml:"store"`
	Log       LogConfig       `yaml:"log"`
	Chart     ChartConfig     `yaml:"chart"`
	Render    RenderConfig    `yaml:"render"`
}

type ServerConfig struct {
	Host string `yaml:"host" env:"GANTT_SERVER_HOST"`
	Port int    `yaml:"port" env:"GANTT_SERVER_PORT" validate:"min=1,max=65535"`
}

type TransportConfig struct {
	Mode string `yaml:"mode" env:"GANTT_TRANSPORT" validate:"oneof=stdio http"`
}

type AuthConfig struct {
	Enabled bool `yaml:"enabled" env:"GANTT_AUTH_ENABLED"`
	// Keys are "token:tenant" pairs registered at startup.
	Keys []string `yaml:"keys" env:"GANTT_API_KEYS"`
}

// APIKeys parses Keys into token to tenant pairs.
func (a AuthConfig) APIKeys() (map[string]string, error) {
	keys := make(map[string]string, len(a.Keys))
	for _, pair := range a.Keys {
		token, tenant, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok || token == "" || tenant == "" {
			return nil, fmt.Errorf("%w: api key must be token:tenant", ErrInvalidConfig)
		}
		keys[token] = tenant
	}
	return keys, nil
}

// StoreConfig names the in-memory database. Data lives as long as the process.
type StoreConfig struct {
	Name string `yaml:"name" env:"GANTT_STORE_NAME" validate:"required"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"GANTT_LOG_LEVEL" validate:"oneof=debug info warn warning error"`
	Path  string `yaml:"path" env:"GANTT_LOG_PATH"`
}

// ChartConfig holds the settings of charts that have never been configured.
type ChartConfig struct {
	Granularity        string  `yaml:"granularity" env:"GANTT_GRANULARITY"`
	WeekStart          string  `yaml:"week_start" env:"GANTT_WEEK_START"`
	ColumnWidth        float64 `yaml:"column_width" env:"GANTT_COLUMN_WIDTH"`
	ProjectColumnWidth float64 `yaml:"project_column_width" env:"GANTT_PROJECT_COLUMN_WIDTH"`
}

type RenderConfig struct {
	// StylePath is an optional YAML render style file.
	StylePath string `yaml:"style_path" env:"GANTT_RENDER_STYLE"`
}

// Default returns the built-in configuration.
func Default() Config {
	defaults := chart.DefaultSettings()
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Transport: TransportConfig{
			Mode: "stdio",
		},
		Store: StoreConfig{
			Name: "ganttline",
		},
		Log: LogConfig{
			Level: "info",
		},
		Chart: ChartConfig{
			Granularity:        defaults.Granularity.String(),
			WeekStart:          defaults.WeekStart,
			ColumnWidth:        defaults.ColumnWidth,
			ProjectColumnWidth: defaults.ProjectColumnWidth,
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("GANTT_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

var validate = validator.New()

// Validate checks every section, including the chart defaults.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s=%v", fe.Namespace(), fe.Value()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := c.Chart.Settings(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := c.Auth.APIKeys(); err != nil {
		return err
	}
	return nil
}

// Settings converts the chart section to validated chart settings.
func (c ChartConfig) Settings() (chart.Settings, error) {
	g, err := timeline.ParseGranularity(c.Granularity)
	if err != nil {
		return chart.Settings{}, err
	}
	wd, err := timeline.ParseWeekStart(c.WeekStart)
	if err != nil {
		return chart.Settings{}, err
	}
	s := chart.Settings{
		Granularity:        g,
		ColumnWidth:        c.ColumnWidth,
		ProjectColumnWidth: c.ProjectColumnWidth,
		WeekStart:          strings.ToLower(wd.String()),
	}
	if err := s.Validate(); err != nil {
		return chart.Settings{}, err
	}
	return s, nil
}
