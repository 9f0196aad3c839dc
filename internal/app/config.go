package app

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	LogFormat string `yaml:"log_format" validate:"oneof=text json"`
	LogLevel  string `yaml:"log_level" validate:"oneof=debug info warn error"`

	// MaxDepth bounds a single cascade; 0 keeps the engine default.
	MaxDepth int `yaml:"max_depth" validate:"gte=0"`

	Addr            string `yaml:"addr" validate:"required"`
	ThumbnailWidth  int    `yaml:"thumbnail_width" validate:"gte=0"`
	ThumbnailHeight int    `yaml:"thumbnail_height" validate:"gte=0"`
	Metrics         bool   `yaml:"metrics"`

	Watch         bool          `yaml:"watch"`
	WatchDebounce time.Duration `yaml:"watch_debounce" validate:"gte=0"`

	NotifyURL       string `yaml:"notify_url" validate:"omitempty,url"`
	NotifyNamespace string `yaml:"notify_namespace"`
}

// DefaultConfig returns the configuration used when no file or flag
// overrides a value.
func DefaultConfig() Config {
	return Config{
		LogFormat: "text",
		LogLevel:  "info",
		Addr:      ":8080",
		Metrics:   true,
	}
}

// LoadConfig overlays the YAML file at path onto base. An empty path
// returns base unchanged.
func LoadConfig(path string, base Config) (Config, error) {
	if path == "" {
		return base, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return base, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return fmt.Errorf("invalid configuration: %s must satisfy %q (got %v)", f.Field(), f.Tag(), f.Value())
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
