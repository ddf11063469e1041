package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/vitrine/internal/reveal"
	"github.com/starford/vitrine/internal/source"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Source modes.
const (
	SourceModeHTTP = "http"
	SourceModeFile = "file"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Source SourceConfig      `yaml:"source"`
	Reveal RevealConfig      `yaml:"reveal"`
	Auth   AuthConfig        `yaml:"auth"`
	Events EventsConfig      `yaml:"events"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Source.Validate(); err != nil {
		return fmt.Errorf("source: %w", err)
	}
	if err := c.Reveal.Validate(); err != nil {
		return fmt.Errorf("reveal: %w", err)
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	return c.Events.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// SourceConfig selects where content is read from.
//
// Mode "http" polls the content API at BaseURL; mode "file" reads
// config.json and expertise.json from Dir and refreshes when they change.
type SourceConfig struct {
	Mode            string        `yaml:"mode"`
	BaseURL         string        `yaml:"base_url"`
	ConfigPath      string        `yaml:"config_path"`
	ExpertisePath   string        `yaml:"expertise_path"`
	Token           string        `yaml:"token"`
	Timeout         time.Duration `yaml:"timeout"`
	Dir             string        `yaml:"dir"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}

// Validate validates the source configuration.
func (c *SourceConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = SourceModeHTTP
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(SourceModeHTTP, SourceModeFile)),
		validation.Field(&c.BaseURL,
			validation.When(c.Mode == SourceModeHTTP, validation.Required, validation.By(absoluteURL))),
		validation.Field(&c.Dir,
			validation.When(c.Mode == SourceModeFile, validation.Required)),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
		validation.Field(&c.RefreshInterval, validation.Required, validation.Min(100*time.Millisecond)),
	)
}

func absoluteURL(v any) error {
	s, _ := v.(string)
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("must be an absolute URL")
	}
	return nil
}

// HTTPOptions returns the options of the HTTP source.
func (c *SourceConfig) HTTPOptions() []source.HTTPOption {
	opts := []source.HTTPOption{source.WithPaths(c.ConfigPath, c.ExpertisePath)}
	if c.Token != "" {
		opts = append(opts, source.WithToken(c.Token))
	}
	if c.Timeout > 0 {
		opts = append(opts, source.WithTimeout(c.Timeout))
	}
	return opts
}

// RevealConfig tunes entrance animation triggering.
type RevealConfig struct {
	// Threshold is the visible fraction that reveals a section.
	Threshold float64 `yaml:"threshold"`
	// BottomMargin shrinks the viewport bottom by this many pixels.
	BottomMargin float64 `yaml:"bottom_margin"`
	// IdleTTL releases instances that stopped reporting.
	IdleTTL time.Duration `yaml:"idle_ttl"`
}

// Validate validates the reveal configuration.
func (c *RevealConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Threshold, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&c.BottomMargin, validation.Min(0.0)),
		validation.Field(&c.IdleTTL, validation.Required, validation.Min(time.Second)),
	)
}

// Options converts the configuration to observer options.
func (c *RevealConfig) Options() reveal.Options {
	return reveal.Options{
		Threshold:  c.Threshold,
		RootMargin: reveal.Margin{Bottom: -c.BottomMargin},
	}
}

// AuthConfig holds authentication configuration for the refresh trigger.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): anyone may force a refresh, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
//
// Read endpoints are always public.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// EventsConfig tunes the SSE stream.
type EventsConfig struct {
	// Throttle is the minimum gap between sections.updated summaries.
	Throttle time.Duration `yaml:"throttle"`
}

// Validate validates the events configuration.
func (c *EventsConfig) Validate() error {
	if c.Throttle < 0 {
		return errors.New("events: throttle must not be negative")
	}
	return nil
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Source: SourceConfig{
			Mode:            SourceModeHTTP,
			ConfigPath:      source.DefaultConfigPath,
			ExpertisePath:   source.DefaultExpertisePath,
			Timeout:         10 * time.Second,
			Dir:             "./content",
			RefreshInterval: 2 * time.Second,
		},
		Reveal: RevealConfig{
			Threshold:    reveal.DefaultThreshold,
			BottomMargin: reveal.DefaultBottomMargin,
			IdleTTL:      30 * time.Minute,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
		Events: EventsConfig{
			Throttle: 2 * time.Second,
		},
	}
}
