package internal

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/stenomix/internal/compiler"
	"github.com/starford/stenomix/internal/dictionary"
	"github.com/starford/stenomix/internal/sink"
	"github.com/starford/stenomix/internal/steno"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Layout   LayoutConfig      `yaml:"layout"`
	Sources  SourcesConfig     `yaml:"sources"`
	Output   OutputConfig      `yaml:"output"`
	Compiler CompilerConfig    `yaml:"compiler"`
	SQLite   SQLiteConfig      `yaml:"sqlite"`
	Auth     AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	for _, v := range []validation.Validatable{&c.App, &c.Layout, &c.Sources, &c.Output, &c.Compiler, &c.SQLite, &c.Auth} {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	if nested(c.Sources.Path, c.Output.Path) {
		return fmt.Errorf("output: path %q must not be inside sources path %q", c.Output.Path, c.Sources.Path)
	}
	return nil
}

// nested reports whether child is parent or lies below it.
func nested(parent, child string) bool {
	p, err1 := filepath.Abs(parent)
	c, err2 := filepath.Abs(child)
	if err1 != nil || err2 != nil {
		return false
	}
	rel, err := filepath.Rel(p, c)
	return err == nil && (rel == "." || !strings.HasPrefix(rel, ".."))
}

// CompileOptions assembles the compiler options from the configuration.
func (c *Config) CompileOptions() (compiler.Options, error) {
	layout, err := c.Layout.Build()
	if err != nil {
		return compiler.Options{}, err
	}
	return compiler.Options{
		Layout:  layout,
		Policy:  dictionary.ErrorPolicy(c.Compiler.ErrorPolicy),
		Limits:  c.Compiler.Limits,
		Sink:    sink.Options{SortKeys: c.Output.SortKeys},
		Workers: c.Compiler.Workers,
	}, nil
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

// LayoutConfig describes the steno keyboard. Keys are listed in chord order;
// keys in [BreakStart, BreakEnd) separate the left bank from the right.
type LayoutConfig struct {
	Keys       string `yaml:"keys"`
	BreakStart int    `yaml:"break_start"`
	BreakEnd   int    `yaml:"break_end"`
}

// Validate validates the layout configuration.
func (c *LayoutConfig) Validate() error {
	_, err := c.Build()
	return err
}

// Build returns the configured layout.
func (c *LayoutConfig) Build() (*steno.Layout, error) {
	return steno.NewLayout(c.Keys, c.BreakStart, c.BreakEnd)
}

// SourcesConfig holds the path to the advanced dictionary sources.
type SourcesConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the sources configuration.
func (c *SourcesConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// OutputConfig holds where and how compiled dictionaries are written.
type OutputConfig struct {
	Path     string `yaml:"path"`
	SortKeys bool   `yaml:"sort_keys"`
}

// Validate validates the output configuration.
func (c *OutputConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// CompilerConfig tunes compilation.
//
// ErrorPolicy decides what a failing definition does:
//   - "abort" (default): the document fails with the first error.
//   - "skip": the definition is dropped and reported as a diagnostic.
type CompilerConfig struct {
	Workers     int               `yaml:"workers"`
	ErrorPolicy string            `yaml:"error_policy"`
	Limits      dictionary.Limits `yaml:"limits"`
}

// Validate validates the compiler configuration.
func (c *CompilerConfig) Validate() error {
	if c.ErrorPolicy == "" {
		c.ErrorPolicy = string(dictionary.PolicyAbort)
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Workers, validation.Min(0)),
		validation.Field(&c.ErrorPolicy, validation.In(string(dictionary.PolicyAbort), string(dictionary.PolicySkip))),
	); err != nil {
		return err
	}
	return validation.ValidateStruct(&c.Limits,
		validation.Field(&c.Limits.MaxDepth, validation.Min(0)),
		validation.Field(&c.Limits.MaxExpansions, validation.Min(0)),
		validation.Field(&c.Limits.MaxPermutations, validation.Min(0)),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
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

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Layout: LayoutConfig{
			Keys:       steno.DefaultKeys,
			BreakStart: steno.DefaultBreakStart,
			BreakEnd:   steno.DefaultBreakEnd,
		},
		Sources: SourcesConfig{
			Path: "./dictionaries",
		},
		Output: OutputConfig{
			Path:     "./build",
			SortKeys: true,
		},
		Compiler: CompilerConfig{
			Workers:     runtime.NumCPU(),
			ErrorPolicy: string(dictionary.PolicyAbort),
			Limits:      dictionary.DefaultLimits(),
		},
		SQLite: SQLiteConfig{
			Path: "./stenomix.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
