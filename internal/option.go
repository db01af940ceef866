package internal

import "io"

// Mode selects what Run does.
type Mode string

const (
	// ModeServe builds, then serves the HTTP API while watching sources.
	ModeServe Mode = "serve"
	// ModeWatch builds, then recompiles sources as they change.
	ModeWatch Mode = "watch"
	// ModeBuild compiles changed sources once and exits.
	ModeBuild Mode = "build"
	// ModeMCP builds, then serves MCP tools on stdin/stdout.
	ModeMCP Mode = "mcp"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config    *Config
	mode      Mode
	force     bool
	logOutput io.Writer
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithMode sets the run mode. The default is ModeServe.
func WithMode(m Mode) Option {
	return func(a *application) {
		a.mode = m
	}
}

// WithForce recompiles every source, not only the changed ones.
func WithForce(force bool) Option {
	return func(a *application) {
		a.force = force
	}
}

// WithLogOutput redirects the JSON log. The default is stdout, or stderr
// when stdout carries data.
func WithLogOutput(w io.Writer) Option {
	return func(a *application) {
		a.logOutput = w
	}
}
