package diagtest

import (
	"log/slog"
)

// Option configures a Study.
type Option func(*config)

type config struct {
	renderer  Renderer
	outputDir string
	save      bool
	logger    *slog.Logger
}

func defaultConfig() config {
	return config{
		renderer:  nopRenderer{},
		outputDir: "data/out",
		logger:    slog.Default(),
	}
}

// WithRenderer sets the chart renderer (default: discards figures).
func WithRenderer(r Renderer) Option {
	return func(c *config) {
		if r != nil {
			c.renderer = r
		}
	}
}

// WithOutputDir sets the directory saved plots are written to (default: data/out).
func WithOutputDir(dir string) Option {
	return func(c *config) {
		if dir != "" {
			c.outputDir = dir
		}
	}
}

// WithSave marks figures for persistence at their save path (default: false).
func WithSave(save bool) Option {
	return func(c *config) {
		c.save = save
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
