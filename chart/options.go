package chart

import (
	"io"
	"log/slog"

	"gonum.org/v1/plot/vg"
)

// Option configures a Renderer.
type Option func(*config)

type config struct {
	width  vg.Length
	height vg.Length
	dpi    int
	out    io.Writer
	logger *slog.Logger
}

func defaultConfig() config {
	return config{
		width:  6.4 * vg.Inch,
		height: 4.8 * vg.Inch,
		dpi:    300,
		logger: slog.Default(),
	}
}

// WithSize sets the image size (default: 6.4in x 4.8in).
func WithSize(width, height vg.Length) Option {
	return func(c *config) {
		if width > 0 && height > 0 {
			c.width = width
			c.height = height
		}
	}
}

// WithDPI sets the image resolution (default: 300).
func WithDPI(dpi int) Option {
	return func(c *config) {
		if dpi > 0 {
			c.dpi = dpi
		}
	}
}

// WithOutput streams every rendered PNG to w, whether or not it is saved.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		c.out = w
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
