// Package chart renders diagtest figures as PNG images with gonum/plot.
package chart

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/montanaflynn/stats"
	"github.com/samber/lo"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	diagtest "github.com/jamesainslie/go-diagtest"
)

const (
	// Padding factors applied to the data range of a log axis.
	logPadLow  = 0.7
	logPadHigh = 1.5

	legendRow    = vg.Length(14)
	legendMargin = vg.Length(10)
)

// ErrNoData indicates a figure without any plottable points.
var ErrNoData = errors.New("chart: figure has no data")

// Renderer draws figures with gonum/plot. It is safe for concurrent use
// unless an output writer is shared.
type Renderer struct {
	width  vg.Length
	height vg.Length
	dpi    int
	out    io.Writer
	logger *slog.Logger
}

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Renderer{
		width:  cfg.width,
		height: cfg.height,
		dpi:    cfg.dpi,
		out:    cfg.out,
		logger: cfg.logger,
	}
}

// Render draws fig, streams it to the configured output and writes it to
// fig.SavePath when fig.Save is set.
func (r *Renderer) Render(ctx context.Context, fig *diagtest.Figure) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	img, err := r.Draw(fig)
	if err != nil {
		return err
	}

	if r.out != nil {
		if _, err := img.WriteTo(r.out); err != nil {
			return fmt.Errorf("writing png: %w", err)
		}
	}

	if !fig.Save {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.save(img, fig.SavePath)
}

// Draw lays out fig on a PNG canvas: the plot on top, the legend in a strip
// below it.
func (r *Renderer) Draw(fig *diagtest.Figure) (vgimg.PngCanvas, error) {
	p := plot.New()
	p.Title.Text = fig.Title

	legend := plot.NewLegend()
	legend.Top = true
	legend.Left = true
	legend.XOffs = vg.Points(36)

	for _, s := range fig.Series {
		if len(s.X) != len(s.Y) {
			return vgimg.PngCanvas{}, fmt.Errorf("chart: series %q has %d x and %d y values", s.Label, len(s.X), len(s.Y))
		}
		xys := make(plotter.XYs, len(s.X))
		for i := range s.X {
			xys[i].X = s.X[i]
			xys[i].Y = s.Y[i]
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return vgimg.PngCanvas{}, fmt.Errorf("chart: series %q: %w", s.Label, err)
		}
		applyStyle(line, s.Style)
		p.Add(line)
		legend.Add(s.Label, line)
	}

	if err := configureAxis(&p.X, fig.X, fig.Series, func(s diagtest.Series) []float64 { return s.X }); err != nil {
		return vgimg.PngCanvas{}, err
	}
	if err := configureAxis(&p.Y, fig.Y, fig.Series, func(s diagtest.Series) []float64 { return s.Y }); err != nil {
		return vgimg.PngCanvas{}, err
	}

	c := vgimg.NewWith(vgimg.UseWH(r.width, r.height), vgimg.UseDPI(r.dpi))
	dc := draw.New(c)

	strip := vg.Length(len(fig.Series))*legendRow + legendMargin
	height := dc.Rectangle.Size().Y
	p.Draw(draw.Crop(dc, 0, 0, strip, 0))
	legend.Draw(draw.Crop(dc, 0, 0, 0, strip-height))

	return vgimg.PngCanvas{Canvas: c}, nil
}

func (r *Renderer) save(img vgimg.PngCanvas, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	r.logger.Info("saving plot", "path", abs, "dpi", r.dpi)

	f, err := os.Create(abs)
	if err != nil {
		return fmt.Errorf("creating %s: %w", abs, err)
	}
	if _, err := img.WriteTo(f); err != nil {
		_ = f.Close() // Write error takes precedence
		return fmt.Errorf("writing %s: %w", abs, err)
	}
	return f.Close()
}

func configureAxis(axis *plot.Axis, want diagtest.Axis, series []diagtest.Series, values func(diagtest.Series) []float64) error {
	axis.Label.Text = want.Label
	if want.Log {
		axis.Scale = plot.LogScale{}
	}
	if len(want.Ticks) > 0 {
		axis.Tick.Marker = constantTicks(want.Ticks, want.Log)
	}

	if want.Min != 0 || want.Max != 0 {
		axis.Min, axis.Max = want.Min, want.Max
		return nil
	}

	data := stats.Float64Data(lo.Flatten(lo.Map(series, func(s diagtest.Series, _ int) []float64 {
		return values(s)
	})))
	lowest, err := stats.Min(data)
	if err != nil {
		return ErrNoData
	}
	highest, err := stats.Max(data)
	if err != nil {
		return ErrNoData
	}

	if want.Log {
		axis.Min, axis.Max = logPadLow*lowest, logPadHigh*highest
	} else {
		axis.Min, axis.Max = lowest, highest
	}
	return nil
}

// constantTicks labels log ticks like %g so 10^0 reads "1", and linear
// ticks with one decimal.
func constantTicks(values []float64, log bool) plot.ConstantTicks {
	return lo.Map(values, func(v float64, _ int) plot.Tick {
		label := strconv.FormatFloat(v, 'f', 1, 64)
		if log {
			label = strconv.FormatFloat(v, 'g', -1, 64)
		}
		return plot.Tick{Value: v, Label: label}
	})
}

func applyStyle(line *plotter.Line, style diagtest.LineStyle) {
	line.LineStyle.Color = color.Black
	line.LineStyle.Width = vg.Points(1.2)

	switch style {
	case diagtest.Dashed:
		line.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
	case diagtest.DashDot:
		line.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(3), vg.Points(1.5), vg.Points(3)}
	default:
		line.LineStyle.Dashes = nil
	}
}
