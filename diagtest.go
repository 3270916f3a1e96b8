package diagtest

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
)

// LineStyle selects how a series is stroked.
type LineStyle int

const (
	Solid LineStyle = iota
	Dashed
	DashDot
)

// Series is one labelled curve of a figure.
type Series struct {
	Label string
	Style LineStyle
	X     []float64
	Y     []float64
}

// Axis configures one figure axis. A zero Min and Max let the renderer
// derive the range from the data.
type Axis struct {
	Label string
	Log   bool
	Ticks []float64
	Min   float64
	Max   float64
}

// Figure is everything a Renderer needs to draw a sweep.
type Figure struct {
	Title  string
	X      Axis
	Y      Axis
	Series []Series

	// Save requests the figure to be written to SavePath.
	Save     bool
	SavePath string
}

// Renderer draws figures. Implementations persist the figure when
// Figure.Save is set.
type Renderer interface {
	Render(ctx context.Context, fig *Figure) error
}

type nopRenderer struct{}

func (nopRenderer) Render(context.Context, *Figure) error { return nil }

// Study runs prevalence sweeps and hands the resulting figures to a Renderer.
// It holds no state between calls and is safe for concurrent use if its
// Renderer is.
type Study struct {
	renderer  Renderer
	outputDir string
	save      bool
	logger    *slog.Logger
}

// New creates a Study.
func New(opts ...Option) *Study {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Study{
		renderer:  cfg.renderer,
		outputDir: cfg.outputDir,
		save:      cfg.save,
		logger:    cfg.logger,
	}
}

// InfluenceOfPrevalence sweeps one test over the prevalence range and
// renders its PPV and NPV curves.
func (s *Study) InfluenceOfPrevalence(ctx context.Context, c Characteristics, minPrevalence, maxPrevalence float64, numPoints int) (*Sweep, *Figure, error) {
	sweep, err := s.sweep(ctx, []Characteristics{c}, minPrevalence, maxPrevalence, numPoints)
	if err != nil {
		return nil, nil, err
	}

	curve := sweep.Curves[0]
	fig := s.newFigure(sweep,
		fmt.Sprintf("Influence of Disease Prevalence(π) on PPV and NPV\n(Sensitivity = %.3f, Specificity = %.3f)",
			c.Sensitivity, c.Specificity),
		fmt.Sprintf("InfluenceOfPrevalence_sensitivity%.3f_specificty%.3f.png", c.Sensitivity, c.Specificity),
	)
	fig.Series = []Series{
		{Label: "PPV", Style: Solid, X: sweep.Prevalences, Y: curve.PPV},
		{Label: "NPV", Style: Dashed, X: sweep.Prevalences, Y: curve.NPV},
	}

	if err := s.render(ctx, fig); err != nil {
		return nil, nil, err
	}
	return sweep, fig, nil
}

// Influence3PPVOfPrevalence sweeps exactly three tests over the prevalence
// range and renders one PPV curve per test.
func (s *Study) Influence3PPVOfPrevalence(ctx context.Context, pairs []Characteristics, minPrevalence, maxPrevalence float64, numPoints int) (*Sweep, *Figure, error) {
	if len(pairs) != 3 {
		return nil, nil, fmt.Errorf("%w: want 3, got %d", ErrPairCount, len(pairs))
	}

	sweep, err := s.sweep(ctx, pairs, minPrevalence, maxPrevalence, numPoints)
	if err != nil {
		return nil, nil, err
	}

	fig := s.newFigure(sweep,
		"Influence of Disease Prevalence(π) on PPV",
		fmt.Sprintf("InfluenceOfPrevalence_%.3f-%.3f_%.3f-%.3f_%.3f-%.3f.png",
			pairs[0].Sensitivity, pairs[0].Specificity,
			pairs[1].Sensitivity, pairs[1].Specificity,
			pairs[2].Sensitivity, pairs[2].Specificity),
	)
	styles := []LineStyle{Solid, Dashed, DashDot}
	for i, curve := range sweep.Curves {
		fig.Series = append(fig.Series, Series{
			Label: fmt.Sprintf("PPV (Se = %.3f, Sp = %.3f)", curve.Sensitivity, curve.Specificity),
			Style: styles[i],
			X:     sweep.Prevalences,
			Y:     curve.PPV,
		})
	}

	if err := s.render(ctx, fig); err != nil {
		return nil, nil, err
	}
	return sweep, fig, nil
}

func (s *Study) sweep(ctx context.Context, pairs []Characteristics, minPrevalence, maxPrevalence float64, numPoints int) (*Sweep, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sweep, err := SweepPrevalence(pairs, minPrevalence, maxPrevalence, numPoints)
	if err != nil {
		return nil, err
	}
	if sweep.Overridden {
		s.logger.Debug("point count below decade count, using default",
			"requested", numPoints,
			"decades", sweep.Decades(),
			"points", len(sweep.Prevalences))
	}
	return sweep, nil
}

func (s *Study) newFigure(sweep *Sweep, title, filename string) *Figure {
	return &Figure{
		Title: title,
		X: Axis{
			Label: "Prevalence (π)",
			Log:   true,
			Ticks: sweep.Ticks,
		},
		Y: Axis{
			Min:   -0.05,
			Max:   1.05,
			Ticks: []float64{0, 0.2, 0.4, 0.6, 0.8, 1.0},
		},
		Save:     s.save,
		SavePath: filepath.Join(s.outputDir, filename),
	}
}

func (s *Study) render(ctx context.Context, fig *Figure) error {
	if err := s.renderer.Render(ctx, fig); err != nil {
		return fmt.Errorf("rendering %q: %w", fig.SavePath, err)
	}
	return nil
}
