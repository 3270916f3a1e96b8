package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	diagtest "github.com/jamesainslie/go-diagtest"
	"github.com/jamesainslie/go-diagtest/chart"
	"github.com/jamesainslie/go-diagtest/internal/config"
	"github.com/jamesainslie/go-diagtest/internal/labels"
	"github.com/jamesainslie/go-diagtest/internal/report"
)

// Set via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := fang.Execute(context.Background(), newRootCmd(cfg), fang.WithVersion(version+" ("+commit+", "+date+")")); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "diagtest",
		Short:         "Diagnostic test statistics and the influence of prevalence on PPV/NPV",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newMetricsCmd(),
		newPredictiveCmd(),
		newPrevalenceCmd(cfg),
		newPrevalence3Cmd(cfg),
	)
	return root
}

func newLogger(cfg *config.Config) *slog.Logger {
	level, _ := cfg.Level() // validated by config.Load
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func newMetricsCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "metrics FILE",
		Short: "Confusion matrix and metrics from a label/prediction file",
		Long: `Compute the confusion matrix, sensitivity, specificity, precision, F1 and
accuracy from a .csv or .xlsx file holding ground-truth labels and predictions.

Example: diagtest metrics results.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := labels.Load(args[0])
			if err != nil {
				return err
			}
			if strict {
				if err := diagtest.ValidateLabels(set.Labels, set.Predictions); err != nil {
					return err
				}
			}

			counts, err := diagtest.ConfusionMatrix(set.Labels, set.Predictions)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.SummaryTable(counts, diagtest.Summarize(counts)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", true, "Reject labels and predictions other than 0 and 1")
	return cmd
}

func newPredictiveCmd() *cobra.Command {
	var c diagtest.Characteristics
	var prevalence float64

	cmd := &cobra.Command{
		Use:   "predictive",
		Short: "PPV and NPV of a test at one prevalence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.Validate(); err != nil {
				return err
			}
			ppv, err := diagtest.PositivePredictiveValue(c.Sensitivity, c.Specificity, prevalence)
			if err != nil {
				return err
			}
			npv, err := diagtest.NegativePredictiveValue(c.Sensitivity, c.Specificity, prevalence)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "PPV: %.4f  NPV: %.4f\n", ppv, npv)
			return nil
		},
	}

	cmd.Flags().Float64Var(&c.Sensitivity, "sensitivity", 0.95, "Sensitivity of the test")
	cmd.Flags().Float64Var(&c.Specificity, "specificity", 0.95, "Specificity of the test")
	cmd.Flags().Float64Var(&prevalence, "prevalence", 0.01, "Prevalence of the condition")
	return cmd
}

// sweepFlags are shared by the prevalence commands.
type sweepFlags struct {
	min    float64
	max    float64
	points int
	save   bool
	out    string
	export string
	format string
	every  int
}

func (f *sweepFlags) register(cmd *cobra.Command, cfg *config.Config) {
	cmd.Flags().Float64Var(&f.min, "min", diagtest.DefaultMinPrevalence, "Minimum prevalence (rounded down to its decade)")
	cmd.Flags().Float64Var(&f.max, "max", diagtest.DefaultMaxPrevalence, "Maximum prevalence (rounded down to its decade)")
	cmd.Flags().IntVar(&f.points, "points", cfg.NumPoints, "Number of prevalence points")
	cmd.Flags().BoolVar(&f.save, "save", false, "Save the plot as PNG")
	cmd.Flags().StringVar(&f.out, "out", cfg.OutputDir, "Directory for saved plots")
	cmd.Flags().StringVar(&f.export, "export", "", "Write the sweep to this file")
	cmd.Flags().StringVar(&f.format, "format", "", "Export format: csv, json or pb (default: from --export extension)")
	cmd.Flags().IntVar(&f.every, "every", 100, "Print every Nth point of the sweep")
}

func (f *sweepFlags) study(cfg *config.Config, logger *slog.Logger) *diagtest.Study {
	renderer := chart.New(
		chart.WithDPI(cfg.DPI),
		chart.WithSize(vg.Length(cfg.WidthIn)*vg.Inch, vg.Length(cfg.HeightIn)*vg.Inch),
		chart.WithLogger(logger),
	)
	return diagtest.New(
		diagtest.WithRenderer(renderer),
		diagtest.WithOutputDir(f.out),
		diagtest.WithSave(f.save),
		diagtest.WithLogger(logger),
	)
}

func (f *sweepFlags) finish(cmd *cobra.Command, sweep *diagtest.Sweep, fig *diagtest.Figure) error {
	fmt.Fprintln(cmd.OutOrStdout(), report.SweepTable(sweep, f.every))
	if f.save {
		fmt.Fprintf(cmd.OutOrStdout(), "Saved plot to %s\n", fig.SavePath)
	}
	if f.export == "" {
		return nil
	}
	return exportSweep(sweep, f.export, f.format)
}

func exportSweep(sweep *diagtest.Sweep, path, format string) error {
	var (
		f   report.Format
		err error
	)
	if format != "" {
		f, err = report.ParseFormat(format)
	} else {
		f, err = report.FormatFromPath(path)
	}
	if err != nil {
		return err
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export: %w", err)
	}
	if err := report.WriteSweep(out, sweep, f); err != nil {
		_ = out.Close() // Write error takes precedence
		return fmt.Errorf("writing export: %w", err)
	}
	return out.Close()
}

func newPrevalenceCmd(cfg *config.Config) *cobra.Command {
	var c diagtest.Characteristics
	var flags sweepFlags

	cmd := &cobra.Command{
		Use:   "prevalence",
		Short: "PPV and NPV of one test across a prevalence range",
		Long: `Sweep a log-spaced prevalence range and plot PPV and NPV of one test.

Example: diagtest prevalence --sensitivity 0.95 --specificity 0.95 --min 1e-4 --max 1 --save`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger(cfg)
			sweep, fig, err := flags.study(cfg, logger).InfluenceOfPrevalence(cmd.Context(), c, flags.min, flags.max, flags.points)
			if err != nil {
				return err
			}
			return flags.finish(cmd, sweep, fig)
		},
	}

	cmd.Flags().Float64Var(&c.Sensitivity, "sensitivity", 0.95, "Sensitivity of the test")
	cmd.Flags().Float64Var(&c.Specificity, "specificity", 0.95, "Specificity of the test")
	flags.register(cmd, cfg)
	return cmd
}

func newPrevalence3Cmd(cfg *config.Config) *cobra.Command {
	var pairs []string
	var flags sweepFlags

	cmd := &cobra.Command{
		Use:   "prevalence3",
		Short: "PPV of three tests across a prevalence range",
		Long: `Sweep a log-spaced prevalence range and plot the PPV of three tests.

Example: diagtest prevalence3 --pair 0.95:0.95 --pair 0.9:0.99 --pair 0.8:0.999 --save`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			chars, err := parsePairs(pairs)
			if err != nil {
				return err
			}
			logger := newLogger(cfg)
			sweep, fig, err := flags.study(cfg, logger).Influence3PPVOfPrevalence(cmd.Context(), chars, flags.min, flags.max, flags.points)
			if err != nil {
				return err
			}
			return flags.finish(cmd, sweep, fig)
		},
	}

	cmd.Flags().StringArrayVar(&pairs, "pair", nil, "Sensitivity:specificity pair (repeat three times)")
	flags.register(cmd, cfg)
	return cmd
}

func parsePairs(pairs []string) ([]diagtest.Characteristics, error) {
	out := make([]diagtest.Characteristics, 0, len(pairs))
	for _, p := range pairs {
		se, sp, ok := strings.Cut(p, ":")
		if !ok {
			return nil, fmt.Errorf("invalid pair %q, want sensitivity:specificity", p)
		}
		sensitivity, err := strconv.ParseFloat(strings.TrimSpace(se), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid sensitivity in %q: %w", p, err)
		}
		specificity, err := strconv.ParseFloat(strings.TrimSpace(sp), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid specificity in %q: %w", p, err)
		}
		out = append(out, diagtest.Characteristics{Sensitivity: sensitivity, Specificity: specificity})
	}
	return out, nil
}
