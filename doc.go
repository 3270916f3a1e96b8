// Package diagtest computes diagnostic-test statistics and the influence of
// disease prevalence on predictive values.
//
// # Quick Start
//
//	counts, err := diagtest.ConfusionMatrix(labels, predictions)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	se, err := diagtest.Sensitivity(counts.TruePositives, counts.FalseNegatives)
//
//	study := diagtest.New(diagtest.WithRenderer(chart.New()), diagtest.WithSave(true))
//	sweep, _, err := study.InfluenceOfPrevalence(ctx,
//	    diagtest.Characteristics{Sensitivity: 0.95, Specificity: 0.95},
//	    diagtest.DefaultMinPrevalence, diagtest.DefaultMaxPrevalence, diagtest.DefaultNumPoints)
//
// # Prevalence Sweeps
//
// Sweep bounds are rounded down to their decade (0.03 becomes 0.01) and the
// domain is log-spaced between the two decade boundaries. A requested point
// count smaller than the number of spanned decades is replaced by
// DefaultNumPoints.
//
// # Undefined Metrics
//
// Every metric returns ErrZeroDenominator instead of NaN or Inf when its
// denominator is zero. Summarize is the exception: it reports NaN and lists
// the undefined metric names.
package diagtest
