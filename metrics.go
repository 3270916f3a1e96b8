package diagtest

import (
	"fmt"
	"math"
)

// Sensitivity returns the true positive rate tp / (tp + fn).
func Sensitivity(tp, fn int) (float64, error) {
	return ratio("sensitivity", tp, tp+fn)
}

// Specificity returns the true negative rate tn / (tn + fp).
func Specificity(tn, fp int) (float64, error) {
	return ratio("specificity", tn, tn+fp)
}

// Precision returns tp / (tp + fp).
func Precision(tp, fp int) (float64, error) {
	return ratio("precision", tp, tp+fp)
}

// F1Score returns 2tp / (2tp + fp + fn).
func F1Score(tp, fp, fn int) (float64, error) {
	return ratio("f1 score", 2*tp, 2*tp+fp+fn)
}

// Accuracy returns (tp + tn) / (tp + tn + fp + fn).
func Accuracy(tp, tn, fp, fn int) (float64, error) {
	return ratio("accuracy", tp+tn, tp+tn+fp+fn)
}

// PositivePredictiveValue returns the probability that a positive result is
// a true positive at the given prevalence (Bayes' theorem).
func PositivePredictiveValue(sensitivity, specificity, prevalence float64) (float64, error) {
	numerator := sensitivity * prevalence
	denominator := numerator + (1-specificity)*(1-prevalence)
	if denominator == 0 {
		return 0, fmt.Errorf("%w: ppv(se=%g, sp=%g, prevalence=%g)", ErrZeroDenominator, sensitivity, specificity, prevalence)
	}
	return numerator / denominator, nil
}

// NegativePredictiveValue returns the probability that a negative result is
// a true negative at the given prevalence.
func NegativePredictiveValue(sensitivity, specificity, prevalence float64) (float64, error) {
	numerator := specificity * (1 - prevalence)
	denominator := numerator + (1-sensitivity)*prevalence
	if denominator == 0 {
		return 0, fmt.Errorf("%w: npv(se=%g, sp=%g, prevalence=%g)", ErrZeroDenominator, sensitivity, specificity, prevalence)
	}
	return numerator / denominator, nil
}

func ratio(name string, num, den int) (float64, error) {
	if den == 0 {
		return 0, fmt.Errorf("%w: %s", ErrZeroDenominator, name)
	}
	return float64(num) / float64(den), nil
}

// Summary holds every count-based metric of a confusion matrix.
type Summary struct {
	Sensitivity float64
	Specificity float64
	Precision   float64
	F1          float64
	Accuracy    float64

	// Undefined names the metrics above that are NaN because their
	// denominator was zero.
	Undefined []string
}

// Summarize computes all count-based metrics. Unlike the individual metric
// functions it never fails; undefined metrics are NaN.
func Summarize(c Counts) Summary {
	var s Summary
	fields := []struct {
		name string
		dst  *float64
		fn   func() (float64, error)
	}{
		{"sensitivity", &s.Sensitivity, func() (float64, error) { return Sensitivity(c.TruePositives, c.FalseNegatives) }},
		{"specificity", &s.Specificity, func() (float64, error) { return Specificity(c.TrueNegatives, c.FalsePositives) }},
		{"precision", &s.Precision, func() (float64, error) { return Precision(c.TruePositives, c.FalsePositives) }},
		{"f1", &s.F1, func() (float64, error) { return F1Score(c.TruePositives, c.FalsePositives, c.FalseNegatives) }},
		{"accuracy", &s.Accuracy, func() (float64, error) {
			return Accuracy(c.TruePositives, c.TrueNegatives, c.FalsePositives, c.FalseNegatives)
		}},
	}

	for _, f := range fields {
		v, err := f.fn()
		if err != nil {
			*f.dst = math.NaN()
			s.Undefined = append(s.Undefined, f.name)
			continue
		}
		*f.dst = v
	}
	return s
}
