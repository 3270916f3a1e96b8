package diagtest

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	// DefaultMinPrevalence is the default lower prevalence bound of a sweep.
	DefaultMinPrevalence = 1e-4

	// DefaultMaxPrevalence is the default upper prevalence bound of a sweep.
	DefaultMaxPrevalence = 1.0

	// DefaultNumPoints replaces a requested point count that is smaller than
	// the number of decades a sweep spans.
	DefaultNumPoints = 1000
)

// Characteristics describes a diagnostic test independent of prevalence.
type Characteristics struct {
	Sensitivity float64
	Specificity float64
}

// Validate checks that both values lie in [0, 1].
func (c Characteristics) Validate() error {
	if !inUnit(c.Sensitivity) || !inUnit(c.Specificity) {
		return fmt.Errorf("%w: sensitivity=%g, specificity=%g", ErrInvalidCharacteristics, c.Sensitivity, c.Specificity)
	}
	return nil
}

func inUnit(v float64) bool {
	return v >= 0 && v <= 1
}

// Curve holds the predictive values of one test across a prevalence domain.
// PPV and NPV are aligned with Sweep.Prevalences.
type Curve struct {
	Characteristics
	PPV []float64
	NPV []float64
}

// Sweep is the result of evaluating one or more tests over a log-spaced
// prevalence domain.
type Sweep struct {
	PowerMin int
	PowerMax int

	// Prevalences is the evaluation domain.
	Prevalences []float64

	// Ticks are the decade boundaries 10^PowerMin ... 10^PowerMax, used
	// for axis labelling only.
	Ticks []float64

	Curves []Curve

	// Overridden reports that the requested point count was replaced by
	// DefaultNumPoints.
	Overridden bool
}

// Decades returns the number of decade boundaries the sweep spans.
func (s *Sweep) Decades() int {
	return s.PowerMax - s.PowerMin + 1
}

// DecadeExponent rounds b down to its power-of-ten exponent, floor(log10(b)).
// b must be positive.
func DecadeExponent(b float64) int {
	p := int(math.Floor(math.Log10(b)))
	// math.Log10 is inexact at powers of ten (Log10(1000) < 3).
	for math.Pow10(p+1) <= b {
		p++
	}
	for p > -324 && math.Pow10(p) > b {
		p--
	}
	return p
}

// SweepPrevalence evaluates PPV and NPV for every pair over a prevalence
// domain spanning the decades of minPrevalence and maxPrevalence.
//
// If numPoints is smaller than the number of spanned decades it is replaced
// by DefaultNumPoints.
func SweepPrevalence(pairs []Characteristics, minPrevalence, maxPrevalence float64, numPoints int) (*Sweep, error) {
	if len(pairs) == 0 {
		return nil, fmt.Errorf("%w: got 0", ErrPairCount)
	}
	for _, c := range pairs {
		if err := c.Validate(); err != nil {
			return nil, err
		}
	}
	if !(minPrevalence > 0) || !(maxPrevalence > 0) || math.IsInf(maxPrevalence, 1) || minPrevalence > maxPrevalence {
		return nil, fmt.Errorf("%w: min=%g, max=%g", ErrInvalidPrevalence, minPrevalence, maxPrevalence)
	}

	s := &Sweep{
		PowerMin: DecadeExponent(minPrevalence),
		PowerMax: DecadeExponent(maxPrevalence),
	}

	n := s.Decades()
	if numPoints < n {
		numPoints = DefaultNumPoints
		s.Overridden = true
	}

	s.Prevalences = logspace(s.PowerMin, s.PowerMax, numPoints)

	s.Ticks = make([]float64, n)
	for i := range s.Ticks {
		s.Ticks[i] = math.Pow10(s.PowerMin + i)
	}

	s.Curves = make([]Curve, len(pairs))
	for i, c := range pairs {
		curve := Curve{
			Characteristics: c,
			PPV:             make([]float64, len(s.Prevalences)),
			NPV:             make([]float64, len(s.Prevalences)),
		}
		for j, prevalence := range s.Prevalences {
			ppv, err := PositivePredictiveValue(c.Sensitivity, c.Specificity, prevalence)
			if err != nil {
				return nil, err
			}
			npv, err := NegativePredictiveValue(c.Sensitivity, c.Specificity, prevalence)
			if err != nil {
				return nil, err
			}
			curve.PPV[j] = ppv
			curve.NPV[j] = npv
		}
		s.Curves[i] = curve
	}

	return s, nil
}

// logspace returns num values log-uniformly spaced from 10^lo to 10^hi
// inclusive.
func logspace(lo, hi, num int) []float64 {
	dst := make([]float64, num)
	first, last := math.Pow10(lo), math.Pow10(hi)
	if num == 1 || lo == hi {
		for i := range dst {
			dst[i] = first
		}
		return dst
	}
	floats.LogSpan(dst, first, last)
	dst[0], dst[num-1] = first, last
	return dst
}
