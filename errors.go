package diagtest

import "errors"

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrLengthMismatch indicates label and prediction arrays differ in length.
	ErrLengthMismatch = errors.New("diagtest: labels and predictions differ in length")

	// ErrInvalidLabel indicates a label or prediction outside {0, 1}.
	ErrInvalidLabel = errors.New("diagtest: label must be 0 or 1")

	// ErrZeroDenominator indicates a metric is undefined for its inputs.
	ErrZeroDenominator = errors.New("diagtest: zero denominator")

	// ErrInvalidPrevalence indicates a prevalence bound that is not positive
	// or a minimum above the maximum.
	ErrInvalidPrevalence = errors.New("diagtest: invalid prevalence bounds")

	// ErrInvalidCharacteristics indicates a sensitivity or specificity outside [0, 1].
	ErrInvalidCharacteristics = errors.New("diagtest: sensitivity and specificity must be in [0, 1]")

	// ErrPairCount indicates an unsupported number of sensitivity/specificity pairs.
	ErrPairCount = errors.New("diagtest: unsupported number of sensitivity/specificity pairs")
)
