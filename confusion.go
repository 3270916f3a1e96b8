package diagtest

import "fmt"

// Counts holds the four cells of a binary confusion matrix.
type Counts struct {
	TruePositives  int
	FalsePositives int
	FalseNegatives int
	TrueNegatives  int
}

// Total returns the number of counted pairs.
func (c Counts) Total() int {
	return c.TruePositives + c.FalsePositives + c.FalseNegatives + c.TrueNegatives
}

// ConfusionMatrix counts true/false positives/negatives over positionally
// paired labels and predictions. Positive is 1 and negative is 0.
//
// Pairs holding any other value are not counted, so Total can be smaller
// than len(labels). Use ValidateLabels first when that must not happen.
func ConfusionMatrix(labels, predictions []int) (Counts, error) {
	if len(labels) != len(predictions) {
		return Counts{}, fmt.Errorf("%w: %d labels, %d predictions", ErrLengthMismatch, len(labels), len(predictions))
	}

	var c Counts
	for i, truth := range labels {
		switch pred := predictions[i]; {
		case pred == 1 && truth == 1:
			c.TruePositives++
		case pred == 1 && truth == 0:
			c.FalsePositives++
		case pred == 0 && truth == 1:
			c.FalseNegatives++
		case pred == 0 && truth == 0:
			c.TrueNegatives++
		}
	}
	return c, nil
}

// ValidateLabels reports the first pair that ConfusionMatrix would not count.
func ValidateLabels(labels, predictions []int) error {
	if len(labels) != len(predictions) {
		return fmt.Errorf("%w: %d labels, %d predictions", ErrLengthMismatch, len(labels), len(predictions))
	}
	for i := range labels {
		if !isBinary(labels[i]) {
			return fmt.Errorf("%w: label[%d] = %d", ErrInvalidLabel, i, labels[i])
		}
		if !isBinary(predictions[i]) {
			return fmt.Errorf("%w: prediction[%d] = %d", ErrInvalidLabel, i, predictions[i])
		}
	}
	return nil
}

func isBinary(v int) bool {
	return v == 0 || v == 1
}
