// Package report formats confusion-matrix summaries and prevalence sweeps
// for terminals and files.
package report

import (
	"fmt"
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/samber/lo"

	diagtest "github.com/jamesainslie/go-diagtest"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

// SummaryTable renders confusion counts followed by the derived metrics.
func SummaryTable(c diagtest.Counts, s diagtest.Summary) string {
	t := newTable("Metric", "Value").Rows(
		[]string{"True positives", strconv.Itoa(c.TruePositives)},
		[]string{"False positives", strconv.Itoa(c.FalsePositives)},
		[]string{"False negatives", strconv.Itoa(c.FalseNegatives)},
		[]string{"True negatives", strconv.Itoa(c.TrueNegatives)},
		[]string{"Sensitivity", formatMetric(s.Sensitivity)},
		[]string{"Specificity", formatMetric(s.Specificity)},
		[]string{"Precision", formatMetric(s.Precision)},
		[]string{"F1", formatMetric(s.F1)},
		[]string{"Accuracy", formatMetric(s.Accuracy)},
	)
	return t.Render()
}

// SweepTable renders every nth point of a sweep, always including the last.
func SweepTable(s *diagtest.Sweep, every int) string {
	if every < 1 {
		every = 1
	}

	headers := []string{"Prevalence"}
	for _, c := range s.Curves {
		pair := fmt.Sprintf("%.3f/%.3f", c.Sensitivity, c.Specificity)
		headers = append(headers, "PPV "+pair, "NPV "+pair)
	}

	indices := sampleIndices(len(s.Prevalences), every)
	rows := lo.Map(indices, func(i int, _ int) []string {
		row := []string{strconv.FormatFloat(s.Prevalences[i], 'g', 4, 64)}
		for _, c := range s.Curves {
			row = append(row, formatMetric(c.PPV[i]), formatMetric(c.NPV[i]))
		}
		return row
	})

	return newTable(headers...).Rows(rows...).Render()
}

func sampleIndices(n, every int) []int {
	var out []int
	for i := 0; i < n; i += every {
		out = append(out, i)
	}
	if n > 0 && out[len(out)-1] != n-1 {
		out = append(out, n-1)
	}
	return out
}

func formatMetric(v float64) string {
	if math.IsNaN(v) {
		return "undefined"
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}
