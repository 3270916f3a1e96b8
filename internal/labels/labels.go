// Package labels loads paired ground-truth labels and predictions from
// CSV and Excel files.
package labels

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat indicates a file extension other than .csv or .xlsx.
var ErrUnsupportedFormat = errors.New("labels: unsupported file format")

// Column names recognised in a header row, lower-cased.
var (
	labelColumns      = []string{"label", "truth", "true", "actual", "y"}
	predictionColumns = []string{"prediction", "predicted", "pred", "y_hat", "yhat"}
)

// Set is a loaded pair of label and prediction columns.
type Set struct {
	Source      string
	Labels      []int
	Predictions []int
}

// Len returns the number of pairs.
func (s *Set) Len() int {
	return len(s.Labels)
}

// Load reads a .csv file or the first sheet of a .xlsx file.
//
// An optional header row selects the columns by name; without a recognised
// header the first two columns are labels and predictions.
func Load(path string) (*Set, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = readCSV(path)
	case ".xlsx":
		rows, err = readXLSX(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, err
	}

	set, err := Parse(rows)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	set.Source = path
	return set, nil
}

// Parse converts table rows into a Set.
func Parse(rows [][]string) (*Set, error) {
	if len(rows) == 0 {
		return nil, errors.New("no rows")
	}

	labelCol, predCol := 0, 1
	start := 0
	if isHeader(rows[0]) {
		var err error
		labelCol, predCol, err = headerColumns(rows[0])
		if err != nil {
			return nil, err
		}
		start = 1
	}

	set := &Set{}
	for i := start; i < len(rows); i++ {
		row := rows[i]
		if blank(row) {
			continue
		}
		line := i + 1
		label, err := cell(row, labelCol, line)
		if err != nil {
			return nil, err
		}
		pred, err := cell(row, predCol, line)
		if err != nil {
			return nil, err
		}
		set.Labels = append(set.Labels, label)
		set.Predictions = append(set.Predictions, pred)
	}

	if set.Len() == 0 {
		return nil, errors.New("no data rows")
	}
	return set, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return rows, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

// isHeader reports whether the first row holds any non-integer cell.
func isHeader(row []string) bool {
	for _, c := range row {
		if _, err := strconv.Atoi(strings.TrimSpace(c)); err != nil {
			return true
		}
	}
	return false
}

func headerColumns(header []string) (label, pred int, err error) {
	label, pred = -1, -1
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		switch {
		case label < 0 && lo.Contains(labelColumns, name):
			label = i
		case pred < 0 && lo.Contains(predictionColumns, name):
			pred = i
		}
	}
	if label < 0 && pred < 0 {
		// Unrecognised header, fall back to positions.
		return 0, 1, nil
	}
	if label < 0 || pred < 0 {
		return 0, 0, fmt.Errorf("header %q needs both a label and a prediction column", header)
	}
	return label, pred, nil
}

func cell(row []string, col, line int) (int, error) {
	if col >= len(row) {
		return 0, fmt.Errorf("row %d: missing column %d", line, col+1)
	}
	v, err := strconv.Atoi(strings.TrimSpace(row[col]))
	if err != nil {
		return 0, fmt.Errorf("row %d column %d: %w", line, col+1, err)
	}
	return v, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
