package labels

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_CSV(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantLabel []int
		wantPred  []int
	}{
		{
			name:      "named columns in any order",
			content:   "id,prediction,label\n1,1,1\n2,0,1\n3,0,0\n4,1,0\n",
			wantLabel: []int{1, 1, 0, 0},
			wantPred:  []int{1, 0, 0, 1},
		},
		{
			name:      "no header",
			content:   "1,1\n0,1\n",
			wantLabel: []int{1, 0},
			wantPred:  []int{1, 1},
		},
		{
			name:      "unrecognised header uses first two columns",
			content:   "a,b\n1,0\n",
			wantLabel: []int{1},
			wantPred:  []int{0},
		},
		{
			name:      "blank lines and spaces",
			content:   "truth, y_hat\n1, 1\n\n0, 0\n",
			wantLabel: []int{1, 0},
			wantPred:  []int{1, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "labels.csv", tt.content)

			set, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, path, set.Source)
			assert.Equal(t, tt.wantLabel, set.Labels)
			assert.Equal(t, tt.wantPred, set.Predictions)
		})
	}
}

func TestLoad_CSVErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"header only", "label,prediction\n"},
		{"non-integer cell", "label,prediction\n1,yes\n"},
		{"missing column", "label,prediction\n1\n"},
		{"half a header", "label,score\n1,0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "labels.csv", tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_XLSX(t *testing.T) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"label", "prediction"},
		{1, 1},
		{0, 1},
		{1, 0},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	path := filepath.Join(t.TempDir(), "labels.xlsx")
	require.NoError(t, f.SaveAs(path))

	set, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0, 1}, set.Labels)
	assert.Equal(t, []int{1, 1, 0}, set.Predictions)
	assert.Equal(t, 3, set.Len())
}

func TestLoad_UnsupportedFormat(t *testing.T) {
	_, err := Load(writeFile(t, "labels.json", "[]"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
