package report

import (
	"bytes"
	"encoding/csv"
	"math"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	diagtest "github.com/jamesainslie/go-diagtest"
)

func testSweep(t *testing.T) *diagtest.Sweep {
	t.Helper()
	s, err := diagtest.SweepPrevalence([]diagtest.Characteristics{
		{Sensitivity: 0.95, Specificity: 0.95},
		{Sensitivity: 0.8, Specificity: 0.99},
	}, 1e-3, 1, 10)
	require.NoError(t, err)
	return s
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"csv", CSV, false},
		{"JSON", JSON, false},
		{"pb", PB, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrUnknownFormat, tt.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	f, err := FormatFromPath("out/sweep.json")
	require.NoError(t, err)
	assert.Equal(t, JSON, f)
}

func TestWriteSweep_CSV(t *testing.T) {
	s := testSweep(t)
	var buf bytes.Buffer
	require.NoError(t, WriteSweep(&buf, s, CSV))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, len(s.Prevalences)+1)
	assert.Equal(t, []string{"prevalence", "ppv_1", "npv_1", "ppv_2", "npv_2"}, records[0])
	assert.Equal(t, []string{"0.001"}, records[1][:1])
	assert.Equal(t, "1", records[len(records)-1][0])
	assert.Equal(t, "1", records[len(records)-1][1])
}

func TestWriteSweep_JSON(t *testing.T) {
	s := testSweep(t)
	var buf bytes.Buffer
	require.NoError(t, WriteSweep(&buf, s, JSON))

	var doc sweepDoc
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, -3, doc.PowerMin)
	assert.Equal(t, 0, doc.PowerMax)
	assert.Equal(t, s.Ticks, doc.Ticks)
	require.Len(t, doc.Curves, 2)
	assert.Equal(t, 0.8, doc.Curves[1].Sensitivity)
	assert.Equal(t, s.Curves[1].PPV, doc.Curves[1].PPV)
}

func TestWriteSweep_PB(t *testing.T) {
	s := testSweep(t)
	s.Overridden = true

	var buf bytes.Buffer
	require.NoError(t, WriteSweep(&buf, s, PB))

	got, err := UnmarshalSweep(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestUnmarshalSweep_SkipsUnknownFields(t *testing.T) {
	s := testSweep(t)
	b := MarshalSweep(s)
	b = protowire.AppendTag(b, 99, protowire.BytesType)
	b = protowire.AppendBytes(b, []byte("future"))

	got, err := UnmarshalSweep(b)
	require.NoError(t, err)
	assert.Equal(t, s.Prevalences, got.Prevalences)
}

func TestUnmarshalSweep_Truncated(t *testing.T) {
	b := MarshalSweep(testSweep(t))
	_, err := UnmarshalSweep(b[:len(b)-3])
	assert.Error(t, err)
}

func TestWriteSweep_UnknownFormat(t *testing.T) {
	err := WriteSweep(&bytes.Buffer{}, testSweep(t), Format("xml"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestSummaryTable(t *testing.T) {
	c := diagtest.Counts{TruePositives: 3, FalseNegatives: 1}
	out := SummaryTable(c, diagtest.Summarize(c))

	assert.Contains(t, out, "Sensitivity")
	assert.Contains(t, out, "0.7500")
	assert.Contains(t, out, "undefined")
}

func TestSweepTable(t *testing.T) {
	s := testSweep(t)
	out := SweepTable(s, 4)

	assert.Contains(t, out, "PPV 0.950/0.950")
	assert.Contains(t, out, "NPV 0.800/0.990")
	// Indices 0, 4, 8 and the final point 9.
	lines := strings.Split(strings.TrimSpace(out), "\n")
	dataLines := 0
	for _, l := range lines {
		if strings.Contains(l, "0.") && !strings.Contains(l, "PPV") {
			dataLines++
		}
	}
	assert.Equal(t, 4, dataLines)
}

func TestSampleIndices(t *testing.T) {
	assert.Equal(t, []int{0, 3, 6, 9}, sampleIndices(10, 3))
	assert.Equal(t, []int{0, 4, 8, 9}, sampleIndices(10, 4))
	assert.Equal(t, []int{0}, sampleIndices(1, 5))
	assert.Nil(t, sampleIndices(0, 5))
}

func TestFormatMetric(t *testing.T) {
	assert.Equal(t, "undefined", formatMetric(math.NaN()))
	assert.Equal(t, "0.9500", formatMetric(0.95))
}
