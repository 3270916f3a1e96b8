package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	diagtest "github.com/jamesainslie/go-diagtest"
	"github.com/jamesainslie/go-diagtest/internal/config"
	"github.com/jamesainslie/go-diagtest/internal/report"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		OutputDir: t.TempDir(),
		DPI:       72,
		WidthIn:   4,
		HeightIn:  3,
		LogLevel:  "error",
		NumPoints: 1000,
	}
}

func run(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd(cfg)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestMetricsCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	require.NoError(t, os.WriteFile(path, []byte("label,prediction\n1,1\n1,0\n0,0\n0,1\n"), 0o600))

	out, err := run(t, testConfig(t), "metrics", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Sensitivity")
	assert.Contains(t, out, "0.5000")
}

func TestMetricsCmd_Strict(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	require.NoError(t, os.WriteFile(path, []byte("label,prediction\n1,2\n"), 0o600))

	_, err := run(t, testConfig(t), "metrics", path)
	assert.ErrorIs(t, err, diagtest.ErrInvalidLabel)

	_, err = run(t, testConfig(t), "metrics", "--strict=false", path)
	assert.NoError(t, err)
}

func TestPredictiveCmd(t *testing.T) {
	out, err := run(t, testConfig(t), "predictive", "--sensitivity", "0.95", "--specificity", "0.95", "--prevalence", "0.5")
	require.NoError(t, err)
	assert.Contains(t, out, "PPV: 0.9500  NPV: 0.9500")
}

func TestPrevalenceCmd_SaveAndExport(t *testing.T) {
	cfg := testConfig(t)
	export := filepath.Join(t.TempDir(), "sweep.pb")

	out, err := run(t, cfg, "prevalence", "--points", "20", "--save", "--export", export, "--every", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "PPV 0.950/0.950")

	_, err = os.Stat(filepath.Join(cfg.OutputDir, "InfluenceOfPrevalence_sensitivity0.950_specificty0.950.png"))
	assert.NoError(t, err)

	data, err := os.ReadFile(export)
	require.NoError(t, err)
	sweep, err := report.UnmarshalSweep(data)
	require.NoError(t, err)
	assert.Len(t, sweep.Prevalences, 20)
	assert.Equal(t, -4, sweep.PowerMin)
}

func TestPrevalence3Cmd(t *testing.T) {
	cfg := testConfig(t)
	export := filepath.Join(t.TempDir(), "sweep.out")

	_, err := run(t, cfg, "prevalence3",
		"--pair", "0.95:0.95", "--pair", "0.9:0.99", "--pair", "0.8:0.999",
		"--points", "10", "--export", export, "--format", "csv")
	require.NoError(t, err)

	data, err := os.ReadFile(export)
	require.NoError(t, err)
	assert.Contains(t, string(data), "prevalence,ppv_1,npv_1,ppv_2,npv_2,ppv_3,npv_3")
}

func TestPrevalence3Cmd_PairCount(t *testing.T) {
	_, err := run(t, testConfig(t), "prevalence3", "--pair", "0.95:0.95")
	assert.True(t, errors.Is(err, diagtest.ErrPairCount), "got %v", err)
}

func TestParsePairs(t *testing.T) {
	got, err := parsePairs([]string{"0.9:0.8", " 1 : 0 "})
	require.NoError(t, err)
	assert.Equal(t, []diagtest.Characteristics{{Sensitivity: 0.9, Specificity: 0.8}, {Sensitivity: 1, Specificity: 0}}, got)

	for _, bad := range []string{"0.9", "x:0.8", "0.9:y"} {
		_, err := parsePairs([]string{bad})
		assert.Error(t, err, bad)
	}
}
