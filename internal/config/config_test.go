package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hed1ad/gocfar/pkg/detectors/cfar"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "CFAR.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
cfar_config:
  guard_cell: 3
  reference_cell: 16
  pfa: 0.001
  distribution: lognormal
  shape: 0.8
  estimator: greatest-of
  boundary: one-sided
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfar.Config{
		GuardCells:     3,
		ReferenceCells: 16,
		Pfa:            0.001,
		Distribution:   cfar.LogNormal,
		Shape:          0.8,
		Estimator:      cfar.EstimatorGreatestOf,
		Boundary:       cfar.BoundaryOneSided,
	}, cfg)
}

func TestLoadOriginalLayoutUsesDefaults(t *testing.T) {
	path := writeConfig(t, `
cfar_config:
  guard_cell: 4
  reference_cell: 10
  pfa: 0.05
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	want := cfar.DefaultConfig()
	want.GuardCells, want.ReferenceCells, want.Pfa = 4, 10, 0.05
	assert.Equal(t, want, cfg)
}

func TestLoadEnvironmentOverride(t *testing.T) {
	path := writeConfig(t, "cfar_config:\n  pfa: 0.05\n")
	t.Setenv("CFAR_PFA", "0.0001")
	t.Setenv("CFAR_ESTIMATOR", "median")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.0001, cfg.Pfa)
	assert.Equal(t, cfar.EstimatorMedian, cfg.Estimator)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{
			name:    "pfa out of range",
			body:    "cfar_config:\n  pfa: 1.2\n",
			wantErr: cfar.ErrInvalidProbability,
		},
		{
			name:    "non-positive shape",
			body:    "cfar_config:\n  shape: -1\n",
			wantErr: cfar.ErrModelParameter,
		},
		{
			name:    "zero reference cells",
			body:    "cfar_config:\n  reference_cell: 0\n",
			wantErr: cfar.ErrConfiguration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadSearchPathFallsBackToDefaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, cfar.DefaultConfig(), cfg)
}

func TestLoadSearchPath(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "setting"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "setting", "CFAR.yaml"),
		[]byte("cfar_config:\n  guard_cell: 1\n  reference_cell: 4\n  pfa: 0.02\n"), 0o644))
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.GuardCells)
	assert.Equal(t, 4, cfg.ReferenceCells)
	assert.Equal(t, 0.02, cfg.Pfa)
}
