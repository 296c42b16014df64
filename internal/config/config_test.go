package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadScenarioYAML_OverridesOnlySpecifiedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte("score_threshold: 25\nbudget_city: 99\n"), 0o644))

	cfg, err := LoadScenarioYAML(path)
	require.NoError(t, err)
	require.Equal(t, 25.0, cfg.ScoreThreshold)
	require.Equal(t, 99, cfg.BudgetCity)
	require.Equal(t, Default().BudgetVillage, cfg.BudgetVillage)
}

func TestLoadScenarioTOML_OverridesOnlySpecifiedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.toml")
	require.NoError(t, os.WriteFile(path, []byte("rumor_cap = 50\n"), 0o644))

	cfg, err := LoadScenarioTOML(path)
	require.NoError(t, err)
	require.Equal(t, 50, cfg.RumorCap)
	require.Equal(t, Default().MaxCatchupTicks, cfg.MaxCatchupTicks)
}

func TestLoadScenarioYAML_MissingFileErrors(t *testing.T) {
	_, err := LoadScenarioYAML(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
