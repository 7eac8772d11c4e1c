package cmd

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigConstants(t *testing.T) {
	assert.Equal(t, "srcpatch", configBaseName)
	assert.Equal(t, "srcpatch.yaml", configFileName)
	assert.Equal(t, ".", configFolderPath)
	assert.Equal(t, "dry-run", dryRunFlagName)
	assert.Equal(t, "dry_run", dryRunConfigKey)
	assert.Equal(t, "parallel", applyParallelFlagName)
	assert.Equal(t, "apply.parallel", applyParallelConfigKey)
	assert.Equal(t, "recipe.path", recipePathConfigKey)
	assert.Equal(t, 4, defaultApplyParallel)
	assert.Equal(t, "SRCPATCH", envPrefix)
	assert.Equal(t, ".srcpatch.log", defaultLogFilename)
}

func TestConfigVersionConstants(t *testing.T) {
	assert.Equal(t, "version", configVersionKey)
	assert.Equal(t, 1, currentConfigVersion)
}

func TestConfigDefaults(t *testing.T) {
	resetFlagBindings()

	assert.Equal(t, currentConfigVersion, viper.GetInt(configVersionKey))
	assert.Equal(t, defaultRecipePath, viper.GetString(recipePathConfigKey))
	assert.Equal(t, defaultApplyParallel, viper.GetInt(applyParallelConfigKey))
	assert.False(t, viper.GetBool(strictConfigKey))
}

func TestConfigEnvOverride(t *testing.T) {
	resetFlagBindings()
	t.Setenv("SRCPATCH_APPLY_PARALLEL", "9")
	t.Setenv("SRCPATCH_RECIPE_PATH", "patches/promanage.yaml")

	assert.Equal(t, 9, viper.GetInt(applyParallelConfigKey))
	assert.Equal(t, "patches/promanage.yaml", viper.GetString(recipePathConfigKey))
}

func TestReadConfigFile(t *testing.T) {
	tempDir := t.TempDir()
	originalWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tempDir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(originalWD)) })

	t.Run("missing file", func(t *testing.T) {
		assert.NoError(t, readConfigFile())
	})

	t.Run("malformed file", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, configFileName), []byte("apply: [unclosed\n"), 0o644))

		err := readConfigFile()
		require.Error(t, err)
		assert.Contains(t, err.Error(), configFileName)
	})
}

func TestParseSlogLevel(t *testing.T) {
	tests := []struct {
		value string
		want  slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{" WARN ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"-4", slog.LevelDebug},
		{"loud", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSlogLevel(tt.value, slog.LevelInfo))
		})
	}
}

func TestConfigureLogger_VerboseEnablesDebug(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	configureLogger(filepath.Join(t.TempDir(), "srcpatch.log"), true)

	require.NotNil(t, globalLogger)
	assert.True(t, globalLogger.Enabled(t.Context(), slog.LevelDebug))

	configureLogger(filepath.Join(t.TempDir(), "srcpatch.log"), false)
	assert.False(t, globalLogger.Enabled(t.Context(), slog.LevelDebug))
}
