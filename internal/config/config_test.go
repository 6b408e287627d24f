package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "precos_carros_brasil.csv", cfg.Dataset.Path)
	assert.Equal(t, "utf-8", cfg.Dataset.Charset)
	assert.Equal(t, ",", cfg.Dataset.Delimiter)
	assert.False(t, cfg.Dataset.TrimSpace)
	assert.Equal(t, ".", cfg.Output.Dir)
	assert.Empty(t, cfg.Output.Report)
	assert.InDelta(t, 0.25, cfg.Training.TestSize, 0.0001)
	assert.Equal(t, int64(42), cfg.Training.Seed)
	assert.Equal(t, 100, cfg.Training.Estimators)
	assert.Equal(t, 0, cfg.Forest.MaxDepth)
	assert.Equal(t, 1, cfg.Forest.MinSamplesLeaf)
	assert.InDelta(t, 0.3, cfg.Boost.LearningRate, 0.0001)
	assert.Equal(t, 6, cfg.Boost.MaxDepth)
	assert.InDelta(t, 1.0, cfg.Boost.Lambda, 0.0001)
	assert.InDelta(t, 1.0, cfg.Boost.Subsample, 0.0001)
	assert.Equal(t, 60, cfg.Fetch.TimeoutSecs)
	assert.Equal(t, 3, cfg.Fetch.MaxRetries)
	assert.Equal(t, "fipe-cli/1.0", cfg.Fetch.UserAgent)
	assert.Empty(t, cfg.Store.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)

	assert.NoError(t, cfg.Validate())
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
dataset:
  path: dados/fipe.csv
  charset: latin1
training:
  seed: 7
  estimators: 10
store:
  driver: sqlite
  database_url: runs.db
log:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dados/fipe.csv", cfg.Dataset.Path)
	assert.Equal(t, "latin1", cfg.Dataset.Charset)
	assert.Equal(t, int64(7), cfg.Training.Seed)
	assert.Equal(t, 10, cfg.Training.Estimators)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "runs.db", cfg.Store.DatabaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	// Defaults still apply for unset values
	assert.InDelta(t, 0.25, cfg.Training.TestSize, 0.0001)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
dataset:
  path: from-file.csv
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("FIPE_DATASET_PATH", "from-env.csv")
	t.Setenv("FIPE_TRAINING_ESTIMATORS", "25")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "from-env.csv", cfg.Dataset.Path)
	assert.Equal(t, 25, cfg.Training.Estimators)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("dataset: [unclosed"), 0644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func validDefaults() *Config {
	cfg := &Config{}
	cfg.Dataset.Path = "precos_carros_brasil.csv"
	cfg.Dataset.Delimiter = ","
	cfg.Training.TestSize = 0.25
	cfg.Training.Seed = 42
	cfg.Training.Estimators = 100
	cfg.Forest.MinSamplesLeaf = 1
	cfg.Boost.LearningRate = 0.3
	cfg.Boost.MaxDepth = 6
	cfg.Boost.Lambda = 1
	cfg.Boost.Subsample = 1
	return cfg
}

func TestValidate_Defaults(t *testing.T) {
	assert.NoError(t, validDefaults().Validate())
}

func TestValidate_Ranges(t *testing.T) {
	cfg := validDefaults()
	cfg.Training.TestSize = 1.5
	cfg.Training.Estimators = 0
	cfg.Boost.Subsample = 0
	cfg.Forest.MinSamplesLeaf = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "training.test_size")
	assert.Contains(t, err.Error(), "training.estimators")
	assert.Contains(t, err.Error(), "boost.subsample")
	assert.Contains(t, err.Error(), "forest.min_samples_leaf")
}

func TestValidate_Store(t *testing.T) {
	cfg := validDefaults()
	cfg.Store.Driver = "postgres"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.database_url")

	cfg.Store.DatabaseURL = "postgres://localhost/fipe"
	assert.NoError(t, cfg.Validate())

	cfg.Store.Driver = "mongo"
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.driver")
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("FIPE_DATASET_PATH=from_dotenv.csv\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("FIPE_DATASET_PATH") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from_dotenv.csv", cfg.Dataset.Path)
}
