package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Dataset  DatasetConfig  `yaml:"dataset" mapstructure:"dataset"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
	Training TrainingConfig `yaml:"training" mapstructure:"training"`
	Forest   ForestConfig   `yaml:"forest" mapstructure:"forest"`
	Boost    BoostConfig    `yaml:"boost" mapstructure:"boost"`
	Fetch    FetchConfig    `yaml:"fetch" mapstructure:"fetch"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// DatasetConfig locates and decodes the input table.
type DatasetConfig struct {
	Path      string `yaml:"path" mapstructure:"path"`
	Charset   string `yaml:"charset" mapstructure:"charset"`
	Delimiter string `yaml:"delimiter" mapstructure:"delimiter"`
	Sheet     string `yaml:"sheet" mapstructure:"sheet"`
	TrimSpace bool   `yaml:"trim_space" mapstructure:"trim_space"`
}

// OutputConfig controls where charts and reports are written.
type OutputConfig struct {
	Dir     string `yaml:"dir" mapstructure:"dir"`
	Report  string `yaml:"report" mapstructure:"report"`
	Summary string `yaml:"summary" mapstructure:"summary"`
}

// TrainingConfig holds the parameters shared by both regressors.
type TrainingConfig struct {
	TestSize   float64 `yaml:"test_size" mapstructure:"test_size"`
	Seed       int64   `yaml:"seed" mapstructure:"seed"`
	Estimators int     `yaml:"estimators" mapstructure:"estimators"`
	Workers    int     `yaml:"workers" mapstructure:"workers"`
}

// ForestConfig tunes the bagged-tree regressor.
type ForestConfig struct {
	MaxDepth       int `yaml:"max_depth" mapstructure:"max_depth"`
	MinSamplesLeaf int `yaml:"min_samples_leaf" mapstructure:"min_samples_leaf"`
}

// BoostConfig tunes the boosted-tree regressor.
type BoostConfig struct {
	LearningRate float64 `yaml:"learning_rate" mapstructure:"learning_rate"`
	MaxDepth     int     `yaml:"max_depth" mapstructure:"max_depth"`
	Lambda       float64 `yaml:"lambda" mapstructure:"lambda"`
	Subsample    float64 `yaml:"subsample" mapstructure:"subsample"`
}

// FetchConfig configures remote dataset downloads.
type FetchConfig struct {
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int    `yaml:"max_retries" mapstructure:"max_retries"`
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
}

// StoreConfig configures the run history backend. An empty driver disables it.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from config.yaml, an optional .env file and the
// environment.
func Load() (*Config, error) {
	// A .env file in the working directory is optional; set variables win.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, eris.Wrap(err, "config: read .env")
	}

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("FIPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("dataset.path", "precos_carros_brasil.csv")
	v.SetDefault("dataset.charset", "utf-8")
	v.SetDefault("dataset.delimiter", ",")
	v.SetDefault("dataset.sheet", "")
	v.SetDefault("dataset.trim_space", false)
	v.SetDefault("output.dir", ".")
	v.SetDefault("output.report", "")
	v.SetDefault("output.summary", "")
	v.SetDefault("training.test_size", 0.25)
	v.SetDefault("training.seed", 42)
	v.SetDefault("training.estimators", 100)
	v.SetDefault("training.workers", 0)
	v.SetDefault("forest.max_depth", 0)
	v.SetDefault("forest.min_samples_leaf", 1)
	v.SetDefault("boost.learning_rate", 0.3)
	v.SetDefault("boost.max_depth", 6)
	v.SetDefault("boost.lambda", 1.0)
	v.SetDefault("boost.subsample", 1.0)
	v.SetDefault("fetch.timeout_secs", 60)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.user_agent", "fipe-cli/1.0")
	v.SetDefault("store.driver", "")
	v.SetDefault("store.database_url", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks value ranges that would otherwise surface as confusing
// failures deep inside training.
func (c *Config) Validate() error {
	var errs []string

	if c.Dataset.Path == "" {
		errs = append(errs, "dataset.path is required")
	}
	if len([]rune(c.Dataset.Delimiter)) > 1 {
		errs = append(errs, "dataset.delimiter must be a single character")
	}
	if c.Training.TestSize <= 0 || c.Training.TestSize >= 1 {
		errs = append(errs, "training.test_size must be between 0 and 1")
	}
	if c.Training.Estimators <= 0 {
		errs = append(errs, "training.estimators must be positive")
	}
	if c.Training.Workers < 0 {
		errs = append(errs, "training.workers must not be negative")
	}
	if c.Forest.MaxDepth < 0 {
		errs = append(errs, "forest.max_depth must not be negative")
	}
	if c.Forest.MinSamplesLeaf < 1 {
		errs = append(errs, "forest.min_samples_leaf must be at least 1")
	}
	if c.Boost.LearningRate <= 0 {
		errs = append(errs, "boost.learning_rate must be positive")
	}
	if c.Boost.MaxDepth < 1 {
		errs = append(errs, "boost.max_depth must be at least 1")
	}
	if c.Boost.Lambda < 0 {
		errs = append(errs, "boost.lambda must not be negative")
	}
	if c.Boost.Subsample <= 0 || c.Boost.Subsample > 1 {
		errs = append(errs, "boost.subsample must be in (0, 1]")
	}
	switch c.Store.Driver {
	case "", "sqlite":
	case "postgres":
		if c.Store.DatabaseURL == "" {
			errs = append(errs, "store.database_url is required for postgres")
		}
	default:
		errs = append(errs, "store.driver must be one of: sqlite, postgres")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
