package config

import (
	"fmt"
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
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
	Geo      GeoConfig      `yaml:"geo" mapstructure:"geo"`
	ACS      ACSConfig      `yaml:"acs" mapstructure:"acs"`
	Models   ModelsConfig   `yaml:"models" mapstructure:"models"`
	BISG     BISGConfig     `yaml:"bisg" mapstructure:"bisg"`
	Resolver ResolverConfig `yaml:"resolver" mapstructure:"resolver"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
	NAValues []string       `yaml:"na_values" mapstructure:"na_values"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// GeoConfig configures the geographic matcher.
type GeoConfig struct {
	LookupDir   string `yaml:"lookup_dir" mapstructure:"lookup_dir"`
	Year        int    `yaml:"year" mapstructure:"year"`
	Concurrency int    `yaml:"concurrency" mapstructure:"concurrency"`
	MappingFile string `yaml:"mapping_file" mapstructure:"mapping_file"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	TablePrefix string `yaml:"table_prefix" mapstructure:"table_prefix"`
}

// ACSConfig points at the attribute tables for each granularity.
type ACSConfig struct {
	BlockGroupPath   string `yaml:"block_group_path" mapstructure:"block_group_path"`
	CensusTractPath  string `yaml:"census_tract_path" mapstructure:"census_tract_path"`
	ZipCodePath      string `yaml:"zip_code_path" mapstructure:"zip_code_path"`
	BlockGroupTable  string `yaml:"block_group_table" mapstructure:"block_group_table"`
	CensusTractTable string `yaml:"census_tract_table" mapstructure:"census_tract_table"`
	ZipCodeTable     string `yaml:"zip_code_table" mapstructure:"zip_code_table"`
}

// ModelsConfig configures the remote classifier endpoints.
type ModelsConfig struct {
	BlockGroup  ModelConfig `yaml:"block_group" mapstructure:"block_group"`
	CensusTract ModelConfig `yaml:"census_tract" mapstructure:"census_tract"`
	ZipCode     ModelConfig `yaml:"zip_code" mapstructure:"zip_code"`
	BatchSize   int         `yaml:"batch_size" mapstructure:"batch_size"`
	RPS         float64     `yaml:"rps" mapstructure:"rps"`
	MaxRetries  int         `yaml:"max_retries" mapstructure:"max_retries"`
	TimeoutSecs int         `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// ModelConfig is one classifier endpoint and the attribute columns it expects.
type ModelConfig struct {
	URL      string   `yaml:"url" mapstructure:"url"`
	Features []string `yaml:"features" mapstructure:"features"`
}

// BISGConfig points at the surname and geography tables used by BISG.
type BISGConfig struct {
	SurnamePath   string `yaml:"surname_path" mapstructure:"surname_path"`
	GeographyPath string `yaml:"geography_path" mapstructure:"geography_path"`
}

// ResolverConfig configures the proxy-source resolver.
type ResolverConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// StoreConfig configures the run-summary store.
type StoreConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"`
	DSN    string `yaml:"dsn" mapstructure:"dsn"`
}

// OutputConfig configures where proxy results are written.
type OutputConfig struct {
	Path          string `yaml:"path" mapstructure:"path"`
	PostgresURL   string `yaml:"postgres_url" mapstructure:"postgres_url"`
	PostgresTable string `yaml:"postgres_table" mapstructure:"postgres_table"`
}

// Load reads configuration from file and environment. A .env file in the
// working directory is loaded first; variables already set take precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, eris.Wrap(err, "config: read .env")
	}

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ZRP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("geo.lookup_dir", "lookups")
	v.SetDefault("geo.year", 2019)
	v.SetDefault("geo.concurrency", 4)
	v.SetDefault("geo.table_prefix", "zest_geo_lookup")
	v.SetDefault("models.batch_size", 500)
	v.SetDefault("models.rps", 10.0)
	v.SetDefault("models.max_retries", 3)
	v.SetDefault("models.timeout_secs", 60)
	v.SetDefault("resolver.concurrency", 7)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.dsn", "zrp.db")
	v.SetDefault("output.path", "proxies.csv")
	v.SetDefault("output.postgres_table", "zrp_proxies")

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

// Validate checks that the settings a command needs are present. mode is
// "run" (full pipeline) or "geocode" (matcher only).
func (c *Config) Validate(mode string) error {
	var missing []string

	if c.Geo.LookupDir == "" && c.Geo.DatabaseURL == "" {
		missing = append(missing, "geo.lookup_dir or geo.database_url is required")
	}
	if c.Geo.Concurrency < 1 {
		missing = append(missing, fmt.Sprintf("geo.concurrency must be positive, got %d", c.Geo.Concurrency))
	}

	if mode == "run" {
		if c.ACS.BlockGroupPath == "" && c.ACS.BlockGroupTable == "" {
			missing = append(missing, "acs.block_group_path is required")
		}
		if c.ACS.CensusTractPath == "" && c.ACS.CensusTractTable == "" {
			missing = append(missing, "acs.census_tract_path is required")
		}
		if c.ACS.ZipCodePath == "" && c.ACS.ZipCodeTable == "" {
			missing = append(missing, "acs.zip_code_path is required")
		}
		if c.Models.BlockGroup.URL == "" {
			missing = append(missing, "models.block_group.url is required")
		}
		if c.Models.CensusTract.URL == "" {
			missing = append(missing, "models.census_tract.url is required")
		}
		if c.Models.ZipCode.URL == "" {
			missing = append(missing, "models.zip_code.url is required")
		}
		if c.BISG.SurnamePath == "" || c.BISG.GeographyPath == "" {
			missing = append(missing, "bisg.surname_path and bisg.geography_path are required")
		}
		if c.Models.BatchSize < 1 {
			missing = append(missing, fmt.Sprintf("models.batch_size must be positive, got %d", c.Models.BatchSize))
		}
	}

	if len(missing) > 0 {
		return eris.New("config: " + strings.Join(missing, "; "))
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
