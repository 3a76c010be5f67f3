package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Logging LogConfig     `mapstructure:"logging" yaml:"logging"`
	Store   StoreConfig   `mapstructure:"store" yaml:"store"`
	Verify  VerifyConfig  `mapstructure:"verify" yaml:"verify"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

type LogConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`           // debug, info, warn, error
	Encoding   string `mapstructure:"encoding" yaml:"encoding"`     // json or console
	OutputPath string `mapstructure:"outputPath" yaml:"outputPath"` // file path, stdout or stderr
}

type StoreConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

type VerifyConfig struct {
	// AllowHighS accepts signatures with S in the upper half of the group
	// order. Only for inspecting fixtures that predate the low-S rule.
	AllowHighS bool `mapstructure:"allowHighS" yaml:"allowHighS"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

var allowedLogLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

var allowedEncodings = map[string]struct{}{
	"json":    {},
	"console": {},
}

func DefaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".signblock", "blocks.db")
	}
	return filepath.Join(home, ".signblock", "blocks.db")
}

func Default() Config {
	return Config{
		Logging: LogConfig{
			Level:      "info",
			Encoding:   "console",
			OutputPath: "stderr",
		},
		Store: StoreConfig{Path: DefaultStorePath()},
	}
}

// Load reads configuration from path (YAML or JSON by extension) layered
// over defaults. Any key may be overridden from the environment with the
// SIGNBLOCK_ prefix, e.g. SIGNBLOCK_LOGGING_LEVEL=debug. An empty path loads
// defaults and environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix("SIGNBLOCK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.encoding", d.Logging.Encoding)
	v.SetDefault("logging.outputPath", d.Logging.OutputPath)
	v.SetDefault("store.path", d.Store.Path)
	v.SetDefault("verify.allowHighS", d.Verify.AllowHighS)
	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
}

func Validate(cfg Config) error {
	if _, ok := allowedLogLevels[cfg.Logging.Level]; !ok {
		return fmt.Errorf("invalid logging.level %q", cfg.Logging.Level)
	}
	if _, ok := allowedEncodings[cfg.Logging.Encoding]; !ok {
		return fmt.Errorf("invalid logging.encoding %q", cfg.Logging.Encoding)
	}
	if strings.TrimSpace(cfg.Logging.OutputPath) == "" {
		return errors.New("logging.outputPath is required")
	}
	if strings.TrimSpace(cfg.Store.Path) == "" {
		return errors.New("store.path is required")
	}
	return nil
}

// YAML renders cfg the way a config file would be written.
func (c Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
