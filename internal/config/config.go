// Package config provides configuration loading for forgeci.
//
// Configuration is loaded with Viper: built-in defaults, then an
// optional YAML config file, then FORGECI_-prefixed environment
// variables, highest priority last. The zero configuration works out
// of the box; a config file is only needed to change paths, timeouts
// or the default branch allow-list.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config is the root configuration container.
type Config struct {
	// Branches is the default branch allow-list applied to pipelines
	// that do not declare their own.
	Branches []string `mapstructure:"branches"`

	Executor ExecutorConfig `mapstructure:"executor"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Journal  JournalConfig  `mapstructure:"journal"`
	Server   ServerConfig   `mapstructure:"server"`
}

// ExecutorConfig controls step execution.
type ExecutorConfig struct {
	// StepTimeout bounds a single step command.
	StepTimeout time.Duration `mapstructure:"step_timeout"`

	// MaxParallel caps concurrently running configurations.
	// 0 means run all configurations in parallel.
	MaxParallel int `mapstructure:"max_parallel"`
}

// StorageConfig controls step log persistence.
type StorageConfig struct {
	LogDir string `mapstructure:"log_dir"`
}

// JournalConfig controls the tamper-evident run journal.
type JournalConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Path           string `mapstructure:"path"`
	PublicKeyPath  string `mapstructure:"public_key_path"`
	PrivateKeyPath string `mapstructure:"private_key_path"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Branches: []string{"stable"},
		Executor: ExecutorConfig{
			StepTimeout: 5 * time.Minute,
			MaxParallel: 0,
		},
		Storage: StorageConfig{LogDir: "./logs"},
		Journal: JournalConfig{
			Enabled:        true,
			Path:           "./journal.jsonl",
			PublicKeyPath:  "./keys/forgeci.pub",
			PrivateKeyPath: "./keys/forgeci.priv",
		},
		Server: ServerConfig{ListenAddr: ":8080"},
	}
}

// Loader loads configuration via Viper.
type Loader struct {
	v *viper.Viper
}

func NewLoader() *Loader {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("FORGECI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := DefaultConfig()
	v.SetDefault("branches", def.Branches)
	v.SetDefault("executor.step_timeout", def.Executor.StepTimeout)
	v.SetDefault("executor.max_parallel", def.Executor.MaxParallel)
	v.SetDefault("storage.log_dir", def.Storage.LogDir)
	v.SetDefault("journal.enabled", def.Journal.Enabled)
	v.SetDefault("journal.path", def.Journal.Path)
	v.SetDefault("journal.public_key_path", def.Journal.PublicKeyPath)
	v.SetDefault("journal.private_key_path", def.Journal.PrivateKeyPath)
	v.SetDefault("server.listen_addr", def.Server.ListenAddr)

	return &Loader{v: v}
}

// Load resolves the configuration. When path is empty the
// FORGECI_CONFIG_PATH environment variable is consulted, then
// ./forgeci.yaml; a missing file falls back to defaults plus
// environment overrides.
func (l *Loader) Load(path string) (*Config, error) {
	if path == "" {
		path = l.v.GetString("config_path")
	}
	if path == "" {
		path = "./forgeci.yaml"
	}

	// A missing config file is fine (defaults + env apply); a present
	// but invalid one is an error.
	if _, err := os.Stat(path); err == nil {
		l.v.SetConfigFile(path)
		if err := l.v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(err, "read config file")
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	return &cfg, nil
}
