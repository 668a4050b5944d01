package config

import (
	"fmt"
	"strings"

	"github.com/ignaciocaff/procstmt/pkg/statement"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

const (
	configType = "yaml"
	envPrefix  = "PROCSTMT"
)

// Config is the file configuration of the procstmt command.
type Config struct {
	Driver    string              `mapstructure:"driver" yaml:"driver"`
	DSN       string              `mapstructure:"dsn" yaml:"dsn"`
	Flavor    string              `mapstructure:"flavor" yaml:"flavor"`
	Catalog   string              `mapstructure:"catalog" yaml:"catalog"`
	Schema    string              `mapstructure:"schema" yaml:"schema"`
	Overrides statement.Overrides `mapstructure:"overrides" yaml:"overrides"`
	LogLevel  string              `mapstructure:"log_level" yaml:"log_level"`
}

// Load reads the YAML file at path from fs. PROCSTMT_* environment variables override file values, and an
// empty path loads defaults and environment only.
func Load(fs afero.Fs, path string) (*Config, error) {
	v := viper.New()
	v.SetFs(fs)
	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("driver", "oracle")
	v.SetDefault("dsn", "")
	v.SetDefault("flavor", "")
	v.SetDefault("catalog", "")
	v.SetDefault("schema", "")
	v.SetDefault("log_level", "info")

	if path != "" {
		exists, err := afero.Exists(fs, path)
		if err != nil {
			return nil, fmt.Errorf("stat config: %w", err)
		}
		if !exists {
			return nil, fmt.Errorf("config file %s not found", path)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// Options converts the configuration into statement driver options.
func (c *Config) Options() statement.Options {
	return statement.Options{
		Schema:    c.Schema,
		Catalog:   c.Catalog,
		Overrides: c.Overrides,
		Flavor:    c.Flavor,
	}
}

// Merge fills the schema and override table from legacy environment settings when the file left them empty.
func (c *Config) Merge(l *Legacy) {
	if l == nil {
		return
	}
	if c.Schema == "" {
		c.Schema = l.Schema()
	}
	if len(c.Overrides) == 0 {
		c.Overrides = l.Overrides()
	}
}
