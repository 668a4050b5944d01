package config

import (
	"fmt"
	"os"
	"strings"

	env "github.com/Netflix/go-env"
	"github.com/ignaciocaff/procstmt/pkg/statement"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
)

// Output positions whose buffer length the catalog under-reports in the legacy deployment.
const (
	legacyCheck1Position = 5
	legacyCheck2Position = 4
	legacyOverrideLength = 9
)

// Legacy holds the environment variables older deployments configure the library with.
type Legacy struct {
	Environment string `env:"application_environment"`
	Development string `env:"library_development"`
	Production  string `env:"library_production"`
	OutCheck1   string `env:"stored_proc_name_for_out_param_check1"`
	OutCheck2   string `env:"stored_proc_name_for_out_param_check2"`
}

// LoadLegacy reads the legacy variables from the process environment. When dotenv names an existing file in fs
// its entries are exported first, without replacing variables that are already set.
func LoadLegacy(fs afero.Fs, dotenv string) (*Legacy, error) {
	if dotenv != "" {
		if err := loadDotenv(fs, dotenv); err != nil {
			return nil, err
		}
	}

	l := &Legacy{}
	if _, err := env.UnmarshalFromEnviron(l); err != nil {
		return nil, err
	}
	return l, nil
}

func loadDotenv(fs afero.Fs, path string) error {
	exists, err := afero.Exists(fs, path)
	if err != nil || !exists {
		return err
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	vars, err := godotenv.Unmarshal(string(data))
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	for k, v := range vars {
		if _, ok := os.LookupEnv(k); ok {
			continue
		}
		if err := os.Setenv(k, v); err != nil {
			return err
		}
	}
	return nil
}

// Schema picks the development or production library for the configured environment.
func (l *Legacy) Schema() string {
	return SchemaForEnvironment(l.Environment, l.Development, l.Production)
}

// Overrides returns the fixed output lengths for the two configured procedures.
func (l *Legacy) Overrides() statement.Overrides {
	var o statement.Overrides
	if l.OutCheck1 != "" {
		o = append(o, statement.Override{Procedure: l.OutCheck1, Position: legacyCheck1Position, Length: legacyOverrideLength})
	}
	if l.OutCheck2 != "" {
		o = append(o, statement.Override{Procedure: l.OutCheck2, Position: legacyCheck2Position, Length: legacyOverrideLength})
	}
	return o
}

// Options converts the legacy settings into statement driver options.
func (l *Legacy) Options() statement.Options {
	return statement.Options{Schema: l.Schema(), Overrides: l.Overrides()}
}

// SchemaForEnvironment returns dev for test or development environments, prod for production ones and ""
// otherwise. Matching is case-insensitive and by substring.
func SchemaForEnvironment(environment, dev, prod string) string {
	e := strings.ToLower(environment)
	switch {
	case strings.Contains(e, "test"), strings.Contains(e, "development"):
		return dev
	case strings.Contains(e, "prod"):
		return prod
	default:
		return ""
	}
}
