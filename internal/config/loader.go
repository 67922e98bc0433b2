package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "BDA_"

// listKeys are settings whose environment value is a comma-separated list.
var listKeys = map[string]struct{}{
	"catalog": {},
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if BDA_CONFIG is set
//  3. env (prefix BDA_)
func Load() (*Config, error) {
	return LoadFile(os.Getenv(EnvPrefix + "CONFIG"))
}

// LoadFile is Load with an explicit YAML path. An empty path skips the file layer.
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	// BDA_CACHE_PATH -> cache_path; underscores are kept to match koanf tags.
	// List settings such as BDA_CATALOG=1981,1983 are split on commas.
	envProvider := env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
		if _, ok := listKeys[key]; ok {
			return key, splitList(value)
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
	}
	// BDA_CONFIG names the file, it is not a setting.
	k.Delete("config")

	// Slices are merged element-wise by the decoder, so the default catalog
	// is only filled in when no layer sets one.
	cfg := New()
	defaultCatalog := cfg.Catalog
	cfg.Catalog = nil
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}
	if len(cfg.Catalog) == 0 {
		cfg.Catalog = defaultCatalog
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
