package config

import (
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix namespaces the environment variables read by parseEnv.
const EnvPrefix = "TABCLIENT_"

// parseYAML overlays cfg with the YAML file at path. Keys match the koanf
// struct tags. It panics on read or decode errors.
func parseYAML(cfg *Config, path string) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		panic(err)
	}
	if err := k.Unmarshal("", cfg); err != nil {
		panic(err)
	}
}

// parseEnv overlays cfg with TABCLIENT_* variables, e.g.
// TABCLIENT_API_URL=https://tabs.example.org or TABCLIENT_REQUEST_TIMEOUT=5s.
func parseEnv(cfg *Config) {
	k := koanf.New(".")
	provider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	})
	if err := k.Load(provider, nil); err != nil {
		panic(err)
	}
	if err := k.Unmarshal("", cfg); err != nil {
		panic(err)
	}
}
