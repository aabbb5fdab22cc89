package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "all flags", args: []string{"-a", "http://127.0.0.1:9090", "-s", "/tmp/s.db", "-d", "sqlite", "-t", "10"},
			expected: &Config{APIURL: "http://127.0.0.1:9090", StorePath: "/tmp/s.db", StoreDriver: "sqlite", RequestTimeout: 10 * time.Second}},
		{name: "equals form", args: []string{"-a=http://h:1", "-t=5"},
			expected: &Config{APIURL: "http://h:1", RequestTimeout: 5 * time.Second}},
		{name: "unknown flags ignored", args: []string{"-x", "1", "-a", "http://h:1", "--verbose"},
			expected: &Config{APIURL: "http://h:1"}},
		{name: "incorrect timeout", args: []string{"-t", "abc"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(cfg, tt.args) })
				return
			}
			require.NotPanics(t, func() { parseFlags(cfg, tt.args) })
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}

func TestParseFlags_TimeoutUntouchedWithoutFlag(t *testing.T) {
	cfg := &Config{RequestTimeout: 1500 * time.Millisecond}
	parseFlags(cfg, []string{"-a", "http://h:1"})
	assert.Equal(t, 1500*time.Millisecond, cfg.RequestTimeout)
}

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		keep []string
		want []string
	}{
		{name: "separate value", args: []string{"-c", "conf.json", "-x", "1"}, keep: []string{"-c"}, want: []string{"-c", "conf.json"}},
		{name: "equals value", args: []string{"--config=conf.json", "-c=other"}, keep: []string{"--config"}, want: []string{"--config=conf.json"}},
		{name: "flag without value", args: []string{"-c", "-a", "x"}, keep: []string{"-c"}, want: []string{"-c"}},
		{name: "nothing allowed", args: []string{"-a", "x"}, keep: nil, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, filterArgs(tt.args, tt.keep...))
		})
	}
}

func TestConfigPath(t *testing.T) {
	assert.Equal(t, "a.yaml", configPath([]string{"-c", "a.yaml"}))
	assert.Equal(t, "b.json", configPath([]string{"-a", "x", "-config=b.json"}))
	assert.Empty(t, configPath([]string{"-a", "x"}))
}
