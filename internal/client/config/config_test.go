package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, DefaultAPIURL, c.APIURL)
	assert.Equal(t, 30*time.Second, c.RequestTimeout)
	assert.Equal(t, "sqlite", c.StoreDriver)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoad_DefaultsOnly(t *testing.T) {
	cfg := load(nil)

	expected := &Config{
		APIURL:         "http://localhost:5000",
		RequestTimeout: 30 * time.Second,
		StoreDriver:    "sqlite",
		StorePath:      DefaultSQLitePath,
		LogLevel:       "info",
		LogFormat:      "text",
	}
	assert.Empty(t, cmp.Diff(expected, cfg))
}

func TestLoad_Precedence(t *testing.T) {
	path := writeTempJSON(t, "", "", map[string]any{
		"api_url":         "http://file.example:1",
		"request_timeout": "7s",
		"store_driver":    "memory",
		"log_level":       "debug",
	})
	t.Setenv("TABCLIENT_API_URL", "http://env.example:2/")
	t.Setenv("TABCLIENT_LOG_FORMAT", "json")

	cfg := load([]string{"-c", path, "-d", "badger", "-unrelated", "x"})

	assert.Equal(t, "http://env.example:2", cfg.APIURL, "env overrides file, trailing slash trimmed")
	assert.Equal(t, 7*time.Second, cfg.RequestTimeout, "file value survives when no flag is given")
	assert.Equal(t, "badger", cfg.StoreDriver, "flag overrides file")
	assert.Equal(t, DefaultBadgerDir, cfg.StorePath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("TABCLIENT_API_URL", "http://env.example:2")
	t.Setenv("TABCLIENT_REQUEST_TIMEOUT", "3s")

	cfg := load([]string{"-a", "https://flag.example", "-t", "12"})

	assert.Equal(t, "https://flag.example", cfg.APIURL)
	assert.Equal(t, 12*time.Second, cfg.RequestTimeout)
}

func TestLoad_EnvNumbers(t *testing.T) {
	t.Setenv("TABCLIENT_REQUESTS_PER_SECOND", "2.5")
	t.Setenv("TABCLIENT_STORE_SECRET", "hunter2")

	cfg := load(nil)

	assert.Equal(t, 2.5, cfg.RequestsPerSecond)
	assert.Equal(t, "hunter2", cfg.StoreSecret)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "bad url", args: []string{"-a", "localhost:5000"}},
		{name: "bad driver", args: []string{"-d", "postgres"}},
		{name: "bad timeout", args: []string{"-t", "abc"}},
		{name: "negative timeout", args: []string{"-t=-5"}},
		{name: "missing file", args: []string{"-config", "/nonexistent/cfg.json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Panics(t, func() { load(tt.args) })
		})
	}
}

func TestFinalize_MemoryDropsPath(t *testing.T) {
	c := Config{APIURL: DefaultAPIURL, StoreDriver: " Memory ", StorePath: "x.db"}
	require.NoError(t, c.finalize())
	assert.Equal(t, "memory", c.StoreDriver)
	assert.Empty(t, c.StorePath)
}
