package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	dir := t.TempDir()

	t.Run("overlays present keys only", func(t *testing.T) {
		path := writeTempJSON(t, dir, "partial.json", map[string]any{
			"api_url":             "http://www.example:9000",
			"request_timeout":     "10s",
			"requests_per_second": 4,
		})

		cfg := &Config{StoreDriver: "badger", LogLevel: "warn"}
		parseJson(cfg, path)

		assert.Equal(t, "http://www.example:9000", cfg.APIURL)
		assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
		assert.Equal(t, 4.0, cfg.RequestsPerSecond)
		assert.Equal(t, "badger", cfg.StoreDriver)
		assert.Equal(t, "warn", cfg.LogLevel)
	})

	t.Run("nanosecond durations", func(t *testing.T) {
		path := writeTempJSON(t, dir, "nanos.json", map[string]any{"request_timeout": int64(2 * time.Second)})

		cfg := &Config{}
		parseJson(cfg, path)

		assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	})

	t.Run("invalid JSON panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))
		require.Panics(t, func() { parseJson(&Config{}, bad) })
	})

	t.Run("invalid duration panics", func(t *testing.T) {
		path := writeTempJSON(t, dir, "baddur.json", map[string]any{"request_timeout": "soon"})
		require.Panics(t, func() { parseJson(&Config{}, path) })
	})
}
