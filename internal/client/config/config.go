package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/tabclient/internal/client/storage"
	"github.com/dmitrijs2005/tabclient/internal/netx"
)

// Config holds runtime settings for the tab client.
//
// Units: RequestTimeout is a time.Duration; RequestsPerSecond <= 0 disables
// request pacing.
type Config struct {
	APIURL            string        `koanf:"api_url"`
	RequestTimeout    time.Duration `koanf:"request_timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	StoreDriver       string        `koanf:"store_driver"`
	StorePath         string        `koanf:"store_path"`
	StoreSecret       string        `koanf:"store_secret"`
	LogLevel          string        `koanf:"log_level"`
	LogFormat         string        `koanf:"log_format"`
}

const (
	DefaultAPIURL     = "http://localhost:5000"
	DefaultSQLitePath = "session.db"
	DefaultBadgerDir  = "session.badger"
)

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIURL = DefaultAPIURL
	c.RequestTimeout = 30 * time.Second
	c.RequestsPerSecond = 0
	c.StoreDriver = storage.DriverSQLite
	c.StorePath = ""
	c.StoreSecret = ""
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// LoadConfig constructs a Config from defaults, the optional config file,
// TABCLIENT_* environment variables and command-line flags. Later sources
// take precedence. It panics on invalid input.
func LoadConfig() *Config {
	return load(os.Args[1:])
}

func load(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path := configPath(args); path != "" {
		parseFile(cfg, path)
	}
	parseEnv(cfg)
	parseFlags(cfg, args)

	if err := cfg.finalize(); err != nil {
		panic(err)
	}
	return cfg
}

// parseFile dispatches on the file extension.
func parseFile(cfg *Config, path string) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parseYAML(cfg, path)
	default:
		parseJson(cfg, path)
	}
}

// finalize validates c and fills the store path for the chosen driver.
func (c *Config) finalize() error {
	url, err := netx.NormalizeBaseURL(c.APIURL)
	if err != nil {
		return err
	}
	c.APIURL = url

	if c.RequestTimeout < 0 {
		return fmt.Errorf("request timeout must not be negative: %s", c.RequestTimeout)
	}

	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	switch c.StoreDriver {
	case storage.DriverSQLite:
		if c.StorePath == "" {
			c.StorePath = DefaultSQLitePath
		}
	case storage.DriverBadger:
		if c.StorePath == "" {
			c.StorePath = DefaultBadgerDir
		}
	case storage.DriverMemory:
		c.StorePath = ""
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}
	return nil
}
