// Package config loads runtime configuration for the tab client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected via -c or -config. Files ending in
//     .yaml or .yml are read with koanf; anything else is parsed as JSON.
//  3. Environment variables prefixed with TABCLIENT_.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base address of the tab service
//	-s string   session store path
//	-d string   session store driver (sqlite, badger, memory)
//	-t int      request timeout (seconds)
//
// # JSON schema
//
// Durations may be strings like "10s" or integer nanoseconds:
//
//	{
//	  "api_url": "http://localhost:5000",
//	  "request_timeout": "10s",
//	  "requests_per_second": 5,
//	  "store_driver": "sqlite",
//	  "store_path": "session.db",
//	  "store_secret": "",
//	  "log_level": "info",
//	  "log_format": "text"
//	}
//
// The YAML file and the environment use the same key names
// (TABCLIENT_API_URL, TABCLIENT_STORE_DRIVER, ...).
package config
