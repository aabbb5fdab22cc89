package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Duration accepts either a Go duration string ("3s") or integer
// nanoseconds in JSON.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case float64:
		d.Duration = time.Duration(x)
	case string:
		parsed, err := time.ParseDuration(x)
		if err != nil {
			return err
		}
		d.Duration = parsed
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
	return nil
}

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from zero values so that only keys present
// in the file override earlier sources.
type JsonConfig struct {
	APIURL            *string   `json:"api_url"`
	RequestTimeout    *Duration `json:"request_timeout"`
	RequestsPerSecond *float64  `json:"requests_per_second"`
	StoreDriver       *string   `json:"store_driver"`
	StorePath         *string   `json:"store_path"`
	StoreSecret       *string   `json:"store_secret"`
	LogLevel          *string   `json:"log_level"`
	LogFormat         *string   `json:"log_format"`
}

// parseJson overlays cfg with the values found in the JSON file at path.
// It panics on read or unmarshal errors.
func parseJson(cfg *Config, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setIf(&cfg.APIURL, jc.APIURL)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	setIf(&cfg.RequestsPerSecond, jc.RequestsPerSecond)
	setIf(&cfg.StoreDriver, jc.StoreDriver)
	setIf(&cfg.StorePath, jc.StorePath)
	setIf(&cfg.StoreSecret, jc.StoreSecret)
	setIf(&cfg.LogLevel, jc.LogLevel)
	setIf(&cfg.LogFormat, jc.LogFormat)
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
