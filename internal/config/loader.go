package config

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and, when configFile is
// not empty, from that YAML file. Environment variables win over the file, and
// the file wins over field defaults. The result is validated before returning.
//
// File keys are the environment variable names in any case, e.g.
//
//	server_port: 9090
//	analysis_delimiters: [comma, semicolon, tab, pipe]
func Load(configFile string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config load: read %s: %w", configFile, err)
		}
	}

	cfg := &Config{}
	if err := loadStruct(v, reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// loadStruct recursively populates struct fields from the viper instance.
func loadStruct(v *viper.Viper, val reflect.Value) error {
	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := val.Field(i)

		if !fieldVal.CanSet() {
			continue
		}

		if field.Type.Kind() == reflect.Struct {
			if err := loadStruct(v, fieldVal); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("env")
		if key == "" {
			continue
		}

		value := lookup(v, key)
		if value == "" {
			if field.Tag.Get("required") == "true" {
				return fmt.Errorf("required setting %s is not set", key)
			}
			value = field.Tag.Get("default")
		}
		if value == "" {
			continue
		}

		if err := setField(fieldVal, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", key, value, err)
		}
	}

	return nil
}

// lookup returns the raw setting for key as a string. Lists from a config file
// are joined with commas so they share the environment variable syntax.
func lookup(v *viper.Viper, key string) string {
	switch raw := v.Get(key).(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(raw)
	case []any:
		parts := make([]string, 0, len(raw))
		for _, item := range raw {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ",")
	case []string:
		return strings.Join(raw, ",")
	default:
		return fmt.Sprint(raw)
	}
}

// setField sets a reflect.Value from a string based on its type.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration: %w", err)
			}
			field.SetInt(int64(d))
			return nil
		}
		i, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer: %w", err)
		}
		field.SetInt(i)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type: %s", field.Type().Elem().Kind())
		}
		var items []string
		for _, p := range strings.Split(value, ",") {
			if p = strings.TrimSpace(p); p != "" {
				items = append(items, p)
			}
		}
		field.Set(reflect.ValueOf(items))

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.ReadTimeout < 0 {
		errs = append(errs, "SERVER_READ_TIMEOUT must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}
	if c.Server.RequestTimeout <= 0 {
		errs = append(errs, "SERVER_REQUEST_TIMEOUT must be positive")
	}

	if c.Upload.MaxRequestSize < 0 {
		errs = append(errs, "UPLOAD_MAX_REQUEST_SIZE must be non-negative (0 disables the cap)")
	}
	if c.Upload.MaxMemory <= 0 {
		errs = append(errs, "UPLOAD_MAX_MEMORY must be positive")
	}
	if c.Upload.MaxConcurrent <= 0 {
		errs = append(errs, "UPLOAD_MAX_CONCURRENT must be positive")
	}
	if c.Upload.MaxWaitTime <= 0 {
		errs = append(errs, "UPLOAD_MAX_WAIT_TIME must be positive")
	}

	if c.Analysis.EncodingSampleBytes <= 0 {
		errs = append(errs, "ANALYSIS_ENCODING_SAMPLE_BYTES must be positive")
	}
	if c.Analysis.ProbeRows <= 0 {
		errs = append(errs, "ANALYSIS_PROBE_ROWS must be positive")
	}
	if len(c.Analysis.Delimiters) == 0 {
		errs = append(errs, "ANALYSIS_DELIMITERS must list at least one delimiter")
	}
	for _, name := range c.Analysis.Delimiters {
		if _, ok := delimiterNames[strings.ToLower(name)]; !ok {
			errs = append(errs, fmt.Sprintf("ANALYSIS_DELIMITERS entry %q must be one of: comma, semicolon, tab, pipe, colon", name))
		}
	}
	if c.Analysis.ExampleValues <= 0 {
		errs = append(errs, "ANALYSIS_EXAMPLE_VALUES must be positive")
	}
	if c.Analysis.SampleRows < 0 {
		errs = append(errs, "ANALYSIS_SAMPLE_ROWS must be non-negative")
	}

	if c.Rate.Enabled && c.Rate.RequestsPerMinute <= 0 {
		errs = append(errs, "RATE_LIMIT_REQUESTS_PER_MINUTE must be positive when rate limiting is enabled")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a compact representation of the config for logging.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	fmt.Fprintf(&b, "Server: {Host: %q, Port: %d}, ", c.Server.Host, c.Server.Port)
	fmt.Fprintf(&b, "Upload: {MaxRequestSize: %d, MaxConcurrent: %d}, ",
		c.Upload.MaxRequestSize, c.Upload.MaxConcurrent)
	fmt.Fprintf(&b, "Analysis: {ProbeRows: %d, Delimiters: %v, ExampleValues: %d, SampleRows: %d}, ",
		c.Analysis.ProbeRows, c.Analysis.Delimiters, c.Analysis.ExampleValues, c.Analysis.SampleRows)
	fmt.Fprintf(&b, "Rate: {Enabled: %v, RequestsPerMinute: %d}, ",
		c.Rate.Enabled, c.Rate.RequestsPerMinute)
	fmt.Fprintf(&b, "Logging: {Level: %q, Format: %q, File: %q}",
		c.Logging.Level, c.Logging.Format, c.Logging.File)
	b.WriteString("}")
	return b.String()
}
