// Package config provides centralized configuration management for the application.
// Values come from environment variables, an optional YAML config file, and the
// defaults declared on each field. Everything is validated on startup to fail fast
// on misconfiguration.
package config

import (
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Upload   UploadConfig
	Analysis AnalysisConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading the request body (default: 5m).
	// Uploads of large exports need a generous value.
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"5m"`

	// WriteTimeout is the maximum duration for writing the response (default: 5m)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"5m"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 5m)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"5m"`
}

// UploadConfig holds multipart upload settings.
type UploadConfig struct {
	// MaxRequestSize caps the request body in bytes; 0 disables the cap (default: 0)
	MaxRequestSize int64 `env:"UPLOAD_MAX_REQUEST_SIZE" default:"0"`

	// MaxMemory is how much of a multipart form is kept in memory before
	// spilling to temporary files (default: 32MB)
	MaxMemory int64 `env:"UPLOAD_MAX_MEMORY" default:"33554432"`

	// MaxConcurrent is the maximum number of batches analyzed at once (default: 5)
	MaxConcurrent int `env:"UPLOAD_MAX_CONCURRENT" default:"5"`

	// MaxWaitTime is how long a batch waits for a free slot (default: 30s)
	MaxWaitTime time.Duration `env:"UPLOAD_MAX_WAIT_TIME" default:"30s"`
}

// AnalysisConfig holds loader and analyzer tuning.
type AnalysisConfig struct {
	// EncodingSampleBytes is the prefix size fed to charset detection (default: 10000)
	EncodingSampleBytes int `env:"ANALYSIS_ENCODING_SAMPLE_BYTES" default:"10000"`

	// ProbeRows is how many data rows a delimiter probe parses (default: 5)
	ProbeRows int `env:"ANALYSIS_PROBE_ROWS" default:"5"`

	// Delimiters lists the probe candidates in order: comma, semicolon, tab, pipe
	Delimiters []string `env:"ANALYSIS_DELIMITERS" default:"comma,semicolon,tab"`

	// ExampleValues is the per-column example cap (default: 5)
	ExampleValues int `env:"ANALYSIS_EXAMPLE_VALUES" default:"5"`

	// SampleRows is the number of raw rows echoed in a report (default: 3)
	SampleRows int `env:"ANALYSIS_SAMPLE_ROWS" default:"3"`

	// SortExamples sorts example values for stable output (default: false)
	SortExamples bool `env:"ANALYSIS_SORT_EXAMPLES" default:"false"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the limit per client IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// TrustedProxies lists proxy IPs/CIDRs whose X-Real-IP and
	// X-Forwarded-For headers are believed (default: none)
	TrustedProxies []string `env:"SECURITY_TRUSTED_PROXIES"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`

	// File is the append-only log file; "-" logs to the console only
	File string `env:"LOG_FILE" default:"reportmap.log"`
}

// delimiterNames maps config names to delimiter runes.
var delimiterNames = map[string]rune{
	"comma":     ',',
	"semicolon": ';',
	"tab":       '\t',
	"pipe":      '|',
	"colon":     ':',
}

// DelimiterRunes returns the configured probe delimiters in order.
// Unknown names are skipped; Validate reports them.
func (c *AnalysisConfig) DelimiterRunes() []rune {
	out := make([]rune, 0, len(c.Delimiters))
	for _, name := range c.Delimiters {
		if r, ok := delimiterNames[strings.ToLower(name)]; ok {
			out = append(out, r)
		}
	}
	return out
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
