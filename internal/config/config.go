package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds runtime settings for the fintrack client.
type Config struct {
	APIURL      string
	DataDir     string
	HTTPTimeout time.Duration
	Log         LogConfig
}

// LogConfig controls structured logging settings.
type LogConfig struct {
	Level  string
	Format string // text|json
}

const (
	defaultAPIURL      = "http://localhost:5000/api"
	defaultHTTPTimeout = 30 * time.Second
	defaultLogLevel    = "info"
	defaultLogFormat   = "text"
)

// StatePath is the SQLite file holding the persisted session.
func (c *Config) StatePath() string {
	return filepath.Join(c.DataDir, "state.db")
}

// LogPath is the file the TUI logs to.
func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, "fintrack.log")
}

// LoadDefaults populates c with defaults. DataDir falls back to the working
// directory when the home directory cannot be resolved.
func (c *Config) LoadDefaults() {
	c.APIURL = defaultAPIURL
	c.HTTPTimeout = defaultHTTPTimeout
	c.Log = LogConfig{Level: defaultLogLevel, Format: defaultLogFormat}
	c.DataDir = ".fintrack"
	if home, err := os.UserHomeDir(); err == nil {
		c.DataDir = filepath.Join(home, ".fintrack")
	}
}

// Load builds a Config from defaults, an optional JSON file, the environment
// and the given command-line arguments, in increasing precedence. It returns
// the positional arguments left after flag parsing.
func Load(args []string) (*Config, []string, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	fs := flag.NewFlagSet("fintrack", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a JSON config file")
	apiURL := fs.String("api", "", "Finance Tracker API base URL")
	dataDir := fs.String("data-dir", "", "directory for local state and logs")
	timeout := fs.Duration("timeout", -1, "per-request HTTP timeout (0 disables)")
	logLevel := fs.String("log-level", "", "log level: debug|info|warn|error")
	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("config.Load: %w", err)
	}

	if *configPath != "" {
		if err := parseJSON(cfg, *configPath); err != nil {
			return nil, nil, fmt.Errorf("config.Load: %w", err)
		}
	}
	if err := parseEnv(cfg); err != nil {
		return nil, nil, fmt.Errorf("config.Load: %w", err)
	}

	if *apiURL != "" {
		cfg.APIURL = *apiURL
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *timeout >= 0 {
		cfg.HTTPTimeout = *timeout
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	return cfg, fs.Args(), nil
}

// duration accepts either a Go duration string ("30s") or integer nanoseconds.
type duration time.Duration

func (d *duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		v, err := time.ParseDuration(s)
		if err != nil {
			return err
		}
		*d = duration(v)
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.New("duration must be a string or integer nanoseconds")
	}
	*d = duration(n)
	return nil
}

type fileConfig struct {
	APIURL      string    `json:"api_url"`
	DataDir     string    `json:"data_dir"`
	HTTPTimeout *duration `json:"http_timeout"`
	Log         struct {
		Level  string `json:"level"`
		Format string `json:"format"`
	} `json:"log"`
}

func parseJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	if fc.APIURL != "" {
		cfg.APIURL = fc.APIURL
	}
	if fc.DataDir != "" {
		cfg.DataDir = fc.DataDir
	}
	if fc.HTTPTimeout != nil {
		cfg.HTTPTimeout = time.Duration(*fc.HTTPTimeout)
	}
	if fc.Log.Level != "" {
		cfg.Log.Level = fc.Log.Level
	}
	if fc.Log.Format != "" {
		cfg.Log.Format = fc.Log.Format
	}
	return nil
}

func parseEnv(cfg *Config) error {
	cfg.APIURL = valueOrDefault("FINTRACK_API_URL", cfg.APIURL)
	cfg.DataDir = valueOrDefault("FINTRACK_DATA_DIR", cfg.DataDir)
	cfg.Log.Level = valueOrDefault("FINTRACK_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = valueOrDefault("FINTRACK_LOG_FORMAT", cfg.Log.Format)
	if v := os.Getenv("FINTRACK_HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("FINTRACK_HTTP_TIMEOUT: %w", err)
		}
		cfg.HTTPTimeout = d
	}
	return nil
}

func valueOrDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
