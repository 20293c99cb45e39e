// Package config loads runtime configuration for the fintrack client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -config.
//  3. Environment variables (FINTRACK_*).
//  4. Command-line flags, which override everything above.
//
// Supported flags
//
//	-api string       Finance Tracker API base URL
//	-data-dir string  directory holding state.db and fintrack.log
//	-timeout duration per-request HTTP timeout (0 disables)
//	-log-level string debug|info|warn|error
//
// # JSON schema
//
//	{
//	  "api_url": "http://localhost:5000/api",
//	  "data_dir": "/home/me/.fintrack",
//	  "http_timeout": "30s",
//	  "log": {"level": "info", "format": "text"}
//	}
package config
