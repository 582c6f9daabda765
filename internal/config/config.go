// Package config loads the tsiemene.toml manifest: board/renderings
// search paths, the control-plane listen address, log level, and sqlite
// DSN (§A.1). Grounded on the teacher's internal/tqw world-data loader
// (github.com/BurntSushi/toml, a ReadFile-then-Unmarshal shape wrapped in
// a package-specific error type), scaled down from tqw's recursive
// multi-file manifest graph to the single flat manifest this program
// needs.
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/cuwacunu/tsiemene/internal/errs"
)

// Config is the decoded tsiemene.toml manifest.
type Config struct {
	// BoardPaths lists directories searched, in order, for `*.board` files.
	BoardPaths []string `toml:"board_paths"`

	// RenderingsPaths lists directories searched, in order, for
	// `*.renderings` files.
	RenderingsPaths []string `toml:"renderings_paths"`

	// ListenAddr is the control-plane HTTP listen address, e.g. ":8080".
	ListenAddr string `toml:"listen_addr"`

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `toml:"log_level"`

	// SqliteDSN is the data source name for server/dao/sqlite.
	SqliteDSN string `toml:"sqlite_dsn"`
}

// defaults mirror the teacher's own `server/config.go` fallback pattern:
// a zero-value Config is usable, not an error state.
func defaults() Config {
	return Config{
		ListenAddr: ":8080",
		LogLevel:   "info",
		SqliteDSN:  "tsiemene.db",
	}
}

// Load reads and decodes path as a tsiemene.toml manifest, layering its
// values over sane defaults. A missing or malformed file is reported as a
// *errs.ConfigError so cmd/ callers can print a clean diagnostic and exit
// non-zero per §6 Exit codes.
func Load(path string) (Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, &errs.ConfigError{Source: path, Cause: err}
	}

	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return cfg, &errs.ConfigError{Source: path, Cause: err}
	}

	return cfg, nil
}
