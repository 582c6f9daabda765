package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cuwacunu/tsiemene/internal/errs"
)

func Test_Load_decodesManifestOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tsiemene.toml")
	content := `
board_paths = ["./boards"]
renderings_paths = ["./renderings"]
listen_addr = ":9090"
log_level = "debug"
`
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, []string{"./boards"}, cfg.BoardPaths)
	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "tsiemene.db", cfg.SqliteDSN) // default preserved
}

func Test_Load_missingFileReturnsConfigError(t *testing.T) {
	_, err := Load("/nonexistent/tsiemene.toml")
	var cfgErr *errs.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}
