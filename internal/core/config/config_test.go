package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestReadAppliesDefaults(t *testing.T) {
	p := writeYAML(t, "app:\n  name: uc-test\n")

	c, err := Read(p)
	require.NoError(t, err)
	assert.Equal(t, "uc-test", c.App.Name)
	assert.Equal(t, "sqlite", c.DB.Driver)
	assert.Equal(t, "memory", c.Cache.Driver)
	assert.Equal(t, 100, c.Pagination.MaxLimit)
	assert.Equal(t, 20, c.Pagination.DefaultLimit)
	assert.Equal(t, 8080, c.App.HTTP.Port)
}

func TestReadEnvOverride(t *testing.T) {
	p := writeYAML(t, "db:\n  driver: postgres\n  dsn: host=localhost\n")
	t.Setenv("APP_DB_DRIVER", "mysql")

	c, err := Read(p)
	require.NoError(t, err)
	assert.Equal(t, "mysql", c.DB.Driver)
	assert.Equal(t, "host=localhost", c.DB.DSN)
}

func TestReadClampsDefaultLimit(t *testing.T) {
	p := writeYAML(t, "pagination:\n  maxLimit: 10\n  defaultLimit: 50\n")

	c, err := Read(p)
	require.NoError(t, err)
	assert.Equal(t, 10, c.Pagination.MaxLimit)
	assert.Equal(t, 10, c.Pagination.DefaultLimit)
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
