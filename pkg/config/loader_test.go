package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/paramguard/pkg/config"
)

type engineConfig struct {
	SchemaFile string   `env:"CFG_TEST_SCHEMA_FILE"`
	Lang       string   `env:"CFG_TEST_LANG" envDefault:"en"`
	Workers    int      `env:"CFG_TEST_WORKERS" envDefault:"4"`
	Strict     bool     `env:"CFG_TEST_STRICT"`
	Groups     []string `env:"CFG_TEST_GROUPS" envSeparator:","`
}

type requiredConfig struct {
	Token string `env:"CFG_TEST_REQUIRED_TOKEN,required"`
}

type badNumberConfig struct {
	Port int `env:"CFG_TEST_BAD_PORT"`
}

// Tests in this file mutate the process environment and the shared cache,
// so they do not run in parallel.

func TestLoad(t *testing.T) {
	config.ResetCache()
	t.Setenv("CFG_TEST_SCHEMA_FILE", "schemas.yaml")
	t.Setenv("CFG_TEST_WORKERS", "8")
	t.Setenv("CFG_TEST_STRICT", "true")
	t.Setenv("CFG_TEST_GROUPS", "create,update")

	var cfg engineConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "schemas.yaml", cfg.SchemaFile)
	assert.Equal(t, "en", cfg.Lang)
	assert.Equal(t, 8, cfg.Workers)
	assert.True(t, cfg.Strict)
	assert.Equal(t, []string{"create", "update"}, cfg.Groups)
}

func TestLoad_Cache(t *testing.T) {
	config.ResetCache()
	t.Setenv("CFG_TEST_LANG", "zh")

	var first engineConfig
	require.NoError(t, config.Load(&first))
	assert.Equal(t, "zh", first.Lang)

	t.Setenv("CFG_TEST_LANG", "de")

	var second engineConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, "zh", second.Lang, "cached value is returned")

	var reloaded engineConfig
	require.NoError(t, config.Reload(&reloaded))
	assert.Equal(t, "de", reloaded.Lang)

	config.ResetCache()
	t.Setenv("CFG_TEST_LANG", "en")
	var fresh engineConfig
	require.NoError(t, config.Load(&fresh))
	assert.Equal(t, "en", fresh.Lang)
}

func TestLoad_Errors(t *testing.T) {
	config.ResetCache()

	t.Run("nil pointer", func(t *testing.T) {
		var cfg *engineConfig
		assert.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
	})

	t.Run("not a struct", func(t *testing.T) {
		var s string
		assert.ErrorIs(t, config.Load(&s), config.ErrInvalidConfigType)
	})

	t.Run("required variable missing", func(t *testing.T) {
		var cfg requiredConfig
		assert.ErrorIs(t, config.Load(&cfg), config.ErrParsingConfig)
	})

	t.Run("failed parse is not cached", func(t *testing.T) {
		t.Setenv("CFG_TEST_BAD_PORT", "eighty")
		var cfg badNumberConfig
		require.ErrorIs(t, config.Load(&cfg), config.ErrParsingConfig)

		t.Setenv("CFG_TEST_BAD_PORT", "80")
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, 80, cfg.Port)
	})

	t.Run("must load panics", func(t *testing.T) {
		os.Unsetenv("CFG_TEST_REQUIRED_TOKEN")
		var cfg requiredConfig
		assert.Panics(t, func() { config.MustLoad(&cfg) })
	})
}

func TestLoadEnv(t *testing.T) {
	config.ResetCache()
	dir := t.TempDir()
	path := filepath.Join(dir, ".env.test")
	content := "CFG_TEST_SCHEMA_FILE=from_file.yaml\nCFG_TEST_LANG=\"zh\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	// registered through t.Setenv so the variables are restored afterwards
	t.Setenv("CFG_TEST_SCHEMA_FILE", "")
	os.Unsetenv("CFG_TEST_SCHEMA_FILE")
	t.Setenv("CFG_TEST_LANG", "en")

	require.NoError(t, config.LoadEnv(path))

	var cfg engineConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "from_file.yaml", cfg.SchemaFile)
	assert.Equal(t, "en", cfg.Lang, "existing variables are not overridden")

	err := config.LoadEnv(filepath.Join(dir, "missing.env"))
	assert.ErrorIs(t, err, config.ErrLoadingEnvFile)
	assert.Panics(t, func() { config.MustLoadEnv(filepath.Join(dir, "missing.env")) })
}
