package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Royalwole/sesame-sub001/pkg/config"
)

type serverConfig struct {
	Host string `env:"LOADER_TEST_HOST" envDefault:"localhost"`
	Port int    `env:"LOADER_TEST_PORT" envDefault:"8080"`
}

type cachedConfig struct {
	Value string `env:"LOADER_TEST_CACHED" envDefault:"original"`
}

func TestLoadDefaults(t *testing.T) {
	var cfg serverConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LOADER_TEST_PORT", "9090")

	type envConfig struct {
		Port int `env:"LOADER_TEST_PORT" envDefault:"8080"`
	}
	var cfg envConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, 9090, cfg.Port)
}

func TestLoadCachesPerType(t *testing.T) {
	var first cachedConfig
	require.NoError(t, config.Load(&first))
	assert.Equal(t, "original", first.Value)

	// A later env change is invisible: the first parse wins for the process.
	t.Setenv("LOADER_TEST_CACHED", "changed")
	var second cachedConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, "original", second.Value)
}

func TestLoadNilPointer(t *testing.T) {
	err := config.Load[serverConfig](nil)
	require.ErrorIs(t, err, config.ErrNilPointer)
}

func TestMustLoadPanicsOnError(t *testing.T) {
	type brokenConfig struct {
		Port int `env:"LOADER_TEST_BROKEN_PORT"`
	}
	t.Setenv("LOADER_TEST_BROKEN_PORT", "not-a-number")

	assert.Panics(t, func() {
		var cfg brokenConfig
		config.MustLoad(&cfg)
	})
}
