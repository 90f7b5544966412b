package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("TOKEN_DURATION", "")
	t.Setenv("MATCH_PAGE_SIZE", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 72*time.Hour, cfg.TokenDuration)
	assert.Equal(t, 6, cfg.Discovery.MatchPageSize)
	assert.Equal(t, 100, cfg.Discovery.TrendingSampleSize)
	assert.Equal(t, 5, cfg.Discovery.TrendingTopN)
	assert.False(t, cfg.IsProduction())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("TOKEN_DURATION", "30m")
	t.Setenv("TRENDING_TOP_N", "3")
	t.Setenv("API_TIMEOUT", "not-a-duration")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.TokenDuration)
	assert.Equal(t, 3, cfg.Discovery.TrendingTopN)
	assert.Equal(t, 15*time.Second, cfg.APITimeout)
}

func TestLoadYAMLOverlay(t *testing.T) {
	t.Setenv("PORT", "9000")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "7000"
env: production
token_duration: 2h
discovery:
  trending_top_n: 8
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 2*time.Hour, cfg.TokenDuration)
	assert.Equal(t, 8, cfg.Discovery.TrendingTopN)
	// untouched keys keep their environment values
	assert.Equal(t, 6, cfg.Discovery.MatchPageSize)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port:            "8080",
			Env:             "development",
			PostgresConnStr: "host=localhost",
			JWTSecret:       insecureDefaultSecret,
			TokenDuration:   time.Hour,
			APITimeout:      time.Second,
			Discovery:       Discovery{MatchPageSize: 6, TrendingSampleSize: 100, TrendingTopN: 5},
		}
	}
	require.NoError(t, valid().Validate())

	prod := valid()
	prod.Env = "production"
	assert.Error(t, prod.Validate())
	prod.JWTSecret = "a-real-secret"
	assert.NoError(t, prod.Validate())

	noDB := valid()
	noDB.PostgresConnStr = ""
	assert.Error(t, noDB.Validate())

	badSizes := valid()
	badSizes.Discovery.TrendingTopN = 0
	assert.Error(t, badSizes.Validate())
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "warn")
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "v", entry["k"])
}
