package bootstrap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trucmai204/tinverse/pkg/config"
	"github.com/trucmai204/tinverse/pkg/idgen"
)

func loadConfig(t *testing.T, dir string) *config.Config {
	t.Helper()
	cfg, err := config.Load(filepath.Join(dir, "conf.ini"))
	require.NoError(t, err)
	return cfg
}

func TestInitializeGeneratesAndPersistsSecrets(t *testing.T) {
	dir := t.TempDir()
	cfg := loadConfig(t, dir)

	require.NoError(t, NewBootstrapper(cfg, dir).Initialize())
	secret := cfg.GetString(config.KeySessionSecret)
	assert.Len(t, secret, secretLength)

	stored, err := os.ReadFile(filepath.Join(dir, sessionKeyFile))
	require.NoError(t, err)
	assert.Equal(t, secret, string(stored))

	seed, err := os.ReadFile(filepath.Join(dir, idSeedFile))
	require.NoError(t, err)
	first, err := idgen.GeneratePublicID(12, idgen.EntityTypeArticle)
	require.NoError(t, err)

	// 第二次启动沿用同一份密钥和种子
	cfg2 := loadConfig(t, dir)
	require.NoError(t, NewBootstrapper(cfg2, dir).Initialize())
	assert.Equal(t, secret, cfg2.GetString(config.KeySessionSecret))

	seed2, err := os.ReadFile(filepath.Join(dir, idSeedFile))
	require.NoError(t, err)
	assert.Equal(t, seed, seed2)

	second, err := idgen.GeneratePublicID(12, idgen.EntityTypeArticle)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestConfiguredSecretIsKept(t *testing.T) {
	dir := t.TempDir()
	cfg := loadConfig(t, dir)
	cfg.Set(config.KeySessionSecret, "from-config")

	require.NoError(t, NewBootstrapper(cfg, dir).Initialize())
	assert.Equal(t, "from-config", cfg.GetString(config.KeySessionSecret))

	_, err := os.Stat(filepath.Join(dir, sessionKeyFile))
	assert.True(t, os.IsNotExist(err))
}
