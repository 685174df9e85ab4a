package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trucmai204/tinverse/pkg/config"
)

func newTestConfig(t *testing.T) *config.Config {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "conf.ini"))
	require.NoError(t, err)
	return cfg
}

func TestNewRedisClient_NotConfigured(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Set(config.KeyRedisAddr, "")
	assert.Nil(t, NewRedisClient(context.Background(), cfg))
}

func TestNewRedisClient_Connects(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := newTestConfig(t)
	cfg.Set(config.KeyRedisAddr, mr.Addr())

	client := NewRedisClient(context.Background(), cfg)
	require.NotNil(t, client)
	t.Cleanup(func() { _ = client.Close() })
	assert.NoError(t, client.Ping(context.Background()).Err())
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := newTestConfig(t)
	cfg.Set(config.KeyRedisAddr, addr)
	assert.Nil(t, NewRedisClient(context.Background(), cfg))
}
