package envs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGets_Defaults(t *testing.T) {
	envs, err := Gets()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", envs.RedikvHost)
	assert.Equal(t, "6379", envs.RedikvPort)
	assert.Equal(t, 1, envs.StoreShards)
	assert.Equal(t, time.Duration(0), envs.DataExpirationInterval)
	assert.Equal(t, 1024, envs.ReadBufferSize)
	assert.Equal(t, 5*time.Minute, envs.IdleTimeout)
	assert.True(t, envs.CloseOnError)
	assert.Equal(t, "info", envs.LogLevel)
	assert.Empty(t, envs.MetricsAddr)
	assert.Equal(t, "127.0.0.1:6379", envs.Address())
}

func TestGets_FromEnvironment(t *testing.T) {
	t.Setenv("REDIKV_PORT", "7000")
	t.Setenv("STORE_SHARDS", "16")
	t.Setenv("DATA_EXPIRATION_INTERVAL", "250ms")
	t.Setenv("CLOSE_ON_ERROR", "false")

	envs, err := Gets()
	require.NoError(t, err)

	assert.Equal(t, "7000", envs.RedikvPort)
	assert.Equal(t, 16, envs.StoreShards)
	assert.Equal(t, 250*time.Millisecond, envs.DataExpirationInterval)
	assert.False(t, envs.CloseOnError)
}

func TestGets_InvalidValue(t *testing.T) {
	t.Setenv("STORE_SHARDS", "many")

	_, err := Gets()
	assert.Error(t, err)
}

func TestLoadEnv_ReadsDotenvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("REDIKV_HOST=0.0.0.0\nLOG_LEVEL=debug\n"), 0o644))

	// registered so the variables are restored after the test
	t.Setenv("REDIKV_HOST", "")
	t.Setenv("LOG_LEVEL", "")
	os.Unsetenv("REDIKV_HOST")
	os.Unsetenv("LOG_LEVEL")

	require.NoError(t, LoadEnv(path))

	envs, err := Gets()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", envs.RedikvHost)
	assert.Equal(t, "debug", envs.LogLevel)
}

func TestLoadEnv_KeepsExistingVariables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("REDIKV_PORT=1111\n"), 0o644))
	t.Setenv("REDIKV_PORT", "2222")

	require.NoError(t, LoadEnv(path))

	envs, err := Gets()
	require.NoError(t, err)
	assert.Equal(t, "2222", envs.RedikvPort)
}

func TestLoadEnv_MissingFileIsSkipped(t *testing.T) {
	assert.NoError(t, LoadEnv(filepath.Join(t.TempDir(), "absent.env")))
}
