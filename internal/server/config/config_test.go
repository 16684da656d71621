package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8000", c.EndpointAddrHTTP)
	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Equal(t, "database.db", c.DatabasePath)
	assert.Equal(t, "mysecretkey123", c.SecretKey)
	assert.Equal(t, "HS256", c.SigningAlgorithm)
	assert.Equal(t, 30*time.Minute, c.AccessTokenValidityDuration)
	assert.Empty(t, c.KeywordsFile)
	assert.Empty(t, c.ModelPaths)
	assert.Zero(t, c.PasswordHashCost)
	assert.Empty(t, c.S3Bucket)
	assert.Equal(t, "us-east-1", c.S3Region)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	for _, k := range []string{EnvAddress, EnvDatabasePath, EnvSecretKey, EnvAlgorithm, EnvAccessTokenMinutes, EnvModelPaths} {
		t.Setenv(k, "")
	}
	t.Setenv(EnvGRPCAddress, "")
	require.NoError(t, os.Unsetenv(EnvGRPCAddress))

	c := LoadConfig()
	require.NotNil(t, c, "LoadConfig must not return nil")

	assert.Equal(t, ":8000", c.EndpointAddrHTTP)
	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Equal(t, "database.db", c.DatabasePath)
	assert.Equal(t, 30*time.Minute, c.AccessTokenValidityDuration)
}

func TestLoadConfig_EnvOverridesFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin", "-d", "flag.db", "-s", "flag-secret"}

	t.Setenv(EnvDatabasePath, "env.db")

	c := LoadConfig()

	assert.Equal(t, "env.db", c.DatabasePath, "env wins over flags")
	assert.Equal(t, "flag-secret", c.SecretKey, "flag wins over defaults")
}
