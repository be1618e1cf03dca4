package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfigFile(t, `
port: 9090
database_url: "host=localhost dbname=lastro sslmode=disable"
owner_address: "owner-test"
share_supply: 5000
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "owner-test", cfg.OwnerAddress)
	assert.Equal(t, uint64(5000), cfg.ShareSupply)
	assert.Empty(t, cfg.SolanaRPCURL)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfigFile(t, `
database_url: "host=localhost dbname=lastro sslmode=disable"
owner_address: "owner-test"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, uint64(1000), cfg.ShareSupply)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `
database_url: "host=arquivo dbname=lastro"
owner_address: "owner-arquivo"
`)

	t.Setenv("DATABASE_URL", "host=env dbname=lastro")
	t.Setenv("OWNER_ADDRESS", "owner-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "host=env dbname=lastro", cfg.DatabaseURL)
	assert.Equal(t, "owner-env", cfg.OwnerAddress)
}

func TestLoad_RequiredFields(t *testing.T) {
	path := writeConfigFile(t, `
port: 8080
`)

	t.Setenv("DATABASE_URL", "")
	t.Setenv("OWNER_ADDRESS", "")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nao-existe.yaml"))
	assert.Error(t, err)
}
