package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aria/internal/config"
)

// clearEnv blanks variables a developer shell may carry so defaults are observable.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "ARIA_SERVER_PORT", "GEMINI_API_KEY", "PINATA_API_KEY", "PINATA_SECRET_API_KEY",
		"ARIA_EXTRACTOR_PRIMARY_PROVIDER", "ARIA_EXTRACTOR_PRIMARY_API_KEY", "ARIA_EXTRACTOR_SECONDARY_PROVIDER", "ARIA_EXTRACTOR_TERTIARY_PROVIDER",
		"ARIA_PUBLISHER_PINATA_API_KEY", "ARIA_PUBLISHER_PINATA_SECRET_KEY", "ARIA_MINT_ARGS", "ARIA_MINT_ENV",
		"ARIA_CORS_ALLOWED_ORIGINS", "ARIA_PUBLISHER_PROVIDER",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":5001", cfg.Server.Port)
	assert.Equal(t, int64(20), cfg.Server.MaxUploadMB)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)

	chain := cfg.Extractor.Chain()
	require.Len(t, chain, 1)
	assert.Equal(t, "gemini", chain[0].Provider)
	assert.Equal(t, "gemini-2.5-pro", chain[0].DefaultModel)

	assert.Equal(t, "pinata", cfg.Publisher.Provider)
	assert.Equal(t, "https://gateway.pinata.cloud", cfg.Publisher.Pinata.Gateway)

	assert.Equal(t, "node", cfg.Mint.Command)
	assert.Equal(t, []string{"mint_helper.cjs"}, cfg.Mint.Args)
	assert.Empty(t, cfg.Mint.Env)
	assert.Equal(t, 120*time.Second, cfg.Mint.Timeout)

	assert.Equal(t, "AI Verified RWA: ", cfg.Display.NamePrefix)
	assert.Equal(t, 180*time.Second, cfg.Pipeline.ExtractTimeout)
	assert.False(t, cfg.DB.Enabled)
	assert.Equal(t, "noop", cfg.Notify.Provider)
	assert.Equal(t, "none", cfg.Cache.Provider)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ARIA_EXTRACTOR_SECONDARY_PROVIDER", "claude")
	t.Setenv("ARIA_EXTRACTOR_SECONDARY_API_KEY", "sk-ant")
	t.Setenv("ARIA_MINT_ARGS", "scripts/mint.cjs --network testnet")
	t.Setenv("ARIA_MINT_ENV", "STACKS_NETWORK=testnet, DEBUG=1")
	t.Setenv("ARIA_CORS_ALLOWED_ORIGINS", "http://localhost:5173, https://aria.example")
	t.Setenv("ARIA_PUBLISHER_PINATA_GATEWAY", "https://gw.example/")
	t.Setenv("ARIA_PIPELINE_PUBLISH_TIMEOUT", "5s")

	cfg, err := config.Load()
	require.NoError(t, err)

	chain := cfg.Extractor.Chain()
	require.Len(t, chain, 2)
	assert.Equal(t, "claude", chain[1].Provider)
	assert.Equal(t, "sk-ant", chain[1].APIKey)
	assert.Equal(t, []string{"scripts/mint.cjs", "--network", "testnet"}, cfg.Mint.Args)
	assert.Equal(t, []string{"STACKS_NETWORK=testnet", "DEBUG=1"}, cfg.Mint.Env)
	assert.Equal(t, []string{"http://localhost:5173", "https://aria.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "https://gw.example", cfg.Publisher.Pinata.Gateway)
	assert.Equal(t, 5*time.Second, cfg.Pipeline.PublishTimeout)
}

func TestLoad_LegacyCredentialNames(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("PINATA_API_KEY", "p-key")
	t.Setenv("PINATA_SECRET_API_KEY", "p-secret")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "g-key", cfg.Extractor.Primary.APIKey)
	assert.Equal(t, "p-key", cfg.Publisher.Pinata.APIKey)
	assert.Equal(t, "p-secret", cfg.Publisher.Pinata.SecretKey)
}

func TestLoad_PrefixedCredentialsWin(t *testing.T) {
	clearEnv(t)
	t.Setenv("PINATA_API_KEY", "legacy")
	t.Setenv("ARIA_PUBLISHER_PINATA_API_KEY", "prefixed")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "prefixed", cfg.Publisher.Pinata.APIKey)
}

func TestLoad_PlatformPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
}

func TestDBConfig_DSN(t *testing.T) {
	db := config.DBConfig{User: "u", Password: "p", Host: "h", Port: 5432, Name: "n", SSLMode: "disable"}

	assert.Equal(t, "postgres://u:p@h:5432/n?sslmode=disable", db.DSN())
}
