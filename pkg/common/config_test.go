package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

// clearEnv unsets the env vars bound to flags so the host environment cannot leak into tests.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"NETWORK", "SUPPLIERKIT_NETWORK", "SUPPLIERKIT_FEES", "POCKETD_HOME",
		"SUPPLIERKIT_TMP_DIR", "POCKETD_BIN", "SUPPLIERKIT_CONFIG", "SUPPLIERKIT_METRICS_FILE"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

// chdir switches into dir for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(oldWd); err != nil {
			t.Logf("Failed to revert working directory: %v", err)
		}
	})
}

func loadWithArgs(t *testing.T, requireNetwork bool, args ...string) (Config, error) {
	t.Helper()
	var (
		cfg     Config
		loadErr error
	)
	app := &cli.App{
		Name: "test",
		Commands: []*cli.Command{{
			Name:  "cmd",
			Flags: WithFlags(nil, GlobalFlags(), PocketdFlags()),
			Action: func(cCtx *cli.Context) error {
				cfg, loadErr = LoadConfig(cCtx, requireNetwork)
				return nil
			},
		}},
	}
	require.NoError(t, app.Run(append([]string{"test", "cmd"}, args...)))
	return cfg, loadErr
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	cfg, err := loadWithArgs(t, false)
	require.NoError(t, err)
	assert.Equal(t, DefaultBinary, cfg.Binary)
	assert.Equal(t, DefaultFees, cfg.Fees)
	assert.Equal(t, DefaultTxDelay, cfg.Delay)
	assert.True(t, cfg.Unordered)
	assert.False(t, cfg.DryRun)
	assert.Empty(t, cfg.Network.Name)
}

func TestLoadConfig_NetworkRequired(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	_, err := loadWithArgs(t, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--network is required")

	_, err = loadWithArgs(t, true, "--network", "devnet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown network")
}

func TestLoadConfig_Flags(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	cfg, err := loadWithArgs(t, true,
		"--network", "main",
		"--fees", "1000upokt",
		"--home", "/srv/pocket",
		"--tmp-dir", "/srv/tmp",
		"--delay", "5s",
		"--dry-run",
	)
	require.NoError(t, err)
	assert.Equal(t, "pocket", cfg.Network.ChainID)
	assert.Equal(t, "1000upokt", cfg.Fees)
	assert.Equal(t, "/srv/pocket", cfg.Home)
	assert.Equal(t, "/srv/tmp", cfg.TempDir)
	assert.Equal(t, 5*time.Second, cfg.Delay)
	assert.True(t, cfg.DryRun)
}

func TestLoadConfig_EnvNetwork(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())
	t.Setenv("NETWORK", "beta")

	cfg, err := loadWithArgs(t, true)
	require.NoError(t, err)
	assert.Equal(t, "pocket-beta", cfg.Network.ChainID)
}

func TestLoadConfig_FileAndPrecedence(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	chdir(t, dir)

	toml := `
network = "beta"
fees = "5upokt"
keyring_backend = "file"
delay = "250ms"
unordered = false

[networks.beta]
node = "http://127.0.0.1:26657"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte(toml), 0644))

	cfg, err := loadWithArgs(t, true)
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:26657", cfg.Network.Node)
	assert.Equal(t, "pocket-beta", cfg.Network.ChainID)
	assert.Equal(t, "5upokt", cfg.Fees)
	assert.Equal(t, "file", cfg.KeyringBackend)
	assert.Equal(t, 250*time.Millisecond, cfg.Delay)
	assert.False(t, cfg.Unordered)

	// flags win over the file
	cfg, err = loadWithArgs(t, true, "--fees", "7upokt", "--network", "main")
	require.NoError(t, err)
	assert.Equal(t, "7upokt", cfg.Fees)
	assert.Equal(t, "pocket", cfg.Network.ChainID)
}

func TestLoadConfig_ExplicitFileErrors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	chdir(t, dir)

	_, err := loadWithArgs(t, false, "--config", filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("fess = \"1upokt\"\n"), 0644))
	_, err = loadWithArgs(t, false, "--config", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown key")
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate(false))

	bad := cfg
	bad.Fees = "1pokt"
	assert.Error(t, bad.Validate(false))

	bad = cfg
	bad.Binary = ""
	assert.Error(t, bad.Validate(false))

	bad = cfg
	bad.Delay = -time.Second
	assert.Error(t, bad.Validate(false))
}
