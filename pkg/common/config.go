package common

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/urfave/cli/v2"
)

// FileConfig is the optional supplierkit.toml. Every field is optional and only
// non-empty values replace the built-in defaults.
type FileConfig struct {
	Pocketd        string             `toml:"pocketd"`
	Network        string             `toml:"network"`
	Fees           string             `toml:"fees"`
	Home           string             `toml:"home"`
	TmpDir         string             `toml:"tmp_dir"`
	KeyringBackend string             `toml:"keyring_backend"`
	Delay          string             `toml:"delay"`
	TxTimeout      string             `toml:"tx_timeout"`
	Unordered      *bool              `toml:"unordered"`
	Networks       map[string]Network `toml:"networks"`
}

// LoadFileConfig decodes a TOML config file and rejects unknown keys.
func LoadFileConfig(path string) (*FileConfig, error) {
	var fc FileConfig
	md, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}
	return &fc, nil
}

// Config is the resolved, immutable run configuration shared by every command.
// It is built once per invocation and passed by value.
type Config struct {
	Binary         string
	Network        Network
	Fees           string
	Home           string
	TempDir        string
	KeyringBackend string
	Delay          time.Duration
	TxTimeout      time.Duration
	Unordered      bool
	DryRun         bool
}

func DefaultConfig() Config {
	return Config{
		Binary:         DefaultBinary,
		Fees:           DefaultFees,
		TempDir:        os.TempDir(),
		KeyringBackend: DefaultKeyringBackend,
		Delay:          DefaultTxDelay,
		TxTimeout:      DefaultTxTimeout,
		Unordered:      true,
	}
}

var feesPattern = regexp.MustCompile(`^[0-9]+` + Denom + `$`)

// Validate checks the invariants every component relies on.
func (c Config) Validate(requireNetwork bool) error {
	if c.Binary == "" {
		return errors.New("pocketd binary path is empty")
	}
	if requireNetwork && c.Network.Name == "" {
		return fmt.Errorf("--%s is required (one of %v)", FlagNetwork, NetworkNames())
	}
	if !feesPattern.MatchString(c.Fees) {
		return fmt.Errorf("invalid fees %q: expected <amount>%s", c.Fees, Denom)
	}
	if c.KeyringBackend == "" {
		return errors.New("keyring backend is empty")
	}
	if c.Delay < 0 {
		return fmt.Errorf("delay must not be negative, got %s", c.Delay)
	}
	if c.TempDir == "" {
		return errors.New("temp dir is empty")
	}
	return nil
}

func (c Config) withFile(fc *FileConfig) (Config, error) {
	if fc.Pocketd != "" {
		c.Binary = ExpandHome(fc.Pocketd)
	}
	if fc.Fees != "" {
		c.Fees = fc.Fees
	}
	if fc.Home != "" {
		c.Home = ExpandHome(fc.Home)
	}
	if fc.TmpDir != "" {
		c.TempDir = ExpandHome(fc.TmpDir)
	}
	if fc.KeyringBackend != "" {
		c.KeyringBackend = fc.KeyringBackend
	}
	if fc.Delay != "" {
		d, err := time.ParseDuration(fc.Delay)
		if err != nil {
			return c, fmt.Errorf("parse delay: %w", err)
		}
		c.Delay = d
	}
	if fc.TxTimeout != "" {
		d, err := time.ParseDuration(fc.TxTimeout)
		if err != nil {
			return c, fmt.Errorf("parse tx_timeout: %w", err)
		}
		c.TxTimeout = d
	}
	if fc.Unordered != nil {
		c.Unordered = *fc.Unordered
	}
	return c, nil
}

// LoadConfig resolves the run configuration with precedence
// flags (and their env vars) > config file > defaults.
func LoadConfig(cCtx *cli.Context, requireNetwork bool) (Config, error) {
	cfg := DefaultConfig()

	path := cCtx.String(FlagConfig)
	explicit := cCtx.IsSet(FlagConfig)
	if path == "" {
		path = DefaultConfigFile
	}

	fc, err := LoadFileConfig(path)
	switch {
	case err == nil:
		if cfg, err = cfg.withFile(fc); err != nil {
			return cfg, err
		}
	case !explicit && errors.Is(err, fs.ErrNotExist):
		fc = &FileConfig{}
	default:
		return cfg, err
	}

	networkName := fc.Network
	if cCtx.IsSet(FlagNetwork) {
		networkName = cCtx.String(FlagNetwork)
	}
	if networkName != "" {
		n, err := LookupNetwork(networkName, fc.Networks)
		if err != nil {
			return cfg, err
		}
		cfg.Network = n
	}

	if cCtx.IsSet(FlagPocketd) {
		cfg.Binary = ExpandHome(cCtx.String(FlagPocketd))
	}
	if cCtx.IsSet(FlagFees) {
		cfg.Fees = cCtx.String(FlagFees)
	}
	if cCtx.IsSet(FlagHome) {
		cfg.Home = ExpandHome(cCtx.String(FlagHome))
	}
	if cCtx.IsSet(FlagTmpDir) {
		cfg.TempDir = ExpandHome(cCtx.String(FlagTmpDir))
	}
	if cCtx.IsSet(FlagKeyringBackend) {
		cfg.KeyringBackend = cCtx.String(FlagKeyringBackend)
	}
	if cCtx.IsSet(FlagDelay) {
		cfg.Delay = cCtx.Duration(FlagDelay)
	}
	cfg.DryRun = cCtx.Bool(FlagDryRun)

	return cfg, cfg.Validate(requireNetwork)
}

// File returns c in config file form, e.g. to write a starting supplierkit.toml.
func (c Config) File() FileConfig {
	unordered := c.Unordered
	fc := FileConfig{
		Pocketd:        c.Binary,
		Network:        c.Network.Name,
		Fees:           c.Fees,
		Home:           c.Home,
		TmpDir:         c.TempDir,
		KeyringBackend: c.KeyringBackend,
		Delay:          c.Delay.String(),
		TxTimeout:      c.TxTimeout.String(),
		Unordered:      &unordered,
	}
	if c.Network.Name != "" {
		fc.Networks = map[string]Network{c.Network.Name: c.Network}
	}
	return fc
}
