package common

import "github.com/urfave/cli/v2"

const (
	FlagVerbose        = "verbose"
	FlagConfig         = "config"
	FlagLogFormat      = "log-format"
	FlagMetricsFile    = "metrics-file"
	FlagNetwork        = "network"
	FlagFees           = "fees"
	FlagHome           = "home"
	FlagTmpDir         = "tmp-dir"
	FlagKeyringBackend = "keyring-backend"
	FlagPocketd        = "pocketd"
	FlagDelay          = "delay"
	FlagDryRun         = "dry-run"
)

// GlobalFlags are accepted by the app and by every command. Each call returns
// fresh flag values since urfave/cli records env lookups on the flag itself.
func GlobalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    FlagVerbose,
			Aliases: []string{"v"},
			Usage:   "Enable verbose logging",
		},
		&cli.StringFlag{
			Name:    FlagConfig,
			Usage:   "Path to a supplierkit.toml config file",
			EnvVars: []string{"SUPPLIERKIT_CONFIG"},
		},
		&cli.StringFlag{
			Name:  FlagLogFormat,
			Usage: "Log output format (text|json)",
			Value: "text",
		},
		&cli.StringFlag{
			Name:    FlagMetricsFile,
			Usage:   "Write run metrics to this file in Prometheus text format",
			EnvVars: []string{"SUPPLIERKIT_METRICS_FILE"},
		},
	}
}

// PocketdFlags configure how pocketd is invoked.
func PocketdFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    FlagNetwork,
			Aliases: []string{"n"},
			Usage:   "Target network (main|beta)",
			EnvVars: []string{"NETWORK", "SUPPLIERKIT_NETWORK"},
		},
		&cli.StringFlag{
			Name:    FlagFees,
			Usage:   "Transaction fee, e.g. " + DefaultFees,
			EnvVars: []string{"SUPPLIERKIT_FEES"},
		},
		&cli.StringFlag{
			Name:    FlagHome,
			Usage:   "pocketd home directory holding the keyring",
			EnvVars: []string{"POCKETD_HOME"},
		},
		&cli.StringFlag{
			Name:    FlagTmpDir,
			Usage:   "Directory rendered supplier configs are written to",
			EnvVars: []string{"SUPPLIERKIT_TMP_DIR"},
		},
		&cli.StringFlag{
			Name:  FlagKeyringBackend,
			Usage: "Keyring backend passed to pocketd",
		},
		&cli.StringFlag{
			Name:    FlagPocketd,
			Usage:   "Path to the pocketd binary",
			EnvVars: []string{"POCKETD_BIN"},
		},
		&cli.DurationFlag{
			Name:  FlagDelay,
			Usage: "Pause between submitted transactions",
		},
		&cli.BoolFlag{
			Name:  FlagDryRun,
			Usage: "Print commands and rendered configs without submitting anything",
		},
	}
}

// WithFlags appends the shared flag sets to a command's own flags.
func WithFlags(own []cli.Flag, sets ...[]cli.Flag) []cli.Flag {
	out := append([]cli.Flag{}, own...)
	for _, s := range sets {
		out = append(out, s...)
	}
	return out
}
