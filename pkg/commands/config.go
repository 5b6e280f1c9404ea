package commands

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/pokt-ops/supplierkit/pkg/common"
	"github.com/pokt-ops/supplierkit/pkg/common/iface"
	"github.com/urfave/cli/v2"
)

// ConfigCommand shows the resolved configuration or writes a starting config file.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Views the resolved configuration or writes a starting " + common.DefaultConfigFile,
		Flags: common.WithFlags([]cli.Flag{
			&cli.BoolFlag{
				Name:  "list",
				Usage: "Display the configuration after flags, env and config file are applied",
			},
			&cli.StringFlag{
				Name:  "init",
				Usage: "Write the resolved configuration to this path",
			},
		}, common.GlobalFlags(), common.PocketdFlags()),
		Action: func(cCtx *cli.Context) error {
			log := common.LoggerFromContext(cCtx.Context)

			cfg, err := common.LoadConfig(cCtx, false)
			if err != nil {
				return configError(err)
			}

			if path := cCtx.String("init"); path != "" {
				path = common.ExpandHome(path)
				if common.FileExists(path) {
					return configError(fmt.Errorf("%s already exists", path))
				}
				f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
				if err != nil {
					return configError(err)
				}
				if err := toml.NewEncoder(f).Encode(cfg.File()); err != nil {
					f.Close()
					return configError(fmt.Errorf("write %s: %w", path, err))
				}
				if err := f.Close(); err != nil {
					return configError(err)
				}
				log.InfoWithActor(iface.ActorConfig, "wrote %s", path)
				return nil
			}

			// list by default
			return toml.NewEncoder(cCtx.App.Writer).Encode(cfg.File())
		},
	}
}
