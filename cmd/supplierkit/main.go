package main

import (
	"context"
	"log"
	"os"

	"github.com/pokt-ops/supplierkit/pkg/commands"
	"github.com/pokt-ops/supplierkit/pkg/common"
	devcontext "github.com/pokt-ops/supplierkit/pkg/context"
	"github.com/pokt-ops/supplierkit/pkg/hooks"

	"github.com/urfave/cli/v2"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// .env has to be in the environment before flags read their EnvVars
	if err := hooks.LoadEnvFile(common.EnvFile); err != nil {
		log.Fatal(err)
	}

	ctx := devcontext.WithShutdown(context.Background())

	cli.VersionFlag = &cli.BoolFlag{Name: "version", Usage: "print the version"}
	app := &cli.App{
		Name:    "supplierkit",
		Usage:   "Stake and top up Pocket Network suppliers in bulk",
		Version: version,
		Commands: []*cli.Command{
			commands.SupplierCommand(),
			commands.AccountsCommand(),
			commands.ConfigCommand(),
		},
		UseShortOptionHandling: true,
	}

	chain := hooks.NewActionChain()
	chain.Use(hooks.WithEnvLoader)
	chain.Use(hooks.WithLogger)
	chain.Use(hooks.WithTelemetry)

	hooks.ApplyMiddleware(app.Commands, chain)

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
