package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/pokt-ops/supplierkit/pkg/accounts"
	"github.com/pokt-ops/supplierkit/pkg/common"
	"github.com/pokt-ops/supplierkit/pkg/common/iface"
	"github.com/urfave/cli/v2"
)

const (
	flagCount  = "count"
	flagPrefix = "prefix"
	flagOut    = "out"
	flagForce  = "force"
	flagAmount = "amount"
)

// AccountsCommand returns the accounts command group.
func AccountsCommand() *cli.Command {
	return &cli.Command{
		Name:  "accounts",
		Usage: "Create, import and fund supplier operator accounts",
		Subcommands: []*cli.Command{
			AccountsCreateCommand(),
			AccountsImportCommand(),
			AccountsFundCommand(),
		},
	}
}

func AccountsCreateCommand() *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "Create operator keys and write them to an accounts CSV",
		Flags: common.WithFlags([]cli.Flag{
			&cli.IntFlag{Name: flagCount, Usage: "Number of accounts to create", Required: true},
			&cli.StringFlag{Name: flagPrefix, Usage: "Key name prefix, keys are named <prefix>_<n>", Required: true},
			&cli.StringFlag{Name: flagOut, Aliases: []string{"o"}, Usage: "Accounts CSV to write", Required: true},
			&cli.BoolFlag{Name: flagForce, Usage: "Overwrite an existing accounts file"},
		}, common.GlobalFlags(), common.PocketdFlags()),
		Action: accountsCreateAction,
	}
}

func accountsCreateAction(cCtx *cli.Context) error {
	log := common.LoggerFromContext(cCtx.Context)

	cfg, err := common.LoadConfig(cCtx, false)
	if err != nil {
		return configError(err)
	}
	out := common.ExpandHome(cCtx.String(flagOut))
	if common.FileExists(out) && !cCtx.Bool(flagForce) {
		return configError(fmt.Errorf("%s already exists, use --%s to overwrite", out, flagForce))
	}
	client := newClient(cfg)
	if cfg.DryRun {
		for i := 1; i <= cCtx.Int(flagCount); i++ {
			inv := client.AddKeyInvocation(accounts.KeyName(cCtx.String(flagPrefix), i))
			log.InfoWithActor(iface.ActorOperator, "[dry-run] %s", client.CommandLine(inv))
		}
		return nil
	}

	m := accounts.NewManager(client, cfg, log, newPacer(cfg))
	created, createErr := m.Create(cCtx.Context, cCtx.String(flagPrefix), cCtx.Int(flagCount))
	if len(created) > 0 {
		if err := writeAccounts(out, created); err != nil {
			return configError(err)
		}
		log.InfoWithActor(iface.ActorSystem, "wrote %d accounts to %s", len(created), out)
	}
	recordCounts(cCtx.Context, cCtx.Command.Name, map[string]int{
		string(accounts.StatusDone):   len(created),
		string(accounts.StatusFailed): cCtx.Int(flagCount) - len(created),
	})
	if createErr != nil {
		return cli.Exit(createErr.Error(), 1)
	}
	return nil
}

func writeAccounts(path string, list []accounts.Account) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("create accounts file: %w", err)
	}
	if err := accounts.Write(f, list); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func readAccounts(path string) ([]accounts.Account, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open accounts file: %w", err)
	}
	defer f.Close()
	list, err := accounts.Read(f)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, errors.New(path + " has no accounts")
	}
	return list, nil
}

func AccountsImportCommand() *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Recover every account of an accounts CSV into the keyring",
		Flags: common.WithFlags([]cli.Flag{
			&cli.StringFlag{Name: flagFile, Aliases: []string{"f"}, Usage: "Accounts CSV", Required: true},
		}, common.GlobalFlags(), common.PocketdFlags()),
		Action: accountsImportAction,
	}
}

func accountsImportAction(cCtx *cli.Context) error {
	log := common.LoggerFromContext(cCtx.Context)

	cfg, err := common.LoadConfig(cCtx, false)
	if err != nil {
		return configError(err)
	}
	list, err := readAccounts(common.ExpandHome(cCtx.String(flagFile)))
	if err != nil {
		return configError(err)
	}

	report := accounts.NewManager(newClient(cfg), cfg, log, newPacer(cfg)).Import(cCtx.Context, list)
	report.Render(cCtx.App.Writer)
	recordReport(cCtx, report)
	return failureExit("accounts", report.Count(accounts.StatusFailed), len(report.Rows), report.Interrupted, report.Err())
}

func AccountsFundCommand() *cli.Command {
	return &cli.Command{
		Name:  "fund",
		Usage: "Send upokt from each account's owner to its operator",
		Flags: common.WithFlags([]cli.Flag{
			&cli.StringFlag{Name: flagFile, Aliases: []string{"f"}, Usage: "Accounts CSV", Required: true},
			&cli.Uint64Flag{Name: flagAmount, Usage: "Amount in " + common.Denom + " sent to each operator", Required: true},
		}, common.GlobalFlags(), common.PocketdFlags()),
		Action: accountsFundAction,
	}
}

func accountsFundAction(cCtx *cli.Context) error {
	log := common.LoggerFromContext(cCtx.Context)

	cfg, err := common.LoadConfig(cCtx, true)
	if err != nil {
		return configError(err)
	}
	list, err := readAccounts(common.ExpandHome(cCtx.String(flagFile)))
	if err != nil {
		return configError(err)
	}

	report, err := accounts.NewManager(newClient(cfg), cfg, log, newPacer(cfg)).Fund(cCtx.Context, list, cCtx.Uint64(flagAmount))
	if err != nil {
		return configError(err)
	}
	report.Render(cCtx.App.Writer)
	recordReport(cCtx, report)
	return failureExit("transfers", report.Count(accounts.StatusFailed), len(report.Rows), report.Interrupted, report.Err())
}

func recordReport(cCtx *cli.Context, r *accounts.Report) {
	counts := map[string]int{}
	for _, status := range []accounts.Status{accounts.StatusDone, accounts.StatusDryRun, accounts.StatusSkipped, accounts.StatusFailed} {
		counts[string(status)] = r.Count(status)
	}
	recordCounts(cCtx.Context, cCtx.Command.Name, counts)
}
