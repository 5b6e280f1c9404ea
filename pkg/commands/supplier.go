package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pokt-ops/supplierkit/pkg/common"
	"github.com/pokt-ops/supplierkit/pkg/common/iface"
	"github.com/pokt-ops/supplierkit/pkg/ledger"
	"github.com/pokt-ops/supplierkit/pkg/supplier"
	"github.com/urfave/cli/v2"
)

const (
	flagFile         = "file"
	flagOwner        = "owner"
	flagLedger       = "ledger"
	flagIgnoreLedger = "ignore-ledger"
	flagDir          = "dir"
	flagSigner       = "signer"
)

// SupplierCommand returns the supplier command group.
func SupplierCommand() *cli.Command {
	return &cli.Command{
		Name:  "supplier",
		Usage: "Stake, top up and inspect Pocket Network suppliers",
		Subcommands: []*cli.Command{
			StakeCommand(),
			SubmitConfigsCommand(),
			LedgerCommand(),
		},
	}
}

func StakeCommand() *cli.Command {
	return &cli.Command{
		Name:  "stake",
		Usage: "Stake new suppliers or top up existing ones from a mapping file",
		Description: "Each line of the mapping file is\n" +
			"  <service_id> <owner> <operator> <stake_increment> <relay_url> [<revshare_addr> <percent>]...\n" +
			"Blank lines and lines starting with # are ignored.",
		Flags: common.WithFlags([]cli.Flag{
			&cli.StringFlag{
				Name:     flagFile,
				Aliases:  []string{"f"},
				Usage:    "Supplier mapping file",
				Required: true,
			},
			&cli.StringFlag{
				Name:  flagOwner,
				Usage: "Only process the first record owned by this address",
			},
			&cli.StringFlag{
				Name:  flagLedger,
				Usage: "Ledger of submitted records (default: <file>.ledger.json)",
			},
			&cli.BoolFlag{
				Name:  flagIgnoreLedger,
				Usage: "Submit records even if the ledger says they were already submitted",
			},
		}, common.GlobalFlags(), common.PocketdFlags()),
		Action: stakeAction,
	}
}

func stakeAction(cCtx *cli.Context) error {
	log := common.LoggerFromContext(cCtx.Context)

	cfg, err := common.LoadConfig(cCtx, true)
	if err != nil {
		return configError(err)
	}

	input := common.ExpandHome(cCtx.String(flagFile))
	f, err := os.Open(input)
	if err != nil {
		return configError(fmt.Errorf("open mapping file: %w", err))
	}
	entries, err := supplier.ReadEntries(f)
	f.Close()
	if err != nil {
		return configError(err)
	}
	if len(entries) == 0 {
		log.WarnWithActor(iface.ActorSystem, "%s has no records", input)
		return nil
	}

	client := newClient(cfg)
	exec := supplier.NewExecutor(client, cfg, log, newPacer(cfg))
	proc := supplier.NewProcessor(supplier.NewResolver(client), exec, log)
	driver := supplier.NewDriver(proc, cfg, log)

	if !cfg.DryRun && !cCtx.Bool(flagIgnoreLedger) {
		path := cCtx.String(flagLedger)
		if path == "" {
			path = ledger.DefaultPath(input)
		}
		l, err := ledger.Open(common.ExpandHome(path))
		if err != nil {
			return configError(err)
		}
		log.DebugWithActor(iface.ActorSystem, "ledger %s holds %d submitted records", l.Path(), l.Len())
		driver.WithLedger(l)
	}

	var summary *supplier.Summary
	if owner := cCtx.String(flagOwner); owner != "" {
		summary, err = driver.RunSingle(cCtx.Context, entries, owner)
		if summary == nil {
			return configError(err)
		}
	} else {
		summary = driver.RunBatch(cCtx.Context, entries)
	}

	summary.Render(cCtx.App.Writer)
	recordSummary(cCtx, summary)
	return failureExit("records", summary.Failed(), len(summary.Results), summary.Interrupted, summary.Err())
}

func recordSummary(cCtx *cli.Context, s *supplier.Summary) {
	counts := map[string]int{}
	for _, status := range []supplier.Status{supplier.StatusSubmitted, supplier.StatusDryRun, supplier.StatusSkipped, supplier.StatusFailed} {
		counts[string(status)] = s.Count(status)
	}
	recordCounts(cCtx.Context, cCtx.Command.Name, counts)
}

func SubmitConfigsCommand() *cli.Command {
	return &cli.Command{
		Name:  "submit-configs",
		Usage: "Stake every pre-rendered supplier config (*.yml, *.yaml) in a directory",
		Flags: common.WithFlags([]cli.Flag{
			&cli.StringFlag{
				Name:     flagDir,
				Aliases:  []string{"d"},
				Usage:    "Directory holding supplier configs",
				Required: true,
			},
			&cli.StringFlag{
				Name:  flagSigner,
				Usage: "Which address of each config signs the transaction (owner|operator)",
				Value: supplier.SignerOwner,
			},
		}, common.GlobalFlags(), common.PocketdFlags()),
		Action: submitConfigsAction,
	}
}

func submitConfigsAction(cCtx *cli.Context) error {
	log := common.LoggerFromContext(cCtx.Context)

	cfg, err := common.LoadConfig(cCtx, true)
	if err != nil {
		return configError(err)
	}
	signer := cCtx.String(flagSigner)
	if signer != supplier.SignerOwner && signer != supplier.SignerOperator {
		return configError(fmt.Errorf("--%s must be %s or %s", flagSigner, supplier.SignerOwner, supplier.SignerOperator))
	}

	files, err := supplier.ConfigFiles(common.ExpandHome(cCtx.String(flagDir)))
	if err != nil {
		return configError(err)
	}
	if len(files) == 0 {
		return configError(errors.New("no *.yml or *.yaml files in " + cCtx.String(flagDir)))
	}

	exec := supplier.NewExecutor(newClient(cfg), cfg, log, newPacer(cfg))
	summary, err := supplier.SubmitConfigs(cCtx.Context, exec, log, files, signer)
	if err != nil {
		return configError(err)
	}

	summary.Render(cCtx.App.Writer)
	recordSummary(cCtx, summary)
	return failureExit("configs", summary.Failed(), len(summary.Results), summary.Interrupted, summary.Err())
}

// LedgerCommand lists what previous runs submitted.
func LedgerCommand() *cli.Command {
	return &cli.Command{
		Name:  "ledger",
		Usage: "List the records a mapping file's ledger marks as submitted",
		Flags: common.WithFlags([]cli.Flag{
			&cli.StringFlag{
				Name:    flagFile,
				Aliases: []string{"f"},
				Usage:   "Supplier mapping file the ledger belongs to",
			},
			&cli.StringFlag{
				Name:  flagLedger,
				Usage: "Ledger path (default: <file>.ledger.json)",
			},
		}, common.GlobalFlags()),
		Action: ledgerListAction,
	}
}

func ledgerListAction(cCtx *cli.Context) error {
	path := cCtx.String(flagLedger)
	if path == "" {
		if cCtx.String(flagFile) == "" {
			return configError(fmt.Errorf("one of --%s or --%s is required", flagFile, flagLedger))
		}
		path = ledger.DefaultPath(common.ExpandHome(cCtx.String(flagFile)))
	}
	data, err := ledger.Load(common.ExpandHome(path))
	if err != nil {
		return configError(err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(cCtx.App.Writer)
	t.AppendHeader(table.Row{"Line", "Service", "Owner", "Operator", "Kind", "Stake", "Tx", "Submitted"})
	for _, e := range data.Entries {
		t.AppendRow(table.Row{e.Line, e.ServiceID, e.Owner, e.Operator, e.Kind, supplier.StakeAmount(e.StakeAmount), e.TxHash, e.SubmittedAt.Format("2006-01-02 15:04:05")})
	}
	t.AppendFooter(table.Row{"", "", "", "", "", "", "total", len(data.Entries)})
	t.SetStyle(table.StyleLight)
	t.Render()
	return nil
}
