package supplier

import (
	"context"
	"fmt"
	"os"
	"regexp"

	"github.com/pokt-ops/supplierkit/pkg/common"
	"github.com/pokt-ops/supplierkit/pkg/common/iface"
	"github.com/pokt-ops/supplierkit/pkg/pocketd"
)

// Submitter builds and runs stake-supplier transactions.
type Submitter interface {
	StakeSupplierInvocation(configPath, signer string) pocketd.Invocation
	SubmitTx(ctx context.Context, inv pocketd.Invocation) (pocketd.TxResponse, error)
	CommandLine(inv pocketd.Invocation) string
}

// Submission is one supplier config ready to be staked.
type Submission struct {
	ConfigPath string
	Content    []byte
	Signer     string
	// Temporary marks an artifact written by this run; it is removed after a
	// successful live submission and kept otherwise.
	Temporary bool
}

// Outcome describes what the executor did with a submission.
type Outcome struct {
	Command  string
	Executed bool
	TxHash   string
}

type Executor struct {
	client Submitter
	cfg    common.Config
	logger iface.Logger
	pacer  *common.Pacer
}

func NewExecutor(client Submitter, cfg common.Config, logger iface.Logger, pacer *common.Pacer) *Executor {
	if pacer == nil {
		pacer = common.NewPacer(cfg.Delay)
	}
	return &Executor{client: client, cfg: cfg, logger: logger, pacer: pacer}
}

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// WriteArtifact stores content as a new file in the configured temp dir.
func (e *Executor) WriteArtifact(name string, content []byte) (string, error) {
	if err := os.MkdirAll(e.cfg.TempDir, 0o755); err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	f, err := os.CreateTemp(e.cfg.TempDir, "supplier-"+unsafeNameChars.ReplaceAllString(name, "_")+"-*.yaml")
	if err != nil {
		return "", fmt.Errorf("create supplier config: %w", err)
	}
	if _, err := f.Write(content); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write supplier config: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("write supplier config: %w", err)
	}
	return f.Name(), nil
}

// Submit stakes s. In dry-run mode the command and config are only logged.
func (e *Executor) Submit(ctx context.Context, s Submission) (Outcome, error) {
	inv := e.client.StakeSupplierInvocation(s.ConfigPath, s.Signer)
	out := Outcome{Command: e.client.CommandLine(inv)}

	if e.cfg.DryRun {
		e.logger.InfoWithActor(iface.ActorOwner, "[dry-run] %s", out.Command)
		e.logger.InfoWithActor(iface.ActorConfig, "[dry-run] %s:\n%s", s.ConfigPath, s.Content)
		return out, nil
	}

	if err := e.pacer.Wait(ctx); err != nil {
		return out, err
	}
	e.logger.DebugWithActor(iface.ActorOwner, "running %s", out.Command)
	tx, err := e.client.SubmitTx(ctx, inv)
	if err != nil {
		e.logger.WarnWithActor(iface.ActorConfig, "config kept at %s", s.ConfigPath)
		return out, fmt.Errorf("%w: %v", ErrSubmissionFailure, err)
	}
	out.Executed = true
	out.TxHash = tx.TxHash

	if s.Temporary {
		if err := os.Remove(s.ConfigPath); err != nil {
			e.logger.WarnWithActor(iface.ActorSystem, "remove %s: %v", s.ConfigPath, err)
		}
	}
	return out, nil
}
