package supplier

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pokt-ops/supplierkit/pkg/common/iface"
)

// Signer roles for pre-rendered configs.
const (
	SignerOwner    = "owner"
	SignerOperator = "operator"
)

// ConfigFiles lists the *.yml and *.yaml files in dir, sorted by name.
func ConfigFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read config dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yml", ".yaml":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// SubmitConfigs stakes pre-rendered supplier configs as they are. Files are
// never removed.
func SubmitConfigs(ctx context.Context, exec *Executor, logger iface.Logger, paths []string, signer string) (*Summary, error) {
	if signer != SignerOwner && signer != SignerOperator {
		return nil, fmt.Errorf("unknown signer %q, want %s or %s", signer, SignerOwner, SignerOperator)
	}

	summary := NewSummary(exec.cfg.DryRun)
	for i, path := range paths {
		if ctx.Err() != nil {
			summary.Interrupted = true
			logger.WarnWithActor(iface.ActorSystem, "interrupted, %d configs not submitted", len(paths)-i)
			break
		}
		res := submitConfig(ctx, exec, path, signer)
		if res.Status == StatusFailed {
			if ctx.Err() != nil {
				summary.Interrupted = true
				break
			}
			logger.ErrorWithActor(iface.ActorSystem, "%v", res.Err)
		} else if res.Status == StatusSubmitted {
			logger.InfoWithActor(iface.ActorOwner, "%s submitted", path)
		}
		summary.Add(res)
	}
	return summary, nil
}

func submitConfig(ctx context.Context, exec *Executor, path, signer string) Result {
	res := Result{Record: Record{ServiceID: filepath.Base(path)}, Kind: KindConfig}
	fail := func(err error) Result {
		res.Status = StatusFailed
		res.Err = fmt.Errorf("%s: %w", path, err)
		return res
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fail(err)
	}
	cfg, err := ParseSupplierConfig(content)
	if err != nil {
		return fail(err)
	}
	res.Record.OwnerAddress = cfg.OwnerAddress
	res.Record.OperatorAddress = cfg.OperatorAddress
	if len(cfg.Services) > 0 {
		res.Record.ServiceID = cfg.Services[0].ServiceID
	}

	from := cfg.OwnerAddress
	if signer == SignerOperator {
		from = cfg.OperatorAddress
	}
	out, err := exec.Submit(ctx, Submission{ConfigPath: path, Content: content, Signer: from})
	res.Outcome = out
	if err != nil {
		return fail(err)
	}
	res.Status = StatusDryRun
	if out.Executed {
		res.Status = StatusSubmitted
	}
	return res
}
