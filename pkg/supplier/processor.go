package supplier

import (
	"context"

	"github.com/pokt-ops/supplierkit/pkg/common/iface"
	"github.com/pokt-ops/supplierkit/pkg/pocketd"
)

// Status is the final state of one record.
type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusDryRun    Status = "dry-run"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// Result is what happened to one record.
type Result struct {
	Record  Record
	Status  Status
	Kind    StakeKind
	Current pocketd.StakeQueryResult
	Target  uint64
	Outcome Outcome
	Err     error
}

// Processor runs a single record through resolve, render and submit.
type Processor struct {
	resolver *Resolver
	executor *Executor
	logger   iface.Logger
}

func NewProcessor(resolver *Resolver, executor *Executor, logger iface.Logger) *Processor {
	return &Processor{resolver: resolver, executor: executor, logger: logger}
}

func (p *Processor) Process(ctx context.Context, rec Record) Result {
	res := Result{Record: rec}
	fail := func(err error) Result {
		res.Status = StatusFailed
		res.Err = recordError(rec, err)
		return res
	}

	// Shares are validated before touching the network.
	if _, err := DeriveRevShares(rec); err != nil {
		return fail(err)
	}

	resolution, err := p.resolver.Resolve(ctx, rec)
	if err != nil {
		return fail(err)
	}
	res.Current = resolution.Current
	res.Target = resolution.Target
	res.Kind = resolution.Kind
	p.logger.InfoWithActor(iface.ActorNetwork, "%s: current stake %s, staking %s (%s)",
		rec.OperatorAddress, resolution.Current, StakeAmount(resolution.Target), resolution.Kind)

	content, err := Render(rec, resolution.Target)
	if err != nil {
		return fail(err)
	}
	path, err := p.executor.WriteArtifact(rec.ServiceID, content)
	if err != nil {
		return fail(err)
	}

	out, err := p.executor.Submit(ctx, Submission{
		ConfigPath: path,
		Content:    content,
		Signer:     rec.OwnerAddress,
		Temporary:  true,
	})
	res.Outcome = out
	if err != nil {
		return fail(err)
	}
	if out.Executed {
		res.Status = StatusSubmitted
		p.logger.InfoWithActor(iface.ActorOwner, "%s staked %s for %s (%s)",
			rec.OwnerAddress, StakeAmount(resolution.Target), rec.OperatorAddress, resolution.Kind)
	} else {
		res.Status = StatusDryRun
	}
	return res
}
