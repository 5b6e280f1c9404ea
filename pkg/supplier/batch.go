package supplier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pokt-ops/supplierkit/pkg/common"
	"github.com/pokt-ops/supplierkit/pkg/common/iface"
	"github.com/pokt-ops/supplierkit/pkg/ledger"
)

// Driver processes mapping-file records strictly one after another.
type Driver struct {
	proc   *Processor
	cfg    common.Config
	logger iface.Logger
	ledger *ledger.Ledger
	runID  uuid.UUID
	now    func() time.Time
}

func NewDriver(proc *Processor, cfg common.Config, logger iface.Logger) *Driver {
	return &Driver{
		proc:   proc,
		cfg:    cfg,
		logger: logger,
		runID:  uuid.New(),
		now:    time.Now,
	}
}

// WithLedger enables skipping records already submitted and recording new
// submissions. It has no effect in dry-run mode.
func (d *Driver) WithLedger(l *ledger.Ledger) *Driver {
	d.ledger = l
	return d
}

// RunBatch processes every entry. Failures are recorded in the summary and
// never stop the batch; only cancellation does.
func (d *Driver) RunBatch(ctx context.Context, entries []Entry) *Summary {
	summary := NewSummary(d.cfg.DryRun)
	summary.RunID = d.runID.String()
	d.logger.TitleWithActor(iface.ActorSystem, "Processing %d records on %s (run %s)", len(entries), d.cfg.Network.Name, d.runID)

	firstLine := make(map[uuid.UUID]int)
	for i, e := range entries {
		if ctx.Err() != nil {
			summary.Interrupted = true
			d.logger.WarnWithActor(iface.ActorSystem, "interrupted, %d records not processed", len(entries)-i)
			break
		}
		if e.Err == nil {
			id := e.Record.ID()
			if line, ok := firstLine[id]; ok {
				d.logger.WarnWithActor(iface.ActorSystem, "line %d duplicates line %d", e.Line, line)
			} else {
				firstLine[id] = e.Line
			}
		}
		res := d.runEntry(ctx, e)
		if res.Status == StatusFailed && ctx.Err() != nil && errors.Is(res.Err, ctx.Err()) {
			summary.Interrupted = true
			d.logger.WarnWithActor(iface.ActorSystem, "interrupted, %d records not processed", len(entries)-i)
			break
		}
		if res.Status == StatusFailed {
			d.logger.ErrorWithActor(iface.ActorSystem, "%v", res.Err)
		}
		summary.Add(res)
	}
	return summary
}

// RunSingle processes the first record owned by owner.
func (d *Driver) RunSingle(ctx context.Context, entries []Entry, owner string) (*Summary, error) {
	var matches []Entry
	for _, e := range entries {
		if e.Owner() == owner {
			matches = append(matches, e)
		}
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no record with owner %s", owner)
	}
	if len(matches) > 1 {
		d.logger.WarnWithActor(iface.ActorOwner, "%d records for owner %s, using line %d", len(matches), owner, matches[0].Line)
	}
	summary := d.RunBatch(ctx, matches[:1])
	return summary, summary.Err()
}

func (d *Driver) runEntry(ctx context.Context, e Entry) Result {
	if e.Err != nil {
		return Result{
			Record: e.Record,
			Status: StatusFailed,
			Err: &RecordError{
				Line:  e.Line,
				Owner: e.Owner(),
				Err:   e.Err,
			},
		}
	}

	rec := e.Record
	id := rec.ID().String()
	if d.ledger != nil && !d.cfg.DryRun {
		if prev := d.ledger.Lookup(id); prev != nil {
			d.logger.InfoWithActor(iface.ActorSystem, "%s already submitted by run %s at %s, skipping",
				rec, prev.RunID, prev.SubmittedAt.Format(time.RFC3339))
			return Result{Record: rec, Status: StatusSkipped}
		}
	}

	res := d.proc.Process(ctx, rec)
	if res.Status == StatusSubmitted && d.ledger != nil {
		err := d.ledger.Record(ledger.Entry{
			RecordID:    id,
			Line:        rec.Line,
			ServiceID:   rec.ServiceID,
			Owner:       rec.OwnerAddress,
			Operator:    rec.OperatorAddress,
			Increment:   rec.StakeIncrement,
			StakeAmount: res.Target,
			Kind:        res.Kind.String(),
			TxHash:      res.Outcome.TxHash,
			RunID:       d.runID.String(),
			SubmittedAt: d.now().UTC(),
		})
		if err != nil {
			d.logger.WarnWithActor(iface.ActorSystem, "%s submitted but not recorded in %s: %v", rec, d.ledger.Path(), err)
		}
	}
	return res
}
