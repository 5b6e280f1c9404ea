package supplier

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Summary collects per-record results of a run.
type Summary struct {
	DryRun      bool
	Interrupted bool
	RunID       string
	Results     []Result
	errs        *multierror.Error
}

func NewSummary(dryRun bool) *Summary {
	return &Summary{DryRun: dryRun}
}

func (s *Summary) Add(r Result) {
	s.Results = append(s.Results, r)
	if r.Status == StatusFailed && r.Err != nil {
		s.errs = multierror.Append(s.errs, r.Err)
	}
}

func (s *Summary) Count(status Status) int {
	n := 0
	for _, r := range s.Results {
		if r.Status == status {
			n++
		}
	}
	return n
}

// CountKind counts submitted (or dry-run) records of the given kind.
func (s *Summary) CountKind(kind StakeKind) int {
	n := 0
	for _, r := range s.Results {
		if (r.Status == StatusSubmitted || r.Status == StatusDryRun) && r.Kind == kind {
			n++
		}
	}
	return n
}

func (s *Summary) Failed() int {
	return s.Count(StatusFailed)
}

// Err aggregates every record failure, nil when none failed.
func (s *Summary) Err() error {
	return s.errs.ErrorOrNil()
}

func (s *Summary) Render(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Line", "Service", "Owner", "Operator", "Kind", "Stake", "Status"})
	for _, r := range s.Results {
		kind, stake := "", ""
		if r.Status == StatusSubmitted || r.Status == StatusDryRun || r.Target > 0 {
			kind = r.Kind.String()
			if r.Kind != KindConfig {
				stake = StakeAmount(r.Target)
			}
		}
		t.AppendRow(table.Row{r.Record.Line, r.Record.ServiceID, r.Record.OwnerAddress, r.Record.OperatorAddress, kind, stake, r.Status})
	}
	t.AppendSeparator()

	done := s.Count(StatusSubmitted)
	label := "SUBMITTED"
	if s.DryRun {
		done = s.Count(StatusDryRun)
		label = "DRY-RUN"
	}
	t.AppendFooter(table.Row{"", "", "", "",
		fmt.Sprintf("new %d / top-up %d", s.CountKind(KindNewSupplier), s.CountKind(KindTopUp)),
		fmt.Sprintf("%s %d", label, done),
		fmt.Sprintf("skipped %d / failed %d", s.Count(StatusSkipped), s.Failed()),
	})
	t.SetStyle(table.StyleLight)
	t.Render()

	if s.RunID != "" {
		fmt.Fprintf(w, "run %s\n", s.RunID)
	}
	if s.Interrupted {
		fmt.Fprintln(w, "run interrupted, remaining records were not processed")
	}
}
