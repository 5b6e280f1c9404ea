package accounts

import (
	"fmt"
	"io"
	"strconv"

	"github.com/hashicorp/go-multierror"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pokt-ops/supplierkit/pkg/common"
)

type Status string

const (
	StatusDone    Status = "done"
	StatusDryRun  Status = "dry-run"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

type Row struct {
	Name    string
	Address string
	Amount  uint64
	Status  Status
	Err     error
}

// Report collects per-account results of an import or fund run.
type Report struct {
	DryRun      bool
	Interrupted bool
	Rows        []Row
	errs        *multierror.Error
}

func (r *Report) Add(row Row) {
	r.Rows = append(r.Rows, row)
	if row.Err != nil {
		r.errs = multierror.Append(r.errs, row.Err)
	}
}

func (r *Report) Count(status Status) int {
	n := 0
	for _, row := range r.Rows {
		if row.Status == status {
			n++
		}
	}
	return n
}

func (r *Report) Err() error {
	return r.errs.ErrorOrNil()
}

func (r *Report) Render(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Account", "Address", "Amount", "Status"})
	for _, row := range r.Rows {
		amount := ""
		if row.Amount > 0 {
			amount = strconv.FormatUint(row.Amount, 10) + common.Denom
		}
		t.AppendRow(table.Row{row.Name, row.Address, amount, row.Status})
	}
	t.AppendSeparator()
	t.AppendFooter(table.Row{"", "",
		fmt.Sprintf("done %d / dry-run %d", r.Count(StatusDone), r.Count(StatusDryRun)),
		fmt.Sprintf("skipped %d / failed %d", r.Count(StatusSkipped), r.Count(StatusFailed)),
	})
	t.SetStyle(table.StyleLight)
	t.Render()

	if r.Interrupted {
		fmt.Fprintln(w, "run interrupted, remaining accounts were not processed")
	}
}
