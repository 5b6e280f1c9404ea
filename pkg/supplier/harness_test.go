package supplier

import (
	"bytes"
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/pokt-ops/supplierkit/pkg/common"
	"github.com/pokt-ops/supplierkit/pkg/common/logger"
	"github.com/pokt-ops/supplierkit/pkg/pocketd"
	"github.com/pokt-ops/supplierkit/pkg/pocketd/pocketdtest"
	"github.com/stretchr/testify/require"
)

// harness fakes pocketd for the whole pipeline: operators in stakes are
// staked, queryErr operators fail to resolve, rejectFrom signers fail to submit.
type harness struct {
	t          *testing.T
	cfg        common.Config
	runner     *pocketdtest.Runner
	logs       *bytes.Buffer
	stakes     map[string]uint64
	queryErr   map[string]bool
	rejectFrom map[string]bool
	submitted  []string
	slept      []time.Duration
	onSubmit   func()
}

func newHarness(t *testing.T, dryRun bool) *harness {
	network, err := common.LookupNetwork(common.NetworkBeta, nil)
	require.NoError(t, err)

	cfg := common.DefaultConfig()
	cfg.Network = network
	cfg.Home = "/home/pokt/.pocket"
	cfg.TempDir = t.TempDir()
	cfg.DryRun = dryRun

	h := &harness{
		t:          t,
		cfg:        cfg,
		logs:       &bytes.Buffer{},
		stakes:     map[string]uint64{},
		queryErr:   map[string]bool{},
		rejectFrom: map[string]bool{},
	}
	h.runner = &pocketdtest.Runner{Handler: h.handle}
	return h
}

func (h *harness) handle(inv pocketd.Invocation) (pocketd.Result, error) {
	switch {
	case pocketdtest.HasPrefix(inv, "query", "supplier", "show-supplier"):
		op := inv.Args[3]
		if h.queryErr[op] {
			return pocketdtest.Fail(1, "Error: rpc error: code = Unavailable desc = connection refused\n"), nil
		}
		if amount, ok := h.stakes[op]; ok {
			return pocketdtest.OK(pocketdtest.SupplierJSON(op, strconv.FormatUint(amount, 10))), nil
		}
		return pocketdtest.Fail(1, pocketdtest.NotFoundStderr(op)), nil

	case pocketdtest.HasPrefix(inv, "tx", "supplier", "stake-supplier"):
		content, err := os.ReadFile(pocketdtest.Flag(inv, "config"))
		require.NoError(h.t, err)
		h.submitted = append(h.submitted, string(content))
		if h.onSubmit != nil {
			h.onSubmit()
		}
		if h.rejectFrom[pocketdtest.Flag(inv, "from")] {
			return pocketdtest.Fail(1, "Error: insufficient funds\n"), nil
		}
		return pocketdtest.OK(`{"code":0,"txhash":"AB12"}`), nil
	}
	return pocketdtest.Fail(2, "unexpected invocation\n"), nil
}

func (h *harness) client() *pocketd.Client {
	return pocketd.NewClient(h.runner, h.cfg)
}

func (h *harness) executor() *Executor {
	pacer := common.NewPacer(h.cfg.Delay).WithSleep(func(_ context.Context, d time.Duration) error {
		h.slept = append(h.slept, d)
		return nil
	})
	return NewExecutor(h.client(), h.cfg, logger.NewLoggerWithWriter(h.logs, true), pacer)
}

func (h *harness) driver() *Driver {
	log := logger.NewLoggerWithWriter(h.logs, true)
	proc := NewProcessor(NewResolver(h.client()), h.executor(), log)
	return NewDriver(proc, h.cfg, log)
}

func (h *harness) tempFiles() []string {
	entries, err := os.ReadDir(h.cfg.TempDir)
	require.NoError(h.t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func entries(t *testing.T, lines ...string) []Entry {
	var buf bytes.Buffer
	for _, l := range lines {
		buf.WriteString(l + "\n")
	}
	out, err := ReadEntries(&buf)
	require.NoError(t, err)
	return out
}
