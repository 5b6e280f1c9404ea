package accounts

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pokt-ops/supplierkit/pkg/common"
	"github.com/pokt-ops/supplierkit/pkg/common/logger"
	"github.com/pokt-ops/supplierkit/pkg/pocketd"
	"github.com/pokt-ops/supplierkit/pkg/pocketd/pocketdtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T, dryRun bool, handler pocketdtest.Handler) (*Manager, *pocketdtest.Runner, *[]time.Duration) {
	network, err := common.LookupNetwork(common.NetworkMain, nil)
	require.NoError(t, err)
	cfg := common.DefaultConfig()
	cfg.Network = network
	cfg.DryRun = dryRun

	runner := &pocketdtest.Runner{Handler: handler}
	var slept []time.Duration
	pacer := common.NewPacer(cfg.Delay).WithSleep(func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	})
	m := NewManager(pocketd.NewClient(runner, cfg), cfg, logger.NewLoggerWithWriter(&bytes.Buffer{}, true), pacer)
	return m, runner, &slept
}

func TestCreate(t *testing.T) {
	m, runner, _ := newManager(t, false, func(inv pocketd.Invocation) (pocketd.Result, error) {
		name := inv.Args[2]
		if name == "acme_2" {
			return pocketdtest.Fail(1, "Error: key exists\n"), nil
		}
		return pocketdtest.OK(`{"name":"` + name + `","address":"pokt1` + name + `","mnemonic":"m ` + name + `"}`), nil
	})

	out, err := m.Create(context.Background(), "acme", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "acme_2")
	require.Len(t, out, 2)
	assert.Equal(t, Account{CustomerID: "acme_1", OperatorAddress: "pokt1acme_1", Mnemonic: "m acme_1", RPCType: "JSON_RPC"}, out[0])
	assert.Equal(t, "acme_3", out[1].CustomerID)
	assert.Len(t, runner.CallsTo("keys", "add"), 3)

	_, err = m.Create(context.Background(), "acme", 0)
	assert.Error(t, err)
}

func TestImport(t *testing.T) {
	m, runner, _ := newManager(t, false, func(inv pocketd.Invocation) (pocketd.Result, error) {
		if inv.Args[2] == "bad" {
			return pocketdtest.Fail(1, "Error: invalid mnemonic\n"), nil
		}
		return pocketdtest.OK(""), nil
	})

	report := m.Import(context.Background(), []Account{
		{CustomerID: "acme_1", Mnemonic: "one two"},
		{CustomerID: "acme_2"},
		{CustomerID: "bad", Mnemonic: "x"},
	})
	assert.Equal(t, 1, report.Count(StatusDone))
	assert.Equal(t, 1, report.Count(StatusSkipped))
	assert.Equal(t, 1, report.Count(StatusFailed))
	assert.Error(t, report.Err())

	calls := runner.CallsTo("keys", "add", "acme_1", "--recover")
	require.Len(t, calls, 1)
	assert.Equal(t, "one two\n", calls[0].Stdin)
	for _, a := range calls[0].Args {
		assert.NotContains(t, a, "one two", "mnemonic never appears in argv")
	}
}

func TestFund(t *testing.T) {
	m, runner, slept := newManager(t, false, func(inv pocketd.Invocation) (pocketd.Result, error) {
		if inv.Args[3] == "pokt1broke" {
			return pocketdtest.Fail(1, "Error: insufficient funds\n"), nil
		}
		return pocketdtest.OK(`{"code":0,"txhash":"FF"}`), nil
	})

	report, err := m.Fund(context.Background(), []Account{
		{CustomerID: "a", OwnerAddress: "pokt1owner", OperatorAddress: "pokt1op1"},
		{CustomerID: "b", OperatorAddress: "pokt1op2"},
		{CustomerID: "c", OwnerAddress: "pokt1broke", OperatorAddress: "pokt1op3"},
		{CustomerID: "d", OwnerAddress: "pokt1owner", OperatorAddress: "pokt1op4"},
	}, 5000000)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Count(StatusDone))
	assert.Equal(t, 1, report.Count(StatusSkipped))
	assert.Equal(t, 1, report.Count(StatusFailed))
	assert.ErrorContains(t, report.Err(), "pokt1broke")

	sends := runner.CallsTo("tx", "bank", "send")
	require.Len(t, sends, 3)
	assert.Equal(t, []string{"tx", "bank", "send", "pokt1owner", "pokt1op1", "5000000upokt"}, sends[0].Args[:6])
	assert.Equal(t, "pokt1owner", pocketdtest.Flag(sends[0], "from"))
	assert.Equal(t, "pocket", pocketdtest.Flag(sends[0], "chain-id"))
	assert.Len(t, *slept, 2)

	var out strings.Builder
	report.Render(&out)
	assert.Contains(t, out.String(), "5000000upokt")

	_, err = m.Fund(context.Background(), nil, 0)
	assert.Error(t, err)
}

func TestFund_DryRun(t *testing.T) {
	m, runner, slept := newManager(t, true, nil)
	report, err := m.Fund(context.Background(), []Account{
		{CustomerID: "a", OwnerAddress: "pokt1owner", OperatorAddress: "pokt1op1"},
	}, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Count(StatusDryRun))
	assert.Empty(t, runner.Calls())
	assert.Empty(t, *slept)
}
