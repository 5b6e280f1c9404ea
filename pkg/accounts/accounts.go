package accounts

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/hashicorp/go-multierror"
	"github.com/pokt-ops/supplierkit/pkg/common"
	"github.com/pokt-ops/supplierkit/pkg/common/iface"
	"github.com/pokt-ops/supplierkit/pkg/pocketd"
)

// Pocketd is the part of pocketd.Client the account commands use.
type Pocketd interface {
	AddKey(ctx context.Context, name string) (pocketd.Key, error)
	RecoverKey(ctx context.Context, name, mnemonic string) error
	RecoverKeyInvocation(name, mnemonic string) pocketd.Invocation
	BankSendInvocation(from, to string, amount uint64) pocketd.Invocation
	SubmitTx(ctx context.Context, inv pocketd.Invocation) (pocketd.TxResponse, error)
	CommandLine(inv pocketd.Invocation) string
}

// Manager runs account operations against one keyring and network.
type Manager struct {
	client Pocketd
	cfg    common.Config
	logger iface.Logger
	pacer  *common.Pacer
}

func NewManager(client Pocketd, cfg common.Config, logger iface.Logger, pacer *common.Pacer) *Manager {
	if pacer == nil {
		pacer = common.NewPacer(cfg.Delay)
	}
	return &Manager{client: client, cfg: cfg, logger: logger, pacer: pacer}
}

// KeyName is the keyring name of the i-th created account, starting at 1.
func KeyName(prefix string, i int) string {
	return prefix + "_" + strconv.Itoa(i)
}

// Create adds count operator keys named <prefix>_<i>. A key that cannot be
// created is logged and left out; the returned error aggregates those.
func (m *Manager) Create(ctx context.Context, prefix string, count int) ([]Account, error) {
	if count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", count)
	}
	if prefix == "" {
		return nil, errors.New("prefix is empty")
	}

	var (
		out  []Account
		errs *multierror.Error
	)
	for i := 1; i <= count; i++ {
		if err := ctx.Err(); err != nil {
			return out, multierror.Append(errs, err).ErrorOrNil()
		}
		name := KeyName(prefix, i)
		key, err := m.client.AddKey(ctx, name)
		if err != nil {
			m.logger.ErrorWithActor(iface.ActorOperator, "create %s: %v", name, err)
			errs = multierror.Append(errs, fmt.Errorf("create %s: %w", name, err))
			continue
		}
		m.logger.InfoWithActor(iface.ActorOperator, "created %s %s", name, key.Address)
		out = append(out, Account{
			CustomerID:      name,
			OperatorAddress: key.Address,
			Mnemonic:        key.Mnemonic,
			RPCType:         common.RPCTypeJSONRPC,
		})
	}
	return out, errs.ErrorOrNil()
}

// Import recovers every account's key from its mnemonic into the keyring.
func (m *Manager) Import(ctx context.Context, accounts []Account) *Report {
	report := &Report{DryRun: m.cfg.DryRun}
	for _, a := range accounts {
		if ctx.Err() != nil {
			report.Interrupted = true
			break
		}
		row := Row{Name: a.CustomerID, Address: a.OperatorAddress}
		if a.CustomerID == "" || a.Mnemonic == "" {
			m.logger.WarnWithActor(iface.ActorOperator, "skipping %q: no customer_id or mnemonic", a.CustomerID)
			row.Status = StatusSkipped
			report.Add(row)
			continue
		}

		if m.cfg.DryRun {
			inv := m.client.RecoverKeyInvocation(a.CustomerID, a.Mnemonic)
			m.logger.InfoWithActor(iface.ActorOperator, "[dry-run] %s (mnemonic on stdin)", m.client.CommandLine(inv))
			row.Status = StatusDryRun
			report.Add(row)
			continue
		}

		if err := m.client.RecoverKey(ctx, a.CustomerID, a.Mnemonic); err != nil {
			m.logger.ErrorWithActor(iface.ActorOperator, "import %s: %v", a.CustomerID, err)
			row.Status = StatusFailed
			row.Err = fmt.Errorf("import %s: %w", a.CustomerID, err)
		} else {
			m.logger.InfoWithActor(iface.ActorOperator, "imported %s", a.CustomerID)
			row.Status = StatusDone
		}
		report.Add(row)
	}
	return report
}

// Fund sends amount upokt from each account's owner to its operator.
func (m *Manager) Fund(ctx context.Context, accounts []Account, amount uint64) (*Report, error) {
	if amount == 0 {
		return nil, errors.New("amount must be greater than zero")
	}

	report := &Report{DryRun: m.cfg.DryRun}
	for _, a := range accounts {
		if ctx.Err() != nil {
			report.Interrupted = true
			break
		}
		row := Row{Name: a.CustomerID, Address: a.OperatorAddress, Amount: amount}
		if a.OwnerAddress == "" || a.OperatorAddress == "" {
			m.logger.WarnWithActor(iface.ActorOwner, "skipping %s: owner_address and operator_address are required", a.CustomerID)
			row.Status = StatusSkipped
			report.Add(row)
			continue
		}

		inv := m.client.BankSendInvocation(a.OwnerAddress, a.OperatorAddress, amount)
		if m.cfg.DryRun {
			m.logger.InfoWithActor(iface.ActorOwner, "[dry-run] %s", m.client.CommandLine(inv))
			row.Status = StatusDryRun
			report.Add(row)
			continue
		}

		if err := m.pacer.Wait(ctx); err != nil {
			report.Interrupted = true
			break
		}
		m.logger.DebugWithActor(iface.ActorOwner, "running %s", m.client.CommandLine(inv))
		tx, err := m.client.SubmitTx(ctx, inv)
		if err != nil {
			m.logger.ErrorWithActor(iface.ActorOwner, "fund %s: %v", a.CustomerID, err)
			row.Status = StatusFailed
			row.Err = fmt.Errorf("fund %s (%s -> %s): %w", a.CustomerID, a.OwnerAddress, a.OperatorAddress, err)
		} else {
			m.logger.InfoWithActor(iface.ActorOwner, "sent %d%s %s -> %s %s", amount, common.Denom, a.OwnerAddress, a.OperatorAddress, tx.TxHash)
			row.Status = StatusDone
		}
		report.Add(row)
	}
	return report, nil
}
