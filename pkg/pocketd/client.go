package pocketd

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/pokt-ops/supplierkit/pkg/common"
)

// Client builds pocketd invocations for one configured network and runs them.
type Client struct {
	runner Runner
	cfg    common.Config
}

func NewClient(runner Runner, cfg common.Config) *Client {
	return &Client{runner: runner, cfg: cfg}
}

// CommandLine renders inv for display.
func (c *Client) CommandLine(inv Invocation) string {
	return CommandLine(c.cfg.Binary, inv.Args)
}

func (c *Client) homeFlags() []string {
	if c.cfg.Home == "" {
		return nil
	}
	return []string{"--home=" + c.cfg.Home}
}

func (c *Client) queryFlags() []string {
	args := []string{
		"--node=" + c.cfg.Network.Node,
		"--output=json",
	}
	return append(args, c.homeFlags()...)
}

func (c *Client) txFlags(from string) []string {
	args := []string{
		"--from=" + from,
		"--node=" + c.cfg.Network.Node,
		"--chain-id=" + c.cfg.Network.ChainID,
		"--fees=" + c.cfg.Fees,
		"--keyring-backend=" + c.cfg.KeyringBackend,
		"--output=json",
		"--yes",
	}
	args = append(args, c.homeFlags()...)
	if c.cfg.Unordered {
		args = append(args, "--unordered", "--timeout-duration="+c.cfg.TxTimeout.String())
	}
	return args
}

func (c *Client) keyFlags() []string {
	return append([]string{"--keyring-backend=" + c.cfg.KeyringBackend}, c.homeFlags()...)
}

// ShowSupplierInvocation queries the supplier staked for operator.
func (c *Client) ShowSupplierInvocation(operator string) Invocation {
	args := append([]string{"query", "supplier", "show-supplier", operator}, c.queryFlags()...)
	return Invocation{Args: args}
}

// StakeSupplierInvocation submits the supplier config at configPath signed by signer.
func (c *Client) StakeSupplierInvocation(configPath, signer string) Invocation {
	args := append([]string{"tx", "supplier", "stake-supplier", "--config=" + configPath}, c.txFlags(signer)...)
	return Invocation{Args: args}
}

// BankSendInvocation transfers amount upokt from one account to another.
func (c *Client) BankSendInvocation(from, to string, amount uint64) Invocation {
	coins := strconv.FormatUint(amount, 10) + common.Denom
	args := append([]string{"tx", "bank", "send", from, to, coins}, c.txFlags(from)...)
	return Invocation{Args: args}
}

// AddKeyInvocation creates a new key named name in the keyring.
func (c *Client) AddKeyInvocation(name string) Invocation {
	args := append([]string{"keys", "add", name, "--output=json"}, c.keyFlags()...)
	return Invocation{Args: args}
}

// RecoverKeyInvocation imports a key from its mnemonic, which is fed on stdin.
func (c *Client) RecoverKeyInvocation(name, mnemonic string) Invocation {
	args := append([]string{"keys", "add", name, "--recover"}, c.keyFlags()...)
	return Invocation{Args: args, Stdin: mnemonic + "\n"}
}

// run executes inv and converts a non-zero exit into a *CommandError.
func (c *Client) run(ctx context.Context, inv Invocation) (Result, error) {
	res, err := c.runner.Run(ctx, inv)
	if err != nil {
		return res, err
	}
	if res.ExitCode != 0 {
		return res, newCommandError(inv, res)
	}
	return res, nil
}

type showSupplierResponse struct {
	Supplier *struct {
		OperatorAddress string `json:"operator_address"`
		Stake           *struct {
			Denom  string `json:"denom"`
			Amount string `json:"amount"`
		} `json:"stake"`
	} `json:"supplier"`
}

// QuerySupplierStake returns the current stake of the supplier operated by
// operator, NotFound when no such supplier is staked, or an error for any
// other failure. The query runs exactly once.
func (c *Client) QuerySupplierStake(ctx context.Context, operator string) (StakeQueryResult, error) {
	res, err := c.run(ctx, c.ShowSupplierInvocation(operator))
	if err != nil {
		if IsNotFound(err) {
			return NotFound(), nil
		}
		return StakeQueryResult{}, err
	}

	var resp showSupplierResponse
	if err := json.Unmarshal(res.Stdout, &resp); err != nil {
		return StakeQueryResult{}, fmt.Errorf("%w: decode show-supplier: %v", ErrUnexpectedOutput, err)
	}
	if resp.Supplier == nil || resp.Supplier.Stake == nil || resp.Supplier.Stake.Amount == "" {
		return StakeQueryResult{}, fmt.Errorf("%w: show-supplier for %s has no stake amount", ErrUnexpectedOutput, operator)
	}
	if d := resp.Supplier.Stake.Denom; d != "" && d != common.Denom {
		return StakeQueryResult{}, fmt.Errorf("%w: stake denom %q, want %q", ErrUnexpectedOutput, d, common.Denom)
	}
	amount, err := strconv.ParseUint(resp.Supplier.Stake.Amount, 10, 64)
	if err != nil {
		return StakeQueryResult{}, fmt.Errorf("%w: stake amount %q: %v", ErrUnexpectedOutput, resp.Supplier.Stake.Amount, err)
	}
	return CurrentAmount(amount), nil
}

// TxResponse is the subset of the broadcast response printed with --output=json.
type TxResponse struct {
	Code   uint32 `json:"code"`
	TxHash string `json:"txhash"`
	RawLog string `json:"raw_log"`
}

// SubmitTx runs a transaction invocation. Success is a zero exit status; when
// pocketd also prints a JSON broadcast response, a non-zero response code is
// treated as a failure too.
//
// Cancelling ctx does not stop a transaction that already started: it may
// have been broadcast, and only its outcome tells whether it must be recorded.
func (c *Client) SubmitTx(ctx context.Context, inv Invocation) (TxResponse, error) {
	res, err := c.run(context.WithoutCancel(ctx), inv)
	if err != nil {
		return TxResponse{}, err
	}

	var tx TxResponse
	if err := json.Unmarshal(res.Stdout, &tx); err != nil {
		// Not every pocketd build prints JSON for broadcasts, the exit code is authoritative.
		return TxResponse{}, nil
	}
	if tx.Code != 0 {
		return tx, &CommandError{
			Args:     inv.Args,
			ExitCode: res.ExitCode,
			Message:  fmt.Sprintf("tx %s rejected with code %d: %s", tx.TxHash, tx.Code, tx.RawLog),
		}
	}
	return tx, nil
}

// Key is a keyring entry as printed by `keys add --output=json`.
type Key struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Address  string `json:"address"`
	PubKey   string `json:"pubkey"`
	Mnemonic string `json:"mnemonic"`
}

// AddKey creates a key and returns its address and mnemonic.
func (c *Client) AddKey(ctx context.Context, name string) (Key, error) {
	res, err := c.run(ctx, c.AddKeyInvocation(name))
	if err != nil {
		return Key{}, err
	}

	// Depending on the SDK version the JSON lands on stdout or stderr.
	var key Key
	for _, out := range [][]byte{res.Stdout, res.Stderr} {
		if json.Unmarshal(out, &key) == nil && key.Address != "" {
			return key, nil
		}
	}
	return Key{}, fmt.Errorf("%w: keys add %s printed no address", ErrUnexpectedOutput, name)
}

// RecoverKey imports name from mnemonic.
func (c *Client) RecoverKey(ctx context.Context, name, mnemonic string) error {
	_, err := c.run(ctx, c.RecoverKeyInvocation(name, mnemonic))
	return err
}
