package supplier

import (
	"context"
	"fmt"
	"math"

	"github.com/pokt-ops/supplierkit/pkg/pocketd"
)

// StakeKind says whether a submission creates a supplier or tops one up.
type StakeKind int

const (
	KindNewSupplier StakeKind = iota
	KindTopUp
	// KindConfig marks a pre-rendered config whose kind was not resolved.
	KindConfig
)

func (k StakeKind) String() string {
	switch k {
	case KindNewSupplier:
		return "new-supplier"
	case KindTopUp:
		return "top-up"
	default:
		return "config"
	}
}

// StakeQuerier looks up the current stake of a supplier by operator address.
type StakeQuerier interface {
	QuerySupplierStake(ctx context.Context, operator string) (pocketd.StakeQueryResult, error)
}

// Resolution is the stake a record should be submitted with.
type Resolution struct {
	Current pocketd.StakeQueryResult
	Target  uint64
	Kind    StakeKind
}

type Resolver struct {
	querier StakeQuerier
}

func NewResolver(q StakeQuerier) *Resolver {
	return &Resolver{querier: q}
}

// Resolve queries the operator's current stake once and adds the record's increment.
func (r *Resolver) Resolve(ctx context.Context, rec Record) (Resolution, error) {
	current, err := r.querier.QuerySupplierStake(ctx, rec.OperatorAddress)
	if err != nil {
		return Resolution{}, fmt.Errorf("%w: %v", ErrQueryFailure, err)
	}
	target, kind, err := TargetStake(current, rec.StakeIncrement)
	if err != nil {
		return Resolution{}, err
	}
	return Resolution{Current: current, Target: target, Kind: kind}, nil
}

// TargetStake is the increment for a new supplier, or the current stake plus
// the increment for an existing one.
func TargetStake(current pocketd.StakeQueryResult, increment uint64) (uint64, StakeKind, error) {
	amount, found := current.Amount()
	if !found {
		return increment, KindNewSupplier, nil
	}
	if increment > math.MaxUint64-amount {
		return 0, KindTopUp, fmt.Errorf("%w: current stake %d plus increment %d overflows", ErrQueryFailure, amount, increment)
	}
	return amount + increment, KindTopUp, nil
}
