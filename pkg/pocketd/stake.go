package pocketd

import (
	"strconv"

	"github.com/pokt-ops/supplierkit/pkg/common"
)

// StakeQueryResult is the outcome of a supplier stake lookup: either the
// supplier is not staked yet, or it holds a current amount.
type StakeQueryResult struct {
	found  bool
	amount uint64
}

// NotFound is the result for an operator with no staked supplier.
func NotFound() StakeQueryResult {
	return StakeQueryResult{}
}

// CurrentAmount is the result for a staked supplier.
func CurrentAmount(amount uint64) StakeQueryResult {
	return StakeQueryResult{found: true, amount: amount}
}

// Amount returns the current stake and whether the supplier exists.
func (r StakeQueryResult) Amount() (uint64, bool) {
	return r.amount, r.found
}

func (r StakeQueryResult) String() string {
	if !r.found {
		return "not found"
	}
	return strconv.FormatUint(r.amount, 10) + common.Denom
}
