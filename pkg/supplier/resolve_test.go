package supplier

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/pokt-ops/supplierkit/pkg/pocketd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type querierFunc func(ctx context.Context, operator string) (pocketd.StakeQueryResult, error)

func (f querierFunc) QuerySupplierStake(ctx context.Context, operator string) (pocketd.StakeQueryResult, error) {
	return f(ctx, operator)
}

func TestTargetStake(t *testing.T) {
	target, kind, err := TargetStake(pocketd.NotFound(), 500)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), target)
	assert.Equal(t, KindNewSupplier, kind)

	target, kind, err = TargetStake(pocketd.CurrentAmount(500), 200)
	require.NoError(t, err)
	assert.Equal(t, uint64(700), target)
	assert.Equal(t, KindTopUp, kind)

	target, _, err = TargetStake(pocketd.CurrentAmount(500), 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), target, "stake never decreases")

	_, _, err = TargetStake(pocketd.CurrentAmount(math.MaxUint64-1), 2)
	assert.ErrorIs(t, err, ErrQueryFailure)
}

func TestResolver(t *testing.T) {
	stakes := map[string]uint64{"pokt1staked": 500}
	r := NewResolver(querierFunc(func(_ context.Context, operator string) (pocketd.StakeQueryResult, error) {
		if operator == "pokt1broken" {
			return pocketd.StakeQueryResult{}, errors.New("connection refused")
		}
		if amount, ok := stakes[operator]; ok {
			return pocketd.CurrentAmount(amount), nil
		}
		return pocketd.NotFound(), nil
	}))

	res, err := r.Resolve(context.Background(), Record{OperatorAddress: "pokt1staked", StakeIncrement: 200})
	require.NoError(t, err)
	assert.Equal(t, uint64(700), res.Target)
	assert.Equal(t, KindTopUp, res.Kind)

	res, err = r.Resolve(context.Background(), Record{OperatorAddress: "pokt1new", StakeIncrement: 200})
	require.NoError(t, err)
	assert.Equal(t, uint64(200), res.Target)
	assert.Equal(t, KindNewSupplier, res.Kind)

	_, err = r.Resolve(context.Background(), Record{OperatorAddress: "pokt1broken", StakeIncrement: 200})
	assert.ErrorIs(t, err, ErrQueryFailure)
}
