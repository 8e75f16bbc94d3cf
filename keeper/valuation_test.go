// SPDX-License-Identifier: BUSL-1.1
//
// Copyright (C) 2025, NASD Inc. All rights reserved.
// Use of this software is governed by the Business Source License included
// in the LICENSE file of this repository and at www.mariadb.com/bsl11.
//
// ANY USE OF THE LICENSED WORK IN VIOLATION OF THIS LICENSE WILL AUTOMATICALLY
// TERMINATE YOUR RIGHTS UNDER THIS LICENSE FOR THE CURRENT AND ALL OTHER
// VERSIONS OF THE LICENSED WORK.
//
// THIS LICENSE DOES NOT GRANT YOU ANY RIGHT IN ANY TRADEMARK OR LOGO OF
// LICENSOR OR ITS AFFILIATES (PROVIDED THAT YOU MAY USE A TRADEMARK OR LOGO OF
// LICENSOR AS EXPRESSLY REQUIRED BY THIS LICENSE).
//
// TO THE EXTENT PERMITTED BY APPLICABLE LAW, THE LICENSED WORK IS PROVIDED ON
// AN "AS IS" BASIS. LICENSOR HEREBY DISCLAIMS ALL WARRANTIES AND CONDITIONS,
// EXPRESS OR IMPLIED, INCLUDING (WITHOUT LIMITATION) WARRANTIES OF
// MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE, NON-INFRINGEMENT, AND
// TITLE.

package keeper_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vaultv1 "vault.basinlabs.xyz/types/vault/v1"
	"vault.basinlabs.xyz/utils"
	"vault.basinlabs.xyz/utils/mocks"
)

func TestRegisterAssetType(t *testing.T) {
	k, _, _, ctx := setupVault(t)
	feeder := utils.TestAccount()

	// ACT: a non-authority registration.
	err := k.RegisterAssetType(ctx, feeder.Address, "uusdc", 6, feeder.Address, 0)
	assert.ErrorIs(t, err, vaultv1.ErrUnauthorized)

	// ACT: the authority registers.
	require.NoError(t, k.RegisterAssetType(ctx, mocks.Authority, "uusdc", 6, feeder.Address, 0))

	// ASSERT: index, config, and seed valuation exist together.
	count, err := k.GetAssetCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	config, found, err := k.GetAssetConfig(ctx, "uusdc")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, uint32(6), config.Decimals)

	valuation, found, err := k.GetAssetValuation(ctx, "uusdc")
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, valuation.Value.IsZero())

	// ASSERT: duplicates are rejected.
	err = k.RegisterAssetType(ctx, mocks.Authority, "uusdc", 6, feeder.Address, 0)
	assert.ErrorIs(t, err, vaultv1.ErrDuplicateAsset)
}

func TestAssetRegistryHardCap(t *testing.T) {
	k, _, _, ctx := setupVault(t)
	feeder := utils.TestAccount()

	// ARRANGE: fill the registry to its configured maximum.
	params, err := k.GetParams(ctx)
	require.NoError(t, err)
	for i := uint64(0); i < params.MaxAssetTypes; i++ {
		require.NoError(t, k.RegisterAssetType(ctx, mocks.Authority, fmt.Sprintf("asset%d", i), 6, feeder.Address, 0))
	}

	// ACT: one past the cap.
	err = k.RegisterAssetType(ctx, mocks.Authority, "onetoomany", 6, feeder.Address, 0)

	// ASSERT: distinct error, registry unchanged.
	assert.ErrorIs(t, err, vaultv1.ErrTooManyAssets)

	count, err := k.GetAssetCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, params.MaxAssetTypes, count)

	_, found, err := k.GetAssetConfig(ctx, "onetoomany")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestAssetValuesMoveOnlyInsideOperationWindows(t *testing.T) {
	k, _, _, ctx := setupVault(t)
	registerAsset(t, k, ctx, "uusdc", 6)
	operator := registerOperator(t, k, ctx)

	// ACT: marking outside a window.
	err := k.UpdateAssetValue(ctx, operator.Address, "uusdc", math.NewInt(5*ONE))
	assert.ErrorIs(t, err, vaultv1.ErrInvalidState)

	// ACT: marking inside a window held by another operator.
	require.NoError(t, k.BeginOperation(ctx, operator.Address))
	other := registerOperator(t, k, ctx)
	err = k.UpdateAssetValue(ctx, other.Address, "uusdc", math.NewInt(5*ONE))
	assert.ErrorIs(t, err, vaultv1.ErrUnauthorized)

	// ACT: the window holder marks.
	require.NoError(t, k.UpdateAssetValue(ctx, operator.Address, "uusdc", math.NewInt(5*ONE)))

	// ASSERT: unregistered assets are rejected, not crashed through.
	err = k.UpdateAssetValue(ctx, operator.Address, "uatom", math.NewInt(ONE))
	assert.ErrorIs(t, err, vaultv1.ErrUnsupportedAsset)

	total, err := k.TotalVaultValue(ctx)
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(5*ONE), total)
}

func TestTotalVaultValueIsIdempotentInsideFreshnessWindow(t *testing.T) {
	k, _, _, ctx := setupVault(t)
	registerAsset(t, k, ctx, "uusdc", 6)
	operator := registerOperator(t, k, ctx)
	markAssetValue(t, k, ctx, operator, "uusdc", math.NewInt(7*ONE))

	// ACT: two reads with no intervening update.
	first, err := k.TotalVaultValue(ctx)
	require.NoError(t, err)
	second, err := k.TotalVaultValue(ctx)
	require.NoError(t, err)

	// ASSERT: identical values.
	assert.Equal(t, first, second)
	assert.Equal(t, math.NewInt(7*ONE), first)
}

func TestTotalVaultValueFailsFastOnStaleEntries(t *testing.T) {
	k, _, _, ctx := setupVault(t)
	registerAsset(t, k, ctx, "uusdc", 6)
	operator := registerOperator(t, k, ctx)
	markAssetValue(t, k, ctx, operator, "uusdc", math.NewInt(7*ONE))

	// ACT: read past the staleness bound.
	ctx = advance(ctx, time.Duration(vaultv1.DefaultMaxValueStalenessSeconds+1)*time.Second)
	_, err := k.TotalVaultValue(ctx)

	// ASSERT: stale, not a silently old number.
	assert.ErrorIs(t, err, vaultv1.ErrStaleValuation)
}

func TestInsolvencyHaltsAggregation(t *testing.T) {
	k, _, _, ctx := setupVault(t)
	registerAsset(t, k, ctx, "uusdc", 6)
	registerAsset(t, k, ctx, "uatom", 6)
	operator := registerOperator(t, k, ctx)

	require.NoError(t, k.BeginOperation(ctx, operator.Address))
	require.NoError(t, k.UpdateAssetValue(ctx, operator.Address, "uusdc", math.NewInt(10*ONE)))

	// ACT: one position reports negative equity.
	require.NoError(t, k.ReportAssetInsolvency(ctx, operator.Address, "uatom", math.NewInt(3*ONE)))

	// ASSERT: the flagged asset poisons the whole aggregate, its value
	// is zeroed, and the shortfall magnitude is retained.
	_, err := k.TotalVaultValue(ctx)
	assert.ErrorIs(t, err, vaultv1.ErrInsolvent)

	valuation, found, err := k.GetAssetValuation(ctx, "uatom")
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, valuation.Value.IsZero())
	assert.True(t, valuation.Insolvent)
	assert.Equal(t, math.NewInt(3*ONE), valuation.Shortfall)

	// ACT: the operator remediates by re-marking the recovered value.
	require.NoError(t, k.UpdateAssetValue(ctx, operator.Address, "uatom", math.NewInt(2*ONE)))

	// ASSERT: aggregation resumes with the flag cleared.
	total, err := k.TotalVaultValue(ctx)
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(12*ONE), total)
}

// staticAdaptor is a position adaptor fixture reporting fixed figures.
type staticAdaptor struct {
	value     math.Int
	shortfall math.Int
}

func (a staticAdaptor) PositionValue(_ context.Context) (vaultv1.PositionValuation, error) {
	return vaultv1.PositionValuation{Value: a.value, Shortfall: a.shortfall}, nil
}

func TestRefreshAssetValueRoutesAdaptorFigures(t *testing.T) {
	k, _, _, ctx := setupVault(t)
	registerAsset(t, k, ctx, "uusdc", 6)
	operator := registerOperator(t, k, ctx)
	require.NoError(t, k.BeginOperation(ctx, operator.Address))

	// ACT: a healthy position refresh.
	require.NoError(t, k.RefreshAssetValue(ctx, operator.Address, "uusdc", staticAdaptor{
		value:     math.NewInt(9 * ONE),
		shortfall: math.ZeroInt(),
	}))

	total, err := k.TotalVaultValue(ctx)
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(9*ONE), total)

	// ACT: the same position goes underwater.
	require.NoError(t, k.RefreshAssetValue(ctx, operator.Address, "uusdc", staticAdaptor{
		value:     math.ZeroInt(),
		shortfall: math.NewInt(ONE),
	}))

	// ASSERT: routed to the insolvency path, not clamped to zero.
	_, err = k.TotalVaultValue(ctx)
	assert.ErrorIs(t, err, vaultv1.ErrInsolvent)
}
