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
	"testing"
	"time"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vaultv1 "vault.basinlabs.xyz/types/vault/v1"
	"vault.basinlabs.xyz/utils"
	"vault.basinlabs.xyz/utils/mocks"
)

func TestCreateRewardDistributionEscrowsFunding(t *testing.T) {
	k, bank, _, ctx := setupVault(t)
	registerAsset(t, k, ctx, "uusdc", 6)
	fund(bank, mocks.Authority, "uusdc", 10*ONE)

	// ACT: a non-authority creation.
	outsider := utils.TestAccount()
	_, err := k.CreateRewardDistribution(ctx, outsider.Address, "uusdc", math.LegacyNewDec(10), math.NewInt(ONE), math.ZeroInt())
	assert.ErrorIs(t, err, vaultv1.ErrUnauthorized)

	// ACT: an asset the registry does not know.
	_, err = k.CreateRewardDistribution(ctx, mocks.Authority, "uatom", math.LegacyNewDec(10), math.NewInt(ONE), math.ZeroInt())
	assert.ErrorIs(t, err, vaultv1.ErrUnsupportedAsset)

	// ACT: a well formed creation.
	rewardId, err := k.CreateRewardDistribution(ctx, mocks.Authority, "uusdc", math.LegacyNewDec(10), math.NewInt(ONE), math.ZeroInt())
	require.NoError(t, err)

	// ASSERT: the funding moved into escrow up front.
	escrow, err := utils.Bech32(vaultv1.ModuleAddress)
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(ONE), bank.Balances[escrow].AmountOf("uusdc"))
	assert.Equal(t, math.NewInt(9*ONE), bank.Balances[mocks.Authority].AmountOf("uusdc"))

	reward, found, err := k.GetReward(ctx, rewardId)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, math.NewInt(ONE), reward.Remaining)
	assert.True(t, reward.PendingRecognition.IsZero())
}

func TestAccrueRewardReleasesLinearly(t *testing.T) {
	k, bank, _, ctx := setupVault(t)
	registerAsset(t, k, ctx, "uusdc", 6)
	fund(bank, mocks.Authority, "uusdc", 10*ONE)

	rewardId, err := k.CreateRewardDistribution(ctx, mocks.Authority, "uusdc", math.LegacyNewDec(10), math.NewInt(ONE), math.ZeroInt())
	require.NoError(t, err)

	// ACT: fifty seconds at ten units per second.
	ctx = advance(ctx, 50*time.Second)
	distributed, err := k.AccrueReward(ctx, rewardId)
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(500), distributed)

	reward, _, err := k.GetReward(ctx, rewardId)
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(ONE-500), reward.Remaining)
	assert.Equal(t, math.NewInt(500), reward.PendingRecognition)

	// ACT: an immediate second call accrues nothing further.
	distributed, err = k.AccrueReward(ctx, rewardId)
	require.NoError(t, err)
	assert.True(t, distributed.IsZero())
}

func TestAccrueRewardCapsIdleElapsedTime(t *testing.T) {
	k, bank, _, ctx := setupVault(t)
	registerAsset(t, k, ctx, "uusdc", 6)
	fund(bank, mocks.Authority, "uusdc", 10*ONE)

	// ARRANGE: one unit per second, funded well past the weekly cap.
	rewardId, err := k.CreateRewardDistribution(ctx, mocks.Authority, "uusdc", math.LegacyOneDec(), math.NewInt(10*ONE), math.ZeroInt())
	require.NoError(t, err)

	// ACT: the buffer idles for a month.
	ctx = advance(ctx, 30*24*time.Hour)
	distributed, err := k.AccrueReward(ctx, rewardId)
	require.NoError(t, err)

	// ASSERT: only one cap's worth of emission is released.
	assert.Equal(t, math.NewInt(vaultv1.DefaultMaxRewardAccrualSeconds), distributed)
}

func TestAccrueRewardDustBranchStillAdvancesTheClock(t *testing.T) {
	k, bank, _, ctx := setupVault(t)
	registerAsset(t, k, ctx, "uusdc", 6)
	fund(bank, mocks.Authority, "uusdc", 10*ONE)

	// ARRANGE: 500 units left in the buffer, dust threshold 600.
	rewardId, err := k.CreateRewardDistribution(ctx, mocks.Authority, "uusdc", math.LegacyNewDec(10), math.NewInt(500), math.NewInt(600))
	require.NoError(t, err)

	ctx = advance(ctx, time.Hour)
	distributed, err := k.AccrueReward(ctx, rewardId)
	require.NoError(t, err)

	// ASSERT: the accrual clips to the 500 remaining, falls under the
	// threshold, and releases nothing.
	assert.True(t, distributed.IsZero())

	reward, _, err := k.GetReward(ctx, rewardId)
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(500), reward.Remaining)
	assert.Equal(t, ctx.HeaderInfo().Time, reward.LastUpdated)

	// ACT: top up past the threshold and accrue again.
	require.NoError(t, k.TopUpRewardDistribution(ctx, mocks.Authority, rewardId, math.NewInt(10_000)))
	ctx = advance(ctx, time.Minute)
	distributed, err = k.AccrueReward(ctx, rewardId)
	require.NoError(t, err)

	// ASSERT: only the minute since the dust call accrues. The hour that
	// released nothing is forfeited, not banked.
	assert.Equal(t, math.NewInt(600), distributed)
}

func TestRecognizeRewardsInsideOperationWindow(t *testing.T) {
	k, bank, _, ctx := setupVault(t)
	feeder := registerAsset(t, k, ctx, "uusdc", 6)
	operator := registerOperator(t, k, ctx)
	fund(bank, mocks.Authority, "uusdc", 10*ONE)

	rewardId, err := k.CreateRewardDistribution(ctx, mocks.Authority, "uusdc", math.LegacyNewDec(100), math.NewInt(ONE), math.ZeroInt())
	require.NoError(t, err)

	ctx = advance(ctx, 100*time.Second)
	postPrice(t, k, ctx, feeder, "uusdc", 1, 0)
	distributed, err := k.AccrueReward(ctx, rewardId)
	require.NoError(t, err)
	require.Equal(t, math.NewInt(10_000), distributed)

	// ACT: recognition outside a window.
	err = k.RecognizeRewards(ctx, operator.Address, rewardId)
	assert.ErrorIs(t, err, vaultv1.ErrInvalidState)

	// ACT: recognition in the window, at the current dollar price.
	require.NoError(t, k.BeginOperation(ctx, operator.Address))
	require.NoError(t, k.RecognizeRewards(ctx, operator.Address, rewardId))

	total, err := k.TotalVaultValue(ctx)
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(10_000), total)

	// ASSERT: the pending balance is spent.
	reward, _, err := k.GetReward(ctx, rewardId)
	require.NoError(t, err)
	assert.True(t, reward.PendingRecognition.IsZero())
	err = k.RecognizeRewards(ctx, operator.Address, rewardId)
	assert.ErrorIs(t, err, vaultv1.ErrInvalidAmount)

	require.NoError(t, k.EndOperation(ctx, operator.Address, math.ZeroInt(), math.NewInt(10_000), math.ZeroInt()))
}
