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
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vault.basinlabs.xyz/keeper"
	vaultv1 "vault.basinlabs.xyz/types/vault/v1"
	"vault.basinlabs.xyz/utils"
	"vault.basinlabs.xyz/utils/mocks"
)

// mature advances the clock past the request lock and refreshes the
// asset's dollar price so settlement sees a valid quote.
func mature(t *testing.T, k *keeper.Keeper, ctx sdk.Context, feeder utils.Account, assetId string) sdk.Context {
	t.Helper()

	ctx = advance(ctx, time.Hour+time.Second)
	postPrice(t, k, ctx, feeder, assetId, 1, 0)
	return ctx
}

func TestExecuteDepositMintsSharesOnTheReceipt(t *testing.T) {
	k, bank, _, ctx := setupVault(t)
	feeder := registerAsset(t, k, ctx, "uusdc", 6)
	postPrice(t, k, ctx, feeder, "uusdc", 1, 0)

	alice := utils.TestAccount()
	fund(bank, alice.Address, "uusdc", 10*ONE)

	requestId, receiptId, err := k.RequestDeposit(ctx, alice.Address, "uusdc", math.NewInt(5*ONE), math.ZeroInt(), 0)
	require.NoError(t, err)

	// ASSERT: the assets are escrowed at request time.
	escrow, err := utils.Bech32(vaultv1.ModuleAddress)
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(5*ONE), bank.Balances[alice.Address].AmountOf("uusdc"))
	assert.Equal(t, math.NewInt(5*ONE), bank.Balances[escrow].AmountOf("uusdc"))

	// ACT: settling before the lock elapses.
	err = k.ExecuteDeposit(ctx, requestId)
	assert.ErrorIs(t, err, vaultv1.ErrRequestLocked)

	// ACT: settling once matured. Execution needs no privileged caller.
	ctx = mature(t, k, ctx, feeder, "uusdc")
	require.NoError(t, k.ExecuteDeposit(ctx, requestId))

	// ASSERT: a dollar asset at a dollar per share, so shares equal the
	// deposited micro amount.
	receipt, found, err := k.GetReceipt(ctx, receiptId)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, alice.Address, receipt.Owner)
	assert.Equal(t, math.NewInt(5*ONE), receipt.Shares)

	state, err := k.GetVaultState(ctx)
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(5*ONE), state.TotalShares)

	total, err := k.TotalVaultValue(ctx)
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(5*ONE), total)

	// ASSERT: the request is consumed.
	err = k.ExecuteDeposit(ctx, requestId)
	assert.ErrorIs(t, err, vaultv1.ErrRequestNotFound)
}

func TestExecuteDepositChargesFeeRoundedUp(t *testing.T) {
	k, bank, _, ctx := setupVault(t)

	params := vaultv1.DefaultParams()
	params.DepositFeeBps = 10
	require.NoError(t, k.UpdateParams(ctx, mocks.Authority, params))

	feeder := registerAsset(t, k, ctx, "uusdc", 6)
	postPrice(t, k, ctx, feeder, "uusdc", 1, 0)

	alice := utils.TestAccount()
	fund(bank, alice.Address, "uusdc", 20_000)

	// ACT: 10 bps of 10005 is 10.005, charged as 11.
	requestId, receiptId, err := k.RequestDeposit(ctx, alice.Address, "uusdc", math.NewInt(10_005), math.ZeroInt(), 0)
	require.NoError(t, err)

	ctx = mature(t, k, ctx, feeder, "uusdc")
	require.NoError(t, k.ExecuteDeposit(ctx, requestId))

	// ASSERT: shares come from the net amount.
	receipt, _, err := k.GetReceipt(ctx, receiptId)
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(9_994), receipt.Shares)

	fees, err := k.GetCollectedFees(ctx, "uusdc")
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(11), fees)
}

func TestExecuteDepositHaltsOnInsolvency(t *testing.T) {
	k, bank, _, ctx := setupVault(t)
	feeder := registerAsset(t, k, ctx, "uusdc", 6)
	postPrice(t, k, ctx, feeder, "uusdc", 1, 0)
	operator := registerOperator(t, k, ctx)

	alice := utils.TestAccount()
	fund(bank, alice.Address, "uusdc", 10*ONE)

	requestId, _, err := k.RequestDeposit(ctx, alice.Address, "uusdc", math.NewInt(5*ONE), math.ZeroInt(), 0)
	require.NoError(t, err)
	ctx = mature(t, k, ctx, feeder, "uusdc")
	require.NoError(t, k.ExecuteDeposit(ctx, requestId))

	// ARRANGE: the vault's position goes underwater mid-window and the
	// authority closes the wedged window.
	require.NoError(t, k.BeginOperation(ctx, operator.Address))
	require.NoError(t, k.ReportAssetInsolvency(ctx, operator.Address, "uusdc", math.NewInt(ONE)))
	require.NoError(t, k.ForceEndOperation(ctx, mocks.Authority))

	requestId, _, err = k.RequestDeposit(ctx, alice.Address, "uusdc", math.NewInt(2*ONE), math.ZeroInt(), 0)
	require.NoError(t, err)
	ctx = mature(t, k, ctx, feeder, "uusdc")

	// ASSERT: no settlement against a book with an unremediated shortfall.
	err = k.ExecuteDeposit(ctx, requestId)
	assert.ErrorIs(t, err, vaultv1.ErrInsolvent)
}

func TestExecuteDepositRejectsZeroShares(t *testing.T) {
	k, bank, _, ctx := setupVault(t)
	feeder := registerAsset(t, k, ctx, "udust", 6)
	postPrice(t, k, ctx, feeder, "udust", 1, -8)

	alice := utils.TestAccount()
	fund(bank, alice.Address, "udust", 10*ONE)

	requestId, _, err := k.RequestDeposit(ctx, alice.Address, "udust", math.NewInt(1_000), math.ZeroInt(), 0)
	require.NoError(t, err)

	ctx = advance(ctx, time.Hour+time.Second)
	postPrice(t, k, ctx, feeder, "udust", 1, -8)

	// ASSERT: a deposit whose dollar value truncates to nothing mints
	// nothing, it is rejected outright.
	err = k.ExecuteDeposit(ctx, requestId)
	assert.ErrorIs(t, err, vaultv1.ErrZeroShares)
}

func TestExecuteDepositEnforcesSlippageBound(t *testing.T) {
	k, bank, _, ctx := setupVault(t)
	feeder := registerAsset(t, k, ctx, "uusdc", 6)
	postPrice(t, k, ctx, feeder, "uusdc", 1, 0)

	alice := utils.TestAccount()
	fund(bank, alice.Address, "uusdc", 10*ONE)

	// ARRANGE: demand more shares than a dollar-for-dollar bootstrap can mint.
	requestId, _, err := k.RequestDeposit(ctx, alice.Address, "uusdc", math.NewInt(2*ONE), math.NewInt(3*ONE), 0)
	require.NoError(t, err)

	ctx = mature(t, k, ctx, feeder, "uusdc")
	err = k.ExecuteDeposit(ctx, requestId)
	assert.ErrorIs(t, err, vaultv1.ErrSlippageExceeded)

	// ASSERT: the failed settlement left the request intact.
	_, found, err := k.GetDepositRequest(ctx, requestId)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestExecuteWithdrawPaysTheCurrentOwnerNetOfFee(t *testing.T) {
	k, bank, _, ctx := setupVault(t)

	params := vaultv1.DefaultParams()
	params.WithdrawFeeBps = 25
	require.NoError(t, k.UpdateParams(ctx, mocks.Authority, params))

	feeder := registerAsset(t, k, ctx, "uusdc", 6)
	postPrice(t, k, ctx, feeder, "uusdc", 1, 0)

	alice := utils.TestAccount()
	fund(bank, alice.Address, "uusdc", 10*ONE)

	requestId, receiptId, err := k.RequestDeposit(ctx, alice.Address, "uusdc", math.NewInt(5*ONE), math.ZeroInt(), 0)
	require.NoError(t, err)
	ctx = mature(t, k, ctx, feeder, "uusdc")
	require.NoError(t, k.ExecuteDeposit(ctx, requestId))

	withdrawId, err := k.RequestWithdraw(ctx, alice.Address, receiptId, "uusdc", math.NewInt(2*ONE), math.ZeroInt())
	require.NoError(t, err)

	// ARRANGE: the receipt changes hands while the withdrawal is pending.
	bob := utils.TestAccount()
	require.NoError(t, k.TransferReceipt(ctx, alice.Address, bob.Address, receiptId))

	ctx = mature(t, k, ctx, feeder, "uusdc")
	require.NoError(t, k.ExecuteWithdraw(ctx, withdrawId))

	// ASSERT: 25 bps of the 2_000_000 gross goes to fees, the rest to
	// the receipt's owner at settlement time.
	assert.Equal(t, math.NewInt(1_995_000), bank.Balances[bob.Address].AmountOf("uusdc"))
	assert.True(t, bank.Balances[alice.Address].AmountOf("uusdc").Equal(math.NewInt(5*ONE)))

	fees, err := k.GetCollectedFees(ctx, "uusdc")
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(5_000), fees)

	receipt, _, err := k.GetReceipt(ctx, receiptId)
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(3*ONE), receipt.Shares)
	assert.True(t, receipt.ReservedShares.IsZero())

	state, err := k.GetVaultState(ctx)
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(3*ONE), state.TotalShares)

	total, err := k.TotalVaultValue(ctx)
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(3*ONE), total)
}

func TestExecuteWithdrawRejectsIlliquidAsset(t *testing.T) {
	k, bank, _, ctx := setupVault(t)
	usdcFeeder := registerAsset(t, k, ctx, "uusdc", 6)
	atomFeeder := registerAsset(t, k, ctx, "uatom", 6)
	postPrice(t, k, ctx, usdcFeeder, "uusdc", 1, 0)
	postPrice(t, k, ctx, atomFeeder, "uatom", 1, 0)

	alice := utils.TestAccount()
	fund(bank, alice.Address, "uusdc", ONE)
	fund(bank, alice.Address, "uatom", 10*ONE)

	usdcRequest, receiptId, err := k.RequestDeposit(ctx, alice.Address, "uusdc", math.NewInt(1_000), math.ZeroInt(), 0)
	require.NoError(t, err)
	atomRequest, _, err := k.RequestDeposit(ctx, alice.Address, "uatom", math.NewInt(9_000), math.ZeroInt(), receiptId)
	require.NoError(t, err)

	ctx = advance(ctx, time.Hour+time.Second)
	postPrice(t, k, ctx, usdcFeeder, "uusdc", 1, 0)
	postPrice(t, k, ctx, atomFeeder, "uatom", 1, 0)
	require.NoError(t, k.ExecuteDeposit(ctx, usdcRequest))
	require.NoError(t, k.ExecuteDeposit(ctx, atomRequest))

	// ACT: redeem half the vault in an asset backing a tenth of it.
	withdrawId, err := k.RequestWithdraw(ctx, alice.Address, receiptId, "uusdc", math.NewInt(5_000), math.ZeroInt())
	require.NoError(t, err)

	ctx = advance(ctx, time.Hour+time.Second)
	postPrice(t, k, ctx, usdcFeeder, "uusdc", 1, 0)
	postPrice(t, k, ctx, atomFeeder, "uatom", 1, 0)
	err = k.ExecuteWithdraw(ctx, withdrawId)

	// ASSERT: the payout would overdraw the asset's valuation.
	assert.ErrorIs(t, err, vaultv1.ErrInsufficientLiquidity)

	// ASSERT: the reservation stays in place for a later retry.
	receipt, _, err := k.GetReceipt(ctx, receiptId)
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(5_000), receipt.ReservedShares)
}

func TestPreviewsMatchSettlementMath(t *testing.T) {
	k, bank, _, ctx := setupVault(t)

	params := vaultv1.DefaultParams()
	params.DepositFeeBps = 10
	params.WithdrawFeeBps = 25
	require.NoError(t, k.UpdateParams(ctx, mocks.Authority, params))

	feeder := registerAsset(t, k, ctx, "uusdc", 6)
	postPrice(t, k, ctx, feeder, "uusdc", 1, 0)

	// ACT: preview a bootstrap deposit.
	shares, fee, err := k.PreviewDeposit(ctx, "uusdc", math.NewInt(10_005))
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(11), fee)
	assert.Equal(t, math.NewInt(9_994), shares)

	// ARRANGE: settle the same deposit and preview the exit.
	alice := utils.TestAccount()
	fund(bank, alice.Address, "uusdc", 10*ONE)
	requestId, _, err := k.RequestDeposit(ctx, alice.Address, "uusdc", math.NewInt(10_005), math.ZeroInt(), 0)
	require.NoError(t, err)
	ctx = mature(t, k, ctx, feeder, "uusdc")
	require.NoError(t, k.ExecuteDeposit(ctx, requestId))

	netAmount, fee, err := k.PreviewWithdraw(ctx, "uusdc", math.NewInt(9_994))
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(25), fee)
	assert.Equal(t, math.NewInt(9_969), netAmount)
}

func TestExecuteDepositRequiresAValuationEntry(t *testing.T) {
	k, bank, _, ctx := setupVault(t)
	feeder := registerAsset(t, k, ctx, "uusdc", 6)
	postPrice(t, k, ctx, feeder, "uusdc", 1, 0)

	alice := utils.TestAccount()
	fund(bank, alice.Address, "uusdc", 10*ONE)
	requestId, _, err := k.RequestDeposit(ctx, alice.Address, "uusdc", math.NewInt(10_000), math.ZeroInt(), 0)
	require.NoError(t, err)
	ctx = mature(t, k, ctx, feeder, "uusdc")

	// ARRANGE: strip the seeded valuation entry out from under the
	// pending request.
	require.NoError(t, k.AssetValues.Remove(ctx, "uusdc"))

	// ACT & ASSERT: settlement fails cleanly instead of crediting a
	// phantom entry, and the request stays retryable.
	err = k.ExecuteDeposit(ctx, requestId)
	assert.ErrorIs(t, err, vaultv1.ErrUnsupportedAsset)

	_, found, err := k.GetDepositRequest(ctx, requestId)
	require.NoError(t, err)
	assert.True(t, found)
}
