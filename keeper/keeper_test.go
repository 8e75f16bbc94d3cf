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

	"cosmossdk.io/core/header"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"vault.basinlabs.xyz/keeper"
	vaultv1 "vault.basinlabs.xyz/types/vault/v1"
	"vault.basinlabs.xyz/utils"
	"vault.basinlabs.xyz/utils/mocks"
)

const ONE = 1_000_000

var testTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// setupVault creates a test environment with a keeper, a map backed
// bank, an event recorder, and a context pinned to testTime.
func setupVault(t *testing.T) (*keeper.Keeper, *mocks.BankKeeper, *mocks.EventService, sdk.Context) {
	t.Helper()

	bank := mocks.BankKeeper{Balances: make(map[string]sdk.Coins)}
	k, events, ctx := mocks.VaultKeeperWithBank(t, bank)
	ctx = ctx.WithHeaderInfo(header.Info{Time: testTime, Height: 1})
	require.NoError(t, k.SetParams(ctx, vaultv1.DefaultParams()))

	return k, &bank, events, ctx
}

// advance moves the header clock forward.
func advance(ctx sdk.Context, d time.Duration) sdk.Context {
	info := ctx.HeaderInfo()
	info.Time = info.Time.Add(d)
	info.Height++
	return ctx.WithHeaderInfo(info)
}

// registerAsset registers an asset type with a fresh feeder account.
func registerAsset(t *testing.T, k *keeper.Keeper, ctx sdk.Context, assetId string, decimals uint32) utils.Account {
	t.Helper()

	feeder := utils.TestAccount()
	require.NoError(t, k.RegisterAssetType(ctx, mocks.Authority, assetId, decimals, feeder.Address, 0))
	return feeder
}

// postPrice stores a price report of rawPrice * 10^expo USD per whole
// token, timestamped at the current header time.
func postPrice(t *testing.T, k *keeper.Keeper, ctx sdk.Context, feeder utils.Account, assetId string, rawPrice int64, expo int32) {
	t.Helper()

	require.NoError(t, k.HandlePriceReport(ctx, feeder.Address, vaultv1.PriceReport{
		AssetId:    assetId,
		RawPrice:   math.NewInt(rawPrice),
		Expo:       expo,
		Confidence: math.ZeroInt(),
		Timestamp:  ctx.HeaderInfo().Time,
	}))
}

// registerOperator registers a fresh operator account.
func registerOperator(t *testing.T, k *keeper.Keeper, ctx sdk.Context) utils.Account {
	t.Helper()

	operator := utils.TestAccount()
	require.NoError(t, k.RegisterOperator(ctx, mocks.Authority, operator.Address))
	return operator
}

// markAssetValue runs a full operation window that re-marks one asset
// and closes with the loss implied by the mark.
func markAssetValue(t *testing.T, k *keeper.Keeper, ctx sdk.Context, operator utils.Account, assetId string, value math.Int) {
	t.Helper()

	require.NoError(t, k.BeginOperation(ctx, operator.Address))
	require.NoError(t, k.UpdateAssetValue(ctx, operator.Address, assetId, value))

	state, err := k.GetVaultState(ctx)
	require.NoError(t, err)
	after, err := k.TotalVaultValue(ctx)
	require.NoError(t, err)
	require.NoError(t, k.EndOperation(ctx, operator.Address, state.OperationBeginValue, after, state.TotalShares))
}

// fund credits an address with coins in the mock bank.
func fund(bank *mocks.BankKeeper, address, denom string, amount int64) {
	bank.Balances[address] = bank.Balances[address].Add(sdk.NewCoin(denom, math.NewInt(amount)))
}
