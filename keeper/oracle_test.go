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

func TestPriceReportAuthorization(t *testing.T) {
	k, _, _, ctx := setupVault(t)
	feeder := registerAsset(t, k, ctx, "uusdc", 6)

	report := vaultv1.PriceReport{
		AssetId:    "uusdc",
		RawPrice:   math.NewInt(100_000_000),
		Expo:       -8,
		Confidence: math.ZeroInt(),
		Timestamp:  ctx.HeaderInfo().Time,
	}

	// ACT: an unregistered account posts a report.
	stranger := utils.TestAccount()
	err := k.HandlePriceReport(ctx, stranger.Address, report)

	// ASSERT: rejected; the registered feeder succeeds.
	assert.ErrorIs(t, err, vaultv1.ErrUnauthorized)
	require.NoError(t, k.HandlePriceReport(ctx, feeder.Address, report))

	// ASSERT: reports for unregistered assets are rejected outright.
	report.AssetId = "uatom"
	err = k.HandlePriceReport(ctx, feeder.Address, report)
	assert.ErrorIs(t, err, vaultv1.ErrUnsupportedAsset)
}

func TestZeroPriceIsRejectedNotStored(t *testing.T) {
	k, _, _, ctx := setupVault(t)
	feeder := registerAsset(t, k, ctx, "uusdc", 6)

	// ACT: a fresh report with a zero price.
	err := k.HandlePriceReport(ctx, feeder.Address, vaultv1.PriceReport{
		AssetId:    "uusdc",
		RawPrice:   math.ZeroInt(),
		Expo:       -8,
		Confidence: math.ZeroInt(),
		Timestamp:  ctx.HeaderInfo().Time,
	})

	// ASSERT: rejected at ingestion despite the fresh timestamp, and
	// nothing usable is stored.
	assert.ErrorIs(t, err, vaultv1.ErrZeroPrice)

	_, err = k.GetAssetPrice(ctx, "uusdc")
	assert.ErrorIs(t, err, vaultv1.ErrStalePrice)
}

func TestStalePriceIsRejectedAtRead(t *testing.T) {
	k, _, _, ctx := setupVault(t)
	feeder := registerAsset(t, k, ctx, "uusdc", 6)
	postPrice(t, k, ctx, feeder, "uusdc", 100_000_000, -8)

	// ACT + ASSERT: inside the window the quote is served.
	quote, err := k.GetAssetPrice(ctx, "uusdc")
	require.NoError(t, err)
	assert.Equal(t, math.LegacyOneDec(), quote.Price)
	assert.Equal(t, uint32(6), quote.Decimals)

	// ACT + ASSERT: past the window the same entry is stale.
	ctx = advance(ctx, time.Duration(vaultv1.DefaultMaxPriceAgeSeconds+1)*time.Second)
	_, err = k.GetAssetPrice(ctx, "uusdc")
	assert.ErrorIs(t, err, vaultv1.ErrStalePrice)
}

func TestPerAssetStalenessOverride(t *testing.T) {
	k, _, _, ctx := setupVault(t)

	// ARRANGE: a 60 second override, tighter than the global hour.
	feeder := utils.TestAccount()
	require.NoError(t, k.RegisterAssetType(ctx, mocks.Authority, "uusdc", 6, feeder.Address, 60))
	postPrice(t, k, ctx, feeder, "uusdc", 100_000_000, -8)

	// ASSERT: fresh at 30 seconds, stale at 61.
	ctx = advance(ctx, 30*time.Second)
	_, err := k.GetAssetPrice(ctx, "uusdc")
	require.NoError(t, err)

	ctx = advance(ctx, 31*time.Second)
	_, err = k.GetAssetPrice(ctx, "uusdc")
	assert.ErrorIs(t, err, vaultv1.ErrStalePrice)
}

func TestWideConfidenceIsRejected(t *testing.T) {
	k, _, _, ctx := setupVault(t)
	feeder := registerAsset(t, k, ctx, "uusdc", 6)

	report := vaultv1.PriceReport{
		AssetId:   "uusdc",
		RawPrice:  math.NewInt(100_000_000),
		Expo:      -8,
		Timestamp: ctx.HeaderInfo().Time,
	}

	// Default bound is 200 bps: 2% of the price is the widest interval
	// accepted.
	report.Confidence = math.NewInt(2_000_000)
	require.NoError(t, k.HandlePriceReport(ctx, feeder.Address, report))

	ctx = advance(ctx, time.Second)
	report.Confidence = math.NewInt(2_000_001)
	report.Timestamp = ctx.HeaderInfo().Time
	err := k.HandlePriceReport(ctx, feeder.Address, report)
	assert.ErrorIs(t, err, vaultv1.ErrWideConfidence)
}

func TestPriceReportTimestampMustAdvance(t *testing.T) {
	k, _, _, ctx := setupVault(t)
	feeder := registerAsset(t, k, ctx, "uusdc", 6)
	postPrice(t, k, ctx, feeder, "uusdc", 100_000_000, -8)

	// ACT: replay the same timestamp.
	err := k.HandlePriceReport(ctx, feeder.Address, vaultv1.PriceReport{
		AssetId:    "uusdc",
		RawPrice:   math.NewInt(101_000_000),
		Expo:       -8,
		Confidence: math.ZeroInt(),
		Timestamp:  ctx.HeaderInfo().Time,
	})

	// ASSERT: rejected as stale, the stored price is unchanged.
	assert.ErrorIs(t, err, vaultv1.ErrStalePrice)

	quote, err := k.GetAssetPrice(ctx, "uusdc")
	require.NoError(t, err)
	assert.Equal(t, math.LegacyOneDec(), quote.Price)
}

func TestPriceDeviationGuard(t *testing.T) {
	k, _, _, ctx := setupVault(t)
	feeder := registerAsset(t, k, ctx, "uusdc", 6)
	postPrice(t, k, ctx, feeder, "uusdc", 100_000_000, -8)

	// ACT: a 15% jump in one report, beyond the 10% default bound.
	ctx = advance(ctx, time.Second)
	err := k.HandlePriceReport(ctx, feeder.Address, vaultv1.PriceReport{
		AssetId:    "uusdc",
		RawPrice:   math.NewInt(115_000_000),
		Expo:       -8,
		Confidence: math.ZeroInt(),
		Timestamp:  ctx.HeaderInfo().Time,
	})
	assert.ErrorIs(t, err, vaultv1.ErrPriceDeviation)

	// ASSERT: a 10% move passes.
	require.NoError(t, k.HandlePriceReport(ctx, feeder.Address, vaultv1.PriceReport{
		AssetId:    "uusdc",
		RawPrice:   math.NewInt(110_000_000),
		Expo:       -8,
		Confidence: math.ZeroInt(),
		Timestamp:  ctx.HeaderInfo().Time,
	}))
}

func TestFeederRotation(t *testing.T) {
	k, _, _, ctx := setupVault(t)
	oldFeeder := registerAsset(t, k, ctx, "uusdc", 6)
	newFeeder := utils.TestAccount()

	// ACT: only the authority may rotate the feeder, and only for
	// registered assets with a decodable replacement address.
	err := k.UpdateAssetFeeder(ctx, oldFeeder.Address, "uusdc", newFeeder.Address)
	assert.ErrorIs(t, err, vaultv1.ErrUnauthorized)
	err = k.UpdateAssetFeeder(ctx, mocks.Authority, "uatom", newFeeder.Address)
	assert.ErrorIs(t, err, vaultv1.ErrUnsupportedAsset)
	err = k.UpdateAssetFeeder(ctx, mocks.Authority, "uusdc", "not-an-address")
	assert.ErrorIs(t, err, vaultv1.ErrInvalidRequest)

	require.NoError(t, k.UpdateAssetFeeder(ctx, mocks.Authority, "uusdc", newFeeder.Address))

	// ASSERT: the old feeder loses its posting rights and the new one
	// gains them.
	report := vaultv1.PriceReport{
		AssetId:    "uusdc",
		RawPrice:   math.NewInt(100_000_000),
		Expo:       -8,
		Confidence: math.ZeroInt(),
		Timestamp:  ctx.HeaderInfo().Time,
	}
	err = k.HandlePriceReport(ctx, oldFeeder.Address, report)
	assert.ErrorIs(t, err, vaultv1.ErrUnauthorized)
	require.NoError(t, k.HandlePriceReport(ctx, newFeeder.Address, report))
}
