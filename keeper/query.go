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

package keeper

import (
	"context"

	"cosmossdk.io/errors"
	"cosmossdk.io/math"

	vaultv1 "vault.basinlabs.xyz/types/vault/v1"
)

// VaultStats assembles the aggregate read model of the vault. It uses
// the validated total value, so a stale or insolvent book surfaces here
// the same way it would in settlement.
func (k *Keeper) VaultStats(ctx context.Context) (vaultv1.VaultStats, error) {
	state, err := k.GetVaultState(ctx)
	if err != nil {
		return vaultv1.VaultStats{}, errors.Wrap(err, "unable to fetch vault state")
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return vaultv1.VaultStats{}, errors.Wrap(err, "unable to fetch params")
	}
	count, err := k.GetAssetCount(ctx)
	if err != nil {
		return vaultv1.VaultStats{}, errors.Wrap(err, "unable to fetch asset count")
	}

	totalValue, err := k.TotalVaultValue(ctx)
	if err != nil {
		return vaultv1.VaultStats{}, err
	}
	ratio, err := vaultv1.ShareRatio(totalValue, state.TotalShares, params.InitialSharePrice)
	if err != nil {
		return vaultv1.VaultStats{}, err
	}
	lossLimit, err := vaultv1.LossLimit(state.CurEpochLossBaseValue, params.LossToleranceBps)
	if err != nil {
		return vaultv1.VaultStats{}, err
	}

	return vaultv1.VaultStats{
		Status:       state.Status.String(),
		TotalShares:  state.TotalShares,
		TotalValue:   totalValue,
		ShareRatio:   ratio,
		AssetCount:   count,
		CurEpoch:     state.CurEpoch,
		CurEpochLoss: state.CurEpochLoss,
		LossLimit:    lossLimit,
	}, nil
}

// PreviewDeposit simulates settling a deposit of the given amount at
// current prices, returning the shares that would be minted and the fee
// that would be charged. Shares the math of ExecuteDeposit without
// mutating anything; the figures hold only if prices and valuations are
// unchanged at settlement.
func (k *Keeper) PreviewDeposit(ctx context.Context, assetId string, amount math.Int) (math.Int, math.Int, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return math.ZeroInt(), math.ZeroInt(), errors.Wrap(err, "unable to fetch params")
	}

	quote, err := k.GetAssetPrice(ctx, assetId)
	if err != nil {
		return math.ZeroInt(), math.ZeroInt(), err
	}
	ratio, err := k.ShareRatio(ctx)
	if err != nil {
		return math.ZeroInt(), math.ZeroInt(), err
	}

	fee, err := vaultv1.FeeAmountUp(amount, params.DepositFeeBps)
	if err != nil {
		return math.ZeroInt(), math.ZeroInt(), err
	}
	netAmount := amount.Sub(fee)
	if !netAmount.IsPositive() {
		return math.ZeroInt(), math.ZeroInt(), errors.Wrapf(vaultv1.ErrInvalidAmount, "deposit fee %s consumes the deposit of %s", fee, amount)
	}

	value, err := vaultv1.AssetValue(netAmount, quote.Price, quote.Decimals)
	if err != nil {
		return math.ZeroInt(), math.ZeroInt(), err
	}
	shares, err := vaultv1.SharesForValue(value, ratio)
	if err != nil {
		return math.ZeroInt(), math.ZeroInt(), err
	}
	if shares.IsZero() {
		return math.ZeroInt(), math.ZeroInt(), errors.Wrapf(vaultv1.ErrZeroShares, "deposit of %s %s converts to zero shares", amount, assetId)
	}

	return shares, fee, nil
}

// PreviewWithdraw simulates settling a withdrawal of the given share
// count at current prices, returning the net payout and the fee.
func (k *Keeper) PreviewWithdraw(ctx context.Context, assetId string, shares math.Int) (math.Int, math.Int, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return math.ZeroInt(), math.ZeroInt(), errors.Wrap(err, "unable to fetch params")
	}

	quote, err := k.GetAssetPrice(ctx, assetId)
	if err != nil {
		return math.ZeroInt(), math.ZeroInt(), err
	}
	ratio, err := k.ShareRatio(ctx)
	if err != nil {
		return math.ZeroInt(), math.ZeroInt(), err
	}

	value, err := vaultv1.ValueForShares(shares, ratio)
	if err != nil {
		return math.ZeroInt(), math.ZeroInt(), err
	}
	grossAmount, err := vaultv1.AmountForValue(value, quote.Price, quote.Decimals)
	if err != nil {
		return math.ZeroInt(), math.ZeroInt(), err
	}
	if !grossAmount.IsPositive() {
		return math.ZeroInt(), math.ZeroInt(), errors.Wrapf(vaultv1.ErrInvalidAmount, "%s shares convert to zero %s", shares, assetId)
	}

	fee, err := vaultv1.FeeAmountUp(grossAmount, params.WithdrawFeeBps)
	if err != nil {
		return math.ZeroInt(), math.ZeroInt(), err
	}
	netAmount := grossAmount.Sub(fee)
	if !netAmount.IsPositive() {
		return math.ZeroInt(), math.ZeroInt(), errors.Wrapf(vaultv1.ErrInvalidAmount, "withdrawal fee %s consumes the payout of %s", fee, grossAmount)
	}

	return netAmount, fee, nil
}
