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
	sdk "github.com/cosmos/cosmos-sdk/types"

	vaultv1 "vault.basinlabs.xyz/types/vault/v1"
)

// ShareRatio returns the current micro-USD value of one share. The
// ratio is derived from the validated total vault value, so it fails
// when any asset is insolvent or stale rather than settling against a
// ratio that misstates the vault.
func (k *Keeper) ShareRatio(ctx context.Context) (math.LegacyDec, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return math.LegacyDec{}, errors.Wrap(err, "unable to fetch params")
	}
	state, err := k.GetVaultState(ctx)
	if err != nil {
		return math.LegacyDec{}, errors.Wrap(err, "unable to fetch vault state")
	}
	totalValue, err := k.TotalVaultValue(ctx)
	if err != nil {
		return math.LegacyDec{}, err
	}

	return vaultv1.ShareRatio(totalValue, state.TotalShares, params.InitialSharePrice)
}

// ExecuteDeposit settles a matured deposit request: the escrowed assets
// are valued at the current validated price, the deposit fee is carved
// off, and the remainder converts to shares on the receipt. Execution
// is permissionless; the shares always land on the receipt named by the
// request, read fresh so a transferred receipt pays its current owner.
// A failed execution leaves the request untouched.
func (k *Keeper) ExecuteDeposit(ctx context.Context, requestId uint64) error {
	state, err := k.requireNormalStatus(ctx)
	if err != nil {
		return err
	}

	request, found, err := k.GetDepositRequest(ctx, requestId)
	if err != nil {
		return errors.Wrap(err, "unable to fetch deposit request")
	}
	if !found {
		return errors.Wrapf(vaultv1.ErrRequestNotFound, "deposit request %d does not exist", requestId)
	}

	now := k.header.GetHeaderInfo(ctx).Time
	if now.Before(request.UnlockAt) {
		return errors.Wrapf(vaultv1.ErrRequestLocked, "deposit request %d unlocks at %s", requestId, request.UnlockAt)
	}

	receipt, found, err := k.GetReceipt(ctx, request.ReceiptId)
	if err != nil {
		return errors.Wrap(err, "unable to fetch receipt")
	}
	if !found {
		return errors.Wrapf(vaultv1.ErrReceiptNotFound, "receipt %d does not exist", request.ReceiptId)
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return errors.Wrap(err, "unable to fetch params")
	}

	quote, err := k.GetAssetPrice(ctx, request.AssetId)
	if err != nil {
		return err
	}

	// The ratio is computed before the deposit value joins the vault.
	ratio, err := k.ShareRatio(ctx)
	if err != nil {
		return err
	}

	fee, err := vaultv1.FeeAmountUp(request.Amount, params.DepositFeeBps)
	if err != nil {
		return err
	}
	netAmount := request.Amount.Sub(fee)
	if !netAmount.IsPositive() {
		return errors.Wrapf(vaultv1.ErrInvalidAmount, "deposit fee %s consumes the deposit of %s", fee, request.Amount)
	}

	value, err := vaultv1.AssetValue(netAmount, quote.Price, quote.Decimals)
	if err != nil {
		return err
	}

	shares, err := vaultv1.SharesForValue(value, ratio)
	if err != nil {
		return err
	}
	if shares.IsZero() {
		return errors.Wrapf(vaultv1.ErrZeroShares, "deposit of %s %s converts to zero shares", request.Amount, request.AssetId)
	}
	if shares.LT(request.MinSharesOut) {
		return errors.Wrapf(vaultv1.ErrSlippageExceeded, "deposit yields %s shares, minimum %s", shares, request.MinSharesOut)
	}

	receipt.Shares, err = receipt.Shares.SafeAdd(shares)
	if err != nil {
		return errors.Wrap(vaultv1.ErrOverflow, "receipt shares overflow")
	}
	if err := k.SetReceipt(ctx, receipt.Id, receipt); err != nil {
		return errors.Wrap(err, "unable to persist receipt")
	}

	valuation, found, err := k.GetAssetValuation(ctx, request.AssetId)
	if err != nil {
		return errors.Wrap(err, "unable to fetch valuation")
	}
	if !found {
		return errors.Wrapf(vaultv1.ErrUnsupportedAsset, "no valuation entry for %s", request.AssetId)
	}
	valuation.Value, err = valuation.Value.SafeAdd(value)
	if err != nil {
		return errors.Wrap(vaultv1.ErrOverflow, "asset valuation overflow")
	}
	// The added component was just priced, so the mark is fresh again.
	valuation.UpdatedAt = now
	if err := k.SetAssetValuation(ctx, request.AssetId, valuation); err != nil {
		return errors.Wrap(err, "unable to persist valuation")
	}

	state.TotalShares, err = state.TotalShares.SafeAdd(shares)
	if err != nil {
		return errors.Wrap(vaultv1.ErrOverflow, "share supply overflow")
	}
	if err := k.SetVaultState(ctx, state); err != nil {
		return errors.Wrap(err, "unable to persist vault state")
	}

	if fee.IsPositive() {
		if err := k.AddCollectedFees(ctx, request.AssetId, fee); err != nil {
			return errors.Wrap(err, "unable to accumulate fees")
		}
	}

	if err := k.DeleteDepositRequest(ctx, requestId); err != nil {
		return errors.Wrap(err, "unable to delete deposit request")
	}

	k.logger.Debug("deposit executed",
		"request", requestId,
		"receipt", receipt.Id,
		"asset", request.AssetId,
		"amount", request.Amount.String(),
		"shares", shares.String(),
	)

	return k.event.EventManager(ctx).Emit(ctx, &vaultv1.EventDepositExecuted{
		RequestId:   requestId,
		ReceiptId:   receipt.Id,
		AssetId:     request.AssetId,
		Amount:      request.Amount,
		Value:       value,
		Fee:         fee,
		Shares:      shares,
		BlockHeight: k.header.GetHeaderInfo(ctx).Height,
	})
}

// ExecuteWithdraw settles a matured withdrawal request: the reserved
// shares are valued at the current ratio, converted to assets at the
// validated price, and paid out net of the withdrawal fee to the
// receipt's current owner. A failed execution leaves the request and
// the reservation untouched.
func (k *Keeper) ExecuteWithdraw(ctx context.Context, requestId uint64) error {
	state, err := k.requireNormalStatus(ctx)
	if err != nil {
		return err
	}

	request, found, err := k.GetWithdrawRequest(ctx, requestId)
	if err != nil {
		return errors.Wrap(err, "unable to fetch withdraw request")
	}
	if !found {
		return errors.Wrapf(vaultv1.ErrRequestNotFound, "withdraw request %d does not exist", requestId)
	}

	now := k.header.GetHeaderInfo(ctx).Time
	if now.Before(request.UnlockAt) {
		return errors.Wrapf(vaultv1.ErrRequestLocked, "withdraw request %d unlocks at %s", requestId, request.UnlockAt)
	}

	receipt, found, err := k.GetReceipt(ctx, request.ReceiptId)
	if err != nil {
		return errors.Wrap(err, "unable to fetch receipt")
	}
	if !found {
		return errors.Wrapf(vaultv1.ErrReceiptNotFound, "receipt %d does not exist", request.ReceiptId)
	}
	if receipt.ReservedShares.LT(request.Shares) || receipt.Shares.LT(request.Shares) {
		return errors.Wrapf(vaultv1.ErrInvalidState, "receipt %d reserves %s shares, request needs %s", receipt.Id, receipt.ReservedShares, request.Shares)
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return errors.Wrap(err, "unable to fetch params")
	}

	quote, err := k.GetAssetPrice(ctx, request.AssetId)
	if err != nil {
		return err
	}

	ratio, err := k.ShareRatio(ctx)
	if err != nil {
		return err
	}

	value, err := vaultv1.ValueForShares(request.Shares, ratio)
	if err != nil {
		return err
	}

	grossAmount, err := vaultv1.AmountForValue(value, quote.Price, quote.Decimals)
	if err != nil {
		return err
	}
	if !grossAmount.IsPositive() {
		return errors.Wrapf(vaultv1.ErrInvalidAmount, "%s shares convert to zero %s", request.Shares, request.AssetId)
	}

	fee, err := vaultv1.FeeAmountUp(grossAmount, params.WithdrawFeeBps)
	if err != nil {
		return err
	}
	netAmount := grossAmount.Sub(fee)
	if !netAmount.IsPositive() {
		return errors.Wrapf(vaultv1.ErrInvalidAmount, "withdrawal fee %s consumes the payout of %s", fee, grossAmount)
	}
	if netAmount.LT(request.MinAmountOut) {
		return errors.Wrapf(vaultv1.ErrSlippageExceeded, "withdrawal pays %s, minimum %s", netAmount, request.MinAmountOut)
	}

	valuation, found, err := k.GetAssetValuation(ctx, request.AssetId)
	if err != nil {
		return errors.Wrap(err, "unable to fetch valuation")
	}
	if !found {
		return errors.Wrapf(vaultv1.ErrUnsupportedAsset, "no valuation entry for %s", request.AssetId)
	}
	if valuation.Value.LT(value) {
		return errors.Wrapf(vaultv1.ErrInsufficientLiquidity, "vault holds %s of %s, withdrawal needs %s", valuation.Value, request.AssetId, value)
	}

	owner, err := k.address.StringToBytes(receipt.Owner)
	if err != nil {
		return errors.Wrapf(vaultv1.ErrInvalidRequest, "invalid receipt owner %s", receipt.Owner)
	}
	if err := k.bank.SendCoins(ctx, vaultv1.ModuleAddress, owner, sdk.NewCoins(sdk.NewCoin(request.AssetId, netAmount))); err != nil {
		return errors.Wrap(err, "unable to pay out withdrawal")
	}

	receipt.Shares = receipt.Shares.Sub(request.Shares)
	receipt.ReservedShares = receipt.ReservedShares.Sub(request.Shares)
	if err := k.SetReceipt(ctx, receipt.Id, receipt); err != nil {
		return errors.Wrap(err, "unable to persist receipt")
	}

	valuation.Value = valuation.Value.Sub(value)
	if err := k.SetAssetValuation(ctx, request.AssetId, valuation); err != nil {
		return errors.Wrap(err, "unable to persist valuation")
	}

	state.TotalShares = state.TotalShares.Sub(request.Shares)
	if err := k.SetVaultState(ctx, state); err != nil {
		return errors.Wrap(err, "unable to persist vault state")
	}

	if fee.IsPositive() {
		if err := k.AddCollectedFees(ctx, request.AssetId, fee); err != nil {
			return errors.Wrap(err, "unable to accumulate fees")
		}
	}

	if err := k.DeleteWithdrawRequest(ctx, requestId); err != nil {
		return errors.Wrap(err, "unable to delete withdraw request")
	}

	k.logger.Debug("withdrawal executed",
		"request", requestId,
		"receipt", receipt.Id,
		"asset", request.AssetId,
		"shares", request.Shares.String(),
		"amount", netAmount.String(),
	)

	return k.event.EventManager(ctx).Emit(ctx, &vaultv1.EventWithdrawExecuted{
		RequestId:   requestId,
		ReceiptId:   receipt.Id,
		AssetId:     request.AssetId,
		Shares:      request.Shares,
		Value:       value,
		Fee:         fee,
		Amount:      netAmount,
		BlockHeight: k.header.GetHeaderInfo(ctx).Height,
	})
}

// requireNormalStatus gates request settlement on the vault being in
// its normal state: settlement is paused while an operation window is
// open and while the vault is disabled.
func (k *Keeper) requireNormalStatus(ctx context.Context) (vaultv1.VaultState, error) {
	state, err := k.GetVaultState(ctx)
	if err != nil {
		return vaultv1.VaultState{}, errors.Wrap(err, "unable to fetch vault state")
	}

	switch state.Status {
	case vaultv1.VAULT_STATUS_DISABLED:
		return vaultv1.VaultState{}, errors.Wrap(vaultv1.ErrVaultDisabled, "vault is disabled")
	case vaultv1.VAULT_STATUS_DURING_OPERATION:
		return vaultv1.VaultState{}, errors.Wrapf(vaultv1.ErrInvalidState, "operation window held by %s is open", state.ActiveOperator)
	}

	return state, nil
}
