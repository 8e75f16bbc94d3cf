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
	"time"

	"cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	vaultv1 "vault.basinlabs.xyz/types/vault/v1"
)

// RequestDeposit escrows assets with the vault and records a pending
// deposit. Passing a receipt id of zero creates a fresh receipt owned
// by the depositor; otherwise the deposit is queued against an existing
// receipt of theirs. The request settles through ExecuteDeposit once
// the lock elapses, at the prices of settlement time, so a pending
// request holds no claim on today's share ratio.
func (k *Keeper) RequestDeposit(ctx context.Context, owner, assetId string, amount, minSharesOut math.Int, receiptId uint64) (uint64, uint64, error) {
	if err := k.requireRequestsOpen(ctx); err != nil {
		return 0, 0, err
	}

	ownerBytes, err := k.address.StringToBytes(owner)
	if err != nil {
		return 0, 0, errors.Wrapf(vaultv1.ErrInvalidRequest, "invalid owner address %s", owner)
	}

	_, found, err := k.GetAssetConfig(ctx, assetId)
	if err != nil {
		return 0, 0, errors.Wrap(err, "unable to fetch asset config")
	}
	if !found {
		return 0, 0, errors.Wrapf(vaultv1.ErrUnsupportedAsset, "asset %s is not registered", assetId)
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return 0, 0, errors.Wrap(err, "unable to fetch params")
	}
	if amount.IsNil() || amount.LT(params.MinDeposit) {
		return 0, 0, errors.Wrapf(vaultv1.ErrInvalidAmount, "deposit of %s is below the minimum of %s", amount, params.MinDeposit)
	}
	if minSharesOut.IsNil() {
		minSharesOut = math.ZeroInt()
	}
	if minSharesOut.IsNegative() {
		return 0, 0, errors.Wrap(vaultv1.ErrInvalidRequest, "minimum shares out must be non-negative")
	}

	now := k.header.GetHeaderInfo(ctx).Time

	if receiptId == 0 {
		receiptId, err = k.NextReceiptID(ctx)
		if err != nil {
			return 0, 0, errors.Wrap(err, "unable to allocate receipt id")
		}
		receipt := vaultv1.Receipt{
			Owner:          owner,
			Shares:         math.ZeroInt(),
			ReservedShares: math.ZeroInt(),
			CreatedAt:      now,
		}
		if err := k.SetReceipt(ctx, receiptId, receipt); err != nil {
			return 0, 0, errors.Wrap(err, "unable to persist receipt")
		}
	} else {
		receipt, found, err := k.GetReceipt(ctx, receiptId)
		if err != nil {
			return 0, 0, errors.Wrap(err, "unable to fetch receipt")
		}
		if !found {
			return 0, 0, errors.Wrapf(vaultv1.ErrReceiptNotFound, "receipt %d does not exist", receiptId)
		}
		if receipt.Owner != owner {
			return 0, 0, errors.Wrapf(vaultv1.ErrNotReceiptOwner, "receipt %d belongs to %s", receiptId, receipt.Owner)
		}
	}

	if err := k.bank.SendCoins(ctx, ownerBytes, vaultv1.ModuleAddress, sdk.NewCoins(sdk.NewCoin(assetId, amount))); err != nil {
		return 0, 0, errors.Wrap(err, "unable to escrow deposit")
	}

	requestId, err := k.NextDepositRequestID(ctx)
	if err != nil {
		return 0, 0, errors.Wrap(err, "unable to allocate request id")
	}

	unlockAt := now.Add(time.Duration(params.RequestLockSeconds) * time.Second)
	request := vaultv1.DepositRequest{
		ReceiptId:    receiptId,
		AssetId:      assetId,
		Amount:       amount,
		MinSharesOut: minSharesOut,
		CreatedAt:    now,
		UnlockAt:     unlockAt,
	}
	if err := k.SetDepositRequest(ctx, requestId, request); err != nil {
		return 0, 0, errors.Wrap(err, "unable to persist deposit request")
	}

	k.logger.Debug("deposit requested", "request", requestId, "receipt", receiptId, "asset", assetId, "amount", amount.String())

	err = k.event.EventManager(ctx).Emit(ctx, &vaultv1.EventDepositRequested{
		RequestId: requestId,
		ReceiptId: receiptId,
		Owner:     owner,
		AssetId:   assetId,
		Amount:    amount,
		UnlockAt:  unlockAt,
	})
	return requestId, receiptId, err
}

// RequestWithdraw reserves shares on a receipt and records a pending
// withdrawal. Reserved shares cannot be double-committed by a second
// request or transferred away before settlement. The request settles
// through ExecuteWithdraw once the lock elapses.
func (k *Keeper) RequestWithdraw(ctx context.Context, owner string, receiptId uint64, assetId string, shares, minAmountOut math.Int) (uint64, error) {
	if err := k.requireRequestsOpen(ctx); err != nil {
		return 0, err
	}

	receipt, found, err := k.GetReceipt(ctx, receiptId)
	if err != nil {
		return 0, errors.Wrap(err, "unable to fetch receipt")
	}
	if !found {
		return 0, errors.Wrapf(vaultv1.ErrReceiptNotFound, "receipt %d does not exist", receiptId)
	}
	if receipt.Owner != owner {
		return 0, errors.Wrapf(vaultv1.ErrNotReceiptOwner, "receipt %d belongs to %s", receiptId, receipt.Owner)
	}

	_, found, err = k.GetAssetConfig(ctx, assetId)
	if err != nil {
		return 0, errors.Wrap(err, "unable to fetch asset config")
	}
	if !found {
		return 0, errors.Wrapf(vaultv1.ErrUnsupportedAsset, "asset %s is not registered", assetId)
	}

	if shares.IsNil() || !shares.IsPositive() {
		return 0, errors.Wrap(vaultv1.ErrInvalidAmount, "shares must be positive")
	}
	if available := receipt.AvailableShares(); available.LT(shares) {
		return 0, errors.Wrapf(vaultv1.ErrInvalidAmount, "receipt %d has %s unreserved shares, request needs %s", receiptId, available, shares)
	}
	if minAmountOut.IsNil() {
		minAmountOut = math.ZeroInt()
	}
	if minAmountOut.IsNegative() {
		return 0, errors.Wrap(vaultv1.ErrInvalidRequest, "minimum amount out must be non-negative")
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "unable to fetch params")
	}

	receipt.ReservedShares = receipt.ReservedShares.Add(shares)
	if err := k.SetReceipt(ctx, receiptId, receipt); err != nil {
		return 0, errors.Wrap(err, "unable to persist receipt")
	}

	requestId, err := k.NextWithdrawRequestID(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "unable to allocate request id")
	}

	now := k.header.GetHeaderInfo(ctx).Time
	unlockAt := now.Add(time.Duration(params.RequestLockSeconds) * time.Second)
	request := vaultv1.WithdrawRequest{
		ReceiptId:    receiptId,
		AssetId:      assetId,
		Shares:       shares,
		MinAmountOut: minAmountOut,
		CreatedAt:    now,
		UnlockAt:     unlockAt,
	}
	if err := k.SetWithdrawRequest(ctx, requestId, request); err != nil {
		return 0, errors.Wrap(err, "unable to persist withdraw request")
	}

	k.logger.Debug("withdrawal requested", "request", requestId, "receipt", receiptId, "asset", assetId, "shares", shares.String())

	err = k.event.EventManager(ctx).Emit(ctx, &vaultv1.EventWithdrawRequested{
		RequestId: requestId,
		ReceiptId: receiptId,
		AssetId:   assetId,
		Shares:    shares,
		UnlockAt:  unlockAt,
	})
	return requestId, err
}

// CancelDepositRequest refunds an escrowed deposit to the receipt's
// current owner and removes the request. Cancellation is legal only
// after the lock window elapses, so settlement and cancellation compete
// over the same matured request and the outcome is whichever lands
// first, never both.
func (k *Keeper) CancelDepositRequest(ctx context.Context, caller string, requestId uint64) error {
	if err := k.requireNoOperationWindow(ctx); err != nil {
		return err
	}

	request, found, err := k.GetDepositRequest(ctx, requestId)
	if err != nil {
		return errors.Wrap(err, "unable to fetch deposit request")
	}
	if !found {
		return errors.Wrapf(vaultv1.ErrRequestNotFound, "deposit request %d does not exist", requestId)
	}

	if now := k.header.GetHeaderInfo(ctx).Time; now.Before(request.UnlockAt) {
		return errors.Wrapf(vaultv1.ErrRequestLocked, "deposit request %d unlocks at %s", requestId, request.UnlockAt)
	}

	receipt, found, err := k.GetReceipt(ctx, request.ReceiptId)
	if err != nil {
		return errors.Wrap(err, "unable to fetch receipt")
	}
	if !found {
		return errors.Wrapf(vaultv1.ErrReceiptNotFound, "receipt %d does not exist", request.ReceiptId)
	}
	if receipt.Owner != caller {
		return errors.Wrapf(vaultv1.ErrNotReceiptOwner, "receipt %d belongs to %s", receipt.Id, receipt.Owner)
	}

	owner, err := k.address.StringToBytes(receipt.Owner)
	if err != nil {
		return errors.Wrapf(vaultv1.ErrInvalidRequest, "invalid receipt owner %s", receipt.Owner)
	}
	if err := k.bank.SendCoins(ctx, vaultv1.ModuleAddress, owner, sdk.NewCoins(sdk.NewCoin(request.AssetId, request.Amount))); err != nil {
		return errors.Wrap(err, "unable to refund deposit")
	}

	if err := k.DeleteDepositRequest(ctx, requestId); err != nil {
		return errors.Wrap(err, "unable to delete deposit request")
	}

	k.logger.Debug("deposit cancelled", "request", requestId, "receipt", receipt.Id)

	return k.event.EventManager(ctx).Emit(ctx, &vaultv1.EventDepositCancelled{
		RequestId: requestId,
		ReceiptId: receipt.Id,
		AssetId:   request.AssetId,
		Amount:    request.Amount,
	})
}

// CancelWithdrawRequest releases the reserved shares back to the
// receipt and removes the request. Legal only after the lock window
// elapses, like deposit cancellation.
func (k *Keeper) CancelWithdrawRequest(ctx context.Context, caller string, requestId uint64) error {
	if err := k.requireNoOperationWindow(ctx); err != nil {
		return err
	}

	request, found, err := k.GetWithdrawRequest(ctx, requestId)
	if err != nil {
		return errors.Wrap(err, "unable to fetch withdraw request")
	}
	if !found {
		return errors.Wrapf(vaultv1.ErrRequestNotFound, "withdraw request %d does not exist", requestId)
	}

	if now := k.header.GetHeaderInfo(ctx).Time; now.Before(request.UnlockAt) {
		return errors.Wrapf(vaultv1.ErrRequestLocked, "withdraw request %d unlocks at %s", requestId, request.UnlockAt)
	}

	receipt, found, err := k.GetReceipt(ctx, request.ReceiptId)
	if err != nil {
		return errors.Wrap(err, "unable to fetch receipt")
	}
	if !found {
		return errors.Wrapf(vaultv1.ErrReceiptNotFound, "receipt %d does not exist", request.ReceiptId)
	}
	if receipt.Owner != caller {
		return errors.Wrapf(vaultv1.ErrNotReceiptOwner, "receipt %d belongs to %s", receipt.Id, receipt.Owner)
	}
	if receipt.ReservedShares.LT(request.Shares) {
		return errors.Wrapf(vaultv1.ErrInvalidState, "receipt %d reserves %s shares, request releases %s", receipt.Id, receipt.ReservedShares, request.Shares)
	}

	receipt.ReservedShares = receipt.ReservedShares.Sub(request.Shares)
	if err := k.SetReceipt(ctx, receipt.Id, receipt); err != nil {
		return errors.Wrap(err, "unable to persist receipt")
	}

	if err := k.DeleteWithdrawRequest(ctx, requestId); err != nil {
		return errors.Wrap(err, "unable to delete withdraw request")
	}

	k.logger.Debug("withdrawal cancelled", "request", requestId, "receipt", receipt.Id)

	return k.event.EventManager(ctx).Emit(ctx, &vaultv1.EventWithdrawCancelled{
		RequestId: requestId,
		ReceiptId: receipt.Id,
		Shares:    request.Shares,
	})
}

// TransferReceipt moves receipt ownership. Pending requests travel with
// the receipt: settlements and refunds after the transfer pay the new
// owner. Reserved shares transfer reserved.
func (k *Keeper) TransferReceipt(ctx context.Context, from, to string, receiptId uint64) error {
	receipt, found, err := k.GetReceipt(ctx, receiptId)
	if err != nil {
		return errors.Wrap(err, "unable to fetch receipt")
	}
	if !found {
		return errors.Wrapf(vaultv1.ErrReceiptNotFound, "receipt %d does not exist", receiptId)
	}
	if receipt.Owner != from {
		return errors.Wrapf(vaultv1.ErrNotReceiptOwner, "receipt %d belongs to %s", receiptId, receipt.Owner)
	}
	if _, err := k.address.StringToBytes(to); err != nil {
		return errors.Wrapf(vaultv1.ErrInvalidRequest, "invalid recipient address %s", to)
	}
	if to == from {
		return errors.Wrap(vaultv1.ErrInvalidRequest, "recipient equals current owner")
	}

	receipt.Owner = to
	if err := k.SetReceipt(ctx, receiptId, receipt); err != nil {
		return errors.Wrap(err, "unable to persist receipt")
	}

	k.logger.Debug("receipt transferred", "receipt", receiptId, "from", from, "to", to)

	return k.event.EventManager(ctx).Emit(ctx, &vaultv1.EventReceiptTransferred{
		ReceiptId: receiptId,
		From:      from,
		To:        to,
	})
}

// requireRequestsOpen gates request creation: new requests are accepted
// in the normal state and while an operation window is open, but not
// while the vault is disabled.
func (k *Keeper) requireRequestsOpen(ctx context.Context) error {
	state, err := k.GetVaultState(ctx)
	if err != nil {
		return errors.Wrap(err, "unable to fetch vault state")
	}
	if state.Status == vaultv1.VAULT_STATUS_DISABLED {
		return errors.Wrap(vaultv1.ErrVaultDisabled, "vault is disabled")
	}

	return nil
}

// requireNoOperationWindow gates request cancellation: escrow and
// reservations stay put while an operation window is open so the
// operator's loss accounting settles against a stable book.
func (k *Keeper) requireNoOperationWindow(ctx context.Context) error {
	state, err := k.GetVaultState(ctx)
	if err != nil {
		return errors.Wrap(err, "unable to fetch vault state")
	}
	if state.Status == vaultv1.VAULT_STATUS_DURING_OPERATION {
		return errors.Wrapf(vaultv1.ErrInvalidState, "operation window held by %s is open", state.ActiveOperator)
	}

	return nil
}
