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

// BeginOperation opens an operation window for a registered, unfrozen
// operator. While the window is open the operator re-marks asset values
// and user settlement is paused. Opening the first window of an epoch
// snapshots the loss base value from the stored valuations, without the
// staleness check, so a window can always be opened to refresh stale
// positions.
func (k *Keeper) BeginOperation(ctx context.Context, operator string) error {
	registered, err := k.IsOperator(ctx, operator)
	if err != nil {
		return errors.Wrap(err, "unable to fetch operator registry")
	}
	if !registered {
		return errors.Wrapf(vaultv1.ErrUnauthorized, "%s is not a registered operator", operator)
	}
	frozen, err := k.IsOperatorFrozen(ctx, operator)
	if err != nil {
		return errors.Wrap(err, "unable to fetch operator freeze state")
	}
	if frozen {
		return errors.Wrapf(vaultv1.ErrOperatorFrozen, "operator %s is frozen", operator)
	}

	state, err := k.GetVaultState(ctx)
	if err != nil {
		return errors.Wrap(err, "unable to fetch vault state")
	}
	if state.Status != vaultv1.VAULT_STATUS_NORMAL {
		return errors.Wrapf(vaultv1.ErrInvalidState, "cannot begin an operation while the vault is %s", state.Status)
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return errors.Wrap(err, "unable to fetch params")
	}

	now := k.header.GetHeaderInfo(ctx).Time
	baseValue, err := k.storedTotalValue(ctx)
	if err != nil {
		return err
	}

	epoch := uint64(now.Unix()) / params.EpochSeconds
	if epoch != state.CurEpoch || state.CurEpochLossBaseValue.IsZero() {
		state.CurEpoch = epoch
		state.CurEpochLoss = math.ZeroInt()
		state.CurEpochLossBaseValue = baseValue
	}

	state.Status = vaultv1.VAULT_STATUS_DURING_OPERATION
	state.ActiveOperator = operator
	state.OperationBeganAt = now
	state.OperationBeginValue = baseValue
	if err := k.SetVaultState(ctx, state); err != nil {
		return errors.Wrap(err, "unable to persist vault state")
	}

	lossLimit, err := vaultv1.LossLimit(state.CurEpochLossBaseValue, params.LossToleranceBps)
	if err != nil {
		return err
	}

	k.logger.Info("operation window opened", "operator", operator, "epoch", epoch, "base_value", baseValue.String())

	return k.event.EventManager(ctx).Emit(ctx, &vaultv1.EventOperationBegan{
		Operator:  operator,
		Epoch:     state.CurEpoch,
		BaseValue: state.CurEpochLossBaseValue,
		LossLimit: lossLimit,
		Timestamp: now,
	})
}

// EndOperation closes the open window, charging the realized loss
// against the epoch's budget. Only the operator that opened the window
// may close it, and their freeze state is deliberately not re-checked:
// a freeze landed mid-flight bars the operator from the next window but
// can never strand the vault in the open one. The share supply
// checkpoint must match the stored supply, so a window cannot settle
// over a book it did not observe.
//
// A loss beyond the budget leaves the window open and the state
// untouched: the operator unwinds external positions, re-marks values,
// and calls EndOperation again with figures inside the budget.
func (k *Keeper) EndOperation(ctx context.Context, operator string, observedBefore, observedAfter, expectedTotalShares math.Int) error {
	state, err := k.GetVaultState(ctx)
	if err != nil {
		return errors.Wrap(err, "unable to fetch vault state")
	}
	if state.Status != vaultv1.VAULT_STATUS_DURING_OPERATION {
		return errors.Wrapf(vaultv1.ErrInvalidState, "no operation window is open, vault is %s", state.Status)
	}
	if state.ActiveOperator != operator {
		return errors.Wrapf(vaultv1.ErrUnauthorized, "operation window is held by %s", state.ActiveOperator)
	}

	if observedBefore.IsNil() || observedBefore.IsNegative() || observedAfter.IsNil() || observedAfter.IsNegative() {
		return errors.Wrap(vaultv1.ErrInvalidAmount, "observed values must be non-negative")
	}
	if expectedTotalShares.IsNil() || !expectedTotalShares.Equal(state.TotalShares) {
		return errors.Wrapf(vaultv1.ErrInvalidState, "share supply checkpoint %s does not match stored supply %s", expectedTotalShares, state.TotalShares)
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return errors.Wrap(err, "unable to fetch params")
	}

	loss := math.ZeroInt()
	if observedBefore.GT(observedAfter) {
		loss = observedBefore.Sub(observedAfter)
	}

	epochLoss, err := state.CurEpochLoss.SafeAdd(loss)
	if err != nil {
		return errors.Wrap(vaultv1.ErrOverflow, "epoch loss overflow")
	}

	lossLimit, err := vaultv1.LossLimit(state.CurEpochLossBaseValue, params.LossToleranceBps)
	if err != nil {
		return err
	}
	if epochLoss.GT(lossLimit) {
		return errors.Wrapf(vaultv1.ErrLossLimitExceeded,
			"epoch loss of %s exceeds the limit of %s, unwind positions and close the window with better figures",
			epochLoss, lossLimit)
	}

	totalValue, err := k.storedTotalValue(ctx)
	if err != nil {
		return err
	}

	state.CurEpochLoss = epochLoss
	state.Status = vaultv1.VAULT_STATUS_NORMAL
	state.ActiveOperator = ""
	state.OperationBeganAt = time.Time{}
	state.OperationBeginValue = math.ZeroInt()
	if err := k.SetVaultState(ctx, state); err != nil {
		return errors.Wrap(err, "unable to persist vault state")
	}

	k.logger.Info("operation window closed",
		"operator", operator,
		"epoch", state.CurEpoch,
		"loss", loss.String(),
		"epoch_loss", epochLoss.String(),
	)

	return k.event.EventManager(ctx).Emit(ctx, &vaultv1.EventOperationEnded{
		Operator:    operator,
		Epoch:       state.CurEpoch,
		Loss:        loss,
		EpochLoss:   epochLoss,
		TotalValue:  totalValue,
		TotalShares: state.TotalShares,
	})
}

// ForceEndOperation is the authority's escape hatch for a window whose
// operator can no longer close it. It bypasses the operator identity
// and freeze checks and charges no loss: the stored valuations stand as
// the operator left them, and the next window settles against them.
func (k *Keeper) ForceEndOperation(ctx context.Context, signer string) error {
	if signer != k.authority {
		return errors.Wrapf(vaultv1.ErrUnauthorized, "%s is not the authority", signer)
	}

	state, err := k.GetVaultState(ctx)
	if err != nil {
		return errors.Wrap(err, "unable to fetch vault state")
	}
	if state.Status != vaultv1.VAULT_STATUS_DURING_OPERATION {
		return errors.Wrapf(vaultv1.ErrInvalidState, "no operation window is open, vault is %s", state.Status)
	}

	operator := state.ActiveOperator
	state.Status = vaultv1.VAULT_STATUS_NORMAL
	state.ActiveOperator = ""
	state.OperationBeganAt = time.Time{}
	state.OperationBeginValue = math.ZeroInt()
	if err := k.SetVaultState(ctx, state); err != nil {
		return errors.Wrap(err, "unable to persist vault state")
	}

	k.logger.Warn("operation window force closed", "authority", signer, "operator", operator)

	return k.event.EventManager(ctx).Emit(ctx, &vaultv1.EventOperationForceEnded{
		Authority: signer,
		Operator:  operator,
		Epoch:     state.CurEpoch,
	})
}

// ResetEpochLoss zeroes the accumulated epoch loss and re-snapshots the
// base value. An explicit authority action, for recovering a vault whose
// budget was consumed by a loss governance has accepted.
func (k *Keeper) ResetEpochLoss(ctx context.Context, signer string) error {
	if signer != k.authority {
		return errors.Wrapf(vaultv1.ErrUnauthorized, "%s is not the authority", signer)
	}

	state, err := k.GetVaultState(ctx)
	if err != nil {
		return errors.Wrap(err, "unable to fetch vault state")
	}

	baseValue, err := k.storedTotalValue(ctx)
	if err != nil {
		return err
	}

	state.CurEpochLoss = math.ZeroInt()
	state.CurEpochLossBaseValue = baseValue
	if err := k.SetVaultState(ctx, state); err != nil {
		return errors.Wrap(err, "unable to persist vault state")
	}

	k.logger.Warn("epoch loss reset", "authority", signer, "base_value", baseValue.String())
	return nil
}

// RegisterOperator grants an address the right to open operation
// windows and mark asset values.
func (k *Keeper) RegisterOperator(ctx context.Context, signer, operator string) error {
	if signer != k.authority {
		return errors.Wrapf(vaultv1.ErrUnauthorized, "%s is not the authority", signer)
	}
	if _, err := k.address.StringToBytes(operator); err != nil {
		return errors.Wrapf(vaultv1.ErrInvalidRequest, "invalid operator address %s", operator)
	}

	registered, err := k.IsOperator(ctx, operator)
	if err != nil {
		return errors.Wrap(err, "unable to fetch operator registry")
	}
	if registered {
		return errors.Wrapf(vaultv1.ErrInvalidRequest, "operator %s is already registered", operator)
	}

	if err := k.Operators.Set(ctx, operator, true); err != nil {
		return errors.Wrap(err, "unable to persist operator")
	}

	k.logger.Info("operator registered", "operator", operator)

	return k.event.EventManager(ctx).Emit(ctx, &vaultv1.EventOperatorRegistered{Operator: operator})
}

// RemoveOperator deregisters an operator. The open window of a removed
// operator, if any, stays closable by them: removal gates new windows,
// ForceEndOperation handles abandoned ones.
func (k *Keeper) RemoveOperator(ctx context.Context, signer, operator string) error {
	if signer != k.authority {
		return errors.Wrapf(vaultv1.ErrUnauthorized, "%s is not the authority", signer)
	}

	registered, err := k.IsOperator(ctx, operator)
	if err != nil {
		return errors.Wrap(err, "unable to fetch operator registry")
	}
	if !registered {
		return errors.Wrapf(vaultv1.ErrInvalidRequest, "operator %s is not registered", operator)
	}

	if err := k.Operators.Remove(ctx, operator); err != nil {
		return errors.Wrap(err, "unable to remove operator")
	}

	k.logger.Info("operator removed", "operator", operator)

	return k.event.EventManager(ctx).Emit(ctx, &vaultv1.EventOperatorRemoved{Operator: operator})
}

// FreezeOperator bars an operator from opening windows and marking
// values. The bar takes effect at the next BeginOperation: an open
// window held by the frozen operator remains theirs to close.
func (k *Keeper) FreezeOperator(ctx context.Context, signer, operator string) error {
	if signer != k.authority {
		return errors.Wrapf(vaultv1.ErrUnauthorized, "%s is not the authority", signer)
	}

	registered, err := k.IsOperator(ctx, operator)
	if err != nil {
		return errors.Wrap(err, "unable to fetch operator registry")
	}
	if !registered {
		return errors.Wrapf(vaultv1.ErrInvalidRequest, "operator %s is not registered", operator)
	}

	if err := k.FrozenOperators.Set(ctx, operator, true); err != nil {
		return errors.Wrap(err, "unable to persist operator freeze")
	}

	k.logger.Warn("operator frozen", "operator", operator)

	return k.event.EventManager(ctx).Emit(ctx, &vaultv1.EventOperatorFrozen{Operator: operator})
}

// UnfreezeOperator lifts an operator freeze.
func (k *Keeper) UnfreezeOperator(ctx context.Context, signer, operator string) error {
	if signer != k.authority {
		return errors.Wrapf(vaultv1.ErrUnauthorized, "%s is not the authority", signer)
	}

	frozen, err := k.IsOperatorFrozen(ctx, operator)
	if err != nil {
		return errors.Wrap(err, "unable to fetch operator freeze state")
	}
	if !frozen {
		return errors.Wrapf(vaultv1.ErrInvalidRequest, "operator %s is not frozen", operator)
	}

	if err := k.FrozenOperators.Remove(ctx, operator); err != nil {
		return errors.Wrap(err, "unable to remove operator freeze")
	}

	k.logger.Info("operator unfrozen", "operator", operator)

	return k.event.EventManager(ctx).Emit(ctx, &vaultv1.EventOperatorUnfrozen{Operator: operator})
}

// DisableVault halts new requests and settlement. Only a vault in its
// normal state can be disabled: disabling mid-operation would freeze
// the operator's custody of external positions with no legal path back.
func (k *Keeper) DisableVault(ctx context.Context, signer string) error {
	if signer != k.authority {
		return errors.Wrapf(vaultv1.ErrUnauthorized, "%s is not the authority", signer)
	}

	state, err := k.GetVaultState(ctx)
	if err != nil {
		return errors.Wrap(err, "unable to fetch vault state")
	}
	if state.Status != vaultv1.VAULT_STATUS_NORMAL {
		return errors.Wrapf(vaultv1.ErrInvalidState, "cannot disable the vault while it is %s", state.Status)
	}

	state.Status = vaultv1.VAULT_STATUS_DISABLED
	if err := k.SetVaultState(ctx, state); err != nil {
		return errors.Wrap(err, "unable to persist vault state")
	}

	k.logger.Warn("vault disabled", "authority", signer)

	return k.event.EventManager(ctx).Emit(ctx, &vaultv1.EventVaultDisabled{Authority: signer})
}

// EnableVault restores a disabled vault to its normal state.
func (k *Keeper) EnableVault(ctx context.Context, signer string) error {
	if signer != k.authority {
		return errors.Wrapf(vaultv1.ErrUnauthorized, "%s is not the authority", signer)
	}

	state, err := k.GetVaultState(ctx)
	if err != nil {
		return errors.Wrap(err, "unable to fetch vault state")
	}
	if state.Status != vaultv1.VAULT_STATUS_DISABLED {
		return errors.Wrapf(vaultv1.ErrInvalidState, "cannot enable the vault while it is %s", state.Status)
	}

	state.Status = vaultv1.VAULT_STATUS_NORMAL
	if err := k.SetVaultState(ctx, state); err != nil {
		return errors.Wrap(err, "unable to persist vault state")
	}

	k.logger.Info("vault enabled", "authority", signer)

	return k.event.EventManager(ctx).Emit(ctx, &vaultv1.EventVaultEnabled{Authority: signer})
}

// UpdateParams replaces the vault parameters wholesale.
func (k *Keeper) UpdateParams(ctx context.Context, signer string, params vaultv1.Params) error {
	if signer != k.authority {
		return errors.Wrapf(vaultv1.ErrUnauthorized, "%s is not the authority", signer)
	}
	if err := params.Validate(); err != nil {
		return errors.Wrap(vaultv1.ErrInvalidRequest, err.Error())
	}

	previous, err := k.GetParams(ctx)
	if err != nil {
		return errors.Wrap(err, "unable to fetch params")
	}

	if err := k.SetParams(ctx, params); err != nil {
		return errors.Wrap(err, "unable to persist params")
	}

	if previous.LossToleranceBps != params.LossToleranceBps {
		if err := k.event.EventManager(ctx).Emit(ctx, &vaultv1.EventLossToleranceUpdated{
			PreviousBps: previous.LossToleranceBps,
			NewBps:      params.LossToleranceBps,
		}); err != nil {
			return err
		}
	}

	k.logger.Info("params updated", "authority", signer)
	return nil
}

// CollectFees drains the accumulated fees of one asset from the module
// escrow to a recipient.
func (k *Keeper) CollectFees(ctx context.Context, signer, assetId, recipient string) error {
	if signer != k.authority {
		return errors.Wrapf(vaultv1.ErrUnauthorized, "%s is not the authority", signer)
	}

	recipientBytes, err := k.address.StringToBytes(recipient)
	if err != nil {
		return errors.Wrapf(vaultv1.ErrInvalidRequest, "invalid recipient address %s", recipient)
	}

	fees, err := k.GetCollectedFees(ctx, assetId)
	if err != nil {
		return errors.Wrap(err, "unable to fetch collected fees")
	}
	if !fees.IsPositive() {
		return errors.Wrapf(vaultv1.ErrInvalidAmount, "no fees collected for %s", assetId)
	}

	if err := k.bank.SendCoins(ctx, vaultv1.ModuleAddress, recipientBytes, sdk.NewCoins(sdk.NewCoin(assetId, fees))); err != nil {
		return errors.Wrap(err, "unable to pay out fees")
	}

	if err := k.CollectedFees.Set(ctx, assetId, math.ZeroInt()); err != nil {
		return errors.Wrap(err, "unable to reset fee accumulator")
	}

	k.logger.Info("fees collected", "asset", assetId, "amount", fees.String(), "recipient", recipient)

	return k.event.EventManager(ctx).Emit(ctx, &vaultv1.EventFeesCollected{
		AssetId:   assetId,
		Amount:    fees,
		Recipient: recipient,
	})
}
