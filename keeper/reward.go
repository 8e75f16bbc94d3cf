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

// CreateRewardDistribution funds a linear emission buffer for one asset.
// The funding amount is escrowed with the module up front; the buffer
// releases it over time through AccrueReward at the configured rate.
func (k *Keeper) CreateRewardDistribution(ctx context.Context, signer, assetId string, rate math.LegacyDec, amount, minDistribution math.Int) (uint64, error) {
	if signer != k.authority {
		return 0, errors.Wrapf(vaultv1.ErrUnauthorized, "%s is not the authority", signer)
	}

	_, found, err := k.GetAssetConfig(ctx, assetId)
	if err != nil {
		return 0, errors.Wrap(err, "unable to fetch asset config")
	}
	if !found {
		return 0, errors.Wrapf(vaultv1.ErrUnsupportedAsset, "asset %s is not registered", assetId)
	}

	if rate.IsNil() || !rate.IsPositive() {
		return 0, errors.Wrap(vaultv1.ErrInvalidAmount, "emission rate must be positive")
	}
	if amount.IsNil() || !amount.IsPositive() {
		return 0, errors.Wrap(vaultv1.ErrInvalidAmount, "funding amount must be positive")
	}
	if minDistribution.IsNil() || minDistribution.IsNegative() {
		return 0, errors.Wrap(vaultv1.ErrInvalidAmount, "dust threshold must be non-negative")
	}

	signerBytes, err := k.address.StringToBytes(signer)
	if err != nil {
		return 0, errors.Wrapf(vaultv1.ErrInvalidRequest, "invalid signer address %s", signer)
	}
	if err := k.bank.SendCoins(ctx, signerBytes, vaultv1.ModuleAddress, sdk.NewCoins(sdk.NewCoin(assetId, amount))); err != nil {
		return 0, errors.Wrap(err, "unable to escrow reward funding")
	}

	rewardId, err := k.NextRewardID(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "unable to allocate reward id")
	}

	now := k.header.GetHeaderInfo(ctx).Time
	reward := vaultv1.RewardDistribution{
		AssetId:            assetId,
		RatePerSecond:      rate,
		Remaining:          amount,
		PendingRecognition: math.ZeroInt(),
		MinDistribution:    minDistribution,
		LastUpdated:        now,
	}
	if err := k.SetReward(ctx, rewardId, reward); err != nil {
		return 0, errors.Wrap(err, "unable to persist reward distribution")
	}

	k.logger.Info("reward distribution created", "reward", rewardId, "asset", assetId, "amount", amount.String())

	err = k.event.EventManager(ctx).Emit(ctx, &vaultv1.EventRewardCreated{
		RewardId:      rewardId,
		AssetId:       assetId,
		Amount:        amount,
		RatePerSecond: rate,
	})
	return rewardId, err
}

// TopUpRewardDistribution escrows additional funding into an existing
// buffer without touching its rate or clock.
func (k *Keeper) TopUpRewardDistribution(ctx context.Context, signer string, rewardId uint64, amount math.Int) error {
	if signer != k.authority {
		return errors.Wrapf(vaultv1.ErrUnauthorized, "%s is not the authority", signer)
	}
	if amount.IsNil() || !amount.IsPositive() {
		return errors.Wrap(vaultv1.ErrInvalidAmount, "funding amount must be positive")
	}

	reward, found, err := k.GetReward(ctx, rewardId)
	if err != nil {
		return errors.Wrap(err, "unable to fetch reward distribution")
	}
	if !found {
		return errors.Wrapf(vaultv1.ErrRequestNotFound, "reward distribution %d does not exist", rewardId)
	}

	signerBytes, err := k.address.StringToBytes(signer)
	if err != nil {
		return errors.Wrapf(vaultv1.ErrInvalidRequest, "invalid signer address %s", signer)
	}
	if err := k.bank.SendCoins(ctx, signerBytes, vaultv1.ModuleAddress, sdk.NewCoins(sdk.NewCoin(reward.AssetId, amount))); err != nil {
		return errors.Wrap(err, "unable to escrow reward funding")
	}

	reward.Remaining, err = reward.Remaining.SafeAdd(amount)
	if err != nil {
		return errors.Wrap(vaultv1.ErrOverflow, "reward balance overflow")
	}
	if err := k.SetReward(ctx, rewardId, reward); err != nil {
		return errors.Wrap(err, "unable to persist reward distribution")
	}

	return k.event.EventManager(ctx).Emit(ctx, &vaultv1.EventRewardToppedUp{
		RewardId:  rewardId,
		Amount:    amount,
		Remaining: reward.Remaining,
	})
}

// AccrueReward releases the linear emission earned since the last call
// and returns the amount released. Elapsed time is capped before the
// rate multiplication, so an idle buffer can never overflow on its
// first touch. The clock advances on every call: an accrual below the
// dust threshold releases nothing, forfeits that window's emission, and
// still moves LastUpdated to now. A clock advanced only on the
// distributing branch would recompute the same sub-dust amount forever
// and strand the remaining balance.
func (k *Keeper) AccrueReward(ctx context.Context, rewardId uint64) (math.Int, error) {
	reward, found, err := k.GetReward(ctx, rewardId)
	if err != nil {
		return math.ZeroInt(), errors.Wrap(err, "unable to fetch reward distribution")
	}
	if !found {
		return math.ZeroInt(), errors.Wrapf(vaultv1.ErrRequestNotFound, "reward distribution %d does not exist", rewardId)
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return math.ZeroInt(), errors.Wrap(err, "unable to fetch params")
	}

	now := k.header.GetHeaderInfo(ctx).Time
	elapsed := vaultv1.CappedElapsedSeconds(now, reward.LastUpdated, params.MaxRewardAccrualSeconds)

	accrued := reward.RatePerSecond.MulInt64(elapsed).TruncateInt()
	if accrued.GT(reward.Remaining) {
		accrued = reward.Remaining
	}

	distributed := math.ZeroInt()
	if accrued.IsPositive() && accrued.GTE(reward.MinDistribution) {
		distributed = accrued
		reward.Remaining = reward.Remaining.Sub(accrued)
		reward.PendingRecognition, err = reward.PendingRecognition.SafeAdd(accrued)
		if err != nil {
			return math.ZeroInt(), errors.Wrap(vaultv1.ErrOverflow, "pending recognition overflow")
		}
	}

	reward.LastUpdated = now
	if err := k.SetReward(ctx, rewardId, reward); err != nil {
		return math.ZeroInt(), errors.Wrap(err, "unable to persist reward distribution")
	}

	if distributed.IsZero() {
		return distributed, nil
	}

	k.logger.Debug("reward accrued", "reward", rewardId, "amount", distributed.String(), "elapsed", elapsed)

	err = k.event.EventManager(ctx).Emit(ctx, &vaultv1.EventRewardAccrued{
		RewardId:       rewardId,
		AssetId:        reward.AssetId,
		Amount:         distributed,
		ElapsedSeconds: elapsed,
		Timestamp:      now,
	})
	return distributed, err
}

// RecognizeRewards folds a buffer's accrued emissions into the asset's
// valuation at the current validated price, surfacing them in the share
// ratio. Recognition only happens inside an operation window, under the
// same serialization as every other valuation change, so buffered
// emissions can never move the ratio under an in-flight settlement.
func (k *Keeper) RecognizeRewards(ctx context.Context, operator string, rewardId uint64) error {
	state, err := k.GetVaultState(ctx)
	if err != nil {
		return errors.Wrap(err, "unable to fetch vault state")
	}
	if state.Status != vaultv1.VAULT_STATUS_DURING_OPERATION {
		return errors.Wrapf(vaultv1.ErrInvalidState, "rewards are recognized inside an operation window, vault is %s", state.Status)
	}
	if err := k.requireValuationAccess(ctx, operator); err != nil {
		return err
	}

	reward, found, err := k.GetReward(ctx, rewardId)
	if err != nil {
		return errors.Wrap(err, "unable to fetch reward distribution")
	}
	if !found {
		return errors.Wrapf(vaultv1.ErrRequestNotFound, "reward distribution %d does not exist", rewardId)
	}
	if !reward.PendingRecognition.IsPositive() {
		return errors.Wrapf(vaultv1.ErrInvalidAmount, "reward distribution %d has nothing to recognize", rewardId)
	}

	quote, err := k.GetAssetPrice(ctx, reward.AssetId)
	if err != nil {
		return err
	}

	value, err := vaultv1.AssetValue(reward.PendingRecognition, quote.Price, quote.Decimals)
	if err != nil {
		return err
	}

	valuation, found, err := k.GetAssetValuation(ctx, reward.AssetId)
	if err != nil {
		return errors.Wrap(err, "unable to fetch valuation")
	}
	if !found {
		return errors.Wrapf(vaultv1.ErrUnsupportedAsset, "asset %s is not registered", reward.AssetId)
	}

	now := k.header.GetHeaderInfo(ctx).Time
	valuation.Value, err = valuation.Value.SafeAdd(value)
	if err != nil {
		return errors.Wrap(vaultv1.ErrOverflow, "asset valuation overflow")
	}
	valuation.UpdatedAt = now
	if err := k.SetAssetValuation(ctx, reward.AssetId, valuation); err != nil {
		return errors.Wrap(err, "unable to persist valuation")
	}

	recognized := reward.PendingRecognition
	reward.PendingRecognition = math.ZeroInt()
	if err := k.SetReward(ctx, rewardId, reward); err != nil {
		return errors.Wrap(err, "unable to persist reward distribution")
	}

	k.logger.Info("rewards recognized", "reward", rewardId, "asset", reward.AssetId, "amount", recognized.String(), "value", value.String())

	return k.event.EventManager(ctx).Emit(ctx, &vaultv1.EventAssetValueUpdated{
		AssetId:       reward.AssetId,
		PreviousValue: valuation.Value.Sub(value),
		NewValue:      valuation.Value,
		Timestamp:     now,
	})
}
