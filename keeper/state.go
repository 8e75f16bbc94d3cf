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
	"errors"

	"cosmossdk.io/collections"
	"cosmossdk.io/math"

	vaultv1 "vault.basinlabs.xyz/types/vault/v1"
)

// GetParams returns the currently configured vault parameters. When no
// parameters have been stored yet the defaults are returned without
// error.
func (k *Keeper) GetParams(ctx context.Context) (vaultv1.Params, error) {
	params, err := k.Params.Get(ctx)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return vaultv1.DefaultParams(), nil
		}
		return vaultv1.Params{}, err
	}

	return params, nil
}

// SetParams persists the supplied params to state.
func (k *Keeper) SetParams(ctx context.Context, params vaultv1.Params) error {
	return k.Params.Set(ctx, params)
}

// GetVaultState fetches the aggregate vault state from storage. If the
// state has not been initialised yet a default instance is returned so
// callers can update it safely.
func (k *Keeper) GetVaultState(ctx context.Context) (vaultv1.VaultState, error) {
	state, err := k.VaultState.Get(ctx)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return vaultv1.DefaultVaultState(), nil
		}
		return vaultv1.VaultState{}, err
	}

	return state, nil
}

// SetVaultState persists the aggregate vault state.
func (k *Keeper) SetVaultState(ctx context.Context, state vaultv1.VaultState) error {
	return k.VaultState.Set(ctx, state)
}

// GetAssetConfig returns the registration entry of an asset type.
func (k *Keeper) GetAssetConfig(ctx context.Context, assetId string) (vaultv1.AssetConfig, bool, error) {
	config, err := k.AssetConfigs.Get(ctx, assetId)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return vaultv1.AssetConfig{}, false, nil
		}
		return vaultv1.AssetConfig{}, false, err
	}

	return config, true, nil
}

// SetAssetConfig persists an asset registration entry.
func (k *Keeper) SetAssetConfig(ctx context.Context, assetId string, config vaultv1.AssetConfig) error {
	return k.AssetConfigs.Set(ctx, assetId, config)
}

// GetAssetValuation returns the stored valuation of an asset type.
func (k *Keeper) GetAssetValuation(ctx context.Context, assetId string) (vaultv1.AssetValuation, bool, error) {
	valuation, err := k.AssetValues.Get(ctx, assetId)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return vaultv1.AssetValuation{}, false, nil
		}
		return vaultv1.AssetValuation{}, false, err
	}

	return valuation, true, nil
}

// SetAssetValuation persists the valuation of an asset type.
func (k *Keeper) SetAssetValuation(ctx context.Context, assetId string, valuation vaultv1.AssetValuation) error {
	return k.AssetValues.Set(ctx, assetId, valuation)
}

// GetAssetCount returns the number of registered asset types.
func (k *Keeper) GetAssetCount(ctx context.Context) (uint64, error) {
	count, err := k.AssetCount.Get(ctx)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}

	return count, nil
}

// GetRegisteredAssets returns all registered asset identifiers in
// registration order.
func (k *Keeper) GetRegisteredAssets(ctx context.Context) ([]string, error) {
	var assets []string
	err := k.AssetIndex.Walk(ctx, nil, func(_ uint64, assetId string) (bool, error) {
		assets = append(assets, assetId)
		return false, nil
	})

	return assets, err
}

// GetPriceEntry returns the stored price of an asset type.
func (k *Keeper) GetPriceEntry(ctx context.Context, assetId string) (vaultv1.PriceEntry, bool, error) {
	entry, err := k.Prices.Get(ctx, assetId)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return vaultv1.PriceEntry{}, false, nil
		}
		return vaultv1.PriceEntry{}, false, err
	}

	return entry, true, nil
}

// SetPriceEntry persists the price of an asset type.
func (k *Keeper) SetPriceEntry(ctx context.Context, assetId string, entry vaultv1.PriceEntry) error {
	return k.Prices.Set(ctx, assetId, entry)
}

// GetReceipt returns the deposit receipt stored under the provided id.
func (k *Keeper) GetReceipt(ctx context.Context, id uint64) (vaultv1.Receipt, bool, error) {
	receipt, err := k.Receipts.Get(ctx, id)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return vaultv1.Receipt{}, false, nil
		}
		return vaultv1.Receipt{}, false, err
	}

	return receipt, true, nil
}

// SetReceipt stores a deposit receipt under the provided id.
func (k *Keeper) SetReceipt(ctx context.Context, id uint64, receipt vaultv1.Receipt) error {
	receipt.Id = id
	return k.Receipts.Set(ctx, id, receipt)
}

// DeleteReceipt removes a deposit receipt.
func (k *Keeper) DeleteReceipt(ctx context.Context, id uint64) error {
	return k.Receipts.Remove(ctx, id)
}

// NextReceiptID increments and returns the next receipt identifier.
// Identifiers start at one for readability when exposed to users.
func (k *Keeper) NextReceiptID(ctx context.Context) (uint64, error) {
	next, err := k.ReceiptNextID.Get(ctx)
	if err != nil {
		if !errors.Is(err, collections.ErrNotFound) {
			return 0, err
		}

		next = 1
	} else {
		next++
	}

	if err := k.ReceiptNextID.Set(ctx, next); err != nil {
		return 0, err
	}

	return next, nil
}

// IterateReceipts walks all receipts in id order.
func (k *Keeper) IterateReceipts(ctx context.Context, fn func(id uint64, receipt vaultv1.Receipt) (bool, error)) error {
	return k.Receipts.Walk(ctx, nil, fn)
}

// GetDepositRequest returns the pending deposit stored under the
// provided id.
func (k *Keeper) GetDepositRequest(ctx context.Context, id uint64) (vaultv1.DepositRequest, bool, error) {
	request, err := k.DepositRequests.Get(ctx, id)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return vaultv1.DepositRequest{}, false, nil
		}
		return vaultv1.DepositRequest{}, false, err
	}

	return request, true, nil
}

// SetDepositRequest stores a pending deposit under the provided id.
func (k *Keeper) SetDepositRequest(ctx context.Context, id uint64, request vaultv1.DepositRequest) error {
	request.Id = id
	return k.DepositRequests.Set(ctx, id, request)
}

// DeleteDepositRequest removes a pending deposit.
func (k *Keeper) DeleteDepositRequest(ctx context.Context, id uint64) error {
	return k.DepositRequests.Remove(ctx, id)
}

// NextDepositRequestID increments and returns the next deposit request
// identifier.
func (k *Keeper) NextDepositRequestID(ctx context.Context) (uint64, error) {
	next, err := k.DepositRequestNextID.Get(ctx)
	if err != nil {
		if !errors.Is(err, collections.ErrNotFound) {
			return 0, err
		}

		next = 1
	} else {
		next++
	}

	if err := k.DepositRequestNextID.Set(ctx, next); err != nil {
		return 0, err
	}

	return next, nil
}

// IterateDepositRequests walks all pending deposits in id order.
func (k *Keeper) IterateDepositRequests(ctx context.Context, fn func(id uint64, request vaultv1.DepositRequest) (bool, error)) error {
	return k.DepositRequests.Walk(ctx, nil, fn)
}

// GetWithdrawRequest returns the pending withdrawal stored under the
// provided id.
func (k *Keeper) GetWithdrawRequest(ctx context.Context, id uint64) (vaultv1.WithdrawRequest, bool, error) {
	request, err := k.WithdrawRequests.Get(ctx, id)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return vaultv1.WithdrawRequest{}, false, nil
		}
		return vaultv1.WithdrawRequest{}, false, err
	}

	return request, true, nil
}

// SetWithdrawRequest stores a pending withdrawal under the provided id.
func (k *Keeper) SetWithdrawRequest(ctx context.Context, id uint64, request vaultv1.WithdrawRequest) error {
	request.Id = id
	return k.WithdrawRequests.Set(ctx, id, request)
}

// DeleteWithdrawRequest removes a pending withdrawal.
func (k *Keeper) DeleteWithdrawRequest(ctx context.Context, id uint64) error {
	return k.WithdrawRequests.Remove(ctx, id)
}

// NextWithdrawRequestID increments and returns the next withdrawal
// request identifier.
func (k *Keeper) NextWithdrawRequestID(ctx context.Context) (uint64, error) {
	next, err := k.WithdrawRequestNextID.Get(ctx)
	if err != nil {
		if !errors.Is(err, collections.ErrNotFound) {
			return 0, err
		}

		next = 1
	} else {
		next++
	}

	if err := k.WithdrawRequestNextID.Set(ctx, next); err != nil {
		return 0, err
	}

	return next, nil
}

// IterateWithdrawRequests walks all pending withdrawals in id order.
func (k *Keeper) IterateWithdrawRequests(ctx context.Context, fn func(id uint64, request vaultv1.WithdrawRequest) (bool, error)) error {
	return k.WithdrawRequests.Walk(ctx, nil, fn)
}

// IsOperator reports whether the address is a registered operator.
func (k *Keeper) IsOperator(ctx context.Context, operator string) (bool, error) {
	return k.Operators.Has(ctx, operator)
}

// IsOperatorFrozen reports whether the operator is barred from starting
// operations.
func (k *Keeper) IsOperatorFrozen(ctx context.Context, operator string) (bool, error) {
	return k.FrozenOperators.Has(ctx, operator)
}

// IterateOperators walks all registered operators.
func (k *Keeper) IterateOperators(ctx context.Context, fn func(operator string) (bool, error)) error {
	return k.Operators.Walk(ctx, nil, func(operator string, _ bool) (bool, error) {
		return fn(operator)
	})
}

// GetCollectedFees returns the accumulated fees for an asset type, in
// the asset's base units.
func (k *Keeper) GetCollectedFees(ctx context.Context, assetId string) (math.Int, error) {
	fees, err := k.CollectedFees.Get(ctx, assetId)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return math.ZeroInt(), nil
		}
		return math.ZeroInt(), err
	}

	return fees, nil
}

// AddCollectedFees accumulates fees for an asset type.
func (k *Keeper) AddCollectedFees(ctx context.Context, assetId string, amount math.Int) error {
	fees, err := k.GetCollectedFees(ctx, assetId)
	if err != nil {
		return err
	}

	total, err := fees.SafeAdd(amount)
	if err != nil {
		return err
	}

	return k.CollectedFees.Set(ctx, assetId, total)
}

// GetReward returns the reward distribution stored under the provided
// id.
func (k *Keeper) GetReward(ctx context.Context, id uint64) (vaultv1.RewardDistribution, bool, error) {
	reward, err := k.Rewards.Get(ctx, id)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return vaultv1.RewardDistribution{}, false, nil
		}
		return vaultv1.RewardDistribution{}, false, err
	}

	return reward, true, nil
}

// SetReward stores a reward distribution under the provided id.
func (k *Keeper) SetReward(ctx context.Context, id uint64, reward vaultv1.RewardDistribution) error {
	reward.Id = id
	return k.Rewards.Set(ctx, id, reward)
}

// NextRewardID increments and returns the next reward distribution
// identifier.
func (k *Keeper) NextRewardID(ctx context.Context) (uint64, error) {
	next, err := k.RewardNextID.Get(ctx)
	if err != nil {
		if !errors.Is(err, collections.ErrNotFound) {
			return 0, err
		}

		next = 1
	} else {
		next++
	}

	if err := k.RewardNextID.Set(ctx, next); err != nil {
		return 0, err
	}

	return next, nil
}

// IterateRewards walks all reward distributions in id order.
func (k *Keeper) IterateRewards(ctx context.Context, fn func(id uint64, reward vaultv1.RewardDistribution) (bool, error)) error {
	return k.Rewards.Walk(ctx, nil, fn)
}

// GetRemoteConfig returns the remote reporting configuration of an
// asset type.
func (k *Keeper) GetRemoteConfig(ctx context.Context, assetId string) (vaultv1.RemotePositionConfig, bool, error) {
	config, err := k.RemoteConfigs.Get(ctx, assetId)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return vaultv1.RemotePositionConfig{}, false, nil
		}
		return vaultv1.RemotePositionConfig{}, false, err
	}

	return config, true, nil
}

// SetRemoteConfig persists the remote reporting configuration of an
// asset type.
func (k *Keeper) SetRemoteConfig(ctx context.Context, assetId string, config vaultv1.RemotePositionConfig) error {
	return k.RemoteConfigs.Set(ctx, assetId, config)
}

// GetRemoteReport returns the latest accepted remote value report for
// an asset type.
func (k *Keeper) GetRemoteReport(ctx context.Context, assetId string) (vaultv1.RemoteValueReport, bool, error) {
	report, err := k.RemoteReports.Get(ctx, assetId)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return vaultv1.RemoteValueReport{}, false, nil
		}
		return vaultv1.RemoteValueReport{}, false, err
	}

	return report, true, nil
}

// SetRemoteReport persists the latest remote value report for an asset
// type.
func (k *Keeper) SetRemoteReport(ctx context.Context, assetId string, report vaultv1.RemoteValueReport) error {
	return k.RemoteReports.Set(ctx, assetId, report)
}
