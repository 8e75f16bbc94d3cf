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

// RegisterAssetType adds a new asset type to the valuation registry.
// The registry is append only: identifiers can never be re-registered
// or removed, and the total number of asset types is hard capped.
func (k *Keeper) RegisterAssetType(ctx context.Context, signer, assetId string, decimals uint32, feeder string, maxPriceAgeSeconds uint64) error {
	if signer != k.authority {
		return errors.Wrapf(vaultv1.ErrUnauthorized, "%s is not the authority", signer)
	}
	if err := validateAssetId(assetId); err != nil {
		return err
	}
	if decimals > vaultv1.MaxAssetDecimals {
		return errors.Wrapf(vaultv1.ErrInvalidRequest, "decimals %d out of range", decimals)
	}
	if _, err := k.address.StringToBytes(feeder); err != nil {
		return errors.Wrapf(vaultv1.ErrInvalidRequest, "invalid feeder address %s", feeder)
	}

	_, found, err := k.GetAssetConfig(ctx, assetId)
	if err != nil {
		return errors.Wrap(err, "unable to fetch asset config")
	}
	if found {
		return errors.Wrapf(vaultv1.ErrDuplicateAsset, "asset %s is already registered", assetId)
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return errors.Wrap(err, "unable to fetch params")
	}
	count, err := k.GetAssetCount(ctx)
	if err != nil {
		return errors.Wrap(err, "unable to fetch asset count")
	}
	if count >= params.MaxAssetTypes {
		return errors.Wrapf(vaultv1.ErrTooManyAssets, "registry holds %d of %d asset types", count, params.MaxAssetTypes)
	}

	config := vaultv1.AssetConfig{
		Id:                 assetId,
		Decimals:           decimals,
		Feeder:             feeder,
		MaxPriceAgeSeconds: maxPriceAgeSeconds,
	}
	if err := k.SetAssetConfig(ctx, assetId, config); err != nil {
		return errors.Wrap(err, "unable to persist asset config")
	}
	if err := k.AssetIndex.Set(ctx, count, assetId); err != nil {
		return errors.Wrap(err, "unable to persist asset index")
	}
	if err := k.AssetCount.Set(ctx, count+1); err != nil {
		return errors.Wrap(err, "unable to persist asset count")
	}

	now := k.header.GetHeaderInfo(ctx).Time
	valuation := vaultv1.AssetValuation{
		Value:     math.ZeroInt(),
		UpdatedAt: now,
		Insolvent: false,
		Shortfall: math.ZeroInt(),
	}
	if err := k.SetAssetValuation(ctx, assetId, valuation); err != nil {
		return errors.Wrap(err, "unable to persist initial valuation")
	}

	k.logger.Info("asset registered", "asset", assetId, "index", count)

	return k.event.EventManager(ctx).Emit(ctx, &vaultv1.EventAssetRegistered{
		AssetId:  assetId,
		Decimals: decimals,
		Feeder:   feeder,
		Index:    count,
	})
}

// UpdateAssetFeeder rotates the price feeder of a registered asset.
func (k *Keeper) UpdateAssetFeeder(ctx context.Context, signer, assetId, feeder string) error {
	if signer != k.authority {
		return errors.Wrapf(vaultv1.ErrUnauthorized, "%s is not the authority", signer)
	}
	if _, err := k.address.StringToBytes(feeder); err != nil {
		return errors.Wrapf(vaultv1.ErrInvalidRequest, "invalid feeder address %s", feeder)
	}

	config, found, err := k.GetAssetConfig(ctx, assetId)
	if err != nil {
		return errors.Wrap(err, "unable to fetch asset config")
	}
	if !found {
		return errors.Wrapf(vaultv1.ErrUnsupportedAsset, "asset %s is not registered", assetId)
	}

	config.Feeder = feeder
	if err := k.SetAssetConfig(ctx, assetId, config); err != nil {
		return errors.Wrap(err, "unable to persist asset config")
	}

	k.logger.Info("asset feeder rotated", "asset", assetId, "feeder", feeder)
	return nil
}

// UpdateAssetValue re-marks the vault's holdings of an asset in
// micro-USD. Marking a value clears any insolvency flag on the asset,
// so operators remediate a shortfall by marking the recovered value.
// While an operation window is open only the active operator may mark
// values.
func (k *Keeper) UpdateAssetValue(ctx context.Context, operator, assetId string, value math.Int) error {
	if err := k.requireValuationAccess(ctx, operator); err != nil {
		return err
	}
	if value.IsNil() || value.IsNegative() {
		return errors.Wrap(vaultv1.ErrInvalidAmount, "value must be non-negative")
	}

	valuation, found, err := k.GetAssetValuation(ctx, assetId)
	if err != nil {
		return errors.Wrap(err, "unable to fetch valuation")
	}
	if !found {
		return errors.Wrapf(vaultv1.ErrUnsupportedAsset, "asset %s is not registered", assetId)
	}

	previous := valuation.Value
	now := k.header.GetHeaderInfo(ctx).Time

	valuation.Value = value
	valuation.UpdatedAt = now
	valuation.Insolvent = false
	valuation.Shortfall = math.ZeroInt()
	if err := k.SetAssetValuation(ctx, assetId, valuation); err != nil {
		return errors.Wrap(err, "unable to persist valuation")
	}

	return k.event.EventManager(ctx).Emit(ctx, &vaultv1.EventAssetValueUpdated{
		AssetId:       assetId,
		PreviousValue: previous,
		NewValue:      value,
		Timestamp:     now,
	})
}

// ReportAssetInsolvency flags an asset whose position cannot cover its
// obligations. A flagged asset poisons every total value computation
// until an operator re-marks it, so deposits and withdrawals halt
// rather than settle against a ratio that overstates the vault.
func (k *Keeper) ReportAssetInsolvency(ctx context.Context, operator, assetId string, shortfall math.Int) error {
	if err := k.requireValuationAccess(ctx, operator); err != nil {
		return err
	}
	if shortfall.IsNil() || !shortfall.IsPositive() {
		return errors.Wrap(vaultv1.ErrInvalidAmount, "shortfall must be positive")
	}

	valuation, found, err := k.GetAssetValuation(ctx, assetId)
	if err != nil {
		return errors.Wrap(err, "unable to fetch valuation")
	}
	if !found {
		return errors.Wrapf(vaultv1.ErrUnsupportedAsset, "asset %s is not registered", assetId)
	}

	// The value is zeroed, but the condition is flagged rather than
	// clamped away: aggregation halts on the flag instead of treating
	// the position as a harmless zero.
	now := k.header.GetHeaderInfo(ctx).Time
	valuation.Value = math.ZeroInt()
	valuation.Insolvent = true
	valuation.Shortfall = shortfall
	valuation.UpdatedAt = now
	if err := k.SetAssetValuation(ctx, assetId, valuation); err != nil {
		return errors.Wrap(err, "unable to persist valuation")
	}

	k.logger.Error("asset insolvency reported", "asset", assetId, "shortfall", shortfall.String(), "operator", operator)

	return k.event.EventManager(ctx).Emit(ctx, &vaultv1.EventAssetInsolvencyReported{
		AssetId:   assetId,
		Shortfall: shortfall,
		Timestamp: now,
	})
}

// TotalVaultValue sums the stored valuations of all registered assets
// in micro-USD. The sum fails when any asset is flagged insolvent or
// any asset with a positive valuation has not been re-marked within the
// staleness bound. A zero valuation is exempt from the staleness check
// so that idle registered assets cannot brick the vault.
func (k *Keeper) TotalVaultValue(ctx context.Context) (math.Int, error) {
	return k.sumAssetValues(ctx, true)
}

// storedTotalValue sums stored valuations without the staleness or
// insolvency checks. Operation windows checkpoint their loss base from
// this sum so that a window can still be opened to refresh stale
// positions or remediate a flagged one; insolvent entries contribute
// their zeroed value.
func (k *Keeper) storedTotalValue(ctx context.Context) (math.Int, error) {
	return k.sumAssetValues(ctx, false)
}

func (k *Keeper) sumAssetValues(ctx context.Context, validated bool) (math.Int, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return math.ZeroInt(), errors.Wrap(err, "unable to fetch params")
	}

	assets, err := k.GetRegisteredAssets(ctx)
	if err != nil {
		return math.ZeroInt(), errors.Wrap(err, "unable to fetch asset registry")
	}

	now := k.header.GetHeaderInfo(ctx).Time
	total := math.ZeroInt()

	for _, assetId := range assets {
		valuation, found, err := k.GetAssetValuation(ctx, assetId)
		if err != nil {
			return math.ZeroInt(), errors.Wrapf(err, "unable to fetch valuation of %s", assetId)
		}
		if !found {
			continue
		}

		if valuation.Insolvent {
			if validated {
				return math.ZeroInt(), errors.Wrapf(vaultv1.ErrInsolvent, "asset %s has an unremediated shortfall of %s", assetId, valuation.Shortfall)
			}
			continue
		}
		if valuation.Value.IsNil() || valuation.Value.IsZero() {
			continue
		}

		if validated {
			if age := now.Sub(valuation.UpdatedAt); age.Seconds() > float64(params.MaxValueStalenessSeconds) {
				return math.ZeroInt(), errors.Wrapf(vaultv1.ErrStaleValuation, "valuation of %s is %s old, max age %ds", assetId, age, params.MaxValueStalenessSeconds)
			}
		}

		total, err = total.SafeAdd(valuation.Value)
		if err != nil {
			return math.ZeroInt(), errors.Wrapf(vaultv1.ErrOverflow, "total vault value overflows adding %s", assetId)
		}
	}

	return total, nil
}

// RefreshAssetValue pulls one position's valuation from its adaptor and
// routes it into the registry: a clean value re-marks the asset, a
// shortfall flags it insolvent. The adaptor's figures are validated the
// same way operator-supplied ones are.
func (k *Keeper) RefreshAssetValue(ctx context.Context, operator, assetId string, adaptor vaultv1.PositionAdaptor) error {
	if err := k.requireValuationAccess(ctx, operator); err != nil {
		return err
	}

	_, found, err := k.GetAssetValuation(ctx, assetId)
	if err != nil {
		return errors.Wrap(err, "unable to fetch valuation")
	}
	if !found {
		return errors.Wrapf(vaultv1.ErrUnsupportedAsset, "asset %s is not registered", assetId)
	}

	position, err := adaptor.PositionValue(ctx)
	if err != nil {
		return errors.Wrapf(err, "adaptor failed to value %s", assetId)
	}

	if !position.Shortfall.IsNil() && position.Shortfall.IsPositive() {
		return k.ReportAssetInsolvency(ctx, operator, assetId, position.Shortfall)
	}
	return k.UpdateAssetValue(ctx, operator, assetId, position.Value)
}

// requireValuationAccess checks that the caller may mark asset values:
// values only move inside an operation window, held by the calling
// operator. Settlement in the normal state adjusts valuations through
// its own bookkeeping, never through these methods.
func (k *Keeper) requireValuationAccess(ctx context.Context, operator string) error {
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
	if state.Status != vaultv1.VAULT_STATUS_DURING_OPERATION {
		return errors.Wrapf(vaultv1.ErrInvalidState, "asset values move inside an operation window, vault is %s", state.Status)
	}
	if state.ActiveOperator != operator {
		return errors.Wrapf(vaultv1.ErrUnauthorized, "operation window is held by %s", state.ActiveOperator)
	}

	return nil
}

// validateAssetId requires a valid bank denom that also fits the fixed
// width asset field of remote value reports.
func validateAssetId(assetId string) error {
	if err := sdk.ValidateDenom(assetId); err != nil {
		return errors.Wrapf(vaultv1.ErrInvalidRequest, "invalid asset identifier %s: %s", assetId, err)
	}
	if len(assetId) > 32 {
		return errors.Wrapf(vaultv1.ErrInvalidRequest, "asset identifier %s exceeds 32 bytes", assetId)
	}
	return nil
}
