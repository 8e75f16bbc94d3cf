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

// HandlePriceReport validates and stores a feeder price report. Reports
// are rejected when the feeder is not the one registered for the asset,
// the price is zero or malformed, the timestamp does not advance, the
// confidence interval is too wide, or the price moves more than the
// configured deviation bound in a single report. Large legitimate moves
// are applied through a sequence of reports, each within the bound.
func (k *Keeper) HandlePriceReport(ctx context.Context, feeder string, report vaultv1.PriceReport) error {
	config, found, err := k.GetAssetConfig(ctx, report.AssetId)
	if err != nil {
		return errors.Wrap(err, "unable to fetch asset config")
	}
	if !found {
		return errors.Wrapf(vaultv1.ErrUnsupportedAsset, "asset %s is not registered", report.AssetId)
	}
	if config.Feeder != feeder {
		return errors.Wrapf(vaultv1.ErrUnauthorized, "%s is not the price feeder of %s", feeder, report.AssetId)
	}

	now := k.header.GetHeaderInfo(ctx).Time
	if report.Timestamp.After(now) {
		return errors.Wrapf(vaultv1.ErrInvalidRequest, "report timestamp %s is in the future", report.Timestamp)
	}

	price, err := vaultv1.NormalizePrice(report.RawPrice, report.Expo)
	if err != nil {
		return err
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return errors.Wrap(err, "unable to fetch params")
	}
	if err := checkConfidence(report.RawPrice, report.Confidence, params.MaxConfidenceBps); err != nil {
		return err
	}

	previous, found, err := k.GetPriceEntry(ctx, report.AssetId)
	if err != nil {
		return errors.Wrap(err, "unable to fetch stored price")
	}
	if found {
		if !report.Timestamp.After(previous.UpdatedAt) {
			return errors.Wrapf(vaultv1.ErrStalePrice, "report timestamp %s does not advance past %s", report.Timestamp, previous.UpdatedAt)
		}
		if err := checkDeviation(previous.Price, price, params.MaxPriceDeviationBps); err != nil {
			return err
		}
	}

	entry := vaultv1.PriceEntry{
		Price:      price,
		RawPrice:   report.RawPrice,
		Expo:       report.Expo,
		Confidence: report.Confidence,
		UpdatedAt:  report.Timestamp,
	}
	if err := k.SetPriceEntry(ctx, report.AssetId, entry); err != nil {
		return errors.Wrap(err, "unable to persist price")
	}

	k.logger.Debug("price updated", "asset", report.AssetId, "price", price.String())

	return k.event.EventManager(ctx).Emit(ctx, &vaultv1.EventPriceUpdated{
		AssetId:    report.AssetId,
		Price:      price,
		Confidence: report.Confidence,
		Timestamp:  report.Timestamp,
	})
}

// GetAssetPrice returns a validated price quote for the asset. Prices
// that are missing, non-positive, older than the staleness bound, or
// carrying a confidence interval wider than the configured bound are
// rejected rather than returned.
func (k *Keeper) GetAssetPrice(ctx context.Context, assetId string) (vaultv1.PriceQuote, error) {
	config, found, err := k.GetAssetConfig(ctx, assetId)
	if err != nil {
		return vaultv1.PriceQuote{}, errors.Wrap(err, "unable to fetch asset config")
	}
	if !found {
		return vaultv1.PriceQuote{}, errors.Wrapf(vaultv1.ErrUnsupportedAsset, "asset %s is not registered", assetId)
	}

	entry, found, err := k.GetPriceEntry(ctx, assetId)
	if err != nil {
		return vaultv1.PriceQuote{}, errors.Wrap(err, "unable to fetch stored price")
	}
	if !found {
		return vaultv1.PriceQuote{}, errors.Wrapf(vaultv1.ErrStalePrice, "no price recorded for %s", assetId)
	}
	if entry.Price.IsNil() || !entry.Price.IsPositive() {
		return vaultv1.PriceQuote{}, errors.Wrapf(vaultv1.ErrZeroPrice, "stored price of %s is not positive", assetId)
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return vaultv1.PriceQuote{}, errors.Wrap(err, "unable to fetch params")
	}

	maxAge := params.MaxPriceAgeSeconds
	if config.MaxPriceAgeSeconds > 0 {
		maxAge = config.MaxPriceAgeSeconds
	}

	now := k.header.GetHeaderInfo(ctx).Time
	if age := now.Sub(entry.UpdatedAt); age.Seconds() > float64(maxAge) {
		return vaultv1.PriceQuote{}, errors.Wrapf(vaultv1.ErrStalePrice, "price of %s is %s old, max age %ds", assetId, age, maxAge)
	}

	if err := checkConfidence(entry.RawPrice, entry.Confidence, params.MaxConfidenceBps); err != nil {
		return vaultv1.PriceQuote{}, err
	}

	return vaultv1.PriceQuote{
		Price:     entry.Price,
		Decimals:  config.Decimals,
		UpdatedAt: entry.UpdatedAt,
	}, nil
}

// checkConfidence bounds the confidence interval relative to the raw
// price: confidence * scale must not exceed price * maxBps.
func checkConfidence(rawPrice, confidence math.Int, maxBps uint64) error {
	if confidence.IsNil() || confidence.IsNegative() {
		return errors.Wrap(vaultv1.ErrInvalidRequest, "confidence must be non-negative")
	}
	if rawPrice.IsNil() || !rawPrice.IsPositive() {
		return errors.Wrap(vaultv1.ErrZeroPrice, "raw price must be positive")
	}

	lhs := confidence.Mul(math.NewInt(vaultv1.BpsScale))
	rhs := rawPrice.Mul(math.NewIntFromUint64(maxBps))
	if lhs.GT(rhs) {
		return errors.Wrapf(vaultv1.ErrWideConfidence, "confidence %s exceeds %d bps of price %s", confidence, maxBps, rawPrice)
	}

	return nil
}

// checkDeviation bounds the relative move between the stored and the
// reported price: |new - old| * scale must not exceed old * maxBps.
func checkDeviation(oldPrice, newPrice math.LegacyDec, maxBps uint64) error {
	if maxBps == 0 {
		return nil
	}
	if oldPrice.IsNil() || !oldPrice.IsPositive() {
		return nil
	}

	diff := newPrice.Sub(oldPrice).Abs()
	limit := oldPrice.MulInt64(int64(maxBps)).QuoInt64(vaultv1.BpsScale)
	if diff.GT(limit) {
		return errors.Wrapf(vaultv1.ErrPriceDeviation, "price moved from %s to %s, beyond %d bps", oldPrice, newPrice, maxBps)
	}

	return nil
}
