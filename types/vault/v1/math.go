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

package v1

import (
	"time"

	"cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
)

// Value math conventions: USD values are math.Int in micro-USD
// (ValueDecimals), asset amounts are math.Int in the asset's own base
// units, prices are 18-decimal LegacyDec USD per whole token, and shares
// are plain integers. The three scales never mix except through the
// conversion functions in this file. Fees and loss limits round up (the
// vault never under-collects); deposit/withdraw conversions round down
// (the vault never over-pays). Every division with a live-state divisor
// is checked, and every product of two unbounded operands is bounded
// first, so none of these functions can panic on adversarial input.

const (
	// ValueDecimals is the decimal scale of USD values.
	ValueDecimals = 6
	// ValueScale is 10^ValueDecimals.
	ValueScale = 1_000_000

	// MaxAssetDecimals bounds per-asset base-unit precision.
	MaxAssetDecimals = 24

	// maxPriceExpo bounds the exponent of raw price reports.
	maxPriceExpo = 18
)

var (
	// maxMagnitude bounds any single amount or value entering a
	// multiplication. With prices bounded by maxPrice and decimals by
	// MaxAssetDecimals, every product in this file stays far inside the
	// 315-bit LegacyDec domain.
	maxMagnitude = sdkmath.NewIntWithDecimal(1, 40)

	// maxPrice is the largest normalized price accepted, in USD per
	// whole token.
	maxPrice = sdkmath.LegacyNewDec(1_000_000_000_000_000)
)

// FeeAmountUp computes a basis-point fee on amount with ceiling rounding:
// (amount*bps + BpsScale-1) / BpsScale. The result always satisfies
// fee*BpsScale >= amount*bps, so truncation can never under-collect.
func FeeAmountUp(amount sdkmath.Int, bps uint64) (sdkmath.Int, error) {
	if amount.IsNil() || amount.IsNegative() {
		return sdkmath.Int{}, errors.Wrap(ErrInvalidAmount, "fee base must be non-negative")
	}
	if bps > BpsScale {
		return sdkmath.Int{}, errors.Wrapf(ErrInvalidAmount, "rate %d bps exceeds scale %d", bps, BpsScale)
	}
	if amount.GT(maxMagnitude) {
		return sdkmath.Int{}, errors.Wrapf(ErrOverflow, "fee base %s exceeds computable magnitude", amount)
	}
	return ceilBps(amount, bps), nil
}

// LossLimit computes the per-epoch loss budget from the epoch base value
// with ceiling rounding, so any positive tolerance on any positive base
// yields a limit of at least one unit. A floor-rounded limit of zero
// would forbid every operation on a small vault forever.
func LossLimit(baseValue sdkmath.Int, toleranceBps uint64) (sdkmath.Int, error) {
	if baseValue.IsNil() || baseValue.IsNegative() {
		return sdkmath.Int{}, errors.Wrap(ErrInvalidAmount, "loss base must be non-negative")
	}
	if toleranceBps > BpsScale {
		return sdkmath.Int{}, errors.Wrapf(ErrInvalidAmount, "tolerance %d bps exceeds scale %d", toleranceBps, BpsScale)
	}
	if baseValue.GT(maxMagnitude) {
		return sdkmath.Int{}, errors.Wrapf(ErrOverflow, "loss base %s exceeds computable magnitude", baseValue)
	}
	return ceilBps(baseValue, toleranceBps), nil
}

// ceilBps is (amount*bps + BpsScale-1) / BpsScale on pre-bounded inputs.
func ceilBps(amount sdkmath.Int, bps uint64) sdkmath.Int {
	numerator := amount.Mul(sdkmath.NewIntFromUint64(bps)).AddRaw(BpsScale - 1)
	return numerator.QuoRaw(BpsScale)
}

// NormalizePrice converts a raw report (rawPrice * 10^expo USD per whole
// token) to the canonical 18-decimal price. Zero and negative prices are
// rejected here and again at read time.
func NormalizePrice(rawPrice sdkmath.Int, expo int32) (sdkmath.LegacyDec, error) {
	if rawPrice.IsNil() || !rawPrice.IsPositive() {
		return sdkmath.LegacyDec{}, errors.Wrap(ErrZeroPrice, "raw price must be positive")
	}
	if expo < -maxPriceExpo || expo > maxPriceExpo {
		return sdkmath.LegacyDec{}, errors.Wrapf(ErrInvalidRequest, "price exponent %d out of range", expo)
	}
	if rawPrice.GT(maxMagnitude) {
		return sdkmath.LegacyDec{}, errors.Wrapf(ErrOverflow, "raw price %s exceeds computable magnitude", rawPrice)
	}

	var price sdkmath.LegacyDec
	if expo >= 0 {
		price = sdkmath.LegacyNewDecFromInt(rawPrice.Mul(pow10(uint32(expo))))
	} else {
		price = sdkmath.LegacyNewDecFromIntWithPrec(rawPrice, int64(-expo))
	}

	if price.GT(maxPrice) {
		return sdkmath.LegacyDec{}, errors.Wrapf(ErrOverflow, "normalized price %s exceeds maximum", price)
	}
	return price, nil
}

// AssetValue converts an asset amount in base units to micro-USD at the
// given price, rounding down.
func AssetValue(amount sdkmath.Int, price sdkmath.LegacyDec, decimals uint32) (sdkmath.Int, error) {
	if amount.IsNil() || amount.IsNegative() {
		return sdkmath.Int{}, errors.Wrap(ErrInvalidAmount, "amount must be non-negative")
	}
	if amount.GT(maxMagnitude) {
		return sdkmath.Int{}, errors.Wrapf(ErrOverflow, "amount %s exceeds computable magnitude", amount)
	}
	if err := checkPrice(price); err != nil {
		return sdkmath.Int{}, err
	}
	if decimals > MaxAssetDecimals {
		return sdkmath.Int{}, errors.Wrapf(ErrInvalidRequest, "decimals %d out of range", decimals)
	}

	value := price.MulInt(amount).MulInt64(ValueScale).QuoInt(pow10(decimals))
	return value.TruncateInt(), nil
}

// AmountForValue converts micro-USD back to asset base units at the given
// price, rounding down. The price divisor is checked, not trusted.
func AmountForValue(value sdkmath.Int, price sdkmath.LegacyDec, decimals uint32) (sdkmath.Int, error) {
	if value.IsNil() || value.IsNegative() {
		return sdkmath.Int{}, errors.Wrap(ErrInvalidAmount, "value must be non-negative")
	}
	if value.GT(maxMagnitude) {
		return sdkmath.Int{}, errors.Wrapf(ErrOverflow, "value %s exceeds computable magnitude", value)
	}
	if price.IsNil() || price.IsZero() {
		return sdkmath.Int{}, errors.Wrap(ErrDivisionByZero, "price is zero")
	}
	if err := checkPrice(price); err != nil {
		return sdkmath.Int{}, err
	}
	if decimals > MaxAssetDecimals {
		return sdkmath.Int{}, errors.Wrapf(ErrInvalidRequest, "decimals %d out of range", decimals)
	}

	amount := sdkmath.LegacyNewDecFromInt(value).MulInt(pow10(decimals)).QuoInt64(ValueScale).QuoTruncate(price)
	return amount.TruncateInt(), nil
}

// ShareRatio is the exchange rate between shares and micro-USD value.
// A supply of zero bootstraps at initialPrice. A value of zero with
// shares outstanding is insolvency, reported as such rather than as a
// zero ratio for callers to divide by later.
func ShareRatio(totalValue, totalShares sdkmath.Int, initialPrice sdkmath.LegacyDec) (sdkmath.LegacyDec, error) {
	if totalShares.IsNil() || totalShares.IsNegative() {
		return sdkmath.LegacyDec{}, errors.Wrap(ErrInvalidAmount, "share supply must be non-negative")
	}
	if totalShares.IsZero() {
		if initialPrice.IsNil() || !initialPrice.IsPositive() {
			return sdkmath.LegacyDec{}, errors.Wrap(ErrInvalidRequest, "initial share price must be positive")
		}
		return initialPrice, nil
	}
	if totalValue.IsNil() || totalValue.IsNegative() || totalValue.IsZero() {
		return sdkmath.LegacyDec{}, errors.Wrapf(ErrInsolvent, "total value %s with %s shares outstanding", totalValue, totalShares)
	}

	ratio := sdkmath.LegacyNewDecFromInt(totalValue).QuoInt(totalShares)
	if ratio.IsZero() {
		return sdkmath.LegacyDec{}, errors.Wrapf(ErrInsolvent, "share ratio underflows with value %s over %s shares", totalValue, totalShares)
	}
	return ratio, nil
}

// SharesForValue converts a micro-USD delta into shares at the given
// ratio, rounding down. The ratio divisor is checked.
func SharesForValue(value sdkmath.Int, ratio sdkmath.LegacyDec) (sdkmath.Int, error) {
	if value.IsNil() || value.IsNegative() {
		return sdkmath.Int{}, errors.Wrap(ErrInvalidAmount, "value must be non-negative")
	}
	if ratio.IsNil() || ratio.IsZero() {
		return sdkmath.Int{}, errors.Wrap(ErrDivisionByZero, "share ratio is zero")
	}
	if value.GT(maxMagnitude) {
		return sdkmath.Int{}, errors.Wrapf(ErrOverflow, "value %s exceeds computable magnitude", value)
	}
	return sdkmath.LegacyNewDecFromInt(value).QuoTruncate(ratio).TruncateInt(), nil
}

// ValueForShares converts shares into micro-USD at the given ratio,
// rounding down.
func ValueForShares(shares sdkmath.Int, ratio sdkmath.LegacyDec) (sdkmath.Int, error) {
	if shares.IsNil() || shares.IsNegative() {
		return sdkmath.Int{}, errors.Wrap(ErrInvalidAmount, "shares must be non-negative")
	}
	if ratio.IsNil() || ratio.IsNegative() {
		return sdkmath.Int{}, errors.Wrap(ErrInvalidAmount, "ratio must be non-negative")
	}
	if shares.GT(maxMagnitude) {
		return sdkmath.Int{}, errors.Wrapf(ErrOverflow, "shares %s exceeds computable magnitude", shares)
	}
	return ratio.MulInt(shares).TruncateInt(), nil
}

// CappedElapsedSeconds returns the seconds between last and now, clamped
// to [0, maxSeconds]. Elapsed time is clock-controlled and unbounded in
// the wild; callers multiply it by a rate, so it is clamped here rather
// than trusted.
func CappedElapsedSeconds(now, last time.Time, maxSeconds uint64) int64 {
	if last.IsZero() || !now.After(last) {
		return 0
	}
	elapsed := int64(now.Sub(last) / time.Second)
	if maxSeconds > 0 && elapsed > int64(maxSeconds) {
		return int64(maxSeconds)
	}
	return elapsed
}

func checkPrice(price sdkmath.LegacyDec) error {
	if price.IsNil() || !price.IsPositive() {
		return errors.Wrap(ErrZeroPrice, "price must be positive")
	}
	if price.GT(maxPrice) {
		return errors.Wrapf(ErrOverflow, "price %s exceeds maximum", price)
	}
	return nil
}

func pow10(decimals uint32) sdkmath.Int {
	return sdkmath.NewIntWithDecimal(1, int(decimals))
}
