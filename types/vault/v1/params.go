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
	"fmt"

	sdkmath "cosmossdk.io/math"
)

const (
	// BpsScale is the denominator for all basis-point rates.
	BpsScale = 10_000

	// MaxFeeBps is the hard ceiling on deposit and withdraw fee rates.
	// Governance cannot configure a fee above 10%.
	MaxFeeBps = 1_000

	// DefaultMaxPriceAgeSeconds rejects oracle prices older than one hour.
	DefaultMaxPriceAgeSeconds = 3_600

	// DefaultMaxValueStalenessSeconds bounds how old a cached asset
	// valuation may be before aggregation fails fast.
	DefaultMaxValueStalenessSeconds = 14_400

	// DefaultMaxConfidenceBps rejects price reports whose confidence
	// interval is wider than 2% of the price.
	DefaultMaxConfidenceBps = 200

	// DefaultMaxPriceDeviationBps rejects price reports that move more
	// than 10% against the last accepted price.
	DefaultMaxPriceDeviationBps = 1_000

	// DefaultMaxRewardAccrualSeconds caps the elapsed time a single
	// reward accrual may cover, regardless of how long the buffer idled.
	DefaultMaxRewardAccrualSeconds = 604_800

	// DefaultMaxAssetTypes bounds registry iteration per valuation call.
	DefaultMaxAssetTypes = 100
)

// Params holds every governance-tunable knob of the vault. Stored as a
// single item and replaced wholesale by the authority.
type Params struct {
	// DepositFeeBps is charged on the gross deposit amount, rounded up.
	DepositFeeBps uint64 `json:"deposit_fee_bps"`
	// WithdrawFeeBps is charged on the gross payout amount, rounded up.
	WithdrawFeeBps uint64 `json:"withdraw_fee_bps"`
	// LossToleranceBps bounds the vault value decrease accepted within
	// one epoch of operations.
	LossToleranceBps uint64 `json:"loss_tolerance_bps"`
	// EpochSeconds is the length of one loss-accounting epoch.
	EpochSeconds uint64 `json:"epoch_seconds"`
	// RequestLockSeconds is how long a pending request stays
	// uncancellable after creation.
	RequestLockSeconds uint64 `json:"request_lock_seconds"`
	// MinDeposit is the smallest deposit amount accepted, in base units
	// of the deposited asset.
	MinDeposit sdkmath.Int `json:"min_deposit"`
	// MaxAssetTypes is the hard cap on registered asset types.
	MaxAssetTypes uint64 `json:"max_asset_types"`
	// MaxPriceAgeSeconds is the global price staleness window. Asset
	// configs may tighten it per asset.
	MaxPriceAgeSeconds uint64 `json:"max_price_age_seconds"`
	// MaxConfidenceBps is the widest acceptable confidence interval,
	// as basis points of the reported price.
	MaxConfidenceBps uint64 `json:"max_confidence_bps"`
	// MaxPriceDeviationBps rejects price jumps beyond this many basis
	// points against the stored price. Zero disables the guard.
	MaxPriceDeviationBps uint64 `json:"max_price_deviation_bps"`
	// MaxValueStalenessSeconds is the freshness bound on cached asset
	// valuations during aggregation.
	MaxValueStalenessSeconds uint64 `json:"max_value_staleness_seconds"`
	// MaxRewardAccrualSeconds caps elapsed time in reward accrual.
	MaxRewardAccrualSeconds uint64 `json:"max_reward_accrual_seconds"`
	// InitialSharePrice is the micro-USD value of one share when the
	// supply is zero (bootstrap exchange rate).
	InitialSharePrice sdkmath.LegacyDec `json:"initial_share_price"`
}

// DefaultParams returns conservative, non-zero defaults. Freshness and
// confidence windows are deliberately strict; loosen them explicitly if an
// integration needs to.
func DefaultParams() Params {
	return Params{
		DepositFeeBps:            0,
		WithdrawFeeBps:           0,
		LossToleranceBps:         100,
		EpochSeconds:             86_400,
		RequestLockSeconds:       3_600,
		MinDeposit:               sdkmath.NewInt(1_000),
		MaxAssetTypes:            DefaultMaxAssetTypes,
		MaxPriceAgeSeconds:       DefaultMaxPriceAgeSeconds,
		MaxConfidenceBps:         DefaultMaxConfidenceBps,
		MaxPriceDeviationBps:     DefaultMaxPriceDeviationBps,
		MaxValueStalenessSeconds: DefaultMaxValueStalenessSeconds,
		MaxRewardAccrualSeconds:  DefaultMaxRewardAccrualSeconds,
		InitialSharePrice:        sdkmath.LegacyOneDec(),
	}
}

// Validate rejects parameter sets that would wedge the vault.
func (p Params) Validate() error {
	if p.DepositFeeBps > MaxFeeBps {
		return fmt.Errorf("deposit fee %d bps exceeds maximum %d bps", p.DepositFeeBps, MaxFeeBps)
	}
	if p.WithdrawFeeBps > MaxFeeBps {
		return fmt.Errorf("withdraw fee %d bps exceeds maximum %d bps", p.WithdrawFeeBps, MaxFeeBps)
	}
	if p.LossToleranceBps > BpsScale {
		return fmt.Errorf("loss tolerance %d bps exceeds scale %d", p.LossToleranceBps, BpsScale)
	}
	if p.EpochSeconds == 0 {
		return fmt.Errorf("epoch length must be positive")
	}
	if p.MaxAssetTypes == 0 {
		return fmt.Errorf("max asset types must be positive")
	}
	if p.MaxPriceAgeSeconds == 0 {
		return fmt.Errorf("price staleness window must be positive")
	}
	if p.MaxValueStalenessSeconds == 0 {
		return fmt.Errorf("valuation staleness window must be positive")
	}
	if p.MaxRewardAccrualSeconds == 0 {
		return fmt.Errorf("reward accrual cap must be positive")
	}
	if p.MinDeposit.IsNil() || p.MinDeposit.IsNegative() {
		return fmt.Errorf("minimum deposit must be non-negative")
	}
	if p.InitialSharePrice.IsNil() || !p.InitialSharePrice.IsPositive() {
		return fmt.Errorf("initial share price must be positive")
	}
	return nil
}
