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

	sdkmath "cosmossdk.io/math"
)

// VaultStatus is the lifecycle state of the vault.
type VaultStatus int32

const (
	// VAULT_STATUS_NORMAL accepts requests and executions.
	VAULT_STATUS_NORMAL VaultStatus = 0
	// VAULT_STATUS_DURING_OPERATION is held between BeginOperation and
	// EndOperation while an operator rebalances external positions.
	VAULT_STATUS_DURING_OPERATION VaultStatus = 1
	// VAULT_STATUS_DISABLED blocks new requests and executions.
	// Reachable from NORMAL only, never mid-operation.
	VAULT_STATUS_DISABLED VaultStatus = 2
)

func (s VaultStatus) String() string {
	switch s {
	case VAULT_STATUS_NORMAL:
		return "NORMAL"
	case VAULT_STATUS_DURING_OPERATION:
		return "DURING_OPERATION"
	case VAULT_STATUS_DISABLED:
		return "DISABLED"
	default:
		return "UNSPECIFIED"
	}
}

// VaultState is the single mutable core record of the vault.
type VaultState struct {
	Status      VaultStatus `json:"status"`
	TotalShares sdkmath.Int `json:"total_shares"`
	// CurEpoch is derived from header time divided by Params.EpochSeconds.
	CurEpoch uint64 `json:"cur_epoch"`
	// CurEpochLoss accumulates realized operation losses inside the
	// current epoch, in micro-USD.
	CurEpochLoss sdkmath.Int `json:"cur_epoch_loss"`
	// CurEpochLossBaseValue is the vault value snapshotted at the first
	// operation of the epoch; the loss limit is computed against it.
	CurEpochLossBaseValue sdkmath.Int `json:"cur_epoch_loss_base_value"`
	// ActiveOperator is the address that began the in-flight operation,
	// empty outside DURING_OPERATION. Only the same address can end the
	// window.
	ActiveOperator   string    `json:"active_operator"`
	OperationBeganAt time.Time `json:"operation_began_at"`
	// OperationBeginValue is the vault value snapshotted when the open
	// window began; the window's realized loss is measured against it.
	OperationBeginValue sdkmath.Int `json:"operation_begin_value"`
}

// DefaultVaultState is the state of a vault that has never been touched.
func DefaultVaultState() VaultState {
	return VaultState{
		Status:                VAULT_STATUS_NORMAL,
		TotalShares:           sdkmath.ZeroInt(),
		CurEpoch:              0,
		CurEpochLoss:          sdkmath.ZeroInt(),
		CurEpochLossBaseValue: sdkmath.ZeroInt(),
		OperationBeginValue:   sdkmath.ZeroInt(),
	}
}

// AssetConfig describes one registered asset type. Registration doubles as
// the oracle-support check: assets without a config are rejected as
// unsupported everywhere.
type AssetConfig struct {
	Id string `json:"id"`
	// Decimals is the number of base-unit decimals of the asset.
	Decimals uint32 `json:"decimals"`
	// Feeder is the only address besides the authority allowed to post
	// price reports for this asset.
	Feeder string `json:"feeder"`
	// MaxPriceAgeSeconds overrides the global staleness window when
	// non-zero.
	MaxPriceAgeSeconds uint64 `json:"max_price_age_seconds"`
}

// AssetValuation is the cached USD value of one asset type. Value and
// timestamp live in one record so they cannot desynchronize.
type AssetValuation struct {
	// Value is the recognized micro-USD value, never negative.
	Value     sdkmath.Int `json:"value"`
	UpdatedAt time.Time   `json:"updated_at"`
	// Insolvent marks a position whose net equity went negative. The
	// value is zeroed but the condition is never silently clamped away:
	// aggregation fails with a distinct error until remediated.
	Insolvent bool `json:"insolvent"`
	// Shortfall is the magnitude of the negative equity, for operator
	// remediation.
	Shortfall sdkmath.Int `json:"shortfall"`
}

// PriceEntry is a stored, normalized oracle price.
type PriceEntry struct {
	// Price is USD per whole token, 18-decimal fixed point.
	Price sdkmath.LegacyDec `json:"price"`
	// RawPrice and Expo preserve the report as received.
	RawPrice sdkmath.Int `json:"raw_price"`
	Expo     int32       `json:"expo"`
	// Confidence is the reported uncertainty, same scale as RawPrice.
	Confidence sdkmath.Int `json:"confidence"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// PriceReport is an incoming price observation from a feeder.
// The normalized price is RawPrice * 10^Expo USD per whole token.
type PriceReport struct {
	AssetId    string      `json:"asset_id"`
	RawPrice   sdkmath.Int `json:"raw_price"`
	Expo       int32       `json:"expo"`
	Confidence sdkmath.Int `json:"confidence"`
	Timestamp  time.Time   `json:"timestamp"`
}

// PriceQuote is a validated price handed to valuation math.
type PriceQuote struct {
	Price     sdkmath.LegacyDec
	Decimals  uint32
	UpdatedAt time.Time
}

// Receipt is a user's claim on the vault: a share balance plus any pending
// requests. Ownership is authoritative at settlement time; payouts always
// go to the current owner, not to whoever created a request.
type Receipt struct {
	Id    uint64 `json:"id"`
	Owner string `json:"owner"`
	// Shares is the receipt's share balance.
	Shares sdkmath.Int `json:"shares"`
	// ReservedShares are committed to pending withdraw requests and
	// cannot be double-spent by further requests.
	ReservedShares sdkmath.Int `json:"reserved_shares"`
	CreatedAt      time.Time   `json:"created_at"`
}

// AvailableShares is the balance not reserved by pending withdrawals.
func (r Receipt) AvailableShares() sdkmath.Int {
	return r.Shares.Sub(r.ReservedShares)
}

// DepositRequest escrows funds at creation and mints shares at execution.
// Executed and cancelled requests are deleted; there is no status field
// because presence in the queue is the Created state.
type DepositRequest struct {
	Id        uint64      `json:"id"`
	ReceiptId uint64      `json:"receipt_id"`
	AssetId   string      `json:"asset_id"`
	Amount    sdkmath.Int `json:"amount"`
	// MinSharesOut is the caller's slippage floor.
	MinSharesOut sdkmath.Int `json:"min_shares_out"`
	CreatedAt    time.Time   `json:"created_at"`
	// UnlockAt is when cancellation becomes legal.
	UnlockAt time.Time `json:"unlock_at"`
}

// WithdrawRequest reserves shares at creation and pays out at execution.
type WithdrawRequest struct {
	Id        uint64      `json:"id"`
	ReceiptId uint64      `json:"receipt_id"`
	AssetId   string      `json:"asset_id"`
	Shares    sdkmath.Int `json:"shares"`
	// MinAmountOut is the caller's slippage floor in asset base units.
	MinAmountOut sdkmath.Int `json:"min_amount_out"`
	CreatedAt    time.Time   `json:"created_at"`
	UnlockAt     time.Time   `json:"unlock_at"`
}

// RewardDistribution is a time-decayed emission buffer for one asset.
type RewardDistribution struct {
	Id      uint64 `json:"id"`
	AssetId string `json:"asset_id"`
	// RatePerSecond is emitted asset base units per second.
	RatePerSecond sdkmath.LegacyDec `json:"rate_per_second"`
	// Remaining is the unemitted buffer balance.
	Remaining sdkmath.Int `json:"remaining"`
	// PendingRecognition accrued out of Remaining but has not yet been
	// folded into the vault valuation by an operator.
	PendingRecognition sdkmath.Int `json:"pending_recognition"`
	// MinDistribution is the dust threshold; accruals below it emit
	// nothing but still advance LastUpdated.
	MinDistribution sdkmath.Int `json:"min_distribution"`
	// LastUpdated advances on every accrual call, distributed or not.
	// Advancing it only on the distributed branch would freeze the
	// buffer forever once it dips under the dust threshold.
	LastUpdated time.Time `json:"last_updated"`
}

// RemotePositionConfig registers the cross-chain oracle allowed to report
// value for one asset: messages must arrive from this origin domain and
// sender address.
type RemotePositionConfig struct {
	AssetId      string `json:"asset_id"`
	OriginDomain uint32 `json:"origin_domain"`
	// Oracle is the hex-encoded 32-byte sender address.
	Oracle string `json:"oracle"`
}

// RemoteValueReport is a staged cross-chain value report. It only enters
// the valuation registry when an operator syncs it during an operation.
type RemoteValueReport struct {
	AssetId string `json:"asset_id"`
	// Value is micro-USD.
	Value sdkmath.Int `json:"value"`
	// Shortfall is non-zero when the remote position reports negative
	// equity.
	Shortfall sdkmath.Int `json:"shortfall"`
	// Timestamp is the remote observation time; reports must strictly
	// advance it.
	Timestamp  time.Time `json:"timestamp"`
	ReceivedAt time.Time `json:"received_at"`
}

// PositionValuation is what a position adaptor reports for one asset.
// Value is micro-USD and never negative; negative equity is expressed as
// a positive Shortfall with a zero Value.
type PositionValuation struct {
	Value     sdkmath.Int
	Shortfall sdkmath.Int
}

// VaultStats is the aggregate read-model served by the query surface.
type VaultStats struct {
	Status       string            `json:"status"`
	TotalShares  sdkmath.Int       `json:"total_shares"`
	TotalValue   sdkmath.Int       `json:"total_value"`
	ShareRatio   sdkmath.LegacyDec `json:"share_ratio"`
	AssetCount   uint64            `json:"asset_count"`
	CurEpoch     uint64            `json:"cur_epoch"`
	CurEpochLoss sdkmath.Int       `json:"cur_epoch_loss"`
	LossLimit    sdkmath.Int       `json:"loss_limit"`
}
