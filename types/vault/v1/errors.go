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

import "cosmossdk.io/errors"

// Every failure mode the vault can hit on adversarial or degenerate input is
// a registered, recoverable error. Nothing in this module panics on bad
// input; callers branch on these sentinels with errors.Is.
var (
	ErrInvalidRequest        = errors.Register(SubmoduleName, 1, "invalid request")
	ErrStalePrice            = errors.Register(SubmoduleName, 2, "price is stale")
	ErrZeroPrice             = errors.Register(SubmoduleName, 3, "price is zero or negative")
	ErrWideConfidence        = errors.Register(SubmoduleName, 4, "price confidence interval too wide")
	ErrUnsupportedAsset      = errors.Register(SubmoduleName, 5, "asset not supported by vault configuration")
	ErrDivisionByZero        = errors.Register(SubmoduleName, 6, "division by zero")
	ErrOverflow              = errors.Register(SubmoduleName, 7, "arithmetic overflow")
	ErrZeroShares            = errors.Register(SubmoduleName, 8, "computed share amount is zero")
	ErrSlippageExceeded      = errors.Register(SubmoduleName, 9, "slippage bounds exceeded")
	ErrLossLimitExceeded     = errors.Register(SubmoduleName, 10, "epoch loss limit exceeded")
	ErrInvalidState          = errors.Register(SubmoduleName, 11, "invalid vault state for this action")
	ErrInsolvent             = errors.Register(SubmoduleName, 12, "vault is insolvent")
	ErrStaleValuation        = errors.Register(SubmoduleName, 13, "asset valuation is stale")
	ErrTooManyAssets         = errors.Register(SubmoduleName, 14, "asset type limit reached")
	ErrDuplicateAsset        = errors.Register(SubmoduleName, 15, "asset type already registered")
	ErrInvalidAmount         = errors.Register(SubmoduleName, 16, "invalid amount")
	ErrUnauthorized          = errors.Register(SubmoduleName, 17, "signer is not authorized")
	ErrRequestNotFound       = errors.Register(SubmoduleName, 18, "request not found")
	ErrRequestLocked         = errors.Register(SubmoduleName, 19, "request is still inside its lock window")
	ErrReceiptNotFound       = errors.Register(SubmoduleName, 20, "receipt not found")
	ErrNotReceiptOwner       = errors.Register(SubmoduleName, 21, "signer does not own the receipt")
	ErrOperatorFrozen        = errors.Register(SubmoduleName, 22, "operator is frozen")
	ErrVaultDisabled         = errors.Register(SubmoduleName, 23, "vault is disabled")
	ErrInsufficientLiquidity = errors.Register(SubmoduleName, 24, "insufficient recognized liquidity")
	ErrPriceDeviation        = errors.Register(SubmoduleName, 25, "price deviates too far from last accepted price")
)
