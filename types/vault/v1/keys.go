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
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
)

// ModuleName is the name of the vault module, used for the module escrow
// account and as the logging namespace.
const ModuleName = "vault"

// SubmoduleName namespaces this state version.
const SubmoduleName = "vault/v1"

// ModuleAddress is the escrow account holding deposited assets,
// reserved fees, and unreleased reward funding.
var ModuleAddress = authtypes.NewModuleAddress(ModuleName)

var (
	ParamsKey                = []byte("vault/v1/params")
	VaultStateKey            = []byte("vault/v1/vault_state")
	AssetIndexPrefix         = []byte("vault/v1/asset_index/")
	AssetConfigPrefix        = []byte("vault/v1/asset_config/")
	AssetValuePrefix         = []byte("vault/v1/asset_value/")
	AssetCountKey            = []byte("vault/v1/asset_count")
	PricePrefix              = []byte("vault/v1/price/")
	ReceiptPrefix            = []byte("vault/v1/receipt/")
	ReceiptNextIDKey         = []byte("vault/v1/receipt_next_id")
	DepositRequestPrefix     = []byte("vault/v1/deposit_request/")
	DepositRequestNextIDKey  = []byte("vault/v1/deposit_request_next_id")
	WithdrawRequestPrefix    = []byte("vault/v1/withdraw_request/")
	WithdrawRequestNextIDKey = []byte("vault/v1/withdraw_request_next_id")
	OperatorPrefix           = []byte("vault/v1/operator/")
	FrozenOperatorPrefix     = []byte("vault/v1/frozen_operator/")
	CollectedFeePrefix       = []byte("vault/v1/collected_fee/")
	RewardPrefix             = []byte("vault/v1/reward/")
	RewardNextIDKey          = []byte("vault/v1/reward_next_id")
	RemoteConfigPrefix       = []byte("vault/v1/remote_config/")
	RemoteReportPrefix       = []byte("vault/v1/remote_report/")
)
