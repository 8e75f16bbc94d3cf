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
	"cosmossdk.io/collections"
	"cosmossdk.io/core/address"
	"cosmossdk.io/core/event"
	"cosmossdk.io/core/header"
	"cosmossdk.io/core/store"
	"cosmossdk.io/log"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	vaultv1 "vault.basinlabs.xyz/types/vault/v1"
)

// Keeper holds the vault accounting state. Every method executes inside
// the host chain's transactional store, so state transitions are
// serialized per block without module level locks.
type Keeper struct {
	authority string

	store store.KVStoreService

	logger  log.Logger
	header  header.Service
	event   event.Service
	address address.Codec
	bank    vaultv1.BankKeeper

	Params     collections.Item[vaultv1.Params]
	VaultState collections.Item[vaultv1.VaultState]

	AssetIndex   collections.Map[uint64, string]
	AssetConfigs collections.Map[string, vaultv1.AssetConfig]
	AssetValues  collections.Map[string, vaultv1.AssetValuation]
	AssetCount   collections.Item[uint64]
	Prices       collections.Map[string, vaultv1.PriceEntry]

	Receipts              collections.Map[uint64, vaultv1.Receipt]
	ReceiptNextID         collections.Item[uint64]
	DepositRequests       collections.Map[uint64, vaultv1.DepositRequest]
	DepositRequestNextID  collections.Item[uint64]
	WithdrawRequests      collections.Map[uint64, vaultv1.WithdrawRequest]
	WithdrawRequestNextID collections.Item[uint64]

	Operators       collections.Map[string, bool]
	FrozenOperators collections.Map[string, bool]
	CollectedFees   collections.Map[string, math.Int]

	Rewards      collections.Map[uint64, vaultv1.RewardDistribution]
	RewardNextID collections.Item[uint64]

	RemoteConfigs collections.Map[string, vaultv1.RemotePositionConfig]
	RemoteReports collections.Map[string, vaultv1.RemoteValueReport]
}

func NewKeeper(
	authority string,
	store store.KVStoreService,
	logger log.Logger,
	header header.Service,
	event event.Service,
	address address.Codec,
	bank vaultv1.BankKeeper,
) *Keeper {
	builder := collections.NewSchemaBuilder(store)

	keeper := &Keeper{
		authority: authority,

		store: store,

		logger:  logger.With("module", vaultv1.ModuleName),
		header:  header,
		event:   event,
		address: address,
		bank:    bank,

		Params:     collections.NewItem(builder, vaultv1.ParamsKey, "params", vaultv1.JSONValue[vaultv1.Params]("params")),
		VaultState: collections.NewItem(builder, vaultv1.VaultStateKey, "vault_state", vaultv1.JSONValue[vaultv1.VaultState]("vault_state")),

		AssetIndex:   collections.NewMap(builder, vaultv1.AssetIndexPrefix, "asset_index", collections.Uint64Key, collections.StringValue),
		AssetConfigs: collections.NewMap(builder, vaultv1.AssetConfigPrefix, "asset_configs", collections.StringKey, vaultv1.JSONValue[vaultv1.AssetConfig]("asset_config")),
		AssetValues:  collections.NewMap(builder, vaultv1.AssetValuePrefix, "asset_values", collections.StringKey, vaultv1.JSONValue[vaultv1.AssetValuation]("asset_valuation")),
		AssetCount:   collections.NewItem(builder, vaultv1.AssetCountKey, "asset_count", collections.Uint64Value),
		Prices:       collections.NewMap(builder, vaultv1.PricePrefix, "prices", collections.StringKey, vaultv1.JSONValue[vaultv1.PriceEntry]("price_entry")),

		Receipts:              collections.NewMap(builder, vaultv1.ReceiptPrefix, "receipts", collections.Uint64Key, vaultv1.JSONValue[vaultv1.Receipt]("receipt")),
		ReceiptNextID:         collections.NewItem(builder, vaultv1.ReceiptNextIDKey, "receipt_next_id", collections.Uint64Value),
		DepositRequests:       collections.NewMap(builder, vaultv1.DepositRequestPrefix, "deposit_requests", collections.Uint64Key, vaultv1.JSONValue[vaultv1.DepositRequest]("deposit_request")),
		DepositRequestNextID:  collections.NewItem(builder, vaultv1.DepositRequestNextIDKey, "deposit_request_next_id", collections.Uint64Value),
		WithdrawRequests:      collections.NewMap(builder, vaultv1.WithdrawRequestPrefix, "withdraw_requests", collections.Uint64Key, vaultv1.JSONValue[vaultv1.WithdrawRequest]("withdraw_request")),
		WithdrawRequestNextID: collections.NewItem(builder, vaultv1.WithdrawRequestNextIDKey, "withdraw_request_next_id", collections.Uint64Value),

		Operators:       collections.NewMap(builder, vaultv1.OperatorPrefix, "operators", collections.StringKey, collections.BoolValue),
		FrozenOperators: collections.NewMap(builder, vaultv1.FrozenOperatorPrefix, "frozen_operators", collections.StringKey, collections.BoolValue),
		CollectedFees:   collections.NewMap(builder, vaultv1.CollectedFeePrefix, "collected_fees", collections.StringKey, sdk.IntValue),

		Rewards:      collections.NewMap(builder, vaultv1.RewardPrefix, "rewards", collections.Uint64Key, vaultv1.JSONValue[vaultv1.RewardDistribution]("reward_distribution")),
		RewardNextID: collections.NewItem(builder, vaultv1.RewardNextIDKey, "reward_next_id", collections.Uint64Value),

		RemoteConfigs: collections.NewMap(builder, vaultv1.RemoteConfigPrefix, "remote_configs", collections.StringKey, vaultv1.JSONValue[vaultv1.RemotePositionConfig]("remote_position_config")),
		RemoteReports: collections.NewMap(builder, vaultv1.RemoteReportPrefix, "remote_reports", collections.StringKey, vaultv1.JSONValue[vaultv1.RemoteValueReport]("remote_value_report")),
	}

	_, err := builder.Build()
	if err != nil {
		panic(err)
	}

	return keeper
}

// GetAuthority returns the address permitted to perform admin actions.
func (k *Keeper) GetAuthority() string {
	return k.authority
}
