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

package mocks

import (
	"testing"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec/address"
	"github.com/cosmos/cosmos-sdk/runtime"
	"github.com/cosmos/cosmos-sdk/testutil"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"vault.basinlabs.xyz/keeper"
	vaultv1 "vault.basinlabs.xyz/types/vault/v1"
	"vault.basinlabs.xyz/utils"
)

// Authority is the governance address wired into test keepers.
var Authority = utils.TestAccount().Address

// VaultKeeper builds a keeper against an in-memory store with a fresh
// map backed bank.
func VaultKeeper(t testing.TB) (*keeper.Keeper, sdk.Context) {
	bank := BankKeeper{Balances: make(map[string]sdk.Coins)}
	k, _, ctx := VaultKeeperWithBank(t, bank)
	return k, ctx
}

// VaultKeeperWithBank builds a keeper against an in-memory store using
// the provided bank, returning the event recorder for assertions.
func VaultKeeperWithBank(t testing.TB, bank vaultv1.BankKeeper) (*keeper.Keeper, *EventService, sdk.Context) {
	key := storetypes.NewKVStoreKey(vaultv1.ModuleName)
	tkey := storetypes.NewTransientStoreKey("transient_" + vaultv1.ModuleName)
	ctx := testutil.DefaultContextWithDB(t, key, tkey).Ctx

	events := &EventService{}
	k := keeper.NewKeeper(
		Authority,
		runtime.NewKVStoreService(key),
		log.NewNopLogger(),
		HeaderService{},
		events,
		address.NewBech32Codec(utils.Bech32Prefix),
		bank,
	)

	return k, events, ctx
}
