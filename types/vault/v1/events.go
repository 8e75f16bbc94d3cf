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
	"time"

	"cosmossdk.io/math"
)

// EventAssetRegistered is emitted when a new asset type joins the
// valuation registry.
type EventAssetRegistered struct {
	AssetId  string `json:"asset_id"`
	Decimals uint32 `json:"decimals"`
	Feeder   string `json:"feeder"`
	Index    uint64 `json:"index"`
}

// EventAssetValueUpdated is emitted when a stored asset valuation
// changes.
type EventAssetValueUpdated struct {
	AssetId       string    `json:"asset_id"`
	PreviousValue math.Int  `json:"previous_value"`
	NewValue      math.Int  `json:"new_value"`
	Timestamp     time.Time `json:"timestamp"`
}

// EventAssetInsolvencyReported is emitted when a position reports a
// shortfall it cannot cover.
type EventAssetInsolvencyReported struct {
	AssetId   string    `json:"asset_id"`
	Shortfall math.Int  `json:"shortfall"`
	Timestamp time.Time `json:"timestamp"`
}

// EventPriceUpdated is emitted when a feeder report passes validation.
type EventPriceUpdated struct {
	AssetId    string         `json:"asset_id"`
	Price      math.LegacyDec `json:"price"`
	Confidence math.Int       `json:"confidence"`
	Timestamp  time.Time      `json:"timestamp"`
}

// EventDepositRequested is emitted when deposit assets enter escrow.
type EventDepositRequested struct {
	RequestId uint64    `json:"request_id"`
	ReceiptId uint64    `json:"receipt_id"`
	Owner     string    `json:"owner"`
	AssetId   string    `json:"asset_id"`
	Amount    math.Int  `json:"amount"`
	UnlockAt  time.Time `json:"unlock_at"`
}

// EventDepositExecuted is emitted when an escrowed deposit converts to
// shares.
type EventDepositExecuted struct {
	RequestId   uint64   `json:"request_id"`
	ReceiptId   uint64   `json:"receipt_id"`
	AssetId     string   `json:"asset_id"`
	Amount      math.Int `json:"amount"`
	Value       math.Int `json:"value"`
	Fee         math.Int `json:"fee"`
	Shares      math.Int `json:"shares"`
	BlockHeight int64    `json:"block_height"`
}

// EventDepositCancelled is emitted when an escrowed deposit is refunded.
type EventDepositCancelled struct {
	RequestId uint64   `json:"request_id"`
	ReceiptId uint64   `json:"receipt_id"`
	AssetId   string   `json:"asset_id"`
	Amount    math.Int `json:"amount"`
}

// EventWithdrawRequested is emitted when shares are reserved for
// withdrawal.
type EventWithdrawRequested struct {
	RequestId uint64    `json:"request_id"`
	ReceiptId uint64    `json:"receipt_id"`
	AssetId   string    `json:"asset_id"`
	Shares    math.Int  `json:"shares"`
	UnlockAt  time.Time `json:"unlock_at"`
}

// EventWithdrawExecuted is emitted when reserved shares are burned and
// assets paid out.
type EventWithdrawExecuted struct {
	RequestId   uint64   `json:"request_id"`
	ReceiptId   uint64   `json:"receipt_id"`
	AssetId     string   `json:"asset_id"`
	Shares      math.Int `json:"shares"`
	Value       math.Int `json:"value"`
	Fee         math.Int `json:"fee"`
	Amount      math.Int `json:"amount"`
	BlockHeight int64    `json:"block_height"`
}

// EventWithdrawCancelled is emitted when reserved shares are released
// back to the receipt.
type EventWithdrawCancelled struct {
	RequestId uint64   `json:"request_id"`
	ReceiptId uint64   `json:"receipt_id"`
	Shares    math.Int `json:"shares"`
}

// EventReceiptTransferred is emitted when receipt ownership changes.
type EventReceiptTransferred struct {
	ReceiptId uint64 `json:"receipt_id"`
	From      string `json:"from"`
	To        string `json:"to"`
}

// EventOperationBegan is emitted when an operator takes the vault into
// an operation window.
type EventOperationBegan struct {
	Operator  string    `json:"operator"`
	Epoch     uint64    `json:"epoch"`
	BaseValue math.Int  `json:"base_value"`
	LossLimit math.Int  `json:"loss_limit"`
	Timestamp time.Time `json:"timestamp"`
}

// EventOperationEnded is emitted when an operation window closes within
// its loss budget.
type EventOperationEnded struct {
	Operator    string   `json:"operator"`
	Epoch       uint64   `json:"epoch"`
	Loss        math.Int `json:"loss"`
	EpochLoss   math.Int `json:"epoch_loss"`
	TotalValue  math.Int `json:"total_value"`
	TotalShares math.Int `json:"total_shares"`
}

// EventOperationForceEnded is emitted when the authority closes a stuck
// operation window.
type EventOperationForceEnded struct {
	Authority string `json:"authority"`
	Operator  string `json:"operator"`
	Epoch     uint64 `json:"epoch"`
}

// EventLossToleranceUpdated is emitted when the per-epoch loss
// tolerance changes.
type EventLossToleranceUpdated struct {
	PreviousBps uint64 `json:"previous_bps"`
	NewBps      uint64 `json:"new_bps"`
}

// EventOperatorRegistered is emitted when an operator is granted access.
type EventOperatorRegistered struct {
	Operator string `json:"operator"`
}

// EventOperatorRemoved is emitted when an operator is deregistered.
type EventOperatorRemoved struct {
	Operator string `json:"operator"`
}

// EventOperatorFrozen is emitted when an operator is barred from new
// operations.
type EventOperatorFrozen struct {
	Operator string `json:"operator"`
}

// EventOperatorUnfrozen is emitted when an operator freeze is lifted.
type EventOperatorUnfrozen struct {
	Operator string `json:"operator"`
}

// EventVaultDisabled is emitted when user flows are halted.
type EventVaultDisabled struct {
	Authority string `json:"authority"`
}

// EventVaultEnabled is emitted when user flows resume.
type EventVaultEnabled struct {
	Authority string `json:"authority"`
}

// EventFeesCollected is emitted when accumulated fees leave the module
// account.
type EventFeesCollected struct {
	AssetId   string   `json:"asset_id"`
	Amount    math.Int `json:"amount"`
	Recipient string   `json:"recipient"`
}

// EventRewardCreated is emitted when a reward distribution is funded.
type EventRewardCreated struct {
	RewardId      uint64         `json:"reward_id"`
	AssetId       string         `json:"asset_id"`
	Amount        math.Int       `json:"amount"`
	RatePerSecond math.LegacyDec `json:"rate_per_second"`
}

// EventRewardToppedUp is emitted when an existing distribution receives
// additional funding.
type EventRewardToppedUp struct {
	RewardId  uint64   `json:"reward_id"`
	Amount    math.Int `json:"amount"`
	Remaining math.Int `json:"remaining"`
}

// EventRewardAccrued is emitted when a distribution releases value into
// the vault.
type EventRewardAccrued struct {
	RewardId       uint64    `json:"reward_id"`
	AssetId        string    `json:"asset_id"`
	Amount         math.Int  `json:"amount"`
	ElapsedSeconds int64     `json:"elapsed_seconds"`
	Timestamp      time.Time `json:"timestamp"`
}

// EventRemotePositionRegistered is emitted when a cross-chain position
// is enrolled for value reporting.
type EventRemotePositionRegistered struct {
	AssetId      string `json:"asset_id"`
	OriginDomain uint32 `json:"origin_domain"`
	Oracle       string `json:"oracle"`
}

// EventRemoteValueReported is emitted when a remote value report is
// accepted.
type EventRemoteValueReported struct {
	AssetId   string    `json:"asset_id"`
	Value     math.Int  `json:"value"`
	Shortfall math.Int  `json:"shortfall"`
	Timestamp time.Time `json:"timestamp"`
}

func (*EventAssetRegistered) Reset()         {}
func (*EventAssetRegistered) ProtoMessage()  {}
func (e *EventAssetRegistered) String() string { return fmt.Sprintf("%+v", *e) }

func (*EventAssetValueUpdated) Reset()         {}
func (*EventAssetValueUpdated) ProtoMessage()  {}
func (e *EventAssetValueUpdated) String() string { return fmt.Sprintf("%+v", *e) }

func (*EventAssetInsolvencyReported) Reset()         {}
func (*EventAssetInsolvencyReported) ProtoMessage()  {}
func (e *EventAssetInsolvencyReported) String() string { return fmt.Sprintf("%+v", *e) }

func (*EventPriceUpdated) Reset()         {}
func (*EventPriceUpdated) ProtoMessage()  {}
func (e *EventPriceUpdated) String() string { return fmt.Sprintf("%+v", *e) }

func (*EventDepositRequested) Reset()         {}
func (*EventDepositRequested) ProtoMessage()  {}
func (e *EventDepositRequested) String() string { return fmt.Sprintf("%+v", *e) }

func (*EventDepositExecuted) Reset()         {}
func (*EventDepositExecuted) ProtoMessage()  {}
func (e *EventDepositExecuted) String() string { return fmt.Sprintf("%+v", *e) }

func (*EventDepositCancelled) Reset()         {}
func (*EventDepositCancelled) ProtoMessage()  {}
func (e *EventDepositCancelled) String() string { return fmt.Sprintf("%+v", *e) }

func (*EventWithdrawRequested) Reset()         {}
func (*EventWithdrawRequested) ProtoMessage()  {}
func (e *EventWithdrawRequested) String() string { return fmt.Sprintf("%+v", *e) }

func (*EventWithdrawExecuted) Reset()         {}
func (*EventWithdrawExecuted) ProtoMessage()  {}
func (e *EventWithdrawExecuted) String() string { return fmt.Sprintf("%+v", *e) }

func (*EventWithdrawCancelled) Reset()         {}
func (*EventWithdrawCancelled) ProtoMessage()  {}
func (e *EventWithdrawCancelled) String() string { return fmt.Sprintf("%+v", *e) }

func (*EventReceiptTransferred) Reset()         {}
func (*EventReceiptTransferred) ProtoMessage()  {}
func (e *EventReceiptTransferred) String() string { return fmt.Sprintf("%+v", *e) }

func (*EventOperationBegan) Reset()         {}
func (*EventOperationBegan) ProtoMessage()  {}
func (e *EventOperationBegan) String() string { return fmt.Sprintf("%+v", *e) }

func (*EventOperationEnded) Reset()         {}
func (*EventOperationEnded) ProtoMessage()  {}
func (e *EventOperationEnded) String() string { return fmt.Sprintf("%+v", *e) }

func (*EventOperationForceEnded) Reset()         {}
func (*EventOperationForceEnded) ProtoMessage()  {}
func (e *EventOperationForceEnded) String() string { return fmt.Sprintf("%+v", *e) }

func (*EventLossToleranceUpdated) Reset()         {}
func (*EventLossToleranceUpdated) ProtoMessage()  {}
func (e *EventLossToleranceUpdated) String() string { return fmt.Sprintf("%+v", *e) }

func (*EventOperatorRegistered) Reset()         {}
func (*EventOperatorRegistered) ProtoMessage()  {}
func (e *EventOperatorRegistered) String() string { return fmt.Sprintf("%+v", *e) }

func (*EventOperatorRemoved) Reset()         {}
func (*EventOperatorRemoved) ProtoMessage()  {}
func (e *EventOperatorRemoved) String() string { return fmt.Sprintf("%+v", *e) }

func (*EventOperatorFrozen) Reset()         {}
func (*EventOperatorFrozen) ProtoMessage()  {}
func (e *EventOperatorFrozen) String() string { return fmt.Sprintf("%+v", *e) }

func (*EventOperatorUnfrozen) Reset()         {}
func (*EventOperatorUnfrozen) ProtoMessage()  {}
func (e *EventOperatorUnfrozen) String() string { return fmt.Sprintf("%+v", *e) }

func (*EventVaultDisabled) Reset()         {}
func (*EventVaultDisabled) ProtoMessage()  {}
func (e *EventVaultDisabled) String() string { return fmt.Sprintf("%+v", *e) }

func (*EventVaultEnabled) Reset()         {}
func (*EventVaultEnabled) ProtoMessage()  {}
func (e *EventVaultEnabled) String() string { return fmt.Sprintf("%+v", *e) }

func (*EventFeesCollected) Reset()         {}
func (*EventFeesCollected) ProtoMessage()  {}
func (e *EventFeesCollected) String() string { return fmt.Sprintf("%+v", *e) }

func (*EventRewardCreated) Reset()         {}
func (*EventRewardCreated) ProtoMessage()  {}
func (e *EventRewardCreated) String() string { return fmt.Sprintf("%+v", *e) }

func (*EventRewardToppedUp) Reset()         {}
func (*EventRewardToppedUp) ProtoMessage()  {}
func (e *EventRewardToppedUp) String() string { return fmt.Sprintf("%+v", *e) }

func (*EventRewardAccrued) Reset()         {}
func (*EventRewardAccrued) ProtoMessage()  {}
func (e *EventRewardAccrued) String() string { return fmt.Sprintf("%+v", *e) }

func (*EventRemotePositionRegistered) Reset()         {}
func (*EventRemotePositionRegistered) ProtoMessage()  {}
func (e *EventRemotePositionRegistered) String() string { return fmt.Sprintf("%+v", *e) }

func (*EventRemoteValueReported) Reset()         {}
func (*EventRemoteValueReported) ProtoMessage()  {}
func (e *EventRemoteValueReported) String() string { return fmt.Sprintf("%+v", *e) }
