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
	"github.com/bcp-innovations/hyperlane-cosmos/util"

	vaultv1 "vault.basinlabs.xyz/types/vault/v1"
)

// Positions held on other chains report their value through Hyperlane
// messages. A report is staged when it arrives and only enters the
// valuation registry when an operator syncs it inside an operation
// window, so remote chains can never move the share ratio under a
// user-facing settlement.

// RegisterRemotePosition enrolls the cross-chain oracle allowed to
// report value for one asset. Reports must arrive from exactly this
// origin domain and sender address.
func (k *Keeper) RegisterRemotePosition(ctx context.Context, signer, assetId string, originDomain uint32, oracle util.HexAddress) error {
	if signer != k.authority {
		return errors.Wrapf(vaultv1.ErrUnauthorized, "%s is not the authority", signer)
	}

	_, found, err := k.GetAssetConfig(ctx, assetId)
	if err != nil {
		return errors.Wrap(err, "unable to fetch asset config")
	}
	if !found {
		return errors.Wrapf(vaultv1.ErrUnsupportedAsset, "asset %s is not registered", assetId)
	}

	config := vaultv1.RemotePositionConfig{
		AssetId:      assetId,
		OriginDomain: originDomain,
		Oracle:       oracle.String(),
	}
	if err := k.SetRemoteConfig(ctx, assetId, config); err != nil {
		return errors.Wrap(err, "unable to persist remote position config")
	}

	k.logger.Info("remote position registered", "asset", assetId, "domain", originDomain, "oracle", oracle.String())

	return k.event.EventManager(ctx).Emit(ctx, &vaultv1.EventRemotePositionRegistered{
		AssetId:      assetId,
		OriginDomain: originDomain,
		Oracle:       oracle.String(),
	})
}

// HandleRemoteValueReport ingests a Hyperlane message body carrying a
// position value report. The report is authenticated against the
// asset's enrolled (origin domain, sender) pair, its timestamp must
// strictly advance past the last accepted report, and it is staged for
// an operator sync rather than applied directly.
func (k *Keeper) HandleRemoteValueReport(ctx context.Context, origin uint32, sender util.HexAddress, body []byte) error {
	payload, err := vaultv1.ParseValueReportPayload(body)
	if err != nil {
		return errors.Wrap(vaultv1.ErrInvalidRequest, err.Error())
	}

	config, found, err := k.GetRemoteConfig(ctx, payload.AssetId)
	if err != nil {
		return errors.Wrap(err, "unable to fetch remote position config")
	}
	if !found {
		return errors.Wrapf(vaultv1.ErrUnsupportedAsset, "asset %s has no remote position enrolled", payload.AssetId)
	}
	if config.OriginDomain != origin {
		return errors.Wrapf(vaultv1.ErrUnauthorized, "report for %s arrived from domain %d, enrolled domain is %d", payload.AssetId, origin, config.OriginDomain)
	}
	if config.Oracle != sender.String() {
		return errors.Wrapf(vaultv1.ErrUnauthorized, "report for %s arrived from %s, enrolled oracle is %s", payload.AssetId, sender.String(), config.Oracle)
	}

	now := k.header.GetHeaderInfo(ctx).Time
	if payload.Timestamp.After(now) {
		return errors.Wrapf(vaultv1.ErrInvalidRequest, "report timestamp %s is in the future", payload.Timestamp)
	}

	previous, found, err := k.GetRemoteReport(ctx, payload.AssetId)
	if err != nil {
		return errors.Wrap(err, "unable to fetch staged report")
	}
	if found && !payload.Timestamp.After(previous.Timestamp) {
		return errors.Wrapf(vaultv1.ErrInvalidRequest, "report timestamp %s does not advance past %s", payload.Timestamp, previous.Timestamp)
	}

	if payload.Value.IsPositive() && payload.Shortfall.IsPositive() {
		return errors.Wrapf(vaultv1.ErrInvalidRequest, "report for %s carries both a value and a shortfall", payload.AssetId)
	}

	report := vaultv1.RemoteValueReport{
		AssetId:    payload.AssetId,
		Value:      payload.Value,
		Shortfall:  payload.Shortfall,
		Timestamp:  payload.Timestamp,
		ReceivedAt: now,
	}
	if err := k.SetRemoteReport(ctx, payload.AssetId, report); err != nil {
		return errors.Wrap(err, "unable to persist staged report")
	}

	k.logger.Debug("remote value report staged", "asset", payload.AssetId, "value", payload.Value.String(), "shortfall", payload.Shortfall.String())

	return k.event.EventManager(ctx).Emit(ctx, &vaultv1.EventRemoteValueReported{
		AssetId:   payload.AssetId,
		Value:     payload.Value,
		Shortfall: payload.Shortfall,
		Timestamp: payload.Timestamp,
	})
}

// SyncRemoteReport applies the staged report of one asset to the
// valuation registry. A report older than the valuation staleness bound
// is rejected rather than marked, so a stalled remote chain surfaces as
// StaleValuation instead of an up-to-date-looking mark. A shortfall
// report flags the asset insolvent through the same path an adaptor
// would use.
func (k *Keeper) SyncRemoteReport(ctx context.Context, operator, assetId string) error {
	report, found, err := k.GetRemoteReport(ctx, assetId)
	if err != nil {
		return errors.Wrap(err, "unable to fetch staged report")
	}
	if !found {
		return errors.Wrapf(vaultv1.ErrStaleValuation, "asset %s has no staged remote report", assetId)
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return errors.Wrap(err, "unable to fetch params")
	}
	now := k.header.GetHeaderInfo(ctx).Time
	if age := now.Sub(report.Timestamp); age.Seconds() > float64(params.MaxValueStalenessSeconds) {
		return errors.Wrapf(vaultv1.ErrStaleValuation, "staged report for %s is %s old, max age %ds", assetId, age, params.MaxValueStalenessSeconds)
	}

	if report.Shortfall.IsPositive() {
		return k.ReportAssetInsolvency(ctx, operator, assetId, report.Shortfall)
	}
	return k.UpdateAssetValue(ctx, operator, assetId, report.Value)
}
