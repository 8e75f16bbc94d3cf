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
	"bytes"
	"encoding/binary"
	"fmt"
	"math/big"
	"time"

	"cosmossdk.io/math"
)

const (
	reportPayloadSize      = 105
	reportMessageType      = 0x01
	reportDecimalPrecision = 18
	reportAssetIdFieldSize = 32
)

// ValueReportPayload is the decoded remote position value report carried
// inside a Hyperlane message body. Value and Shortfall arrive as 1e18
// fixed-point USD and are converted to micro-USD here.
type ValueReportPayload struct {
	MessageType uint8
	AssetId     string
	Value       math.Int
	Shortfall   math.Int
	Timestamp   time.Time
}

// ParseValueReportPayload decodes the fixed-length value report payload
// into a strongly typed representation. All numeric values are expected
// to be big-endian encoded.
func ParseValueReportPayload(body []byte) (ValueReportPayload, error) {
	if len(body) != reportPayloadSize {
		return ValueReportPayload{}, fmt.Errorf("invalid value report payload size: expected %d, got %d", reportPayloadSize, len(body))
	}

	if body[0] != reportMessageType {
		return ValueReportPayload{}, fmt.Errorf("invalid value report message type 0x%02x", body[0])
	}

	assetId := string(bytes.TrimRight(body[1:1+reportAssetIdFieldSize], "\x00"))
	if assetId == "" {
		return ValueReportPayload{}, fmt.Errorf("value report asset identifier is empty")
	}
	for _, c := range assetId {
		if c < 0x21 || c > 0x7e {
			return ValueReportPayload{}, fmt.Errorf("value report asset identifier contains byte 0x%02x", c)
		}
	}

	valueBig := new(big.Int).SetBytes(body[33:65])
	shortfallBig := new(big.Int).SetBytes(body[65:97])
	timestamp := int64(binary.BigEndian.Uint64(body[97:105]))

	value := math.LegacyNewDecFromBigIntWithPrec(valueBig, reportDecimalPrecision).MulInt64(ValueScale).TruncateInt()
	shortfall := math.LegacyNewDecFromBigIntWithPrec(shortfallBig, reportDecimalPrecision).MulInt64(ValueScale).TruncateInt()

	return ValueReportPayload{
		MessageType: body[0],
		AssetId:     assetId,
		Value:       value,
		Shortfall:   shortfall,
		Timestamp:   time.Unix(timestamp, 0).UTC(),
	}, nil
}

// EncodeValueReportPayload is the inverse of ParseValueReportPayload,
// used by tests and by relayer tooling to build report bodies.
func EncodeValueReportPayload(assetId string, value, shortfall math.Int, timestamp time.Time) ([]byte, error) {
	if len(assetId) == 0 || len(assetId) > reportAssetIdFieldSize {
		return nil, fmt.Errorf("asset identifier length %d out of range", len(assetId))
	}
	if value.IsNil() || value.IsNegative() || shortfall.IsNil() || shortfall.IsNegative() {
		return nil, fmt.Errorf("value and shortfall must be non-negative")
	}

	// Micro-USD to 1e18 fixed-point USD.
	scale := math.NewIntWithDecimal(1, reportDecimalPrecision-ValueDecimals)
	valueBig := value.Mul(scale).BigInt()
	shortfallBig := shortfall.Mul(scale).BigInt()

	valueBytes := valueBig.Bytes()
	shortfallBytes := shortfallBig.Bytes()
	if len(valueBytes) > 32 || len(shortfallBytes) > 32 {
		return nil, fmt.Errorf("value report magnitude exceeds 32 bytes")
	}

	body := make([]byte, reportPayloadSize)
	body[0] = reportMessageType
	copy(body[1:], assetId)
	copy(body[33+32-len(valueBytes):65], valueBytes)
	copy(body[65+32-len(shortfallBytes):97], shortfallBytes)
	binary.BigEndian.PutUint64(body[97:105], uint64(timestamp.Unix()))
	return body, nil
}
