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
	"context"

	"cosmossdk.io/core/event"
	"google.golang.org/protobuf/runtime/protoiface"
)

// EventService records emitted events in order so tests can assert on
// them without a running event bus.
type EventService struct {
	Events []protoiface.MessageV1
}

var _ event.Service = &EventService{}

func (s *EventService) EventManager(_ context.Context) event.Manager {
	return eventManager{service: s}
}

type eventManager struct {
	service *EventService
}

func (m eventManager) Emit(_ context.Context, ev protoiface.MessageV1) error {
	m.service.Events = append(m.service.Events, ev)
	return nil
}

func (m eventManager) EmitKV(_ context.Context, _ string, _ ...event.Attribute) error {
	return nil
}

func (m eventManager) EmitNonConsensus(_ context.Context, ev protoiface.MessageV1) error {
	m.service.Events = append(m.service.Events, ev)
	return nil
}
