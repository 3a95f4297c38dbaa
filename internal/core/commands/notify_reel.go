// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package commands

import (
	"encoding/json"
	"fmt"

	"github.com/jaycherian/gcp-go-reel-generator/internal/cloud"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/cor"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/model"
)

// NotifyReel publishes a model.ReelEvent keyed by reel id.
type NotifyReel struct {
	cor.BaseCommand
	notifier cloud.Notifier
}

func NewNotifyReel(name string, notifier cloud.Notifier) *NotifyReel {
	cmd := &NotifyReel{BaseCommand: *cor.NewBaseCommand(name), notifier: notifier}
	cmd.InputParamName = ParamResult
	return cmd
}

func (c *NotifyReel) Execute(context cor.Context) {
	result, _ := cor.GetAs[*model.ReelResult](context, c.GetInputParam())

	payload, err := json.Marshal(model.NewReelEvent(result))
	if err != nil {
		c.Fail(context, err)
		return
	}
	if err := c.notifier.Notify(context.GetContext(), result.ID, payload); err != nil {
		c.Fail(context, fmt.Errorf("failed to notify reel %s: %w", result.ID, err))
		return
	}
	c.Succeed(context)
}
