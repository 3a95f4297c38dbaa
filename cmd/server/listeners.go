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

package main

import (
	"context"
	"log/slog"

	"github.com/jaycherian/gcp-go-reel-generator/internal/cloud"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/workflow"
)

// SetupListeners attaches the request workflow to every configured
// subscription and starts receiving.
func SetupListeners(config *cloud.Config, cloudClients *cloud.ServiceClients, ctx context.Context) {
	if len(cloudClients.PubSubListeners) == 0 {
		return
	}
	requests := workflow.NewReelRequestWorkflow(config, state.deps, state.generator)
	for name, listener := range cloudClients.PubSubListeners {
		slog.Info("starting listener", "subscription", name)
		listener.SetCommand(requests)
		listener.Listen(ctx)
	}
}
