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
	"log"
	"os"

	"github.com/jaycherian/gcp-go-reel-generator/internal/cloud"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/services"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/workflow"
)

// StateManager holds the long lived components of the server.
type StateManager struct {
	config    *cloud.Config
	cloud     *cloud.ServiceClients
	deps      workflow.Dependencies
	generator *workflow.ReelGenerator
	workspace *services.Workspace
	reels     *services.ReelService
	retention *workflow.RetentionWorkflow
}

var state = &StateManager{}

// SetupOS defaults the configuration location to ./configs and the local
// runtime; values already in the environment win.
func SetupOS() (err error) {
	if os.Getenv(cloud.EnvConfigFilePrefix) == "" {
		if err = os.Setenv(cloud.EnvConfigFilePrefix, "configs"); err != nil {
			return err
		}
	}
	if os.Getenv(cloud.EnvConfigRuntime) == "" {
		err = os.Setenv(cloud.EnvConfigRuntime, "local")
	}
	return err
}

func GetConfig() *cloud.Config {
	if state.config == nil {
		if err := SetupOS(); err != nil {
			log.Fatalf("failed to setup os: %v\n", err)
		}
		config := cloud.NewConfig()
		if err := cloud.LoadConfig(config); err != nil {
			log.Fatalf("failed to load configuration: %v\n", err)
		}
		state.config = config
	}
	return state.config
}

// InitState creates the cloud clients and the generation pipeline, then
// starts the Pub/Sub listeners and the retention timer.
func InitState(ctx context.Context) error {
	config := GetConfig()
	if err := config.EnsureDirs(); err != nil {
		return err
	}

	cloudClients, err := cloud.NewCloudServiceClients(ctx, config)
	if err != nil {
		return err
	}
	state.cloud = cloudClients

	state.deps = workflow.NewDependencies(config, cloudClients)
	state.generator = workflow.NewReelGenerator(config, state.deps)
	state.workspace = services.NewWorkspace(config)
	state.reels = services.NewReelService(config, cloudClients)

	if state.retention = workflow.NewRetentionWorkflow(config, state.workspace); state.retention != nil {
		state.retention.StartTimer(workflow.DefaultRetentionInterval)
	}

	SetupListeners(config, cloudClients, ctx)
	return nil
}

// CloseState stops the background work and releases the clients.
func CloseState() {
	if state.retention != nil {
		state.retention.Stop()
	}
	state.cloud.Close()
}
