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

package workflow

import (
	"github.com/jaycherian/gcp-go-reel-generator/internal/cloud"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/commands"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/cor"
)

// ReelRequestWorkflow handles generation requests delivered over Pub/Sub.
// The message body is a JSON model.ReelRequest; uploads may be given as
// gs:// URIs and are downloaded before generation.
type ReelRequestWorkflow struct {
	cor.BaseCommand
	chain cor.Chain
}

func (m *ReelRequestWorkflow) Execute(context cor.Context) {
	m.chain.Execute(context)
}

func (m *ReelRequestWorkflow) IsExecutable(context cor.Context) bool {
	return m.chain.IsExecutable(context)
}

func NewReelRequestWorkflow(config *cloud.Config, deps Dependencies, generator cor.Command) *ReelRequestWorkflow {
	out := cor.NewBaseChain("reel-request-workflow")
	out.AddCommand(commands.NewReelTriggerReader("reel-trigger-reader"))
	out.AddCommand(commands.NewGCSToTempFile("gcs-to-temp-file", deps.Storage, config.Storage.TempDir))
	out.AddCommand(generator)

	return &ReelRequestWorkflow{
		BaseCommand: *cor.NewBaseCommand("reel-request-workflow"),
		chain:       out,
	}
}
