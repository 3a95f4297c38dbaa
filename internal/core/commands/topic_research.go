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
	"log/slog"

	"github.com/jaycherian/gcp-go-reel-generator/internal/core/cor"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/model"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/research"
)

// TopicResearch gathers the facts a reel is built from. A failing
// researcher never fails the reel: the generic research for the prompt is
// used instead.
type TopicResearch struct {
	cor.BaseCommand
	researcher research.Researcher
}

func NewTopicResearch(name string, researcher research.Researcher) *TopicResearch {
	cmd := &TopicResearch{BaseCommand: *cor.NewBaseCommand(name), researcher: researcher}
	cmd.InputParamName = ParamRequest
	cmd.OutputParamName = ParamResearch
	return cmd
}

func (c *TopicResearch) Execute(context cor.Context) {
	req, _ := cor.GetAs[*model.ReelRequest](context, c.GetInputParam())
	ctx := context.GetContext()

	data, err := c.researcher.Research(ctx, req.Prompt, req.Style)
	if err != nil || data.Empty() {
		slog.WarnContext(ctx, "research failed, using generic research", "prompt", req.Prompt, "error", err)
		data = research.Fallback(req.Prompt)
	}

	c.Succeed(context)
	slog.InfoContext(ctx, "research complete", "source", data.Source, "facts", len(data.Facts), "statistics", len(data.Statistics))
	context.Add(c.GetOutputParam(), &data)
}
