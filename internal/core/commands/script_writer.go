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
	"fmt"
	"log/slog"

	"github.com/jaycherian/gcp-go-reel-generator/internal/core/cor"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/model"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/script"
)

// ScriptWriter turns the research of a request into a timed script.
type ScriptWriter struct {
	cor.BaseCommand
}

func NewScriptWriter(name string) *ScriptWriter {
	cmd := &ScriptWriter{BaseCommand: *cor.NewBaseCommand(name)}
	cmd.InputParamName = ParamResearch
	cmd.OutputParamName = ParamScript
	return cmd
}

func (c *ScriptWriter) IsExecutable(context cor.Context) bool {
	return c.BaseCommand.IsExecutable(context) && context.Get(ParamRequest) != nil
}

func (c *ScriptWriter) Execute(context cor.Context) {
	req, _ := cor.GetAs[*model.ReelRequest](context, ParamRequest)
	data, _ := cor.GetAs[*model.ResearchData](context, c.GetInputParam())

	s := script.Build(req.Prompt, *data, req.Style, req.Duration)
	if len(s.Segments) == 0 {
		c.Fail(context, fmt.Errorf("script for %q has no segments", req.Prompt))
		return
	}

	c.Succeed(context)
	slog.InfoContext(context.GetContext(), "script written", "segments", len(s.Segments), "duration", s.Duration())
	context.Add(c.GetOutputParam(), &s)
}
