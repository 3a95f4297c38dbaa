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
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/trends"
)

// TrendFetcher attaches style specific trending data to requests that ask
// for it.
type TrendFetcher struct {
	cor.BaseCommand
	analyzer *trends.Analyzer
}

func NewTrendFetcher(name string, analyzer *trends.Analyzer) *TrendFetcher {
	cmd := &TrendFetcher{BaseCommand: *cor.NewBaseCommand(name), analyzer: analyzer}
	cmd.InputParamName = ParamRequest
	cmd.OutputParamName = ParamTrending
	return cmd
}

func (c *TrendFetcher) IsExecutable(context cor.Context) bool {
	req, ok := cor.GetAs[*model.ReelRequest](context, c.GetInputParam())
	return ok && req.IncludeTrending && context.GetContext() != nil
}

func (c *TrendFetcher) Execute(context cor.Context) {
	req, _ := cor.GetAs[*model.ReelRequest](context, c.GetInputParam())
	ctx := context.GetContext()

	data, err := c.analyzer.ForStyle(ctx, req.Style)
	if err != nil {
		slog.WarnContext(ctx, "trend analysis failed, using fallback trends", "error", err)
		data = c.analyzer.Fallback()
	}

	c.Succeed(context)
	context.Add(c.GetOutputParam(), &data)
}
