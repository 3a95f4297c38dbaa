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

package research

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jaycherian/gcp-go-reel-generator/internal/cloud"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/cor"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/model"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// DefaultPrompt is used when no research prompt template is configured. It
// takes the prompt, the style, the search terms and an example JSON document.
const DefaultPrompt = `You write material for a short vertical social media video.
Topic: %s
Style: %s
Search terms: %s

Return JSON only, with the keys facts (3 to 4 short sentences), statistics
(objects with label, value and change) and key_points (3 short phrases).
Example:
%s`

// ErrEmptyResearch is returned when the model answers without facts.
var ErrEmptyResearch = errors.New("model returned no facts")

// GenAIResearcher asks a Gemini model for research. Failures are passed to
// Fallback when set.
type GenAIResearcher struct {
	Model    *cloud.QuotaAwareGenerativeAIModel
	Prompt   string
	Fallback Researcher

	inputTokens  metric.Int64Counter
	outputTokens metric.Int64Counter
	retries      metric.Int64Counter
}

// NewGenAIResearcher creates a researcher over model. An empty prompt
// selects DefaultPrompt.
func NewGenAIResearcher(model *cloud.QuotaAwareGenerativeAIModel, prompt string, fallback Researcher) *GenAIResearcher {
	if prompt == "" {
		prompt = DefaultPrompt
	}
	meter := otel.Meter(cor.MeterNamespace)
	in, _ := meter.Int64Counter("research.genai.tokens.input")
	out, _ := meter.Int64Counter("research.genai.tokens.output")
	retries, _ := meter.Int64Counter("research.genai.retry")
	return &GenAIResearcher{
		Model:        model,
		Prompt:       prompt,
		Fallback:     fallback,
		inputTokens:  in,
		outputTokens: out,
		retries:      retries,
	}
}

func (r *GenAIResearcher) Research(ctx context.Context, prompt string, style model.Style) (model.ResearchData, error) {
	data, err := r.ask(ctx, prompt, style)
	if err == nil {
		return data, nil
	}
	if r.Fallback == nil {
		return model.ResearchData{}, err
	}
	slog.WarnContext(ctx, "genai research failed, using fallback researcher", "error", err)
	return r.Fallback.Research(ctx, prompt, style)
}

func (r *GenAIResearcher) ask(ctx context.Context, prompt string, style model.Style) (model.ResearchData, error) {
	example, err := json.Marshal(model.GetExampleResearch())
	if err != nil {
		return model.ResearchData{}, err
	}
	text := fmt.Sprintf(r.Prompt, prompt, style, ExtractSearchTerms(prompt, style), string(example))

	out, err := cloud.GenerateMultiModalResponse(ctx, r.inputTokens, r.outputTokens, r.retries, 0, r.Model, cloud.NewTextPart(text))
	if err != nil {
		return model.ResearchData{}, fmt.Errorf("genai research: %w", err)
	}
	return ParseResearch(out)
}

// ParseResearch decodes a model answer into ResearchData.
func ParseResearch(in string) (model.ResearchData, error) {
	var data model.ResearchData
	if err := json.Unmarshal([]byte(cloud.TrimJSONFence(in)), &data); err != nil {
		return model.ResearchData{}, fmt.Errorf("decode research: %w", err)
	}
	if len(data.Facts) == 0 {
		return model.ResearchData{}, ErrEmptyResearch
	}
	data.Source = SourceGenAI
	return data, nil
}
