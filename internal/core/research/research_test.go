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

package research_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jaycherian/gcp-go-reel-generator/internal/cloud"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/model"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/research"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestExtractSearchTerms(t *testing.T) {
	assert.Equal(t, "best stocks buy now", research.ExtractSearchTerms("The best stocks to buy now", model.StyleTrendy))
	assert.Equal(t, "bitcoin 2025 stock market investment", research.ExtractSearchTerms("Bitcoin in 2025", model.StyleFinance))
	assert.Equal(t, "technology AI innovation", research.ExtractSearchTerms("an AI", model.StyleTech))
	assert.Equal(t, "", research.ExtractSearchTerms("a an of", model.StyleLifestyle))
	assert.Equal(t, "stock market investment 2024", research.ExtractSearchTerms("go to", model.StyleFinance))
}

func TestSimulate_Ladder(t *testing.T) {
	cases := map[string]string{
		"bitcoin price":      "Bitcoin reached an all-time high of $73,750 in March 2024",
		"top stock picks":    "1. NVIDIA (NVDA) - AI chip leader, 239% YTD growth",
		"stock market today": "S&P 500 gained 24.2% in 2024, outperforming expectations",
		"workout plan":       "Week 1-2: Foundation Phase - 3 workouts per week",
		"health benefits":    "Regular exercise reduces risk of heart disease by 35%",
		"technology future":  "AI market expected to reach $1.8 trillion by 2030",
		"easy pasta recipe":  "Home cooking saves families $3000+ annually compared to dining out",
		"vacation ideas":     "Travel reduces stress hormones by up to 68%",
		"morning habits":     "It takes 21 days to form a habit, 66 days to make it automatic",
	}
	for query, first := range cases {
		data := research.Simulate(query)
		require.NotEmpty(t, data.Facts, query)
		assert.Equal(t, first, data.Facts[0], query)
		assert.Equal(t, research.SourceLadder, data.Source, query)
	}
}

func TestSimulate_Generic(t *testing.T) {
	data := research.Simulate("gardening tips")
	assert.Equal(t, research.SourceGeneric, data.Source)
	assert.Equal(t, "Recent studies show gardening is growing 45% year-over-year", data.Facts[0])
	assert.Equal(t, "Gardening Growth", data.Statistics[0].Label)
	assert.Equal(t, "Gardening is transforming industries", data.KeyPoints[0])

	accented := research.Simulate("élan vital")
	assert.Equal(t, research.SourceGeneric, accented.Source)
	assert.Equal(t, "Élan Growth", accented.Statistics[0].Label)
	assert.Equal(t, "Élan is transforming industries", accented.KeyPoints[0])

	empty := research.Simulate("")
	assert.Equal(t, "Topic Growth", empty.Statistics[0].Label)
}

func TestSimulate_ReturnsCopies(t *testing.T) {
	a := research.Simulate("bitcoin")
	a.Facts[0] = "changed"
	b := research.Simulate("bitcoin")
	assert.NotEqual(t, "changed", b.Facts[0])
}

func TestFallback(t *testing.T) {
	data := research.Fallback("quantum knitting")
	assert.Equal(t, "Key insights about quantum knitting", data.Facts[0])
	assert.Len(t, data.KeyPoints, 3)
}

type fakeModels struct {
	text string
	err  error
}

func (f *fakeModels) GenerateContent(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []*genai.Part{{Text: f.text}}}}},
	}, nil
}

func TestGenAIResearcher(t *testing.T) {
	fake := &fakeModels{text: "```json\n{\"facts\":[\"a\",\"b\"],\"statistics\":[{\"label\":\"L\",\"value\":\"1\",\"change\":\"+1\"}],\"key_points\":[\"k\"]}\n```"}
	m := cloud.NewQuotaAwareModel(&genai.GenerateContentConfig{}, "gemini", fake, 10)
	r := research.NewGenAIResearcher(m, "", research.LadderResearcher{})

	data, err := r.Research(context.Background(), "anything", model.StyleTrendy)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, data.Facts)
	assert.Equal(t, research.SourceGenAI, data.Source)
}

func TestGenAIResearcher_FallsBack(t *testing.T) {
	fake := &fakeModels{err: errors.New("quota")}
	m := cloud.NewQuotaAwareModel(&genai.GenerateContentConfig{}, "gemini", fake, 10)
	r := research.NewGenAIResearcher(m, "", research.LadderResearcher{})

	data, err := r.Research(context.Background(), "bitcoin rally", model.StyleFinance)
	require.NoError(t, err)
	assert.Equal(t, research.SourceLadder, data.Source)

	r.Fallback = nil
	_, err = r.Research(context.Background(), "bitcoin rally", model.StyleFinance)
	assert.Error(t, err)
}

func TestParseResearch_Empty(t *testing.T) {
	_, err := research.ParseResearch(`{"facts":[]}`)
	assert.ErrorIs(t, err, research.ErrEmptyResearch)
	_, err = research.ParseResearch("not json")
	assert.Error(t, err)
}
