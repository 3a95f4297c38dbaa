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

package script_test

import (
	"testing"

	"github.com/jaycherian/gcp-go-reel-generator/internal/core/model"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/research"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/script"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_FactsAndConclusion(t *testing.T) {
	data := research.Simulate("bitcoin")
	s := script.Build("bitcoin", data, model.StyleFinance, 15)

	// four facts: min(9, 8) = 8 seconds split over three cards
	require.Len(t, s.Segments, 4)
	for i := 0; i < 3; i++ {
		seg := s.Segments[i]
		assert.Equal(t, model.SegmentFact, seg.Type)
		assert.Equal(t, model.VisualFactCard, seg.Visual)
		assert.InDelta(t, 8.0/3.0, seg.Duration, 1e-9)
		require.NotNil(t, seg.Data)
		assert.Equal(t, data.Statistics[i].Label, seg.Data.Label)
	}
	last := s.Segments[3]
	assert.Equal(t, model.SegmentConclusion, last.Type)
	assert.Equal(t, "Remember: Institutional adoption accelerating, Regulatory clarity improving. What's your take?", last.Text)
	assert.InDelta(t, 7.0, last.Duration, 1e-9)
	assert.InDelta(t, 15.0, s.Duration(), 1e-9)
	assert.Equal(t, 15.0, s.TotalDuration)
}

func TestBuild_ShortReelDropsConclusion(t *testing.T) {
	data := research.Simulate("bitcoin")
	s := script.Build("bitcoin", data, model.StyleTrendy, 4)

	// fact time min(2.4, 8) leaves 1.6s, too short for a conclusion
	require.Len(t, s.Segments, 3)
	assert.InDelta(t, 2.4, s.Duration(), 1e-9)
}

func TestBuild_StatisticsShorterThanFacts(t *testing.T) {
	data := model.ResearchData{
		Facts:      []string{"one", "two"},
		Statistics: []model.Statistic{{Label: "L", Value: "V", Change: "+1"}},
	}
	s := script.Build("x", data, model.StyleTech, 10)
	require.Len(t, s.Segments, 2)
	assert.NotNil(t, s.Segments[0].Data)
	assert.Nil(t, s.Segments[1].Data)
	assert.InDelta(t, 2.0, s.Segments[0].Duration, 1e-9)
}

func TestBuild_EmptyResearchGetsHook(t *testing.T) {
	s := script.Build("quantum pets", model.ResearchData{}, model.StyleTech, 12)
	require.Len(t, s.Segments, 1)
	assert.Equal(t, model.SegmentHook, s.Segments[0].Type)
	assert.Equal(t, "The quantum pets breakthrough everyone's talking about:", s.Segments[0].Text)
	assert.Equal(t, 12.0, s.Segments[0].Duration)
}

func TestHook(t *testing.T) {
	assert.Equal(t, "Here's why Tesla just changed everything:", script.Hook("Tesla earnings", model.StyleFinance))
	assert.Equal(t, "You won't believe what happened with cats:", script.Hook("cats", model.StyleLifestyle))
}

func TestShouldUseMusicOnly(t *testing.T) {
	assert.True(t, script.ShouldUseMusicOnly("My Daily routine", model.StyleLifestyle))
	assert.True(t, script.ShouldUseMusicOnly("why sleep matters", model.StyleFitness))
	assert.True(t, script.ShouldUseMusicOnly("why sleep matters", model.StyleFinance))
	assert.False(t, script.ShouldUseMusicOnly("why sleep matters", model.StyleLifestyle))
}

func TestCleanForSpeech(t *testing.T) {
	assert.Equal(t, "AI costs 3 now, really!", script.CleanForSpeech("AI costs $3 (now), really!"))
}
