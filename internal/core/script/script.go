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

// Package script turns research into a timed list of segments and decides
// between narration and music.
package script

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/jaycherian/gcp-go-reel-generator/internal/core/model"
)

const (
	// MaxFacts is the number of facts shown.
	MaxFacts = 3
	// FactShare is the largest share of the reel given to facts.
	FactShare = 0.6
	// SecondsPerFact caps the fact time at this many seconds per fact.
	SecondsPerFact = 2.0
	// MinConclusion is the time that must remain for a conclusion.
	MinConclusion = 2.0
)

// Build lays out the script: up to MaxFacts fact cards sharing the fact
// time, then a conclusion when there are key points and more than
// MinConclusion seconds left. A script with no segments gets a single hook.
func Build(prompt string, research model.ResearchData, style model.Style, duration int) model.Script {
	total := float64(duration)
	s := model.Script{
		Segments:      make([]model.Segment, 0, MaxFacts+1),
		TotalDuration: total,
		Style:         style,
	}

	remaining := total
	facts := research.Facts
	if len(facts) > 0 {
		factTime := math.Min(remaining*FactShare, float64(len(facts))*SecondsPerFact)
		shown := min(MaxFacts, len(facts))
		for i := 0; i < shown; i++ {
			seg := model.Segment{
				Type:     model.SegmentFact,
				Text:     facts[i],
				Duration: factTime / float64(shown),
				Visual:   model.VisualFactCard,
			}
			if i < len(research.Statistics) {
				st := research.Statistics[i]
				seg.Data = &st
			}
			s.Segments = append(s.Segments, seg)
		}
		remaining -= factTime
	}

	if len(research.KeyPoints) > 0 && remaining > MinConclusion {
		points := research.KeyPoints[:min(2, len(research.KeyPoints))]
		s.Segments = append(s.Segments, model.Segment{
			Type:     model.SegmentConclusion,
			Text:     fmt.Sprintf("Remember: %s. What's your take?", strings.Join(points, ", ")),
			Duration: remaining,
			Visual:   model.VisualConclusionCard,
		})
	}

	if len(s.Segments) == 0 {
		s.Segments = append(s.Segments, model.Segment{
			Type:     model.SegmentHook,
			Text:     Hook(prompt, style),
			Duration: total,
			Visual:   model.VisualHook,
		})
	}
	return s
}

// Hook returns the opening line for prompt. Styles without their own
// templates use the trendy one.
func Hook(prompt string, style model.Style) string {
	switch style {
	case model.StyleFinance:
		first := prompt
		if fields := strings.Fields(prompt); len(fields) > 0 {
			first = fields[0]
		}
		return fmt.Sprintf("Here's why %s just changed everything:", first)
	case model.StyleTech:
		return fmt.Sprintf("The %s breakthrough everyone's talking about:", prompt)
	default:
		return fmt.Sprintf("You won't believe what happened with %s:", prompt)
	}
}

var musicKeywords = []string{
	"plan", "routine", "workout", "exercise", "steps", "list", "guide",
	"top", "best", "picks", "stocks", "crypto", "schedule", "daily",
	"weekly", "monthly", "beginner", "advanced",
}

// ShouldUseMusicOnly reports whether the reel gets background music instead
// of narration: list-like prompts, and the fitness and finance styles.
func ShouldUseMusicOnly(prompt string, style model.Style) bool {
	lower := strings.ToLower(prompt)
	for _, k := range musicKeywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return style == model.StyleFitness || style == model.StyleFinance
}

var speechUnsafe = regexp.MustCompile(`[^\w\s.,!?]`)

// CleanForSpeech drops everything but word characters, whitespace and basic
// punctuation.
func CleanForSpeech(text string) string {
	return speechUnsafe.ReplaceAllString(text, "")
}
