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

package model

// GetExampleResearch returns a filled ResearchData used as the one-shot
// example of the research prompt, so the model answers in the same shape.
func GetExampleResearch() *ResearchData {
	return &ResearchData{
		Facts: []string{
			"Home cooking saves families $3000+ annually compared to dining out",
			"Meal prep reduces food waste by up to 40%",
			"Mediterranean diet linked to 20% lower risk of heart disease",
		},
		Statistics: []Statistic{
			{Label: "Annual Savings", Value: "$3,000+", Change: "From home cooking"},
			{Label: "Food Waste Reduction", Value: "-40%", Change: "With meal prep"},
		},
		KeyPoints: []string{"Fresh ingredients make all the difference", "Prep ahead for busy weeks"},
		Source:    "example",
	}
}

// GetExampleScript returns a short two segment script, used by tests and the
// CLI preview.
func GetExampleScript() *Script {
	stat := GetExampleResearch().Statistics[0]
	return &Script{
		Segments: []Segment{
			{Type: SegmentFact, Text: "Home cooking saves families $3000+ annually compared to dining out", Duration: 3, Visual: VisualFactCard, Data: &stat},
			{Type: SegmentConclusion, Text: "Remember: Fresh ingredients make all the difference, Prep ahead for busy weeks. What's your take?", Duration: 3, Visual: VisualConclusionCard},
		},
		TotalDuration: 6,
		Style:         StyleLifestyle,
	}
}
