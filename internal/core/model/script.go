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

import "strings"

// SegmentType tags how a segment is presented.
type SegmentType string

const (
	SegmentFact       SegmentType = "fact"
	SegmentConclusion SegmentType = "conclusion"
	SegmentHook       SegmentType = "hook"
)

// Visual tags.
const (
	VisualFactCard       = "fact_card"
	VisualConclusionCard = "conclusion_card"
	VisualHook           = "hook"
)

// Segment is a timed unit of script text.
type Segment struct {
	Type     SegmentType `json:"type"`
	Text     string      `json:"text"`
	Duration float64     `json:"duration"` // seconds
	Visual   string      `json:"visual"`
	Data     *Statistic  `json:"data,omitempty"`
}

// Script is the ordered list of segments of one reel.
type Script struct {
	Segments      []Segment `json:"segments"`
	TotalDuration float64   `json:"total_duration"`
	Style         Style     `json:"style"`
}

// Duration is the sum of the segment durations.
func (s Script) Duration() float64 {
	var d float64
	for _, seg := range s.Segments {
		d += seg.Duration
	}
	return d
}

// FullText joins the segment texts for narration.
func (s Script) FullText() string {
	parts := make([]string, 0, len(s.Segments))
	for _, seg := range s.Segments {
		parts = append(parts, seg.Text)
	}
	return strings.Join(parts, " ")
}

// SegmentAt returns the segment active at t seconds and the time elapsed
// inside it. Times past the end map to the last segment.
func (s Script) SegmentAt(t float64) (Segment, float64, bool) {
	if len(s.Segments) == 0 {
		return Segment{}, 0, false
	}
	start := 0.0
	for _, seg := range s.Segments {
		if t < start+seg.Duration {
			if t < start {
				return seg, 0, true
			}
			return seg, t - start, true
		}
		start += seg.Duration
	}
	last := s.Segments[len(s.Segments)-1]
	return last, last.Duration, true
}
