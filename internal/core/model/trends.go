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

import "time"

// Effects are the visual effect suggestions of the trending data.
type Effects struct {
	FlashTransitions bool            `json:"flash_transitions"`
	ZoomEffects      bool            `json:"zoom_effects"`
	TextAnimations   bool            `json:"text_animations"`
	ColorFilters     []string        `json:"color_filters"`
	Transitions      []string        `json:"transitions"`
	Overlays         []string        `json:"overlays"`
	Extra            map[string]bool `json:"extra,omitempty"`
}

// TrendingData is mock social media metadata attached to a reel.
type TrendingData struct {
	Hashtags    []string        `json:"hashtags"`
	Sounds      []string        `json:"sounds"`
	Effects     Effects         `json:"effects"`
	Topics      []string        `json:"topics"`
	VideoStyles map[string]bool `json:"video_styles"`
	Timestamp   time.Time       `json:"timestamp"`
}
