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

// Statistic is a labelled figure shown on a fact card.
type Statistic struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Change string `json:"change"`
}

// ResearchData is the material a script is written from.
type ResearchData struct {
	Facts      []string    `json:"facts"`
	Statistics []Statistic `json:"statistics"`
	KeyPoints  []string    `json:"key_points"`
	RecentNews []string    `json:"recent_news,omitempty"`
	Source     string      `json:"source,omitempty"`
}

// Empty reports whether the research has nothing to show.
func (r ResearchData) Empty() bool {
	return len(r.Facts) == 0 && len(r.KeyPoints) == 0
}
