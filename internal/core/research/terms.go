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

// Package research produces the facts, statistics and key points a reel is
// written from, either from a built-in topic ladder or from Gemini.
package research

import (
	"regexp"
	"strings"

	"github.com/jaycherian/gcp-go-reel-generator/internal/core/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxSearchTerms is the number of terms kept by ExtractSearchTerms.
const MaxSearchTerms = 5

var (
	wordPattern = regexp.MustCompile(`\b\w+\b`)

	stopWords = map[string]struct{}{
		"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "in": {},
		"on": {}, "at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
	}

	styleContext = map[model.Style][]string{
		model.StyleFinance: {"stock", "market", "investment", "2024"},
		model.StyleTech:    {"technology", "AI", "innovation"},
		model.StyleFitness: {"fitness", "health", "workout"},
	}
)

// ExtractSearchTerms keeps the first MaxSearchTerms meaningful words of the
// prompt, followed by context words for the style, joined by spaces.
func ExtractSearchTerms(prompt string, style model.Style) string {
	words := wordPattern.FindAllString(strings.ToLower(prompt), -1)
	keys := make([]string, 0, len(words)+4)
	for _, w := range words {
		if _, stop := stopWords[w]; stop || len(w) <= 2 {
			continue
		}
		keys = append(keys, w)
	}
	keys = append(keys, styleContext[style]...)
	if len(keys) > MaxSearchTerms {
		keys = keys[:MaxSearchTerms]
	}
	return strings.Join(keys, " ")
}

// titleCase upper-cases the first letter of every word and lower-cases the
// rest.
func titleCase(s string) string {
	return cases.Title(language.Und).String(s)
}
