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

package render

import (
	"strings"
	"unicode/utf8"
)

// Wrap breaks text into lines of at most threshold characters. A word is
// never split: a word longer than threshold gets a line of its own.
func Wrap(text string, threshold int) []string {
	var (
		lines   []string
		current []string
	)
	for _, word := range strings.Fields(text) {
		current = append(current, word)
		if utf8.RuneCountInString(strings.Join(current, " ")) <= threshold {
			continue
		}
		if len(current) > 1 {
			lines = append(lines, strings.Join(current[:len(current)-1], " "))
			current = []string{word}
		} else {
			lines = append(lines, word)
			current = nil
		}
	}
	if len(current) > 0 {
		lines = append(lines, strings.Join(current, " "))
	}
	return lines
}

// Reveal returns the first int(charsPerSecond*t) characters of text.
func Reveal(text string, t float64, charsPerSecond float64) string {
	n := int(charsPerSecond * t)
	if n <= 0 {
		return ""
	}
	if n >= utf8.RuneCountInString(text) {
		return text
	}
	i := 0
	for pos := range text {
		if i == n {
			return text[:pos]
		}
		i++
	}
	return text
}
