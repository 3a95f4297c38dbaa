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

// Package model holds the data passed between the stages of a reel
// generation: research, script, trending data, requests and results.
package model

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
)

// Style selects the palette, audio recipe and content templates of a reel.
type Style string

const (
	StyleTrendy    Style = "trendy"
	StyleBusiness  Style = "business"
	StyleLifestyle Style = "lifestyle"
	StyleTech      Style = "tech"
	StyleFinance   Style = "finance"
	StyleFitness   Style = "fitness"
)

// DefaultStyle is used when a request names none.
const DefaultStyle = StyleTrendy

// ErrUnknownStyle is returned by ParseStyle.
var ErrUnknownStyle = errors.New("unknown style")

var allStyles = []Style{StyleTrendy, StyleBusiness, StyleLifestyle, StyleTech, StyleFinance, StyleFitness}

// AllStyles returns the supported styles in display order.
func AllStyles() []Style {
	out := make([]Style, len(allStyles))
	copy(out, allStyles)
	return out
}

// ParseStyle accepts a style tag in any case; empty means DefaultStyle.
func ParseStyle(in string) (Style, error) {
	s := Style(strings.ToLower(strings.TrimSpace(in)))
	if s == "" {
		return DefaultStyle, nil
	}
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStyle, in)
	}
	return s, nil
}

// Valid reports whether s is one of the supported styles.
func (s Style) Valid() bool {
	for _, v := range allStyles {
		if v == s {
			return true
		}
	}
	return false
}

func (s Style) String() string {
	return string(s)
}

// StyleInfo describes a style for clients.
type StyleInfo struct {
	ID          Style  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

var styleInfo = map[Style]StyleInfo{
	StyleTrendy:    {ID: StyleTrendy, Name: "Trendy", Description: "Popular social media style"},
	StyleBusiness:  {ID: StyleBusiness, Name: "Business", Description: "Professional and clean"},
	StyleLifestyle: {ID: StyleLifestyle, Name: "Lifestyle", Description: "Casual and personal"},
	StyleTech:      {ID: StyleTech, Name: "Tech", Description: "Modern and sleek"},
	StyleFinance:   {ID: StyleFinance, Name: "Finance", Description: "Stock market focused"},
	StyleFitness:   {ID: StyleFitness, Name: "Fitness", Description: "Health and wellness"},
}

// Styles lists every style with its display name and description.
func Styles() []StyleInfo {
	out := make([]StyleInfo, 0, len(allStyles))
	for _, s := range allStyles {
		out = append(out, styleInfo[s])
	}
	return out
}

// Palette is the two colour vertical gradient of a style.
type Palette struct {
	From color.RGBA
	To   color.RGBA
}

var palettes = map[Style]Palette{
	StyleTrendy:    {From: rgb(255, 20, 147), To: rgb(138, 43, 226)},
	StyleBusiness:  {From: rgb(30, 144, 255), To: rgb(0, 191, 255)},
	StyleLifestyle: {From: rgb(50, 205, 50), To: rgb(0, 250, 154)},
	StyleTech:      {From: rgb(148, 0, 211), To: rgb(75, 0, 130)},
	StyleFinance:   {From: rgb(255, 215, 0), To: rgb(255, 140, 0)},
	StyleFitness:   {From: rgb(220, 20, 60), To: rgb(255, 69, 0)},
}

func rgb(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// PaletteFor returns the palette of s, falling back to the trendy palette.
func PaletteFor(s Style) Palette {
	if p, ok := palettes[s]; ok {
		return p
	}
	return palettes[StyleTrendy]
}
