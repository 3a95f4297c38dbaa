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

package render_test

import (
	"image"
	"image/color"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/jaycherian/gcp-go-reel-generator/internal/core/model"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertOpaqueFrame(t *testing.T, img *image.RGBA, w, h int) {
	t.Helper()
	require.Equal(t, image.Rect(0, 0, w, h), img.Bounds())
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0xff {
			t.Fatalf("pixel %d is not opaque", i/4)
		}
	}
}

func TestFrame_EveryStyleAndTime(t *testing.T) {
	stat := &model.Statistic{Label: "Growth", Value: "+45%", Change: "+67% this year"}
	segments := []model.Segment{
		{Type: model.SegmentFact, Text: "Over 2.3 million people are now actively engaged with gardening", Duration: 3, Data: stat},
		{Type: model.SegmentConclusion, Text: "Remember: Growing interest, Market potential. What's your take?", Duration: 6},
		{Type: model.SegmentHook, Text: "You won't believe what happened with gardening:", Duration: 15},
	}
	for _, style := range model.AllStyles() {
		r, err := render.NewRenderer(style)
		require.NoError(t, err)
		for _, seg := range segments {
			for _, ts := range []float64{0, 0.04, seg.Duration / 2, seg.Duration} {
				assertOpaqueFrame(t, r.Frame(seg, ts), render.Width, render.Height)
			}
		}
	}
}

func TestFrame_GradientUsesPalette(t *testing.T) {
	r, err := render.NewRenderer(model.StyleBusiness)
	require.NoError(t, err)
	img := r.Frame(model.Segment{Type: model.SegmentFact}, 0)
	p := model.PaletteFor(model.StyleBusiness)
	assert.Equal(t, color.RGBA{p.From.R, p.From.G, p.From.B, 255}, img.RGBAAt(5, 0))
}

func TestFallbackFrame(t *testing.T) {
	r, err := render.NewRenderer(model.StyleFitness, render.WithSize(216, 384))
	require.NoError(t, err)
	assertOpaqueFrame(t, r.FallbackFrame("a prompt that is long enough to need more than one line"), 216, 384)
}

func TestBackgrounds(t *testing.T) {
	bg := image.NewRGBA(image.Rect(0, 0, 400, 300))
	for i := range bg.Pix {
		bg.Pix[i] = 0xff
	}
	r, err := render.NewRenderer(model.StyleTech, render.WithSize(108, 192), render.WithBackgrounds(bg, nil))
	require.NoError(t, err)
	img := r.SegmentFrame(3, model.Segment{Type: model.SegmentFact, Text: "x"}, 0)
	assertOpaqueFrame(t, img, 108, 192)
}

func TestCoverFit(t *testing.T) {
	wide := image.NewRGBA(image.Rect(0, 0, 1600, 900))
	out := render.CoverFit(wide, 1080, 1920)
	assert.Equal(t, image.Rect(0, 0, 1080, 1920), out.Bounds())

	tall := image.NewRGBA(image.Rect(10, 10, 110, 1010))
	out = render.CoverFit(tall, 108, 192)
	assert.Equal(t, image.Rect(0, 0, 108, 192), out.Bounds())
}

func TestWrap_NeverExceedsByMoreThanOneWord(t *testing.T) {
	texts := []string{
		"Bitcoin reached an all-time high of $73,750 in March 2024",
		"Strength training increases metabolism for up to 48 hours post-workout",
		"supercalifragilisticexpialidocious is a very long word indeed",
		"a b c d e f g h i j k l m n o p",
		"",
		"   spaced    out   words   ",
	}
	for _, text := range texts {
		for _, threshold := range []int{1, 5, 12, 22, 40} {
			lines := render.Wrap(text, threshold)
			for _, line := range lines {
				n := utf8.RuneCountInString(line)
				if n > threshold {
					assert.Len(t, strings.Fields(line), 1, "line %q over %d should be a single word", line, threshold)
				}
			}
			assert.Equal(t, strings.Fields(text), strings.Fields(strings.Join(lines, " ")), "wrap must keep every word in order")
		}
	}
}

func TestWrap_Greedy(t *testing.T) {
	assert.Equal(t, []string{"one two", "three", "four"}, render.Wrap("one two three four", 9))
	assert.Equal(t, []string{"tiny", "enormousword", "end"}, render.Wrap("tiny enormousword end", 5))
}

func TestReveal(t *testing.T) {
	assert.Equal(t, "", render.Reveal("hello", 0, 20))
	assert.Equal(t, "he", render.Reveal("hello", 0.1, 20))
	assert.Equal(t, "hello", render.Reveal("hello", 10, 20))
	assert.Equal(t, "ré", render.Reveal("résumé", 0.1, 20))
}

func TestScriptSource(t *testing.T) {
	r, err := render.NewRenderer(model.StyleLifestyle, render.WithSize(108, 192))
	require.NoError(t, err)
	src, err := render.NewScriptSource(r, *model.GetExampleScript(), 24)
	require.NoError(t, err)
	assert.Equal(t, 144, src.Count())
	assert.Equal(t, 6.0, src.Duration())
	for _, i := range []int{0, 71, 72, 143} {
		assertOpaqueFrame(t, src.Frame(i), 108, 192)
	}

	_, err = render.NewScriptSource(r, model.Script{}, 24)
	assert.ErrorIs(t, err, render.ErrNoFrames)
}

func TestStillSource(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 4, 4))
	src, err := render.NewStillSource(frame, 2, 15)
	require.NoError(t, err)
	assert.Equal(t, 30, src.Count())
	w, h := src.Size()
	assert.Equal(t, []int{4, 4}, []int{w, h})

	_, err = render.NewStillSource(frame, 0, 15)
	assert.ErrorIs(t, err, render.ErrNoFrames)
}
