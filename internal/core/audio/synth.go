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

// Package audio makes the soundtrack of a reel: procedural background music
// per style, written as 16-bit mono WAV, or a voice-over from Cloud
// Text-to-Speech.
package audio

import (
	"math"
	"math/rand/v2"

	"github.com/jaycherian/gcp-go-reel-generator/internal/core/model"
)

// DefaultSampleRate is the rate of synthesized music.
const DefaultSampleRate = 44100

// Recipe names.
const (
	RecipeElectronic = "electronic"
	RecipeAmbient    = "ambient"
	RecipeWorkout    = "workout"
	RecipeChill      = "chill"
)

// RecipeFor maps a style to its music recipe.
func RecipeFor(style model.Style) string {
	switch style {
	case model.StyleFitness:
		return RecipeWorkout
	case model.StyleFinance:
		return RecipeAmbient
	case model.StyleTrendy:
		return RecipeElectronic
	default:
		return RecipeChill
	}
}

// Synth renders music recipes. The noise source is seeded so the same
// request produces the same track.
type Synth struct {
	SampleRate int
	rng        *rand.Rand
}

// NewSynth creates a synth; sampleRate <= 0 selects DefaultSampleRate.
func NewSynth(sampleRate int, seed uint64) *Synth {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return &Synth{SampleRate: sampleRate, rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Synthesize renders seconds of music for style. Samples are in [-1, 1].
func (s *Synth) Synthesize(style model.Style, seconds float64) []float64 {
	n := int(seconds * float64(s.SampleRate))
	if n <= 0 {
		return []float64{}
	}
	buf := make([]float64, n)
	switch RecipeFor(style) {
	case RecipeWorkout:
		s.workout(buf)
	case RecipeAmbient:
		s.ambient(buf)
	case RecipeElectronic:
		s.electronic(buf)
		s.hiHat(buf)
	default:
		s.chill(buf)
	}
	clip(buf)
	return buf
}

func (s *Synth) sine(freq float64, i int) float64 {
	return math.Sin(2 * math.Pi * freq * float64(i) / float64(s.SampleRate))
}

// kicks adds a decaying sine burst every interval samples.
func (s *Synth) kicks(buf []float64, interval, length int, freq, decay, gain float64) {
	for start := 0; start < len(buf); start += interval {
		if start+length >= len(buf) {
			break
		}
		for j := 0; j < length; j++ {
			buf[start+j] += s.sine(freq, j) * math.Exp(-float64(j)/decay) * gain
		}
	}
}

// electronic is a 120 BPM kick under four melody notes, one per quarter.
func (s *Synth) electronic(buf []float64) {
	s.kicks(buf, s.SampleRate/2, 1000, 60, 300, 0.4)
	melody := []float64{440, 523, 659, 784}
	n := len(buf)
	for i, freq := range melody {
		start, end := i*n/4, (i+1)*n/4
		for j := start; j < end; j++ {
			buf[j] += s.sine(freq, j-start) * 0.2
		}
	}
}

// hiHat adds gaussian noise bursts four times a second.
func (s *Synth) hiHat(buf []float64) {
	const length = 200
	for start := 0; start < len(buf); start += s.SampleRate / 4 {
		if start+length >= len(buf) {
			break
		}
		for j := 0; j < length; j++ {
			buf[start+j] += s.rng.NormFloat64() * 0.1 * math.Exp(-float64(j)/50) * 0.2
		}
	}
}

// ambient is a modulated 220 Hz pad with one second fades.
func (s *Synth) ambient(buf []float64) {
	for _, harmonic := range []float64{1, 0.5, 0.25} {
		freq := 220 * harmonic
		for i := range buf {
			modulation := 1 + 0.1*s.sine(0.3, i)
			buf[i] += s.sine(freq, i) * modulation * 0.15
		}
	}
	fade := min(s.SampleRate, len(buf))
	for i := 0; i < fade; i++ {
		g := linspace(i, fade)
		buf[i] *= g
		buf[len(buf)-1-i] *= g
	}
}

// workout is a 180 BPM kick with a rising 440 Hz synth.
func (s *Synth) workout(buf []float64) {
	s.kicks(buf, s.SampleRate/3, 800, 50, 200, 0.5)
	n := len(buf)
	for i := range buf {
		sweep := 0.2 + 0.3*linspace(i, n)
		buf[i] += s.sine(440, i) * sweep * 0.3
	}
}

// chill is a soft G major chord with octave harmonics.
func (s *Synth) chill(buf []float64) {
	for k, freq := range []float64{196, 294, 370, 440} {
		weight := 0.15 - float64(k)*0.02
		for i := range buf {
			buf[i] += (s.sine(freq, i) + 0.3*s.sine(freq*2, i)) * weight
		}
	}
}

// linspace returns the i-th of n points evenly spaced over [0, 1].
func linspace(i, n int) float64 {
	if n <= 1 {
		return 0
	}
	return float64(i) / float64(n-1)
}

func clip(buf []float64) {
	for i, v := range buf {
		buf[i] = math.Max(-1, math.Min(1, v))
	}
}
