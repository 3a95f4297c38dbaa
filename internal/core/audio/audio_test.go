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

package audio_test

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/googleapis/gax-go/v2"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/audio"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesize_AllStyles(t *testing.T) {
	s := audio.NewSynth(8000, 1)
	for _, style := range model.AllStyles() {
		buf := s.Synthesize(style, 2)
		require.Len(t, buf, 16000, style)
		var energy float64
		for _, v := range buf {
			require.True(t, v >= -1 && v <= 1, "sample out of range for %s", style)
			energy += math.Abs(v)
		}
		assert.Greater(t, energy, 0.0, style)
	}
}

func TestSynthesize_AmbientFades(t *testing.T) {
	buf := audio.NewSynth(8000, 1).Synthesize(model.StyleFinance, 3)
	assert.Equal(t, 0.0, buf[0])
	assert.Equal(t, 0.0, buf[len(buf)-1])
}

func TestSynthesize_Deterministic(t *testing.T) {
	a := audio.NewSynth(8000, 42).Synthesize(model.StyleTrendy, 1)
	b := audio.NewSynth(8000, 42).Synthesize(model.StyleTrendy, 1)
	assert.Equal(t, a, b)
	assert.Empty(t, audio.NewSynth(8000, 42).Synthesize(model.StyleTrendy, 0))
}

func TestRecipeFor(t *testing.T) {
	assert.Equal(t, audio.RecipeWorkout, audio.RecipeFor(model.StyleFitness))
	assert.Equal(t, audio.RecipeAmbient, audio.RecipeFor(model.StyleFinance))
	assert.Equal(t, audio.RecipeElectronic, audio.RecipeFor(model.StyleTrendy))
	assert.Equal(t, audio.RecipeChill, audio.RecipeFor(model.StyleBusiness))
}

func TestWriteWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "music.wav")
	samples := audio.NewSynth(8000, 1).Synthesize(model.StyleTech, 1.5)
	require.NoError(t, audio.WriteWAV(path, samples, 8000))

	rate, channels, duration, err := audio.WAVInfo(path)
	require.NoError(t, err)
	assert.Equal(t, 8000, rate)
	assert.Equal(t, 1, channels)
	assert.InDelta(t, 1500*time.Millisecond, duration, float64(10*time.Millisecond))
}

type fakeTTS struct {
	req *texttospeechpb.SynthesizeSpeechRequest
	err error
}

func (f *fakeTTS) SynthesizeSpeech(_ context.Context, req *texttospeechpb.SynthesizeSpeechRequest, _ ...gax.CallOption) (*texttospeechpb.SynthesizeSpeechResponse, error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return &texttospeechpb.SynthesizeSpeechResponse{AudioContent: []byte("ID3")}, nil
}

func TestCloudVoice(t *testing.T) {
	fake := &fakeTTS{}
	v := &audio.CloudVoice{Client: fake}
	out, err := v.Speak(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []byte("ID3"), out)
	assert.Equal(t, "en-US", fake.req.Voice.LanguageCode)
	assert.Equal(t, texttospeechpb.AudioEncoding_MP3, fake.req.AudioConfig.AudioEncoding)

	_, err = v.Speak(context.Background(), "")
	assert.ErrorIs(t, err, audio.ErrEmptyNarration)
}

func TestComposer(t *testing.T) {
	dir := t.TempDir()
	s := *model.GetExampleScript()
	ctx := context.Background()

	t.Run("uploaded audio wins", func(t *testing.T) {
		c := &audio.Composer{SampleRate: 8000, TempDir: dir}
		tr, err := c.Compose(ctx, model.ReelRequest{ID: "u", AudioPath: "/x/song.mp3", Style: model.StyleTech}, s)
		require.NoError(t, err)
		assert.Equal(t, model.AudioUploaded, tr.Kind)
		assert.Equal(t, "/x/song.mp3", tr.Path)
	})

	t.Run("voice for narrative prompts", func(t *testing.T) {
		c := &audio.Composer{SampleRate: 8000, TempDir: dir, Voice: &audio.CloudVoice{Client: &fakeTTS{}}}
		tr, err := c.Compose(ctx, model.ReelRequest{ID: "v", Prompt: "why cats purr", Style: model.StyleLifestyle}, s)
		require.NoError(t, err)
		assert.Equal(t, model.AudioVoice, tr.Kind)
		assert.FileExists(t, tr.Path)
	})

	t.Run("music for list prompts", func(t *testing.T) {
		c := &audio.Composer{SampleRate: 8000, TempDir: dir, Voice: &audio.CloudVoice{Client: &fakeTTS{}}}
		tr, err := c.Compose(ctx, model.ReelRequest{ID: "m", Prompt: "top 5 gadgets", Style: model.StyleTech}, s)
		require.NoError(t, err)
		assert.Equal(t, model.AudioMusic, tr.Kind)
		_, _, d, err := audio.WAVInfo(tr.Path)
		require.NoError(t, err)
		assert.InDelta(t, 6*time.Second, d, float64(10*time.Millisecond))
	})

	t.Run("voice failure falls back to music", func(t *testing.T) {
		c := &audio.Composer{SampleRate: 8000, TempDir: dir, Voice: &audio.CloudVoice{Client: &fakeTTS{err: errors.New("quota")}}}
		tr, err := c.Compose(ctx, model.ReelRequest{ID: "f", Prompt: "why cats purr", Style: model.StyleLifestyle}, s)
		require.NoError(t, err)
		assert.Equal(t, model.AudioMusic, tr.Kind)
		_, err = os.Stat(filepath.Join(dir, "voiceover_f.mp3"))
		assert.True(t, os.IsNotExist(err))
	})
}
