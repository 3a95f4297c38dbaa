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

package video_test

import (
	"context"
	"image"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jaycherian/gcp-go-reel-generator/internal/cloud"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/audio"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/model"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/render"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/video"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func still(t *testing.T, w, h int, seconds float64, fps int) *render.StillSource {
	t.Helper()
	frame := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range frame.Pix {
		frame.Pix[i] = 0x80
	}
	src, err := render.NewStillSource(frame, seconds, fps)
	require.NoError(t, err)
	return src
}

func requireFFmpeg(t *testing.T) string {
	t.Helper()
	path, err := exec.LookPath("ffmpeg")
	if err != nil {
		t.Skip("ffmpeg not installed")
	}
	return path
}

func TestNewEncoder_Defaults(t *testing.T) {
	e := video.NewEncoder(cloud.Render{})
	assert.Equal(t, video.DefaultFFmpegPath, e.FFmpegPath)
	assert.Equal(t, video.DefaultFPS, e.FPS)
	assert.Equal(t, "libx264", e.VideoCodec)
	assert.Equal(t, "aac", e.AudioCodec)
	assert.Equal(t, 2.5, e.Duration(60))
}

func TestArgs(t *testing.T) {
	e := video.NewEncoder(cloud.Render{FPS: 24})
	src := still(t, 108, 192, 2, 24)

	args := strings.Join(e.Args(src, "", "out.mp4"), " ")
	assert.Contains(t, args, "-f rawvideo")
	assert.Contains(t, args, "-pix_fmt rgba")
	assert.Contains(t, args, "-s 108x192")
	assert.Contains(t, args, "-i pipe:")
	assert.Contains(t, args, "-pix_fmt yuv420p")
	assert.Contains(t, args, "-t 2.000")
	assert.NotContains(t, args, "apad")
	assert.Contains(t, args, "out.mp4")
	assert.Contains(t, args, "-y")

	args = strings.Join(e.Args(src, "music.wav", "out.mp4"), " ")
	assert.Contains(t, args, "-i music.wav")
	assert.Contains(t, args, "apad")
	assert.Contains(t, args, "-c:a aac")
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "reel_abc.mp4", video.FileName("abc"))
}

func TestEncode_WithMusic(t *testing.T) {
	path := requireFFmpeg(t)
	dir := t.TempDir()

	wav := filepath.Join(dir, "music.wav")
	samples := audio.NewSynth(audio.DefaultSampleRate, 1).Synthesize(model.StyleLifestyle, 1)
	require.NoError(t, audio.WriteWAV(wav, samples, audio.DefaultSampleRate))

	e := video.NewEncoder(cloud.Render{FPS: 12, FFmpegPath: path, Preset: "ultrafast"})
	out := filepath.Join(dir, video.FileName("test"))
	require.NoError(t, e.Encode(context.Background(), still(t, 64, 64, 2, 12), wav, out))

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestEncode_BadAudioFails(t *testing.T) {
	path := requireFFmpeg(t)
	dir := t.TempDir()
	e := video.NewEncoder(cloud.Render{FPS: 12, FFmpegPath: path, Preset: "ultrafast"})
	err := e.Encode(context.Background(), still(t, 64, 64, 1, 12), filepath.Join(dir, "missing.wav"), filepath.Join(dir, "out.mp4"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ffmpeg")
}

func TestEncode_Cancelled(t *testing.T) {
	path := requireFFmpeg(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := video.NewEncoder(cloud.Render{FPS: 12, FFmpegPath: path})
	err := e.Encode(ctx, still(t, 64, 64, 1, 12), "", filepath.Join(t.TempDir(), "out.mp4"))
	assert.Error(t, err)
}
