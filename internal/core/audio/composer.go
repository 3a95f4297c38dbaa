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

package audio

import (
	"context"
	"fmt"
	"hash/fnv"
	"log/slog"
	"path/filepath"

	"github.com/jaycherian/gcp-go-reel-generator/internal/core/model"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/script"
)

// Track is the soundtrack chosen for a reel.
type Track struct {
	Path string
	Kind model.AudioKind
}

// Composer picks and produces the soundtrack. Order of preference: the
// uploaded file, narration (unless the prompt suits music), synthesized music.
type Composer struct {
	SampleRate int
	Voice      Voice // nil disables narration
	TempDir    string
}

// Compose writes the soundtrack for req into TempDir. Narration failures
// fall back to music.
func (c *Composer) Compose(ctx context.Context, req model.ReelRequest, s model.Script) (Track, error) {
	if req.AudioPath != "" {
		return Track{Path: req.AudioPath, Kind: model.AudioUploaded}, nil
	}

	if c.Voice != nil && !script.ShouldUseMusicOnly(req.Prompt, req.Style) {
		path := filepath.Join(c.TempDir, fmt.Sprintf("voiceover_%s.mp3", req.ID))
		text := script.CleanForSpeech(s.FullText())
		err := Narrate(ctx, c.Voice, text, path)
		if err == nil {
			slog.InfoContext(ctx, "generated voiceover", "characters", len(text), "path", path)
			return Track{Path: path, Kind: model.AudioVoice}, nil
		}
		slog.WarnContext(ctx, "voiceover failed, using background music", "error", err)
	}

	seconds := s.Duration()
	if seconds <= 0 {
		seconds = float64(req.Duration)
	}
	samples := NewSynth(c.SampleRate, seedFor(req.ID)).Synthesize(req.Style, seconds)
	path := filepath.Join(c.TempDir, fmt.Sprintf("music_%s.wav", req.ID))
	sr := c.SampleRate
	if sr <= 0 {
		sr = DefaultSampleRate
	}
	if err := WriteWAV(path, samples, sr); err != nil {
		return Track{}, fmt.Errorf("write background music: %w", err)
	}
	slog.InfoContext(ctx, "generated background music", "recipe", RecipeFor(req.Style), "path", path)
	return Track{Path: path, Kind: model.AudioMusic}, nil
}

// seedFor derives a noise seed from a request id.
func seedFor(id string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(id))
	return h.Sum64()
}
