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

package commands

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jaycherian/gcp-go-reel-generator/internal/core/audio"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/cor"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/model"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/render"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/video"
)

// DownloadPrefix is the URL path the output directory is served under.
const DownloadPrefix = "/outputs/"

// ReelRenderer draws every frame of the script and encodes them, with the
// soundtrack, into <outputDir>/reel_<id>.mp4. It assembles the ReelResult
// for the stages after it.
type ReelRenderer struct {
	cor.BaseCommand
	encoder   *video.Encoder
	outputDir string
	width     int
	height    int
}

func NewReelRenderer(name string, encoder *video.Encoder, outputDir string, width, height int) *ReelRenderer {
	cmd := &ReelRenderer{
		BaseCommand: *cor.NewBaseCommand(name),
		encoder:     encoder,
		outputDir:   outputDir,
		width:       width,
		height:      height,
	}
	cmd.InputParamName = ParamScript
	cmd.OutputParamName = ParamVideo
	return cmd
}

func (c *ReelRenderer) IsExecutable(context cor.Context) bool {
	return c.BaseCommand.IsExecutable(context) && context.Get(ParamRequest) != nil
}

func (c *ReelRenderer) Execute(context cor.Context) {
	ctx := context.GetContext()
	req, _ := cor.GetAs[*model.ReelRequest](context, ParamRequest)
	s, _ := cor.GetAs[*model.Script](context, c.GetInputParam())
	backgrounds, _ := cor.GetAs[[]image.Image](context, ParamBackgrounds)

	opts := []render.Option{render.WithBackgrounds(backgrounds...)}
	if c.width > 0 && c.height > 0 {
		opts = append(opts, render.WithSize(c.width, c.height))
	}
	r, err := render.NewRenderer(req.Style, opts...)
	if err != nil {
		c.Fail(context, fmt.Errorf("failed to create renderer: %w", err))
		return
	}
	src, err := render.NewScriptSource(r, *s, c.encoder.FPS)
	if err != nil {
		c.Fail(context, err)
		return
	}

	result := &model.ReelResult{
		ID:        req.ID,
		Prompt:    req.Prompt,
		Style:     req.Style,
		Script:    s,
		AudioKind: model.AudioNone,
	}
	audioPath := ""
	if track, ok := cor.GetAs[*audio.Track](context, ParamAudio); ok {
		audioPath = track.Path
		result.AudioKind = track.Kind
	}

	out := filepath.Join(c.outputDir, video.FileName(req.ID))
	start := time.Now()
	if err := c.encoder.Encode(ctx, src, audioPath, out); err != nil {
		// a partial file is of no use to anyone
		_ = os.Remove(out)
		c.Fail(context, fmt.Errorf("failed to encode reel: %w", err))
		return
	}
	slog.InfoContext(ctx, "reel encoded", "path", out, "frames", src.Count(), "audio", result.AudioKind, "elapsed", time.Since(start))

	result.VideoPath = out
	result.DownloadURL = DownloadPrefix + filepath.Base(out)
	result.CreatedAt = time.Now().UTC()
	if data, ok := cor.GetAs[*model.ResearchData](context, ParamResearch); ok {
		result.Research = data
	}
	if data, ok := cor.GetAs[*model.TrendingData](context, ParamTrending); ok {
		result.Trending = data
	}

	c.Succeed(context)
	context.Add(c.GetOutputParam(), out)
	context.Add(ParamResult, result)
}
