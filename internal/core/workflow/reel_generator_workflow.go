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

package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jaycherian/gcp-go-reel-generator/internal/cloud"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/audio"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/commands"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/cor"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/model"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/render"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/video"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/semaphore"
)

// Generator produces reels. The HTTP API and the Pub/Sub workflow depend on
// this rather than on ReelGenerator.
type Generator interface {
	Generate(ctx context.Context, req model.ReelRequest) (*model.ReelResult, error)
}

var errNoReel = errors.New("pipeline finished without a reel")

// ReelGenerator runs the generation pipeline:
//
//	validate uploads -> research -> script -> trends -> audio -> render
//
// followed by the optional delivery stages (publish, persist, notify). When
// any pipeline stage fails the request still gets a reel: a still gradient
// with the prompt on it, flagged as a fallback. Delivery failures are
// logged and never fail the request.
//
// At most Application.ThreadPoolSize reels are rendered at once.
type ReelGenerator struct {
	cor.BaseCommand
	config   *cloud.Config
	encoder  *video.Encoder
	pipeline *cor.BaseChain
	delivery *cor.BaseChain // nil when no delivery stage is configured
	slots    *semaphore.Weighted
}

// NewReelGenerator builds the pipeline for config.
func NewReelGenerator(config *cloud.Config, deps Dependencies) *ReelGenerator {
	workers := config.Application.ThreadPoolSize
	if workers <= 0 {
		workers = 1
	}
	g := &ReelGenerator{
		BaseCommand: *cor.NewBaseCommand("reel-generator"),
		config:      config,
		encoder:     video.NewEncoder(config.Render),
		slots:       semaphore.NewWeighted(int64(workers)),
	}
	g.InputParamName = commands.ParamRequest
	g.OutputParamName = commands.ParamResult
	g.initializeChains(deps)
	return g
}

func (g *ReelGenerator) initializeChains(deps Dependencies) {
	pipeline := cor.NewBaseChain("reel-pipeline")
	pipeline.AddCommand(commands.NewUploadValidator("validate-uploads"))
	pipeline.AddCommand(commands.NewTopicResearch("research-topic", deps.Researcher))
	pipeline.AddCommand(commands.NewScriptWriter("write-script"))
	pipeline.AddCommand(commands.NewTrendFetcher("fetch-trends", deps.Analyzer))
	pipeline.AddCommand(commands.NewAudioComposer("compose-audio", &audio.Composer{
		SampleRate: g.config.Audio.SampleRate,
		Voice:      deps.Voice,
		TempDir:    g.config.Storage.TempDir,
	}))
	pipeline.AddCommand(commands.NewReelRenderer("render-reel", g.encoder, g.config.Storage.OutputDir, g.config.Render.Width, g.config.Render.Height))
	g.pipeline = pipeline

	delivery := cor.NewBaseChain("reel-delivery")
	delivery.ContinueOnFailure(true)
	if deps.Publisher != nil {
		delivery.AddCommand(commands.NewPublishReel("publish-reel", deps.Publisher, g.config.Storage.ObjectPrefix))
	}
	if deps.Inserter != nil {
		delivery.AddCommand(commands.NewPersistToBigQuery("write-to-bigquery", deps.Inserter))
	}
	if deps.Notifier != nil {
		delivery.AddCommand(commands.NewNotifyReel("notify-reel", deps.Notifier))
	}
	if len(delivery.Commands()) > 0 {
		g.delivery = delivery
	}
}

// Stages returns the names of the pipeline and delivery stages in order.
func (g *ReelGenerator) Stages() []string {
	out := g.pipeline.Commands()
	if g.delivery != nil {
		out = append(out, g.delivery.Commands()...)
	}
	return out
}

// Generate produces a reel for req. Defaults are applied to empty fields
// first; an invalid request is returned as an error wrapping
// model.ErrInvalidRequest. Otherwise an error is returned only when even
// the fallback reel could not be made.
func (g *ReelGenerator) Generate(ctx context.Context, req model.ReelRequest) (*model.ReelResult, error) {
	commands.ApplyDefaults(&req)
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := g.slots.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer g.slots.Release(1)

	ctx, span := g.Tracer.Start(ctx, "generate-reel")
	defer span.End()
	span.SetAttributes(
		attribute.String("reel.id", req.ID),
		attribute.String("reel.style", req.Style.String()),
		attribute.Int("reel.duration", req.Duration),
	)
	slog.InfoContext(ctx, "generating reel", "id", req.ID, "style", req.Style, "duration", req.Duration, "images", len(req.ImagePaths))

	chCtx := cor.NewContext(ctx)
	defer chCtx.Close()
	chCtx.Add(commands.ParamRequest, &req)
	g.pipeline.Execute(chCtx)

	result, ok := cor.GetAs[*model.ReelResult](chCtx, commands.ParamResult)
	err := chCtx.Err()
	if err == nil && !ok {
		err = errNoReel
	}
	if err != nil {
		slog.ErrorContext(ctx, "reel generation failed, creating fallback reel", "id", req.ID, "error", err)
		var fallbackErr error
		result, fallbackErr = g.Fallback(ctx, req)
		if fallbackErr != nil {
			span.SetStatus(codes.Error, "fallback failed")
			g.ErrorCounter.Add(ctx, 1)
			return nil, fmt.Errorf("reel generation failed: %w", errors.Join(err, fallbackErr))
		}
	}

	g.deliver(ctx, result)
	g.SuccessCounter.Add(ctx, 1)
	span.SetStatus(codes.Ok, "")
	return result, nil
}

// Fallback renders the prompt on the style gradient for the requested
// duration, without audio.
func (g *ReelGenerator) Fallback(ctx context.Context, req model.ReelRequest) (*model.ReelResult, error) {
	var opts []render.Option
	if g.config.Render.Width > 0 && g.config.Render.Height > 0 {
		opts = append(opts, render.WithSize(g.config.Render.Width, g.config.Render.Height))
	}
	r, err := render.NewRenderer(req.Style, opts...)
	if err != nil {
		return nil, err
	}
	src, err := render.NewStillSource(r.FallbackFrame(req.Prompt), float64(req.Duration), g.encoder.FPS)
	if err != nil {
		return nil, err
	}

	out := filepath.Join(g.config.Storage.OutputDir, video.FileName(req.ID))
	if err := g.encoder.Encode(ctx, src, "", out); err != nil {
		_ = os.Remove(out)
		return nil, fmt.Errorf("fallback reel: %w", err)
	}
	return &model.ReelResult{
		ID:          req.ID,
		Prompt:      req.Prompt,
		Style:       req.Style,
		VideoPath:   out,
		DownloadURL: commands.DownloadPrefix + filepath.Base(out),
		Fallback:    true,
		AudioKind:   model.AudioNone,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

func (g *ReelGenerator) deliver(ctx context.Context, result *model.ReelResult) {
	if g.delivery == nil {
		return
	}
	chCtx := cor.NewContext(ctx)
	defer chCtx.Close()
	chCtx.Add(commands.ParamResult, result)
	g.delivery.Execute(chCtx)
	for name, err := range chCtx.GetErrors() {
		slog.WarnContext(ctx, "reel delivery step failed", "id", result.ID, "step", name, "error", err)
	}
}

// Execute lets the generator run as the last stage of a chain: it reads the
// request from commands.ParamRequest and stores the result under
// commands.ParamResult.
func (g *ReelGenerator) Execute(context cor.Context) {
	req, ok := cor.GetAs[*model.ReelRequest](context, g.GetInputParam())
	if !ok {
		context.AddError(g.GetName(), fmt.Errorf("missing reel request"))
		return
	}
	result, err := g.Generate(context.GetContext(), *req)
	if err != nil {
		context.AddError(g.GetName(), err)
		return
	}
	context.Add(g.GetOutputParam(), result)
}
