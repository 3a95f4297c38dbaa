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

package commands_test

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/jaycherian/gcp-go-reel-generator/internal/core/audio"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/commands"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/cor"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/model"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/research"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/trends"
	test "github.com/jaycherian/gcp-go-reel-generator/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, chCtx cor.Context, cmds ...cor.Command) {
	t.Helper()
	chain := cor.NewBaseChain("test-chain")
	for _, c := range cmds {
		chain.AddCommand(c)
	}
	chain.Execute(chCtx)
}

func TestReelTriggerReader(t *testing.T) {
	chCtx := cor.NewContext(context.Background())
	chCtx.Add(cor.CtxIn, test.GetTestRequestText())
	run(t, chCtx, commands.NewReelTriggerReader("trigger"))

	require.NoError(t, chCtx.Err())
	req, ok := cor.GetAs[*model.ReelRequest](chCtx, commands.ParamRequest)
	require.True(t, ok)
	assert.NotEmpty(t, req.ID)
	assert.Equal(t, model.StyleFinance, req.Style)
	assert.Equal(t, 6, req.Duration)
	assert.True(t, req.IncludeTrending)
}

func TestReelTriggerReader_Defaults(t *testing.T) {
	chCtx := cor.NewContext(context.Background())
	chCtx.Add(cor.CtxIn, `{"prompt": "morning routine"}`)
	run(t, chCtx, commands.NewReelTriggerReader("trigger"))

	require.NoError(t, chCtx.Err())
	req, _ := cor.GetAs[*model.ReelRequest](chCtx, commands.ParamRequest)
	assert.Equal(t, model.DefaultStyle, req.Style)
	assert.Equal(t, model.DefaultDuration, req.Duration)
	assert.True(t, req.IncludeTrending)
}

func TestReelTriggerReader_Rejects(t *testing.T) {
	for name, msg := range map[string]string{
		"bad json":     `{"prompt":`,
		"no prompt":    `{"style": "tech"}`,
		"bad style":    `{"prompt": "x", "style": "vaporwave"}`,
		"too long":     `{"prompt": "x", "duration": 600}`,
		"path id":      `{"id": "../../../../tmp/pwned", "prompt": "x"}`,
		"not a string": "",
	} {
		t.Run(name, func(t *testing.T) {
			chCtx := cor.NewContext(context.Background())
			if name == "not a string" {
				chCtx.Add(cor.CtxIn, 42)
			} else {
				chCtx.Add(cor.CtxIn, msg)
			}
			run(t, chCtx, commands.NewReelTriggerReader("trigger"))
			assert.ErrorIs(t, chCtx.Err(), cor.ErrUnprocessable)
			assert.Nil(t, chCtx.Get(commands.ParamRequest))
		})
	}
}

func TestUploadValidator(t *testing.T) {
	dir := t.TempDir()
	req := test.NewTestRequest()
	req.ImagePaths = []string{
		test.WritePNG(t, dir, "good.png", 40, 30),
		test.WriteText(t, dir, "notes.png"),
	}
	req.AudioPath = test.WriteWAV(t, dir, "song.wav", 0.5)

	chCtx := cor.NewContext(context.Background())
	chCtx.Add(commands.ParamRequest, req)
	run(t, chCtx, commands.NewUploadValidator("validate"))

	require.NoError(t, chCtx.Err())
	assert.Equal(t, []string{filepath.Join(dir, "good.png")}, req.ImagePaths)
	assert.NotEmpty(t, req.AudioPath)
	backgrounds, ok := cor.GetAs[[]image.Image](chCtx, commands.ParamBackgrounds)
	require.True(t, ok)
	assert.Len(t, backgrounds, 1)
}

func TestUploadValidator_DropsBadAudio(t *testing.T) {
	dir := t.TempDir()
	req := test.NewTestRequest()
	req.AudioPath = test.WriteText(t, dir, "song.mp3")

	chCtx := cor.NewContext(context.Background())
	chCtx.Add(commands.ParamRequest, req)
	run(t, chCtx, commands.NewUploadValidator("validate"))

	require.NoError(t, chCtx.Err())
	assert.Empty(t, req.AudioPath)
	assert.Nil(t, chCtx.Get(commands.ParamBackgrounds))
}

func TestCheckUpload(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, commands.CheckUpload(test.WritePNG(t, dir, "a.png", 2, 2), commands.KindImage))
	assert.Error(t, commands.CheckUpload(test.WritePNG(t, dir, "b.png", 2, 2), commands.KindAudio))
	assert.NoError(t, commands.CheckUpload(test.WriteWAV(t, dir, "c.wav", 0.1), commands.KindAudio))
	assert.Error(t, commands.CheckUpload(filepath.Join(dir, "missing"), commands.KindImage))
}

type failingResearcher struct{}

func (failingResearcher) Research(context.Context, string, model.Style) (model.ResearchData, error) {
	return model.ResearchData{}, errors.New("quota exceeded")
}

func TestTopicResearch_FallsBack(t *testing.T) {
	chCtx := cor.NewContext(context.Background())
	chCtx.Add(commands.ParamRequest, test.NewTestRequest())
	run(t, chCtx, commands.NewTopicResearch("research", failingResearcher{}))

	require.NoError(t, chCtx.Err())
	data, ok := cor.GetAs[*model.ResearchData](chCtx, commands.ParamResearch)
	require.True(t, ok)
	assert.Equal(t, research.SourceFallback, data.Source)
	assert.NotEmpty(t, data.Facts)
}

func TestResearchScriptTrends(t *testing.T) {
	chCtx := cor.NewContext(context.Background())
	chCtx.Add(commands.ParamRequest, test.NewTestRequest())
	run(t, chCtx,
		commands.NewTopicResearch("research", research.LadderResearcher{}),
		commands.NewScriptWriter("script"),
		commands.NewTrendFetcher("trends", trends.NewAnalyzer()),
	)

	require.NoError(t, chCtx.Err())
	s, ok := cor.GetAs[*model.Script](chCtx, commands.ParamScript)
	require.True(t, ok)
	assert.InDelta(t, 6.0, s.Duration(), 1e-9)
	trending, ok := cor.GetAs[*model.TrendingData](chCtx, commands.ParamTrending)
	require.True(t, ok)
	assert.NotEmpty(t, trending.Hashtags)
}

func TestTrendFetcher_SkippedWhenNotRequested(t *testing.T) {
	req := test.NewTestRequest()
	req.IncludeTrending = false
	chCtx := cor.NewContext(context.Background())
	chCtx.Add(commands.ParamRequest, req)
	run(t, chCtx, commands.NewTrendFetcher("trends", trends.NewAnalyzer()))

	assert.NoError(t, chCtx.Err())
	assert.Nil(t, chCtx.Get(commands.ParamTrending))
}

func TestAudioComposer_MusicIsTemporary(t *testing.T) {
	dir := t.TempDir()
	req := test.NewTestRequest()
	s := model.GetExampleScript()

	chCtx := cor.NewContext(context.Background())
	chCtx.Add(commands.ParamRequest, req)
	chCtx.Add(commands.ParamScript, s)
	run(t, chCtx, commands.NewAudioComposer("audio", &audio.Composer{TempDir: dir}))

	require.NoError(t, chCtx.Err())
	track, ok := cor.GetAs[*audio.Track](chCtx, commands.ParamAudio)
	require.True(t, ok)
	assert.Equal(t, model.AudioMusic, track.Kind)
	assert.FileExists(t, track.Path)
	assert.Contains(t, chCtx.GetTempFiles(), track.Path)

	chCtx.Close()
	_, err := os.Stat(track.Path)
	assert.True(t, os.IsNotExist(err))
}

type fakePublisher struct{ err error }

func (p fakePublisher) Publish(_ context.Context, _ string, objectName string) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	return "gs://reels/" + objectName, nil
}

type fakeInserter struct{ rows []interface{} }

func (f *fakeInserter) Put(_ context.Context, src interface{}) error {
	f.rows = append(f.rows, src)
	return nil
}

type fakeNotifier struct {
	key     string
	payload []byte
}

func (f *fakeNotifier) Notify(_ context.Context, key string, payload []byte) error {
	f.key, f.payload = key, payload
	return nil
}

func newResult() *model.ReelResult {
	return &model.ReelResult{
		ID:          "abc",
		Prompt:      "p",
		Style:       model.StyleTech,
		VideoPath:   "/tmp/outputs/reel_abc.mp4",
		DownloadURL: "/outputs/reel_abc.mp4",
		Script:      model.GetExampleScript(),
		AudioKind:   model.AudioMusic,
	}
}

func TestDelivery(t *testing.T) {
	result := newResult()
	inserter := &fakeInserter{}
	notifier := &fakeNotifier{}

	chCtx := cor.NewContext(context.Background())
	chCtx.Add(commands.ParamResult, result)
	run(t, chCtx,
		commands.NewPublishReel("publish", fakePublisher{}, "reels"),
		commands.NewPersistToBigQuery("persist", inserter),
		commands.NewNotifyReel("notify", notifier),
	)

	require.NoError(t, chCtx.Err())
	assert.Equal(t, "gs://reels/reels/reel_abc.mp4", result.PublishedURI)

	require.Len(t, inserter.rows, 1)
	record := inserter.rows[0].(*model.ReelRecord)
	assert.Equal(t, "reel_abc.mp4", record.FileName)
	assert.Equal(t, "gs://reels/reels/reel_abc.mp4", record.PublishedURI)
	assert.Equal(t, 2, record.Segments)

	assert.Equal(t, "abc", notifier.key)
	var event model.ReelEvent
	require.NoError(t, json.Unmarshal(notifier.payload, &event))
	assert.Equal(t, "/outputs/reel_abc.mp4", event.DownloadURL)
}

func TestDelivery_ContinuesAfterPublishFailure(t *testing.T) {
	inserter := &fakeInserter{}
	chCtx := cor.NewContext(context.Background())
	chCtx.Add(commands.ParamResult, newResult())

	chain := cor.NewBaseChain("delivery").ContinueOnFailure(true)
	chain.AddCommand(commands.NewPublishReel("publish", fakePublisher{err: errors.New("denied")}, ""))
	chain.AddCommand(commands.NewPersistToBigQuery("persist", inserter))
	chain.Execute(chCtx)

	assert.ErrorContains(t, chCtx.Err(), "denied")
	assert.Len(t, inserter.rows, 1)
}
