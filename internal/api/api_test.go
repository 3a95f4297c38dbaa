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

package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jaycherian/gcp-go-reel-generator/internal/api"
	"github.com/jaycherian/gcp-go-reel-generator/internal/cloud"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/model"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/services"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/trends"
	test "github.com/jaycherian/gcp-go-reel-generator/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type fakeGenerator struct {
	mu   sync.Mutex
	reqs []model.ReelRequest
	err  error
}

func (g *fakeGenerator) Generate(_ context.Context, req model.ReelRequest) (*model.ReelResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reqs = append(g.reqs, req)
	if g.err != nil {
		return nil, g.err
	}
	return &model.ReelResult{
		ID:          "r1",
		VideoPath:   "outputs/reel_r1.mp4",
		DownloadURL: "/outputs/reel_r1.mp4",
	}, nil
}

func newServer(t *testing.T, gen *fakeGenerator) (*api.Server, *cloud.Config) {
	t.Helper()
	cfg := *test.GetConfig()
	root := t.TempDir()
	cfg.Storage.OutputDir = filepath.Join(root, "outputs")
	cfg.Storage.UploadDir = filepath.Join(root, "uploads")
	cfg.Storage.TempDir = filepath.Join(root, "temp")
	cfg.Storage.StaticDir = filepath.Join(root, "static")
	cfg.Server.GenerateRatePerSec = 100
	cfg.Server.GenerateBurst = 100
	require.NoError(t, cfg.EnsureDirs())
	return &api.Server{
		Config:    &cfg,
		Generator: gen,
		Analyzer:  trends.NewAnalyzer(),
		Workspace: services.NewWorkspace(&cfg),
	}, &cfg
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestRoot(t *testing.T) {
	s, _ := newServer(t, &fakeGenerator{})
	w := httptest.NewRecorder()
	api.NewRouter(s).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "AI Reel Generator API", body["message"])
	assert.Equal(t, "1.0.0", body["version"])
}

func TestGenerateReel(t *testing.T) {
	gen := &fakeGenerator{}
	s, cfg := newServer(t, gen)
	imgDir := t.TempDir()
	png, err := os.ReadFile(test.WritePNG(t, imgDir, "a.png", 8, 8))
	require.NoError(t, err)
	wav, err := os.ReadFile(test.WriteWAV(t, imgDir, "a.wav", 0.2))
	require.NoError(t, err)

	body, ctype := test.NewMultipartBody(t,
		map[string]string{"prompt": "healthy cooking tips", "style": "fitness", "duration": "6", "include_trending": "false"},
		test.MultipartFile{Field: "images", Name: "one.png", Data: png},
		test.MultipartFile{Field: "images", Name: "two.png", Data: png},
		test.MultipartFile{Field: "audio", Name: "song.wav", Data: wav},
	)
	r := httptest.NewRequest(http.MethodPost, "/generate-reel", body)
	r.Header.Set("Content-Type", ctype)
	w := httptest.NewRecorder()
	api.NewRouter(s).ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	out := decode(t, w)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, "r1", out["id"])
	assert.Equal(t, "/outputs/reel_r1.mp4", out["download_url"])
	assert.Equal(t, false, out["fallback"])

	require.Len(t, gen.reqs, 1)
	req := gen.reqs[0]
	assert.Equal(t, model.StyleFitness, req.Style)
	assert.Equal(t, 6, req.Duration)
	assert.False(t, req.IncludeTrending)
	require.Len(t, req.ImagePaths, 2)
	for _, p := range req.ImagePaths {
		assert.Equal(t, cfg.Storage.UploadDir, filepath.Dir(p))
		assert.FileExists(t, p)
	}
	assert.FileExists(t, req.AudioPath)
}

func TestGenerateReel_Defaults(t *testing.T) {
	gen := &fakeGenerator{}
	s, _ := newServer(t, gen)
	body, ctype := test.NewMultipartBody(t, map[string]string{"prompt": "morning routine"})
	r := httptest.NewRequest(http.MethodPost, "/generate-reel", body)
	r.Header.Set("Content-Type", ctype)
	w := httptest.NewRecorder()
	api.NewRouter(s).ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Len(t, gen.reqs, 1)
	assert.Equal(t, model.StyleTrendy, gen.reqs[0].Style)
	assert.Equal(t, model.DefaultDuration, gen.reqs[0].Duration)
	assert.True(t, gen.reqs[0].IncludeTrending)
	assert.Empty(t, gen.reqs[0].ImagePaths)
}

func TestGenerateReel_BadRequest(t *testing.T) {
	png, err := os.ReadFile(test.WritePNG(t, t.TempDir(), "ok.png", 8, 8))
	require.NoError(t, err)
	cases := map[string]struct {
		fields map[string]string
		files  []test.MultipartFile
	}{
		"missing prompt": {fields: map[string]string{"style": "tech"}},
		"unknown style":  {fields: map[string]string{"prompt": "x", "style": "vaporwave"}},
		"bad duration":   {fields: map[string]string{"prompt": "x", "duration": "forever"}},
		"too long":       {fields: map[string]string{"prompt": "x", "duration": "500"}},
		"image is text": {
			fields: map[string]string{"prompt": "x"},
			files:  []test.MultipartFile{{Field: "images", Name: "notes.png", Data: []byte("plain text, not an image")}},
		},
		"second image is text": {
			fields: map[string]string{"prompt": "x"},
			files: []test.MultipartFile{
				{Field: "images", Name: "one.png", Data: png},
				{Field: "images", Name: "notes.png", Data: []byte("plain text, not an image")},
			},
		},
		"audio is text": {
			fields: map[string]string{"prompt": "x"},
			files: []test.MultipartFile{
				{Field: "images", Name: "one.png", Data: png},
				{Field: "audio", Name: "song.wav", Data: []byte("plain text, not audio")},
			},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			gen := &fakeGenerator{}
			s, cfg := newServer(t, gen)
			body, ctype := test.NewMultipartBody(t, tc.fields, tc.files...)
			r := httptest.NewRequest(http.MethodPost, "/generate-reel", body)
			r.Header.Set("Content-Type", ctype)
			w := httptest.NewRecorder()
			api.NewRouter(s).ServeHTTP(w, r)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.NotEmpty(t, decode(t, w)["detail"])
			assert.Empty(t, gen.reqs)
			entries, err := os.ReadDir(cfg.Storage.UploadDir)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestGenerateReel_GeneratorError(t *testing.T) {
	s, _ := newServer(t, &fakeGenerator{err: errors.New("encoder exploded")})
	body, ctype := test.NewMultipartBody(t, map[string]string{"prompt": "x"})
	r := httptest.NewRequest(http.MethodPost, "/generate-reel", body)
	r.Header.Set("Content-Type", ctype)
	w := httptest.NewRecorder()
	api.NewRouter(s).ServeHTTP(w, r)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "encoder exploded", decode(t, w)["detail"])
}

func TestGenerateReel_RateLimited(t *testing.T) {
	s, cfg := newServer(t, &fakeGenerator{})
	cfg.Server.GenerateRatePerSec = 0.001
	cfg.Server.GenerateBurst = 1
	router := api.NewRouter(s)

	codes := make([]int, 0, 2)
	for range 2 {
		body, ctype := test.NewMultipartBody(t, map[string]string{"prompt": "x"})
		r := httptest.NewRequest(http.MethodPost, "/generate-reel", body)
		r.Header.Set("Content-Type", ctype)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestStyles(t *testing.T) {
	s, _ := newServer(t, &fakeGenerator{})
	w := httptest.NewRecorder()
	api.NewRouter(s).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/styles", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var out struct {
		Styles []model.StyleInfo `json:"styles"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out.Styles, len(model.AllStyles()))
	assert.Equal(t, model.StyleTrendy, out.Styles[0].ID)
}

func TestTrends(t *testing.T) {
	s, _ := newServer(t, &fakeGenerator{})
	router := api.NewRouter(s)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/trends", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var data model.TrendingData
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &data))
	assert.NotEmpty(t, data.Hashtags)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/trends?style=tech", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/trends?style=nope", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCleanup(t *testing.T) {
	s, cfg := newServer(t, &fakeGenerator{})
	test.WriteText(t, cfg.Storage.UploadDir, "a.txt")
	test.WriteText(t, cfg.Storage.TempDir, "b.txt")
	kept := test.WriteText(t, cfg.Storage.OutputDir, "reel_keep.mp4")

	w := httptest.NewRecorder()
	api.NewRouter(s).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/cleanup", nil))

	require.Equal(t, http.StatusOK, w.Code)
	out := decode(t, w)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, "Cleanup completed", out["message"])
	assert.EqualValues(t, 2, out["removed"])
	assert.FileExists(t, kept)
}

func TestOutputsAreServed(t *testing.T) {
	s, cfg := newServer(t, &fakeGenerator{})
	test.WriteText(t, cfg.Storage.OutputDir, "reel_x.mp4")

	w := httptest.NewRecorder()
	api.NewRouter(s).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/outputs/reel_x.mp4", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "definitely not media", w.Body.String())
}

type fakeHistory struct {
	records map[string]*model.ReelRecord
}

func (f *fakeHistory) List(_ context.Context, limit int) ([]*model.ReelRecord, error) {
	out := make([]*model.ReelRecord, 0, len(f.records))
	for _, r := range f.records {
		out = append(out, r)
	}
	return out[:min(limit, len(out))], nil
}

func (f *fakeHistory) Get(_ context.Context, id string) (*model.ReelRecord, error) {
	if r, ok := f.records[id]; ok {
		return r, nil
	}
	return nil, services.ErrReelNotFound
}

func (f *fakeHistory) Stats(context.Context) ([]*services.StyleStats, error) {
	return []*services.StyleStats{{Style: "tech", Reels: 2, Seconds: 30}}, nil
}

func (f *fakeHistory) SignedURL(_ context.Context, rec *model.ReelRecord, _ time.Duration) (string, error) {
	if rec.PublishedURI == "" {
		return "", services.ErrNotPublished
	}
	return "https://signed.example/" + rec.ID, nil
}

func TestReelHistoryRoutes(t *testing.T) {
	s, _ := newServer(t, &fakeGenerator{})
	s.History = &fakeHistory{records: map[string]*model.ReelRecord{
		"a": {ID: "a", Style: "tech", PublishedURI: "gs://reels/reel_a.mp4"},
		"b": {ID: "b", Style: "tech"},
	}}
	router := api.NewRouter(s)
	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	w := get("/api/v1/reels?limit=1")
	require.Equal(t, http.StatusOK, w.Code)
	var list []model.ReelRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	assert.Equal(t, http.StatusBadRequest, get("/api/v1/reels?limit=ten").Code)
	assert.Equal(t, http.StatusOK, get("/api/v1/reels/a").Code)
	assert.Equal(t, http.StatusNotFound, get("/api/v1/reels/zzz").Code)

	w = get("/api/v1/reels/a/stream")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://signed.example/a", decode(t, w)["url"])
	assert.Equal(t, http.StatusConflict, get("/api/v1/reels/b/stream").Code)

	w = get("/api/v1/stats")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "\"reels\":2")
}

func TestReelHistoryRoutes_Disabled(t *testing.T) {
	s, _ := newServer(t, &fakeGenerator{})
	w := httptest.NewRecorder()
	api.NewRouter(s).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/reels", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
