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

// Package test provides the shared fixtures of the test suite: a cached
// configuration pointing at throwaway directories, sample requests and small
// media files written on demand.
package test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/jaycherian/gcp-go-reel-generator/internal/cloud"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/audio"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/model"
)

// StateManager caches the configuration for the whole test run.
type StateManager struct {
	once   sync.Once
	config *cloud.Config
}

var state = &StateManager{}

// HandleErr fails the test on a non nil error.
func HandleErr(err error, t *testing.T) {
	t.Helper()
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// SetupOS points the configuration loader at the test configuration files.
func SetupOS() (err error) {
	err = os.Setenv(cloud.EnvConfigFilePrefix, "configs")
	if err != nil {
		return err
	}
	return os.Setenv(cloud.EnvConfigRuntime, "test")
}

// GetConfig returns the test configuration: local defaults with every
// working directory under one temporary root, telemetry and every optional
// cloud integration off.
func GetConfig() *cloud.Config {
	state.once.Do(func() {
		if err := SetupOS(); err != nil {
			log.Fatalf("failed to setup environment for test: %v\n", err)
		}
		config := cloud.NewConfig()
		if err := cloud.LoadConfig(config); err != nil {
			log.Fatalf("failed to load test configuration: %v\n", err)
		}
		root, err := os.MkdirTemp("", "reel-test-")
		if err != nil {
			log.Fatalf("failed to create test directory: %v\n", err)
		}
		config.Storage.OutputDir = filepath.Join(root, "outputs")
		config.Storage.UploadDir = filepath.Join(root, "uploads")
		config.Storage.TempDir = filepath.Join(root, "temp")
		config.Storage.StaticDir = filepath.Join(root, "static")
		config.Storage.PublishProvider = cloud.PublishNone
		config.Notify.Provider = cloud.NotifyNone
		config.BigQueryDataSource.Enabled = false
		config.Application.Telemetry = cloud.TelemetryNone
		if err := config.EnsureDirs(); err != nil {
			log.Fatalf("failed to create test directories: %v\n", err)
		}
		state.config = config
	})
	return state.config
}

// GetTestRequestText is a generation request as it arrives over Pub/Sub.
func GetTestRequestText() string {
	return `{
  "prompt": "Top 3 crypto picks for 2024",
  "style": "finance",
  "duration": 6,
  "include_trending": true
}`
}

// NewTestRequest returns a valid request with a fixed id.
func NewTestRequest() *model.ReelRequest {
	return &model.ReelRequest{
		ID:              "test-reel-001",
		Prompt:          "healthy cooking tips",
		Style:           model.StyleLifestyle,
		Duration:        6,
		IncludeTrending: true,
	}
}

// WritePNG writes a w x h single colour PNG into dir and returns its path.
func WritePNG(t *testing.T, dir string, name string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{200, 80, 40, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// WriteWAV writes seconds of synthesized music into dir and returns its path.
func WriteWAV(t *testing.T, dir string, name string, seconds float64) string {
	t.Helper()
	path := filepath.Join(dir, name)
	samples := audio.NewSynth(audio.DefaultSampleRate, 7).Synthesize(model.StyleTrendy, seconds)
	if err := audio.WriteWAV(path, samples, audio.DefaultSampleRate); err != nil {
		t.Fatal(err)
	}
	return path
}

// WriteText writes a plain text file into dir and returns its path.
func WriteText(t *testing.T, dir string, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("definitely not media"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// MultipartFile is one file part of a multipart form.
type MultipartFile struct {
	Field string
	Name  string
	Data  []byte
}

// NewMultipartBody encodes fields and files as multipart/form-data and
// returns the body and its content type.
func NewMultipartBody(t *testing.T, fields map[string]string, files ...MultipartFile) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.Field, f.Name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := part.Write(f.Data); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return body, w.FormDataContentType()
}
