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
	"io"
	"log/slog"
	"os"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/jaycherian/gcp-go-reel-generator/internal/cloud"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/cor"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/model"
)

// GCSToTempFile downloads the gs:// uploads of a request into the temp
// directory and points the request at the local copies. Requests arriving
// over Pub/Sub reference their images and audio this way.
type GCSToTempFile struct {
	cor.BaseCommand
	client  *storage.Client
	tempDir string
}

func NewGCSToTempFile(name string, client *storage.Client, tempDir string) *GCSToTempFile {
	return &GCSToTempFile{
		BaseCommand: *cor.NewBaseCommand(name),
		client:      client,
		tempDir:     tempDir,
	}
}

// IsExecutable is true when the request has at least one gs:// upload.
func (c *GCSToTempFile) IsExecutable(context cor.Context) bool {
	req, ok := cor.GetAs[*model.ReelRequest](context, ParamRequest)
	if !ok || context.GetContext() == nil {
		return false
	}
	if isGCS(req.AudioPath) {
		return true
	}
	for _, p := range req.ImagePaths {
		if isGCS(p) {
			return true
		}
	}
	return false
}

func isGCS(p string) bool {
	return strings.HasPrefix(p, "gs://")
}

func (c *GCSToTempFile) Execute(context cor.Context) {
	req, _ := cor.GetAs[*model.ReelRequest](context, ParamRequest)
	if c.client == nil {
		c.Fail(context, fmt.Errorf("request %s references gs:// uploads but storage is not configured", req.ID))
		return
	}

	for i, p := range req.ImagePaths {
		if !isGCS(p) {
			continue
		}
		local, err := c.download(context, p)
		if err != nil {
			c.Fail(context, err)
			return
		}
		req.ImagePaths[i] = local
	}
	if isGCS(req.AudioPath) {
		local, err := c.download(context, req.AudioPath)
		if err != nil {
			c.Fail(context, err)
			return
		}
		req.AudioPath = local
	}
	c.Succeed(context)
}

func (c *GCSToTempFile) download(context cor.Context, uri string) (string, error) {
	obj, err := cloud.ParseGCSURI(uri)
	if err != nil {
		return "", err
	}
	reader, err := c.client.Bucket(obj.Bucket).Object(obj.Name).NewReader(context.GetContext())
	if err != nil {
		return "", fmt.Errorf("failed to create GCS reader for %s: %w", uri, err)
	}
	defer func(reader *storage.Reader) {
		if err := reader.Close(); err != nil {
			slog.WarnContext(context.GetContext(), "failed to close GCS reader", "uri", uri, "error", err)
		}
	}(reader)

	tempFile, err := os.CreateTemp(c.tempDir, "upload-*"+path.Ext(obj.Name))
	if err != nil {
		return "", fmt.Errorf("could not create temp file: %w", err)
	}
	context.AddTempFile(tempFile.Name())

	written, err := io.Copy(tempFile, reader)
	_ = tempFile.Close()
	if err != nil {
		return "", fmt.Errorf("failed to copy %s to local file after %d bytes: %w", uri, written, err)
	}
	slog.InfoContext(context.GetContext(), "downloaded upload", "uri", uri, "path", tempFile.Name(), "bytes", written)
	return tempFile.Name(), nil
}
