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

	"github.com/h2non/filetype"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/cor"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/model"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/render"
)

// UploadValidator checks the uploaded files of a request by their content.
// Files that are not images (or audio) are dropped with a warning, as are
// images that fail to decode. Decoded images are stored under
// ParamBackgrounds.
type UploadValidator struct {
	cor.BaseCommand
}

func NewUploadValidator(name string) *UploadValidator {
	cmd := &UploadValidator{BaseCommand: *cor.NewBaseCommand(name)}
	cmd.InputParamName = ParamRequest
	return cmd
}

func (c *UploadValidator) Execute(context cor.Context) {
	req, ok := cor.GetAs[*model.ReelRequest](context, c.GetInputParam())
	if !ok {
		c.Fail(context, fmt.Errorf("missing reel request"))
		return
	}
	ctx := context.GetContext()

	var (
		kept        []string
		backgrounds []image.Image
	)
	for _, p := range req.ImagePaths {
		if err := CheckUpload(p, KindImage); err != nil {
			slog.WarnContext(ctx, "ignoring upload", "path", p, "error", err)
			continue
		}
		img, err := render.LoadImage(p)
		if err != nil {
			slog.WarnContext(ctx, "ignoring undecodable image", "path", p, "error", err)
			continue
		}
		kept = append(kept, p)
		backgrounds = append(backgrounds, img)
	}
	req.ImagePaths = kept

	if req.AudioPath != "" {
		if err := CheckUpload(req.AudioPath, KindAudio); err != nil {
			slog.WarnContext(ctx, "ignoring audio upload", "path", req.AudioPath, "error", err)
			req.AudioPath = ""
		}
	}

	c.Succeed(context)
	if len(backgrounds) > 0 {
		context.Add(ParamBackgrounds, backgrounds)
	}
}

// UploadKind is the expected content of an upload.
type UploadKind string

const (
	KindImage UploadKind = "image"
	KindAudio UploadKind = "audio"
)

// CheckUpload sniffs the file at path and returns an error unless it holds
// the expected kind of content. Audio may come inside a video container.
func CheckUpload(path string, kind UploadKind) error {
	t, err := filetype.MatchFile(path)
	if err != nil {
		return fmt.Errorf("failed to read upload: %w", err)
	}
	if t == filetype.Unknown {
		return fmt.Errorf("unrecognised file type, expected %s", kind)
	}
	switch kind {
	case KindImage:
		if t.MIME.Type == "image" {
			return nil
		}
	case KindAudio:
		if t.MIME.Type == "audio" || t.MIME.Type == "video" {
			return nil
		}
	}
	return fmt.Errorf("got %s, expected %s", t.MIME.Value, kind)
}
