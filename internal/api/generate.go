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

package api

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/commands"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/model"
)

type generateForm struct {
	Prompt          string                  `form:"prompt" binding:"required"`
	Style           string                  `form:"style,default=trendy"`
	Duration        int                     `form:"duration,default=15"`
	IncludeTrending bool                    `form:"include_trending,default=true"`
	Images          []*multipart.FileHeader `form:"images"`
	Audio           *multipart.FileHeader   `form:"audio"`
}

type generateResponse struct {
	Success     bool   `json:"success"`
	ID          string `json:"id"`
	VideoPath   string `json:"video_path"`
	DownloadURL string `json:"download_url"`
	Fallback    bool   `json:"fallback"`
}

func (s *Server) generateReel(c *gin.Context) {
	var form generateForm
	if err := c.ShouldBind(&form); err != nil {
		detail(c, http.StatusBadRequest, err)
		return
	}
	style, err := model.ParseStyle(form.Style)
	if err != nil {
		detail(c, http.StatusBadRequest, err)
		return
	}

	req := model.ReelRequest{
		Prompt:          form.Prompt,
		Style:           style,
		Duration:        form.Duration,
		IncludeTrending: form.IncludeTrending,
	}
	if err := req.Validate(); err != nil {
		detail(c, http.StatusBadRequest, err)
		return
	}

	for _, fh := range form.Images {
		path, err := s.saveUpload(fh, commands.KindImage)
		if err != nil {
			removeUploads(req.ImagePaths)
			detail(c, http.StatusBadRequest, err)
			return
		}
		req.ImagePaths = append(req.ImagePaths, path)
	}
	if form.Audio != nil {
		path, err := s.saveUpload(form.Audio, commands.KindAudio)
		if err != nil {
			removeUploads(req.ImagePaths)
			detail(c, http.StatusBadRequest, err)
			return
		}
		req.AudioPath = path
	}

	result, err := s.Generator.Generate(c.Request.Context(), req)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "reel generation failed", "error", err)
		status := http.StatusInternalServerError
		if errors.Is(err, model.ErrInvalidRequest) {
			status = http.StatusBadRequest
		}
		detail(c, status, err)
		return
	}
	c.JSON(http.StatusOK, generateResponse{
		Success:     true,
		ID:          result.ID,
		VideoPath:   result.VideoPath,
		DownloadURL: result.DownloadURL,
		Fallback:    result.Fallback,
	})
}

// saveUpload stores fh in the workspace and checks its content type. A
// rejected file is removed again.
func (s *Server) saveUpload(fh *multipart.FileHeader, kind commands.UploadKind) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to read upload %s: %w", fh.Filename, err)
	}
	defer f.Close()

	path, err := s.Workspace.SaveUpload(fh.Filename, f)
	if err != nil {
		return "", err
	}
	if err := commands.CheckUpload(path, kind); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("%s: %w", fh.Filename, err)
	}
	return path, nil
}

// removeUploads drops files saved earlier in a request that was rejected.
func removeUploads(paths []string) {
	for _, p := range paths {
		_ = os.Remove(p)
	}
}
