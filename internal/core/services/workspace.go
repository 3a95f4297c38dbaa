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

package services

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jaycherian/gcp-go-reel-generator/internal/cloud"
)

// Workspace manages the local directories: uploads and temporary files are
// scratch space, outputs are served to clients until they expire.
type Workspace struct {
	UploadDir string
	TempDir   string
	OutputDir string
}

func NewWorkspace(config *cloud.Config) *Workspace {
	return &Workspace{
		UploadDir: config.Storage.UploadDir,
		TempDir:   config.Storage.TempDir,
		OutputDir: config.Storage.OutputDir,
	}
}

// SaveUpload stores r in the upload directory under a unique name that keeps
// the extension of name.
func (w *Workspace) SaveUpload(name string, r io.Reader) (string, error) {
	if err := os.MkdirAll(w.UploadDir, 0o755); err != nil {
		return "", err
	}
	base := sanitize(filepath.Base(name))
	path := filepath.Join(w.UploadDir, uuid.NewString()+"_"+base)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create upload: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	return path, f.Close()
}

// sanitize keeps letters, digits, dot, dash and underscore.
func sanitize(name string) string {
	out := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
	if strings.Trim(out, "._") == "" {
		return "upload"
	}
	return out
}

// Cleanup removes every regular file in the upload and temp directories and
// returns how many were removed. Subdirectories are left alone.
func (w *Workspace) Cleanup() (int, error) {
	return w.remove(func(fs.FileInfo) bool { return true }, w.UploadDir, w.TempDir)
}

// Expire removes files older than maxAge from all three directories.
func (w *Workspace) Expire(maxAge time.Duration, now time.Time) (int, error) {
	cutoff := now.Add(-maxAge)
	return w.remove(func(info fs.FileInfo) bool { return info.ModTime().Before(cutoff) }, w.UploadDir, w.TempDir, w.OutputDir)
}

func (w *Workspace) remove(match func(fs.FileInfo) bool, dirs ...string) (int, error) {
	var (
		removed int
		errs    []error
	)
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, e := range entries {
			if !e.Type().IsRegular() {
				continue
			}
			info, err := e.Info()
			if err != nil || !match(info) {
				continue
			}
			path := filepath.Join(dir, e.Name())
			if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
				errs = append(errs, err)
				continue
			}
			removed++
			slog.Debug("removed file", "path", path)
		}
	}
	return removed, errors.Join(errs...)
}
