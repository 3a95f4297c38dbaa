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

package model

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Request limits.
const (
	DefaultDuration = 15
	MaxDuration     = 180
)

// ErrInvalidRequest wraps every validation failure of a ReelRequest.
var ErrInvalidRequest = errors.New("invalid reel request")

// A request id ends up in file names, so it is restricted to a single
// path-safe segment.
var idPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,63}$`)

// AudioKind records which soundtrack a reel received.
type AudioKind string

const (
	AudioNone     AudioKind = "none"
	AudioMusic    AudioKind = "music"
	AudioVoice    AudioKind = "voice"
	AudioUploaded AudioKind = "uploaded"
)

// ReelRequest is one generation request.
type ReelRequest struct {
	ID              string   `json:"id"`
	Prompt          string   `json:"prompt"`
	Style           Style    `json:"style"`
	Duration        int      `json:"duration"`
	ImagePaths      []string `json:"image_paths,omitempty"`
	AudioPath       string   `json:"audio_path,omitempty"`
	IncludeTrending bool     `json:"include_trending"`
}

// Validate checks the request; errors wrap ErrInvalidRequest. An empty id is
// accepted and assigned later.
func (r *ReelRequest) Validate() error {
	if r.ID != "" && !idPattern.MatchString(r.ID) {
		return fmt.Errorf("%w: id %q must be 1-64 letters, digits, '-' or '_'", ErrInvalidRequest, r.ID)
	}
	if strings.TrimSpace(r.Prompt) == "" {
		return fmt.Errorf("%w: prompt is required", ErrInvalidRequest)
	}
	if !r.Style.Valid() {
		return fmt.Errorf("%w: %w: %q", ErrInvalidRequest, ErrUnknownStyle, r.Style)
	}
	if r.Duration < 1 || r.Duration > MaxDuration {
		return fmt.Errorf("%w: duration must be between 1 and %d seconds, got %d", ErrInvalidRequest, MaxDuration, r.Duration)
	}
	return nil
}

// ReelResult describes a finished reel.
type ReelResult struct {
	ID           string        `json:"id"`
	Prompt       string        `json:"prompt"`
	Style        Style         `json:"style"`
	VideoPath    string        `json:"video_path"`
	DownloadURL  string        `json:"download_url"`
	PublishedURI string        `json:"published_uri,omitempty"`
	Fallback     bool          `json:"fallback"`
	Research     *ResearchData `json:"research,omitempty"`
	Script       *Script       `json:"script,omitempty"`
	Trending     *TrendingData `json:"trending,omitempty"`
	AudioKind    AudioKind     `json:"audio_kind"`
	CreatedAt    time.Time     `json:"created_at"`
}

// ReelRecord is the BigQuery row of a generated reel.
type ReelRecord struct {
	ID              string    `json:"id" bigquery:"id"`
	Prompt          string    `json:"prompt" bigquery:"prompt"`
	Style           string    `json:"style" bigquery:"style"`
	DurationSeconds float64   `json:"duration_seconds" bigquery:"duration_seconds"`
	Segments        int       `json:"segments" bigquery:"segments"`
	AudioKind       string    `json:"audio_kind" bigquery:"audio_kind"`
	Fallback        bool      `json:"fallback" bigquery:"fallback"`
	FileName        string    `json:"file_name" bigquery:"file_name"`
	PublishedURI    string    `json:"published_uri" bigquery:"published_uri"`
	Hashtags        []string  `json:"hashtags" bigquery:"hashtags"`
	CreateDate      time.Time `json:"create_date" bigquery:"create_date"`
}

// NewReelRecord flattens a result into a history row.
func NewReelRecord(r *ReelResult, fileName string) *ReelRecord {
	rec := &ReelRecord{
		ID:           r.ID,
		Prompt:       r.Prompt,
		Style:        string(r.Style),
		AudioKind:    string(r.AudioKind),
		Fallback:     r.Fallback,
		FileName:     fileName,
		PublishedURI: r.PublishedURI,
		Hashtags:     []string{},
		CreateDate:   r.CreatedAt,
	}
	if r.Script != nil {
		rec.DurationSeconds = r.Script.Duration()
		rec.Segments = len(r.Script.Segments)
	}
	if r.Trending != nil {
		rec.Hashtags = r.Trending.Hashtags
	}
	return rec
}

// ReelEvent is published when a reel is ready.
type ReelEvent struct {
	ID           string    `json:"id"`
	Style        string    `json:"style"`
	DownloadURL  string    `json:"download_url"`
	PublishedURI string    `json:"published_uri,omitempty"`
	Fallback     bool      `json:"fallback"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewReelEvent builds the completion event of r.
func NewReelEvent(r *ReelResult) ReelEvent {
	return ReelEvent{
		ID:           r.ID,
		Style:        string(r.Style),
		DownloadURL:  r.DownloadURL,
		PublishedURI: r.PublishedURI,
		Fallback:     r.Fallback,
		CreatedAt:    r.CreatedAt,
	}
}
