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

package render

import (
	"image"
	"math"

	"github.com/jaycherian/gcp-go-reel-generator/internal/core/model"
)

// FrameSource yields the frames of a video in order.
type FrameSource interface {
	// Count is the number of frames.
	Count() int
	// Frame returns frame i, 0 <= i < Count.
	Frame(i int) *image.RGBA
	// Size is the frame size.
	Size() (width, height int)
}

// ScriptSource renders a script at a fixed frame rate.
type ScriptSource struct {
	renderer *Renderer
	script   model.Script
	fps      int
	starts   []float64
	count    int
}

// NewScriptSource prepares frames for s at fps frames per second.
func NewScriptSource(r *Renderer, s model.Script, fps int) (*ScriptSource, error) {
	if len(s.Segments) == 0 || fps <= 0 {
		return nil, ErrNoFrames
	}
	starts := make([]float64, len(s.Segments))
	var total float64
	for i, seg := range s.Segments {
		starts[i] = total
		total += seg.Duration
	}
	count := int(math.Round(total * float64(fps)))
	if count == 0 {
		return nil, ErrNoFrames
	}
	return &ScriptSource{renderer: r, script: s, fps: fps, starts: starts, count: count}, nil
}

func (s *ScriptSource) Count() int { return s.count }

func (s *ScriptSource) Size() (int, int) { return s.renderer.Size() }

// Duration is the length of the video in seconds.
func (s *ScriptSource) Duration() float64 {
	return float64(s.count) / float64(s.fps)
}

func (s *ScriptSource) Frame(i int) *image.RGBA {
	t := float64(i) / float64(s.fps)
	idx := len(s.starts) - 1
	for k := 1; k < len(s.starts); k++ {
		if t < s.starts[k] {
			idx = k - 1
			break
		}
	}
	return s.renderer.SegmentFrame(idx, s.script.Segments[idx], t-s.starts[idx])
}

// StillSource repeats one frame.
type StillSource struct {
	frame *image.RGBA
	count int
}

// NewStillSource shows frame for seconds at fps.
func NewStillSource(frame *image.RGBA, seconds float64, fps int) (*StillSource, error) {
	count := int(math.Round(seconds * float64(fps)))
	if frame == nil || count <= 0 {
		return nil, ErrNoFrames
	}
	return &StillSource{frame: frame, count: count}, nil
}

func (s *StillSource) Count() int { return s.count }

func (s *StillSource) Frame(int) *image.RGBA { return s.frame }

func (s *StillSource) Size() (int, int) {
	b := s.frame.Bounds()
	return b.Dx(), b.Dy()
}
