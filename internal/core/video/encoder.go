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

// Package video muxes rendered frames and a soundtrack into an H.264 MP4.
// Frames are streamed to FFmpeg as raw RGBA over stdin while they are being
// drawn, so a reel never needs its frames on disk.
package video

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"

	"github.com/jaycherian/gcp-go-reel-generator/internal/cloud"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/render"
	ffmpeg "github.com/u2takey/ffmpeg-go"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultFFmpegPath = "ffmpeg"
	DefaultFPS        = 24
	PixelFormat       = "yuv420p"
	FilePrefix        = "reel_"
	FileExtension     = ".mp4"

	// stderrTail is how much FFmpeg output is kept for error messages.
	stderrTail = 2048
)

var errEncoderDone = errors.New("encoder exited")

// FileName is the output file name of reel id.
func FileName(id string) string {
	return FilePrefix + id + FileExtension
}

// Encoder runs FFmpeg.
type Encoder struct {
	FFmpegPath string
	FPS        int
	VideoCodec string
	AudioCodec string
	Preset     string
}

// NewEncoder creates an encoder from the render configuration, filling in
// defaults for anything left empty.
func NewEncoder(config cloud.Render) *Encoder {
	e := &Encoder{
		FFmpegPath: config.FFmpegPath,
		FPS:        config.FPS,
		VideoCodec: config.VideoCodec,
		AudioCodec: config.AudioCodec,
		Preset:     config.Preset,
	}
	if e.FFmpegPath == "" {
		e.FFmpegPath = DefaultFFmpegPath
	}
	if e.FPS <= 0 {
		e.FPS = DefaultFPS
	}
	if e.VideoCodec == "" {
		e.VideoCodec = "libx264"
	}
	if e.AudioCodec == "" {
		e.AudioCodec = "aac"
	}
	if e.Preset == "" {
		e.Preset = "veryfast"
	}
	return e
}

// Duration is the length in seconds of a video made of frames frames.
func (e *Encoder) Duration(frames int) float64 {
	return float64(frames) / float64(e.FPS)
}

// Args returns the FFmpeg arguments for encoding src into outPath. When
// audioPath is set the soundtrack is padded with silence and the output cut
// at the video length, so the audio always matches the video.
func (e *Encoder) Args(src render.FrameSource, audioPath, outPath string) []string {
	w, h := src.Size()
	video := ffmpeg.Input("pipe:", ffmpeg.KwArgs{
		"format":    "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", w, h),
		"framerate": strconv.Itoa(e.FPS),
	})
	streams := []*ffmpeg.Stream{video}
	kwargs := ffmpeg.KwArgs{
		"c:v":     e.VideoCodec,
		"pix_fmt": PixelFormat,
		"preset":  e.Preset,
		"r":       strconv.Itoa(e.FPS),
		"t":       strconv.FormatFloat(e.Duration(src.Count()), 'f', 3, 64),
	}
	if audioPath != "" {
		streams = append(streams, ffmpeg.Input(audioPath).Audio().Filter("apad", ffmpeg.Args{}))
		kwargs["c:a"] = e.AudioCodec
	}
	return ffmpeg.Output(streams, outPath, kwargs).OverWriteOutput().GetArgs()
}

// Encode streams every frame of src into FFmpeg and writes outPath. The
// frames are produced on their own goroutine; the first failure on either
// side stops both.
func (e *Encoder) Encode(ctx context.Context, src render.FrameSource, audioPath, outPath string) error {
	if src.Count() == 0 {
		return render.ErrNoFrames
	}
	args := e.Args(src, audioPath, outPath)
	slog.DebugContext(ctx, "encoding reel", "ffmpeg", e.FFmpegPath, "args", strings.Join(args, " "))

	g, ctx := errgroup.WithContext(ctx)
	pr, pw := io.Pipe()

	g.Go(func() error {
		err := writeFrames(ctx, pw, src)
		pw.CloseWithError(err)
		if errors.Is(err, errEncoderDone) {
			// ffmpeg has reported its own result
			return nil
		}
		return err
	})

	g.Go(func() error {
		var stderr bytes.Buffer
		cmd := exec.CommandContext(ctx, e.FFmpegPath, args...)
		cmd.Stdin = pr
		cmd.Stderr = &stderr
		err := cmd.Run()
		// unblocks the frame writer if ffmpeg exited early
		pr.CloseWithError(errEncoderDone)
		if err != nil {
			return fmt.Errorf("error running ffmpeg: %w: %s", err, tail(stderr.String()))
		}
		return nil
	})

	return g.Wait()
}

func writeFrames(ctx context.Context, w io.Writer, src render.FrameSource) error {
	width, height := src.Size()
	for i := 0; i < src.Count(); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		frame := src.Frame(i)
		if frame.Stride == width*4 {
			if _, err := w.Write(frame.Pix[:height*frame.Stride]); err != nil {
				return err
			}
			continue
		}
		for y := 0; y < height; y++ {
			row := frame.Pix[y*frame.Stride : y*frame.Stride+width*4]
			if _, err := w.Write(row); err != nil {
				return err
			}
		}
	}
	return nil
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > stderrTail {
		return s[len(s)-stderrTail:]
	}
	return s
}
