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

package audio

import (
	"context"
	"errors"
	"fmt"
	"os"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/googleapis/gax-go/v2"
)

// ErrEmptyNarration is returned when there is nothing to say.
var ErrEmptyNarration = errors.New("nothing to narrate")

// Voice turns text into MP3 audio.
type Voice interface {
	Speak(ctx context.Context, text string) ([]byte, error)
}

// SpeechSynthesizer is the part of the Text-to-Speech client used here.
type SpeechSynthesizer interface {
	SynthesizeSpeech(ctx context.Context, req *texttospeechpb.SynthesizeSpeechRequest, opts ...gax.CallOption) (*texttospeechpb.SynthesizeSpeechResponse, error)
}

var _ SpeechSynthesizer = (*texttospeech.Client)(nil)

// CloudVoice narrates with Google Cloud Text-to-Speech.
type CloudVoice struct {
	Client       SpeechSynthesizer
	LanguageCode string
	VoiceName    string // empty lets the service choose
}

func (v *CloudVoice) Speak(ctx context.Context, text string) ([]byte, error) {
	if text == "" {
		return nil, ErrEmptyNarration
	}
	lang := v.LanguageCode
	if lang == "" {
		lang = "en-US"
	}
	resp, err := v.Client.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: lang,
			Name:         v.VoiceName,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("synthesize speech: %w", err)
	}
	if len(resp.AudioContent) == 0 {
		return nil, errors.New("synthesize speech: empty audio")
	}
	return resp.AudioContent, nil
}

// Narrate speaks text into an MP3 file at path.
func Narrate(ctx context.Context, voice Voice, text string, path string) error {
	mp3, err := voice.Speak(ctx, text)
	if err != nil {
		return err
	}
	return os.WriteFile(path, mp3, 0o644)
}
