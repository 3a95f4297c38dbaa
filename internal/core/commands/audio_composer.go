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

	"github.com/jaycherian/gcp-go-reel-generator/internal/core/audio"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/cor"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/model"
)

// AudioComposer produces the soundtrack of the script. Generated files are
// temporary and go away with the Context.
type AudioComposer struct {
	cor.BaseCommand
	composer *audio.Composer
}

func NewAudioComposer(name string, composer *audio.Composer) *AudioComposer {
	cmd := &AudioComposer{BaseCommand: *cor.NewBaseCommand(name), composer: composer}
	cmd.InputParamName = ParamScript
	cmd.OutputParamName = ParamAudio
	return cmd
}

func (c *AudioComposer) IsExecutable(context cor.Context) bool {
	return c.BaseCommand.IsExecutable(context) && context.Get(ParamRequest) != nil
}

func (c *AudioComposer) Execute(context cor.Context) {
	req, _ := cor.GetAs[*model.ReelRequest](context, ParamRequest)
	s, _ := cor.GetAs[*model.Script](context, c.GetInputParam())

	track, err := c.composer.Compose(context.GetContext(), *req, *s)
	if err != nil {
		c.Fail(context, fmt.Errorf("failed to compose audio: %w", err))
		return
	}
	if track.Kind != model.AudioUploaded {
		context.AddTempFile(track.Path)
	}

	c.Succeed(context)
	context.Add(c.GetOutputParam(), &track)
}
