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
	"log/slog"
	"path/filepath"

	"github.com/jaycherian/gcp-go-reel-generator/internal/cloud"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/cor"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/model"
)

// PublishReel copies the finished reel to object storage (GCS or S3) and
// records where it went on the result.
type PublishReel struct {
	cor.BaseCommand
	publisher cloud.Publisher
	prefix    string
}

func NewPublishReel(name string, publisher cloud.Publisher, prefix string) *PublishReel {
	cmd := &PublishReel{BaseCommand: *cor.NewBaseCommand(name), publisher: publisher, prefix: prefix}
	cmd.InputParamName = ParamResult
	return cmd
}

func (c *PublishReel) Execute(context cor.Context) {
	result, _ := cor.GetAs[*model.ReelResult](context, c.GetInputParam())
	name := cloud.ObjectName(c.prefix, filepath.Base(result.VideoPath))

	uri, err := c.publisher.Publish(context.GetContext(), result.VideoPath, name)
	if err != nil {
		c.Fail(context, fmt.Errorf("failed to publish %s: %w", result.VideoPath, err))
		return
	}

	c.Succeed(context)
	result.PublishedURI = uri
	slog.InfoContext(context.GetContext(), "published reel", "id", result.ID, "uri", uri)
}
