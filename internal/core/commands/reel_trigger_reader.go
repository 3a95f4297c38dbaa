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
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/cor"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/model"
)

// ReelTriggerReader parses a JSON generation request, as received from
// Pub/Sub, into a validated model.ReelRequest. Missing fields get the same
// defaults as the HTTP form. Malformed or invalid messages fail with
// cor.ErrUnprocessable.
type ReelTriggerReader struct {
	cor.BaseCommand
}

func NewReelTriggerReader(name string) *ReelTriggerReader {
	return &ReelTriggerReader{BaseCommand: *cor.NewBaseCommand(name)}
}

func (c *ReelTriggerReader) Execute(context cor.Context) {
	in, ok := context.Get(c.GetInputParam()).(string)
	if !ok {
		c.Fail(context, fmt.Errorf("%w: expected a string message, got %T", cor.ErrUnprocessable, context.Get(c.GetInputParam())))
		return
	}

	// include_trending defaults to true when the field is absent
	req := &model.ReelRequest{IncludeTrending: true}
	if err := json.Unmarshal([]byte(in), req); err != nil {
		c.Fail(context, fmt.Errorf("%w: failed to unmarshal reel request: %w", cor.ErrUnprocessable, err))
		return
	}
	ApplyDefaults(req)
	if err := req.Validate(); err != nil {
		c.Fail(context, fmt.Errorf("%w: %w", cor.ErrUnprocessable, err))
		return
	}

	c.Succeed(context)
	context.Add(ParamRequest, req)
	context.Add(c.GetOutputParam(), req)
}

// ApplyDefaults fills the id, style and duration of a request left empty.
func ApplyDefaults(req *model.ReelRequest) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.Style == "" {
		req.Style = model.DefaultStyle
	}
	if req.Duration == 0 {
		req.Duration = model.DefaultDuration
	}
}
