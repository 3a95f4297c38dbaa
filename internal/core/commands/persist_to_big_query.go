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
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/jaycherian/gcp-go-reel-generator/internal/core/cor"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/model"
)

// RowInserter streams rows into a table; *bigquery.Inserter implements it.
type RowInserter interface {
	Put(ctx context.Context, src interface{}) error
}

// PersistToBigQuery appends the reel to the generation history table.
type PersistToBigQuery struct {
	cor.BaseCommand
	inserter RowInserter
}

func NewPersistToBigQuery(name string, inserter RowInserter) *PersistToBigQuery {
	cmd := &PersistToBigQuery{BaseCommand: *cor.NewBaseCommand(name), inserter: inserter}
	cmd.InputParamName = ParamResult
	return cmd
}

func (c *PersistToBigQuery) Execute(context cor.Context) {
	result, _ := cor.GetAs[*model.ReelResult](context, c.GetInputParam())
	record := model.NewReelRecord(result, filepath.Base(result.VideoPath))

	if err := c.inserter.Put(context.GetContext(), record); err != nil {
		c.Fail(context, fmt.Errorf("bigquery insert failed for reel %s: %w", result.ID, err))
		return
	}

	c.Succeed(context)
	slog.InfoContext(context.GetContext(), "persisted reel", "id", result.ID)
}
