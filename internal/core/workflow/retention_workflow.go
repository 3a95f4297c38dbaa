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

package workflow

import (
	goctx "context"
	"log/slog"
	"sync"
	"time"

	"github.com/jaycherian/gcp-go-reel-generator/internal/cloud"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/cor"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/services"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

// DefaultRetentionInterval is how often StartTimer sweeps.
const DefaultRetentionInterval = 10 * time.Minute

// RetentionWorkflow deletes uploads, temporary files and reels older than
// Storage.RetentionHours.
type RetentionWorkflow struct {
	cor.BaseCommand
	workspace *services.Workspace
	maxAge    time.Duration
	clock     func() time.Time

	stopOnce sync.Once
	stop     chan struct{}
}

// NewRetentionWorkflow returns nil when retention is disabled.
func NewRetentionWorkflow(config *cloud.Config, workspace *services.Workspace) *RetentionWorkflow {
	if config.Storage.RetentionHours <= 0 {
		return nil
	}
	return &RetentionWorkflow{
		BaseCommand: *cor.NewBaseCommand("reel-retention"),
		workspace:   workspace,
		maxAge:      time.Duration(config.Storage.RetentionHours) * time.Hour,
		clock:       time.Now,
		stop:        make(chan struct{}),
	}
}

func (m *RetentionWorkflow) IsExecutable(context cor.Context) bool {
	return context != nil && context.GetContext() != nil
}

func (m *RetentionWorkflow) Execute(context cor.Context) {
	removed, err := m.workspace.Expire(m.maxAge, m.clock())
	if err != nil {
		m.Fail(context, err)
	} else {
		m.Succeed(context)
	}
	if removed > 0 {
		slog.InfoContext(context.GetContext(), "expired old files", "removed", removed, "max_age", m.maxAge)
	}
}

// StartTimer sweeps every interval until Stop is called.
func (m *RetentionWorkflow) StartTimer(interval time.Duration) {
	if interval <= 0 {
		interval = DefaultRetentionInterval
	}
	tracer := otel.Tracer("reel-retention")
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				traceCtx, span := tracer.Start(goctx.Background(), "expire-files")
				chainCtx := cor.NewContext(traceCtx)
				m.Execute(chainCtx)
				if chainCtx.HasErrors() {
					span.SetStatus(codes.Error, "failed to expire files")
				} else {
					span.SetStatus(codes.Ok, "expired files")
				}
				span.End()
			case <-m.stop:
				return
			}
		}
	}()
}

// Stop ends the timer started by StartTimer.
func (m *RetentionWorkflow) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
}
