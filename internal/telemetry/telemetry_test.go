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

package telemetry_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/jaycherian/gcp-go-reel-generator/internal/cloud"
	"github.com/jaycherian/gcp-go-reel-generator/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestHandler_CloudLoggingKeys(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(telemetry.NewHandler(&buf, slog.LevelInfo)).With("component", "test")
	logger.Warn("careful", "n", 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "WARNING", rec["severity"])
	assert.Equal(t, "careful", rec["message"])
	assert.Equal(t, "test", rec["component"])
	assert.Contains(t, rec, "timestamp")
}

func TestHandler_TraceIDs(t *testing.T) {
	ctx := context.Background()
	shutdown, err := telemetry.SetupOpenTelemetry(ctx, cloud.NewConfig())
	require.NoError(t, err)
	defer func() { _ = shutdown(ctx) }()

	spanCtx, span := otel.Tracer("test").Start(ctx, "op")
	defer span.End()

	var buf bytes.Buffer
	slog.New(telemetry.NewHandler(&buf, slog.LevelDebug)).InfoContext(spanCtx, "inside span")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, span.SpanContext().TraceID().String(), rec["logging.googleapis.com/trace"])
	assert.Equal(t, span.SpanContext().SpanID().String(), rec["logging.googleapis.com/spanId"])
}

func TestHandler_Level(t *testing.T) {
	var buf bytes.Buffer
	slog.New(telemetry.NewHandler(&buf, slog.LevelWarn)).Info("dropped")
	assert.Empty(t, buf.String())
}
