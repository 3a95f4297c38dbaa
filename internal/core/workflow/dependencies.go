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

// Package workflow assembles the pipeline stages into the reel generation
// workflows: on demand generation, Pub/Sub driven generation and periodic
// retention of the working directories.
package workflow

import (
	"log/slog"
	"time"

	"cloud.google.com/go/storage"
	"github.com/jaycherian/gcp-go-reel-generator/internal/cloud"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/audio"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/commands"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/research"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/trends"
)

// Dependencies are the collaborators of a ReelGenerator. Nil optional
// members switch their stage off.
type Dependencies struct {
	Researcher research.Researcher // required
	Analyzer   *trends.Analyzer    // required
	Voice      audio.Voice
	Storage    *storage.Client
	Publisher  cloud.Publisher
	Inserter   commands.RowInserter
	Notifier   cloud.Notifier
}

// NewDependencies wires the collaborators selected by config from the
// clients that were created for it.
func NewDependencies(config *cloud.Config, clients *cloud.ServiceClients) Dependencies {
	deps := Dependencies{Researcher: research.LadderResearcher{}}
	if clients == nil {
		clients = &cloud.ServiceClients{}
	}

	if config.Research.UseGenAI {
		if m, ok := clients.AgentModels[config.Research.AgentModel]; ok {
			deps.Researcher = research.NewGenAIResearcher(m, config.PromptTemplates.ResearchPrompt, research.LadderResearcher{})
		} else {
			slog.Warn("genai research enabled but agent model is not configured", "model", config.Research.AgentModel)
		}
	}

	opts := []trends.Option{trends.WithTTL(time.Duration(config.Trends.TTLSeconds) * time.Second)}
	if clients.RedisClient != nil {
		opts = append(opts, trends.WithCache(&trends.RedisCache{Client: clients.RedisClient, Key: config.Trends.RedisKey}))
	}
	if len(config.Trends.Feeds) > 0 {
		opts = append(opts, trends.WithFeeds(trends.NewRSSFeedSource(config.Trends.Feeds, config.Trends.FeedItems)))
	}
	deps.Analyzer = trends.NewAnalyzer(opts...)

	if clients.TTSClient != nil {
		deps.Voice = &audio.CloudVoice{
			Client:       clients.TTSClient,
			LanguageCode: config.Audio.LanguageCode,
			VoiceName:    config.Audio.VoiceName,
		}
	}
	deps.Storage = clients.StorageClient
	deps.Publisher = cloud.NewPublisher(config, clients)
	if config.BigQueryDataSource.Enabled && clients.BiqQueryClient != nil {
		deps.Inserter = clients.BiqQueryClient.
			Dataset(config.BigQueryDataSource.DatasetName).
			Table(config.BigQueryDataSource.ReelTable).
			Inserter()
	}
	deps.Notifier = cloud.NewNotifier(config, clients)
	return deps
}
