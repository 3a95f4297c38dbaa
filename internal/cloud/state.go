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

package cloud

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/bigquery"
	credentials "cloud.google.com/go/iam/credentials/apiv1"
	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/storage"
	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"github.com/IBM/sarama"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/redis/go-redis/v9"
	"google.golang.org/genai"
)

// ServiceClients holds every external client. Only the clients the
// configuration asks for are created; the rest stay nil and the pipeline
// skips the stages that need them.
type ServiceClients struct {
	StorageClient   *storage.Client
	PubsubClient    *pubsub.Client
	GenAIClient     *genai.Client
	BiqQueryClient  *bigquery.Client
	IAMClient       *credentials.IamCredentialsClient
	TTSClient       *texttospeech.Client
	S3Client        *s3.Client
	KafkaProducer   sarama.SyncProducer
	RedisClient     *redis.Client
	PubSubListeners map[string]*PubSubListener
	AgentModels     map[string]*QuotaAwareGenerativeAIModel
}

// Close releases every open client.
func (c *ServiceClients) Close() {
	if c == nil {
		return
	}
	for _, l := range c.PubSubListeners {
		l.Stop()
	}
	if c.StorageClient != nil {
		_ = c.StorageClient.Close()
	}
	if c.PubsubClient != nil {
		_ = c.PubsubClient.Close()
	}
	if c.BiqQueryClient != nil {
		_ = c.BiqQueryClient.Close()
	}
	if c.IAMClient != nil {
		_ = c.IAMClient.Close()
	}
	if c.TTSClient != nil {
		_ = c.TTSClient.Close()
	}
	if c.KafkaProducer != nil {
		_ = c.KafkaProducer.Close()
	}
	if c.RedisClient != nil {
		_ = c.RedisClient.Close()
	}
}

// NewAgentModelConfig converts a configured model into a genai request config.
func NewAgentModelConfig(values VertexAiLLMModel) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:       genai.Ptr[float32](values.Temperature),
		TopP:              genai.Ptr[float32](values.TopP),
		TopK:              genai.Ptr[float32](values.TopK),
		MaxOutputTokens:   values.MaxTokens,
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: values.SystemInstructions}}},
		SafetySettings:    DefaultSafetySettings,
		ResponseMIMEType:  values.OutputFormat,
	}
}

// NewCloudServiceClients creates the clients required by config.
func NewCloudServiceClients(ctx context.Context, config *Config) (cloud *ServiceClients, err error) {
	cloud = &ServiceClients{
		PubSubListeners: make(map[string]*PubSubListener),
		AgentModels:     make(map[string]*QuotaAwareGenerativeAIModel),
	}
	defer func() {
		if err != nil {
			cloud.Close()
			cloud = nil
		}
	}()
	project := config.Application.GoogleProjectId

	// requests arriving over Pub/Sub may reference gs:// uploads
	if config.Storage.PublishProvider == PublishGCS || len(config.TopicSubscriptions) > 0 {
		if cloud.StorageClient, err = storage.NewClient(ctx); err != nil {
			return cloud, fmt.Errorf("storage client: %w", err)
		}
	}
	if config.Application.SignerServiceAccountEmail != "" {
		if cloud.IAMClient, err = credentials.NewIamCredentialsClient(ctx); err != nil {
			return cloud, fmt.Errorf("iam credentials client: %w", err)
		}
	}
	if config.Notify.Provider == NotifyPubSub || len(config.TopicSubscriptions) > 0 {
		if cloud.PubsubClient, err = pubsub.NewClient(ctx, project); err != nil {
			return cloud, fmt.Errorf("pubsub client: %w", err)
		}
		for subKey, values := range config.TopicSubscriptions {
			listener, lerr := NewPubSubListener(cloud.PubsubClient, values.Name, nil)
			if lerr != nil {
				return cloud, lerr
			}
			cloud.PubSubListeners[subKey] = listener
		}
	}
	if config.BigQueryDataSource.Enabled {
		if cloud.BiqQueryClient, err = bigquery.NewClient(ctx, project); err != nil {
			return cloud, fmt.Errorf("bigquery client: %w", err)
		}
	}
	if config.Audio.VoiceEnabled {
		if cloud.TTSClient, err = texttospeech.NewClient(ctx); err != nil {
			return cloud, fmt.Errorf("text-to-speech client: %w", err)
		}
	}
	if config.Research.UseGenAI {
		cloud.GenAIClient, err = genai.NewClient(ctx, &genai.ClientConfig{
			Project:  project,
			Location: config.Application.GoogleLocation,
			Backend:  genai.BackendVertexAI,
		})
		if err != nil {
			return cloud, fmt.Errorf("genai client: %w", err)
		}
		for amKey, values := range config.AgentModels {
			slog.Debug("registering agent model", "key", amKey, "model", values.Model)
			cloud.AgentModels[amKey] = NewQuotaAwareModel(NewAgentModelConfig(values), values.Model, cloud.GenAIClient.Models, values.RateLimit)
		}
	}
	if config.Storage.PublishProvider == PublishS3 {
		awsCfg, aerr := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(config.Storage.S3Region))
		if aerr != nil {
			return cloud, fmt.Errorf("aws config: %w", aerr)
		}
		cloud.S3Client = s3.NewFromConfig(awsCfg)
	}
	if config.Notify.Provider == NotifyKafka {
		if cloud.KafkaProducer, err = NewKafkaProducer(config.Notify.KafkaBrokers); err != nil {
			return cloud, err
		}
	}
	if config.Trends.RedisAddr != "" {
		cloud.RedisClient = redis.NewClient(&redis.Options{Addr: config.Trends.RedisAddr})
	}
	return cloud, nil
}
