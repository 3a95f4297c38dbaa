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

// Package cloud holds configuration, the Google Cloud / AWS / Kafka clients and
// the small wrappers the reel pipeline uses to talk to them.
package cloud

import (
	"os"
	"path/filepath"

	"google.golang.org/genai"
)

// DefaultSafetySettings are applied to every Gemini request.
var DefaultSafetySettings = []*genai.SafetySetting{
	{
		Category:  genai.HarmCategoryDangerousContent,
		Threshold: genai.HarmBlockThresholdBlockOnlyHigh,
	},
	{
		Category:  genai.HarmCategoryHarassment,
		Threshold: genai.HarmBlockThresholdBlockOnlyHigh,
	},
	{
		Category:  genai.HarmCategoryHateSpeech,
		Threshold: genai.HarmBlockThresholdBlockOnlyHigh,
	},
	{
		Category:  genai.HarmCategorySexuallyExplicit,
		Threshold: genai.HarmBlockThresholdBlockOnlyHigh,
	},
}

// Telemetry modes for Application.Telemetry.
const (
	TelemetryNone = "none"
	TelemetryGCP  = "gcp"
)

// Publish providers for Storage.PublishProvider.
const (
	PublishNone = ""
	PublishGCS  = "gcs"
	PublishS3   = "s3"
)

// Notify providers for Notify.Provider.
const (
	NotifyNone   = ""
	NotifyPubSub = "pubsub"
	NotifyKafka  = "kafka"
)

// BigQueryDataSource names the dataset and table holding reel history.
type BigQueryDataSource struct {
	DatasetName string `toml:"dataset"`
	ReelTable   string `toml:"reel_table"`
	Enabled     bool   `toml:"enabled"`
}

// PromptTemplates holds the LLM prompts. Research is a fmt template taking the
// prompt, the style, the extracted search terms and an example JSON answer.
type PromptTemplates struct {
	ResearchPrompt string `toml:"research"`
}

// VertexAiLLMModel configures one Gemini model.
type VertexAiLLMModel struct {
	Model              string  `toml:"model"`
	SystemInstructions string  `toml:"system_instructions"`
	Temperature        float32 `toml:"temperature"`
	TopP               float32 `toml:"top_p"`
	TopK               float32 `toml:"top_k"`
	MaxTokens          int32   `toml:"max_tokens"`
	OutputFormat       string  `toml:"output_format"`
	RateLimit          int     `toml:"rate_limit"` // requests per second
}

// TopicSubscription configures a Pub/Sub subscription the server listens on.
type TopicSubscription struct {
	Name             string `toml:"name"`
	DeadLetterTopic  string `toml:"dead_letter_topic"`
	TimeoutInSeconds int    `toml:"timeout_in_seconds"`
}

// Storage holds local working directories and the optional publish target.
type Storage struct {
	OutputDir       string `toml:"output_dir"`
	UploadDir       string `toml:"upload_dir"`
	TempDir         string `toml:"temp_dir"`
	StaticDir       string `toml:"static_dir"`
	PublishProvider string `toml:"publish_provider"` // "", "gcs" or "s3"
	GCSBucket       string `toml:"gcs_bucket"`
	S3Bucket        string `toml:"s3_bucket"`
	S3Region        string `toml:"s3_region"`
	ObjectPrefix    string `toml:"object_prefix"`
	RetentionHours  int    `toml:"retention_hours"` // 0 disables the periodic sweep
}

// Render controls frame geometry and encoding.
type Render struct {
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	FPS        int    `toml:"fps"`
	VideoCodec string `toml:"video_codec"`
	AudioCodec string `toml:"audio_codec"`
	Preset     string `toml:"preset"`
	FFmpegPath string `toml:"ffmpeg_path"`
}

// Audio controls music synthesis and voice-over.
type Audio struct {
	SampleRate   int    `toml:"sample_rate"`
	VoiceEnabled bool   `toml:"voice_enabled"`
	LanguageCode string `toml:"language_code"`
	VoiceName    string `toml:"voice_name"`
}

// Trends controls the trending data cache.
type Trends struct {
	TTLSeconds int      `toml:"ttl_seconds"`
	RedisAddr  string   `toml:"redis_addr"`
	RedisKey   string   `toml:"redis_key"`
	Feeds      []string `toml:"feeds"`
	FeedItems  int      `toml:"feed_items"`
}

// Research selects the research backend.
type Research struct {
	UseGenAI   bool   `toml:"use_genai"`
	AgentModel string `toml:"agent_model"` // key into Config.AgentModels
}

// Notify selects where completion events go.
type Notify struct {
	Provider     string   `toml:"provider"` // "", "pubsub" or "kafka"
	PubSubTopic  string   `toml:"pubsub_topic"`
	KafkaBrokers []string `toml:"kafka_brokers"`
	KafkaTopic   string   `toml:"kafka_topic"`
}

// Server holds HTTP settings.
type Server struct {
	Addr               string  `toml:"addr"`
	GenerateRatePerSec float64 `toml:"generate_rate_per_sec"`
	GenerateBurst      int     `toml:"generate_burst"`
	MaxUploadMB        int64   `toml:"max_upload_mb"`
}

// Config is the root configuration, decoded from the TOML files by LoadConfig.
type Config struct {
	Application struct {
		Name                      string `toml:"name"`
		GoogleProjectId           string `toml:"google_project_id"`
		GoogleLocation            string `toml:"location"`
		ThreadPoolSize            int    `toml:"thread_pool_size"`
		SignerServiceAccountEmail string `toml:"signer_service_account_email"`
		Telemetry                 string `toml:"telemetry"`
	} `toml:"application"`
	Server             Server                       `toml:"server"`
	Storage            Storage                      `toml:"storage"`
	Render             Render                       `toml:"render"`
	Audio              Audio                        `toml:"audio"`
	Trends             Trends                       `toml:"trends"`
	Research           Research                     `toml:"research"`
	Notify             Notify                       `toml:"notify"`
	BigQueryDataSource BigQueryDataSource           `toml:"big_query_data_source"`
	PromptTemplates    PromptTemplates              `toml:"prompt_templates"`
	TopicSubscriptions map[string]TopicSubscription `toml:"topic_subscriptions"`
	AgentModels        map[string]VertexAiLLMModel  `toml:"agent_models"`
}

// NewConfig returns a configuration that runs fully locally: no cloud clients,
// working directories under the current directory.
func NewConfig() *Config {
	c := &Config{
		TopicSubscriptions: make(map[string]TopicSubscription),
		AgentModels:        make(map[string]VertexAiLLMModel),
	}
	c.Application.Name = "reel-generator"
	c.Application.ThreadPoolSize = 4
	c.Application.Telemetry = TelemetryNone
	c.Server = Server{Addr: ":8080", GenerateRatePerSec: 1, GenerateBurst: 2, MaxUploadMB: 64}
	c.Storage = Storage{
		OutputDir: "outputs",
		UploadDir: "uploads",
		TempDir:   "temp",
		StaticDir: "static",
	}
	c.Render = Render{
		Width:      1080,
		Height:     1920,
		FPS:        24,
		VideoCodec: "libx264",
		AudioCodec: "aac",
		Preset:     "veryfast",
	}
	c.Audio = Audio{SampleRate: 44100, LanguageCode: "en-US"}
	c.Trends = Trends{TTLSeconds: 3600, RedisKey: "reels:trending", FeedItems: 5}
	c.BigQueryDataSource = BigQueryDataSource{DatasetName: "reels", ReelTable: "reel_history"}
	return c
}

// WorkDirs returns every local directory the service writes to.
func (c *Config) WorkDirs() []string {
	return []string{c.Storage.OutputDir, c.Storage.UploadDir, c.Storage.TempDir, c.Storage.StaticDir}
}

// EnsureDirs creates the local working directories.
func (c *Config) EnsureDirs() error {
	for _, dir := range c.WorkDirs() {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(filepath.Clean(dir), 0o755); err != nil {
			return err
		}
	}
	return nil
}
