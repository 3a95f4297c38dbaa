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
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/IBM/sarama"
)

// Notifier announces a finished reel to downstream consumers.
type Notifier interface {
	Notify(ctx context.Context, key string, payload []byte) error
}

// PubSubNotifier publishes to a Pub/Sub topic and waits for the server ack.
type PubSubNotifier struct {
	Topic *pubsub.Topic
}

func (n *PubSubNotifier) Notify(ctx context.Context, key string, payload []byte) error {
	res := n.Topic.Publish(ctx, &pubsub.Message{
		Data:       payload,
		Attributes: map[string]string{"reel_id": key},
	})
	if _, err := res.Get(ctx); err != nil {
		return fmt.Errorf("pubsub publish %s: %w", key, err)
	}
	return nil
}

// KafkaNotifier sends to a Kafka topic with a synchronous producer.
type KafkaNotifier struct {
	Producer sarama.SyncProducer
	Topic    string
}

func (n *KafkaNotifier) Notify(_ context.Context, key string, payload []byte) error {
	_, _, err := n.Producer.SendMessage(&sarama.ProducerMessage{
		Topic: n.Topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		return fmt.Errorf("kafka send %s: %w", key, err)
	}
	return nil
}

// NewKafkaProducer connects a synchronous producer that waits for all in-sync
// replicas.
func NewKafkaProducer(brokers []string) (sarama.SyncProducer, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = MaxRetries
	cfg.Producer.Return.Successes = true
	cfg.Producer.Timeout = 10 * time.Second
	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// NewNotifier returns the notifier selected by config, or nil.
func NewNotifier(config *Config, clients *ServiceClients) Notifier {
	if clients == nil {
		return nil
	}
	switch config.Notify.Provider {
	case NotifyPubSub:
		if clients.PubsubClient != nil && config.Notify.PubSubTopic != "" {
			return &PubSubNotifier{Topic: clients.PubsubClient.Topic(config.Notify.PubSubTopic)}
		}
	case NotifyKafka:
		if clients.KafkaProducer != nil {
			return &KafkaNotifier{Producer: clients.KafkaProducer, Topic: config.Notify.KafkaTopic}
		}
	}
	return nil
}
