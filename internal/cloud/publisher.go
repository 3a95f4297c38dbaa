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
	"io"
	"os"

	"cloud.google.com/go/storage"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Publisher copies a finished reel to durable object storage and returns its URI.
type Publisher interface {
	Publish(ctx context.Context, localPath string, objectName string) (string, error)
}

// GCSPublisher uploads to a Cloud Storage bucket.
type GCSPublisher struct {
	Client *storage.Client
	Bucket string
}

func (p *GCSPublisher) Publish(ctx context.Context, localPath string, objectName string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := p.Client.Bucket(p.Bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = "video/mp4"
	if _, err = io.Copy(w, f); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("gcs upload %s: %w", objectName, err)
	}
	if err = w.Close(); err != nil {
		return "", fmt.Errorf("gcs upload %s: %w", objectName, err)
	}
	return GCSObject{Bucket: p.Bucket, Name: objectName}.URI(), nil
}

// S3API is the part of *s3.Client used for publishing.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Publisher uploads to an S3 bucket.
type S3Publisher struct {
	Client S3API
	Bucket string
}

func (p *S3Publisher) Publish(ctx context.Context, localPath string, objectName string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	_, err = p.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.Bucket),
		Key:         aws.String(objectName),
		Body:        f,
		ContentType: aws.String("video/mp4"),
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload %s: %w", objectName, err)
	}
	return fmt.Sprintf("s3://%s/%s", p.Bucket, objectName), nil
}

// NewPublisher returns the publisher selected by config, or nil when
// publishing is disabled or its client is missing.
func NewPublisher(config *Config, clients *ServiceClients) Publisher {
	if clients == nil {
		return nil
	}
	switch config.Storage.PublishProvider {
	case PublishGCS:
		if clients.StorageClient != nil {
			return &GCSPublisher{Client: clients.StorageClient, Bucket: config.Storage.GCSBucket}
		}
	case PublishS3:
		if clients.S3Client != nil {
			return &S3Publisher{Client: clients.S3Client, Bucket: config.Storage.S3Bucket}
		}
	}
	return nil
}
