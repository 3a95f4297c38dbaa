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

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/bigquery"
	credentials "cloud.google.com/go/iam/credentials/apiv1"
	"cloud.google.com/go/iam/credentials/apiv1/credentialspb"
	"cloud.google.com/go/storage"
	"github.com/jaycherian/gcp-go-reel-generator/internal/cloud"
	"github.com/jaycherian/gcp-go-reel-generator/internal/core/model"
	"google.golang.org/api/iterator"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
	DefaultURLExpiry = 15 * time.Minute
)

var (
	// ErrReelNotFound is returned by Get for an unknown id.
	ErrReelNotFound = errors.New("reel not found")
	// ErrNotPublished is returned by SignedURL for reels kept only on local disk.
	ErrNotPublished = errors.New("reel was not published to cloud storage")
)

// StyleStats aggregates the history of one style.
type StyleStats struct {
	Style     string  `json:"style" bigquery:"style"`
	Reels     int64   `json:"reels" bigquery:"reels"`
	Fallbacks int64   `json:"fallbacks" bigquery:"fallbacks"`
	Seconds   float64 `json:"seconds" bigquery:"seconds"`
}

// ReelService reads the reel history and signs download URLs for reels
// published to GCS.
type ReelService struct {
	BigqueryClient *bigquery.Client
	StorageClient  *storage.Client
	IAMClient      *credentials.IamCredentialsClient
	SignerEmail    string // service account used for V4 signing
	DatasetName    string
	ReelTable      string
}

// NewReelService returns nil unless BigQuery history is enabled.
func NewReelService(config *cloud.Config, clients *cloud.ServiceClients) *ReelService {
	if !config.BigQueryDataSource.Enabled || clients.BiqQueryClient == nil {
		return nil
	}
	return &ReelService{
		BigqueryClient: clients.BiqQueryClient,
		StorageClient:  clients.StorageClient,
		IAMClient:      clients.IAMClient,
		SignerEmail:    config.Application.SignerServiceAccountEmail,
		DatasetName:    config.BigQueryDataSource.DatasetName,
		ReelTable:      config.BigQueryDataSource.ReelTable,
	}
}

// GetFQN returns the table name in the dotted form SQL expects.
func (s *ReelService) GetFQN() string {
	fqn := s.BigqueryClient.Dataset(s.DatasetName).Table(s.ReelTable).FullyQualifiedName()
	return strings.Replace(fqn, ":", ".", -1)
}

// ClampLimit bounds a requested page size.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return min(limit, MaxListLimit)
}

// List returns the most recent reels first.
func (s *ReelService) List(ctx context.Context, limit int) ([]*model.ReelRecord, error) {
	q := s.BigqueryClient.Query(fmt.Sprintf(QryListReels, s.GetFQN()))
	q.Parameters = []bigquery.QueryParameter{{Name: "limit", Value: ClampLimit(limit)}}
	return readAll[model.ReelRecord](ctx, q)
}

// Get returns one reel by id.
func (s *ReelService) Get(ctx context.Context, id string) (*model.ReelRecord, error) {
	q := s.BigqueryClient.Query(fmt.Sprintf(QryFindReelById, s.GetFQN()))
	q.Parameters = []bigquery.QueryParameter{{Name: "id", Value: id}}
	out, err := readAll[model.ReelRecord](ctx, q)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrReelNotFound, id)
	}
	return out[0], nil
}

// Stats returns per style totals.
func (s *ReelService) Stats(ctx context.Context) ([]*StyleStats, error) {
	return readAll[StyleStats](ctx, s.BigqueryClient.Query(fmt.Sprintf(QryReelStats, s.GetFQN())))
}

func readAll[T any](ctx context.Context, q *bigquery.Query) ([]*T, error) {
	itr, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read from BigQuery: %w", err)
	}
	out := make([]*T, 0)
	for {
		row := new(T)
		err := itr.Next(row)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return out, fmt.Errorf("failed to iterate results: %w", err)
		}
		out = append(out, row)
	}
	return out, nil
}

// SignedURL returns a V4 signed GET URL for the published copy of a reel.
// Signing goes through the IAM credentials API so the server needs no
// private key.
func (s *ReelService) SignedURL(ctx context.Context, rec *model.ReelRecord, expires time.Duration) (string, error) {
	if !strings.HasPrefix(rec.PublishedURI, "gs://") {
		return "", fmt.Errorf("%w: %s", ErrNotPublished, rec.ID)
	}
	obj, err := cloud.ParseGCSURI(rec.PublishedURI)
	if err != nil {
		return "", err
	}
	if s.StorageClient == nil {
		return "", fmt.Errorf("storage client not configured")
	}
	if expires <= 0 {
		expires = DefaultURLExpiry
	}

	opts := &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  "GET",
		Expires: time.Now().Add(expires),
	}
	if s.IAMClient != nil && s.SignerEmail != "" {
		opts.GoogleAccessID = s.SignerEmail
		opts.SignBytes = func(b []byte) ([]byte, error) {
			resp, err := s.IAMClient.SignBlob(ctx, &credentialspb.SignBlobRequest{
				Name:    fmt.Sprintf("projects/-/serviceAccounts/%s", s.SignerEmail),
				Payload: b,
			})
			if err != nil {
				return nil, err
			}
			return resp.SignedBlob, nil
		}
	}

	u, err := s.StorageClient.Bucket(obj.Bucket).SignedURL(obj.Name, opts)
	if err != nil {
		return "", fmt.Errorf("Bucket(%q).SignedURL(%q): %w", obj.Bucket, obj.Name, err)
	}
	return u, nil
}
