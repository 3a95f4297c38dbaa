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

package trends

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jaycherian/gcp-go-reel-generator/internal/core/model"
	"github.com/redis/go-redis/v9"
)

// Clock returns the current time. Tests replace it to move past the TTL.
type Clock func() time.Time

// Cache stores one TrendingData record with a time to live.
type Cache interface {
	// Get returns the stored record, or ok=false when missing or expired.
	Get(ctx context.Context) (data model.TrendingData, ok bool, err error)
	Set(ctx context.Context, data model.TrendingData, ttl time.Duration) error
}

// MemoryCache keeps the record in process.
type MemoryCache struct {
	mu      sync.RWMutex
	clock   Clock
	data    model.TrendingData
	expires time.Time
	set     bool
}

// NewMemoryCache creates an empty cache; a nil clock means time.Now.
func NewMemoryCache(clock Clock) *MemoryCache {
	if clock == nil {
		clock = time.Now
	}
	return &MemoryCache{clock: clock}
}

func (c *MemoryCache) Get(_ context.Context) (model.TrendingData, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.set || !c.clock().Before(c.expires) {
		return model.TrendingData{}, false, nil
	}
	return c.data, true, nil
}

func (c *MemoryCache) Set(_ context.Context, data model.TrendingData, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = data
	c.expires = c.clock().Add(ttl)
	c.set = true
	return nil
}

// RedisCache shares the record between server instances. Expiry is left to
// Redis.
type RedisCache struct {
	Client redis.Cmdable
	Key    string
}

func (c *RedisCache) Get(ctx context.Context) (model.TrendingData, bool, error) {
	raw, err := c.Client.Get(ctx, c.Key).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.TrendingData{}, false, nil
	}
	if err != nil {
		return model.TrendingData{}, false, fmt.Errorf("redis get %s: %w", c.Key, err)
	}
	var data model.TrendingData
	if err = json.Unmarshal(raw, &data); err != nil {
		return model.TrendingData{}, false, fmt.Errorf("decode cached trends: %w", err)
	}
	return data, true, nil
}

func (c *RedisCache) Set(ctx context.Context, data model.TrendingData, ttl time.Duration) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if err = c.Client.Set(ctx, c.Key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", c.Key, err)
	}
	return nil
}
