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
	"fmt"
	"log/slog"

	"github.com/mmcdole/gofeed"
)

// FeedSource returns current headlines used as extra trending topics.
type FeedSource interface {
	Titles(ctx context.Context) ([]string, error)
}

// RSSFeedSource reads RSS or Atom feeds.
type RSSFeedSource struct {
	URLs   []string
	Limit  int // items kept per feed
	parser *gofeed.Parser
}

// NewRSSFeedSource creates a source over urls keeping limit items per feed.
func NewRSSFeedSource(urls []string, limit int) *RSSFeedSource {
	if limit <= 0 {
		limit = 5
	}
	return &RSSFeedSource{URLs: urls, Limit: limit, parser: gofeed.NewParser()}
}

// Titles reads every feed; a feed that fails is skipped. An error is only
// returned when every feed failed.
func (s *RSSFeedSource) Titles(ctx context.Context) ([]string, error) {
	var (
		titles  []string
		lastErr error
		okFeeds int
	)
	for _, url := range s.URLs {
		feed, err := s.parser.ParseURLWithContext(url, ctx)
		if err != nil {
			slog.WarnContext(ctx, "failed to read trend feed", "url", url, "error", err)
			lastErr = err
			continue
		}
		okFeeds++
		for i, item := range feed.Items {
			if i >= s.Limit {
				break
			}
			if item.Title != "" {
				titles = append(titles, item.Title)
			}
		}
	}
	if okFeeds == 0 && lastErr != nil {
		return nil, fmt.Errorf("all trend feeds failed: %w", lastErr)
	}
	return titles, nil
}
