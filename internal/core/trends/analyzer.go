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

// Package trends produces mock trending metadata (hashtags, sounds, effects,
// topics and style flags) and caches it for an hour.
package trends

import (
	"context"
	"log/slog"
	"time"

	"github.com/jaycherian/gcp-go-reel-generator/internal/core/model"
	"github.com/samber/lo"
)

// DefaultTTL is how long a sample is reused.
const DefaultTTL = time.Hour

const (
	hashtagCount    = 15
	soundCount      = 5
	topicCount      = 10
	filterCount     = 3
	transitionCount = 4
	overlayCount    = 3
	styleBaseCount  = 5
)

// Analyzer samples and caches trending data. It is safe for concurrent use.
type Analyzer struct {
	cache Cache
	ttl   time.Duration
	clock Clock
	feeds FeedSource
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithCache replaces the in-memory cache.
func WithCache(c Cache) Option {
	return func(a *Analyzer) { a.cache = c }
}

// WithTTL sets the cache time to live.
func WithTTL(ttl time.Duration) Option {
	return func(a *Analyzer) { a.ttl = ttl }
}

// WithClock sets the clock used for seasonal hashtags, timestamps and the
// default cache.
func WithClock(c Clock) Option {
	return func(a *Analyzer) { a.clock = c }
}

// WithFeeds merges feed headlines into the sampled topics.
func WithFeeds(f FeedSource) Option {
	return func(a *Analyzer) { a.feeds = f }
}

// NewAnalyzer creates an Analyzer with an in-memory cache and DefaultTTL
// unless options say otherwise.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{ttl: DefaultTTL, clock: time.Now}
	for _, o := range opts {
		o(a)
	}
	if a.ttl <= 0 {
		a.ttl = DefaultTTL
	}
	if a.cache == nil {
		a.cache = NewMemoryCache(a.clock)
	}
	return a
}

// Get returns the cached record while it is younger than the TTL, otherwise
// a fresh sample which is then cached. When the cache can't be read a
// randomized fallback record is returned.
func (a *Analyzer) Get(ctx context.Context) (model.TrendingData, error) {
	cached, ok, err := a.cache.Get(ctx)
	if err != nil {
		slog.WarnContext(ctx, "error fetching trending data, using fallback", "error", err)
		return a.Fallback(), nil
	}
	if ok {
		return cached, nil
	}

	data := a.sample(ctx)
	if err = a.cache.Set(ctx, data, a.ttl); err != nil {
		slog.WarnContext(ctx, "failed to cache trending data", "error", err)
	}
	return data, nil
}

// ForStyle returns Get with the style's own hashtags, topics and effect flags
// placed first. Styles without specific trends get Get unchanged.
func (a *Analyzer) ForStyle(ctx context.Context, style model.Style) (model.TrendingData, error) {
	base, err := a.Get(ctx)
	if err != nil {
		return base, err
	}
	st, ok := styleTrends[style]
	if !ok {
		return base, nil
	}

	out := base
	out.Hashtags = append(append([]string{}, st.hashtags...), head(base.Hashtags, styleBaseCount)...)
	out.Topics = append(append([]string{}, st.topics...), head(base.Topics, styleBaseCount)...)
	out.Effects.Extra = lo.Assign(base.Effects.Extra, st.effects)
	return out, nil
}

// Fallback returns a small randomized record.
func (a *Analyzer) Fallback() model.TrendingData {
	fb := fallbackData()
	fb.Hashtags = lo.Samples(fb.Hashtags, 5)
	fb.Sounds = lo.Samples(fb.Sounds, 3)
	fb.Topics = lo.Samples(fb.Topics, 7)
	fb.Timestamp = a.clock()
	return fb
}

func (a *Analyzer) sample(ctx context.Context) model.TrendingData {
	now := a.clock()
	hashtags := lo.Uniq(append(append([]string{}, baseHashtags...), seasonalHashtags[now.Month()]...))
	topics := lo.Samples(topicCatalog, topicCount)
	hashtags = lo.Samples(hashtags, hashtagCount)

	if a.feeds != nil {
		titles, err := a.feeds.Titles(ctx)
		if err != nil {
			slog.WarnContext(ctx, "ignoring trend feeds", "error", err)
		}
		feedTopics := lo.Uniq(lo.Compact(lo.Map(titles, func(t string, _ int) string { return slug(t) })))
		topics = lo.Uniq(append(feedTopics, topics...))
	}

	styles := make(map[string]bool, len(fixedStyleFlags)+len(randomStyleFlags))
	for _, f := range fixedStyleFlags {
		styles[f] = true
	}
	for _, f := range randomStyleFlags {
		styles[f] = coin()
	}

	return model.TrendingData{
		Hashtags: hashtags,
		Sounds:   lo.Samples(soundCategories, soundCount),
		Effects: model.Effects{
			FlashTransitions: coin(),
			ZoomEffects:      true,
			TextAnimations:   true,
			ColorFilters:     lo.Samples(colorFilters, filterCount),
			Transitions:      lo.Samples(transitions, transitionCount),
			Overlays:         lo.Samples(overlays, overlayCount),
		},
		Topics:      topics,
		VideoStyles: styles,
		Timestamp:   now,
	}
}

func coin() bool {
	return lo.Sample([]bool{true, false})
}

func head(in []string, n int) []string {
	if len(in) < n {
		n = len(in)
	}
	return in[:n]
}
