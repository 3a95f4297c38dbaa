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
	"strings"
	"time"

	"github.com/jaycherian/gcp-go-reel-generator/internal/core/model"
)

var baseHashtags = []string{
	"viral", "trending", "fyp", "foryou", "explore", "reels", "tiktok",
	"motivation", "success", "mindset", "hustle", "entrepreneur",
	"lifestyle", "aesthetic", "mood", "vibes", "energy",
	"fitness", "health", "workout", "gains", "strong",
	"money", "wealth", "investing", "crypto", "stocks",
	"tech", "ai", "innovation", "future", "digital",
	"fashion", "style", "outfit", "ootd", "beauty",
	"food", "recipe", "cooking", "delicious", "yummy",
	"travel", "adventure", "wanderlust", "vacation", "explore",
}

var seasonalHashtags = map[time.Month][]string{
	time.January:   {"newyear", "resolution", "goals", "fresh_start"},
	time.February:  {"love", "valentine", "heart", "romance"},
	time.March:     {"spring", "fresh", "growth", "renewal"},
	time.April:     {"easter", "spring", "bloom", "new_life"},
	time.May:       {"spring", "flowers", "mothers_day", "bloom"},
	time.June:      {"summer", "sunshine", "vacation", "fathers_day"},
	time.July:      {"summer", "freedom", "independence", "vacation"},
	time.August:    {"summer", "vacation", "back_to_school", "memories"},
	time.September: {"fall", "autumn", "school", "harvest"},
	time.October:   {"halloween", "spooky", "autumn", "scary"},
	time.November:  {"thanksgiving", "grateful", "thankful", "family"},
	time.December:  {"christmas", "holiday", "winter", "celebration"},
}

var soundCategories = []string{
	"upbeat_electronic",
	"hip_hop_beat",
	"acoustic_chill",
	"motivational_music",
	"trending_tiktok_sound",
	"viral_audio_clip",
	"background_music_trending",
	"energetic_workout_music",
	"calm_aesthetic_sound",
	"business_presentation_music",
}

var (
	colorFilters = []string{
		"vintage", "vibrant", "dark_mode", "neon", "sepia",
		"black_white", "high_contrast", "warm_tone", "cool_tone",
	}
	transitions = []string{
		"quick_cut", "fade", "zoom_in", "zoom_out", "slide",
		"spin", "flash", "crossfade", "wipe",
	}
	overlays = []string{
		"trending_text", "emoji_burst", "particle_effects",
		"light_leaks", "film_grain", "glitch_effect",
	}
)

var topicCatalog = []string{
	"self_improvement", "motivation", "success_tips", "mindset",
	"lifestyle_hacks", "productivity", "morning_routine", "habits",
	"business_tips", "entrepreneur_life", "side_hustle", "passive_income",
	"fitness_transformation", "workout_motivation", "healthy_living",
	"fashion_trends", "style_tips", "outfit_ideas", "beauty_hacks",
	"travel_tips", "adventure", "bucket_list", "wanderlust",
	"food_hacks", "recipe_tips", "cooking_secrets", "meal_prep",
	"tech_tips", "life_hacks", "organization", "decluttering",
	"relationship_advice", "dating_tips", "friendship_goals",
	"study_tips", "career_advice", "interview_tips", "skill_building",
}

// fixedStyleFlags are always on; randomStyleFlags are flipped per sample.
var (
	fixedStyleFlags  = []string{"quick_cuts", "vertical_format", "hook_first_3_seconds", "emoji_usage", "trending_audio", "storytelling"}
	randomStyleFlags = []string{"strong_cta", "text_overlay_heavy", "face_focus", "before_after", "tutorial_style", "authentic_casual", "high_energy"}
)

func fallbackData() model.TrendingData {
	return model.TrendingData{
		Hashtags: []string{"viral", "trending", "fyp", "explore", "mood", "aesthetic", "motivation"},
		Sounds:   []string{"trending_beat_1", "viral_audio_2", "popular_sound_3"},
		Effects: model.Effects{
			FlashTransitions: true,
			ZoomEffects:      true,
			TextAnimations:   true,
			ColorFilters:     []string{"vintage", "vibrant", "dark_mode"},
		},
		Topics: []string{"self_improvement", "lifestyle", "business_tips", "motivation", "success", "productivity", "mindset"},
		VideoStyles: map[string]bool{
			"quick_cuts":           true,
			"vertical_format":      true,
			"hook_first_3_seconds": true,
			"strong_cta":           true,
		},
	}
}

type styleTrend struct {
	hashtags []string
	topics   []string
	effects  map[string]bool
}

var styleTrends = map[model.Style]styleTrend{
	model.StyleFinance: {
		hashtags: []string{"stocks", "investing", "money", "wealth", "trading", "crypto"},
		topics:   []string{"stock_tips", "investment_strategy", "financial_freedom", "passive_income"},
		effects:  map[string]bool{"green_red_colors": true, "chart_overlays": true},
	},
	model.StyleFitness: {
		hashtags: []string{"workout", "fitness", "gains", "strong", "health", "gym"},
		topics:   []string{"workout_routine", "fitness_motivation", "transformation", "healthy_living"},
		effects:  map[string]bool{"energetic_transitions": true, "before_after": true},
	},
	model.StyleBusiness: {
		hashtags: []string{"entrepreneur", "business", "success", "hustle", "mindset"},
		topics:   []string{"business_tips", "entrepreneur_life", "success_mindset", "leadership"},
		effects:  map[string]bool{"professional_style": true, "clean_transitions": true},
	},
	model.StyleTech: {
		hashtags: []string{"tech", "ai", "innovation", "digital", "future", "coding"},
		topics:   []string{"tech_tips", "ai_news", "coding_tips", "innovation", "future_tech"},
		effects:  map[string]bool{"digital_effects": true, "neon_colors": true},
	},
}

// slug turns a headline into a topic tag.
func slug(title string) string {
	fields := strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return !(('a' <= r && r <= 'z') || ('0' <= r && r <= '9'))
	})
	if len(fields) > 5 {
		fields = fields[:5]
	}
	return strings.Join(fields, "_")
}
