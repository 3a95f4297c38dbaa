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

package research

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jaycherian/gcp-go-reel-generator/internal/core/model"
)

// Source values recorded in ResearchData.Source.
const (
	SourceLadder   = "ladder"
	SourceGeneric  = "generic"
	SourceFallback = "fallback"
	SourceGenAI    = "genai"
)

type topic struct {
	keywords []string
	// when set and one of its keywords also matches, sub replaces data
	sub  *topic
	data model.ResearchData
}

func (t *topic) matches(query string) bool {
	for _, k := range t.keywords {
		if strings.Contains(query, k) {
			return true
		}
	}
	return false
}

func stat(label, value, change string) model.Statistic {
	return model.Statistic{Label: label, Value: value, Change: change}
}

// topics are checked in order; the first match wins.
var topics = []*topic{
	{
		keywords: []string{"crypto", "bitcoin"},
		data: model.ResearchData{
			Facts: []string{
				"Bitcoin reached an all-time high of $73,750 in March 2024",
				"Ethereum transitioned to Proof of Stake, reducing energy usage by 99.9%",
				"Over 420 million people worldwide now own cryptocurrency",
				"El Salvador and Central African Republic adopted Bitcoin as legal tender",
			},
			Statistics: []model.Statistic{
				stat("Bitcoin Market Cap", "$1.3 Trillion", "+156%"),
				stat("Daily Trading Volume", "$15.2 Billion", "+89%"),
				stat("Active Wallets", "106 Million", "+34%"),
			},
			KeyPoints: []string{"Institutional adoption accelerating", "Regulatory clarity improving", "DeFi ecosystem growing"},
		},
	},
	{
		keywords: []string{"stock", "investment"},
		sub: &topic{
			keywords: []string{"best", "top", "pick"},
			data: model.ResearchData{
				Facts: []string{
					"1. NVIDIA (NVDA) - AI chip leader, 239% YTD growth",
					"2. Tesla (TSLA) - EV dominance, expanding into robotics",
					"3. Microsoft (MSFT) - Cloud computing + AI integration",
					"4. Apple (AAPL) - iPhone 15 cycle + Vision Pro launch",
				},
				Statistics: []model.Statistic{
					stat("NVIDIA", "$890", "+239% YTD"),
					stat("Tesla", "$248", "+67% growth"),
					stat("Microsoft", "$378", "AI revenue up 150%"),
				},
				KeyPoints: []string{"AI revolution drives tech stocks", "EV adoption accelerating", "Cloud computing essential"},
			},
		},
		data: model.ResearchData{
			Facts: []string{
				"S&P 500 gained 24.2% in 2024, outperforming expectations",
				"AI stocks led market growth with 300%+ average returns",
				"Tech sector represented 35% of total market cap",
			},
			Statistics: []model.Statistic{
				stat("NVIDIA Stock", "+239%", "YTD 2024"),
				stat("Market Volume", "$45B", "Daily average"),
			},
			KeyPoints: []string{"AI revolution driving valuations", "Clean energy transition", "Remote work trends permanent"},
		},
	},
	{
		keywords: []string{"fitness", "workout", "health"},
		sub: &topic{
			keywords: []string{"plan", "routine"},
			data: model.ResearchData{
				Facts: []string{
					"Week 1-2: Foundation Phase - 3 workouts per week",
					"Week 3-4: Strength Phase - Add weight training",
					"Week 5-6: Endurance Phase - Increase cardio duration",
					"Week 7-8: Power Phase - High intensity intervals",
				},
				Statistics: []model.Statistic{
					stat("Day 1", "Upper Body", "Push-ups, Pull-ups"),
					stat("Day 2", "Lower Body", "Squats, Lunges"),
					stat("Day 3", "Cardio", "30min HIIT"),
				},
				KeyPoints: []string{"Start with bodyweight exercises", "Progress gradually each week", "Rest days are mandatory"},
			},
		},
		data: model.ResearchData{
			Facts: []string{
				"Regular exercise reduces risk of heart disease by 35%",
				"Strength training increases metabolism for up to 48 hours post-workout",
				"Just 150 minutes weekly exercise adds 3.4 years to lifespan",
				"High-intensity workouts improve brain function and memory",
			},
			Statistics: []model.Statistic{
				stat("Metabolism Boost", "15%", "After strength training"),
				stat("Heart Disease Risk", "-35%", "With regular exercise"),
				stat("Life Extension", "+3.4 years", "From 150min/week"),
			},
			KeyPoints: []string{"Consistency beats intensity", "Compound movements are king", "Recovery is crucial for growth"},
		},
	},
	{
		keywords: []string{"tech", "ai", "technology"},
		data: model.ResearchData{
			Facts: []string{
				"AI market expected to reach $1.8 trillion by 2030",
				"ChatGPT reached 100 million users in just 2 months",
				"Over 77% of companies are using or exploring AI",
				"AI can improve productivity by up to 40% in knowledge work",
			},
			Statistics: []model.Statistic{
				stat("AI Market Size", "$1.8T", "By 2030"),
				stat("Productivity Gain", "+40%", "With AI tools"),
				stat("Company Adoption", "77%", "Using or exploring AI"),
			},
			KeyPoints: []string{"AI is transforming every industry", "Automation replacing routine tasks", "Human-AI collaboration is key"},
		},
	},
	{
		keywords: []string{"food", "cooking", "recipe"},
		data: model.ResearchData{
			Facts: []string{
				"Home cooking saves families $3000+ annually compared to dining out",
				"Meal prep reduces food waste by up to 40%",
				"Mediterranean diet linked to 20% lower risk of heart disease",
				"Cooking releases stress-reducing endorphins in the brain",
			},
			Statistics: []model.Statistic{
				stat("Annual Savings", "$3,000+", "From home cooking"),
				stat("Food Waste Reduction", "-40%", "With meal prep"),
				stat("Heart Disease Risk", "-20%", "Mediterranean diet"),
			},
			KeyPoints: []string{"Fresh ingredients make all the difference", "Prep ahead for busy weeks", "Simple techniques yield big flavors"},
		},
	},
	{
		keywords: []string{"travel", "vacation"},
		data: model.ResearchData{
			Facts: []string{
				"Travel reduces stress hormones by up to 68%",
				"People who travel are 7% happier than those who don't",
				"Booking trips 6-8 weeks in advance saves 20% on average",
				"Travel experiences create longer-lasting happiness than material purchases",
			},
			Statistics: []model.Statistic{
				stat("Stress Reduction", "-68%", "From travel"),
				stat("Happiness Boost", "+7%", "For travelers"),
				stat("Booking Savings", "20%", "6-8 weeks advance"),
			},
			KeyPoints: []string{"Experiences beat possessions", "Plan ahead for better deals", "Local culture enriches the journey"},
		},
	},
	{
		keywords: []string{"productivity", "success", "habits"},
		data: model.ResearchData{
			Facts: []string{
				"It takes 21 days to form a habit, 66 days to make it automatic",
				"People who write down goals are 42% more likely to achieve them",
				"The first 2 hours of your day determine 80% of your productivity",
				"Multitasking reduces productivity by up to 40%",
			},
			Statistics: []model.Statistic{
				stat("Goal Achievement", "+42%", "When written down"),
				stat("Productivity Loss", "-40%", "From multitasking"),
				stat("Habit Formation", "66 days", "To become automatic"),
			},
			KeyPoints: []string{"Start small and be consistent", "Focus on one thing at a time", "Morning routines set the tone"},
		},
	},
}

// clone copies d so callers can't mutate the shared table.
func clone(d model.ResearchData, source string) model.ResearchData {
	return model.ResearchData{
		Facts:      append([]string(nil), d.Facts...),
		Statistics: append([]model.Statistic(nil), d.Statistics...),
		KeyPoints:  append([]string(nil), d.KeyPoints...),
		RecentNews: append([]string(nil), d.RecentNews...),
		Source:     source,
	}
}

// Simulate returns canned research for query, matching topics by substring
// on the lower-cased query, or a generic record built around its first word.
func Simulate(query string) model.ResearchData {
	q := strings.ToLower(query)
	for _, t := range topics {
		if !t.matches(q) {
			continue
		}
		if t.sub != nil && t.sub.matches(q) {
			return clone(t.sub.data, SourceLadder)
		}
		return clone(t.data, SourceLadder)
	}
	return generic(q)
}

func generic(query string) model.ResearchData {
	mainTopic := "topic"
	if fields := strings.Fields(query); len(fields) > 0 {
		mainTopic = fields[0]
	}
	title := titleCase(mainTopic)
	return model.ResearchData{
		Facts: []string{
			fmt.Sprintf("Recent studies show %s is growing 45%% year-over-year", mainTopic),
			fmt.Sprintf("Experts predict %s will be revolutionary in the next 5 years", mainTopic),
			fmt.Sprintf("Over 2.3 million people are now actively engaged with %s", mainTopic),
			fmt.Sprintf("Industry leaders are investing heavily in %s innovations", mainTopic),
		},
		Statistics: []model.Statistic{
			stat(title+" Growth", "+45%", "Year-over-year"),
			stat("Active Users", "2.3M", "+67% this year"),
			stat("Investment", "$12B", "Industry funding"),
		},
		KeyPoints: []string{
			title + " is transforming industries",
			"Innovation driving rapid adoption",
			"Future looks incredibly promising",
		},
		Source: SourceGeneric,
	}
}

// Fallback is the research used when everything else failed.
func Fallback(prompt string) model.ResearchData {
	return model.ResearchData{
		Facts:      []string{"Key insights about " + prompt, "Important developments in this area", "Latest trends and updates"},
		Statistics: []model.Statistic{stat("Growth", "+25%", "This year")},
		KeyPoints:  []string{"Growing interest", "Market potential", "Future outlook"},
		Source:     SourceFallback,
	}
}

// Researcher produces research for a prompt.
type Researcher interface {
	Research(ctx context.Context, prompt string, style model.Style) (model.ResearchData, error)
}

// LadderResearcher answers from the built-in topic table. It never fails.
type LadderResearcher struct{}

func (LadderResearcher) Research(ctx context.Context, prompt string, style model.Style) (model.ResearchData, error) {
	query := ExtractSearchTerms(prompt, style)
	slog.DebugContext(ctx, "researching topic", "prompt", prompt, "query", query)
	return Simulate(query), nil
}
