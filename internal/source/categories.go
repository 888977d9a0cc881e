package source

import (
	"sort"
	"strings"
)

// DefaultCategory is used whenever a requested category is not recognized.
const DefaultCategory = "technology"

// Known dashboard categories. They mirror the NewsAPI top-headline categories.
const (
	CategoryBusiness      = "business"
	CategoryEntertainment = "entertainment"
	CategoryGeneral       = "general"
	CategoryHealth        = "health"
	CategoryScience       = "science"
	CategorySports        = "sports"
	CategoryTechnology    = "technology"
)

// twitterQueries maps a category to a recent-search query.
var twitterQueries = map[string]string{
	CategoryBusiness:      "(business OR economy OR markets OR startups) -is:retweet lang:en",
	CategoryEntertainment: "(movies OR music OR tv OR celebrity) -is:retweet lang:en",
	CategoryGeneral:       "(news OR breaking OR today) -is:retweet lang:en",
	CategoryHealth:        "(health OR fitness OR medicine OR wellness) -is:retweet lang:en",
	CategoryScience:       "(science OR space OR research OR physics) -is:retweet lang:en",
	CategorySports:        "(sports OR nba OR nfl OR soccer) -is:retweet lang:en",
	CategoryTechnology:    "(tech OR technology OR AI OR programming) -is:retweet lang:en",
}

// redditSubreddits maps a category to the subreddits combined into one listing.
var redditSubreddits = map[string][]string{
	CategoryBusiness:      {"business", "economics", "investing"},
	CategoryEntertainment: {"entertainment", "movies", "television"},
	CategoryGeneral:       {"news", "worldnews"},
	CategoryHealth:        {"health", "fitness", "nutrition"},
	CategoryScience:       {"science", "space", "askscience"},
	CategorySports:        {"sports", "nba", "soccer"},
	CategoryTechnology:    {"technology", "programming", "gadgets"},
}

// NormalizeCategory lowercases and trims a category label and maps anything
// unknown to DefaultCategory.
func NormalizeCategory(category string) string {
	c := strings.ToLower(strings.TrimSpace(category))
	if _, ok := twitterQueries[c]; ok {
		return c
	}
	return DefaultCategory
}

// Categories returns the known category keys in sorted order.
func Categories() []string {
	keys := make([]string, 0, len(twitterQueries))
	for k := range twitterQueries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// TwitterQuery returns the search query used for a category.
func TwitterQuery(category string) string {
	return twitterQueries[NormalizeCategory(category)]
}

// Subreddits returns the subreddits used for a category.
func Subreddits(category string) []string {
	subs := redditSubreddits[NormalizeCategory(category)]
	out := make([]string, len(subs))
	copy(out, subs)
	return out
}
