package source

import (
	"hash/fnv"

	"github.com/shopspring/decimal"
)

// Curated records substituted when a vendor call cannot succeed. They are
// keyed by the same categories as the live lookups and fall back to the
// technology set for anything unrecognized.

var mockArticles = map[string][]Article{
	CategoryTechnology: {
		{Title: "Chipmakers race to ship next-generation AI accelerators", Source: "Tech Daily", Description: "New silicon promises faster training at lower power."},
		{Title: "Open-source database hits 1.0 after five years", Source: "Dev Weekly", Description: "The release stabilizes the storage engine and query planner."},
		{Title: "Browser vendors agree on new privacy standard", Source: "The Web Report", Description: "Third-party tracking protections will ship by default."},
		{Title: "Smartphone sales rebound in the third quarter", Source: "Gadget Wire", Description: "Foldables account for a growing share of premium devices."},
		{Title: "Cloud providers cut prices for archival storage", Source: "Infra News", Description: "Cold storage tiers drop as competition intensifies."},
	},
	CategoryBusiness: {
		{Title: "Markets close higher on strong earnings", Source: "Market Watchers", Description: "Retail and technology shares led the gains."},
		{Title: "Central bank holds rates steady", Source: "Finance Today", Description: "Policy makers signal patience on future cuts."},
		{Title: "Startup funding recovers in the second half", Source: "Venture Notes", Description: "Late-stage rounds return as valuations stabilize."},
		{Title: "Shipping costs ease as supply chains normalize", Source: "Trade Journal", Description: "Container rates are back to pre-pandemic levels."},
		{Title: "Small businesses report record hiring plans", Source: "Main Street Post", Description: "Owners cite steady demand heading into the holidays."},
	},
	CategoryGeneral: {
		{Title: "City council approves new transit plan", Source: "Metro Herald", Description: "The plan adds three bus rapid transit lines."},
		{Title: "Volunteers restore historic downtown theater", Source: "Community News", Description: "The venue reopens next month after a decade."},
		{Title: "Library system extends weekend hours", Source: "Metro Herald", Description: "Branches will stay open until 8 PM on Saturdays."},
		{Title: "Annual food drive sets donation record", Source: "Community News", Description: "Organizers collected more than 200 tons of food."},
		{Title: "Farmers market moves to a larger lot", Source: "Local Ledger", Description: "The new site doubles the number of vendor stalls."},
	},
	CategoryEntertainment: {
		{Title: "Indie film sweeps festival awards", Source: "Screen Scene", Description: "The debut feature won best picture and best director."},
		{Title: "Veteran band announces reunion tour", Source: "Sound Check", Description: "Tickets go on sale next Friday."},
		{Title: "Streaming series renewed for a third season", Source: "TV Insider", Description: "Production resumes early next year."},
		{Title: "Museum opens interactive video game exhibit", Source: "Culture Beat", Description: "Visitors can play titles spanning five decades."},
		{Title: "Bestselling novel heads to the big screen", Source: "Screen Scene", Description: "The author will co-write the screenplay."},
	},
	CategoryHealth: {
		{Title: "Study links daily walks to better sleep", Source: "Health Matters", Description: "Thirty minutes of walking improved sleep quality."},
		{Title: "Flu season arrives early this year", Source: "Public Health Wire", Description: "Officials urge residents to get vaccinated."},
		{Title: "New guidelines simplify nutrition labels", Source: "Wellness Today", Description: "Added sugars will be listed more prominently."},
		{Title: "Hospitals expand telehealth programs", Source: "Care Report", Description: "Virtual visits now cover most primary care needs."},
		{Title: "Researchers map benefits of mindfulness practice", Source: "Health Matters", Description: "Short sessions reduced reported stress levels."},
	},
	CategoryScience: {
		{Title: "Telescope captures most distant galaxy yet", Source: "Cosmos Today", Description: "The light left the galaxy 13.4 billion years ago."},
		{Title: "Fusion experiment sustains record plasma", Source: "Lab Notes", Description: "The reactor held the plasma for over a minute."},
		{Title: "Deep-sea survey finds dozens of new species", Source: "Ocean Science", Description: "The expedition explored trenches off the Pacific coast."},
		{Title: "Battery chemistry breakthrough doubles lifespan", Source: "Lab Notes", Description: "The cells retained 90% capacity after 5,000 cycles."},
		{Title: "Mission to sample asteroid enters final phase", Source: "Cosmos Today", Description: "The capsule returns to Earth next spring."},
	},
	CategorySports: {
		{Title: "Underdogs clinch playoff berth on final day", Source: "Sports Central", Description: "A late goal sealed the season's biggest upset."},
		{Title: "Star guard signs contract extension", Source: "Court Side", Description: "The deal keeps the all-star with the team through 2029."},
		{Title: "Marathon course record falls", Source: "Running World", Description: "The winner finished nearly a minute under the old mark."},
		{Title: "League announces expansion franchises", Source: "Sports Central", Description: "Two new teams will begin play in two seasons."},
		{Title: "Rookie pitcher throws a no-hitter", Source: "Diamond Report", Description: "It was only the fourth start of his career."},
	},
}

var mockTweets = map[string][]Tweet{
	CategoryTechnology: {
		{Text: "Just shipped our first feature written end to end with an AI pair programmer. Code review was still the hard part.", Author: "devdiaries", AuthorName: "Dev Diaries", Likes: 1240, Retweets: 210},
		{Text: "Hot take: the best framework is the one your team already knows.", Author: "codecraft", AuthorName: "Code Craft", Likes: 980, Retweets: 145},
		{Text: "New chip benchmarks are in and the efficiency gains are wild.", Author: "siliconwatch", AuthorName: "Silicon Watch", Likes: 760, Retweets: 98},
	},
	CategoryBusiness: {
		{Text: "Earnings season so far: guidance matters more than the beat.", Author: "marketpulse", AuthorName: "Market Pulse", Likes: 640, Retweets: 120},
		{Text: "Founders: default alive beats default hyped.", Author: "startupnotes", AuthorName: "Startup Notes", Likes: 1530, Retweets: 300},
		{Text: "Consumer spending held up better than anyone expected this quarter.", Author: "econbrief", AuthorName: "Econ Brief", Likes: 410, Retweets: 77},
	},
	CategoryGeneral: {
		{Text: "Morning roundup: transit plan approved, weekend weather looks great.", Author: "citydesk", AuthorName: "City Desk", Likes: 220, Retweets: 40},
		{Text: "Reminder: polls open at 7 AM tomorrow. Check your polling place.", Author: "civicinfo", AuthorName: "Civic Info", Likes: 890, Retweets: 650},
		{Text: "The food drive broke its record. Thank you to everyone who donated!", Author: "communityhub", AuthorName: "Community Hub", Likes: 1100, Retweets: 230},
	},
	CategoryEntertainment: {
		{Text: "That season finale did not have to go that hard.", Author: "screentalk", AuthorName: "Screen Talk", Likes: 2300, Retweets: 410},
		{Text: "Reunion tour dates just dropped. See you in the nosebleeds.", Author: "soundcheck", AuthorName: "Sound Check", Likes: 1750, Retweets: 390},
		{Text: "Festival winner is a must-watch. Go in knowing nothing.", Author: "filmnerd", AuthorName: "Film Nerd", Likes: 640, Retweets: 85},
	},
	CategoryHealth: {
		{Text: "Small habit, big payoff: a 30 minute walk after dinner.", Author: "wellnessdaily", AuthorName: "Wellness Daily", Likes: 870, Retweets: 160},
		{Text: "Flu shots are available at most pharmacies this week.", Author: "publichealth", AuthorName: "Public Health", Likes: 530, Retweets: 300},
		{Text: "Hydration check. Drink some water.", Author: "fitfacts", AuthorName: "Fit Facts", Likes: 410, Retweets: 60},
	},
	CategoryScience: {
		{Text: "The new deep-field image is breathtaking. Every dot is a galaxy.", Author: "cosmosfan", AuthorName: "Cosmos Fan", Likes: 3100, Retweets: 900},
		{Text: "Fusion progress is real but incremental. Both things are true.", Author: "labnotes", AuthorName: "Lab Notes", Likes: 1200, Retweets: 260},
		{Text: "Dozens of new deep-sea species described this year alone.", Author: "oceanlife", AuthorName: "Ocean Life", Likes: 950, Retweets: 210},
	},
	CategorySports: {
		{Text: "What a finish. Season of the underdog.", Author: "sportscentral", AuthorName: "Sports Central", Likes: 4200, Retweets: 880},
		{Text: "No-hitter in his fourth career start. Unreal.", Author: "diamondreport", AuthorName: "Diamond Report", Likes: 2600, Retweets: 540},
		{Text: "Course record at the marathon this morning!", Author: "runningworld", AuthorName: "Running World", Likes: 700, Retweets: 120},
	},
}

var mockRedditPosts = map[string][]RedditPost{
	CategoryTechnology: {
		{Title: "What's the most underrated tool in your dev setup?", Subreddit: "programming", Author: "vim_enjoyer", Score: 4820, NumComments: 912, Age: "5h ago"},
		{Title: "New chips benchmarked: efficiency up 40%", Subreddit: "technology", Author: "benchmarker", Score: 3310, NumComments: 455, Age: "3h ago"},
		{Title: "I built a weather station with a microcontroller and a solar panel", Subreddit: "gadgets", Author: "maker_mike", Score: 2150, NumComments: 180, Age: "8h ago"},
	},
	CategoryBusiness: {
		{Title: "Why small caps lagged this year", Subreddit: "investing", Author: "valuehunter", Score: 1820, NumComments: 430, Age: "6h ago"},
		{Title: "Central bank holds rates: what it means for mortgages", Subreddit: "economics", Author: "macro_mel", Score: 1540, NumComments: 390, Age: "4h ago"},
		{Title: "Lessons from closing my first business", Subreddit: "business", Author: "founder_fran", Score: 990, NumComments: 120, Age: "12h ago"},
	},
	CategoryGeneral: {
		{Title: "City approves three new rapid transit lines", Subreddit: "news", Author: "commuter42", Score: 5230, NumComments: 870, Age: "2h ago"},
		{Title: "Historic theater reopens after restoration", Subreddit: "news", Author: "oldtown", Score: 2890, NumComments: 210, Age: "9h ago"},
		{Title: "Record-breaking food drive wraps up", Subreddit: "worldnews", Author: "givingtree", Score: 2100, NumComments: 150, Age: "11h ago"},
	},
	CategoryEntertainment: {
		{Title: "Festival winner review thread", Subreddit: "movies", Author: "cinephile", Score: 3400, NumComments: 650, Age: "7h ago"},
		{Title: "Season finale discussion", Subreddit: "television", Author: "bingewatcher", Score: 6100, NumComments: 2300, Age: "1h ago"},
		{Title: "Reunion tour announced", Subreddit: "entertainment", Author: "roadie", Score: 1750, NumComments: 240, Age: "5h ago"},
	},
	CategoryHealth: {
		{Title: "Walking after meals changed my sleep", Subreddit: "fitness", Author: "stepcounter", Score: 2300, NumComments: 310, Age: "10h ago"},
		{Title: "Simple high-protein breakfasts", Subreddit: "nutrition", Author: "mealprepper", Score: 1680, NumComments: 200, Age: "6h ago"},
		{Title: "Flu season is early this year", Subreddit: "health", Author: "nurse_nina", Score: 1200, NumComments: 140, Age: "3h ago"},
	},
	CategoryScience: {
		{Title: "The most distant galaxy ever observed", Subreddit: "space", Author: "stargazer", Score: 8900, NumComments: 720, Age: "4h ago"},
		{Title: "How do fusion reactors contain plasma?", Subreddit: "askscience", Author: "curious_carl", Score: 3100, NumComments: 410, Age: "9h ago"},
		{Title: "Dozens of new deep-sea species identified", Subreddit: "science", Author: "marinebio", Score: 4500, NumComments: 300, Age: "6h ago"},
	},
	CategorySports: {
		{Title: "Post game thread: underdogs clinch the final playoff spot", Subreddit: "soccer", Author: "ultras", Score: 7800, NumComments: 3100, Age: "2h ago"},
		{Title: "Star guard signs extension", Subreddit: "nba", Author: "hoopsfan", Score: 5400, NumComments: 1200, Age: "5h ago"},
		{Title: "Rookie throws a no-hitter in fourth start", Subreddit: "sports", Author: "bullpen", Score: 3900, NumComments: 610, Age: "7h ago"},
	},
}

var mockQuotes = []Quote{
	{Text: "The secret of getting ahead is getting started.", Author: "Mark Twain", Tags: []string{"motivational"}},
	{Text: "It always seems impossible until it's done.", Author: "Nelson Mandela", Tags: []string{"inspirational"}},
	{Text: "Simplicity is prerequisite for reliability.", Author: "Edsger W. Dijkstra", Tags: []string{"technology"}},
	{Text: "Well done is better than well said.", Author: "Benjamin Franklin", Tags: []string{"wisdom"}},
	{Text: "What we think, we become.", Author: "Buddha", Tags: []string{"wisdom"}},
	{Text: "The best way to predict the future is to invent it.", Author: "Alan Kay", Tags: []string{"technology"}},
	{Text: "Quality is not an act, it is a habit.", Author: "Aristotle", Tags: []string{"wisdom"}},
}

var mockStockPrices = map[string]float64{
	"AAPL": 178.50, "MSFT": 380.25, "NVDA": 495.75, "GOOGL": 142.80,
	"AMZN": 155.60, "TSLA": 245.30, "META": 485.90, "AMD": 145.20,
	"NFLX": 445.60, "ADBE": 575.80, "SPY": 455.30, "QQQ": 395.40,
	"VTI": 235.75, "IWM": 195.60, "EFA": 72.45, "GLD": 185.90,
	"TLT": 92.35, "XLF": 38.75, "XLK": 185.40, "XLE": 88.25,
}

const mockTradingDay = "Mock Data"

// MockArticles returns up to count curated articles for the category.
func MockArticles(category string, count int) []Article {
	items := take(mockArticles[NormalizeCategory(category)], count)
	for i := range items {
		items[i].Mock = true
	}
	return items
}

// MockTweets returns up to count curated tweets for the category.
func MockTweets(category string, count int) []Tweet {
	items := take(mockTweets[NormalizeCategory(category)], count)
	for i := range items {
		items[i].Mock = true
	}
	return items
}

// MockRedditPosts returns up to count curated posts for the category.
func MockRedditPosts(category string, count int) []RedditPost {
	items := take(mockRedditPosts[NormalizeCategory(category)], count)
	for i := range items {
		items[i].Mock = true
		if items[i].URL == "" {
			items[i].URL = "https://reddit.com/r/" + items[i].Subreddit
		}
	}
	return items
}

// MockQuote returns the curated quote for a day of the year.
func MockQuote(yearDay int) Quote {
	if yearDay < 0 {
		yearDay = -yearDay
	}
	q := mockQuotes[yearDay%len(mockQuotes)]
	q.Tags = append([]string(nil), q.Tags...)
	q.Mock = true
	return q
}

// MockStockQuotes returns deterministic quotes for the symbols. Unknown
// symbols are priced around 150.
func MockStockQuotes(symbols []string) map[string]StockQuote {
	out := make(map[string]StockQuote, len(symbols))
	for _, symbol := range symbols {
		out[symbol] = mockStockQuote(symbol)
	}
	return out
}

func mockStockQuote(symbol string) StockQuote {
	base, ok := mockStockPrices[symbol]
	if !ok {
		base = 150.00
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(symbol))
	seed := h.Sum32()

	// Price varies by up to ±2% of base and the daily change by up to ±1.5%
	// of price, both derived from the symbol hash.
	priceBps := int64(seed%401) - 200
	changeBps := int64((seed/401)%301) - 150

	price := decimal.NewFromFloat(base).
		Mul(decimal.New(10000+priceBps, -4)).
		Round(2)
	change := price.Mul(decimal.New(changeBps, -4)).Round(2)

	pct := decimal.Zero
	if price.IsPositive() {
		pct = change.Div(price).Mul(decimal.NewFromInt(100)).Round(2)
	}

	return StockQuote{
		Symbol:           symbol,
		Price:            price.InexactFloat64(),
		Change:           change.InexactFloat64(),
		ChangePercent:    pct.InexactFloat64(),
		Volume:           20_000_000 + int64(seed%130_000_000),
		LatestTradingDay: mockTradingDay,
		IsUp:             !change.IsNegative(),
	}
}

// take copies at most n items.
func take[T any](items []T, n int) []T {
	if n < 0 || n > len(items) {
		n = len(items)
	}
	out := make([]T, n)
	copy(out, items[:n])
	return out
}
