// Package dashboard assembles vendor data into snapshots and caches them.
package dashboard

import (
	"errors"
	"fmt"
	"time"

	"github.com/abdulachik/dashboard/internal/source"
)

// FreshnessWindow is how long a stored snapshot may be served without a new round.
const FreshnessWindow = 300 * time.Second

// ErrMiss is returned by a SnapshotStore that holds no entry.
var ErrMiss = errors.New("no cached snapshot")

// Slot names one field of a Snapshot filled by a single fetch.
type Slot string

// Snapshot slots, named after their JSON keys.
const (
	SlotWeather  Slot = "weather"
	SlotForecast Slot = "forecast"
	SlotHourly   Slot = "hourly"
	SlotNews     Slot = "news"
	SlotStocks   Slot = "stocks"
	SlotETFs     Slot = "etfs"
	SlotQuote    Slot = "quote"
	SlotTwitter  Slot = "twitter"
	SlotReddit   Slot = "reddit"
)

// Slots lists every slot in display order.
var Slots = []Slot{
	SlotWeather,
	SlotForecast,
	SlotHourly,
	SlotNews,
	SlotStocks,
	SlotETFs,
	SlotQuote,
	SlotTwitter,
	SlotReddit,
}

// Snapshot is the result of one fetch round. A nil slot is unavailable; an
// empty non-nil list means the vendor answered with no data.
type Snapshot struct {
	GeneratedAt time.Time                    `json:"generated_at"`
	Category    string                       `json:"category"`
	Weather     *source.CurrentWeather       `json:"weather"`
	Forecast    []source.DailyForecast       `json:"forecast"`
	Hourly      []source.HourlyForecast      `json:"hourly"`
	News        []source.Article             `json:"news"`
	Stocks      map[string]source.StockQuote `json:"stocks"`
	ETFs        map[string]source.StockQuote `json:"etfs"`
	Quote       *source.Quote                `json:"quote"`
	Twitter     []source.Tweet               `json:"twitter"`
	Reddit      []source.RedditPost          `json:"reddit"`
}

// Available reports whether the slot holds data.
func (s Snapshot) Available(slot Slot) bool {
	switch slot {
	case SlotWeather:
		return s.Weather != nil
	case SlotForecast:
		return s.Forecast != nil
	case SlotHourly:
		return s.Hourly != nil
	case SlotNews:
		return s.News != nil
	case SlotStocks:
		return s.Stocks != nil
	case SlotETFs:
		return s.ETFs != nil
	case SlotQuote:
		return s.Quote != nil
	case SlotTwitter:
		return s.Twitter != nil
	case SlotReddit:
		return s.Reddit != nil
	}
	return false
}

// Unavailable returns the slots that hold no data, in display order.
func (s Snapshot) Unavailable() []Slot {
	var missing []Slot
	for _, slot := range Slots {
		if !s.Available(slot) {
			missing = append(missing, slot)
		}
	}
	return missing
}

// Entry is the persisted form of a snapshot.
type Entry struct {
	Timestamp string   `json:"timestamp"`
	Data      Snapshot `json:"data"`
}

// NewEntry stamps a snapshot with the time it was generated.
func NewEntry(at time.Time, snap Snapshot) Entry {
	return Entry{
		Timestamp: at.Format(time.RFC3339Nano),
		Data:      snap,
	}
}

// Age returns how long ago the entry was generated.
func (e Entry) Age(now time.Time) (time.Duration, error) {
	ts, err := time.Parse(time.RFC3339Nano, e.Timestamp)
	if err != nil {
		return 0, fmt.Errorf("parse cache timestamp: %w", err)
	}
	return now.Sub(ts), nil
}

// Fresh reports whether the entry is younger than FreshnessWindow. Entries
// stamped in the future count as fresh; unreadable stamps never do.
func (e Entry) Fresh(now time.Time) bool {
	age, err := e.Age(now)
	if err != nil {
		return false
	}
	return age < FreshnessWindow
}
