package dashboard

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/abdulachik/dashboard/internal/source"
)

var errVendor = errors.New("vendor down")

// fakeWeather is a WeatherSource with configurable failures.
type fakeWeather struct {
	err   error
	panic bool
	gate  *gate
}

func (f *fakeWeather) Current(ctx context.Context, city string) (*source.CurrentWeather, error) {
	f.gate.enter()
	defer f.gate.leave()
	if f.panic {
		panic("weather exploded")
	}
	if f.err != nil {
		return nil, f.err
	}
	return &source.CurrentWeather{City: city, Temperature: 68, Description: "clear sky"}, nil
}

func (f *fakeWeather) Forecast7Day(ctx context.Context, city string) ([]source.DailyForecast, error) {
	f.gate.enter()
	defer f.gate.leave()
	if f.err != nil {
		return nil, f.err
	}
	return []source.DailyForecast{{Date: "Mon, Jan 01", High: 70, Low: 50}}, nil
}

func (f *fakeWeather) Hourly(ctx context.Context, city string, hours int) ([]source.HourlyForecast, error) {
	f.gate.enter()
	defer f.gate.leave()
	if f.err != nil {
		return nil, f.err
	}
	return []source.HourlyForecast{{Time: "Mon 03:00 PM", Temperature: 65}}, nil
}

type fakeNews struct {
	gate     *gate
	category string
	mu       sync.Mutex
}

func (f *fakeNews) TopHeadlines(ctx context.Context, category string, count int) ([]source.Article, error) {
	f.gate.enter()
	defer f.gate.leave()
	f.mu.Lock()
	f.category = category
	f.mu.Unlock()
	return source.MockArticles(category, count), nil
}

type fakeStocks struct {
	gate *gate
}

func (f *fakeStocks) Quote(ctx context.Context, symbol string) (*source.StockQuote, error) {
	q := source.MockStockQuotes([]string{symbol})[symbol]
	return &q, nil
}

func (f *fakeStocks) Quotes(ctx context.Context, symbols []string) (map[string]source.StockQuote, error) {
	f.gate.enter()
	defer f.gate.leave()
	return source.MockStockQuotes(symbols), nil
}

type fakeQuotes struct {
	gate *gate
}

func (f *fakeQuotes) Random(ctx context.Context) (*source.Quote, error) {
	f.gate.enter()
	defer f.gate.leave()
	return &source.Quote{Text: "Stay hungry.", Author: "Someone", Tags: []string{}}, nil
}

type fakeTrend[T any] struct {
	name  string
	items []T
	gate  *gate
}

func (f *fakeTrend[T]) Name() string { return f.name }

func (f *fakeTrend[T]) ByCategory(ctx context.Context, category string, count int) ([]T, error) {
	f.gate.enter()
	defer f.gate.leave()
	return f.items, nil
}

// gate records the peak number of concurrent callers. A nil gate is a no-op.
type gate struct {
	hold    time.Duration
	current int32
	peak    int32
	calls   int32
}

func (g *gate) enter() {
	if g == nil {
		return
	}
	atomic.AddInt32(&g.calls, 1)
	n := atomic.AddInt32(&g.current, 1)
	for {
		p := atomic.LoadInt32(&g.peak)
		if n <= p || atomic.CompareAndSwapInt32(&g.peak, p, n) {
			break
		}
	}
	time.Sleep(g.hold)
}

func (g *gate) leave() {
	if g == nil {
		return
	}
	atomic.AddInt32(&g.current, -1)
}

func fakeSources(g *gate) Sources {
	return Sources{
		Weather: &fakeWeather{gate: g},
		News:    &fakeNews{gate: g},
		Stocks:  &fakeStocks{gate: g},
		Quotes:  &fakeQuotes{gate: g},
		Twitter: &fakeTrend[source.Tweet]{name: "twitter", items: source.MockTweets("technology", 3), gate: g},
		Reddit:  &fakeTrend[source.RedditPost]{name: "reddit", items: source.MockRedditPosts("technology", 3), gate: g},
	}
}

// countingRunner counts rounds and returns a fixed snapshot.
type countingRunner struct {
	rounds int32
	snap   Snapshot
}

func (c *countingRunner) RunRound(ctx context.Context, category string) Snapshot {
	atomic.AddInt32(&c.rounds, 1)
	snap := c.snap
	snap.Category = category
	return snap
}

func (c *countingRunner) count() int {
	return int(atomic.LoadInt32(&c.rounds))
}

// memStore is an in-memory SnapshotStore with injectable failures.
type memStore struct {
	mu      sync.Mutex
	entry   *Entry
	loadErr error
	saveErr error
	saves   int
}

func (m *memStore) Load(ctx context.Context) (*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.entry == nil {
		return nil, ErrMiss
	}
	e := *m.entry
	return &e, nil
}

func (m *memStore) Save(ctx context.Context, entry Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.entry = &entry
	return nil
}

// fakeClock is a settable clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordedFetch struct {
	slot Slot
	err  error
}

type fakeRecorder struct {
	mu      sync.Mutex
	fetches []recordedFetch
	rounds  int
}

func (r *fakeRecorder) RecordFetch(slot Slot, elapsed time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetches = append(r.fetches, recordedFetch{slot: slot, err: err})
}

func (r *fakeRecorder) RecordRound(elapsed time.Duration, unavailable int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rounds++
}
