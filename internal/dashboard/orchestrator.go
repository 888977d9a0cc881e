package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/abdulachik/dashboard/internal/source"
)

const (
	// DefaultWorkers caps the number of fetches running at once.
	DefaultWorkers = 8

	defaultNewsCount   = 5
	defaultTrendCount  = 3
	defaultHourlyHours = 24
)

// ErrSourceMissing marks a slot whose source was not configured.
var ErrSourceMissing = errors.New("source not configured")

// Sources holds one adapter per vendor. A nil adapter leaves its slots unavailable.
type Sources struct {
	Weather source.WeatherSource
	News    source.NewsSource
	Stocks  source.StockSource
	Quotes  source.QuoteSource
	Twitter source.TrendSource[source.Tweet]
	Reddit  source.TrendSource[source.RedditPost]
}

// Recorder observes the outcome of every fetch.
type Recorder interface {
	RecordFetch(slot Slot, elapsed time.Duration, err error)
}

// RoundRecorder is implemented by recorders that also track whole rounds.
type RoundRecorder interface {
	RecordRound(elapsed time.Duration, unavailable int)
}

// Orchestrator runs the nine fetches of a round on a bounded pool.
type Orchestrator struct {
	sources     Sources
	city        string
	workers     int
	newsCount   int
	trendCount  int
	hourlyHours int
	stocks      []string
	etfs        []string
	recorders   []Recorder
	now         func() time.Time
}

// OrchestratorConfig holds orchestrator configuration.
type OrchestratorConfig struct {
	Sources      Sources
	City         string
	Workers      int
	NewsCount    int
	TrendCount   int
	HourlyHours  int
	StockSymbols []string
	ETFSymbols   []string
	Recorders    []Recorder
	Clock        func() time.Time
}

// NewOrchestrator creates a new orchestrator.
func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	o := &Orchestrator{
		sources:     cfg.Sources,
		city:        cfg.City,
		workers:     cfg.Workers,
		newsCount:   cfg.NewsCount,
		trendCount:  cfg.TrendCount,
		hourlyHours: cfg.HourlyHours,
		stocks:      cfg.StockSymbols,
		etfs:        cfg.ETFSymbols,
		recorders:   cfg.Recorders,
		now:         cfg.Clock,
	}

	if o.city == "" {
		o.city = "Chicago"
	}
	if o.workers <= 0 {
		o.workers = DefaultWorkers
	}
	if o.newsCount <= 0 {
		o.newsCount = defaultNewsCount
	}
	if o.trendCount <= 0 {
		o.trendCount = defaultTrendCount
	}
	if o.hourlyHours <= 0 {
		o.hourlyHours = defaultHourlyHours
	}
	if o.stocks == nil {
		o.stocks = source.MostActiveSymbols
	}
	if o.etfs == nil {
		o.etfs = source.PopularETFs
	}
	if o.now == nil {
		o.now = time.Now
	}

	return o
}

type task struct {
	slot  Slot
	fetch func(ctx context.Context) (any, error)
}

type result struct {
	slot    Slot
	value   any
	err     error
	elapsed time.Duration
}

// RunRound fetches every slot and assembles a snapshot. Failed or panicking
// fetches leave their slot unavailable. Caller cancellation is ignored so a
// round always completes.
func (o *Orchestrator) RunRound(ctx context.Context, category string) Snapshot {
	ctx = context.WithoutCancel(ctx)
	category = source.NormalizeCategory(category)
	roundID := uuid.NewString()
	start := o.now()

	slog.Debug("starting fetch round",
		"round", roundID,
		"category", category,
		"city", o.city,
		"workers", o.workers,
	)

	tasks := o.tasks(category)
	results := make(chan result, len(tasks))

	go func() {
		var g errgroup.Group
		g.SetLimit(o.workers)
		for _, t := range tasks {
			g.Go(func() error {
				results <- o.run(ctx, t)
				return nil
			})
		}
		_ = g.Wait()
		close(results)
	}()

	snap := Snapshot{Category: category}
	for r := range results {
		for _, rec := range o.recorders {
			rec.RecordFetch(r.slot, r.elapsed, r.err)
		}

		if r.err != nil {
			slog.Warn("fetch failed",
				"round", roundID,
				"slot", r.slot,
				"elapsed", r.elapsed,
				"error", r.err,
			)
			continue
		}
		if err := apply(&snap, r.slot, r.value); err != nil {
			slog.Error("discarding fetch result", "round", roundID, "slot", r.slot, "error", err)
			continue
		}
		slog.Debug("fetch complete", "round", roundID, "slot", r.slot, "elapsed", r.elapsed)
	}

	end := o.now()
	elapsed := end.Sub(start)
	// Stored snapshots decode without a monotonic reading or local zone.
	snap.GeneratedAt = end.Round(0).UTC()
	unavailable := snap.Unavailable()

	for _, rec := range o.recorders {
		if rr, ok := rec.(RoundRecorder); ok {
			rr.RecordRound(elapsed, len(unavailable))
		}
	}

	slog.Info("fetch round complete",
		"round", roundID,
		"category", category,
		"duration", elapsed,
		"unavailable", unavailable,
	)

	return snap
}

func (o *Orchestrator) run(ctx context.Context, t task) (r result) {
	start := time.Now()
	r.slot = t.slot

	defer func() {
		if p := recover(); p != nil {
			r.value = nil
			r.err = fmt.Errorf("fetch %s panicked: %v", t.slot, p)
		}
		r.elapsed = time.Since(start)
	}()

	r.value, r.err = t.fetch(ctx)
	return r
}

func (o *Orchestrator) tasks(category string) []task {
	s := o.sources

	return []task{
		{SlotWeather, func(ctx context.Context) (any, error) {
			if s.Weather == nil {
				return nil, ErrSourceMissing
			}
			return s.Weather.Current(ctx, o.city)
		}},
		{SlotForecast, func(ctx context.Context) (any, error) {
			if s.Weather == nil {
				return nil, ErrSourceMissing
			}
			return s.Weather.Forecast7Day(ctx, o.city)
		}},
		{SlotHourly, func(ctx context.Context) (any, error) {
			if s.Weather == nil {
				return nil, ErrSourceMissing
			}
			return s.Weather.Hourly(ctx, o.city, o.hourlyHours)
		}},
		{SlotNews, func(ctx context.Context) (any, error) {
			if s.News == nil {
				return nil, ErrSourceMissing
			}
			return s.News.TopHeadlines(ctx, category, o.newsCount)
		}},
		{SlotQuote, func(ctx context.Context) (any, error) {
			if s.Quotes == nil {
				return nil, ErrSourceMissing
			}
			return s.Quotes.Random(ctx)
		}},
		{SlotTwitter, func(ctx context.Context) (any, error) {
			if s.Twitter == nil {
				return nil, ErrSourceMissing
			}
			return s.Twitter.ByCategory(ctx, category, o.trendCount)
		}},
		{SlotReddit, func(ctx context.Context) (any, error) {
			if s.Reddit == nil {
				return nil, ErrSourceMissing
			}
			return s.Reddit.ByCategory(ctx, category, o.trendCount)
		}},
		{SlotStocks, func(ctx context.Context) (any, error) {
			if s.Stocks == nil {
				return nil, ErrSourceMissing
			}
			return s.Stocks.Quotes(ctx, o.stocks)
		}},
		{SlotETFs, func(ctx context.Context) (any, error) {
			if s.Stocks == nil {
				return nil, ErrSourceMissing
			}
			return s.Stocks.Quotes(ctx, o.etfs)
		}},
	}
}

// apply stores a fetch result in its slot. Lists and maps that came back nil
// without an error are stored empty so they read as "no data".
func apply(snap *Snapshot, slot Slot, value any) error {
	switch slot {
	case SlotWeather:
		v, ok := value.(*source.CurrentWeather)
		if !ok || v == nil {
			return fmt.Errorf("unexpected %T", value)
		}
		snap.Weather = v
	case SlotForecast:
		v, ok := value.([]source.DailyForecast)
		if !ok {
			return fmt.Errorf("unexpected %T", value)
		}
		snap.Forecast = orEmpty(v)
	case SlotHourly:
		v, ok := value.([]source.HourlyForecast)
		if !ok {
			return fmt.Errorf("unexpected %T", value)
		}
		snap.Hourly = orEmpty(v)
	case SlotNews:
		v, ok := value.([]source.Article)
		if !ok {
			return fmt.Errorf("unexpected %T", value)
		}
		snap.News = orEmpty(v)
	case SlotStocks, SlotETFs:
		v, ok := value.(map[string]source.StockQuote)
		if !ok {
			return fmt.Errorf("unexpected %T", value)
		}
		if v == nil {
			v = map[string]source.StockQuote{}
		}
		if slot == SlotStocks {
			snap.Stocks = v
		} else {
			snap.ETFs = v
		}
	case SlotQuote:
		v, ok := value.(*source.Quote)
		if !ok || v == nil {
			return fmt.Errorf("unexpected %T", value)
		}
		snap.Quote = v
	case SlotTwitter:
		v, ok := value.([]source.Tweet)
		if !ok {
			return fmt.Errorf("unexpected %T", value)
		}
		snap.Twitter = orEmpty(v)
	case SlotReddit:
		v, ok := value.([]source.RedditPost)
		if !ok {
			return fmt.Errorf("unexpected %T", value)
		}
		snap.Reddit = orEmpty(v)
	default:
		return fmt.Errorf("unknown slot %q", slot)
	}
	return nil
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
