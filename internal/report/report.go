// Package report renders a snapshot as a plain-text terminal report.
package report

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/abdulachik/dashboard/internal/dashboard"
	"github.com/abdulachik/dashboard/internal/source"
)

const (
	defaultWidth = 100
	timeLayout   = "Mon, Jan 02 2006 03:04 PM"
)

// Options controls rendering.
type Options struct {
	// Width is the maximum line width in terminal cells.
	Width int
	// StockOrder and ETFOrder list symbols in display order. Symbols not
	// listed are appended alphabetically.
	StockOrder []string
	ETFOrder   []string
}

// Render writes the report for snap. Unavailable slots are skipped and listed
// at the end.
func Render(w io.Writer, snap dashboard.Snapshot, opts Options) error {
	if opts.Width <= 0 {
		opts.Width = defaultWidth
	}

	r := &renderer{w: bufio.NewWriter(w), width: opts.Width}

	r.title(fmt.Sprintf("DASHBOARD  %s  %s", strings.ToUpper(snap.Category), snap.GeneratedAt.Local().Format(timeLayout)))

	if snap.Weather != nil {
		r.weather(snap.Weather)
	}
	if snap.Forecast != nil {
		r.forecast(snap.Forecast)
	}
	if snap.Hourly != nil {
		r.hourly(snap.Hourly)
	}
	if snap.News != nil {
		r.news(snap.News)
	}
	if snap.Stocks != nil {
		r.quotes("MOST ACTIVE STOCKS", snap.Stocks, opts.StockOrder)
	}
	if snap.ETFs != nil {
		r.quotes("POPULAR ETFS", snap.ETFs, opts.ETFOrder)
	}
	if snap.Quote != nil {
		r.quote(snap.Quote)
	}
	if snap.Twitter != nil {
		r.twitter(snap.Twitter)
	}
	if snap.Reddit != nil {
		r.reddit(snap.Reddit)
	}

	if missing := snap.Unavailable(); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, s := range missing {
			names[i] = string(s)
		}
		r.blank()
		r.line("Unavailable: " + strings.Join(names, ", "))
	}

	return r.w.Flush()
}

type renderer struct {
	w     *bufio.Writer
	width int
}

func (r *renderer) line(s string) {
	fmt.Fprintln(r.w, runewidth.Truncate(s, r.width, "..."))
}

func (r *renderer) blank() {
	fmt.Fprintln(r.w)
}

func (r *renderer) title(s string) {
	r.line(s)
	r.line(strings.Repeat("=", min(runewidth.StringWidth(s), r.width)))
}

func (r *renderer) section(name string) {
	r.blank()
	r.line(name)
	r.line(strings.Repeat("-", min(runewidth.StringWidth(name), r.width)))
}

func (r *renderer) empty() {
	r.line("  (no data)")
}

// table writes rows with columns padded to their widest cell.
func (r *renderer) table(rows [][]string) {
	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			if cw := runewidth.StringWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	for _, row := range rows {
		var sb strings.Builder
		sb.WriteString("  ")
		for i, cell := range row {
			if i == len(row)-1 {
				sb.WriteString(cell)
				break
			}
			sb.WriteString(runewidth.FillRight(cell, widths[i]))
			sb.WriteString("  ")
		}
		r.line(strings.TrimRight(sb.String(), " "))
	}
}

func (r *renderer) weather(w *source.CurrentWeather) {
	r.section("WEATHER  " + w.City)
	r.line(fmt.Sprintf("  %d°F, feels like %d°F, %s", w.Temperature, w.FeelsLike, w.Description))
	r.line(fmt.Sprintf("  Humidity %d%%, wind %d mph", w.Humidity, w.WindSpeed))
}

func (r *renderer) forecast(days []source.DailyForecast) {
	r.section("FORECAST")
	if len(days) == 0 {
		r.empty()
		return
	}
	rows := make([][]string, 0, len(days))
	for _, d := range days {
		rows = append(rows, []string{d.Date, fmt.Sprintf("%d°", d.High), fmt.Sprintf("%d°", d.Low), d.Description})
	}
	r.table(rows)
}

func (r *renderer) hourly(hours []source.HourlyForecast) {
	r.section("NEXT HOURS")
	if len(hours) == 0 {
		r.empty()
		return
	}
	rows := make([][]string, 0, len(hours))
	for _, h := range hours {
		rows = append(rows, []string{h.Time, fmt.Sprintf("%d°F", h.Temperature), h.Description})
	}
	r.table(rows)
}

func (r *renderer) news(articles []source.Article) {
	r.section("NEWS")
	if len(articles) == 0 {
		r.empty()
		return
	}
	for i, a := range articles {
		r.line(fmt.Sprintf("  %d. %s", i+1, a.Title))
		meta := a.Source
		if a.PublishedAt != "" {
			meta += ", " + a.PublishedAt
		}
		if a.Mock {
			meta += ", sample"
		}
		r.line("     " + meta)
	}
}

func (r *renderer) quotes(title string, quotes map[string]source.StockQuote, order []string) {
	r.section(title)
	if len(quotes) == 0 {
		r.empty()
		return
	}

	rows := [][]string{{"SYMBOL", "PRICE", "CHANGE", "%", "VOLUME"}}
	for _, symbol := range orderedSymbols(quotes, order) {
		q := quotes[symbol]
		arrow := "▲"
		if !q.IsUp {
			arrow = "▼"
		}
		rows = append(rows, []string{
			q.Symbol,
			fmt.Sprintf("%.2f", q.Price),
			fmt.Sprintf("%s %+.2f", arrow, q.Change),
			fmt.Sprintf("%+.2f%%", q.ChangePercent),
			humanVolume(q.Volume),
		})
	}
	r.table(rows)
}

func (r *renderer) quote(q *source.Quote) {
	r.section("QUOTE OF THE DAY")
	r.line(fmt.Sprintf("  “%s”", q.Text))
	author := "    - " + q.Author
	if q.Mock {
		author += " (sample)"
	}
	r.line(author)
}

func (r *renderer) twitter(tweets []source.Tweet) {
	r.section("TRENDING ON X")
	if len(tweets) == 0 {
		r.empty()
		return
	}
	for _, t := range tweets {
		r.line(fmt.Sprintf("  @%s: %s", t.Author, singleLine(t.Text)))
		meta := fmt.Sprintf("     %d likes, %d reposts", t.Likes, t.Retweets)
		if t.Mock {
			meta += ", sample"
		}
		r.line(meta)
	}
}

func (r *renderer) reddit(posts []source.RedditPost) {
	r.section("TRENDING ON REDDIT")
	if len(posts) == 0 {
		r.empty()
		return
	}
	for _, p := range posts {
		r.line(fmt.Sprintf("  r/%s: %s", p.Subreddit, singleLine(p.Title)))
		meta := fmt.Sprintf("     %d points, %d comments", p.Score, p.NumComments)
		if p.Age != "" {
			meta += ", " + p.Age
		}
		if p.Mock {
			meta += ", sample"
		}
		r.line(meta)
	}
}

// orderedSymbols lists symbols from order first, then the rest alphabetically.
func orderedSymbols(quotes map[string]source.StockQuote, order []string) []string {
	out := make([]string, 0, len(quotes))
	seen := make(map[string]bool, len(quotes))
	for _, s := range order {
		if _, ok := quotes[s]; ok && !seen[s] {
			out = append(out, s)
			seen[s] = true
		}
	}

	var rest []string
	for s := range quotes {
		if !seen[s] {
			rest = append(rest, s)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

func humanVolume(v int64) string {
	switch {
	case v >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", float64(v)/1e9)
	case v >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(v)/1e6)
	case v >= 1_000:
		return fmt.Sprintf("%.1fK", float64(v)/1e3)
	}
	return fmt.Sprintf("%d", v)
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
