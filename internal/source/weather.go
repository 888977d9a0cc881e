package source

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	openWeatherBaseURL = "https://api.openweathermap.org/data/2.5"

	// forecastStep is the spacing of the free-tier forecast feed.
	forecastStep    = 3 * time.Hour
	forecastMaxCnt  = 40
	forecastMaxDays = 7
)

// WeatherClient reads OpenWeatherMap and normalizes it to °F and mph.
type WeatherClient struct {
	api     *vendor
	apiKey  string
	baseURL string
}

// WeatherConfig holds configuration for the weather client.
type WeatherConfig struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// NewWeatherClient creates a new OpenWeatherMap client.
func NewWeatherClient(cfg WeatherConfig) *WeatherClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = openWeatherBaseURL
	}

	return &WeatherClient{
		api:     newVendor("openweather", cfg.HTTPClient, cfg.Timeout),
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
	}
}

type owmCondition struct {
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type owmCurrent struct {
	Name string `json:"name"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
	Weather []owmCondition `json:"weather"`
	Wind    struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

type owmForecast struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp    float64 `json:"temp"`
			TempMin float64 `json:"temp_min"`
			TempMax float64 `json:"temp_max"`
		} `json:"main"`
		Weather []owmCondition `json:"weather"`
	} `json:"list"`
	City struct {
		Name     string `json:"name"`
		Timezone int    `json:"timezone"`
	} `json:"city"`
}

// Current returns the present conditions for a city.
func (w *WeatherClient) Current(ctx context.Context, city string) (*CurrentWeather, error) {
	if w.apiKey == "" {
		return nil, fmt.Errorf("openweather: %w", ErrNoCredentials)
	}

	var payload owmCurrent
	if err := w.api.getJSON(ctx, w.baseURL+"/weather", w.query(city, 0), nil, &payload); err != nil {
		return nil, fmt.Errorf("fetch current weather for %s: %w", city, err)
	}
	if len(payload.Weather) == 0 {
		return nil, fmt.Errorf("current weather for %s: %w", city, ErrNoData)
	}

	return &CurrentWeather{
		City:        orDefault(payload.Name, city),
		Temperature: celsiusToFahrenheit(payload.Main.Temp),
		FeelsLike:   celsiusToFahrenheit(payload.Main.FeelsLike),
		Humidity:    int(math.Round(payload.Main.Humidity)),
		Description: payload.Weather[0].Description,
		Icon:        payload.Weather[0].Icon,
		WindSpeed:   metersPerSecondToMPH(payload.Wind.Speed),
	}, nil
}

// Forecast7Day returns up to seven daily summaries built from the 3-hour feed.
// The free feed covers about five days, so fewer entries are normal.
func (w *WeatherClient) Forecast7Day(ctx context.Context, city string) ([]DailyForecast, error) {
	fc, err := w.forecast(ctx, city, forecastMaxCnt)
	if err != nil {
		return nil, err
	}

	loc := time.FixedZone(fc.City.Name, fc.City.Timezone)

	var days []DailyForecast
	index := make(map[string]int)
	noonPicked := make(map[string]bool)

	for _, item := range fc.List {
		if len(item.Weather) == 0 {
			continue
		}
		ts := time.Unix(item.Dt, 0).In(loc)
		key := ts.Format("2006-01-02")

		i, ok := index[key]
		if !ok {
			if len(days) == forecastMaxDays {
				break
			}
			days = append(days, DailyForecast{
				Date:        ts.Format("Mon, Jan 02"),
				High:        celsiusToFahrenheit(item.Main.TempMax),
				Low:         celsiusToFahrenheit(item.Main.TempMin),
				Description: item.Weather[0].Description,
				Icon:        item.Weather[0].Icon,
			})
			index[key] = len(days) - 1
			noonPicked[key] = ts.Hour() >= 12
			continue
		}

		d := &days[i]
		if hi := celsiusToFahrenheit(item.Main.TempMax); hi > d.High {
			d.High = hi
		}
		if lo := celsiusToFahrenheit(item.Main.TempMin); lo < d.Low {
			d.Low = lo
		}
		// The first step at or after midday describes the day best.
		if !noonPicked[key] && ts.Hour() >= 12 {
			d.Description = item.Weather[0].Description
			d.Icon = item.Weather[0].Icon
			noonPicked[key] = true
		}
	}

	if days == nil {
		days = []DailyForecast{}
	}
	return days, nil
}

// Hourly returns the forecast steps covering the next hours.
func (w *WeatherClient) Hourly(ctx context.Context, city string, hours int) ([]HourlyForecast, error) {
	if hours <= 0 {
		hours = 24
	}
	steps := int(math.Ceil(float64(hours) / forecastStep.Hours()))
	if steps > forecastMaxCnt {
		steps = forecastMaxCnt
	}

	fc, err := w.forecast(ctx, city, steps)
	if err != nil {
		return nil, err
	}

	loc := time.FixedZone(fc.City.Name, fc.City.Timezone)

	out := make([]HourlyForecast, 0, len(fc.List))
	for _, item := range fc.List {
		if len(item.Weather) == 0 {
			continue
		}
		out = append(out, HourlyForecast{
			Time:        time.Unix(item.Dt, 0).In(loc).Format("Mon 03:04 PM"),
			Temperature: celsiusToFahrenheit(item.Main.Temp),
			Description: item.Weather[0].Description,
			Icon:        item.Weather[0].Icon,
		})
		if len(out) == steps {
			break
		}
	}
	return out, nil
}

func (w *WeatherClient) forecast(ctx context.Context, city string, cnt int) (*owmForecast, error) {
	if w.apiKey == "" {
		return nil, fmt.Errorf("openweather: %w", ErrNoCredentials)
	}

	var payload owmForecast
	if err := w.api.getJSON(ctx, w.baseURL+"/forecast", w.query(city, cnt), nil, &payload); err != nil {
		return nil, fmt.Errorf("fetch forecast for %s: %w", city, err)
	}
	return &payload, nil
}

func (w *WeatherClient) query(city string, cnt int) url.Values {
	values := url.Values{}
	values.Set("q", city)
	values.Set("appid", w.apiKey)
	values.Set("units", "metric")
	if cnt > 0 {
		values.Set("cnt", strconv.Itoa(cnt))
	}
	return values
}

func celsiusToFahrenheit(c float64) int {
	return int(math.Round(c*9/5 + 32))
}

func metersPerSecondToMPH(ms float64) int {
	return int(math.Round(ms * 2.236936))
}
