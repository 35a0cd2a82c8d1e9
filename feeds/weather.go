package feeds

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"family-dashboard/datasource"
	"family-dashboard/dlog"
	"family-dashboard/models"
)

// TextWeatherEmpty is shown when no site produced a line
const TextWeatherEmpty = "暫無氣象資料"

// RainWindow is the number of hourly samples, from the current hour on, whose
// maximum decides the rain icon.
const RainWindow = 5

// Icons
const (
	IconSunny   = "☀️"
	IconCloudy  = "☁️"
	IconShowers = "🌦️"
	IconRain    = "☔"
	IconSnow    = "❄️"
	IconThunder = "⛈️"
)

var (
	snowCodes    = map[int]bool{56: true, 57: true, 66: true, 67: true, 71: true, 73: true, 75: true, 77: true, 85: true, 86: true}
	thunderCodes = map[int]bool{95: true, 96: true, 99: true}
)

// Weather renders temperature and rain outlook for each site
type Weather struct {
	forecaster datasource.Forecaster
	sites      []models.WeatherSite
	logger     *dlog.Logger
	now        func() time.Time
}

// NewWeather creates the weather panel
func NewWeather(forecaster datasource.Forecaster, sites []models.WeatherSite, logger *dlog.Logger) *Weather {
	if logger == nil {
		logger = dlog.Discard()
	}
	return &Weather{
		forecaster: forecaster,
		sites:      sites,
		logger:     logger,
		now:        time.Now,
	}
}

func (w *Weather) Panel() models.Panel {
	return models.PanelWeather
}

// Fetch queries every site concurrently and renders one line per site in
// configuration order. A site that fails still gets a line: "N/A" when the
// upstream answered with a non-200 status, "Err" for anything else.
func (w *Weather) Fetch(ctx context.Context) models.FeedResult {
	now := w.now()
	if len(w.sites) == 0 {
		return fallback(models.PanelWeather, now, TextWeatherEmpty, models.FallbackEmpty, nil)
	}
	if w.forecaster == nil {
		return fallback(models.PanelWeather, now, TextWeatherEmpty, models.FallbackUnconfigured, nil)
	}

	lines := make([]string, len(w.sites))
	errs := make([]error, len(w.sites))

	var wg sync.WaitGroup
	for i, site := range w.sites {
		wg.Add(1)
		go func(i int, site models.WeatherSite) {
			defer wg.Done()
			lines[i], errs[i] = w.siteLine(ctx, site)
		}(i, site)
	}
	wg.Wait()

	var firstErr error
	failed := 0
	for i, err := range errs {
		if err != nil {
			w.logger.Printf("Error fetching weather for %s from %s: %v", w.sites[i].Name, w.forecaster.Name(), err)
			failed++
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	text := strings.Join(lines, "")
	if failed == len(w.sites) {
		return fallback(models.PanelWeather, now, text, models.FallbackUpstreamFailure, firstErr)
	}
	return result(models.PanelWeather, now, text)
}

func (w *Weather) siteLine(ctx context.Context, site models.WeatherSite) (string, error) {
	forecast, err := w.forecaster.Forecast(ctx, site.Latitude, site.Longitude)
	if err != nil {
		if datasource.IsStatusError(err) {
			return site.Name + ": N/A<br>", err
		}
		return site.Name + ": Err<br>", err
	}
	return FormatSite(site.Name, forecast), nil
}

// FormatSite renders "name: 18.5°C (☁️35%)<br>". The rain part is left out
// when the current hour is missing from the hourly series or a sample in the
// window is null.
func FormatSite(name string, f models.Forecast) string {
	rain := ""
	if p, ok := RainProbability(f); ok {
		rain = fmt.Sprintf(" (%s%s%%)", Classify(f.WeatherCode, f.Temperature, p), strconv.FormatFloat(p, 'f', -1, 64))
	}
	return fmt.Sprintf("%s: %s°C%s<br>", padName(name), formatTemperature(f.Temperature), rain)
}

// RainProbability returns the maximum precipitation probability over the
// RainWindow hourly samples starting at the hour of the current reading.
func RainProbability(f models.Forecast) (float64, bool) {
	current, err := time.Parse("2006-01-02T15:04", f.Time)
	if err != nil {
		current, err = time.Parse("2006-01-02T15:04:05", f.Time)
		if err != nil {
			return 0, false
		}
	}
	search := current.Truncate(time.Hour).Format("2006-01-02T15:04")

	idx := -1
	for i, t := range f.HourlyTimes {
		if t == search {
			idx = i
			break
		}
	}
	if idx < 0 || idx >= len(f.Precipitation) {
		return 0, false
	}

	end := idx + RainWindow
	if end > len(f.Precipitation) {
		end = len(f.Precipitation)
	}

	max := -1.0
	for _, p := range f.Precipitation[idx:end] {
		if p < 0 {
			return 0, false
		}
		if p > max {
			max = p
		}
	}
	return max, true
}

// Classify picks the weather icon. Snow and thunder codes win outright;
// otherwise the rain probability decides, with freezing temperatures turning
// likely rain into snow.
func Classify(code int, temperature, probability float64) string {
	switch {
	case snowCodes[code]:
		return IconSnow
	case thunderCodes[code]:
		return IconThunder
	case probability <= 10:
		return IconSunny
	case probability <= 40:
		return IconCloudy
	case temperature <= 0:
		return IconSnow
	case probability <= 70:
		return IconShowers
	default:
		return IconRain
	}
}

// formatTemperature keeps at least one decimal so whole degrees read "23.0"
func formatTemperature(t float64) string {
	s := strconv.FormatFloat(t, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
