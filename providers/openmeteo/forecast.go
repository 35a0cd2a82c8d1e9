package openmeteo

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"family-dashboard/datasource"
	"family-dashboard/models"

	"github.com/pkg/errors"
)

// DefaultBaseURL is the public Open-Meteo API root
const DefaultBaseURL = "https://api.open-meteo.com/v1"

// ForecastClient fetches current conditions and hourly rain probability from Open-Meteo
type ForecastClient struct {
	baseURL    string
	httpClient *http.Client
}

// Ensure ForecastClient implements datasource.Forecaster
var _ datasource.Forecaster = (*ForecastClient)(nil)

// NewForecastClient creates a new forecast client
func NewForecastClient(baseURL string) *ForecastClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &ForecastClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// Name returns the provider name
func (c *ForecastClient) Name() string {
	return "OpenMeteo"
}

// forecastResponse represents the API response structure
type forecastResponse struct {
	Current struct {
		Time        string   `json:"time"`
		Temperature *float64 `json:"temperature_2m"`
		WeatherCode *int     `json:"weather_code"`
	} `json:"current"`
	Hourly struct {
		Time                     []string   `json:"time"`
		PrecipitationProbability []*float64 `json:"precipitation_probability"`
	} `json:"hourly"`
}

// Forecast fetches today's forecast for a coordinate
func (c *ForecastClient) Forecast(ctx context.Context, lat, lon float64) (models.Forecast, error) {
	params := url.Values{}
	params.Add("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Add("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Add("current", "temperature_2m,weather_code")
	params.Add("hourly", "precipitation_probability")
	params.Add("timezone", "auto")
	params.Add("forecast_days", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/forecast?"+params.Encode(), nil)
	if err != nil {
		return models.Forecast{}, errors.Wrap(err, "failed to create request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.Forecast{}, errors.Wrap(err, "failed to execute request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Forecast{}, errors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode != http.StatusOK {
		return models.Forecast{}, &datasource.StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var response forecastResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return models.Forecast{}, errors.Wrap(err, "failed to parse response")
	}

	if response.Current.Temperature == nil {
		return models.Forecast{}, errors.Wrap(datasource.ErrNotFound, "response has no current temperature")
	}

	forecast := models.Forecast{
		Temperature:   *response.Current.Temperature,
		WeatherCode:   -1,
		Time:          response.Current.Time,
		HourlyTimes:   response.Hourly.Time,
		Precipitation: make([]float64, len(response.Hourly.PrecipitationProbability)),
	}
	if response.Current.WeatherCode != nil {
		forecast.WeatherCode = *response.Current.WeatherCode
	}

	// Missing hourly samples are kept as -1 so indexes still line up with HourlyTimes
	for i, p := range response.Hourly.PrecipitationProbability {
		if p == nil {
			forecast.Precipitation[i] = -1
			continue
		}
		forecast.Precipitation[i] = *p
	}

	return forecast, nil
}
