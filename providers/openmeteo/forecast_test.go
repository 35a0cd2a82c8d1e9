package openmeteo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"family-dashboard/datasource"
)

const sampleForecast = `{
  "current": {"time": "2025-01-10T14:45", "interval": 900, "temperature_2m": 18.5, "weather_code": 3},
  "hourly": {
    "time": ["2025-01-10T13:00", "2025-01-10T14:00", "2025-01-10T15:00"],
    "precipitation_probability": [5, null, 60]
  }
}`

func TestForecast(t *testing.T) {
	t.Run("should request current and hourly fields", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			want := map[string]string{
				"latitude":      "24.51",
				"longitude":     "120.82",
				"current":       "temperature_2m,weather_code",
				"hourly":        "precipitation_probability",
				"timezone":      "auto",
				"forecast_days": "1",
			}
			for k, v := range want {
				if got := q.Get(k); got != v {
					t.Errorf("param %s: got `%s`, want `%s`", k, got, v)
				}
			}
			w.Write([]byte(sampleForecast))
		}))
		defer srv.Close()

		f, err := NewForecastClient(srv.URL).Forecast(context.Background(), 24.51, 120.82)
		if err != nil {
			t.Fatal(err)
		}
		if f.Temperature != 18.5 || f.WeatherCode != 3 {
			t.Errorf("unexpected current reading %+v", f)
		}
		if f.Time != "2025-01-10T14:45" {
			t.Errorf("got time `%s`", f.Time)
		}
		if len(f.Precipitation) != 3 || f.Precipitation[1] != -1 || f.Precipitation[2] != 60 {
			t.Errorf("unexpected precipitation %v", f.Precipitation)
		}
	})

	t.Run("should default a missing weather code to -1", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"current":{"time":"2025-01-10T14:00","temperature_2m":-2}}`))
		}))
		defer srv.Close()

		f, err := NewForecastClient(srv.URL).Forecast(context.Background(), 0, 0)
		if err != nil {
			t.Fatal(err)
		}
		if f.WeatherCode != -1 {
			t.Errorf("got code %d, want -1", f.WeatherCode)
		}
	})

	t.Run("should surface non-200 responses as status errors", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":true}`, http.StatusBadRequest)
		}))
		defer srv.Close()

		_, err := NewForecastClient(srv.URL).Forecast(context.Background(), 0, 0)
		if !datasource.IsStatusError(err) {
			t.Errorf("got `%v`, want a status error", err)
		}
	})

	t.Run("should reject a payload without temperature", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"current":{}}`))
		}))
		defer srv.Close()

		if _, err := NewForecastClient(srv.URL).Forecast(context.Background(), 0, 0); err == nil {
			t.Error("expected error for missing temperature")
		}
	})
}
