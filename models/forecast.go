package models

// Forecast is the slice of an hourly forecast the weather panel needs
type Forecast struct {
	Temperature   float64   `json:"temperature"` // in Celsius
	WeatherCode   int       `json:"weatherCode"` // WMO code, -1 when absent
	Time          string    `json:"time"`        // local time of the current reading, 2006-01-02T15:04
	HourlyTimes   []string  `json:"hourlyTimes"`
	Precipitation []float64 `json:"precipitation"` // probability in percent, aligned with HourlyTimes
}
