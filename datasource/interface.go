package datasource

import (
	"context"
	"time"

	"family-dashboard/models"
)

// RouteRequest describes a single origin to destination driving query
type RouteRequest struct {
	Origin        string
	Destination   string
	DepartureTime time.Time // zero means "now"
	Language      string
}

// Router is a distance/duration provider for one ordered address pair
type Router interface {
	// Route returns the only element of a one-by-one distance matrix
	Route(ctx context.Context, req RouteRequest) (models.RouteElement, error)

	// Name returns the provider's name
	Name() string
}

// Forecaster returns the current reading and today's hourly precipitation for a coordinate
type Forecaster interface {
	Forecast(ctx context.Context, lat, lon float64) (models.Forecast, error)
	Name() string
}

// RateSource returns the board rates published by a bank
type RateSource interface {
	Rates(ctx context.Context) ([]models.ExchangeRate, error)
	Name() string
}

// FuelSource returns today's pump prices by octane grade
type FuelSource interface {
	FuelPrices(ctx context.Context) (models.FuelPrices, error)
	Name() string
}
