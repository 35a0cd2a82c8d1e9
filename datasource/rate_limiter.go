package datasource

import (
	"context"
	"fmt"

	"family-dashboard/models"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// RateLimitedRouter wraps a Router with rate limiting
type RateLimitedRouter struct {
	router  Router
	limiter *rate.Limiter
	name    string
}

// NewRateLimitedRouter creates a new rate limited router.
// rps is the maximum requests per second allowed and burst the maximum burst size.
func NewRateLimitedRouter(router Router, rps float64, burst int) *RateLimitedRouter {
	return &RateLimitedRouter{
		router:  router,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		name:    fmt.Sprintf("%s [Rate Limited]", router.Name()),
	}
}

// Route waits for the limiter and forwards to the underlying router
func (r *RateLimitedRouter) Route(ctx context.Context, req RouteRequest) (models.RouteElement, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return models.RouteElement{}, errors.Wrap(err, "rate limit wait canceled")
	}
	return r.router.Route(ctx, req)
}

// Name returns the router name
func (r *RateLimitedRouter) Name() string {
	return r.name
}

// RateLimitedForecaster wraps a Forecaster with rate limiting
type RateLimitedForecaster struct {
	forecaster Forecaster
	limiter    *rate.Limiter
	name       string
}

// NewRateLimitedForecaster creates a new rate limited forecaster
func NewRateLimitedForecaster(forecaster Forecaster, rps float64, burst int) *RateLimitedForecaster {
	return &RateLimitedForecaster{
		forecaster: forecaster,
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		name:       fmt.Sprintf("%s [Rate Limited]", forecaster.Name()),
	}
}

// Forecast waits for the limiter and forwards to the underlying forecaster
func (r *RateLimitedForecaster) Forecast(ctx context.Context, lat, lon float64) (models.Forecast, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return models.Forecast{}, errors.Wrap(err, "rate limit wait canceled")
	}
	return r.forecaster.Forecast(ctx, lat, lon)
}

// Name returns the forecaster name
func (r *RateLimitedForecaster) Name() string {
	return r.name
}

// Verify that our rate limited types implement the required interfaces
var (
	_ Router     = (*RateLimitedRouter)(nil)
	_ Forecaster = (*RateLimitedForecaster)(nil)
)
