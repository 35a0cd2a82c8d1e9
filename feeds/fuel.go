package feeds

import (
	"context"
	"fmt"
	"html"
	"time"

	"family-dashboard/datasource"
	"family-dashboard/dlog"
	"family-dashboard/models"
)

// TextFuelFailed replaces the panel when the price page cannot be read
const TextFuelFailed = "油價連線失敗"

// FuelGrades are the octane grades shown, in order
var FuelGrades = []string{"92", "95", "98"}

// Fuel renders today's pump prices
type Fuel struct {
	source datasource.FuelSource
	logger *dlog.Logger
	now    func() time.Time
}

// NewFuel creates the fuel panel
func NewFuel(source datasource.FuelSource, logger *dlog.Logger) *Fuel {
	if logger == nil {
		logger = dlog.Discard()
	}
	return &Fuel{source: source, logger: logger, now: time.Now}
}

func (f *Fuel) Panel() models.Panel {
	return models.PanelFuel
}

// Fetch renders "92無鉛: a | 95無鉛: b | 98無鉛: c" with "--" for a grade the page lacks
func (f *Fuel) Fetch(ctx context.Context) models.FeedResult {
	now := f.now()
	if f.source == nil {
		return fallback(models.PanelFuel, now, TextFuelFailed, models.FallbackUnconfigured, nil)
	}

	prices, err := f.source.FuelPrices(ctx)
	if err != nil {
		f.logger.Printf("Error fetching fuel prices from %s: %v", f.source.Name(), err)
		return fallback(models.PanelFuel, now, TextFuelFailed, models.FallbackUpstreamFailure, err)
	}

	return result(models.PanelFuel, now, FormatFuel(prices))
}

// FormatFuel renders the price line
func FormatFuel(prices models.FuelPrices) string {
	text := ""
	for i, grade := range FuelGrades {
		price, ok := prices[grade]
		if !ok || price == "" {
			price = "--"
		}
		if i > 0 {
			text += " | "
		}
		text += fmt.Sprintf("%s無鉛: %s", grade, html.EscapeString(price))
	}
	return text
}
