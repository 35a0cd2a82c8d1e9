package feeds

import (
	"context"
	"html"
	"strings"
	"time"

	"family-dashboard/datasource"
	"family-dashboard/dlog"
	"family-dashboard/models"

	"github.com/pkg/errors"
)

// Currency panel texts
const (
	TextCurrencyFailed  = "匯率讀取失敗"
	TextCurrencyMissing = "⚠️ 匯率來源未設定"
)

// Currency renders the cash-sell rate of each configured currency
type Currency struct {
	source     datasource.RateSource
	currencies []datasource.Currency
	logger     *dlog.Logger
	now        func() time.Time
}

// NewCurrency creates the currency panel. A nil source reports a missing dependency.
func NewCurrency(source datasource.RateSource, currencies []datasource.Currency, logger *dlog.Logger) *Currency {
	if logger == nil {
		logger = dlog.Discard()
	}
	return &Currency{
		source:     source,
		currencies: currencies,
		logger:     logger,
		now:        time.Now,
	}
}

func (c *Currency) Panel() models.Panel {
	return models.PanelCurrency
}

// Fetch renders "label : rate" lines joined by <br>. A missing currency fails the whole panel.
func (c *Currency) Fetch(ctx context.Context) models.FeedResult {
	now := c.now()
	if c.source == nil {
		return fallback(models.PanelCurrency, now, TextCurrencyMissing, models.FallbackDependency, nil)
	}

	rates, err := c.source.Rates(ctx)
	if err != nil {
		c.logger.Printf("Error fetching rates from %s: %v", c.source.Name(), err)
		return fallback(models.PanelCurrency, now, TextCurrencyFailed, models.FallbackUpstreamFailure, err)
	}

	byCode := make(map[string]models.ExchangeRate, len(rates))
	for _, r := range rates {
		byCode[r.Currency] = r
	}

	lines := make([]string, 0, len(c.currencies))
	for _, cur := range c.currencies {
		rate, ok := byCode[cur.Code]
		if !ok {
			err := errors.Wrapf(datasource.ErrNotFound, "currency %s", cur.Code)
			c.logger.Printf("Error reading rates from %s: %v", c.source.Name(), err)
			return fallback(models.PanelCurrency, now, TextCurrencyFailed, models.FallbackUpstreamFailure, err)
		}
		lines = append(lines, cur.Label+" : "+html.EscapeString(rate.Quote()[2]))
	}

	c.logger.Debugf("rates from %s: %d currencies", c.source.Name(), len(lines))
	return result(models.PanelCurrency, now, strings.Join(lines, "<br>"))
}
