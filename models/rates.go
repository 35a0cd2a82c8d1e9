package models

import (
	"time"
)

// ExchangeRate is one currency row of a bank's board rate table.
// Quote ordering follows the board: time, cash buy, cash sell, spot buy, spot sell.
type ExchangeRate struct {
	Currency string    `json:"currency"`
	Time     time.Time `json:"time"`
	CashBuy  string    `json:"cashBuy"`
	CashSell string    `json:"cashSell"`
	SpotBuy  string    `json:"spotBuy"`
	SpotSell string    `json:"spotSell"`
}

// Quote returns the rate in board tuple order.
func (r ExchangeRate) Quote() [5]string {
	return [5]string{r.Time.Format("2006/01/02 15:04"), r.CashBuy, r.CashSell, r.SpotBuy, r.SpotSell}
}

// FuelPrices maps an octane grade ("92", "95", "98") to its listed price
type FuelPrices map[string]string
