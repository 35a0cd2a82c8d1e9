package bankoftaiwan

import (
	"context"
	"encoding/csv"
	"io"
	"mime"
	"net/http"
	"regexp"
	"strings"
	"time"

	"family-dashboard/datasource"
	"family-dashboard/models"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultURL is the daily board rate CSV download
const DefaultURL = "https://rate.bot.com.tw/xrt/flcsv/0/day"

// Column layout of the board CSV: code, "本行買入", cash buy, spot buy, seven
// forward columns, "本行賣出", cash sell, spot sell, ...
const (
	colCode     = 0
	colCashBuy  = 2
	colSpotBuy  = 3
	colCashSell = 12
	colSpotSell = 13
	minColumns  = 14
)

var stampPattern = regexp.MustCompile(`@(\d{12})`)

var taipei = time.FixedZone("CST", 8*60*60)

// RateClient downloads the Bank of Taiwan board rates
type RateClient struct {
	url        string
	httpClient *http.Client
}

// Ensure RateClient implements datasource.RateSource
var _ datasource.RateSource = (*RateClient)(nil)

// NewRateClient creates a new board rate client
func NewRateClient(url string) *RateClient {
	if url == "" {
		url = DefaultURL
	}
	return &RateClient{
		url: url,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Name returns the provider name
func (c *RateClient) Name() string {
	return "BankOfTaiwan"
}

// Rates downloads and parses today's board
func (c *RateClient) Rates(ctx context.Context) ([]models.ExchangeRate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &datasource.StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	quoted := quoteTime(resp.Header.Get("Content-Disposition"))
	return ParseBoard(resp.Body, quoted)
}

// ParseBoard parses the board CSV. A leading UTF-8 byte order mark is dropped.
func ParseBoard(r io.Reader, quoted time.Time) ([]models.ExchangeRate, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse board csv")
	}

	var rates []models.ExchangeRate
	for i, record := range records {
		// Header row
		if i == 0 {
			continue
		}
		if len(record) < minColumns {
			continue
		}
		rates = append(rates, models.ExchangeRate{
			Currency: strings.TrimSpace(record[colCode]),
			Time:     quoted,
			CashBuy:  strings.TrimSpace(record[colCashBuy]),
			CashSell: strings.TrimSpace(record[colCashSell]),
			SpotBuy:  strings.TrimSpace(record[colSpotBuy]),
			SpotSell: strings.TrimSpace(record[colSpotSell]),
		})
	}

	if len(rates) == 0 {
		return nil, errors.Wrap(datasource.ErrNotFound, "board csv has no rate rows")
	}
	return rates, nil
}

// quoteTime reads the board time from a filename like ExchangeRate@202501101530.csv
func quoteTime(disposition string) time.Time {
	if _, params, err := mime.ParseMediaType(disposition); err == nil {
		disposition = params["filename"]
	}
	if m := stampPattern.FindStringSubmatch(disposition); m != nil {
		if t, err := time.ParseInLocation("200601021504", m[1], taipei); err == nil {
			return t
		}
	}
	return time.Now().In(taipei)
}
