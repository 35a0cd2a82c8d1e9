package fuelprice

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"family-dashboard/datasource"
	"family-dashboard/models"

	"github.com/pkg/errors"
	"golang.org/x/net/html"
)

// DefaultURL is the pump price page that lists the CPC prices
const DefaultURL = "https://gas.goodlife.tw/"

// Grades are the octane grades read from the page, in display order
var Grades = []string{"92", "95", "98"}

// PageClient scrapes pump prices from an HTML page
type PageClient struct {
	url        string
	userAgent  string
	httpClient *http.Client
}

// Ensure PageClient implements datasource.FuelSource
var _ datasource.FuelSource = (*PageClient)(nil)

// NewPageClient creates a new page scraper
func NewPageClient(url, userAgent string) *PageClient {
	if url == "" {
		url = DefaultURL
	}
	if userAgent == "" {
		userAgent = "Mozilla/5.0"
	}
	return &PageClient{
		url:       url,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Name returns the provider name
func (c *PageClient) Name() string {
	return "GoodLife"
}

// FuelPrices downloads the page and extracts the CPC prices
func (c *PageClient) FuelPrices(ctx context.Context) (models.FuelPrices, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &datasource.StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return ParsePrices(resp.Body)
}

// ParsePrices reads the list items of the div#cpc container. Each item whose
// text mentions a grade contributes the text after its last colon.
func ParsePrices(r io.Reader) (models.FuelPrices, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse page")
	}

	container := findByID(doc, "div", "cpc")
	if container == nil {
		return nil, errors.Wrap(datasource.ErrNotFound, "price container div#cpc missing")
	}

	colons := strings.NewReplacer("：", ":")
	prices := models.FuelPrices{}
	for _, li := range findAll(container, "li") {
		text := colons.Replace(strings.TrimSpace(textContent(li)))
		parts := strings.Split(text, ":")
		price := strings.TrimSpace(parts[len(parts)-1])
		for _, grade := range Grades {
			if strings.Contains(text, grade) {
				prices[grade] = price
			}
		}
	}
	return prices, nil
}

func findByID(n *html.Node, tag, id string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		for _, a := range n.Attr {
			if a.Key == "id" && a.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, tag, id); found != nil {
			return found
		}
	}
	return nil
}

func findAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
