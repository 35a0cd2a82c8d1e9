package googlemaps

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

// DefaultBaseURL is the public Maps web service root
const DefaultBaseURL = "https://maps.googleapis.com/maps/api"

// DistanceMatrixClient queries the Distance Matrix API for driving times
type DistanceMatrixClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Ensure DistanceMatrixClient implements datasource.Router
var _ datasource.Router = (*DistanceMatrixClient)(nil)

// NewDistanceMatrixClient creates a new client. An empty baseURL selects the public API.
func NewDistanceMatrixClient(apiKey, baseURL string) *DistanceMatrixClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &DistanceMatrixClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Name returns the provider name
func (c *DistanceMatrixClient) Name() string {
	return "GoogleMaps"
}

type distanceMatrixResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Rows         []struct {
		Elements []models.RouteElement `json:"elements"`
	} `json:"rows"`
}

// Route asks for a traffic-aware driving estimate for one origin/destination pair
func (c *DistanceMatrixClient) Route(ctx context.Context, req datasource.RouteRequest) (models.RouteElement, error) {
	departure := "now"
	if !req.DepartureTime.IsZero() {
		departure = strconv.FormatInt(req.DepartureTime.Unix(), 10)
	}

	// Build URL
	params := url.Values{}
	params.Add("origins", req.Origin)
	params.Add("destinations", req.Destination)
	params.Add("mode", "driving")
	params.Add("departure_time", departure)
	if req.Language != "" {
		params.Add("language", req.Language)
	}
	params.Add("key", c.apiKey)
	endpoint := c.baseURL + "/distancematrix/json?" + params.Encode()

	// Create request
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return models.RouteElement{}, errors.Wrap(err, "failed to create request")
	}

	// Execute request
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return models.RouteElement{}, errors.Wrap(err, "failed to execute request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.RouteElement{}, errors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode != http.StatusOK {
		return models.RouteElement{}, &datasource.StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var response distanceMatrixResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return models.RouteElement{}, errors.Wrap(err, "failed to parse response")
	}

	if response.Status != "OK" {
		return models.RouteElement{}, errors.Errorf("distance matrix status %s: %s", response.Status, response.ErrorMessage)
	}

	if len(response.Rows) == 0 || len(response.Rows[0].Elements) == 0 {
		return models.RouteElement{}, errors.Wrap(datasource.ErrNotFound, "distance matrix returned no elements")
	}

	// Element level statuses such as ZERO_RESULTS are passed through; callers
	// fall back on the missing duration fields.
	return response.Rows[0].Elements[0], nil
}
