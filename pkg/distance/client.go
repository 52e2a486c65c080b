// Package distance estimates drive distance and duration between two points
// via the Google Distance Matrix API.
package distance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/picker-cli/internal/model"
	"github.com/sells-group/picker-cli/internal/resilience"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/distancematrix/json"

// Mode is a travel mode accepted by the provider.
type Mode string

// ModeDriving is the only mode the picker uses.
const ModeDriving Mode = "driving"

// Estimate is a drive estimate between two coordinates.
type Estimate struct {
	Meters       int
	DurationText string
}

// Client computes a single-origin, single-destination drive estimate.
type Client interface {
	Estimate(ctx context.Context, origin, dest model.Coordinate, mode Mode) (*Estimate, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) { c.baseURL = u }
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.http = hc }
}

// WithRateLimit sets the requests-per-second limit for API calls.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) { c.limiter = rate.NewLimiter(rate.Limit(rps), int(rps)) }
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	retry   resilience.RetryConfig
}

// NewClient creates a Distance Matrix client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: rate.NewLimiter(10, 10),
		retry:   resilience.DefaultRetryConfig(),
	}
	for _, o := range opts {
		o(c)
	}
	c.retry.OnRetry = resilience.RetryLogger("distance", "matrix")
	return c
}

// matrixResponse is the JSON response from the Distance Matrix API.
type matrixResponse struct {
	Status string `json:"status"`
	Rows   []struct {
		Elements []struct {
			Status   string `json:"status"`
			Distance struct {
				Value int    `json:"value"`
				Text  string `json:"text"`
			} `json:"distance"`
			Duration struct {
				Value int    `json:"value"`
				Text  string `json:"text"`
			} `json:"duration"`
		} `json:"elements"`
	} `json:"rows"`
}

// Estimate calls the matrix endpoint with one origin and one destination and
// maps any non-OK status to an error. The provider's top-level and
// per-element statuses are checked separately; either can fail.
func (c *httpClient) Estimate(ctx context.Context, origin, dest model.Coordinate, mode Mode) (*Estimate, error) {
	if mode == "" {
		mode = ModeDriving
	}

	params := url.Values{
		"origins":      {fmt.Sprintf("%f,%f", origin.Lat, origin.Lng)},
		"destinations": {fmt.Sprintf("%f,%f", dest.Lat, dest.Lng)},
		"mode":         {string(mode)},
		"key":          {c.apiKey},
	}
	reqURL := c.baseURL + "?" + params.Encode()

	result, err := resilience.DoVal(ctx, c.retry, func(ctx context.Context) (*matrixResponse, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "distance: rate limit")
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, eris.Wrap(err, "distance: build request")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, eris.Wrap(err, "distance: request")
		}
		defer resp.Body.Close() //nolint:errcheck

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, eris.Wrap(err, "distance: read body")
		}

		if resp.StatusCode != http.StatusOK {
			err := eris.Errorf("distance: unexpected status %d", resp.StatusCode)
			if resilience.IsTransientHTTPStatus(resp.StatusCode) {
				return nil, resilience.NewTransientError(err, resp.StatusCode)
			}
			return nil, err
		}

		var mr matrixResponse
		if err := json.Unmarshal(body, &mr); err != nil {
			return nil, eris.Wrap(err, "distance: parse response")
		}
		return &mr, nil
	})
	if err != nil {
		return nil, err
	}

	if result.Status != "OK" {
		return nil, eris.Errorf("distance: provider status %s", result.Status)
	}
	if len(result.Rows) == 0 || len(result.Rows[0].Elements) == 0 {
		return nil, eris.New("distance: empty matrix")
	}

	element := result.Rows[0].Elements[0]
	if element.Status != "OK" {
		return nil, eris.Errorf("distance: element status %s", element.Status)
	}

	return &Estimate{
		Meters:       element.Distance.Value,
		DurationText: element.Duration.Text,
	}, nil
}
