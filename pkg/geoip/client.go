// Package geoip approximates the caller's coordinate from their public IP.
// It is the last-resort location source when the consumer supplies nothing.
package geoip

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/picker-cli/internal/model"
)

const defaultBaseURL = "http://ip-api.com/json/"

// ErrDenied indicates the provider refused the lookup (quota or blocked).
var ErrDenied = eris.New("geoip: lookup denied")

// Client resolves the caller's approximate coordinate.
type Client interface {
	Locate(ctx context.Context) (*model.Coordinate, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default lookup endpoint.
func WithBaseURL(u string) Option {
	return func(c *httpClient) { c.baseURL = u }
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.http = hc }
}

// WithTimeout sets the lookup timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) { c.http.Timeout = d }
}

type httpClient struct {
	baseURL string
	http    *http.Client
}

// NewClient creates an IP geolocation client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type lookupResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Locate performs a single lookup of the caller's own IP.
func (c *httpClient) Locate(ctx context.Context) (*model.Coordinate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?fields=status,message,lat,lon", nil)
	if err != nil {
		return nil, eris.Wrap(err, "geoip: build request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "geoip: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests {
		return nil, eris.Wrapf(ErrDenied, "status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("geoip: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "geoip: read body")
	}

	var lr lookupResponse
	if err := json.Unmarshal(body, &lr); err != nil {
		return nil, eris.Wrap(err, "geoip: parse response")
	}

	if lr.Status != "success" {
		return nil, eris.Errorf("geoip: lookup failed: %s", lr.Message)
	}

	return &model.Coordinate{Lat: lr.Lat, Lng: lr.Lon}, nil
}
