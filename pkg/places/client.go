// Package places adapts the Google Places API (New) text search and place
// details endpoints to the picker's data model.
package places

import (
	"bytes"
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

const defaultBaseURL = "https://places.googleapis.com/v1"

// searchFieldMask keeps the search response to exactly what resolution needs.
const searchFieldMask = "places.id,places.location"

// detailsFieldMask is the explicit field allowlist for detail fetches. The
// allowlist is the contract: cost stays bounded and the output shape stays
// predictable.
const detailsFieldMask = "id,formattedAddress,internationalPhoneNumber,websiteUri," +
	"rating,priceLevel,regularOpeningHours,photos,editorialSummary,businessStatus"

// Client resolves candidate names to places and fetches their details.
type Client interface {
	// Search finds the best-matching place for query near bias. A nil place
	// with nil error means no usable result (not a provider failure).
	Search(ctx context.Context, query string, bias model.Coordinate, radiusMeters float64) (*model.ResolvedPlace, error)

	// Details fetches the extended attributes of a resolved place. Missing
	// optional fields are normal and never an error.
	Details(ctx context.Context, placeID string) (*model.PlaceDetails, error)
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

// WithMaxPhotos caps how many photo URLs a detail fetch produces.
func WithMaxPhotos(n int) Option {
	return func(c *httpClient) {
		if n > 0 {
			c.maxPhotos = n
		}
	}
}

// WithPhotoBounds sets the maximum photo dimensions requested from the
// provider's media endpoint.
func WithPhotoBounds(width, height int) Option {
	return func(c *httpClient) {
		if width > 0 {
			c.photoMaxWidth = width
		}
		if height > 0 {
			c.photoMaxHeight = height
		}
	}
}

type httpClient struct {
	apiKey         string
	baseURL        string
	http           *http.Client
	limiter        *rate.Limiter
	retry          resilience.RetryConfig
	maxPhotos      int
	photoMaxWidth  int
	photoMaxHeight int
}

// NewClient creates a Places API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter:        rate.NewLimiter(10, 10),
		retry:          resilience.DefaultRetryConfig(),
		maxPhotos:      10,
		photoMaxWidth:  800,
		photoMaxHeight: 600,
	}
	for _, o := range opts {
		o(c)
	}
	c.retry.OnRetry = resilience.RetryLogger("places", "request")
	return c
}

type searchRequest struct {
	TextQuery    string        `json:"textQuery"`
	LocationBias *locationBias `json:"locationBias,omitempty"`
	PageSize     int           `json:"pageSize,omitempty"`
}

type locationBias struct {
	Circle circle `json:"circle"`
}

type circle struct {
	Center latLng  `json:"center"`
	Radius float64 `json:"radius"`
}

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type searchResponse struct {
	Places []struct {
		ID       string  `json:"id"`
		Location *latLng `json:"location"`
	} `json:"places"`
}

// Search issues a single location-biased text search and takes the first
// result. The catalog is curated and names are rarely ambiguous within the
// metro area, so first-result is the accepted heuristic; empty results are
// not retried.
func (c *httpClient) Search(ctx context.Context, query string, bias model.Coordinate, radiusMeters float64) (*model.ResolvedPlace, error) {
	body, err := json.Marshal(searchRequest{
		TextQuery: query,
		LocationBias: &locationBias{
			Circle: circle{
				Center: latLng{Latitude: bias.Lat, Longitude: bias.Lng},
				Radius: radiusMeters,
			},
		},
		PageSize: 1,
	})
	if err != nil {
		return nil, eris.Wrap(err, "places: marshal search request")
	}

	var result searchResponse
	if err := c.do(ctx, http.MethodPost, "/places:searchText", searchFieldMask, body, &result); err != nil {
		return nil, eris.Wrap(err, "places: search")
	}

	if len(result.Places) == 0 {
		return nil, nil
	}
	first := result.Places[0]
	if first.ID == "" || first.Location == nil {
		// A result without an ID or coordinate is unusable; same as no match.
		return nil, nil
	}

	return &model.ResolvedPlace{
		PlaceID: first.ID,
		Coordinate: model.Coordinate{
			Lat: first.Location.Latitude,
			Lng: first.Location.Longitude,
		},
	}, nil
}

type detailsResponse struct {
	ID                       string   `json:"id"`
	FormattedAddress         string   `json:"formattedAddress"`
	InternationalPhoneNumber string   `json:"internationalPhoneNumber"`
	WebsiteURI               string   `json:"websiteUri"`
	Rating                   *float64 `json:"rating"`
	PriceLevel               string   `json:"priceLevel"`
	BusinessStatus           string   `json:"businessStatus"`
	RegularOpeningHours      *struct {
		Periods []struct {
			Open  *dayTime `json:"open"`
			Close *dayTime `json:"close"`
		} `json:"periods"`
		WeekdayDescriptions []string `json:"weekdayDescriptions"`
	} `json:"regularOpeningHours"`
	Photos []struct {
		Name string `json:"name"`
	} `json:"photos"`
	EditorialSummary *struct {
		Text string `json:"text"`
	} `json:"editorialSummary"`
}

type dayTime struct {
	Day    int `json:"day"`
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// Details fetches the allowlisted field set and maps it to PlaceDetails.
// Whatever subset the provider returns is passed along as-is.
func (c *httpClient) Details(ctx context.Context, placeID string) (*model.PlaceDetails, error) {
	var result detailsResponse
	if err := c.do(ctx, http.MethodGet, "/places/"+url.PathEscape(placeID), detailsFieldMask, nil, &result); err != nil {
		return nil, eris.Wrap(err, "places: details")
	}

	details := &model.PlaceDetails{
		Address:        result.FormattedAddress,
		Phone:          NormalizePhone(result.InternationalPhoneNumber),
		Website:        result.WebsiteURI,
		Rating:         result.Rating,
		PriceLevel:     NormalizePriceLevel(result.PriceLevel),
		BusinessStatus: model.BusinessStatus(result.BusinessStatus),
	}

	if result.RegularOpeningHours != nil {
		details.WeeklyHours = result.RegularOpeningHours.WeekdayDescriptions
		for _, p := range result.RegularOpeningHours.Periods {
			if p.Open == nil {
				continue
			}
			period := model.OpeningPeriod{
				Day:  p.Open.Day,
				Open: p.Open.Hour*100 + p.Open.Minute,
				// No close means open around the clock.
				Close: 2400,
			}
			if p.Close != nil {
				period.Close = p.Close.Hour*100 + p.Close.Minute
			}
			details.Periods = append(details.Periods, period)
		}
	}

	for i, p := range result.Photos {
		if i >= c.maxPhotos {
			break
		}
		if p.Name == "" {
			continue
		}
		details.PhotoURLs = append(details.PhotoURLs, c.photoURL(p.Name))
	}

	if result.EditorialSummary != nil {
		details.EditorialSummary = result.EditorialSummary.Text
	}

	return details, nil
}

// photoURL converts an opaque photo handle into a directly usable media URL
// with bounded dimensions.
func (c *httpClient) photoURL(name string) string {
	return fmt.Sprintf("%s/%s/media?maxWidthPx=%d&maxHeightPx=%d&key=%s",
		c.baseURL, name, c.photoMaxWidth, c.photoMaxHeight, url.QueryEscape(c.apiKey))
}

func (c *httpClient) do(ctx context.Context, method, path, fieldMask string, body []byte, out any) error {
	respBody, err := resilience.DoVal(ctx, c.retry, func(ctx context.Context) ([]byte, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "rate limit")
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return nil, eris.Wrap(err, "create request")
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Goog-Api-Key", c.apiKey)
		req.Header.Set("X-Goog-FieldMask", fieldMask)

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, eris.Wrap(err, "send request")
		}
		defer resp.Body.Close() //nolint:errcheck

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, eris.Wrap(err, "read response")
		}

		if resp.StatusCode != http.StatusOK {
			err := eris.Errorf("unexpected status %d: %s", resp.StatusCode, string(data))
			if resilience.IsTransientHTTPStatus(resp.StatusCode) {
				return nil, resilience.NewTransientError(err, resp.StatusCode)
			}
			return nil, err
		}

		return data, nil
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return eris.Wrap(err, "unmarshal response")
	}
	return nil
}
