package maps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/zestcart/zestcart-backend/pkg/errors"
)

const (
	defaultBaseURL             = "https://maps.googleapis.com/maps/api"
	requestBodyReadLimit int64 = 1024
)

var (
	errAPIKeyRequired = errors.New("google maps api key is required")
)

// Client wraps the Google Distance Matrix API used for delivery quotes.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured Maps base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the Google Maps client given an API key.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	trimmedKey := strings.TrimSpace(apiKey)
	if trimmedKey == "" {
		return nil, errAPIKeyRequired
	}

	client := &Client{
		apiKey:     trimmedKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}

	return client, nil
}

// LatLng is a latitude/longitude pair.
type LatLng struct {
	Latitude  float64
	Longitude float64
}

// DistanceResult is the normalized Distance Matrix element for one
// origin/destination pair.
type DistanceResult struct {
	Meters       int64
	Seconds      int64
	DistanceText string
	DurationText string
}

// KM returns the distance in kilometers.
func (d DistanceResult) KM() float64 {
	return float64(d.Meters) / 1000.0
}

// Distance queries the Distance Matrix API for the driving distance
// between origin and destination.
func (c *Client) Distance(ctx context.Context, origin, destination LatLng) (*DistanceResult, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "google maps client not configured")
	}

	query := url.Values{}
	query.Set("origins", formatLatLng(origin))
	query.Set("destinations", formatLatLng(destination))
	query.Set("mode", "driving")
	query.Set("key", c.apiKey)

	endpoint := fmt.Sprintf("%s/distancematrix/json?%s", strings.TrimRight(c.baseURL, "/"), query.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build distance matrix request")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute distance matrix request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, requestBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "distance matrix request failed")
	}

	var apiResp struct {
		Status string `json:"status"`
		Rows   []struct {
			Elements []struct {
				Status   string `json:"status"`
				Distance struct {
					Text  string `json:"text"`
					Value int64  `json:"value"`
				} `json:"distance"`
				Duration struct {
					Text  string `json:"text"`
					Value int64  `json:"value"`
				} `json:"duration"`
			} `json:"elements"`
		} `json:"rows"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode distance matrix response")
	}

	if apiResp.Status != "OK" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("distance matrix status %s", apiResp.Status))
	}
	if len(apiResp.Rows) == 0 || len(apiResp.Rows[0].Elements) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "distance matrix returned no elements")
	}

	element := apiResp.Rows[0].Elements[0]
	if element.Status != "OK" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("distance matrix element status %s", element.Status))
	}

	return &DistanceResult{
		Meters:       element.Distance.Value,
		Seconds:      element.Duration.Value,
		DistanceText: element.Distance.Text,
		DurationText: element.Duration.Text,
	}, nil
}

func formatLatLng(p LatLng) string {
	return fmt.Sprintf("%f,%f", p.Latitude, p.Longitude)
}
