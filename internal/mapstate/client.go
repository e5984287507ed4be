package mapstate

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"matjip-map/internal/models"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Client is the HTTP Fetcher implementation against the list endpoint.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client for the API at baseURL. A nil httpClient gets
// a default with a 10s timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

var _ Fetcher = (*Client)(nil)

// FetchRestaurants calls GET /restaurants with the query's filters
// encoded as the endpoint expects (programs as a comma-separated list).
func (c *Client) FetchRestaurants(ctx context.Context, q Query) (*models.ListResponse[models.Restaurant], error) {
	vals := url.Values{}
	if q.Keyword != "" {
		vals.Set("keyword", q.Keyword)
	}
	if q.Category != "" {
		vals.Set("category", q.Category)
	}
	if len(q.Programs) > 0 {
		vals.Set("programs", strings.Join(q.Programs, ","))
	}
	vals.Set("page", strconv.Itoa(q.Page))
	vals.Set("limit", strconv.Itoa(q.Limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/restaurants?"+vals.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build restaurant request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch restaurants: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch restaurants: unexpected status %d", resp.StatusCode)
	}

	var out models.ListResponse[models.Restaurant]
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode restaurant list: %w", err)
	}
	return &out, nil
}
