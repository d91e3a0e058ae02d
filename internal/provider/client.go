package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ldhiman/holiday-api/internal/holiday"
)

const httpTimeout = 10 * time.Second

const calendarificDefaultURL = "https://calendarific.com/api/v2/holidays"

// Client fetches one (year, country) holiday set from Calendarific.
// No caching and no retry at this layer.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient constructs a Client with the given API key using the
// production Calendarific URL.
func NewClient(apiKey string) *Client {
	return &Client{apiKey: apiKey, baseURL: calendarificDefaultURL, client: &http.Client{Timeout: httpTimeout}}
}

// NewClientWithURL constructs a Client pointing at a custom base URL (for tests).
func NewClientWithURL(baseURL, apiKey string) *Client {
	return &Client{apiKey: apiKey, baseURL: baseURL, client: &http.Client{Timeout: httpTimeout}}
}

type calendarificResponse struct {
	Response struct {
		Holidays []struct {
			Name string `json:"name"`
			Date struct {
				ISO string `json:"iso"`
			} `json:"date"`
			Type []string `json:"type"`
		} `json:"holidays"`
	} `json:"response"`
}

// Fetch retrieves all holidays for the given year and country.
// An empty result is not an error. The country code is passed through
// unvalidated; an unknown code simply yields zero holidays or a provider error.
func (c *Client) Fetch(ctx context.Context, year int, country string) ([]holiday.Record, error) {
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("country", country)
	q.Set("year", strconv.Itoa(year))
	endpoint := c.baseURL + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s/%d: %w", country, year, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calendarific fetch for %s/%d: %w", country, year, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("calendarific fetch for %s/%d returned status %d", country, year, resp.StatusCode)
	}

	var raw calendarificResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding calendarific response for %s/%d: %w", country, year, err)
	}

	records := make([]holiday.Record, 0, len(raw.Response.Holidays))
	for _, h := range raw.Response.Holidays {
		typ := holiday.DefaultType
		if len(h.Type) > 0 && h.Type[0] != "" {
			typ = h.Type[0]
		}
		records = append(records, holiday.Record{
			Name:    h.Name,
			Date:    h.Date.ISO,
			Country: country,
			Type:    typ,
		})
	}

	return records, nil
}
