// README: HTTP client for the booking backend and driver directory.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"cabbot/internal/types"
)

// Client talks to the booking backend over JSON HTTP. All calls honor the
// caller's context; a non-2xx status is returned as an error so the retry
// ladder can count it.
type Client struct {
	createTripURL   string
	cancelTripURL   string
	driversURL      string
	availabilityURL string
	http            *http.Client
}

type Config struct {
	CreateTripURL   string
	CancelTripURL   string
	DriversURL      string
	AvailabilityURL string
	Timeout         time.Duration
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		createTripURL:   cfg.CreateTripURL,
		cancelTripURL:   cfg.CancelTripURL,
		driversURL:      cfg.DriversURL,
		availabilityURL: cfg.AvailabilityURL,
		http:            &http.Client{Timeout: timeout},
	}
}

// CreateTrip registers a trip and returns the backend-assigned id.
func (c *Client) CreateTrip(ctx context.Context, req CreateTripRequest) (types.ID, error) {
	var resp createTripResponse
	if err := c.postJSON(ctx, c.createTripURL, req, &resp); err != nil {
		return "", fmt.Errorf("create trip: %w", err)
	}
	id := resp.TripID
	if id == "" {
		id = resp.ID
	}
	if id == "" {
		return "", fmt.Errorf("create trip: backend returned no trip id")
	}
	return id, nil
}

// CancelTrip cancels a trip by id. Cancelling an already-cancelled trip is
// treated as success by the backend.
func (c *Client) CancelTrip(ctx context.Context, tripID types.ID) error {
	if err := c.postJSON(ctx, c.cancelTripURL, cancelTripRequest{TripID: tripID}, nil); err != nil {
		return fmt.Errorf("cancel trip %s: %w", tripID, err)
	}
	return nil
}

// SearchDrivers returns one page of driver ids for a city under the given
// filter set. Pages are 1-based; a short page means the directory is drained.
func (c *Client) SearchDrivers(ctx context.Context, city string, page, limit int, filters map[string]string) ([]types.ID, error) {
	u, err := url.Parse(c.driversURL)
	if err != nil {
		return nil, fmt.Errorf("search drivers: %w", err)
	}
	q := u.Query()
	q.Set("city", city)
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	for k, v := range filters {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("search drivers: %w", err)
	}
	var resp searchDriversResponse
	if err := c.do(req, &resp); err != nil {
		return nil, fmt.Errorf("search drivers: %w", err)
	}
	return resp.ids(), nil
}

// NotifyDrivers pushes a quote request for the trip to a driver batch.
func (c *Client) NotifyDrivers(ctx context.Context, req NotifyRequest) error {
	if err := c.postJSON(ctx, c.availabilityURL, req, nil); err != nil {
		return fmt.Errorf("notify drivers: %w", err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, endpoint string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, snippet)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
