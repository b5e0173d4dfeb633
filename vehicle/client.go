package vehicle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ErrNotFound reports that the data API has no vehicle with the given ID.
var ErrNotFound = errors.New("vehicle not found")

// Client talks to the vehicle data API over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a data API client. The timeout bounds each request end
// to end; zero selects 5 seconds.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Get fetches one vehicle by ID.
func (c *Client) Get(ctx context.Context, id string) (Vehicle, error) {
	var v Vehicle
	err := c.getJSON(ctx, "/vehicles/"+url.PathEscape(id), &v)
	if err != nil {
		return Vehicle{}, err
	}
	// The upstream detail endpoint omits the id field.
	if v.ID == "" {
		v.ID = id
	}
	return v, nil
}

// List fetches the full inventory.
func (c *Client) List(ctx context.Context) ([]Vehicle, error) {
	var out []Vehicle
	if err := c.getJSON(ctx, "/vehicles", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Search fetches the vehicles matching the filter.
func (c *Client) Search(ctx context.Context, f Filter) ([]Vehicle, error) {
	q := url.Values{}
	for key, value := range map[string]string{
		"make":        f.Make,
		"model":       f.Model,
		"status":      f.Status,
		"destination": f.Destination,
	} {
		if value != "" {
			q.Set(key, value)
		}
	}
	path := "/vehicles/search"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var out []Vehicle
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus sets a vehicle's status and returns the updated record.
func (c *Client) UpdateStatus(ctx context.Context, id, status string) (Vehicle, error) {
	target := c.baseURL + "/vehicles/" + url.PathEscape(id) + "?status=" + url.QueryEscape(status)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, target, nil)
	if err != nil {
		return Vehicle{}, err
	}

	var v Vehicle
	if err := c.do(req, &v); err != nil {
		return Vehicle{}, err
	}
	return v, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("data api request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("data api returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode data api response: %w", err)
	}
	return nil
}
