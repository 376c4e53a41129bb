package sampledata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/okian/concal/internal/domain/model"
	"github.com/okian/concal/internal/domain/types"
)

// ConflictsRequest is the body of POST /conflicts.
type ConflictsRequest struct {
	Candidates []int `json:"candidates"`
	References []int `json:"references,omitempty"`
	Annotate   bool  `json:"annotate,omitempty"`
}

// ConflictsResponse is the body returned by POST /conflicts.
type ConflictsResponse struct {
	Conflicts map[int][]int `json:"conflicts"`
	Events    []model.Event `json:"events,omitempty"`
}

// Client talks to a running catalog service.
type Client struct {
	base   string
	client *http.Client
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		base:   baseURL,
		client: &http.Client{Timeout: timeout},
	}
}

// Health returns nil when the service answers /healthz with 200.
func (c *Client) Health(ctx context.Context) error {
	return c.getJSON(ctx, "/healthz", nil, nil)
}

// Facets fetches every facet with its label counts.
func (c *Client) Facets(ctx context.Context) ([]types.FacetSummary, error) {
	var out []types.FacetSummary
	if err := c.getJSON(ctx, "/facets", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Events fetches one page of events matching the query parameters.
func (c *Client) Events(ctx context.Context, q url.Values) (types.Page[model.Event], error) {
	var out types.Page[model.Event]
	err := c.getJSON(ctx, "/events", q, &out)
	return out, err
}

// AllEvents pages through /events until every record is fetched.
func (c *Client) AllEvents(ctx context.Context) ([]model.Event, error) {
	var all []model.Event
	for page := 1; ; page++ {
		q := url.Values{}
		q.Set("page", fmt.Sprint(page))
		q.Set("limit", fmt.Sprint(defaultPageLimit))
		p, err := c.Events(ctx, q)
		if err != nil {
			return nil, err
		}
		all = append(all, p.Items...)
		if page >= p.TotalPages || len(p.Items) == 0 {
			return all, nil
		}
	}
}

// Conflicts posts a conflict query.
func (c *Client) Conflicts(ctx context.Context, req ConflictsRequest) (ConflictsResponse, error) {
	var out ConflictsResponse
	body, err := json.Marshal(req)
	if err != nil {
		return out, fmt.Errorf("failed to marshal request body: %w", err)
	}
	hreq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/conflicts", bytes.NewReader(body))
	if err != nil {
		return out, fmt.Errorf("failed to create request: %w", err)
	}
	hreq.Header.Set("Content-Type", "application/json")
	err = c.do(hreq, &out)
	return out, err
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, v any) error {
	u := c.base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, v)
}

func (c *Client) do(req *http.Request, v any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("%s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, bytes.TrimSpace(data))
	}
	if v == nil {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", req.URL.Path, err)
	}
	return nil
}
