package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Makepad-fr/shopster/internal/logging"
	"github.com/Makepad-fr/shopster/internal/model"
)

// HTTP-backed item collection. Base path /items under the configured URL.

// ErrNotFound is matched by errors.Is for any 404 from the service.
var ErrNotFound = errors.New("item not found")

// APIError is a non-2xx answer from the service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("collection service: %s", http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("collection service: %d %s", e.StatusCode, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

type Client struct {
	base *url.URL
	http *http.Client
	log  *logging.Logger
}

type Option func(*Client)

// WithHTTPClient swaps the transport, e.g. for httptest servers.
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }

func WithLogger(l *logging.Logger) Option { return func(c *Client) { c.log = l } }

// New returns a client for the service at baseURL (e.g. http://localhost:4000).
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	c := &Client{base: u, http: &http.Client{}, log: logging.Default()}
	for _, o := range opts {
		o(c)
	}
	c.log = c.log.WithComponent("remote")
	return c, nil
}

// List fetches the whole collection.
func (c *Client) List(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	if err := c.do(ctx, http.MethodGet, c.itemsURL(), nil, &items); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}

// Create posts d and returns the stored item with its assigned id.
func (c *Client) Create(ctx context.Context, d model.Draft) (model.Item, error) {
	var it model.Item
	if err := c.do(ctx, http.MethodPost, c.itemsURL(), d, &it); err != nil {
		return model.Item{}, fmt.Errorf("create item: %w", err)
	}
	return it, nil
}

// Update patches item id and returns the full item as stored by the service.
func (c *Client) Update(ctx context.Context, id int, ch model.Changes) (model.Item, error) {
	var it model.Item
	if err := c.do(ctx, http.MethodPatch, c.itemURL(id), ch, &it); err != nil {
		return model.Item{}, fmt.Errorf("update item %d: %w", id, err)
	}
	return it, nil
}

// Delete removes item id.
func (c *Client) Delete(ctx context.Context, id int) error {
	if err := c.do(ctx, http.MethodDelete, c.itemURL(id), nil, nil); err != nil {
		return fmt.Errorf("delete item %d: %w", id, err)
	}
	return nil
}

func (c *Client) itemsURL() string { return c.base.JoinPath("items").String() }

func (c *Client) itemURL(id int) string {
	return c.base.JoinPath("items", strconv.Itoa(id)).String()
}

func (c *Client) do(ctx context.Context, method, u string, body, out any) (err error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("json marshal: %w", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	status := 0
	defer func() { c.log.Request(method, u, status, time.Since(start), err) }()

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var msg struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &msg) == nil {
			apiErr.Message = msg.Message
		}
		return apiErr
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("json unmarshal: %w", err)
	}
	return nil
}
