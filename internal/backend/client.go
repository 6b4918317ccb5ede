// Package backend provides the REST client for the hosted relational
// backend (PostgREST-style table CRUD and named stored procedures).
package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// ErrNoRows is returned when a single-row query matches nothing.
var ErrNoRows = errors.New("backend: no rows")

// Client is the backend REST API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Config holds client configuration.
type Config struct {
	URL        string
	APIKey     string
	HTTPClient *http.Client
}

// New creates a new backend client.
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("URL is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("APIKey is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
	}, nil
}

// From starts a query builder for a table.
func (c *Client) From(table string) *Query {
	return &Query{client: c, table: table}
}

// Query builds predicate-based table queries.
type Query struct {
	client  *Client
	table   string
	columns string
	filters []string
	orders  []string
	limit   int
}

// Select specifies columns to select.
func (q *Query) Select(columns string) *Query {
	q.columns = columns
	return q
}

// Eq adds an equality filter.
func (q *Query) Eq(column string, value any) *Query {
	q.filters = append(q.filters, fmt.Sprintf("%s=eq.%v", column, value))
	return q
}

// Order adds an ORDER BY clause.
func (q *Query) Order(column string, ascending bool) *Query {
	dir := "asc"
	if !ascending {
		dir = "desc"
	}
	q.orders = append(q.orders, fmt.Sprintf("%s.%s", column, dir))
	return q
}

// Limit sets the LIMIT.
func (q *Query) Limit(n int) *Query {
	q.limit = n
	return q
}

func (q *Query) params() url.Values {
	params := url.Values{}
	if q.columns != "" {
		params.Set("select", q.columns)
	}
	for _, f := range q.filters {
		parts := strings.SplitN(f, "=", 2)
		if len(parts) == 2 {
			params.Add(parts[0], parts[1])
		}
	}
	if len(q.orders) > 0 {
		params.Set("order", strings.Join(q.orders, ","))
	}
	if q.limit > 0 {
		params.Set("limit", strconv.Itoa(q.limit))
	}
	return params
}

func (q *Query) tableURL() string {
	reqURL := fmt.Sprintf("%s/rest/v1/%s", q.client.baseURL, q.table)
	if params := q.params(); len(params) > 0 {
		reqURL += "?" + params.Encode()
	}
	return reqURL
}

// Execute runs a SELECT and decodes the row list into dest.
func (q *Query) Execute(ctx context.Context, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, q.tableURL(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	q.client.setHeaders(req)

	body, err := q.client.do(req)
	if err != nil {
		return err
	}
	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("decode %s rows: %w", q.table, err)
	}
	return nil
}

// Single runs a SELECT expecting exactly one row and decodes it into dest.
// ErrNoRows when nothing matches.
func (q *Query) Single(ctx context.Context, dest any) error {
	ok, err := q.MaybeSingle(ctx, dest)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s: %w", q.table, ErrNoRows)
	}
	return nil
}

// MaybeSingle runs a SELECT expecting at most one row. The bool reports
// whether a row was found.
func (q *Query) MaybeSingle(ctx context.Context, dest any) (bool, error) {
	q.limit = 1

	var rows []json.RawMessage
	if err := q.Execute(ctx, &rows); err != nil {
		return false, err
	}
	if len(rows) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(rows[0], dest); err != nil {
		return false, fmt.Errorf("decode %s row: %w", q.table, err)
	}
	return true, nil
}

// Insert inserts data and decodes the representation into dest (may be nil).
func (q *Query) Insert(ctx context.Context, data any, dest any) error {
	return q.write(ctx, http.MethodPost, data, dest)
}

// Update applies a partial patch to the filtered rows and decodes the
// representation into dest (may be nil).
func (q *Query) Update(ctx context.Context, patch any, dest any) error {
	return q.write(ctx, http.MethodPatch, patch, dest)
}

// Delete removes the filtered rows.
func (q *Query) Delete(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, q.tableURL(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	q.client.setHeaders(req)

	_, err = q.client.do(req)
	return err
}

func (q *Query) write(ctx context.Context, method string, data any, dest any) error {
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal %s body: %w", q.table, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, q.tableURL(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	q.client.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")

	resp, err := q.client.do(req)
	if err != nil {
		return err
	}
	if dest == nil {
		return nil
	}

	// Representation is a row list even for single-row writes.
	var rows []json.RawMessage
	if err := json.Unmarshal(resp, &rows); err != nil {
		return fmt.Errorf("decode %s representation: %w", q.table, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("%s: %w", q.table, ErrNoRows)
	}
	if err := json.Unmarshal(rows[0], dest); err != nil {
		return fmt.Errorf("decode %s row: %w", q.table, err)
	}
	return nil
}

// RPC invokes a stored procedure by name and decodes the result into dest
// (may be nil).
func (c *Client) RPC(ctx context.Context, fn string, params any, dest any) error {
	reqURL := fmt.Sprintf("%s/rest/v1/rpc/%s", c.baseURL, fn)

	var body io.Reader
	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			return fmt.Errorf("marshal %s params: %w", fn, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)
	if params != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(resp, dest); err != nil {
		return fmt.Errorf("decode %s result: %w", fn, err)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := string(body)
		if len(msg) > 200 {
			msg = msg[:200]
		}
		return nil, fmt.Errorf("%s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, msg)
	}

	return body, nil
}
