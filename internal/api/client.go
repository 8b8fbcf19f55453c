// Package api is the HTTP client for the table API consumed by the editor.
//
// Mutations answer with a plain-text application status on HTTP 200; any other
// HTTP status is reported as an *HTTPError and an unrecognized body as an
// *UnexpectedResponseError. Every call takes a context and the
// client applies a per-request timeout so a hung server cannot block a save
// indefinitely.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/JonMunkholm/sitegrid/internal/core"
)

// DefaultTimeout bounds a single request when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// maxBodySize caps how much of a response body is read.
const maxBodySize = 32 << 20

// Verb names a mutating API endpoint.
type Verb string

const (
	VerbUpdate Verb = "update"
	VerbInsert Verb = "insert"
	VerbDelete Verb = "delete"
)

// HTTPError reports a non-200 response.
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s: unexpected HTTP status %d", e.Method, e.Path, e.StatusCode)
}

// UnexpectedResponseError reports a 200 response whose body is not a known
// status.
type UnexpectedResponseError struct {
	Body string
}

func (e *UnexpectedResponseError) Error() string {
	body := e.Body
	if len(body) > 120 {
		body = body[:120] + "..."
	}
	return fmt.Sprintf("unknown api response %q", body)
}

// Client talks to the table API.
type Client struct {
	baseURL string
	http    *http.Client
	apiKey  string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout. Zero keeps DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithAPIKey sends key in the X-API-Key header of every request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// New creates a client for the API rooted at baseURL (e.g. "http://localhost:8080").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Update posts row to /api/update/{table}.
func (c *Client) Update(ctx context.Context, table string, row core.Row) (core.Status, error) {
	return c.post(ctx, VerbUpdate, table, row)
}

// Insert posts row to /api/insert/{table}.
func (c *Client) Insert(ctx context.Context, table string, row core.Row) (core.Status, error) {
	return c.post(ctx, VerbInsert, table, row)
}

// Delete requests /api/delete/{table}/{id}.
func (c *Client) Delete(ctx context.Context, table, id string) (core.Status, error) {
	path := "/api/delete/" + url.PathEscape(table) + "/" + url.PathEscape(id)
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return core.StatusUnknown, err
	}
	return parseStatus(body)
}

// FetchData returns the full dataset of a table.
func (c *Client) FetchData(ctx context.Context, table string) ([]core.Row, error) {
	var rows []core.Row
	if err := c.getJSON(ctx, "/api/fetch/data/"+url.PathEscape(table), &rows); err != nil {
		return nil, fmt.Errorf("fetch data %s: %w", table, err)
	}
	return rows, nil
}

// FetchColumns returns the column metadata of a table.
func (c *Client) FetchColumns(ctx context.Context, table string) ([]core.ColumnMeta, error) {
	var cols []core.ColumnMeta
	if err := c.getJSON(ctx, "/api/fetch/columns/"+url.PathEscape(table), &cols); err != nil {
		return nil, fmt.Errorf("fetch columns %s: %w", table, err)
	}
	return cols, nil
}

// FetchTables returns the registered tables grouped by tab.
func (c *Client) FetchTables(ctx context.Context) (map[string][]core.TableInfo, error) {
	var tabs map[string][]core.TableInfo
	if err := c.getJSON(ctx, "/api/fetch/tables", &tabs); err != nil {
		return nil, fmt.Errorf("fetch tables: %w", err)
	}
	return tabs, nil
}

func (c *Client) post(ctx context.Context, verb Verb, table string, row core.Row) (core.Status, error) {
	payload, err := json.Marshal(row)
	if err != nil {
		return core.StatusUnknown, fmt.Errorf("encode row: %w", err)
	}

	path := "/api/" + string(verb) + "/" + url.PathEscape(table)
	body, err := c.do(ctx, http.MethodPost, path, payload)
	if err != nil {
		return core.StatusUnknown, err
	}
	return parseStatus(body)
}

func parseStatus(body []byte) (core.Status, error) {
	status := core.ParseStatus(string(body))
	if status == core.StatusUnknown {
		return status, &UnexpectedResponseError{Body: string(body)}
	}
	return status, nil
}

// getJSON decodes a JSON response. A plain-text status body in place of JSON
// is turned into an error naming that status.
func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	if status := core.ParseStatus(string(body)); status != core.StatusUnknown {
		if status == core.StatusTableNotFound {
			return core.ErrUnknownTable
		}
		return errors.New(string(status))
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// do performs a request and returns the body of a 200 response.
func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil, &HTTPError{Method: method, Path: path, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return bytes.TrimSpace(body), nil
}
