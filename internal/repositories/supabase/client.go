// Package supabase implements the repository ports over the Supabase REST (PostgREST) API.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/retail_stt_seeder/internal/platform/logging"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

const (
	DefaultPageSize  = 1000
	DefaultRateLimit = "20-S"
	restPrefix       = "/rest/v1/"
)

// APIError is a non-2xx PostgREST response. Code carries the Postgres SQLSTATE when the
// failure came from the database.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("supabase: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("supabase: %d: %s", e.Status, e.Message)
}

// SQLState returns the forwarded Postgres error code, if any.
func (e *APIError) SQLState() string {
	// PostgREST's own errors use a PGRST prefix, not a SQLSTATE
	if strings.HasPrefix(e.Code, "PGRST") {
		return ""
	}
	return e.Code
}

func (e *APIError) HTTPStatus() int {
	return e.Status
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	APIKey     string
	PageSize   int
	RateLimit  string // limiter format, e.g. "20-S"
	HTTPClient *http.Client
}

// Client talks to one Supabase project.
type Client struct {
	baseURL  string
	apiKey   string
	pageSize int
	http     *http.Client
	limiter  *limiter.Limiter
}

// NewClient validates opts and builds a client.
func NewClient(opts Options) (*Client, error) {
	if opts.BaseURL == "" || opts.APIKey == "" {
		return nil, fmt.Errorf("supabase url and api key are required")
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.RateLimit == "" {
		opts.RateLimit = DefaultRateLimit
	}
	rate, err := limiter.NewRateFromFormatted(opts.RateLimit)
	if err != nil {
		return nil, fmt.Errorf("invalid supabase rate limit %q: %w", opts.RateLimit, err)
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		apiKey:   opts.APIKey,
		pageSize: opts.PageSize,
		http:     opts.HTTPClient,
		limiter:  limiter.New(memory.NewStore(), rate),
	}, nil
}

// wait blocks until the limiter grants another request.
func (c *Client) wait(ctx context.Context) error {
	for {
		lctx, err := c.limiter.Get(ctx, c.baseURL)
		if err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
		if !lctx.Reached {
			return nil
		}
		delay := time.Until(time.Unix(lctx.Reset, 0))
		if delay <= 0 {
			delay = 10 * time.Millisecond
		}
		logging.FromContext(ctx).Debug("Supabase rate limit reached, pacing", slog.Int64("limit", lctx.Limit), slog.Duration("delay", delay))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

type request struct {
	method  string
	table   string
	query   url.Values
	body    any
	headers map[string]string
}

type response struct {
	status       int
	body         []byte
	contentRange string
}

func (c *Client) do(ctx context.Context, r request) (*response, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	var body io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s payload: %w", r.table, err)
		}
		body = bytes.NewReader(payload)
	}

	endpoint := c.baseURL + restPrefix + r.table
	if len(r.query) > 0 {
		endpoint += "?" + r.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, r.method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", r.table, err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", r.method, r.table, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", r.table, err)
	}
	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		if jsonErr := json.Unmarshal(raw, apiErr); jsonErr != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		return nil, apiErr
	}
	return &response{status: resp.StatusCode, body: raw, contentRange: resp.Header.Get("Content-Range")}, nil
}

// selectAll pages through table with Range headers. The server may cap a page below
// pageSize, so paging stops on an empty page or once the Content-Range total is reached.
func selectAll[T any](ctx context.Context, c *Client, table string, query url.Values) ([]T, error) {
	if query == nil {
		query = url.Values{}
	}
	if query.Get("order") == "" {
		query.Set("order", "id.asc")
	}
	var out []T
	for offset := 0; ; {
		resp, err := c.do(ctx, request{
			method: http.MethodGet,
			table:  table,
			query:  query,
			headers: map[string]string{
				"Range-Unit": "items",
				"Range":      fmt.Sprintf("%d-%d", offset, offset+c.pageSize-1),
			},
		})
		if err != nil {
			return nil, err
		}
		var page []T
		if err := json.Unmarshal(resp.body, &page); err != nil {
			return nil, fmt.Errorf("failed to decode %s page: %w", table, err)
		}
		if len(page) == 0 {
			return out, nil
		}
		out = append(out, page...)
		offset += len(page)
		if total, err := parseContentRangeTotal(resp.contentRange); err == nil && int64(offset) >= total {
			return out, nil
		}
	}
}

// count asks PostgREST for an exact row count without transferring rows.
func (c *Client) count(ctx context.Context, table string, query url.Values) (int64, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("select", "id")
	resp, err := c.do(ctx, request{
		method:  http.MethodHead,
		table:   table,
		query:   query,
		headers: map[string]string{"Prefer": "count=exact"},
	})
	if err != nil {
		return 0, err
	}
	return parseContentRangeTotal(resp.contentRange)
}

// parseContentRangeTotal reads the total from "0-24/3573" or "*/0".
func parseContentRangeTotal(header string) (int64, error) {
	_, total, ok := strings.Cut(header, "/")
	if !ok || total == "*" {
		return 0, fmt.Errorf("content-range %q carries no total", header)
	}
	n, err := strconv.ParseInt(total, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid content-range %q: %w", header, err)
	}
	return n, nil
}

// insert posts rows and decodes the representation PostgREST returns.
func insert[T any](ctx context.Context, c *Client, table string, rows []T) ([]T, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	resp, err := c.do(ctx, request{
		method:  http.MethodPost,
		table:   table,
		body:    rows,
		headers: map[string]string{"Prefer": "return=representation"},
	})
	if err != nil {
		return nil, err
	}
	var created []T
	if err := json.Unmarshal(resp.body, &created); err != nil {
		return nil, fmt.Errorf("failed to decode inserted %s: %w", table, err)
	}
	return created, nil
}

// patch updates rows matching query and returns how many changed.
func (c *Client) patch(ctx context.Context, table string, query url.Values, body any) (int, error) {
	resp, err := c.do(ctx, request{
		method:  http.MethodPatch,
		table:   table,
		query:   query,
		body:    body,
		headers: map[string]string{"Prefer": "return=representation"},
	})
	if err != nil {
		return 0, err
	}
	var changed []json.RawMessage
	if err := json.Unmarshal(resp.body, &changed); err != nil {
		return 0, fmt.Errorf("failed to decode %s update: %w", table, err)
	}
	return len(changed), nil
}

func (c *Client) deleteAll(ctx context.Context, table string) error {
	// PostgREST refuses an unfiltered DELETE
	_, err := c.do(ctx, request{
		method: http.MethodDelete,
		table:  table,
		query:  url.Values{"id": {"not.is.null"}},
	})
	return err
}

func eq(id int64) string {
	return "eq." + strconv.FormatInt(id, 10)
}
