package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const identityCookieName = "identity"

// Client wraps HTTP operations with Bandcamp-specific configuration.
//
// One Client (and its connection pool) is shared by all concurrent jobs
// of a batch. The identity cookie is attached to every outbound request;
// its value is never logged.
type Client struct {
	httpClient *http.Client
	identity   string
	userAgent  string
	log        *zap.Logger
}

// New creates a Client that authenticates with the given identity-session
// cookie. The cookie is an opaque string obtained out of band; an empty
// value produces an unauthenticated client.
func New(identity string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		identity:  identity,
		userAgent: "bcdl",
		log:       log,
	}
}

// RequestOption customizes a single request.
type RequestOption func(*requestOptions)

type requestOptions struct {
	method  string
	headers map[string]string
}

// WithMethod overrides the request method (default GET).
func WithMethod(method string) RequestOption {
	return func(o *requestOptions) { o.method = method }
}

// WithHeader adds a header to the request.
func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) {
		if o.headers == nil {
			o.headers = make(map[string]string)
		}
		o.headers[key] = value
	}
}

// Fetch performs a single authenticated request and returns the full
// response body. There is exactly one attempt per call; retrying is the
// caller's business, and no caller here does.
//
// Error taxonomy:
//   - *TransportError: the request never completed
//   - *StatusError: the server answered with a non-2xx status
//
// A 2xx response with an empty body returns an empty, non-nil-error
// result.
func (c *Client) Fetch(ctx context.Context, url string, opts ...RequestOption) ([]byte, error) {
	options := requestOptions{method: http.MethodGet}
	for _, opt := range opts {
		opt(&options)
	}

	req, err := http.NewRequestWithContext(ctx, options.method, url, nil)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	c.prepare(req)
	for key, value := range options.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status, URL: url}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}

	c.log.Debug("fetched", zap.String("url", url), zap.Int("bytes", len(body)))
	return body, nil
}

// GetString fetches a URL and returns the body as a string. Convenience
// wrapper for HTML pages.
func (c *Client) GetString(ctx context.Context, url string) (string, error) {
	body, err := c.Fetch(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// PostJSON sends body as a JSON POST and decodes the JSON response into
// out. Uses the same error taxonomy as Fetch.
func (c *Client) PostJSON(ctx context.Context, url string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return &TransportError{URL: url, Err: err}
	}
	c.prepare(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return &StatusError{Code: resp.StatusCode, Status: resp.Status, URL: url}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{URL: url, Err: err}
	}
	return nil
}

func (c *Client) prepare(req *http.Request) {
	req.Header.Set("User-Agent", c.userAgent)
	if c.identity != "" {
		req.AddCookie(&http.Cookie{Name: identityCookieName, Value: c.identity})
	}
}
