package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httputil"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
)

// --------------------------------------------------------------------
// debugTransport – optional HTTP round-trip logger
// --------------------------------------------------------------------

type debugTransport struct{ base http.RoundTripper }

func (dt *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if os.Getenv("DAYPLAN_DEBUG") == "true" || os.Getenv("DEBUG") == "true" {
		reqDump, err := httputil.DumpRequestOut(req, true)
		if err == nil {
			log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Str("request_dump", string(reqDump)).Msg("HTTP request")
		}
	}

	resp, err := dt.base.RoundTrip(req)
	if err != nil {
		if os.Getenv("DAYPLAN_DEBUG") == "true" || os.Getenv("DEBUG") == "true" {
			log.Error().Err(err).Str("method", req.Method).Str("url", req.URL.String()).Msg("HTTP request failed")
		}
		return nil, err
	}

	if os.Getenv("DAYPLAN_DEBUG") == "true" || os.Getenv("DEBUG") == "true" {
		respDump, err := httputil.DumpResponse(resp, true)
		if err == nil {
			log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Int("status_code", resp.StatusCode).Str("response_dump", string(respDump)).Msg("HTTP response")
		}
	}
	return resp, nil
}

// --------------------------------------------------------------------
// Client core
// --------------------------------------------------------------------

// Client issues typed requests against the Dayplan task service. It holds no
// entity state; callers cache responses through the store package.
type Client struct {
	baseURL   string
	http      *http.Client
	authToken string

	retryMaxElapsed time.Duration
}

// New constructs a Client with optional functional arguments.
func New(base string, opts ...Option) *Client {
	c := &Client{
		baseURL:         base,
		http:            &http.Client{Timeout: 30 * time.Second},
		retryMaxElapsed: 10 * time.Second,
	}

	// Auto-enable debug via env variable without changing code.
	if os.Getenv("DAYPLAN_DEBUG") == "true" || os.Getenv("DEBUG") == "true" {
		opts = append(opts, WithDebugLogging(true))
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			panic(err)
		}
	}

	return c
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}
}

// getJSON performs a GET with retries and decodes the body into out.
// Transport errors and 5xx responses are retried; 4xx responses are
// permanent.
func (c *Client) getJSON(ctx context.Context, op, url string, out any) error {
	operation := func() error {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		c.setHeaders(httpReq)

		resp, err := c.http.Do(httpReq)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			apiErr := decodeAPIError(op, resp)
			if resp.StatusCode >= http.StatusInternalServerError {
				return apiErr
			}
			return backoff.Permanent(apiErr)
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}
	return backoff.Retry(operation, backoff.WithContext(c.newReadBackoff(), ctx))
}

// newReadBackoff builds the retry policy for idempotent GET operations.
// Mutations are never retried here; the sync engine owns their failure
// semantics.
func (c *Client) newReadBackoff() backoff.BackOff {
	if c.retryMaxElapsed == 0 {
		return &backoff.StopBackOff{}
	}
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 100 * time.Millisecond
	bo.MaxElapsedTime = c.retryMaxElapsed
	return bo
}
