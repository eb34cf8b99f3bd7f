package fetcher

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
)

const (
	defaultUserAgent    = "TvStreams/1.0"
	defaultRetryBackoff = time.Second
	maxBodySize         = 16 << 20
)

// Client fetches channel directories over HTTP.
type Client struct {
	httpClient *http.Client
	userAgent  string
	// RetryBackoff is the wait before the single retry after a 5xx response.
	RetryBackoff time.Duration
	// MaxBodySize caps the decoded body; larger directories are rejected.
	MaxBodySize int64
}

// NewClient returns a Client with the given User-Agent and request timeout.
func NewClient(userAgent string, timeout time.Duration) *Client {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		httpClient:   &http.Client{Timeout: timeout},
		userAgent:    userAgent,
		RetryBackoff: defaultRetryBackoff,
		MaxBodySize:  maxBodySize,
	}
}

// FetchText GETs url and returns the body as text.
// Every failure is returned as a *NetworkError.
func (c *Client) FetchText(ctx context.Context, rawURL string) (string, error) {
	resp, err := c.do(ctx, rawURL)
	if err != nil {
		return "", &NetworkError{URL: rawURL, Err: err}
	}
	if resp.StatusCode >= 500 {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		select {
		case <-ctx.Done():
			return "", &NetworkError{URL: rawURL, Err: ctx.Err()}
		case <-time.After(c.RetryBackoff):
		}
		resp, err = c.do(ctx, rawURL)
		if err != nil {
			return "", &NetworkError{URL: rawURL, Err: err}
		}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &NetworkError{URL: rawURL, StatusCode: resp.StatusCode, Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	}
	r, err := decodeBody(resp)
	if err != nil {
		return "", &NetworkError{URL: rawURL, Err: err}
	}
	body, err := io.ReadAll(io.LimitReader(r, c.MaxBodySize+1))
	if err != nil {
		return "", &NetworkError{URL: rawURL, Err: fmt.Errorf("ReadAll: %w", err)}
	}
	if int64(len(body)) > c.MaxBodySize {
		return "", &NetworkError{URL: rawURL, Err: fmt.Errorf("%w (%d bytes)", ErrBodyTooLarge, c.MaxBodySize)}
	}
	return string(body), nil
}

func (c *Client) do(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("NewRequest: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Accept-Encoding", "br, gzip")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Do: %w", err)
	}
	return resp, nil
}

// decodeBody unwraps the response body according to Content-Encoding.
func decodeBody(resp *http.Response) (io.Reader, error) {
	switch enc := strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))); enc {
	case "", "identity":
		return resp.Body, nil
	case "br":
		return brotli.NewReader(resp.Body), nil
	case "gzip":
		zr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return zr, nil
	default:
		return nil, fmt.Errorf("unsupported Content-Encoding %q", enc)
	}
}

// CacheBust returns rawURL with a t=<unix millis> query parameter so that
// intermediary caches never serve a stale directory.
func CacheBust(rawURL string, now time.Time) string {
	ts := strconv.FormatInt(now.UnixMilli(), 10)
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL + "?t=" + ts
	}
	q := u.Query()
	q.Set("t", ts)
	u.RawQuery = q.Encode()
	return u.String()
}
