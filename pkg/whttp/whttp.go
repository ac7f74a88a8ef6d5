// Package whttp is the network collaborator used by conversions: it resolves
// short-link redirects without following them and streams web pages.
package whttp

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const (
	DefaultTimeout   = 15 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"
)

// ErrMissingLocation is returned when a redirect response has no usable
// Location header.
var ErrMissingLocation = errors.New("redirect without location")

// TimeoutError means the remote host did not answer in time.
type TimeoutError struct {
	URL string
	Err error
}

func (e *TimeoutError) Error() string { return fmt.Sprintf("timeout requesting %s: %v", e.URL, e.Err) }
func (e *TimeoutError) Unwrap() error { return e.Err }

// ConnectionError covers DNS, TCP and TLS failures.
type ConnectionError struct {
	URL string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection to %s failed: %v", e.URL, e.Err)
}
func (e *ConnectionError) Unwrap() error { return e.Err }

// StatusError is an answer with a status code the caller did not expect.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

// Config configures a Client. The zero value is usable.
type Config struct {
	Timeout time.Duration
	// RetryMax is the number of retries after the first attempt.
	RetryMax  int
	UserAgent string
	Proxy     string
}

// Client issues the two kinds of requests a conversion needs. It is safe for
// concurrent use.
type Client struct {
	resolver  *retryablehttp.Client
	fetcher   *retryablehttp.Client
	userAgent string
}

// NewClient builds a Client from cfg.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	c := &Client{
		resolver:  newRetryClient(cfg),
		fetcher:   newRetryClient(cfg),
		userAgent: cfg.UserAgent,
	}
	// Short links are resolved one hop at a time so every hop is re-checked.
	c.resolver.HTTPClient.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	if cfg.Proxy != "" {
		if err := c.SetupProxy(cfg.Proxy); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func newRetryClient(cfg Config) *retryablehttp.Client {
	rc := retryablehttp.NewClient()
	rc.Logger = log.New(io.Discard, "", 0)
	rc.RetryMax = cfg.RetryMax
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.HTTPClient.Timeout = cfg.Timeout
	// Hand the last response back instead of a "giving up" error so the
	// status can be reported.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	return rc
}

// SetupProxy routes every request through proxy. Certificates are not
// verified, which lets an intercepting proxy be used for debugging.
func (c *Client) SetupProxy(proxy string) error {
	proxyURL, err := url.Parse(proxy)
	if err != nil {
		return fmt.Errorf("invalid proxy URL: %w", err)
	}
	for _, rc := range []*retryablehttp.Client{c.resolver, c.fetcher} {
		rc.HTTPClient.Transport = &http.Transport{
			Proxy:           http.ProxyURL(proxyURL),
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, rawURL string) (*retryablehttp.Request, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, &ConnectionError{URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Language", "en")
	req.Header.Set("Cache-Control", "no-transform")
	return req, nil
}

// ResolveRedirect sends one method request to rawURL without following the
// redirect and returns the Location header as sent, which may be relative.
func (c *Client) ResolveRedirect(ctx context.Context, method, rawURL string) (string, error) {
	req, err := c.newRequest(ctx, method, rawURL)
	if err != nil {
		return "", err
	}
	resp, err := c.resolver.Do(req)
	if err != nil {
		return "", classify(ctx, rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 300 || resp.StatusCode >= 400 {
		return "", &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}
	location := resp.Header.Get("Location")
	if location == "" {
		return "", fmt.Errorf("%s: %w", rawURL, ErrMissingLocation)
	}
	return location, nil
}

// FetchBody GETs rawURL, following redirects, and returns the body for the
// caller to stream and close. Closing early aborts the download.
func (c *Client) FetchBody(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := c.newRequest(ctx, http.MethodGet, rawURL)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	resp, err := c.fetcher.Do(req)
	if err != nil {
		return nil, classify(ctx, rawURL, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}
	return resp.Body, nil
}

// classify maps a transport error to one of the package's error types.
// Cancellation of ctx is returned unchanged.
func classify(ctx context.Context, rawURL string, err error) error {
	if errors.Is(err, context.Canceled) || ctx.Err() == context.Canceled {
		return context.Canceled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{URL: rawURL, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TimeoutError{URL: rawURL, Err: err}
	}
	return &ConnectionError{URL: rawURL, Err: err}
}
