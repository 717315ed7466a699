// Package fetch is the transport client shared by every pipeline stage.
package fetch

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"golang.org/x/net/http/httpguts"
	"golang.org/x/time/rate"
)

// DefaultUserAgent advertises a common desktop browser; the site serves
// different markup to unknown agents.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36"

// Options configures New.
type Options struct {
	HTTPClient         *http.Client
	UserAgent          string
	Headers            map[string]string
	MaxAttempts        int
	PerRequestTimeout  time.Duration
	RedirectMaxHops    int
	RateLimitPerSecond float64
}

// ClientConfigError reports a header that cannot be sent on the wire.
type ClientConfigError struct {
	Header string
	Value  string
	Reason string
}

func (e *ClientConfigError) Error() string {
	return fmt.Sprintf("client config: header %q: %s", e.Header, e.Reason)
}

// NetworkError wraps any failure to obtain a 2xx response body.
type NetworkError struct {
	Op     string
	URL    string
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s %s: %v: %d", e.Op, e.URL, e.Err, e.Status)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// New validates the identity headers and builds a Client. No network
// activity happens here.
func New(opts Options) (*Client, error) {
	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	headers := http.Header{}
	if err := addHeader(headers, "User-Agent", ua); err != nil {
		return nil, err
	}
	// sorted for deterministic error reporting
	names := make([]string, 0, len(opts.Headers))
	for k := range opts.Headers {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		if err := addHeader(headers, k, opts.Headers[k]); err != nil {
			return nil, err
		}
	}

	c := &Client{
		HTTPClient:        opts.HTTPClient,
		Headers:           headers,
		MaxAttempts:       opts.MaxAttempts,
		PerRequestTimeout: opts.PerRequestTimeout,
		RedirectMaxHops:   opts.RedirectMaxHops,
	}
	if opts.RateLimitPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimitPerSecond), 1)
	}
	return c, nil
}

func addHeader(h http.Header, name, value string) error {
	if !httpguts.ValidHeaderFieldName(name) {
		return &ClientConfigError{Header: name, Value: value, Reason: "invalid header name"}
	}
	if !httpguts.ValidHeaderFieldValue(value) {
		return &ClientConfigError{Header: name, Value: value, Reason: "invalid header value"}
	}
	h.Set(name, value)
	return nil
}
