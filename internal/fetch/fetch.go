package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Client wraps http.Client with fixed identity headers, per-request timeouts
// and optional bounded retry on transient errors. It holds no per-request
// state and is safe to share across every pipeline stage.
type Client struct {
	HTTPClient *http.Client
	// Headers are sent with every request (User-Agent included).
	Headers http.Header
	// MaxAttempts includes the initial attempt. Minimum 1.
	MaxAttempts int
	// PerRequestTimeout bounds each request. Zero leaves it unbounded.
	PerRequestTimeout time.Duration

	// RedirectMaxHops caps redirect following to avoid loops. Zero means default (5).
	RedirectMaxHops int

	// limiter paces requests when a rate was configured
	limiter *rate.Limiter
}

// Page is a successful response body with its declared media type.
type Page struct {
	Body        []byte
	ContentType string
}

// Get issues a GET and returns the raw body.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	p, err := c.do(ctx, http.MethodGet, rawURL, nil)
	return p.Body, err
}

// GetPage is Get keeping the response Content-Type.
func (c *Client) GetPage(ctx context.Context, rawURL string) (Page, error) {
	return c.do(ctx, http.MethodGet, rawURL, nil)
}

// PostForm submits form as application/x-www-form-urlencoded and returns the
// raw body.
func (c *Client) PostForm(ctx context.Context, rawURL string, form url.Values) ([]byte, error) {
	p, err := c.do(ctx, http.MethodPost, rawURL, form)
	return p.Body, err
}

// PostFormPage is PostForm keeping the response Content-Type.
func (c *Client) PostFormPage(ctx context.Context, rawURL string, form url.Values) (Page, error) {
	return c.do(ctx, http.MethodPost, rawURL, form)
}

func (c *Client) do(ctx context.Context, method, rawURL string, form url.Values) (Page, error) {
	attempts := c.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		page, err := c.tryOnce(ctx, method, rawURL, form)
		if err == nil {
			return page, nil
		}
		lastErr = err
		if !isTransient(err) || i == attempts-1 {
			break
		}
		log.Debug().Err(err).Str("url", rawURL).Int("attempt", i+1).Msg("transient fetch error; retrying")
		select {
		case <-ctx.Done():
			return Page{}, &NetworkError{Op: method, URL: rawURL, Err: ctx.Err()}
		case <-time.After(time.Duration(i+1) * 200 * time.Millisecond):
		}
	}
	return Page{}, lastErr
}

func (c *Client) tryOnce(ctx context.Context, method, rawURL string, form url.Values) (Page, error) {
	fail := func(status int, err error) (Page, error) {
		return Page{}, &NetworkError{Op: method, URL: rawURL, Status: status, Err: err}
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fail(0, err)
		}
	}

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return fail(0, fmt.Errorf("new request: %w", err))
	}
	// Reject non-HTTP(S) schemes early
	if !isHTTPScheme(req.URL) {
		return fail(0, fmt.Errorf("unsupported URL scheme: %q", req.URL.Scheme))
	}
	for k, vs := range c.Headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	if c.PerRequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(req.Context(), c.PerRequestTimeout)
		defer cancel()
		req = req.WithContext(ctx)
	}

	resp, err := c.getHTTPClient().Do(req)
	if err != nil {
		return fail(0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 && resp.StatusCode <= 599 {
		return fail(resp.StatusCode, errServerStatus)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail(resp.StatusCode, errUnexpectedStatus)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(resp.StatusCode, fmt.Errorf("read body: %w", err))
	}
	ct := resp.Header.Get("Content-Type")
	log.Debug().Str("method", method).Str("url", rawURL).Int("bytes", len(b)).Str("contentType", ct).Msg("fetched")
	return Page{Body: b, ContentType: ct}, nil
}

var (
	errServerStatus     = errors.New("server error")
	errUnexpectedStatus = errors.New("unexpected status")
)

func isTransient(err error) bool {
	// Treat HTTP 5xx and deadline expiry as transient.
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return errors.Is(err, errServerStatus)
}

func (c *Client) getHTTPClient() *http.Client {
	if c.HTTPClient != nil {
		// Clone to attach our redirect policy without mutating caller's client
		base := *c.HTTPClient
		base.CheckRedirect = c.checkRedirectFunc()
		return &base
	}
	return &http.Client{CheckRedirect: c.checkRedirectFunc()}
}

func (c *Client) checkRedirectFunc() func(req *http.Request, via []*http.Request) error {
	max := c.RedirectMaxHops
	if max <= 0 {
		max = 5
	}
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= max {
			return errors.New("too many redirects")
		}
		// Only allow http/https during redirects
		if !isHTTPScheme(req.URL) {
			return errors.New("redirect to unsupported scheme")
		}
		return nil
	}
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}
