// Package remote implements the store ports on top of the console's REST
// backend.
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
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/printmanage/console/internal/core/domain"
	"github.com/printmanage/console/internal/core/ports"
)

const maxBodyBytes = 4 << 20

// Options configures the HTTP client.
type Options struct {
	BaseURL string
	Timeout time.Duration
	// RateLimit is the number of requests per second allowed towards the
	// store; 0 disables throttling.
	RateLimit float64
	Burst     int
	// HTTPClient overrides the default client, mostly for tests.
	HTTPClient *http.Client
}

// Client sends authenticated JSON requests to the store. It is shared by
// every session; the token comes from the session passed to each call.
type Client struct {
	base    *url.URL
	http    *http.Client
	limiter *rate.Limiter
	log     zerolog.Logger
}

// NewClient validates the base URL and builds a client.
func NewClient(opts Options, log zerolog.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("remote: invalid base url %q", opts.BaseURL)
	}
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	var lim *rate.Limiter
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		lim = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return &Client{base: base, http: hc, limiter: lim, log: log}, nil
}

// call describes one request.
type call struct {
	resource string
	method   string
	path     string
	query    url.Values
	body     any
}

// do sends c and returns the raw response body of a 2xx answer. Failures
// are classified into the domain errors.
func (cl *Client) do(ctx context.Context, sess ports.Session, c call) ([]byte, error) {
	if cl.limiter != nil {
		start := time.Now()
		if err := cl.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
		}
		throttleWait.Observe(time.Since(start).Seconds())
	}

	req, err := cl.newRequest(ctx, sess, c)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := cl.http.Do(req)
	requestDuration.WithLabelValues(c.resource, c.method).Observe(time.Since(start).Seconds())
	if err != nil {
		cl.record(c, domain.ErrNetwork)
		cl.log.Warn().Err(err).Str("method", c.method).Str("path", c.path).Msg("remote store unreachable")
		return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		cl.record(c, domain.ErrNetwork)
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrNetwork, err)
	}

	if resp.StatusCode >= 300 {
		err := classify(resp.StatusCode, raw)
		if errors.Is(err, domain.ErrUnauthorized) && sess != nil {
			if cerr := sess.ClearToken(ctx); cerr != nil {
				cl.log.Warn().Err(cerr).Msg("clear session token")
			}
		}
		cl.record(c, err)
		cl.log.Debug().
			Int("status", resp.StatusCode).
			Str("method", c.method).
			Str("path", c.path).
			Msg("remote store refused request")
		return nil, err
	}
	cl.record(c, nil)
	return raw, nil
}

func (cl *Client) newRequest(ctx context.Context, sess ports.Session, c call) (*http.Request, error) {
	u := *cl.base
	u.Path = cl.base.Path + "/" + strings.TrimLeft(c.path, "/")
	if len(c.query) > 0 {
		u.RawQuery = c.query.Encode()
	}

	var body io.Reader
	if c.body != nil {
		b, err := json.Marshal(c.body)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", c.resource, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, c.method, u.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sess != nil {
		if tok := sess.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	return req, nil
}

func (cl *Client) record(c call, err error) {
	requestsTotal.WithLabelValues(c.resource, c.method, outcome(err)).Inc()
}

// Ping reports whether the store answers HTTP at all. Any status counts.
func (cl *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, cl.base.String(), nil)
	if err != nil {
		return err
	}
	resp, err := cl.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	resp.Body.Close()
	return nil
}
