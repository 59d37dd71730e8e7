// Package qbreader is a small client for the QBReader public API: random
// bonus retrieval and answer checking.
package qbreader

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"github.com/abhisek/thetaquiz/internal/retry"
)

// Query describes a random-bonus request.
type Query struct {
	Difficulties           []int
	Categories             []string
	Subcategories          []string
	AlternateSubcategories []string

	// Number is the batch size.
	Number int

	ThreePartOnly          bool
	StandardOnly           bool
	HasDifficultyModifiers bool
}

// Values encodes the query as URL parameters.
func (q Query) Values() url.Values {
	v := url.Values{}
	n := q.Number
	if n < 1 {
		n = 1
	}
	v.Set("number", strconv.Itoa(n))
	for _, d := range q.Difficulties {
		v.Add("difficulties", strconv.Itoa(d))
	}
	if len(q.Categories) > 0 {
		v.Set("categories", strings.Join(q.Categories, ","))
	}
	if len(q.Subcategories) > 0 {
		v.Set("subcategories", strings.Join(q.Subcategories, ","))
	}
	if len(q.AlternateSubcategories) > 0 {
		v.Set("alternateSubcategories", strings.Join(q.AlternateSubcategories, ","))
	}
	if q.ThreePartOnly {
		v.Set("threePartBonuses", "true")
	}
	if q.StandardOnly {
		v.Set("standardOnly", "true")
	}
	if q.HasDifficultyModifiers {
		v.Set("hasDifficultyModifiers", "true")
	}
	return v
}

// Directive is the raw verdict returned by check-answer.
type Directive struct {
	Directive      string `json:"directive"`
	DirectedPrompt string `json:"directedPrompt,omitempty"`
}

// StatusError is returned for non-200 responses.
type StatusError struct {
	StatusCode int
	Endpoint   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("qbreader %s: HTTP %d", e.Endpoint, e.StatusCode)
}

// Client talks to the QBReader API. It is safe for concurrent use.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// NewClient creates a Client from cfg, filling unset fields with defaults.
func NewClient(cfg Config, opts ...Option) *Client {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	c := &Client{
		cfg:     cfg,
		http:    &http.Client{},
		limiter: rate.NewLimiter(limit, burst),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// RandomBonuses fetches up to q.Number random bonuses. An empty slice is a
// valid "nothing matched" answer.
func (c *Client) RandomBonuses(ctx context.Context, q Query) ([]Bonus, error) {
	var body struct {
		Bonuses []Bonus `json:"bonuses"`
	}
	if err := c.get(ctx, "random-bonus", q.Values(), &body); err != nil {
		return nil, err
	}
	return body.Bonuses, nil
}

// CheckAnswer asks the judge whether given matches the answer line.
func (c *Client) CheckAnswer(ctx context.Context, answerline, given string) (*Directive, error) {
	v := url.Values{}
	v.Set("answerline", answerline)
	v.Set("givenAnswer", given)

	var d Directive
	if err := c.get(ctx, "check-answer", v, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// get performs one throttled, time-bounded GET and decodes the JSON body.
// Client errors other than 429 are marked permanent so callers don't retry.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	u := strings.TrimRight(c.cfg.BaseURL, "/") + "/" + endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return retry.Permanent(err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		serr := &StatusError{StatusCode: resp.StatusCode, Endpoint: endpoint}
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return retry.Permanent(serr)
		}
		return serr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}
