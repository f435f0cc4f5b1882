package scanner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"huddygate/src-server/claim"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
)

var ErrUnauthorized = errors.New("staff token rejected")

type ClientOptions struct {
	Token      string
	HTTPClient *http.Client
	// MaxTries bounds attempts per claim, first one included.
	MaxTries     uint
	InitialDelay time.Duration
}

// Client submits claims to the gate server. Transient failures are retried
// with the same code, denials and bad input never are.
type Client struct {
	baseURL      string
	token        string
	http         *http.Client
	maxTries     uint
	initialDelay time.Duration
}

func NewClient(baseURL string, opts ClientOptions) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		token:        opts.Token,
		http:         opts.HTTPClient,
		maxTries:     opts.MaxTries,
		initialDelay: opts.InitialDelay,
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 10 * time.Second}
	}
	if c.maxTries == 0 {
		c.maxTries = 4
	}
	if c.initialDelay <= 0 {
		c.initialDelay = 250 * time.Millisecond
	}
	return c
}

type respBody struct {
	Status  string          `json:"status"`
	Reason  claim.Reason    `json:"reason"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) Claim(ctx context.Context, kind, code string) (*claim.Result, error) {
	path := "/claims/entry"
	if kind == claim.KIND_GIFT {
		path = "/claims/gift"
	}
	res := new(claim.Result)
	if err := c.do(ctx, http.MethodPost, path, map[string]string{"code": code}, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) Lookup(ctx context.Context, code string) (*claim.Result, error) {
	var attendee struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := c.do(ctx, http.MethodGet, "/attendees/"+url.PathEscape(code), nil, &attendee); err != nil {
		return nil, err
	}
	return &claim.Result{Name: attendee.Name, Email: attendee.Email}, nil
}

// Login trades the staff passcode for a token and keeps it for later calls.
func (c *Client) Login(ctx context.Context, passcode, station string) error {
	var data struct {
		Token string `json:"token"`
	}
	body := map[string]string{"passcode": passcode, "station": station}
	if err := c.do(ctx, http.MethodPost, "/auth", body, &data); err != nil {
		return fmt.Errorf("(*Client).Login: %w", err)
	}
	c.token = data.Token
	return nil
}

// Ping checks the server is reachable, without retrying.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.attempt(ctx, http.MethodGet, "/healthz", nil, nil)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("(*Client).do: can't marshal body: %w", err)
		}
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initialDelay
	b.Multiplier = 2
	b.MaxInterval = 8 * c.initialDelay

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return c.attempt(ctx, method, path, payload, out)
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(c.maxTries),
		backoff.WithNotify(func(err error, next time.Duration) {
			slog.Warn("claim attempt failed, retrying", "path", path, "next", next, "error", err)
		}),
	)
	if err == nil {
		return nil
	}
	if _, denied := claim.DeniedReason(err); denied || errors.Is(err, claim.ErrValidation) || errors.Is(err, ErrUnauthorized) {
		return err
	}
	if !errors.Is(err, claim.ErrTransient) {
		err = fmt.Errorf("%w: %v", claim.ErrTransient, err)
	}
	return err
}

// attempt performs one round-trip. Anything that must not be retried is
// wrapped with backoff.Permanent.
func (c *Client) attempt(ctx context.Context, method, path string, payload []byte, out any) (struct{}, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return struct{}{}, backoff.Permanent(fmt.Errorf("%w: %v", claim.ErrValidation, err))
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return struct{}{}, fmt.Errorf("%w: %v", claim.ErrTransient, err)
	}
	defer resp.Body.Close()

	var rb respBody
	decodeErr := json.NewDecoder(resp.Body).Decode(&rb)
	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return struct{}{}, fmt.Errorf("%w: server answered %d", claim.ErrTransient, resp.StatusCode)
	case resp.StatusCode == http.StatusUnauthorized:
		return struct{}{}, backoff.Permanent(ErrUnauthorized)
	case decodeErr != nil:
		return struct{}{}, fmt.Errorf("%w: can't decode response: %v", claim.ErrTransient, decodeErr)
	case rb.Status == "denied":
		return struct{}{}, backoff.Permanent(&claim.DeniedError{Reason: rb.Reason})
	case rb.Status == "invalid":
		return struct{}{}, backoff.Permanent(fmt.Errorf("%w: %s", claim.ErrValidation, rb.Message))
	case rb.Status == "success":
		if out != nil && len(rb.Data) > 0 {
			if err := json.Unmarshal(rb.Data, out); err != nil {
				return struct{}{}, backoff.Permanent(fmt.Errorf("(*Client).attempt: can't decode data: %w", err))
			}
		}
		return struct{}{}, nil
	default:
		return struct{}{}, fmt.Errorf("%w: unexpected status %q", claim.ErrTransient, rb.Status)
	}
}
