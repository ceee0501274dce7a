// Package api is the HTTP transport between the GophPass client and the
// password backend. Every operation is a GET with query parameters and a JSON
// answer that is validated against the expected shape before it is returned.
//
// Candidate passwords travel in the query string. The client therefore never
// logs request URLs, and strips them from network errors.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/atinyakov/GophPass/internal/models"
)

const (
	pathGenerate      = "/generate"
	pathPassphrase    = "/passphrase"
	pathSecurityCheck = "/security-check"
	pathBreachCheck   = "/breach-check"

	opGeneratePassword   = "generate password"
	opGeneratePassphrase = "generate passphrase"
	opCheckSecurity      = "check security"
	opCheckBreach        = "check breach"

	// HeaderRequestID carries a per-request uuid for log correlation.
	HeaderRequestID = "X-Request-ID"

	maxBodySize  = 1 << 20
	maxErrorBody = 512
)

// ClientOptions configures a Client.
type ClientOptions struct {
	// BaseURL is the backend root, e.g. "http://localhost:8080".
	BaseURL string
	// Timeout bounds each request. Zero means no timeout.
	Timeout time.Duration
	// MaxRPS limits outgoing requests per second. Zero disables limiting.
	MaxRPS float64
	// CAFile is an optional PEM bundle trusted for HTTPS backends.
	CAFile string
	// HTTPClient replaces the client built from Timeout and CAFile.
	HTTPClient *http.Client
	// Logger receives request diagnostics. Nil means no logging.
	Logger *zap.Logger
}

// Client talks to the password backend.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	limiter *rate.Limiter
	log     *zap.Logger
}

// NewClient validates opts and builds a Client.
func NewClient(opts ClientOptions) (*Client, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", opts.BaseURL)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: missing host", opts.BaseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient, err = newHTTPClient(opts.Timeout, opts.CAFile)
		if err != nil {
			return nil, err
		}
	}

	c := &Client{
		baseURL: base,
		http:    httpClient,
		log:     opts.Logger,
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	if opts.MaxRPS > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.MaxRPS), 1)
	}
	return c, nil
}

// GeneratePassword asks the backend for a random password.
func (c *Client) GeneratePassword(ctx context.Context, opts models.PasswordOptions) (*models.PasswordResponse, error) {
	q := query{
		{"length", strconv.Itoa(opts.Length)},
		{"symbols", strconv.FormatBool(opts.Symbols)},
		{"numbers", strconv.FormatBool(opts.Numbers)},
	}

	var (
		w   wirePassword
		out *models.PasswordResponse
	)
	err := c.get(ctx, opGeneratePassword, pathGenerate, q, &w, func() (err error) {
		out, err = w.model()
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GeneratePassphrase asks the backend for a word based passphrase.
func (c *Client) GeneratePassphrase(ctx context.Context, opts models.PassphraseOptions) (*models.PassphraseResponse, error) {
	q := query{{"words", strconv.Itoa(opts.Words)}}

	var (
		w   wirePassphrase
		out *models.PassphraseResponse
	)
	err := c.get(ctx, opGeneratePassphrase, pathPassphrase, q, &w, func() (err error) {
		out, err = w.model()
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CheckSecurity scores a user supplied password.
func (c *Client) CheckSecurity(ctx context.Context, password string) (*models.SecurityCheckResponse, error) {
	var (
		w   wireSecurityCheck
		out *models.SecurityCheckResponse
	)
	err := c.get(ctx, opCheckSecurity, pathSecurityCheck, query{{"password", password}}, &w, func() (err error) {
		out, err = w.model()
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CheckPasswordBreach looks the password up in known breach data.
func (c *Client) CheckPasswordBreach(ctx context.Context, password string) (*models.BreachResponse, error) {
	var (
		w   wireBreach
		out *models.BreachResponse
	)
	err := c.get(ctx, opCheckBreach, pathBreachCheck, query{{"password", password}}, &w, func() (err error) {
		out, err = w.model()
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// query keeps parameters in insertion order.
type query [][2]string

func (q query) encode() string {
	parts := make([]string, 0, len(q))
	for _, kv := range q {
		parts = append(parts, url.QueryEscape(kv[0])+"="+url.QueryEscape(kv[1]))
	}
	return strings.Join(parts, "&")
}

// get performs the request, decodes the body into out and runs check to
// enforce the expected shape.
func (c *Client) get(ctx context.Context, op, path string, q query, out any, check func() error) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &TransportError{Op: op, Err: fmt.Errorf("rate limiter: %w", err)}
		}
	}

	u := c.baseURL.JoinPath(path)
	u.RawQuery = q.encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("creating request: %w", err)}
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(models.APIVersionHeader, models.APIVersion)
	req.Header.Set(HeaderRequestID, reqID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		// url.Error embeds the full URL, query included.
		var uErr *url.Error
		if errors.As(err, &uErr) {
			err = uErr.Err
		}
		c.log.Warn("request failed",
			zap.String("op", op),
			zap.String("path", path),
			zap.String("request_id", reqID),
			zap.Error(err),
		)
		return &TransportError{Op: op, Err: fmt.Errorf("request %s: %w", path, err)}
	}
	defer resp.Body.Close()

	c.log.Debug("request completed",
		zap.String("op", op),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", reqID),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &TransportError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: %s", ErrUnexpectedStatus, strings.TrimSpace(string(body))),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return &TransportError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("reading body: %w", err)}
	}
	if len(body) > maxBodySize {
		return &TransportError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: body exceeds %d bytes", ErrMalformedResponse, maxBodySize),
		}
	}
	// Unmarshal rejects anything after the first JSON value.
	if err := json.Unmarshal(body, out); err != nil {
		return &TransportError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: %v", ErrMalformedResponse, err),
		}
	}
	if err := check(); err != nil {
		return &TransportError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: %v", ErrMalformedResponse, err),
		}
	}
	return nil
}
