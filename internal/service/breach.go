package service

import (
	"bufio"
	"context"
	"crypto/sha1" //nolint:gosec // the range API is keyed by SHA-1
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/atinyakov/GophPass/internal/models"
)

// Breach lookup messages returned to clients.
const (
	MessageBreached    = "This password has been found in data breaches!"
	MessageNotBreached = "No breach found."
	MessageUnavailable = "Could not check breach status."
)

const (
	rangePrefixLen = 5
	breachTimeout  = 5 * time.Second
	maxRangeBody   = 4 << 20
)

// RangeCache stores range API bodies by hash prefix. The bodies are public
// data; neither a password nor a full hash is ever stored.
type RangeCache interface {
	// Get returns the cached body and true, or false on a miss.
	Get(ctx context.Context, prefix string) (string, bool, error)
	// Set stores body under prefix.
	Set(ctx context.Context, prefix, body string) error
}

// BreachChecker looks passwords up in the Pwned Passwords k-anonymity range
// API. Only the first five hex characters of the SHA-1 leave the process.
type BreachChecker struct {
	baseURL string
	client  *http.Client
	cache   RangeCache
	limiter *rate.Limiter
	log     *zap.Logger
}

// BreachOptions configures a BreachChecker.
type BreachOptions struct {
	// BaseURL of the range API, without the /range suffix.
	BaseURL string
	// Client defaults to an http.Client with a 5s timeout.
	Client *http.Client
	// Cache is optional.
	Cache RangeCache
	// RPS limits upstream calls; zero disables the limit.
	RPS   float64
	Burst int
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

// NewBreachChecker builds a BreachChecker from opts.
func NewBreachChecker(opts BreachOptions) *BreachChecker {
	bc := &BreachChecker{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		client:  opts.Client,
		cache:   opts.Cache,
		log:     opts.Logger,
	}
	if bc.client == nil {
		bc.client = &http.Client{Timeout: breachTimeout}
	}
	if bc.log == nil {
		bc.log = zap.NewNop()
	}
	if opts.RPS > 0 {
		bc.limiter = rate.NewLimiter(rate.Limit(opts.RPS), max(opts.Burst, 1))
	}
	return bc
}

// hashPassword returns the uppercase hex SHA-1 split into the range prefix
// and the suffix matched against the range body.
func hashPassword(password string) (prefix, suffix string) {
	sum := sha1.Sum([]byte(password)) //nolint:gosec
	h := strings.ToUpper(hex.EncodeToString(sum[:]))
	return h[:rangePrefixLen], h[rangePrefixLen:]
}

// Check reports whether password appears in breach data. Upstream failures
// are not errors: they yield a not-breached result with MessageUnavailable.
func (bc *BreachChecker) Check(ctx context.Context, password string) models.BreachResponse {
	prefix, suffix := hashPassword(password)

	body, err := bc.rangeBody(ctx, prefix)
	if err != nil {
		bc.log.Warn("breach range lookup failed", zap.String("prefix", prefix), zap.Error(err))
		return models.BreachResponse{Breached: false, Message: MessageUnavailable}
	}
	if rangeContains(body, suffix) {
		return models.BreachResponse{Breached: true, Message: MessageBreached}
	}
	return models.BreachResponse{Breached: false, Message: MessageNotBreached}
}

// rangeBody returns the range body for prefix, from the cache when possible.
// Cache failures fall through to the upstream API.
func (bc *BreachChecker) rangeBody(ctx context.Context, prefix string) (string, error) {
	if bc.cache != nil {
		body, ok, err := bc.cache.Get(ctx, prefix)
		switch {
		case err != nil:
			bc.log.Warn("range cache read failed", zap.Error(err))
		case ok:
			return body, nil
		}
	}

	body, err := bc.fetchRange(ctx, prefix)
	if err != nil {
		return "", err
	}

	if bc.cache != nil {
		if err := bc.cache.Set(ctx, prefix, body); err != nil {
			bc.log.Warn("range cache write failed", zap.Error(err))
		}
	}
	return body, nil
}

func (bc *BreachChecker) fetchRange(ctx context.Context, prefix string) (string, error) {
	if bc.limiter != nil {
		if err := bc.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limit: %w", err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, bc.baseURL+"/range/"+prefix, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Add-Padding", "true")

	resp, err := bc.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("range api: unexpected status %d", resp.StatusCode)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxRangeBody))
	if err != nil {
		return "", fmt.Errorf("range api: %w", err)
	}
	return string(b), nil
}

// rangeContains reports whether a "SUFFIX:COUNT" line matches suffix.
// Padding entries with a zero count do not match.
func rangeContains(body, suffix string) bool {
	sc := bufio.NewScanner(strings.NewReader(body))
	for sc.Scan() {
		hash, count, ok := strings.Cut(strings.TrimSpace(sc.Text()), ":")
		if ok && strings.EqualFold(hash, suffix) && count != "0" {
			return true
		}
	}
	return false
}
