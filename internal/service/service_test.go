package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/GophPass/internal/models"
)

func TestGeneratePassword(t *testing.T) {
	tests := []struct {
		name    string
		opts    models.PasswordOptions
		allowed string
	}{
		{"defaults", models.DefaultPasswordOptions(), lettersCharset + symbolsCharset + numbersCharset},
		{"letters only", models.PasswordOptions{Length: 8}, lettersCharset},
		{"numbers", models.PasswordOptions{Length: 64, Numbers: true}, lettersCharset + numbersCharset},
		{"symbols", models.PasswordOptions{Length: 32, Symbols: true}, lettersCharset + symbolsCharset},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pw, err := GeneratePassword(tt.opts)
			require.NoError(t, err)
			assert.Len(t, pw, tt.opts.Length)
			for _, r := range pw {
				assert.True(t, strings.ContainsRune(tt.allowed, r), "unexpected %q", r)
			}
		})
	}
}

func TestGeneratePassword_Invalid(t *testing.T) {
	for _, n := range []int{0, 7, 65} {
		_, err := GeneratePassword(models.PasswordOptions{Length: n})
		var ve *models.ValidationError
		require.ErrorAs(t, err, &ve, "length %d", n)
	}
}

func TestGeneratePassword_Distinct(t *testing.T) {
	seen := make(map[string]bool)
	for range 50 {
		pw, err := GeneratePassword(models.DefaultPasswordOptions())
		require.NoError(t, err)
		assert.False(t, seen[pw])
		seen[pw] = true
	}
}

func TestGeneratePassphrase(t *testing.T) {
	src := StaticWords{"alpha", "bravo", "charlie"}

	phrase, err := GeneratePassphrase(context.Background(), src, models.PassphraseOptions{Words: 5})
	require.NoError(t, err)
	parts := strings.Split(phrase, "-")
	require.Len(t, parts, 5)
	for _, p := range parts {
		assert.Contains(t, []string(src), p)
	}

	_, err = GeneratePassphrase(context.Background(), src, models.PassphraseOptions{Words: 11})
	assert.Error(t, err)
}

func TestRemoteWords(t *testing.T) {
	t.Run("remote list", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`["north"," ","south"]`))
		}))
		defer srv.Close()

		words := NewRemoteWords(srv.URL, nil).Words(context.Background())
		assert.Equal(t, []string{"north", "south"}, words)
	})

	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}},
		{"bad json", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"words":1}`))
		}},
		{"empty list", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()
			assert.Equal(t, fallbackWords, NewRemoteWords(srv.URL, nil).Words(context.Background()))
		})
	}

	t.Run("no url", func(t *testing.T) {
		assert.Equal(t, fallbackWords, NewRemoteWords("", nil).Words(context.Background()))
	})
}

func TestScore(t *testing.T) {
	tests := []struct {
		password string
		want     models.SecurityScore
	}{
		{"", models.SecurityScore{Overall: 20, Banking: 30, SocialMedia: 24, Email: 26}},
		{"abc", models.SecurityScore{Overall: 25, Banking: 36, SocialMedia: 29, Email: 31}},
		{"password123", models.SecurityScore{Overall: 50, Banking: 72, SocialMedia: 59, Email: 64}},
		{"Tr0ub4dor&3", models.SecurityScore{Overall: 60, Banking: 85, SocialMedia: 69, Email: 75}},
		{"Xk9#mP2$vL8@nQ4!", models.SecurityScore{Overall: 100, Banking: 100, SocialMedia: 100, Email: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			got := Score(tt.password)
			assert.Equal(t, tt.want.Overall, got.Overall)
			assert.Equal(t, tt.want.Banking, got.Banking)
			assert.Equal(t, tt.want.SocialMedia, got.SocialMedia)
			assert.Equal(t, tt.want.Email, got.Email)
			assert.NoError(t, got.Validate())
		})
	}
}

func TestScore_Details(t *testing.T) {
	got := Score("Tr0ub4dor&3").StrengthDetails
	assert.Equal(t, map[string]bool{
		CriterionLengthSufficient: false,
		CriterionHasLowercase:     true,
		CriterionHasUppercase:     true,
		CriterionHasNumbers:       true,
		CriterionHasSymbols:       true,
		CriterionHighEntropy:      true,
	}, got)

	got = Score("apple-rive").StrengthDetails
	assert.True(t, got[CriterionHasSymbols])
	assert.False(t, got[CriterionHasUppercase])
	assert.False(t, got[CriterionHighEntropy], "10*log2(59) is below 60 bits")
}

func TestHashPassword(t *testing.T) {
	prefix, suffix := hashPassword("password")
	assert.Equal(t, "5BAA6", prefix)
	assert.Equal(t, "1E4C9B93F3F0682250B6CF8331B7EE68FD8", suffix)
}

func TestRangeContains(t *testing.T) {
	body := "0018A45C4D1DEF81644B54AB7F969B88D65:1\r\n1E4C9B93F3F0682250B6CF8331B7EE68FD8:9545824\r\nAAAAA:0\r\n"
	assert.True(t, rangeContains(body, "1E4C9B93F3F0682250B6CF8331B7EE68FD8"))
	assert.False(t, rangeContains(body, "FFFFF"))
	assert.False(t, rangeContains(body, "AAAAA"), "padding entries never match")
}

// memCache is an in-memory RangeCache.
type memCache struct {
	mu      sync.Mutex
	data    map[string]string
	failGet bool
	sets    int
}

func (c *memCache) Get(_ context.Context, prefix string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failGet {
		return "", false, errors.New("cache down")
	}
	v, ok := c.data[prefix]
	return v, ok, nil
}

func (c *memCache) Set(_ context.Context, prefix, body string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data == nil {
		c.data = make(map[string]string)
	}
	c.data[prefix] = body
	c.sets++
	return nil
}

func newRangeServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	_, suffix := hashPassword("password")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/range/5BAA6" {
			_, _ = w.Write([]byte("0018A45C4D1DEF81644B54AB7F969B88D65:1\n"))
			return
		}
		_, _ = fmt.Fprintf(w, "0018A45C4D1DEF81644B54AB7F969B88D65:1\n%s:42\n", suffix)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestBreachChecker(t *testing.T) {
	var hits atomic.Int32
	srv := newRangeServer(t, &hits)
	bc := NewBreachChecker(BreachOptions{BaseURL: srv.URL + "/"})

	got := bc.Check(context.Background(), "password")
	assert.Equal(t, models.BreachResponse{Breached: true, Message: MessageBreached}, got)

	got = bc.Check(context.Background(), "correct horse battery staple")
	assert.Equal(t, models.BreachResponse{Breached: false, Message: MessageNotBreached}, got)
}

func TestBreachChecker_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	got := NewBreachChecker(BreachOptions{BaseURL: srv.URL}).Check(context.Background(), "password")
	assert.Equal(t, models.BreachResponse{Breached: false, Message: MessageUnavailable}, got)

	srv.Close()
	got = NewBreachChecker(BreachOptions{BaseURL: srv.URL}).Check(context.Background(), "password")
	assert.Equal(t, MessageUnavailable, got.Message)
}

func TestBreachChecker_Cache(t *testing.T) {
	var hits atomic.Int32
	srv := newRangeServer(t, &hits)
	cache := &memCache{}
	bc := NewBreachChecker(BreachOptions{BaseURL: srv.URL, Cache: cache})

	for range 3 {
		assert.True(t, bc.Check(context.Background(), "password").Breached)
	}
	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, 1, cache.sets)
	for prefix, body := range cache.data {
		assert.Len(t, prefix, rangePrefixLen)
		assert.NotContains(t, body, "password")
	}
}

func TestBreachChecker_CacheFailureFallsThrough(t *testing.T) {
	var hits atomic.Int32
	srv := newRangeServer(t, &hits)
	bc := NewBreachChecker(BreachOptions{BaseURL: srv.URL, Cache: &memCache{failGet: true}})

	assert.True(t, bc.Check(context.Background(), "password").Breached)
	assert.True(t, bc.Check(context.Background(), "password").Breached)
	assert.Equal(t, int32(2), hits.Load())
}

func TestBreachChecker_RateLimit(t *testing.T) {
	var hits atomic.Int32
	srv := newRangeServer(t, &hits)
	bc := NewBreachChecker(BreachOptions{BaseURL: srv.URL, RPS: 20, Burst: 1})

	start := time.Now()
	for range 3 {
		bc.Check(context.Background(), "password")
	}
	assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, MessageUnavailable, bc.Check(ctx, "password").Message)
}

type fixedBreach models.BreachResponse

func (f fixedBreach) Check(context.Context, string) models.BreachResponse {
	return models.BreachResponse(f)
}

func TestService(t *testing.T) {
	svc := NewPasswordService(StaticWords{"river"}, fixedBreach{Breached: true, Message: MessageBreached})
	ctx := context.Background()

	pw, err := svc.GeneratePassword(ctx, models.DefaultPasswordOptions())
	require.NoError(t, err)
	assert.Len(t, pw.Password, 16)
	assert.Equal(t, Score(pw.Password), pw.SecurityScore)

	pp, err := svc.GeneratePassphrase(ctx, models.PassphraseOptions{Words: 3})
	require.NoError(t, err)
	assert.Equal(t, "river-river-river", pp.Passphrase)

	sc, err := svc.CheckSecurity(ctx, "password123")
	require.NoError(t, err)
	assert.Equal(t, 50, sc.SecurityScore.Overall)

	br, err := svc.CheckBreach(ctx, "password123")
	require.NoError(t, err)
	assert.True(t, br.Breached)

	_, err = svc.GeneratePassword(ctx, models.PasswordOptions{Length: 100})
	var ve *models.ValidationError
	assert.ErrorAs(t, err, &ve)
}
