package api

import (
	"context"
	"encoding/pem"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/GophPass/internal/models"
)

const scoreJSON = `{"overall":78,"banking":65,"social_media":81,"email":70,"strength_details":{"has_uppercase":true,"min_length":false}}`

// roundTripperFunc lets tests stub the transport.
type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := NewClient(ClientOptions{BaseURL: srv.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)
	return c
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	for _, base := range []string{"", "localhost:8080", "ftp://host", "http://"} {
		_, err := NewClient(ClientOptions{BaseURL: base})
		assert.Error(t, err, "base %q", base)
	}
}

func TestGeneratePassword(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/generate", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, models.APIVersion, r.Header.Get(models.APIVersionHeader))
		assert.NotEmpty(t, r.Header.Get(HeaderRequestID))
		gotQuery = r.URL.RawQuery
		fmt.Fprintf(w, `{"password":"Xy7!aQ9#mN2$pL4&","security_score":%s}`, scoreJSON)
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	resp, err := c.GeneratePassword(context.Background(), models.PasswordOptions{Length: 16, Symbols: true, Numbers: true})
	require.NoError(t, err)

	assert.Equal(t, "length=16&symbols=true&numbers=true", gotQuery)
	assert.Equal(t, "Xy7!aQ9#mN2$pL4&", resp.Password)
	assert.Equal(t, 78, resp.SecurityScore.Overall)
	assert.Equal(t, 81, resp.SecurityScore.SocialMedia)
	assert.Equal(t, map[string]bool{"has_uppercase": true, "min_length": false}, resp.SecurityScore.StrengthDetails)
}

func TestGeneratePassword_LengthSentVerbatim(t *testing.T) {
	for _, length := range []int{8, 9, 33, 63, 64} {
		t.Run(fmt.Sprint(length), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, fmt.Sprint(length), r.URL.Query().Get("length"))
				fmt.Fprintf(w, `{"password":%q,"security_score":%s}`, strings.Repeat("a", length), scoreJSON)
			}))
			defer srv.Close()

			resp, err := newTestClient(t, srv).GeneratePassword(context.Background(), models.PasswordOptions{Length: length})
			require.NoError(t, err)
			assert.Len(t, resp.Password, length)
		})
	}
}

func TestGeneratePassphrase(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/passphrase", r.URL.Path)
		assert.Equal(t, "words=5", r.URL.RawQuery)
		fmt.Fprintf(w, `{"passphrase":"apple-river-tiger-pearl-night","security_score":%s}`, scoreJSON)
	}))
	defer srv.Close()

	resp, err := newTestClient(t, srv).GeneratePassphrase(context.Background(), models.PassphraseOptions{Words: 5})
	require.NoError(t, err)
	assert.Equal(t, "apple-river-tiger-pearl-night", resp.Passphrase)
	assert.Equal(t, 65, resp.SecurityScore.Banking)
}

func TestCheckSecurity_EscapesPassword(t *testing.T) {
	secret := "p@ss word&x=1#"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/security-check", r.URL.Path)
		assert.Equal(t, secret, r.URL.Query().Get("password"))
		fmt.Fprintf(w, `{"security_score":%s}`, scoreJSON)
	}))
	defer srv.Close()

	resp, err := newTestClient(t, srv).CheckSecurity(context.Background(), secret)
	require.NoError(t, err)
	assert.Equal(t, 70, resp.SecurityScore.Email)
}

func TestCheckPasswordBreach(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/breach-check", r.URL.Path)
		assert.Equal(t, "password123", r.URL.Query().Get("password"))
		fmt.Fprint(w, `{"breached":true,"message":"This password has been found in data breaches!"}`)
	}))
	defer srv.Close()

	resp, err := newTestClient(t, srv).CheckPasswordBreach(context.Background(), "password123")
	require.NoError(t, err)
	assert.True(t, resp.Breached)
	assert.Equal(t, "This password has been found in data breaches!", resp.Message)
}

func TestTransportErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantErr    error
	}{
		{name: "server error", status: 500, body: "internal error\n", wantStatus: 500, wantErr: ErrUnexpectedStatus},
		{name: "bad request", status: 400, body: "invalid length", wantStatus: 400, wantErr: ErrUnexpectedStatus},
		{name: "not json", status: 200, body: "<html>", wantStatus: 200, wantErr: ErrMalformedResponse},
		{name: "null body", status: 200, body: "null", wantStatus: 200, wantErr: ErrMalformedResponse},
		{
			name:       "trailing data",
			status:     200,
			body:       `{"password":"abc","security_score":` + scoreJSON + `} <html>garbage`,
			wantStatus: 200,
			wantErr:    ErrMalformedResponse,
		},
		{
			name:       "two json values",
			status:     200,
			body:       `{"password":"abc","security_score":` + scoreJSON + `}{}`,
			wantStatus: 200,
			wantErr:    ErrMalformedResponse,
		},
		{
			name:       "oversized body",
			status:     200,
			body:       `{"password":"` + strings.Repeat("a", maxBodySize) + `","security_score":` + scoreJSON + `}`,
			wantStatus: 200,
			wantErr:    ErrMalformedResponse,
		},
		{name: "missing password", status: 200, body: `{"security_score":` + scoreJSON + `}`, wantStatus: 200, wantErr: ErrMalformedResponse},
		{name: "missing score", status: 200, body: `{"password":"abc"}`, wantStatus: 200, wantErr: ErrMalformedResponse},
		{
			name:       "score out of range",
			status:     200,
			body:       `{"password":"abc","security_score":{"overall":140,"banking":1,"social_media":1,"email":1,"strength_details":{}}}`,
			wantStatus: 200,
			wantErr:    ErrMalformedResponse,
		},
		{
			name:       "missing strength details",
			status:     200,
			body:       `{"password":"abc","security_score":{"overall":40,"banking":1,"social_media":1,"email":1}}`,
			wantStatus: 200,
			wantErr:    ErrMalformedResponse,
		},
		{
			name:       "fractional score",
			status:     200,
			body:       `{"password":"abc","security_score":{"overall":40.5,"banking":1,"social_media":1,"email":1,"strength_details":{}}}`,
			wantStatus: 200,
			wantErr:    ErrMalformedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			_, err := newTestClient(t, srv).GeneratePassword(context.Background(), models.DefaultPasswordOptions())
			require.Error(t, err)

			var tErr *TransportError
			require.True(t, errors.As(err, &tErr))
			assert.Equal(t, opGeneratePassword, tErr.Op)
			assert.Equal(t, tt.wantStatus, tErr.StatusCode)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBreachTrailingData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"breached":true,"message":"x"} <html>garbage`)
	}))
	defer srv.Close()

	resp, err := newTestClient(t, srv).CheckPasswordBreach(context.Background(), "password123")
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestTrailingWhitespaceAccepted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "{\"breached\":false,\"message\":\"No breach found.\"}\n\n")
	}))
	defer srv.Close()

	resp, err := newTestClient(t, srv).CheckPasswordBreach(context.Background(), "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "No breach found.", resp.Message)
}

func TestBreachMissingFields(t *testing.T) {
	for _, body := range []string{`{"message":"x"}`, `{"breached":false}`} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, body)
		}))
		_, err := newTestClient(t, srv).CheckPasswordBreach(context.Background(), "x")
		srv.Close()
		assert.ErrorIs(t, err, ErrMalformedResponse, "body %s", body)
	}
}

func TestNetworkErrorDoesNotLeakPassword(t *testing.T) {
	c, err := NewClient(ClientOptions{
		BaseURL: "http://backend.invalid",
		HTTPClient: &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			return nil, errors.New("network down")
		})},
	})
	require.NoError(t, err)

	_, err = c.CheckSecurity(context.Background(), "hunter2-secret")
	require.Error(t, err)

	var tErr *TransportError
	require.True(t, errors.As(err, &tErr))
	assert.Zero(t, tErr.StatusCode)
	assert.Contains(t, err.Error(), "network down")
	assert.NotContains(t, err.Error(), "hunter2-secret")
}

func TestContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not reach the server")
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(t, srv).GeneratePassphrase(ctx, models.DefaultPassphraseOptions())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRateLimitedClient(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, `{"breached":false,"message":"No breach found."}`)
	}))
	defer srv.Close()

	c, err := NewClient(ClientOptions{BaseURL: srv.URL, MaxRPS: 20})
	require.NoError(t, err)

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := c.CheckPasswordBreach(context.Background(), "x")
		require.NoError(t, err)
	}
	assert.Equal(t, 3, hits)
	assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
}

func TestCAFile(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"breached":false,"message":"No breach found."}`)
	}))
	defer srv.Close()

	caPath := filepath.Join(t.TempDir(), "ca.crt")
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: srv.Certificate().Raw})
	require.NoError(t, os.WriteFile(caPath, certPEM, 0o600))

	c, err := NewClient(ClientOptions{BaseURL: srv.URL, CAFile: caPath, Timeout: 5 * time.Second})
	require.NoError(t, err)
	resp, err := c.CheckPasswordBreach(context.Background(), "x")
	require.NoError(t, err)
	assert.False(t, resp.Breached)

	// without the CA the handshake fails
	plain, err := NewClient(ClientOptions{BaseURL: srv.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)
	_, err = plain.CheckPasswordBreach(context.Background(), "x")
	assert.Error(t, err)
}

func TestCAFile_Invalid(t *testing.T) {
	_, err := NewClient(ClientOptions{BaseURL: "https://localhost", CAFile: "/no/such/ca.crt"})
	assert.ErrorContains(t, err, "failed to read CA cert")

	bad := filepath.Join(t.TempDir(), "bad.crt")
	require.NoError(t, os.WriteFile(bad, []byte("not a pem"), 0o600))
	_, err = NewClient(ClientOptions{BaseURL: "https://localhost", CAFile: bad})
	assert.ErrorContains(t, err, "failed to parse CA cert")
}
