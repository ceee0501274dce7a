// Package http provides the HTTP handlers and routing for the GophPass
// password service.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/atinyakov/GophPass/internal/models"
)

// PasswordService defines the operations required by the PasswordHandler.
type PasswordService interface {
	// GeneratePassword returns a random password with its score.
	GeneratePassword(ctx context.Context, opts models.PasswordOptions) (*models.PasswordResponse, error)
	// GeneratePassphrase returns a random passphrase with its score.
	GeneratePassphrase(ctx context.Context, opts models.PassphraseOptions) (*models.PassphraseResponse, error)
	// CheckSecurity scores a caller-supplied password.
	CheckSecurity(ctx context.Context, password string) (*models.SecurityCheckResponse, error)
	// CheckBreach looks a caller-supplied password up in breach data.
	CheckBreach(ctx context.Context, password string) (*models.BreachResponse, error)
}

// PasswordHandler handles the generation and check endpoints.
type PasswordHandler struct {
	Service PasswordService
	Log     *zap.Logger
}

// Generate handles GET /generate?length=&symbols=&numbers=.
// Missing parameters take their defaults.
func (h *PasswordHandler) Generate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := models.DefaultPasswordOptions()

	var err error
	if opts.Length, err = intParam(q, "length", opts.Length); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if opts.Symbols, err = boolParam(q, "symbols", opts.Symbols); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if opts.Numbers, err = boolParam(q, "numbers", opts.Numbers); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := h.Service.GeneratePassword(r.Context(), opts)
	h.respond(w, resp, err)
}

// Passphrase handles GET /passphrase?words=.
func (h *PasswordHandler) Passphrase(w http.ResponseWriter, r *http.Request) {
	opts := models.DefaultPassphraseOptions()

	var err error
	if opts.Words, err = intParam(r.URL.Query(), "words", opts.Words); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := h.Service.GeneratePassphrase(r.Context(), opts)
	h.respond(w, resp, err)
}

// SecurityCheck handles GET /security-check?password=.
func (h *PasswordHandler) SecurityCheck(w http.ResponseWriter, r *http.Request) {
	password, ok := passwordParam(w, r)
	if !ok {
		return
	}
	resp, err := h.Service.CheckSecurity(r.Context(), password)
	h.respond(w, resp, err)
}

// BreachCheck handles GET /breach-check?password=.
func (h *PasswordHandler) BreachCheck(w http.ResponseWriter, r *http.Request) {
	password, ok := passwordParam(w, r)
	if !ok {
		return
	}
	resp, err := h.Service.CheckBreach(r.Context(), password)
	h.respond(w, resp, err)
}

// respond writes resp as JSON. Validation errors map to 400, anything else
// to 500 without exposing details.
func (h *PasswordHandler) respond(w http.ResponseWriter, resp any, err error) {
	if err != nil {
		var ve *models.ValidationError
		if errors.As(err, &ve) {
			http.Error(w, ve.Error(), http.StatusBadRequest)
			return
		}
		if h.Log != nil {
			h.Log.Error("request failed", zap.Error(err))
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func passwordParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	q := r.URL.Query()
	if !q.Has("password") {
		http.Error(w, "missing password parameter", http.StatusBadRequest)
		return "", false
	}
	return q.Get("password"), true
}

func intParam(q url.Values, name string, def int) (int, error) {
	if !q.Has(name) {
		return def, nil
	}
	v, err := strconv.Atoi(q.Get(name))
	if err != nil {
		return 0, &models.ValidationError{Field: name, Message: "must be an integer"}
	}
	return v, nil
}

func boolParam(q url.Values, name string, def bool) (bool, error) {
	if !q.Has(name) {
		return def, nil
	}
	v, err := strconv.ParseBool(q.Get(name))
	if err != nil {
		return false, &models.ValidationError{Field: name, Message: "must be true or false"}
	}
	return v, nil
}
