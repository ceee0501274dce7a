package middleware

import (
	"net/http"

	"github.com/atinyakov/GophPass/internal/models"
)

// APIVersion rejects requests that ask for an API version other than
// models.APIVersion and echoes the served version on every response.
// Requests without the header are accepted.
func APIVersion(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(models.APIVersionHeader, models.APIVersion)
		if v := r.Header.Get(models.APIVersionHeader); v != "" && v != models.APIVersion {
			http.Error(w, "unsupported API version", http.StatusBadRequest)
			return
		}
		next.ServeHTTP(w, r)
	})
}
