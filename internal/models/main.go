// Package models defines the data exchanged between the GophPass client and
// the password backend, and the options a user picks before generation.
package models

import (
	"fmt"
)

// APIVersionHeader carries the contract version on requests and responses.
const (
	APIVersionHeader = "X-GophPass-API-Version"
	APIVersion       = "1"
)

// Score bounds shared by every per-context score.
const (
	MinScore = 0
	MaxScore = 100
)

// SecurityScore is the backend's multi-context rating of a credential.
type SecurityScore struct {
	// Overall is the aggregate score in [0,100].
	Overall int `json:"overall"`
	// Banking is the suitability for banking sites in [0,100].
	Banking int `json:"banking"`
	// SocialMedia is the suitability for social media accounts in [0,100].
	SocialMedia int `json:"social_media"`
	// Email is the suitability for email accounts in [0,100].
	Email int `json:"email"`
	// StrengthDetails maps backend-defined criteria names to whether they passed.
	StrengthDetails map[string]bool `json:"strength_details"`
}

// Validate checks that every score lies in [0,100]. No ordering between the
// contexts is assumed.
func (s *SecurityScore) Validate() error {
	fields := []struct {
		name  string
		value int
	}{
		{"overall", s.Overall},
		{"banking", s.Banking},
		{"social_media", s.SocialMedia},
		{"email", s.Email},
	}
	for _, f := range fields {
		if f.value < MinScore || f.value > MaxScore {
			return fmt.Errorf("%s score %d out of range [%d,%d]", f.name, f.value, MinScore, MaxScore)
		}
	}
	return nil
}

// PasswordResponse is returned by GET /generate.
type PasswordResponse struct {
	Password      string        `json:"password"`
	SecurityScore SecurityScore `json:"security_score"`
}

// PassphraseResponse is returned by GET /passphrase.
type PassphraseResponse struct {
	Passphrase    string        `json:"passphrase"`
	SecurityScore SecurityScore `json:"security_score"`
}

// SecurityCheckResponse is returned by GET /security-check.
type SecurityCheckResponse struct {
	SecurityScore SecurityScore `json:"security_score"`
}

// BreachResponse is returned by GET /breach-check.
type BreachResponse struct {
	// Breached reports whether the password appears in known breach data.
	Breached bool `json:"breached"`
	// Message is a human readable explanation, displayed verbatim.
	Message string `json:"message"`
}
