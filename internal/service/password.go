package service

import (
	"context"
	"fmt"

	"github.com/atinyakov/GophPass/internal/models"
)

// BreachLookup reports whether a password appears in breach data.
type BreachLookup interface {
	Check(ctx context.Context, password string) models.BreachResponse
}

// Service implements the password operations exposed over HTTP.
type Service struct {
	// words supplies passphrase words.
	words WordSource
	// breach performs breach lookups.
	breach BreachLookup
}

// NewPasswordService constructs a Service from a word source and a breach
// lookup.
func NewPasswordService(words WordSource, breach BreachLookup) *Service {
	return &Service{words: words, breach: breach}
}

// GeneratePassword generates and scores a password.
func (s *Service) GeneratePassword(_ context.Context, opts models.PasswordOptions) (*models.PasswordResponse, error) {
	password, err := GeneratePassword(opts)
	if err != nil {
		return nil, fmt.Errorf("generate password: %w", err)
	}
	return &models.PasswordResponse{Password: password, SecurityScore: Score(password)}, nil
}

// GeneratePassphrase generates and scores a passphrase.
func (s *Service) GeneratePassphrase(ctx context.Context, opts models.PassphraseOptions) (*models.PassphraseResponse, error) {
	phrase, err := GeneratePassphrase(ctx, s.words, opts)
	if err != nil {
		return nil, fmt.Errorf("generate passphrase: %w", err)
	}
	return &models.PassphraseResponse{Passphrase: phrase, SecurityScore: Score(phrase)}, nil
}

// CheckSecurity scores a caller-supplied password.
func (s *Service) CheckSecurity(_ context.Context, password string) (*models.SecurityCheckResponse, error) {
	return &models.SecurityCheckResponse{SecurityScore: Score(password)}, nil
}

// CheckBreach looks a password up in breach data.
func (s *Service) CheckBreach(ctx context.Context, password string) (*models.BreachResponse, error) {
	resp := s.breach.Check(ctx, password)
	return &resp, nil
}
