package models

import (
	"fmt"
)

// Option bounds.
const (
	MinPasswordLength  = 8
	MaxPasswordLength  = 64
	MinPassphraseWords = 2
	MaxPassphraseWords = 10
)

// ValidationError reports input rejected locally, before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// PasswordOptions controls random password generation.
type PasswordOptions struct {
	Length  int  `json:"length"`
	Symbols bool `json:"symbols"`
	Numbers bool `json:"numbers"`
}

// DefaultPasswordOptions returns length 16 with symbols and numbers enabled.
func DefaultPasswordOptions() PasswordOptions {
	return PasswordOptions{Length: 16, Symbols: true, Numbers: true}
}

// Validate checks the length bounds.
func (o PasswordOptions) Validate() error {
	if o.Length < MinPasswordLength || o.Length > MaxPasswordLength {
		return &ValidationError{
			Field:   "length",
			Message: fmt.Sprintf("must be between %d and %d, got %d", MinPasswordLength, MaxPasswordLength, o.Length),
		}
	}
	return nil
}

// PassphraseOptions controls passphrase generation.
type PassphraseOptions struct {
	Words int `json:"words"`
}

// DefaultPassphraseOptions returns four words.
func DefaultPassphraseOptions() PassphraseOptions {
	return PassphraseOptions{Words: 4}
}

// Validate checks the word count bounds.
func (o PassphraseOptions) Validate() error {
	if o.Words < MinPassphraseWords || o.Words > MaxPassphraseWords {
		return &ValidationError{
			Field:   "words",
			Message: fmt.Sprintf("must be between %d and %d, got %d", MinPassphraseWords, MaxPassphraseWords, o.Words),
		}
	}
	return nil
}

// Mode is one of the mutually exclusive client tabs.
type Mode string

const (
	// ModePassword generates random character passwords.
	ModePassword Mode = "password"
	// ModePassphrase generates word based passphrases.
	ModePassphrase Mode = "passphrase"
	// ModeCheck scores a user supplied password.
	ModeCheck Mode = "check"
)

// Modes lists every mode in display order.
var Modes = []Mode{ModePassword, ModePassphrase, ModeCheck}

// ParseMode converts user input into a Mode.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", &ValidationError{Field: "mode", Message: fmt.Sprintf("unknown mode %q", s)}
}

// Generative reports whether the mode produces its own text.
func (m Mode) Generative() bool {
	return m == ModePassword || m == ModePassphrase
}

// Title is the human readable mode name.
func (m Mode) Title() string {
	switch m {
	case ModePassword:
		return "Password"
	case ModePassphrase:
		return "Passphrase"
	case ModeCheck:
		return "Check Password"
	}
	return string(m)
}
