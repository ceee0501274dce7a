package api

import (
	"errors"
	"fmt"

	"github.com/atinyakov/GophPass/internal/models"
)

// Wire shapes use pointers so that absent fields can be told apart from
// zero values. Unknown extra fields are tolerated.

type wireScore struct {
	Overall         *int            `json:"overall"`
	Banking         *int            `json:"banking"`
	SocialMedia     *int            `json:"social_media"`
	Email           *int            `json:"email"`
	StrengthDetails map[string]bool `json:"strength_details"`
}

func (w *wireScore) model() (models.SecurityScore, error) {
	if w == nil {
		return models.SecurityScore{}, errors.New("missing security_score")
	}
	missing := func(name string) error { return fmt.Errorf("security_score: missing %s", name) }
	switch {
	case w.Overall == nil:
		return models.SecurityScore{}, missing("overall")
	case w.Banking == nil:
		return models.SecurityScore{}, missing("banking")
	case w.SocialMedia == nil:
		return models.SecurityScore{}, missing("social_media")
	case w.Email == nil:
		return models.SecurityScore{}, missing("email")
	case w.StrengthDetails == nil:
		return models.SecurityScore{}, missing("strength_details")
	}

	score := models.SecurityScore{
		Overall:         *w.Overall,
		Banking:         *w.Banking,
		SocialMedia:     *w.SocialMedia,
		Email:           *w.Email,
		StrengthDetails: w.StrengthDetails,
	}
	if err := score.Validate(); err != nil {
		return models.SecurityScore{}, fmt.Errorf("security_score: %w", err)
	}
	return score, nil
}

type wirePassword struct {
	Password      *string    `json:"password"`
	SecurityScore *wireScore `json:"security_score"`
}

func (w *wirePassword) model() (*models.PasswordResponse, error) {
	if w.Password == nil || *w.Password == "" {
		return nil, errors.New("missing password")
	}
	score, err := w.SecurityScore.model()
	if err != nil {
		return nil, err
	}
	return &models.PasswordResponse{Password: *w.Password, SecurityScore: score}, nil
}

type wirePassphrase struct {
	Passphrase    *string    `json:"passphrase"`
	SecurityScore *wireScore `json:"security_score"`
}

func (w *wirePassphrase) model() (*models.PassphraseResponse, error) {
	if w.Passphrase == nil || *w.Passphrase == "" {
		return nil, errors.New("missing passphrase")
	}
	score, err := w.SecurityScore.model()
	if err != nil {
		return nil, err
	}
	return &models.PassphraseResponse{Passphrase: *w.Passphrase, SecurityScore: score}, nil
}

type wireSecurityCheck struct {
	SecurityScore *wireScore `json:"security_score"`
}

func (w *wireSecurityCheck) model() (*models.SecurityCheckResponse, error) {
	score, err := w.SecurityScore.model()
	if err != nil {
		return nil, err
	}
	return &models.SecurityCheckResponse{SecurityScore: score}, nil
}

type wireBreach struct {
	Breached *bool   `json:"breached"`
	Message  *string `json:"message"`
}

func (w *wireBreach) model() (*models.BreachResponse, error) {
	if w.Breached == nil {
		return nil, errors.New("missing breached")
	}
	if w.Message == nil {
		return nil, errors.New("missing message")
	}
	return &models.BreachResponse{Breached: *w.Breached, Message: *w.Message}, nil
}
