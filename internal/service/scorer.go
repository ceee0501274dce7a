package service

import (
	"math"
	"unicode"

	"github.com/atinyakov/GophPass/internal/models"
)

// Strength criteria reported in SecurityScore.StrengthDetails.
const (
	CriterionLengthSufficient = "length_sufficient"
	CriterionHasLowercase     = "has_lowercase"
	CriterionHasUppercase     = "has_uppercase"
	CriterionHasNumbers       = "has_numbers"
	CriterionHasSymbols       = "has_symbols"
	CriterionHighEntropy      = "high_entropy"
)

const (
	sufficientLength = 12
	entropyThreshold = 60.0
)

// weights scales the length score and the per-class diversity bonus for one
// usage context.
type weights struct {
	length, letterCase, number, symbol float64
}

var (
	overallWeights = weights{1, 1, 1, 1}
	bankingWeights = weights{1.5, 1.2, 1.2, 1.5}
	socialWeights  = weights{1.2, 1, 1.2, 1}
	emailWeights   = weights{1.3, 1.1, 1.3, 1.2}
)

type traits struct {
	length                      int
	lower, upper, digit, symbol bool
}

func analyze(password string) traits {
	t := traits{length: len(password)}
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			t.lower = true
		case r >= 'A' && r <= 'Z':
			t.upper = true
		case r >= '0' && r <= '9':
			t.digit = true
		case !unicode.IsLetter(r) && !unicode.IsNumber(r):
			t.symbol = true
		}
	}
	return t
}

// entropy is length * log2(charset size) with class sizes 26/26/10/33.
func (t traits) entropy() float64 {
	size := 0
	if t.lower {
		size += 26
	}
	if t.upper {
		size += 26
	}
	if t.digit {
		size += 10
	}
	if t.symbol {
		size += 33
	}
	if size == 0 {
		return 0
	}
	return float64(t.length) * math.Log2(float64(size))
}

func (t traits) score(w weights) int {
	var base float64
	switch {
	case t.length < 8:
		base = 20
	case t.length < 12:
		base = 40
	case t.length < 16:
		base = 60
	default:
		base = 80
	}
	total := base * w.length
	if t.lower {
		total += 5 * w.letterCase
	}
	if t.upper {
		total += 5 * w.letterCase
	}
	if t.digit {
		total += 5 * w.number
	}
	if t.symbol {
		total += 5 * w.symbol
	}
	return int(math.Min(total, models.MaxScore))
}

// Score evaluates password for the overall, banking, social media and email
// contexts. Length is measured in bytes.
func Score(password string) models.SecurityScore {
	t := analyze(password)
	return models.SecurityScore{
		Overall:     t.score(overallWeights),
		Banking:     t.score(bankingWeights),
		SocialMedia: t.score(socialWeights),
		Email:       t.score(emailWeights),
		StrengthDetails: map[string]bool{
			CriterionLengthSufficient: t.length >= sufficientLength,
			CriterionHasLowercase:     t.lower,
			CriterionHasUppercase:     t.upper,
			CriterionHasNumbers:       t.digit,
			CriterionHasSymbols:       t.symbol,
			CriterionHighEntropy:      t.entropy() > entropyThreshold,
		},
	}
}
