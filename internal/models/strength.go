package models

// Strength is the coarse label derived from a score.
type Strength int

const (
	Weak Strength = iota
	Medium
	Strong
	VeryStrong
)

// StrengthOf maps a score in [0,100] to its label.
func StrengthOf(score int) Strength {
	switch {
	case score < 30:
		return Weak
	case score < 60:
		return Medium
	case score < 80:
		return Strong
	default:
		return VeryStrong
	}
}

func (s Strength) String() string {
	switch s {
	case Weak:
		return "Weak"
	case Medium:
		return "Medium"
	case Strong:
		return "Strong"
	default:
		return "Very Strong"
	}
}
