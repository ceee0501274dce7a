package session

import (
	"maps"

	"github.com/atinyakov/GophPass/internal/models"
)

// ModeView is a copy of one mode's display state.
type ModeView struct {
	Text   string
	Score  *models.SecurityScore
	Status Status
	Breach *models.BreachResponse
}

// View is an immutable snapshot used for rendering.
type View struct {
	Mode              models.Mode
	Modes             map[models.Mode]ModeView
	PasswordOptions   models.PasswordOptions
	PassphraseOptions models.PassphraseOptions
	BreachPending     bool
	Copied            bool
}

// Active returns the active mode's state.
func (v View) Active() ModeView {
	return v.Modes[v.Mode]
}

// Loading reports whether the active mode has a request in flight.
func (v View) Loading() bool {
	return v.Active().Status == StatusLoading
}

// CanGenerate reports whether the Generate action is enabled.
func (v View) CanGenerate() bool {
	return v.Mode.Generative() && !v.Loading()
}

// CanCheckStrength reports whether the Check Password Strength action is enabled.
func (v View) CanCheckStrength() bool {
	return v.Mode == models.ModeCheck && !v.Loading() && v.Active().Text != ""
}

// CanCheckBreach reports whether the breach trigger is enabled.
func (v View) CanCheckBreach() bool {
	return !v.BreachPending && v.Active().Text != ""
}

// CanExport reports whether Copy and Download are enabled.
func (v View) CanExport() bool {
	return v.Active().Text != ""
}

// Snapshot copies the current display state.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		Mode:              s.mode,
		Modes:             make(map[models.Mode]ModeView, len(s.states)),
		PasswordOptions:   s.passwordOpts,
		PassphraseOptions: s.passphraseOpts,
		BreachPending:     s.breachPending,
		Copied:            s.copied,
	}
	for m, st := range s.states {
		mv := ModeView{Text: st.text, Status: st.status}
		if st.score != nil {
			score := *st.score
			score.StrengthDetails = maps.Clone(st.score.StrengthDetails)
			mv.Score = &score
		}
		if st.breach != nil {
			breach := *st.breach
			mv.Breach = &breach
		}
		v.Modes[m] = mv
	}
	return v
}
