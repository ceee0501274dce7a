package session

import (
	"context"

	"go.uber.org/zap"

	"github.com/atinyakov/GophPass/internal/models"
)

// Mount performs the initial password generation. Only the first call has
// an effect.
func (s *Session) Mount(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mounted {
		return
	}
	s.mounted = true
	st := s.states[models.ModePassword]
	if st.text == "" && st.status != StatusLoading {
		s.startGeneration(ctx, models.ModePassword)
	}
}

// SwitchMode activates mode. A generative mode without content that is not
// already loading is generated once; check mode never triggers a request.
func (s *Session) SwitchMode(ctx context.Context, mode models.Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.states[mode]
	if !ok {
		return &models.ValidationError{Field: "mode", Message: "unknown mode " + string(mode)}
	}
	s.mode = mode
	if mode.Generative() && st.text == "" && st.status != StatusLoading {
		s.startGeneration(ctx, mode)
	}
	return nil
}

// Mode returns the active mode.
func (s *Session) Mode() models.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Generate regenerates the active mode's text regardless of existing content.
func (s *Session) Generate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.mode.Generative() {
		return ErrNotGenerative
	}
	return s.startGeneration(ctx, s.mode)
}

// startGeneration dispatches the generation request for mode. Callers hold s.mu.
func (s *Session) startGeneration(ctx context.Context, mode models.Mode) error {
	st := s.states[mode]
	if st.status == StatusLoading {
		return ErrBusy
	}
	id := s.nextID()
	st.pending = id
	st.status = StatusLoading

	switch mode {
	case models.ModePassword:
		opts := s.passwordOpts
		s.dispatch(func() {
			resp, err := s.backend.GeneratePassword(ctx, opts)
			if err != nil {
				s.fail(mode, id, err, "Failed to generate password. Please try again.")
				return
			}
			s.finishGeneration(mode, id, resp.Password, resp.SecurityScore)
		})
	case models.ModePassphrase:
		opts := s.passphraseOpts
		s.dispatch(func() {
			resp, err := s.backend.GeneratePassphrase(ctx, opts)
			if err != nil {
				s.fail(mode, id, err, "Failed to generate passphrase. Please try again.")
				return
			}
			s.finishGeneration(mode, id, resp.Passphrase, resp.SecurityScore)
		})
	}
	s.log.Debug("generation dispatched", zap.String("mode", string(mode)), zap.Uint64("request_id", id))
	return nil
}

// finishGeneration replaces the mode's text and score wholesale and clears
// its breach result.
func (s *Session) finishGeneration(mode models.Mode, id uint64, text string, score models.SecurityScore) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.states[mode]
	if st.pending != id {
		s.log.Debug("discarding stale completion", zap.String("mode", string(mode)), zap.Uint64("request_id", id))
		return
	}
	st.pending = 0
	st.status = StatusLoaded
	st.text = text
	st.rev++
	st.score = &score
	st.breach = nil
}

// fail keeps the previous content, marks the mode errored and notifies.
func (s *Session) fail(mode models.Mode, id uint64, err error, description string) {
	s.mu.Lock()
	st := s.states[mode]
	if st.pending != id {
		s.mu.Unlock()
		s.log.Debug("discarding stale failure", zap.String("mode", string(mode)), zap.Uint64("request_id", id))
		return
	}
	st.pending = 0
	st.status = StatusErrored
	s.mu.Unlock()

	s.log.Error("request failed", zap.String("mode", string(mode)), zap.Uint64("request_id", id), zap.Error(err))
	s.notify(LevelError, "Error", description)
}

// SetCheckInput replaces the text typed in check mode. A changed input
// invalidates the check score and breach result.
func (s *Session) SetCheckInput(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.states[models.ModeCheck]
	if st.text == text {
		return
	}
	st.text = text
	st.rev++
	st.score = nil
	st.breach = nil
}

// CheckStrength scores the check-mode input. Empty input is rejected locally
// without a network call.
func (s *Session) CheckStrength(ctx context.Context) error {
	s.mu.Lock()
	if s.mode != models.ModeCheck {
		s.mu.Unlock()
		return ErrWrongMode
	}
	st := s.states[models.ModeCheck]
	if st.text == "" {
		s.mu.Unlock()
		s.notify(LevelError, "No password entered", "Please enter a password to check")
		return &models.ValidationError{Field: "password", Message: "please enter a password to check"}
	}
	if st.status == StatusLoading {
		s.mu.Unlock()
		return ErrBusy
	}
	id := s.nextID()
	rev := st.rev
	text := st.text
	st.pending = id
	st.status = StatusLoading

	s.dispatch(func() {
		resp, err := s.backend.CheckSecurity(ctx, text)
		if err != nil {
			s.fail(models.ModeCheck, id, err, "Failed to check password. Please try again.")
			return
		}
		s.finishCheck(id, rev, resp.SecurityScore)
	})
	s.mu.Unlock()
	return nil
}

func (s *Session) finishCheck(id, rev uint64, score models.SecurityScore) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.states[models.ModeCheck]
	if st.pending != id {
		s.log.Debug("discarding stale completion", zap.String("mode", string(models.ModeCheck)), zap.Uint64("request_id", id))
		return
	}
	st.pending = 0
	if st.rev != rev {
		// input edited while the request was in flight
		st.status = StatusIdle
		return
	}
	st.status = StatusLoaded
	st.score = &score
	st.breach = nil
}
