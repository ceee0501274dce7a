package session

import (
	"context"

	"go.uber.org/zap"

	"github.com/atinyakov/GophPass/internal/models"
)

// CheckBreach looks the active mode's displayed text up in breach data. Only
// one breach check may be in flight; the result is bound to the mode and
// text it was issued for and never touches generation state.
func (s *Session) CheckBreach(ctx context.Context) error {
	s.mu.Lock()
	mode := s.mode
	st := s.states[mode]
	if st.text == "" {
		s.mu.Unlock()
		description := "Please generate a password first"
		if mode == models.ModeCheck {
			description = "Please enter a password first"
		}
		s.notify(LevelError, "No password to check", description)
		return &models.ValidationError{Field: "password", Message: "nothing to check"}
	}
	if s.breachPending {
		s.mu.Unlock()
		return ErrBusy
	}
	id := s.nextID()
	rev := st.rev
	text := st.text
	s.breachPending = true
	s.breachID = id

	s.dispatch(func() {
		resp, err := s.backend.CheckPasswordBreach(ctx, text)
		s.finishBreach(mode, id, rev, resp, err)
	})
	s.mu.Unlock()
	return nil
}

func (s *Session) finishBreach(mode models.Mode, id, rev uint64, resp *models.BreachResponse, err error) {
	s.mu.Lock()
	if s.breachID == id {
		s.breachPending = false
	}
	if err != nil {
		s.mu.Unlock()
		s.log.Error("breach check failed", zap.String("mode", string(mode)), zap.Uint64("request_id", id), zap.Error(err))
		s.notify(LevelError, "Error", "Failed to check breach status. Please try again.")
		return
	}
	defer s.mu.Unlock()

	st := s.states[mode]
	if st.rev != rev {
		s.log.Debug("discarding breach result for replaced secret", zap.String("mode", string(mode)), zap.Uint64("request_id", id))
		return
	}
	result := *resp
	st.breach = &result
}
