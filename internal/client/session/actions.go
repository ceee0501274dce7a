package session

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/GophPass/internal/client/export"
)

// Copy writes the displayed text to the clipboard and turns on the copy
// feedback, which reverts on its own after the configured duration. It is a
// no-op when nothing is displayed.
func (s *Session) Copy() error {
	s.mu.Lock()
	text := s.states[s.mode].text
	s.mu.Unlock()
	if text == "" {
		return nil
	}

	if err := s.clipboard.WriteAll(text); err != nil {
		s.log.Error("clipboard write failed", zap.Error(err))
		s.notify(LevelError, "Error", "Failed to copy to clipboard.")
		return fmt.Errorf("copy to clipboard: %w", err)
	}

	s.mu.Lock()
	s.copied = true
	s.copySeq++
	seq := s.copySeq
	if s.copyTimer != nil {
		s.copyTimer.Stop()
	}
	s.copyTimer = time.AfterFunc(s.copyFeedback, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.copySeq == seq {
			s.copied = false
		}
	})
	s.mu.Unlock()

	s.notify(LevelInfo, "Copied to clipboard", "Your secure text has been copied!")
	return nil
}

// Download saves the displayed text as a dated plain-text file in dir and
// returns its path. It returns "" when nothing is displayed.
func (s *Session) Download(dir string, now time.Time) (string, error) {
	s.mu.Lock()
	mode := s.mode
	text := s.states[mode].text
	s.mu.Unlock()
	if text == "" {
		return "", nil
	}

	path, err := export.WriteFile(dir, mode, text, now)
	if err != nil {
		s.log.Error("download failed", zap.Error(err))
		s.notify(LevelError, "Error", "Failed to save the file.")
		return "", err
	}
	s.notify(LevelInfo, "Downloaded", fmt.Sprintf("Your secure %s has been downloaded as a text file", mode))
	return path, nil
}
