// Package export implements the local side effects over a displayed secret:
// clipboard writes and plain-text file downloads. Nothing here touches the
// network.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"

	"github.com/atinyakov/GophPass/internal/models"
)

// SystemClipboard writes to the operating system clipboard.
type SystemClipboard struct{}

// WriteAll replaces the clipboard content with text.
func (SystemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return errors.New("clipboard is not supported on this system")
	}
	return clipboard.WriteAll(text)
}

// FileName returns "<prefix>-YYYY-MM-DD.txt" for the mode, dated in UTC.
func FileName(mode models.Mode, now time.Time) string {
	var prefix string
	switch mode {
	case models.ModePassword:
		prefix = "secure-password"
	case models.ModePassphrase:
		prefix = "secure-passphrase"
	default:
		prefix = "custom-password"
	}
	return fmt.Sprintf("%s-%s.txt", prefix, now.UTC().Format(time.DateOnly))
}

// WriteFile saves text into dir under FileName and returns the full path.
// The file is readable by the owner only.
func WriteFile(dir string, mode models.Mode, text string, now time.Time) (string, error) {
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, FileName(mode, now))
	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		return "", fmt.Errorf("failed to save %q: %w", path, err)
	}
	return path, nil
}
