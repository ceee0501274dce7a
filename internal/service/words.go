package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/GophPass/internal/models"
)

// wordListTimeout bounds a remote word list fetch.
const wordListTimeout = 5 * time.Second

// fallbackWords is used whenever the remote list is unavailable or empty.
var fallbackWords = []string{
	"apple", "banana", "cherry", "dragon", "elephant", "falcon", "grape", "honey",
	"island", "jungle", "koala", "lemon", "mountain", "night", "orange", "pearl",
	"queen", "river", "sunset", "tiger", "umbrella", "violet", "whale", "xenon",
	"yellow", "zebra",
}

// WordSource supplies candidate words for passphrases.
type WordSource interface {
	// Words returns a non-empty list of words.
	Words(ctx context.Context) []string
}

// RemoteWords fetches a JSON array of words from URL and falls back to a
// built-in list on any failure.
type RemoteWords struct {
	URL    string
	Client *http.Client
	Log    *zap.Logger
}

// NewRemoteWords returns a RemoteWords for url with a 5s request timeout.
// An empty url always yields the built-in list.
func NewRemoteWords(url string, log *zap.Logger) *RemoteWords {
	if log == nil {
		log = zap.NewNop()
	}
	return &RemoteWords{
		URL:    url,
		Client: &http.Client{Timeout: wordListTimeout},
		Log:    log,
	}
}

// Words implements WordSource.
func (rw *RemoteWords) Words(ctx context.Context) []string {
	if rw.URL == "" {
		return fallbackWords
	}
	words, err := rw.fetch(ctx)
	if err != nil {
		rw.Log.Warn("word list unavailable, using built-in list", zap.Error(err))
		return fallbackWords
	}
	if len(words) == 0 {
		return fallbackWords
	}
	return words
}

func (rw *RemoteWords) fetch(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rw.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := rw.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("word list: unexpected status %d", resp.StatusCode)
	}
	var words []string
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&words); err != nil {
		return nil, fmt.Errorf("word list: %w", err)
	}

	out := words[:0]
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			out = append(out, w)
		}
	}
	return out, nil
}

// StaticWords is a fixed WordSource.
type StaticWords []string

// Words implements WordSource.
func (s StaticWords) Words(context.Context) []string {
	if len(s) == 0 {
		return fallbackWords
	}
	return s
}

// GeneratePassphrase picks opts.Words words uniformly from src and joins
// them with "-".
func GeneratePassphrase(ctx context.Context, src WordSource, opts models.PassphraseOptions) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", err
	}
	list := src.Words(ctx)
	words := make([]string, opts.Words)
	for i := range words {
		idx, err := randIndex(len(list))
		if err != nil {
			return "", err
		}
		words[i] = list[idx]
	}
	return strings.Join(words, "-"), nil
}
