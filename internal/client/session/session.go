// Package session holds the client-side state machine that coordinates the
// three modes (password, passphrase, check), the breach-check sub-flow and
// the export actions.
//
// Requests run on their own goroutines. Every state change happens under the
// session mutex, and every completion is tagged with the monotonic id of the
// request that produced it: a completion whose id is no longer pending on its
// mode is discarded. Results always land in the mode that issued them.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/GophPass/internal/client/export"
	"github.com/atinyakov/GophPass/internal/models"
)

// DefaultCopyFeedback is how long the "Copied!" state stays on.
const DefaultCopyFeedback = 1500 * time.Millisecond

var (
	// ErrBusy is returned when the triggering action is disabled because
	// the same request is still in flight.
	ErrBusy = errors.New("operation already in progress")
	// ErrNotGenerative is returned by Generate in check mode.
	ErrNotGenerative = errors.New("active mode does not generate text")
	// ErrWrongMode is returned by CheckStrength outside check mode.
	ErrWrongMode = errors.New("operation not available in the active mode")
)

// Backend is the remote password service.
type Backend interface {
	GeneratePassword(ctx context.Context, opts models.PasswordOptions) (*models.PasswordResponse, error)
	GeneratePassphrase(ctx context.Context, opts models.PassphraseOptions) (*models.PassphraseResponse, error)
	CheckSecurity(ctx context.Context, password string) (*models.SecurityCheckResponse, error)
	CheckPasswordBreach(ctx context.Context, password string) (*models.BreachResponse, error)
}

// Clipboard receives copied text.
type Clipboard interface {
	WriteAll(text string) error
}

// Status is the fetch state of one mode.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusLoaded
	StatusErrored
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	case StatusErrored:
		return "errored"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Options configures a Session.
type Options struct {
	// Backend is required.
	Backend Backend
	// Notifier receives user-facing notifications. Nil drops them.
	Notifier Notifier
	// Clipboard defaults to the system clipboard.
	Clipboard Clipboard
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
	// CopyFeedback defaults to DefaultCopyFeedback.
	CopyFeedback time.Duration
}

type modeState struct {
	text   string
	score  *models.SecurityScore
	status Status
	breach *models.BreachResponse
	// pending is the id of the in-flight request, 0 when none.
	pending uint64
	// rev changes whenever text changes.
	rev uint64
}

// Session is the in-memory display state of one client. It is safe for
// concurrent use.
type Session struct {
	backend      Backend
	notifier     Notifier
	clipboard    Clipboard
	log          *zap.Logger
	copyFeedback time.Duration

	mu             sync.Mutex
	mode           models.Mode
	passwordOpts   models.PasswordOptions
	passphraseOpts models.PassphraseOptions
	states         map[models.Mode]*modeState
	mounted        bool
	seq            uint64

	breachPending bool
	breachID      uint64

	copied    bool
	copySeq   uint64
	copyTimer *time.Timer

	wg sync.WaitGroup
}

// New creates a Session in password mode with default options.
func New(opts Options) (*Session, error) {
	if opts.Backend == nil {
		return nil, errors.New("session: backend is required")
	}
	s := &Session{
		backend:        opts.Backend,
		notifier:       opts.Notifier,
		clipboard:      opts.Clipboard,
		log:            opts.Logger,
		copyFeedback:   opts.CopyFeedback,
		mode:           models.ModePassword,
		passwordOpts:   models.DefaultPasswordOptions(),
		passphraseOpts: models.DefaultPassphraseOptions(),
		states:         make(map[models.Mode]*modeState, len(models.Modes)),
	}
	if s.clipboard == nil {
		s.clipboard = export.SystemClipboard{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.copyFeedback <= 0 {
		s.copyFeedback = DefaultCopyFeedback
	}
	for _, m := range models.Modes {
		s.states[m] = &modeState{}
	}
	return s, nil
}

// SetPasswordOptions replaces the options used by the next password generation.
func (s *Session) SetPasswordOptions(opts models.PasswordOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.passwordOpts = opts
	s.mu.Unlock()
	return nil
}

// SetPassphraseOptions replaces the options used by the next passphrase generation.
func (s *Session) SetPassphraseOptions(opts models.PassphraseOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.passphraseOpts = opts
	s.mu.Unlock()
	return nil
}

// Wait blocks until every dispatched request has completed.
func (s *Session) Wait() {
	s.wg.Wait()
}

// Close waits for in-flight requests and stops the copy feedback timer.
func (s *Session) Close() {
	s.wg.Wait()
	s.mu.Lock()
	if s.copyTimer != nil {
		s.copyTimer.Stop()
	}
	s.copied = false
	s.mu.Unlock()
}

// dispatch runs fn on its own goroutine. Callers hold s.mu.
func (s *Session) dispatch(fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn()
	}()
}

// nextID returns a fresh request id. Callers hold s.mu.
func (s *Session) nextID() uint64 {
	s.seq++
	return s.seq
}
