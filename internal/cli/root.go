// Package cli implements the gophpass command-line client.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/atinyakov/GophPass/internal/client/api"
	"github.com/atinyakov/GophPass/internal/client/render"
	"github.com/atinyakov/GophPass/internal/client/session"
	"github.com/atinyakov/GophPass/internal/config"
	"github.com/atinyakov/GophPass/internal/logger"
)

// Version information (set by build flags)
var (
	version   = "dev"
	buildDate = "unknown"
)

// errRequestFailed is returned after a failed request has already been
// reported to the user through a notification.
var errRequestFailed = errors.New("request failed")

// app is the per-invocation state shared by the subcommands.
type app struct {
	opts      config.ClientOptions
	log       *logger.Logger
	backend   session.Backend
	clipboard session.Clipboard
	r         *render.Renderer
	out       io.Writer
	in        io.Reader
}

func (a *app) newSession() (*session.Session, error) {
	return session.New(session.Options{
		Backend:   a.backend,
		Notifier:  render.Notifier{R: a.r},
		Clipboard: a.clipboard,
		Logger:    a.log.Log,
	})
}

// Execute runs the root command until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(nil)
}

// newRootCmd builds the command tree; a nil clipboard means the system one.
func newRootCmd(clipboard session.Clipboard) *cobra.Command {
	a := &app{clipboard: clipboard}

	rootCmd := &cobra.Command{
		Use:   "gophpass",
		Short: "Generate and score passwords with the GophPass service",
		Long: `gophpass - a client for the GophPass password service

Passwords and passphrases are generated and scored by the backend. Nothing
is stored: generated text lives in memory until you copy or download it.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Log.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().String("url", config.DefaultBaseURL, "Backend base URL (env GOPHPASS_URL)")
	rootCmd.PersistentFlags().Duration("timeout", config.DefaultTimeout, "Request timeout")
	rootCmd.PersistentFlags().Float64("rps", 0, "Maximum requests per second (0 = unlimited)")
	rootCmd.PersistentFlags().String("ca", "", "Path to an extra CA certificate to trust")
	rootCmd.PersistentFlags().String("log-level", config.DefaultLogLevel, "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a JSON config file")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		newGenerateCmd(a),
		newPassphraseCmd(a),
		newCheckCmd(a),
		newBreachCmd(a),
		newShellCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// setup resolves the configuration and builds the backend client. Flags set
// explicitly on the command line override the file and the environment.
func (a *app) setup(cmd *cobra.Command) error {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")
	opts, err := config.LoadClient(path)
	if err != nil {
		return err
	}
	if flags.Changed("url") {
		opts.BaseURL, _ = flags.GetString("url")
	}
	if flags.Changed("timeout") {
		d, _ := flags.GetDuration("timeout")
		opts.Timeout = config.Duration(d)
	}
	if flags.Changed("rps") {
		opts.MaxRPS, _ = flags.GetFloat64("rps")
	}
	if flags.Changed("ca") {
		opts.CAFile, _ = flags.GetString("ca")
	}
	if flags.Changed("log-level") {
		opts.LogLevel, _ = flags.GetString("log-level")
	}
	a.opts = opts

	a.log = logger.New()
	if err := a.log.Init(opts.LogLevel); err != nil {
		return err
	}

	client, err := api.NewClient(api.ClientOptions{
		BaseURL: opts.BaseURL,
		Timeout: time.Duration(opts.Timeout),
		MaxRPS:  opts.MaxRPS,
		CAFile:  opts.CAFile,
		Logger:  a.log.Log,
	})
	if err != nil {
		return fmt.Errorf("invalid backend configuration: %w", err)
	}
	a.backend = client
	a.log.Log.Debug("client configured", zap.String("url", opts.BaseURL))

	a.out = cmd.OutOrStdout()
	a.in = cmd.InOrStdin()
	noColor, _ := flags.GetBool("no-color")
	a.r = render.New(a.out, !noColor && isTerminal(a.out))
	return nil
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// version needs no backend
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "GophPass Client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		},
	}
}
