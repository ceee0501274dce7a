package cli

import (
	"bufio"
	"context"

	"github.com/spf13/cobra"

	"github.com/atinyakov/GophPass/internal/client/session"
	"github.com/atinyakov/GophPass/internal/models"
)

func newCheckCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [password]",
		Short: "Score an existing password",
		Long: `Check sends a password to the backend for scoring. When the password is not
given as an argument it is read from the terminal without echo.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.checkSession(cmd.Context(), args)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.CheckStrength(cmd.Context()); err != nil {
				return err
			}
			s.Wait()
			v := s.Snapshot()
			if v.Active().Score == nil {
				return errRequestFailed
			}
			a.r.Score(v.Active().Score)
			return a.maybeBreach(cmd, s)
		},
	}
	cmd.Flags().Bool("breach", false, "Also check the password against known breaches")
	return cmd
}

func newBreachCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "breach [password]",
		Short: "Check a password against known data breaches",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.checkSession(cmd.Context(), args)
			if err != nil {
				return err
			}
			defer s.Close()
			return a.breach(cmd.Context(), s)
		},
	}
}

// checkSession returns a session in check mode holding the password from
// args or, when absent, from a hidden prompt.
func (a *app) checkSession(ctx context.Context, args []string) (*session.Session, error) {
	var password string
	if len(args) == 1 {
		password = args[0]
	} else {
		var err error
		password, err = readSecret(a.in, bufio.NewScanner(a.in), a.out, "Password: ")
		if err != nil {
			return nil, err
		}
	}

	s, err := a.newSession()
	if err != nil {
		return nil, err
	}
	if err := s.SwitchMode(ctx, models.ModeCheck); err != nil {
		s.Close()
		return nil, err
	}
	s.SetCheckInput(password)
	return s, nil
}
