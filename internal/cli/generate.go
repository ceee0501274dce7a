package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/atinyakov/GophPass/internal/client/session"
	"github.com/atinyakov/GophPass/internal/models"
)

func addExportFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("copy", false, "Copy the result to the clipboard")
	cmd.Flags().String("download", "", "Save the result as a text file in this directory")
	cmd.Flags().Bool("breach", false, "Also check the result against known breaches")
}

func newGenerateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a random password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := models.DefaultPasswordOptions()
			opts.Length, _ = cmd.Flags().GetInt("length")
			opts.Symbols, _ = cmd.Flags().GetBool("symbols")
			opts.Numbers, _ = cmd.Flags().GetBool("numbers")

			return a.runGenerative(cmd, func(ctx context.Context, s *session.Session) error {
				if err := s.SetPasswordOptions(opts); err != nil {
					return err
				}
				s.Mount(ctx)
				return nil
			})
		},
	}
	def := models.DefaultPasswordOptions()
	cmd.Flags().IntP("length", "l", def.Length, fmt.Sprintf("Password length (%d-%d)", models.MinPasswordLength, models.MaxPasswordLength))
	cmd.Flags().Bool("symbols", def.Symbols, "Include symbols")
	cmd.Flags().Bool("numbers", def.Numbers, "Include numbers")
	addExportFlags(cmd)
	return cmd
}

func newPassphraseCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "passphrase",
		Short: "Generate a random passphrase",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := models.DefaultPassphraseOptions()
			opts.Words, _ = cmd.Flags().GetInt("words")

			return a.runGenerative(cmd, func(ctx context.Context, s *session.Session) error {
				if err := s.SetPassphraseOptions(opts); err != nil {
					return err
				}
				return s.SwitchMode(ctx, models.ModePassphrase)
			})
		},
	}
	cmd.Flags().IntP("words", "w", models.DefaultPassphraseOptions().Words,
		fmt.Sprintf("Number of words (%d-%d)", models.MinPassphraseWords, models.MaxPassphraseWords))
	addExportFlags(cmd)
	return cmd
}

// runGenerative starts a generation with start, waits for it and prints the
// result followed by the optional breach check and exports.
func (a *app) runGenerative(cmd *cobra.Command, start func(context.Context, *session.Session) error) error {
	ctx := cmd.Context()
	s, err := a.newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := start(ctx, s); err != nil {
		return err
	}
	s.Wait()

	v := s.Snapshot()
	if v.Active().Status != session.StatusLoaded {
		return errRequestFailed
	}
	a.r.Secret(v.Mode, v.Active().Text, true)
	a.r.Score(v.Active().Score)

	if err := a.maybeBreach(cmd, s); err != nil {
		return err
	}
	return a.export(cmd, s)
}

func (a *app) maybeBreach(cmd *cobra.Command, s *session.Session) error {
	if on, _ := cmd.Flags().GetBool("breach"); !on {
		return nil
	}
	return a.breach(cmd.Context(), s)
}

func (a *app) breach(ctx context.Context, s *session.Session) error {
	if err := s.CheckBreach(ctx); err != nil {
		return err
	}
	s.Wait()
	result := s.Snapshot().Active().Breach
	if result == nil {
		return errRequestFailed
	}
	a.r.Breach(result)
	return nil
}

func (a *app) export(cmd *cobra.Command, s *session.Session) error {
	if on, _ := cmd.Flags().GetBool("copy"); on {
		if err := s.Copy(); err != nil {
			return err
		}
	}
	if dir, _ := cmd.Flags().GetString("download"); dir != "" {
		path, err := s.Download(dir, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Saved to %s\n", path)
	}
	return nil
}
