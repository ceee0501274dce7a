package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/atinyakov/GophPass/internal/client/session"
	"github.com/atinyakov/GophPass/internal/models"
)

const shellHelp = `Available commands:
  mode <password|passphrase|check>  switch mode
  generate                          generate new text in the active mode
  length <n>                        password length
  symbols <on|off>                  include symbols
  numbers <on|off>                  include numbers
  words <n>                         passphrase word count
  input [text]                      set the password to check (hidden prompt when omitted)
  check                             score the check input
  breach                            check the displayed text against known breaches
  copy                              copy the displayed text to the clipboard
  download [dir]                    save the displayed text as a file
  show                              print the current state
  reveal                            toggle showing the text in clear
  help, exit`

func newShellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.newSession()
			if err != nil {
				return err
			}
			defer s.Close()

			a.r.Banner()
			s.Mount(cmd.Context())
			s.Wait()
			a.r.View(s.Snapshot(), false)

			sh := &shell{app: a, s: s, scanner: bufio.NewScanner(a.in)}
			sh.run(cmd.Context())
			return nil
		},
	}
}

type shell struct {
	*app
	s       *session.Session
	scanner *bufio.Scanner
	reveal  bool
}

// run reads commands until exit, end of input or cancellation.
func (sh *shell) run(ctx context.Context) {
	for ctx.Err() == nil {
		fmt.Fprint(sh.out, "gophpass> ")
		if !sh.scanner.Scan() {
			break
		}
		line := strings.TrimSpace(sh.scanner.Text())
		name, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)
		if name == "" {
			continue
		}
		if name == "exit" || name == "quit" {
			fmt.Fprintln(sh.out, "Bye")
			return
		}
		if err := sh.exec(ctx, name, rest); err != nil {
			fmt.Fprintln(sh.out, err)
		}
	}
}

func (sh *shell) exec(ctx context.Context, name, arg string) error {
	switch name {
	case "help":
		fmt.Fprintln(sh.out, shellHelp)
		return nil
	case "mode":
		mode, err := models.ParseMode(arg)
		if err != nil {
			return err
		}
		if err := sh.s.SwitchMode(ctx, mode); err != nil {
			return err
		}
		return sh.settle()
	case "generate":
		if err := sh.s.Generate(ctx); err != nil {
			return err
		}
		return sh.settle()
	case "length", "words":
		n, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("usage: %s <n>", name)
		}
		return sh.setNumber(name, n)
	case "symbols", "numbers":
		on, err := parseOnOff(arg)
		if err != nil {
			return fmt.Errorf("usage: %s <on|off>", name)
		}
		return sh.setToggle(name, on)
	case "input":
		if sh.s.Mode() != models.ModeCheck {
			return errors.New("input is only available in check mode")
		}
		text := arg
		if text == "" {
			var err error
			if text, err = sh.readHidden(); err != nil {
				return err
			}
		}
		sh.s.SetCheckInput(text)
		return nil
	case "check":
		return sh.quiet(sh.s.CheckStrength(ctx))
	case "breach":
		return sh.quiet(sh.s.CheckBreach(ctx))
	case "copy":
		// failures are reported through the notifier
		_ = sh.s.Copy()
		return nil
	case "download":
		dir := arg
		if dir == "" {
			dir = "."
		}
		path, err := sh.s.Download(dir, time.Now())
		if err == nil && path != "" {
			fmt.Fprintf(sh.out, "Saved to %s\n", path)
		}
		return nil
	case "show":
		sh.r.View(sh.s.Snapshot(), sh.reveal)
		return nil
	case "reveal":
		sh.reveal = !sh.reveal
		sh.r.View(sh.s.Snapshot(), sh.reveal)
		return nil
	}
	fmt.Fprintln(sh.out, "Unknown command. Type 'help' for a list of commands.")
	return nil
}

// quiet waits for a dispatched request and redraws. Validation failures
// were already shown as notifications.
func (sh *shell) quiet(err error) error {
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		return nil
	}
	if err != nil {
		return err
	}
	return sh.settle()
}

func (sh *shell) settle() error {
	sh.s.Wait()
	sh.r.View(sh.s.Snapshot(), sh.reveal)
	return nil
}

func (sh *shell) setNumber(name string, n int) error {
	v := sh.s.Snapshot()
	if name == "words" {
		opts := v.PassphraseOptions
		opts.Words = n
		return sh.s.SetPassphraseOptions(opts)
	}
	opts := v.PasswordOptions
	opts.Length = n
	return sh.s.SetPasswordOptions(opts)
}

func (sh *shell) setToggle(name string, on bool) error {
	opts := sh.s.Snapshot().PasswordOptions
	if name == "symbols" {
		opts.Symbols = on
	} else {
		opts.Numbers = on
	}
	return sh.s.SetPasswordOptions(opts)
}

func (sh *shell) readHidden() (string, error) {
	return readSecret(sh.in, sh.scanner, sh.out, "Password: ")
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("invalid switch %q", s)
}
