// Package render draws the client's display state to a terminal.
package render

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/common-nighthawk/go-figure"
	"github.com/fatih/color"

	"github.com/atinyakov/GophPass/internal/client/session"
	"github.com/atinyakov/GophPass/internal/models"
)

const barWidth = 20

// Renderer writes to w. Color output is decided per Renderer rather than
// through fatih/color's global switch.
type Renderer struct {
	w     io.Writer
	color bool
}

// New returns a Renderer; useColor enables ANSI colors.
func New(w io.Writer, useColor bool) *Renderer {
	return &Renderer{w: w, color: useColor}
}

func (r *Renderer) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if r.color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

func strengthColor(s models.Strength) color.Attribute {
	switch s {
	case models.Weak:
		return color.FgRed
	case models.Medium:
		return color.FgYellow
	case models.Strong:
		return color.FgGreen
	default:
		return color.FgBlue
	}
}

// Banner prints the application banner.
func (r *Renderer) Banner() {
	fig := figure.NewFigure("GophPass", "doom", true)
	_, _ = r.paint(color.FgCyan).Fprint(r.w, fig.String())
	_, _ = r.paint(color.FgCyan).Fprintln(r.w, strings.Repeat("═", 48))
	_, _ = fmt.Fprintln(r.w, "    Passwords are generated remotely and never stored.")
	_, _ = r.paint(color.FgCyan).Fprintln(r.w, strings.Repeat("═", 48))
}

// Secret prints the displayed text, masked unless reveal is set.
func (r *Renderer) Secret(mode models.Mode, text string, reveal bool) {
	label := "Password"
	if mode == models.ModePassphrase {
		label = "Passphrase"
	}
	shown := text
	if !reveal {
		shown = strings.Repeat("•", len([]rune(text)))
	}
	if text == "" {
		shown = "(empty)"
	}
	_, _ = fmt.Fprintf(r.w, "Your Secure %s: %s\n", label, r.paint(color.Bold).Sprint(shown))
}

// Score prints the overall label and bar, the per-context bars and the
// strength details.
func (r *Renderer) Score(score *models.SecurityScore) {
	if score == nil {
		return
	}
	overall := models.StrengthOf(score.Overall)
	_, _ = fmt.Fprintf(r.w, "Password Strength  %s\n", r.paint(strengthColor(overall), color.Bold).Sprint(overall))
	_, _ = fmt.Fprintf(r.w, "  %s %3d%%\n", r.bar(score.Overall), score.Overall)

	contexts := []struct {
		name  string
		value int
	}{
		{"Banking", score.Banking},
		{"Social Media", score.SocialMedia},
		{"Email", score.Email},
	}
	for _, c := range contexts {
		_, _ = fmt.Fprintf(r.w, "  %-13s %s %s\n", c.name, r.bar(c.value),
			r.paint(strengthColor(models.StrengthOf(c.value))).Sprintf("%3d%%", c.value))
	}

	if len(score.StrengthDetails) == 0 {
		return
	}
	_, _ = fmt.Fprintln(r.w, "Details")
	keys := make([]string, 0, len(score.StrengthDetails))
	for k := range score.StrengthDetails {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		attr := color.FgRed
		mark := "✗"
		if score.StrengthDetails[k] {
			attr = color.FgGreen
			mark = "✓"
		}
		_, _ = fmt.Fprintf(r.w, "  %s\n", r.paint(attr).Sprintf("%s %s", mark, DetailLabel(k)))
	}
}

func (r *Renderer) bar(value int) string {
	value = min(max(value, models.MinScore), models.MaxScore)
	filled := value * barWidth / models.MaxScore
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled) + "]"
}

// DetailLabel turns a backend criterion key such as "has_uppercase" into
// "Has Uppercase".
func DetailLabel(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		runes := []rune(w)
		words[i] = strings.ToUpper(string(runes[0])) + string(runes[1:])
	}
	return strings.Join(words, " ")
}

// Breach prints the breach panel: red when compromised, green otherwise,
// with the backend message verbatim.
func (r *Renderer) Breach(b *models.BreachResponse) {
	if b == nil {
		return
	}
	if b.Breached {
		_, _ = r.paint(color.FgRed, color.Bold).Fprintln(r.w, "✗ Password Compromised")
		_, _ = r.paint(color.FgRed).Fprintf(r.w, "  %s\n", b.Message)
		return
	}
	_, _ = r.paint(color.FgGreen, color.Bold).Fprintln(r.w, "✓ Password Secure")
	_, _ = r.paint(color.FgGreen).Fprintf(r.w, "  %s\n", b.Message)
}

// View prints the whole active mode: options, secret, actions, score and
// breach panel.
func (r *Renderer) View(v session.View, reveal bool) {
	active := v.Active()
	_, _ = r.paint(color.Bold).Fprintf(r.w, "── %s ──\n", v.Mode.Title())

	switch v.Mode {
	case models.ModePassword:
		o := v.PasswordOptions
		_, _ = fmt.Fprintf(r.w, "Length: %d  Symbols: %s  Numbers: %s\n", o.Length, onOff(o.Symbols), onOff(o.Numbers))
	case models.ModePassphrase:
		_, _ = fmt.Fprintf(r.w, "Number of Words: %d\n", v.PassphraseOptions.Words)
	}

	r.Secret(v.Mode, active.Text, reveal)
	if active.Status == session.StatusLoading {
		_, _ = r.paint(color.Faint).Fprintln(r.w, "Loading...")
	}

	var actions []string
	if v.CanExport() {
		copyLabel := "copy"
		if v.Copied {
			copyLabel = "Copied!"
		}
		actions = append(actions, copyLabel, "download")
	}
	switch {
	case v.BreachPending:
		actions = append(actions, "Checking...")
	case v.CanCheckBreach():
		actions = append(actions, "breach")
	}
	if len(actions) > 0 {
		_, _ = r.paint(color.Faint).Fprintf(r.w, "Actions: %s\n", strings.Join(actions, " | "))
	}

	r.Score(active.Score)
	r.Breach(active.Breach)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// Notifier prints session notifications, errors in red.
type Notifier struct {
	R *Renderer
}

// Notify implements session.Notifier.
func (n Notifier) Notify(note session.Notification) {
	attr := color.FgCyan
	if note.Level == session.LevelError {
		attr = color.FgRed
	}
	_, _ = n.R.paint(attr, color.Bold).Fprintf(n.R.w, "%s: ", note.Title)
	_, _ = fmt.Fprintln(n.R.w, note.Description)
}
