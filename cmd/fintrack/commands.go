package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/fintracker/fintrack/internal/session"
	"github.com/fintracker/fintrack/pkg/client"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ade80"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	boldStyle = lipgloss.NewStyle().Bold(true)
)

func runLogin(ctx context.Context, e *env, p prompter, out io.Writer) error {
	email, err := p.Line("Email: ")
	if err != nil {
		return err
	}
	password, err := p.Secret("Password: ")
	if err != nil {
		return err
	}
	s, err := e.sess.Login(ctx, session.Credentials{Email: email, Password: password})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s Logged in as %s\n", okStyle.Render("✓"), boldStyle.Render(s.DisplayName()))
	return nil
}

func runRegister(ctx context.Context, e *env, p prompter, out io.Writer) error {
	var prof session.Profile
	var err error
	if prof.Name, err = p.Line("Name: "); err != nil {
		return err
	}
	if prof.Email, err = p.Line("Email: "); err != nil {
		return err
	}
	if prof.Password, err = p.Secret("Password: "); err != nil {
		return err
	}
	if prof.Confirm, err = p.Secret("Confirm password: "); err != nil {
		return err
	}
	s, err := e.sess.Register(ctx, prof)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s Registration successful! Welcome, %s\n", okStyle.Render("✓"), boldStyle.Render(s.DisplayName()))
	return nil
}

func runLogout(ctx context.Context, e *env, out io.Writer) error {
	if _, ok := e.sess.Current(); !ok {
		fmt.Fprintln(out, "Already logged out.")
		return nil
	}
	if err := e.sess.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, "Logged out.")
	return nil
}

func runWhoami(ctx context.Context, e *env, out io.Writer) error {
	if _, ok := e.sess.Current(); !ok {
		fmt.Fprintln(out, "Not logged in. Run: fintrack login")
		return nil
	}
	u, err := e.sess.Profile(ctx)
	if err != nil {
		if client.IsUnauthorized(err) {
			return errors.New("the stored session was rejected; run fintrack login again")
		}
		return err
	}
	role := u.Role
	if role == "" {
		role = "user"
	}
	fmt.Fprintf(out, "%s %s\n", boldStyle.Render(u.Name), dimStyle.Render("<"+u.Email+">"))
	fmt.Fprintf(out, "role: %s\n", role)
	if exp, ok := e.sess.TokenExpiry(); ok {
		state := "expires"
		if exp.Before(time.Now()) {
			state = "expired"
		}
		fmt.Fprintf(out, "token %s %s\n", state, exp.Local().Format(time.RFC1123))
	}
	return nil
}

func printHelp(out io.Writer) {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#2dd4bf")).
		Bold(true).
		Render("F I N T R A C K")

	tagline := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render("Proven methods for budgeting, saving and investing.")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	commands := []struct{ cmd, desc string }{
		{"fintrack", "Open the interactive client"},
		{"fintrack login", "Log in with email and password"},
		{"fintrack register", "Create an account"},
		{"fintrack logout", "Forget the stored session"},
		{"fintrack whoami", "Show the logged-in profile"},
		{"fintrack version", "Show version"},
		{"fintrack help", "You are here"},
	}
	flags := []struct{ flag, desc string }{
		{"-api URL", "API base URL (FINTRACK_API_URL)"},
		{"-data-dir DIR", "local state and logs (FINTRACK_DATA_DIR)"},
		{"-config FILE", "JSON config file"},
		{"-timeout DUR", "HTTP timeout, 0 disables (FINTRACK_HTTP_TIMEOUT)"},
		{"-log-level LVL", "debug|info|warn|error (FINTRACK_LOG_LEVEL)"},
	}

	fmt.Fprintf(out, "\n  %s\n  %s\n\n  Commands:\n", title, tagline)
	for _, c := range commands {
		fmt.Fprintf(out, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", c.cmd)), dimStyle.Render(c.desc))
	}
	fmt.Fprintf(out, "\n  Flags (before the command):\n")
	for _, f := range flags {
		fmt.Fprintf(out, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", f.flag)), dimStyle.Render(f.desc))
	}
	fmt.Fprintln(out)
}
