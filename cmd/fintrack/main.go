package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fintracker/fintrack/internal/config"
	"github.com/fintracker/fintrack/internal/logging"
	"github.com/fintracker/fintrack/internal/session"
	"github.com/fintracker/fintrack/internal/storage"
	"github.com/fintracker/fintrack/internal/tui"
	"github.com/fintracker/fintrack/pkg/client"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], newTerminalPrompter(os.Stdin, os.Stdout), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, p prompter, out io.Writer) error {
	cfg, rest, err := config.Load(args)
	if err != nil {
		return err
	}

	cmd := ""
	if len(rest) > 0 {
		cmd = rest[0]
	}
	switch cmd {
	case "--version", "version", "-v":
		fmt.Fprintln(out, "fintrack "+version)
		return nil
	case "help", "--help", "-h":
		printHelp(out)
		return nil
	case "", "login", "register", "logout", "whoami":
	default:
		printHelp(out)
		return fmt.Errorf("unknown command %q", cmd)
	}

	env, err := openEnv(ctx, cfg)
	if err != nil {
		return err
	}
	defer env.Close() //nolint:errcheck

	switch cmd {
	case "login":
		return runLogin(ctx, env, p, out)
	case "register":
		return runRegister(ctx, env, p, out)
	case "logout":
		return runLogout(ctx, env, out)
	case "whoami":
		return runWhoami(ctx, env, out)
	}
	return runTUI(env)
}

// env is everything a command needs, wired in dependency order.
type env struct {
	cfg     *config.Config
	log     logging.Logger
	records *storage.SQLite
	sess    *session.Store
	api     *client.Client
	logFile io.Closer
}

func openEnv(ctx context.Context, cfg *config.Config) (*env, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	// The TUI owns the terminal, so logs always go to a file.
	logFile, err := tea.LogToFile(cfg.LogPath(), "fintrack")
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log := logging.NewSlogLogger(logging.New(cfg.Log, logFile))

	records, err := storage.OpenSQLite(ctx, cfg.StatePath())
	if err != nil {
		logFile.Close() //nolint:errcheck
		return nil, err
	}

	sess := session.New(records, nil, log)
	api := client.New(cfg.APIURL, sess,
		client.WithTimeout(cfg.HTTPTimeout),
		client.WithLogger(log.Slog().With("component", "client")),
	)
	sess.SetAPI(api)

	if err := sess.Hydrate(ctx); err != nil {
		// Storage trouble leaves the session anonymous; keep going.
		log.Error(ctx, "hydrate session", "err", err)
	}
	log.Info(ctx, "starting", "version", version, "api", cfg.APIURL)

	return &env{cfg: cfg, log: log, records: records, sess: sess, api: api, logFile: logFile}, nil
}

func (e *env) Close() error {
	return errors.Join(e.records.Close(), e.logFile.Close())
}

func runTUI(e *env) error {
	app := tui.NewApp(e.api, e.sess, e.log)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}
