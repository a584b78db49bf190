package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/meltforce/ironlog/internal/api"
	"github.com/meltforce/ironlog/internal/config"
	"github.com/meltforce/ironlog/internal/session"
	"github.com/meltforce/ironlog/internal/tui"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	apiBase := flag.String("api", "", "API base URL (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}
	if *apiBase == "" {
		*apiBase = cfg.Client.APIBaseURL
	}

	stateDir, err := cfg.Client.StateDirOrDefault()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to resolve state directory:", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(stateDir, 0o700); err != nil {
		fmt.Fprintln(os.Stderr, "failed to create state directory:", err)
		os.Exit(1)
	}

	// The TUI owns the terminal, so logs go to a file in the state dir.
	logFile, err := os.OpenFile(filepath.Join(stateDir, "ironlog.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to open log file:", err)
		os.Exit(1)
	}
	defer logFile.Close()
	log := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("IronLog starting", "version", Version, "api", *apiBase)

	tokens, err := session.OpenStateDB(stateDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to open state database:", err)
		os.Exit(1)
	}
	defer tokens.Close()

	sess := session.NewStore(tokens, log)
	client := api.New(*apiBase, sess)

	app := tui.NewApp(client, sess, log)
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		log.Error("tui exited with error", "error", err)
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
