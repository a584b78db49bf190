package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/meltforce/ironlog/internal/api"
	"github.com/meltforce/ironlog/internal/config"
	"github.com/meltforce/ironlog/internal/mcp"
	"github.com/meltforce/ironlog/internal/session"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	apiBase := flag.String("api", "", "API base URL (overrides config)")
	token := flag.String("token", "", "bearer token (defaults to the saved login)")
	flag.Parse()

	// stdout carries the MCP protocol, so logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *apiBase == "" {
		*apiBase = cfg.Client.APIBaseURL
	}

	if *token == "" {
		stateDir, err := cfg.Client.StateDirOrDefault()
		if err != nil {
			log.Error("failed to resolve state directory", "error", err)
			os.Exit(1)
		}
		store, err := session.OpenStateDB(stateDir)
		if err != nil {
			log.Error("failed to open state database", "error", err)
			os.Exit(1)
		}
		saved, err := store.Load()
		store.Close()
		if err != nil || saved == "" {
			log.Error("no saved login; pass -token or log in with the ironlog TUI first")
			os.Exit(1)
		}
		*token = saved
	}

	client := api.New(*apiBase, api.StaticToken(*token))
	srv := mcp.New(client, Version, log)

	log.Info("IronLog MCP server starting", "version", Version, "api", *apiBase)
	if err := server.ServeStdio(srv); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
