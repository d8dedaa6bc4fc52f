// Package main starts the NoteHub terminal client.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/avolkov/notehub/internal/client"
	"github.com/avolkov/notehub/internal/logger"
	"github.com/avolkov/notehub/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

var (
	version   string
	buildDate string
)

func main() {
	var (
		serverURL string
		showVer   bool
	)

	flag.StringVar(&serverURL, "url", "", "server base URL (overrides the config file)")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		fmt.Printf("NoteHub Client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	cfg, err := client.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if serverURL != "" {
		cfg.Server.URL = serverURL
	}

	// The terminal is owned by the UI, so logs go to a file.
	dataDir, err := client.DataDir()
	if err != nil {
		log.Fatalf("resolve data dir: %v", err)
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		log.Fatalf("create data dir: %v", err)
	}
	zapLogger, err := logger.NewFile(filepath.Join(dataDir, "client.log"), "info")
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	api := client.NewAPI(cfg.Server.URL, &http.Client{Timeout: 15 * time.Second})
	store := client.NewNoteStore(api)

	model := tui.NewModel(api, store, cfg, zapLogger)
	program := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := program.Run(); err != nil {
		zapLogger.Error("ui terminated", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
