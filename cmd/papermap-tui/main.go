package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/rmax-ai/papermap/pkg/client"
	"github.com/rmax-ai/papermap/pkg/logging"
	"github.com/rmax-ai/papermap/pkg/store"
	"github.com/rmax-ai/papermap/pkg/ui"
)

func main() {
	_ = godotenv.Load()

	cfg, err := LoadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger, sync, err := logging.NewFileLogger(cfg.LogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer sync()

	var history ui.History
	if !cfg.NoStore {
		st, err := store.NewStore(cfg.DBPath)
		if err != nil {
			// The history is a convenience; the map still works without it.
			logger.Warnw("opening analysis history", "path", cfg.DBPath, "error", err)
		} else {
			defer st.Close()
			history = st
		}
	}

	model := ui.New(ui.Config{
		Client:   client.NewClient(cfg.APIURL),
		History:  history,
		Logger:   logger,
		StartDir: cfg.StartDir,
	})

	logger.Infow("papermap starting", "api", cfg.APIURL, "db", cfg.DBPath)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Errorw("program exited", "error", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
