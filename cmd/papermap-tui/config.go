package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const defaultAPIURL = "http://127.0.0.1:8000"

type Config struct {
	APIURL   string
	DBPath   string
	LogPath  string
	StartDir string
	NoStore  bool
}

func LoadConfig(args []string) (Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, fmt.Errorf("failed to get cwd: %w", err)
	}

	apiURL := envOrDefault("PAPERMAP_API_URL", defaultAPIURL)
	dbPath := envOrDefault("PAPERMAP_DB_PATH", filepath.Join(cwd, "papermap.db"))
	logPath := envOrDefault("PAPERMAP_LOG_PATH", filepath.Join(cwd, "papermap.log"))
	startDir := envOrDefault("PAPERMAP_START_DIR", cwd)

	flagSet := flag.NewFlagSet("papermap-tui", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagAPI := flagSet.String("api", apiURL, "base URL of the paper analysis service")
	flagDB := flagSet.String("db", dbPath, "path to the SQLite analysis history")
	flagLog := flagSet.String("log", logPath, "path to the log file (the TUI owns the terminal)")
	flagDir := flagSet.String("dir", startDir, "directory the file picker starts in")
	flagNoStore := flagSet.Bool("no-store", false, "disable the local analysis history")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			flagSet.SetOutput(os.Stdout)
			flagSet.PrintDefaults()
			return Config{}, err
		}
		return Config{}, err
	}

	config := Config{
		APIURL:   strings.TrimSpace(*flagAPI),
		DBPath:   resolvePath(*flagDB, cwd),
		LogPath:  resolvePath(*flagLog, cwd),
		StartDir: resolvePath(*flagDir, cwd),
		NoStore:  *flagNoStore,
	}

	if config.APIURL == "" {
		return Config{}, errors.New("api URL cannot be empty")
	}

	return config, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func resolvePath(path, cwd string) string {
	path = strings.TrimSpace(path)
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(cwd, path)
}
