package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/rmax-ai/papermap/pkg/mcp"
	"github.com/rmax-ai/papermap/pkg/store"
)

func main() {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to get cwd: %v\n", err)
		os.Exit(1)
	}

	var (
		apiURL  string
		dbPath  string
		noStore bool
	)
	flag.StringVar(&apiURL, "api", envOrDefault("PAPERMAP_API_URL", "http://127.0.0.1:8000"), "base URL of the paper analysis service")
	flag.StringVar(&dbPath, "db", envOrDefault("PAPERMAP_DB_PATH", filepath.Join(cwd, "papermap.db")), "path to the SQLite analysis history")
	flag.BoolVar(&noStore, "no-store", false, "disable the local analysis history")
	flag.Parse()

	var history *store.Store
	if !noStore {
		st, err := store.NewStore(dbPath)
		if err != nil {
			// stdout carries the MCP protocol, keep diagnostics on stderr
			fmt.Fprintf(os.Stderr, "opening analysis history: %v\n", err)
			os.Exit(1)
		}
		defer st.Close()
		history = st
	}

	srv := mcp.NewServer(apiURL, history)
	if err := srv.Serve(); err != nil {
		fmt.Fprintf(os.Stderr, "MCP server error: %v\n", err)
		os.Exit(1)
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
