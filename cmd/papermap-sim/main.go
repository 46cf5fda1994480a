package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/rmax-ai/papermap/pkg/logging"
	"github.com/rmax-ai/papermap/pkg/paper"
	"github.com/rmax-ai/papermap/pkg/sim"
)

func main() {
	_ = godotenv.Load()

	var (
		addr        string
		fixtureFile string
	)
	flag.StringVar(&addr, "addr", envOrDefault("PAPERMAP_SIM_ADDR", "127.0.0.1:8000"), "HTTP listen address")
	flag.StringVar(&fixtureFile, "fixture", "", "path to an analysis response JSON served for every upload")
	flag.Parse()

	logger, sync, err := logging.NewStdoutLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer sync()

	var fixture *paper.Analysis
	if fixtureFile != "" {
		data, err := os.ReadFile(fixtureFile)
		if err != nil {
			logger.Fatalw("reading fixture", "path", fixtureFile, "error", err)
		}
		fixture, err = paper.ParseAnalysis(data)
		if err != nil {
			logger.Fatalw("parsing fixture", "path", fixtureFile, "error", err)
		}
		logger.Infow("fixture loaded", "path", fixtureFile, "nodes", len(fixture.Graph.Nodes))
	}

	srv := sim.NewServer(addr, logger, fixture)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		logger.Infow("shutdown initiated", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Errorw("shutdown", "error", err)
		}
	}()

	if err := srv.Start(); err != nil {
		logger.Fatalw("server failed", "error", err)
	}
	logger.Infow("shutdown complete")
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
