// Package sim is a local stand-in for the remote paper analysis service.
// It speaks the exact wire contract — multipart POST /analyze-paper,
// GET /health, {"detail"} error bodies — and serves a deterministic canned
// analysis, so the client and view can be exercised end to end without the
// real backend.
package sim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/rmax-ai/papermap/pkg/paper"
)

// maxUploadSize mirrors the real service's 10MB cap.
const maxUploadSize = 10 * 1024 * 1024

// FailFilename triggers the canned failure path: uploading a file with
// this name returns HTTP 500 {"detail": "bad pdf"}, matching the real
// service's behavior on an unparseable PDF.
const FailFilename = "bad.pdf"

// Server is the simulator HTTP server.
type Server struct {
	server  *http.Server
	logger  *zap.SugaredLogger
	fixture *paper.Analysis // overrides the canned analysis when set
}

// NewServer creates a simulator listening on addr. A nil logger discards
// logs; a non-nil fixture is served verbatim for every upload.
func NewServer(addr string, logger *zap.SugaredLogger, fixture *paper.Analysis) *Server {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	s := &Server{logger: logger, fixture: fixture}

	mux := http.NewServeMux()
	mux.HandleFunc("/analyze-paper", s.handleAnalyze)
	mux.HandleFunc("/health", handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	s.server = &http.Server{Addr: addr, Handler: mux}
	return s
}

// Handler exposes the simulator's HTTP handler for httptest servers.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start begins serving. It blocks until the server stops.
func (s *Server) Start() error {
	s.logger.Infow("simulator listening", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, `{"status":"healthy"}`)
}

// writeDetail emits the service's error shape.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": detail})
	AnalyzeRequestsTotal.WithLabelValues(strconv.Itoa(status)).Inc()
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() { AnalyzeDuration.Observe(time.Since(start).Seconds()) }()

	if r.Method != http.MethodPost {
		writeDetail(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeDetail(w, http.StatusBadRequest, "File too large. Please upload a smaller PDF")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "missing 'file' field in multipart form")
		return
	}
	defer file.Close()

	filename := filepath.Base(header.Filename)
	s.logger.Infow("analyze request", "filename", filename, "size", header.Size)

	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		writeDetail(w, http.StatusBadRequest, "Only PDF files are accepted")
		return
	}
	if filename == FailFilename {
		writeDetail(w, http.StatusInternalServerError, "bad pdf")
		return
	}

	analysis := s.fixture
	if analysis == nil {
		analysis = CannedAnalysis(filename)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode([2]any{analysis.Graph, analysis.Papers}); err != nil {
		s.logger.Errorw("encoding response", "error", err)
	}
	AnalyzeRequestsTotal.WithLabelValues("200").Inc()
}
