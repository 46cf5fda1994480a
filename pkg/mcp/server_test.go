package mcp

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rmax-ai/papermap/pkg/sim"
	"github.com/rmax-ai/papermap/pkg/store"
)

func testStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.NewStore(filepath.Join(t.TempDir(), "papermap.db"))
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestMCPServer_ReadAnalyses(t *testing.T) {
	st := testStore(t)
	if _, err := st.Save(sim.CannedAnalysis("attention.pdf"), "attention.pdf", "Attention Is All You Need"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	ts := httptest.NewServer(sim.NewServer("", nil, nil).Handler())
	defer ts.Close()

	s := NewServer(ts.URL, st)

	req := mcp.ReadResourceRequest{
		Params: mcp.ReadResourceParams{
			URI: "papermap://analyses",
		},
	}

	result, err := s.handleReadAnalyses(context.Background(), req)
	if err != nil {
		t.Fatalf("handleReadAnalyses failed: %v", err)
	}

	if len(result) != 1 {
		t.Fatalf("Expected 1 resource content, got %d", len(result))
	}

	content, ok := result[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("Expected TextResourceContents")
	}
	if content.MIMEType != "application/json" {
		t.Errorf("Expected application/json, got %s", content.MIMEType)
	}

	var records []map[string]interface{}
	if err := json.Unmarshal([]byte(content.Text), &records); err != nil {
		t.Fatalf("Failed to parse result JSON: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if records[0]["filename"] != "attention.pdf" {
		t.Errorf("Unexpected filename: %v", records[0]["filename"])
	}
}

func TestMCPServer_ListTopics(t *testing.T) {
	st := testStore(t)
	id, err := st.Save(sim.CannedAnalysis("attention.pdf"), "attention.pdf", "")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	ts := httptest.NewServer(sim.NewServer("", nil, nil).Handler())
	defer ts.Close()

	s := NewServer(ts.URL, st)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "list_topics",
			Arguments: map[string]interface{}{
				"analysis_id": id,
			},
		},
	}

	result, err := s.handleListTopics(context.Background(), req)
	if err != nil {
		t.Fatalf("handleListTopics failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("Expected success, got error: %v", result.Content)
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content")
	}
	if !strings.Contains(text.Text, "importance") {
		t.Errorf("Expected topic outline with importance values, got:\n%s", text.Text)
	}
	// Subtopics are indented under their topic.
	if !strings.Contains(text.Text, "\n  - ") {
		t.Errorf("Expected indented subtopics, got:\n%s", text.Text)
	}
}

func TestMCPServer_ListTopicsDefaultsToLatest(t *testing.T) {
	st := testStore(t)
	if _, err := st.Save(sim.CannedAnalysis("first.pdf"), "first.pdf", ""); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	s := NewServer("http://127.0.0.1:1", st)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "list_topics",
			Arguments: map[string]interface{}{},
		},
	}

	result, err := s.handleListTopics(context.Background(), req)
	if err != nil {
		t.Fatalf("handleListTopics failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("Expected success, got error: %v", result.Content)
	}
}

func TestMCPServer_AnalyzePaperRejectsBadPath(t *testing.T) {
	s := NewServer("http://127.0.0.1:1", nil)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "analyze_paper",
			Arguments: map[string]interface{}{
				"path": "/nonexistent/paper.pdf",
			},
		},
	}

	result, err := s.handleAnalyzePaper(context.Background(), req)
	if err != nil {
		t.Fatalf("handleAnalyzePaper returned transport error: %v", err)
	}
	if !result.IsError {
		t.Error("Expected a tool error for a missing file")
	}
}
