package sim

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rmax-ai/papermap/pkg/client"
	"github.com/rmax-ai/papermap/pkg/paper"
)

func postPDF(t *testing.T, url, filename, content string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	part.Write([]byte(content))
	w.Close()

	resp, err := http.Post(url+"/analyze-paper", w.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	return resp
}

func TestServer_AnalyzeContract(t *testing.T) {
	srv := httptest.NewServer(NewServer("", nil, nil).Handler())
	defer srv.Close()

	resp := postPDF(t, srv.URL, "paper.pdf", "%PDF-1.4 fake")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Status %d, want 200", resp.StatusCode)
	}

	// The body must be the two-element array the real service emits.
	var elems []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&elems); err != nil {
		t.Fatalf("Body is not a JSON array: %v", err)
	}
	if len(elems) != 2 {
		t.Fatalf("Expected 2 elements, got %d", len(elems))
	}
}

func TestServer_RoundTripThroughClient(t *testing.T) {
	srv := httptest.NewServer(NewServer("", nil, nil).Handler())
	defer srv.Close()

	c := client.NewClient(srv.URL)
	analysis, err := c.Analyze(context.Background(), "paper.pdf", bytes.NewReader([]byte("%PDF-1.4")))
	if err != nil {
		t.Fatalf("Analyze against simulator failed: %v", err)
	}

	main := analysis.MainNode()
	if main == nil {
		t.Fatal("Canned analysis has no main node")
	}
	if !main.Pinned() || *main.FX != 0 || *main.FY != 0 {
		t.Error("Main node not pinned at origin after normalization")
	}
	if len(analysis.Papers) == 0 {
		t.Error("Canned analysis has no papers")
	}

	// Every paper topic joins to a node name.
	names := make(map[string]bool)
	for _, n := range analysis.Graph.Nodes {
		names[n.Name] = true
	}
	for _, p := range analysis.Papers {
		if !names[p.Topic] {
			t.Errorf("Paper %s has unmatched topic %q", p.ID, p.Topic)
		}
	}
}

func TestServer_RejectsNonPDF(t *testing.T) {
	srv := httptest.NewServer(NewServer("", nil, nil).Handler())
	defer srv.Close()

	resp := postPDF(t, srv.URL, "notes.txt", "hello")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("Status %d, want 400", resp.StatusCode)
	}
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("Error body is not the detail shape: %v", err)
	}
	if payload.Detail != "Only PDF files are accepted" {
		t.Errorf("Detail = %q", payload.Detail)
	}
}

func TestServer_FailFilename(t *testing.T) {
	srv := httptest.NewServer(NewServer("", nil, nil).Handler())
	defer srv.Close()

	resp := postPDF(t, srv.URL, FailFilename, "%PDF-1.4")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("Status %d, want 500", resp.StatusCode)
	}
	var payload struct {
		Detail string `json:"detail"`
	}
	json.NewDecoder(resp.Body).Decode(&payload)
	if payload.Detail != "bad pdf" {
		t.Errorf("Detail = %q, want %q", payload.Detail, "bad pdf")
	}
}

func TestServer_Fixture(t *testing.T) {
	fixture := &paper.Analysis{
		Graph: paper.Graph{
			Nodes: []paper.Node{{ID: "main", Name: "Fixture", Group: paper.GroupMain, Val: 20}},
		},
		Papers: []paper.Paper{},
	}
	srv := httptest.NewServer(NewServer("", nil, fixture).Handler())
	defer srv.Close()

	c := client.NewClient(srv.URL)
	analysis, err := c.Analyze(context.Background(), "paper.pdf", bytes.NewReader([]byte("%PDF")))
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(analysis.Graph.Nodes) != 1 || analysis.Graph.Nodes[0].Name != "Fixture" {
		t.Errorf("Fixture not served: %+v", analysis.Graph.Nodes)
	}
}

func TestServer_Health(t *testing.T) {
	srv := httptest.NewServer(NewServer("", nil, nil).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Health status %d", resp.StatusCode)
	}
}
