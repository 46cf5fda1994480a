package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/rmax-ai/papermap/pkg/paper"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "papermap.db"))
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testAnalysis() *paper.Analysis {
	return &paper.Analysis{
		Graph: paper.Graph{
			Nodes: []paper.Node{
				{ID: "main", Name: "Paper", Group: paper.GroupMain, Val: 20},
				{ID: "t1", Name: "ML", Group: paper.GroupTopic, Val: 10},
			},
			Links: []paper.Link{{Source: "main", Target: "t1"}},
		},
		Papers: []paper.Paper{
			{ID: "1", Title: "T", Authors: []string{"A. Author"}, Topic: "ML"},
		},
	}
}

func TestStore_SaveAndGet(t *testing.T) {
	s := testStore(t)

	id, err := s.Save(testAnalysis(), "paper.pdf", "A Title")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	rec, err := s.Get(id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if rec.Filename != "paper.pdf" || rec.Title != "A Title" {
		t.Errorf("Unexpected envelope: %+v", rec)
	}
	if rec.Analysis == nil || len(rec.Analysis.Graph.Nodes) != 2 {
		t.Errorf("Payload round trip lost graph: %+v", rec.Analysis)
	}
	if len(rec.Analysis.Papers) != 1 || rec.Analysis.Papers[0].Topic != "ML" {
		t.Errorf("Payload round trip lost papers: %+v", rec.Analysis)
	}
}

func TestStore_Latest(t *testing.T) {
	s := testStore(t)

	if _, err := s.Latest(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Latest on empty store = %v, want ErrNotFound", err)
	}

	if _, err := s.Save(testAnalysis(), "first.pdf", ""); err != nil {
		t.Fatal(err)
	}
	id2, err := s.Save(testAnalysis(), "second.pdf", "")
	if err != nil {
		t.Fatal(err)
	}

	rec, err := s.Latest()
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if rec.ID != id2 {
		t.Errorf("Latest = %s (%s), want %s", rec.ID, rec.Filename, id2)
	}
}

func TestStore_List(t *testing.T) {
	s := testStore(t)

	for _, name := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		if _, err := s.Save(testAnalysis(), name, ""); err != nil {
			t.Fatal(err)
		}
	}

	records, err := s.List(2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].Filename != "c.pdf" {
		t.Errorf("Expected newest first, got %s", records[0].Filename)
	}
	if records[0].Analysis != nil {
		t.Error("List must not hydrate payloads")
	}
}

func TestStore_GetMissing(t *testing.T) {
	s := testStore(t)
	if _, err := s.Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get missing = %v, want ErrNotFound", err)
	}
}
