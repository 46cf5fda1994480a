package layout

import (
	"math"
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/rmax-ai/papermap/pkg/paper"
)

func TestLinkDistance_Ordering(t *testing.T) {
	cfg := DefaultConfig()

	mainTopic := cfg.LinkDistance(paper.GroupMain, paper.GroupTopic)
	topicSub := cfg.LinkDistance(paper.GroupTopic, paper.GroupSubtopic)
	other := cfg.LinkDistance(paper.GroupSubtopic, paper.GroupSubtopic)

	if !(mainTopic > other && other > topicSub) {
		t.Errorf("Distance ordering violated: main-topic=%v other=%v topic-subtopic=%v",
			mainTopic, other, topicSub)
	}
}

func TestLinkDistance_OrderIndependent(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.LinkDistance(paper.GroupTopic, paper.GroupMain) != cfg.LinkDistance(paper.GroupMain, paper.GroupTopic) {
		t.Error("Link distance must not depend on endpoint order")
	}
	if cfg.LinkDistance(paper.GroupSubtopic, paper.GroupTopic) != cfg.LinkDistance(paper.GroupTopic, paper.GroupSubtopic) {
		t.Error("Link distance must not depend on endpoint order")
	}
}

func testGraph() paper.Graph {
	g := paper.Graph{
		Nodes: []paper.Node{
			{ID: "main", Name: "Paper", Group: paper.GroupMain, Val: 20},
			{ID: "t1", Name: "ML", Group: paper.GroupTopic, Val: 10},
			{ID: "t2", Name: "Vision", Group: paper.GroupTopic, Val: 8},
			{ID: "s1", Name: "CNNs", Group: paper.GroupSubtopic, Val: 4},
		},
		Links: []paper.Link{
			{Source: "main", Target: "t1"},
			{Source: "main", Target: "t2"},
			{Source: "t1", Target: "s1"},
		},
	}
	g.Nodes[0].Pin(0, 0)
	return g
}

func TestSimulation_SettlesAndKeepsPin(t *testing.T) {
	sim := NewSimulation(DefaultConfig(), testGraph())

	sim.Settle(1000)
	if !sim.Settled() {
		t.Fatal("Simulation did not settle within 1000 ticks")
	}

	pos, ok := sim.Position("main")
	if !ok {
		t.Fatal("Main node missing from simulation")
	}
	if pos.X != 0 || pos.Y != 0 {
		t.Errorf("Pinned main node moved to (%v,%v)", pos.X, pos.Y)
	}
}

func TestSimulation_PositionsFiniteAndSeparated(t *testing.T) {
	sim := NewSimulation(DefaultConfig(), testGraph())
	sim.Settle(1000)

	positions := sim.Positions()
	if len(positions) != 4 {
		t.Fatalf("Expected 4 positions, got %d", len(positions))
	}
	for id, p := range positions {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			t.Fatalf("Node %s has non-finite position (%v,%v)", id, p.X, p.Y)
		}
	}

	// Collision avoidance: no two nodes settle on the same point.
	ids := []string{"main", "t1", "t2", "s1"}
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			a, b := positions[ids[i]], positions[ids[j]]
			if math.Hypot(a.X-b.X, a.Y-b.Y) < 1 {
				t.Errorf("Nodes %s and %s overlap", ids[i], ids[j])
			}
		}
	}
}

func TestSimulation_TopicsCloserToMainThanSubtopicToTopicScale(t *testing.T) {
	// The layered rest distances should leave the main↔topic separation
	// clearly larger than the topic↔subtopic separation once settled.
	sim := NewSimulation(DefaultConfig(), testGraph())
	sim.Settle(1000)

	positions := sim.Positions()
	dist := func(a, b string) float64 {
		pa, pb := positions[a], positions[b]
		return math.Hypot(pa.X-pb.X, pa.Y-pb.Y)
	}

	if dist("main", "t1") <= dist("t1", "s1") {
		t.Errorf("Expected main-topic separation (%v) to exceed topic-subtopic (%v)",
			dist("main", "t1"), dist("t1", "s1"))
	}
}

func TestSimulation_DropsDanglingLinks(t *testing.T) {
	g := testGraph()
	g.Links = append(g.Links, paper.Link{Source: "main", Target: "ghost"})

	sim := NewSimulation(DefaultConfig(), g)
	sim.Settle(1000)
	// Reaching rest without panicking is the assertion; the dangling link
	// must simply be ignored.
	if !sim.Settled() {
		t.Error("Simulation with dangling link did not settle")
	}
}

func TestSimulation_PinAt(t *testing.T) {
	sim := NewSimulation(DefaultConfig(), testGraph())
	sim.Settle(1000)

	sim.PinAt("main", 0, 0)
	pos, _ := sim.Position("main")
	if pos.X != 0 || pos.Y != 0 {
		t.Errorf("PinAt did not snap main to origin, got (%v,%v)", pos.X, pos.Y)
	}
}

func TestFitAll(t *testing.T) {
	positions := map[string]r2.Vec{
		"a": {X: -100, Y: -50},
		"b": {X: 100, Y: 50},
	}

	pose := FitAll(positions, 220, 120, 10)
	if pose.X != 0 || pose.Y != 0 {
		t.Errorf("Fit center (%v,%v), want origin", pose.X, pose.Y)
	}
	// Width is the binding constraint: (220-20)/200 = 1.0
	if math.Abs(pose.Zoom-1.0) > 1e-9 {
		t.Errorf("Fit zoom %v, want 1.0", pose.Zoom)
	}
}

func TestFitAll_Degenerate(t *testing.T) {
	if pose := FitAll(nil, 100, 100, 10); pose.Zoom != 1 {
		t.Errorf("Empty fit zoom %v, want 1", pose.Zoom)
	}
	one := map[string]r2.Vec{"a": {X: 5, Y: 5}}
	pose := FitAll(one, 100, 100, 10)
	if pose.X != 5 || pose.Y != 5 || pose.Zoom != 1 {
		t.Errorf("Single-point fit = %+v, want centered identity", pose)
	}
}

func TestTween(t *testing.T) {
	start := time.Now()
	tw := NewTween(Pose{X: 0, Y: 0, Zoom: 1}, Pose{X: 10, Y: 20, Zoom: 3}, start, time.Second)

	if pose, done := tw.At(start); done || pose != tw.From {
		t.Errorf("At start: pose=%+v done=%v", pose, done)
	}

	mid, done := tw.At(start.Add(500 * time.Millisecond))
	if done {
		t.Error("Tween reported done at midpoint")
	}
	if mid.X <= 0 || mid.X >= 10 {
		t.Errorf("Midpoint X=%v out of range", mid.X)
	}

	if pose, done := tw.At(start.Add(2 * time.Second)); !done || pose != tw.To {
		t.Errorf("At end: pose=%+v done=%v", pose, done)
	}
}
