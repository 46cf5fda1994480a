// Package paper defines the data contract between papermap and the remote
// analysis service: the topic graph and the related-paper records returned
// for an uploaded PDF.
package paper

import "fmt"

// Group classifies a node in the topic graph.
type Group string

const (
	// GroupMain is the single node representing the uploaded paper itself.
	GroupMain Group = "main"
	// GroupTopic is a top-level subject extracted from the paper.
	GroupTopic Group = "topic"
	// GroupSubtopic is a refinement of a topic.
	GroupSubtopic Group = "subtopic"
)

// Node is a vertex in the topic graph.
//
// Val is the importance metric used for node sizing. FX/FY, when non-nil,
// pin the node at fixed coordinates for the layout engine; after
// ParseAnalysis only the main node is pinned, at the origin.
type Node struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Group Group    `json:"group"`
	Val   float64  `json:"val"`
	FX    *float64 `json:"fx,omitempty"`
	FY    *float64 `json:"fy,omitempty"`
}

// Pinned reports whether the node has fixed coordinates.
func (n *Node) Pinned() bool {
	return n.FX != nil && n.FY != nil
}

// Pin fixes the node at (x, y).
func (n *Node) Pin(x, y float64) {
	n.FX = &x
	n.FY = &y
}

// Unpin releases the node back to the simulation.
func (n *Node) Unpin() {
	n.FX = nil
	n.FY = nil
}

// Link is an undirected edge between two nodes, referenced by ID.
// Value is carried from the service but has no direction or width
// semantics; rest distance depends only on the endpoint groups.
type Link struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Value  float64 `json:"value,omitempty"`
}

// Graph is the node/link set for one analysis.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// Paper is one related-paper record. Topic is the join key matched
// (exactly) against Node.Name when the side panel filters papers for a
// selected node.
type Paper struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Authors   []string `json:"authors"`
	Summary   string   `json:"summary"`
	Published string   `json:"published"`
	Topic     string   `json:"topic"`
}

// Analysis is the full normalized result of one upload. A new Analysis
// replaces the previous one wholesale.
type Analysis struct {
	Graph  Graph   `json:"graph"`
	Papers []Paper `json:"papers"`
}

// MainNode returns the graph's main node, or nil if the service sent none.
func (a *Analysis) MainNode() *Node {
	for i := range a.Graph.Nodes {
		if a.Graph.Nodes[i].Group == GroupMain {
			return &a.Graph.Nodes[i]
		}
	}
	return nil
}

// PapersForTopic returns the papers whose Topic equals name, by exact
// string comparison. Papers with no matching node are simply never shown;
// the reverse holds here too.
func (a *Analysis) PapersForTopic(name string) []Paper {
	var out []Paper
	for _, p := range a.Papers {
		if p.Topic == name {
			out = append(out, p)
		}
	}
	return out
}

// AbsURL returns the public arXiv abstract page for a paper ID.
func AbsURL(id string) string {
	return fmt.Sprintf("https://arxiv.org/abs/%s", id)
}
