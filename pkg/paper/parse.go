package paper

import (
	"encoding/json"
	"fmt"
)

// Wire shapes for the analysis response. The service returns a two-element
// JSON array: [ {nodes, links}, papers ]. Fields the service omits are
// defaulted here, once, at the boundary; everything downstream assumes the
// normalized contract holds.

type wireNode struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Group string   `json:"group"`
	Val   *float64 `json:"val"`
}

type wireLink struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Value  float64 `json:"value"`
}

type wireGraph struct {
	Nodes []wireNode `json:"nodes"`
	Links []wireLink `json:"links"`
}

type wirePaper struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Authors   []string `json:"authors"`
	Summary   string   `json:"summary"`
	Published string   `json:"published"`
	Topic     string   `json:"topic"`
}

// ParseAnalysis decodes and normalizes an analysis response body.
//
// Normalization rules:
//   - missing nodes/links/papers collections become empty, not nil maps of
//     surprise later;
//   - a node without an ID is keyed by its name;
//   - missing paper fields become empty strings, Authors an empty slice;
//   - the first main-group node is pinned to the origin, every other pin
//     is stripped.
func ParseAnalysis(body []byte) (*Analysis, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(body, &elems); err != nil {
		return nil, fmt.Errorf("analysis response is not a JSON array: %w", err)
	}
	if len(elems) < 2 {
		return nil, fmt.Errorf("analysis response has %d elements, want 2", len(elems))
	}

	var wg wireGraph
	if err := json.Unmarshal(elems[0], &wg); err != nil {
		return nil, fmt.Errorf("decoding graph element: %w", err)
	}
	var wp []wirePaper
	if err := json.Unmarshal(elems[1], &wp); err != nil {
		return nil, fmt.Errorf("decoding papers element: %w", err)
	}

	a := &Analysis{
		Graph: Graph{
			Nodes: make([]Node, 0, len(wg.Nodes)),
			Links: make([]Link, 0, len(wg.Links)),
		},
		Papers: make([]Paper, 0, len(wp)),
	}

	for _, n := range wg.Nodes {
		node := Node{
			ID:    n.ID,
			Name:  n.Name,
			Group: Group(n.Group),
		}
		if node.ID == "" {
			node.ID = node.Name
		}
		if n.Val != nil {
			node.Val = *n.Val
		}
		a.Graph.Nodes = append(a.Graph.Nodes, node)
	}

	for _, l := range wg.Links {
		a.Graph.Links = append(a.Graph.Links, Link(l))
	}

	for _, p := range wp {
		rec := Paper(p)
		if rec.Authors == nil {
			rec.Authors = []string{}
		}
		a.Papers = append(a.Papers, rec)
	}

	pinMain(&a.Graph)
	return a, nil
}

// pinMain pins the first main node to (0,0) and unpins everything else.
// The service is expected to send exactly one main node; if it ever sends
// more, later ones are left to the simulation like any other node.
func pinMain(g *Graph) {
	pinned := false
	for i := range g.Nodes {
		n := &g.Nodes[i]
		n.Unpin()
		if !pinned && n.Group == GroupMain {
			n.Pin(0, 0)
			pinned = true
		}
	}
}
