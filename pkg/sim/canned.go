package sim

import (
	"fmt"

	"github.com/rmax-ai/papermap/pkg/paper"
)

// cannedTopic mirrors the real service's extraction output: five main
// topics with importance scores and up to three subtopics each.
type cannedTopic struct {
	name       string
	importance float64
	subtopics  []cannedTopic
}

var cannedTopics = []cannedTopic{
	{name: "neural networks", importance: 9, subtopics: []cannedTopic{
		{name: "convolutional neural networks", importance: 8},
		{name: "attention mechanisms", importance: 7},
	}},
	{name: "representation learning", importance: 8, subtopics: []cannedTopic{
		{name: "contrastive objectives", importance: 6},
	}},
	{name: "optimization methods", importance: 7, subtopics: []cannedTopic{
		{name: "adaptive gradient methods", importance: 5},
		{name: "learning rate schedules", importance: 4},
	}},
	{name: "benchmark evaluation", importance: 6, subtopics: []cannedTopic{
		{name: "dataset bias", importance: 4},
	}},
	{name: "model interpretability", importance: 5},
}

// CannedAnalysis builds the deterministic demo analysis for a filename,
// assembling the graph exactly the way the real service does: a "main"
// hub valued 20, topic nodes valued importance×2, subtopic nodes valued
// importance, and three related papers per topic name.
func CannedAnalysis(filename string) *paper.Analysis {
	title := filename
	if len(title) > 50 {
		title = title[:50] + "..."
	}

	a := &paper.Analysis{}
	a.Graph.Nodes = append(a.Graph.Nodes, paper.Node{
		ID: "main", Name: title, Group: paper.GroupMain, Val: 20,
	})

	paperSeq := 0
	for _, t := range cannedTopics {
		topicID := "topic_" + t.name
		a.Graph.Nodes = append(a.Graph.Nodes, paper.Node{
			ID: topicID, Name: t.name, Group: paper.GroupTopic, Val: t.importance * 2,
		})
		a.Graph.Links = append(a.Graph.Links, paper.Link{
			Source: "main", Target: topicID, Value: t.importance,
		})
		a.Papers = append(a.Papers, cannedPapers(t.name, &paperSeq)...)

		for _, sub := range t.subtopics {
			subID := fmt.Sprintf("subtopic_%s_%s", topicID, sub.name)
			a.Graph.Nodes = append(a.Graph.Nodes, paper.Node{
				ID: subID, Name: sub.name, Group: paper.GroupSubtopic, Val: sub.importance,
			})
			a.Graph.Links = append(a.Graph.Links, paper.Link{
				Source: topicID, Target: subID, Value: sub.importance,
			})
			a.Papers = append(a.Papers, cannedPapers(sub.name, &paperSeq)...)
		}
	}

	return a
}

// cannedPapers fabricates three plausible related-paper records for a
// topic, with stable arXiv-looking IDs.
func cannedPapers(topic string, seq *int) []paper.Paper {
	out := make([]paper.Paper, 0, 3)
	for i := 0; i < 3; i++ {
		*seq++
		out = append(out, paper.Paper{
			ID:        fmt.Sprintf("2401.%05dv1", *seq),
			Title:     fmt.Sprintf("A Study of %s (%d)", topic, i+1),
			Authors:   []string{"A. Researcher", "B. Scholar"},
			Summary:   fmt.Sprintf("We investigate %s and report results across standard benchmarks.", topic),
			Published: "2024-01-15",
			Topic:     topic,
		})
	}
	return out
}
