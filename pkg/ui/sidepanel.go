package ui

import (
	"fmt"
	"strings"

	"github.com/rmax-ai/papermap/pkg/paper"
)

// maxImportance is the importance scale ceiling; node values are rendered
// against it as a proportional bar. The main node is not a topic and gets
// no bar.
const maxImportance = 20

const barWidth = 20

// renderPanel builds the side panel body for a selected node: the node
// name, an importance bar for topic and subtopic nodes, and the related
// papers whose Topic field matches the node name exactly.
func renderPanel(a *paper.Analysis, node *paper.Node, expanded map[string]bool, cursor int, width int) string {
	var b strings.Builder

	b.WriteString(panelTitleStyle.Render(node.Name))
	b.WriteByte('\n')

	if node.Group == paper.GroupTopic || node.Group == paper.GroupSubtopic {
		b.WriteString(importanceBar(node.Val))
		b.WriteString("\n")
	}
	b.WriteByte('\n')

	papers := a.PapersForTopic(node.Name)
	if len(papers) == 0 {
		b.WriteString(subtleStyle.Render("No related papers found for this topic."))
		return b.String()
	}

	b.WriteString(cardMetaStyle.Render(fmt.Sprintf("%d related paper(s)", len(papers))))
	b.WriteString("\n\n")

	for i, p := range papers {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(renderPaperCard(p, width, i == cursor, expanded[abstractKey(p, i)]))
		b.WriteByte('\n')
	}

	return b.String()
}

func importanceBar(val float64) string {
	frac := val / maxImportance
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	filled := int(frac*barWidth + 0.5)

	bar := barFillStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", barWidth-filled))
	return fmt.Sprintf("%s %s", bar, cardMetaStyle.Render(fmt.Sprintf("importance %.0f/%d", val, maxImportance)))
}
