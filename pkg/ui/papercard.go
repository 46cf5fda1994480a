package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rmax-ai/papermap/pkg/paper"
)

// renderPaperCard formats one related paper: title, authors, publication
// date, the abstract behind a toggle, and the arXiv link. Missing fields
// get placeholders rather than blank lines.
func renderPaperCard(p paper.Paper, width int, atCursor, showAbstract bool) string {
	var b strings.Builder

	marker := "  "
	if atCursor {
		marker = cardCursorStyle.Render("▸ ")
	}

	title := p.Title
	if title == "" {
		title = "Untitled"
	}
	b.WriteString(marker + cardTitleStyle.Render(wrap(title, width-2)))
	b.WriteByte('\n')

	authors := "Unknown authors"
	if len(p.Authors) > 0 {
		authors = strings.Join(p.Authors, ", ")
	}
	b.WriteString("  " + cardMetaStyle.Render(truncate(authors, width-2)))
	b.WriteByte('\n')

	published := p.Published
	if published == "" {
		published = "date unavailable"
	}
	b.WriteString("  " + cardMetaStyle.Render(published))
	b.WriteByte('\n')

	switch {
	case p.Summary == "":
		b.WriteString("  " + subtleStyle.Render("no abstract available"))
	case showAbstract:
		b.WriteString("  " + wrap(p.Summary, width-2))
	default:
		b.WriteString("  " + subtleStyle.Render("x: show abstract"))
	}
	b.WriteByte('\n')

	if p.ID != "" {
		b.WriteString("  " + cardLinkStyle.Render(paper.AbsURL(p.ID)))
		b.WriteByte('\n')
	}

	return strings.TrimRight(b.String(), "\n")
}

func wrap(s string, width int) string {
	if width < 10 {
		width = 10
	}
	return lipgloss.NewStyle().Width(width).Render(s)
}
