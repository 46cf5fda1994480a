package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rmax-ai/papermap/pkg/layout"
	"github.com/rmax-ai/papermap/pkg/paper"
)

// Terminal cells are roughly twice as tall as wide; compress world Y so
// distances look isotropic on screen.
const yAspect = 0.5

// Labels are only legible past this magnification; below it the canvas
// shows glyphs only, except for the cursor and selected node which are
// always labelled.
const labelZoom = 0.35

const (
	mainGlyph     = "◉"
	topicGlyph    = "●"
	subtopicGlyph = "○"
	linkGlyph     = "·"
)

type canvas struct {
	w, h  int
	runes [][]rune
	style [][]*lipgloss.Style
}

func newCanvas(w, h int) *canvas {
	runes := make([][]rune, h)
	style := make([][]*lipgloss.Style, h)
	for y := 0; y < h; y++ {
		runes[y] = make([]rune, w)
		style[y] = make([]*lipgloss.Style, w)
		for x := 0; x < w; x++ {
			runes[y][x] = ' '
		}
	}
	return &canvas{w: w, h: h, runes: runes, style: style}
}

func (c *canvas) set(x, y int, r rune, st *lipgloss.Style) {
	if x < 0 || x >= c.w || y < 0 || y >= c.h {
		return
	}
	c.runes[y][x] = r
	c.style[y][x] = st
}

func (c *canvas) text(x, y int, s string, st *lipgloss.Style) {
	for i, r := range []rune(s) {
		c.set(x+i, y, r, st)
	}
}

func (c *canvas) String() string {
	var b strings.Builder
	for y := 0; y < c.h; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < c.w; x++ {
			if st := c.style[y][x]; st != nil {
				b.WriteString(st.Render(string(c.runes[y][x])))
			} else {
				b.WriteRune(c.runes[y][x])
			}
		}
	}
	return b.String()
}

// renderGraph projects the simulation's world coordinates through the
// camera onto a character canvas: links first as dotted lines, then node
// glyphs, then labels so they never sit under a glyph.
func renderGraph(sim *layout.Simulation, cam layout.Pose, selectedID, cursorID string, w, h int) string {
	c := newCanvas(w, h)
	if sim == nil {
		return c.String()
	}

	project := func(wx, wy float64) (int, int) {
		sx := float64(w)/2 + (wx-cam.X)*cam.Zoom
		sy := float64(h)/2 + (wy-cam.Y)*cam.Zoom*yAspect
		return int(sx + 0.5), int(sy + 0.5)
	}

	for _, l := range sim.Links() {
		a, aok := sim.Position(l.Source)
		b, bok := sim.Position(l.Target)
		if !aok || !bok {
			continue
		}
		x0, y0 := project(a.X, a.Y)
		x1, y1 := project(b.X, b.Y)
		drawDotted(c, x0, y0, x1, y1)
	}

	nodes := sim.Nodes()
	for i := range nodes {
		n := &nodes[i]
		pos, ok := sim.Position(n.ID)
		if !ok {
			continue
		}
		x, y := project(pos.X, pos.Y)

		glyph, st := nodeAppearance(n)
		switch {
		case selectedID != "" && n.ID == selectedID:
			st = &selectedNodeStyle
		case cursorID != "" && n.ID == cursorID:
			st = &cursorNodeStyle
		}
		c.set(x, y, []rune(glyph)[0], st)
	}

	for i := range nodes {
		n := &nodes[i]
		highlighted := (selectedID != "" && n.ID == selectedID) ||
			(cursorID != "" && n.ID == cursorID)
		if cam.Zoom < labelZoom && !highlighted {
			continue
		}
		pos, ok := sim.Position(n.ID)
		if !ok {
			continue
		}
		x, y := project(pos.X, pos.Y)
		label := truncate(n.Name, 24)
		st := &labelStyle
		if highlighted {
			st = &selectedNodeStyle
		}
		c.text(x+2, y, label, st)
	}

	return c.String()
}

func nodeAppearance(n *paper.Node) (string, *lipgloss.Style) {
	switch n.Group {
	case paper.GroupMain:
		return mainGlyph, &mainNodeStyle
	case paper.GroupTopic:
		return topicGlyph, &topicNodeStyle
	default:
		return subtopicGlyph, &subtopicNodeStyle
	}
}

// drawDotted walks the segment with a coarse Bresenham, placing a dot
// every other step so links read as faint paths rather than solid bars.
func drawDotted(c *canvas, x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	step := 0
	x, y := x0, y0
	for {
		if x == x1 && y == y1 {
			break
		}
		if step%2 == 1 {
			c.set(x, y, []rune(linkGlyph)[0], &linkStyle)
		}
		step++
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
