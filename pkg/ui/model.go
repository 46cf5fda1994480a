// Package ui implements the topic map view: upload flow, force-layout
// lifecycle, node selection and camera moves, and the related-papers side
// panel. It follows the Elm architecture; all state lives in the Model
// and is updated synchronously per message, the upload command being the
// only suspension point.
package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/rmax-ai/papermap/pkg/client"
	"github.com/rmax-ai/papermap/pkg/layout"
	"github.com/rmax-ai/papermap/pkg/paper"
	"github.com/rmax-ai/papermap/pkg/store"
)

// Camera behavior constants. The zoom and durations are fixed by design:
// selecting any node always lands at the same magnification, and camera
// moves are fire-and-forget transitions — starting a new one replaces the
// old, last call wins.
const (
	selectZoom     = 0.6
	fitPadding     = 4
	fitDuration    = 600 * time.Millisecond
	centerDuration = 800 * time.Millisecond
)

const panelWidth = 46

type tweenKind int

const (
	tweenNone tweenKind = iota
	tweenFit
	tweenCenter
	tweenRestore
)

// History is the slice of the local store the view needs.
type History interface {
	Save(a *paper.Analysis, filename, title string) (string, error)
	Latest() (*store.Record, error)
}

// Config wires the view's collaborators.
type Config struct {
	Client   *client.Client
	History  History // may be nil, disables reopen/save
	Logger   *zap.SugaredLogger
	StartDir string // file picker root, defaults to the working directory
}

// Model is the topic map. Use New to construct one.
type Model struct {
	client  *client.Client
	history History
	logger  *zap.SugaredLogger

	picker  filepicker.Model
	spinner spinner.Model
	panel   viewport.Model

	width  int
	height int
	ready  bool

	// Upload state. While loading is set the picker is not reachable,
	// which is what prevents concurrent uploads.
	loading     bool
	loadingName string
	picking     bool
	errMsg      string

	// Graph state, replaced wholesale per analysis.
	analysis    *paper.Analysis
	sourceName  string
	sourceTitle string
	sim         *layout.Simulation
	settled     bool

	// Camera: current pose, the initial pose snapshotted after the
	// post-settle fit completes, and the in-flight transition if any.
	camera    layout.Pose
	initial   *layout.Pose
	tween     *layout.Tween
	tweenKind tweenKind

	// Selection: at most one selected node, plus a keyboard cursor over
	// the node list and a cursor over the panel's paper cards.
	cursor      int
	selectedID  string
	paperCursor int
	expanded    map[string]bool
}

// New creates the topic map view.
func New(cfg Config) Model {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop().Sugar()
	}

	fp := filepicker.New()
	fp.AllowedTypes = []string{".pdf"}
	if cfg.StartDir != "" {
		fp.CurrentDirectory = cfg.StartDir
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return Model{
		client:   cfg.Client,
		history:  cfg.History,
		logger:   cfg.Logger,
		picker:   fp,
		spinner:  sp,
		panel:    viewport.New(panelWidth, 20),
		picking:  true,
		camera:   layout.Pose{Zoom: 1},
		expanded: make(map[string]bool),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.picker.Init(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.panel.Width = panelWidth
		m.panel.Height = max(m.height-6, 5)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case analysisMsg:
		return m.installAnalysis(msg)

	case analysisErrMsg:
		m.loading = false
		m.errMsg = msg.message
		m.logger.Warnw("analysis failed", "error", msg.message)

	case frameMsg:
		return m.handleFrame(time.Time(msg))
	}

	if m.showPicker() {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		cmds = append(cmds, cmd)
		if didSelect, path := m.picker.DidSelectFile(msg); didSelect {
			return m.beginUpload(path)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" || key == "q" {
		return m, tea.Quit
	}

	// Error state: the only recovery is the full reload.
	if m.errMsg != "" {
		if key == "r" {
			return m.reload()
		}
		return m, nil
	}

	if m.loading {
		// Upload control disabled while a request is in flight.
		return m, nil
	}

	if m.showPicker() {
		if key == "l" {
			return m, m.openLatestCmd()
		}
		if key == "esc" && m.analysis != nil {
			m.picking = false
			return m, nil
		}
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		if didSelect, path := m.picker.DidSelectFile(msg); didSelect {
			return m.beginUpload(path)
		}
		return m, cmd
	}

	// Graph view keys.
	switch key {
	case "u":
		m.picking = true
		return m, m.picker.Init()

	case "tab", "right":
		m.moveCursor(1)
	case "shift+tab", "left":
		m.moveCursor(-1)

	case "enter", " ":
		return m.selectCursorNode()

	case "esc":
		return m.closePanel()
	}

	if m.selectedID != "" {
		switch key {
		case "down", "j":
			m.movePaperCursor(1)
		case "up", "k":
			m.movePaperCursor(-1)
		case "x":
			m.toggleAbstract()
		default:
			var cmd tea.Cmd
			m.panel, cmd = m.panel.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

// beginUpload clears all prior graph, paper, and selection state eagerly —
// before the network call resolves — so stale data never stays visible
// during a new request, then fires the upload.
func (m Model) beginUpload(path string) (tea.Model, tea.Cmd) {
	m.analysis = nil
	m.sim = nil
	m.settled = false
	m.selectedID = ""
	m.cursor = 0
	m.paperCursor = 0
	m.expanded = make(map[string]bool)
	m.initial = nil
	m.tween = nil
	m.tweenKind = tweenNone
	m.errMsg = ""

	m.picking = false
	m.loading = true
	m.loadingName = filepath.Base(path)

	m.logger.Infow("upload started", "file", m.loadingName)
	return m, tea.Batch(m.uploadCmd(path), m.spinner.Tick)
}

func (m Model) installAnalysis(msg analysisMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	m.picking = false
	m.analysis = msg.analysis
	m.sourceName = msg.filename
	m.sourceTitle = msg.title
	m.sim = layout.NewSimulation(layout.DefaultConfig(), msg.analysis.Graph)
	m.settled = false
	m.cursor = 0

	// Rough framing while the simulation runs; the real fit happens on
	// settle.
	gw, gh := m.graphSize()
	m.camera = layout.FitAll(m.sim.Positions(), float64(gw), float64(gh), fitPadding)

	if !msg.saved && m.history != nil {
		if _, err := m.history.Save(msg.analysis, msg.filename, msg.title); err != nil {
			m.logger.Warnw("saving analysis", "error", err)
		}
	}

	m.logger.Infow("analysis installed",
		"nodes", len(msg.analysis.Graph.Nodes),
		"papers", len(msg.analysis.Papers))
	return m, frameTick()
}

// handleFrame advances the simulation and any camera transition by one
// animation frame and reschedules itself while either is still moving.
func (m Model) handleFrame(now time.Time) (tea.Model, tea.Cmd) {
	simRunning := false
	if m.sim != nil && !m.settled {
		if m.sim.Step() {
			simRunning = true
		} else {
			m.settled = true
			m.onSettle(now)
		}
	}

	if m.tween != nil {
		pose, done := m.tween.At(now)
		m.camera = pose
		if done {
			if m.tweenKind == tweenFit {
				// The fit transition has completed: this pose is the
				// "initial view" ClosePanel restores.
				snapshot := m.camera
				m.initial = &snapshot
			}
			m.tween = nil
			m.tweenKind = tweenNone
		}
	}

	if simRunning || m.tween != nil {
		return m, frameTick()
	}
	return m, nil
}

// onSettle runs once when the simulation reaches rest: re-assert the main
// node at the origin (the simulation may have nudged its neighbors'
// frame), then fit the camera to the whole graph with padding.
func (m *Model) onSettle(now time.Time) {
	if main := m.analysis.MainNode(); main != nil {
		m.sim.PinAt(main.ID, 0, 0)
	}

	gw, gh := m.graphSize()
	target := layout.FitAll(m.sim.Positions(), float64(gw), float64(gh), fitPadding)
	tw := layout.NewTween(m.camera, target, now, fitDuration)
	m.tween = &tw
	m.tweenKind = tweenFit
}

func (m *Model) moveCursor(delta int) {
	if m.analysis == nil || len(m.analysis.Graph.Nodes) == 0 {
		return
	}
	n := len(m.analysis.Graph.Nodes)
	m.cursor = (m.cursor + delta + n) % n
}

// selectCursorNode applies the selection rule: the main node represents
// the uploaded paper itself, not a topic, so selecting it is a no-op.
// Any other node becomes the selection and the camera centers on it.
func (m Model) selectCursorNode() (tea.Model, tea.Cmd) {
	if m.analysis == nil || m.cursor >= len(m.analysis.Graph.Nodes) {
		return m, nil
	}
	node := m.analysis.Graph.Nodes[m.cursor]
	if node.Group == paper.GroupMain {
		return m, nil
	}

	m.selectedID = node.ID
	m.paperCursor = 0
	m.refreshPanel()

	if pos, ok := m.sim.Position(node.ID); ok {
		tw := layout.NewTween(m.camera, layout.Pose{X: pos.X, Y: pos.Y, Zoom: selectZoom},
			time.Now(), centerDuration)
		m.tween = &tw
		m.tweenKind = tweenCenter
	}
	return m, frameTick()
}

// closePanel clears the selection and returns the camera to the stored
// initial pose.
func (m Model) closePanel() (tea.Model, tea.Cmd) {
	if m.selectedID == "" {
		return m, nil
	}
	m.selectedID = ""
	m.paperCursor = 0

	if m.initial != nil {
		tw := layout.NewTween(m.camera, *m.initial, time.Now(), centerDuration)
		m.tween = &tw
		m.tweenKind = tweenRestore
		return m, frameTick()
	}
	return m, nil
}

// reload is the full-page-reload analog: everything except the terminal
// size and wiring is reset to the initial state.
func (m Model) reload() (tea.Model, tea.Cmd) {
	fresh := New(Config{
		Client:   m.client,
		History:  m.history,
		Logger:   m.logger,
		StartDir: m.picker.CurrentDirectory,
	})
	fresh.width = m.width
	fresh.height = m.height
	fresh.ready = m.ready
	fresh.panel.Width = panelWidth
	fresh.panel.Height = max(m.height-6, 5)
	return fresh, fresh.Init()
}

func (m *Model) selectedNode() *paper.Node {
	if m.analysis == nil || m.selectedID == "" {
		return nil
	}
	for i := range m.analysis.Graph.Nodes {
		if m.analysis.Graph.Nodes[i].ID == m.selectedID {
			return &m.analysis.Graph.Nodes[i]
		}
	}
	return nil
}

func (m *Model) movePaperCursor(delta int) {
	node := m.selectedNode()
	if node == nil {
		return
	}
	n := len(m.analysis.PapersForTopic(node.Name))
	if n == 0 {
		return
	}
	m.paperCursor = (m.paperCursor + delta + n) % n
	m.refreshPanel()
}

func (m *Model) toggleAbstract() {
	node := m.selectedNode()
	if node == nil {
		return
	}
	papers := m.analysis.PapersForTopic(node.Name)
	if m.paperCursor >= len(papers) {
		return
	}
	key := abstractKey(papers[m.paperCursor], m.paperCursor)
	m.expanded[key] = !m.expanded[key]
	m.refreshPanel()
}

func (m *Model) refreshPanel() {
	node := m.selectedNode()
	if node == nil {
		m.panel.SetContent("")
		return
	}
	m.panel.SetContent(renderPanel(m.analysis, node, m.expanded, m.paperCursor, panelWidth-4))
}

func (m Model) showPicker() bool {
	return m.picking && !m.loading && m.errMsg == ""
}

// graphSize returns the canvas cell dimensions available to the graph,
// accounting for the chrome and the side panel when it is open.
func (m Model) graphSize() (int, int) {
	w := m.width
	if m.selectedID != "" {
		w -= panelWidth + 1
	}
	w = max(w-2, 20)
	h := max(m.height-6, 10)
	return w, h
}

func (m Model) View() string {
	if !m.ready {
		return fmt.Sprintf("\n%s Initializing...", m.spinner.View())
	}

	header := headerStyle.Width(m.width).Render("papermap — topic map")

	var body string
	switch {
	case m.errMsg != "":
		banner := bannerStyle.Render(errorStyle.Render("Error: ") + m.errMsg)
		body = lipgloss.JoinVertical(lipgloss.Left,
			banner,
			subtleStyle.Render("\nPress r to reload · q to quit"))

	case m.loading:
		body = fmt.Sprintf("\n%s Analyzing %s… this can take a minute",
			m.spinner.View(), m.loadingName)

	case m.showPicker():
		hint := subtleStyle.Render("enter: analyze PDF · l: open last analysis · q: quit")
		body = lipgloss.JoinVertical(lipgloss.Left, m.picker.View(), hint)

	case m.analysis != nil:
		body = m.viewGraph()

	default:
		body = subtleStyle.Render("No paper loaded. Press u to choose a PDF.")
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

func (m Model) viewGraph() string {
	gw, gh := m.graphSize()
	canvas := renderGraph(m.sim, m.camera, m.selectedID, m.cursorID(), gw, gh)

	status := okStyle.Render(fmt.Sprintf("%s · %d topics · %d papers",
		m.sourceLabel(), topicCount(m.analysis), len(m.analysis.Papers)))
	hints := subtleStyle.Render("tab: next node · enter: open topic · esc: close · u: new upload · q: quit")

	if m.selectedID != "" {
		panel := panelStyle.Render(m.panel.View())
		main := lipgloss.JoinHorizontal(lipgloss.Top, canvas, " ", panel)
		return lipgloss.JoinVertical(lipgloss.Left, main, status, hints)
	}
	return lipgloss.JoinVertical(lipgloss.Left, canvas, status, hints)
}

func (m Model) cursorID() string {
	if m.analysis == nil || m.cursor >= len(m.analysis.Graph.Nodes) {
		return ""
	}
	return m.analysis.Graph.Nodes[m.cursor].ID
}

func (m Model) sourceLabel() string {
	if m.sourceTitle != "" {
		return m.sourceTitle
	}
	if m.sourceName != "" {
		return m.sourceName
	}
	return "untitled"
}

func topicCount(a *paper.Analysis) int {
	n := 0
	for _, node := range a.Graph.Nodes {
		if node.Group == paper.GroupTopic || node.Group == paper.GroupSubtopic {
			n++
		}
	}
	return n
}

func abstractKey(p paper.Paper, idx int) string {
	if p.ID != "" {
		return p.ID
	}
	return fmt.Sprintf("idx-%d-%s", idx, strings.ToLower(p.Title))
}

