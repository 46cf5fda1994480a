package ui

import (
	"context"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rmax-ai/papermap/pkg/paper"
	"github.com/rmax-ai/papermap/pkg/pdfpre"
)

// analysisMsg carries a normalized analysis into the model, either fresh
// from an upload or reopened from the local store.
type analysisMsg struct {
	analysis *paper.Analysis
	filename string
	title    string
	saved    bool // true when reopened from the store, skip re-saving
}

// analysisErrMsg carries the single user-visible message that any upload
// failure collapses into.
type analysisErrMsg struct {
	message string
}

// frameMsg drives the simulation and camera animation loop.
type frameMsg time.Time

// frameInterval is the animation frame rate for simulation ticks and
// camera tweens.
const frameInterval = 33 * time.Millisecond

func frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// uploadCmd preflights a local PDF and uploads it to the analysis
// service. Every failure class returns an analysisErrMsg whose text is
// shown verbatim in the error banner.
func (m Model) uploadCmd(path string) tea.Cmd {
	return func() tea.Msg {
		info, err := pdfpre.Check(path)
		if err != nil {
			return analysisErrMsg{message: err.Error()}
		}

		f, err := os.Open(path)
		if err != nil {
			return analysisErrMsg{message: err.Error()}
		}
		defer f.Close()

		analysis, err := m.client.Analyze(context.Background(), filepath.Base(path), f)
		if err != nil {
			return analysisErrMsg{message: err.Error()}
		}

		return analysisMsg{
			analysis: analysis,
			filename: filepath.Base(path),
			title:    info.Title,
		}
	}
}

// openLatestCmd reopens the most recent saved analysis without touching
// the network.
func (m Model) openLatestCmd() tea.Cmd {
	return func() tea.Msg {
		if m.history == nil {
			return analysisErrMsg{message: "no local history available"}
		}
		rec, err := m.history.Latest()
		if err != nil {
			return analysisErrMsg{message: "no saved analyses yet"}
		}
		return analysisMsg{
			analysis: rec.Analysis,
			filename: rec.Filename,
			title:    rec.Title,
			saved:    true,
		}
	}
}
