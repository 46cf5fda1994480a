// Package pdfpre validates a PDF locally before upload. The analysis
// service rejects non-PDF, oversized, and unreadable files only after the
// whole upload has been sent; running the same checks here fails fast and
// gives the view a title to display while the analysis runs.
package pdfpre

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// MaxFileSize mirrors the analysis service's upload cap.
const MaxFileSize = 10 * 1024 * 1024

// titlePages bounds the title search; the title is on page one in
// practice but scanned covers sometimes push it to page two.
const titlePages = 2

// Info describes a PDF that passed preflight.
type Info struct {
	Path  string
	Size  int64
	Pages int
	Title string // best-effort heuristic, may be empty
}

// Check validates the file at path and returns its Info. Errors are
// worded for direct display in the UI's error banner.
func Check(path string) (Info, error) {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return Info{}, fmt.Errorf("only PDF files are accepted: %s", filepath.Base(path))
	}

	st, err := os.Stat(path)
	if err != nil {
		return Info{}, fmt.Errorf("cannot read %s: %w", filepath.Base(path), err)
	}
	if st.Size() > MaxFileSize {
		return Info{}, fmt.Errorf("file too large (%d MB, limit %d MB)",
			st.Size()/(1024*1024), MaxFileSize/(1024*1024))
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("not a readable PDF: %s", filepath.Base(path))
	}
	defer f.Close()

	info := Info{
		Path:  path,
		Size:  st.Size(),
		Pages: r.NumPage(),
	}
	info.Title = extractTitle(r)
	return info, nil
}

// extractTitle returns the first substantial text line from the opening
// pages. Best effort: an empty result is fine, the view falls back to the
// filename.
func extractTitle(r *pdf.Reader) string {
	maxPages := titlePages
	if r.NumPage() < maxPages {
		maxPages = r.NumPage()
	}

	for i := 1; i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if title := firstTitleLine(text); title != "" {
			return title
		}
	}
	return ""
}

// firstTitleLine picks the first line long enough to plausibly be a title,
// skipping running headers like arXiv stamps and page furniture.
func firstTitleLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < 20 || len(line) > 200 {
			continue
		}
		if isHeaderLine(line) {
			continue
		}
		return line
	}
	return ""
}

func isHeaderLine(line string) bool {
	lower := strings.ToLower(line)
	for _, marker := range []string{"arxiv:", "doi:", "http://", "https://", "proceedings of", "preprint", "copyright", "©"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
