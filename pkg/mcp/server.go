package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/rmax-ai/papermap/pkg/client"
	"github.com/rmax-ai/papermap/pkg/paper"
	"github.com/rmax-ai/papermap/pkg/pdfpre"
	"github.com/rmax-ai/papermap/pkg/store"
)

// Server adapts papermap to the Model Context Protocol, so agents can
// analyze papers and query past analyses without the TUI.
type Server struct {
	mcpServer *server.MCPServer
	apiClient *client.Client
	history   *store.Store
}

// NewServer creates a new MCP server instance. The store may be nil, in
// which case analyses are not persisted and history lookups fail.
func NewServer(apiURL string, history *store.Store) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer(
			"papermap",
			"1.0.0",
		),
		apiClient: client.NewClient(apiURL),
		history:   history,
	}
	s.registerResources()
	s.registerTools()
	s.registerPrompts()
	return s
}

// Serve starts the MCP server on stdio.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcpServer)
}

// --- Resources ---

func (s *Server) registerResources() {
	// papermap://analyses
	s.mcpServer.AddResource(mcp.NewResource(
		"papermap://analyses",
		"Saved Paper Analyses",
		mcp.WithResourceDescription("Recently analyzed papers: id, source filename, title, timestamp"),
		mcp.WithMIMEType("application/json"),
	), s.handleReadAnalyses)
}

// --- Tools ---

func (s *Server) registerTools() {
	// analyze_paper
	s.mcpServer.AddTool(mcp.NewTool(
		"analyze_paper",
		mcp.WithDescription("Analyze a local PDF research paper into a topic graph with related papers. Returns the topic outline and the saved analysis id."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Filesystem path to the PDF file")),
	), s.handleAnalyzePaper)

	// list_topics
	s.mcpServer.AddTool(mcp.NewTool(
		"list_topics",
		mcp.WithDescription("List the topics and subtopics of a saved analysis, with importance values and related paper counts."),
		mcp.WithString("analysis_id", mcp.Description("Analysis id from analyze_paper or the analyses resource (default: most recent)")),
	), s.handleListTopics)
}

// --- Prompts ---

func (s *Server) registerPrompts() {
	s.mcpServer.AddPrompt(mcp.NewPrompt(
		"papermap-aware",
		mcp.WithPromptDescription("Provides context about papermap concepts (topic maps, main/topic/subtopic nodes, related papers)"),
	), s.handleGetPrompt)
}

// --- Handlers ---

func (s *Server) handleReadAnalyses(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	if s.history == nil {
		return nil, fmt.Errorf("no analysis store configured")
	}

	records, err := s.history.List(50)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal analyses: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleAnalyzePaper(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := mcp.ParseString(request, "path", "")
	if path == "" {
		return mcp.NewToolResultError("path is required"), nil
	}

	info, err := pdfpre.Check(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("preflight failed: %v", err)), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("open failed: %v", err)), nil
	}
	defer f.Close()

	analysis, err := s.apiClient.Analyze(ctx, filepath.Base(path), f)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	id := "(not saved)"
	if s.history != nil {
		saved, err := s.history.Save(analysis, filepath.Base(path), info.Title)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("saving analysis: %v", err)), nil
		}
		id = saved
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Analysis id: %s\n", id)
	if main := analysis.MainNode(); main != nil {
		fmt.Fprintf(&b, "Paper: %s\n", main.Name)
	}
	fmt.Fprintf(&b, "Related papers: %d\n\n", len(analysis.Papers))
	b.WriteString(topicOutline(analysis))
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleListTopics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.history == nil {
		return mcp.NewToolResultError("no analysis store configured"), nil
	}

	id := mcp.ParseString(request, "analysis_id", "")

	var (
		rec *store.Record
		err error
	)
	if id == "" {
		rec, err = s.history.Latest()
	} else {
		rec, err = s.history.Get(id)
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading analysis: %v", err)), nil
	}

	return mcp.NewToolResultText(topicOutline(rec.Analysis)), nil
}

// topicOutline renders topics with their subtopics indented beneath them,
// following the graph's links rather than assuming ID formats.
func topicOutline(a *paper.Analysis) string {
	children := make(map[string][]paper.Node)
	for _, l := range a.Graph.Links {
		for _, n := range a.Graph.Nodes {
			if n.ID == l.Target && n.Group == paper.GroupSubtopic {
				children[l.Source] = append(children[l.Source], n)
			}
		}
	}

	var b strings.Builder
	for _, n := range a.Graph.Nodes {
		if n.Group != paper.GroupTopic {
			continue
		}
		fmt.Fprintf(&b, "- %s (importance %.0f, %d related papers)\n",
			n.Name, n.Val, len(a.PapersForTopic(n.Name)))
		for _, sub := range children[n.ID] {
			fmt.Fprintf(&b, "  - %s (importance %.0f)\n", sub.Name, sub.Val)
		}
	}
	if b.Len() == 0 {
		return "No topics found.\n"
	}
	return b.String()
}

func (s *Server) handleGetPrompt(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	name := request.Params.Name
	if name != "papermap-aware" {
		return nil, fmt.Errorf("prompt not found: %s", name)
	}

	promptText := `You are interacting with papermap, a research paper topic mapper.

Concepts:
- Analysis: The result of analyzing one PDF paper: a topic graph plus related papers.
- Main node: Represents the uploaded paper itself. It is not a topic.
- Topic / Subtopic: Themes extracted from the paper, with an importance value.
- Related papers: arXiv papers tied to a topic by exact topic-name match.

Use the 'analyze_paper' tool with a local PDF path to produce an analysis.
Use 'list_topics' to revisit the topic outline of a saved analysis.
The 'papermap://analyses' resource lists everything analyzed so far.
`

	return mcp.NewGetPromptResult(
		"papermap-aware",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(promptText)),
		},
	), nil
}
