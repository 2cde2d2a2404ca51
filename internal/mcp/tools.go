// Package mcp serves search, link resolution and history as MCP tools over
// stdio.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Paintersrp/zortex/internal/constants"
	"github.com/Paintersrp/zortex/internal/history"
	"github.com/Paintersrp/zortex/internal/link"
	"github.com/Paintersrp/zortex/internal/resolver"
	"github.com/Paintersrp/zortex/internal/search"
	"github.com/Paintersrp/zortex/internal/state"
)

const defaultLimit = 20

// NewServer builds an MCP server exposing the zortex tools.
func NewServer(st *state.State) *server.MCPServer {
	s := server.NewMCPServer(
		constants.AppName,
		constants.Version,
		server.WithToolCapabilities(true),
	)
	RegisterTools(s, st)
	return s
}

// Serve runs the server over stdio until the client disconnects.
func Serve(st *state.State) error {
	return server.ServeStdio(NewServer(st))
}

// RegisterTools adds every tool to s.
func RegisterTools(s *server.MCPServer, st *state.State) {
	s.AddTool(searchTool(), searchHandler(st))
	s.AddTool(resolveTool(), resolveHandler(st))
	s.AddTool(linkTool(), linkHandler(st))
	s.AddTool(recordTool(), recordHandler(st))
}

// --- search ---

func searchTool() mcp.Tool {
	return mcp.NewTool("search",
		mcp.WithDescription("Search notes hierarchically. Each word narrows the search to sections matched by the previous word."),
		mcp.WithString("query",
			mcp.Description("Space separated search words, e.g. \"recipes breakfast eggs\". Empty lists every note."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (default 20)"),
		),
	)
}

func searchHandler(st *state.State) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tokens := search.Tokenize(req.GetString("query", ""))
		limit := req.GetInt("limit", defaultLimit)

		entries, err := st.Engine.Search(tokens)
		if err != nil {
			return toolError(err)
		}
		if limit > 0 && len(entries) > limit {
			entries = entries[:limit]
		}
		if len(entries) == 0 {
			return mcp.NewToolResultText("No results."), nil
		}

		var sb strings.Builder
		for _, e := range entries {
			sb.WriteString(formatEntry(e))
			sb.WriteByte('\n')
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func formatEntry(e search.Entry) string {
	prefix := fmt.Sprintf("%.2f", e.Score)
	if e.Context {
		prefix = "  ↳"
	}
	crumb := e.Breadcrumb
	if crumb == "" {
		crumb = e.Name
	}
	return fmt.Sprintf("%s %s (%s:%d)", prefix, crumb, e.Path, e.Line)
}

// --- resolve ---

func resolveTool() mcp.Tool {
	return mcp.NewTool("resolve",
		mcp.WithDescription("Resolve a zortex link such as [Article/#Heading/:Label] to file locations."),
		mcp.WithString("link",
			mcp.Description("The link, with or without brackets"),
			mcp.Required(),
		),
		mcp.WithString("current",
			mcp.Description("Path of the current note, required for local links starting with /"),
		),
	)
}

func resolveHandler(st *state.State) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw := req.GetString("link", "")
		l, ok := link.Parse(raw)
		if !ok {
			return toolError(fmt.Errorf("not a link: %q", raw))
		}

		matches, err := st.Resolver.Resolve(l, req.GetString("current", ""))
		if err != nil {
			var nm *resolver.NoMatchError
			if errors.As(err, &nm) {
				return mcp.NewToolResultText(nm.Error()), nil
			}
			return toolError(err)
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "%s: %s\n", l, resolver.Decide(l, matches))
		for _, m := range matches {
			fmt.Fprintf(&sb, "%s:%d:%d %s\n", m.Path, m.Line, m.Column+1, strings.TrimSpace(m.Text))
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- link ---

func linkTool() mcp.Tool {
	return mcp.NewTool("link",
		mcp.WithDescription("Build the link that addresses a line of a note."),
		mcp.WithString("path",
			mcp.Description("Note path, absolute or relative to the notes directory"),
			mcp.Required(),
		),
		mcp.WithNumber("line",
			mcp.Description("1-based line number"),
			mcp.Required(),
		),
	)
}

func linkHandler(st *state.State) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		doc, err := st.Index.Get(req.GetString("path", ""))
		if err != nil {
			return toolError(err)
		}
		l := link.Build(doc.Tree, doc.Lines, req.GetInt("line", 1))
		return mcp.NewToolResultText(l.String()), nil
	}
}

// --- record_selection ---

func recordTool() mcp.Tool {
	return mcp.NewTool("record_selection",
		mcp.WithDescription("Record that a search result was chosen so later searches rank it higher."),
		mcp.WithString("path",
			mcp.Description("Note path of the chosen result"),
			mcp.Required(),
		),
		mcp.WithNumber("line",
			mcp.Description("1-based line of the chosen result"),
			mcp.Required(),
		),
		mcp.WithString("query",
			mcp.Description("The search query that produced the result"),
		),
	)
}

func recordHandler(st *state.State) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		doc, err := st.Index.Get(req.GetString("path", ""))
		if err != nil {
			return toolError(err)
		}

		line := req.GetInt("line", 1)
		entry, err := st.History.Record(history.Selection{
			File:        doc.Path,
			SectionPath: doc.Tree.Refs(doc.Tree.Owner(line)),
			Tokens:      search.Tokenize(req.GetString("query", "")),
		})
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText("Recorded " + entry.ID), nil
	}
}

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}
