// Package mcp exposes the shortcut store to MCP clients as read-only
// tools, so an assistant can look up the shared shortcut library.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/cmdshelf/cmdshelf/pkg/store"
)

// Server wraps the store file behind an MCP tool surface.
type Server struct {
	storePath string
	server    *server.MCPServer
}

// NewServer creates an MCP server over the store at storePath.
func NewServer(storePath, version string) *Server {
	s := &Server{
		storePath: storePath,
	}

	mcpServer := server.NewMCPServer(
		"cmdshelf",
		version,
		server.WithToolCapabilities(true),
	)
	s.registerTools(mcpServer)
	s.server = mcpServer
	return s
}

// registerTools registers all MCP tools with the server.
func (s *Server) registerTools(mcpServer *server.MCPServer) {
	mcpServer.AddTool(
		mcp.NewTool("list_categories",
			mcp.WithDescription("List all shortcut categories with their entry counts."),
		),
		s.handleListCategories,
	)

	mcpServer.AddTool(
		mcp.NewTool("lookup",
			mcp.WithDescription("Return all shortcuts in a category."),
			mcp.WithString("category",
				mcp.Required(),
				mcp.Description("Category name (e.g. 'GIT', 'DOCKER'); matching is case-insensitive"),
			),
		),
		s.handleLookup,
	)

	mcpServer.AddTool(
		mcp.NewTool("search",
			mcp.WithDescription("Search shortcuts by substring across command, description, and usage example."),
			mcp.WithString("query",
				mcp.Required(),
				mcp.Description("Substring to search for (case-insensitive)"),
			),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of results (default: 10)"),
			),
		),
		s.handleSearch,
	)
}

// handleListCategories handles the list_categories tool.
func (s *Server) handleListCategories(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st, err := store.Load(s.storePath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("load store: %v", err)), nil
	}

	var b strings.Builder
	for _, name := range st.Categories() {
		fmt.Fprintf(&b, "%s (%d entries)\n", name, len(st.Entries(name)))
	}
	if b.Len() == 0 {
		return mcp.NewToolResultText("The store has no categories yet."), nil
	}
	return mcp.NewToolResultText(b.String()), nil
}

// handleLookup handles the lookup tool.
func (s *Server) handleLookup(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category := request.GetString("category", "")
	if category == "" {
		return mcp.NewToolResultError("category parameter is required"), nil
	}

	st, err := store.Load(s.storePath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("load store: %v", err)), nil
	}

	name := store.NormalizeCategory(category)
	if !st.HasCategory(name) {
		return mcp.NewToolResultError(fmt.Sprintf("category %q not found", name)), nil
	}

	out, err := json.MarshalIndent(st.Entries(name), "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal entries: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// handleSearch handles the search tool.
func (s *Server) handleSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := request.GetString("query", "")
	if query == "" {
		return mcp.NewToolResultError("query parameter is required"), nil
	}
	limit := request.GetInt("limit", 10)

	st, err := store.Load(s.storePath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("load store: %v", err)), nil
	}

	matches := searchStore(st, query, limit)
	if len(matches) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No shortcuts match %q.", query)), nil
	}

	var b strings.Builder
	for _, m := range matches {
		fmt.Fprintf(&b, "[%s] %s\n  %s\n  e.g. %s\n", m.Category, m.Entry.Command, m.Entry.Description, m.Entry.UsageExample)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// match is one search hit.
type match struct {
	Category string
	Entry    store.Entry
}

// searchStore returns up to limit entries containing query in any field,
// case-insensitive, in store order.
func searchStore(st *store.Store, query string, limit int) []match {
	if limit <= 0 {
		limit = 10
	}
	needle := strings.ToLower(query)

	var matches []match
	for _, name := range st.Categories() {
		for _, e := range st.Entries(name) {
			haystack := strings.ToLower(e.Command + "\n" + e.Description + "\n" + e.UsageExample)
			if strings.Contains(haystack, needle) {
				matches = append(matches, match{Category: name, Entry: e})
				if len(matches) >= limit {
					return matches
				}
			}
		}
	}
	return matches
}

// ServeStdio starts the MCP server on stdio.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.server)
}
