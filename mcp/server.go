// Package mcp exposes techdoc.SearchService as Model Context Protocol tools
// over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fwojciec/techdoc"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Response formats accepted by the format argument.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Server serves semantic documentation search to MCP clients.
type Server struct {
	search     techdoc.SearchService
	categories []string
	tools      []mcp.Tool
	mcp        *server.MCPServer
}

// NewServer creates a server with a search_docs tool and one
// search_{category} tool per category.
func NewServer(search techdoc.SearchService, categories []string) *Server {
	normalized := make([]string, len(categories))
	for i, c := range categories {
		normalized[i] = techdoc.NormalizeCategory(c)
	}
	s := &Server{
		search:     search,
		categories: normalized,
	}
	s.mcp = server.NewMCPServer(
		"techdoc",
		techdoc.Version,
		server.WithToolCapabilities(false),
	)
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	s.addTool(searchDocsTool(s.categories), s.searchHandler(""))
	for _, cat := range s.categories {
		s.addTool(categoryTool(cat), s.searchHandler(cat))
	}
}

func (s *Server) addTool(tool mcp.Tool, handler server.ToolHandlerFunc) {
	s.tools = append(s.tools, tool)
	s.mcp.AddTool(tool, handler)
}

// Tools returns the registered tool definitions.
func (s *Server) Tools() []mcp.Tool {
	return s.tools
}

// Serve runs the server on stdio until the input closes. Stdout carries
// protocol messages, so logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}

// searchHandler returns a handler that searches within category, or within
// the category argument when category is empty.
func (s *Server) searchHandler(category string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError("missing required parameter: query"), nil
		}

		opts := techdoc.SearchOptions{
			Category: category,
			TopK:     request.GetInt("top_k", techdoc.DefaultTopK),
		}
		if category == "" {
			opts.Category = request.GetString("category", "")
		}

		results, err := s.search.Search(ctx, query, opts)
		if err != nil {
			if techdoc.ErrorCode(err) == techdoc.EINVALID {
				return mcp.NewToolResultError(techdoc.ErrorMessage(err)), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
		}

		if request.GetString("format", FormatText) == FormatJSON {
			if results == nil {
				results = []techdoc.SearchResult{}
			}
			out, err := json.Marshal(results)
			if err != nil {
				return nil, err
			}
			return mcp.NewToolResultText(string(out)), nil
		}
		return mcp.NewToolResultText(techdoc.FormatResults(results, techdoc.DefaultPreviewLength)), nil
	}
}
