package mcp

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func searchDocsTool(categories []string) mcp.Tool {
	categoryOpts := []mcp.PropertyOption{
		mcp.Description("Restrict results to one documentation category"),
	}
	if len(categories) > 0 {
		categoryOpts = append(categoryOpts, mcp.Enum(categories...))
	}
	return mcp.NewTool("search_docs",
		mcp.WithDescription("Search indexed technical documentation semantically. Returns the closest pages with their source URL."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Natural language search query"),
		),
		mcp.WithString("category", categoryOpts...),
		topKParam(),
		formatParam(),
	)
}

func categoryTool(category string) mcp.Tool {
	return mcp.NewTool("search_"+category,
		mcp.WithDescription(fmt.Sprintf("Search the %s documentation semantically.", category)),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Natural language search query"),
		),
		topKParam(),
		formatParam(),
	)
}

func topKParam() mcp.ToolOption {
	return mcp.WithNumber("top_k",
		mcp.Description("Number of results, 1 to 10 (default 5)"),
	)
}

func formatParam() mcp.ToolOption {
	return mcp.WithString("format",
		mcp.Description("Response format (default text)"),
		mcp.Enum(FormatText, FormatJSON),
	)
}
