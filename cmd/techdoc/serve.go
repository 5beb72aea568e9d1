package main

import (
	"github.com/fwojciec/techdoc/mcp"
)

// Run executes the serve command.
func (c *ServeCmd) Run(deps *Dependencies) error {
	deps.Logger.Info("serving MCP on stdio", "categories", deps.Config.Categories)
	return mcp.NewServer(deps.Search, deps.Config.Categories).Serve()
}
