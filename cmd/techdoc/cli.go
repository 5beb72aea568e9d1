package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/techdoc"
	"github.com/fwojciec/techdoc/fs"
	"github.com/fwojciec/techdoc/index"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Config    *techdoc.Config
	Documents techdoc.DocumentService
	Search    techdoc.SearchService
	Walker    *fs.Walker
	Builder   *index.Builder
	Pruner    *index.Pruner
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config   string `help:"Configuration file" default:"~/.techdoc/config.yaml" env:"TECHDOC_CONFIG"`
	DB       string `help:"SQLite database path (overrides the config file)" env:"TECHDOC_DB"`
	LogLevel string `help:"Log level: debug, info, warn, error" name:"log-level"`

	Build      BuildCmd      `cmd:"" help:"Index documentation files into the database"`
	Search     SearchCmd     `cmd:"" help:"Search indexed documentation"`
	Prune      PruneCmd      `cmd:"" help:"Remove blocked and skipped documents and backfill URLs"`
	Categories CategoriesCmd `cmd:"" help:"List indexed categories"`
	Delete     DeleteCmd     `cmd:"" help:"Delete documents"`
	Serve      ServeCmd      `cmd:"" help:"Serve search over the Model Context Protocol on stdio"`
}

// BuildCmd is the "build" subcommand.
type BuildCmd struct {
	Category      string `short:"c" help:"Only index this category"`
	MaxTextLength int    `help:"Maximum characters sent to the embedder (default from config)"`
	NoPrune       bool   `help:"Skip pruning and URL backfill before indexing"`
	Reembed       bool   `help:"Embed every document again, even when its text is unchanged"`
	Quiet         bool   `short:"q" help:"Hide the progress bar"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query    string `arg:"" help:"Natural language query"`
	Category string `short:"c" help:"Restrict results to a category"`
	TopK     int    `short:"k" name:"top-k" default:"5" help:"Number of results (1-10)"`
	JSON     bool   `help:"Print results as JSON"`
}

// PruneCmd is the "prune" subcommand.
type PruneCmd struct{}

// CategoriesCmd is the "categories" subcommand.
type CategoriesCmd struct{}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	Domain DeleteDomainCmd `cmd:"" help:"Delete every document under a domain"`
	ID     DeleteIDCmd     `cmd:"" name:"id" help:"Delete one document by ID"`
}

// DeleteDomainCmd is the "delete domain" subcommand.
type DeleteDomainCmd struct {
	Domain string `arg:"" help:"Domain, e.g. docs.python.org"`
	Force  bool   `help:"Confirm deletion"`
}

// DeleteIDCmd is the "delete id" subcommand.
type DeleteIDCmd struct {
	ID int64 `arg:"" help:"Document ID"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct{}
