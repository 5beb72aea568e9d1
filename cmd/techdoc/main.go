package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/techdoc"
	"github.com/fwojciec/techdoc/fs"
	"github.com/fwojciec/techdoc/gemini"
	"github.com/fwojciec/techdoc/goldmark"
	"github.com/fwojciec/techdoc/goquery"
	"github.com/fwojciec/techdoc/index"
	"github.com/fwojciec/techdoc/koanf"
	"github.com/fwojciec/techdoc/openai"
	"github.com/fwojciec/techdoc/readability"
	"github.com/fwojciec/techdoc/search"
	tdslog "github.com/fwojciec/techdoc/slog"
	"github.com/fwojciec/techdoc/sqlite"
	"github.com/fwojciec/techdoc/trafilatura"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Embedder overrides the configured embedding provider. Tests set it to
	// avoid network calls.
	Embedder techdoc.Embedder
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("techdoc"),
		kong.Description("Semantic search over locally mirrored technical documentation."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'techdoc --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	cfg, err := m.loadConfig(cli)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", techdoc.ErrorMessage(err))
		return err
	}
	deps.Config = cfg
	deps.Logger = newLogger(stderr, cfg.LogLevel)

	if err := os.MkdirAll(filepath.Dir(cfg.DB), 0o755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	m.DB = sqlite.NewDB(cfg.DB)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set TECHDOC_DB or --db to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", cfg.DB, err)
	}
	defer m.Close()

	paths := cfg.PathResolver()
	deps.Documents = sqlite.NewDocumentService(m.DB)
	deps.Pruner = &index.Pruner{
		Documents: deps.Documents,
		Paths:     paths,
		Logger:    deps.Logger,
	}

	switch cmd {
	case "build", "search", "serve":
		embedder, err := m.embedder(ctx, cfg, cmd == "build")
		if err != nil {
			fmt.Fprintf(stderr, "error: %s\n", techdoc.ErrorMessage(err))
			if key := koanf.APIKeyEnvVar(cfg.Embedder.Provider); key != "" {
				fmt.Fprintf(stderr, "Hint: Set %s or embedder.api_key in the config file\n", key)
			}
			return err
		}
		embedder = tdslog.NewLoggingEmbedder(embedder, deps.Logger)

		deps.Search = tdslog.NewLoggingSearchService(
			search.NewEngine(deps.Documents, embedder, paths),
			deps.Logger,
		)

		if cmd == "build" {
			extractor, err := newTextExtractor(cfg, deps.Logger)
			if err != nil {
				return err
			}
			deps.Walker = &fs.Walker{Filter: paths, Logger: deps.Logger}
			deps.Builder = &index.Builder{
				Documents: deps.Documents,
				Embedder:  embedder,
				Extractor: extractor,
				Policy:    cfg.ContentPolicy(),
				Paths:     paths,
				Logger:    deps.Logger,
				Model:     embeddingModel(cfg),
			}
		}
	}

	return kongCtx.Run(deps)
}

// loadConfig reads the configuration file and environment, applies flag
// overrides and validates the result.
func (m *Main) loadConfig(cli *CLI) (*techdoc.Config, error) {
	cfg, err := koanf.Load(cli.Config)
	if err != nil {
		return nil, err
	}
	if cli.DB != "" {
		if cfg.DB, err = koanf.ExpandHome(cli.DB); err != nil {
			return nil, err
		}
	}
	if cli.LogLevel != "" {
		cfg.LogLevel = cli.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// embedder returns the configured embedding provider. Providers that
// distinguish documents from queries are told which one they embed.
func (m *Main) embedder(ctx context.Context, cfg *techdoc.Config, documents bool) (techdoc.Embedder, error) {
	if m.Embedder != nil {
		return m.Embedder, nil
	}
	switch cfg.Embedder.Provider {
	case techdoc.EmbedderOpenAI:
		client := openai.NewClient(cfg.Embedder.APIKey, cfg.Embedder.BaseURL)
		return openai.NewEmbedder(client, cfg.Embedder.Model), nil
	default:
		client, err := gemini.NewClient(ctx, cfg.Embedder.APIKey)
		if err != nil {
			return nil, err
		}
		taskType := gemini.TaskRetrievalQuery
		if documents {
			taskType = gemini.TaskRetrievalDocument
		}
		return gemini.NewEmbedder(client.Models,
			gemini.WithModel(cfg.Embedder.Model),
			gemini.WithTaskType(taskType),
			gemini.WithRequestsPerMinute(cfg.Embedder.RequestsPerMinute),
		), nil
	}
}

// embeddingModel names the configured provider and model. It is stored with
// every embedding so that switching either one triggers re-embedding.
func embeddingModel(cfg *techdoc.Config) string {
	model := cfg.Embedder.Model
	switch cfg.Embedder.Provider {
	case techdoc.EmbedderOpenAI:
		if model == "" {
			model = openai.DefaultModel
		}
		return techdoc.EmbedderOpenAI + "/" + model
	default:
		if model == "" {
			model = gemini.DefaultModel
		}
		return techdoc.EmbedderGemini + "/" + model
	}
}

// newTextExtractor wires the configured HTML strategy, Markdown rendering
// and noise cleaning.
func newTextExtractor(cfg *techdoc.Config, logger *slog.Logger) (*fs.TextExtractor, error) {
	cleaner, err := cfg.Cleaner()
	if err != nil {
		return nil, err
	}

	dom := goquery.NewExtractor()
	var html, fallback techdoc.Extractor
	switch cfg.HTMLStrategy {
	case techdoc.HTMLStrategyReadability:
		html, fallback = readability.NewExtractor(), dom
	case techdoc.HTMLStrategyTrafilatura:
		html, fallback = trafilatura.NewExtractor(), dom
	default:
		html = tdslog.NewLoggingExtractor(dom, goquery.NewDetector(), logger)
	}

	return &fs.TextExtractor{
		HTML:     html,
		Fallback: fallback,
		Markdown: goldmark.NewRenderer(),
		Flatten:  goquery.PlainText,
		Cleaner:  cleaner,
	}, nil
}

// newLogger returns a text logger on w. Unknown levels fall back to info.
func newLogger(w io.Writer, level string) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l}))
}
