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
	"github.com/fwojciec/jobcatch"
	"github.com/fwojciec/jobcatch/config"
	"github.com/fwojciec/jobcatch/crawl"
	"github.com/fwojciec/jobcatch/fs"
	"github.com/fwojciec/jobcatch/goquery"
	"github.com/fwojciec/jobcatch/htmltomarkdown"
	jchttp "github.com/fwojciec/jobcatch/http"
	"github.com/fwojciec/jobcatch/salary"
	jcslog "github.com/fwojciec/jobcatch/slog"
	"github.com/fwojciec/jobcatch/sqlite"
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
	// Overrides for end-to-end testing. Set before calling Run().
	DBPath     string
	StagingDir string
	ConfigPath string

	// Fetcher replaces the HTTP fetcher when set.
	Fetcher jobcatch.Fetcher

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
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

// storeCommands lists the commands that need the offer database.
var storeCommands = map[string]bool{
	"ingest":  true,
	"list":    true,
	"show":    true,
	"state":   true,
	"sources": true,
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("jobcatch"),
		kong.Description("Extract and normalize job offers from staged board documents."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'jobcatch --help' to see available commands")
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
		fmt.Fprintf(stderr, "Hint: Set JOBCATCH_CONFIG to use a different config file\n")
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	salaries := salary.NewParser()
	staging := fs.NewStaging(firstNonEmpty(m.StagingDir, cli.Staging, cfg.Staging))

	deps := &Dependencies{
		Ctx:       ctx,
		Stdout:    stdout,
		Stderr:    stderr,
		Logger:    logger,
		Config:    cfg,
		Boards:    goquery.NewDefaultRegistry(salaries),
		Documents: staging,
		Stager:    staging,
		Converter: htmltomarkdown.NewConverter(),
	}

	if storeCommands[cmd] {
		dbPath := firstNonEmpty(m.DBPath, cli.DB, cfg.DB)
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
		m.DB = sqlite.NewDB(dbPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set JOBCATCH_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", dbPath, err)
		}
		defer m.Close()
		deps.Offers = jcslog.NewLoggingOfferService(sqlite.NewOfferService(m.DB), logger)
	}

	if cmd == "fetch" {
		fetcher := m.Fetcher
		if fetcher == nil {
			fetcher = jchttp.NewFetcher(jchttp.WithUserAgent(firstNonEmpty(cfg.UserAgent, jchttp.DefaultUserAgent)))
		}
		deps.Fetcher = jcslog.NewLoggingFetcher(fetcher, logger)
		if cfg.RateLimit > 0 {
			deps.Limiter = crawl.NewDomainLimiter(cfg.RateLimit)
		}
	}

	return kongCtx.Run(deps)
}

func (m *Main) loadConfig(cli *CLI) (config.Config, error) {
	path := firstNonEmpty(m.ConfigPath, cli.Config)
	if path == "" {
		var err error
		if path, err = config.Path(); err != nil {
			return config.Default(), nil
		}
	}
	return config.Load(path)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
