package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fwojciec/jobcatch"
	"github.com/fwojciec/jobcatch/config"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Config    config.Config
	Boards    jobcatch.BoardRegistry
	Offers    jobcatch.OfferService
	Documents jobcatch.DocumentSource
	Stager    jobcatch.DocumentStager
	Converter jobcatch.Converter
	Fetcher   jobcatch.Fetcher
	Limiter   jobcatch.DomainLimiter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool   `short:"v" help:"Log debug output"`
	DB      string `env:"JOBCATCH_DB" help:"Offer database path"`
	Staging string `env:"JOBCATCH_STAGING" help:"Staging directory"`
	Config  string `env:"JOBCATCH_CONFIG" help:"Config file path"`

	Ingest  IngestCmd  `cmd:"" help:"Ingest staged documents of a board"`
	Fetch   FetchCmd   `cmd:"" help:"Fetch configured feeds and their offer pages into staging"`
	Stage   StageCmd   `cmd:"" help:"Copy a local document into staging"`
	List    ListCmd    `cmd:"" help:"List stored offers of a board"`
	Show    ShowCmd    `cmd:"" help:"Show one stored offer as JSON"`
	State   StateCmd   `cmd:"" help:"Set the state of a stored offer"`
	Sources SourcesCmd `cmd:"" help:"List sources with stored offers"`
	Boards  BoardsCmd  `cmd:"" help:"List supported boards"`
}

// IngestCmd is the "ingest" subcommand.
type IngestCmd struct {
	Board       string `arg:"" help:"Board name"`
	Recheck     bool   `help:"Re-extract pages of stored offers so withdrawn offers are disabled"`
	Concurrency int    `short:"c" env:"JOBCATCH_CONCURRENCY" help:"Pages processed in parallel"`
	JSON        bool   `help:"Print the run report as JSON"`
}

// FetchCmd is the "fetch" subcommand.
type FetchCmd struct {
	Board       string   `arg:"" help:"Board name"`
	Feed        []string `short:"f" help:"Feed as id=url, replacing the configured feeds (repeatable)"`
	Refresh     bool     `help:"Refetch pages that are already staged"`
	Concurrency int      `short:"c" env:"JOBCATCH_CONCURRENCY" help:"Pages fetched in parallel"`
}

// StageCmd is the "stage" subcommand.
type StageCmd struct {
	Board string `arg:"" help:"Board name"`
	File  string `arg:"" type:"existingfile" help:"Document file"`
	Feed  string `xor:"kind" help:"Stage as the feed with this id"`
	URL   string `xor:"kind" help:"Stage as the offer page at this URL"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Board  string `arg:"" help:"Board name"`
	State  string `help:"Only offers in this state (ACTIVE or DISABLED)"`
	Limit  int    `short:"n" default:"50" help:"Maximum offers to list"`
	Offset int    `help:"Offers to skip"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	Board string `arg:"" help:"Board name"`
	Key   string `arg:"" help:"Offer key"`
}

// StateCmd is the "state" subcommand.
type StateCmd struct {
	Board string `arg:"" help:"Board name"`
	Key   string `arg:"" help:"Offer key"`
	State string `arg:"" enum:"ACTIVE,DISABLED" help:"New state"`
}

// SourcesCmd is the "sources" subcommand.
type SourcesCmd struct{}

// BoardsCmd is the "boards" subcommand.
type BoardsCmd struct{}

// board resolves a board name against the registry.
func (d *Dependencies) board(name string) (jobcatch.Board, error) {
	b := d.Boards.Get(name)
	if b == nil {
		return nil, jobcatch.Errorf(jobcatch.EINVALID, "unknown board %q (known: %s)", name, strings.Join(d.Boards.List(), ", "))
	}
	return b, nil
}

// fail prints the user-facing message of err and returns it.
func (d *Dependencies) fail(err error) error {
	fmt.Fprintf(d.Stderr, "error: %s\n", jobcatch.ErrorMessage(err))
	return err
}
