package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/jobcatch/ingest"
	jcslog "github.com/fwojciec/jobcatch/slog"
)

// Run executes the ingest command.
func (c *IngestCmd) Run(deps *Dependencies) error {
	board, err := deps.board(c.Board)
	if err != nil {
		return deps.fail(err)
	}

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = deps.Config.Concurrency
	}

	ing := &ingest.Ingester{
		Documents:   deps.Documents,
		Offers:      deps.Offers,
		Builder:     ingest.NewBuilder(deps.Converter),
		Logger:      deps.Logger,
		Concurrency: concurrency,
		Recheck:     c.Recheck,
	}

	report, err := ing.Run(deps.Ctx, jcslog.NewLoggingBoard(board, deps.Logger))
	if report != nil {
		if c.JSON {
			enc := json.NewEncoder(deps.Stdout)
			enc.SetIndent("", "  ")
			if eerr := enc.Encode(report); eerr != nil {
				return eerr
			}
		} else {
			printReport(deps, report)
		}
	}
	if err != nil {
		return deps.fail(err)
	}
	return nil
}

func printReport(deps *Dependencies, r *ingest.Report) {
	fmt.Fprintf(deps.Stdout, "%s: %d feeds, %d offers discovered\n", r.Source, r.Feeds, r.Discovered)
	fmt.Fprintf(deps.Stdout, "  inserted %d, already stored %d, skipped %d, disabled %d, not staged %d\n",
		r.Inserted, r.Duplicates, r.Skipped, r.Disabled, r.Missing)
	fmt.Fprintf(deps.Stdout, "  rejected %d, failed %d\n", len(r.Rejected), len(r.Failed))
	for _, o := range r.Rejected {
		fmt.Fprintf(deps.Stdout, "  rejected %s: %s\n", o.URL, o.Reason)
	}
	for _, o := range r.Failed {
		fmt.Fprintf(deps.Stdout, "  failed %s: %s\n", o.URL, o.Reason)
	}
}
