package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fwojciec/jobcatch"
)

// Run executes the stage command.
func (c *StageCmd) Run(deps *Dependencies) error {
	board, err := deps.board(c.Board)
	if err != nil {
		return deps.fail(err)
	}
	if c.Feed == "" && c.URL == "" {
		return deps.fail(jobcatch.Errorf(jobcatch.EINVALID, "one of --feed or --url is required"))
	}

	content, err := os.ReadFile(c.File)
	if err != nil {
		return deps.fail(err)
	}
	info, err := os.Stat(c.File)
	if err != nil {
		return deps.fail(err)
	}

	doc := &jobcatch.PageDocument{
		URL:          c.URL,
		Content:      string(content),
		SourceFeedID: c.Feed,
		FetchedAt:    info.ModTime().UTC().Truncate(time.Second),
	}

	if c.Feed != "" {
		err = deps.Stager.PutFeed(deps.Ctx, board.Name(), doc)
	} else {
		err = deps.Stager.PutPage(deps.Ctx, board.Name(), doc)
	}
	if err != nil {
		return deps.fail(err)
	}

	fmt.Fprintf(deps.Stdout, "Staged %s (%d bytes)\n", c.File, len(content))
	return nil
}
