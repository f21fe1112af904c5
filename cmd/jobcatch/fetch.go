package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/jobcatch"
	"github.com/fwojciec/jobcatch/crawl"
)

// Run executes the fetch command.
func (c *FetchCmd) Run(deps *Dependencies) error {
	board, err := deps.board(c.Board)
	if err != nil {
		return deps.fail(err)
	}

	feeds, err := c.feeds(deps)
	if err != nil {
		return deps.fail(err)
	}
	if len(feeds) == 0 {
		return deps.fail(jobcatch.Errorf(jobcatch.EINVALID, "no feeds configured for %s; add boards.%s.feeds to the config or pass --feed", board.Name(), board.Name()))
	}

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = deps.Config.Concurrency
	}

	crawler := &crawl.Crawler{
		Fetcher:     deps.Fetcher,
		Limiter:     deps.Limiter,
		Documents:   deps.Documents,
		Stager:      deps.Stager,
		Logger:      deps.Logger,
		Concurrency: concurrency,
		Refresh:     c.Refresh,
	}

	result, err := crawler.Crawl(deps.Ctx, board, feeds)
	if result != nil {
		fmt.Fprintf(deps.Stdout, "%s: staged %d feeds, %d pages (%d already staged, %d failed)\n",
			board.Name(), result.Feeds, result.Pages, result.Skipped, len(result.Failed))
		for _, f := range result.Failed {
			fmt.Fprintf(deps.Stdout, "  failed %s: %s\n", f.URL, f.Reason)
		}
	}
	if err != nil {
		return deps.fail(err)
	}
	return nil
}

func (c *FetchCmd) feeds(deps *Dependencies) ([]crawl.Feed, error) {
	if len(c.Feed) == 0 {
		return deps.Config.Feeds(c.Board), nil
	}
	feeds := make([]crawl.Feed, 0, len(c.Feed))
	for _, f := range c.Feed {
		id, url, ok := strings.Cut(f, "=")
		if !ok || id == "" || url == "" {
			return nil, jobcatch.Errorf(jobcatch.EINVALID, "invalid feed %q, want id=url", f)
		}
		feeds = append(feeds, crawl.Feed{ID: id, URL: url})
	}
	return feeds, nil
}
