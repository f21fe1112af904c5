// Package crawl fetches board feeds and the offer pages they list into the
// document staging area.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fwojciec/jobcatch"
	"github.com/fwojciec/jobcatch/bloom"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of pages fetched in parallel when
// Concurrency is unset.
const DefaultConcurrency = 4

// Feed names one listing URL of a board.
type Feed struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Failure is a document that could not be fetched or read.
type Failure struct {
	URL    string `json:"url"`
	Reason string `json:"reason"`
}

// Result summarizes one crawl.
type Result struct {
	Feeds   int       `json:"feeds"`
	Pages   int       `json:"pages"`
	Skipped int       `json:"skipped"`
	Failed  []Failure `json:"failed"`
}

// Crawler stages the feeds of a board and every offer page they link to.
type Crawler struct {
	Fetcher   jobcatch.Fetcher
	Limiter   jobcatch.DomainLimiter
	Documents jobcatch.DocumentSource
	Stager    jobcatch.DocumentStager
	Logger    *slog.Logger

	Concurrency int

	// Refresh refetches pages that are already staged.
	Refresh bool

	// Now stamps FetchedAt. Defaults to time.Now.
	Now func() time.Time
}

type pageResult struct {
	url     string
	skipped bool
	reason  string
}

// Crawl fetches feeds and the pages they list. Fetch failures are recorded
// in the result; staging write errors abort the crawl.
func (c *Crawler) Crawl(ctx context.Context, board jobcatch.Board, feeds []Feed) (*Result, error) {
	source := board.Name()
	logger := c.logger().With("source", source)
	result := &Result{Failed: []Failure{}}

	var links []jobcatch.FeedLink
	for _, feed := range feeds {
		doc, err := c.fetchDocument(ctx, feed.URL)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			result.Failed = append(result.Failed, Failure{URL: feed.URL, Reason: err.Error()})
			logger.Warn("feed fetch failed", "feed", feed.ID, "url", feed.URL, "error", err)
			continue
		}
		doc.SourceFeedID = feed.ID
		if err := c.Stager.PutFeed(ctx, source, doc); err != nil {
			return result, fmt.Errorf("stage feed %s: %w", feed.ID, err)
		}
		result.Feeds++

		found, err := board.DiscoverURLs(doc)
		if err != nil {
			result.Failed = append(result.Failed, Failure{URL: feed.URL, Reason: jobcatch.ErrorMessage(err)})
			continue
		}
		links = append(links, found...)
	}

	seen := bloom.NewFilter(uint(len(links)), 1e-7)

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	resultCh := make(chan pageResult, concurrency)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var crawlErr error
	go func() {
		for _, link := range links {
			if gctx.Err() != nil {
				break
			}
			if seen.Seen(link.URL) {
				continue
			}
			g.Go(func() error {
				res, err := c.processPage(gctx, source, link)
				if err != nil {
					return err
				}
				resultCh <- res
				return nil
			})
		}
		crawlErr = g.Wait()
		close(resultCh)
	}()

	for res := range resultCh {
		switch {
		case res.skipped:
			result.Skipped++
		case res.reason != "":
			result.Failed = append(result.Failed, Failure{URL: res.url, Reason: res.reason})
			logger.Warn("page fetch failed", "url", res.url, "reason", res.reason)
		default:
			result.Pages++
			logger.Debug("page staged", "url", res.url)
		}
	}

	if crawlErr != nil {
		return result, crawlErr
	}
	return result, ctx.Err()
}

func (c *Crawler) processPage(ctx context.Context, source string, link jobcatch.FeedLink) (pageResult, error) {
	res := pageResult{url: link.URL}

	if !c.Refresh && c.Documents != nil {
		_, err := c.Documents.Page(ctx, source, link.URL)
		if err == nil {
			res.skipped = true
			return res, nil
		} else if jobcatch.ErrorCode(err) != jobcatch.ENOTFOUND {
			return res, fmt.Errorf("read staged page: %w", err)
		}
	}

	doc, err := c.fetchDocument(ctx, link.URL)
	if err != nil {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		res.reason = err.Error()
		return res, nil
	}
	doc.SourceFeedID = link.SourceFeedID

	if err := c.Stager.PutPage(ctx, source, doc); err != nil {
		return res, fmt.Errorf("stage page %s: %w", link.URL, err)
	}
	return res, nil
}

func (c *Crawler) fetchDocument(ctx context.Context, url string) (*jobcatch.PageDocument, error) {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx, host(url)); err != nil {
			return nil, err
		}
	}
	content, err := c.Fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return &jobcatch.PageDocument{
		URL:       url,
		Content:   content,
		FetchedAt: c.now().UTC().Truncate(time.Second),
	}, nil
}

func (c *Crawler) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.DiscardHandler)
}
