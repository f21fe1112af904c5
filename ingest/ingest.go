// Package ingest runs staged job board documents through extraction,
// validation and idempotent storage.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fwojciec/jobcatch"
	"github.com/fwojciec/jobcatch/bloom"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultConcurrency is the worker count used when Concurrency is unset.
	DefaultConcurrency = 4

	// seenFalsePositiveRate sizes the cross-feed URL filter.
	seenFalsePositiveRate = 1e-7
)

// Ingester processes every staged feed of a board.
type Ingester struct {
	Documents   jobcatch.DocumentSource
	Offers      jobcatch.OfferService
	Builder     jobcatch.OfferBuilder
	Logger      *slog.Logger
	Concurrency int

	// Recheck re-extracts pages of offers that are already stored, so
	// withdrawn offers are disabled. By default such pages are skipped.
	Recheck bool
}

// Outcome is a per-document condition recorded in a Report.
type Outcome struct {
	URL    string `json:"url"`
	Reason string `json:"reason"`
}

// Report summarizes one ingest run.
type Report struct {
	RunID      string    `json:"runId"`
	Source     string    `json:"source"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`

	Feeds      int `json:"feeds"`
	Discovered int `json:"discovered"`
	Skipped    int `json:"skipped"`
	Missing    int `json:"missing"`
	Inserted   int `json:"inserted"`
	Duplicates int `json:"duplicates"`
	Disabled   int `json:"disabled"`

	Rejected []Outcome `json:"rejected"`
	Failed   []Outcome `json:"failed"`
}

type outcomeKind int

const (
	outcomeSkipped outcomeKind = iota
	outcomeMissing
	outcomeInserted
	outcomeDuplicate
	outcomeDisabled
	outcomeRejected
	outcomeFailed
)

type linkResult struct {
	url    string
	kind   outcomeKind
	reason string
}

func (r *Report) record(res linkResult) {
	switch res.kind {
	case outcomeSkipped:
		r.Skipped++
	case outcomeMissing:
		r.Missing++
	case outcomeInserted:
		r.Inserted++
	case outcomeDuplicate:
		r.Duplicates++
	case outcomeDisabled:
		r.Disabled++
	case outcomeRejected:
		r.Rejected = append(r.Rejected, Outcome{URL: res.url, Reason: res.reason})
	case outcomeFailed:
		r.Failed = append(r.Failed, Outcome{URL: res.url, Reason: res.reason})
	}
}

// Run ingests the staged documents of board. Per-document conditions are
// recorded in the report and never stop the run; store errors abort it.
// Cancelling ctx stops scheduling new pages and returns the partial report
// with the context error.
func (i *Ingester) Run(ctx context.Context, board jobcatch.Board) (*Report, error) {
	source := board.Name()
	report := &Report{
		RunID:     uuid.NewString(),
		Source:    source,
		StartedAt: time.Now().UTC(),
		Rejected:  []Outcome{},
		Failed:    []Outcome{},
	}
	logger := i.logger().With("run", report.RunID, "source", source)

	if err := i.Offers.EnsureSource(ctx, source); err != nil {
		return nil, fmt.Errorf("ensure source %s: %w", source, err)
	}

	feeds, err := i.Documents.Feeds(ctx, board)
	if err != nil {
		unreadable := jobcatch.FeedErrors(err)
		if unreadable == nil {
			return nil, fmt.Errorf("load feeds: %w", err)
		}
		for _, fe := range unreadable {
			report.Failed = append(report.Failed, Outcome{URL: fe.Feed, Reason: jobcatch.ErrorMessage(fe)})
			logger.Warn("feed unreadable", "feed", fe.Feed, "error", fe.Err)
		}
	}
	report.Feeds = len(feeds)

	links := i.discover(board, feeds, report, logger)
	report.Discovered = len(links)
	logger.Info("discovered offers", "feeds", len(feeds), "links", len(links))

	concurrency := i.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	resultCh := make(chan linkResult, concurrency)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	// Pages already handed to a worker finish even after cancellation.
	workCtx := context.WithoutCancel(ctx)

	var runErr error
	go func() {
		for _, link := range links {
			if gctx.Err() != nil {
				break
			}
			g.Go(func() error {
				res, err := i.processLink(workCtx, board, link)
				if err != nil {
					return err
				}
				resultCh <- res
				return nil
			})
		}
		runErr = g.Wait()
		close(resultCh)
	}()

	for res := range resultCh {
		report.record(res)
		i.log(logger, res)
	}
	report.FinishedAt = time.Now().UTC()

	if runErr != nil {
		return report, runErr
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

// discover collects detail links across feeds, dropping URLs already
// listed by an earlier feed.
func (i *Ingester) discover(board jobcatch.Board, feeds []*jobcatch.PageDocument, report *Report, logger *slog.Logger) []jobcatch.FeedLink {
	var all []jobcatch.FeedLink
	for _, feed := range feeds {
		links, err := board.DiscoverURLs(feed)
		if err != nil {
			report.Failed = append(report.Failed, Outcome{URL: feedLabel(feed), Reason: jobcatch.ErrorMessage(err)})
			logger.Warn("feed unreadable", "feed", feedLabel(feed), "error", err)
			continue
		}
		all = append(all, links...)
	}

	seen := bloom.NewFilter(uint(len(all)), seenFalsePositiveRate)
	unique := make([]jobcatch.FeedLink, 0, len(all))
	for _, link := range all {
		if seen.Seen(link.URL) {
			continue
		}
		unique = append(unique, link)
	}
	return unique
}

// processLink runs one detail page through the pipeline. The error result
// is reserved for store failures, which abort the run.
func (i *Ingester) processLink(ctx context.Context, board jobcatch.Board, link jobcatch.FeedLink) (linkResult, error) {
	source := board.Name()
	res := linkResult{url: link.URL}

	if !i.Recheck {
		if key, ok := board.OfferKey(link.URL); ok {
			exists, err := i.Offers.Exists(ctx, source, key)
			if err != nil {
				return res, fmt.Errorf("check %s/%s: %w", source, key, err)
			}
			if exists {
				res.kind = outcomeSkipped
				return res, nil
			}
		}
	}

	page, err := i.Documents.Page(ctx, source, link.URL)
	if jobcatch.ErrorCode(err) == jobcatch.ENOTFOUND {
		res.kind = outcomeMissing
		return res, nil
	} else if err != nil {
		res.kind, res.reason = outcomeFailed, err.Error()
		return res, nil
	}
	if page.SourceFeedID == "" {
		p := *page
		p.SourceFeedID = link.SourceFeedID
		page = &p
	}

	fields, err := board.ExtractOffer(page)
	if jobcatch.IsDisableSignal(err) {
		disabled, derr := i.disable(ctx, board, link.URL)
		if derr != nil {
			return res, derr
		}
		if disabled {
			res.kind = outcomeDisabled
			return res, nil
		}
		res.kind, res.reason = outcomeFailed, jobcatch.ErrorMessage(err)
		return res, nil
	} else if err != nil {
		res.kind, res.reason = outcomeFailed, failureReason(err)
		return res, nil
	}

	offer, err := i.Builder.Build(fields, source)
	if err != nil {
		var rej *jobcatch.Rejection
		if errors.As(err, &rej) {
			res.kind, res.reason = outcomeRejected, rej.Reason
		} else {
			res.kind, res.reason = outcomeFailed, err.Error()
		}
		return res, nil
	}

	result, err := i.Offers.UpsertIfAbsent(ctx, offer)
	if err != nil {
		return res, fmt.Errorf("store %s/%s: %w", source, offer.Key(), err)
	}
	if result == jobcatch.AlreadyExists {
		res.kind = outcomeDuplicate
	} else {
		res.kind = outcomeInserted
	}
	return res, nil
}

// disable marks the stored offer behind url DISABLED. It reports false
// when no offer is stored for url.
func (i *Ingester) disable(ctx context.Context, board jobcatch.Board, url string) (bool, error) {
	source := board.Name()

	if key, ok := board.OfferKey(url); ok {
		err := i.Offers.SetState(ctx, source, key, jobcatch.StateDisabled)
		if jobcatch.ErrorCode(err) == jobcatch.ENOTFOUND {
			return false, nil
		} else if err != nil {
			return false, fmt.Errorf("disable %s/%s: %w", source, key, err)
		}
		return true, nil
	}

	offers, err := i.Offers.FindOffers(ctx, jobcatch.OfferFilter{Source: source, URL: &url})
	if err != nil {
		return false, fmt.Errorf("find %s offers by url: %w", source, err)
	}
	for _, o := range offers {
		if err := i.Offers.SetState(ctx, source, o.Key(), jobcatch.StateDisabled); err != nil {
			return false, fmt.Errorf("disable %s/%s: %w", source, o.Key(), err)
		}
	}
	return len(offers) > 0, nil
}

func (i *Ingester) logger() *slog.Logger {
	if i.Logger != nil {
		return i.Logger
	}
	return slog.New(slog.DiscardHandler)
}

func (i *Ingester) log(logger *slog.Logger, res linkResult) {
	switch res.kind {
	case outcomeInserted:
		logger.Info("offer inserted", "url", res.url)
	case outcomeDisabled:
		logger.Info("offer disabled", "url", res.url)
	case outcomeRejected:
		logger.Warn("offer rejected", "url", res.url, "reason", res.reason)
	case outcomeFailed:
		logger.Warn("extraction failed", "url", res.url, "reason", res.reason)
	default:
		logger.Debug("offer unchanged", "url", res.url, "outcome", res.kind.String())
	}
}

func (k outcomeKind) String() string {
	switch k {
	case outcomeSkipped:
		return "skipped"
	case outcomeMissing:
		return "missing"
	case outcomeDuplicate:
		return "duplicate"
	}
	return "other"
}

func failureReason(err error) string {
	var f *jobcatch.ExtractionFailure
	if errors.As(err, &f) {
		return f.Reason
	}
	return err.Error()
}

func feedLabel(feed *jobcatch.PageDocument) string {
	if feed.SourceFeedID != "" {
		return feed.SourceFeedID
	}
	return feed.URL
}
