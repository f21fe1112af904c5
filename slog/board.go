package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/jobcatch"
)

// Ensure LoggingBoard implements jobcatch.Board.
var _ jobcatch.Board = (*LoggingBoard)(nil)

// LoggingBoard wraps a Board and logs discovery and extraction.
type LoggingBoard struct {
	next   jobcatch.Board
	logger *slog.Logger
}

// NewLoggingBoard creates a new LoggingBoard.
func NewLoggingBoard(next jobcatch.Board, logger *slog.Logger) *LoggingBoard {
	return &LoggingBoard{next: next, logger: logger}
}

// Name returns the wrapped board's source identifier.
func (b *LoggingBoard) Name() string {
	return b.next.Name()
}

// FeedGlob returns the wrapped board's feed file pattern.
func (b *LoggingBoard) FeedGlob() string {
	return b.next.FeedGlob()
}

// OfferKey delegates to the wrapped board without logging.
func (b *LoggingBoard) OfferKey(url string) (string, bool) {
	return b.next.OfferKey(url)
}

// DiscoverURLs delegates to the wrapped board and logs the link count.
func (b *LoggingBoard) DiscoverURLs(feed *jobcatch.PageDocument) (links []jobcatch.FeedLink, err error) {
	defer func(begin time.Time) {
		b.logger.Info("discover urls",
			"source", b.next.Name(),
			"feed", feed.SourceFeedID,
			"count", len(links),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return b.next.DiscoverURLs(feed)
}

// ExtractOffer delegates to the wrapped board and logs the field count.
// Disable signals are logged as such rather than as errors.
func (b *LoggingBoard) ExtractOffer(page *jobcatch.PageDocument) (fields jobcatch.RawFields, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"source", b.next.Name(),
			"url", page.URL,
			"fields", fields.Len(),
			"duration", time.Since(begin),
		}
		if jobcatch.IsDisableSignal(err) {
			attrs = append(attrs, "disable", true)
		}
		b.logger.Debug("extract offer", append(attrs, "err", err)...)
	}(time.Now())
	return b.next.ExtractOffer(page)
}
