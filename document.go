package jobcatch

import (
	"context"
	"time"
)

// PageDocument is a fetched and decoded document handed to the pipeline.
// It is either a feed (listing) document or a job detail page.
type PageDocument struct {
	URL          string    `yaml:"url"`
	Content      string    `yaml:"-"`
	SourceFeedID string    `yaml:"feed,omitempty"`
	FetchedAt    time.Time `yaml:"fetched"`
}

// FeedLink is a detail page discovered inside a feed document.
type FeedLink struct {
	SourceFeedID string
	URL          string
}

// DocumentSource provides documents that were fetched by an external process.
type DocumentSource interface {
	// Feeds returns every staged feed document of the board. Feeds that
	// cannot be read are left out and reported as *FeedError values joined
	// into the error, alongside the feeds that were read.
	Feeds(ctx context.Context, board Board) ([]*PageDocument, error)

	// Page returns the staged detail page for url.
	// Returns ENOTFOUND if the page has not been fetched yet.
	Page(ctx context.Context, source string, url string) (*PageDocument, error)
}

// FeedError reports a staged feed that could not be read.
type FeedError struct {
	Feed string
	Err  error
}

// Error implements the error interface.
func (e *FeedError) Error() string {
	return "feed " + e.Feed + ": " + e.Err.Error()
}

func (e *FeedError) Unwrap() error {
	return e.Err
}

// FeedErrors returns the feed errors in err. It returns nil when err
// holds anything other than feed errors.
func FeedErrors(err error) []*FeedError {
	if err == nil {
		return nil
	}
	if fe, ok := err.(*FeedError); ok {
		return []*FeedError{fe}
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return nil
	}
	var out []*FeedError
	for _, e := range joined.Unwrap() {
		sub := FeedErrors(e)
		if sub == nil {
			return nil
		}
		out = append(out, sub...)
	}
	return out
}

// DocumentStager stores fetched documents for a later ingest run.
type DocumentStager interface {
	// PutFeed stores a feed document under its SourceFeedID.
	PutFeed(ctx context.Context, source string, doc *PageDocument) error

	// PutPage stores a detail page under its URL, replacing any earlier copy.
	PutPage(ctx context.Context, source string, doc *PageDocument) error
}

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms an HTML fragment into Markdown.
	Convert(html string) (string, error)
}
