package mock

import (
	"context"

	"github.com/fwojciec/jobcatch"
)

var _ jobcatch.DocumentSource = (*DocumentSource)(nil)

// DocumentSource is a mock implementation of jobcatch.DocumentSource.
type DocumentSource struct {
	FeedsFn func(ctx context.Context, board jobcatch.Board) ([]*jobcatch.PageDocument, error)
	PageFn  func(ctx context.Context, source, url string) (*jobcatch.PageDocument, error)
}

func (s *DocumentSource) Feeds(ctx context.Context, board jobcatch.Board) ([]*jobcatch.PageDocument, error) {
	return s.FeedsFn(ctx, board)
}

func (s *DocumentSource) Page(ctx context.Context, source, url string) (*jobcatch.PageDocument, error) {
	return s.PageFn(ctx, source, url)
}
