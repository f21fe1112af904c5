package mock

import (
	"context"

	"github.com/fwojciec/jobcatch"
)

var _ jobcatch.DocumentStager = (*DocumentStager)(nil)

// DocumentStager is a mock implementation of jobcatch.DocumentStager.
type DocumentStager struct {
	PutFeedFn func(ctx context.Context, source string, doc *jobcatch.PageDocument) error
	PutPageFn func(ctx context.Context, source string, doc *jobcatch.PageDocument) error
}

func (s *DocumentStager) PutFeed(ctx context.Context, source string, doc *jobcatch.PageDocument) error {
	return s.PutFeedFn(ctx, source, doc)
}

func (s *DocumentStager) PutPage(ctx context.Context, source string, doc *jobcatch.PageDocument) error {
	return s.PutPageFn(ctx, source, doc)
}
