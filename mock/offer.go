package mock

import (
	"context"

	"github.com/fwojciec/jobcatch"
)

var _ jobcatch.OfferService = (*OfferService)(nil)

// OfferService is a mock implementation of jobcatch.OfferService.
type OfferService struct {
	EnsureSourceFn   func(ctx context.Context, source string) error
	UpsertIfAbsentFn func(ctx context.Context, offer *jobcatch.Offer) (jobcatch.UpsertResult, error)
	ExistsFn         func(ctx context.Context, source, key string) (bool, error)
	SetStateFn       func(ctx context.Context, source, key string, state jobcatch.State) error
	FindOfferByKeyFn func(ctx context.Context, source, key string) (*jobcatch.Offer, error)
	FindOffersFn     func(ctx context.Context, filter jobcatch.OfferFilter) ([]*jobcatch.Offer, error)
	SourcesFn        func(ctx context.Context) ([]string, error)
}

func (s *OfferService) EnsureSource(ctx context.Context, source string) error {
	return s.EnsureSourceFn(ctx, source)
}

func (s *OfferService) UpsertIfAbsent(ctx context.Context, offer *jobcatch.Offer) (jobcatch.UpsertResult, error) {
	return s.UpsertIfAbsentFn(ctx, offer)
}

func (s *OfferService) Exists(ctx context.Context, source, key string) (bool, error) {
	return s.ExistsFn(ctx, source, key)
}

func (s *OfferService) SetState(ctx context.Context, source, key string, state jobcatch.State) error {
	return s.SetStateFn(ctx, source, key, state)
}

func (s *OfferService) FindOfferByKey(ctx context.Context, source, key string) (*jobcatch.Offer, error) {
	return s.FindOfferByKeyFn(ctx, source, key)
}

func (s *OfferService) FindOffers(ctx context.Context, filter jobcatch.OfferFilter) ([]*jobcatch.Offer, error) {
	return s.FindOffersFn(ctx, filter)
}

func (s *OfferService) Sources(ctx context.Context) ([]string, error) {
	return s.SourcesFn(ctx)
}
