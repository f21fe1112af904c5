package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/jobcatch"
)

// Ensure LoggingOfferService implements jobcatch.OfferService.
var _ jobcatch.OfferService = (*LoggingOfferService)(nil)

// LoggingOfferService wraps an OfferService and logs every write.
// Reads are logged at debug level.
type LoggingOfferService struct {
	next   jobcatch.OfferService
	logger *slog.Logger
}

// NewLoggingOfferService creates a new LoggingOfferService.
func NewLoggingOfferService(next jobcatch.OfferService, logger *slog.Logger) *LoggingOfferService {
	return &LoggingOfferService{next: next, logger: logger}
}

// EnsureSource delegates to the wrapped service and logs the call.
func (s *LoggingOfferService) EnsureSource(ctx context.Context, source string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("ensure source",
			"source", source,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.EnsureSource(ctx, source)
}

// UpsertIfAbsent delegates to the wrapped service and logs the result.
func (s *LoggingOfferService) UpsertIfAbsent(ctx context.Context, offer *jobcatch.Offer) (result jobcatch.UpsertResult, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("upsert offer",
			"source", offer.Source,
			"key", offer.Key(),
			"result", result.String(),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.UpsertIfAbsent(ctx, offer)
}

// Exists delegates to the wrapped service and logs the lookup at debug level.
func (s *LoggingOfferService) Exists(ctx context.Context, source, key string) (exists bool, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("offer exists",
			"source", source,
			"key", key,
			"exists", exists,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Exists(ctx, source, key)
}

// SetState delegates to the wrapped service and logs the new state.
func (s *LoggingOfferService) SetState(ctx context.Context, source, key string, state jobcatch.State) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("set offer state",
			"source", source,
			"key", key,
			"state", state,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SetState(ctx, source, key, state)
}

// FindOfferByKey delegates to the wrapped service and logs at debug level.
func (s *LoggingOfferService) FindOfferByKey(ctx context.Context, source, key string) (offer *jobcatch.Offer, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find offer",
			"source", source,
			"key", key,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindOfferByKey(ctx, source, key)
}

// FindOffers delegates to the wrapped service and logs the result count.
func (s *LoggingOfferService) FindOffers(ctx context.Context, filter jobcatch.OfferFilter) (offers []*jobcatch.Offer, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find offers",
			"source", filter.Source,
			"count", len(offers),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindOffers(ctx, filter)
}

// Sources delegates to the wrapped service and logs at debug level.
func (s *LoggingOfferService) Sources(ctx context.Context) (sources []string, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("list sources",
			"count", len(sources),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Sources(ctx)
}
