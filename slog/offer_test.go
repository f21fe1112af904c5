package slog_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/jobcatch"
	"github.com/fwojciec/jobcatch/mock"
	jcslog "github.com/fwojciec/jobcatch/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingOfferService(t *testing.T) {
	t.Parallel()

	t.Run("logs upsert result with key", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.OfferService{
			UpsertIfAbsentFn: func(ctx context.Context, offer *jobcatch.Offer) (jobcatch.UpsertResult, error) {
				return jobcatch.AlreadyExists, nil
			},
		}
		svc := jcslog.NewLoggingOfferService(inner, debugLogger(&buf))

		result, err := svc.UpsertIfAbsent(context.Background(), &jobcatch.Offer{Source: "poleemploi", OfferID: "042XYZ"})

		require.NoError(t, err)
		assert.Equal(t, jobcatch.AlreadyExists, result)
		output := buf.String()
		assert.Contains(t, output, "upsert offer")
		assert.Contains(t, output, "source=poleemploi")
		assert.Contains(t, output, "key=042XYZ")
		assert.Contains(t, output, "result=already_exists")
	})

	t.Run("logs state changes at info", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		var gotState jobcatch.State
		inner := &mock.OfferService{
			SetStateFn: func(ctx context.Context, source, key string, state jobcatch.State) error {
				gotState = state
				return nil
			},
		}
		svc := jcslog.NewLoggingOfferService(inner, debugLogger(&buf))

		err := svc.SetState(context.Background(), "regionjob", "RJ-1", jobcatch.StateDisabled)

		require.NoError(t, err)
		assert.Equal(t, jobcatch.StateDisabled, gotState)
		output := buf.String()
		assert.Contains(t, output, "level=INFO")
		assert.Contains(t, output, "set offer state")
		assert.Contains(t, output, "state=DISABLED")
	})

	t.Run("logs store errors", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.OfferService{
			EnsureSourceFn: func(ctx context.Context, source string) error {
				return errors.New("database is locked")
			},
		}
		svc := jcslog.NewLoggingOfferService(inner, debugLogger(&buf))

		err := svc.EnsureSource(context.Background(), "poleemploi")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "err=\"database is locked\"")
	})

	t.Run("logs read counts", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.OfferService{
			FindOffersFn: func(ctx context.Context, filter jobcatch.OfferFilter) ([]*jobcatch.Offer, error) {
				return []*jobcatch.Offer{{}, {}, {}}, nil
			},
			SourcesFn: func(ctx context.Context) ([]string, error) {
				return []string{"poleemploi"}, nil
			},
			ExistsFn: func(ctx context.Context, source, key string) (bool, error) {
				return true, nil
			},
			FindOfferByKeyFn: func(ctx context.Context, source, key string) (*jobcatch.Offer, error) {
				return nil, jobcatch.Errorf(jobcatch.ENOTFOUND, "offer not found")
			},
		}
		svc := jcslog.NewLoggingOfferService(inner, debugLogger(&buf))
		ctx := context.Background()

		offers, err := svc.FindOffers(ctx, jobcatch.OfferFilter{Source: "poleemploi"})
		require.NoError(t, err)
		assert.Len(t, offers, 3)

		sources, err := svc.Sources(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"poleemploi"}, sources)

		exists, err := svc.Exists(ctx, "poleemploi", "042XYZ")
		require.NoError(t, err)
		assert.True(t, exists)

		_, err = svc.FindOfferByKey(ctx, "poleemploi", "missing")
		assert.Equal(t, jobcatch.ENOTFOUND, jobcatch.ErrorCode(err))

		output := buf.String()
		assert.Contains(t, output, "find offers")
		assert.Contains(t, output, "count=3")
		assert.Contains(t, output, "list sources")
		assert.Contains(t, output, "exists=true")
		assert.Contains(t, output, `msg="find offer"`)
	})
}
