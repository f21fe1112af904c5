package slog_test

import (
	"bytes"
	"testing"

	"github.com/fwojciec/jobcatch"
	"github.com/fwojciec/jobcatch/mock"
	jcslog "github.com/fwojciec/jobcatch/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func poleBoard() *mock.Board {
	return &mock.Board{
		NameFn:     func() string { return "poleemploi" },
		FeedGlobFn: func() string { return "*.feed" },
		OfferKeyFn: func(url string) (string, bool) { return "042XYZ", true },
		DiscoverURLsFn: func(feed *jobcatch.PageDocument) ([]jobcatch.FeedLink, error) {
			return []jobcatch.FeedLink{{SourceFeedID: feed.SourceFeedID, URL: "http://a"}, {SourceFeedID: feed.SourceFeedID, URL: "http://b"}}, nil
		},
		ExtractOfferFn: func(page *jobcatch.PageDocument) (jobcatch.RawFields, error) {
			if page.Content == "" {
				return jobcatch.RawFields{}, &jobcatch.ExtractionFailure{URL: page.URL, Reason: "content block not found", Disable: true}
			}
			return jobcatch.NewRawFields(map[string]string{jobcatch.FieldTitle: "Soudeur", jobcatch.FieldCompany: "ACME"}, jobcatch.Salary{}), nil
		},
	}
}

func TestLoggingBoard(t *testing.T) {
	t.Parallel()

	t.Run("delegates identity methods", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		board := jcslog.NewLoggingBoard(poleBoard(), debugLogger(&buf))

		assert.Equal(t, "poleemploi", board.Name())
		assert.Equal(t, "*.feed", board.FeedGlob())
		key, ok := board.OfferKey("http://x/detail/042XYZ")
		assert.True(t, ok)
		assert.Equal(t, "042XYZ", key)
		assert.Empty(t, buf.String())
	})

	t.Run("logs discovery count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		board := jcslog.NewLoggingBoard(poleBoard(), debugLogger(&buf))

		links, err := board.DiscoverURLs(&jobcatch.PageDocument{SourceFeedID: "lyon"})

		require.NoError(t, err)
		assert.Len(t, links, 2)
		output := buf.String()
		assert.Contains(t, output, "discover urls")
		assert.Contains(t, output, "source=poleemploi")
		assert.Contains(t, output, "feed=lyon")
		assert.Contains(t, output, "count=2")
	})

	t.Run("logs extracted field count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		board := jcslog.NewLoggingBoard(poleBoard(), debugLogger(&buf))

		fields, err := board.ExtractOffer(&jobcatch.PageDocument{URL: "http://a", Content: "<html/>"})

		require.NoError(t, err)
		assert.Equal(t, 2, fields.Len())
		output := buf.String()
		assert.Contains(t, output, "extract offer")
		assert.Contains(t, output, "fields=2")
		assert.NotContains(t, output, "disable=true")
	})

	t.Run("flags disable signals", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		board := jcslog.NewLoggingBoard(poleBoard(), debugLogger(&buf))

		_, err := board.ExtractOffer(&jobcatch.PageDocument{URL: "http://a"})

		require.Error(t, err)
		assert.True(t, jobcatch.IsDisableSignal(err))
		output := buf.String()
		assert.Contains(t, output, "disable=true")
		assert.Contains(t, output, "content block not found")
	})
}
