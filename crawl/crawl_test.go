package crawl_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/jobcatch"
	"github.com/fwojciec/jobcatch/crawl"
	"github.com/fwojciec/jobcatch/fs"
	"github.com/fwojciec/jobcatch/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// listBoard treats every line of a feed as an offer page URL.
func listBoard() *mock.Board {
	return &mock.Board{
		NameFn:     func() string { return "list" },
		FeedGlobFn: func() string { return "*.feed" },
		DiscoverURLsFn: func(feed *jobcatch.PageDocument) ([]jobcatch.FeedLink, error) {
			if feed.Content == "garbage" {
				return nil, jobcatch.Errorf(jobcatch.EINVALID, "failed to parse feed")
			}
			var links []jobcatch.FeedLink
			for _, line := range strings.Fields(feed.Content) {
				links = append(links, jobcatch.FeedLink{SourceFeedID: feed.SourceFeedID, URL: line})
			}
			return links, nil
		},
	}
}

type site struct {
	mu      sync.Mutex
	docs    map[string]string
	fetched []string
}

func (s *site) fetcher() *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (string, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.fetched = append(s.fetched, url)
			body, ok := s.docs[url]
			if !ok {
				return "", jobcatch.Errorf(jobcatch.ENOTFOUND, "HTTP 404 for %s", url)
			}
			return body, nil
		},
	}
}

func TestCrawler_Crawl(t *testing.T) {
	t.Parallel()

	fetchedAt := time.Date(2014, 4, 3, 7, 0, 0, 0, time.UTC)

	t.Run("stages feeds and listed pages", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		staging := fs.NewStaging(t.TempDir())
		s := &site{docs: map[string]string{
			"http://board.test/feed/lyon":  "http://board.test/o/1\nhttp://board.test/o/2",
			"http://board.test/feed/paris": "http://board.test/o/2\nhttp://board.test/o/3",
			"http://board.test/o/1":        "<p>one</p>",
			"http://board.test/o/2":        "<p>two</p>",
		}}

		c := &crawl.Crawler{
			Fetcher:   s.fetcher(),
			Documents: staging,
			Stager:    staging,
			Now:       func() time.Time { return fetchedAt },
		}

		result, err := c.Crawl(ctx, listBoard(), []crawl.Feed{
			{ID: "lyon", URL: "http://board.test/feed/lyon"},
			{ID: "paris", URL: "http://board.test/feed/paris"},
		})

		require.NoError(t, err)
		assert.Equal(t, 2, result.Feeds)
		assert.Equal(t, 2, result.Pages)
		require.Len(t, result.Failed, 1)
		assert.Equal(t, "http://board.test/o/3", result.Failed[0].URL)

		feeds, err := staging.Feeds(ctx, listBoard())
		require.NoError(t, err)
		require.Len(t, feeds, 2)
		assert.Equal(t, "lyon", feeds[0].SourceFeedID)
		assert.Equal(t, fetchedAt, feeds[0].FetchedAt)

		page, err := staging.Page(ctx, "list", "http://board.test/o/2")
		require.NoError(t, err)
		assert.Equal(t, "<p>two</p>", page.Content)
		assert.Equal(t, "lyon", page.SourceFeedID, "first feed listing a page wins")
		assert.Equal(t, fetchedAt, page.FetchedAt)
	})

	t.Run("skips staged pages unless refreshing", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		staging := fs.NewStaging(t.TempDir())
		require.NoError(t, staging.PutPage(ctx, "list", &jobcatch.PageDocument{URL: "http://board.test/o/1", Content: "old"}))

		s := &site{docs: map[string]string{
			"http://board.test/feed": "http://board.test/o/1",
			"http://board.test/o/1":  "new",
		}}
		c := &crawl.Crawler{Fetcher: s.fetcher(), Documents: staging, Stager: staging}
		feeds := []crawl.Feed{{ID: "all", URL: "http://board.test/feed"}}

		result, err := c.Crawl(ctx, listBoard(), feeds)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Skipped)
		assert.Equal(t, 0, result.Pages)

		c.Refresh = true
		result, err = c.Crawl(ctx, listBoard(), feeds)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Pages)

		page, err := staging.Page(ctx, "list", "http://board.test/o/1")
		require.NoError(t, err)
		assert.Equal(t, "new", page.Content)
	})

	t.Run("records unreadable feeds", func(t *testing.T) {
		t.Parallel()

		staging := fs.NewStaging(t.TempDir())
		s := &site{docs: map[string]string{"http://board.test/bad": "garbage"}}
		c := &crawl.Crawler{Fetcher: s.fetcher(), Documents: staging, Stager: staging}

		result, err := c.Crawl(context.Background(), listBoard(), []crawl.Feed{
			{ID: "bad", URL: "http://board.test/bad"},
			{ID: "gone", URL: "http://board.test/gone"},
		})

		require.NoError(t, err)
		assert.Equal(t, 1, result.Feeds)
		assert.Equal(t, []crawl.Failure{
			{URL: "http://board.test/bad", Reason: "failed to parse feed"},
			{URL: "http://board.test/gone", Reason: "jobcatch error: code=not_found message=HTTP 404 for http://board.test/gone"},
		}, result.Failed)
	})

	t.Run("waits on the limiter per host", func(t *testing.T) {
		t.Parallel()

		staging := fs.NewStaging(t.TempDir())
		s := &site{docs: map[string]string{
			"http://board.test/feed": "http://offers.test/o/1",
			"http://offers.test/o/1": "x",
		}}
		var mu sync.Mutex
		var hosts []string
		limiter := &mock.DomainLimiter{WaitFn: func(_ context.Context, domain string) error {
			mu.Lock()
			defer mu.Unlock()
			hosts = append(hosts, domain)
			return nil
		}}
		c := &crawl.Crawler{Fetcher: s.fetcher(), Limiter: limiter, Documents: staging, Stager: staging}

		_, err := c.Crawl(context.Background(), listBoard(), []crawl.Feed{{ID: "f", URL: "http://board.test/feed"}})

		require.NoError(t, err)
		assert.Equal(t, []string{"board.test", "offers.test"}, hosts)
	})

	t.Run("staging write failure aborts", func(t *testing.T) {
		t.Parallel()

		s := &site{docs: map[string]string{"http://board.test/feed": ""}}
		stager := &mock.DocumentStager{
			PutFeedFn: func(context.Context, string, *jobcatch.PageDocument) error {
				return errors.New("no space left on device")
			},
		}
		c := &crawl.Crawler{Fetcher: s.fetcher(), Stager: stager}

		_, err := c.Crawl(context.Background(), listBoard(), []crawl.Feed{{ID: "f", URL: "http://board.test/feed"}})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no space left on device")
	})
}
