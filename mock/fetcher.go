package mock

import (
	"context"

	"github.com/fwojciec/jobcatch"
)

var (
	_ jobcatch.Fetcher       = (*Fetcher)(nil)
	_ jobcatch.DomainLimiter = (*DomainLimiter)(nil)
)

// Fetcher is a mock implementation of jobcatch.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

// DomainLimiter is a mock implementation of jobcatch.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
