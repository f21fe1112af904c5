package jobcatch

import "context"

// Fetcher retrieves raw documents from job boards.
type Fetcher interface {
	// Fetch returns the decoded body of the document at url.
	// A missing document yields ENOTFOUND.
	Fetch(ctx context.Context, url string) (string, error)
}

// DomainLimiter throttles requests per host.
type DomainLimiter interface {
	// Wait blocks until a request to domain is allowed or ctx is done.
	Wait(ctx context.Context, domain string) error
}
