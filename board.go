package jobcatch

import (
	"errors"
	"fmt"
)

// Board extracts offers from the documents published by one job board.
// Implementations hold no mutable state and are safe for concurrent use.
type Board interface {
	// Name returns the source identifier, e.g. "poleemploi".
	Name() string

	// FeedGlob returns the file pattern staged feed documents must match.
	FeedGlob() string

	// OfferKey derives the offer key from a detail URL when the board
	// encodes it there. Returns false when the key is only known after
	// extraction.
	OfferKey(url string) (string, bool)

	// DiscoverURLs returns the detail page links found in a feed document,
	// deduplicated and in document order. Only an unreadable document is
	// an error.
	DiscoverURLs(feed *PageDocument) ([]FeedLink, error)

	// ExtractOffer pulls the raw fields out of a detail page.
	// Missing mandatory sections are reported as *ExtractionFailure.
	ExtractOffer(page *PageDocument) (RawFields, error)
}

// BoardRegistry looks up boards by name.
type BoardRegistry interface {
	// Get returns the board registered under name, or nil.
	Get(name string) Board

	// List returns the registered board names in sorted order.
	List() []string
}

// ExtractionFailure reports that a detail page lacks a mandatory section.
// Disable is set when the page no longer carries an offer at all, which
// signals the stored offer should be marked DISABLED.
type ExtractionFailure struct {
	URL     string
	Reason  string
	Disable bool
}

func (e *ExtractionFailure) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("extraction failed: %s", e.Reason)
	}
	return fmt.Sprintf("extraction failed: %s: %s", e.URL, e.Reason)
}

// IsDisableSignal reports whether err carries an ExtractionFailure that
// requests the offer be disabled.
func IsDisableSignal(err error) bool {
	var f *ExtractionFailure
	return errors.As(err, &f) && f.Disable
}

// OfferBuilder turns raw fields into a canonical offer.
type OfferBuilder interface {
	// Build returns a *Rejection when the fields do not form a valid offer.
	Build(fields RawFields, source string) (*Offer, error)
}

// Rejection reports that extracted fields do not form a valid offer.
type Rejection struct {
	Reason string
}

func (e *Rejection) Error() string {
	return fmt.Sprintf("offer rejected: %s", e.Reason)
}
