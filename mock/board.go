package mock

import "github.com/fwojciec/jobcatch"

var (
	_ jobcatch.Board         = (*Board)(nil)
	_ jobcatch.BoardRegistry = (*BoardRegistry)(nil)
)

// Board is a mock implementation of jobcatch.Board.
type Board struct {
	NameFn         func() string
	FeedGlobFn     func() string
	OfferKeyFn     func(url string) (string, bool)
	DiscoverURLsFn func(feed *jobcatch.PageDocument) ([]jobcatch.FeedLink, error)
	ExtractOfferFn func(page *jobcatch.PageDocument) (jobcatch.RawFields, error)
}

func (b *Board) Name() string {
	return b.NameFn()
}

func (b *Board) FeedGlob() string {
	return b.FeedGlobFn()
}

func (b *Board) OfferKey(url string) (string, bool) {
	return b.OfferKeyFn(url)
}

func (b *Board) DiscoverURLs(feed *jobcatch.PageDocument) ([]jobcatch.FeedLink, error) {
	return b.DiscoverURLsFn(feed)
}

func (b *Board) ExtractOffer(page *jobcatch.PageDocument) (jobcatch.RawFields, error) {
	return b.ExtractOfferFn(page)
}

// BoardRegistry is a mock implementation of jobcatch.BoardRegistry.
type BoardRegistry struct {
	GetFn  func(name string) jobcatch.Board
	ListFn func() []string
}

func (r *BoardRegistry) Get(name string) jobcatch.Board {
	return r.GetFn(name)
}

func (r *BoardRegistry) List() []string {
	return r.ListFn()
}

var _ jobcatch.OfferBuilder = (*OfferBuilder)(nil)

// OfferBuilder is a mock implementation of jobcatch.OfferBuilder.
type OfferBuilder struct {
	BuildFn func(fields jobcatch.RawFields, source string) (*jobcatch.Offer, error)
}

func (b *OfferBuilder) Build(fields jobcatch.RawFields, source string) (*jobcatch.Offer, error) {
	return b.BuildFn(fields, source)
}
