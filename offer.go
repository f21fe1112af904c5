package jobcatch

import (
	"context"
	"time"
)

// State is the lifecycle flag of a stored offer.
type State string

// Offer states.
const (
	StateActive   State = "ACTIVE"
	StateDisabled State = "DISABLED"
)

// Valid reports whether s is a known state.
func (s State) Valid() bool {
	return s == StateActive || s == StateDisabled
}

// Offer is the canonical record of one job posting.
type Offer struct {
	Source        string    `json:"source"`
	OfferID       string    `json:"offerId,omitempty"`
	Ref           string    `json:"ref,omitempty"`
	FeedID        string    `json:"feedId,omitempty"`
	URL           string    `json:"url"`
	Title         string    `json:"title"`
	Company       string    `json:"company"`
	Contract      string    `json:"contract,omitempty"`
	Location      string    `json:"location,omitempty"`
	Department    *string   `json:"department"`
	Description   string    `json:"description,omitempty"`
	SalaryRaw     *string   `json:"salaryRaw"`
	Salary        Salary    `json:"salary"`
	DatePublished time.Time `json:"datePublished"`
	DateIngested  time.Time `json:"dateIngested"`
	LastUpdate    time.Time `json:"lastUpdate"`
	State         State     `json:"state"`
}

// Key returns the persistence key of the offer within its source:
// the board-assigned offer ID, or the board reference when no ID exists.
func (o *Offer) Key() string {
	if o.OfferID != "" {
		return o.OfferID
	}
	return o.Ref
}

// Validate returns an error if the offer cannot be persisted.
func (o *Offer) Validate() error {
	if o.Source == "" {
		return Errorf(EINVALID, "offer source required")
	}
	if o.Key() == "" {
		return Errorf(EINVALID, "offer key required")
	}
	if o.Company == "" {
		return Errorf(EINVALID, "offer company required")
	}
	if !o.State.Valid() {
		return Errorf(EINVALID, "offer state %q invalid", o.State)
	}
	return nil
}

// UpsertResult is the outcome of an idempotent insert.
type UpsertResult int

// Possible UpsertIfAbsent outcomes.
const (
	Inserted UpsertResult = iota + 1
	AlreadyExists
)

// String returns a lower-case label for the result.
func (r UpsertResult) String() string {
	switch r {
	case Inserted:
		return "inserted"
	case AlreadyExists:
		return "already_exists"
	}
	return "unknown"
}

// OfferService represents a service for persisting offers.
type OfferService interface {
	// EnsureSource creates storage for a source if it does not exist yet.
	EnsureSource(ctx context.Context, source string) error

	// UpsertIfAbsent inserts the offer unless its key is already stored.
	// A duplicate key is not an error: it returns AlreadyExists and leaves
	// the stored record untouched.
	UpsertIfAbsent(ctx context.Context, offer *Offer) (UpsertResult, error)

	// Exists reports whether an offer with the key is stored for the source.
	Exists(ctx context.Context, source, key string) (bool, error)

	// SetState changes the lifecycle state of a stored offer.
	// Returns ENOTFOUND if the offer does not exist.
	SetState(ctx context.Context, source, key string, state State) error

	// FindOfferByKey retrieves an offer by source and key.
	// Returns ENOTFOUND if the offer does not exist.
	FindOfferByKey(ctx context.Context, source, key string) (*Offer, error)

	// FindOffers retrieves offers of one source matching the filter.
	FindOffers(ctx context.Context, filter OfferFilter) ([]*Offer, error)

	// Sources returns the sources that have storage.
	Sources(ctx context.Context) ([]string, error)
}

// OfferFilter represents a filter for FindOffers.
type OfferFilter struct {
	Source string  `json:"source"`
	State  *State  `json:"state"`
	URL    *string `json:"url"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
