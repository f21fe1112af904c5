package goquery

import (
	"sort"

	"github.com/fwojciec/jobcatch"
)

var _ jobcatch.BoardRegistry = (*Registry)(nil)

// Registry holds the boards known to the pipeline, keyed by name.
type Registry struct {
	boards map[string]jobcatch.Board
}

// NewRegistry creates a Registry holding boards.
func NewRegistry(boards ...jobcatch.Board) *Registry {
	r := &Registry{boards: make(map[string]jobcatch.Board)}
	for _, b := range boards {
		r.Register(b)
	}
	return r
}

// NewDefaultRegistry creates a Registry with every built-in board.
func NewDefaultRegistry(p jobcatch.SalaryParser) *Registry {
	return NewRegistry(NewPoleEmploi(p), NewRegionJob(p))
}

// Get returns the board registered under name.
// Returns nil if no board is registered under name.
func (r *Registry) Get(name string) jobcatch.Board {
	return r.boards[name]
}

// Register adds a board under its Name.
// If a board is already registered under the name, it is replaced.
func (r *Registry) Register(b jobcatch.Board) {
	r.boards[b.Name()] = b
}

// List returns the registered board names in sorted order.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.boards))
	for name := range r.boards {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
