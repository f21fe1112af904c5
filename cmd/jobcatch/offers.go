package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/jobcatch"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	filter := jobcatch.OfferFilter{Source: c.Board, Limit: c.Limit, Offset: c.Offset}
	if c.State != "" {
		state := jobcatch.State(c.State)
		if !state.Valid() {
			return deps.fail(jobcatch.Errorf(jobcatch.EINVALID, "invalid state %q", c.State))
		}
		filter.State = &state
	}

	offers, err := deps.Offers.FindOffers(deps.Ctx, filter)
	if err != nil {
		return deps.fail(err)
	}

	if len(offers) == 0 {
		fmt.Fprintf(deps.Stdout, "No offers found. Use 'jobcatch ingest %s' to load some.\n", c.Board)
		return nil
	}

	for _, o := range offers {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %s  %s\n",
			o.Key(), o.State, o.DatePublished.Format("2006-01-02"), o.Company, o.Title)
	}
	return nil
}

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	offer, err := deps.Offers.FindOfferByKey(deps.Ctx, c.Board, c.Key)
	if err != nil {
		return deps.fail(err)
	}

	enc := json.NewEncoder(deps.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(offer)
}

// Run executes the state command.
func (c *StateCmd) Run(deps *Dependencies) error {
	if err := deps.Offers.SetState(deps.Ctx, c.Board, c.Key, jobcatch.State(c.State)); err != nil {
		return deps.fail(err)
	}
	fmt.Fprintf(deps.Stdout, "%s/%s is now %s\n", c.Board, c.Key, c.State)
	return nil
}

// Run executes the sources command.
func (c *SourcesCmd) Run(deps *Dependencies) error {
	sources, err := deps.Offers.Sources(deps.Ctx)
	if err != nil {
		return deps.fail(err)
	}
	if len(sources) == 0 {
		fmt.Fprintln(deps.Stdout, "No sources yet. Use 'jobcatch ingest <board>' to create one.")
		return nil
	}
	for _, s := range sources {
		fmt.Fprintln(deps.Stdout, s)
	}
	return nil
}

// Run executes the boards command.
func (c *BoardsCmd) Run(deps *Dependencies) error {
	for _, name := range deps.Boards.List() {
		fmt.Fprintln(deps.Stdout, name)
	}
	return nil
}
