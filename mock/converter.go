package mock

import "github.com/fwojciec/jobcatch"

var _ jobcatch.Converter = (*Converter)(nil)

// Converter is a mock implementation of jobcatch.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
