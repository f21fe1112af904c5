package mock

import "github.com/fwojciec/jobcatch"

var _ jobcatch.SalaryParser = (*SalaryParser)(nil)

// SalaryParser is a mock implementation of jobcatch.SalaryParser.
type SalaryParser struct {
	ParseFn func(text string) jobcatch.Salary
}

func (p *SalaryParser) Parse(text string) jobcatch.Salary {
	return p.ParseFn(text)
}
