package jobcatch

import "strconv"

// SalaryUnit is the pay period of a salary. Numeric units give the number
// of months the amount covers; any other value is an opaque board label.
type SalaryUnit string

// Known salary units.
const (
	SalaryUnitNone    SalaryUnit = ""
	SalaryUnitMonthly SalaryUnit = "1"
	SalaryUnitAnnual  SalaryUnit = "12"
)

// Months returns the number of months covered by the unit.
// The bool result is false for the empty unit and for opaque labels.
func (u SalaryUnit) Months() (int, bool) {
	n, err := strconv.Atoi(string(u))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// Salary holds the structured fields parsed out of a compensation string.
// Numeric fields are 0 and text fields are empty when unknown.
type Salary struct {
	Unit        SalaryUnit `json:"unit"`
	Min         float64    `json:"min"`
	Max         float64    `json:"max"`
	PeriodCount int        `json:"periodCount"`
	Bonus       string     `json:"bonus"`
	BonusMin    float64    `json:"bonusMin"`
	BonusMax    float64    `json:"bonusMax"`
}

// MonthlyMin returns the minimum converted to a monthly amount.
// The bool result is false when the unit is not numeric.
func (s Salary) MonthlyMin() (float64, bool) {
	months, ok := s.Unit.Months()
	if !ok {
		return 0, false
	}
	return s.Min / float64(months), true
}

// SalaryParser decomposes free-text compensation into structured fields.
type SalaryParser interface {
	// Parse never fails: unparseable text yields the zero Salary.
	Parse(text string) Salary
}
