// Package salary decomposes free-text compensation strings into structured
// fields using an ordered table of regular expression rules.
package salary

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/fwojciec/jobcatch"
)

// Ensure Parser implements jobcatch.SalaryParser.
var _ jobcatch.SalaryParser = (*Parser)(nil)

// Field names a capture group of a rule.
type Field string

// Capture targets understood by the interpreter.
const (
	FieldUnit     Field = "unit"
	FieldMin      Field = "min"
	FieldMax      Field = "max"
	FieldPeriods  Field = "periods"
	FieldBonus    Field = "bonus"
	FieldBonusMin Field = "bonusMin"
	FieldBonusMax Field = "bonusMax"
	FieldSkip     Field = ""
)

// Rule is one entry of the cascade. Fields maps capture group i+1 to a
// salary field; FieldSkip ignores a group.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Fields  []Field
}

// DefaultRules is the cascade for French "<unit> de <amount> euros sur
// <n> mois" compensation text. Ranges are tried before single values.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:    "range",
			Pattern: regexp.MustCompile(`^(?s)(.*?) de (.*?),.*? à (.*?),.*? euros sur (.*?) mois(.*)$`),
			Fields:  []Field{FieldUnit, FieldMin, FieldMax, FieldPeriods, FieldBonus},
		},
		{
			Name:    "single",
			Pattern: regexp.MustCompile(`^(?s)(.*?) de (.*?),.*? euros sur (.*?) mois(.*)$`),
			Fields:  []Field{FieldUnit, FieldMin, FieldPeriods, FieldBonus},
		},
	}
}

// DefaultUnits maps board unit labels to month counts.
func DefaultUnits() map[string]jobcatch.SalaryUnit {
	return map[string]jobcatch.SalaryUnit{
		"Annuel":  jobcatch.SalaryUnitAnnual,
		"Mensuel": jobcatch.SalaryUnitMonthly,
	}
}

// Parser evaluates Rules in order; the first matching rule wins.
type Parser struct {
	Rules []Rule
	Units map[string]jobcatch.SalaryUnit
}

// NewParser returns a parser with the default rules and unit table.
func NewParser() *Parser {
	return &Parser{
		Rules: DefaultRules(),
		Units: DefaultUnits(),
	}
}

// Parse returns the salary described by text. Empty or unmatched text
// yields the zero Salary.
func (p *Parser) Parse(text string) jobcatch.Salary {
	var s jobcatch.Salary
	text = strings.TrimSpace(text)
	if text == "" {
		return s
	}

	for _, rule := range p.Rules {
		m := rule.Pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		for i, field := range rule.Fields {
			if i+1 >= len(m) {
				break
			}
			p.assign(&s, field, m[i+1])
		}
		return s
	}
	return s
}

func (p *Parser) assign(s *jobcatch.Salary, field Field, value string) {
	switch field {
	case FieldUnit:
		s.Unit = p.unit(value)
	case FieldMin:
		s.Min = amount(value)
	case FieldMax:
		s.Max = amount(value)
	case FieldPeriods:
		s.PeriodCount = int(amount(value))
	case FieldBonus:
		s.Bonus = strings.TrimSpace(value)
	case FieldBonusMin:
		s.BonusMin = amount(value)
	case FieldBonusMax:
		s.BonusMax = amount(value)
	}
}

func (p *Parser) unit(label string) jobcatch.SalaryUnit {
	label = strings.TrimSpace(label)
	if u, ok := p.Units[label]; ok {
		return u
	}
	return jobcatch.SalaryUnit(label)
}

// amount keeps only the digits of s, so "45 000" and "45.000" both read
// as 45000. Spans without digits read as 0.
func amount(s string) float64 {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	if digits == "" {
		return 0
	}
	n, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0
	}
	return n
}
