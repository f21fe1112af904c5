package jobcatch

import (
	"sort"
	"strings"
)

// Field names carried by RawFields.
const (
	FieldOfferID       = "offerId"
	FieldRef           = "ref"
	FieldFeedID        = "feedId"
	FieldURL           = "url"
	FieldTitle         = "title"
	FieldCompany       = "company"
	FieldContract      = "contract"
	FieldLocation      = "location"
	FieldSalary        = "salary"
	FieldDatePublished = "datePublished"
	FieldDescription   = "description"
	FieldFetchedAt     = "fetchedAt"
)

// RawFields is the immutable set of strings a board adapter pulled out of
// one detail page, together with the salary parsed from the salary field.
type RawFields struct {
	values map[string]string
	Salary Salary
}

// NewRawFields returns RawFields holding a copy of values.
// Blank values are dropped so a present field is always non-empty.
func NewRawFields(values map[string]string, salary Salary) RawFields {
	m := make(map[string]string, len(values))
	for k, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		m[k] = v
	}
	return RawFields{values: m, Salary: salary}
}

// Get returns the value of a field and whether it was present.
func (f RawFields) Get(name string) (string, bool) {
	v, ok := f.values[name]
	return v, ok
}

// Value returns the value of a field or the empty string.
func (f RawFields) Value(name string) string {
	return f.values[name]
}

// Names returns the present field names in sorted order.
func (f RawFields) Names() []string {
	names := make([]string, 0, len(f.values))
	for k := range f.values {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of present fields.
func (f RawFields) Len() int {
	return len(f.values)
}
