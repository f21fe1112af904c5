package sqlite

import (
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/fwojciec/jobcatch"
)

var sourceName = regexp.MustCompile(`^[a-z0-9_]+$`)

// tableName returns the offer table of source. Source names are spliced
// into SQL, so anything outside [a-z0-9_] is rejected.
func tableName(source string) (string, error) {
	if !sourceName.MatchString(source) {
		return "", jobcatch.Errorf(jobcatch.EINVALID, "invalid source name %q", source)
	}
	return "offers_" + source, nil
}

// parseRFC3339 parses an RFC3339 formatted timestamp string.
// Returns an error if parsing fails with a descriptive message including the field name.
func parseRFC3339(value, fieldName string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	return t, nil
}

func formatRFC3339(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// appendPagination appends LIMIT and OFFSET clauses to a query builder if values are > 0.
func appendPagination(query *strings.Builder, args *[]any, limit, offset int) {
	if limit > 0 {
		query.WriteString(" LIMIT ?")
		*args = append(*args, limit)
	} else if offset > 0 {
		query.WriteString(" LIMIT -1")
	}
	if offset > 0 {
		query.WriteString(" OFFSET ?")
		*args = append(*args, offset)
	}
}
